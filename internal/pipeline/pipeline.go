package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/memo"
)

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to a Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages keep running after diagnostics so every
// stage can report; an invariant failure inside a stage, or a stage setting
// ctx.Err, stops this file and is returned as an error.
func (p *Pipeline) Run(initialCtx *PipelineContext) (ctx *PipelineContext, err error) {
	ctx = initialCtx
	log := ctx.Log().With(zap.String("file", ctx.FilePath))

	for _, processor := range p.processors {
		stage := stageName(processor)
		start := time.Now()
		ctx, err = runStage(processor, ctx)
		if err == nil {
			err = ctx.Err
		}
		if err != nil {
			log.Error("stage failed", zap.String("stage", stage), zap.Error(err))
			return ctx, fmt.Errorf("%s: %s: %w", ctx.FilePath, stage, err)
		}
		log.Debug("stage done",
			zap.String("stage", stage),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("errors", len(ctx.Errors)))
	}
	return ctx, nil
}

func runStage(processor Processor, in *PipelineContext) (out *PipelineContext, err error) {
	out = in
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var inv *memo.InvariantError
		if e, ok := r.(error); ok && errors.As(e, &inv) {
			err = e
			return
		}
		panic(r)
	}()
	return processor.Process(in), nil
}

func stageName(p Processor) string {
	name := fmt.Sprintf("%T", p)
	name = strings.TrimPrefix(name, "*")
	return name
}
