package classifier

import (
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/pipeline"
)

// ClassifierProcessor fills ctx.Memo.Tables from the tree as parsed.
type ClassifierProcessor struct{}

func (cp *ClassifierProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}
	if ctx.Memo == nil {
		ctx.Memo = memo.NewContext(ctx.FilePath, ctx.Resolver, nil, ctx.Options)
	}
	New(ctx.Memo.Tables, ctx.Memo.Resolver).Classify(ctx.AstRoot)
	return ctx
}
