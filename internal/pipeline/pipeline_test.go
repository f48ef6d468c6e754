package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/token"
)

func stage(fn func(ctx *pipeline.PipelineContext)) pipeline.Processor {
	return pipeline.ProcessorFunc(func(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
		fn(ctx)
		return ctx
	})
}

func TestStagesRunInOrderAndKeepGoingOnDiagnostics(t *testing.T) {
	var order []int
	p := pipeline.New(
		stage(func(ctx *pipeline.PipelineContext) {
			order = append(order, 1)
			ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, token.Token{Line: 1, Column: 1}, "x"))
		}),
		stage(func(ctx *pipeline.PipelineContext) { order = append(order, 2) }),
	)
	ctx, err := p.Run(&pipeline.PipelineContext{FilePath: "a.ts"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, "a.ts", ctx.Errors[0].File)
	assert.True(t, ctx.HasErrors())
}

func TestInvariantFailureStopsFile(t *testing.T) {
	ran := false
	node := &ast.Identifier{Value: "x"}
	p := pipeline.New(
		stage(func(ctx *pipeline.PipelineContext) { memo.Failf(node, "bad %s", "shape") }),
		stage(func(ctx *pipeline.PipelineContext) { ran = true }),
	)
	_, err := p.Run(&pipeline.PipelineContext{FilePath: "a.ts"})
	require.Error(t, err)
	assert.False(t, ran)

	var inv *memo.InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "bad shape", inv.Message)
	assert.Contains(t, err.Error(), "a.ts")
}

func TestOtherPanicsPropagate(t *testing.T) {
	p := pipeline.New(stage(func(ctx *pipeline.PipelineContext) { panic("boom") }))
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = p.Run(&pipeline.PipelineContext{})
	})
}

func TestStageErrorStopsFile(t *testing.T) {
	ran := false
	failure := errors.New("disk full")
	p := pipeline.New(
		stage(func(ctx *pipeline.PipelineContext) { ctx.Err = failure }),
		stage(func(ctx *pipeline.PipelineContext) { ran = true }),
	)
	_, err := p.Run(&pipeline.PipelineContext{FilePath: "a.ts"})
	assert.ErrorIs(t, err, failure)
	assert.False(t, ran)
}

func TestStagesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := pipeline.New(stage(func(ctx *pipeline.PipelineContext) {}))
	_, err := p.Run(&pipeline.PipelineContext{FilePath: "a.ts", Logger: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessage("stage done").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a.ts", fields["file"])
	assert.Equal(t, "pipeline.ProcessorFunc", fields["stage"])
}
