package rewriter

import (
	"github.com/funvibe/memoc/internal/pipeline"
)

// Rewriting only runs on files without diagnostics.
func skip(ctx *pipeline.PipelineContext) bool {
	return ctx.AstRoot == nil || ctx.Memo == nil || ctx.HasErrors()
}

type FunctionProcessor struct{}

func (fp *FunctionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if skip(ctx) {
		return ctx
	}
	ctx.AstRoot = NewFunctionRewriter(ctx.Memo).Rewrite(ctx.AstRoot)
	return ctx
}

type ParamsProcessor struct{}

func (pp *ParamsProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if skip(ctx) {
		return ctx
	}
	ctx.AstRoot = NewParamRewriter(ctx.Memo).Rewrite(ctx.AstRoot)
	return ctx
}

type ThisProcessor struct{}

func (tp *ThisProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if skip(ctx) {
		return ctx
	}
	ctx.AstRoot = NewThisRewriter(ctx.Memo).Rewrite(ctx.AstRoot)
	return ctx
}

type ReturnsProcessor struct{}

func (rp *ReturnsProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if skip(ctx) {
		return ctx
	}
	ctx.AstRoot = NewReturnRewriter(ctx.Memo).Rewrite(ctx.AstRoot)
	return ctx
}
