package checker

import (
	"github.com/funvibe/memoc/internal/pipeline"
)

// CheckerProcessor appends the rule diagnostics of the file to ctx.Errors.
type CheckerProcessor struct{}

func (cp *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Memo == nil || ctx.HasErrors() {
		return ctx
	}
	for _, err := range New(ctx.Memo).Check(ctx.AstRoot) {
		ctx.AddError(err)
	}
	return ctx
}
