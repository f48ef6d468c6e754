package parser

import (
	"fmt"

	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil"))
		return ctx
	}

	parser := New(ctx.Tokens, ctx)
	prog := parser.ParseProgram()
	prog.File = ctx.FilePath
	ctx.AstRoot = prog
	ctx.Original = prog

	for _, err := range parser.Errors() {
		ctx.AddError(err)
	}
	return ctx
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
