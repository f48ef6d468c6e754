package lexer

import (
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = Tokenize(ctx.SourceCode)
	for _, tok := range ctx.Tokens {
		if tok.Type == token.ILLEGAL {
			ctx.AddError(diagnostics.NewError(diagnostics.ErrP002, tok, tok.Lexeme))
		}
	}
	return ctx
}
