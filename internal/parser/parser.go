package parser

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/token"
)

// Parser is a recursive descent parser with Pratt-style expression parsing.
// It works on a fully lexed token slice so it can rewind after speculative
// parses (arrow functions, function types, call type arguments).
type Parser struct {
	toks   []token.Token
	pos    int
	ids    *ast.IDGen
	errors []*diagnostics.DiagnosticError
	ctx    *pipeline.PipelineContext
}

// bailout unwinds a statement after a syntax error.
type bailout struct{}

func New(toks []token.Token, ctx *pipeline.PipelineContext) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		toks = append(toks, token.Token{Type: token.EOF})
	}
	ids := ctx.IDs
	if ids == nil {
		ids = &ast.IDGen{}
	}
	return &Parser{toks: toks, ids: ids, ctx: ctx}
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errors }

// ParseProgram parses the whole token stream. Statements that fail to parse
// are reported and skipped.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Base: p.base(p.cur())}
	for !p.at(token.EOF) {
		if stmt := p.parseStatementRecover(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	prog.SetEnd(p.prevEnd())
	return prog
}

func (p *Parser) parseStatementRecover() (stmt ast.Statement) {
	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stmt = nil
			p.synchronize(start)
		}
	}()
	return p.parseStatement()
}

// synchronize skips to the start of the next statement.
func (p *Parser) synchronize(start int) {
	if p.pos == start {
		p.next()
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.cur().Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.next()
				return
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.next()
				return
			}
		}
		if depth == 0 && p.cur().NewlineBefore && p.pos > start {
			return
		}
		p.next()
	}
}

// --- token access ---

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peek(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(t token.TokenType) bool { return p.cur().Type == t }

// atWord reports whether the current token is the contextual word w.
func (p *Parser) atWord(w string) bool {
	tok := p.cur()
	return tok.Type == token.IDENT && tok.Lexeme == w
}

func (p *Parser) accept(t token.TokenType) bool {
	if p.at(t) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t token.TokenType) token.Token {
	if !p.at(t) {
		p.failf(diagnostics.ErrP001, p.cur(), "%s, expected %s", describe(p.cur()), t)
	}
	return p.next()
}

func (p *Parser) expectWord(w string) token.Token {
	if !p.atWord(w) {
		p.failf(diagnostics.ErrP001, p.cur(), "%s, expected %s", describe(p.cur()), w)
	}
	return p.next()
}

// consumeSemicolon implements automatic semicolon insertion.
func (p *Parser) consumeSemicolon() {
	if p.accept(token.SEMICOLON) {
		return
	}
	tok := p.cur()
	if tok.Type == token.RBRACE || tok.Type == token.EOF || tok.NewlineBefore {
		return
	}
	p.failf(diagnostics.ErrP001, tok, "%s, expected ;", describe(tok))
}

func (p *Parser) prevEnd() token.Position {
	if p.pos == 0 {
		return p.cur().Pos()
	}
	return p.toks[p.pos-1].EndPos()
}

func (p *Parser) base(tok token.Token) ast.Base {
	return ast.Base{ID: p.ids.Next(), Token: tok}
}

// --- errors ---

func (p *Parser) failf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	p.errorf(code, tok, format, args...)
	panic(bailout{})
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	err := diagnostics.NewError(code, tok, sprintf(format, args...))
	err.File = p.ctx.FilePath
	p.errors = append(p.errors, err)
}

// speculate runs fn and rewinds on a syntax error. Errors raised during a
// failed attempt are discarded.
func speculate[T any](p *Parser, fn func() T) (result T, ok bool) {
	pos, nerr := p.pos, len(p.errors)
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			p.pos = pos
			p.errors = p.errors[:nerr]
			var zero T
			result, ok = zero, false
		}
	}()
	return fn(), true
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of file"
	}
	return "'" + tok.Lexeme + "'"
}
