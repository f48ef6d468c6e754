package parser

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	if p.at(token.AT) && p.annotationsPrefixDeclaration() {
		annots := p.parseAnnotations()
		return p.parseDeclaration(annots)
	}

	switch p.cur().Type {
	case token.IMPORT:
		if p.peek(1).Type != token.LPAREN && p.peek(1).Type != token.DOT {
			return p.parseImport()
		}
	case token.EXPORT, token.FUNCTION, token.CLASS, token.INTERFACE, token.LET, token.CONST, token.VAR:
		return p.parseDeclaration(nil)
	case token.IDENT:
		if p.atTypeAlias() || (p.atWord("declare") && !p.peek(1).NewlineBefore && p.peek(1).Type != token.LPAREN) {
			return p.parseDeclaration(nil)
		}
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		tok := p.next()
		stmt := &ast.ThrowStatement{Base: p.base(tok), Value: p.parseExpression()}
		p.consumeSemicolon()
		stmt.SetEnd(p.prevEnd())
		return stmt
	case token.BREAK:
		stmt := &ast.BreakStatement{Base: p.base(p.next())}
		p.consumeSemicolon()
		stmt.SetEnd(p.prevEnd())
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Base: p.base(p.next())}
		p.consumeSemicolon()
		stmt.SetEnd(p.prevEnd())
		return stmt
	case token.SEMICOLON:
		return &ast.EmptyStatement{Base: p.base(p.next())}
	}
	return p.parseExpressionStatement()
}

// annotationsPrefixDeclaration looks past a run of annotations and reports
// whether a declaration follows. Annotated expressions (arrows) are parsed as
// expressions.
func (p *Parser) annotationsPrefixDeclaration() bool {
	i := 0
	for p.peek(i).Type == token.AT {
		i += 2
	}
	tok := p.peek(i)
	switch tok.Type {
	case token.EXPORT, token.FUNCTION, token.CLASS, token.INTERFACE, token.LET, token.CONST, token.VAR:
		return true
	case token.IDENT:
		return tok.Lexeme == "declare" || (tok.Lexeme == "type" && p.peek(i+1).Type == token.IDENT)
	}
	return false
}

func (p *Parser) atTypeAlias() bool {
	return p.atWord("type") && p.peek(1).Type == token.IDENT && !p.peek(1).NewlineBefore
}

// parseAnnotations parses a run of decorators: @memo @memo_stable
func (p *Parser) parseAnnotations() []*ast.Annotation {
	var annots []*ast.Annotation
	for p.at(token.AT) {
		at := p.next()
		name := p.cur()
		if name.Type != token.IDENT && !token.IsKeyword(name.Type) {
			p.failf(diagnostics.ErrP001, name, "%s, expected annotation name", describe(name))
		}
		p.next()
		a := &ast.Annotation{Base: p.base(at), Name: name.Lexeme}
		a.SetEnd(p.prevEnd())
		annots = append(annots, a)
	}
	return annots
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Base: p.base(p.expect(token.LBRACE))}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if stmt := p.parseStatementRecover(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(token.RBRACE)
	block.SetEnd(p.prevEnd())
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression()
	stmt := &ast.ExpressionStatement{Base: p.base(tok), Expression: expr}
	p.consumeSemicolon()
	stmt.SetEnd(p.prevEnd())
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	stmt := &ast.ReturnStatement{Base: p.base(p.next())}
	tok := p.cur()
	if tok.Type != token.SEMICOLON && tok.Type != token.RBRACE && tok.Type != token.EOF && !tok.NewlineBefore {
		stmt.Value = p.parseExpression()
	}
	p.consumeSemicolon()
	stmt.SetEnd(p.prevEnd())
	return stmt
}

func (p *Parser) parseIf() ast.Statement {
	stmt := &ast.IfStatement{Base: p.base(p.next())}
	p.expect(token.LPAREN)
	stmt.Condition = p.parseExpression()
	p.expect(token.RPAREN)
	stmt.Consequence = p.parseStatement()
	if p.accept(token.ELSE) {
		stmt.Alternative = p.parseStatement()
	}
	stmt.SetEnd(p.prevEnd())
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	stmt := &ast.WhileStatement{Base: p.base(p.next())}
	p.expect(token.LPAREN)
	stmt.Condition = p.parseExpression()
	p.expect(token.RPAREN)
	stmt.Body = p.parseStatement()
	stmt.SetEnd(p.prevEnd())
	return stmt
}

// parseFor handles both for (init; cond; update) and for (const x of xs).
func (p *Parser) parseFor() ast.Statement {
	forTok := p.next()
	p.expect(token.LPAREN)

	var init ast.Node
	switch p.cur().Type {
	case token.SEMICOLON:
	case token.LET, token.CONST, token.VAR:
		list := p.parseVariableDeclarationList(nil)
		if p.atWord("of") {
			p.next()
			stmt := &ast.ForOfStatement{Base: p.base(forTok), Declaration: list}
			stmt.Iterable = p.parseAssignment()
			p.expect(token.RPAREN)
			stmt.Body = p.parseStatement()
			stmt.SetEnd(p.prevEnd())
			return stmt
		}
		init = list
	default:
		init = p.parseExpression()
	}

	stmt := &ast.ForStatement{Base: p.base(forTok), Init: init}
	p.expect(token.SEMICOLON)
	if !p.at(token.SEMICOLON) {
		stmt.Condition = p.parseExpression()
	}
	p.expect(token.SEMICOLON)
	if !p.at(token.RPAREN) {
		stmt.Update = p.parseExpression()
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseStatement()
	stmt.SetEnd(p.prevEnd())
	return stmt
}
