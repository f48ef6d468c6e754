package parser

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/token"
)

// keywordTypes are the built-in type names.
var keywordTypes = map[string]bool{
	"void": true, "number": true, "string": true, "boolean": true, "any": true, "unknown": true,
	"undefined": true, "null": true, "this": true, "never": true, "object": true, "symbol": true,
	"bigint": true,
}

// parseType parses a union of postfix types: A | B[] | (() => void)
func (p *Parser) parseType() ast.Type {
	start := p.cur()
	p.accept(token.PIPE)
	first := p.parseArrayType()
	if !p.at(token.PIPE) {
		return first
	}
	union := &ast.UnionType{Base: p.base(start), Types: []ast.Type{first}}
	for p.accept(token.PIPE) {
		union.Types = append(union.Types, p.parseArrayType())
	}
	union.SetEnd(p.prevEnd())
	return union
}

// parseReturnType also accepts a type predicate `x is T`, which is kept as T.
func (p *Parser) parseReturnType() ast.Type {
	if p.at(token.IDENT) && p.peek(1).Type == token.IDENT && p.peek(1).Lexeme == "is" && !p.peek(1).NewlineBefore {
		p.next()
		p.next()
	}
	return p.parseType()
}

func (p *Parser) parseArrayType() ast.Type {
	start := p.cur()
	t := p.parsePrimaryType()
	for p.at(token.LBRACKET) && p.peek(1).Type == token.RBRACKET && !p.cur().NewlineBefore {
		p.next()
		p.next()
		arr := &ast.ArrayType{Base: p.base(start), Element: t}
		arr.SetEnd(p.prevEnd())
		t = arr
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.Type {
	tok := p.cur()
	switch tok.Type {
	case token.LPAREN:
		if fn, ok := speculate(p, p.parseFunctionType); ok {
			return fn
		}
		p.next()
		inner := p.parseType()
		p.expect(token.RPAREN)
		paren := &ast.ParenthesizedType{Base: p.base(tok), Type: inner}
		paren.SetEnd(p.prevEnd())
		return paren
	case token.LT:
		return p.parseFunctionType()
	case token.LBRACE:
		lit := &ast.TypeLiteral{Base: p.base(tok)}
		lit.Members = p.parseTypeMembers()
		lit.SetEnd(p.prevEnd())
		return lit
	case token.STRING, token.NUMBER, token.TRUE, token.FALSE:
		lit := &ast.LiteralType{Base: p.base(tok), Literal: p.parsePrimary()}
		lit.SetEnd(p.prevEnd())
		return lit
	case token.MINUS:
		if p.peek(1).Type == token.NUMBER {
			lit := &ast.LiteralType{Base: p.base(tok), Literal: p.parseUnary()}
			lit.SetEnd(p.prevEnd())
			return lit
		}
	case token.VOID, token.NULL, token.THIS:
		p.next()
		kw := &ast.KeywordType{Base: p.base(tok), Keyword: tok.Lexeme}
		kw.SetEnd(p.prevEnd())
		return kw
	case token.IDENT:
		if keywordTypes[tok.Lexeme] && p.peek(1).Type != token.DOT {
			p.next()
			kw := &ast.KeywordType{Base: p.base(tok), Keyword: tok.Lexeme}
			kw.SetEnd(p.prevEnd())
			return kw
		}
		return p.parseTypeReference()
	}
	p.failf(diagnostics.ErrP001, tok, "%s, expected type", describe(tok))
	return nil
}

// parseFunctionType parses <T>(a: A) => R
func (p *Parser) parseFunctionType() ast.Type {
	fn := &ast.FunctionType{Base: p.base(p.cur())}
	if p.at(token.LT) {
		fn.TypeParams = p.parseTypeParams()
	}
	fn.Parameters = p.parseParameters()
	p.expect(token.ARROW)
	fn.ReturnType = p.parseReturnType()
	fn.SetEnd(p.prevEnd())
	return fn
}

// parseTypeReference parses Name, ns.Name and Name<Args>. A qualified name is
// kept as a single identifier.
func (p *Parser) parseTypeReference() *ast.TypeReference {
	start := p.cur()
	ref := &ast.TypeReference{Base: p.base(start)}
	ref.Name = p.parseIdentifier()
	for p.at(token.DOT) {
		p.next()
		part := p.parseName()
		ref.Name.Value += "." + part.Value
		ref.Name.SetEnd(p.prevEnd())
	}
	if p.at(token.LT) && !p.cur().NewlineBefore {
		ref.TypeArgs = p.parseTypeArgs()
	}
	ref.SetEnd(p.prevEnd())
	return ref
}

func (p *Parser) parseTypeArgs() []ast.Type {
	p.expect(token.LT)
	var args []ast.Type
	for !p.at(token.GT) {
		args = append(args, p.parseType())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return args
}
