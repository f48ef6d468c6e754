package parser

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/token"
)

func (p *Parser) parseDeclaration(annots []*ast.Annotation) ast.Statement {
	start := p.cur()
	if len(annots) > 0 {
		start = annots[0].GetToken()
	}

	exported := false
	if p.at(token.EXPORT) {
		if p.peek(1).Type == token.LBRACE {
			return p.parseExport()
		}
		p.next()
		exported = true
	}
	if p.atWord("declare") {
		p.next()
	}
	if p.atWord("abstract") && p.peek(1).Type == token.CLASS {
		p.next()
	}

	switch p.cur().Type {
	case token.FUNCTION:
		return p.parseFunctionDeclaration(start, annots, exported)
	case token.CLASS:
		return p.parseClass(start, annots, exported)
	case token.INTERFACE:
		return p.parseInterface(start, annots, exported)
	case token.LET, token.CONST, token.VAR:
		list := p.parseVariableDeclarationList(annots)
		stmt := &ast.VariableStatement{Base: p.base(start), Exported: exported, List: list}
		p.consumeSemicolon()
		stmt.SetEnd(p.prevEnd())
		return stmt
	case token.IDENT:
		if p.atTypeAlias() {
			return p.parseTypeAlias(start, exported)
		}
	}
	p.failf(diagnostics.ErrP003, p.cur(), "%s cannot start a declaration", describe(p.cur()))
	return nil
}

// parseImport handles
// import "m"
// import D from "m"
// import type { a, b as c } from "m"
// import D, { a } from "m"
func (p *Parser) parseImport() ast.Statement {
	decl := &ast.ImportDeclaration{Base: p.base(p.expect(token.IMPORT))}
	if p.atWord("type") && (p.peek(1).Type == token.LBRACE || p.peek(1).Type == token.IDENT && p.peek(1).Lexeme != "from") {
		p.next()
		decl.TypeOnly = true
	}

	if p.at(token.STRING) {
		decl.Module = p.parseStringLiteral()
		p.consumeSemicolon()
		decl.SetEnd(p.prevEnd())
		return decl
	}

	if p.at(token.IDENT) {
		decl.Default = p.parseIdentifier()
		if !p.accept(token.COMMA) {
			p.expectWord("from")
			decl.Module = p.parseStringLiteral()
			p.consumeSemicolon()
			decl.SetEnd(p.prevEnd())
			return decl
		}
	}

	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) {
		if p.atWord("type") && p.peek(1).Type == token.IDENT && p.peek(1).Lexeme != "as" {
			p.next()
		}
		spec := &ast.ImportSpecifier{Base: p.base(p.cur())}
		spec.Imported = p.parseName()
		spec.Local = spec.Imported
		if p.atWord("as") {
			p.next()
			spec.Local = p.parseIdentifier()
		}
		spec.SetEnd(p.prevEnd())
		decl.Specifiers = append(decl.Specifiers, spec)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	p.expectWord("from")
	decl.Module = p.parseStringLiteral()
	p.consumeSemicolon()
	decl.SetEnd(p.prevEnd())
	return decl
}

// parseExport handles export { a, b as c } [from "m"]
func (p *Parser) parseExport() ast.Statement {
	decl := &ast.ExportDeclaration{Base: p.base(p.expect(token.EXPORT))}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) {
		spec := &ast.ExportSpecifier{Base: p.base(p.cur())}
		spec.Local = p.parseName()
		spec.Exported = spec.Local
		if p.atWord("as") {
			p.next()
			spec.Exported = p.parseName()
		}
		spec.SetEnd(p.prevEnd())
		decl.Specifiers = append(decl.Specifiers, spec)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	if p.atWord("from") {
		p.next()
		decl.Module = p.parseStringLiteral()
	}
	p.consumeSemicolon()
	decl.SetEnd(p.prevEnd())
	return decl
}

func (p *Parser) parseFunctionDeclaration(start token.Token, annots []*ast.Annotation, exported bool) ast.Statement {
	p.expect(token.FUNCTION)
	fn := &ast.FunctionDeclaration{Base: p.base(start), Annotations: annots, Exported: exported}
	fn.Name = p.parseIdentifier()
	p.parseSignature(&fn.Signature)
	if p.at(token.LBRACE) {
		fn.Body = p.parseBlock()
	} else {
		p.consumeSemicolon()
	}
	fn.SetEnd(p.prevEnd())
	return fn
}

// parseSignature parses <T>(params): R into sig.
func (p *Parser) parseSignature(sig *ast.Signature) {
	if p.at(token.LT) {
		sig.TypeParams = p.parseTypeParams()
	}
	sig.Parameters = p.parseParameters()
	if p.accept(token.COLON) {
		sig.ReturnType = p.parseReturnType()
	}
}

func (p *Parser) parseTypeParams() []*ast.TypeParameter {
	p.expect(token.LT)
	var params []*ast.TypeParameter
	for !p.at(token.GT) {
		tp := &ast.TypeParameter{Base: p.base(p.cur())}
		tp.Name = p.parseIdentifier()
		if p.accept(token.EXTENDS) {
			tp.Constraint = p.parseType()
		}
		if p.accept(token.ASSIGN) {
			tp.Default = p.parseType()
		}
		tp.SetEnd(p.prevEnd())
		params = append(params, tp)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return params
}

var parameterModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

func (p *Parser) parseParameters() []*ast.Parameter {
	p.expect(token.LPAREN)
	var params []*ast.Parameter
	for !p.at(token.RPAREN) {
		params = append(params, p.parseParameter())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	start := p.cur()
	annots := p.parseAnnotations()
	for p.at(token.IDENT) && parameterModifiers[p.cur().Lexeme] && p.peek(1).Type == token.IDENT {
		p.next()
	}
	param := &ast.Parameter{Base: p.base(start), Annotations: annots}
	if p.accept(token.ELLIPSIS) {
		param.Rest = true
	}
	if p.at(token.THIS) {
		tok := p.next()
		param.Name = &ast.Identifier{Base: p.base(tok), Value: tok.Lexeme}
		param.Name.SetEnd(p.prevEnd())
	} else {
		param.Name = p.parseIdentifier()
	}
	if p.accept(token.QUESTION) {
		param.Optional = true
	}
	if p.accept(token.COLON) {
		param.Type = p.parseType()
	}
	if p.accept(token.ASSIGN) {
		param.Default = p.parseAssignment()
	}
	param.SetEnd(p.prevEnd())
	return param
}

// parseVariableDeclarationList parses `const a: T = 1, b = 2` without the
// terminating semicolon.
func (p *Parser) parseVariableDeclarationList(annots []*ast.Annotation) *ast.VariableDeclarationList {
	kindTok := p.next()
	start := kindTok
	if len(annots) > 0 {
		start = annots[0].GetToken()
	}
	list := &ast.VariableDeclarationList{Base: p.base(start), Annotations: annots, Kind: kindTok.Lexeme}
	for {
		decl := &ast.VariableDeclaration{Base: p.base(p.cur())}
		decl.Name = p.parseIdentifier()
		p.accept(token.BANG)
		if p.accept(token.COLON) {
			decl.Type = p.parseType()
		}
		if p.accept(token.ASSIGN) {
			decl.Initializer = p.parseAssignment()
		}
		decl.SetEnd(p.prevEnd())
		list.Declarations = append(list.Declarations, decl)
		if !p.accept(token.COMMA) {
			break
		}
	}
	list.SetEnd(p.prevEnd())
	return list
}

func (p *Parser) parseTypeAlias(start token.Token, exported bool) ast.Statement {
	p.expectWord("type")
	alias := &ast.TypeAliasDeclaration{Base: p.base(start), Exported: exported}
	alias.Name = p.parseIdentifier()
	if p.at(token.LT) {
		alias.TypeParams = p.parseTypeParams()
	}
	p.expect(token.ASSIGN)
	alias.Type = p.parseType()
	p.consumeSemicolon()
	alias.SetEnd(p.prevEnd())
	return alias
}

var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "static": true, "readonly": true,
	"abstract": true, "override": true, "declare": true,
}

func (p *Parser) parseClass(start token.Token, annots []*ast.Annotation, exported bool) ast.Statement {
	p.expect(token.CLASS)
	class := &ast.ClassDeclaration{Base: p.base(start), Annotations: annots, Exported: exported}
	class.Name = p.parseIdentifier()
	if p.at(token.LT) {
		class.TypeParams = p.parseTypeParams()
	}
	if p.accept(token.EXTENDS) {
		class.Extends = p.parseTypeReference()
	}
	if p.accept(token.IMPLEMENTS) {
		for {
			class.Implements = append(class.Implements, p.parseTypeReference())
			if !p.accept(token.COMMA) {
				break
			}
		}
	}

	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.accept(token.SEMICOLON) {
			continue
		}
		class.Members = append(class.Members, p.parseClassMember())
	}
	p.expect(token.RBRACE)
	class.SetEnd(p.prevEnd())
	return class
}

// isMemberNameAhead reports whether the token at offset n can still be a
// member name, which makes the current word a modifier.
func (p *Parser) isMemberNameAhead(n int) bool {
	tok := p.peek(n)
	return (tok.Type == token.IDENT || token.IsKeyword(tok.Type) || tok.Type == token.STRING) && !tok.NewlineBefore
}

func (p *Parser) parseClassMember() ast.ClassMember {
	start := p.cur()
	annots := p.parseAnnotations()

	static, readonly := false, false
	for p.at(token.IDENT) && memberModifiers[p.cur().Lexeme] && p.isMemberNameAhead(1) {
		switch p.next().Lexeme {
		case "static":
			static = true
		case "readonly":
			readonly = true
		}
	}

	if p.atWord("constructor") && p.peek(1).Type == token.LPAREN {
		p.next()
		ctor := &ast.Constructor{Base: p.base(start), Annotations: annots}
		p.parseSignature(&ctor.Signature)
		ctor.Body = p.parseOptionalBody()
		ctor.SetEnd(p.prevEnd())
		return ctor
	}

	if (p.atWord("get") || p.atWord("set")) && p.isMemberNameAhead(1) {
		kind := p.next().Lexeme
		name := p.parsePropertyName()
		var sig ast.Signature
		p.parseSignature(&sig)
		body := p.parseOptionalBody()
		if kind == "get" {
			g := &ast.GetAccessor{Base: p.base(start), Annotations: annots, Static: static, Name: name, Signature: sig, Body: body}
			g.SetEnd(p.prevEnd())
			return g
		}
		s := &ast.SetAccessor{Base: p.base(start), Annotations: annots, Static: static, Name: name, Signature: sig, Body: body}
		s.SetEnd(p.prevEnd())
		return s
	}

	name := p.parsePropertyName()
	optional := p.accept(token.QUESTION)
	if p.at(token.LPAREN) || p.at(token.LT) {
		m := &ast.MethodDeclaration{Base: p.base(start), Annotations: annots, Static: static, Name: name}
		p.parseSignature(&m.Signature)
		m.Body = p.parseOptionalBody()
		m.SetEnd(p.prevEnd())
		return m
	}

	prop := &ast.PropertyDeclaration{
		Base:        p.base(start),
		Annotations: annots,
		Static:      static,
		Readonly:    readonly,
		Name:        name,
		Optional:    optional,
	}
	p.accept(token.BANG)
	if p.accept(token.COLON) {
		prop.Type = p.parseType()
	}
	if p.accept(token.ASSIGN) {
		prop.Initializer = p.parseAssignment()
	}
	p.consumeSemicolon()
	prop.SetEnd(p.prevEnd())
	return prop
}

func (p *Parser) parseOptionalBody() *ast.BlockStatement {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	p.consumeSemicolon()
	return nil
}

func (p *Parser) parseInterface(start token.Token, annots []*ast.Annotation, exported bool) ast.Statement {
	p.expect(token.INTERFACE)
	iface := &ast.InterfaceDeclaration{Base: p.base(start), Annotations: annots, Exported: exported}
	iface.Name = p.parseIdentifier()
	if p.at(token.LT) {
		iface.TypeParams = p.parseTypeParams()
	}
	if p.accept(token.EXTENDS) {
		for {
			iface.Extends = append(iface.Extends, p.parseTypeReference())
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	iface.Members = p.parseTypeMembers()
	iface.SetEnd(p.prevEnd())
	return iface
}

// parseTypeMembers parses the body of an interface or an object type literal.
func (p *Parser) parseTypeMembers() []ast.TypeMember {
	p.expect(token.LBRACE)
	var members []ast.TypeMember
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.accept(token.SEMICOLON) || p.accept(token.COMMA) {
			continue
		}
		members = append(members, p.parseTypeMember())
		if !p.accept(token.SEMICOLON) && !p.accept(token.COMMA) && !p.at(token.RBRACE) && !p.cur().NewlineBefore {
			p.failf(diagnostics.ErrP001, p.cur(), "%s, expected ; or }", describe(p.cur()))
		}
	}
	p.expect(token.RBRACE)
	return members
}

func (p *Parser) parseTypeMember() ast.TypeMember {
	start := p.cur()
	annots := p.parseAnnotations()
	readonly := false
	if p.atWord("readonly") && p.isMemberNameAhead(1) {
		p.next()
		readonly = true
	}
	name := p.parsePropertyName()
	optional := p.accept(token.QUESTION)
	if p.at(token.LPAREN) || p.at(token.LT) {
		m := &ast.MethodSignature{Base: p.base(start), Annotations: annots, Name: name, Optional: optional}
		p.parseSignature(&m.Signature)
		m.SetEnd(p.prevEnd())
		return m
	}
	prop := &ast.PropertySignature{Base: p.base(start), Annotations: annots, Readonly: readonly, Name: name, Optional: optional}
	if p.accept(token.COLON) {
		prop.Type = p.parseType()
	}
	prop.SetEnd(p.prevEnd())
	return prop
}

// --- names ---

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok := p.cur()
	if tok.Type != token.IDENT {
		p.failf(diagnostics.ErrP001, tok, "%s, expected identifier", describe(tok))
	}
	p.next()
	id := &ast.Identifier{Base: p.base(tok), Value: tok.Lexeme}
	id.SetEnd(p.prevEnd())
	return id
}

// parseName accepts identifiers and reserved words, as in import and export
// specifiers.
func (p *Parser) parseName() *ast.Identifier {
	tok := p.cur()
	if tok.Type != token.IDENT && !token.IsKeyword(tok.Type) {
		p.failf(diagnostics.ErrP001, tok, "%s, expected name", describe(tok))
	}
	p.next()
	id := &ast.Identifier{Base: p.base(tok), Value: tok.Lexeme}
	id.SetEnd(p.prevEnd())
	return id
}

// parsePropertyName accepts identifiers, reserved words and quoted names.
// A quoted name keeps its quotes.
func (p *Parser) parsePropertyName() *ast.Identifier {
	if p.at(token.STRING) || p.at(token.NUMBER) {
		tok := p.next()
		id := &ast.Identifier{Base: p.base(tok), Value: tok.Lexeme}
		id.SetEnd(p.prevEnd())
		return id
	}
	return p.parseName()
}

func (p *Parser) parseStringLiteral() *ast.StringLiteral {
	tok := p.expect(token.STRING)
	s := &ast.StringLiteral{Base: p.base(tok), Value: tok.Literal.(string)}
	s.SetEnd(p.prevEnd())
	return s
}
