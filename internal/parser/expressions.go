package parser

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/token"
)

// Binary operator precedences, lowest first.
const (
	_ int = iota
	LOWEST
	NULLISH     // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == != === !==
	COMPARE     // < > <= >= instanceof in
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
)

var precedences = map[token.TokenType]int{
	token.NULLISH:    NULLISH,
	token.OR:         LOGICAL_OR,
	token.AND:        LOGICAL_AND,
	token.PIPE:       BIT_OR,
	token.CARET:      BIT_XOR,
	token.AMPERSAND:  BIT_AND,
	token.EQ:         EQUALS,
	token.NOT_EQ:     EQUALS,
	token.STRICT_EQ:  EQUALS,
	token.STRICT_NEQ: EQUALS,
	token.LT:         COMPARE,
	token.GT:         COMPARE,
	token.LTE:        COMPARE,
	token.GTE:        COMPARE,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
	token.PERCENT:    PRODUCT,
	token.POWER:      POWER,
}

func (p *Parser) binaryPrecedence() (string, int) {
	tok := p.cur()
	if prec, ok := precedences[tok.Type]; ok {
		return tok.Lexeme, prec
	}
	if tok.Type == token.IDENT && (tok.Lexeme == "instanceof" || tok.Lexeme == "in") {
		return tok.Lexeme, COMPARE
	}
	return "", 0
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment parses arrow functions, assignments and everything below.
func (p *Parser) parseAssignment() ast.Expression {
	if arrow, ok := p.tryArrow(); ok {
		return arrow
	}

	start := p.cur()
	left := p.parseConditional()
	if ast.IsAssignmentOperator(string(p.cur().Type)) {
		op := p.next()
		right := p.parseAssignment()
		bin := &ast.BinaryExpression{Base: p.base(start), Operator: op.Lexeme, Left: left, Right: right}
		bin.SetEnd(p.prevEnd())
		return bin
	}
	return left
}

func (p *Parser) parseConditional() ast.Expression {
	start := p.cur()
	cond := p.parseBinary(LOWEST)
	if !p.at(token.QUESTION) {
		return cond
	}
	p.next()
	expr := &ast.ConditionalExpression{Base: p.base(start), Condition: cond}
	expr.WhenTrue = p.parseAssignment()
	p.expect(token.COLON)
	expr.WhenFalse = p.parseAssignment()
	expr.SetEnd(p.prevEnd())
	return expr
}

func (p *Parser) parseBinary(minPrec int) ast.Expression {
	start := p.cur()
	left := p.parseUnary()
	for {
		op, prec := p.binaryPrecedence()
		if prec == 0 || prec < minPrec {
			return left
		}
		p.next()
		next := prec + 1
		if prec == POWER {
			next = prec
		}
		right := p.parseBinary(next)
		bin := &ast.BinaryExpression{Base: p.base(start), Operator: op, Left: left, Right: right}
		bin.SetEnd(p.prevEnd())
		left = bin
	}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.BANG, token.MINUS, token.PLUS, token.TILDE, token.INCREMENT, token.DECREMENT:
		p.next()
		expr := &ast.PrefixExpression{Base: p.base(tok), Operator: tok.Lexeme, Operand: p.parseUnary()}
		expr.SetEnd(p.prevEnd())
		return expr
	case token.TYPEOF, token.VOID:
		p.next()
		expr := &ast.PrefixExpression{Base: p.base(tok), Operator: tok.Lexeme, Operand: p.parseUnary()}
		expr.SetEnd(p.prevEnd())
		return expr
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	start := p.cur()
	expr := p.parseCallOrMember()
	if (p.at(token.INCREMENT) || p.at(token.DECREMENT)) && !p.cur().NewlineBefore {
		op := p.next()
		post := &ast.PostfixExpression{Base: p.base(start), Operator: op.Lexeme, Operand: expr}
		post.SetEnd(p.prevEnd())
		return post
	}
	return expr
}

func (p *Parser) parseCallOrMember() ast.Expression {
	start := p.cur()
	var expr ast.Expression
	if p.at(token.NEW) {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}

	for {
		switch p.cur().Type {
		case token.DOT:
			p.next()
			m := &ast.MemberExpression{Base: p.base(start), Object: expr, Property: p.parseName()}
			m.SetEnd(p.prevEnd())
			expr = m
		case token.OPTIONAL_CHAIN:
			p.next()
			switch p.cur().Type {
			case token.LPAREN:
				call := &ast.CallExpression{Base: p.base(start), Callee: expr, Optional: true}
				call.Arguments = p.parseArguments()
				call.SetEnd(p.prevEnd())
				expr = call
			case token.LBRACKET:
				expr = p.parseIndex(start, expr)
			default:
				m := &ast.MemberExpression{Base: p.base(start), Object: expr, Property: p.parseName(), Optional: true}
				m.SetEnd(p.prevEnd())
				expr = m
			}
		case token.LBRACKET:
			expr = p.parseIndex(start, expr)
		case token.LPAREN:
			call := &ast.CallExpression{Base: p.base(start), Callee: expr}
			call.Arguments = p.parseArguments()
			call.SetEnd(p.prevEnd())
			expr = call
		case token.LT:
			targs, ok := speculate(p, func() []ast.Type {
				args := p.parseTypeArgs()
				if !p.at(token.LPAREN) {
					p.failf(diagnostics.ErrP001, p.cur(), "not a call")
				}
				return args
			})
			if !ok {
				return expr
			}
			call := &ast.CallExpression{Base: p.base(start), Callee: expr, TypeArgs: targs}
			call.Arguments = p.parseArguments()
			call.SetEnd(p.prevEnd())
			expr = call
		case token.BANG:
			// non-null assertion: x!.y
			next := p.peek(1).Type
			if p.cur().NewlineBefore || (next != token.DOT && next != token.LPAREN && next != token.LBRACKET && next != token.RPAREN && next != token.SEMICOLON && next != token.COMMA) {
				return expr
			}
			p.next()
		default:
			return expr
		}
	}
}

func (p *Parser) parseIndex(start token.Token, object ast.Expression) ast.Expression {
	p.expect(token.LBRACKET)
	idx := &ast.IndexExpression{Base: p.base(start), Object: object, Index: p.parseExpression()}
	p.expect(token.RBRACKET)
	idx.SetEnd(p.prevEnd())
	return idx
}

// parseNew parses new Callee<T>(args). The callee is a member chain without
// calls.
func (p *Parser) parseNew() ast.Expression {
	newTok := p.expect(token.NEW)
	start := p.cur()
	var callee ast.Expression
	if p.at(token.NEW) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	for p.at(token.DOT) {
		p.next()
		m := &ast.MemberExpression{Base: p.base(start), Object: callee, Property: p.parseName()}
		m.SetEnd(p.prevEnd())
		callee = m
	}
	expr := &ast.NewExpression{Base: p.base(newTok), Callee: callee}
	if p.at(token.LT) {
		expr.TypeArgs = p.parseTypeArgs()
	}
	if p.at(token.LPAREN) {
		expr.Arguments = p.parseArguments()
	}
	expr.SetEnd(p.prevEnd())
	return expr
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.at(token.RPAREN) {
		args = append(args, p.parseElement())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

// parseElement parses an argument or array element, which may be a spread.
func (p *Parser) parseElement() ast.Expression {
	if p.at(token.ELLIPSIS) {
		tok := p.next()
		spread := &ast.SpreadElement{Base: p.base(tok), Argument: p.parseAssignment()}
		spread.SetEnd(p.prevEnd())
		return spread
	}
	return p.parseAssignment()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.THIS:
		p.next()
		this := &ast.ThisExpression{Base: p.base(tok)}
		this.SetEnd(p.prevEnd())
		return this
	case token.NUMBER:
		p.next()
		value, _ := tok.Literal.(float64)
		n := &ast.NumberLiteral{Base: p.base(tok), Value: value, Raw: tok.Lexeme}
		n.SetEnd(p.prevEnd())
		return n
	case token.STRING:
		return p.parseStringLiteral()
	case token.TRUE, token.FALSE:
		p.next()
		b := &ast.BooleanLiteral{Base: p.base(tok), Value: tok.Type == token.TRUE}
		b.SetEnd(p.prevEnd())
		return b
	case token.NULL:
		p.next()
		n := &ast.NullLiteral{Base: p.base(tok)}
		n.SetEnd(p.prevEnd())
		return n
	case token.LPAREN:
		p.next()
		paren := &ast.ParenthesizedExpression{Base: p.base(tok), Expression: p.parseExpression()}
		p.expect(token.RPAREN)
		paren.SetEnd(p.prevEnd())
		return paren
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.FUNCTION:
		return p.parseFunctionExpression(nil)
	case token.AT:
		annots := p.parseAnnotations()
		if p.at(token.FUNCTION) {
			return p.parseFunctionExpression(annots)
		}
		arrow, ok := p.tryArrow()
		if !ok {
			p.failf(diagnostics.ErrP001, p.cur(), "%s, expected function after annotation", describe(p.cur()))
		}
		arrow.Annotations = annots
		arrow.Base.Token = annots[0].GetToken()
		return arrow
	}
	p.failf(diagnostics.ErrP001, tok, "%s", describe(tok))
	return nil
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Base: p.base(p.expect(token.LBRACKET))}
	for !p.at(token.RBRACKET) {
		arr.Elements = append(arr.Elements, p.parseElement())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	arr.SetEnd(p.prevEnd())
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Base: p.base(p.expect(token.LBRACE))}
	for !p.at(token.RBRACE) {
		obj.Properties = append(obj.Properties, p.parseObjectMember())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	obj.SetEnd(p.prevEnd())
	return obj
}

func (p *Parser) parseObjectMember() ast.ObjectMember {
	tok := p.cur()
	if p.at(token.ELLIPSIS) {
		p.next()
		spread := &ast.SpreadElement{Base: p.base(tok), Argument: p.parseAssignment()}
		spread.SetEnd(p.prevEnd())
		return spread
	}

	if tok.Type == token.IDENT && (p.peek(1).Type == token.COMMA || p.peek(1).Type == token.RBRACE) {
		short := &ast.ShorthandPropertyAssignment{Base: p.base(tok), Name: p.parseIdentifier()}
		short.SetEnd(p.prevEnd())
		return short
	}

	prop := &ast.PropertyAssignment{Base: p.base(tok)}
	if p.at(token.STRING) {
		prop.Key = p.parseStringLiteral()
	} else {
		prop.Key = p.parseName()
	}
	if p.at(token.LPAREN) || p.at(token.LT) {
		// method shorthand: name(params) { body }
		fn := &ast.FunctionExpression{Base: p.base(p.cur())}
		p.parseSignature(&fn.Signature)
		fn.Body = p.parseBlock()
		fn.SetEnd(p.prevEnd())
		prop.Value = fn
	} else {
		p.expect(token.COLON)
		prop.Value = p.parseAssignment()
	}
	prop.SetEnd(p.prevEnd())
	return prop
}

func (p *Parser) parseFunctionExpression(annots []*ast.Annotation) ast.Expression {
	start := p.cur()
	if len(annots) > 0 {
		start = annots[0].GetToken()
	}
	p.expect(token.FUNCTION)
	fn := &ast.FunctionExpression{Base: p.base(start), Annotations: annots}
	if p.at(token.IDENT) {
		fn.Name = p.parseIdentifier()
	}
	p.parseSignature(&fn.Signature)
	fn.Body = p.parseBlock()
	fn.SetEnd(p.prevEnd())
	return fn
}

// tryArrow parses an arrow function if one starts at the current token.
func (p *Parser) tryArrow() (*ast.ArrowFunction, bool) {
	switch {
	case p.at(token.IDENT) && p.peek(1).Type == token.ARROW && !p.peek(1).NewlineBefore:
		start := p.cur()
		param := &ast.Parameter{Base: p.base(start), Name: p.parseIdentifier()}
		param.SetEnd(p.prevEnd())
		p.expect(token.ARROW)
		arrow := &ast.ArrowFunction{Base: p.base(start)}
		arrow.Parameters = []*ast.Parameter{param}
		arrow.Body = p.parseArrowBody()
		arrow.SetEnd(p.prevEnd())
		return arrow, true
	case p.at(token.LPAREN) || p.at(token.LT):
		start := p.cur()
		sig, ok := speculate(p, func() ast.Signature {
			var sig ast.Signature
			p.parseSignature(&sig)
			if !p.at(token.ARROW) || p.cur().NewlineBefore {
				p.failf(diagnostics.ErrP001, p.cur(), "not an arrow function")
			}
			return sig
		})
		if !ok {
			return nil, false
		}
		p.expect(token.ARROW)
		arrow := &ast.ArrowFunction{Base: p.base(start), Signature: sig}
		arrow.Body = p.parseArrowBody()
		arrow.SetEnd(p.prevEnd())
		return arrow, true
	}
	return nil, false
}

func (p *Parser) parseArrowBody() ast.Node {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseAssignment()
}
