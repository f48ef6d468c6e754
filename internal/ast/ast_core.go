package ast

import (
	"sync/atomic"

	"github.com/funvibe/memoc/internal/token"
)

// NodeID is a stable node identity assigned by the parser. Clones keep the id
// of the node they were cloned from, so every table keyed by NodeID resolves a
// rewritten node back to its original. Synthesized nodes carry NoNodeID.
type NodeID uint32

// NoNodeID marks a synthesized node.
const NoNodeID NodeID = 0

// IsValid returns true if the id was assigned by the parser.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// IDGen hands out node ids. A compilation session shares one generator across
// all of its files so ids are unique session-wide.
type IDGen struct {
	last atomic.Uint32
}

func (g *IDGen) Next() NodeID {
	return NodeID(g.last.Add(1))
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	NodeID() NodeID
	Span() token.Span
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Type is a Node that represents a type annotation.
type Type interface {
	Node
	typeNode()
}

// ClassMember is a member of a class body.
type ClassMember interface {
	Node
	classMember()
}

// TypeMember is a member of an interface or an object type literal.
type TypeMember interface {
	Node
	typeMember()
}

// ObjectMember is an element of an object literal.
type ObjectMember interface {
	Node
	objectMember()
}

// Base carries the identity and position shared by every node.
type Base struct {
	ID     NodeID
	Token  token.Token // first token of the node
	EndPos token.Position
}

func (b *Base) NodeID() NodeID        { return b.ID }
func (b *Base) GetToken() token.Token { return b.Token }
func (b *Base) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Base) Span() token.Span {
	end := b.EndPos
	if !end.IsValid() {
		end = b.Token.EndPos()
	}
	return token.Span{Start: b.Token.Pos(), End: end}
}

// SetEnd records the position just past the last token of the node.
func (b *Base) SetEnd(pos token.Position) { b.EndPos = pos }

// Clone returns a shallow copy of n. The copy keeps n's NodeID.
func Clone[T any](n *T) *T {
	c := *n
	return &c
}

// Program is the root node of a parsed source file.
type Program struct {
	Base
	File       string
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Annotation is a memo marker written as a decorator, e.g. @memo.
type Annotation struct {
	Base
	Name string
}

func (a *Annotation) Accept(v Visitor) { v.VisitAnnotation(a) }

// Identifier is a name reference or a declaration name.
type Identifier struct {
	Base
	Value string
}

func (i *Identifier) Accept(v Visitor) { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()  {}

// ThisExpression is the `this` keyword.
type ThisExpression struct {
	Base
}

func (t *ThisExpression) Accept(v Visitor) { v.VisitThisExpression(t) }
func (t *ThisExpression) expressionNode()  {}

type NumberLiteral struct {
	Base
	Value float64
	Raw   string
}

func (n *NumberLiteral) Accept(v Visitor) { v.VisitNumberLiteral(n) }
func (n *NumberLiteral) expressionNode()  {}

type StringLiteral struct {
	Base
	Value string
}

func (s *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(s) }
func (s *StringLiteral) expressionNode()  {}

type BooleanLiteral struct {
	Base
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor) { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()  {}

type NullLiteral struct {
	Base
}

func (n *NullLiteral) Accept(v Visitor) { v.VisitNullLiteral(n) }
func (n *NullLiteral) expressionNode()  {}
