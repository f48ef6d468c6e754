package ast

// TypeReference names a type, e.g. MutableState<number>.
type TypeReference struct {
	Base
	Name     *Identifier
	TypeArgs []Type
}

func (t *TypeReference) Accept(v Visitor) { v.VisitTypeReference(t) }
func (t *TypeReference) typeNode()        {}

// FunctionType: (a: A, b: B) => R
type FunctionType struct {
	Base
	Signature
}

func (f *FunctionType) Accept(v Visitor) { v.VisitFunctionType(f) }
func (f *FunctionType) typeNode()        {}

// UnionType: A | B
type UnionType struct {
	Base
	Types []Type
}

func (u *UnionType) Accept(v Visitor) { v.VisitUnionType(u) }
func (u *UnionType) typeNode()        {}

type ParenthesizedType struct {
	Base
	Type Type
}

func (p *ParenthesizedType) Accept(v Visitor) { v.VisitParenthesizedType(p) }
func (p *ParenthesizedType) typeNode()        {}

// ArrayType: T[]
type ArrayType struct {
	Base
	Element Type
}

func (a *ArrayType) Accept(v Visitor) { v.VisitArrayType(a) }
func (a *ArrayType) typeNode()        {}

// KeywordType is a built-in type such as void, number or this.
type KeywordType struct {
	Base
	Keyword string
}

func (k *KeywordType) Accept(v Visitor) { v.VisitKeywordType(k) }
func (k *KeywordType) typeNode()        {}

// LiteralType: "a" | 1 | true
type LiteralType struct {
	Base
	Literal Expression
}

func (l *LiteralType) Accept(v Visitor) { v.VisitLiteralType(l) }
func (l *LiteralType) typeNode()        {}

// TypeLiteral: { a: number; run(): void }
type TypeLiteral struct {
	Base
	Members []TypeMember
}

func (t *TypeLiteral) Accept(v Visitor) { v.VisitTypeLiteral(t) }
func (t *TypeLiteral) typeNode()        {}

// IsKeyword reports whether t is the keyword type kw.
func IsKeyword(t Type, kw string) bool {
	k, ok := t.(*KeywordType)
	return ok && k.Keyword == kw
}

// UnwrapParens strips any number of parentheses around t.
func UnwrapParens(t Type) Type {
	for {
		p, ok := t.(*ParenthesizedType)
		if !ok {
			return t
		}
		t = p.Type
	}
}

// TypeParameter: T extends Constraint = Default
type TypeParameter struct {
	Base
	Name       *Identifier
	Constraint Type
	Default    Type
}

func (t *TypeParameter) Accept(v Visitor) { v.VisitTypeParameter(t) }
