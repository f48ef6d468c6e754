package ast

// ArrayLiteral: [a, b, ...c]
type ArrayLiteral struct {
	Base
	Elements []Expression
}

func (a *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(a) }
func (a *ArrayLiteral) expressionNode()  {}

// ObjectLiteral: { a: 1, b, ...c }
type ObjectLiteral struct {
	Base
	Properties []ObjectMember
}

func (o *ObjectLiteral) Accept(v Visitor) { v.VisitObjectLiteral(o) }
func (o *ObjectLiteral) expressionNode()  {}

// PropertyAssignment: key: value. Key is an *Identifier or a *StringLiteral.
type PropertyAssignment struct {
	Base
	Key   Expression
	Value Expression
}

func (p *PropertyAssignment) Accept(v Visitor) { v.VisitPropertyAssignment(p) }
func (p *PropertyAssignment) objectMember()    {}

// ShorthandPropertyAssignment: { name } as sugar for { name: name }.
type ShorthandPropertyAssignment struct {
	Base
	Name *Identifier
}

func (s *ShorthandPropertyAssignment) Accept(v Visitor) { v.VisitShorthandPropertyAssignment(s) }
func (s *ShorthandPropertyAssignment) objectMember()    {}

// SpreadElement: ...expr in arrays, calls and object literals.
type SpreadElement struct {
	Base
	Argument Expression
}

func (s *SpreadElement) Accept(v Visitor) { v.VisitSpreadElement(s) }
func (s *SpreadElement) expressionNode()  {}
func (s *SpreadElement) objectMember()    {}

// CallExpression: callee<T>(args)
type CallExpression struct {
	Base
	Callee    Expression
	TypeArgs  []Type
	Arguments []Expression
	Optional  bool // callee?.(args)
}

func (c *CallExpression) Accept(v Visitor) { v.VisitCallExpression(c) }
func (c *CallExpression) expressionNode()  {}

// NewExpression: new Callee<T>(args)
type NewExpression struct {
	Base
	Callee    Expression
	TypeArgs  []Type
	Arguments []Expression
}

func (n *NewExpression) Accept(v Visitor) { v.VisitNewExpression(n) }
func (n *NewExpression) expressionNode()  {}

// MemberExpression represents dot access, e.g. obj.field or obj?.field
type MemberExpression struct {
	Base
	Object   Expression
	Property *Identifier
	Optional bool
}

func (m *MemberExpression) Accept(v Visitor) { v.VisitMemberExpression(m) }
func (m *MemberExpression) expressionNode()  {}

// IndexExpression represents indexing, e.g. arr[i]
type IndexExpression struct {
	Base
	Object Expression
	Index  Expression
}

func (i *IndexExpression) Accept(v Visitor) { v.VisitIndexExpression(i) }
func (i *IndexExpression) expressionNode()  {}

// PrefixExpression: -x, !x, ++x, typeof x, void x
type PrefixExpression struct {
	Base
	Operator string
	Operand  Expression
}

func (p *PrefixExpression) Accept(v Visitor) { v.VisitPrefixExpression(p) }
func (p *PrefixExpression) expressionNode()  {}

// PostfixExpression: x++, x--
type PostfixExpression struct {
	Base
	Operator string
	Operand  Expression
}

func (p *PostfixExpression) Accept(v Visitor) { v.VisitPostfixExpression(p) }
func (p *PostfixExpression) expressionNode()  {}

// BinaryExpression covers arithmetic, comparison, logical and assignment
// operators.
type BinaryExpression struct {
	Base
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) Accept(v Visitor) { v.VisitBinaryExpression(b) }
func (b *BinaryExpression) expressionNode()  {}

// IsAssignment reports whether the operator writes to Left.
func (b *BinaryExpression) IsAssignment() bool {
	return IsAssignmentOperator(b.Operator)
}

// IsAssignmentOperator reports whether op is = or a compound assignment.
func IsAssignmentOperator(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&&=", "||=", "??=":
		return true
	}
	return false
}

// ConditionalExpression: cond ? a : b
type ConditionalExpression struct {
	Base
	Condition Expression
	WhenTrue  Expression
	WhenFalse Expression
}

func (c *ConditionalExpression) Accept(v Visitor) { v.VisitConditionalExpression(c) }
func (c *ConditionalExpression) expressionNode()  {}

type ParenthesizedExpression struct {
	Base
	Expression Expression
}

func (p *ParenthesizedExpression) Accept(v Visitor) { v.VisitParenthesizedExpression(p) }
func (p *ParenthesizedExpression) expressionNode()  {}

// ArrowFunction: (params): R => body
// Body is a *BlockStatement or an Expression.
type ArrowFunction struct {
	Base
	Annotations []*Annotation
	Signature
	Body Node
}

func (a *ArrowFunction) Accept(v Visitor)      { v.VisitArrowFunction(a) }
func (a *ArrowFunction) expressionNode()       {}
func (a *ArrowFunction) Sig() *Signature       { return &a.Signature }
func (a *ArrowFunction) Annots() []*Annotation { return a.Annotations }
func (a *ArrowFunction) BlockBody() *BlockStatement {
	if b, ok := a.Body.(*BlockStatement); ok {
		return b
	}
	return nil
}

// FunctionExpression: function name(params): R { body }
type FunctionExpression struct {
	Base
	Annotations []*Annotation
	Name        *Identifier // optional
	Signature
	Body *BlockStatement
}

func (f *FunctionExpression) Accept(v Visitor)           { v.VisitFunctionExpression(f) }
func (f *FunctionExpression) expressionNode()            {}
func (f *FunctionExpression) Sig() *Signature            { return &f.Signature }
func (f *FunctionExpression) Annots() []*Annotation      { return f.Annotations }
func (f *FunctionExpression) BlockBody() *BlockStatement { return f.Body }

// CachedReturnMarker wraps the value of the early return that the function
// rewriter emits for the unchanged path. The return rewriter recognises it
// and unwraps it instead of turning the return into a cache write. Inner is
// nil for void functions.
type CachedReturnMarker struct {
	Base
	Inner Expression
}

func (c *CachedReturnMarker) Accept(v Visitor) { v.VisitCachedReturnMarker(c) }
func (c *CachedReturnMarker) expressionNode()  {}
