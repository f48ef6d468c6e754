package ast

// Builders for synthesized nodes. Every node built here carries NoNodeID, so
// table lookups on it fall through to Regular.

func NewIdentifier(name string) *Identifier {
	return &Identifier{Value: name}
}

func NewString(value string) *StringLiteral {
	return &StringLiteral{Value: value}
}

func NewNumber(value float64) *NumberLiteral {
	return &NumberLiteral{Value: value}
}

func NewThis() *ThisExpression {
	return &ThisExpression{}
}

// NewMember builds object.name.
func NewMember(object Expression, name string) *MemberExpression {
	return &MemberExpression{Object: object, Property: NewIdentifier(name)}
}

func NewCall(callee Expression, typeArgs []Type, args ...Expression) *CallExpression {
	return &CallExpression{Callee: callee, TypeArgs: typeArgs, Arguments: args}
}

func NewBinary(op string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

func NewParen(e Expression) *ParenthesizedExpression {
	return &ParenthesizedExpression{Expression: e}
}

func NewExprStmt(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Expression: e}
}

func NewReturn(value Expression) *ReturnStatement {
	return &ReturnStatement{Value: value}
}

func NewBlock(stmts ...Statement) *BlockStatement {
	return &BlockStatement{Statements: stmts}
}

func NewIf(cond Expression, then Statement) *IfStatement {
	return &IfStatement{Condition: cond, Consequence: then}
}

// NewConst builds `const name = init`.
func NewConst(name string, init Expression) *VariableStatement {
	return &VariableStatement{List: &VariableDeclarationList{
		Kind: "const",
		Declarations: []*VariableDeclaration{
			{Name: NewIdentifier(name), Initializer: init},
		},
	}}
}

func NewParam(name string, typ Type) *Parameter {
	return &Parameter{Name: NewIdentifier(name), Type: typ}
}

func NewTypeRef(name string, args ...Type) *TypeReference {
	return &TypeReference{Name: NewIdentifier(name), TypeArgs: args}
}

func NewKeywordType(kw string) *KeywordType {
	return &KeywordType{Keyword: kw}
}

// FindAnnotation returns the first annotation named name, or nil.
func FindAnnotation(annots []*Annotation, name string) *Annotation {
	for _, a := range annots {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func HasAnnotation(annots []*Annotation, name string) bool {
	return FindAnnotation(annots, name) != nil
}

// Annotated is implemented by nodes that may carry annotations.
type Annotated interface {
	Node
	Annots() []*Annotation
}

// IsFunctionBoundary reports whether n starts a new function scope.
// Arrow functions are boundaries too; callers that need arrow transparency
// (this-binding) check for them separately.
func IsFunctionBoundary(n Node) bool {
	_, ok := n.(FunctionLike)
	return ok
}
