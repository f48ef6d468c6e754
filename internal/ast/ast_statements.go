package ast

// BlockStatement represents a list of statements within curly braces.
type BlockStatement struct {
	Base
	Statements []Statement
}

func (b *BlockStatement) Accept(v Visitor) { v.VisitBlockStatement(b) }
func (b *BlockStatement) statementNode()   {}

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Base
	Expression Expression
}

func (e *ExpressionStatement) Accept(v Visitor) { v.VisitExpressionStatement(e) }
func (e *ExpressionStatement) statementNode()   {}

// ReturnStatement represents `return` or `return <expression>`.
type ReturnStatement struct {
	Base
	Value Expression
}

func (r *ReturnStatement) Accept(v Visitor) { v.VisitReturnStatement(r) }
func (r *ReturnStatement) statementNode()   {}

type IfStatement struct {
	Base
	Condition   Expression
	Consequence Statement
	Alternative Statement // optional
}

func (i *IfStatement) Accept(v Visitor) { v.VisitIfStatement(i) }
func (i *IfStatement) statementNode()   {}

type WhileStatement struct {
	Base
	Condition Expression
	Body      Statement
}

func (w *WhileStatement) Accept(v Visitor) { v.VisitWhileStatement(w) }
func (w *WhileStatement) statementNode()   {}

// ForStatement: for (init; cond; update) body
// Init is a *VariableDeclarationList or an Expression.
type ForStatement struct {
	Base
	Init      Node
	Condition Expression
	Update    Expression
	Body      Statement
}

func (f *ForStatement) Accept(v Visitor) { v.VisitForStatement(f) }
func (f *ForStatement) statementNode()   {}

// ForOfStatement: for (const x of items) body
type ForOfStatement struct {
	Base
	Declaration *VariableDeclarationList
	Iterable    Expression
	Body        Statement
}

func (f *ForOfStatement) Accept(v Visitor) { v.VisitForOfStatement(f) }
func (f *ForOfStatement) statementNode()   {}

type ThrowStatement struct {
	Base
	Value Expression
}

func (t *ThrowStatement) Accept(v Visitor) { v.VisitThrowStatement(t) }
func (t *ThrowStatement) statementNode()   {}

type BreakStatement struct {
	Base
}

func (b *BreakStatement) Accept(v Visitor) { v.VisitBreakStatement(b) }
func (b *BreakStatement) statementNode()   {}

type ContinueStatement struct {
	Base
}

func (c *ContinueStatement) Accept(v Visitor) { v.VisitContinueStatement(c) }
func (c *ContinueStatement) statementNode()   {}

type EmptyStatement struct {
	Base
}

func (e *EmptyStatement) Accept(v Visitor) { v.VisitEmptyStatement(e) }
func (e *EmptyStatement) statementNode()   {}
