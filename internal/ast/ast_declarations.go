package ast

// Signature is the callable shape shared by function-like declarations and
// function types.
type Signature struct {
	TypeParams []*TypeParameter
	Parameters []*Parameter
	ReturnType Type // nil when not written
}

// FunctionLike is implemented by every declaration that has a parameter list.
type FunctionLike interface {
	Node
	Sig() *Signature
	Annots() []*Annotation
	// BlockBody returns the block body, or nil for declarations without one and
	// for arrows with an expression body.
	BlockBody() *BlockStatement
}

// Parameter is a formal parameter.
// @memo content: () => void = defaultContent
type Parameter struct {
	Base
	Annotations []*Annotation
	Name        *Identifier
	Optional    bool
	Rest        bool
	Type        Type
	Default     Expression
}

func (p *Parameter) Accept(v Visitor)      { v.VisitParameter(p) }
func (p *Parameter) Annots() []*Annotation { return p.Annotations }

// ImportDeclaration represents an import.
// import { a, b as c } from "./module"
// import type { T } from "runtime"
type ImportDeclaration struct {
	Base
	TypeOnly   bool
	Default    *Identifier
	Specifiers []*ImportSpecifier
	Module     *StringLiteral
}

func (i *ImportDeclaration) Accept(v Visitor) { v.VisitImportDeclaration(i) }
func (i *ImportDeclaration) statementNode()   {}

// ImportSpecifier binds Local to the export Imported of the enclosing import.
type ImportSpecifier struct {
	Base
	Imported *Identifier
	Local    *Identifier // same node as Imported when there is no alias
}

func (i *ImportSpecifier) Accept(v Visitor) { v.VisitImportSpecifier(i) }

// ExportDeclaration represents a named export list, optionally re-exporting.
// export { a, b as c }
// export { a as b } from "./module"
type ExportDeclaration struct {
	Base
	Specifiers []*ExportSpecifier
	Module     *StringLiteral // nil for local exports
}

func (e *ExportDeclaration) Accept(v Visitor) { v.VisitExportDeclaration(e) }
func (e *ExportDeclaration) statementNode()   {}

type ExportSpecifier struct {
	Base
	Local    *Identifier
	Exported *Identifier // same node as Local when there is no alias
}

func (e *ExportSpecifier) Accept(v Visitor) { v.VisitExportSpecifier(e) }

// FunctionDeclaration represents a named function.
// @memo function name<T>(params): R { body }
type FunctionDeclaration struct {
	Base
	Annotations []*Annotation
	Exported    bool
	Name        *Identifier
	Signature
	Body *BlockStatement // nil for overloads and ambient declarations
}

func (f *FunctionDeclaration) Accept(v Visitor)           { v.VisitFunctionDeclaration(f) }
func (f *FunctionDeclaration) statementNode()             {}
func (f *FunctionDeclaration) Sig() *Signature            { return &f.Signature }
func (f *FunctionDeclaration) Annots() []*Annotation      { return f.Annotations }
func (f *FunctionDeclaration) BlockBody() *BlockStatement { return f.Body }

// ClassDeclaration represents a class.
// @memo_stable class Name<T> extends Base implements I { members }
type ClassDeclaration struct {
	Base
	Annotations []*Annotation
	Exported    bool
	Name        *Identifier
	TypeParams  []*TypeParameter
	Extends     *TypeReference
	Implements  []*TypeReference
	Members     []ClassMember
}

func (c *ClassDeclaration) Accept(v Visitor)      { v.VisitClassDeclaration(c) }
func (c *ClassDeclaration) statementNode()        {}
func (c *ClassDeclaration) Annots() []*Annotation { return c.Annotations }

// PropertyDeclaration is a class field.
type PropertyDeclaration struct {
	Base
	Annotations []*Annotation
	Static      bool
	Readonly    bool
	Name        *Identifier
	Optional    bool
	Type        Type
	Initializer Expression
}

func (p *PropertyDeclaration) Accept(v Visitor)      { v.VisitPropertyDeclaration(p) }
func (p *PropertyDeclaration) classMember()          {}
func (p *PropertyDeclaration) Annots() []*Annotation { return p.Annotations }

// MethodDeclaration is a class method.
type MethodDeclaration struct {
	Base
	Annotations []*Annotation
	Static      bool
	Name        *Identifier
	Signature
	Body *BlockStatement
}

func (m *MethodDeclaration) Accept(v Visitor)           { v.VisitMethodDeclaration(m) }
func (m *MethodDeclaration) classMember()               {}
func (m *MethodDeclaration) Sig() *Signature            { return &m.Signature }
func (m *MethodDeclaration) Annots() []*Annotation      { return m.Annotations }
func (m *MethodDeclaration) BlockBody() *BlockStatement { return m.Body }

type Constructor struct {
	Base
	Annotations []*Annotation
	Signature
	Body *BlockStatement
}

func (c *Constructor) Accept(v Visitor)           { v.VisitConstructor(c) }
func (c *Constructor) classMember()               {}
func (c *Constructor) Sig() *Signature            { return &c.Signature }
func (c *Constructor) Annots() []*Annotation      { return c.Annotations }
func (c *Constructor) BlockBody() *BlockStatement { return c.Body }

// GetAccessor: get name(): T { body }
type GetAccessor struct {
	Base
	Annotations []*Annotation
	Static      bool
	Name        *Identifier
	Signature
	Body *BlockStatement
}

func (g *GetAccessor) Accept(v Visitor)           { v.VisitGetAccessor(g) }
func (g *GetAccessor) classMember()               {}
func (g *GetAccessor) Sig() *Signature            { return &g.Signature }
func (g *GetAccessor) Annots() []*Annotation      { return g.Annotations }
func (g *GetAccessor) BlockBody() *BlockStatement { return g.Body }

// SetAccessor: set name(value: T) { body }
type SetAccessor struct {
	Base
	Annotations []*Annotation
	Static      bool
	Name        *Identifier
	Signature
	Body *BlockStatement
}

func (s *SetAccessor) Accept(v Visitor)           { v.VisitSetAccessor(s) }
func (s *SetAccessor) classMember()               {}
func (s *SetAccessor) Sig() *Signature            { return &s.Signature }
func (s *SetAccessor) Annots() []*Annotation      { return s.Annotations }
func (s *SetAccessor) BlockBody() *BlockStatement { return s.Body }

// InterfaceDeclaration represents an interface.
// interface Name<T> extends A, B { members }
type InterfaceDeclaration struct {
	Base
	Annotations []*Annotation
	Exported    bool
	Name        *Identifier
	TypeParams  []*TypeParameter
	Extends     []*TypeReference
	Members     []TypeMember
}

func (i *InterfaceDeclaration) Accept(v Visitor)      { v.VisitInterfaceDeclaration(i) }
func (i *InterfaceDeclaration) statementNode()        {}
func (i *InterfaceDeclaration) Annots() []*Annotation { return i.Annotations }

type PropertySignature struct {
	Base
	Annotations []*Annotation
	Readonly    bool
	Name        *Identifier
	Optional    bool
	Type        Type
}

func (p *PropertySignature) Accept(v Visitor)      { v.VisitPropertySignature(p) }
func (p *PropertySignature) typeMember()           {}
func (p *PropertySignature) Annots() []*Annotation { return p.Annotations }

type MethodSignature struct {
	Base
	Annotations []*Annotation
	Name        *Identifier
	Optional    bool
	Signature
}

func (m *MethodSignature) Accept(v Visitor)           { v.VisitMethodSignature(m) }
func (m *MethodSignature) typeMember()                {}
func (m *MethodSignature) Sig() *Signature            { return &m.Signature }
func (m *MethodSignature) Annots() []*Annotation      { return m.Annotations }
func (m *MethodSignature) BlockBody() *BlockStatement { return nil }

// TypeAliasDeclaration: type Name<T> = Type
type TypeAliasDeclaration struct {
	Base
	Exported   bool
	Name       *Identifier
	TypeParams []*TypeParameter
	Type       Type
}

func (t *TypeAliasDeclaration) Accept(v Visitor) { v.VisitTypeAliasDeclaration(t) }
func (t *TypeAliasDeclaration) statementNode()   {}

// VariableStatement wraps a declaration list in statement position.
type VariableStatement struct {
	Base
	Exported bool
	List     *VariableDeclarationList
}

func (s *VariableStatement) Accept(v Visitor) { v.VisitVariableStatement(s) }
func (s *VariableStatement) statementNode()   {}

// VariableDeclarationList: @memo const a = 1, b = 2
// Annotations written before the statement belong to the list and apply to
// every declaration in it.
type VariableDeclarationList struct {
	Base
	Annotations  []*Annotation
	Kind         string // "const", "let" or "var"
	Declarations []*VariableDeclaration
}

func (l *VariableDeclarationList) Accept(v Visitor)      { v.VisitVariableDeclarationList(l) }
func (l *VariableDeclarationList) Annots() []*Annotation { return l.Annotations }

type VariableDeclaration struct {
	Base
	Name        *Identifier
	Type        Type
	Initializer Expression
}

func (d *VariableDeclaration) Accept(v Visitor) { v.VisitVariableDeclaration(d) }
