// Package checker enforces the memo usage rules.
package checker

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/prettyprinter"
	"github.com/funvibe/memoc/internal/symbols"
	"github.com/funvibe/memoc/internal/traverse"
)

type scope struct {
	kind memo.Kind
	fn   ast.FunctionLike
}

// Checker walks the tree as parsed and reports every rule violation. It never
// stops early and never changes the tree.
type Checker struct {
	tables        *memo.Tables
	resolver      symbols.Resolver
	runtimeModule string
	errs          *diagnostics.Collector

	scopes traverse.Stack[scope]
	// inDefault is set while walking a parameter default of the current
	// function.
	inDefault bool
	reported  map[ast.NodeID]bool
}

func New(mc *memo.Context) *Checker {
	return &Checker{
		tables:        mc.Tables,
		resolver:      mc.Resolver,
		runtimeModule: mc.Options.RuntimeModule,
		errs:          &diagnostics.Collector{File: mc.File},
		reported:      make(map[ast.NodeID]bool),
	}
}

// Check returns the sorted, deduplicated diagnostics for prog.
func (c *Checker) Check(prog *ast.Program) []*diagnostics.DiagnosticError {
	c.visit(prog)
	return c.errs.Errors()
}

func (c *Checker) current() scope {
	return c.scopes.TopOr(scope{kind: memo.Regular})
}

func (c *Checker) children(n ast.Node) {
	ast.VisitEachChild(n, func(child ast.Node) ast.Node {
		c.visit(child)
		return child
	})
}

func (c *Checker) report(code diagnostics.ErrorCode, n ast.Node, args ...interface{}) {
	c.errs.Add(diagnostics.NewError(code, n.GetToken(), args...).WithSpan(n.Span()))
}

func (c *Checker) visit(n ast.Node) {
	if n == nil {
		return
	}

	switch n := n.(type) {
	case ast.FunctionLike:
		c.function(n)
		return

	case *ast.Parameter:
		c.visit(n.Name)
		c.visit(n.Type)
		if n.Default != nil {
			saved := c.inDefault
			c.inDefault = true
			c.visit(n.Default)
			c.inDefault = saved
		}
		return

	case *ast.CallExpression:
		c.call(n)

	case *ast.ShorthandPropertyAssignment:
		if c.current().kind.IsMemo() {
			c.report(diagnostics.ErrShorthandInMemo, n, n.Name.Value)
		}

	case *ast.BinaryExpression:
		if n.IsAssignment() {
			c.assignment(n, n.Left)
		}

	case *ast.PrefixExpression:
		if n.Operator == "++" || n.Operator == "--" {
			c.assignment(n, n.Operand)
		}

	case *ast.PostfixExpression:
		c.assignment(n, n.Operand)

	case *ast.ReturnStatement:
		c.returnStatement(n)
	}

	c.children(n)
}

func (c *Checker) function(fn ast.FunctionLike) {
	kind := c.tables.FunctionKind(fn)
	if kind == memo.Memo {
		c.checkArrowBody(fn)
	}

	saved := c.inDefault
	c.inDefault = false
	c.scopes.Scoped(scope{kind: kind, fn: fn}, func() {
		c.children(fn)
	})
	c.inDefault = saved
}

func (c *Checker) call(call *ast.CallExpression) {
	kind := c.tables.CallKind(call)
	if !kind.IsMemo() {
		return
	}
	name := prettyprinter.Print(call.Callee)
	if c.inDefault {
		c.report(diagnostics.ErrMemoCallInDefault, call, name)
		return
	}
	if c.current().kind == memo.Regular && !c.tables.InEntry(call) {
		c.report(diagnostics.ErrMemoCallFromRegular, call, name)
	}
}

// assignment checks writes to state values and to the parameters of the
// innermost memo function.
func (c *Checker) assignment(at ast.Node, target ast.Expression) {
	cur := c.current()
	if cur.kind != memo.Memo {
		return
	}

	switch t := unwrap(target).(type) {
	case *ast.MemberExpression:
		if t.Property.Value != config.ValueProperty {
			return
		}
		if c.hasStateCapability(symbols.TypeDeclOf(c.resolver, t.Object)) {
			c.report(diagnostics.ErrStateMutation, at, prettyprinter.Print(t.Object))
		}

	case *ast.Identifier:
		param, ok := c.resolver.Declaration(t.NodeID()).(*ast.Parameter)
		if !ok {
			return
		}
		for _, p := range cur.fn.Sig().Parameters {
			if p.NodeID() == param.NodeID() {
				c.report(diagnostics.ErrParameterAssignment, at, t.Value)
				return
			}
		}
	}
}

// hasStateCapability reports whether a type declaration is, or inherits
// from, a @memo_state interface or a state interface of the runtime module.
func (c *Checker) hasStateCapability(decl ast.Node) bool {
	if decl == nil {
		return false
	}
	if c.isStateRoot(decl) {
		return true
	}
	for _, base := range c.resolver.Heritage(decl) {
		if c.isStateRoot(base) {
			return true
		}
	}
	return false
}

func (c *Checker) isStateRoot(decl ast.Node) bool {
	switch d := decl.(type) {
	case *ast.InterfaceDeclaration:
		return ast.HasAnnotation(d.Annotations, config.MemoStateAnnotation)
	case *ast.ImportSpecifier:
		module, name, ok := c.resolver.ImportSource(d)
		if !ok || module != c.runtimeModule {
			return false
		}
		for _, s := range config.StateTypeNames {
			if name == s {
				return true
			}
		}
	}
	return false
}

func (c *Checker) returnStatement(ret *ast.ReturnStatement) {
	cur := c.current()
	if cur.kind != memo.Memo || ret.Value == nil || cur.fn.Sig().ReturnType != nil {
		return
	}
	if _, isThis := unwrap(ret.Value).(*ast.ThisExpression); isThis && c.inStableClass(cur.fn) {
		return
	}
	if c.reported[cur.fn.NodeID()] {
		return
	}
	c.reported[cur.fn.NodeID()] = true
	c.report(diagnostics.ErrMissingReturnType, ret, c.functionName(cur.fn))
}

func (c *Checker) inStableClass(fn ast.FunctionLike) bool {
	if !memo.IsInstanceMember(fn) {
		return false
	}
	return memo.IsStable(c.resolver.EnclosingClass(fn.NodeID()))
}

// checkArrowBody reports memo arrows whose expression body produces a value
// without a declared return type.
func (c *Checker) checkArrowBody(fn ast.FunctionLike) {
	arrow, ok := fn.(*ast.ArrowFunction)
	if !ok || arrow.ReturnType != nil {
		return
	}
	body, ok := arrow.Body.(ast.Expression)
	if !ok {
		return
	}
	if p, ok := unwrap(body).(*ast.PrefixExpression); ok && p.Operator == "void" {
		return
	}
	c.report(diagnostics.ErrArrowMissingReturnTy, arrow)
}

// functionName names fn in messages. Anonymous functions take the name of
// the variable or property they initialize.
func (c *Checker) functionName(fn ast.FunctionLike) string {
	if id := symbols.DeclarationName(fn); id != nil {
		return id.Value
	}
	switch p := c.resolver.Parent(fn.NodeID()).(type) {
	case *ast.VariableDeclaration:
		return p.Name.Value
	case *ast.PropertyDeclaration:
		return p.Name.Value
	}
	return "<anonymous>"
}

func unwrap(e ast.Expression) ast.Expression {
	for {
		p, ok := e.(*ast.ParenthesizedExpression)
		if !ok {
			return e
		}
		e = p.Expression
	}
}

