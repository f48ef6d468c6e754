// Package classifier fills the memo classification tables for one file.
package classifier

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/symbols"
)

// Classifier performs a single depth-first walk over a file, recording the
// kind of every function-like declaration, annotated binding and call site.
type Classifier struct {
	tables   *memo.Tables
	resolver symbols.Resolver
	// entryDepth counts the @memo_entry functions enclosing the walk.
	entryDepth int
}

func New(tables *memo.Tables, r symbols.Resolver) *Classifier {
	return &Classifier{tables: tables, resolver: r}
}

// Classify walks prog and fills the tables.
func (c *Classifier) Classify(prog *ast.Program) {
	c.visit(prog)
}

func (c *Classifier) children(n ast.Node) {
	ast.VisitEachChild(n, func(child ast.Node) ast.Node {
		c.visit(child)
		return child
	})
}

func (c *Classifier) visit(n ast.Node) {
	if n == nil {
		return
	}

	switch n := n.(type) {
	case *ast.CallExpression:
		c.call(n)

	case *ast.VariableDeclaration:
		kind := c.bindingKind(n)
		c.tables.SetVariable(n, kind)
		if kind == memo.Memo {
			c.inferFunction(n.Initializer)
		}

	case *ast.PropertyDeclaration:
		kind := c.bindingKind(n)
		c.tables.SetVariable(n, kind)
		if kind == memo.Memo {
			c.inferFunction(n.Initializer)
		}

	case *ast.Parameter:
		c.tables.SetVariable(n, c.bindingKind(n))

	case *ast.PropertySignature:
		c.tables.SetVariable(n, c.bindingKind(n))
	}

	if fn, ok := n.(ast.FunctionLike); ok {
		c.function(fn)
		return
	}
	c.children(n)
}

// function records the kind of fn and walks it. Inferred kinds set by an
// enclosing call or binding are kept when fn has no annotation of its own.
func (c *Classifier) function(fn ast.FunctionLike) {
	annots := memo.Annotations(c.resolver, fn)
	entry := ast.HasAnnotation(annots, config.MemoEntryAnnotation)

	switch {
	case memo.HasHiddenParams(fn.Sig()):
		delete(c.tables.Functions, fn.NodeID())
	case !entry:
		if kind := memo.AnnotatedKind(annots); kind != memo.Regular {
			c.tables.SetFunction(fn, kind)
		}
	}

	if entry {
		c.entryDepth++
		defer func() { c.entryDepth-- }()
	}
	c.children(fn)
}

// inferFunction marks an unannotated function expression or arrow as Memo.
func (c *Classifier) inferFunction(e ast.Expression) {
	e = unwrap(e)
	fn, ok := e.(ast.FunctionLike)
	if !ok || memo.HasHiddenParams(fn.Sig()) {
		return
	}
	if memo.AnnotatedKind(fn.Annots()) != memo.Regular ||
		ast.HasAnnotation(fn.Annots(), config.MemoEntryAnnotation) {
		return
	}
	c.tables.SetFunction(fn, memo.Memo)
}

func (c *Classifier) call(call *ast.CallExpression) {
	if c.entryDepth > 0 && call.NodeID().IsValid() {
		c.tables.Entries[call.NodeID()] = true
	}

	decl := c.Callee(call.Callee)
	if decl == nil {
		return
	}
	c.tables.SetCall(call, c.DeclKind(decl))

	params := parametersOf(decl)
	for i, arg := range call.Arguments {
		p := paramAt(params, i)
		if p == nil {
			break
		}
		if c.DeclKind(p) == memo.Memo {
			c.inferFunction(arg)
		}
	}
}

// Callee resolves a call target to its declaration: identifiers, this.m,
// x.m where x has a declared class or interface type, and parenthesized
// forms of those. Nil when unresolved.
func (c *Classifier) Callee(callee ast.Expression) ast.Node {
	if c.resolver == nil {
		return nil
	}
	switch e := unwrap(callee).(type) {
	case *ast.Identifier:
		decl := c.resolver.Declaration(e.NodeID())
		if decl == nil {
			return nil
		}
		return c.resolver.Aliased(decl)

	case *ast.MemberExpression:
		owner := symbols.TypeDeclOf(c.resolver, e.Object)
		if owner == nil {
			return nil
		}
		return c.resolver.Member(owner, e.Property.Value)
	}
	return nil
}

// DeclKind computes the kind of a declaration anywhere in the session. It
// does not rely on the tables, which only cover the current file.
func (c *Classifier) DeclKind(decl ast.Node) memo.Kind {
	if fn, ok := decl.(ast.FunctionLike); ok {
		if memo.HasHiddenParams(fn.Sig()) {
			return memo.Regular
		}
		if k := c.tables.FunctionKind(fn); k != memo.Regular {
			return k
		}
		return memo.AnnotatedKind(memo.Annotations(c.resolver, fn))
	}
	return c.bindingKind(decl)
}

// bindingKind classifies parameters, variables and properties from their
// direct annotation. Bindings whose type or initializer already carries the
// hidden parameters are Regular.
func (c *Classifier) bindingKind(decl ast.Node) memo.Kind {
	var init ast.Expression
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		init = d.Initializer
	case *ast.PropertyDeclaration:
		init = d.Initializer
	case *ast.Parameter, *ast.PropertySignature:
	default:
		return memo.Regular
	}

	if hiddenInType(symbols.DeclaredType(decl)) {
		return memo.Regular
	}
	if fn, ok := unwrap(init).(ast.FunctionLike); ok && memo.HasHiddenParams(fn.Sig()) {
		return memo.Regular
	}

	kind := memo.AnnotatedKind(memo.Annotations(c.resolver, decl))
	if kind == memo.Regular {
		// const f = @memo () => {...}
		if fn, ok := unwrap(init).(ast.FunctionLike); ok {
			if _, isVar := decl.(*ast.VariableDeclaration); isVar {
				return memo.AnnotatedKind(fn.Annots())
			}
		}
	}
	return kind
}

// hiddenInType reports whether t is a function type, or a union containing
// one, that already starts with the hidden parameters.
func hiddenInType(t ast.Type) bool {
	switch t := ast.UnwrapParens(t).(type) {
	case *ast.FunctionType:
		return memo.HasHiddenParams(&t.Signature)
	case *ast.UnionType:
		for _, m := range t.Types {
			if hiddenInType(m) {
				return true
			}
		}
	}
	return false
}

// parametersOf returns the formal parameters of a callable declaration,
// including bindings declared with a function type.
func parametersOf(decl ast.Node) []*ast.Parameter {
	if fn, ok := decl.(ast.FunctionLike); ok {
		return fn.Sig().Parameters
	}
	if ft := functionType(symbols.DeclaredType(decl)); ft != nil {
		return ft.Parameters
	}
	if v, ok := decl.(*ast.VariableDeclaration); ok {
		if fn, ok := unwrap(v.Initializer).(ast.FunctionLike); ok {
			return fn.Sig().Parameters
		}
	}
	return nil
}

func functionType(t ast.Type) *ast.FunctionType {
	switch t := ast.UnwrapParens(t).(type) {
	case *ast.FunctionType:
		return t
	case *ast.UnionType:
		for _, m := range t.Types {
			if ft := functionType(m); ft != nil {
				return ft
			}
		}
	}
	return nil
}

// paramAt maps argument i to its parameter; a rest parameter takes every
// remaining argument.
func paramAt(params []*ast.Parameter, i int) *ast.Parameter {
	if len(params) == 0 {
		return nil
	}
	if i < len(params) {
		return params[i]
	}
	if last := params[len(params)-1]; last.Rest {
		return last
	}
	return nil
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
