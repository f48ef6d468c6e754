package symbols

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/traverse"
)

// binder walks one file, recording parents, the file of every node, the
// declaration each reference binds to and the class that owns each `this`.
type binder struct {
	g      *Graph
	file   *moduleFile
	scopes traverse.Stack[*SymbolTable]
	// thisOwner is nil inside non-arrow functions that rebind `this`.
	thisOwner traverse.Stack[*ast.ClassDeclaration]
}

func newBinder(g *Graph, f *moduleFile) *binder {
	return &binder{g: g, file: f}
}

func (b *binder) bindProgram() {
	prog := b.file.prog
	b.record(prog, nil)
	b.scopes.Scoped(NewSymbolTable(ScopeModule), func() {
		b.hoist(prog.Statements)
		b.collectExports(prog.Statements)
		b.children(prog)
	})
}

func (b *binder) record(n, parent ast.Node) {
	id := n.NodeID()
	if !id.IsValid() {
		return
	}
	if parent != nil {
		b.g.parents[id] = parent
	}
	b.g.fileOf[id] = b.file.path
}

func (b *binder) children(n ast.Node) {
	ast.VisitEachChild(n, func(c ast.Node) ast.Node {
		b.visit(c, n)
		return c
	})
}

func (b *binder) define(name *ast.Identifier, kind SymbolKind, decl ast.Node) {
	if name == nil {
		return
	}
	top, ok := b.scopes.Top()
	if !ok {
		return
	}
	top.Define(Symbol{Name: name.Value, Kind: kind, DefinitionNode: decl, DefinitionFile: b.file.path})
}

func (b *binder) lookup(name string) ast.Node {
	var found ast.Node
	b.scopes.Each(func(s *SymbolTable) bool {
		if sym, ok := s.Find(name); ok {
			found = sym.DefinitionNode
			return false
		}
		return true
	})
	return found
}

func (b *binder) bindRef(id *ast.Identifier) {
	if decl := b.lookup(id.Value); decl != nil && id.NodeID().IsValid() {
		b.g.decls[id.NodeID()] = decl
	}
}

func (b *binder) bindName(id *ast.Identifier, decl ast.Node) {
	if id != nil && id.NodeID().IsValid() {
		b.g.decls[id.NodeID()] = decl
	}
}

// hoist predeclares everything a statement list binds, so references may
// precede their declarations.
func (b *binder) hoist(stmts []ast.Statement) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.FunctionDeclaration:
			b.define(s.Name, ValueSymbol, s)
		case *ast.ClassDeclaration:
			b.define(s.Name, TypeSymbol, s)
		case *ast.InterfaceDeclaration:
			b.define(s.Name, TypeSymbol, s)
		case *ast.TypeAliasDeclaration:
			b.define(s.Name, TypeSymbol, s)
		case *ast.VariableStatement:
			b.hoistList(s.List)
		case *ast.ImportDeclaration:
			if s.Default != nil {
				b.define(s.Default, ImportSymbol, s)
			}
			for _, spec := range s.Specifiers {
				b.define(spec.Local, ImportSymbol, spec)
			}
		}
	}
}

func (b *binder) hoistList(list *ast.VariableDeclarationList) {
	if list == nil {
		return
	}
	for _, d := range list.Declarations {
		b.define(d.Name, ValueSymbol, d)
	}
}

func (b *binder) collectExports(stmts []ast.Statement) {
	exports := b.file.exports
	add := func(name *ast.Identifier, decl ast.Node) {
		if name == nil {
			return
		}
		if _, ok := exports[name.Value]; !ok {
			exports[name.Value] = decl
		}
	}
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.FunctionDeclaration:
			if s.Exported {
				add(s.Name, s)
			}
		case *ast.ClassDeclaration:
			if s.Exported {
				add(s.Name, s)
			}
		case *ast.InterfaceDeclaration:
			if s.Exported {
				add(s.Name, s)
			}
		case *ast.TypeAliasDeclaration:
			if s.Exported {
				add(s.Name, s)
			}
		case *ast.VariableStatement:
			if s.Exported && s.List != nil {
				for _, d := range s.List.Declarations {
					add(d.Name, d)
				}
			}
		case *ast.ExportDeclaration:
			for _, spec := range s.Specifiers {
				add(spec.Exported, spec)
			}
		}
	}
}

func (b *binder) withScope(kind ScopeType, fn func()) {
	b.scopes.Scoped(NewSymbolTable(kind), fn)
}

func (b *binder) defineTypeParams(tps []*ast.TypeParameter) {
	for _, tp := range tps {
		b.define(tp.Name, TypeSymbol, tp)
	}
}

func (b *binder) defineParams(params []*ast.Parameter) {
	for _, p := range params {
		b.define(p.Name, ValueSymbol, p)
	}
}

// function binds a function-like node in its own scope. Arrows keep the
// enclosing `this`; every other function rebinds it.
func (b *binder) function(n ast.FunctionLike, owner *ast.ClassDeclaration, rebindsThis bool) {
	b.withScope(ScopeFunction, func() {
		if fe, ok := n.(*ast.FunctionExpression); ok && fe.Name != nil {
			b.define(fe.Name, ValueSymbol, fe)
		}
		sig := n.Sig()
		b.defineTypeParams(sig.TypeParams)
		b.defineParams(sig.Parameters)
		if rebindsThis {
			b.thisOwner.Scoped(owner, func() { b.children(n) })
		} else {
			b.children(n)
		}
	})
}

func (b *binder) visit(n, parent ast.Node) {
	if n == nil {
		return
	}
	b.record(n, parent)

	switch n := n.(type) {
	case *ast.Identifier:
		b.identifier(n, parent)
		return

	case *ast.TypeReference:
		if n.Name != nil {
			b.record(n.Name, n)
			b.bindRef(n.Name)
		}
		for _, arg := range n.TypeArgs {
			b.visit(arg, n)
		}
		return

	case *ast.ThisExpression:
		if owner := b.thisOwner.TopOr(nil); owner != nil && n.NodeID().IsValid() {
			b.g.classes[n.NodeID()] = owner
		}
		return

	case *ast.BlockStatement:
		b.withScope(ScopeBlock, func() {
			b.hoist(n.Statements)
			b.children(n)
		})
		return

	case *ast.ForStatement:
		b.withScope(ScopeBlock, func() {
			if list, ok := n.Init.(*ast.VariableDeclarationList); ok {
				b.hoistList(list)
			}
			b.children(n)
		})
		return

	case *ast.ForOfStatement:
		b.withScope(ScopeBlock, func() {
			b.hoistList(n.Declaration)
			b.children(n)
		})
		return

	case *ast.FunctionDeclaration:
		b.function(n, nil, true)
		return
	case *ast.FunctionExpression:
		b.function(n, nil, true)
		return
	case *ast.ArrowFunction:
		b.function(n, nil, false)
		return
	case *ast.FunctionType:
		b.withScope(ScopeFunction, func() {
			b.defineTypeParams(n.TypeParams)
			b.defineParams(n.Parameters)
			b.children(n)
		})
		return
	case *ast.MethodSignature:
		b.withScope(ScopeFunction, func() {
			b.defineTypeParams(n.TypeParams)
			b.defineParams(n.Parameters)
			b.children(n)
		})
		return

	case *ast.ClassDeclaration:
		b.withScope(ScopeClass, func() {
			b.defineTypeParams(n.TypeParams)
			b.children(n)
		})
		return
	case *ast.MethodDeclaration:
		b.member(n, parent)
		b.function(n, b.ownerOf(parent), true)
		return
	case *ast.Constructor:
		b.member(n, parent)
		b.function(n, b.ownerOf(parent), true)
		return
	case *ast.GetAccessor:
		b.member(n, parent)
		b.function(n, b.ownerOf(parent), true)
		return
	case *ast.SetAccessor:
		b.member(n, parent)
		b.function(n, b.ownerOf(parent), true)
		return
	case *ast.PropertyDeclaration:
		b.member(n, parent)
		b.thisOwner.Scoped(b.ownerOf(parent), func() { b.children(n) })
		return

	case *ast.InterfaceDeclaration:
		b.withScope(ScopeClass, func() {
			b.defineTypeParams(n.TypeParams)
			b.children(n)
		})
		return
	case *ast.TypeAliasDeclaration:
		b.withScope(ScopeClass, func() {
			b.defineTypeParams(n.TypeParams)
			b.children(n)
		})
		return
	}

	b.children(n)
}

func (b *binder) member(n, parent ast.Node) {
	if class, ok := parent.(*ast.ClassDeclaration); ok && n.NodeID().IsValid() {
		b.g.classes[n.NodeID()] = class
	}
}

func (b *binder) ownerOf(parent ast.Node) *ast.ClassDeclaration {
	class, _ := parent.(*ast.ClassDeclaration)
	return class
}

// identifier decides from the parent whether id names a declaration, a
// property, or a reference to resolve.
func (b *binder) identifier(id *ast.Identifier, parent ast.Node) {
	switch p := parent.(type) {
	case *ast.MemberExpression:
		if p.Property == id {
			return
		}
	case *ast.PropertyAssignment:
		if p.Key == ast.Expression(id) {
			return
		}
	case *ast.ImportDeclaration:
		b.bindName(id, p)
		return
	case *ast.ImportSpecifier:
		if id == p.Local {
			b.bindName(id, p)
		}
		return
	case *ast.ExportSpecifier:
		if id == p.Local {
			if decl, ok := b.g.parents[p.NodeID()].(*ast.ExportDeclaration); ok && decl.Module == nil {
				b.bindRef(id)
			}
		}
		return
	case *ast.FunctionDeclaration, *ast.ClassDeclaration, *ast.InterfaceDeclaration,
		*ast.TypeAliasDeclaration, *ast.VariableDeclaration, *ast.Parameter,
		*ast.MethodDeclaration, *ast.PropertyDeclaration, *ast.GetAccessor,
		*ast.SetAccessor, *ast.PropertySignature, *ast.MethodSignature,
		*ast.FunctionExpression, *ast.TypeParameter:
		if DeclarationName(parent) == id {
			b.bindName(id, parent)
			return
		}
	}
	b.bindRef(id)
}
