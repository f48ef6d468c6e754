package symbols

import (
	"github.com/funvibe/memoc/internal/ast"
)

// DeclarationName returns the name identifier of a declaration, or nil.
func DeclarationName(n ast.Node) *ast.Identifier {
	switch n := n.(type) {
	case *ast.FunctionDeclaration:
		return n.Name
	case *ast.ClassDeclaration:
		return n.Name
	case *ast.InterfaceDeclaration:
		return n.Name
	case *ast.TypeAliasDeclaration:
		return n.Name
	case *ast.VariableDeclaration:
		return n.Name
	case *ast.Parameter:
		return n.Name
	case *ast.MethodDeclaration:
		return n.Name
	case *ast.PropertyDeclaration:
		return n.Name
	case *ast.GetAccessor:
		return n.Name
	case *ast.SetAccessor:
		return n.Name
	case *ast.PropertySignature:
		return n.Name
	case *ast.MethodSignature:
		return n.Name
	case *ast.FunctionExpression:
		return n.Name
	case *ast.TypeParameter:
		return n.Name
	case *ast.ImportSpecifier:
		return n.Local
	case *ast.ImportDeclaration:
		return n.Default
	}
	return nil
}

// MemberName returns the name of a class or type member. Constructors are
// named "constructor".
func MemberName(n ast.Node) string {
	if _, ok := n.(*ast.Constructor); ok {
		return "constructor"
	}
	if id := DeclarationName(n); id != nil {
		return id.Value
	}
	return ""
}

// DeclaredType returns the type written on a declaration. For methods and
// function declarations it is the return type; for properties, variables and
// parameters the annotated type.
func DeclaredType(n ast.Node) ast.Type {
	switch n := n.(type) {
	case *ast.VariableDeclaration:
		return n.Type
	case *ast.Parameter:
		return n.Type
	case *ast.PropertyDeclaration:
		return n.Type
	case *ast.PropertySignature:
		return n.Type
	case *ast.GetAccessor:
		return n.ReturnType
	case ast.FunctionLike:
		return n.Sig().ReturnType
	}
	return nil
}

// TypeDeclOf resolves the static type of a receiver expression to a class,
// interface or type alias declaration. Only named references are followed:
// identifiers with a declared type, `this`, and property accesses on either.
func TypeDeclOf(r Resolver, expr ast.Expression) ast.Node {
	switch e := expr.(type) {
	case *ast.ParenthesizedExpression:
		return TypeDeclOf(r, e.Expression)
	case *ast.ThisExpression:
		if c := r.EnclosingClass(e.NodeID()); c != nil {
			return c
		}
	case *ast.Identifier:
		decl := r.Declaration(e.NodeID())
		if decl == nil {
			return nil
		}
		return typeDeclOfType(r, DeclaredType(r.Aliased(decl)))
	case *ast.MemberExpression:
		owner := TypeDeclOf(r, e.Object)
		if owner == nil {
			return nil
		}
		m := r.Member(owner, e.Property.Value)
		if m == nil {
			return nil
		}
		if _, ok := m.(ast.FunctionLike); ok {
			if _, getter := m.(*ast.GetAccessor); !getter {
				return nil
			}
		}
		return typeDeclOfType(r, DeclaredType(m))
	}
	return nil
}

func typeDeclOfType(r Resolver, t ast.Type) ast.Node {
	if t == nil {
		return nil
	}
	ref, ok := ast.UnwrapParens(t).(*ast.TypeReference)
	if !ok {
		return nil
	}
	return r.ResolveType(ref)
}
