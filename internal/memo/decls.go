package memo

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/symbols"
)

// Annotations returns the annotations that apply to decl: its own, plus
// those of the nearest enclosing variable declaration list.
func Annotations(r symbols.Resolver, decl ast.Node) []*ast.Annotation {
	var out []*ast.Annotation
	if a, ok := decl.(ast.Annotated); ok {
		out = append(out, a.Annots()...)
	}
	if r == nil || decl == nil {
		return out
	}
	cur := decl
	for i := 0; i < 2; i++ {
		switch p := r.Parent(cur.NodeID()).(type) {
		case *ast.VariableDeclaration:
			if p.Initializer == nil || p.Initializer.NodeID() != cur.NodeID() {
				return out
			}
			cur = p
		case *ast.VariableDeclarationList:
			return append(out, p.Annotations...)
		default:
			return out
		}
	}
	return out
}

// AnnotatedKind maps the memo annotations to a kind. Entry functions are
// Regular.
func AnnotatedKind(annots []*ast.Annotation) Kind {
	switch {
	case ast.HasAnnotation(annots, config.MemoIntrinsicAnnotation):
		return MemoIntrinsic
	case ast.HasAnnotation(annots, config.MemoAnnotation):
		return Memo
	}
	return Regular
}

// HasHiddenParams reports whether sig already carries the hidden context
// parameter, i.e. it was produced by an earlier run.
func HasHiddenParams(sig *ast.Signature) bool {
	if sig == nil {
		return false
	}
	for _, p := range sig.Parameters {
		if p.Name != nil && p.Name.Value == config.ContextParamName {
			return true
		}
	}
	return false
}

// IsStable reports whether c is a @memo_stable class.
func IsStable(c *ast.ClassDeclaration) bool {
	return c != nil && ast.HasAnnotation(c.Annotations, config.MemoStableAnnotation)
}

// IsInstanceMember reports whether fn is a non-static class method, accessor
// or constructor.
func IsInstanceMember(fn ast.Node) bool {
	switch fn := fn.(type) {
	case *ast.MethodDeclaration:
		return !fn.Static
	case *ast.GetAccessor:
		return !fn.Static
	case *ast.SetAccessor:
		return !fn.Static
	}
	return false
}

// ReturnsVoid reports whether the declared return type makes fn void. A
// missing return type counts as void.
func ReturnsVoid(sig *ast.Signature) bool {
	return sig.ReturnType == nil || ast.IsKeyword(ast.UnwrapParens(sig.ReturnType), "void")
}

// ReturnsThisType reports whether fn is declared to return `this` or its own
// class type.
func ReturnsThisType(sig *ast.Signature, class *ast.ClassDeclaration) bool {
	if sig.ReturnType == nil {
		return false
	}
	switch t := ast.UnwrapParens(sig.ReturnType).(type) {
	case *ast.KeywordType:
		return t.Keyword == "this"
	case *ast.TypeReference:
		return class != nil && class.Name != nil && t.Name != nil && t.Name.Value == class.Name.Value
	}
	return false
}

// ReturnsThisValue reports whether some return of fn's own body, outside
// nested functions, returns `this`.
func ReturnsThisValue(fn ast.FunctionLike) bool {
	body := fn.BlockBody()
	if body == nil {
		return false
	}
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case ast.FunctionLike:
			return false
		case *ast.ReturnStatement:
			v := n.Value
			for {
				p, ok := v.(*ast.ParenthesizedExpression)
				if !ok {
					break
				}
				v = p.Expression
			}
			_, found = v.(*ast.ThisExpression)
		}
		return !found
	})
	return found
}
