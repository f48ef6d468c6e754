// Package rewriter turns memo functions into their cached form: hidden
// parameter threading, scope and parameter bindings, reads of tracked
// parameters and this, and returns through the scope cache.
package rewriter

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
)

// HiddenParams builds `__memo_context: __memo_context_type, __memo_id:
// __memo_id_type`.
func HiddenParams() []*ast.Parameter {
	return []*ast.Parameter{
		ast.NewParam(config.ContextParamName, ast.NewTypeRef(config.ContextTypeName)),
		ast.NewParam(config.IDParamName, ast.NewTypeRef(config.IDTypeName)),
	}
}

// WithHiddenParams returns sig with the hidden parameters prepended.
func WithHiddenParams(sig ast.Signature) ast.Signature {
	params := make([]*ast.Parameter, 0, len(sig.Parameters)+2)
	params = append(params, HiddenParams()...)
	params = append(params, sig.Parameters...)
	sig.Parameters = params
	return sig
}

// AddHiddenToType prepends the hidden parameters to a function type, or to
// every function type of a union whose other members are undefined.
// Parentheses are kept. It returns t unchanged and false when t has another
// shape.
func AddHiddenToType(t ast.Type) (ast.Type, bool) {
	switch t := t.(type) {
	case *ast.ParenthesizedType:
		inner, ok := AddHiddenToType(t.Type)
		if !ok {
			return t, false
		}
		cp := ast.Clone(t)
		cp.Type = inner
		return cp, true

	case *ast.FunctionType:
		if hasHidden(t.Parameters) {
			return t, false
		}
		cp := ast.Clone(t)
		cp.Signature = WithHiddenParams(t.Signature)
		return cp, true

	case *ast.UnionType:
		members := make([]ast.Type, len(t.Types))
		rewritten := false
		for i, m := range t.Types {
			if ast.IsKeyword(ast.UnwrapParens(m), "undefined") {
				members[i] = m
				continue
			}
			nm, ok := AddHiddenToType(m)
			if !ok {
				return t, false
			}
			members[i] = nm
			rewritten = true
		}
		if !rewritten {
			return t, false
		}
		cp := ast.Clone(t)
		cp.Types = members
		return cp, true
	}
	return t, false
}

func hasHidden(params []*ast.Parameter) bool {
	for _, p := range params {
		if p.Name != nil && p.Name.Value == config.ContextParamName {
			return true
		}
	}
	return false
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
