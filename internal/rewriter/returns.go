package rewriter

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/traverse"
)

// ReturnRewriter sends every return of a memo function through the scope
// cache and unwraps the guard's cached return.
type ReturnRewriter struct {
	mc     *memo.Context
	scopes traverse.Stack[*memo.FunctionInfo]
	// splices are blocks standing for several statements; statement lists
	// inline them.
	splices map[*ast.BlockStatement]bool
}

func NewReturnRewriter(mc *memo.Context) *ReturnRewriter {
	return &ReturnRewriter{mc: mc, splices: make(map[*ast.BlockStatement]bool)}
}

func (r *ReturnRewriter) Rewrite(prog *ast.Program) *ast.Program {
	return r.visit(prog).(*ast.Program)
}

func (r *ReturnRewriter) visit(n ast.Node) ast.Node {
	switch n := n.(type) {
	case ast.Type:
		return n

	case ast.FunctionLike:
		var out ast.Node
		r.scopes.Scoped(r.mc.Function(n), func() {
			out = ast.VisitEachChild(n, r.visit)
		})
		return out

	case *ast.BlockStatement:
		stmts, changed := r.statements(n.Statements)
		if !changed {
			return n
		}
		cp := ast.Clone(n)
		cp.Statements = stmts
		return cp

	case *ast.ReturnStatement:
		info := r.scopes.TopOr(nil)
		if info == nil {
			return n
		}
		return r.rewriteReturn(n, info)
	}
	return ast.VisitEachChild(n, r.visit)
}

func (r *ReturnRewriter) statements(list []ast.Statement) ([]ast.Statement, bool) {
	out := make([]ast.Statement, 0, len(list))
	changed := false
	for _, s := range list {
		v := r.visit(s).(ast.Statement)
		if v != s {
			changed = true
		}
		if b, ok := v.(*ast.BlockStatement); ok && r.splices[b] {
			out = append(out, b.Statements...)
			continue
		}
		out = append(out, v)
	}
	return out, changed
}

func (r *ReturnRewriter) rewriteReturn(ret *ast.ReturnStatement, info *memo.FunctionInfo) ast.Statement {
	if marker, ok := ret.Value.(*ast.CachedReturnMarker); ok {
		cp := ast.Clone(ret)
		cp.Value = marker.Inner
		return cp
	}

	switch {
	case info.Void:
		return r.splice(
			ast.NewExprStmt(recache(ret.Value)),
			ast.NewReturn(nil),
		)
	case info.ReturnsThis:
		value := ret.Value
		if value == nil {
			value = ast.NewThis()
		}
		return r.splice(
			ast.NewExprStmt(recache(nil)),
			ast.NewReturn(value),
		)
	}
	cp := ast.Clone(ret)
	cp.Value = recache(ret.Value)
	return cp
}

func (r *ReturnRewriter) splice(stmts ...ast.Statement) *ast.BlockStatement {
	b := ast.NewBlock(stmts...)
	r.splices[b] = true
	return b
}

// recache builds `__memo_scope.recache(value)`, or `__memo_scope.recache()`.
func recache(value ast.Expression) ast.Expression {
	callee := ast.NewMember(ast.NewIdentifier(config.ScopeName), config.RecacheMethod)
	if value == nil {
		return ast.NewCall(callee, nil)
	}
	return ast.NewCall(callee, nil, value)
}
