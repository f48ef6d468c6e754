package rewriter

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/traverse"
)

// ParamRewriter redirects reads of tracked parameters to the value of their
// wrapper. Only the innermost enclosing function counts: a parameter read
// from a nested closure is left as is.
type ParamRewriter struct {
	mc     *memo.Context
	scopes traverse.Stack[*memo.FunctionInfo]
}

func NewParamRewriter(mc *memo.Context) *ParamRewriter {
	return &ParamRewriter{mc: mc}
}

func (r *ParamRewriter) Rewrite(prog *ast.Program) *ast.Program {
	return r.visit(prog).(*ast.Program)
}

func (r *ParamRewriter) visit(n ast.Node) ast.Node {
	switch n := n.(type) {
	case ast.Type, *ast.Parameter:
		return n

	case ast.FunctionLike:
		var out ast.Node
		r.scopes.Scoped(r.mc.Function(n), func() {
			out = ast.VisitEachChild(n, r.visit)
		})
		return out

	case *ast.Identifier:
		return r.read(n)

	case *ast.BinaryExpression:
		if _, ok := unwrap(n.Left).(*ast.Identifier); ok && n.IsAssignment() {
			right := r.visit(n.Right).(ast.Expression)
			if right == n.Right {
				return n
			}
			cp := ast.Clone(n)
			cp.Right = right
			return cp
		}

	case *ast.PrefixExpression:
		if isUpdate(n.Operator) {
			if _, ok := unwrap(n.Operand).(*ast.Identifier); ok {
				return n
			}
		}

	case *ast.PostfixExpression:
		if _, ok := unwrap(n.Operand).(*ast.Identifier); ok {
			return n
		}

	case *ast.ShorthandPropertyAssignment:
		value := r.read(n.Name)
		if value == ast.Node(n.Name) {
			return n
		}
		return &ast.PropertyAssignment{Base: n.Base, Key: n.Name, Value: value.(ast.Expression)}
	}
	return ast.VisitEachChild(n, r.visit)
}

func (r *ParamRewriter) read(id *ast.Identifier) ast.Node {
	info := r.scopes.TopOr(nil)
	if info == nil || len(info.Tracked) == 0 {
		return id
	}
	param, ok := r.mc.Resolver.Declaration(id.NodeID()).(*ast.Parameter)
	if !ok || param.Name.NodeID() == id.NodeID() {
		return id
	}
	wrapper, ok := info.Tracked[param.NodeID()]
	if !ok {
		return id
	}
	return ast.NewMember(ast.NewIdentifier(wrapper), config.ValueProperty)
}

func isUpdate(op string) bool {
	return op == "++" || op == "--"
}
