package rewriter

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/traverse"
)

// ThisRewriter redirects `this` inside tracked methods to the value of the
// tracked this wrapper. Arrows see the this of their enclosing function;
// functions and classes start untracked unless they are tracked methods
// themselves.
type ThisRewriter struct {
	mc      *memo.Context
	tracked traverse.Stack[bool]
}

func NewThisRewriter(mc *memo.Context) *ThisRewriter {
	return &ThisRewriter{mc: mc}
}

func (r *ThisRewriter) Rewrite(prog *ast.Program) *ast.Program {
	return r.visit(prog).(*ast.Program)
}

func (r *ThisRewriter) visit(n ast.Node) ast.Node {
	switch n := n.(type) {
	case ast.Type, *ast.Parameter:
		return n

	case *ast.ArrowFunction:
		return r.scoped(r.tracked.TopOr(false), n)

	case ast.FunctionLike:
		info := r.mc.Function(n)
		return r.scoped(info != nil && info.TrackThis, n)

	case *ast.ClassDeclaration:
		return r.scoped(false, n)

	case *ast.ThisExpression:
		// the synthesized `this` handed to the wrapper has no id
		if r.tracked.TopOr(false) && n.NodeID().IsValid() {
			return ast.NewMember(ast.NewIdentifier(config.ThisParamName), config.ValueProperty)
		}
		return n
	}
	return ast.VisitEachChild(n, r.visit)
}

func (r *ThisRewriter) scoped(tracked bool, n ast.Node) ast.Node {
	var out ast.Node
	r.tracked.Scoped(tracked, func() {
		out = ast.VisitEachChild(n, r.visit)
	})
	return out
}
