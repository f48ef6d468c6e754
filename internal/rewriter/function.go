package rewriter

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/symbols"
)

// FunctionRewriter threads the hidden parameters through memo declarations
// and memo call sites, and gives every memo function with a body its scope
// prologue. It works bottom-up so nested functions are rewritten first.
type FunctionRewriter struct {
	mc *memo.Context
}

func NewFunctionRewriter(mc *memo.Context) *FunctionRewriter {
	return &FunctionRewriter{mc: mc}
}

func (r *FunctionRewriter) Rewrite(prog *ast.Program) *ast.Program {
	return r.visit(prog).(*ast.Program)
}

func (r *FunctionRewriter) visit(n ast.Node) ast.Node {
	n = ast.VisitEachChild(n, r.visit)
	switch n := n.(type) {
	case *ast.CallExpression:
		return r.call(n)
	case ast.FunctionLike:
		return r.function(n)
	}
	return n
}

// call prepends `__memo_context, __memo_id + ("<key>")` to the arguments of
// a memo call.
func (r *FunctionRewriter) call(call *ast.CallExpression) ast.Node {
	if !r.mc.Tables.CallKind(call).IsMemo() {
		return call
	}
	name := calleeName(call.Callee)
	if name == "" {
		memo.Failf(call, "memo call through a %T callee cannot take hidden arguments", call.Callee)
	}
	args := make([]ast.Expression, 0, len(call.Arguments)+2)
	args = append(args, ast.NewIdentifier(config.ContextParamName), r.mc.IDs.Key(name))
	args = append(args, call.Arguments...)

	cp := ast.Clone(call)
	cp.Arguments = args
	return cp
}

func calleeName(e ast.Expression) string {
	switch e := unwrap(e).(type) {
	case *ast.Identifier:
		return e.Value
	case *ast.MemberExpression:
		return e.Property.Value
	}
	return ""
}

func (r *FunctionRewriter) function(fn ast.FunctionLike) ast.Node {
	switch r.mc.Tables.FunctionKind(fn) {
	case memo.Regular:
		return fn
	case memo.MemoIntrinsic:
		return r.shapeOnly(fn)
	}

	switch f := fn.(type) {
	case *ast.GetAccessor:
		return r.getter(f)
	case *ast.SetAccessor:
		return r.setter(f)
	case *ast.MethodSignature:
		return r.shapeOnly(fn)
	case *ast.Constructor:
		memo.Failf(f, "constructors cannot be memo")
	case *ast.ArrowFunction:
		if f.BlockBody() == nil {
			return r.memoFunction(fn, r.arrowBlock(f))
		}
	}
	if fn.BlockBody() == nil {
		return r.shapeOnly(fn)
	}
	return r.memoFunction(fn, fn.BlockBody())
}

// shapeOnly prepends the hidden parameters and leaves the body alone.
func (r *FunctionRewriter) shapeOnly(fn ast.FunctionLike) ast.Node {
	if memo.HasHiddenParams(fn.Sig()) {
		return fn
	}
	r.mc.NeedsTypeImport = true
	return withSignature(fn, WithHiddenParams(*fn.Sig()), nil)
}

// getter and setter keep their accessor signature; only a function-typed
// value gets the hidden parameter types.
func (r *FunctionRewriter) getter(g *ast.GetAccessor) ast.Node {
	t, ok := AddHiddenToType(g.ReturnType)
	if !ok {
		return g
	}
	r.mc.NeedsTypeImport = true
	cp := ast.Clone(g)
	cp.ReturnType = t
	return cp
}

func (r *FunctionRewriter) setter(s *ast.SetAccessor) ast.Node {
	if len(s.Parameters) == 0 {
		return s
	}
	t, ok := AddHiddenToType(s.Parameters[0].Type)
	if !ok {
		return s
	}
	r.mc.NeedsTypeImport = true
	param := ast.Clone(s.Parameters[0])
	param.Type = t
	params := append([]*ast.Parameter{param}, s.Parameters[1:]...)

	cp := ast.Clone(s)
	cp.Parameters = params
	return cp
}

// arrowBlock turns an expression body into a block so the prologue has a
// place to go.
func (r *FunctionRewriter) arrowBlock(a *ast.ArrowFunction) *ast.BlockStatement {
	body, _ := a.Body.(ast.Expression)
	if memo.ReturnsVoid(&a.Signature) {
		return ast.NewBlock(ast.NewExprStmt(body))
	}
	return ast.NewBlock(ast.NewReturn(body))
}

func (r *FunctionRewriter) memoFunction(fn ast.FunctionLike, body *ast.BlockStatement) ast.Node {
	if memo.HasHiddenParams(fn.Sig()) {
		return fn
	}
	sig := fn.Sig()
	info := r.describe(fn)

	var tracked []*ast.Parameter
	for _, p := range sig.Parameters {
		if r.trackable(p) {
			tracked = append(tracked, p)
		}
	}

	count := len(tracked)
	if info.TrackThis {
		count++
	}

	stmts := []ast.Statement{
		ast.NewConst(config.ScopeName, ast.NewCall(
			ast.NewMember(ast.NewIdentifier(config.ContextParamName), config.ScopeMethod),
			[]ast.Type{r.scopeType(sig, info)},
			r.mc.IDs.Key(r.functionName(fn)),
			ast.NewNumber(float64(count)),
		)),
	}

	index := 0
	if info.TrackThis {
		stmts = append(stmts, paramBinding(config.ThisParamName, index, ast.NewThis()))
		index++
	}
	for _, p := range tracked {
		wrapper := config.ParamPrefix + p.Name.Value
		info.Tracked[p.NodeID()] = wrapper
		stmts = append(stmts, paramBinding(wrapper, index, ast.NewIdentifier(p.Name.Value)))
		index++
	}

	stmts = append(stmts, guard(info))
	stmts = append(stmts, body.Statements...)
	if n := len(body.Statements); n == 0 {
		stmts = append(stmts, ast.NewReturn(nil))
	} else if _, ok := body.Statements[n-1].(*ast.ReturnStatement); !ok {
		stmts = append(stmts, ast.NewReturn(nil))
	}

	newBody := ast.Clone(body)
	newBody.Statements = stmts

	r.mc.NeedsTypeImport = true
	out := withSignature(fn, WithHiddenParams(*sig), newBody)
	r.mc.SetFunction(out, info)
	return out
}

func (r *FunctionRewriter) describe(fn ast.FunctionLike) *memo.FunctionInfo {
	info := &memo.FunctionInfo{Kind: memo.Memo, Tracked: make(map[ast.NodeID]string)}
	if memo.IsInstanceMember(fn) {
		class := r.mc.Resolver.EnclosingClass(fn.NodeID())
		stable := memo.IsStable(class)
		info.TrackThis = !stable
		info.ReturnsThis = stable && (memo.ReturnsThisType(fn.Sig(), class) ||
			fn.Sig().ReturnType == nil && memo.ReturnsThisValue(fn))
	}
	info.Void = !info.ReturnsThis && memo.ReturnsVoid(fn.Sig())
	return info
}

// trackable excludes the hidden parameters, content builders and
// @memo_skip parameters.
func (r *FunctionRewriter) trackable(p *ast.Parameter) bool {
	if p.Name == nil {
		return false
	}
	switch p.Name.Value {
	case config.ContextParamName, config.IDParamName:
		return false
	}
	if r.mc.Tables.VariableKind(p).IsMemo() {
		return false
	}
	return !ast.HasAnnotation(p.Annotations, config.MemoSkipAnnotation)
}

func (r *FunctionRewriter) scopeType(sig *ast.Signature, info *memo.FunctionInfo) ast.Type {
	if info.Void || info.ReturnsThis {
		return ast.NewKeywordType("void")
	}
	return sig.ReturnType
}

// functionName is the static name fed to the identity of the scope.
func (r *FunctionRewriter) functionName(fn ast.FunctionLike) string {
	if id := symbols.DeclarationName(fn); id != nil {
		return id.Value
	}
	switch p := r.mc.Resolver.Parent(fn.NodeID()).(type) {
	case *ast.VariableDeclaration:
		return p.Name.Value
	case *ast.PropertyDeclaration:
		return p.Name.Value
	case *ast.PropertyAssignment:
		if id, ok := p.Key.(*ast.Identifier); ok {
			return id.Value
		}
	}
	return "lambda"
}

// paramBinding builds `const <wrapper> = __memo_scope.param(<index>, <value>)`.
func paramBinding(wrapper string, index int, value ast.Expression) ast.Statement {
	return ast.NewConst(wrapper, ast.NewCall(
		ast.NewMember(ast.NewIdentifier(config.ScopeName), config.ParamMethod),
		nil,
		ast.NewNumber(float64(index)),
		value,
	))
}

// guard builds the early return on the unchanged path. Its return value is
// wrapped in a marker that the return rewriter unwraps.
func guard(info *memo.FunctionInfo) ast.Statement {
	scope := func(name string) ast.Expression {
		return ast.NewMember(ast.NewIdentifier(config.ScopeName), name)
	}
	unchanged := scope(config.UnchangedProperty)
	switch {
	case info.Void:
		return ast.NewIf(unchanged, ast.NewBlock(
			ast.NewExprStmt(scope(config.CachedProperty)),
			ast.NewReturn(&ast.CachedReturnMarker{}),
		))
	case info.ReturnsThis:
		return ast.NewIf(unchanged, ast.NewBlock(
			ast.NewExprStmt(scope(config.CachedProperty)),
			ast.NewReturn(&ast.CachedReturnMarker{Inner: ast.NewThis()}),
		))
	}
	return ast.NewIf(unchanged, ast.NewReturn(&ast.CachedReturnMarker{Inner: scope(config.CachedProperty)}))
}

// withSignature returns a copy of fn with sig and, when non-nil, body.
func withSignature(fn ast.FunctionLike, sig ast.Signature, body *ast.BlockStatement) ast.FunctionLike {
	switch f := fn.(type) {
	case *ast.FunctionDeclaration:
		cp := ast.Clone(f)
		cp.Signature = sig
		if body != nil {
			cp.Body = body
		}
		return cp
	case *ast.MethodDeclaration:
		cp := ast.Clone(f)
		cp.Signature = sig
		if body != nil {
			cp.Body = body
		}
		return cp
	case *ast.FunctionExpression:
		cp := ast.Clone(f)
		cp.Signature = sig
		if body != nil {
			cp.Body = body
		}
		return cp
	case *ast.ArrowFunction:
		cp := ast.Clone(f)
		cp.Signature = sig
		if body != nil {
			cp.Body = body
		}
		return cp
	case *ast.MethodSignature:
		cp := ast.Clone(f)
		cp.Signature = sig
		return cp
	}
	memo.Failf(fn, "%T cannot take hidden parameters", fn)
	return nil
}
