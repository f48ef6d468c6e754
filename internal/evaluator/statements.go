package evaluator

import (
	"github.com/funvibe/memoc/internal/ast"
)

// evalStatements runs a statement list in env after hoisting its function
// declarations. Control signals and errors stop the list and are returned
// to the caller.
func (e *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) Object {
	for _, s := range stmts {
		if fn, ok := s.(*ast.FunctionDeclaration); ok && fn.Body != nil && fn.Name != nil {
			env.Set(fn.Name.Value, &Function{
				Name:       fn.Name.Value,
				Parameters: fn.Parameters,
				Body:       fn.Body,
				Env:        env,
			})
		}
	}

	var result Object = UNDEFINED
	for _, s := range stmts {
		result = e.Eval(s, env)
		switch result.(type) {
		case *ReturnValue, *Error, *BreakSignal, *ContinueSignal:
			return result
		}
	}
	return result
}

func (e *Evaluator) evalReturn(node *ast.ReturnStatement, env *Environment) Object {
	if node.Value == nil {
		return &ReturnValue{Value: UNDEFINED}
	}
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func (e *Evaluator) evalIf(node *ast.IfStatement, env *Environment) Object {
	cond := e.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return e.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return UNDEFINED
}

// loopBody runs one iteration. It returns stop=true with the value to
// propagate when the loop must end.
func (e *Evaluator) loopBody(body ast.Statement, env *Environment) (Object, bool) {
	res := e.Eval(body, env)
	switch res.(type) {
	case *BreakSignal:
		return UNDEFINED, true
	case *ReturnValue, *Error:
		return res, true
	}
	return nil, false
}

func (e *Evaluator) evalWhile(node *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if !isTruthy(cond) {
			return UNDEFINED
		}
		if res, stop := e.loopBody(node.Body, env); stop {
			return res
		}
	}
}

func (e *Evaluator) evalFor(node *ast.ForStatement, env *Environment) Object {
	loopEnv := NewEnclosedEnvironment(env)
	switch init := node.Init.(type) {
	case nil:
	case *ast.VariableDeclarationList:
		if res := e.evalVariableList(init, loopEnv); isError(res) {
			return res
		}
	default:
		if res := e.Eval(init, loopEnv); isError(res) {
			return res
		}
	}
	for {
		if node.Condition != nil {
			cond := e.Eval(node.Condition, loopEnv)
			if isError(cond) {
				return cond
			}
			if !isTruthy(cond) {
				return UNDEFINED
			}
		}
		if res, stop := e.loopBody(node.Body, loopEnv); stop {
			return res
		}
		if node.Update != nil {
			if res := e.Eval(node.Update, loopEnv); isError(res) {
				return res
			}
		}
	}
}

func (e *Evaluator) evalForOf(node *ast.ForOfStatement, env *Environment) Object {
	iterable := e.Eval(node.Iterable, env)
	if isError(iterable) {
		return iterable
	}
	var items []Object
	switch it := iterable.(type) {
	case *Array:
		items = append(items, it.Elements...)
	case *String:
		for _, r := range it.Value {
			items = append(items, &String{Value: string(r)})
		}
	default:
		return newError("%s is not iterable", iterable.Inspect())
	}
	if len(node.Declaration.Declarations) != 1 {
		return newError("for-of expects a single binding")
	}
	name := node.Declaration.Declarations[0].Name.Value
	for _, item := range items {
		iterEnv := NewEnclosedEnvironment(env)
		bind(iterEnv, node.Declaration.Kind, name, item)
		if res, stop := e.loopBody(node.Body, iterEnv); stop {
			return res
		}
	}
	return UNDEFINED
}

func (e *Evaluator) evalThrow(node *ast.ThrowStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	msg := val.Inspect()
	if inst, ok := val.(*Instance); ok {
		if m, ok := inst.Fields.Fields["message"]; ok {
			msg = m.Inspect()
		}
	}
	return &Error{Message: "uncaught " + msg, Value: val}
}

func (e *Evaluator) evalVariableList(list *ast.VariableDeclarationList, env *Environment) Object {
	for _, d := range list.Declarations {
		var val Object = UNDEFINED
		if d.Initializer != nil {
			val = e.Eval(d.Initializer, env)
			if isError(val) {
				return val
			}
			if fn, ok := val.(*Function); ok && fn.Name == "" {
				fn.Name = d.Name.Value
			}
		}
		bind(env, list.Kind, d.Name.Value, val)
	}
	return UNDEFINED
}

func bind(env *Environment, kind, name string, val Object) {
	if kind == "const" {
		env.SetConst(name, val)
		return
	}
	env.Set(name, val)
}
