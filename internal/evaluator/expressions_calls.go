package evaluator

import (
	"github.com/funvibe/memoc/internal/ast"
)

// homeKey binds the class a method was declared in. It is not a valid
// identifier, so programs cannot reach it.
const homeKey = "%home"

func (e *Evaluator) evalCall(node *ast.CallExpression, env *Environment) Object {
	if id, ok := node.Callee.(*ast.Identifier); ok && id.Value == "super" {
		return e.superCall(node, env)
	}

	var fn, this Object
	switch callee := node.Callee.(type) {
	case *ast.MemberExpression:
		if id, ok := callee.Object.(*ast.Identifier); ok && id.Value == "super" {
			fn = e.superMember(callee.Property.Value, env)
			break
		}
		obj := e.Eval(callee.Object, env)
		if isError(obj) {
			return obj
		}
		if callee.Optional && isNullish(obj) {
			return UNDEFINED
		}
		this = obj
		fn = e.getProperty(obj, callee.Property.Value)
	default:
		fn = e.Eval(callee, env)
	}
	if isError(fn) {
		return fn
	}
	if node.Optional && isNullish(fn) {
		return UNDEFINED
	}

	args, errObj := e.evalExpressions(node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	return e.applyFunction(fn, this, args)
}

func (e *Evaluator) applyFunction(fn Object, this Object, args []Object) Object {
	switch fn := fn.(type) {
	case *Function:
		fnEnv, errObj := e.extendFunctionEnv(fn, this, args)
		if errObj != nil {
			return errObj
		}
		var res Object
		if body, ok := fn.Body.(*ast.BlockStatement); ok {
			res = e.evalStatements(body.Statements, fnEnv)
			if _, ok := res.(*ReturnValue); !ok && !isError(res) {
				res = UNDEFINED
			}
		} else {
			res = e.Eval(fn.Body, fnEnv)
		}
		return unwrapReturnValue(res)
	case *BoundMethod:
		return e.applyFunction(fn.Fn, fn.Receiver, args)
	case *Builtin:
		return fn.Fn(e, args...)
	case *Class:
		return newError("class constructor %s cannot be invoked without 'new'", fn.Name)
	}
	if fn == nil {
		return newError("not a function")
	}
	return newError("%s is not a function", fn.Inspect())
}

func (e *Evaluator) extendFunctionEnv(fn *Function, this Object, args []Object) (*Environment, *Error) {
	env := NewEnclosedEnvironment(fn.Env)
	if !fn.Arrow {
		if this == nil {
			this = UNDEFINED
		}
		env.Set("this", this)
	}
	if fn.Home != nil {
		env.Set(homeKey, fn.Home)
	}
	for i, p := range fn.Parameters {
		if p.Rest {
			rest := &Array{}
			if i < len(args) {
				rest.Elements = append(rest.Elements, args[i:]...)
			}
			env.Set(p.Name.Value, rest)
			break
		}
		var val Object = UNDEFINED
		if i < len(args) {
			val = args[i]
		}
		if _, missing := val.(*Undefined); missing && p.Default != nil {
			val = e.Eval(p.Default, env)
			if err, ok := val.(*Error); ok {
				return nil, err
			}
		}
		env.Set(p.Name.Value, val)
	}
	return env, nil
}

func (e *Evaluator) evalNew(node *ast.NewExpression, env *Environment) Object {
	callee := e.Eval(node.Callee, env)
	if isError(callee) {
		return callee
	}
	cls, ok := callee.(*Class)
	if !ok {
		return newError("%s is not a constructor", callee.Inspect())
	}
	args, errObj := e.evalExpressions(node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	inst := &Instance{Class: cls, Fields: NewRecord()}
	if res := e.construct(cls, inst, args); isError(res) {
		return res
	}
	return inst
}

// construct runs the constructor chain of cls on inst. Fields of a class are
// initialized before its constructor body runs, or right after super() for
// derived classes.
func (e *Evaluator) construct(cls *Class, inst *Instance, args []Object) Object {
	if cls.Native != nil {
		return cls.Native(e, inst, args)
	}
	if cls.Constructor == nil {
		if cls.Super != nil {
			if res := e.construct(cls.Super, inst, args); isError(res) {
				return res
			}
		}
		return e.initFields(cls, inst)
	}
	if cls.Super == nil {
		if res := e.initFields(cls, inst); isError(res) {
			return res
		}
	}
	res := e.applyFunction(cls.Constructor, inst, args)
	if isError(res) {
		return res
	}
	return UNDEFINED
}

func (e *Evaluator) initFields(cls *Class, inst *Instance) Object {
	env := NewEnclosedEnvironment(cls.Env)
	env.Set("this", inst)
	for _, f := range cls.Fields {
		var val Object = UNDEFINED
		if f.Initializer != nil {
			val = e.Eval(f.Initializer, env)
			if isError(val) {
				return val
			}
		}
		inst.Fields.Set(f.Name.Value, val)
	}
	return UNDEFINED
}

func (e *Evaluator) superCall(node *ast.CallExpression, env *Environment) Object {
	home, this, errObj := superContext(env)
	if errObj != nil {
		return errObj
	}
	inst, ok := this.(*Instance)
	if !ok {
		return newError("super() outside of a constructor")
	}
	args, argErr := e.evalExpressions(node.Arguments, env)
	if argErr != nil {
		return argErr
	}
	if res := e.construct(home.Super, inst, args); isError(res) {
		return res
	}
	return e.initFields(home, inst)
}

func (e *Evaluator) superMember(name string, env *Environment) Object {
	home, this, errObj := superContext(env)
	if errObj != nil {
		return errObj
	}
	if g := home.Super.getter(name); g != nil {
		return e.applyFunction(g, this, nil)
	}
	if m := home.Super.method(name); m != nil {
		return &BoundMethod{Receiver: this, Fn: m}
	}
	return UNDEFINED
}

func superContext(env *Environment) (*Class, Object, *Error) {
	obj, ok := env.Get(homeKey)
	home, _ := obj.(*Class)
	if !ok || home == nil || home.Super == nil {
		return nil, nil, newError("'super' keyword unexpected here")
	}
	this, _ := env.Get("this")
	return home, this, nil
}
