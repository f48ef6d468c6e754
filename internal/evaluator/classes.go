package evaluator

import (
	"github.com/funvibe/memoc/internal/ast"
)

func (e *Evaluator) evalClass(node *ast.ClassDeclaration, env *Environment) Object {
	cls := &Class{
		Name:    node.Name.Value,
		Methods: make(map[string]*Function),
		Getters: make(map[string]*Function),
		Setters: make(map[string]*Function),
		Statics: NewRecord(),
		Env:     env,
	}
	if node.Extends != nil {
		base, ok := env.Get(node.Extends.Name.Value)
		if !ok {
			return newError("%s is not defined", node.Extends.Name.Value)
		}
		super, ok := base.(*Class)
		if !ok {
			return newError("class %s extends non-class %s", cls.Name, base.Inspect())
		}
		cls.Super = super
	}
	env.Set(cls.Name, cls)

	method := func(name string, sig ast.Signature, body *ast.BlockStatement) *Function {
		return &Function{Name: name, Parameters: sig.Parameters, Body: body, Env: env, Home: cls}
	}
	var statics []*ast.PropertyDeclaration
	for _, m := range node.Members {
		switch m := m.(type) {
		case *ast.Constructor:
			if m.Body != nil {
				cls.Constructor = method("constructor", m.Signature, m.Body)
			}
		case *ast.MethodDeclaration:
			if m.Body == nil {
				continue
			}
			fn := method(m.Name.Value, m.Signature, m.Body)
			if m.Static {
				cls.Statics.Set(m.Name.Value, fn)
			} else {
				cls.Methods[m.Name.Value] = fn
			}
		case *ast.GetAccessor:
			if !m.Static {
				cls.Getters[m.Name.Value] = method(m.Name.Value, m.Signature, m.Body)
			}
		case *ast.SetAccessor:
			if !m.Static {
				cls.Setters[m.Name.Value] = method(m.Name.Value, m.Signature, m.Body)
			}
		case *ast.PropertyDeclaration:
			if m.Static {
				statics = append(statics, m)
			} else {
				cls.Fields = append(cls.Fields, m)
			}
		}
	}

	staticEnv := NewEnclosedEnvironment(env)
	staticEnv.Set("this", cls)
	for _, p := range statics {
		var val Object = UNDEFINED
		if p.Initializer != nil {
			val = e.Eval(p.Initializer, staticEnv)
			if isError(val) {
				return val
			}
		}
		cls.Statics.Set(p.Name.Value, val)
	}
	return UNDEFINED
}

func (e *Evaluator) getProperty(obj Object, name string) Object {
	switch o := obj.(type) {
	case *Instance:
		if v, ok := o.Fields.Fields[name]; ok {
			return v
		}
		if g := o.Class.getter(name); g != nil {
			return e.applyFunction(g, o, nil)
		}
		if m := o.Class.method(name); m != nil {
			return &BoundMethod{Receiver: o, Fn: m}
		}
		return UNDEFINED
	case *Record:
		if v, ok := o.Fields[name]; ok {
			return v
		}
		return UNDEFINED
	case *Class:
		for k := o; k != nil; k = k.Super {
			if v, ok := k.Statics.Fields[name]; ok {
				if fn, ok := v.(*Function); ok {
					return &BoundMethod{Receiver: o, Fn: fn}
				}
				return v
			}
		}
		if name == "name" {
			return &String{Value: o.Name}
		}
		return UNDEFINED
	case *Array:
		return arrayProperty(o, name)
	case *String:
		return stringProperty(o, name)
	case Host:
		return o.Property(name)
	case *Function:
		if name == "name" {
			return &String{Value: o.Name}
		}
		return UNDEFINED
	case *Undefined, *Null:
		return newError("cannot read properties of %s (reading '%s')", obj.Inspect(), name)
	}
	return UNDEFINED
}

func (e *Evaluator) setProperty(obj Object, name string, val Object) Object {
	switch o := obj.(type) {
	case *Instance:
		if s := o.Class.setter(name); s != nil {
			if res := e.applyFunction(s, o, []Object{val}); isError(res) {
				return res
			}
			return val
		}
		if _, ok := o.Fields.Fields[name]; !ok && o.Class.getter(name) != nil {
			return newError("cannot set property %s of %s which has only a getter", name, o.Class.Name)
		}
		o.Fields.Set(name, val)
		return val
	case *Record:
		o.Set(name, val)
		return val
	case *Class:
		o.Statics.Set(name, val)
		return val
	case *Undefined, *Null:
		return newError("cannot set properties of %s (setting '%s')", obj.Inspect(), name)
	}
	return newError("cannot set property %s on %s", name, typeOf(obj))
}
