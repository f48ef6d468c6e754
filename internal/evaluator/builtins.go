package evaluator

import (
	"fmt"
	"math"
	"strings"
)

// RegisterBuiltins binds the global functions and objects into env.
func RegisterBuiltins(env *Environment) {
	printFn := &Builtin{Name: "log", Fn: builtinLog}
	env.SetConst("log", printFn)
	env.SetConst("print", &Builtin{Name: "print", Fn: builtinLog})

	console := NewRecord()
	console.Set("log", printFn)
	env.SetConst("console", console)

	env.SetConst("String", &Builtin{Name: "String", Fn: func(e *Evaluator, args ...Object) Object {
		if len(args) == 0 {
			return &String{}
		}
		return &String{Value: toString(args[0])}
	}})
	env.SetConst("Number", &Builtin{Name: "Number", Fn: func(e *Evaluator, args ...Object) Object {
		if len(args) == 0 {
			return &Number{}
		}
		return &Number{Value: toNumber(args[0])}
	}})
	env.SetConst("Boolean", &Builtin{Name: "Boolean", Fn: func(e *Evaluator, args ...Object) Object {
		return nativeBool(len(args) > 0 && isTruthy(args[0]))
	}})

	mathObj := NewRecord()
	mathObj.Set("floor", numeric("floor", math.Floor))
	mathObj.Set("ceil", numeric("ceil", math.Ceil))
	mathObj.Set("round", numeric("round", func(f float64) float64 { return math.Floor(f + 0.5) }))
	mathObj.Set("abs", numeric("abs", math.Abs))
	mathObj.Set("sqrt", numeric("sqrt", math.Sqrt))
	mathObj.Set("max", &Builtin{Name: "max", Fn: func(e *Evaluator, args ...Object) Object {
		res := math.Inf(-1)
		for _, a := range args {
			res = math.Max(res, toNumber(a))
		}
		return &Number{Value: res}
	}})
	mathObj.Set("min", &Builtin{Name: "min", Fn: func(e *Evaluator, args ...Object) Object {
		res := math.Inf(1)
		for _, a := range args {
			res = math.Min(res, toNumber(a))
		}
		return &Number{Value: res}
	}})
	mathObj.Set("PI", &Number{Value: math.Pi})
	env.SetConst("Math", mathObj)

	env.SetConst("Error", &Class{
		Name:    "Error",
		Methods: map[string]*Function{},
		Statics: NewRecord(),
		Native: func(e *Evaluator, inst *Instance, args []Object) Object {
			msg := ""
			if len(args) > 0 {
				msg = toString(args[0])
			}
			inst.Fields.Set("message", &String{Value: msg})
			return UNDEFINED
		},
	})
}

func builtinLog(e *Evaluator, args ...Object) Object {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	fmt.Fprintln(e.Out, strings.Join(parts, " "))
	return UNDEFINED
}

func numeric(name string, fn func(float64) float64) *Builtin {
	return &Builtin{Name: name, Fn: func(e *Evaluator, args ...Object) Object {
		if len(args) == 0 {
			return &Number{Value: math.NaN()}
		}
		return &Number{Value: fn(toNumber(args[0]))}
	}}
}

func arrayProperty(arr *Array, name string) Object {
	method := func(fn BuiltinFunction) Object {
		return &Builtin{Name: name, Fn: fn}
	}
	switch name {
	case "length":
		return &Number{Value: float64(len(arr.Elements))}
	case "push":
		return method(func(e *Evaluator, args ...Object) Object {
			arr.Elements = append(arr.Elements, args...)
			return &Number{Value: float64(len(arr.Elements))}
		})
	case "pop":
		return method(func(e *Evaluator, args ...Object) Object {
			if len(arr.Elements) == 0 {
				return UNDEFINED
			}
			last := arr.Elements[len(arr.Elements)-1]
			arr.Elements = arr.Elements[:len(arr.Elements)-1]
			return last
		})
	case "join":
		return method(func(e *Evaluator, args ...Object) Object {
			sep := ","
			if len(args) > 0 {
				sep = toString(args[0])
			}
			parts := make([]string, len(arr.Elements))
			for i, el := range arr.Elements {
				if !isNullish(el) {
					parts[i] = toString(el)
				}
			}
			return &String{Value: strings.Join(parts, sep)}
		})
	case "includes":
		return method(func(e *Evaluator, args ...Object) Object {
			return nativeBool(len(args) > 0 && indexOf(arr, args[0]) >= 0)
		})
	case "indexOf":
		return method(func(e *Evaluator, args ...Object) Object {
			if len(args) == 0 {
				return &Number{Value: -1}
			}
			return &Number{Value: float64(indexOf(arr, args[0]))}
		})
	case "forEach", "map", "filter":
		return method(func(e *Evaluator, args ...Object) Object {
			if len(args) == 0 {
				return newError("%s expects a callback", name)
			}
			out := &Array{}
			for i, el := range arr.Elements {
				res := e.applyFunction(args[0], nil, []Object{el, &Number{Value: float64(i)}})
				if isError(res) {
					return res
				}
				switch name {
				case "map":
					out.Elements = append(out.Elements, res)
				case "filter":
					if isTruthy(res) {
						out.Elements = append(out.Elements, el)
					}
				}
			}
			if name == "forEach" {
				return UNDEFINED
			}
			return out
		})
	}
	return UNDEFINED
}

func indexOf(arr *Array, v Object) int {
	for i, el := range arr.Elements {
		if SameValue(el, v) {
			return i
		}
	}
	return -1
}

func stringProperty(s *String, name string) Object {
	method := func(fn func(args ...Object) Object) Object {
		return &Builtin{Name: name, Fn: func(e *Evaluator, args ...Object) Object { return fn(args...) }}
	}
	arg := func(args []Object) string {
		if len(args) == 0 {
			return "undefined"
		}
		return toString(args[0])
	}
	switch name {
	case "length":
		return &Number{Value: float64(len(s.Value))}
	case "toUpperCase":
		return method(func(args ...Object) Object { return &String{Value: strings.ToUpper(s.Value)} })
	case "toLowerCase":
		return method(func(args ...Object) Object { return &String{Value: strings.ToLower(s.Value)} })
	case "trim":
		return method(func(args ...Object) Object { return &String{Value: strings.TrimSpace(s.Value)} })
	case "includes":
		return method(func(args ...Object) Object { return nativeBool(strings.Contains(s.Value, arg(args))) })
	case "startsWith":
		return method(func(args ...Object) Object { return nativeBool(strings.HasPrefix(s.Value, arg(args))) })
	case "endsWith":
		return method(func(args ...Object) Object { return nativeBool(strings.HasSuffix(s.Value, arg(args))) })
	}
	return UNDEFINED
}
