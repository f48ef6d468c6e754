package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/memoc/internal/ast"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if node.Value == "undefined" {
		return UNDEFINED
	}
	return newError("%s is not defined", node.Value)
}

func (e *Evaluator) evalExpressions(exprs []ast.Expression, env *Environment) ([]Object, Object) {
	out := make([]Object, 0, len(exprs))
	for _, x := range exprs {
		if spread, ok := x.(*ast.SpreadElement); ok {
			val := e.Eval(spread.Argument, env)
			if isError(val) {
				return nil, val
			}
			arr, ok := val.(*Array)
			if !ok {
				return nil, newError("cannot spread %s", val.Inspect())
			}
			out = append(out, arr.Elements...)
			continue
		}
		val := e.Eval(x, env)
		if isError(val) {
			return nil, val
		}
		out = append(out, val)
	}
	return out, nil
}

func (e *Evaluator) evalArrayLiteral(node *ast.ArrayLiteral, env *Environment) Object {
	elems, errObj := e.evalExpressions(node.Elements, env)
	if errObj != nil {
		return errObj
	}
	return &Array{Elements: elems}
}

func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, env *Environment) Object {
	rec := NewRecord()
	for _, m := range node.Properties {
		switch m := m.(type) {
		case *ast.PropertyAssignment:
			var key string
			switch k := m.Key.(type) {
			case *ast.Identifier:
				key = k.Value
			case *ast.StringLiteral:
				key = k.Value
			case *ast.NumberLiteral:
				key = formatNumber(k.Value)
			default:
				return newError("unsupported property key %T", m.Key)
			}
			val := e.Eval(m.Value, env)
			if isError(val) {
				return val
			}
			rec.Set(key, val)
		case *ast.ShorthandPropertyAssignment:
			val := e.evalIdentifier(m.Name, env)
			if isError(val) {
				return val
			}
			rec.Set(m.Name.Value, val)
		case *ast.SpreadElement:
			val := e.Eval(m.Argument, env)
			if isError(val) {
				return val
			}
			switch src := val.(type) {
			case *Record:
				for _, k := range src.Keys {
					rec.Set(k, src.Fields[k])
				}
			case *Instance:
				for _, k := range src.Fields.Keys {
					rec.Set(k, src.Fields.Fields[k])
				}
			}
		}
	}
	return rec
}

func (e *Evaluator) evalFunctionExpression(node *ast.FunctionExpression, env *Environment) Object {
	fn := &Function{Parameters: node.Parameters, Body: node.Body, Env: env}
	if node.Name != nil {
		fn.Name = node.Name.Value
		// the name is visible inside the body only
		inner := NewEnclosedEnvironment(env)
		inner.Set(fn.Name, fn)
		fn.Env = inner
	}
	return fn
}

func (e *Evaluator) evalPrefix(node *ast.PrefixExpression, env *Environment) Object {
	switch node.Operator {
	case "++", "--":
		return e.evalIncrement(node.Operand, node.Operator, true, env)
	case "typeof":
		if id, ok := node.Operand.(*ast.Identifier); ok {
			if _, bound := env.Get(id.Value); !bound {
				return &String{Value: "undefined"}
			}
		}
	}

	operand := e.Eval(node.Operand, env)
	if isError(operand) {
		return operand
	}
	switch node.Operator {
	case "!":
		return nativeBool(!isTruthy(operand))
	case "-":
		return &Number{Value: -toNumber(operand)}
	case "+":
		return &Number{Value: toNumber(operand)}
	case "~":
		return &Number{Value: float64(^toInt32(operand))}
	case "typeof":
		return &String{Value: typeOf(operand)}
	case "void":
		return UNDEFINED
	}
	return newError("unknown operator %s", node.Operator)
}

func (e *Evaluator) evalPostfix(node *ast.PostfixExpression, env *Environment) Object {
	return e.evalIncrement(node.Operand, node.Operator, false, env)
}

func (e *Evaluator) evalIncrement(target ast.Expression, op string, prefix bool, env *Environment) Object {
	old := e.Eval(target, env)
	if isError(old) {
		return old
	}
	n := toNumber(old)
	next := n + 1
	if op == "--" {
		next = n - 1
	}
	if res := e.assign(target, &Number{Value: next}, env); isError(res) {
		return res
	}
	if prefix {
		return &Number{Value: next}
	}
	return &Number{Value: n}
}

func (e *Evaluator) evalBinary(node *ast.BinaryExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	switch node.Operator {
	case "&&":
		if !isTruthy(left) {
			return left
		}
		return e.Eval(node.Right, env)
	case "||":
		if isTruthy(left) {
			return left
		}
		return e.Eval(node.Right, env)
	case "??":
		if !isNullish(left) {
			return left
		}
		return e.Eval(node.Right, env)
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	return binaryOp(node.Operator, left, right)
}

func binaryOp(op string, left, right Object) Object {
	switch op {
	case "+":
		_, ls := left.(*String)
		_, rs := right.(*String)
		if ls || rs {
			return &String{Value: toString(left) + toString(right)}
		}
		return &Number{Value: toNumber(left) + toNumber(right)}
	case "-":
		return &Number{Value: toNumber(left) - toNumber(right)}
	case "*":
		return &Number{Value: toNumber(left) * toNumber(right)}
	case "/":
		return &Number{Value: toNumber(left) / toNumber(right)}
	case "%":
		return &Number{Value: math.Mod(toNumber(left), toNumber(right))}
	case "**":
		return &Number{Value: math.Pow(toNumber(left), toNumber(right))}
	case "&":
		return &Number{Value: float64(toInt32(left) & toInt32(right))}
	case "|":
		return &Number{Value: float64(toInt32(left) | toInt32(right))}
	case "^":
		return &Number{Value: float64(toInt32(left) ^ toInt32(right))}
	case "===":
		return nativeBool(SameValue(left, right))
	case "!==":
		return nativeBool(!SameValue(left, right))
	case "==":
		return nativeBool(looseEqual(left, right))
	case "!=":
		return nativeBool(!looseEqual(left, right))
	case "<", ">", "<=", ">=":
		return compare(op, left, right)
	case "instanceof":
		cls, ok := right.(*Class)
		if !ok {
			return newError("right-hand side of instanceof is not a class")
		}
		inst, ok := left.(*Instance)
		if !ok {
			return FALSE
		}
		for k := inst.Class; k != nil; k = k.Super {
			if k == cls {
				return TRUE
			}
		}
		return FALSE
	case "in":
		key := toString(left)
		switch r := right.(type) {
		case *Record:
			_, ok := r.Fields[key]
			return nativeBool(ok)
		case *Instance:
			_, ok := r.Fields.Fields[key]
			return nativeBool(ok || r.Class.method(key) != nil)
		}
		return newError("cannot use 'in' on %s", right.Inspect())
	}
	return newError("unknown operator %s", op)
}

func compare(op string, left, right Object) Object {
	ls, lok := left.(*String)
	rs, rok := right.(*String)
	if lok && rok {
		c := strings.Compare(ls.Value, rs.Value)
		switch op {
		case "<":
			return nativeBool(c < 0)
		case ">":
			return nativeBool(c > 0)
		case "<=":
			return nativeBool(c <= 0)
		}
		return nativeBool(c >= 0)
	}
	l, r := toNumber(left), toNumber(right)
	switch op {
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	}
	return nativeBool(l >= r)
}

func (e *Evaluator) evalAssignment(node *ast.BinaryExpression, env *Environment) Object {
	if node.Operator == "=" {
		val := e.Eval(node.Right, env)
		if isError(val) {
			return val
		}
		return e.assign(node.Left, val, env)
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	op := strings.TrimSuffix(node.Operator, "=")
	var val Object
	switch op {
	case "&&":
		if !isTruthy(left) {
			return left
		}
		val = e.Eval(node.Right, env)
	case "||":
		if isTruthy(left) {
			return left
		}
		val = e.Eval(node.Right, env)
	case "??":
		if !isNullish(left) {
			return left
		}
		val = e.Eval(node.Right, env)
	default:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		val = binaryOp(op, left, right)
	}
	if isError(val) {
		return val
	}
	return e.assign(node.Left, val, env)
}

// assign stores val into the place target denotes and returns val.
func (e *Evaluator) assign(target ast.Expression, val Object, env *Environment) Object {
	switch t := target.(type) {
	case *ast.Identifier:
		found, constant := env.Update(t.Value, val)
		if constant {
			return newError("assignment to constant variable %s", t.Value)
		}
		if !found {
			return newError("%s is not defined", t.Value)
		}
		return val
	case *ast.ParenthesizedExpression:
		return e.assign(t.Expression, val, env)
	case *ast.MemberExpression:
		obj := e.Eval(t.Object, env)
		if isError(obj) {
			return obj
		}
		return e.setProperty(obj, t.Property.Value, val)
	case *ast.IndexExpression:
		obj := e.Eval(t.Object, env)
		if isError(obj) {
			return obj
		}
		idx := e.Eval(t.Index, env)
		if isError(idx) {
			return idx
		}
		if arr, ok := obj.(*Array); ok {
			if n, ok := idx.(*Number); ok {
				i := int(n.Value)
				if i < 0 || float64(i) != n.Value {
					return newError("invalid array index %s", n.Inspect())
				}
				for len(arr.Elements) <= i {
					arr.Elements = append(arr.Elements, UNDEFINED)
				}
				arr.Elements[i] = val
				return val
			}
		}
		return e.setProperty(obj, toString(idx), val)
	}
	return newError("invalid assignment target")
}

func (e *Evaluator) evalMember(node *ast.MemberExpression, env *Environment) Object {
	if id, ok := node.Object.(*ast.Identifier); ok && id.Value == "super" {
		return e.superMember(node.Property.Value, env)
	}
	obj := e.Eval(node.Object, env)
	if isError(obj) {
		return obj
	}
	if node.Optional && isNullish(obj) {
		return UNDEFINED
	}
	return e.getProperty(obj, node.Property.Value)
}

func (e *Evaluator) evalIndex(node *ast.IndexExpression, env *Environment) Object {
	obj := e.Eval(node.Object, env)
	if isError(obj) {
		return obj
	}
	idx := e.Eval(node.Index, env)
	if isError(idx) {
		return idx
	}
	if n, ok := idx.(*Number); ok {
		i := int(n.Value)
		switch o := obj.(type) {
		case *Array:
			if i < 0 || i >= len(o.Elements) || float64(i) != n.Value {
				return UNDEFINED
			}
			return o.Elements[i]
		case *String:
			if i < 0 || i >= len(o.Value) || float64(i) != n.Value {
				return UNDEFINED
			}
			return &String{Value: o.Value[i : i+1]}
		}
	}
	return e.getProperty(obj, toString(idx))
}

func isTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Undefined, *Null:
		return false
	case *Boolean:
		return o.Value
	case *Number:
		return o.Value != 0 && !math.IsNaN(o.Value)
	case *String:
		return o.Value != ""
	}
	return true
}

func isNullish(obj Object) bool {
	switch obj.(type) {
	case *Undefined, *Null:
		return true
	}
	return false
}

func toNumber(obj Object) float64 {
	switch o := obj.(type) {
	case *Number:
		return o.Value
	case *Boolean:
		if o.Value {
			return 1
		}
		return 0
	case *Null:
		return 0
	case *String:
		s := strings.TrimSpace(o.Value)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func toInt32(obj Object) int32 {
	f := toNumber(obj)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

func toString(obj Object) string {
	return obj.Inspect()
}

func typeOf(obj Object) string {
	switch obj.(type) {
	case *Undefined:
		return "undefined"
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Boolean:
		return "boolean"
	case *Function, *Builtin, *BoundMethod, *Class:
		return "function"
	}
	return "object"
}
