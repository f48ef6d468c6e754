package memoc

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/funvibe/memoc/internal/evaluator"
)

// Marshaller handles conversion between Go values and program values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var (
	objectType = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// ToValue converts a Go value to a program value. Numbers become numbers,
// slices arrays, maps with string keys and structs records, and functions
// callable builtins.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.UNDEFINED, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Number{Value: float64(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Number{Value: float64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Number{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		return m.sliceToArray(v)
	case reflect.Map:
		return m.mapToRecord(v)
	case reflect.Struct:
		return m.structToRecord(v)
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.ToValue(v.Elem().Interface())
	case reflect.Func:
		return m.funcToBuiltin(fmt.Sprintf("%T", val), v), nil
	}
	return nil, fmt.Errorf("unsupported Go type %T", val)
}

// FromValue converts a program value to a Go value. targetType is optional;
// if provided, numbers and arrays are converted to it.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	if targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Number:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
				reflect.Float32:
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			}
		}
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.Undefined, *evaluator.Null:
		return nil, nil
	case *evaluator.Array:
		return m.arrayToSlice(o, targetType)
	case *evaluator.Record:
		return m.recordToMap(o.Fields)
	case *evaluator.Instance:
		return m.recordToMap(o.Fields.Fields)
	}
	return obj, nil
}

func (m *Marshaller) sliceToArray(v reflect.Value) (*evaluator.Array, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return &evaluator.Array{Elements: elements}, nil
}

func (m *Marshaller) mapToRecord(v reflect.Value) (*evaluator.Record, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("map keys must be strings, got %s", v.Type().Key())
	}
	rec := evaluator.NewRecord()
	keys := v.MapKeys()
	sortValues(keys)
	for _, k := range keys {
		val, err := m.ToValue(v.MapIndex(k).Interface())
		if err != nil {
			return nil, fmt.Errorf("map value %s: %w", k.String(), err)
		}
		rec.Set(k.String(), val)
	}
	return rec, nil
}

func sortValues(vs []reflect.Value) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].String() < vs[j].String() })
}

func (m *Marshaller) structToRecord(v reflect.Value) (*evaluator.Record, error) {
	rec := evaluator.NewRecord()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // Skip unexported fields
			continue
		}
		val, err := m.ToValue(v.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		rec.Set(field.Name, val)
	}
	return rec, nil
}

func (m *Marshaller) arrayToSlice(a *evaluator.Array, targetType reflect.Type) (interface{}, error) {
	elemType := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(a.Elements))
	for i, el := range a.Elements {
		val, err := m.FromValue(el, elemType)
		if err != nil {
			return nil, err
		}
		if val == nil {
			slice = reflect.Append(slice, reflect.Zero(elemType))
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(elemType) {
			return nil, fmt.Errorf("element %d: cannot use %s as %s", i, rv.Type(), elemType)
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

func (m *Marshaller) recordToMap(fields map[string]evaluator.Object) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		val, err := m.FromValue(v, nil)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

// funcToBuiltin wraps a Go function. A trailing error result that is
// non-nil becomes a runtime error.
func (m *Marshaller) funcToBuiltin(name string, fn reflect.Value) *evaluator.Builtin {
	return &evaluator.Builtin{Name: name, Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		res, err := m.call(fn, args)
		if err != nil {
			return &evaluator.Error{Message: err.Error()}
		}
		return res
	}}
}

func (m *Marshaller) call(fn reflect.Value, args []evaluator.Object) (evaluator.Object, error) {
	fnType := fn.Type()
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()

	if isVariadic {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("expected at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("expected %d arguments, got %d", numIn, len(args))
	}

	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		var targetType reflect.Type
		if isVariadic && i >= numIn-1 {
			targetType = fnType.In(numIn - 1).Elem()
		} else {
			targetType = fnType.In(i)
		}

		val, err := m.FromValue(arg, targetType)
		if err != nil {
			return nil, fmt.Errorf("argument %d conversion failed: %w", i, err)
		}
		if val == nil {
			goArgs[i] = reflect.Zero(targetType)
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(targetType) {
			if !rv.Type().ConvertibleTo(targetType) {
				return nil, fmt.Errorf("argument %d: cannot use %s as %s", i, rv.Type(), targetType)
			}
			rv = rv.Convert(targetType)
		}
		goArgs[i] = rv
	}

	results := fn.Call(goArgs)
	if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
		if err, _ := results[n-1].Interface().(error); err != nil {
			return nil, err
		}
		results = results[:n-1]
	}
	switch len(results) {
	case 0:
		return evaluator.UNDEFINED, nil
	case 1:
		return m.ToValue(results[0].Interface())
	}
	elements := make([]evaluator.Object, len(results))
	for i, res := range results {
		val, err := m.ToValue(res.Interface())
		if err != nil {
			return nil, err
		}
		elements[i] = val
	}
	return &evaluator.Array{Elements: elements}, nil
}
