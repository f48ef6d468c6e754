package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/memoc/internal/ast"
)

type ObjectType string

const (
	UNDEFINED_OBJ       = "UNDEFINED"
	NULL_OBJ            = "NULL"
	NUMBER_OBJ          = "NUMBER"
	STRING_OBJ          = "STRING"
	BOOLEAN_OBJ         = "BOOLEAN"
	ARRAY_OBJ           = "ARRAY"
	RECORD_OBJ          = "RECORD"
	FUNCTION_OBJ        = "FUNCTION"
	BUILTIN_OBJ         = "BUILTIN"
	CLASS_OBJ           = "CLASS"
	INSTANCE_OBJ        = "INSTANCE"
	BOUND_METHOD_OBJ    = "BOUND_METHOD"
	HOST_OBJ            = "HOST"
	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

var (
	UNDEFINED = &Undefined{}
	NULL      = &Null{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
)

type Undefined struct{}

func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string  { return "undefined" }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return formatNumber(n.Value) }

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = inspectNested(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Record is an object literal. Keys keeps insertion order for Inspect.
type Record struct {
	Keys   []string
	Fields map[string]Object
}

func NewRecord() *Record {
	return &Record{Fields: make(map[string]Object)}
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string  { return inspectFields(r.Keys, r.Fields) }

func (r *Record) Set(key string, val Object) {
	if _, ok := r.Fields[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Fields[key] = val
}

func inspectFields(keys []string, fields map[string]Object) string {
	if len(keys) == 0 {
		return "{}"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + inspectNested(fields[k])
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func inspectNested(o Object) string {
	if s, ok := o.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return o.Inspect()
}

// Function is a user function closed over its defining environment. Arrow
// functions resolve this through Env; other functions get it from the call.
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	Body       ast.Node
	Env        *Environment
	Arrow      bool
	// Home is the class a method was declared in, for super lookups.
	Home *Class
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	if f.Name == "" {
		return "[Function (anonymous)]"
	}
	return "[Function: " + f.Name + "]"
}

type BuiltinFunction func(e *Evaluator, args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "[Function: " + b.Name + "]" }

type Class struct {
	Name        string
	Super       *Class
	Constructor *Function
	Fields      []*ast.PropertyDeclaration
	Methods     map[string]*Function
	Getters     map[string]*Function
	Setters     map[string]*Function
	Statics     *Record
	Env         *Environment
	// Native replaces the constructor chain for builtin classes.
	Native func(e *Evaluator, inst *Instance, args []Object) Object
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "[class " + c.Name + "]" }

func (c *Class) method(name string) *Function {
	for k := c; k != nil; k = k.Super {
		if m, ok := k.Methods[name]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) getter(name string) *Function {
	for k := c; k != nil; k = k.Super {
		if g, ok := k.Getters[name]; ok {
			return g
		}
	}
	return nil
}

func (c *Class) setter(name string) *Function {
	for k := c; k != nil; k = k.Super {
		if s, ok := k.Setters[name]; ok {
			return s
		}
	}
	return nil
}

type Instance struct {
	Class  *Class
	Fields *Record
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string {
	return i.Class.Name + " " + inspectFields(i.Fields.Keys, i.Fields.Fields)
}

// BoundMethod is a method read off a receiver.
type BoundMethod struct {
	Receiver Object
	Fn       *Function
}

func (b *BoundMethod) Type() ObjectType { return BOUND_METHOD_OBJ }
func (b *BoundMethod) Inspect() string  { return b.Fn.Inspect() }

type Error struct {
	Message string
	Line    int
	Column  int
	// Value is the thrown value for errors raised by throw.
	Value Object
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// Error makes runtime errors usable as Go errors at the API boundary.
func (e *Error) Error() string { return e.Inspect() }

type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }
