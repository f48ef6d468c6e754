package evaluator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/runtime"
)

// Host is an object backed by Go state whose properties are computed on
// read.
type Host interface {
	Object
	Property(name string) Object
}

// MemoContext is the value of __memo_context.
type MemoContext struct {
	Runtime *runtime.Context
}

func (m *MemoContext) Type() ObjectType { return HOST_OBJ }
func (m *MemoContext) Inspect() string  { return "<memo context>" }

func (m *MemoContext) Property(name string) Object {
	if name != config.ScopeMethod {
		return UNDEFINED
	}
	return &Builtin{Name: name, Fn: func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return newError("scope expects 2 arguments, got %d", len(args))
		}
		key, ok := args[0].(*String)
		if !ok {
			return newError("scope key must be a string, got %s", typeOf(args[0]))
		}
		n, ok := args[1].(*Number)
		if !ok {
			return newError("scope parameter count must be a number, got %s", typeOf(args[1]))
		}
		e.Logger.Debug("memo scope", zap.String("key", key.Value), zap.Int("params", int(n.Value)))
		return &MemoScope{Scope: m.Runtime.Scope(key.Value, int(n.Value))}
	}}
}

// MemoScope wraps one activation of a memo function.
type MemoScope struct {
	Scope *runtime.Scope
}

func (m *MemoScope) Type() ObjectType { return HOST_OBJ }
func (m *MemoScope) Inspect() string  { return fmt.Sprintf("<memo scope %s>", m.Scope.Key()) }

func (m *MemoScope) Property(name string) Object {
	switch name {
	case config.UnchangedProperty:
		return nativeBool(m.Scope.Unchanged())
	case config.CachedProperty:
		return fromRuntime(m.Scope.Cached())
	case config.ParamMethod:
		return &Builtin{Name: name, Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 2 {
				return newError("param expects 2 arguments, got %d", len(args))
			}
			i, ok := args[0].(*Number)
			if !ok {
				return newError("param index must be a number, got %s", typeOf(args[0]))
			}
			return &MemoParam{Param: m.Scope.Param(int(i.Value), args[1])}
		}}
	case config.RecacheMethod:
		return &Builtin{Name: name, Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) == 0 {
				m.Scope.Recache()
				return UNDEFINED
			}
			return fromRuntime(m.Scope.Recache(args[0]))
		}}
	}
	return UNDEFINED
}

// MemoParam wraps a tracked parameter.
type MemoParam struct {
	Param *runtime.Param
}

func (m *MemoParam) Type() ObjectType { return HOST_OBJ }
func (m *MemoParam) Inspect() string  { return "<memo param>" }

func (m *MemoParam) Property(name string) Object {
	switch name {
	case config.ValueProperty:
		return fromRuntime(m.Param.Value)
	case "changed":
		return nativeBool(m.Param.Changed)
	}
	return UNDEFINED
}

func fromRuntime(v any) Object {
	if o, ok := v.(Object); ok {
		return o
	}
	return UNDEFINED
}
