package evaluator

import "github.com/funvibe/memoc/internal/runtime"

// SameValue is strict equality: primitives compare by value, everything
// else by identity.
func SameValue(a, b Object) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Undefined:
		_, ok := b.(*Undefined)
		return ok
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *BoundMethod:
		y, ok := b.(*BoundMethod)
		return ok && x.Fn == y.Fn && SameValue(x.Receiver, y.Receiver)
	}
	return a == b
}

func looseEqual(a, b Object) bool {
	if isNullish(a) && isNullish(b) {
		return true
	}
	if isNullish(a) || isNullish(b) {
		return false
	}
	switch a.(type) {
	case *Number, *String, *Boolean:
		switch b.(type) {
		case *Number, *String, *Boolean:
			if a.Type() != b.Type() {
				return toNumber(a) == toNumber(b)
			}
		}
	}
	return SameValue(a, b)
}

// memoEqual compares tracked parameters for the runtime.
func memoEqual(a, b any) bool {
	x, ok1 := a.(Object)
	y, ok2 := b.(Object)
	if ok1 && ok2 {
		return SameValue(x, y)
	}
	return runtime.DefaultEqual(a, b)
}
