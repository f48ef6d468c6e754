// Package traverse holds helpers shared by the tree passes.
package traverse

// Stack is a scope stack. Each pass instantiates it with its own payload:
// a function kind, a binding scope, a tracked-this flag.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element. It panics on an empty stack.
func (s *Stack[T]) Pop() T {
	n := len(s.items) - 1
	v := s.items[n]
	var zero T
	s.items[n] = zero
	s.items = s.items[:n]
	return v
}

// Top returns the top element, or the zero value and false.
func (s *Stack[T]) Top() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// TopOr returns the top element or def when the stack is empty.
func (s *Stack[T]) TopOr(def T) T {
	if v, ok := s.Top(); ok {
		return v
	}
	return def
}

func (s *Stack[T]) Len() int { return len(s.items) }

// Scoped pushes v, runs fn and pops v again.
func (s *Stack[T]) Scoped(v T, fn func()) {
	s.Push(v)
	defer s.Pop()
	fn()
}

// Each calls fn from the top of the stack down until fn returns false.
func (s *Stack[T]) Each(fn func(T) bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if !fn(s.items[i]) {
			return
		}
	}
}
