package evaluator

import "sync"

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

type Environment struct {
	mu     sync.RWMutex
	store  map[string]Object
	consts map[string]bool
	outer  *Environment
}

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	obj, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

func (e *Environment) Set(name string, val Object) Object {
	e.mu.Lock()
	e.store[name] = val
	e.mu.Unlock()
	return val
}

// SetConst binds name in this scope and rejects later updates.
func (e *Environment) SetConst(name string, val Object) Object {
	e.mu.Lock()
	e.store[name] = val
	if e.consts == nil {
		e.consts = make(map[string]bool)
	}
	e.consts[name] = true
	e.mu.Unlock()
	return val
}

// Has reports whether name is bound in this scope, ignoring outer scopes.
func (e *Environment) Has(name string) bool {
	e.mu.RLock()
	_, ok := e.store[name]
	e.mu.RUnlock()
	return ok
}

// Update assigns to the nearest binding of name. It returns found=false when
// name is unbound and constant=true when the binding is a const.
func (e *Environment) Update(name string, val Object) (found, constant bool) {
	e.mu.Lock()
	_, ok := e.store[name]
	if ok {
		if e.consts[name] {
			e.mu.Unlock()
			return true, true
		}
		e.store[name] = val
		e.mu.Unlock()
		return true, false
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Update(name, val)
	}
	return false, false
}
