// Package runtime is a small reference implementation of the memo runtime
// that rewritten programs call into through __memo_context. It keeps one
// slot per scope key holding the last tracked parameter values and the
// cached result.
package runtime

import "reflect"

// Stats counts runtime events. Tests use them to observe caching.
type Stats struct {
	// Opens counts scope() calls.
	Opens int
	// Hits counts scopes that reported unchanged.
	Hits int
	// Recomputes counts recache() calls.
	Recomputes int
	// CachedReads counts reads of the cached value.
	CachedReads int
}

type slot struct {
	params []any
	value  any
	valid  bool
}

// Context is the value bound to __memo_context.
type Context struct {
	slots map[string]*slot
	// Equal compares tracked parameter values. Nil means DefaultEqual.
	Equal func(a, b any) bool
	Stats Stats
}

func NewContext() *Context {
	return &Context{slots: make(map[string]*slot)}
}

// DefaultEqual uses == for comparable values and identity otherwise.
func DefaultEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Pointer:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

func (c *Context) equal(a, b any) bool {
	if c.Equal != nil {
		return c.Equal(a, b)
	}
	return DefaultEqual(a, b)
}

// Size returns the number of scope slots.
func (c *Context) Size() int {
	return len(c.slots)
}

// Scope opens the scope addressed by key with count tracked parameters.
func (c *Context) Scope(key string, count int) *Scope {
	c.Stats.Opens++
	s, ok := c.slots[key]
	if !ok {
		s = &slot{}
		c.slots[key] = s
	}
	return &Scope{ctx: c, key: key, slot: s, params: make([]any, count)}
}

// Scope is one activation of a memo function.
type Scope struct {
	ctx     *Context
	key     string
	slot    *slot
	params  []any
	changed bool
}

func (s *Scope) Key() string { return s.key }

// Param records the current value of tracked parameter i.
func (s *Scope) Param(i int, v any) *Param {
	if i < 0 || i >= len(s.params) {
		s.changed = true
		return &Param{Value: v, Changed: true}
	}
	s.params[i] = v
	changed := !s.slot.valid || len(s.slot.params) != len(s.params) || !s.ctx.equal(s.slot.params[i], v)
	if changed {
		s.changed = true
	}
	return &Param{Value: v, Changed: changed}
}

// Unchanged reports whether the slot holds a result computed from the same
// parameter values.
func (s *Scope) Unchanged() bool {
	if !s.slot.valid || s.changed || len(s.slot.params) != len(s.params) {
		return false
	}
	s.ctx.Stats.Hits++
	return true
}

// Cached returns the cached result.
func (s *Scope) Cached() any {
	s.ctx.Stats.CachedReads++
	return s.slot.value
}

// Recache stores the result and the parameter values it was computed from,
// and returns the result. A void function passes no value.
func (s *Scope) Recache(value ...any) any {
	s.ctx.Stats.Recomputes++
	var v any
	if len(value) > 0 {
		v = value[0]
	}
	s.slot.params = append(s.slot.params[:0], s.params...)
	s.slot.value = v
	s.slot.valid = true
	return v
}

// Param wraps a tracked parameter value.
type Param struct {
	Value   any
	Changed bool
}
