package traverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	var s Stack[string]
	_, ok := s.Top()
	assert.False(t, ok)
	assert.Equal(t, "none", s.TopOr("none"))

	s.Push("a")
	s.Scoped("b", func() {
		top, _ := s.Top()
		assert.Equal(t, "b", top)
		assert.Equal(t, 2, s.Len())

		var seen []string
		s.Each(func(v string) bool {
			seen = append(seen, v)
			return true
		})
		assert.Equal(t, []string{"b", "a"}, seen)
	})
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "a", s.Pop())
	assert.Panics(t, func() { s.Pop() })
}

func TestScopedPopsOnPanic(t *testing.T) {
	var s Stack[int]
	assert.Panics(t, func() {
		s.Scoped(1, func() { panic("boom") })
	})
	assert.Equal(t, 0, s.Len())
}
