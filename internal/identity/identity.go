// Package identity mints the positional keys that address memo scopes.
package identity

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
)

// Counter is the session-wide discriminator counter. It is shared by every
// file of a session and safe for concurrent use.
type Counter struct {
	n atomic.Uint64
}

func (c *Counter) Next() uint64 {
	return c.n.Add(1)
}

// Generator mints discriminators for one file.
type Generator struct {
	counter *Counter
	file    string
	stable  bool
}

func NewGenerator(counter *Counter, file string, stable bool) *Generator {
	if counter == nil {
		counter = &Counter{}
	}
	return &Generator{counter: counter, file: file, stable: stable}
}

// Discriminator returns a fresh call-site fingerprint for name. In stable
// mode it is readable and depends only on the order of calls.
func (g *Generator) Discriminator(name string) string {
	n := g.counter.Next()
	if g.stable {
		return fmt.Sprintf("id_%s_%d@%s", name, n, g.file)
	}
	h := xxhash.New()
	_, _ = h.WriteString(strconv.FormatUint(n, 10))
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(name)
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(g.file)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Key builds `__memo_id + ("<discriminator>")`.
func (g *Generator) Key(name string) ast.Expression {
	return ast.NewBinary("+",
		ast.NewIdentifier(config.IDParamName),
		ast.NewParen(ast.NewString(g.Discriminator(name))))
}
