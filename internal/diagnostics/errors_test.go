package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/memoc/internal/token"
)

func tok(line, col int, lexeme string) token.Token {
	return token.Token{Type: token.IDENT, Lexeme: lexeme, Line: line, Column: col}
}

func TestNewErrorMessage(t *testing.T) {
	err := NewError(ErrShorthandInMemo, tok(3, 9, "x"), "x")
	assert.Equal(t, "shorthand property x is not allowed inside a memo function, write x: x", err.Message)
	assert.Equal(t, token.Span{Start: token.Position{Line: 3, Column: 9}, End: token.Position{Line: 3, Column: 10}}, err.Span)

	err.File = "a.ts"
	assert.Equal(t, "a.ts:3:9: "+err.Message+" [10002]", err.Error())
}

func TestCollectorDedupAndOrder(t *testing.T) {
	c := &Collector{File: "main.ts"}
	c.Add(NewError(ErrMemoCallFromRegular, tok(5, 1, "f"), "f"))
	c.Add(NewError(ErrMemoCallFromRegular, tok(5, 1, "f"), "f"))
	c.Add(NewError(ErrParameterAssignment, tok(2, 4, "p"), "p"))
	c.Add(NewError(ErrMemoCallInDefault, tok(5, 1, "f"), "f"))

	errs := c.Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, ErrParameterAssignment, errs[0].Code)
	assert.Equal(t, ErrMemoCallFromRegular, errs[1].Code)
	assert.Equal(t, ErrMemoCallInDefault, errs[2].Code)
	for _, e := range errs {
		assert.Equal(t, "main.ts", e.File)
	}
}

func TestRendererPlain(t *testing.T) {
	var buf bytes.Buffer
	e := NewError(ErrP001, tok(1, 2, ")"), ")")
	require.NoError(t, (&Renderer{}).Render(&buf, []*DiagnosticError{e}))
	assert.Equal(t, "1:2: error P001: unexpected token: )\n", buf.String())

	buf.Reset()
	require.NoError(t, (&Renderer{Color: true}).Render(&buf, []*DiagnosticError{e}))
	assert.Contains(t, buf.String(), colorRed)
}
