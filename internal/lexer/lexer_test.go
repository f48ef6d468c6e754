package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/memoc/internal/token"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Type)
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `@memo
export function f(x?: number, ...rest): void {
	return a?.b ?? c === d;
}`
	want := []token.TokenType{
		token.AT, token.IDENT,
		token.EXPORT, token.FUNCTION, token.IDENT, token.LPAREN, token.IDENT, token.QUESTION, token.COLON, token.IDENT,
		token.COMMA, token.ELLIPSIS, token.IDENT, token.RPAREN, token.COLON, token.VOID, token.LBRACE,
		token.RETURN, token.IDENT, token.OPTIONAL_CHAIN, token.IDENT, token.NULLISH, token.IDENT, token.STRICT_EQ, token.IDENT, token.SEMICOLON,
		token.RBRACE, token.EOF,
	}
	assert.Equal(t, want, types(Tokenize(input)))
}

func TestPositionsAndNewlines(t *testing.T) {
	toks := Tokenize("a\n  b // c\n/* d\n */ e")
	require.Len(t, toks, 4)

	assert.Equal(t, token.Position{Line: 1, Column: 1}, toks[0].Pos())
	assert.False(t, toks[0].NewlineBefore)

	assert.Equal(t, token.Position{Line: 2, Column: 3}, toks[1].Pos())
	assert.True(t, toks[1].NewlineBefore)

	assert.Equal(t, "e", toks[2].Lexeme)
	assert.Equal(t, 4, toks[2].Line)
	assert.True(t, toks[2].NewlineBefore)
}

func TestLiterals(t *testing.T) {
	toks := Tokenize(`'it\'s' "a\nb" 0x1F 1_000 .5 2e3`)
	require.Len(t, toks, 7)

	assert.Equal(t, "it's", toks[0].Literal)
	assert.Equal(t, `'it\'s'`, toks[0].Lexeme)
	assert.Equal(t, "a\nb", toks[1].Literal)
	assert.Equal(t, float64(31), toks[2].Literal)
	assert.Equal(t, float64(1000), toks[3].Literal)
	assert.Equal(t, 0.5, toks[4].Literal)
	assert.Equal(t, float64(2000), toks[5].Literal)
}

func TestConditionalDotNumber(t *testing.T) {
	assert.Equal(t,
		[]token.TokenType{token.IDENT, token.QUESTION, token.NUMBER, token.COLON, token.NUMBER, token.EOF},
		types(Tokenize("a?.5:1")))
}

func TestIllegal(t *testing.T) {
	toks := Tokenize(`"open`)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)

	toks = Tokenize("#")
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
}
