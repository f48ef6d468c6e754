package token

import "fmt"

type TokenType string

// Token is a single lexeme with its source position.
type Token struct {
	Type          TokenType
	Lexeme        string
	Literal       interface{} // string for identifiers and strings, float64 for numbers
	Line          int
	Column        int
	Offset        int
	NewlineBefore bool // a line break separates this token from the previous one
}

// Position is a 1-based line/column location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set.
func (p Position) IsValid() bool { return p.Line > 0 }

// Span is the source range covered by a node.
type Span struct {
	Start Position
	End   Position
}

func (t Token) Pos() Position { return Position{Line: t.Line, Column: t.Column} }

// EndPos is the position just past the token. Tokens never span lines.
func (t Token) EndPos() Position {
	return Position{Line: t.Line, Column: t.Column + len(t.Lexeme)}
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN          TokenType = "="
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	AND_ASSIGN      TokenType = "&&="
	OR_ASSIGN       TokenType = "||="
	NULLISH_ASSIGN  TokenType = "??="

	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	POWER     TokenType = "**"
	INCREMENT TokenType = "++"
	DECREMENT TokenType = "--"

	BANG      TokenType = "!"
	TILDE     TokenType = "~"
	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	CARET     TokenType = "^"
	AND       TokenType = "&&"
	OR        TokenType = "||"
	NULLISH   TokenType = "??"

	LT         TokenType = "<"
	GT         TokenType = ">"
	LTE        TokenType = "<="
	GTE        TokenType = ">="
	EQ         TokenType = "=="
	NOT_EQ     TokenType = "!="
	STRICT_EQ  TokenType = "==="
	STRICT_NEQ TokenType = "!=="

	// Delimiters
	COMMA          TokenType = ","
	SEMICOLON      TokenType = ";"
	COLON          TokenType = ":"
	QUESTION       TokenType = "?"
	DOT            TokenType = "."
	OPTIONAL_CHAIN TokenType = "?."
	ELLIPSIS       TokenType = "..."
	ARROW          TokenType = "=>"
	AT             TokenType = "@"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	IMPORT     TokenType = "IMPORT"
	EXPORT     TokenType = "EXPORT"
	FUNCTION   TokenType = "FUNCTION"
	CLASS      TokenType = "CLASS"
	INTERFACE  TokenType = "INTERFACE"
	EXTENDS    TokenType = "EXTENDS"
	IMPLEMENTS TokenType = "IMPLEMENTS"
	RETURN     TokenType = "RETURN"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	WHILE      TokenType = "WHILE"
	FOR        TokenType = "FOR"
	BREAK      TokenType = "BREAK"
	CONTINUE   TokenType = "CONTINUE"
	LET        TokenType = "LET"
	CONST      TokenType = "CONST"
	VAR        TokenType = "VAR"
	NEW        TokenType = "NEW"
	THIS       TokenType = "THIS"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	NULL       TokenType = "NULL"
	VOID       TokenType = "VOID"
	TYPEOF     TokenType = "TYPEOF"
	THROW      TokenType = "THROW"
)

var keywords = map[string]TokenType{
	"import":     IMPORT,
	"export":     EXPORT,
	"function":   FUNCTION,
	"class":      CLASS,
	"interface":  INTERFACE,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"return":     RETURN,
	"if":         IF,
	"else":       ELSE,
	"while":      WHILE,
	"for":        FOR,
	"break":      BREAK,
	"continue":   CONTINUE,
	"let":        LET,
	"const":      CONST,
	"var":        VAR,
	"new":        NEW,
	"this":       THIS,
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
	"void":       VOID,
	"typeof":     TYPEOF,
	"throw":      THROW,
}

// LookupIdent maps an identifier lexeme to its keyword type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is a reserved word. Reserved words are still
// accepted as property names.
func IsKeyword(t TokenType) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}
