package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/memoc/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
	sawNewline   bool // a line break was skipped before the current token
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize lexes the whole input. The returned slice always ends with EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if l.readPosition+w >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition+w:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	l.sawNewline = false
	l.skipWhitespaceAndComments()

	line, col, offset := l.line, l.column, l.position
	mk := func(t token.TokenType, lexeme string) token.Token {
		return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col, Offset: offset, NewlineBefore: l.sawNewline}
	}

	// Longest operators first.
	if op, ok := l.matchOperator(); ok {
		for i := 0; i < utf8.RuneCountInString(string(op)); i++ {
			l.readChar()
		}
		return mk(op, string(op))
	}

	switch {
	case l.ch == 0:
		return mk(token.EOF, "")
	case l.ch == '"' || l.ch == '\'':
		lexeme, value, ok := l.readString(l.ch)
		tok := mk(token.STRING, lexeme)
		tok.Literal = value
		if !ok {
			tok.Type = token.ILLEGAL
		}
		return tok
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return mk(token.LookupIdent(ident), ident)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		lexeme := l.readNumber()
		tok := mk(token.NUMBER, lexeme)
		value, err := parseNumber(lexeme)
		if err != nil {
			tok.Type = token.ILLEGAL
			tok.Literal = err.Error()
		} else {
			tok.Literal = value
		}
		return tok
	}

	ch := l.ch
	l.readChar()
	return mk(token.ILLEGAL, string(ch))
}

// operators ordered so that longer lexemes win.
var operators = []token.TokenType{
	token.STRICT_EQ, token.STRICT_NEQ, token.ELLIPSIS, token.AND_ASSIGN, token.OR_ASSIGN, token.NULLISH_ASSIGN,
	token.ARROW, token.EQ, token.NOT_EQ, token.LTE, token.GTE, token.AND, token.OR, token.NULLISH,
	token.OPTIONAL_CHAIN, token.INCREMENT, token.DECREMENT, token.POWER,
	token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.ASTERISK_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
	token.ASSIGN, token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
	token.BANG, token.TILDE, token.AMPERSAND, token.PIPE, token.CARET, token.LT, token.GT,
	token.COMMA, token.SEMICOLON, token.COLON, token.QUESTION, token.DOT, token.AT,
	token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
}

func (l *Lexer) matchOperator() (token.TokenType, bool) {
	if l.ch == 0 {
		return "", false
	}
	rest := l.input[l.position:]
	for _, op := range operators {
		if !strings.HasPrefix(rest, string(op)) {
			continue
		}
		// "?." followed by a digit is a conditional, not optional chaining.
		if op == token.OPTIONAL_CHAIN && len(rest) > 2 && isDigit(rune(rest[2])) {
			continue
		}
		// ".5" is a number.
		if op == token.DOT && len(rest) > 1 && isDigit(rune(rest[1])) {
			continue
		}
		return op, true
	}
	return "", false
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position]
	}
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else if l.ch == '.' && position == l.position {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar2())) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[position:l.position]
}

func parseNumber(lexeme string) (float64, error) {
	clean := strings.ReplaceAll(lexeme, "_", "")
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		v, err := strconv.ParseUint(clean[2:], 16, 64)
		return float64(v), err
	}
	return strconv.ParseFloat(clean, 64)
}

// readString reads a single- or double-quoted string. It returns the raw
// lexeme, the unescaped value and whether the string was terminated.
func (l *Lexer) readString(quote rune) (string, string, bool) {
	start := l.position
	var sb strings.Builder
	l.readChar() // opening quote
	for {
		switch l.ch {
		case 0, '\n':
			return l.input[start:l.position], sb.String(), false
		case quote:
			l.readChar()
			return l.input[start:l.position], sb.String(), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '0':
				sb.WriteRune(0)
			case 0:
				return l.input[start:l.position], sb.String(), false
			default:
				sb.WriteRune(l.ch)
			}
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == '\n':
			l.sawNewline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == '\n' {
					l.sawNewline = true
				}
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
