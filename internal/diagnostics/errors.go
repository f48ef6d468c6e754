package diagnostics

import (
	"fmt"
	"sort"

	"github.com/funvibe/memoc/internal/token"
)

type ErrorCode string

// Parse errors.
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // illegal character or unterminated literal
	ErrP003 ErrorCode = "P003" // malformed declaration
)

// Memo usage rules.
const (
	ErrMemoCallFromRegular  ErrorCode = "10001"
	ErrShorthandInMemo      ErrorCode = "10002"
	ErrMemoCallInDefault    ErrorCode = "10003"
	ErrStateMutation        ErrorCode = "10004"
	ErrParameterAssignment  ErrorCode = "10005"
	ErrMissingReturnType    ErrorCode = "10006"
	ErrArrowMissingReturnTy ErrorCode = "10007"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

var messages = map[ErrorCode]string{
	ErrP001:                 "unexpected token: %s",
	ErrP002:                 "invalid token: %s",
	ErrP003:                 "malformed declaration: %s",
	ErrMemoCallFromRegular:  "memo function %s called from a non-memo context",
	ErrShorthandInMemo:      "shorthand property %s is not allowed inside a memo function, write %[1]s: %[1]s",
	ErrMemoCallInDefault:    "memo function %s called in a parameter default value",
	ErrStateMutation:        "state %s is mutated inside a memo function",
	ErrParameterAssignment:  "memo function parameter %s is reassigned",
	ErrMissingReturnType:    "memo function %s returns a value but has no declared return type",
	ErrArrowMissingReturnTy: "memo arrow function with an expression body must declare its return type",
}

// DiagnosticError is a user-facing finding attached to a source position.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Token    token.Token
	Span     token.Span
	File     string
	Message  string
}

// NewError builds an error diagnostic for code at tok. args fill the code's
// message template.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	msg := string(code)
	if tmpl, ok := messages[code]; ok {
		msg = fmt.Sprintf(tmpl, args...)
	} else if len(args) > 0 {
		msg = fmt.Sprint(args...)
	}
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Span:    token.Span{Start: tok.Pos(), End: tok.EndPos()},
		Message: msg,
	}
}

// WithSpan sets the covered range and returns e.
func (e *DiagnosticError) WithSpan(span token.Span) *DiagnosticError {
	e.Span = span
	return e
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s [%s]", e.File, e.Token.Line, e.Token.Column, e.Message, e.Code)
	}
	return fmt.Sprintf("%d:%d: %s [%s]", e.Token.Line, e.Token.Column, e.Message, e.Code)
}

// Collector deduplicates diagnostics by position and code.
type Collector struct {
	File   string
	errors map[string]*DiagnosticError
}

func (c *Collector) Add(err *DiagnosticError) {
	if err.File == "" {
		err.File = c.File
	}
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if c.errors == nil {
		c.errors = make(map[string]*DiagnosticError)
	}
	if _, ok := c.errors[key]; !ok {
		c.errors[key] = err
	}
}

func (c *Collector) Len() int { return len(c.errors) }

// Errors returns the unique diagnostics sorted by position.
func (c *Collector) Errors() []*DiagnosticError {
	result := make([]*DiagnosticError, 0, len(c.errors))
	for _, err := range c.errors {
		result = append(result, err)
	}
	Sort(result)
	return result
}

// Sort orders diagnostics by file, line, column and code.
func Sort(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Token.Line != b.Token.Line {
			return a.Token.Line < b.Token.Line
		}
		if a.Token.Column != b.Token.Column {
			return a.Token.Column < b.Token.Column
		}
		return a.Code < b.Code
	})
}
