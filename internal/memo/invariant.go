package memo

import (
	"fmt"

	"github.com/funvibe/memoc/internal/ast"
)

// InvariantError is an internal contract breach inside a stage, such as a
// memo-classified call whose callee cannot take arguments. It aborts the
// file being transformed.
type InvariantError struct {
	Node    ast.Node
	Message string
}

func (e *InvariantError) Error() string {
	if e.Node == nil {
		return "invariant violated: " + e.Message
	}
	pos := e.Node.GetToken().Pos()
	return fmt.Sprintf("invariant violated at %d:%d: %s", pos.Line, pos.Column, e.Message)
}

// Failf panics with an *InvariantError. The pipeline recovers it at the file
// boundary.
func Failf(n ast.Node, format string, args ...interface{}) {
	panic(&InvariantError{Node: n, Message: fmt.Sprintf(format, args...)})
}
