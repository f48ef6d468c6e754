package memo

import (
	"github.com/funvibe/memoc/internal/ast"
)

// Tables are filled by the classifier and read by every later stage. All
// keys are parser-assigned ids, so a clone looks up like its original and a
// synthesized node is Regular.
type Tables struct {
	Functions map[ast.NodeID]Kind
	Calls     map[ast.NodeID]Kind
	Variables map[ast.NodeID]Kind

	// Entries holds call sites lexically inside an entry function.
	Entries map[ast.NodeID]bool
}

func NewTables() *Tables {
	return &Tables{
		Functions: make(map[ast.NodeID]Kind),
		Calls:     make(map[ast.NodeID]Kind),
		Variables: make(map[ast.NodeID]Kind),
		Entries:   make(map[ast.NodeID]bool),
	}
}

func lookup(m map[ast.NodeID]Kind, n ast.Node) Kind {
	if n == nil || !n.NodeID().IsValid() {
		return Regular
	}
	return m[n.NodeID()]
}

func set(m map[ast.NodeID]Kind, n ast.Node, k Kind) {
	if n == nil || !n.NodeID().IsValid() || k == Regular {
		return
	}
	m[n.NodeID()] = k
}

func (t *Tables) FunctionKind(n ast.Node) Kind { return lookup(t.Functions, n) }
func (t *Tables) CallKind(n ast.Node) Kind     { return lookup(t.Calls, n) }
func (t *Tables) VariableKind(n ast.Node) Kind { return lookup(t.Variables, n) }

func (t *Tables) SetFunction(n ast.Node, k Kind) { set(t.Functions, n, k) }
func (t *Tables) SetCall(n ast.Node, k Kind)     { set(t.Calls, n, k) }
func (t *Tables) SetVariable(n ast.Node, k Kind) { set(t.Variables, n, k) }

// InEntry reports whether call is exempt from the memo-call rule.
func (t *Tables) InEntry(call ast.Node) bool {
	return call != nil && call.NodeID().IsValid() && t.Entries[call.NodeID()]
}

