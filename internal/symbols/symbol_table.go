package symbols

import (
	"github.com/funvibe/memoc/internal/ast"
)

type SymbolKind int

type ScopeType int

const (
	ScopeModule ScopeType = iota // File top level
	ScopeFunction
	ScopeBlock
	ScopeClass
)

const (
	ValueSymbol  SymbolKind = iota // functions, variables, parameters
	TypeSymbol                     // classes, interfaces, type aliases, type parameters
	ImportSymbol                   // import specifiers and default imports
)

type Symbol struct {
	Name           string
	Kind           SymbolKind
	DefinitionNode ast.Node // the declaration
	DefinitionFile string
}

// SymbolTable is one lexical scope.
type SymbolTable struct {
	store     map[string]Symbol
	scopeType ScopeType
}

func NewSymbolTable(scopeType ScopeType) *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol), scopeType: scopeType}
}

func (s *SymbolTable) ScopeType() ScopeType { return s.scopeType }

// Define binds name in this scope. Classes and interfaces merge with values
// of the same name; the first declaration wins.
func (s *SymbolTable) Define(sym Symbol) {
	if _, exists := s.store[sym.Name]; exists {
		return
	}
	s.store[sym.Name] = sym
}

func (s *SymbolTable) Find(name string) (Symbol, bool) {
	sym, ok := s.store[name]
	return sym, ok
}

// Len returns the number of bindings in the scope.
func (s *SymbolTable) Len() int { return len(s.store) }
