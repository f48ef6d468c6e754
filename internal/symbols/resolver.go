package symbols

import (
	"github.com/funvibe/memoc/internal/ast"
)

// Resolver answers name and type questions about a bound session. All lookups
// are keyed by NodeID, so clones of a node resolve like the original and
// synthesized nodes resolve to nothing.
type Resolver interface {
	// Declaration returns the declaration an identifier reference binds to:
	// a function, variable, parameter, class, interface, type alias, type
	// parameter or import specifier. Nil when unresolved.
	Declaration(id ast.NodeID) ast.Node

	// Aliased follows import specifiers and export specifiers across the
	// files of the session to the declaration they name. It returns n when n
	// is not an alias or the target is outside the session.
	Aliased(n ast.Node) ast.Node

	// SourceFile returns the path of the file declaring n.
	SourceFile(n ast.Node) string

	// Parent returns the syntactic parent of the node with the given id.
	Parent(id ast.NodeID) ast.Node

	// EnclosingClass returns the class that binds `this` at the given
	// this-expression or class member.
	EnclosingClass(id ast.NodeID) *ast.ClassDeclaration

	// ResolveType resolves a type reference to its class, interface or type
	// alias declaration, following aliases.
	ResolveType(ref *ast.TypeReference) ast.Node

	// Member looks name up on a class, interface or object type alias and
	// along its heritage chain.
	Member(typeDecl ast.Node, name string) ast.Node

	// Heritage lists what a class or interface extends or implements,
	// transitively. Bases outside the session appear as import specifiers.
	Heritage(typeDecl ast.Node) []ast.Node

	// ImportSource reports the module and exported name an import specifier
	// refers to.
	ImportSource(n ast.Node) (module, imported string, ok bool)
}
