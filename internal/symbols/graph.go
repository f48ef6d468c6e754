package symbols

import (
	"path"
	"sort"
	"strings"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
)

// maxAliasDepth bounds alias chains so cyclic re-exports terminate.
const maxAliasDepth = 32

type moduleFile struct {
	path    string
	prog    *ast.Program
	exports map[string]ast.Node
}

// Graph is the session-level module graph. Files are added, bound once, and
// then only read, so a bound Graph is safe for concurrent use.
type Graph struct {
	files   map[string]*moduleFile
	decls   map[ast.NodeID]ast.Node
	parents map[ast.NodeID]ast.Node
	fileOf  map[ast.NodeID]string
	classes map[ast.NodeID]*ast.ClassDeclaration
	bound   bool
}

var _ Resolver = (*Graph)(nil)

func NewGraph() *Graph {
	return &Graph{
		files:   make(map[string]*moduleFile),
		decls:   make(map[ast.NodeID]ast.Node),
		parents: make(map[ast.NodeID]ast.Node),
		fileOf:  make(map[ast.NodeID]string),
		classes: make(map[ast.NodeID]*ast.ClassDeclaration),
	}
}

// AddFile registers a parsed file under prog.File.
func (g *Graph) AddFile(prog *ast.Program) {
	p := normalize(prog.File)
	g.files[p] = &moduleFile{path: p, prog: prog, exports: make(map[string]ast.Node)}
	g.bound = false
}

// Files returns the registered paths in sorted order.
func (g *Graph) Files() []string {
	out := make([]string, 0, len(g.files))
	for p := range g.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Bind resolves every file. It is idempotent.
func (g *Graph) Bind() {
	if g.bound {
		return
	}
	for _, p := range g.Files() {
		b := newBinder(g, g.files[p])
		b.bindProgram()
	}
	g.bound = true
}

// Bind builds a resolver over the given programs.
func Bind(progs ...*ast.Program) *Graph {
	g := NewGraph()
	for _, prog := range progs {
		g.AddFile(prog)
	}
	g.Bind()
	return g
}

func normalize(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// ModuleCandidates lists the file paths an import specifier may name, in
// lookup order. Bare specifiers are external and have none.
func ModuleCandidates(from, spec string) []string {
	if !strings.HasPrefix(spec, ".") {
		return nil
	}
	base := path.Join(path.Dir(normalize(from)), spec)
	candidates := []string{base}
	for _, ext := range config.SourceFileExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range config.SourceFileExtensions {
		candidates = append(candidates, path.Join(base, "index"+ext))
	}
	return candidates
}

// resolveModule maps an import specifier to a session file.
func (g *Graph) resolveModule(from, spec string) (*moduleFile, bool) {
	for _, c := range ModuleCandidates(from, spec) {
		if f, ok := g.files[c]; ok {
			return f, true
		}
	}
	return nil, false
}

func (g *Graph) Declaration(id ast.NodeID) ast.Node {
	if !id.IsValid() {
		return nil
	}
	return g.decls[id]
}

func (g *Graph) Parent(id ast.NodeID) ast.Node {
	if !id.IsValid() {
		return nil
	}
	return g.parents[id]
}

func (g *Graph) SourceFile(n ast.Node) string {
	if n == nil {
		return ""
	}
	return g.fileOf[n.NodeID()]
}

func (g *Graph) EnclosingClass(id ast.NodeID) *ast.ClassDeclaration {
	if !id.IsValid() {
		return nil
	}
	return g.classes[id]
}

func (g *Graph) Aliased(n ast.Node) ast.Node {
	for i := 0; i < maxAliasDepth && n != nil; i++ {
		var next ast.Node
		switch x := n.(type) {
		case *ast.ImportSpecifier:
			decl, _ := g.Parent(x.NodeID()).(*ast.ImportDeclaration)
			next = g.exported(x, decl, x.Imported.Value)
		case *ast.ImportDeclaration:
			next = g.exported(x, x, "default")
		case *ast.ExportSpecifier:
			decl, _ := g.Parent(x.NodeID()).(*ast.ExportDeclaration)
			if decl != nil && decl.Module == nil {
				next = g.decls[x.Local.NodeID()]
			} else {
				next = g.exportedFrom(x, decl, x.Local.Value)
			}
		default:
			return n
		}
		if next == nil {
			return n
		}
		n = next
	}
	return n
}

func (g *Graph) exported(at ast.Node, decl *ast.ImportDeclaration, name string) ast.Node {
	if decl == nil || decl.Module == nil {
		return nil
	}
	f, ok := g.resolveModule(g.SourceFile(at), decl.Module.Value)
	if !ok {
		return nil
	}
	return f.exports[name]
}

func (g *Graph) exportedFrom(at ast.Node, decl *ast.ExportDeclaration, name string) ast.Node {
	if decl == nil || decl.Module == nil {
		return nil
	}
	f, ok := g.resolveModule(g.SourceFile(at), decl.Module.Value)
	if !ok {
		return nil
	}
	return f.exports[name]
}

func (g *Graph) ImportSource(n ast.Node) (string, string, bool) {
	switch x := n.(type) {
	case *ast.ImportSpecifier:
		decl, ok := g.Parent(x.NodeID()).(*ast.ImportDeclaration)
		if !ok || decl.Module == nil {
			return "", "", false
		}
		return decl.Module.Value, x.Imported.Value, true
	case *ast.ImportDeclaration:
		if x.Module == nil {
			return "", "", false
		}
		return x.Module.Value, "default", true
	}
	return "", "", false
}

func (g *Graph) ResolveType(ref *ast.TypeReference) ast.Node {
	if ref == nil || ref.Name == nil {
		return nil
	}
	d := g.Declaration(ref.Name.NodeID())
	if d == nil {
		return nil
	}
	return g.Aliased(d)
}

func (g *Graph) Member(typeDecl ast.Node, name string) ast.Node {
	return g.member(typeDecl, name, make(map[ast.Node]bool))
}

func (g *Graph) member(t ast.Node, name string, seen map[ast.Node]bool) ast.Node {
	if t == nil || seen[t] {
		return nil
	}
	seen[t] = true

	switch t := t.(type) {
	case *ast.ClassDeclaration:
		for _, m := range t.Members {
			if MemberName(m) == name {
				return m
			}
		}
		if t.Extends != nil {
			if m := g.member(g.ResolveType(t.Extends), name, seen); m != nil {
				return m
			}
		}
		for _, impl := range t.Implements {
			if m := g.member(g.ResolveType(impl), name, seen); m != nil {
				return m
			}
		}
	case *ast.InterfaceDeclaration:
		for _, m := range t.Members {
			if MemberName(m) == name {
				return m
			}
		}
		for _, ext := range t.Extends {
			if m := g.member(g.ResolveType(ext), name, seen); m != nil {
				return m
			}
		}
	case *ast.TypeAliasDeclaration:
		return g.memberOfType(t.Type, name, seen)
	}
	return nil
}

func (g *Graph) memberOfType(t ast.Type, name string, seen map[ast.Node]bool) ast.Node {
	switch t := ast.UnwrapParens(t).(type) {
	case *ast.TypeLiteral:
		for _, m := range t.Members {
			if MemberName(m) == name {
				return m
			}
		}
	case *ast.TypeReference:
		return g.member(g.ResolveType(t), name, seen)
	}
	return nil
}

// Heritage returns the declarations t extends or implements, transitively,
// in breadth-first order. External bases appear as their import specifiers.
func (g *Graph) Heritage(t ast.Node) []ast.Node {
	var out []ast.Node
	seen := map[ast.Node]bool{t: true}
	queue := []ast.Node{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var refs []*ast.TypeReference
		switch c := cur.(type) {
		case *ast.ClassDeclaration:
			if c.Extends != nil {
				refs = append(refs, c.Extends)
			}
			refs = append(refs, c.Implements...)
		case *ast.InterfaceDeclaration:
			refs = append(refs, c.Extends...)
		}
		for _, ref := range refs {
			base := g.ResolveType(ref)
			if base == nil || seen[base] {
				continue
			}
			seen[base] = true
			out = append(out, base)
			queue = append(queue, base)
		}
	}
	return out
}
