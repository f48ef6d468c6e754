package symbols_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/lexer"
	"github.com/funvibe/memoc/internal/parser"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/symbols"
)

func bindFiles(t *testing.T, files map[string]string) (*symbols.Graph, map[string]*ast.Program) {
	t.Helper()
	ids := &ast.IDGen{}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	progs := make(map[string]*ast.Program)
	g := symbols.NewGraph()
	for _, p := range paths {
		ctx := &pipeline.PipelineContext{FilePath: p, SourceCode: files[p], IDs: ids}
		ctx = (&lexer.LexerProcessor{}).Process(ctx)
		ctx = (&parser.ParserProcessor{}).Process(ctx)
		require.Empty(t, ctx.Errors, "parse errors in %s", p)
		progs[p] = ctx.AstRoot
		g.AddFile(ctx.AstRoot)
	}
	g.Bind()
	return g, progs
}

// findIdent returns the nth identifier reference with the given name.
func findIdent(prog *ast.Program, name string, nth int) *ast.Identifier {
	var found *ast.Identifier
	ast.Inspect(prog, func(n ast.Node) bool {
		if id, ok := n.(*ast.Identifier); ok && id.Value == name {
			if nth == 0 && found == nil {
				found = id
			}
			nth--
		}
		return found == nil
	})
	return found
}

func findCall(prog *ast.Program, callee string) *ast.CallExpression {
	var found *ast.CallExpression
	ast.Inspect(prog, func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpression); ok && found == nil {
			if id, ok := c.Callee.(*ast.Identifier); ok && id.Value == callee {
				found = c
			}
		}
		return found == nil
	})
	return found
}

func TestLocalResolution(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"a.ts": `
function run(x: number): number {
    const y = x + 1;
    return helper(y);
}
function helper(v: number): number {
    return v;
}
`,
	})
	prog := progs["a.ts"]

	call := findCall(prog, "helper")
	require.NotNil(t, call)
	decl := g.Declaration(call.Callee.NodeID())
	fn, ok := decl.(*ast.FunctionDeclaration)
	require.True(t, ok, "helper should resolve to a function, got %T", decl)
	assert.Equal(t, "helper", fn.Name.Value)

	x := findIdent(prog, "x", 1)
	require.NotNil(t, x)
	param, ok := g.Declaration(x.NodeID()).(*ast.Parameter)
	require.True(t, ok)
	assert.Equal(t, "x", param.Name.Value)

	y := findIdent(prog, "y", 1)
	_, ok = g.Declaration(y.NodeID()).(*ast.VariableDeclaration)
	assert.True(t, ok)

	assert.Equal(t, "a.ts", g.SourceFile(fn))
}

func TestShadowing(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"a.ts": `
const x = 1;
function f(x: number) {
    return x;
}
function h() {
    return x;
}
`,
	})
	prog := progs["a.ts"]

	inner := findIdent(prog, "x", 2)
	_, ok := g.Declaration(inner.NodeID()).(*ast.Parameter)
	assert.True(t, ok, "x inside f binds to the parameter")

	outer := findIdent(prog, "x", 3)
	_, ok = g.Declaration(outer.NodeID()).(*ast.VariableDeclaration)
	assert.True(t, ok, "x inside h binds to the module constant")
}

func TestUnresolvedIsNil(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{"a.ts": `missing(1);`})
	call := findCall(progs["a.ts"], "missing")
	assert.Nil(t, g.Declaration(call.Callee.NodeID()))
	assert.Nil(t, g.Declaration(ast.NoNodeID))
}

func TestImportAliasAcrossFiles(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"lib/widgets.ts": `
@memo
export function Button(label: string): void {}
`,
		"lib/index.ts": `export { Button as Btn } from "./widgets"`,
		"app.ts": `
import { Btn } from "./lib"
Btn("ok");
`,
	})
	call := findCall(progs["app.ts"], "Btn")
	require.NotNil(t, call)

	decl := g.Declaration(call.Callee.NodeID())
	spec, ok := decl.(*ast.ImportSpecifier)
	require.True(t, ok, "got %T", decl)

	target := g.Aliased(spec)
	fn, ok := target.(*ast.FunctionDeclaration)
	require.True(t, ok, "got %T", target)
	assert.Equal(t, "Button", fn.Name.Value)
	assert.Equal(t, "lib/widgets.ts", g.SourceFile(fn))
}

func TestExternalImport(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"a.ts": `
import { MutableState } from "@koalaui/runtime"
let s: MutableState<number>;
`,
	})
	id := findIdent(progs["a.ts"], "MutableState", 1)
	decl := g.Declaration(id.NodeID())
	require.NotNil(t, decl)
	assert.Same(t, decl, g.Aliased(decl), "external imports are their own target")

	module, name, ok := g.ImportSource(decl)
	require.True(t, ok)
	assert.Equal(t, "@koalaui/runtime", module)
	assert.Equal(t, "MutableState", name)
}

func TestAliasCycleTerminates(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"a.ts": `export { x } from "./b"`,
		"b.ts": `export { x } from "./a"`,
		"c.ts": `
import { x } from "./a"
x();
`,
	})
	call := findCall(progs["c.ts"], "x")
	decl := g.Declaration(call.Callee.NodeID())
	require.NotNil(t, decl)
	assert.NotNil(t, g.Aliased(decl))
}

func TestEnclosingClassAndMembers(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"a.ts": `
interface Base {
    render(): void
}
class Widget implements Base {
    count: number = 0
    render(): void {
        const f = () => this.count;
        const g = function () { return this; };
    }
}
`,
	})
	prog := progs["a.ts"]
	var thisNodes []*ast.ThisExpression
	ast.Inspect(prog, func(n ast.Node) bool {
		if th, ok := n.(*ast.ThisExpression); ok {
			thisNodes = append(thisNodes, th)
		}
		return true
	})
	require.Len(t, thisNodes, 2)

	class := g.EnclosingClass(thisNodes[0].NodeID())
	require.NotNil(t, class, "arrows keep the method's this")
	assert.Equal(t, "Widget", class.Name.Value)
	assert.Nil(t, g.EnclosingClass(thisNodes[1].NodeID()), "function expressions rebind this")

	count := g.Member(class, "count")
	_, ok := count.(*ast.PropertyDeclaration)
	assert.True(t, ok)

	render := g.Member(class, "render")
	_, ok = render.(*ast.MethodDeclaration)
	assert.True(t, ok)
	assert.Nil(t, g.Member(class, "missing"))

	heritage := g.Heritage(class)
	require.Len(t, heritage, 1)
	iface, ok := heritage[0].(*ast.InterfaceDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Base", iface.Name.Value)
}

func TestTypeDeclOf(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{
		"a.ts": `
class Model {
    child: Model
    update(): void {}
}
function use(m: Model) {
    m.update();
    m.child.update();
}
`,
	})
	prog := progs["a.ts"]
	m := findIdent(prog, "m", 1)
	decl := symbols.TypeDeclOf(g, m)
	class, ok := decl.(*ast.ClassDeclaration)
	require.True(t, ok, "got %T", decl)
	assert.Equal(t, "Model", class.Name.Value)

	var chained *ast.MemberExpression
	ast.Inspect(prog, func(n ast.Node) bool {
		if me, ok := n.(*ast.MemberExpression); ok && me.Property.Value == "child" {
			chained = me
		}
		return true
	})
	require.NotNil(t, chained)
	assert.Same(t, class, symbols.TypeDeclOf(g, chained))
}

func TestParentsAndFiles(t *testing.T) {
	g, progs := bindFiles(t, map[string]string{"a.ts": `function f() { return 1; }`})
	prog := progs["a.ts"]
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Same(t, prog, g.Parent(fn.NodeID()))
	assert.Same(t, fn, g.Parent(fn.Body.NodeID()))
	assert.Equal(t, []string{"a.ts"}, g.Files())
}
