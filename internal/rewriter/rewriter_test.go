package rewriter_test

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/checker"
	"github.com/funvibe/memoc/internal/classifier"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/memotest"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/prettyprinter"
	"github.com/funvibe/memoc/internal/rewriter"
	"github.com/funvibe/memoc/internal/typeprop"
)

var update = flag.Bool("update", false, "update golden files")

func stages() []pipeline.Processor {
	return []pipeline.Processor{
		&classifier.ClassifierProcessor{},
		&checker.CheckerProcessor{},
		&rewriter.FunctionProcessor{},
		&rewriter.ParamsProcessor{},
		&rewriter.ThisProcessor{},
		&rewriter.ReturnsProcessor{},
		&typeprop.TypePropProcessor{},
	}
}

// transform runs every stage on src and returns the printed result.
func transform(t *testing.T, src string) string {
	t.Helper()
	ctx := memotest.Run(t, memotest.PrepareOne(t, src), stages()...)
	expectNoErrors(t, ctx)
	return prettyprinter.Print(ctx.AstRoot)
}

func expectNoErrors(t *testing.T, ctx *pipeline.PipelineContext) {
	t.Helper()
	if len(ctx.Errors) == 0 {
		return
	}
	var msgs []string
	for _, e := range ctx.Errors {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected no errors, got:\n%s", strings.Join(msgs, "\n"))
}

func TestGolden(t *testing.T) {
	path := filepath.Join("testdata", "rewrite.txtar")
	archive, err := txtar.ParseFile(path)
	require.NoError(t, err)

	outputs := map[string]int{}
	for i, f := range archive.Files {
		if strings.HasSuffix(f.Name, ".out") {
			outputs[strings.TrimSuffix(f.Name, ".out")] = i
		}
	}

	for _, f := range archive.Files {
		if !strings.HasSuffix(f.Name, ".ts") {
			continue
		}
		name := strings.TrimSuffix(f.Name, ".ts")
		idx, ok := outputs[name]
		require.True(t, ok, "missing %s.out", name)

		t.Run(name, func(t *testing.T) {
			got := transform(t, string(f.Data))
			if *update {
				archive.Files[idx].Data = []byte(got)
				return
			}
			assert.Equal(t, string(archive.Files[idx].Data), got)
		})
	}

	if *update {
		require.NoError(t, os.WriteFile(path, txtar.Format(archive), 0644))
	}
}

// A transformed file is a fixed point: nothing in it classifies as memo any
// more, so a second run prints it unchanged.
func TestRerunIsIdentity(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "rewrite.txtar"))
	require.NoError(t, err)

	for _, f := range archive.Files {
		if !strings.HasSuffix(f.Name, ".ts") {
			continue
		}
		t.Run(f.Name, func(t *testing.T) {
			once := transform(t, string(f.Data))

			ctx := memotest.Run(t, memotest.PrepareOne(t, once), &classifier.ClassifierProcessor{})
			tables := ctx.Memo.Tables
			for id, k := range tables.Functions {
				assert.False(t, k.IsMemo(), "function %d classified %s", id, k)
			}
			for id, k := range tables.Calls {
				assert.False(t, k.IsMemo(), "call %d classified %s", id, k)
			}
			for id, k := range tables.Variables {
				assert.False(t, k.IsMemo(), "binding %d classified %s", id, k)
			}

			assert.Equal(t, once, transform(t, once))
		})
	}
}

func TestStableIdentitiesAcrossSessions(t *testing.T) {
	src := `
@memo
function Row(@memo content: () => void): void { content(); }
@memo
function Cell(v: number): number { return v; }
@memo
function Grid(): void {
    Row(() => { Cell(1); Cell(2); });
}
`
	first := transform(t, src)
	second := transform(t, src)
	assert.Equal(t, first, second)
	assert.Contains(t, first, `"id_Cell_3@test.ts"`)
	assert.Contains(t, first, `"id_Cell_4@test.ts"`)
}

func TestSkipParameter(t *testing.T) {
	out := transform(t, `
@memo
function F(@memo_skip a: number, b: number): void {
    use(a, b);
}
`)
	assert.Contains(t, out, `__memo_context.scope<void>(__memo_id + ("id_F_1@test.ts"), 1);`)
	assert.Contains(t, out, "const __memo_parameter_b = __memo_scope.param(0, b);")
	assert.Contains(t, out, "use(a, __memo_parameter_b.value);")
	assert.NotContains(t, out, "__memo_parameter_a")
}

func TestCapturedParameterIsNotRewritten(t *testing.T) {
	out := transform(t, `
@memo
function Outer(x: number): void {
    const f = () => x;
    f();
}
`)
	assert.Contains(t, out, "const f = () => x;")
}

func TestStaticMethodDoesNotTrackThis(t *testing.T) {
	out := transform(t, `
class Util {
    @memo
    static show(v: number): void {}
}
`)
	assert.Contains(t, out, `scope<void>(__memo_id + ("id_show_1@test.ts"), 1);`)
	assert.NotContains(t, out, "__memo_parameter_this")
}

func TestThisInNestedFunctionIsUntouched(t *testing.T) {
	out := transform(t, `
class View {
    @memo
    render(): void {
        const a = () => this.x;
        const g = function (): number { return this.y; };
    }
}
`)
	assert.Contains(t, out, "const a = () => __memo_parameter_this.value.x;")
	assert.Contains(t, out, "return this.y;")
}

func TestGetterAndSetterTypes(t *testing.T) {
	out := transform(t, `
class Host {
    @memo
    get body(): () => void {
        return this.b;
    }
    @memo
    set body(v: () => void) {}
}
`)
	hidden := "(__memo_context: __memo_context_type, __memo_id: __memo_id_type) => void"
	assert.Contains(t, out, "get body(): "+hidden+" {")
	assert.Contains(t, out, "set body(v: "+hidden+") {}")
	assert.Contains(t, out, "return this.b;")
	assert.NotContains(t, out, "__memo_scope")
}

func TestVoidReturnsAreSpliced(t *testing.T) {
	out := transform(t, `
@memo
function Early(flag: boolean): void {
    if (flag) {
        return;
    }
    work();
}
`)
	assert.Contains(t, out, `    if (__memo_parameter_flag.value) {
        __memo_scope.recache();
        return;
    }
    work();
    __memo_scope.recache();
    return;
}`)
}

func TestNoMemoNoImport(t *testing.T) {
	src := "function plain(a: number): number {\n    return a;\n}\n"
	assert.Equal(t, src, transform(t, src))
}

func TestRewritingSkippedOnDiagnostics(t *testing.T) {
	ctx := memotest.Run(t, memotest.PrepareOne(t, `
@memo
function F(): void {}
function G() { F(); }
`), stages()...)
	require.Len(t, ctx.Errors, 1)
	assert.NotContains(t, prettyprinter.Print(ctx.AstRoot), "__memo")
}

func TestCallWithoutNameFails(t *testing.T) {
	ctx := memotest.PrepareOne(t, "function g() {}\ng()(1);")
	stmt := ctx.AstRoot.Statements[1].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.CallExpression)
	ctx.Memo.Tables.SetCall(call, memo.Memo)

	_, err := pipeline.New(&rewriter.FunctionProcessor{}).Run(ctx)
	require.Error(t, err)
	var inv *memo.InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Same(t, call, inv.Node)
}

func TestMemoConstructorFails(t *testing.T) {
	ctx := memotest.PrepareOne(t, "class C {\n    @memo\n    constructor() {}\n}")
	_, err := pipeline.New(stages()...).Run(ctx)
	var inv *memo.InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Contains(t, inv.Message, "constructors")
}

func TestAddHiddenToType(t *testing.T) {
	prog := memotest.PrepareOne(t, `
type A = () => void;
type B = ((x: number) => void) | undefined;
type C = number;
type D = (() => void) | string;
`).AstRoot

	typeOf := func(i int) ast.Type {
		return prog.Statements[i].(*ast.TypeAliasDeclaration).Type
	}
	show := func(t ast.Type) string {
		return prettyprinter.Print(t)
	}

	got, ok := rewriter.AddHiddenToType(typeOf(0))
	require.True(t, ok)
	assert.Equal(t, "(__memo_context: __memo_context_type, __memo_id: __memo_id_type) => void", show(got))

	got, ok = rewriter.AddHiddenToType(typeOf(1))
	require.True(t, ok)
	assert.Equal(t, "((__memo_context: __memo_context_type, __memo_id: __memo_id_type, x: number) => void) | undefined", show(got))

	again, ok := rewriter.AddHiddenToType(got)
	assert.False(t, ok)
	assert.Same(t, got, again)

	_, ok = rewriter.AddHiddenToType(typeOf(2))
	assert.False(t, ok)
	_, ok = rewriter.AddHiddenToType(typeOf(3))
	assert.False(t, ok)
}
