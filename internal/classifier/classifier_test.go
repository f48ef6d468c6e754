package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/classifier"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/memotest"
	"github.com/funvibe/memoc/internal/pipeline"
)

func classify(t *testing.T, src string) *pipeline.PipelineContext {
	t.Helper()
	ctx := memotest.PrepareOne(t, src)
	return memotest.Run(t, ctx, &classifier.ClassifierProcessor{})
}

func TestAnnotatedDeclarations(t *testing.T) {
	ctx := classify(t, `
@memo function a(): void {}
@memo_intrinsic function b(): void {}
@memo_entry function c(): void {}
function d(): void {}
class W {
    @memo render(): void {}
}
`)
	tables := ctx.Memo.Tables
	prog := ctx.AstRoot
	assert.Equal(t, memo.Memo, tables.FunctionKind(memotest.FindFunction(prog, "a")))
	assert.Equal(t, memo.MemoIntrinsic, tables.FunctionKind(memotest.FindFunction(prog, "b")))
	assert.Equal(t, memo.Regular, tables.FunctionKind(memotest.FindFunction(prog, "c")))
	assert.Equal(t, memo.Regular, tables.FunctionKind(memotest.FindFunction(prog, "d")))
	assert.Equal(t, memo.Memo, tables.FunctionKind(memotest.FindFunction(prog, "render")))
}

func TestCallSites(t *testing.T) {
	ctx := classify(t, `
@memo function Text(s: string): void {}
@memo_intrinsic function remember(): number { return 1; }
function plain(): void {}
class Page {
    @memo body(): void {}
    @memo build(): void {
        this.body();
        (Text)("x");
    }
}
function use(p: Page) {
    p.body();
    remember();
    plain();
    unknown();
}
`)
	tables := ctx.Memo.Tables
	prog := ctx.AstRoot
	assert.Equal(t, memo.Memo, tables.CallKind(memotest.FindCall(prog, "this.body")))
	assert.Equal(t, memo.Memo, tables.CallKind(memotest.FindCall(prog, "Text")))
	assert.Equal(t, memo.Memo, tables.CallKind(memotest.FindCall(prog, "p.body")))
	assert.Equal(t, memo.MemoIntrinsic, tables.CallKind(memotest.FindCall(prog, "remember")))
	assert.Equal(t, memo.Regular, tables.CallKind(memotest.FindCall(prog, "plain")))
	assert.Equal(t, memo.Regular, tables.CallKind(memotest.FindCall(prog, "unknown")))
}

func TestVariableListAnnotation(t *testing.T) {
	ctx := classify(t, `
@memo const a = () => {}, b = function (): void {};
const c = @memo () => {};
a();
b();
c();
`)
	tables := ctx.Memo.Tables
	prog := ctx.AstRoot

	for _, name := range []string{"a", "b"} {
		v := memotest.FindNamed[*ast.VariableDeclaration](prog, name)
		require.NotNil(t, v)
		assert.Equal(t, memo.Memo, tables.VariableKind(v), name)
		assert.Equal(t, memo.Memo, tables.FunctionKind(v.Initializer), name)
		assert.Equal(t, memo.Memo, tables.CallKind(memotest.FindCall(prog, name)), name)
	}

	c := memotest.FindNamed[*ast.VariableDeclaration](prog, "c")
	assert.Equal(t, memo.Memo, tables.FunctionKind(c.Initializer))
	assert.Equal(t, memo.Memo, tables.CallKind(memotest.FindCall(prog, "c")))
}

func TestInferenceFromParameterSlot(t *testing.T) {
	ctx := classify(t, `
@memo function Column(@memo content: () => void, other: () => void): void {}
@memo function App(): void {
    Column(() => {}, () => {});
}
`)
	tables := ctx.Memo.Tables
	call := memotest.FindCall(ctx.AstRoot, "Column")
	require.NotNil(t, call)
	require.Len(t, call.Arguments, 2)
	assert.Equal(t, memo.Memo, tables.FunctionKind(call.Arguments[0]), "content slot is memo")
	assert.Equal(t, memo.Regular, tables.FunctionKind(call.Arguments[1]), "other slot is not")

	column := memotest.FindFunction(ctx.AstRoot, "Column")
	params := column.Sig().Parameters
	assert.Equal(t, memo.Memo, tables.VariableKind(params[0]))
	assert.Equal(t, memo.Regular, tables.VariableKind(params[1]))
}

func TestInferenceFromMemoProperty(t *testing.T) {
	ctx := classify(t, `
class Holder {
    @memo builder: () => void = () => {}
    plain: () => void = () => {}
}
`)
	tables := ctx.Memo.Tables
	builder := memotest.FindNamed[*ast.PropertyDeclaration](ctx.AstRoot, "builder")
	plain := memotest.FindNamed[*ast.PropertyDeclaration](ctx.AstRoot, "plain")
	assert.Equal(t, memo.Memo, tables.VariableKind(builder))
	assert.Equal(t, memo.Memo, tables.FunctionKind(builder.Initializer))
	assert.Equal(t, memo.Regular, tables.FunctionKind(plain.Initializer))
}

func TestEntrySet(t *testing.T) {
	ctx := classify(t, `
@memo function Leaf(): void {}
@memo_entry function main(): void {
    Leaf();
    const later = () => { Leaf(); };
}
function outside(): void {
    Leaf();
}
`)
	tables := ctx.Memo.Tables
	var inside, outside []*ast.CallExpression
	ast.Inspect(memotest.FindFunction(ctx.AstRoot, "main"), func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpression); ok {
			inside = append(inside, c)
		}
		return true
	})
	ast.Inspect(memotest.FindFunction(ctx.AstRoot, "outside"), func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpression); ok {
			outside = append(outside, c)
		}
		return true
	})
	require.Len(t, inside, 2)
	for _, c := range inside {
		assert.True(t, tables.InEntry(c))
	}
	require.Len(t, outside, 1)
	assert.False(t, tables.InEntry(outside[0]))
}

func TestCrossFileCallee(t *testing.T) {
	files := memotest.Prepare(t, map[string]string{
		"lib.ts": `@memo export function Button(): void {}`,
		"re.ts":  `export { Button as B } from "./lib"`,
		"app.ts": `
import { B } from "./re"
@memo function App(): void { B(); }
`,
	})
	ctx := memotest.Run(t, files["app.ts"], &classifier.ClassifierProcessor{})
	assert.Equal(t, memo.Memo, ctx.Memo.Tables.CallKind(memotest.FindCall(ctx.AstRoot, "B")))
}

func TestHiddenParamsClassifyRegular(t *testing.T) {
	ctx := classify(t, `
@memo function f(__memo_context: __memo_context_type, __memo_id: __memo_id_type): void {}
@memo let g: (__memo_context: __memo_context_type, __memo_id: __memo_id_type) => void;
@memo const h = (__memo_context: __memo_context_type, __memo_id: __memo_id_type): void => {};
function run(__memo_context: __memo_context_type, __memo_id: __memo_id_type) {
    f(__memo_context, __memo_id);
    g(__memo_context, __memo_id);
    h(__memo_context, __memo_id);
}
`)
	tables := ctx.Memo.Tables
	prog := ctx.AstRoot
	assert.Equal(t, memo.Regular, tables.FunctionKind(memotest.FindFunction(prog, "f")))
	assert.Equal(t, memo.Regular, tables.VariableKind(memotest.FindNamed[*ast.VariableDeclaration](prog, "g")))
	assert.Equal(t, memo.Regular, tables.VariableKind(memotest.FindNamed[*ast.VariableDeclaration](prog, "h")))
	for _, name := range []string{"f", "g", "h"} {
		assert.Equal(t, memo.Regular, tables.CallKind(memotest.FindCall(prog, name)), name)
	}
	assert.Empty(t, tables.Functions)
}

func TestNoDiagnostics(t *testing.T) {
	ctx := classify(t, `
function plain() { Leaf(); }
@memo function Leaf(): void {}
`)
	assert.Empty(t, ctx.Errors)
}
