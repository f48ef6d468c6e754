package typeprop_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/memoc/internal/classifier"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/memotest"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/prettyprinter"
	"github.com/funvibe/memoc/internal/typeprop"
)

func propagate(t *testing.T, ctx *pipeline.PipelineContext) (string, error) {
	t.Helper()
	ctx, err := pipeline.New(&classifier.ClassifierProcessor{}, &typeprop.TypePropProcessor{}).Run(ctx)
	if err != nil {
		return "", err
	}
	require.Empty(t, ctx.Errors)
	return prettyprinter.Print(ctx.AstRoot), nil
}

func TestVariableType(t *testing.T) {
	out, err := propagate(t, memotest.PrepareOne(t, `@memo
let render: (n: number) => void = undefined;
`))
	require.NoError(t, err)
	assert.Equal(t, `import type { __memo_context_type, __memo_id_type } from "@koalaui/runtime";
@memo
let render: (__memo_context: __memo_context_type, __memo_id: __memo_id_type, n: number) => void = undefined;
`, out)
}

func TestExistingImportIsKept(t *testing.T) {
	out, err := propagate(t, memotest.PrepareOne(t, `import type { __memo_context_type, __memo_id_type } from "./my-runtime";
class Holder {
    @memo
    content: () => void = undefined;
}
`))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "import type"))
	assert.Contains(t, out, `"./my-runtime"`)
	assert.Contains(t, out, "content: (__memo_context: __memo_context_type, __memo_id: __memo_id_type) => void")
}

func TestCustomContextImport(t *testing.T) {
	ctx := memotest.PrepareOne(t, `import { a } from "./a";
@memo
let f: () => void = undefined;
const b = 1;
`)
	ctx.Memo.Options.ContextImport = "@acme/memo"
	out, err := propagate(t, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "import { a } from \"./a\";\nimport type { __memo_context_type, __memo_id_type } from \"@acme/memo\";\n")
}

func TestNoMemoNoImport(t *testing.T) {
	src := "let f: () => void = undefined;\n"
	out, err := propagate(t, memotest.PrepareOne(t, src))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestNonFunctionMemoType(t *testing.T) {
	_, err := propagate(t, memotest.PrepareOne(t, `@memo
let n: number = 1;
`))
	var inv *memo.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, err.Error(), "memo binding n has a non-function type")
}

func TestOptionalFunctionTypeEverywhere(t *testing.T) {
	out, err := propagate(t, memotest.PrepareOne(t, `@memo
let slot: ((x: number) => void) | undefined = undefined;
class Host {
    @memo
    slot: ((x: number) => void) | undefined = undefined;
    constructor(@memo slot: ((x: number) => void) | undefined) {
        this.slot = slot;
    }
}
`))
	require.NoError(t, err)
	want := "((__memo_context: __memo_context_type, __memo_id: __memo_id_type, x: number) => void) | undefined"
	assert.Contains(t, out, "let slot: "+want+" = undefined;")
	assert.Contains(t, out, "    slot: "+want+" = undefined;")
	assert.Contains(t, out, "constructor(@memo slot: "+want+")")
	assert.Equal(t, 3, strings.Count(out, want))
}
