package memoc_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoc "github.com/funvibe/memoc/pkg/embed"
)

const labelSrc = `@memo
function Label(text: string): string {
    return "<" + fetch(text) + ">";
}
@memo_entry
export function frame(__memo_context: __memo_context_type, __memo_id: __memo_id_type, text: string): string {
    return Label(text);
}
`

func TestTransform(t *testing.T) {
	c := memoc.New(memoc.WithStableIdentities())
	out, err := c.Transform("app.ts", labelSrc)
	require.NoError(t, err)
	require.True(t, out.OK(), "%v", out.Diagnostics)
	assert.Contains(t, out.Code, "__memo_scope")
	assert.Contains(t, out.Code, `import type { __memo_context_type, __memo_id_type } from "@koalaui/runtime";`)
}

func TestTransformDiagnostics(t *testing.T) {
	c := memoc.New()
	out, err := c.Transform("bad.ts", `@memo
function A(): void {}
function B(): void {
    A();
}
`)
	require.NoError(t, err)
	require.False(t, out.OK())
	assert.Empty(t, out.Code)
	require.Len(t, out.Diagnostics, 1)
	d := out.Diagnostics[0]
	assert.Equal(t, "bad.ts", d.File)
	assert.Equal(t, 4, d.Line)
	assert.Equal(t, "error", d.Severity)
	assert.Contains(t, d.String(), "bad.ts:4:")
}

func TestTransformCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := memoc.New().TransformFiles(ctx, map[string]string{"a.ts": "let a = 1;\n"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuntimeReusesResults(t *testing.T) {
	out, err := memoc.New(memoc.WithStableIdentities()).Transform("app.ts", labelSrc)
	require.NoError(t, err)

	fetches := 0
	rt := memoc.NewRuntime()
	require.NoError(t, rt.Bind("fetch", func(s string) string {
		fetches++
		return s + s
	}))
	require.NoError(t, rt.Load("app.ts", out))

	for i := 0; i < 2; i++ {
		res, err := rt.CallEntry("frame", "ab")
		require.NoError(t, err)
		assert.Equal(t, "<abab>", res)
	}
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, rt.Stats().Hits)
	assert.Equal(t, 1, rt.Stats().Recomputes)
}

func TestRuntimeConvertsValues(t *testing.T) {
	out, err := memoc.New().Transform("app.ts", `export function sum(xs: number[]): number {
    let s = 0;
    for (const x of xs) {
        s += x;
    }
    return s;
}
export function pair(): any {
    return { name: "n", tags: ["a"] };
}
`)
	require.NoError(t, err)
	rt := memoc.NewRuntime()
	require.NoError(t, rt.Load("app.ts", out))

	res, err := rt.Call("sum", []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, res)

	res, err = rt.Call("pair")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "n", "tags": []interface{}{"a"}}, res)
}

func TestRuntimeGoErrors(t *testing.T) {
	out, err := memoc.New().Transform("app.ts", `export function run(): number {
    return check(1);
}
`)
	require.NoError(t, err)
	rt := memoc.NewRuntime()
	require.NoError(t, rt.Bind("check", func(n int) (int, error) {
		return 0, errors.New("check failed")
	}))
	require.NoError(t, rt.Load("app.ts", out))

	_, err = rt.Call("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check failed")
}

func TestRuntimeRejectsFailedOutput(t *testing.T) {
	out, err := memoc.New().Transform("bad.ts", "function (")
	require.NoError(t, err)
	require.False(t, out.OK())

	err = memoc.NewRuntime().Load("bad.ts", out)
	assert.Error(t, err)
}

func TestRuntimeWithoutProgram(t *testing.T) {
	_, err := memoc.NewRuntime().Call("f")
	assert.Error(t, err)
}

func TestRuntimeOutput(t *testing.T) {
	out, err := memoc.New().Transform("app.ts", "log(\"ready\", 1 + 1);\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	rt := memoc.NewRuntime()
	rt.SetOutput(&buf)
	require.NoError(t, rt.Load("app.ts", out))
	assert.Equal(t, "ready 2\n", buf.String())
}
