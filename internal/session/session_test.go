package session_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/prettyprinter"
	"github.com/funvibe/memoc/internal/session"
)

var project = map[string]string{
	"app.ts": `import { Text } from "./lib/text";
@memo
export function App(title: string): void {
    Text(title);
}
`,
	"lib/text.ts": `@memo
export function Text(s: string): void {}
`,
}

func stableOptions() *config.Options {
	opts := config.DefaultOptions()
	opts.StableForTest = true
	return opts
}

func byPath(results []*session.Result) map[string]*session.Result {
	out := make(map[string]*session.Result, len(results))
	for _, r := range results {
		out[r.Path] = r
	}
	return out
}

func TestCrossFileTransform(t *testing.T) {
	s := session.New(stableOptions())
	results, err := s.TransformFiles(context.Background(), project)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "app.ts", results[0].Path)
	assert.Equal(t, "lib/text.ts", results[1].Path)

	for _, r := range results {
		require.False(t, r.Failed(), "%s: %v %v", r.Path, r.Err, r.Diagnostics)
	}
	app := results[0].Output
	assert.Contains(t, app, `Text(__memo_context, __memo_id + ("id_Text_1@app.ts"), __memo_parameter_title.value);`)
	assert.Contains(t, app, `"id_App_2@app.ts"`)
	assert.Contains(t, app, "import { Text } from \"./lib/text\";\nimport type { __memo_context_type, __memo_id_type } from \"@koalaui/runtime\";\n")
	assert.Contains(t, results[1].Output, `"id_Text_3@lib/text.ts"`)
	assert.Equal(t, app, prettyprinter.Print(results[0].Program))
}

func TestStableRunsAreIdentical(t *testing.T) {
	first, err := session.New(stableOptions()).TransformFiles(context.Background(), project)
	require.NoError(t, err)
	second, err := session.New(stableOptions()).TransformFiles(context.Background(), project)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, first[i].Output, second[i].Output)
	}
}

func TestParallelIdentitiesAreUnique(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 16; i++ {
		files[fmt.Sprintf("f%02d.ts", i)] = `@memo
function Leaf(v: number): void {}
@memo
function Node(v: number): void {
    Leaf(v);
    Leaf(v + 1);
}
`
	}
	s := session.New(config.DefaultOptions(), session.WithLimit(4))
	results, err := s.TransformFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 16)

	key := regexp.MustCompile(`__memo_id \+ \("([0-9a-f]{16})"\)`)
	seen := map[string]bool{}
	for _, r := range results {
		require.False(t, r.Failed(), r.Path)
		for _, m := range key.FindAllStringSubmatch(r.Output, -1) {
			assert.False(t, seen[m[1]], "duplicate key %s", m[1])
			seen[m[1]] = true
		}
	}
	assert.Len(t, seen, 16*4)
}

func TestDiagnosticsStopRewriting(t *testing.T) {
	s := session.New(stableOptions())
	res, err := s.Transform("bad.ts", `@memo
function F(): void {}
function G() {
    F();
}
`)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diagnostics.ErrMemoCallFromRegular, res.Diagnostics[0].Code)
	assert.Equal(t, "bad.ts", res.Diagnostics[0].File)
	assert.Empty(t, res.Output)
	assert.NotNil(t, res.Program)
}

func TestParseErrorsAreReported(t *testing.T) {
	s := session.New(stableOptions())
	results, err := s.TransformFiles(context.Background(), map[string]string{
		"broken.ts": "function (",
		"ok.ts":     "@memo\nfunction F(): void {}\n",
	})
	require.NoError(t, err)
	got := byPath(results)

	require.NotEmpty(t, got["broken.ts"].Diagnostics)
	assert.Equal(t, diagnostics.ErrorCode("P"), got["broken.ts"].Diagnostics[0].Code[:1])
	assert.Empty(t, got["broken.ts"].Output)
	assert.False(t, got["ok.ts"].Failed())
	assert.Contains(t, got["ok.ts"].Output, "__memo_scope")
}

func TestInvariantFailureAbortsOnlyItsFile(t *testing.T) {
	s := session.New(stableOptions())
	results, err := s.TransformFiles(context.Background(), map[string]string{
		"ctor.ts": "class C {\n    @memo\n    constructor() {}\n}\n",
		"ok.ts":   "@memo\nfunction F(): void {}\n",
	})
	require.NoError(t, err)
	got := byPath(results)

	var inv *memo.InvariantError
	require.ErrorAs(t, got["ctor.ts"].Err, &inv)
	assert.Empty(t, got["ctor.ts"].Output)
	assert.NotContains(t, prettyprinter.Print(got["ctor.ts"].Program), "__memo")
	assert.False(t, got["ok.ts"].Failed())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, opts := range []*config.Options{stableOptions(), config.DefaultOptions()} {
		_, err := session.New(opts).TransformFiles(ctx, project)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestOnlyUnmemoizeKeepsProgram(t *testing.T) {
	opts := stableOptions()
	opts.OnlyUnmemoize = true
	opts.UnmemoizeDir = t.TempDir()
	res, err := session.New(opts).Transform("lib/text.ts", project["lib/text.ts"])
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 1)
	assert.Contains(t, res.Output, "__memo_scope")
	assert.Equal(t, project["lib/text.ts"], prettyprinter.Print(res.Program))
}

func TestSessionLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := session.New(stableOptions(), session.WithLogger(zap.New(core)), session.WithID("fixed"))
	_, err := s.TransformFiles(context.Background(), project)
	require.NoError(t, err)

	entries := logs.FilterMessage("session done").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "fixed", fields["session"])
	assert.EqualValues(t, 2, fields["files"])
	assert.EqualValues(t, 0, fields["failed"])
}

func TestSessionIDIsRandom(t *testing.T) {
	assert.NotEqual(t, session.New(nil).ID, session.New(nil).ID)
	assert.Len(t, session.New(nil).ID, 36)
}
