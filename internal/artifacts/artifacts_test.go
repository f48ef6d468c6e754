package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funvibe/memoc/internal/artifacts"
	"github.com/funvibe/memoc/internal/classifier"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memotest"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/prettyprinter"
	"github.com/funvibe/memoc/internal/rewriter"
	"github.com/funvibe/memoc/internal/typeprop"
)

const source = `@memo
function Text(s: string): void {}
@memo
const Label = (t: string): void => {
    Text(t);
};
function plain() {}
`

func run(t *testing.T, opts *config.Options, logger *zap.Logger) *pipeline.PipelineContext {
	t.Helper()
	ctx := memotest.PrepareOne(t, source)
	ctx.Options = opts
	ctx.Memo.Options = opts
	ctx.Logger = logger
	ctx.SessionID = "s1"
	return memotest.Run(t, ctx,
		&classifier.ClassifierProcessor{},
		&rewriter.FunctionProcessor{},
		&rewriter.ParamsProcessor{},
		&rewriter.ThisProcessor{},
		&rewriter.ReturnsProcessor{},
		&typeprop.TypePropProcessor{},
		&artifacts.ArtifactsProcessor{},
	)
}

func TestOutputIsPrinted(t *testing.T) {
	ctx := run(t, config.DefaultOptions(), nil)
	assert.Equal(t, prettyprinter.Print(ctx.AstRoot), ctx.Output)
	assert.Contains(t, ctx.Output, "__memo_scope")
	assert.Empty(t, ctx.Artifacts)
}

func TestTraceLogsOutput(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	opts := config.DefaultOptions()
	opts.Trace = true
	ctx := run(t, opts, zap.New(core))

	entries := logs.FilterMessage("transformed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, memotest.File, fields["file"])
	assert.Equal(t, ctx.Output, fields["output"])
}

func TestNoTraceByDefault(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	run(t, config.DefaultOptions(), zap.New(core))
	assert.Zero(t, logs.FilterMessage("transformed").Len())
}

func TestKeepTransformed(t *testing.T) {
	dir := t.TempDir()
	opts := config.DefaultOptions()
	opts.KeepTransformedDir = dir
	ctx := run(t, opts, nil)

	base := filepath.Join(dir, "s1", "test")
	want := []string{
		filepath.Join(base, "Text_1.ts"),
		filepath.Join(base, "Label_4.ts"),
	}
	assert.Equal(t, want, ctx.Artifacts)

	data, err := os.ReadFile(want[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "function Text(__memo_context: __memo_context_type")
	assert.Contains(t, string(data), `"id_Text_1@test.ts"`)

	data, err = os.ReadFile(want[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id_Label_3@test.ts"`)
}

func TestOnlyUnmemoize(t *testing.T) {
	dir := t.TempDir()
	opts := config.DefaultOptions()
	opts.OnlyUnmemoize = true
	opts.UnmemoizeDir = dir
	opts.Extension = ".memo.ts"
	ctx := run(t, opts, nil)

	path := filepath.Join(dir, "test.memo.ts")
	assert.Equal(t, []string{path}, ctx.Artifacts)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ctx.Output, string(data))

	// the returned tree is the one that was parsed
	assert.Same(t, ctx.Original, ctx.AstRoot)
	assert.NotContains(t, prettyprinter.Print(ctx.AstRoot), "__memo")
}

func TestWriteFailureAbortsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	opts := config.DefaultOptions()
	opts.OnlyUnmemoize = true
	opts.UnmemoizeDir = blocker

	ctx := memotest.PrepareOne(t, source)
	ctx.Options = opts
	_, err := pipeline.New(&classifier.ClassifierProcessor{}, &artifacts.ArtifactsProcessor{}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating")
}

func TestUnmemoizedPath(t *testing.T) {
	opts := &config.Options{UnmemoizeDir: "out", Extension: ".ets"}
	assert.Equal(t, filepath.Join("out", "src", "app.ets"), artifacts.UnmemoizedPath(opts, "src/app.ts"))
	assert.Equal(t, filepath.Join("out", "abs", "x.ets"), artifacts.UnmemoizedPath(opts, "/abs/x.mts"))
}
