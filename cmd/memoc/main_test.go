package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return dir
}

func stderrFile(t *testing.T) (*os.File, func() string) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f, func() string {
		data, err := os.ReadFile(f.Name())
		require.NoError(t, err)
		return string(data)
	}
}

func TestParseArgs(t *testing.T) {
	c, err := parseArgs([]string{"run", "-config", "m.yaml", "-o", "out", "-j", "3", "-debug", "a.ts", "lib"})
	require.NoError(t, err)
	assert.True(t, c.run)
	assert.Equal(t, "m.yaml", c.configPath)
	assert.Equal(t, "out", c.outDir)
	assert.Equal(t, 3, c.limit)
	assert.True(t, c.debug)
	assert.Equal(t, []string{"a.ts", "lib"}, c.paths)

	_, err = parseArgs([]string{"-o"})
	assert.Error(t, err)
	_, err = parseArgs([]string{"-x", "a.ts"})
	assert.Error(t, err)
	_, err = parseArgs(nil)
	assert.Error(t, err)
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, isSourceFile("a.ts"))
	assert.True(t, isSourceFile("a.mts"))
	assert.False(t, isSourceFile("a.d.ts"))
	assert.False(t, isSourceFile("a.js"))
}

func TestTransformToDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/app.ts": `@memo
function A(x: number): number {
    return x;
}
`,
		"src/notes.txt": "skip me",
	})
	out := filepath.Join(dir, "out")
	stderr, _ := stderrFile(t)

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"-o", out, filepath.Join(dir, "src")}, &stdout, stderr)
	require.Equal(t, 0, code)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(filepath.Join(out, dir, "src", "app.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "__memo_scope.recache(__memo_parameter_x.value)")
}

func TestDiagnosticsFail(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.ts": `@memo
function A(): void {}
function B(): void {
    A();
}
`,
	})
	stderr, read := stderrFile(t)

	var stdout bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(dir, "bad.ts")}, &stdout, stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, read(), "bad.ts:4:")
}

func TestRunEntry(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.ts": `import { twice } from "./lib";
log(twice(21));
`,
		"lib.ts": `export function twice(x: number): number {
    return x * 2;
}
`,
	})
	stderr, read := stderrFile(t)

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"run", filepath.Join(dir, "app.ts"), dir}, &stdout, stderr)
	require.Equal(t, 0, code, read())
	assert.Equal(t, "42\n", stdout.String())
}
