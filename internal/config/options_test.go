package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions([]byte("trace: true\nstable_for_test: true\ncontext_import: \"@app/runtime\"\n"), "memoc.yaml")
	require.NoError(t, err)
	assert.True(t, o.Trace)
	assert.True(t, o.StableForTest)
	assert.Equal(t, "@app/runtime", o.ContextImport)
	assert.Equal(t, ".ts", o.Extension)
}

func TestParseOptionsDefaults(t *testing.T) {
	o, err := ParseOptions([]byte("{}"), "memoc.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultContextImport, o.ContextImport)
	assert.Equal(t, DefaultContextImport, o.RuntimeModule)
	assert.False(t, o.OnlyUnmemoize)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unmemoize_without_dir", "only_unmemoize: true", "requires unmemoize_dir"},
		{"extension_without_dot", "extension: ts", "must start with a dot"},
		{"bad_yaml", "trace: [", "parsing memoc.yaml"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOptions([]byte(tc.input), "memoc.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("only_unmemoize: true\nunmemoize_dir: out\nextension: .mts\n"), 0644))
	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "out", o.UnmemoizeDir)
	assert.Equal(t, ".mts", o.Extension)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvTrace, "true")
	t.Setenv(EnvContextImport, "@env/runtime")
	t.Setenv(EnvKeepTransformedDir, "dumps")
	t.Setenv(EnvRuntimeModule, "@env/state")

	o := DefaultOptions()
	o.ApplyEnv()
	assert.True(t, o.Trace)
	assert.False(t, o.StableForTest)
	assert.Equal(t, "@env/runtime", o.ContextImport)
	assert.Equal(t, "dumps", o.KeepTransformedDir)
	assert.Equal(t, "@env/state", o.RuntimeModule)
}
