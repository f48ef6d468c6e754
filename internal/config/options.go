package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Options control a compilation session.
type Options struct {
	// Trace logs the printed output of every transformed file.
	Trace bool `yaml:"trace,omitempty"`

	// KeepTransformedDir receives one dump per rewritten memo declaration.
	KeepTransformedDir string `yaml:"keep_transformed_dir,omitempty"`

	// StableForTest makes identities deterministic across runs.
	StableForTest bool `yaml:"stable_for_test,omitempty"`

	// ContextImport is the module the hidden parameter types are imported from.
	ContextImport string `yaml:"context_import,omitempty"`

	// RuntimeModule declares the runtime state interfaces (State,
	// MutableState). It defaults to DefaultContextImport and does not follow
	// ContextImport.
	RuntimeModule string `yaml:"runtime_module,omitempty"`

	// OnlyUnmemoize writes the transformed file to UnmemoizeDir and leaves the
	// returned program untouched.
	OnlyUnmemoize bool   `yaml:"only_unmemoize,omitempty"`
	UnmemoizeDir  string `yaml:"unmemoize_dir,omitempty"`

	// Extension of the files written in OnlyUnmemoize mode.
	Extension string `yaml:"extension,omitempty"`
}

// Environment overrides.
const (
	EnvTrace              = "MEMOC_TRACE"
	EnvStableForTest      = "MEMOC_STABLE_FOR_TEST"
	EnvKeepTransformedDir = "MEMOC_KEEP_TRANSFORMED_DIR"
	EnvContextImport      = "MEMOC_CONTEXT_IMPORT"
	EnvRuntimeModule      = "MEMOC_RUNTIME_MODULE"
)

// DefaultOptions returns options with every default applied.
func DefaultOptions() *Options {
	o := &Options{}
	o.setDefaults()
	return o
}

// LoadOptions reads and parses a memoc.yaml file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options %s: %w", path, err)
	}
	return ParseOptions(data, path)
}

// ParseOptions parses memoc.yaml content. The path is used only in errors.
func ParseOptions(data []byte, path string) (*Options, error) {
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	o.setDefaults()
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &o, nil
}

// ApplyEnv overrides options from MEMOC_* environment variables.
func (o *Options) ApplyEnv() {
	if env.Has(EnvTrace) {
		o.Trace = env.Bool(EnvTrace)
	}
	if env.Has(EnvStableForTest) {
		o.StableForTest = env.Bool(EnvStableForTest)
	}
	o.KeepTransformedDir = env.Str(EnvKeepTransformedDir, o.KeepTransformedDir)
	o.ContextImport = env.Str(EnvContextImport, o.ContextImport)
	o.RuntimeModule = env.Str(EnvRuntimeModule, o.RuntimeModule)
	o.setDefaults()
}

// Validate checks option combinations.
func (o *Options) Validate() error {
	if o.OnlyUnmemoize && o.UnmemoizeDir == "" {
		return fmt.Errorf("only_unmemoize requires unmemoize_dir")
	}
	if o.Extension != "" && !strings.HasPrefix(o.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", o.Extension)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.ContextImport == "" {
		o.ContextImport = DefaultContextImport
	}
	if o.RuntimeModule == "" {
		o.RuntimeModule = DefaultContextImport
	}
	if o.Extension == "" {
		o.Extension = SourceFileExt
	}
}
