package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/evaluator"
	"github.com/funvibe/memoc/internal/session"
)

const usage = `Usage:
  memoc [flags] <file|dir>...          transform files
  memoc run [flags] <entry> [file|dir]...  transform, then execute entry

Flags:
  -config <file>   read options from a memoc.yaml file
  -o <dir>         write transformed files under dir instead of stdout
  -j <n>           transform at most n files at once
  -debug           verbose logging
`

// cli holds parsed command line state.
type cli struct {
	run        bool
	configPath string
	outDir     string
	limit      int
	debug      bool
	paths      []string
}

func parseArgs(args []string) (*cli, error) {
	c := &cli{}
	if len(args) > 0 && args[0] == "run" {
		c.run = true
		args = args[1:]
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			c.paths = append(c.paths, arg)
			continue
		}
		needValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			return args[i], nil
		}
		var err error
		switch strings.TrimPrefix(arg, "-") {
		case "config", "-config":
			c.configPath, err = needValue()
		case "o", "-out":
			c.outDir, err = needValue()
		case "j":
			var v string
			if v, err = needValue(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &c.limit)
			}
		case "debug", "-debug":
			c.debug = true
		default:
			err = fmt.Errorf("unknown flag %s", arg)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(c.paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	return c, nil
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadOptions(path string) (*config.Options, error) {
	opts := config.DefaultOptions()
	if path != "" {
		var err error
		if opts, err = config.LoadOptions(path); err != nil {
			return nil, err
		}
	}
	opts.ApplyEnv()
	return opts, opts.Validate()
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) && !strings.HasSuffix(path, ".d"+ext) {
			return true
		}
	}
	return false
}

// collect reads the named files and every source file below the named
// directories. Keys are slash separated paths.
func collect(paths []string) (map[string]string, error) {
	files := make(map[string]string)
	add := func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(filepath.Clean(path))] = string(data)
		return nil
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSourceFile(path) {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func writeOutput(dir string, r *session.Result) error {
	path := filepath.Join(dir, filepath.FromSlash(r.Path))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(r.Output), 0o644)
}

// execute runs the entry module of a transformed program.
func execute(entry string, results []*session.Result, stdout io.Writer, logger *zap.Logger) error {
	entry = filepath.ToSlash(filepath.Clean(entry))
	e := evaluator.New()
	e.Out = stdout
	e.Logger = logger

	var entryResult *session.Result
	for _, r := range results {
		e.AddModule(r.Program)
		if r.Path == entry {
			entryResult = r
		}
	}
	if entryResult == nil {
		return fmt.Errorf("entry %s not found", entry)
	}
	if _, err := e.Run(entryResult.Program); err != nil {
		return err
	}
	logger.Debug("memo stats",
		zap.Int("opens", e.Memo.Stats.Opens),
		zap.Int("hits", e.Memo.Stats.Hits),
		zap.Int("recomputes", e.Memo.Stats.Recomputes),
		zap.Int("slots", e.Memo.Size()))
	return nil
}

// run is main without the process exit. It returns the exit code.
func run(ctx context.Context, args []string, stdout io.Writer, stderr *os.File) int {
	c, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n\n%s", err, usage)
		return 2
	}
	logger := newLogger(c.debug)
	defer logger.Sync() //nolint:errcheck

	opts, err := loadOptions(c.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 2
	}
	files, err := collect(c.paths)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if c.limit > 0 {
		sessionOpts = append(sessionOpts, session.WithLimit(c.limit))
	}
	results, err := session.New(opts, sessionOpts...).TransformFiles(ctx, files)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	renderer := diagnostics.NewRenderer(stderr)
	failed := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", r.Path, r.Err)
		}
		if err := renderer.Render(stderr, r.Diagnostics); err != nil {
			return 1
		}
		failed = failed || r.Failed()
	}
	if failed {
		return 1
	}

	if c.run {
		if err := execute(c.paths[0], results, stdout, logger); err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
		return 0
	}

	for _, r := range results {
		if c.outDir != "" {
			if err := writeOutput(c.outDir, r); err != nil {
				fmt.Fprintf(stderr, "Error: %s\n", err)
				return 1
			}
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(stdout, "// %s\n", r.Path)
		}
		fmt.Fprint(stdout, r.Output)
	}
	return 0
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 || os.Args[1] == "-help" || os.Args[1] == "--help" || os.Args[1] == "help" {
		fmt.Print(usage)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
