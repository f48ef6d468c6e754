// Package memoc is the embedding API. A Compiler applies the memo
// transformation to sources; a Runtime executes the results against the
// reference memo runtime.
package memoc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/session"
)

// Compiler transforms sources. Each call to Transform or TransformFiles is
// one compilation session.
type Compiler struct {
	options *config.Options
	logger  *zap.Logger
	limit   int
}

type Option func(*Compiler)

// WithOptions replaces the default options.
func WithOptions(o *config.Options) Option {
	return func(c *Compiler) { c.options = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithParallelism bounds the number of files transformed at once.
func WithParallelism(n int) Option {
	return func(c *Compiler) { c.limit = n }
}

// WithStableIdentities makes identities readable and independent of
// scheduling. Meant for tests and golden output.
func WithStableIdentities() Option {
	return func(c *Compiler) {
		o := *c.options
		o.StableForTest = true
		c.options = &o
	}
}

func New(options ...Option) *Compiler {
	c := &Compiler{options: config.DefaultOptions(), logger: zap.NewNop()}
	for _, o := range options {
		o(c)
	}
	return c
}

// Diagnostic is a rule violation or parse error reported for a file.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Code     string
	Severity string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s: %s", d.File, d.Line, d.Column, d.Severity, d.Code, d.Message)
}

// Output is the result for one file.
type Output struct {
	Path string
	// Code is the printed transformed file. It is empty when the file has
	// diagnostics or failed.
	Code        string
	Diagnostics []Diagnostic
	// Artifacts lists files written for this file.
	Artifacts []string
	// Err is an internal failure that aborted this file.
	Err error

	program *ast.Program
}

// OK reports whether the file was transformed.
func (o *Output) OK() bool {
	return o.Err == nil && len(o.Diagnostics) == 0
}

func (c *Compiler) session() *session.Session {
	opts := []session.Option{session.WithLogger(c.logger)}
	if c.limit > 0 {
		opts = append(opts, session.WithLimit(c.limit))
	}
	return session.New(c.options, opts...)
}

// Transform compiles a single file.
func (c *Compiler) Transform(path, source string) (*Output, error) {
	outs, err := c.TransformFiles(context.Background(), map[string]string{path: source})
	if err != nil {
		return nil, err
	}
	return outs[0], nil
}

// TransformFiles compiles files that may import each other, keyed by path.
// Outputs are sorted by path. The error is set only when ctx is cancelled.
func (c *Compiler) TransformFiles(ctx context.Context, files map[string]string) ([]*Output, error) {
	if err := c.options.Validate(); err != nil {
		return nil, err
	}
	results, err := c.session().TransformFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	outs := make([]*Output, len(results))
	for i, r := range results {
		outs[i] = &Output{
			Path:        r.Path,
			Code:        r.Output,
			Diagnostics: convertDiagnostics(r.Diagnostics),
			Artifacts:   r.Artifacts,
			Err:         r.Err,
			program:     r.Program,
		}
		if !outs[i].OK() {
			outs[i].Code = ""
		}
	}
	return outs, nil
}

func convertDiagnostics(errs []*diagnostics.DiagnosticError) []Diagnostic {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{
			File:     e.File,
			Line:     e.Token.Line,
			Column:   e.Token.Column,
			Code:     string(e.Code),
			Severity: e.Severity.String(),
			Message:  e.Message,
		}
	}
	return out
}
