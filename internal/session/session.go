// Package session runs the memo transformation over a set of files that
// resolve against each other.
package session

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/memoc/internal/artifacts"
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/checker"
	"github.com/funvibe/memoc/internal/classifier"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/identity"
	"github.com/funvibe/memoc/internal/lexer"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/parser"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/rewriter"
	"github.com/funvibe/memoc/internal/symbols"
	"github.com/funvibe/memoc/internal/typeprop"
)

// Session owns everything shared by the files of one compilation: options,
// logger, node ids and the identity counter.
type Session struct {
	ID      string
	Options *config.Options
	Logger  *zap.Logger
	// Limit bounds the number of files transformed at once.
	Limit int

	ids     ast.IDGen
	counter identity.Counter
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.Logger = l }
}

func WithLimit(n int) Option {
	return func(s *Session) { s.Limit = n }
}

// WithID replaces the random session id.
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

func New(opts *config.Options, options ...Option) *Session {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	s := &Session{
		ID:      uuid.NewString(),
		Options: opts,
		Logger:  zap.NewNop(),
		Limit:   runtime.GOMAXPROCS(0),
	}
	for _, o := range options {
		o(s)
	}
	if s.Limit < 1 {
		s.Limit = 1
	}
	return s
}

// Result is the outcome for one file.
type Result struct {
	Path string
	// Program is the transformed tree, or the parsed tree in OnlyUnmemoize
	// mode and for files with diagnostics.
	Program     *ast.Program
	Output      string
	Diagnostics []*diagnostics.DiagnosticError
	Artifacts   []string
	// Err is an invariant or write failure that aborted this file.
	Err error
}

// Failed reports whether the file has diagnostics or was aborted.
func (r *Result) Failed() bool {
	return r.Err != nil || len(r.Diagnostics) > 0
}

// FrontEnd returns the stages that turn source text into a tree.
func FrontEnd() *pipeline.Pipeline {
	return pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{})
}

// Stages returns the transformation stages, in order.
func Stages() *pipeline.Pipeline {
	return pipeline.New(
		&classifier.ClassifierProcessor{},
		&checker.CheckerProcessor{},
		&rewriter.FunctionProcessor{},
		&rewriter.ParamsProcessor{},
		&rewriter.ThisProcessor{},
		&rewriter.ReturnsProcessor{},
		&typeprop.TypePropProcessor{},
		&artifacts.ArtifactsProcessor{},
	)
}

// Transform compiles a single file.
func (s *Session) Transform(path, source string) (*Result, error) {
	results, err := s.TransformFiles(context.Background(), map[string]string{path: source})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// TransformFiles compiles files, keyed by path, and returns one result per
// file sorted by path. Files are parsed, bound together so imports resolve
// across them, then transformed in parallel. With StableForTest they are
// transformed one by one in path order so identities do not depend on
// scheduling. The returned error is only set when ctx is cancelled.
func (s *Session) TransformFiles(ctx context.Context, files map[string]string) ([]*Result, error) {
	start := time.Now()
	log := s.Logger.With(zap.String("session", s.ID))

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	log.Debug("session started", zap.Int("files", len(paths)))

	ctxs := make([]*pipeline.PipelineContext, len(paths))
	for i, p := range paths {
		ctxs[i] = &pipeline.PipelineContext{
			FilePath:   p,
			SourceCode: files[p],
			SessionID:  s.ID,
			IDs:        &s.ids,
			Options:    s.Options,
			Logger:     log,
		}
	}

	results := make([]*Result, len(paths))
	err := s.each(ctx, ctxs, func(i int, pc *pipeline.PipelineContext) {
		out, err := FrontEnd().Run(pc)
		ctxs[i] = out
		if err != nil {
			results[i] = &Result{Path: pc.FilePath, Err: err}
		}
	})
	if err != nil {
		return nil, err
	}

	graph := symbols.NewGraph()
	for _, pc := range ctxs {
		if pc.AstRoot != nil && !pc.HasErrors() {
			graph.AddFile(pc.AstRoot)
		}
	}
	graph.Bind()

	err = s.each(ctx, ctxs, func(i int, pc *pipeline.PipelineContext) {
		if results[i] != nil {
			return
		}
		results[i] = s.transform(pc, graph)
	})
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	log.Info("session done",
		zap.Int("files", len(results)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

func (s *Session) transform(pc *pipeline.PipelineContext, graph *symbols.Graph) *Result {
	if pc.HasErrors() {
		diagnostics.Sort(pc.Errors)
		return &Result{Path: pc.FilePath, Program: pc.AstRoot, Diagnostics: pc.Errors}
	}
	pc.Resolver = graph
	pc.Memo = memo.NewContext(pc.FilePath, graph,
		identity.NewGenerator(&s.counter, pc.FilePath, s.Options.StableForTest), s.Options)

	out, err := Stages().Run(pc)
	diagnostics.Sort(out.Errors)
	res := &Result{
		Path:        out.FilePath,
		Program:     out.AstRoot,
		Output:      out.Output,
		Diagnostics: out.Errors,
		Artifacts:   out.Artifacts,
		Err:         err,
	}
	if err != nil {
		// the partially rewritten tree is of no use
		res.Program = out.Original
		res.Output = ""
	}
	return res
}

// each runs fn for every file, sequentially in stable mode and otherwise
// with at most Limit files in flight. Cancellation is checked before each
// file.
func (s *Session) each(ctx context.Context, ctxs []*pipeline.PipelineContext, fn func(int, *pipeline.PipelineContext)) error {
	if s.Options.StableForTest {
		for i, pc := range ctxs {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("session %s: %w", s.ID, err)
			}
			fn(i, pc)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Limit)
	for i, pc := range ctxs {
		i, pc := i, pc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i, pc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}
	return nil
}
