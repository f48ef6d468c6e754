// Package artifacts prints the transformed file and writes the optional
// outputs of a session: trace logs, per-function dumps and unmemoized files.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/prettyprinter"
	"github.com/funvibe/memoc/internal/symbols"
)

// ArtifactsProcessor runs after the last rewriting stage.
type ArtifactsProcessor struct{}

func (ap *ArtifactsProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}
	opts := ctx.Options
	if opts == nil {
		opts = config.DefaultOptions()
	}
	log := ctx.Log().With(zap.String("file", ctx.FilePath))

	ctx.Output = prettyprinter.Print(ctx.AstRoot)
	if opts.Trace {
		log.Info("transformed", zap.String("output", ctx.Output))
	}

	if opts.KeepTransformedDir != "" && ctx.Memo != nil {
		dir := filepath.Join(opts.KeepTransformedDir, ctx.SessionID, stripExt(ctx.FilePath))
		for _, d := range Dumps(ctx) {
			path := filepath.Join(dir, d.Name)
			if err := write(path, d.Source); err != nil {
				ctx.Err = err
				return ctx
			}
			ctx.Artifacts = append(ctx.Artifacts, path)
			log.Debug("dumped", zap.String("path", path))
		}
	}

	if opts.OnlyUnmemoize {
		path := UnmemoizedPath(opts, ctx.FilePath)
		if err := write(path, ctx.Output); err != nil {
			ctx.Err = err
			return ctx
		}
		ctx.Artifacts = append(ctx.Artifacts, path)
		log.Debug("unmemoized", zap.String("path", path))
		if ctx.Original != nil {
			ctx.AstRoot = ctx.Original
		}
	}
	return ctx
}

// Dump is the printed form of one rewritten memo function.
type Dump struct {
	Name   string
	Source string
}

// Dumps collects the memo functions that received a scope prologue, in
// source order. Names are <function>_<line><ext>.
func Dumps(ctx *pipeline.PipelineContext) []Dump {
	var out []Dump
	seen := map[string]int{}
	ast.Inspect(ctx.AstRoot, func(n ast.Node) bool {
		fn, ok := n.(ast.FunctionLike)
		if !ok || ctx.Memo.Function(fn) == nil {
			return true
		}
		base := fmt.Sprintf("%s_%d", dumpName(ctx.Resolver, fn), fn.GetToken().Line)
		seen[base]++
		if k := seen[base]; k > 1 {
			base = fmt.Sprintf("%s_%d", base, k)
		}
		out = append(out, Dump{
			Name:   base + config.SourceFileExt,
			Source: prettyprinter.Print(fn) + "\n",
		})
		return true
	})
	return out
}

func dumpName(r symbols.Resolver, fn ast.FunctionLike) string {
	if id := symbols.DeclarationName(fn); id != nil {
		return id.Value
	}
	if r != nil {
		switch p := r.Parent(fn.NodeID()).(type) {
		case *ast.VariableDeclaration:
			return p.Name.Value
		case *ast.PropertyDeclaration:
			return p.Name.Value
		}
	}
	return "lambda"
}

// UnmemoizedPath is <unmemoize_dir>/<path without extension><extension>.
func UnmemoizedPath(opts *config.Options, file string) string {
	return filepath.Join(opts.UnmemoizeDir, stripExt(file)+opts.Extension)
}

func stripExt(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "/")
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
