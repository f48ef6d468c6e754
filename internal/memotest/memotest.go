// Package memotest prepares parsed and bound files for stage tests.
package memotest

import (
	"sort"
	"strings"
	"testing"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/identity"
	"github.com/funvibe/memoc/internal/lexer"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/parser"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/symbols"
)

// File is the path used by PrepareOne.
const File = "test.ts"

// Prepare lexes, parses and binds files and gives every file a fresh memo
// context with stable identities. Parse errors fail the test.
func Prepare(t testing.TB, files map[string]string) map[string]*pipeline.PipelineContext {
	t.Helper()
	opts := config.DefaultOptions()
	opts.StableForTest = true

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	ids := &ast.IDGen{}
	graph := symbols.NewGraph()
	front := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{})
	out := make(map[string]*pipeline.PipelineContext, len(files))
	for _, p := range paths {
		ctx, err := front.Run(&pipeline.PipelineContext{FilePath: p, SourceCode: files[p], IDs: ids, Options: opts})
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if len(ctx.Errors) > 0 {
			var msgs []string
			for _, e := range ctx.Errors {
				msgs = append(msgs, e.Error())
			}
			t.Fatalf("parse errors in %s:\n%s", p, strings.Join(msgs, "\n"))
		}
		graph.AddFile(ctx.AstRoot)
		out[p] = ctx
	}
	graph.Bind()

	counter := &identity.Counter{}
	for _, p := range paths {
		ctx := out[p]
		ctx.Resolver = graph
		ctx.Memo = memo.NewContext(p, graph, identity.NewGenerator(counter, p, true), opts)
	}
	return out
}

// PrepareOne prepares a single file named File.
func PrepareOne(t testing.TB, src string) *pipeline.PipelineContext {
	t.Helper()
	return Prepare(t, map[string]string{File: src})[File]
}

// Run applies stages to ctx and fails the test on an invariant error.
func Run(t testing.TB, ctx *pipeline.PipelineContext, stages ...pipeline.Processor) *pipeline.PipelineContext {
	t.Helper()
	ctx, err := pipeline.New(stages...).Run(ctx)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return ctx
}

// FindFunction returns the first function-like node named name: function
// declarations, methods, accessors, and arrows or function expressions
// initializing a variable of that name.
func FindFunction(n ast.Node, name string) ast.FunctionLike {
	var found ast.FunctionLike
	ast.Inspect(n, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.FunctionDeclaration:
			if n.Name != nil && n.Name.Value == name {
				found = n
			}
		case *ast.MethodDeclaration:
			if n.Name.Value == name {
				found = n
			}
		case *ast.GetAccessor:
			if n.Name.Value == name {
				found = n
			}
		case *ast.SetAccessor:
			if n.Name.Value == name {
				found = n
			}
		case *ast.MethodSignature:
			if n.Name.Value == name {
				found = n
			}
		case *ast.VariableDeclaration:
			if fn, ok := n.Initializer.(ast.FunctionLike); ok && n.Name.Value == name {
				found = fn
			}
		}
		return found == nil
	})
	return found
}

// FindCall returns the first call whose callee prints as the given name,
// e.g. "f" or "this.render".
func FindCall(n ast.Node, callee string) *ast.CallExpression {
	var found *ast.CallExpression
	ast.Inspect(n, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if c, ok := n.(*ast.CallExpression); ok && calleeName(c.Callee) == callee {
			found = c
		}
		return found == nil
	})
	return found
}

func calleeName(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.Identifier:
		return e.Value
	case *ast.ThisExpression:
		return "this"
	case *ast.MemberExpression:
		return calleeName(e.Object) + "." + e.Property.Value
	case *ast.ParenthesizedExpression:
		return calleeName(e.Expression)
	}
	return ""
}

// FindNamed returns the first declaration whose name is name, of type T.
func FindNamed[T ast.Node](n ast.Node, name string) T {
	var found T
	done := false
	ast.Inspect(n, func(n ast.Node) bool {
		if done {
			return false
		}
		if d, ok := n.(T); ok {
			if id := symbols.DeclarationName(d); id != nil && id.Value == name {
				found, done = d, true
			}
		}
		return !done
	})
	return found
}
