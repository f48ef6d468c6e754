package parser_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/lexer"
	"github.com/funvibe/memoc/internal/parser"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/prettyprinter"
)

var update = flag.Bool("update", false, "update golden files")

func parse(input string) *pipeline.PipelineContext {
	ctx := &pipeline.PipelineContext{FilePath: "test.ts", SourceCode: input}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	return (&parser.ParserProcessor{}).Process(ctx)
}

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	return parse(input).Errors
}

// expectError asserts an error with the given code.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

func expectNoErrors(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parse(input)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return ctx.AstRoot
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join("testdata", "roundtrip.txtar")
	archive, err := txtar.ParseFile(path)
	require.NoError(t, err)

	for i, f := range archive.Files {
		t.Run(f.Name, func(t *testing.T) {
			prog := expectNoErrors(t, string(f.Data))
			got := prettyprinter.Print(prog)
			if *update {
				archive.Files[i].Data = []byte(got)
				return
			}
			assert.Equal(t, string(f.Data), got)
		})
	}

	if *update {
		require.NoError(t, os.WriteFile(path, txtar.Format(archive), 0644))
	}
}

func TestNodeIDsAreUnique(t *testing.T) {
	prog := expectNoErrors(t, "@memo function f(a: number) { return g(a, this.x); }")
	seen := map[ast.NodeID]bool{}
	ast.Inspect(prog, func(n ast.Node) bool {
		id := n.NodeID()
		assert.True(t, id.IsValid(), "%T has no id", n)
		assert.False(t, seen[id], "duplicate id %d on %T", id, n)
		seen[id] = true
		return true
	})
	assert.Greater(t, len(seen), 10)
}

func TestSharedIDGen(t *testing.T) {
	ids := &ast.IDGen{}
	a := &pipeline.PipelineContext{FilePath: "a.ts", SourceCode: "const a = 1", IDs: ids}
	b := &pipeline.PipelineContext{FilePath: "b.ts", SourceCode: "const b = 2", IDs: ids}
	for _, ctx := range []*pipeline.PipelineContext{a, b} {
		ctx = (&lexer.LexerProcessor{}).Process(ctx)
		(&parser.ParserProcessor{}).Process(ctx)
	}
	assert.Less(t, a.AstRoot.NodeID(), b.AstRoot.NodeID())
	assert.Equal(t, "b.ts", b.AstRoot.File)
}

func TestAnnotationsAttach(t *testing.T) {
	prog := expectNoErrors(t, `
@memo const a = () => {}, b = 1
@memo_entry function main() {}
class C { @memo_intrinsic m(): void {} }
`)
	require.Len(t, prog.Statements, 3)

	list := prog.Statements[0].(*ast.VariableStatement).List
	assert.True(t, ast.HasAnnotation(list.Annotations, "memo"))
	assert.Len(t, list.Declarations, 2)

	fn := prog.Statements[1].(*ast.FunctionDeclaration)
	assert.True(t, ast.HasAnnotation(fn.Annotations, "memo_entry"))

	m := prog.Statements[2].(*ast.ClassDeclaration).Members[0].(*ast.MethodDeclaration)
	assert.True(t, ast.HasAnnotation(m.Annotations, "memo_intrinsic"))
}

func TestSpans(t *testing.T) {
	prog := expectNoErrors(t, "function f() {\n  return 1\n}")
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	span := fn.Span()
	assert.Equal(t, 1, span.Start.Line)
	assert.Equal(t, 1, span.Start.Column)
	assert.Equal(t, 3, span.End.Line)
	assert.Equal(t, 2, span.End.Column)

	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	assert.Equal(t, 2, ret.GetToken().Line)
	assert.Equal(t, 3, ret.GetToken().Column)
}

func TestASI(t *testing.T) {
	prog := expectNoErrors(t, "let a = 1\nlet b = a\nreturn\nb")
	require.Len(t, prog.Statements, 4)
	assert.Nil(t, prog.Statements[2].(*ast.ReturnStatement).Value)
}

func TestLessThanIsNotTypeArgs(t *testing.T) {
	prog := expectNoErrors(t, "x = a < b;\ny = f<number>(1);")
	bin := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryExpression)
	assert.Equal(t, "<", bin.Right.(*ast.BinaryExpression).Operator)

	call := prog.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.BinaryExpression).Right.(*ast.CallExpression)
	assert.Len(t, call.TypeArgs, 1)
}

func TestParenthesizedIsNotArrow(t *testing.T) {
	prog := expectNoErrors(t, "const a = (b) ? (c) : d;")
	decl := prog.Statements[0].(*ast.VariableStatement).List.Declarations[0]
	_, ok := decl.Initializer.(*ast.ConditionalExpression)
	assert.True(t, ok)
}

// ---------------------------------------------------------------------------
// P001: Unexpected token
// ---------------------------------------------------------------------------

func TestP001_MissingName(t *testing.T) {
	err := expectError(t, "const = 5", diagnostics.ErrP001)
	assert.Equal(t, 1, err.Token.Line)
	assert.Equal(t, 7, err.Token.Column)
	assert.Equal(t, "test.ts", err.File)
}

func TestP001_MissingExpression(t *testing.T) {
	expectError(t, "let x = ;", diagnostics.ErrP001)
}

func TestP001_UnclosedCall(t *testing.T) {
	expectError(t, "f(1, 2", diagnostics.ErrP001)
}

func TestP001_Recovery(t *testing.T) {
	ctx := parse("let x = ;\nconst y = 1\nfunction g() { let = 2; return 3 }")
	require.Len(t, ctx.Errors, 2)
	require.Len(t, ctx.AstRoot.Statements, 2)

	g := ctx.AstRoot.Statements[1].(*ast.FunctionDeclaration)
	require.Len(t, g.Body.Statements, 1)
	_, ok := g.Body.Statements[0].(*ast.ReturnStatement)
	assert.True(t, ok)
}

// ---------------------------------------------------------------------------
// P002: Invalid token
// ---------------------------------------------------------------------------

func TestP002_UnterminatedString(t *testing.T) {
	expectError(t, `const s = "open`, diagnostics.ErrP002)
}

// ---------------------------------------------------------------------------
// P003: Malformed declaration
// ---------------------------------------------------------------------------

func TestP003_AnnotationOnNothing(t *testing.T) {
	expectError(t, "export 42", diagnostics.ErrP003)
}
