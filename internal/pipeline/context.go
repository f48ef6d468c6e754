package pipeline

import (
	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/diagnostics"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/symbols"
	"github.com/funvibe/memoc/internal/token"
)

// PipelineContext carries the state of one file through the stages.
type PipelineContext struct {
	FilePath   string
	SourceCode string
	Tokens     []token.Token

	// SessionID names the compilation session in logs and artifact paths.
	SessionID string

	// IDs numbers the nodes of the parsed tree. Nil means a private generator.
	IDs *ast.IDGen

	// AstRoot is the current tree. Rewriting stages replace it; Original
	// keeps the tree as parsed.
	AstRoot  *ast.Program
	Original *ast.Program

	Resolver symbols.Resolver
	Memo     *memo.Context
	Options  *config.Options
	Logger   *zap.Logger

	Errors []*diagnostics.DiagnosticError
	// Err aborts the file after the current stage, e.g. on a failed write.
	Err error

	// Output is the printed transformed file.
	Output string
	// Artifacts lists the files written for this source file.
	Artifacts []string
}

// AddError records a diagnostic against the current file.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (ctx *PipelineContext) HasErrors() bool {
	for _, e := range ctx.Errors {
		if e.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}

// Log returns the file's logger, never nil.
func (ctx *PipelineContext) Log() *zap.Logger {
	if ctx.Logger == nil {
		return zap.NewNop()
	}
	return ctx.Logger
}
