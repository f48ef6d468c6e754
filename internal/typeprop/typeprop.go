// Package typeprop threads the hidden parameter types into the declared
// types of memo bindings and imports those types.
package typeprop

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/memo"
	"github.com/funvibe/memoc/internal/pipeline"
	"github.com/funvibe/memoc/internal/rewriter"
	"github.com/funvibe/memoc/internal/symbols"
)

type Propagator struct {
	mc *memo.Context
}

func New(mc *memo.Context) *Propagator {
	return &Propagator{mc: mc}
}

// Propagate rewrites declared types of memo parameters, variables,
// properties and property signatures, then adds the type import when the
// file gained any hidden parameter.
func (p *Propagator) Propagate(prog *ast.Program) *ast.Program {
	prog = p.visit(prog).(*ast.Program)
	if p.mc.NeedsTypeImport {
		prog = p.insertImport(prog)
	}
	return prog
}

func (p *Propagator) visit(n ast.Node) ast.Node {
	n = ast.VisitEachChild(n, p.visit)
	switch d := n.(type) {
	case *ast.Parameter:
		if t, ok := p.propagate(d, d.Type); ok {
			cp := ast.Clone(d)
			cp.Type = t
			return cp
		}
	case *ast.VariableDeclaration:
		if t, ok := p.propagate(d, d.Type); ok {
			cp := ast.Clone(d)
			cp.Type = t
			return cp
		}
	case *ast.PropertyDeclaration:
		if t, ok := p.propagate(d, d.Type); ok {
			cp := ast.Clone(d)
			cp.Type = t
			return cp
		}
	case *ast.PropertySignature:
		if t, ok := p.propagate(d, d.Type); ok {
			cp := ast.Clone(d)
			cp.Type = t
			return cp
		}
	}
	return n
}

func (p *Propagator) propagate(decl ast.Node, t ast.Type) (ast.Type, bool) {
	if t == nil || p.mc.Tables.VariableKind(decl) != memo.Memo {
		return nil, false
	}
	nt, ok := rewriter.AddHiddenToType(t)
	if !ok {
		switch ast.UnwrapParens(t).(type) {
		case *ast.KeywordType, *ast.ArrayType, *ast.LiteralType:
			name := "binding"
			if id := symbols.DeclarationName(decl); id != nil {
				name = id.Value
			}
			memo.Failf(decl, "memo binding %s has a non-function type", name)
		}
		return nil, false
	}
	p.mc.NeedsTypeImport = true
	return nt, true
}

// insertImport adds `import type { __memo_context_type, __memo_id_type }
// from "<context import>"` after the last import.
func (p *Propagator) insertImport(prog *ast.Program) *ast.Program {
	last := -1
	for i, s := range prog.Statements {
		imp, ok := s.(*ast.ImportDeclaration)
		if !ok {
			continue
		}
		last = i
		for _, spec := range imp.Specifiers {
			if spec.Local.Value == config.ContextTypeName {
				return prog
			}
		}
	}

	imp := &ast.ImportDeclaration{
		TypeOnly: true,
		Specifiers: []*ast.ImportSpecifier{
			specifier(config.ContextTypeName),
			specifier(config.IDTypeName),
		},
		Module: ast.NewString(p.mc.Options.ContextImport),
	}

	stmts := make([]ast.Statement, 0, len(prog.Statements)+1)
	stmts = append(stmts, prog.Statements[:last+1]...)
	stmts = append(stmts, imp)
	stmts = append(stmts, prog.Statements[last+1:]...)

	cp := ast.Clone(prog)
	cp.Statements = stmts
	return cp
}

func specifier(name string) *ast.ImportSpecifier {
	id := ast.NewIdentifier(name)
	return &ast.ImportSpecifier{Imported: id, Local: id}
}

// TypePropProcessor is the last rewriting stage.
type TypePropProcessor struct{}

func (tp *TypePropProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Memo == nil || ctx.HasErrors() {
		return ctx
	}
	ctx.AstRoot = New(ctx.Memo).Propagate(ctx.AstRoot)
	return ctx
}
