package evaluator

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/symbols"
)

// AddModule makes prog importable under its file path. Modules run on their
// first import.
func (e *Evaluator) AddModule(prog *ast.Program) {
	e.modules[modulePath(prog.File)] = prog
}

func modulePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// loadModule evaluates the module at p once and returns its environment. A
// module that is still loading (an import cycle) yields its partial
// environment.
func (e *Evaluator) loadModule(p string) (*Environment, *Error) {
	p = modulePath(p)
	if env, ok := e.exports[p]; ok {
		return env, nil
	}
	prog, ok := e.modules[p]
	if !ok {
		return nil, newError("module %s not found", p)
	}

	env := NewEnclosedEnvironment(e.Globals)
	e.exports[p] = env
	prev := e.CurrentFile
	e.CurrentFile = p
	res := e.Eval(prog, env)
	e.CurrentFile = prev
	if err, ok := res.(*Error); ok {
		return nil, err
	}
	e.Logger.Debug("module loaded", zap.String("file", p))
	return env, nil
}

func (e *Evaluator) resolveModule(spec string) (string, bool) {
	for _, c := range symbols.ModuleCandidates(e.CurrentFile, spec) {
		if _, ok := e.modules[c]; ok {
			return c, true
		}
	}
	return "", false
}

// evalImport binds imported names. Imports of modules outside the program
// bind to globals of the same name, or undefined.
func (e *Evaluator) evalImport(node *ast.ImportDeclaration, env *Environment) Object {
	if node.TypeOnly {
		return UNDEFINED
	}
	source := e.Globals
	if target, ok := e.resolveModule(node.Module.Value); ok {
		menv, err := e.loadModule(target)
		if err != nil {
			return err
		}
		source = menv
	}
	lookup := func(name string) Object {
		if v, ok := source.Get(name); ok {
			return v
		}
		return UNDEFINED
	}
	if node.Default != nil {
		env.SetConst(node.Default.Value, lookup("default"))
	}
	for _, s := range node.Specifiers {
		env.SetConst(s.Local.Value, lookup(s.Imported.Value))
	}
	return UNDEFINED
}

// evalExport makes aliases visible under their exported names.
func (e *Evaluator) evalExport(node *ast.ExportDeclaration, env *Environment) Object {
	source := env
	if node.Module != nil {
		target, ok := e.resolveModule(node.Module.Value)
		if !ok {
			return UNDEFINED
		}
		menv, err := e.loadModule(target)
		if err != nil {
			return err
		}
		source = menv
	}
	for _, s := range node.Specifiers {
		if source == env && s.Local.Value == s.Exported.Value {
			continue
		}
		val, ok := source.Get(s.Local.Value)
		if !ok {
			return newError("%s is not defined", s.Local.Value)
		}
		env.Set(s.Exported.Value, val)
	}
	return UNDEFINED
}
