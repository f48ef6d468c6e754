// Package evaluator is a tree-walking interpreter for the source language.
// It runs transformed programs against the reference memo runtime, which is
// bound to the __memo_context and __memo_id globals.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/runtime"
)

const maxEvalDepth = 10000

// RootID is the value of the __memo_id global.
const RootID = "root"

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Out    io.Writer
	Logger *zap.Logger
	// Memo is the runtime bound to __memo_context.
	Memo *runtime.Context
	// Globals holds builtins and the memo globals. Every module environment
	// encloses it.
	Globals *Environment

	modules map[string]*ast.Program
	exports map[string]*Environment
	loading map[string]bool

	// CurrentFile being evaluated
	CurrentFile string

	evalDepth int
}

func New() *Evaluator {
	e := &Evaluator{
		Context: context.Background(),
		Out:     os.Stdout,
		Logger:  zap.NewNop(),
		Memo:    runtime.NewContext(),
		modules: make(map[string]*ast.Program),
		exports: make(map[string]*Environment),
		loading: make(map[string]bool),
	}
	e.Memo.Equal = memoEqual
	e.Globals = NewEnvironment()
	RegisterBuiltins(e.Globals)
	e.Globals.SetConst(config.ContextParamName, &MemoContext{Runtime: e.Memo})
	e.Globals.SetConst(config.IDParamName, &String{Value: RootID})
	return e
}

// Run evaluates prog as a module and returns its environment.
func (e *Evaluator) Run(prog *ast.Program) (*Environment, error) {
	e.AddModule(prog)
	env, errObj := e.loadModule(prog.File)
	if errObj != nil {
		return nil, fmt.Errorf("%s: %w", prog.File, errObj)
	}
	return env, nil
}

// Call invokes the function bound to name in env.
func (e *Evaluator) Call(env *Environment, name string, args ...Object) (Object, error) {
	fn, ok := env.Get(name)
	if !ok {
		return nil, fmt.Errorf("%s is not defined", name)
	}
	res := e.applyFunction(fn, nil, args)
	if err, ok := res.(*Error); ok {
		return nil, err
	}
	return res, nil
}

// CallMemo invokes a rewritten memo function bound to name, passing the
// memo globals as the hidden leading arguments.
func (e *Evaluator) CallMemo(env *Environment, name string, args ...Object) (Object, error) {
	ctx, _ := e.Globals.Get(config.ContextParamName)
	id, _ := e.Globals.Get(config.IDParamName)
	return e.Call(env, name, append([]Object{ctx, id}, args...)...)
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	e.evalDepth++
	if e.evalDepth > maxEvalDepth {
		e.evalDepth--
		return newError("maximum recursion depth exceeded")
	}
	defer func() { e.evalDepth-- }()

	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return newError("execution cancelled: %v", e.Context.Err())
		default:
		}
	}

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok && err.Line == 0 && node != nil {
		tok := node.GetToken()
		err.Line = tok.Line
		err.Column = tok.Column
	}
	return obj
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalStatements(node.Statements, env)
	case *ast.BlockStatement:
		return e.evalStatements(node.Statements, NewEnclosedEnvironment(env))
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.ReturnStatement:
		return e.evalReturn(node, env)
	case *ast.IfStatement:
		return e.evalIf(node, env)
	case *ast.WhileStatement:
		return e.evalWhile(node, env)
	case *ast.ForStatement:
		return e.evalFor(node, env)
	case *ast.ForOfStatement:
		return e.evalForOf(node, env)
	case *ast.ThrowStatement:
		return e.evalThrow(node, env)
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}
	case *ast.EmptyStatement:
		return UNDEFINED
	case *ast.VariableStatement:
		return e.evalVariableList(node.List, env)
	case *ast.FunctionDeclaration:
		// hoisted by evalStatements
		return UNDEFINED
	case *ast.ClassDeclaration:
		return e.evalClass(node, env)
	case *ast.ImportDeclaration:
		return e.evalImport(node, env)
	case *ast.ExportDeclaration:
		return e.evalExport(node, env)
	case *ast.InterfaceDeclaration, *ast.TypeAliasDeclaration:
		return UNDEFINED

	// Expressions
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.ThisExpression:
		if this, ok := env.Get("this"); ok {
			return this
		}
		return UNDEFINED
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBool(node.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(node, env)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, env)
	case *ast.ParenthesizedExpression:
		return e.Eval(node.Expression, env)
	case *ast.PrefixExpression:
		return e.evalPrefix(node, env)
	case *ast.PostfixExpression:
		return e.evalPostfix(node, env)
	case *ast.BinaryExpression:
		if node.IsAssignment() {
			return e.evalAssignment(node, env)
		}
		return e.evalBinary(node, env)
	case *ast.ConditionalExpression:
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if isTruthy(cond) {
			return e.Eval(node.WhenTrue, env)
		}
		return e.Eval(node.WhenFalse, env)
	case *ast.MemberExpression:
		return e.evalMember(node, env)
	case *ast.IndexExpression:
		return e.evalIndex(node, env)
	case *ast.CallExpression:
		return e.evalCall(node, env)
	case *ast.NewExpression:
		return e.evalNew(node, env)
	case *ast.ArrowFunction:
		return &Function{Parameters: node.Parameters, Body: node.Body, Env: env, Arrow: true}
	case *ast.FunctionExpression:
		return e.evalFunctionExpression(node, env)
	case *ast.CachedReturnMarker:
		if node.Inner == nil {
			return UNDEFINED
		}
		return e.Eval(node.Inner, env)
	}
	if node == nil {
		return UNDEFINED
	}
	return newError("cannot evaluate %T", node)
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}
