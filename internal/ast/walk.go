package ast

// VisitEachChild calls fn on every direct child of n in source order and
// returns n with the children fn returned. n itself is never mutated: when any
// child changes, a shallow copy carrying n's NodeID is returned instead.
// Returning nil from fn removes an optional child or a list element.
func VisitEachChild(n Node, fn func(Node) Node) Node {
	c := &childVisitor{fn: fn}

	switch n := n.(type) {
	case *Program:
		stmts := visitList(c, n.Statements)
		if c.changed {
			cp := Clone(n)
			cp.Statements = stmts
			return cp
		}

	case *Parameter:
		name, typ, def := c.ident(n.Name), c.typ(n.Type), c.expr(n.Default)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Type, cp.Default = name, typ, def
			return cp
		}

	case *ImportDeclaration:
		def, specs, mod := c.ident(n.Default), visitList(c, n.Specifiers), c.str(n.Module)
		if c.changed {
			cp := Clone(n)
			cp.Default, cp.Specifiers, cp.Module = def, specs, mod
			return cp
		}

	case *ImportSpecifier:
		imported := c.ident(n.Imported)
		local := imported
		if n.Local != n.Imported {
			local = c.ident(n.Local)
		}
		if c.changed {
			cp := Clone(n)
			cp.Imported, cp.Local = imported, local
			return cp
		}

	case *ExportDeclaration:
		specs, mod := visitList(c, n.Specifiers), c.str(n.Module)
		if c.changed {
			cp := Clone(n)
			cp.Specifiers, cp.Module = specs, mod
			return cp
		}

	case *ExportSpecifier:
		local := c.ident(n.Local)
		exported := local
		if n.Exported != n.Local {
			exported = c.ident(n.Exported)
		}
		if c.changed {
			cp := Clone(n)
			cp.Local, cp.Exported = local, exported
			return cp
		}

	case *FunctionDeclaration:
		name, sig, body := c.ident(n.Name), c.sig(n.Signature), c.block(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Signature, cp.Body = name, sig, body
			return cp
		}

	case *ClassDeclaration:
		name, tps := c.ident(n.Name), visitList(c, n.TypeParams)
		ext, impls := c.typeRef(n.Extends), visitList(c, n.Implements)
		members := visitList(c, n.Members)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.TypeParams, cp.Extends, cp.Implements, cp.Members = name, tps, ext, impls, members
			return cp
		}

	case *PropertyDeclaration:
		name, typ, init := c.ident(n.Name), c.typ(n.Type), c.expr(n.Initializer)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Type, cp.Initializer = name, typ, init
			return cp
		}

	case *MethodDeclaration:
		name, sig, body := c.ident(n.Name), c.sig(n.Signature), c.block(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Signature, cp.Body = name, sig, body
			return cp
		}

	case *Constructor:
		sig, body := c.sig(n.Signature), c.block(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Signature, cp.Body = sig, body
			return cp
		}

	case *GetAccessor:
		name, sig, body := c.ident(n.Name), c.sig(n.Signature), c.block(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Signature, cp.Body = name, sig, body
			return cp
		}

	case *SetAccessor:
		name, sig, body := c.ident(n.Name), c.sig(n.Signature), c.block(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Signature, cp.Body = name, sig, body
			return cp
		}

	case *InterfaceDeclaration:
		name, tps := c.ident(n.Name), visitList(c, n.TypeParams)
		exts, members := visitList(c, n.Extends), visitList(c, n.Members)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.TypeParams, cp.Extends, cp.Members = name, tps, exts, members
			return cp
		}

	case *PropertySignature:
		name, typ := c.ident(n.Name), c.typ(n.Type)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Type = name, typ
			return cp
		}

	case *MethodSignature:
		name, sig := c.ident(n.Name), c.sig(n.Signature)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Signature = name, sig
			return cp
		}

	case *TypeAliasDeclaration:
		name, tps, typ := c.ident(n.Name), visitList(c, n.TypeParams), c.typ(n.Type)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.TypeParams, cp.Type = name, tps, typ
			return cp
		}

	case *VariableStatement:
		list := c.declList(n.List)
		if c.changed {
			cp := Clone(n)
			cp.List = list
			return cp
		}

	case *VariableDeclarationList:
		decls := visitList(c, n.Declarations)
		if c.changed {
			cp := Clone(n)
			cp.Declarations = decls
			return cp
		}

	case *VariableDeclaration:
		name, typ, init := c.ident(n.Name), c.typ(n.Type), c.expr(n.Initializer)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Type, cp.Initializer = name, typ, init
			return cp
		}

	case *BlockStatement:
		stmts := visitList(c, n.Statements)
		if c.changed {
			cp := Clone(n)
			cp.Statements = stmts
			return cp
		}

	case *ExpressionStatement:
		e := c.expr(n.Expression)
		if c.changed {
			cp := Clone(n)
			cp.Expression = e
			return cp
		}

	case *ReturnStatement:
		e := c.expr(n.Value)
		if c.changed {
			cp := Clone(n)
			cp.Value = e
			return cp
		}

	case *IfStatement:
		cond, cons, alt := c.expr(n.Condition), c.stmt(n.Consequence), c.stmt(n.Alternative)
		if c.changed {
			cp := Clone(n)
			cp.Condition, cp.Consequence, cp.Alternative = cond, cons, alt
			return cp
		}

	case *WhileStatement:
		cond, body := c.expr(n.Condition), c.stmt(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Condition, cp.Body = cond, body
			return cp
		}

	case *ForStatement:
		init, cond, update, body := c.node(n.Init), c.expr(n.Condition), c.expr(n.Update), c.stmt(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Init, cp.Condition, cp.Update, cp.Body = init, cond, update, body
			return cp
		}

	case *ForOfStatement:
		decl, iter, body := c.declList(n.Declaration), c.expr(n.Iterable), c.stmt(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Declaration, cp.Iterable, cp.Body = decl, iter, body
			return cp
		}

	case *ThrowStatement:
		e := c.expr(n.Value)
		if c.changed {
			cp := Clone(n)
			cp.Value = e
			return cp
		}

	case *ArrayLiteral:
		elems := visitList(c, n.Elements)
		if c.changed {
			cp := Clone(n)
			cp.Elements = elems
			return cp
		}

	case *ObjectLiteral:
		props := visitList(c, n.Properties)
		if c.changed {
			cp := Clone(n)
			cp.Properties = props
			return cp
		}

	case *PropertyAssignment:
		key, value := c.expr(n.Key), c.expr(n.Value)
		if c.changed {
			cp := Clone(n)
			cp.Key, cp.Value = key, value
			return cp
		}

	case *ShorthandPropertyAssignment:
		name := c.ident(n.Name)
		if c.changed {
			cp := Clone(n)
			cp.Name = name
			return cp
		}

	case *SpreadElement:
		arg := c.expr(n.Argument)
		if c.changed {
			cp := Clone(n)
			cp.Argument = arg
			return cp
		}

	case *CallExpression:
		callee, targs, args := c.expr(n.Callee), visitList(c, n.TypeArgs), visitList(c, n.Arguments)
		if c.changed {
			cp := Clone(n)
			cp.Callee, cp.TypeArgs, cp.Arguments = callee, targs, args
			return cp
		}

	case *NewExpression:
		callee, targs, args := c.expr(n.Callee), visitList(c, n.TypeArgs), visitList(c, n.Arguments)
		if c.changed {
			cp := Clone(n)
			cp.Callee, cp.TypeArgs, cp.Arguments = callee, targs, args
			return cp
		}

	case *MemberExpression:
		obj, prop := c.expr(n.Object), c.ident(n.Property)
		if c.changed {
			cp := Clone(n)
			cp.Object, cp.Property = obj, prop
			return cp
		}

	case *IndexExpression:
		obj, idx := c.expr(n.Object), c.expr(n.Index)
		if c.changed {
			cp := Clone(n)
			cp.Object, cp.Index = obj, idx
			return cp
		}

	case *PrefixExpression:
		operand := c.expr(n.Operand)
		if c.changed {
			cp := Clone(n)
			cp.Operand = operand
			return cp
		}

	case *PostfixExpression:
		operand := c.expr(n.Operand)
		if c.changed {
			cp := Clone(n)
			cp.Operand = operand
			return cp
		}

	case *BinaryExpression:
		left, right := c.expr(n.Left), c.expr(n.Right)
		if c.changed {
			cp := Clone(n)
			cp.Left, cp.Right = left, right
			return cp
		}

	case *ConditionalExpression:
		cond, t, f := c.expr(n.Condition), c.expr(n.WhenTrue), c.expr(n.WhenFalse)
		if c.changed {
			cp := Clone(n)
			cp.Condition, cp.WhenTrue, cp.WhenFalse = cond, t, f
			return cp
		}

	case *ParenthesizedExpression:
		e := c.expr(n.Expression)
		if c.changed {
			cp := Clone(n)
			cp.Expression = e
			return cp
		}

	case *ArrowFunction:
		sig, body := c.sig(n.Signature), c.node(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Signature, cp.Body = sig, body
			return cp
		}

	case *FunctionExpression:
		name, sig, body := c.ident(n.Name), c.sig(n.Signature), c.block(n.Body)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Signature, cp.Body = name, sig, body
			return cp
		}

	case *CachedReturnMarker:
		inner := c.expr(n.Inner)
		if c.changed {
			cp := Clone(n)
			cp.Inner = inner
			return cp
		}

	case *TypeReference:
		name, targs := c.ident(n.Name), visitList(c, n.TypeArgs)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.TypeArgs = name, targs
			return cp
		}

	case *FunctionType:
		sig := c.sig(n.Signature)
		if c.changed {
			cp := Clone(n)
			cp.Signature = sig
			return cp
		}

	case *UnionType:
		types := visitList(c, n.Types)
		if c.changed {
			cp := Clone(n)
			cp.Types = types
			return cp
		}

	case *ParenthesizedType:
		typ := c.typ(n.Type)
		if c.changed {
			cp := Clone(n)
			cp.Type = typ
			return cp
		}

	case *ArrayType:
		elem := c.typ(n.Element)
		if c.changed {
			cp := Clone(n)
			cp.Element = elem
			return cp
		}

	case *LiteralType:
		lit := c.expr(n.Literal)
		if c.changed {
			cp := Clone(n)
			cp.Literal = lit
			return cp
		}

	case *TypeParameter:
		name, constraint, def := c.ident(n.Name), c.typ(n.Constraint), c.typ(n.Default)
		if c.changed {
			cp := Clone(n)
			cp.Name, cp.Constraint, cp.Default = name, constraint, def
			return cp
		}

	case *TypeLiteral:
		members := visitList(c, n.Members)
		if c.changed {
			cp := Clone(n)
			cp.Members = members
			return cp
		}
	}

	return n
}

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	VisitEachChild(n, func(child Node) Node {
		Inspect(child, f)
		return child
	})
}

type childVisitor struct {
	fn      func(Node) Node
	changed bool
}

func (c *childVisitor) node(n Node) Node {
	if n == nil {
		return nil
	}
	r := c.fn(n)
	if r != n {
		c.changed = true
	}
	return r
}

func (c *childVisitor) expr(e Expression) Expression {
	if e == nil {
		return nil
	}
	if r := c.node(e); r != nil {
		return r.(Expression)
	}
	return nil
}

func (c *childVisitor) stmt(s Statement) Statement {
	if s == nil {
		return nil
	}
	if r := c.node(s); r != nil {
		return r.(Statement)
	}
	return nil
}

func (c *childVisitor) typ(t Type) Type {
	if t == nil {
		return nil
	}
	if r := c.node(t); r != nil {
		return r.(Type)
	}
	return nil
}

func (c *childVisitor) ident(i *Identifier) *Identifier {
	if i == nil {
		return nil
	}
	if r := c.node(i); r != nil {
		return r.(*Identifier)
	}
	return nil
}

func (c *childVisitor) str(s *StringLiteral) *StringLiteral {
	if s == nil {
		return nil
	}
	if r := c.node(s); r != nil {
		return r.(*StringLiteral)
	}
	return nil
}

func (c *childVisitor) block(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}
	if r := c.node(b); r != nil {
		return r.(*BlockStatement)
	}
	return nil
}

func (c *childVisitor) typeRef(t *TypeReference) *TypeReference {
	if t == nil {
		return nil
	}
	if r := c.node(t); r != nil {
		return r.(*TypeReference)
	}
	return nil
}

func (c *childVisitor) declList(l *VariableDeclarationList) *VariableDeclarationList {
	if l == nil {
		return nil
	}
	if r := c.node(l); r != nil {
		return r.(*VariableDeclarationList)
	}
	return nil
}

func (c *childVisitor) sig(s Signature) Signature {
	return Signature{
		TypeParams: visitList(c, s.TypeParams),
		Parameters: visitList(c, s.Parameters),
		ReturnType: c.typ(s.ReturnType),
	}
}

func visitList[T Node](c *childVisitor, list []T) []T {
	var out []T
	changed := false
	for i, item := range list {
		r := c.fn(item)
		if !changed && r != Node(item) {
			changed = true
			out = make([]T, 0, len(list))
			out = append(out, list[:i]...)
		}
		if changed && r != nil {
			out = append(out, r.(T))
		}
	}
	if !changed {
		return list
	}
	c.changed = true
	return out
}
