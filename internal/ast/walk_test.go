package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(id NodeID, name string) *Identifier {
	return &Identifier{Base: Base{ID: id}, Value: name}
}

func sampleBlock() *BlockStatement {
	return &BlockStatement{
		Base: Base{ID: 1},
		Statements: []Statement{
			&ExpressionStatement{Base: Base{ID: 2}, Expression: ident(3, "a")},
			&ExpressionStatement{Base: Base{ID: 4}, Expression: ident(5, "b")},
		},
	}
}

func TestVisitEachChildUnchanged(t *testing.T) {
	block := sampleBlock()
	out := VisitEachChild(block, func(n Node) Node { return n })
	assert.Same(t, block, out)
}

func TestVisitEachChildCopyOnWrite(t *testing.T) {
	block := sampleBlock()
	var rename func(Node) Node
	rename = func(n Node) Node {
		if id, ok := n.(*Identifier); ok && id.Value == "b" {
			cp := Clone(id)
			cp.Value = "c"
			return cp
		}
		return VisitEachChild(n, rename)
	}

	out := rename(block).(*BlockStatement)
	require.NotSame(t, block, out)
	assert.Equal(t, block.NodeID(), out.NodeID())
	assert.Same(t, block.Statements[0], out.Statements[0])

	second := out.Statements[1].(*ExpressionStatement)
	assert.Equal(t, "c", second.Expression.(*Identifier).Value)
	assert.Equal(t, NodeID(5), second.Expression.NodeID())

	// the original tree is intact
	assert.Equal(t, "b", block.Statements[1].(*ExpressionStatement).Expression.(*Identifier).Value)
}

func TestVisitEachChildDeletes(t *testing.T) {
	block := sampleBlock()
	out := VisitEachChild(block, func(n Node) Node {
		if n.NodeID() == 2 {
			return nil
		}
		return n
	}).(*BlockStatement)
	require.Len(t, out.Statements, 1)
	assert.Equal(t, NodeID(4), out.Statements[0].NodeID())
	assert.Len(t, block.Statements, 2)
}

func TestInspectOrder(t *testing.T) {
	call := &CallExpression{
		Base:      Base{ID: 10},
		Callee:    NewMember(ident(11, "x"), "m"),
		Arguments: []Expression{ident(12, "y")},
	}
	var names []string
	Inspect(call, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Value)
		}
		return true
	})
	assert.Equal(t, []string{"x", "m", "y"}, names)
}

func TestInspectSkipsChildren(t *testing.T) {
	arrow := &ArrowFunction{Base: Base{ID: 1}, Body: ident(2, "inner")}
	var seen int
	Inspect(NewExprStmt(arrow), func(n Node) bool {
		seen++
		_, isArrow := n.(*ArrowFunction)
		return !isArrow
	})
	assert.Equal(t, 2, seen)
}

func TestBuilders(t *testing.T) {
	decl := NewConst("x", NewCall(NewMember(NewIdentifier("s"), "param"), nil, NewNumber(0)))
	assert.Equal(t, NoNodeID, decl.NodeID())
	assert.Equal(t, "const", decl.List.Kind)
	assert.True(t, IsKeyword(UnwrapParens(&ParenthesizedType{Type: NewKeywordType("void")}), "void"))
	assert.True(t, HasAnnotation([]*Annotation{{Name: "memo"}}, "memo"))
	assert.Nil(t, FindAnnotation(nil, "memo"))
}
