// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil

import (
	"fmt"

	"github.com/liquidgo/liquid/ast"
)

// Visitor's Visit method is invoked for every node encountered by Walk.
type Visitor interface {
	Visit(node ast.Node) (w Visitor)
}

// Walk visits a tree in depth. Initially it calls v.Visit(node), where node
// must not be nil. If the value w returned by v.Visit(node) is not nil, Walk
// is called recursively using w as the Visitor on all the non nil children
// of the node. Finally it calls w.Visit(nil).
func Walk(v Visitor, node ast.Node) {

	if v == nil {
		panic("v can't be nil")
	}
	if node == nil {
		panic("node can't be nil")
	}

	v = v.Visit(node)
	if v == nil {
		return
	}

	switch n := node.(type) {

	case *ast.Tree:
		walkNodes(v, n.Nodes)

	case *ast.Text, *ast.Literal, *ast.MethodLiteral, *ast.Break, *ast.Continue, *ast.Increment:
		// No children.

	case *ast.Output:
		Walk(v, n.Expr)

	case *ast.Range:
		Walk(v, n.Start)
		Walk(v, n.End)

	case *ast.Lookup:
		if n.Dynamic != nil {
			Walk(v, n.Dynamic)
		}
		for _, k := range n.Keys {
			if k.Index != nil {
				Walk(v, k.Index)
			}
		}

	case *ast.Filtered:
		Walk(v, n.Expr)
		for _, f := range n.Filters {
			Walk(v, f)
		}

	case *ast.Filter:
		for _, arg := range n.Args {
			Walk(v, arg)
		}
		for _, kw := range n.Kwargs {
			Walk(v, kw)
		}

	case *ast.KeywordArg:
		Walk(v, n.Value)

	case *ast.Comparison:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *ast.Logical:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *ast.Assign:
		Walk(v, n.Value)

	case *ast.Capture:
		walkNodes(v, n.Body)

	case *ast.If:
		for _, b := range n.Branches {
			if b.Cond != nil {
				Walk(v, b.Cond)
			}
			walkNodes(v, b.Body)
		}

	case *ast.Case:
		Walk(v, n.Expr)
		for _, c := range n.Clauses {
			for _, value := range c.Values {
				Walk(v, value)
			}
			walkNodes(v, c.Body)
		}

	case *ast.For:
		Walk(v, n.Collection)
		if n.Limit != nil {
			Walk(v, n.Limit)
		}
		if n.Offset != nil {
			Walk(v, n.Offset)
		}
		walkNodes(v, n.Body)
		walkNodes(v, n.Else)

	case *ast.Tablerow:
		Walk(v, n.Collection)
		for _, e := range []ast.Expression{n.Cols, n.Limit, n.Offset} {
			if e != nil {
				Walk(v, e)
			}
		}
		walkNodes(v, n.Body)

	case *ast.Cycle:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		for _, value := range n.Values {
			Walk(v, value)
		}

	case *ast.Ifchanged:
		walkNodes(v, n.Body)

	case *ast.Include:
		Walk(v, n.Template)
		if n.Variable != nil {
			Walk(v, n.Variable)
		}
		for _, attr := range n.Attributes {
			Walk(v, attr)
		}

	case *ast.Render:
		if n.Variable != nil {
			Walk(v, n.Variable)
		}
		for _, attr := range n.Attributes {
			Walk(v, attr)
		}

	default:
		panic(fmt.Sprintf("unsupported node type %T", node))

	}

	v.Visit(nil)
}

func walkNodes(v Visitor, nodes []ast.Node) {
	for _, node := range nodes {
		Walk(v, node)
	}
}

// Inspect traverses a tree in depth calling f(node) for each node. If f
// returns true, Inspect invokes f recursively for each of the non nil
// children of node, followed by a call of f(nil).
func Inspect(node ast.Node, f func(ast.Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
