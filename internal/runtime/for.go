// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"math"
	"strconv"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/native"
)

// forloopDrop is the value of the forloop variable.
type forloopDrop struct {
	name       string
	length     int
	index      int
	parentloop *forloopDrop
}

func newForloop(name string, length int, parentloop *forloopDrop) *forloopDrop {
	return &forloopDrop{name: name, length: length, parentloop: parentloop}
}

// Get implements the native.Drop interface.
func (loop *forloopDrop) Get(name string) interface{} {
	switch name {
	case "name":
		return loop.name
	case "length":
		return loop.length
	case "index":
		return loop.index + 1
	case "index0":
		return loop.index
	case "rindex":
		return loop.length - loop.index
	case "rindex0":
		return loop.length - loop.index - 1
	case "first":
		return loop.index == 0
	case "last":
		return loop.index == loop.length-1
	case "parentloop":
		if loop.parentloop == nil {
			return nil
		}
		return loop.parentloop
	}
	return nil
}

func (loop *forloopDrop) String() string {
	return "ForloopDrop"
}

func (loop *forloopDrop) increment() {
	loop.index++
}

// tablerowloopDrop is the value of the tablerowloop variable.
type tablerowloopDrop struct {
	length int
	cols   int
	index  int
	row    int
	col    int
}

func newTablerowloop(length, cols int) *tablerowloopDrop {
	return &tablerowloopDrop{length: length, cols: cols, row: 1, col: 1}
}

// Get implements the native.Drop interface.
func (loop *tablerowloopDrop) Get(name string) interface{} {
	switch name {
	case "length":
		return loop.length
	case "index":
		return loop.index + 1
	case "index0":
		return loop.index
	case "rindex":
		return loop.length - loop.index
	case "rindex0":
		return loop.length - loop.index - 1
	case "first":
		return loop.index == 0
	case "last":
		return loop.index == loop.length-1
	case "col":
		return loop.col
	case "col0":
		return loop.col - 1
	case "col_first":
		return loop.col == 1
	case "col_last":
		return loop.col == loop.cols
	case "row":
		return loop.row
	}
	return nil
}

func (loop *tablerowloopDrop) String() string {
	return "TablerowloopDrop"
}

func (loop *tablerowloopDrop) increment() {
	if loop.col == loop.cols {
		loop.col = 1
		loop.row++
	} else {
		loop.col++
	}
	loop.index++
}

// sliceCollection returns the elements of v with index in [from, to). If to
// is negative there is no upper bound. A non-empty string is a collection
// with only itself regardless of from and to.
func (s *state) sliceCollection(node ast.Node, v interface{}, from, to int) ([]interface{}, error) {
	if native.KindOf(v) == native.KindString {
		return native.ToIterable(v), nil
	}
	elems, err := native.Slice(v, from, to)
	if err != nil {
		return nil, s.newError(node, err)
	}
	return elems, nil
}

// segmentEnd returns the end of a segment starting at from with at most
// limit elements. A negative from is zero and a negative limit is an empty
// segment.
func segmentEnd(from, limit int) int {
	if from < 0 {
		from = 0
	}
	if limit <= 0 {
		return from
	}
	if from > math.MaxInt-limit {
		return -1
	}
	return from + limit
}

// renderFor renders a for tag.
func (s *state) renderFor(node *ast.For) error {

	offsets := s.registers.counters(forRegister)
	key := node.Key()

	from := 0
	if node.OffsetContinue {
		from = offsets[key]
	} else if node.Offset != nil {
		v, err := s.eval(node.Offset)
		if err != nil {
			return err
		}
		if v != nil {
			if from, err = native.ToInteger(v); err != nil {
				return s.newError(node, err)
			}
		}
	}
	if from < 0 {
		from = 0
	}

	collection, err := s.eval(node.Collection)
	if err != nil {
		return err
	}

	to := -1
	if node.Limit != nil {
		v, err := s.eval(node.Limit)
		if err != nil {
			return err
		}
		if v != nil {
			limit, err := native.ToInteger(v)
			if err != nil {
				return s.newError(node, err)
			}
			to = segmentEnd(from, limit)
		}
	}

	segment, err := s.sliceCollection(node, collection, from, to)
	if err != nil {
		return err
	}
	if node.Reversed {
		reversed := make([]interface{}, len(segment))
		for i, e := range segment {
			reversed[len(segment)-1-i] = e
		}
		segment = reversed
	}
	offsets[key] = from + len(segment)

	if len(segment) == 0 {
		if node.Else != nil {
			return s.render(node.Else)
		}
		return nil
	}

	if err := s.push(node); err != nil {
		return err
	}
	defer s.pop()

	stack, _ := s.registers.values[forStackRegister].([]*forloopDrop)
	var parent *forloopDrop
	if len(stack) > 0 {
		parent = stack[len(stack)-1]
	}
	loop := newForloop(key, len(segment), parent)
	s.registers.Set(forStackRegister, append(stack, loop))
	defer s.registers.Set(forStackRegister, stack)

	scope := s.top()
	scope["forloop"] = loop

	for _, item := range segment {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		scope[node.Variable] = item
		if err := s.render(node.Body); err != nil {
			return err
		}
		loop.increment()
		if s.interrupted() && s.popInterrupt() == breakInterrupt {
			break
		}
	}

	return nil
}

// renderTablerow renders a tablerow tag.
func (s *state) renderTablerow(node *ast.Tablerow) error {

	collection, err := s.eval(node.Collection)
	if err != nil {
		return err
	}
	if !native.IsTruthy(collection) {
		return nil
	}

	from := 0
	if node.Offset != nil {
		if from, err = s.evalInteger(node, node.Offset); err != nil {
			return err
		}
	}
	to := -1
	if node.Limit != nil {
		limit, err := s.evalInteger(node, node.Limit)
		if err != nil {
			return err
		}
		to = segmentEnd(from, limit)
	}

	segment, err := s.sliceCollection(node, collection, from, to)
	if err != nil {
		return err
	}
	cols := len(segment)
	if node.Cols != nil {
		if cols, err = s.evalInteger(node, node.Cols); err != nil {
			return err
		}
	}

	if err := s.write("<tr class=\"row1\">\n"); err != nil {
		return err
	}

	if err := s.push(node); err != nil {
		return err
	}
	defer s.pop()

	loop := newTablerowloop(len(segment), cols)
	scope := s.top()
	scope["tablerowloop"] = loop

	for i, item := range segment {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		scope[node.Variable] = item
		if err := s.write("<td class=\"col" + strconv.Itoa(loop.col) + "\">"); err != nil {
			return err
		}
		if err := s.render(node.Body); err != nil {
			return err
		}
		if err := s.write("</td>"); err != nil {
			return err
		}
		if s.interrupted() && s.popInterrupt() == breakInterrupt {
			break
		}
		if loop.col == loop.cols && i < len(segment)-1 {
			if err := s.write("</tr>\n<tr class=\"row" + strconv.Itoa(loop.row+1) + "\">"); err != nil {
				return err
			}
		}
		loop.increment()
	}

	return s.write("</tr>")
}

// evalInteger evaluates an attribute of a tablerow tag as an integer. Nil
// is zero and strings are converted by their leading integer.
func (s *state) evalInteger(node ast.Node, expr ast.Expression) (int, error) {
	v, err := s.eval(expr)
	if err != nil {
		return 0, err
	}
	n, err := native.ToRangeBound(v)
	if err != nil {
		return 0, s.newError(node, err)
	}
	return n, nil
}
