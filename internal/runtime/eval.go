// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/native"
)

// eval evaluates an expression by returning its value.
func (s *state) eval(expr ast.Expression) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
			} else {
				panic(r)
			}
		}
	}()
	return s.evalExpression(expr), nil
}

// evalCondition evaluates a condition and reports whether it is true.
func (s *state) evalCondition(expr ast.Expression) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
			} else {
				panic(r)
			}
		}
	}()
	return native.IsTruthy(liquidValue(s.evalExpression(expr))), nil
}

// evalExpression evaluates an expression and returns its value.
// In the event of an error, calls panic with the error as parameter.
func (s *state) evalExpression(expr ast.Expression) interface{} {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value
	case *ast.MethodLiteral:
		return e.Method
	case *ast.Range:
		return s.evalRange(e)
	case *ast.Lookup:
		return s.evalLookup(e)
	case *ast.Filtered:
		return s.evalFiltered(e)
	case *ast.Comparison:
		return s.evalComparison(e)
	case *ast.Logical:
		return s.evalLogical(e)
	default:
		panic(s.errorf(expr, "unexpected node type %T", expr))
	}
}

// evalRange evaluates a range expression.
func (s *state) evalRange(node *ast.Range) native.Range {
	start, err := native.ToRangeBound(s.evalExpression(node.Start))
	if err != nil {
		panic(s.newError(node, err))
	}
	end, err := native.ToRangeBound(s.evalExpression(node.End))
	if err != nil {
		panic(s.newError(node, err))
	}
	return native.Range{Start: start, End: end}
}

// evalLookup evaluates a variable lookup. The lookup of a missing variable
// or property is nil.
func (s *state) evalLookup(node *ast.Lookup) interface{} {
	var v interface{}
	if node.Dynamic != nil {
		name := s.evalExpression(node.Dynamic)
		if native.KindOf(name) != native.KindString {
			return nil
		}
		v = s.findVariable(native.StringValue(name))
	} else {
		v = s.findVariable(node.Name)
	}
	for _, k := range node.Keys {
		if v == nil {
			return nil
		}
		var key interface{} = k.Name
		if k.Index != nil {
			key = liquidValue(s.evalExpression(k.Index))
		}
		var err error
		v, err = native.Property(v, key, k.IsCommand())
		if err != nil {
			panic(s.newError(node, err))
		}
	}
	return v
}

// evalFiltered evaluates an expression and applies its filters.
func (s *state) evalFiltered(node *ast.Filtered) interface{} {
	v := s.evalExpression(node.Expr)
	for _, f := range node.Filters {
		filter, ok := s.filters[f.Name]
		if !ok {
			if s.laxFilters {
				continue
			}
			e := s.errorf(f, "undefined filter %s", f.Name)
			e.Suggestion = s.suggestFilter(f.Name)
			e.undefinedFilter = true
			panic(e)
		}
		var args []interface{}
		if len(f.Args) > 0 {
			args = make([]interface{}, len(f.Args))
			for i, arg := range f.Args {
				args[i] = s.evalExpression(arg)
			}
		}
		var kwargs map[string]interface{}
		if len(f.Kwargs) > 0 {
			kwargs = make(map[string]interface{}, len(f.Kwargs))
			for _, kw := range f.Kwargs {
				kwargs[kw.Name] = s.evalExpression(kw.Value)
			}
		}
		var err error
		v, err = filter(v, args, kwargs)
		if err != nil {
			panic(s.newError(f, err))
		}
	}
	return v
}

// suggestFilter returns the name of the filter closest to name.
func (s *state) suggestFilter(name string) string {
	names := make([]string, 0, len(s.filters))
	for n := range s.filters {
		names = append(names, n)
	}
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// evalComparison evaluates a comparison.
func (s *state) evalComparison(node *ast.Comparison) bool {
	left := liquidValue(s.evalExpression(node.Left))
	right := liquidValue(s.evalExpression(node.Right))
	switch node.Op {
	case ast.OperatorEqual:
		return equal(left, right)
	case ast.OperatorNotEqual:
		return !equal(left, right)
	case ast.OperatorContains:
		return native.Contains(left, right)
	}
	c, err := native.Compare(left, right)
	if err != nil {
		if errors.Is(err, native.ErrNotOrdered) {
			return false
		}
		panic(s.newError(node, err))
	}
	switch node.Op {
	case ast.OperatorLess:
		return c < 0
	case ast.OperatorLessEqual:
		return c <= 0
	case ast.OperatorGreater:
		return c > 0
	case ast.OperatorGreaterEqual:
		return c >= 0
	}
	panic(fmt.Sprintf("unexpected operator %s", node.Op))
}

// evalLogical evaluates an and or an or of two conditions. The right
// condition is evaluated only if needed.
func (s *state) evalLogical(node *ast.Logical) interface{} {
	left := s.evalExpression(node.Left)
	truthy := native.IsTruthy(liquidValue(left))
	if node.Op == ast.OperatorOr && truthy || node.Op == ast.OperatorAnd && !truthy {
		return left
	}
	return s.evalExpression(node.Right)
}

// equal reports whether a and b are equal in a condition. Compared with
// the empty and blank literals, a value is equal if it is empty or blank.
func equal(a, b interface{}) bool {
	if m, ok := a.(native.MethodLiteral); ok {
		a, b = b, m
	}
	if m, ok := b.(native.MethodLiteral); ok {
		if _, ok := a.(native.MethodLiteral); ok {
			return false
		}
		if m == native.Blank {
			return native.IsBlank(a)
		}
		return native.IsEmpty(a)
	}
	return native.Equal(a, b)
}

// liquidValue returns the value a drop is compared as, or v itself.
func liquidValue(v interface{}) interface{} {
	if c, ok := v.(native.ValueConverter); ok {
		return c.LiquidValue()
	}
	return v
}
