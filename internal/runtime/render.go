// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/native"
)

// write writes str to the output.
func (s *state) write(str string) error {
	if str == "" {
		return nil
	}
	o := s.out
	o.n += len(str)
	if o.limit > 0 && o.n > o.limit {
		return ErrMemoryLimit
	}
	if _, err := io.WriteString(o.w, str); err != nil {
		return outError{err}
	}
	return nil
}

// capture renders nodes and returns the rendered text instead of writing
// it to the output.
func (s *state) capture(nodes []ast.Node) (string, error) {
	var b strings.Builder
	w := s.out.w
	s.out.w = &b
	err := s.render(nodes)
	s.out.w = w
	return b.String(), err
}

// render renders nodes. It stops after a node that raises an interrupt.
func (s *state) render(nodes []ast.Node) error {

	for _, n := range nodes {

		if err := s.ctx.Err(); err != nil {
			return err
		}

		if node, ok := n.(*ast.Text); ok {
			if err := s.write(node.Text); err != nil {
				return err
			}
			continue
		}

		if err := s.renderNode(n); err != nil {
			if err = s.handleError(n, err); err != nil {
				return err
			}
		}

		if s.interrupted() {
			return nil
		}

	}

	return nil
}

// handleError handles an error raised rendering node. It returns the error
// if the rendering must stop, otherwise it records the error and writes its
// message to the output.
func (s *state) handleError(node ast.Node, err error) error {
	if isFatal(err) || !s.inline {
		return err
	}
	err = s.wrapError(node, err)
	*s.errors = append(*s.errors, err)
	var e *Error
	if errors.As(err, &e) && e.undefinedFilter {
		return nil
	}
	if isBlank(node) {
		return nil
	}
	return s.write(err.Error())
}

// renderNode renders a node that is not a text.
func (s *state) renderNode(n ast.Node) error {

	switch node := n.(type) {

	case *ast.Output:
		v, err := s.eval(node.Expr)
		if err != nil {
			return err
		}
		return s.write(native.ToOutput(native.ToLiquid(v)))

	case *ast.Assign:
		v, err := s.eval(node.Value)
		if err != nil {
			return err
		}
		s.assign(node.Name, v)

	case *ast.Capture:
		text, err := s.capture(node.Body)
		if err != nil {
			return err
		}
		s.assign(node.Name, text)

	case *ast.Increment:
		return s.renderIncrement(node)

	case *ast.If:
		for i, b := range node.Branches {
			if b.Cond != nil {
				ok, err := s.evalCondition(b.Cond)
				if err != nil {
					return err
				}
				if i == 0 && node.Unless {
					ok = !ok
				}
				if !ok {
					continue
				}
			}
			return s.render(b.Body)
		}

	case *ast.Case:
		return s.renderCase(node)

	case *ast.For:
		return s.renderFor(node)

	case *ast.Tablerow:
		return s.renderTablerow(node)

	case *ast.Cycle:
		return s.renderCycle(node)

	case *ast.Break:
		s.pushInterrupt(breakInterrupt)

	case *ast.Continue:
		s.pushInterrupt(continueInterrupt)

	case *ast.Ifchanged:
		text, err := s.capture(node.Body)
		if err != nil {
			return err
		}
		if last, _ := s.registers.values[ifchangedRegister].(string); text != last {
			s.registers.Set(ifchangedRegister, text)
			return s.write(text)
		}

	case *ast.Include:
		return s.renderInclude(node)

	case *ast.Render:
		return s.renderRender(node)

	default:
		return s.errorf(n, "unexpected node type %T", n)

	}

	return nil
}

// renderIncrement renders an increment or a decrement tag. The counters
// live in the environment of the rendering and are independent from the
// variables with the same name.
func (s *state) renderIncrement(node *ast.Increment) error {
	env := s.envs[0]
	n := 0
	if v, ok := env[node.Name]; ok && v != nil {
		var err error
		n, err = native.ToInteger(v)
		if err != nil {
			return s.newError(node, err)
		}
	}
	if node.Decrement {
		n--
		env[node.Name] = n
		return s.write(strconv.Itoa(n))
	}
	env[node.Name] = n + 1
	return s.write(strconv.Itoa(n))
}

// renderCase renders a case tag. The body of every matching when clause
// is rendered.
func (s *state) renderCase(node *ast.Case) error {
	v, err := s.eval(node.Expr)
	if err != nil {
		return err
	}
	v = liquidValue(v)
	matched := false
	for _, c := range node.Clauses {
		if c.Else {
			if !matched {
				if err = s.render(c.Body); err != nil {
					return err
				}
			}
		} else {
			for _, expr := range c.Values {
				w, err := s.eval(expr)
				if err != nil {
					return err
				}
				if !equal(v, liquidValue(w)) {
					continue
				}
				matched = true
				if err = s.render(c.Body); err != nil {
					return err
				}
				if s.interrupted() {
					return nil
				}
			}
		}
		if s.interrupted() {
			return nil
		}
	}
	return nil
}

// renderCycle renders a cycle tag.
func (s *state) renderCycle(node *ast.Cycle) error {
	key := node.Group
	if node.Name != nil {
		name, err := s.eval(node.Name)
		if err != nil {
			return err
		}
		key = "n:" + native.TypeName(name) + ":" + native.ToOutput(name)
	}
	counters := s.registers.counters(cycleRegister)
	i := counters[key]
	if i >= len(node.Values) {
		i = 0
	}
	v, err := s.eval(node.Values[i])
	if err != nil {
		return err
	}
	counters[key] = (i + 1) % len(node.Values)
	return s.write(native.ToOutput(native.ToLiquid(v)))
}

// isBlank reports whether node renders nothing but white space. The errors
// of the blank nodes are not written to the output.
func isBlank(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Text:
		return strings.Trim(n.Text, " \t\n\v\f\r") == ""
	case *ast.Assign, *ast.Capture:
		return true
	case *ast.If:
		for _, b := range n.Branches {
			if !isBlankBody(b.Body) {
				return false
			}
		}
		return true
	case *ast.Case:
		for _, c := range n.Clauses {
			if !isBlankBody(c.Body) {
				return false
			}
		}
		return true
	case *ast.For:
		return isBlankBody(n.Body) && isBlankBody(n.Else)
	case *ast.Tablerow:
		return isBlankBody(n.Body)
	case *ast.Ifchanged:
		return isBlankBody(n.Body)
	}
	return false
}

func isBlankBody(nodes []ast.Node) bool {
	for _, n := range nodes {
		if !isBlank(n) {
			return false
		}
	}
	return true
}
