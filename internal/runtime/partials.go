// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"strings"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/native"
)

// loadPartial returns the tree of the partial name. The trees are cached
// for the whole rendering, render tags included.
func (s *state) loadPartial(node ast.Node, name string) (*ast.Tree, error) {
	cache, _ := s.registers.Get(partialsRegister)
	partials, _ := cache.(map[string]*ast.Tree)
	key := name + ":" + s.mode.String()
	if tree, ok := partials[key]; ok {
		return tree, nil
	}
	if s.partials == nil {
		return nil, s.errorf(node, "This liquid context does not allow includes.")
	}
	tree, err := s.partials.Load(name)
	if err != nil {
		return nil, s.wrapError(node, err)
	}
	if partials != nil {
		partials[key] = tree
	}
	return tree, nil
}

// partialAlias returns the name of the variable bound to the value passed
// to a partial.
func partialAlias(name, alias string) string {
	if alias != "" {
		return alias
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// renderInclude renders an include tag. The partial is rendered with the
// state of the including template in a new scope. The variables assigned by
// the partial are discarded with the scope.
func (s *state) renderInclude(node *ast.Include) error {

	if s.includeDisabled {
		return s.errorf(node, "include is not allowed in this context")
	}

	v, err := s.eval(node.Template)
	if err != nil {
		return err
	}
	if native.KindOf(v) != native.KindString {
		return s.errorf(node, "Argument error in tag 'include' - Illegal template name")
	}
	name := native.StringValue(v)

	tree, err := s.loadPartial(node, name)
	if err != nil {
		return err
	}

	var variable interface{}
	if node.Variable != nil {
		if variable, err = s.eval(node.Variable); err != nil {
			return err
		}
	} else {
		variable = s.findVariable(name)
	}

	if err := s.push(node); err != nil {
		return err
	}
	path, local := s.path, s.local
	s.path, s.local = name, len(s.scopes)-1
	defer func() {
		s.pop()
		s.path, s.local = path, local
	}()

	scope := s.top()
	for _, attr := range node.Attributes {
		v, err := s.eval(attr.Value)
		if err != nil {
			return err
		}
		scope[attr.Name] = v
	}

	alias := partialAlias(name, node.Alias)
	if native.KindOf(variable) == native.KindArray {
		for _, item := range native.ArrayValues(variable) {
			scope[alias] = item
			if err := s.render(tree.Nodes); err != nil {
				return err
			}
			if s.interrupted() {
				break
			}
		}
		return nil
	}
	scope[alias] = variable
	return s.render(tree.Nodes)
}

// renderRender renders a render tag. The partial is rendered in an isolated
// state that sees only the values passed by the tag.
func (s *state) renderRender(node *ast.Render) error {

	tree, err := s.loadPartial(node, node.Template)
	if err != nil {
		return err
	}

	var variable interface{}
	if node.Variable != nil {
		if variable, err = s.eval(node.Variable); err != nil {
			return err
		}
	}

	alias := partialAlias(node.Template, node.Alias)

	render := func(v interface{}, loop *forloopDrop) error {
		c, err := s.isolated(node, node.Template)
		if err != nil {
			return err
		}
		scope := c.scopes[0]
		if loop != nil {
			scope["forloop"] = loop
		}
		for _, attr := range node.Attributes {
			a, err := s.eval(attr.Value)
			if err != nil {
				return err
			}
			scope[attr.Name] = a
		}
		if v != nil {
			scope[alias] = v
		}
		return c.render(tree.Nodes)
	}

	if node.For && isCollection(variable) {
		items, err := native.Slice(variable, 0, -1)
		if err != nil {
			return s.newError(node, err)
		}
		loop := newForloop(node.Template, len(items), nil)
		for _, item := range items {
			if err := s.ctx.Err(); err != nil {
				return err
			}
			if err := render(item, loop); err != nil {
				return err
			}
			loop.increment()
		}
		return nil
	}

	return render(variable, nil)
}

// isCollection reports whether v is rendered once for each element by a
// render tag with a for clause. Strings are not collections.
func isCollection(v interface{}) bool {
	switch native.KindOf(v) {
	case native.KindArray, native.KindMap, native.KindRange:
		return true
	case native.KindDrop:
		_, ok := v.(native.Iterable)
		return ok
	}
	return false
}
