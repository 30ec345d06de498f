// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime implements the rendering of the template trees.
package runtime

import (
	"context"
	"errors"
	"io"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/internal/compiler"
	"github.com/liquidgo/liquid/native"
)

// maxDepth is the maximum nesting of scopes, summed over the nested render
// tags.
const maxDepth = 100

// Loader is implemented by the loaders of the partials of the include and
// render tags.
type Loader interface {
	// Load returns the tree of the named partial. If the partial does not
	// exist, it returns an error with message "No such template 'name'".
	Load(name string) (*ast.Tree, error)
}

// Options are the options of a rendering.
type Options struct {

	// Context, if not nil, is checked before rendering every node and every
	// loop iteration. If it is done, the rendering stops with its error.
	Context context.Context

	// Filters are the filters that can be used in the template.
	Filters native.Filters

	// LaxFilters, if true, makes an undefined filter return its input
	// instead of failing.
	LaxFilters bool

	// StaticEnvironment is looked up after the environment. It is never
	// modified and can be shared by concurrent renderings.
	StaticEnvironment map[string]interface{}

	// Scope contains the initial variables of the bottom scope. Its values
	// are replaced by the values of the environment with the same name.
	Scope map[string]interface{}

	// Registers contains the initial registers.
	Registers map[string]interface{}

	// RenderErrorsInline, if true, writes the render errors to the output
	// and continues the rendering.
	RenderErrorsInline bool

	// RenderLengthLimit, if greater than zero, is the maximum number of bytes
	// that can be rendered.
	RenderLengthLimit int

	// Partials loads the partials. If it is nil, the include and render
	// tags fail.
	Partials Loader

	// ErrorMode is the error mode the partials are parsed with. It is part
	// of the key of the partials cached during the rendering.
	ErrorMode compiler.ErrorMode
}

// interrupt is a break or a continue waiting to be handled by the innermost
// loop.
type interrupt int

const (
	breakInterrupt interrupt = iota
	continueInterrupt
)

// output is the output of a rendering. Its writer is replaced when the
// output of a block is captured.
type output struct {
	w     io.Writer
	n     int // number of written bytes
	limit int
}

// state represents the state of a rendering.
type state struct {
	ctx  context.Context
	out  *output
	path string

	// Scopes from the bottom one to the innermost one. Assignments go in
	// scopes[local].
	scopes []map[string]interface{}
	local  int

	envs   []map[string]interface{}
	static map[string]interface{}

	registers  *Registers
	interrupts []interrupt

	filters    native.Filters
	laxFilters bool
	inline     bool
	errors     *Errors
	partials   Loader
	mode       compiler.ErrorMode

	// includeDisabled reports whether the state renders, directly or not, a
	// partial of a render tag.
	includeDisabled bool

	// depth is the nesting of the render tags.
	depth int
}

// Render renders tree to out with the environment env. The environment is
// not modified.
//
// If the rendering fails, Render returns the error. If errors are rendered
// inline, the returned error is an Errors value with all the rendered
// errors, or a fatal error as the context error or a write error.
func Render(out io.Writer, tree *ast.Tree, env map[string]interface{}, options *Options) error {

	if out == nil {
		return errors.New("liquid/internal/runtime: out is nil")
	}
	if tree == nil {
		return errors.New("liquid/internal/runtime: tree is nil")
	}
	if options == nil {
		options = &Options{}
	}

	s := &state{
		ctx:        options.Context,
		out:        &output{w: out, limit: options.RenderLengthLimit},
		path:       tree.Path,
		static:     options.StaticEnvironment,
		registers:  NewRegisters(options.Registers),
		filters:    options.Filters,
		laxFilters: options.LaxFilters,
		inline:     options.RenderErrorsInline,
		errors:     &Errors{},
		partials:   options.Partials,
		mode:       options.ErrorMode,
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if _, ok := s.registers.Get(partialsRegister); !ok {
		s.registers.Set(partialsRegister, map[string]*ast.Tree{})
	}

	// The environment is copied because the increment and decrement tags
	// store their counters in it.
	e := make(map[string]interface{}, len(env))
	for k, v := range env {
		e[k] = v
	}
	s.envs = []map[string]interface{}{e}

	bottom := make(map[string]interface{}, len(options.Scope))
	for k, v := range options.Scope {
		bottom[k] = v
	}
	s.scopes = []map[string]interface{}{bottom}
	s.squash()

	err := s.render(tree.Nodes)
	if err != nil {
		return err
	}
	if len(*s.errors) > 0 {
		return *s.errors
	}
	return nil
}

// squash replaces the values of the bottom scope with the values of the
// environments with the same name.
func (s *state) squash() {
	bottom := s.scopes[0]
	for name := range bottom {
		for _, env := range s.envs {
			if v, ok := env[name]; ok {
				bottom[name] = evaluateLazy(env, name, v)
				break
			}
		}
	}
}

// push pushes a new scope. node is the node that pushes it.
func (s *state) push(node ast.Node) error {
	if s.depth+len(s.scopes)+1 > maxDepth {
		e := &StackLevelError{Path: s.path}
		if pos := node.Pos(); pos != nil {
			e.Pos = *pos
		}
		return e
	}
	s.scopes = append(s.scopes, map[string]interface{}{})
	return nil
}

// pop pops the innermost scope.
func (s *state) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// top returns the innermost scope.
func (s *state) top() map[string]interface{} {
	return s.scopes[len(s.scopes)-1]
}

// assign assigns v to the variable name in the scope of the rendered
// template. The scopes of the for and tablerow loops are skipped.
func (s *state) assign(name string, v interface{}) {
	s.scopes[s.local][name] = v
}

// findVariable returns the value of the variable name. It looks up the
// scopes, from the innermost one, then the environments and the static
// environment. It returns nil if the variable does not exist.
func (s *state) findVariable(name string) interface{} {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i][name]; ok {
			return native.ToLiquid(evaluateLazy(s.scopes[i], name, v))
		}
	}
	for _, env := range s.envs {
		if v, ok := env[name]; ok {
			if v = evaluateLazy(env, name, v); v != nil {
				return native.ToLiquid(v)
			}
		}
	}
	if v, ok := s.static[name]; ok {
		if f, ok := v.(func() interface{}); ok {
			v = f()
		}
		return native.ToLiquid(v)
	}
	return nil
}

// evaluateLazy returns the value v of the variable name of vars. If v is a
// func() interface{} it calls it and replaces the variable with its result.
func evaluateLazy(vars map[string]interface{}, name string, v interface{}) interface{} {
	if f, ok := v.(func() interface{}); ok {
		v = f()
		vars[name] = v
	}
	return v
}

// pushInterrupt pushes an interrupt.
func (s *state) pushInterrupt(i interrupt) {
	s.interrupts = append(s.interrupts, i)
}

// popInterrupt pops the last interrupt.
func (s *state) popInterrupt() interrupt {
	i := s.interrupts[len(s.interrupts)-1]
	s.interrupts = s.interrupts[:len(s.interrupts)-1]
	return i
}

// interrupted reports whether there is an interrupt waiting.
func (s *state) interrupted() bool {
	return len(s.interrupts) > 0
}

// isolated returns a new state to render the partial of a render tag. The
// new state shares the output, the filters, the static environment and the
// errors with s, but has its own scopes, environment, interrupts and
// registers. The registers read through to the registers of s.
func (s *state) isolated(node ast.Node, path string) (*state, error) {
	if s.depth+1+1 > maxDepth {
		e := &StackLevelError{Path: s.path}
		if pos := node.Pos(); pos != nil {
			e.Pos = *pos
		}
		return nil, e
	}
	c := *s
	c.path = path
	c.scopes = []map[string]interface{}{{}}
	c.local = 0
	c.envs = []map[string]interface{}{{}}
	c.interrupts = nil
	c.registers = s.registers.Child()
	c.includeDisabled = true
	c.depth = s.depth + 1
	return &c, nil
}
