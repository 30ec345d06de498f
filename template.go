// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/builtin"
	"github.com/liquidgo/liquid/internal/compiler"
	"github.com/liquidgo/liquid/internal/runtime"
	"github.com/liquidgo/liquid/native"
)

// BuildOptions contains the options to parse a template.
type BuildOptions struct {

	// ErrorMode is the mode the template and its partials are parsed with.
	ErrorMode ErrorMode

	// FileSystem is the file system the partials are read from. BuildTemplate
	// uses the file system of the template if FileSystem is nil.
	FileSystem FileSystem

	// TemplateFactory, if not nil, is called to resolve the name of a
	// partial before reading it from the file system.
	TemplateFactory TemplateFactory

	// Cache, if not nil, caches the parsed partials across renderings.
	Cache *Cache

	// Filters are added to the standard filters, replacing the filters with
	// the same name.
	Filters native.Filters
}

// RunOptions contains the options to render a template.
type RunOptions struct {

	// Context, if not nil, stops the rendering when it is done.
	Context context.Context

	// RenderErrorsInline, if true, writes the render errors to the output,
	// as "Liquid error (line N): message", and continues the rendering. The
	// rendered errors are returned as an Errors value.
	RenderErrorsInline bool

	// LaxFilters, if true, makes an undefined filter return its input.
	LaxFilters bool

	// StaticEnvironment is looked up after the variables passed to Run. It
	// is not modified and can be shared by concurrent renderings.
	StaticEnvironment map[string]interface{}

	// Scope contains default values for variables. They are replaced by the
	// variables passed to Run with the same name.
	Scope map[string]interface{}

	// Registers contains the initial registers. They are not visible to the
	// template but can be read by drops and filters of the host.
	Registers map[string]interface{}

	// RenderLengthLimit, if greater than zero, is the maximum length in
	// bytes of the output. If it is exceeded, Run returns ErrMemoryLimit.
	RenderLengthLimit int
}

// TemplateFactory resolves the names of the partials.
type TemplateFactory interface {
	// Template returns the named template. If it returns nil and a nil
	// error, the partial is read from the file system.
	Template(name string) (*Template, error)
}

// TemplateFactoryFunc is a function that implements TemplateFactory.
type TemplateFactoryFunc func(name string) (*Template, error)

// Template calls f(name).
func (f TemplateFactoryFunc) Template(name string) (*Template, error) {
	return f(name)
}

// Template is a parsed template.
type Template struct {
	tree     *ast.Tree
	warnings []*SyntaxError
	filters  native.Filters
	mode     ErrorMode
	partials *loader
}

// Parse parses a template source.
//
// If a syntax error occurs, it returns a *SyntaxError.
func Parse(src string, options *BuildOptions) (*Template, error) {
	return parse(src, "", nil, options)
}

// BuildTemplate reads the named template from fsys and parses it. The
// partials are read from the same file system unless options has a
// FileSystem.
//
// If the template does not exist, BuildTemplate returns an error satisfying
// errors.Is(err, fs.ErrNotExist). If a syntax error occurs, it returns a
// *SyntaxError.
func BuildTemplate(fsys FileSystem, name string, options *BuildOptions) (*Template, error) {
	if fsys == nil {
		return nil, errors.New("invalid nil file system")
	}
	src, err := fsys.ReadTemplateFile(name)
	if err != nil {
		return nil, err
	}
	return parse(src, name, fsys, options)
}

func parse(src, path string, fsys FileSystem, options *BuildOptions) (*Template, error) {
	if options == nil {
		options = &BuildOptions{}
	}
	tree, warnings, err := compiler.ParseTemplateSource(src, path, options.ErrorMode)
	if err != nil {
		return nil, err
	}
	t := &Template{
		tree:     tree,
		warnings: warnings,
		filters:  builtin.Filters(),
		mode:     options.ErrorMode,
	}
	for name, f := range options.Filters {
		t.filters[name] = f
	}
	if options.FileSystem != nil {
		fsys = options.FileSystem
	}
	if fsys != nil || options.TemplateFactory != nil {
		t.partials = &loader{
			fsys:    fsys,
			factory: options.TemplateFactory,
			cache:   options.Cache,
			mode:    options.ErrorMode,
		}
	}
	return t, nil
}

// Tree returns the parsed tree of the template. It must not be modified.
func (t *Template) Tree() *ast.Tree {
	return t.tree
}

// Warnings returns the syntax errors found parsing the template in
// ErrorModeWarn.
func (t *Template) Warnings() []*SyntaxError {
	return t.warnings
}

// Run renders the template to out. vars contains the values of the
// variables.
//
// If the rendering fails, Run returns a *RenderError, a *SyntaxError of a
// partial or a *StackLevelError. If the errors are rendered inline, it
// returns an Errors value with the rendered errors. If the context is done
// or a call to out.Write returns an error, the rendering stops and Run
// returns the error.
func (t *Template) Run(out io.Writer, vars map[string]interface{}, options *RunOptions) error {
	if out == nil {
		return errors.New("invalid nil out")
	}
	ro := runtime.Options{
		Filters:   t.filters,
		ErrorMode: t.mode,
	}
	if t.partials != nil {
		ro.Partials = t.partials
	}
	if options != nil {
		ro.Context = options.Context
		ro.RenderErrorsInline = options.RenderErrorsInline
		ro.LaxFilters = options.LaxFilters
		ro.StaticEnvironment = options.StaticEnvironment
		ro.Scope = options.Scope
		ro.Registers = options.Registers
		ro.RenderLengthLimit = options.RenderLengthLimit
	}
	return runtime.Render(out, t.tree, vars, &ro)
}

// Render renders the template and returns the output. If the errors are
// rendered inline, the output contains the errors and Render returns them.
func (t *Template) Render(vars map[string]interface{}, options *RunOptions) (string, error) {
	var b strings.Builder
	err := t.Run(&b, vars, options)
	return b.String(), err
}
