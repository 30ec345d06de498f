// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/internal/compiler"
)

// ErrMemoryLimit is returned when the rendered output exceeds the render
// length limit.
var ErrMemoryLimit = errors.New("Memory limits exceeded")

// Error represents a render error.
type Error struct {
	Path       string       // path of the template, empty if parsed from source.
	Pos        ast.Position // position of the node, Line is zero if unknown.
	Err        error        // error.
	Suggestion string       // suggested filter name, if any.

	// undefinedFilter reports whether the error is an undefined filter. In
	// inline mode these errors are recorded but not written.
	undefinedFilter bool
}

// Error returns a string representation of the render error.
func (e *Error) Error() string {
	return formatError("Liquid error", e.Path, e.Pos.Line, e.Err.Error())
}

// Message returns the error message without the prefix and the position.
func (e *Error) Message() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StackLevelError is returned when the nesting of scopes, through loops,
// include and render tags, is too deep.
type StackLevelError struct {
	Path string       // path of the template.
	Pos  ast.Position // position of the node that exceeded the limit.
}

func (e *StackLevelError) Error() string {
	return formatError("Liquid error", e.Path, e.Pos.Line, "Nesting too deep")
}

// Errors is the list of the errors rendered inline.
type Errors []error

func (errs Errors) Error() string {
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// outError represents an error occurred calling the Write method of the
// template output.
type outError struct {
	err error
}

func (err outError) Error() string {
	return "out error: " + err.err.Error()
}

func (err outError) Unwrap() error {
	return err.err
}

// isFatal reports whether err stops the rendering even if errors are
// rendered inline.
func isFatal(err error) bool {
	var out outError
	return errors.As(err, &out) ||
		errors.Is(err, ErrMemoryLimit) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// formatError formats an error message as "prefix (path line N): msg".
func formatError(prefix, path string, line int, msg string) string {
	var b strings.Builder
	b.WriteString(prefix)
	if line > 0 {
		b.WriteString(" (")
		if path != "" {
			b.WriteString(path)
			b.WriteByte(' ')
		}
		b.WriteString("line ")
		b.WriteString(strconv.Itoa(line))
		b.WriteByte(')')
	}
	b.WriteString(": ")
	b.WriteString(msg)
	return b.String()
}

// errorf returns a render error at the position of node.
func (s *state) errorf(node ast.Node, format string, args ...interface{}) *Error {
	return s.newError(node, fmt.Errorf(format, args...))
}

// newError returns a render error at the position of node wrapping err.
func (s *state) newError(node ast.Node, err error) *Error {
	e := &Error{Path: s.path, Err: err}
	if pos := node.Pos(); pos != nil {
		e.Pos = *pos
	}
	return e
}

// wrapError returns err as a render error at the position of node, unless
// it is already a render, syntax or fatal error.
func (s *state) wrapError(node ast.Node, err error) error {
	var re *Error
	var se *compiler.SyntaxError
	var le *StackLevelError
	switch {
	case errors.As(err, &re), errors.As(err, &se), errors.As(err, &le), isFatal(err):
		return err
	}
	return s.newError(node, err)
}
