// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package liquid implements the Liquid template language.
//
// A template is parsed with Parse, or read from a file system with
// BuildTemplate, and then rendered with its Run or Render method:
//
//	t, err := liquid.Parse("Hello {{ name | upcase }}!", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	s, err := t.Render(map[string]interface{}{"name": "world"}, nil)
//
// The include and render tags read the partials from the FileSystem of the
// template. The package provides the file systems MapFS, DirFS, WatchFS and
// TxtarFS.
//
// A template can be rendered concurrently by many goroutines.
package liquid

import (
	"github.com/liquidgo/liquid/internal/compiler"
	"github.com/liquidgo/liquid/internal/runtime"
)

// ErrorMode controls how the syntax errors of the markup are handled.
type ErrorMode = compiler.ErrorMode

const (
	// ErrorModeStrict fails on every syntax error. It is the default mode.
	ErrorModeStrict = compiler.ErrorModeStrict

	// ErrorModeLax ignores trailing tokens, invalid filters and unexpected
	// characters in the markup.
	ErrorModeLax = compiler.ErrorModeLax

	// ErrorModeWarn parses the markup in strict mode and, on error, records
	// a warning and parses the markup again in lax mode.
	ErrorModeWarn = compiler.ErrorModeWarn
)

// SyntaxError is the error returned when a template, or a partial, has a
// syntax error.
type SyntaxError = compiler.SyntaxError

// RenderError is an error occurred rendering a template.
type RenderError = runtime.Error

// StackLevelError is the error returned when the nesting of loops and
// partials is too deep.
type StackLevelError = runtime.StackLevelError

// Errors is the list of errors returned by a rendering with the errors
// rendered inline.
type Errors = runtime.Errors

// ErrMemoryLimit is returned when the rendered output exceeds the render
// length limit.
var ErrMemoryLimit = runtime.ErrMemoryLimit
