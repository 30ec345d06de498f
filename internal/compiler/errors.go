// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/liquidgo/liquid/ast"
)

// SyntaxError records a syntax error found parsing a template.
type SyntaxError struct {
	Path       string       // path of the template, empty if parsed from source.
	Pos        ast.Position // position of the error, Line is zero if unknown.
	Err        error        // error.
	Context    string       // markup context, for example `in "{{ a | }}"`.
	Suggestion string       // suggested tag or filter name, if any.

	// markup reports whether the error was raised by the markup parser. Only
	// these errors get a Context.
	markup bool
}

// Error returns a string representation of the syntax error.
func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("Liquid syntax error")
	if e.Pos.Line > 0 {
		b.WriteString(" (")
		if e.Path != "" {
			b.WriteString(e.Path)
			b.WriteByte(' ')
		}
		b.WriteString("line ")
		b.WriteString(strconv.Itoa(e.Pos.Line))
		b.WriteByte(')')
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Context != "" {
		b.WriteByte(' ')
		b.WriteString(e.Context)
	}
	return b.String()
}

// Message returns the error message without the prefix and the position.
func (e *SyntaxError) Message() string {
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// syntaxError returns a new syntax error at the given position.
func syntaxError(pos *ast.Position, format string, a ...interface{}) *SyntaxError {
	e := &SyntaxError{Err: fmt.Errorf(format, a...)}
	if pos != nil {
		e.Pos = *pos
	}
	return e
}

// syntaxErrorf returns a new syntax error raised parsing a markup. Its
// position is set when the error reaches the template parser.
func syntaxErrorf(format string, a ...interface{}) *SyntaxError {
	return &SyntaxError{Err: fmt.Errorf(format, a...), markup: true}
}

// catchSyntaxError calls f and returns the syntax error it panics with, if
// any. Other panics are propagated.
func catchSyntaxError(f func()) (err *SyntaxError) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	f()
	return nil
}

// IsSyntaxError reports whether err is, or wraps, a syntax error.
func IsSyntaxError(err error) bool {
	var e *SyntaxError
	return errors.As(err, &e)
}

// suggest returns the name among names closest to name, or the empty string
// if there is no name close enough.
func suggest(name string, names []string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		// Look for a name contained in name, as "iff" for "if".
		for _, n := range names {
			if fuzzy.MatchFold(n, name) {
				ranks = append(ranks, fuzzy.Rank{Source: n, Target: n, Distance: len(name) - len(n)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
