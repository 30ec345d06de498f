// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package native provides the value model shared by the Liquid parser, the
// renderer and the filters, and the interfaces that host values implement to
// be used in templates.
//
// Template values are represented as interface{} values belonging to one of
// the kinds returned by KindOf. The coercion functions ToOutput, ToIterable,
// IsEmpty and IsBlank are the single place where the kinds are converted to
// text, to sequences and to emptiness tests.
package native

import (
	"fmt"
	"math"
	"strconv"
)

// Drop is implemented by host values that expose properties to templates.
//
// Get returns the value of the named property, or nil if the drop has no
// such property.
type Drop interface {
	Get(name string) interface{}
}

// Iterable is implemented by drops that can be iterated by the for and
// tablerow tags and by the array filters.
type Iterable interface {
	Iterate() []interface{}
}

// Emptier is implemented by drops that define their own emptiness.
type Emptier interface {
	IsEmpty() bool
}

// Blanker is implemented by drops that define their own blankness.
type Blanker interface {
	IsBlank() bool
}

// Liquidizer is implemented by host values that convert themselves to a
// template value when they are read from the environment or from a property.
type Liquidizer interface {
	ToLiquid() interface{}
}

// ValueConverter is implemented by drops that are compared, in conditions, as
// another value.
type ValueConverter interface {
	LiquidValue() interface{}
}

// Range is an inclusive range of integers, the value of the (start..end)
// expression. Its iteration is always ascending; a range with Start greater
// than End has no elements.
type Range struct {
	Start int
	End   int
}

// MaxRangeLength is the maximum number of elements of a range that can be
// expanded into a sequence.
const MaxRangeLength = 1 << 24

// ErrRangeTooLarge is returned expanding a range with more than
// MaxRangeLength elements.
var ErrRangeTooLarge error = &ArgumentError{Message: "range is too large"}

// Len returns the number of elements of the range. If the elements are more
// than math.MaxInt, it returns math.MaxInt.
func (r Range) Len() int {
	if r.Start > r.End {
		return 0
	}
	d := uint64(r.End) - uint64(r.Start)
	if d >= uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(d) + 1
}

// String returns the range as "start..end".
func (r Range) String() string {
	return strconv.Itoa(r.Start) + ".." + strconv.Itoa(r.End)
}

// MethodLiteral is the value of the empty and blank literals. Compared with
// ==, != and <> they test the emptiness or the blankness of the other
// operand; rendered, they are the empty string.
type MethodLiteral int

const (
	Empty MethodLiteral = iota
	Blank
)

// Get implements Drop. A method literal has no properties.
func (m MethodLiteral) Get(string) interface{} { return nil }

// String returns the empty string.
func (m MethodLiteral) String() string { return "" }

// Name returns "empty" or "blank".
func (m MethodLiteral) Name() string {
	if m == Blank {
		return "blank"
	}
	return "empty"
}

// Filter is a function that can be applied, by name, to a value in a
// filtered expression. args are the positional arguments in source order and
// kwargs the keyword arguments; kwargs is nil if there are no keyword
// arguments.
type Filter func(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error)

// Filters maps filter names to filters.
type Filters map[string]Filter

// ArgumentError is returned by filters and by the conversion functions when
// an argument has an invalid value.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// Errorf returns an *ArgumentError with the given message.
func Errorf(format string, a ...interface{}) error {
	return &ArgumentError{Message: fmt.Sprintf(format, a...)}
}
