// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liquidgo/liquid/native"
)

var errDivisionByZero = native.Errorf("divided by 0")

// decimalString matches the strings converted to a decimal number instead
// of an integer.
var decimalString = regexp.MustCompile(`^-?\d+\.\d+$`)

// number is the operand of a math filter. Integers are computed as integers,
// any other number as a decimal. The result of an operation with a decimal
// operand is a float.
type number struct {
	isInt bool
	i     int
	d     decimal.Decimal
}

// toNumber converts v to a number. A float is converted to a decimal with
// the same text, a string with a decimal point to a decimal and any other
// string by its leading integer. Other values are zero.
func toNumber(v interface{}) number {
	v = native.ToLiquid(v)
	switch native.KindOf(v) {
	case native.KindInt:
		return number{isInt: true, i: native.IntValue(v)}
	case native.KindFloat:
		f := native.FloatValue(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return number{isInt: true}
		}
		return number{d: decimal.NewFromFloat(f)}
	case native.KindString:
		s := strings.TrimSpace(native.StringValue(v))
		if decimalString.MatchString(s) {
			if d, err := decimal.NewFromString(s); err == nil {
				return number{d: d}
			}
		}
		return number{isInt: true, i: native.LeadingInt(s)}
	}
	return number{isInt: true}
}

func (n number) decimal() decimal.Decimal {
	if n.isInt {
		return decimal.NewFromInt(int64(n.i))
	}
	return n.d
}

// value returns the template value of n, an int or a float64.
func (n number) value() interface{} {
	if n.isInt {
		return n.i
	}
	return n.d.InexactFloat64()
}

func (n number) isZero() bool {
	if n.isInt {
		return n.i == 0
	}
	return n.d.IsZero()
}

// add returns n + m. As in sub and mul, an integer operation that overflows
// is computed with decimals.
func (n number) add(m number) number {
	if n.isInt && m.isInt {
		r := n.i + m.i
		if (m.i > 0) == (r > n.i) {
			return number{isInt: true, i: r}
		}
	}
	return number{d: n.decimal().Add(m.decimal())}
}

func (n number) sub(m number) number {
	if n.isInt && m.isInt {
		r := n.i - m.i
		if (m.i > 0) == (r < n.i) {
			return number{isInt: true, i: r}
		}
	}
	return number{d: n.decimal().Sub(m.decimal())}
}

func (n number) mul(m number) number {
	if n.isInt && m.isInt {
		r := n.i * m.i
		if n.i == 0 || r/n.i == m.i && !(n.i == -1 && m.i == math.MinInt) {
			return number{isInt: true, i: r}
		}
	}
	return number{d: n.decimal().Mul(m.decimal())}
}

// div divides n by m. The division of integers is rounded toward negative
// infinity.
func (n number) div(m number) (number, error) {
	if m.isZero() {
		return number{}, errDivisionByZero
	}
	if n.isInt && m.isInt && !(n.i == math.MinInt && m.i == -1) {
		q := n.i / m.i
		if (n.i%m.i != 0) && ((n.i < 0) != (m.i < 0)) {
			q--
		}
		return number{isInt: true, i: q}, nil
	}
	return number{d: n.decimal().Div(m.decimal())}, nil
}

// mod returns the remainder of the division of n by m. The remainder has
// the sign of m.
func (n number) mod(m number) (number, error) {
	if m.isZero() {
		return number{}, errDivisionByZero
	}
	if n.isInt && m.isInt {
		r := n.i % m.i
		if r != 0 && (r < 0) != (m.i < 0) {
			r += m.i
		}
		return number{isInt: true, i: r}, nil
	}
	d := m.decimal()
	r := n.decimal().Mod(d)
	if !r.IsZero() && r.IsNegative() != d.IsNegative() {
		r = r.Add(d)
	}
	return number{d: r}, nil
}

func (n number) cmp(m number) int {
	if n.isInt && m.isInt {
		switch {
		case n.i < m.i:
			return -1
		case n.i > m.i:
			return 1
		}
		return 0
	}
	return n.decimal().Cmp(m.decimal())
}

// Abs returns the absolute value of the input.
func Abs(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	n := toNumber(input)
	if n.isInt && n.i != math.MinInt {
		if n.i < 0 {
			n.i = -n.i
		}
		return n.i, nil
	}
	return n.decimal().Abs().InexactFloat64(), nil
}

// Plus adds a number to the input.
func Plus(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return toNumber(input).add(toNumber(args[0])).value(), nil
}

// Minus subtracts a number from the input.
func Minus(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return toNumber(input).sub(toNumber(args[0])).value(), nil
}

// Times multiplies the input by a number.
func Times(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	return toNumber(input).mul(toNumber(args[0])).value(), nil
}

// DividedBy divides the input by a number. If both are integers, the result
// is an integer rounded down.
func DividedBy(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	n, err := toNumber(input).div(toNumber(args[0]))
	if err != nil {
		return nil, err
	}
	return n.value(), nil
}

// Modulo returns the remainder of the division of the input by a number.
func Modulo(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	n, err := toNumber(input).mod(toNumber(args[0]))
	if err != nil {
		return nil, err
	}
	return n.value(), nil
}

// maxRoundPlaces is the maximum number of decimal places, positive or
// negative, of the round filter.
const maxRoundPlaces = 20

// Round rounds the input to the given number of decimal places, 0 by
// default, rounding half away from zero. The result is an integer if the
// number of places is not positive. The places are clamped to
// [-maxRoundPlaces, maxRoundPlaces].
func Round(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	places := 0
	if len(args) > 0 {
		p := toNumber(args[0])
		if p.isInt {
			places = p.i
		} else {
			places = int(p.d.IntPart())
		}
		if places > maxRoundPlaces {
			places = maxRoundPlaces
		} else if places < -maxRoundPlaces {
			places = -maxRoundPlaces
		}
	}
	n := toNumber(input)
	if n.isInt && places >= 0 {
		return n.i, nil
	}
	d := n.decimal().Round(int32(places))
	if n.isInt || places < 1 {
		return int(d.IntPart()), nil
	}
	return d.InexactFloat64(), nil
}

// Ceil rounds the input up to an integer.
func Ceil(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	n := toNumber(input)
	if n.isInt {
		return n.i, nil
	}
	return int(n.d.Ceil().IntPart()), nil
}

// Floor rounds the input down to an integer.
func Floor(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	n := toNumber(input)
	if n.isInt {
		return n.i, nil
	}
	return int(n.d.Floor().IntPart()), nil
}

// AtLeast returns the greater between the input and a number.
func AtLeast(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	n, m := toNumber(input), toNumber(args[0])
	if m.cmp(n) > 0 {
		n = m
	}
	return n.value(), nil
}

// AtMost returns the lesser between the input and a number.
func AtMost(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	n, m := toNumber(input), toNumber(args[0])
	if m.cmp(n) < 0 {
		n = m
	}
	return n.value(), nil
}
