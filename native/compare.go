// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotOrdered is returned by Compare when one of the operands has no
// ordering. In a condition such a comparison is false.
var ErrNotOrdered = errors.New("values are not ordered")

// Equal reports whether a and b are equal. Integers and floats are compared
// by their numeric value, arrays and maps element by element.
func Equal(a, b interface{}) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka == KindInt && kb == KindInt {
		return IntValue(a) == IntValue(b)
	}
	if isNumber(ka) && isNumber(kb) {
		return toFloat(a, ka) == toFloat(b, kb)
	}
	if ka != kb {
		return false
	}
	switch ka {
	case KindNil:
		return true
	case KindBool:
		return BoolValue(a) == BoolValue(b)
	case KindString:
		return StringValue(a) == StringValue(b)
	case KindArray:
		ea, eb := ArrayValues(a), ArrayValues(b)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true
	case KindMap:
		keys, get := MapEntries(a)
		if len(keys) != Len(b) {
			return false
		}
		for _, key := range keys {
			e, ok := MapGet(b, key)
			if !ok || !Equal(get(key), e) {
				return false
			}
		}
		return true
	case KindRange:
		return a.(Range) == b.(Range)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Compare compares a and b and returns -1, 0 or +1. Numbers are compared with
// numbers and strings with strings, byte by byte. A number compared with a
// string is an error. If an operand is of any other kind, Compare returns
// ErrNotOrdered.
func Compare(a, b interface{}) (int, error) {
	ka, kb := KindOf(a), KindOf(b)
	switch {
	case ka == KindInt && kb == KindInt:
		x, y := IntValue(a), IntValue(b)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case isNumber(ka) && isNumber(kb):
		x, y := toFloat(a, ka), toFloat(b, kb)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		case x == y:
			return 0, nil
		}
		return 0, fmt.Errorf("comparison of %s with %s failed", TypeName(a), TypeName(b))
	case ka == KindString && kb == KindString:
		return strings.Compare(StringValue(a), StringValue(b)), nil
	case isNumber(ka) && kb == KindString, ka == KindString && isNumber(kb):
		return 0, fmt.Errorf("comparison of %s with %s failed", TypeName(a), TypeName(b))
	}
	return 0, ErrNotOrdered
}

// Contains reports whether a contains b. If a is a string, b is converted to
// a string and searched as a substring. If a is an array, b is searched among
// its elements. If a is a map, b is searched among its keys. Nothing contains
// nil or false.
func Contains(a, b interface{}) bool {
	if !IsTruthy(b) {
		return false
	}
	switch KindOf(a) {
	case KindString:
		return strings.Contains(StringValue(a), ToOutput(b))
	case KindRange:
		if k := KindOf(b); isNumber(k) {
			r := a.(Range)
			f := toFloat(b, k)
			return float64(r.Start) <= f && f <= float64(r.End)
		}
	case KindArray:
		for _, e := range ArrayValues(a) {
			if Equal(ToLiquid(e), b) {
				return true
			}
		}
	case KindMap:
		if KindOf(b) == KindString {
			_, ok := MapGet(a, StringValue(b))
			return ok
		}
	case KindDrop:
		if it, ok := a.(Iterable); ok {
			for _, e := range it.Iterate() {
				if Equal(ToLiquid(e), b) {
					return true
				}
			}
		}
	}
	return false
}

func isNumber(k Kind) bool {
	return k == KindInt || k == KindFloat
}

func toFloat(v interface{}, k Kind) float64 {
	if k == KindInt {
		return float64(IntValue(v))
	}
	return FloatValue(v)
}
