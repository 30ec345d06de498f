// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/liquidgo/liquid/native"
)

var errIncompatibleSort = native.Errorf("cannot sort values of incompatible types")

// elements returns the elements of the input of an array filter. Nested
// arrays are flattened, a map is an array with only the map and any other
// non nil value is an array with only the value itself.
func elements(v interface{}) ([]interface{}, error) {
	v = native.ToLiquid(v)
	switch native.KindOf(v) {
	case native.KindNil:
		return nil, nil
	case native.KindArray:
		return flatten(nil, native.ArrayValues(v)), nil
	case native.KindRange:
		return native.Slice(v, 0, -1)
	case native.KindDrop:
		if it, ok := v.(native.Iterable); ok {
			return it.Iterate(), nil
		}
	}
	return []interface{}{v}, nil
}

func flatten(dst, elems []interface{}) []interface{} {
	for _, e := range elems {
		e = native.ToLiquid(e)
		if native.KindOf(e) == native.KindArray {
			dst = flatten(dst, native.ArrayValues(e))
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

// property returns the property name of an element of an array. Only maps
// and drops have properties.
func property(item interface{}, name string) (interface{}, error) {
	switch native.KindOf(item) {
	case native.KindMap, native.KindDrop:
		return native.Property(item, name, false)
	case native.KindInt, native.KindFloat, native.KindBool:
		return nil, native.Errorf("cannot select the property '%s'", name)
	}
	return nil, nil
}

// Join joins the elements of the input with a separator, a space by default.
func Join(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	sep := " "
	if len(args) > 0 {
		sep = toString(args[0])
	}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = toString(e)
	}
	return strings.Join(parts, sep), nil
}

// First returns the first element of an array or the first character of a
// string.
func First(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	input = native.ToLiquid(input)
	if native.KindOf(input) == native.KindString {
		r, size := utf8.DecodeRuneInString(native.StringValue(input))
		if size == 0 {
			return "", nil
		}
		return string(r), nil
	}
	return native.Property(input, "first", true)
}

// Last returns the last element of an array or the last character of a
// string.
func Last(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	input = native.ToLiquid(input)
	switch native.KindOf(input) {
	case native.KindString:
		r, size := utf8.DecodeLastRuneInString(native.StringValue(input))
		if size == 0 {
			return "", nil
		}
		return string(r), nil
	case native.KindMap:
		keys, get := native.MapEntries(input)
		if len(keys) == 0 {
			return nil, nil
		}
		key := keys[len(keys)-1]
		return []interface{}{key, native.ToLiquid(get(key))}, nil
	}
	return native.Property(input, "last", true)
}

// Concat returns the elements of the input followed by the elements of an
// array.
func Concat(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	other := native.ToLiquid(args[0])
	if native.KindOf(other) != native.KindArray {
		return nil, native.Errorf("concat filter requires an array argument")
	}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, 0, len(elems)+native.Len(other))
	result = append(result, elems...)
	return append(result, native.ArrayValues(other)...), nil
}

// Map returns the values of a property of the elements of the input.
func Map(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	name := toString(args[0])
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, len(elems))
	for i, e := range elems {
		if name == "to_liquid" {
			values[i] = e
			continue
		}
		v, err := property(e, name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Where returns the elements of the input whose property has a given value.
// Without a value, it returns the elements whose property is truthy.
func Where(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	return filterElements(input, toString(args[0]), arg(args, 1), true)
}

// Reject returns the elements of the input whose property does not have a
// given value. Without a value, it returns the elements whose property is
// not truthy.
func Reject(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	return filterElements(input, toString(args[0]), arg(args, 1), false)
}

func filterElements(input interface{}, name string, target interface{}, keep bool) (interface{}, error) {
	target = native.ToLiquid(target)
	result := []interface{}{}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		v, err := property(e, name)
		if err != nil {
			return nil, err
		}
		var match bool
		if target == nil {
			match = native.IsTruthy(v)
		} else {
			match = native.Equal(v, target)
		}
		if match == keep {
			result = append(result, e)
		}
	}
	return result, nil
}

// Sort sorts the elements of the input, or the elements by one of their
// properties. Nil values are sorted last.
func Sort(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	return sortElements(input, arg(args, 0), func(a, b interface{}) (int, error) {
		c, err := native.Compare(a, b)
		if err != nil {
			return 0, errIncompatibleSort
		}
		return c, nil
	})
}

// SortNatural sorts the elements of the input, or the elements by one of
// their properties, comparing them as strings regardless of the case.
func SortNatural(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	return sortElements(input, arg(args, 0), func(a, b interface{}) (int, error) {
		return strings.Compare(strings.ToLower(toString(a)), strings.ToLower(toString(b))), nil
	})
}

// sortElements sorts the elements of input with compare. If name is not nil
// the elements are compared by their property name.
func sortElements(input, name interface{}, compare func(a, b interface{}) (int, error)) (interface{}, error) {
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	keys := elems
	if name != nil {
		keys = make([]interface{}, len(elems))
		for i, e := range elems {
			v, err := property(e, toString(name))
			if err != nil {
				return nil, err
			}
			keys[i] = v
		}
	}
	index := make([]int, len(elems))
	for i := range index {
		index[i] = i
	}
	sort.SliceStable(index, func(i, j int) bool {
		a, b := keys[index[i]], keys[index[j]]
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		c, e := compare(a, b)
		if e != nil && err == nil {
			err = e
		}
		return c < 0
	})
	if err != nil {
		return nil, err
	}
	sorted := make([]interface{}, len(elems))
	for i, k := range index {
		sorted[i] = elems[k]
	}
	return sorted, nil
}

// Uniq removes the duplicate elements of the input, or the elements with a
// duplicate property.
func Uniq(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	var seen []interface{}
	result := []interface{}{}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		key := e
		if name := arg(args, 0); name != nil {
			if key, err = property(e, toString(name)); err != nil {
				return nil, err
			}
		}
		duplicate := false
		for _, s := range seen {
			if native.Equal(s, key) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seen = append(seen, key)
			result = append(result, e)
		}
	}
	return result, nil
}

// Reverse reverses the order of the elements of the input.
func Reverse(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	reversed := make([]interface{}, len(elems))
	for i, e := range elems {
		reversed[len(elems)-1-i] = e
	}
	return reversed, nil
}

// Compact removes the nil elements of the input, or the elements with a nil
// property.
func Compact(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	result := []interface{}{}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		v := e
		if name := arg(args, 0); name != nil {
			if v, err = property(e, toString(name)); err != nil {
				return nil, err
			}
		}
		if v != nil {
			result = append(result, e)
		}
	}
	return result, nil
}

// Sum returns the sum of the elements of the input, or of a property of the
// elements. Strings are converted to numbers and other values count as zero.
func Sum(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	total := number{isInt: true}
	elems, err := elements(input)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		v := e
		if name := arg(args, 0); name != nil {
			switch native.KindOf(e) {
			case native.KindMap, native.KindDrop:
				if v, err = native.Property(e, toString(name), false); err != nil {
					return nil, err
				}
			default:
				v = 0
			}
		}
		total = total.add(toNumber(v))
	}
	return total.value(), nil
}

// Default returns a default value, by default the empty string, if the input
// is nil, false or empty. With the allow_false keyword argument set to true,
// false is not replaced.
func Default(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 1, 3); err != nil {
		return nil, err
	}
	var def interface{} = ""
	if len(args) > 0 {
		def = args[0]
	}
	for name := range kwargs {
		if name != "allow_false" {
			return nil, native.Errorf("unknown keyword: %s", name)
		}
	}
	v := native.ToLiquid(input)
	missing := !native.IsTruthy(v)
	if native.IsTruthy(kwargs["allow_false"]) {
		missing = v == nil
	}
	if missing || native.IsEmpty(v) {
		return def, nil
	}
	return input, nil
}
