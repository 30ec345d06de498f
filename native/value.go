// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind is the kind of a template value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
	KindRange
	KindDrop
)

var kindNames = [...]string{"nil", "bool", "int", "float", "string", "array", "map", "range", "drop"}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// KindOf returns the kind of the value v.
//
// Besides the canonical representations (nil, bool, int, float64, string,
// []interface{}, map[string]interface{}, *OrderedMap and Range), KindOf
// classifies any Go value by its underlying type: integers, floats, strings,
// slices and arrays, maps with string keys. Values implementing Drop, structs
// and pointers to structs are drops.
func KindOf(v interface{}) Kind {
	switch v := v.(type) {
	case nil:
		return KindNil
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint8, uint16:
		return KindInt
	case uint, uint32, uint64, uintptr:
		if reflect.ValueOf(v).Uint() > math.MaxInt {
			return KindFloat
		}
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []interface{}:
		return KindArray
	case map[string]interface{}:
		return KindMap
	case *OrderedMap:
		if v == nil {
			return KindNil
		}
		return KindMap
	case Range:
		return KindRange
	case Drop:
		return KindDrop
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return KindNil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return KindDrop
		}
		return KindOf(rv.Elem().Interface())
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt {
			return KindFloat
		}
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Slice:
		if rv.IsNil() {
			return KindNil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindString
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMap
		}
	}
	return KindDrop
}

// ToOutput returns the text of v as rendered by an output tag.
func ToOutput(v interface{}) string {
	switch k := KindOf(v); k {
	case KindNil:
		return ""
	case KindBool:
		if BoolValue(v) {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.Itoa(IntValue(v))
	case KindFloat:
		return FormatFloat(FloatValue(v))
	case KindString:
		return StringValue(v)
	case KindArray:
		var b strings.Builder
		for _, e := range ArrayValues(v) {
			b.WriteString(ToOutput(ToLiquid(e)))
		}
		return b.String()
	case KindMap:
		return Inspect(v)
	case KindRange:
		return v.(Range).String()
	case KindDrop:
		return dropString(v)
	default:
		panic(fmt.Sprintf("native: unexpected kind %s", k))
	}
}

// ToIterable returns the elements of v as iterated by the for and tablerow
// tags. A non-empty string is a sequence of one element, itself. A map is a
// sequence of [key, value] pairs. A range is expanded in ascending order; a
// range with more than MaxRangeLength elements has no elements, Slice
// reports it as an error.
//
// The returned slice may be shared with v and must not be modified.
func ToIterable(v interface{}) []interface{} {
	switch k := KindOf(v); k {
	case KindNil, KindBool, KindInt, KindFloat:
		return nil
	case KindString:
		if StringValue(v) == "" {
			return nil
		}
		return []interface{}{v}
	case KindArray:
		return ArrayValues(v)
	case KindMap:
		keys, get := MapEntries(v)
		pairs := make([]interface{}, len(keys))
		for i, key := range keys {
			pairs[i] = []interface{}{key, get(key)}
		}
		return pairs
	case KindRange:
		elems, _ := Slice(v, 0, -1)
		return elems
	case KindDrop:
		if it, ok := v.(Iterable); ok {
			return it.Iterate()
		}
		return nil
	default:
		panic(fmt.Sprintf("native: unexpected kind %s", k))
	}
}

// Slice returns the elements of v, as returned by ToIterable, with index in
// [from, to). A negative from is zero and a negative to has no upper bound.
//
// Only the elements of a range in [from, to) are computed. If they are more
// than MaxRangeLength, Slice returns ErrRangeTooLarge.
func Slice(v interface{}, from, to int) ([]interface{}, error) {
	if from < 0 {
		from = 0
	}
	if r, ok := v.(Range); ok {
		n := r.Len()
		if to < 0 || to > n {
			to = n
		}
		if from >= to {
			return nil, nil
		}
		if to-from > MaxRangeLength {
			return nil, ErrRangeTooLarge
		}
		elems := make([]interface{}, to-from)
		start := r.Start + from
		for i := range elems {
			elems[i] = start + i
		}
		return elems, nil
	}
	elems := ToIterable(v)
	if to < 0 || to > len(elems) {
		to = len(elems)
	}
	if from >= to {
		return nil, nil
	}
	return elems[from:to], nil
}

// IsEmpty reports whether v is empty: an empty string, an empty array or an
// empty map. Nil, booleans, numbers and ranges are never empty.
func IsEmpty(v interface{}) bool {
	switch k := KindOf(v); k {
	case KindNil, KindBool, KindInt, KindFloat, KindRange:
		return false
	case KindString:
		return StringValue(v) == ""
	case KindArray:
		return Len(v) == 0
	case KindMap:
		return Len(v) == 0
	case KindDrop:
		if e, ok := v.(Emptier); ok {
			return e.IsEmpty()
		}
		return false
	default:
		panic(fmt.Sprintf("native: unexpected kind %s", k))
	}
}

// IsBlank reports whether v is blank. Blank values are the empty ones plus
// nil, false and the strings containing only white space.
func IsBlank(v interface{}) bool {
	switch k := KindOf(v); k {
	case KindNil:
		return true
	case KindBool:
		return !BoolValue(v)
	case KindInt, KindFloat, KindRange:
		return false
	case KindString:
		return strings.TrimLeft(StringValue(v), " \t\n\v\f\r") == ""
	case KindArray, KindMap:
		return Len(v) == 0
	case KindDrop:
		if b, ok := v.(Blanker); ok {
			return b.IsBlank()
		}
		if e, ok := v.(Emptier); ok {
			return e.IsEmpty()
		}
		return false
	default:
		panic(fmt.Sprintf("native: unexpected kind %s", k))
	}
}

// IsTruthy reports whether v is true in a condition. Only nil and false are
// false.
func IsTruthy(v interface{}) bool {
	switch KindOf(v) {
	case KindNil:
		return false
	case KindBool:
		return BoolValue(v)
	}
	return true
}

// Len returns the size of v: the number of characters of a string and the
// number of elements of an array, a map, a range or an iterable drop. It
// returns 0 for the other values.
func Len(v interface{}) int {
	switch KindOf(v) {
	case KindString:
		return utf8.RuneCountInString(StringValue(v))
	case KindArray:
		if a, ok := v.([]interface{}); ok {
			return len(a)
		}
		return reflect.Indirect(reflect.ValueOf(v)).Len()
	case KindMap:
		switch m := v.(type) {
		case map[string]interface{}:
			return len(m)
		case *OrderedMap:
			return m.Len()
		}
		return reflect.Indirect(reflect.ValueOf(v)).Len()
	case KindRange:
		return v.(Range).Len()
	case KindDrop:
		if it, ok := v.(Iterable); ok {
			return len(it.Iterate())
		}
	}
	return 0
}

// ToLiquid returns the template value of v. If v implements Liquidizer, it
// returns the result of its ToLiquid method, otherwise it returns v.
func ToLiquid(v interface{}) interface{} {
	if l, ok := v.(Liquidizer); ok {
		return l.ToLiquid()
	}
	return v
}

// BoolValue returns the value of v with kind KindBool.
func BoolValue(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return reflect.Indirect(reflect.ValueOf(v)).Bool()
}

// IntValue returns the value of v with kind KindInt. An unsigned value
// greater than math.MaxInt, that has kind KindFloat, is math.MaxInt.
func IntValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt {
			return int(u)
		}
		return math.MaxInt
	}
	return int(rv.Int())
}

// FloatValue returns the value of v with kind KindFloat, unsigned integers
// greater than math.MaxInt included.
func FloatValue(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	}
	return rv.Float()
}

// StringValue returns the value of v with kind KindString.
func StringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() == reflect.Slice {
		return string(rv.Bytes())
	}
	return rv.String()
}

// ArrayValues returns the elements of v with kind KindArray.
func ArrayValues(v interface{}) []interface{} {
	if a, ok := v.([]interface{}); ok {
		return a
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	n := rv.Len()
	elems := make([]interface{}, n)
	for i := 0; i < n; i++ {
		elems[i] = rv.Index(i).Interface()
	}
	return elems
}

// MapEntries returns the keys of v with kind KindMap and a function that
// returns the value of a key. Keys of an *OrderedMap are in insertion order,
// keys of the other maps are sorted.
func MapEntries(v interface{}) ([]string, func(key string) interface{}) {
	switch m := v.(type) {
	case *OrderedMap:
		return m.Keys(), func(key string) interface{} { v, _ := m.Get(key); return v }
	case map[string]interface{}:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, func(key string) interface{} { return m[key] }
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	kt := rv.Type().Key()
	return keys, func(key string) interface{} {
		e := rv.MapIndex(reflect.ValueOf(key).Convert(kt))
		if !e.IsValid() {
			return nil
		}
		return e.Interface()
	}
}

// MapGet returns the value of key in v with kind KindMap.
func MapGet(v interface{}, key string) (interface{}, bool) {
	switch m := v.(type) {
	case *OrderedMap:
		return m.Get(key)
	case map[string]interface{}:
		e, ok := m[key]
		return e, ok
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	e := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !e.IsValid() {
		return nil, false
	}
	return e.Interface(), true
}

// FormatFloat formats f as a template renders it: integral values keep a
// ".0" suffix and very large or very small values use the exponent notation,
// for example "1.0", "0.25", "1.0e+20".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs >= 1e16 || (abs < 1e-4 && f != 0) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		return mantissa + "e" + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Inspect returns a debugging representation of v, used to render maps.
func Inspect(v interface{}) string {
	var b strings.Builder
	inspect(&b, v)
	return b.String()
}

func inspect(b *strings.Builder, v interface{}) {
	switch KindOf(v) {
	case KindNil:
		b.WriteString("nil")
	case KindString:
		b.WriteString(strconv.Quote(StringValue(v)))
	case KindArray:
		b.WriteByte('[')
		for i, e := range ArrayValues(v) {
			if i > 0 {
				b.WriteString(", ")
			}
			inspect(b, e)
		}
		b.WriteByte(']')
	case KindMap:
		keys, get := MapEntries(v)
		b.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(key))
			b.WriteString("=>")
			inspect(b, get(key))
		}
		b.WriteByte('}')
	default:
		b.WriteString(ToOutput(v))
	}
}

// TypeName returns the name of the type of v as used in error messages.
func TypeName(v interface{}) string {
	switch KindOf(v) {
	case KindNil:
		return "nil"
	case KindBool:
		if BoolValue(v) {
			return "true"
		}
		return "false"
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindMap:
		return "Hash"
	case KindRange:
		return "Range"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// rubyTimeLayout is the layout used to render time values.
const rubyTimeLayout = "2006-01-02 15:04:05 -0700"

// dropString returns the text of a drop.
func dropString(v interface{}) string {
	switch d := v.(type) {
	case fmt.Stringer:
		if t, ok := v.(time.Time); ok {
			return t.Format(rubyTimeLayout)
		}
		return d.String()
	case error:
		return d.Error()
	}
	if t, ok := v.(*time.Time); ok {
		return t.Format(rubyTimeLayout)
	}
	return TypeName(v)
}
