// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// Property returns the value of the property key of v, converted with
// ToLiquid, or nil if v has no such property.
//
// An integer key indexes an array, a negative index counts from the end. A
// string key reads a map entry, a drop property, a struct field or the result
// of a method without arguments. If command is true and v has no property
// with that name, the names size, first and last are the size and the first
// and last elements of arrays, maps, ranges and strings (only size).
//
// The returned error is the error of a failed method call.
func Property(v interface{}, key interface{}, command bool) (interface{}, error) {
	v = ToLiquid(v)
	switch KindOf(v) {
	case KindArray:
		if KindOf(key) == KindInt {
			elems := ArrayValues(v)
			i := IntValue(key)
			if i < 0 {
				i += len(elems)
			}
			if i < 0 || i >= len(elems) {
				return nil, nil
			}
			return ToLiquid(elems[i]), nil
		}
		if command && KindOf(key) == KindString {
			return ToLiquid(arrayCommand(v, StringValue(key))), nil
		}
	case KindMap:
		if KindOf(key) != KindString {
			return nil, nil
		}
		name := StringValue(key)
		if e, ok := MapGet(v, name); ok {
			return ToLiquid(e), nil
		}
		if command {
			switch name {
			case "size":
				return Len(v), nil
			case "first":
				keys, get := MapEntries(v)
				if len(keys) == 0 {
					return nil, nil
				}
				return []interface{}{keys[0], ToLiquid(get(keys[0]))}, nil
			}
		}
	case KindString:
		if command && KindOf(key) == KindString && StringValue(key) == "size" {
			return Len(v), nil
		}
	case KindRange:
		if command && KindOf(key) == KindString {
			r := v.(Range)
			switch StringValue(key) {
			case "size":
				return r.Len(), nil
			case "first":
				return r.Start, nil
			case "last":
				return r.End, nil
			}
		}
	case KindDrop:
		if KindOf(key) != KindString && KindOf(key) != KindInt {
			return nil, nil
		}
		name := ToOutput(key)
		if d, ok := v.(Drop); ok {
			p := ToLiquid(d.Get(name))
			if p == nil && command {
				if it, ok := v.(Iterable); ok {
					return ToLiquid(arrayCommand(it.Iterate(), name)), nil
				}
			}
			return p, nil
		}
		p, err := structProperty(reflect.ValueOf(v), name)
		if err != nil {
			return nil, err
		}
		return ToLiquid(p), nil
	}
	return nil, nil
}

// arrayCommand returns the result of the size, first and last commands
// applied to the array v.
func arrayCommand(v interface{}, name string) interface{} {
	switch name {
	case "size":
		return Len(v)
	case "first":
		elems := ArrayValues(v)
		if len(elems) == 0 {
			return nil
		}
		return elems[0]
	case "last":
		elems := ArrayValues(v)
		if len(elems) == 0 {
			return nil
		}
		return elems[len(elems)-1]
	}
	return nil
}

// structProperty returns the value of the field or the method named name of
// the struct, or pointer to struct, v.
func structProperty(v reflect.Value, name string) (interface{}, error) {
	if m := methodByName(v, name); m.IsValid() {
		return callMethod(m)
	}
	st := reflect.Indirect(v)
	if st.Kind() != reflect.Struct {
		return nil, nil
	}
	fields := getStructFields(st.Type())
	if i, ok := fields.indexOf[name]; ok {
		f := st.FieldByIndex(i)
		if f.Kind() == reflect.Ptr && f.IsNil() {
			return nil, nil
		}
		return f.Interface(), nil
	}
	return nil, nil
}

// methodByName returns the exported method of v with no parameters whose
// name, in snake case, is name.
func methodByName(v reflect.Value, name string) reflect.Value {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return reflect.Value{}
	}
	goName := camelCase(name)
	m := v.MethodByName(goName)
	if !m.IsValid() && v.Kind() != reflect.Ptr && v.CanAddr() {
		m = v.Addr().MethodByName(goName)
	}
	if !m.IsValid() {
		return reflect.Value{}
	}
	t := m.Type()
	if t.NumIn() != 0 {
		return reflect.Value{}
	}
	switch t.NumOut() {
	case 1:
		return m
	case 2:
		if t.Out(1) == errorType {
			return m
		}
	}
	return reflect.Value{}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// callMethod calls m and returns its first result.
func callMethod(m reflect.Value) (interface{}, error) {
	out := m.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	r := out[0]
	if (r.Kind() == reflect.Ptr || r.Kind() == reflect.Interface) && r.IsNil() {
		return nil, nil
	}
	return r.Interface(), nil
}

// structFields represents the fields of a struct.
type structFields struct {
	names   []string
	indexOf map[string][]int
}

// structs maintains the association between the property names of a struct,
// as they are called in a template, and the field index in the struct.
var structs = struct {
	fields map[reflect.Type]structFields
	sync.RWMutex
}{map[reflect.Type]structFields{}, sync.RWMutex{}}

// getStructFields returns the fields of the struct type typ.
//
// A field is named by its "liquid" tag or, without a tag, by its name in
// snake case. A field tagged "-" is not accessible.
func getStructFields(typ reflect.Type) structFields {
	structs.RLock()
	fields, ok := structs.fields[typ]
	structs.RUnlock()
	if ok {
		return fields
	}
	structs.Lock()
	defer structs.Unlock()
	if fields, ok = structs.fields[typ]; ok {
		return fields
	}
	fields = structFields{indexOf: map[string][]int{}}
	for _, field := range reflect.VisibleFields(typ) {
		if field.PkgPath != "" || field.Anonymous {
			continue
		}
		name := snakeCase(field.Name)
		if tag, ok := field.Tag.Lookup("liquid"); ok {
			if tag == "-" {
				continue
			}
			name = parseFieldTag(tag)
			if name == "" {
				panic(fmt.Errorf("liquid: invalid tag of field %q", field.Name))
			}
		}
		if _, ok := fields.indexOf[name]; ok {
			continue
		}
		fields.names = append(fields.names, name)
		fields.indexOf[name] = field.Index
	}
	structs.fields[typ] = fields
	return fields
}

// parseFieldTag parses the tag of a field of a struct and returns the name.
func parseFieldTag(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return ""
	}
	for _, r := range name {
		if r != '_' && r != '-' && r != '?' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ""
		}
	}
	return name
}

// snakeCase returns name in snake case. For example "CreatedAt" becomes
// "created_at" and "URL" becomes "url".
func snakeCase(name string) string {
	rs := []rune(name)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// camelCase returns the exported Go name of the snake case name. For example
// "created_at" becomes "CreatedAt".
func camelCase(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
