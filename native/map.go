// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

// OrderedMap is a map with string keys that preserves the insertion order of
// its keys. Maps decoded from data files are ordered maps, so that iterating
// them follows the order of the source.
//
// The zero value is an empty map ready to use.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

// NewOrderedMap returns a new ordered map with the given key/value pairs.
// It panics if the number of arguments is odd or a key is not a string.
func NewOrderedMap(pairs ...interface{}) *OrderedMap {
	if len(pairs)%2 != 0 {
		panic("native: odd number of arguments to NewOrderedMap")
	}
	m := &OrderedMap{}
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1])
	}
	return m
}

// Set sets the value of key. A new key is appended after the existing keys.
func (m *OrderedMap) Set(key string, value interface{}) {
	if m.values == nil {
		m.values = map[string]interface{}{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value of key and reports whether the key is present.
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete deletes key.
func (m *OrderedMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice must not be
// modified.
func (m *OrderedMap) Keys() []string {
	return m.keys
}
