// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// Names of the registers used by the renderer.
const (
	cycleRegister     = "cycle"           // map[string]int, cycle indexes by group.
	forRegister       = "for"             // map[string]int, for offsets by loop key.
	forStackRegister  = "for_stack"       // []*forloopDrop, active for loops.
	ifchangedRegister = "ifchanged"       // string, last output of ifchanged.
	partialsRegister  = "cached_partials" // map[string]*ast.Tree, loaded partials.
)

// Registers holds the state of a rendering that is not visible to the
// templates, as the cycle counters and the for offsets, and the values
// passed by the host.
//
// A child returned by Child reads through to its parent but keeps its own
// writes.
type Registers struct {
	parent *Registers
	values map[string]interface{}
}

// NewRegisters returns new registers with the given initial values.
func NewRegisters(values map[string]interface{}) *Registers {
	r := &Registers{values: make(map[string]interface{}, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Get returns the value of the register key, looking up the parents if r
// does not have it.
func (r *Registers) Get(key string) (interface{}, bool) {
	for ; r != nil; r = r.parent {
		if v, ok := r.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set sets the register key of r. The parents are not changed.
func (r *Registers) Set(key string, value interface{}) {
	r.values[key] = value
}

// Delete deletes the register key of r. A value of a parent with the same
// key becomes visible again.
func (r *Registers) Delete(key string) {
	delete(r.values, key)
}

// Child returns new registers with parent r.
func (r *Registers) Child() *Registers {
	return &Registers{parent: r, values: map[string]interface{}{}}
}

// counters returns the map of counters stored in the register key, creating
// it in r if it does not exist in r itself. The maps of the parents are
// never returned, so that a child does not change them.
func (r *Registers) counters(key string) map[string]int {
	if m, ok := r.values[key].(map[string]int); ok {
		return m
	}
	m := map[string]int{}
	r.values[key] = m
	return m
}
