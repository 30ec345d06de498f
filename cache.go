// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"sync"

	"github.com/liquidgo/liquid/ast"
)

// Cache caches the parsed partials across renderings. It can be shared by
// many templates and used by concurrent goroutines. The zero value is an
// empty cache.
//
// A partial is parsed once even if it is requested concurrently.
type Cache struct {
	trees map[cacheEntry]*ast.Tree
	waits map[cacheEntry]*sync.WaitGroup
	sync.Mutex
}

// cacheEntry is a cache entry. The same partial parsed with different error
// modes has different trees.
type cacheEntry struct {
	name string
	mode ErrorMode
}

// NewCache returns a new empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Invalidate removes the named partials from the cache. Without names, it
// removes all the partials.
func (c *Cache) Invalidate(names ...string) {
	c.Lock()
	if len(names) == 0 {
		c.trees = nil
	}
	for _, name := range names {
		for entry := range c.trees {
			if entry.name == name {
				delete(c.trees, entry)
			}
		}
	}
	c.Unlock()
}

// Len returns the number of cached trees.
func (c *Cache) Len() int {
	c.Lock()
	n := len(c.trees)
	c.Unlock()
	return n
}

// load returns the tree of the named partial, calling parse if it is not in
// the cache. Parse errors are not cached.
func (c *Cache) load(name string, mode ErrorMode, parse func(name string) (*ast.Tree, error)) (*ast.Tree, error) {
	entry := cacheEntry{name, mode}
	c.Lock()
	if tree, ok := c.trees[entry]; ok {
		c.Unlock()
		return tree, nil
	}
	if wait, ok := c.waits[entry]; ok {
		c.Unlock()
		wait.Wait()
		return c.load(name, mode, parse)
	}
	wait := &sync.WaitGroup{}
	wait.Add(1)
	if c.waits == nil {
		c.waits = map[cacheEntry]*sync.WaitGroup{}
	}
	c.waits[entry] = wait
	c.Unlock()

	tree, err := parse(name)

	c.Lock()
	if err == nil {
		if c.trees == nil {
			c.trees = map[cacheEntry]*ast.Tree{}
		}
		c.trees[entry] = tree
	}
	delete(c.waits, entry)
	wait.Done()
	c.Unlock()

	return tree, err
}
