// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"errors"
	"io/fs"

	"github.com/liquidgo/liquid/ast"
	"github.com/liquidgo/liquid/internal/compiler"
)

// loader loads the partials of a template. It asks the template factory
// first, then the cache and finally reads and parses the partial from the
// file system.
type loader struct {
	fsys    FileSystem
	factory TemplateFactory
	cache   *Cache
	mode    ErrorMode
}

// Load implements the runtime.Loader interface.
func (l *loader) Load(name string) (*ast.Tree, error) {
	if l.factory != nil {
		t, err := l.factory.Template(name)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t.tree, nil
		}
	}
	if l.cache != nil {
		return l.cache.load(name, l.mode, l.parse)
	}
	return l.parse(name)
}

// parse reads the named partial from the file system and parses it.
func (l *loader) parse(name string) (*ast.Tree, error) {
	if l.fsys == nil {
		return nil, &NotExistError{Name: name}
	}
	src, err := l.fsys.ReadTemplateFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			var ne *NotExistError
			if !errors.As(err, &ne) {
				err = &NotExistError{Name: name}
			}
		}
		return nil, err
	}
	tree, _, err := compiler.ParseTemplateSource(src, name, l.mode)
	return tree, err
}
