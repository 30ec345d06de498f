// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/tools/txtar"
)

// FileSystem is implemented by the file systems the templates and the
// partials are read from.
type FileSystem interface {
	// ReadTemplateFile returns the source of the named template. If the
	// template does not exist, it returns an error satisfying
	// errors.Is(err, fs.ErrNotExist).
	ReadTemplateFile(name string) (string, error)
}

// NotExistError is the error returned when a template does not exist.
type NotExistError struct {
	Name string
}

func (err *NotExistError) Error() string {
	return "No such template '" + err.Name + "'"
}

// Is reports whether target is fs.ErrNotExist.
func (err *NotExistError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// MapFS is a file system that reads the templates from a map from template
// names to sources.
type MapFS map[string]string

// ReadTemplateFile implements the FileSystem interface.
func (fsys MapFS) ReadTemplateFile(name string) (string, error) {
	src, ok := fsys[name]
	if !ok {
		return "", &NotExistError{Name: name}
	}
	return src, nil
}

// TxtarFS returns a MapFS with the files of a txtar archive. The extension
// ".liquid" is removed from the file names, so the file "product.liquid" is
// the template "product".
func TxtarFS(data []byte) MapFS {
	archive := txtar.Parse(data)
	fsys := make(MapFS, len(archive.Files))
	for _, file := range archive.Files {
		fsys[strings.TrimSuffix(file.Name, ".liquid")] = string(file.Data)
	}
	return fsys
}

// validTemplateName matches the names accepted by a LocalFileSystem.
var validTemplateName = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_\-/]*$`)

// LocalFileSystem is a file system that reads the templates from a directory
// of the operating system. The file of a template is the base name of the
// template formatted with a pattern, in the directory of the template. For
// example, with the pattern "_%s.liquid", the template "products/item" is
// read from the file "products/_item.liquid".
type LocalFileSystem struct {
	root    string
	pattern string
}

// DirFS returns a file system that reads the templates from the directory
// root. If pattern is empty, it is "%s.liquid".
func DirFS(root, pattern string) *LocalFileSystem {
	if pattern == "" {
		pattern = "%s.liquid"
	}
	return &LocalFileSystem{root: root, pattern: pattern}
}

// FullPath returns the path of the file of the named template. It returns
// an error if the name is not a valid template name.
func (fsys *LocalFileSystem) FullPath(name string) (string, error) {
	if !validTemplateName.MatchString(name) || !fs.ValidPath(name) {
		return "", fmt.Errorf("Illegal template name '%s'", name)
	}
	dir, base := path.Split(name)
	return filepath.Join(fsys.root, filepath.FromSlash(dir), fmt.Sprintf(fsys.pattern, base)), nil
}

// ReadTemplateFile implements the FileSystem interface.
func (fsys *LocalFileSystem) ReadTemplateFile(name string) (string, error) {
	full, err := fsys.FullPath(name)
	if err != nil {
		return "", err
	}
	src, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotExistError{Name: name}
		}
		return "", err
	}
	return string(src), nil
}
