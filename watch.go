// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WatchFileSystem is a LocalFileSystem that watches the files of the read
// templates and sends the name of a template on the Changed channel when its
// file is written, created, removed or renamed.
type WatchFileSystem struct {
	*LocalFileSystem
	watcher   *fsnotify.Watcher
	changed   chan string
	errors    chan error
	done      chan struct{}
	closeOnce sync.Once

	sync.Mutex
	watched map[string]string // template names by file path.
}

// WatchFS returns a file system that reads the templates from the directory
// root, as DirFS does, and watches the read files. The returned file system
// must be closed when it is no longer used.
func WatchFS(root, pattern string) (*WatchFileSystem, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fsys := newWatchFileSystem(DirFS(root, pattern))
	fsys.watcher = watcher
	go fsys.run(watcher.Events, watcher.Errors)
	return fsys, nil
}

func newWatchFileSystem(local *LocalFileSystem) *WatchFileSystem {
	return &WatchFileSystem{
		LocalFileSystem: local,
		changed:         make(chan string, 16),
		errors:          make(chan error, 1),
		done:            make(chan struct{}),
		watched:         map[string]string{},
	}
}

// run sends the names of the changed templates on the changed channel until
// the events channel is closed or the file system is closed. Then it closes
// the changed channel.
func (fsys *WatchFileSystem) run(events <-chan fsnotify.Event, errors <-chan error) {
	defer close(fsys.changed)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fsys.Lock()
			name, ok := fsys.watched[filepath.Clean(event.Name)]
			if ok && event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				delete(fsys.watched, filepath.Clean(event.Name))
			}
			fsys.Unlock()
			if !ok {
				continue
			}
			select {
			case fsys.changed <- name:
			case <-fsys.done:
				return
			}
		case err, ok := <-errors:
			if !ok {
				return
			}
			select {
			case fsys.errors <- err:
			default:
			}
		case <-fsys.done:
			return
		}
	}
}

// Changed returns the channel the names of the changed templates are sent
// on. It is closed when the file system is closed.
func (fsys *WatchFileSystem) Changed() <-chan string {
	return fsys.changed
}

// Errors returns the channel the errors of the watcher are sent on.
func (fsys *WatchFileSystem) Errors() <-chan error {
	return fsys.errors
}

// Close stops watching the files. The changes not yet received from the
// Changed channel are discarded.
func (fsys *WatchFileSystem) Close() error {
	fsys.closeOnce.Do(func() { close(fsys.done) })
	return fsys.watcher.Close()
}

// ReadTemplateFile implements the FileSystem interface. It starts watching
// the file of the template if it exists.
func (fsys *WatchFileSystem) ReadTemplateFile(name string) (string, error) {
	src, err := fsys.LocalFileSystem.ReadTemplateFile(name)
	if err != nil {
		return "", err
	}
	if err := fsys.watch(name); err != nil {
		return "", err
	}
	return src, nil
}

func (fsys *WatchFileSystem) watch(name string) error {
	full, err := fsys.FullPath(name)
	if err != nil {
		return err
	}
	full = filepath.Clean(full)
	fsys.Lock()
	defer fsys.Unlock()
	if _, ok := fsys.watched[full]; ok {
		return nil
	}
	if err := fsys.watcher.Add(full); err != nil {
		return err
	}
	fsys.watched[full] = name
	return nil
}

// InvalidateOnChange removes the changed templates from cache until the file
// system is closed. Changes are consumed, so Changed must not be read when
// InvalidateOnChange is used.
func (fsys *WatchFileSystem) InvalidateOnChange(cache *Cache, onChange func(name string)) {
	go func() {
		for name := range fsys.changed {
			cache.Invalidate(name)
			if onChange != nil {
				onChange(name)
			}
		}
	}()
}
