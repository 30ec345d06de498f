// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatchFS(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "p.liquid")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	fsys, err := WatchFS(dir, "")
	if err != nil {
		t.Skipf("cannot watch files: %s", err)
	}
	defer fsys.Close()

	cache := NewCache()
	changed := make(chan string, 1)
	fsys.InvalidateOnChange(cache, func(name string) {
		select {
		case changed <- name:
		default:
		}
	})

	template, err := Parse(`{% include 'p' %}`, &BuildOptions{FileSystem: fsys, Cache: cache})
	require.NoError(t, err)
	out, err := template.Render(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "a", out)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, os.WriteFile(file, []byte("b"), 0o644))
	select {
	case name := <-changed:
		require.Equal(t, "p", name)
	case err := <-fsys.Errors():
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notified")
	}

	out, err = template.Render(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "b", out)
}

func TestWatchFSIllegalName(t *testing.T) {
	fsys, err := WatchFS(t.TempDir(), "")
	if err != nil {
		t.Skipf("cannot watch files: %s", err)
	}
	defer fsys.Close()
	_, err = fsys.ReadTemplateFile("../x")
	require.EqualError(t, err, "Illegal template name '../x'")
}

func TestWatchFSCloseWithUnreadChanges(t *testing.T) {
	fsys := newWatchFileSystem(DirFS(t.TempDir(), ""))
	file := filepath.Join(fsys.root, "p.liquid")
	fsys.watched[file] = "p"

	events := make(chan fsnotify.Event)
	stopped := make(chan struct{})
	go func() {
		fsys.run(events, nil)
		close(stopped)
	}()

	// One more change than the buffer of the channel.
	for i := 0; i <= cap(fsys.changed); i++ {
		events <- fsnotify.Event{Name: file, Op: fsnotify.Write}
	}
	fsys.closeOnce.Do(func() { close(fsys.done) })

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher goroutine did not stop")
	}
	n := 0
	for name := range fsys.changed {
		require.Equal(t, "p", name)
		n++
	}
	require.Equal(t, cap(fsys.changed), n)
}
