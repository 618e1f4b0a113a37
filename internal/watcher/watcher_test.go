package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the watcher:
// - Only .php write/create/remove events pass the filter
// - Output, vendor, and dot directories are never watched
// - A burst of writes fires the callback once with all changed files
// - Stop is idempotent and safe before Start

func newTestWatcher(t *testing.T, root string, skip []string) *Watcher {
	t.Helper()
	w, err := New(root, skip)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	return w
}

func TestWatcher_SkipDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, dir := range []string{"src", "docs/api", "vendor/pkg", ".git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	w := newTestWatcher(t, root, []string{"docs/api", "vendor"})

	assert.False(t, w.skipDir(filepath.Join(root, "src")))
	assert.True(t, w.skipDir(filepath.Join(root, "docs", "api")))
	assert.True(t, w.skipDir(filepath.Join(root, "vendor", "pkg")))
	assert.True(t, w.skipDir(filepath.Join(root, ".git")))
	assert.False(t, w.skipDir(root), "the root itself is always watched")
}

func TestWatcher_DebouncedCallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newTestWatcher(t, root, nil)
	w.debounce = 50 * time.Millisecond

	fired := make(chan []string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, func(files []string) {
		select {
		case fired <- files:
		default:
		}
	}))

	// A burst of writes within the debounce window collapses to one
	// callback carrying both files.
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.php"), []byte("<?php"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.php"), []byte("<?php"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case files := <-fired:
		assert.Len(t, files, 2)
		for _, f := range files {
			assert.Equal(t, ".php", filepath.Ext(f))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestWatcher_PauseHoldsEvents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newTestWatcher(t, root, nil)
	w.debounce = 50 * time.Millisecond

	fired := make(chan []string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, func(files []string) { fired <- files }))

	w.Pause()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.php"), []byte("<?php"), 0o644))

	select {
	case <-fired:
		t.Fatal("callback fired while paused")
	case <-time.After(300 * time.Millisecond):
	}

	// Resume flushes the accumulated events immediately.
	w.Resume()
	select {
	case files := <-fired:
		require.Len(t, files, 1)
		assert.Equal(t, "a.php", filepath.Base(files[0]))
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired after resume")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
