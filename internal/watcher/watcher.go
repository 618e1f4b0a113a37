// Package watcher watches a project tree for PHP source changes and fires a
// debounced callback with the changed paths, so watch mode regenerates once
// per burst of edits instead of once per write.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a burst of changes fires the
// callback.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a root directory recursively for .php changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	skipDirs []string // directory prefixes never watched (output, vendor)
	debounce time.Duration
	callback func(files []string)

	ctx    context.Context
	cancel context.CancelFunc

	paused   bool
	pausedMu sync.RWMutex

	accumulated   map[string]bool
	accumulatedMu sync.Mutex

	debounceTimer *time.Timer
	timerMu       sync.Mutex

	stopOnce sync.Once
	doneCh   chan struct{}
}

// New creates a watcher over root. Directories whose root-relative path
// starts with one of skipDirs are never watched; dot-directories are always
// skipped.
func New(root string, skipDirs []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:     fsw,
		root:        root,
		skipDirs:    skipDirs,
		debounce:    DefaultDebounce,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching. The callback receives the accumulated changed files
// once per quiet period.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}
	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.watch()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

// Pause stops firing callbacks but keeps accumulating events. Regeneration
// pauses the watcher so its own output writes never loop back as changes.
func (w *Watcher) Pause() {
	w.pausedMu.Lock()
	defer w.pausedMu.Unlock()
	w.paused = true
}

// Resume resumes callbacks, firing immediately if events accumulated while
// paused.
func (w *Watcher) Resume() {
	w.pausedMu.Lock()
	wasPaused := w.paused
	w.paused = false
	w.pausedMu.Unlock()

	if !wasPaused {
		return
	}
	w.fireAccumulated()
}

func (w *Watcher) watch() {
	defer close(w.doneCh)

	expiredCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories are added to the watch set as they appear.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			w.accumulatedMu.Lock()
			w.accumulated[event.Name] = true
			w.accumulatedMu.Unlock()

			w.resetDebounceTimer(expiredCh)

		case <-expiredCh:
			w.pausedMu.RLock()
			paused := w.paused
			w.pausedMu.RUnlock()
			if !paused {
				w.fireAccumulated()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// fireAccumulated drains the accumulated set and invokes the callback.
func (w *Watcher) fireAccumulated() {
	w.accumulatedMu.Lock()
	if len(w.accumulated) == 0 {
		w.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for file := range w.accumulated {
		files = append(files, file)
	}
	w.accumulated = make(map[string]bool)
	w.accumulatedMu.Unlock()

	if w.callback != nil {
		w.callback(files)
	}
}

func (w *Watcher) resetDebounceTimer(expiredCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		select {
		case expiredCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// shouldProcessEvent keeps write/create/remove events on .php files.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".php")
}

// skipDir reports whether a directory is outside the watch set.
func (w *Watcher) skipDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, skip := range w.skipDirs {
		skip = strings.TrimSuffix(filepath.ToSlash(skip), "/")
		if rel == skip || strings.HasPrefix(rel, skip+"/") {
			return true
		}
	}
	return false
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
