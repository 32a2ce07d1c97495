// Package watch reruns a prune when library or application sources change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/panbanda/jsprune/pkg/config"
	"github.com/panbanda/jsprune/pkg/parser"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// minTick bounds how often settled changes are polled.
const minTick = time.Millisecond

// Watcher monitors source paths and calls back with each settled batch
// of changed JavaScript files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	roots     []string
	callback  func(changed []string)
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher creates a watcher over roots, which may be files or
// directories.
func NewWatcher(roots []string, cfg *config.Config, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		roots:     roots,
		logger:    logger,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function to call with each batch of changes.
func (w *Watcher) SetCallback(cb func(changed []string)) {
	w.callback = cb
}

// Add registers every root with the underlying watcher. Files are watched
// through their directory.
func (w *Watcher) Add() error {
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := w.fsWatcher.Add(filepath.Dir(root)); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			for _, excluded := range w.config.Exclude.Dirs {
				if d.Name() == excluded && path != root {
					return filepath.SkipDir
				}
			}
			return w.fsWatcher.Add(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Start adds the roots and processes events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.Add(); err != nil {
		return err
	}
	w.logger.Info("watching for changes", "roots", w.roots)

	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			if changed := w.settled(time.Now()); len(changed) > 0 && w.callback != nil {
				w.callback(changed)
			}
		}
	}
}

// tickInterval is how often pending changes are checked for having settled.
func (w *Watcher) tickInterval() time.Duration {
	return max(w.debounce/5, minTick)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if !w.relevant(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) relevant(path string) bool {
	if parser.DetectLanguage(path) == parser.LangUnknown {
		return false
	}
	for _, root := range w.roots {
		if root == path {
			return true
		}
	}
	if w.config.ShouldExclude(path) {
		return false
	}
	for _, root := range w.roots {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			if rel, err := filepath.Rel(root, path); err == nil && filepath.IsLocal(rel) {
				return true
			}
		}
	}
	return false
}

// settled removes and returns the pending paths that have been quiet for
// the debounce period, sorted.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	sort.Strings(ready)
	return ready
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedPaths returns the directories being watched.
func (w *Watcher) WatchedPaths() []string {
	return w.fsWatcher.WatchList()
}
