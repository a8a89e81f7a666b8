// Package watch re-runs a callback when files under the frontend source tree change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// skipDirs are never watched, wherever they appear in the tree.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".vite":        true,
}

// skipFiles are base-name patterns of files the package manager and the
// bundler rewrite during a build.
var skipFiles = []string{
	"package-lock.json",
	"npm-shrinkwrap.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"*.timestamp-*",
}

// Watcher watches a directory tree recursively.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	fw       *fsnotify.Watcher
	logger   *slog.Logger
}

// New starts watching root and every subdirectory except node_modules-like
// dirs and the given ignore paths, which are relative to root.
func New(root string, ignore []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{root: root, debounce: debounce, fw: fw, logger: logger}
	for _, p := range ignore {
		w.ignore = append(w.ignore, filepath.ToSlash(filepath.Clean(p)))
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is done, calling onChange once per burst of changes.
// Calls never overlap. Events raised while onChange runs, and until the tree
// is quiet again for the debounce interval, are discarded so a build that
// writes into the watched tree does not trigger itself.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("watch: change", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)
			fire = timer.C
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: error", "error", err)
		case <-fire:
			fire = nil
			onChange(ctx)
			if !w.settle(ctx) {
				return nil
			}
		}
	}
}

// settle drops events until none has arrived for the debounce interval.
// It returns false when ctx is done or the watcher was closed.
func (w *Watcher) settle(ctx context.Context) bool {
	quiet := time.NewTimer(w.debounce)
	defer quiet.Stop()
	dropped := 0
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-w.fw.Events:
			if !ok {
				return false
			}
			if w.relevant(ev) {
				dropped++
				quiet.Reset(w.debounce)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return false
			}
			w.logger.Warn("watch: error", "error", err)
		case <-quiet.C:
			if dropped > 0 {
				w.logger.Debug("watch: dropped events raised by the run", "events", dropped)
			}
			return true
		}
	}
}

// relevant reports whether ev is a content change under a watched path. New
// directories are added to the watch list as a side effect.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || w.ignored(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("watch: add new directory", "dir", ev.Name, "error", err)
			}
		}
	}
	return true
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("watching %q: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if skipDirs[part] {
			return true
		}
	}
	for _, p := range w.ignore {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	base := filepath.Base(path)
	for _, pattern := range skipFiles {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
