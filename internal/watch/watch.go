// Package watch reruns generation when source files change.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"variant-generator/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the changed files, sorted. An error is logged
// and watching continues.
type ChangeFunc func(ctx context.Context, paths []string) error

// Watcher watches a fixed set of files.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher for paths. Parent directories are watched so files
// replaced by editors keep being tracked.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		watcher:  fw,
		debounce: debounce,
	}

	dirs := map[string]bool{}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolving %s", p)
		}

		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}

		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}

		dirs[dir] = true
	}

	return w, nil
}

// Run delivers debounced changes to onChange until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.watcher.Close()

	pending := map[string]bool{}

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.files[event.Name] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			logger.Logger.Debugw("source changed", "file", event.Name, "op", event.Op.String())

			pending[event.Name] = true

			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}

			sort.Strings(paths)
			clear(pending)

			if err := onChange(ctx, paths); err != nil {
				logger.Logger.Warnw("regeneration failed", "files", paths, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.Logger.Warnw("watcher error", "error", err)
		}
	}
}
