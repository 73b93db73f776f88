// Package watch reports batches of changed files under a directory tree.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits after the last change before
// it reports a batch.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Match selects the files to report, given their slash-separated path
	// relative to the root. Nil matches every file.
	Match func(rel string) bool
	// SkipDir selects directories that are not watched at all, given their
	// slash-separated path relative to the root.
	SkipDir func(rel string) bool
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Logger receives watch errors. Discarded if nil.
	Logger *slog.Logger
}

// Watcher watches a directory tree, including directories created after it
// started.
type Watcher struct {
	root    string
	opts    Options
	watcher *fsnotify.Watcher
}

// New starts watching root and every directory below it.
func New(root string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: root, opts: opts, watcher: fw}
	if err := w.addRecursive(root, nil); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls fn with the sorted relative paths of the matching files that
// changed, once no further change arrived for the debounce window. It
// returns when ctx is done, or when fn returns an error.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string) error) error {
	pending := map[string]struct{}{}
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	queue := func(path string) {
		rel, ok := w.rel(path)
		if !ok || (w.opts.Match != nil && !w.opts.Match(rel)) {
			return
		}
		pending[rel] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(w.opts.Debounce)
			timerC = timer.C
		} else {
			timer.Reset(w.opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Files may already be in place when a directory is
					// moved or checked out, and those raise no events.
					if err := w.addRecursive(event.Name, queue); err != nil {
						w.opts.Logger.Warn("cannot watch directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
					continue
				}
			}
			queue(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("file watch error", slog.Any("error", err))

		case <-timerC:
			timer, timerC = nil, nil
			changed := make([]string, 0, len(pending))
			for rel := range pending {
				changed = append(changed, rel)
			}
			clear(pending)
			slices.Sort(changed)
			if err := fn(changed); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// addRecursive watches root and the directories below it. If found is not
// nil, it is called with every file in them.
func (w *Watcher) addRecursive(root string, found func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			if found != nil {
				found(path)
			}
			return nil
		}
		if rel, ok := w.rel(path); ok && rel != "." && w.opts.SkipDir != nil && w.opts.SkipDir(rel) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
