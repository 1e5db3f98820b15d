// Package watch regenerates a document when its metadata sources change.
// Bursts of file events are coalesced into one callback.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vvka-141/definegen/pkg/define"
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for further events before
// invoking the callback.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithIgnore excludes paths from triggering, typically the output
// document when it is written inside a watched directory.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			w.ignored[clean(p)] = true
		}
	}
}

// WithLogger sets the logger for watch events.
func WithLogger(l define.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// Watcher follows a set of files and directories.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   define.Logger
	ignored  map[string]bool
	// only restricts a watched directory to named files; a nil set
	// accepts every file in the directory.
	only map[string]map[string]bool
}

// New starts watching paths. A directory is watched as a whole, a file
// through its parent directory.
func New(paths []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		debounce: define.DefaultWatchDebounce,
		ignored:  make(map[string]bool),
		only:     make(map[string]map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = nopLogger{}
	}

	for _, p := range paths {
		if err := w.add(clean(p)); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", p, err)
	}
	dir, name := p, ""
	if !info.IsDir() {
		dir, name = filepath.Dir(p), filepath.Base(p)
	}

	names, seen := w.only[dir]
	switch {
	case !seen && name != "":
		w.only[dir] = map[string]bool{name: true}
	case !seen:
		w.only[dir] = nil
	case name == "":
		w.only[dir] = nil
	case names != nil:
		names[name] = true
	}
	if seen {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.logger.Verbose("Watching %s", dir)
	return nil
}

// Run delivers changes to onChange until ctx is done. A failing callback
// is logged and watching continues. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	defer w.fs.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Verbose("Changed: %s (%s)", ev.Name, ev.Op)
			pending[clean(ev.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error: %v", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)
			if err := onChange(ctx, changed); err != nil {
				w.logger.Error("%v", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	p := clean(ev.Name)
	if w.ignored[p] || strings.HasPrefix(filepath.Base(p), ".") {
		return false
	}
	names, ok := w.only[filepath.Dir(p)]
	if !ok {
		return false
	}
	return names == nil || names[filepath.Base(p)]
}

func clean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

type nopLogger struct{}

func (nopLogger) Verbose(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Warn(string, ...interface{})    {}
func (nopLogger) Error(string, ...interface{})   {}
