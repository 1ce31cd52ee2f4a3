// Package watch reloads a component graph file whenever it changes on disk.
//
// The directory holding the file is watched rather than the file itself, so
// editors that save by writing a temp file and renaming it over the original
// keep working. Bursts of events are coalesced: a reload happens once the
// file has been quiet for the debounce period, or at the latest after the
// maximum wait.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
)

// Defaults for [Options].
const (
	DefaultQuiet   = 150 * time.Millisecond
	DefaultMaxWait = 2 * time.Second
)

// Options configures a Watcher.
type Options struct {
	Quiet   time.Duration // reload after this long without events
	MaxWait time.Duration // reload at the latest this long after the first event
	Logger  *log.Logger
}

// Watcher follows one graph file.
type Watcher struct {
	path string
	opts Options
	fsw  *fsnotify.Watcher
}

// New starts watching the directory of path. The file itself need not
// exist yet.
func New(path string, opts Options) (*Watcher, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if _, err := graph.FormatFromPath(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	// Events name the directory as it was added, so match against the real
	// one. A missing directory is reported by fsw.Add below.
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	if opts.Quiet <= 0 {
		opts.Quiet = DefaultQuiet
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = DefaultMaxWait
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(abs))
	}
	return &Watcher{path: abs, opts: opts, fsw: fsw}, nil
}

// Path returns the absolute path being watched, with the symlinks of its
// directory resolved.
func (w *Watcher) Path() string { return w.path }

// Run reads the file once, then again after every burst of changes, and
// passes each graph that reads cleanly to onLoad. A file that fails to
// read is logged and skipped; the previous graph stays current. Run blocks
// until ctx is done and returns ctx.Err(). The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, onLoad func(component.Graph)) error {
	defer w.fsw.Close()

	w.reload(onLoad)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var first time.Time // start of the pending burst, zero when idle

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			now := time.Now()
			if first.IsZero() {
				first = now
			}
			delay := min(w.opts.Quiet, max(w.opts.MaxWait-now.Sub(first), 0))
			timer.Reset(delay)

		case <-timer.C:
			first = time.Time{}
			w.reload(onLoad)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload(onLoad func(component.Graph)) {
	g, err := graph.ReadFile(w.path)
	if err != nil {
		w.opts.Logger.Warn("keeping previous graph", "path", w.path, "error", err)
		return
	}
	w.opts.Logger.Debug("reloaded graph", "path", w.path, "components", g.Len())
	onLoad(g)
}

// Close stops watching without waiting for Run.
func (w *Watcher) Close() error { return w.fsw.Close() }
