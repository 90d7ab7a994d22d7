// Package watch re-applies rules when the file holding them changes on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Handler runs after the watched file changed.
type Handler func(ctx context.Context)

// Watcher watches a single file through its parent directory, so editors
// that replace the file by rename are seen too.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	logger   zerolog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a watcher for path calling handler on change.
func New(path string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   logging.GetLogger("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Relevant reports whether ev concerns the watched file and changes it.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run blocks until ctx is done or the watcher fails. The parent directory is
// created when missing.
func (w *Watcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "create %s", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "create file watcher")
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrStorageRead, "watch %s", dir)
	}
	w.logger.Info().Str("path", w.path).Msg("Watching rules file")

	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)
	fire := func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		w.logger.Debug().Str("path", w.path).Msg("Rules file changed")
		w.handler(ctx)
	}
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(ev) {
				continue
			}
			mu.Lock()
			if timer == nil || !timer.Stop() {
				wg.Add(1)
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}
