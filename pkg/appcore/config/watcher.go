package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/randalmurphal/appcore/pkg/appcore/observability"
)

// defaultDebounce is how long the watcher waits for more writes before reloading.
const defaultDebounce = 100 * time.Millisecond

// ErrWatcherStarted is returned by Start when the watcher is already running.
var ErrWatcherStarted = errors.New("config watcher already started")

// Watcher reloads a config file when it changes and applies the new values
// to a target Store. Only properties that already exist in the target are
// updated.
type Watcher struct {
	path     string
	target   *Store
	debounce time.Duration
	logger   *slog.Logger
	onReload func(updated int, err error)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	started bool
	done    chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay.
// Default: 100ms
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
// Default: slog.Default()
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOnReload sets a callback invoked after every reload attempt.
func WithOnReload(fn func(updated int, err error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for path that applies reloads to target.
func NewWatcher(path string, target *Store, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		target:   target,
		debounce: defaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The directory holding the file is watched so that
// editors that replace the file on save are handled. Watching stops when
// ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrWatcherStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.fsw = fsw
	w.started = true
	w.done = make(chan struct{})

	go w.processEvents(ctx, fsw, w.done)

	w.logger.Debug("config watcher started", slog.String("path", w.path))
	return nil
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw, done := w.fsw, w.done
	w.fsw = nil
	w.started = false
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-done
	return err
}

// Reload reads the file and applies it to the target once.
func (w *Watcher) Reload() (int, error) {
	loaded, err := FromFile(w.path)
	if err != nil {
		observability.LogConfigReload(w.logger, w.path, 0, err)
		return 0, err
	}
	updated := w.target.Apply(loaded)
	observability.LogConfigReload(w.logger, w.path, updated, nil)
	return updated, nil
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			updated, err := w.Reload()
			if w.onReload != nil {
				w.onReload(updated, err)
			}
		}
	}
}
