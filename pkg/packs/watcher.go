package packs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a pack directory and triggers debounced reloads. The
// debounce collapses editor save storms into a single reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	dir      string
	debounce *debouncer

	mu      sync.Mutex
	running bool
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for dir. A non-positive interval uses
// 100ms.
func NewWatcher(dir string, interval time.Duration) (*Watcher, error) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   slog.Default().With("component", "packs.watcher"),
		dir:      dir,
		debounce: newDebouncer(interval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or
// Stop is called, invoking onReload after each quiet period.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.dir, err)
	}

	w.logger.Info("pack watcher started", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pack watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("pack watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("pack file event", "path", event.Name, "op", event.Op.String())

			w.debounce.trigger(func() {
				if err := onReload(); err != nil {
					w.logger.Error("pack reload failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("pack watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases its resources. If Watch is still
// running it is signalled and waited for; if it already returned, for
// example because its context was cancelled, the underlying fsnotify
// watcher and the debounce timer are still torn down. Stop is
// idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}

// debouncer collapses rapid events into one callback after a quiet
// period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
		}
		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
}

func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
