package packs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcher_TriggersReload(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	reloaded := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watch loop time to register the directory.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "new.yaml"), []byte("facts: [\"x\"]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload was not triggered within 2s")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Watch() returned %v", err)
	}
}

func TestWatcher_StopAfterContextCancel(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error { return nil })
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Watch() returned %v", err)
	}

	// Watch already exited; Stop must still tear down the underlying
	// fsnotify watcher.
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() after cancelled Watch = %v", err)
	}
	if err := w.watcher.Add(dir); err == nil {
		t.Error("fsnotify watcher still accepts paths after Stop()")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() on idle watcher = %v", err)
	}
}

func TestShouldProcessEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "packs/a.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "packs/a.yml", Op: fsnotify.Create}, true},
		{"chmod ignored", fsnotify.Event{Name: "packs/a.yaml", Op: fsnotify.Chmod}, false},
		{"wrong extension", fsnotify.Event{Name: "packs/a.txt", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: "packs/.a.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}
