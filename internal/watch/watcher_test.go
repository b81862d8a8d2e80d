package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startTestWatcher creates and starts a watcher over dir, delivering settled
// batches to the returned channel. The watcher is stopped on test cleanup.
func startTestWatcher(t *testing.T, dir string, opts ...Option) (*Watcher, chan []string) {
	t.Helper()

	batches := make(chan []string, 8)
	callback := func(_ context.Context, paths []string) {
		batches <- paths
	}

	opts = append([]Option{WithDebounce(50 * time.Millisecond)}, opts...)
	w, err := New([]string{dir}, callback, opts...)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	t.Cleanup(w.Stop)

	return w, batches
}

// waitForBatch waits for a settled batch or fails the test.
func waitForBatch(t *testing.T, batches chan []string) []string {
	t.Helper()

	select {
	case paths := <-batches:
		return paths
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
		return nil
	}
}

// TestNew tests watcher construction.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires at least one directory", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil, nil)
		if !errors.Is(err, ErrNoDirectories) {
			t.Errorf("expected ErrNoDirectories, got %v", err)
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		w, err := New([]string{t.TempDir()}, nil,
			WithExtensions([]string{".py"}),
			WithDebounce(time.Second),
		)
		if err != nil {
			t.Fatalf("failed to create watcher: %v", err)
		}
		defer func() {
			_ = w.fsWatcher.Close() //nolint:errcheck
		}()

		if len(w.extensions) != 1 || w.extensions[0] != ".py" {
			t.Errorf("expected [.py] extensions, got %v", w.extensions)
		}
		if w.debounce != time.Second {
			t.Errorf("expected 1s debounce, got %v", w.debounce)
		}
	})
}

// TestWatcherDeliversSettledChanges tests the debounced delivery path.
func TestWatcherDeliversSettledChanges(t *testing.T) {
	dir := t.TempDir()
	_, batches := startTestWatcher(t, dir)

	target := filepath.Join(dir, "calc.py")
	if err := os.WriteFile(target, []byte("def add(a, b):\n    return a + b\n"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	paths := waitForBatch(t, batches)
	found := false
	for _, p := range paths {
		if p == target {
			found = true
		}
	}
	if !found {
		t.Errorf("expected batch to contain %s, got %v", target, paths)
	}
}

// TestWatcherIgnoresOtherExtensions tests extension filtering.
func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	_, batches := startTestWatcher(t, dir, WithExtensions([]string{".py"}))

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case paths := <-batches:
		t.Errorf("expected no batch for .txt change, got %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

// TestWatcherCollapsesRapidWrites tests that bursts of events on one file
// settle into a single delivery.
func TestWatcherCollapsesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	_, batches := startTestWatcher(t, dir, WithDebounce(150*time.Millisecond))

	target := filepath.Join(dir, "calc.py")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("x = 1\n"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	paths := waitForBatch(t, batches)
	if len(paths) != 1 {
		t.Errorf("expected single settled path, got %v", paths)
	}

	select {
	case paths := <-batches:
		t.Errorf("expected no second batch, got %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

// TestWatcherLifecycle tests Start/Stop state transitions.
func TestWatcherLifecycle(t *testing.T) {
	t.Parallel()

	w, err := New([]string{t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if w.IsWatching() {
		t.Error("expected watcher not running before Start")
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	if !w.IsWatching() {
		t.Error("expected watcher running after Start")
	}

	// Second Start is a no-op.
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error on second Start: %v", err)
	}

	w.Stop()
	if w.IsWatching() {
		t.Error("expected watcher stopped after Stop")
	}

	// Second Stop must not panic or block.
	w.Stop()
}

// TestWatcherRegistersSubdirectories tests recursive registration.
func TestWatcherRegistersSubdirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "pkg", "util")
	if err := os.MkdirAll(nested, 0750); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "__pycache__"), 0750); err != nil {
		t.Fatalf("failed to create cache dir: %v", err)
	}

	w, err := New([]string{dir}, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	watched := make(map[string]bool)
	for _, d := range w.WatchedDirs() {
		watched[d] = true
	}

	if !watched[nested] {
		t.Errorf("expected %s registered, got %v", nested, w.WatchedDirs())
	}
	if watched[filepath.Join(dir, "__pycache__")] {
		t.Error("expected __pycache__ to be skipped")
	}
}

// TestWatcherStats tests event accounting.
func TestWatcherStats(t *testing.T) {
	dir := t.TempDir()
	w, batches := startTestWatcher(t, dir)

	target := filepath.Join(dir, "calc.py")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	waitForBatch(t, batches)

	stats := w.Stats()
	if stats.FilesCreated == 0 && stats.FilesModified == 0 {
		t.Errorf("expected create or modify counted, got %+v", stats)
	}
	if stats.Batches == 0 {
		t.Errorf("expected at least one batch counted, got %+v", stats)
	}
	if stats.LastEventPath != target {
		t.Errorf("expected last event path %s, got %s", target, stats.LastEventPath)
	}
}

// TestWatcherDroppedOnDelete tests that deleted files never reach the
// callback.
func TestWatcherDroppedOnDelete(t *testing.T) {
	dir := t.TempDir()
	_, batches := startTestWatcher(t, dir, WithDebounce(500*time.Millisecond))

	target := filepath.Join(dir, "calc.py")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	// Remove before the debounce window elapses.
	if err := os.Remove(target); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}

	select {
	case paths := <-batches:
		t.Errorf("expected no batch for deleted file, got %v", paths)
	case <-time.After(time.Second):
	}
}
