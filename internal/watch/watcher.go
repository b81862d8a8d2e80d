package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mutbench/internal/source"
)

// ErrNoDirectories is returned when a watcher is created without any
// directories to monitor.
var ErrNoDirectories = errors.New("watch: no directories to monitor")

// ChangeFunc is invoked with the batch of files whose changes have settled
// past the debounce window. Paths are absolute and sorted.
type ChangeFunc func(ctx context.Context, paths []string)

// Stats tracks watcher activity. Useful for debugging and for asserting
// behavior in tests without inspecting internals.
type Stats struct {
	FilesCreated  int
	FilesModified int
	FilesDeleted  int
	Batches       int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventOp   string
}

// Watcher monitors source directories and reports settled change batches.
//
// Design decision:
//  1. Filesystem events arrive in rapid bursts (editors write, rename, and
//     chmod on every save). Events are debounced per file and delivered in
//     batches once a file has been quiet for the debounce window.
//  2. The watcher recursively registers subdirectories because inotify-style
//     backends are not recursive. Newly created directories are registered
//     as they appear.
//  3. Start is non-blocking; the event loop runs in its own goroutine and is
//     shut down by Stop or context cancellation.
type Watcher struct {
	mu         sync.RWMutex
	fsWatcher  *fsnotify.Watcher
	dirs       []string
	extensions []string
	debounce   time.Duration
	flushEvery time.Duration
	callback   ChangeFunc
	logger     *slog.Logger
	pending    map[string]time.Time
	stopCh     chan struct{}
	doneCh     chan struct{}
	running    bool
	stats      Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions restricts events to files with the given extensions
// (".py", ".go"). An empty list means all known source extensions.
func WithExtensions(exts []string) Option {
	return func(w *Watcher) {
		if len(exts) > 0 {
			w.extensions = exts
		}
	}
}

// WithDebounce sets how long a file must be quiet before its change is
// delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watcher events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher over the given directories. Directories that do not
// exist are skipped at Start with a warning rather than failing the whole
// watch session.
func New(dirs []string, callback ChangeFunc, opts ...Option) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, ErrNoDirectories
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		dirs:       dirs,
		extensions: source.KnownExtensions(),
		debounce:   500 * time.Millisecond,
		flushEvery: 100 * time.Millisecond,
		callback:   callback,
		logger:     slog.Default(),
		pending:    make(map[string]time.Time),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It registers every configured directory and its
// subdirectories, then runs the event loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); err != nil {
			w.logger.Warn("skipping missing watch directory", "dir", dir, "error", err)
			continue
		}
		w.addRecursive(dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. Pending
// changes that have not settled are discarded.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsWatcher.Close(); err != nil {
		w.logger.Warn("error closing watcher", "error", err)
	}
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// WatchedDirs returns the directories currently registered with the
// underlying watcher.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}

// addRecursive registers dir and its subdirectories, skipping hidden
// directories and common build artifacts.
func (w *Watcher) addRecursive(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
	if err != nil {
		w.logger.Warn("failed to walk watch directory", "dir", root, "error", err)
	}
}

var skippedDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"vendor":       true,
	"venv":         true,
	"mutants":      true,
}

// run is the watcher event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	flushTicker := time.NewTicker(w.flushEvery)
	defer flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher context cancelled")
			return

		case <-w.stopCh:
			w.logger.Debug("watcher stop requested")
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-flushTicker.C:
			w.flushSettled(ctx)
		}
	}
}

// handleEvent records a single filesystem event for debounced delivery.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories must be registered so nested changes are seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addRecursive(event.Name)
			return
		}
	}

	if !w.watchedExtension(event.Name) {
		return
	}

	var op string
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Write != 0:
		op = "modify"
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		op = "delete"
	default:
		return // Chmod and friends carry no content change
	}

	w.logger.Debug("source change", "op", op, "path", event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.stats.LastEventOp = op

	switch op {
	case "create":
		w.stats.FilesCreated++
	case "modify":
		w.stats.FilesModified++
	case "delete":
		w.stats.FilesDeleted++
		// A deleted file cannot be analyzed; drop any pending change.
		delete(w.pending, event.Name)
		return
	}

	w.pending[event.Name] = time.Now()
}

// flushSettled delivers files whose last event is older than the debounce
// window.
func (w *Watcher) flushSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	if len(settled) > 0 {
		w.stats.Batches++
	}
	w.mu.Unlock()

	if len(settled) == 0 || w.callback == nil {
		return
	}

	sort.Strings(settled)
	w.callback(ctx, settled)
}

func (w *Watcher) watchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}
