// Package watch triggers installer rebuilds when project inputs change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into a single rebuild.
const DefaultDebounce = 400 * time.Millisecond

// Config contains configuration for the rebuild watcher.
type Config struct {
	// Paths are the files and directories to rebuild on. Directories are
	// watched recursively; paths that do not exist yet are skipped.
	Paths []string

	// Debounce is how long to wait after the last event before
	// triggering a rebuild. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Watcher watches project inputs and emits one trigger per change burst.
// Changes outside the configured paths, and editor droppings inside them,
// never trigger.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher

	triggers chan string
	errors   chan error
	done     chan struct{}

	files map[string]bool
	dirs  []string

	mu      sync.Mutex
	timer   *time.Timer
	last    string
	running bool
}

// NewWatcher creates a watcher for the given inputs.
func NewWatcher(config Config) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:   config,
		watcher:  fsWatcher,
		triggers: make(chan string, 1),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
		files:    make(map[string]bool),
	}, nil
}

// Start begins watching for changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, p := range w.config.Paths {
		if err := w.add(filepath.Clean(p)); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)

	return w.watcher.Close()
}

// Triggers returns the channel of rebuild triggers. Each value is the path
// whose change ended the burst.
func (w *Watcher) Triggers() <-chan string {
	return w.triggers
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// add registers one configured path. Files are tracked through their parent
// directory so editors that replace instead of rewrite are still seen.
func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	if !info.IsDir() {
		w.files[path] = true
		return w.watcher.Add(filepath.Dir(path))
	}

	w.dirs = append(w.dirs, path)
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != path && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return w.watcher.Add(p)
		}
		return nil
	})
}

// processEvents forwards debounced fsnotify events until stopped.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handleEvent handles a single fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	path := filepath.Clean(event.Name)
	if ignored(path) || !w.interested(path) {
		return
	}

	// New directories join the watch so nested changes keep triggering.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			_ = w.watcher.Add(path)
		}
	}

	w.bump(path)
}

// bump restarts the global debounce timer. One burst of events, however
// many paths it touches, produces one trigger.
func (w *Watcher) bump(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	path := w.last
	w.mu.Unlock()

	select {
	case w.triggers <- path:
	default:
		// A trigger is already pending; that rebuild picks this change
		// up too.
	}
}

// interested reports whether a change falls inside the watched inputs.
func (w *Watcher) interested(path string) bool {
	if w.files[path] {
		return true
	}
	for _, d := range w.dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored filters hidden files and editor droppings.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}
