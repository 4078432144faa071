package keymap

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/logging"
	"github.com/dshills/keycmd/internal/schedule"
)

// ErrWatcherClosed indicates an operation on a closed watcher.
var ErrWatcherClosed = errors.New("keymap: watcher is closed")

// DefaultReloadDelay is the quiet period after a file change before the
// keymap files are reloaded.
const DefaultReloadDelay = 100 * time.Millisecond

// ReloadFunc is called after every reload with the applied result, or with
// the load error. On error the previous keymap stays in effect.
type ReloadFunc func(applied *Applied, err error)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDelay sets the debounce delay for file changes.
func WithReloadDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithWatcherScheduler sets the scheduler driving the reload debounce.
func WithWatcherScheduler(s schedule.Scheduler) WatcherOption {
	return func(w *Watcher) {
		if s != nil {
			w.sched = s
		}
	}
}

// Watcher keeps a registry's shortcuts in sync with a set of keymap files.
//
// The parent directories of the files are watched so that editors which
// replace files on save are handled. Changes are debounced, then every file
// is reloaded in order and the merged keymap replaces the previous one.
type Watcher struct {
	mu sync.Mutex

	registry *action.Registry
	fsw      *fsnotify.Watcher
	logger   *logging.Logger
	sched    schedule.Scheduler
	delay    time.Duration
	debounce *schedule.Debouncer

	// files in load order, and the set of their absolute paths.
	files []string
	paths map[string]bool
	dirs  map[string]bool

	applied  *Applied
	onReload []ReloadFunc

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher creates a watcher that applies keymaps to reg.
func NewWatcher(reg *action.Registry, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		registry: reg,
		fsw:      fsw,
		logger:   logging.Nop(),
		sched:    schedule.System(),
		delay:    DefaultReloadDelay,
		paths:    make(map[string]bool),
		dirs:     make(map[string]bool),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("keymap")
	w.debounce = schedule.NewDebouncer(w.sched, w.delay, func() {
		_, _ = w.Reload()
	})

	// Start event processing loop
	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch adds keymap files. Files are loaded in the order they were added.
// Watch does not load them; call Reload.
func (w *Watcher) Watch(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if w.paths[absPath] {
			continue
		}

		dir := filepath.Dir(absPath)
		if !w.dirs[dir] {
			if err := w.fsw.Add(dir); err != nil {
				return err
			}
			w.dirs[dir] = true
		}

		w.paths[absPath] = true
		w.files = append(w.files, absPath)
	}
	return nil
}

// Files returns the watched files in load order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.files...)
}

// OnReload registers a callback invoked after every reload attempt.
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// Reload loads every watched file and replaces the previously applied
// keymap. If any file fails to load nothing changes.
func (w *Watcher) Reload() (*Applied, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	files := append([]string(nil), w.files...)
	w.mu.Unlock()

	km, err := LoadFiles(files...)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	var applied *Applied
	if err == nil {
		if w.applied != nil {
			w.applied.Revert(w.registry)
		}
		applied = Apply(w.registry, km)
		w.applied = applied
	}
	callbacks := append([]ReloadFunc(nil), w.onReload...)
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("keymap reload failed", "error", err)
	} else {
		w.logger.Info("keymap applied", "files", len(files), "actions", len(applied.Actions))
		if len(applied.Unknown) > 0 {
			w.logger.Warn("keymap names unknown actions", "actions", applied.Unknown)
		}
	}

	for _, fn := range callbacks {
		fn(applied, err)
	}
	return applied, err
}

// Close stops watching and reverts the applied keymap.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.debounce.Cancel()
	if w.applied != nil {
		w.applied.Revert(w.registry)
		w.applied = nil
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("keymap watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}

	absPath, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.paths[absPath]
	w.mu.Unlock()

	if watched {
		w.logger.Debug("keymap file changed", "path", absPath, "op", ev.Op.String())
		w.debounce.Call()
	}
}
