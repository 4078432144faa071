// Package app wires the engine components together: configuration,
// logging, the action registry, Lua action sources, keymap overrides, the
// sequence dispatcher and the command palette.
package app

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/config"
	"github.com/dshills/keycmd/internal/contextmenu"
	"github.com/dshills/keycmd/internal/dispatcher"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/input/keymap"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/logging"
	"github.com/dshills/keycmd/internal/plugin/lua"
	"github.com/dshills/keycmd/internal/schedule"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means defaults and
	// environment only.
	ConfigPath string

	// KeymapFiles are loaded after the files named in the config.
	KeymapFiles []string

	// PluginFiles are loaded after the files named in the config.
	PluginFiles []string

	// LogLevel overrides the configured logging level when set.
	LogLevel string

	// Metrics enables dispatcher statistics regardless of the config.
	Metrics bool

	// LogOutput receives log records when no log file is configured.
	LogOutput io.Writer

	// Actions and Groups are registered before any plugin is loaded.
	Actions []*action.Action
	Groups  []*action.Group

	// Scope supplies the context the palette evaluates actions against.
	// Nil means the scope most recently passed to HandleKey.
	Scope func() action.Context

	// Scheduler drives dispatcher, palette and keymap timers.
	// Nil means the system clock.
	Scheduler schedule.Scheduler
}

// Application owns the engine components and their lifecycles.
type Application struct {
	mu sync.RWMutex

	config     *config.Config
	logger     *logging.Logger
	sched      schedule.Scheduler
	registry   *action.Registry
	dispatcher *dispatcher.Dispatcher
	palette    *palette.Session
	plugins    []*lua.Plugin

	// Exactly one of watcher and applied is set when keymap files exist.
	watcher *keymap.Watcher
	applied *keymap.Applied

	scopeMu sync.Mutex
	scope   action.Context

	closed atomic.Bool
	opts   Options
}

// New creates and bootstraps an Application.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the resolved configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Registry returns the action registry.
func (app *Application) Registry() *action.Registry {
	return app.registry
}

// Dispatcher returns the key sequence dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Palette returns the command palette session.
func (app *Application) Palette() *palette.Session {
	return app.palette
}

// Plugins returns the loaded Lua plugins.
func (app *Application) Plugins() []*lua.Plugin {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return append([]*lua.Plugin(nil), app.plugins...)
}

// HandleKey routes a key press: to the palette while it is open, otherwise
// to the sequence dispatcher. It reports whether the key was consumed.
func (app *Application) HandleKey(ev key.Event, scope action.Context, args ...any) (bool, error) {
	if app.closed.Load() {
		return false, ErrClosed
	}
	app.setScope(scope)
	if app.palette.IsOpen() {
		return app.palette.HandleKey(ev)
	}
	return app.dispatcher.OnKeyPress(ev, scope, args...)
}

func (app *Application) setScope(scope action.Context) {
	app.scopeMu.Lock()
	app.scope = scope
	app.scopeMu.Unlock()
}

// paletteScope is the palette's context supplier.
func (app *Application) paletteScope() action.Context {
	if app.opts.Scope != nil {
		return app.opts.Scope()
	}
	app.scopeMu.Lock()
	defer app.scopeMu.Unlock()
	return app.scope
}

// OpenPalette opens the command palette with the given search text.
// A partially typed key sequence is abandoned. Until the next key press the
// palette evaluates actions against scope, unless Options.Scope is set.
func (app *Application) OpenPalette(text string, scope action.Context) error {
	if app.closed.Load() {
		return ErrClosed
	}
	app.setScope(scope)
	app.dispatcher.Reset()
	app.palette.Open(text)
	return nil
}

// ContextMenu builds the context menu for scope.
func (app *Application) ContextMenu(scope action.Context) []contextmenu.Section {
	return contextmenu.FromRegistry(app.registry, scope)
}

// ReloadKeymaps re-reads the keymap files. It is a no-op when none are
// configured.
func (app *Application) ReloadKeymaps() error {
	if app.closed.Load() {
		return ErrClosed
	}
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.watcher != nil {
		_, err := app.watcher.Reload()
		return err
	}
	files := app.keymapFiles()
	if len(files) == 0 {
		return nil
	}
	km, err := keymap.LoadFiles(files...)
	if err != nil {
		return err
	}
	if app.applied != nil {
		app.applied.Revert(app.registry)
	}
	app.applied = keymap.Apply(app.registry, km)
	return nil
}

// keymapFiles returns the configured keymap files followed by the ones
// passed in Options.
func (app *Application) keymapFiles() []string {
	files := append([]string(nil), app.config.KeymapFiles...)
	return append(files, app.opts.KeymapFiles...)
}

// Shutdown stops every component in reverse start order. It is safe to call
// more than once.
func (app *Application) Shutdown() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	var errs []error
	app.palette.Close()
	app.dispatcher.Close()
	if app.watcher != nil {
		errs = append(errs, app.watcher.Close())
		app.watcher = nil
	}
	if app.applied != nil {
		app.applied.Revert(app.registry)
		app.applied = nil
	}
	for _, p := range app.plugins {
		errs = append(errs, p.Close())
	}
	app.plugins = nil
	app.logger.Info("application stopped")
	errs = append(errs, app.logger.Close())
	return errors.Join(errs...)
}
