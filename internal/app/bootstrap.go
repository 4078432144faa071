package app

import (
	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/config"
	"github.com/dshills/keycmd/internal/dispatcher"
	"github.com/dshills/keycmd/internal/input/keymap"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/logging"
	"github.com/dshills/keycmd/internal/plugin/lua"
	"github.com/dshills/keycmd/internal/schedule"
)

// bootstrapper starts components in dependency order and tears down the
// ones already started if a later one fails.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 7),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"registry", b.initRegistry},
		{"plugins", b.initPlugins},
		{"keymaps", b.initKeymaps},
		{"dispatcher", b.initDispatcher},
		{"palette", b.initPalette},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	b.app.logger.Info("application started",
		"actions", b.app.registry.ActionCount(),
		"plugins", len(b.app.plugins))
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return err
	}
	if b.opts.LogLevel != "" {
		cfg.Logging.Level = b.opts.LogLevel
	}
	if b.opts.Metrics {
		cfg.Metrics = true
	}
	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	lc := b.app.config.LoggerConfig()
	lc.Output = b.opts.LogOutput
	b.app.logger = logging.New(lc)

	b.app.sched = b.opts.Scheduler
	if b.app.sched == nil {
		b.app.sched = schedule.System()
	}
	return nil
}

func (b *bootstrapper) initRegistry() error {
	b.app.registry = action.NewRegistry(action.WithLogger(b.app.logger))
	b.app.registry.RegisterActionGroup(b.opts.Groups...)
	b.app.registry.RegisterAction(b.opts.Actions...)
	return nil
}

func (b *bootstrapper) initPlugins() error {
	files := append([]string(nil), b.app.config.PluginFiles...)
	files = append(files, b.opts.PluginFiles...)
	for _, path := range files {
		p, err := lua.Load(path, lua.WithLogger(b.app.logger))
		if err != nil {
			b.cleanupComponent("plugins")
			return err
		}
		b.app.plugins = append(b.app.plugins, p)
		p.Register(b.app.registry)
	}
	return nil
}

func (b *bootstrapper) initKeymaps() error {
	files := b.app.keymapFiles()
	if len(files) == 0 {
		return nil
	}

	if !b.app.config.WatchKeymaps {
		km, err := keymap.LoadFiles(files...)
		if err != nil {
			return err
		}
		b.app.applied = keymap.Apply(b.app.registry, km)
		if len(b.app.applied.Unknown) > 0 {
			b.app.logger.Warn("keymap names unknown actions", "actions", b.app.applied.Unknown)
		}
		return nil
	}

	w, err := keymap.NewWatcher(b.app.registry,
		keymap.WithWatcherLogger(b.app.logger),
		keymap.WithWatcherScheduler(b.app.sched))
	if err != nil {
		return err
	}
	if err := w.Watch(files...); err != nil {
		_ = w.Close()
		return err
	}
	if _, err := w.Reload(); err != nil {
		_ = w.Close()
		return err
	}
	b.app.watcher = w
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	b.app.dispatcher = dispatcher.New(b.app.registry, b.app.config.DispatcherConfig(),
		dispatcher.WithScheduler(b.app.sched),
		dispatcher.WithLogger(b.app.logger))
	return nil
}

func (b *bootstrapper) initPalette() error {
	b.app.palette = palette.New(b.app.registry,
		palette.WithConfig(b.app.config.PaletteConfig()),
		palette.WithScheduler(b.app.sched),
		palette.WithLogger(b.app.logger),
		palette.WithScope(b.app.paletteScope))
	return nil
}

// cleanup releases started components in reverse initialization order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent releases a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "logger":
		_ = b.app.logger.Close()
	case "plugins":
		for _, p := range b.app.plugins {
			_ = p.Close()
		}
		b.app.plugins = nil
	case "keymaps":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	case "dispatcher":
		b.app.dispatcher.Close()
	}
}
