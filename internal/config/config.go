package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/keycmd/internal/config/loader"
	"github.com/dshills/keycmd/internal/dispatcher"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KEYCMD_"

// Config is the resolved engine configuration.
type Config struct {
	// SequenceTimeout is how long a partial key sequence stays live.
	SequenceTimeout Duration `toml:"sequence_timeout" yaml:"sequence_timeout"`

	// DebounceDelay is the quiet period before a filter group is re-queried.
	DebounceDelay Duration `toml:"debounce_delay" yaml:"debounce_delay"`

	// PageSize is how many rows PageUp/PageDown move in the palette.
	PageSize int `toml:"page_size" yaml:"page_size"`

	// Logging configures the engine logger.
	Logging LoggingConfig `toml:"logging" yaml:"logging"`

	// KeymapFiles are keybinding override files, merged in order.
	KeymapFiles []string `toml:"keymap_files" yaml:"keymap_files"`

	// PluginFiles are Lua scripts declaring actions and groups.
	PluginFiles []string `toml:"plugin_files" yaml:"plugin_files"`

	// WatchKeymaps reloads KeymapFiles when they change on disk.
	WatchKeymaps bool `toml:"watch_keymaps" yaml:"watch_keymaps"`

	// Metrics enables dispatcher match statistics.
	Metrics bool `toml:"metrics" yaml:"metrics"`
}

// LoggingConfig is the [logging] section.
type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	Format     string `toml:"format" yaml:"format"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
}

// Default returns the built-in configuration.
func Default() *Config {
	lc := logging.DefaultConfig()
	return &Config{
		SequenceTimeout: Duration(dispatcher.DefaultSequenceTimeout),
		DebounceDelay:   Duration(palette.DefaultDebounceDelay),
		PageSize:        palette.DefaultPageSize,
		Logging: LoggingConfig{
			Level:      "info",
			Format:     string(lc.Format),
			MaxSizeMB:  lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
		},
	}
}

// Load resolves the configuration from defaults, the file at path and the
// environment, then validates it. An empty path or a missing file leaves
// the defaults in place. Relative keymap and plugin paths in the file are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		found, err := loader.DecodeFile(path, cfg)
		if err != nil {
			return nil, err
		}
		if found {
			dir := filepath.Dir(path)
			cfg.KeymapFiles = resolvePaths(dir, cfg.KeymapFiles)
			cfg.PluginFiles = resolvePaths(dir, cfg.PluginFiles)
		}
	}

	if err := cfg.ApplyEnv(loader.NewEnvLoader(EnvPrefix)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. Unknown
// variables are ignored.
func (c *Config) ApplyEnv(env *loader.EnvLoader) error {
	for _, v := range env.Load() {
		if err := c.set(v.Path, v.Value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidEnv, v.Name, err)
		}
	}
	return nil
}

// set assigns a raw string to the setting at path.
func (c *Config) set(path, raw string) error {
	var err error
	switch path {
	case "sequence_timeout":
		c.SequenceTimeout, err = ParseDuration(raw)
	case "debounce_delay":
		c.DebounceDelay, err = ParseDuration(raw)
	case "page_size":
		c.PageSize, err = strconv.Atoi(strings.TrimSpace(raw))
	case "keymap_files":
		c.KeymapFiles = expandPaths(loader.SplitList(raw))
	case "plugin_files":
		c.PluginFiles = expandPaths(loader.SplitList(raw))
	case "watch_keymaps":
		var ok bool
		if c.WatchKeymaps, ok = loader.ParseBool(raw); !ok {
			err = fmt.Errorf("invalid boolean %q", raw)
		}
	case "metrics":
		var ok bool
		if c.Metrics, ok = loader.ParseBool(raw); !ok {
			err = fmt.Errorf("invalid boolean %q", raw)
		}
	case "logging.level":
		c.Logging.Level = raw
	case "logging.format":
		c.Logging.Format = raw
	case "logging.file":
		c.Logging.File = expandHome(raw)
	case "logging.max_size_mb":
		c.Logging.MaxSizeMB, err = strconv.Atoi(strings.TrimSpace(raw))
	case "logging.max_backups":
		c.Logging.MaxBackups, err = strconv.Atoi(strings.TrimSpace(raw))
	}
	return err
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.SequenceTimeout <= 0 {
		return fmt.Errorf("%w: sequence_timeout must be positive, got %s", ErrValidationFailed, c.SequenceTimeout)
	}
	if c.DebounceDelay < 0 {
		return fmt.Errorf("%w: debounce_delay must not be negative, got %s", ErrValidationFailed, c.DebounceDelay)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be positive, got %d", ErrValidationFailed, c.PageSize)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", string(logging.FormatText), string(logging.FormatJSON):
	default:
		return fmt.Errorf("%w: unknown logging format %q", ErrValidationFailed, c.Logging.Format)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return fmt.Errorf("%w: logging rotation limits must not be negative", ErrValidationFailed)
	}
	return nil
}

// DispatcherConfig returns the dispatcher settings.
func (c *Config) DispatcherConfig() dispatcher.Config {
	dc := dispatcher.DefaultConfig().WithSequenceTimeout(c.SequenceTimeout.Std())
	if c.Metrics {
		dc = dc.WithMetrics()
	}
	return dc
}

// PaletteConfig returns the palette session settings.
func (c *Config) PaletteConfig() palette.Config {
	return palette.DefaultConfig().
		WithDebounceDelay(c.DebounceDelay.Std()).
		WithPageSize(c.PageSize)
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Logging.Level)
	lc.Format = logging.ParseFormat(c.Logging.Format)
	lc.FilePath = c.Logging.File
	if c.Logging.MaxSizeMB > 0 {
		lc.MaxSizeMB = c.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups > 0 {
		lc.MaxBackups = c.Logging.MaxBackups
	}
	return lc
}

// resolvePaths expands ~ and makes relative paths relative to dir.
func resolvePaths(dir string, paths []string) []string {
	out := expandPaths(paths)
	for i, p := range out {
		if !filepath.IsAbs(p) {
			out[i] = filepath.Join(dir, p)
		}
	}
	return out
}

func expandPaths(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = expandHome(os.ExpandEnv(p))
	}
	return out
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
