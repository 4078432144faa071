package palette

import "time"

// Defaults for Config.
const (
	DefaultDebounceDelay = 150 * time.Millisecond
	DefaultPageSize      = 5
)

// Config holds palette session options.
type Config struct {
	// DebounceDelay is the quiet period before a "filter"-mode group is
	// re-queried.
	DebounceDelay time.Duration

	// PageSize is the number of actionable rows PageUp/PageDown move.
	PageSize int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: DefaultDebounceDelay,
		PageSize:      DefaultPageSize,
	}
}

// WithDebounceDelay returns a copy of the config with the debounce delay set.
func (c Config) WithDebounceDelay(d time.Duration) Config {
	if d >= 0 {
		c.DebounceDelay = d
	}
	return c
}

// WithPageSize returns a copy of the config with the page size set.
func (c Config) WithPageSize(n int) Config {
	if n > 0 {
		c.PageSize = n
	}
	return c
}
