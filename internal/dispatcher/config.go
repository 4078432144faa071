package dispatcher

import "time"

// DefaultSequenceTimeout is how long a partial chord stays live.
const DefaultSequenceTimeout = 2000 * time.Millisecond

// Config holds dispatcher configuration options.
type Config struct {
	// SequenceTimeout is the idle time after which a partial sequence is
	// abandoned. It is restarted on every key press.
	SequenceTimeout time.Duration

	// EnableMetrics enables match statistics and timing collection.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SequenceTimeout: DefaultSequenceTimeout,
		EnableMetrics:   false,
	}
}

// WithSequenceTimeout returns a copy of the config with the timeout set.
// Non-positive values are ignored.
func (c Config) WithSequenceTimeout(timeout time.Duration) Config {
	if timeout > 0 {
		c.SequenceTimeout = timeout
	}
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}
