// SPDX-License-Identifier: Apache-2.0

package arena

const (
	// DefaultMediumSize is the smallest payload size that falls into the medium class.
	DefaultMediumSize = 64
	// DefaultLargeSize is the smallest payload size that falls into the large class.
	DefaultLargeSize = 256
)

type poolConfig struct {
	bounds classBounds
	logger *Logger
	scrub  bool
}

// PoolOption represents a configuration option for a segregated pool.
type PoolOption func(*poolConfig)

// WithClassBounds sets the inclusive lower bounds of the medium and large size classes.
// Payloads below medium are small, payloads below large are medium, the rest are large.
func WithClassBounds(medium, large uint32) PoolOption {
	return func(c *poolConfig) {
		c.bounds = classBounds{medium: medium, large: large}
	}
}

// WithLogger sets the logger used for recycling and exhaustion events.
func WithLogger(l *Logger) PoolOption {
	return func(c *poolConfig) {
		c.logger = l
	}
}

// WithScrubOnFree fills the payload of every freed block with 0xFF before it is
// linked into its free list, so stale reads through a released pointer are obvious.
func WithScrubOnFree() PoolOption {
	return func(c *poolConfig) {
		c.scrub = true
	}
}

func newPoolConfig(opts []PoolOption) poolConfig {
	c := poolConfig{
		bounds: classBounds{medium: DefaultMediumSize, large: DefaultLargeSize},
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = NoopLogger()
	}
	if c.bounds.medium > c.bounds.large {
		panic("arena: medium class bound above large class bound")
	}
	return c
}
