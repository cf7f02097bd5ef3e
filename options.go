package respdecode

import (
	"github.com/raniellyferreira/respdecode/protocol"
)

// config holds the configuration for a Decoder
type config struct {
	limits protocol.Limits

	// Observability
	logger  Logger
	metrics MetricsCollector
}

// defaultConfig returns a configuration with sensible defaults
func defaultConfig() *config {
	return &config{
		limits:  protocol.DefaultLimits(),
		logger:  defaultLogger(),
		metrics: nopMetrics{},
	}
}

// Option represents a configuration option for a Decoder
type Option func(*config) error

// WithMaxDepth sets how deeply arrays may nest
//
// Example:
//
//	WithMaxDepth(32)
func WithMaxDepth(depth int) Option {
	return func(c *config) error {
		if depth <= 0 {
			return ErrInvalidConfig
		}
		c.limits.MaxDepth = depth
		return nil
	}
}

// WithMaxBulkLength sets the largest accepted bulk string in bytes
//
// Example:
//
//	WithMaxBulkLength(64 * 1024 * 1024) // 64MB
func WithMaxBulkLength(bytes int) Option {
	return func(c *config) error {
		if bytes <= 0 {
			return ErrInvalidConfig
		}
		c.limits.MaxBulkLength = bytes
		return nil
	}
}

// WithMaxArrayLength sets the largest accepted array element count
func WithMaxArrayLength(elements int) Option {
	return func(c *config) error {
		if elements <= 0 {
			return ErrInvalidConfig
		}
		c.limits.MaxArrayLength = elements
		return nil
	}
}

// WithLogger sets a custom logger for the decoder
//
// Example:
//
//	WithLogger(myCustomLogger)
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return ErrInvalidConfig
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics enables metrics collection with the provided collector
//
// Example:
//
//	WithMetrics(myMetricsCollector)
func WithMetrics(collector MetricsCollector) Option {
	return func(c *config) error {
		if collector == nil {
			return ErrInvalidConfig
		}
		c.metrics = collector
		return nil
	}
}
