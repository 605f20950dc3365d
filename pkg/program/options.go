package program

import (
	"log/slog"

	"github.com/sandrolain/goremap/pkg/metrics"
)

// Options configures a Program.
type Options struct {
	// AllowFallible accepts programs whose TypeDef is fallible. By default
	// they are rejected at construction.
	AllowFallible bool
	// Debug logs the result of every statement.
	Debug bool
	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics records run outcomes and statement errors when non-nil.
	Metrics *metrics.Registry
}

// Option configures a Program.
type Option func(*Options)

// WithAllowFallible accepts or rejects fallible programs.
func WithAllowFallible(allow bool) Option {
	return func(opts *Options) {
		opts.AllowFallible = allow
	}
}

// WithDebug enables or disables per-statement debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics records run metrics on r.
func WithMetrics(r *metrics.Registry) Option {
	return func(opts *Options) {
		opts.Metrics = r
	}
}
