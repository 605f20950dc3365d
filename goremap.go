// Package goremap compiles and runs remap programs: typed, statically
// checked transformations applied to structured events.
//
// A program is a YAML document of statements, each a function call, path,
// variable or literal, optionally assigned to an event path or a variable.
// Compilation resolves every call against a function registry and checks
// that the program cannot fail at runtime unless fallible programs are
// explicitly allowed.
//
// # Quick Start
//
//	src := []byte(`
//	allow_fallible: true
//	statements:
//	  - target: .timestamp
//	    call: parse_timestamp
//	    args:
//	      value: { path: .ts }
//	      format: { literal: "%d/%m/%Y:%H:%M:%S %z" }
//	`)
//
//	// Compile once, run many times
//	p, err := goremap.Compile(src)
//	for _, e := range events {
//	    _, err = p.Run(ctx, e)
//	}
//
//	// Or reuse compiled programs across calls with an Engine
//	eng := goremap.New(goremap.WithCaching(true))
//	_, err = eng.Run(ctx, src, e)
//
// # More Information
//
//   - Documents: github.com/sandrolain/goremap/pkg/config
//   - Builtins: github.com/sandrolain/goremap/pkg/stdlib
//   - Values and type definitions: github.com/sandrolain/goremap/pkg/types
//   - Events: github.com/sandrolain/goremap/pkg/event
package goremap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/goremap/pkg/cache"
	"github.com/sandrolain/goremap/pkg/config"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/metrics"
	"github.com/sandrolain/goremap/pkg/program"
	"github.com/sandrolain/goremap/pkg/stdlib"
	"github.com/sandrolain/goremap/pkg/types"
)

// Version returns the current version of goremap.
func Version() string {
	return "v0.1.0-dev"
}

// Options configures compilation and runs.
type Options struct {
	// Registry resolves function calls. Defaults to stdlib.Registry().
	Registry *function.Registry
	// Caching keeps compiled programs keyed by document hash.
	Caching bool
	// CacheSize sets the maximum number of cached programs.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom program cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// AllowFallible overrides the document's allow_fallible setting when set.
	AllowFallible *bool
	// Timeout bounds each Run. Zero means no timeout.
	Timeout time.Duration
	// Debug enables per-statement debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Metrics records run outcomes and statement errors when non-nil.
	Metrics *metrics.Registry
}

// Option configures an Engine.
type Option func(*Options)

// WithRegistry resolves calls against r instead of the standard library.
func WithRegistry(r *function.Registry) Option {
	return func(opts *Options) {
		opts.Registry = r
	}
}

// WithCaching enables or disables program caching.
// When enabled, a default LRU cache of cache.DefaultCapacity entries is
// created. To control the size use WithCacheSize; to share a cache use
// WithCache.
func WithCaching(enabled bool) Option {
	return func(opts *Options) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached programs.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external program cache.
// The engine will use this cache regardless of the Caching flag. Engines
// sharing a cache only reuse each other's programs when they were built with
// the same registry, logger, metrics and debug setting.
func WithCache(c *cache.Cache) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithAllowFallible overrides the document's allow_fallible setting.
func WithAllowFallible(allow bool) Option {
	return func(opts *Options) {
		opts.AllowFallible = &allow
	}
}

// WithTimeout bounds every Run.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
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

// Engine compiles documents with a fixed set of options. It is safe for
// concurrent use.
type Engine struct {
	opts   Options
	logger *slog.Logger
	cache  *cache.Cache // non-nil when caching is enabled
	// scope identifies the options compiled programs capture.
	scope string
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Registry == nil {
		options.Registry = stdlib.Registry()
	}

	c := options.Cache
	if c == nil && options.Caching {
		c = cache.New(options.CacheSize)
	}

	scope := fmt.Sprintf("%p|%p|%p|%t", options.Registry, options.Logger, options.Metrics, options.Debug)
	return &Engine{opts: options, logger: options.Logger, cache: c, scope: scope}
}

// Cache returns the engine's program cache, or nil when caching is off.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// Compile parses, validates and compiles a program document.
func (e *Engine) Compile(src []byte) (*program.Program, error) {
	doc, err := config.Parse(src)
	if err != nil {
		return nil, err
	}
	if e.cache == nil {
		return e.compile(doc)
	}
	return e.cache.GetOrCompile(e.cacheKey(doc), func() (*program.Program, error) {
		return e.compile(doc)
	})
}

func (e *Engine) compile(doc *config.Document) (*program.Program, error) {
	opts := []program.Option{
		program.WithLogger(e.logger),
		program.WithDebug(e.opts.Debug),
		program.WithMetrics(e.opts.Metrics),
	}
	if e.opts.AllowFallible != nil {
		opts = append(opts, program.WithAllowFallible(*e.opts.AllowFallible))
	}
	return config.Compile(doc, e.opts.Registry, opts...)
}

// cacheKey extends the document hash with the fallibility override, which
// decides whether the document compiles at all, and with the engine scope,
// since a program is bound to the registry and options it was compiled with.
func (e *Engine) cacheKey(doc *config.Document) string {
	key := doc.Hash() + "@" + e.scope
	switch {
	case e.opts.AllowFallible == nil:
		return key
	case *e.opts.AllowFallible:
		return key + "+fallible"
	default:
		return key + "-fallible"
	}
}

// Run compiles src and runs it once against obj.
func (e *Engine) Run(ctx context.Context, src []byte, obj types.Object) (types.Value, error) {
	p, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}
	return p.Run(ctx, obj)
}

// Compile compiles a program document for repeated runs.
//
// The compiled program can run against many events and is safe for
// concurrent use.
//
// Example:
//
//	p, err := goremap.Compile(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, _ := p.Run(ctx, event.New())
func Compile(src []byte, opts ...Option) (*program.Program, error) {
	return New(opts...).Compile(src)
}

// MustCompile is like Compile but panics if the document cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(src []byte, opts ...Option) *program.Program {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(fmt.Sprintf("goremap: Compile: %v", err))
	}
	return p
}

// Run is a convenience function that compiles src and runs it once against
// obj. For repeated runs of the same document use Compile, or an Engine with
// caching enabled.
func Run(ctx context.Context, src []byte, obj types.Object, opts ...Option) (types.Value, error) {
	return New(opts...).Run(ctx, src, obj)
}
