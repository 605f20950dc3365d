// Package ext provides optional extension functions that go beyond the
// builtin catalog of package stdlib.
//
// The extension functions live in sub-packages grouped by category:
//   - extstring – starts_with, ends_with, camel_case, snake_case, kebab_case
//   - extcrypto – hash, hmac
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/goremap/pkg/ext"
//
//	p, err := goremap.Compile(src, ext.WithAll())
//
// # Integration – by category
//
//	p, err := goremap.Compile(src, ext.WithString())
//
// # Integration – single function from a sub-package
//
//	import extstring "github.com/sandrolain/goremap/pkg/ext/extstring"
//
//	reg, err := stdlib.NewRegistry(extstring.StartsWith{})
//	p, err := goremap.Compile(src, goremap.WithRegistry(reg))
package ext

import (
	"github.com/sandrolain/goremap"
	"github.com/sandrolain/goremap/pkg/ext/extcrypto"
	"github.com/sandrolain/goremap/pkg/ext/extstring"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/stdlib"
)

// All returns every extension function.
func All() []function.Function {
	var all []function.Function
	all = append(all, extstring.All()...)
	all = append(all, extcrypto.All()...)
	return all
}

// Registry returns the builtin registry extended with fns.
func Registry(fns ...function.Function) *function.Registry {
	// Extension identifiers never clash with the builtins.
	return function.MustNewRegistry(append(stdlib.Functions(), fns...)...)
}

// WithAll registers every extension function on top of the builtins.
func WithAll() goremap.Option {
	return goremap.WithRegistry(Registry(All()...))
}

// WithString registers the string extensions on top of the builtins.
func WithString() goremap.Option {
	return goremap.WithRegistry(Registry(extstring.All()...))
}

// WithCrypto registers the hashing extensions on top of the builtins.
func WithCrypto() goremap.Option {
	return goremap.WithRegistry(Registry(extcrypto.All()...))
}
