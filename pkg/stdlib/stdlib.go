// Package stdlib is the builtin function catalog.
//
// Each builtin is an exported Function type paired with the unexported
// Expression node it compiles to. Registry returns the process-wide registry
// holding all of them; NewRegistry extends it with caller-supplied functions.
package stdlib

import (
	"sync"

	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/types"
)

var (
	registry     *function.Registry
	registryOnce sync.Once
)

// Functions returns a fresh list of every builtin.
func Functions() []function.Function {
	return []function.Function{
		// Conversions
		ToString{},
		ToInt{},
		ToFloat{},
		ToBool{},
		ToTimestamp{},

		// Date and time
		ParseTimestamp{},
		FormatTimestamp{},
		Now{},

		// Strings
		Upcase{},
		Downcase{},
		Contains{},

		// Event
		Exists{},
		Del{},

		// Encoding
		ParseJSON{},
		Blake2b{},
		ULID{},
	}
}

// Registry returns the builtin registry. It is built on first use and shared
// by every caller.
func Registry() *function.Registry {
	registryOnce.Do(func() {
		registry = function.MustNewRegistry(Functions()...)
	})
	return registry
}

// NewRegistry returns a registry with every builtin plus extra. An extra
// function reusing a builtin identifier is rejected.
func NewRegistry(extra ...function.Function) (*function.Registry, error) {
	return Registry().With(extra...)
}

// Shared parameter predicates.
var (
	acceptsBytes     = function.AcceptsKind(types.KindBytes)
	acceptsBoolean   = function.AcceptsKind(types.KindBoolean)
	acceptsTimestamp = function.AcceptsKind(types.KindTimestamp)
)

// argumentType reports an argument of an unsupported kind at runtime.
func argumentType(fn, keyword string, want types.Kind, got types.Value) error {
	return types.Errorf(types.ErrArgumentType, "argument %q must be %s, got %s", keyword, want, got.Kind()).
		WithFunction(fn)
}

func bytesArg(fn, keyword string, v types.Value) (types.Bytes, error) {
	b, ok := v.(types.Bytes)
	if !ok {
		return nil, argumentType(fn, keyword, types.KindBytes, v)
	}
	return b, nil
}
