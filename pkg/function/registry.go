package function

import (
	"sort"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/types"
)

// Registry maps identifiers to functions. A Registry is immutable once
// built and safe for concurrent use; With returns an extended copy.
type Registry struct {
	fns map[string]Function
}

// NewRegistry builds a registry from fns. Two functions with the same
// identifier are rejected with ErrDuplicateFunction.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{fns: make(map[string]Function, len(fns))}
	if err := r.add(fns); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error. It simplifies
// building package-level registries.
func MustNewRegistry(fns ...Function) *Registry {
	r, err := NewRegistry(fns...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(fns []Function) error {
	for _, fn := range fns {
		name := fn.Identifier()
		if _, exists := r.fns[name]; exists {
			return types.Errorf(types.ErrDuplicateFunction, "function %q registered twice", name)
		}
		r.fns[name] = fn
	}
	return nil
}

// With returns a new registry holding r's functions plus fns.
func (r *Registry) With(fns ...Function) (*Registry, error) {
	out := &Registry{fns: make(map[string]Function, len(r.fns)+len(fns))}
	for name, fn := range r.fns {
		out.fns[name] = fn
	}
	if err := out.add(fns); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, error) {
	fn, ok := r.fns[name]
	if !ok {
		return nil, types.Errorf(types.ErrUnknownFunction, "call to undefined function %q", name)
	}
	return fn, nil
}

// Names returns all identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.fns)
}

// Compile resolves args against the named function and compiles the call.
// Errors raised by the function are tagged with its identifier.
func (r *Registry) Compile(name string, args []Argument) (expression.Expression, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	list, err := Resolve(fn, args)
	if err != nil {
		return nil, err
	}

	expr, err := fn.Compile(list)
	if err != nil {
		if e, ok := err.(*types.Error); ok && e.Function == "" {
			e.Function = name
		}
		return nil, err
	}
	return expr, nil
}
