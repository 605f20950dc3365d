package stdlib

import (
	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

var fieldParams = []function.Parameter{
	{Keyword: "field", Accepts: function.AcceptsAny, Required: true},
}

// Exists reports whether a field is present in the event. The argument must
// be a path.
type Exists struct{}

func (Exists) Identifier() string { return "exists" }

func (Exists) Parameters() []function.Parameter { return fieldParams }

func (Exists) Compile(args *function.ArgumentList) (expression.Expression, error) {
	field, err := args.RequiredPath("field")
	if err != nil {
		return nil, err
	}
	return &existsFn{field: field.Path()}, nil
}

type existsFn struct {
	field path.Path
}

func (f *existsFn) Execute(_ *state.Program, obj types.Object) (types.Value, error) {
	_, ok, err := obj.Get(f.field)
	if err != nil {
		return nil, types.Errorf(types.ErrMissingPath, "unable to resolve path %s", f.field).
			WithFunction("exists").WithCause(err)
	}
	return types.Boolean(ok), nil
}

func (f *existsFn) TypeDef(*state.Compiler) types.TypeDef {
	return types.Infallible(types.KindBoolean)
}

// Del removes a field from the event and returns its value, or null when it
// was absent.
type Del struct{}

func (Del) Identifier() string { return "del" }

func (Del) Parameters() []function.Parameter { return fieldParams }

func (Del) Compile(args *function.ArgumentList) (expression.Expression, error) {
	field, err := args.RequiredPath("field")
	if err != nil {
		return nil, err
	}
	return &delFn{field: field.Path()}, nil
}

type delFn struct {
	field path.Path
}

var _ expression.PathMutator = (*delFn)(nil)

func (f *delFn) Execute(_ *state.Program, obj types.Object) (types.Value, error) {
	v, ok, err := obj.Remove(f.field)
	if err != nil {
		return nil, types.Errorf(types.ErrMissingPath, "unable to remove path %s", f.field).
			WithFunction("del").WithCause(err)
	}
	if !ok {
		return types.Null{}, nil
	}
	return v, nil
}

// TypeDef uses what the checker knows about the field. Null covers the
// absent case.
func (f *delFn) TypeDef(st *state.Compiler) types.TypeDef {
	if td, ok := st.PathType(f.field); ok {
		return types.Infallible(td.Kind | types.KindNull)
	}
	return types.Infallible(types.KindAny)
}

// MutatedPaths reports the removed field so the checker forgets its type.
func (f *delFn) MutatedPaths() []path.Path {
	return []path.Path{f.field}
}
