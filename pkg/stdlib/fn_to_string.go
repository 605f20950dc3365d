package stdlib

import (
	"fmt"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// ToString converts a scalar to its canonical string form.
type ToString struct{}

var toStringParams = []function.Parameter{
	{Keyword: "value", Accepts: function.AcceptsAny, Required: true},
}

func (ToString) Identifier() string { return "to_string" }

func (ToString) Parameters() []function.Parameter { return toStringParams }

func (ToString) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &toStringFn{value: value}, nil
}

type toStringFn struct {
	value expression.Expression
}

// Execute passes Bytes through, renders Null as the empty string and fails
// on Map and Array.
func (f *toStringFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := f.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case types.Bytes:
		return v, nil
	case types.Null:
		return types.Bytes{}, nil
	case types.Map, types.Array:
		return nil, types.NewError(types.ErrConversion, "unable to convert value to string").
			WithFunction("to_string")
	case fmt.Stringer:
		return types.Bytes(v.String()), nil
	}
	return nil, types.NewError(types.ErrConversion, "unable to convert value to string").
		WithFunction("to_string")
}

// TypeDef always reports Bytes and keeps the input's fallibility. Map and
// Array inputs fail at runtime without being marked fallible here.
func (f *toStringFn) TypeDef(st *state.Compiler) types.TypeDef {
	return f.value.TypeDef(st).WithConstraint(types.KindBytes)
}
