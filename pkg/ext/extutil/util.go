// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// AcceptsBytes accepts string literals.
var AcceptsBytes = function.AcceptsKind(types.KindBytes)

// Bytes evaluates e and requires a Bytes result. Any other kind fails with
// ErrArgumentType tagged with fn.
func Bytes(st *state.Program, obj types.Object, fn, keyword string, e expression.Expression) ([]byte, error) {
	v, err := e.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	b, ok := v.(types.Bytes)
	if !ok {
		return nil, types.Errorf(types.ErrArgumentType, "argument %q must be bytes, got %s", keyword, v.Kind()).
			WithFunction(fn)
	}
	return b, nil
}

// BytesTypeDef is the TypeDef of a function over Bytes arguments producing
// out: fallible when any argument may not be Bytes.
func BytesTypeDef(st *state.Compiler, out types.Kind, args ...expression.Expression) types.TypeDef {
	td := types.Infallible(out)
	for _, a := range args {
		td = td.IntoFallible(a.TypeDef(st).FallibleUnless(types.KindBytes).Fallible)
	}
	return td
}
