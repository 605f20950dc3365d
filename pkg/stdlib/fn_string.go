package stdlib

import (
	"bytes"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

var stringParams = []function.Parameter{
	{Keyword: "value", Accepts: acceptsBytes, Required: true},
}

// Upcase converts a string to upper case.
type Upcase struct{}

func (Upcase) Identifier() string { return "upcase" }

func (Upcase) Parameters() []function.Parameter { return stringParams }

func (Upcase) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileMapBytes(args, "upcase", bytes.ToUpper)
}

// Downcase converts a string to lower case.
type Downcase struct{}

func (Downcase) Identifier() string { return "downcase" }

func (Downcase) Parameters() []function.Parameter { return stringParams }

func (Downcase) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return compileMapBytes(args, "downcase", bytes.ToLower)
}

func compileMapBytes(args *function.ArgumentList, ident string, fn func([]byte) []byte) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &mapBytesFn{ident: ident, fn: fn, value: value}, nil
}

type mapBytesFn struct {
	ident string
	fn    func([]byte) []byte
	value expression.Expression
}

func (f *mapBytesFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := f.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	b, err := bytesArg(f.ident, "value", v)
	if err != nil {
		return nil, err
	}
	return types.Bytes(f.fn(b)), nil
}

func (f *mapBytesFn) TypeDef(st *state.Compiler) types.TypeDef {
	return f.value.TypeDef(st).FallibleUnless(types.KindBytes).WithConstraint(types.KindBytes)
}

// ── contains ───────────────────────────────────────────────────────────────

// Contains reports whether substring occurs in value. Matching is case
// sensitive unless case_sensitive is false.
type Contains struct{}

var containsParams = []function.Parameter{
	{Keyword: "value", Accepts: acceptsBytes, Required: true},
	{Keyword: "substring", Accepts: acceptsBytes, Required: true},
	{Keyword: "case_sensitive", Accepts: acceptsBoolean},
}

func (Contains) Identifier() string { return "contains" }

func (Contains) Parameters() []function.Parameter { return containsParams }

func (Contains) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	substring, err := args.Required("substring")
	if err != nil {
		return nil, err
	}
	return &containsFn{
		value:         value,
		substring:     substring,
		caseSensitive: args.Optional("case_sensitive"),
	}, nil
}

type containsFn struct {
	value         expression.Expression
	substring     expression.Expression
	caseSensitive expression.Expression
}

func (f *containsFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := f.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	value, err := bytesArg("contains", "value", v)
	if err != nil {
		return nil, err
	}

	sv, err := f.substring.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	substring, err := bytesArg("contains", "substring", sv)
	if err != nil {
		return nil, err
	}

	sensitive := true
	if f.caseSensitive != nil {
		cv, err := f.caseSensitive.Execute(st, obj)
		if err != nil {
			return nil, err
		}
		b, ok := cv.(types.Boolean)
		if !ok {
			return nil, argumentType("contains", "case_sensitive", types.KindBoolean, cv)
		}
		sensitive = bool(b)
	}

	if !sensitive {
		return types.Boolean(bytes.Contains(bytes.ToLower(value), bytes.ToLower(substring))), nil
	}
	return types.Boolean(bytes.Contains(value, substring)), nil
}

func (f *containsFn) TypeDef(st *state.Compiler) types.TypeDef {
	td := types.Infallible(types.KindBoolean).
		IntoFallible(f.value.TypeDef(st).FallibleUnless(types.KindBytes).Fallible).
		IntoFallible(f.substring.TypeDef(st).FallibleUnless(types.KindBytes).Fallible)
	if f.caseSensitive != nil {
		td = td.IntoFallible(f.caseSensitive.TypeDef(st).FallibleUnless(types.KindBoolean).Fallible)
	}
	return td
}
