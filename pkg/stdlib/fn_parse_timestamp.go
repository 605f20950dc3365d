package stdlib

import (
	"github.com/sandrolain/goremap/pkg/conversion"
	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// ParseTimestamp parses a string with a strftime-style format. Timestamps
// pass through untouched.
type ParseTimestamp struct{}

var parseTimestampParams = []function.Parameter{
	{
		Keyword:  "value",
		Accepts:  function.AcceptsKind(types.KindBytes | types.KindTimestamp),
		Required: true,
	},
	{Keyword: "format", Accepts: acceptsBytes, Required: true},
}

func (ParseTimestamp) Identifier() string { return "parse_timestamp" }

func (ParseTimestamp) Parameters() []function.Parameter { return parseTimestampParams }

func (ParseTimestamp) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	format, err := args.Required("format")
	if err != nil {
		return nil, err
	}
	return &parseTimestampFn{value: value, format: format}, nil
}

type parseTimestampFn struct {
	value  expression.Expression
	format expression.Expression
}

// Execute only evaluates format when value is Bytes.
func (f *parseTimestampFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := f.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case types.Timestamp:
		return v, nil
	case types.Bytes:
		fv, err := f.format.Execute(st, obj)
		if err != nil {
			return nil, err
		}
		format, err := bytesArg("parse_timestamp", "format", fv)
		if err != nil {
			return nil, err
		}
		conv, err := conversion.Parse("timestamp|" + string(format))
		if err != nil {
			return nil, err
		}
		ts, err := conv.Convert(v)
		if err != nil {
			if e, ok := err.(*types.Error); ok {
				return nil, e.WithFunction("parse_timestamp")
			}
			return nil, err
		}
		return ts, nil
	}
	return nil, types.NewError(types.ErrConversion, "unable to convert value to integer").
		WithFunction("parse_timestamp")
}

func (f *parseTimestampFn) TypeDef(st *state.Compiler) types.TypeDef {
	return f.value.TypeDef(st).
		FallibleUnless(types.KindBytes | types.KindTimestamp).
		WithConstraint(types.KindTimestamp)
}
