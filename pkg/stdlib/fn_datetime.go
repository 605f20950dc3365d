package stdlib

import (
	"time"

	"github.com/itchyny/timefmt-go"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// ── format_timestamp ───────────────────────────────────────────────────────

// FormatTimestamp renders a timestamp with a strftime-style format.
type FormatTimestamp struct{}

var formatTimestampParams = []function.Parameter{
	{Keyword: "value", Accepts: acceptsTimestamp, Required: true},
	{Keyword: "format", Accepts: acceptsBytes, Required: true},
}

func (FormatTimestamp) Identifier() string { return "format_timestamp" }

func (FormatTimestamp) Parameters() []function.Parameter { return formatTimestampParams }

func (FormatTimestamp) Compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	format, err := args.Required("format")
	if err != nil {
		return nil, err
	}
	return &formatTimestampFn{value: value, format: format}, nil
}

type formatTimestampFn struct {
	value  expression.Expression
	format expression.Expression
}

func (f *formatTimestampFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := f.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	ts, ok := v.(types.Timestamp)
	if !ok {
		return nil, argumentType("format_timestamp", "value", types.KindTimestamp, v)
	}

	fv, err := f.format.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	format, err := bytesArg("format_timestamp", "format", fv)
	if err != nil {
		return nil, err
	}

	return types.Bytes(timefmt.Format(ts.Time(), string(format))), nil
}

func (f *formatTimestampFn) TypeDef(st *state.Compiler) types.TypeDef {
	value := f.value.TypeDef(st).FallibleUnless(types.KindTimestamp)
	format := f.format.TypeDef(st).FallibleUnless(types.KindBytes)
	return value.Merge(format).WithConstraint(types.KindBytes)
}

// ── now ────────────────────────────────────────────────────────────────────

// Now returns the current time. Clock replaces time.Now when set.
type Now struct {
	Clock func() time.Time
}

func (Now) Identifier() string { return "now" }

func (Now) Parameters() []function.Parameter { return nil }

func (n Now) Compile(*function.ArgumentList) (expression.Expression, error) {
	clock := n.Clock
	if clock == nil {
		clock = time.Now
	}
	return &nowFn{clock: clock}, nil
}

type nowFn struct {
	clock func() time.Time
}

func (f *nowFn) Execute(*state.Program, types.Object) (types.Value, error) {
	return types.NewTimestamp(f.clock()), nil
}

func (f *nowFn) TypeDef(*state.Compiler) types.TypeDef {
	return types.Infallible(types.KindTimestamp)
}
