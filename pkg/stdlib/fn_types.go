package stdlib

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandrolain/goremap/pkg/conversion"
	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// The to_* builtins share one node. When value cannot be converted and a
// default is given, the default is converted instead.

var convertParams = []function.Parameter{
	{Keyword: "value", Accepts: function.AcceptsAny, Required: true},
	{Keyword: "default", Accepts: function.AcceptsAny},
}

type converter struct {
	ident   string
	safe    types.Kind // input kinds that always convert
	out     types.Kind
	convert func(types.Value) (types.Value, error)
}

func (c converter) compile(args *function.ArgumentList) (expression.Expression, error) {
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &convertFn{converter: c, value: value, def: args.Optional("default")}, nil
}

type convertFn struct {
	converter
	value expression.Expression
	def   expression.Expression
}

func (f *convertFn) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	out, err := f.run(f.value, st, obj)
	if err == nil || f.def == nil {
		return out, err
	}
	return f.run(f.def, st, obj)
}

func (f *convertFn) run(e expression.Expression, st *state.Program, obj types.Object) (types.Value, error) {
	v, err := e.Execute(st, obj)
	if err != nil {
		return nil, err
	}
	out, err := f.convert(v)
	if err != nil {
		if te, ok := err.(*types.Error); ok {
			return nil, te.WithFunction(f.ident)
		}
		return nil, err
	}
	return out, nil
}

func (f *convertFn) TypeDef(st *state.Compiler) types.TypeDef {
	td := f.value.TypeDef(st).FallibleUnless(f.safe).WithConstraint(f.out)
	if f.def != nil {
		d := f.def.TypeDef(st).FallibleUnless(f.safe).WithConstraint(f.out)
		td = td.MergeFallback(&d)
	}
	return td
}

func unconvertible(target string, v types.Value) error {
	return types.Errorf(types.ErrConversion, "unable to convert %s value to %s", v.Kind(), target)
}

func unparsable(target string, b types.Bytes, cause error) error {
	return types.Errorf(types.ErrConversion, "unable to parse %q as %s", string(b), target).WithCause(cause)
}

// ── to_int ─────────────────────────────────────────────────────────────────

// ToInt converts a value to Integer. Floats are truncated, timestamps become
// Unix seconds and strings are parsed in base 10.
type ToInt struct{}

var toInt = converter{
	ident:   "to_int",
	safe:    types.KindInteger | types.KindFloat | types.KindBoolean | types.KindNull | types.KindTimestamp,
	out:     types.KindInteger,
	convert: toIntValue,
}

func (ToInt) Identifier() string { return toInt.ident }

func (ToInt) Parameters() []function.Parameter { return convertParams }

func (ToInt) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return toInt.compile(args)
}

func toIntValue(v types.Value) (types.Value, error) {
	switch v := v.(type) {
	case types.Integer:
		return v, nil
	case types.Float:
		f := float64(v)
		if math.IsNaN(f) {
			return types.Integer(0), nil
		}
		if f >= math.MaxInt64 {
			return types.Integer(math.MaxInt64), nil
		}
		if f <= math.MinInt64 {
			return types.Integer(math.MinInt64), nil
		}
		return types.Integer(int64(f)), nil
	case types.Boolean:
		if v {
			return types.Integer(1), nil
		}
		return types.Integer(0), nil
	case types.Null:
		return types.Integer(0), nil
	case types.Timestamp:
		return types.Integer(v.Time().Unix()), nil
	case types.Bytes:
		i, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, unparsable("integer", v, err)
		}
		return types.Integer(i), nil
	}
	return nil, unconvertible("integer", v)
}

// ── to_float ───────────────────────────────────────────────────────────────

// ToFloat converts a value to Float.
type ToFloat struct{}

var toFloat = converter{
	ident:   "to_float",
	safe:    types.KindInteger | types.KindFloat | types.KindBoolean | types.KindNull | types.KindTimestamp,
	out:     types.KindFloat,
	convert: toFloatValue,
}

func (ToFloat) Identifier() string { return toFloat.ident }

func (ToFloat) Parameters() []function.Parameter { return convertParams }

func (ToFloat) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return toFloat.compile(args)
}

func toFloatValue(v types.Value) (types.Value, error) {
	switch v := v.(type) {
	case types.Float:
		return v, nil
	case types.Integer:
		return types.Float(v), nil
	case types.Boolean:
		if v {
			return types.Float(1), nil
		}
		return types.Float(0), nil
	case types.Null:
		return types.Float(0), nil
	case types.Timestamp:
		t := v.Time()
		return types.Float(float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)), nil
	case types.Bytes:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, unparsable("float", v, err)
		}
		return types.Float(f), nil
	}
	return nil, unconvertible("float", v)
}

// ── to_bool ────────────────────────────────────────────────────────────────

// ToBool converts a value to Boolean. Numbers are true when non-zero.
type ToBool struct{}

var toBool = converter{
	ident:   "to_bool",
	safe:    types.KindBoolean | types.KindInteger | types.KindFloat | types.KindNull,
	out:     types.KindBoolean,
	convert: toBoolValue,
}

func (ToBool) Identifier() string { return toBool.ident }

func (ToBool) Parameters() []function.Parameter { return convertParams }

func (ToBool) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return toBool.compile(args)
}

func toBoolValue(v types.Value) (types.Value, error) {
	switch v := v.(type) {
	case types.Boolean:
		return v, nil
	case types.Integer:
		return types.Boolean(v != 0), nil
	case types.Float:
		return types.Boolean(v != 0), nil
	case types.Null:
		return types.Boolean(false), nil
	case types.Bytes:
		b, err := conversion.ParseBool(string(v))
		if err != nil {
			return nil, unparsable("boolean", v, err)
		}
		return types.Boolean(b), nil
	}
	return nil, unconvertible("boolean", v)
}

// ── to_timestamp ───────────────────────────────────────────────────────────

// ToTimestamp converts a value to Timestamp. Numbers are Unix seconds and
// strings are parsed as RFC 3339 or a common log format. Floats that are not
// finite or do not fit int64 seconds fail.
type ToTimestamp struct{}

var toTimestamp = converter{
	ident:   "to_timestamp",
	safe:    types.KindTimestamp | types.KindInteger,
	out:     types.KindTimestamp,
	convert: toTimestampValue,
}

func (ToTimestamp) Identifier() string { return toTimestamp.ident }

func (ToTimestamp) Parameters() []function.Parameter { return convertParams }

func (ToTimestamp) Compile(args *function.ArgumentList) (expression.Expression, error) {
	return toTimestamp.compile(args)
}

func toTimestampValue(v types.Value) (types.Value, error) {
	switch v := v.(type) {
	case types.Timestamp:
		return v, nil
	case types.Integer:
		return types.NewTimestamp(time.Unix(int64(v), 0)), nil
	case types.Float:
		f := float64(v)
		if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return nil, unconvertible("timestamp", v)
		}
		sec, frac := math.Modf(f)
		return types.NewTimestamp(time.Unix(int64(sec), int64(frac*float64(time.Second)))), nil
	case types.Bytes:
		t, err := conversion.ParseTimestamp(string(v))
		if err != nil {
			return nil, unparsable("timestamp", v, err)
		}
		return types.NewTimestamp(t), nil
	}
	return nil, unconvertible("timestamp", v)
}
