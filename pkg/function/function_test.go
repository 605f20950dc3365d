package function_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/types"
)

// pad(value, width = 0, fill = " ") records the arguments it was compiled
// with.
type pad struct {
	got *function.ArgumentList
}

func (*pad) Identifier() string { return "pad" }

func (*pad) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Accepts: function.AcceptsKind(types.KindBytes), Required: true},
		{Keyword: "width", Accepts: function.AcceptsKind(types.KindInteger)},
		{Keyword: "fill", Accepts: function.AcceptsAny},
	}
}

func (p *pad) Compile(args *function.ArgumentList) (expression.Expression, error) {
	p.got = args
	value, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return value, nil
}

func lit(v interface{}) expression.Expression {
	return expression.NewLiteral(types.MustFrom(v))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		args []function.Argument
		want []string
		code types.ErrorCode
	}{
		{
			name: "positional",
			args: []function.Argument{{Expr: lit("a")}, {Expr: lit(3)}},
			want: []string{"value", "width"},
		},
		{
			name: "keyword out of order",
			args: []function.Argument{{Keyword: "fill", Expr: lit("-")}, {Keyword: "value", Expr: lit("a")}},
			want: []string{"fill", "value"},
		},
		{
			name: "positional skips keywords already bound",
			args: []function.Argument{{Keyword: "value", Expr: lit("a")}, {Expr: lit(3)}},
			want: []string{"value", "width"},
		},
		{
			name: "non-literal arguments are not checked",
			args: []function.Argument{{Expr: expression.NewPath(path.MustParse(".n"))}},
			want: []string{"value"},
		},
		{
			name: "too many positionals",
			args: []function.Argument{{Expr: lit("a")}, {Expr: lit(1)}, {Expr: lit("b")}, {Expr: lit("c")}},
			code: types.ErrUnknownArgument,
		},
		{
			name: "unknown keyword",
			args: []function.Argument{{Keyword: "colour", Expr: lit("a")}},
			code: types.ErrUnknownArgument,
		},
		{
			name: "duplicate keyword",
			args: []function.Argument{{Expr: lit("a")}, {Keyword: "value", Expr: lit("b")}},
			code: types.ErrDuplicateArgument,
		},
		{
			name: "literal rejected",
			args: []function.Argument{{Expr: lit("a")}, {Keyword: "width", Expr: lit("wide")}},
			code: types.ErrUnacceptedArgument,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := function.Resolve(&pad{}, tc.args)
			if tc.code != "" {
				require.Error(t, err)
				assert.Equal(t, tc.code, types.CodeOf(err))
				var e *types.Error
				require.True(t, errors.As(err, &e))
				assert.Equal(t, "pad", e.Function)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, list.Keywords())
		})
	}
}

func TestArgumentList(t *testing.T) {
	l := function.NewArgumentList()
	l.Insert("a", lit(1))
	l.Insert("p", expression.NewPath(path.MustParse(".x")))
	assert.Equal(t, 2, l.Len())

	e, err := l.Required("a")
	require.NoError(t, err)
	assert.NotNil(t, e)
	assert.False(t, l.Has("a"), "Required takes the argument out")

	_, err = l.Required("a")
	assert.Equal(t, types.ErrMissingArgument, types.CodeOf(err))
	assert.Nil(t, l.Optional("missing"))

	p, err := l.RequiredPath("p")
	require.NoError(t, err)
	assert.Equal(t, ".x", p.Path().String())

	l.Insert("q", lit("not a path"))
	_, err = l.RequiredPath("q")
	assert.Equal(t, types.ErrInvalidArgument, types.CodeOf(err))
}

func TestAcceptsKind(t *testing.T) {
	accepts := function.AcceptsKind(types.KindBytes | types.KindNull)
	assert.True(t, accepts(types.Bytes("x")))
	assert.True(t, accepts(types.Null{}))
	assert.False(t, accepts(types.Integer(1)))
	assert.False(t, accepts(nil))
	assert.True(t, function.AcceptsAny(types.Map{}))
}

func TestRegistry(t *testing.T) {
	p := &pad{}
	r, err := function.NewRegistry(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"pad"}, r.Names())

	_, err = function.NewRegistry(&pad{}, &pad{})
	assert.Equal(t, types.ErrDuplicateFunction, types.CodeOf(err))

	_, err = r.With(&pad{})
	assert.Equal(t, types.ErrDuplicateFunction, types.CodeOf(err))

	_, err = r.Lookup("nope")
	assert.Equal(t, types.ErrUnknownFunction, types.CodeOf(err))

	e, err := r.Compile("pad", []function.Argument{{Expr: lit("a")}, {Keyword: "fill", Expr: lit(".")}})
	require.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, []string{"fill"}, p.got.Keywords(), "only taken arguments leave the list")

	_, err = r.Compile("pad", []function.Argument{{Keyword: "width", Expr: lit(1)}})
	require.Error(t, err)
	var fe *types.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, types.ErrMissingArgument, fe.Code)
	assert.Equal(t, "pad", fe.Function, "compile errors are tagged with the function")
}

func TestMustNewRegistryPanics(t *testing.T) {
	assert.Panics(t, func() { function.MustNewRegistry(&pad{}, &pad{}) })
}
