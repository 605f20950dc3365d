package stdlib

import (
	"testing"

	"github.com/sandrolain/goremap/pkg/event"
	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Test-only builders. They bypass the registry and the resolver.

func lit(v interface{}) expression.Expression {
	return expression.NewLiteral(types.MustFrom(v))
}

func field(p string) expression.Expression {
	return expression.NewPath(path.MustParse(p))
}

func newToString(value expression.Expression) expression.Expression {
	return &toStringFn{value: value}
}

func newParseTimestamp(value, format expression.Expression) expression.Expression {
	return &parseTimestampFn{value: value, format: format}
}

// stub is an expression with a fixed TypeDef. It yields value, or fails when
// value is nil.
type stub struct {
	kind     types.Kind
	fallible bool
	value    types.Value
}

func (s stub) Execute(*state.Program, types.Object) (types.Value, error) {
	if s.value == nil {
		return nil, types.NewError(types.ErrConversion, "stub failure")
	}
	return s.value, nil
}

func (s stub) TypeDef(*state.Compiler) types.TypeDef {
	return types.TypeDef{Kind: s.kind, Fallible: s.fallible}
}

func kinded(k types.Kind) expression.Expression {
	return stub{kind: k}
}

// call resolves args against fn and compiles the call.
func call(t *testing.T, fn function.Function, args ...function.Argument) expression.Expression {
	t.Helper()
	list, err := function.Resolve(fn, args)
	if err != nil {
		t.Fatalf("Resolve(%s) error: %v", fn.Identifier(), err)
	}
	e, err := fn.Compile(list)
	if err != nil {
		t.Fatalf("Compile(%s) error: %v", fn.Identifier(), err)
	}
	return e
}

func pos(e expression.Expression) function.Argument {
	return function.Argument{Expr: e}
}

func kw(keyword string, e expression.Expression) function.Argument {
	return function.Argument{Keyword: keyword, Expr: e}
}

func run(e expression.Expression, obj types.Object) (types.Value, error) {
	if obj == nil {
		obj = event.New()
	}
	return e.Execute(state.NewProgram(), obj)
}

func typeDef(e expression.Expression) types.TypeDef {
	return e.TypeDef(state.NewCompiler())
}
