package expression

import (
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Literal evaluates to a constant value.
type Literal struct {
	value types.Value
}

// NewLiteral creates a literal node. A nil value is stored as Null.
func NewLiteral(v types.Value) *Literal {
	if v == nil {
		v = types.Null{}
	}
	return &Literal{value: v}
}

// Value returns the constant. Argument resolution uses it to check literal
// arguments against a parameter's accepted values.
func (l *Literal) Value() types.Value {
	return l.value
}

func (l *Literal) Execute(*state.Program, types.Object) (types.Value, error) {
	return l.value, nil
}

func (l *Literal) TypeDef(*state.Compiler) types.TypeDef {
	return types.Infallible(l.value.Kind())
}

func (l *Literal) String() string {
	if b, ok := l.value.(types.Bytes); ok {
		return `"` + string(b) + `"`
	}
	if s, ok := l.value.(interface{ String() string }); ok {
		return s.String()
	}
	return "<literal>"
}
