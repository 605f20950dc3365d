package expression

import (
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Variable reads a variable bound earlier in the same run.
type Variable struct {
	name string
}

// NewVariable creates a node reading the variable name.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the variable name.
func (v *Variable) Name() string {
	return v.name
}

func (v *Variable) Execute(st *state.Program, _ types.Object) (types.Value, error) {
	val, ok := st.Variable(v.name)
	if !ok {
		return nil, types.Errorf(types.ErrUndefinedVariable, "undefined variable: $%s", v.name)
	}
	return val, nil
}

// TypeDef is the type recorded by the assignment that declared the
// variable. An undeclared variable may be unset at runtime and is fallible.
func (v *Variable) TypeDef(st *state.Compiler) types.TypeDef {
	if td, ok := st.VariableType(v.name); ok {
		return td
	}
	return types.Fallible(types.KindAny)
}

func (v *Variable) String() string {
	return "$" + v.name
}
