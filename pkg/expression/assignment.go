package expression

import (
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Assignment evaluates a value and stores it in a variable or at an event
// path. It evaluates to the stored value.
type Assignment struct {
	variable string
	path     path.Path
	isPath   bool
	value    Expression
	td       types.TypeDef
}

// NewVariableAssignment creates "$name = value" and records the variable's
// type in the compiler state so later reads of it type-check.
func NewVariableAssignment(name string, value Expression, st *state.Compiler) *Assignment {
	td := value.TypeDef(st)
	st.DeclareVariable(name, types.Infallible(td.Kind))
	return &Assignment{variable: name, value: value, td: td}
}

// NewPathAssignment creates ".path = value" and records the path's type in
// the compiler state, after forgetting whatever the write can change.
func NewPathAssignment(p path.Path, value Expression, st *state.Compiler) *Assignment {
	td := value.TypeDef(st)
	st.ForgetWrite(p)
	st.DeclarePath(p, types.Infallible(td.Kind))
	return &Assignment{path: p, isPath: true, value: value, td: td}
}

func (a *Assignment) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	v, err := a.value.Execute(st, obj)
	if err != nil {
		return nil, err
	}

	if !a.isPath {
		st.SetVariable(a.variable, v)
		return v, nil
	}
	if err := obj.Set(a.path, v); err != nil {
		return nil, types.Errorf(types.ErrPathConflict, "unable to assign %s", a.path).WithCause(err)
	}
	return v, nil
}

// TypeDef is the value's type as seen when the assignment was compiled.
// Replacing the whole event only succeeds with a map.
func (a *Assignment) TypeDef(*state.Compiler) types.TypeDef {
	td := a.td
	if a.isPath && a.path.IsRoot() {
		td = td.FallibleUnless(types.KindMap)
	}
	return td
}

func (a *Assignment) String() string {
	if a.isPath {
		return a.path.String() + " = ..."
	}
	return "$" + a.variable + " = ..."
}
