package expression

import (
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Path reads a value from the event.
type Path struct {
	path path.Path
}

// NewPath creates a node reading p.
func NewPath(p path.Path) *Path {
	return &Path{path: p}
}

// Path returns the event path read by the node.
func (p *Path) Path() path.Path {
	return p.path
}

// Execute fails with ErrMissingPath when nothing is stored at the path.
func (p *Path) Execute(_ *state.Program, obj types.Object) (types.Value, error) {
	v, ok, err := obj.Get(p.path)
	if err != nil {
		return nil, types.Errorf(types.ErrMissingPath, "unable to resolve path %s", p.path).WithCause(err)
	}
	if !ok {
		return nil, types.Errorf(types.ErrMissingPath, "missing path: %s", p.path)
	}
	return v, nil
}

// TypeDef is what an earlier assignment stored at the path, or any fallible
// value when the checker knows nothing about it.
func (p *Path) TypeDef(st *state.Compiler) types.TypeDef {
	if td, ok := st.PathType(p.path); ok {
		return td
	}
	return types.Fallible(types.KindAny)
}

func (p *Path) String() string {
	return p.path.String()
}
