// Package expression defines the executable node of a compiled program and
// the structural nodes every program is built from: literals, event paths,
// variables, assignments, container literals and blocks.
//
// Builtin functions compile to their own Expression implementations; see
// package function for the contract and package stdlib for the catalog.
//
// # Ownership
//
// A compiled tree is strict: every node exclusively owns its children and no
// node is reachable from two parents. Nodes are never mutated after
// construction, so one tree may be executed by many goroutines at once as
// long as each execution uses its own state.Program and types.Object.
package expression

import (
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Expression is a compiled, executable node.
type Expression interface {
	// Execute evaluates the node against one event. It may read and write
	// obj but keeps no reference to it after returning.
	Execute(st *state.Program, obj types.Object) (types.Value, error)

	// TypeDef returns the statically inferred kind and fallibility of the
	// node. It has no side effects and never looks at an event.
	TypeDef(st *state.Compiler) types.TypeDef
}

var (
	_ Expression = (*Literal)(nil)
	_ Expression = (*Path)(nil)
	_ Expression = (*Variable)(nil)
	_ Expression = (*Assignment)(nil)
	_ Expression = (*Array)(nil)
	_ Expression = (*Map)(nil)
	_ Expression = (*Block)(nil)
)

// PathMutator is implemented by nodes that remove event paths as a side
// effect. The compiler uses it to forget what the removals can change.
type PathMutator interface {
	MutatedPaths() []path.Path
}
