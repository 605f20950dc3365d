package types

import "github.com/sandrolain/goremap/pkg/path"

// Object is the structured event an expression reads from and writes to.
// Implementations are supplied by the host pipeline; expressions rely on
// nothing beyond this interface.
//
// An Object is owned by a single execution and is never shared between
// concurrently running programs.
type Object interface {
	// Get returns the value stored at p. The boolean is false when nothing is
	// stored there.
	Get(p path.Path) (Value, bool, error)

	// Set stores v at p, creating intermediate containers as needed.
	Set(p path.Path, v Value) error

	// Remove deletes the value at p and returns it.
	Remove(p path.Path) (Value, bool, error)
}
