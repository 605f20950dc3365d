// Package state holds the two state objects threaded through a program.
//
// Compiler lives for one compile pass and records what the static checker
// knows about variables and assigned paths. Program lives for one execution
// against one event and holds the live variable bindings. The two are never
// the same object and neither outlives its pass.
package state

import (
	"fmt"

	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/types"
)

// Compiler is the compile-time state.
type Compiler struct {
	variables map[string]types.TypeDef
	paths     map[string]pathEntry
}

type pathEntry struct {
	path path.Path
	td   types.TypeDef
}

// NewCompiler creates an empty compiler state.
func NewCompiler() *Compiler {
	return &Compiler{
		variables: make(map[string]types.TypeDef),
		paths:     make(map[string]pathEntry),
	}
}

// DeclareVariable records the type of a variable assignment.
func (c *Compiler) DeclareVariable(name string, td types.TypeDef) {
	c.variables[name] = td
}

// VariableType returns the recorded type of a variable.
func (c *Compiler) VariableType(name string) (types.TypeDef, bool) {
	td, ok := c.variables[name]
	return td, ok
}

// DeclarePath records the type of a value assigned to an event path.
func (c *Compiler) DeclarePath(p path.Path, td types.TypeDef) {
	c.paths[p.String()] = pathEntry{path: p, td: td}
}

// PathType returns the recorded type of an assigned path.
func (c *Compiler) PathType(p path.Path) (types.TypeDef, bool) {
	e, ok := c.paths[p.String()]
	return e.td, ok
}

// ForgetPath drops what is known about p and every path below it.
func (c *Compiler) ForgetPath(p path.Path) {
	c.forget(func(q path.Path) bool { return hasPrefix(q, p) })
}

// ForgetWrite drops everything a write to p can change. Besides p and the
// paths below it, that is every proper prefix of p, and every path that
// leaves p through a segment of the other kind: writing .a.b replaces an
// array at .a with a map, so .a[0] is gone, while .a.c survives.
func (c *Compiler) ForgetWrite(p path.Path) {
	c.forget(func(q path.Path) bool {
		n := commonPrefix(q, p)
		if n == len(p) || n == len(q) {
			return true
		}
		return q[n].IsIndex != p[n].IsIndex
	})
}

// ForgetRemoval drops everything removing p can change: p and the paths
// below it and, when p is an array element, every element of that array,
// since the following elements shift down.
func (c *Compiler) ForgetRemoval(p path.Path) {
	if p.IsRoot() || !p.Last().IsIndex {
		c.ForgetPath(p)
		return
	}
	parent := p.Parent()
	c.forget(func(q path.Path) bool {
		return len(q) > len(parent) && hasPrefix(q, parent) && q[len(parent)].IsIndex
	})
}

func (c *Compiler) forget(match func(path.Path) bool) {
	for k, e := range c.paths {
		if match(e.path) {
			delete(c.paths, k)
		}
	}
}

func (c *Compiler) String() string {
	return fmt.Sprintf("Compiler{variables=%d, paths=%d}", len(c.variables), len(c.paths))
}

// hasPrefix reports whether q equals prefix or lies below it.
func hasPrefix(q, prefix path.Path) bool {
	return commonPrefix(q, prefix) == len(prefix)
}

func commonPrefix(a, b path.Path) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Program is the runtime state of one execution.
type Program struct {
	variables map[string]types.Value
}

// NewProgram creates an empty runtime state.
func NewProgram() *Program {
	return &Program{
		variables: make(map[string]types.Value),
	}
}

// SetVariable binds a variable.
func (p *Program) SetVariable(name string, v types.Value) {
	p.variables[name] = v
}

// Variable returns the bound value of a variable.
func (p *Program) Variable(name string) (types.Value, bool) {
	v, ok := p.variables[name]
	return v, ok
}

// Variables returns a copy of all bindings.
func (p *Program) Variables() map[string]types.Value {
	out := make(map[string]types.Value, len(p.variables))
	for k, v := range p.variables {
		out[k] = v
	}
	return out
}

func (p *Program) String() string {
	return fmt.Sprintf("Program{variables=%d}", len(p.variables))
}
