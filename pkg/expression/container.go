package expression

import (
	"sort"

	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Array builds an array from its element expressions.
type Array struct {
	items []Expression
}

// NewArray creates an array literal node. The node takes ownership of items.
func NewArray(items ...Expression) *Array {
	return &Array{items: items}
}

// Execute evaluates items in order and stops at the first failure.
func (a *Array) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	out := make(types.Array, 0, len(a.items))
	for _, item := range a.items {
		v, err := item.Execute(st, obj)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (a *Array) TypeDef(st *state.Compiler) types.TypeDef {
	td := types.Infallible(types.KindArray)
	for _, item := range a.items {
		td = td.IntoFallible(item.TypeDef(st).Fallible)
	}
	return td
}

// Map builds a map from keyed expressions.
type Map struct {
	keys  []string
	items map[string]Expression
}

// NewMap creates a map literal node. The node takes ownership of items.
func NewMap(items map[string]Expression) *Map {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Map{keys: keys, items: items}
}

// Execute evaluates entries in key order and stops at the first failure.
func (m *Map) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	out := make(types.Map, len(m.keys))
	for _, k := range m.keys {
		v, err := m.items[k].Execute(st, obj)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (m *Map) TypeDef(st *state.Compiler) types.TypeDef {
	td := types.Infallible(types.KindMap)
	for _, k := range m.keys {
		td = td.IntoFallible(m.items[k].TypeDef(st).Fallible)
	}
	return td
}

// Block runs expressions in sequence and evaluates to the last result.
type Block struct {
	exprs []Expression
}

// NewBlock creates a block. The node takes ownership of exprs.
func NewBlock(exprs ...Expression) *Block {
	return &Block{exprs: exprs}
}

func (b *Block) Execute(st *state.Program, obj types.Object) (types.Value, error) {
	var last types.Value = types.Null{}
	for _, e := range b.exprs {
		v, err := e.Execute(st, obj)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (b *Block) TypeDef(st *state.Compiler) types.TypeDef {
	if len(b.exprs) == 0 {
		return types.Infallible(types.KindNull)
	}
	var fallible bool
	for _, e := range b.exprs {
		fallible = fallible || e.TypeDef(st).Fallible
	}
	return b.exprs[len(b.exprs)-1].TypeDef(st).IntoFallible(fallible)
}
