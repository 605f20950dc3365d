package types

import "strings"

// Kind is a set of Value variants. The static checker uses it to describe
// every variant an expression may produce.
type Kind uint16

// Value variants as Kind flags.
const (
	KindBytes Kind = 1 << iota
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
	KindRegex
	KindNull
	KindMap
	KindArray
)

// KindAny is the set of all variants.
const KindAny = KindBytes | KindInteger | KindFloat | KindBoolean | KindTimestamp |
	KindRegex | KindNull | KindMap | KindArray

// KindScalar is every variant except the containers.
const KindScalar = KindAny &^ (KindMap | KindArray)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindBytes, "bytes"},
	{KindInteger, "integer"},
	{KindFloat, "float"},
	{KindBoolean, "boolean"},
	{KindTimestamp, "timestamp"},
	{KindRegex, "regex"},
	{KindNull, "null"},
	{KindMap, "map"},
	{KindArray, "array"},
}

// Union returns the set of variants in k or other.
func (k Kind) Union(other Kind) Kind {
	return k | other
}

// IsSubsetOf reports whether every variant in k is also in other.
// The empty set is a subset of every set.
func (k Kind) IsSubsetOf(other Kind) bool {
	return k&^other == 0
}

// Contains reports whether every variant in other is also in k.
func (k Kind) Contains(other Kind) bool {
	return other.IsSubsetOf(k)
}

// IsExact reports whether k names exactly one variant.
func (k Kind) IsExact() bool {
	return k != 0 && k&(k-1) == 0
}

// String renders the set as "bytes | integer", or "any" for KindAny.
func (k Kind) String() string {
	switch k {
	case 0:
		return "none"
	case KindAny:
		return "any"
	}

	names := make([]string, 0, len(kindNames))
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			names = append(names, kn.name)
		}
	}
	return strings.Join(names, " | ")
}
