package types

import "fmt"

// TypeDef is the static summary of an expression: the variants it may
// produce and whether executing it may fail.
//
// A TypeDef is a prediction. Fallible == false promises that Execute does not
// fail for inputs matching the declared kinds; Fallible == true only warns
// that it might.
type TypeDef struct {
	Kind     Kind
	Fallible bool
}

// Infallible returns a TypeDef for an expression that always yields a value
// of kind k.
func Infallible(k Kind) TypeDef {
	return TypeDef{Kind: k}
}

// Fallible returns a TypeDef for an expression of kind k that may fail.
func Fallible(k Kind) TypeDef {
	return TypeDef{Kind: k, Fallible: true}
}

// WithConstraint narrows the declared kind to exactly k. Fallibility is kept.
func (t TypeDef) WithConstraint(k Kind) TypeDef {
	t.Kind = k
	return t
}

// FallibleUnless marks t fallible when its kind is not within allowed.
// A fallible TypeDef never becomes infallible.
func (t TypeDef) FallibleUnless(allowed Kind) TypeDef {
	if !t.Kind.IsSubsetOf(allowed) {
		t.Fallible = true
	}
	return t
}

// IntoFallible forces the fallible flag when fallible is true.
func (t TypeDef) IntoFallible(fallible bool) TypeDef {
	t.Fallible = t.Fallible || fallible
	return t
}

// Merge combines two branches: kinds are unioned, fallibility is or-ed.
func (t TypeDef) Merge(other TypeDef) TypeDef {
	return TypeDef{
		Kind:     t.Kind | other.Kind,
		Fallible: t.Fallible || other.Fallible,
	}
}

// MergeFallback combines t with an optional fallback branch that only runs
// when t fails. The result fails only if both branches can fail.
func (t TypeDef) MergeFallback(fallback *TypeDef) TypeDef {
	if fallback == nil {
		return t
	}
	return TypeDef{
		Kind:     t.Kind | fallback.Kind,
		Fallible: t.Fallible && fallback.Fallible,
	}
}

func (t TypeDef) String() string {
	if t.Fallible {
		return fmt.Sprintf("%s (fallible)", t.Kind)
	}
	return t.Kind.String()
}
