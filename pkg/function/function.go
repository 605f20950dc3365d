// Package function defines the contract every builtin implements and the
// machinery that turns a call site into a compiled expression: parameters,
// argument lists, argument resolution and the function registry.
//
// # Implementing a function
//
//	type Upcase struct{}
//
//	func (Upcase) Identifier() string { return "upcase" }
//
//	func (Upcase) Parameters() []function.Parameter {
//	    return []function.Parameter{
//	        {Keyword: "value", Accepts: function.AcceptsKind(types.KindBytes), Required: true},
//	    }
//	}
//
//	func (Upcase) Compile(args *function.ArgumentList) (expression.Expression, error) {
//	    value, err := args.Required("value")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &upcaseFn{value: value}, nil
//	}
package function

import (
	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/types"
)

// Function is a named builtin.
type Function interface {
	// Identifier is the name used at call sites.
	Identifier() string

	// Parameters lists the accepted arguments in positional order. The
	// returned slice is shared and must not be modified.
	Parameters() []Parameter

	// Compile takes the resolved arguments and returns the expression node
	// for this call. It fails with ErrMissingArgument when a required
	// argument is absent. Accepts predicates are not re-checked here.
	Compile(args *ArgumentList) (expression.Expression, error)
}

// Parameter describes one argument of a Function.
type Parameter struct {
	Keyword string
	// Accepts reports whether a statically known argument value is valid.
	// The checker consults it for literal arguments only.
	Accepts  func(types.Value) bool
	Required bool
}

// AcceptsAny accepts every value.
func AcceptsAny(types.Value) bool { return true }

// AcceptsKind returns a predicate accepting values whose variant is in k.
func AcceptsKind(k types.Kind) func(types.Value) bool {
	return func(v types.Value) bool {
		return v != nil && v.Kind().IsSubsetOf(k)
	}
}

// Param looks up a parameter by keyword.
func Param(fn Function, keyword string) (Parameter, bool) {
	for _, p := range fn.Parameters() {
		if p.Keyword == keyword {
			return p, true
		}
	}
	return Parameter{}, false
}
