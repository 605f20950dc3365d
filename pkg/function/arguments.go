package function

import (
	"sort"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/types"
)

// ArgumentList holds the argument expressions of one call, keyed by
// parameter keyword.
//
// Taking an argument out with Required or Optional removes it from the list,
// so every argument expression ends up owned by exactly one node.
type ArgumentList struct {
	args map[string]expression.Expression
}

// NewArgumentList creates an empty list.
func NewArgumentList() *ArgumentList {
	return &ArgumentList{args: make(map[string]expression.Expression)}
}

// Insert binds keyword to e, replacing any previous binding.
func (l *ArgumentList) Insert(keyword string, e expression.Expression) {
	l.args[keyword] = e
}

// Has reports whether keyword is bound.
func (l *ArgumentList) Has(keyword string) bool {
	_, ok := l.args[keyword]
	return ok
}

// Len returns the number of bound arguments.
func (l *ArgumentList) Len() int {
	return len(l.args)
}

// Keywords returns the bound keywords in sorted order.
func (l *ArgumentList) Keywords() []string {
	out := make([]string, 0, len(l.args))
	for k := range l.args {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Required takes the argument bound to keyword. It fails with
// ErrMissingArgument when there is none.
func (l *ArgumentList) Required(keyword string) (expression.Expression, error) {
	e, ok := l.args[keyword]
	if !ok {
		return nil, types.Errorf(types.ErrMissingArgument, "missing required argument %q", keyword)
	}
	delete(l.args, keyword)
	return e, nil
}

// Optional takes the argument bound to keyword, or returns nil.
func (l *ArgumentList) Optional(keyword string) expression.Expression {
	e, ok := l.args[keyword]
	if !ok {
		return nil
	}
	delete(l.args, keyword)
	return e
}

// RequiredPath takes a required argument that must be an event path, as
// used by functions that inspect or modify the event itself.
func (l *ArgumentList) RequiredPath(keyword string) (*expression.Path, error) {
	e, err := l.Required(keyword)
	if err != nil {
		return nil, err
	}
	p, ok := e.(*expression.Path)
	if !ok {
		return nil, types.Errorf(types.ErrInvalidArgument, "argument %q must be a path", keyword)
	}
	return p, nil
}

// Argument is one argument at a call site. An empty Keyword marks a
// positional argument.
type Argument struct {
	Keyword string
	Expr    expression.Expression
}

// Resolve binds call-site arguments to fn's parameters. Positional
// arguments bind in declaration order; keyword arguments bind by name.
//
// Literal arguments are checked against the parameter's Accepts predicate;
// other argument expressions are left to the function's TypeDef.
func Resolve(fn Function, args []Argument) (*ArgumentList, error) {
	params := fn.Parameters()
	list := NewArgumentList()

	next := 0
	for _, arg := range args {
		var param Parameter
		if arg.Keyword == "" {
			for next < len(params) && list.Has(params[next].Keyword) {
				next++
			}
			if next >= len(params) {
				return nil, types.Errorf(types.ErrUnknownArgument,
					"too many arguments: %q takes at most %d", fn.Identifier(), len(params)).
					WithFunction(fn.Identifier())
			}
			param = params[next]
			next++
		} else {
			p, ok := Param(fn, arg.Keyword)
			if !ok {
				return nil, types.Errorf(types.ErrUnknownArgument, "unknown argument keyword %q", arg.Keyword).
					WithFunction(fn.Identifier())
			}
			param = p
		}

		if list.Has(param.Keyword) {
			return nil, types.Errorf(types.ErrDuplicateArgument, "argument %q given more than once", param.Keyword).
				WithFunction(fn.Identifier())
		}

		if lit, ok := arg.Expr.(*expression.Literal); ok && param.Accepts != nil && !param.Accepts(lit.Value()) {
			return nil, types.Errorf(types.ErrUnacceptedArgument,
				"argument %q does not accept a %s value", param.Keyword, lit.Value().Kind()).
				WithFunction(fn.Identifier())
		}

		list.Insert(param.Keyword, arg.Expr)
	}

	return list, nil
}
