package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/function"
	"github.com/sandrolain/goremap/pkg/path"
	"github.com/sandrolain/goremap/pkg/program"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Compile lowers doc into expressions resolved against reg and builds the
// program. The document's allow_fallible setting applies unless opts
// override it.
func Compile(doc *Document, reg *function.Registry, opts ...program.Option) (*program.Program, error) {
	st := state.NewCompiler()
	c := &compiler{reg: reg, st: st}

	statements := make([]program.Statement, 0, len(doc.Statements))
	for i, s := range doc.Statements {
		stmt, err := c.statement(s)
		if err != nil {
			return nil, fmt.Errorf("statement %s: %w", statementLabel(s, i), err)
		}
		statements = append(statements, stmt)
	}

	opts = append([]program.Option{program.WithAllowFallible(doc.AllowFallible)}, opts...)
	p, err := program.New(statements, opts...)
	if err != nil {
		return nil, err
	}

	var options program.Options
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("compiled remap program",
		slog.Int("statements", len(statements)),
		slog.String("hash", doc.Hash()),
		slog.String("type", p.TypeDef().String()))

	return p, nil
}

func statementLabel(s Statement, i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprint(i)
}

type compiler struct {
	reg *function.Registry
	st  *state.Compiler
}

func (c *compiler) statement(s Statement) (program.Statement, error) {
	e, err := c.node(&s.Node)
	if err != nil {
		return program.Statement{}, err
	}

	switch {
	case s.Target == "":
	case strings.HasPrefix(s.Target, "$"):
		e = expression.NewVariableAssignment(strings.TrimPrefix(s.Target, "$"), e, c.st)
	default:
		p, err := parsePath(s.Target)
		if err != nil {
			return program.Statement{}, err
		}
		e = expression.NewPathAssignment(p, e, c.st)
	}

	return program.NewStatement(s.Name, e, c.st), nil
}

func (c *compiler) node(n *Node) (expression.Expression, error) {
	switch n.Form() {
	case "literal":
		raw, err := n.literalValue()
		if err != nil {
			return nil, types.NewError(types.ErrInvalidDocument, "invalid literal").WithCause(err)
		}
		v, err := types.From(raw)
		if err != nil {
			return nil, types.NewError(types.ErrInvalidDocument, "invalid literal").WithCause(err)
		}
		return expression.NewLiteral(v), nil

	case "path":
		p, err := parsePath(n.Path)
		if err != nil {
			return nil, err
		}
		return expression.NewPath(p), nil

	case "var":
		return expression.NewVariable(n.Var), nil

	case "regex":
		re, err := types.NewRegex(n.Regex)
		if err != nil {
			return nil, types.Errorf(types.ErrInvalidDocument, "invalid regex %q", n.Regex).WithCause(err)
		}
		return expression.NewLiteral(re), nil

	case "call":
		return c.call(n)

	case "array":
		items := make([]expression.Expression, len(n.Array))
		for i := range n.Array {
			e, err := c.node(&n.Array[i])
			if err != nil {
				return nil, fmt.Errorf("array item %d: %w", i, err)
			}
			items[i] = e
		}
		return expression.NewArray(items...), nil

	case "map":
		items := make(map[string]expression.Expression, len(n.Map))
		for k, item := range n.Map {
			item := item
			e, err := c.node(&item)
			if err != nil {
				return nil, fmt.Errorf("map key %q: %w", k, err)
			}
			items[k] = e
		}
		return expression.NewMap(items), nil

	case "block":
		exprs := make([]expression.Expression, len(n.Block))
		for i := range n.Block {
			e, err := c.node(&n.Block[i])
			if err != nil {
				return nil, fmt.Errorf("block item %d: %w", i, err)
			}
			exprs[i] = e
		}
		return expression.NewBlock(exprs...), nil
	}

	return nil, types.NewError(types.ErrInvalidDocument, "empty node")
}

// call compiles arguments before the call itself, in document order. Paths
// removed by the call are forgotten by the checker.
func (c *compiler) call(n *Node) (expression.Expression, error) {
	args := make([]function.Argument, 0, n.Args.Len())
	for i := range n.Args.Positional {
		e, err := c.node(&n.Args.Positional[i])
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", n.Call, i, err)
		}
		args = append(args, function.Argument{Expr: e})
	}
	for _, kw := range n.Args.Keyword {
		kw := kw
		e, err := c.node(&kw.Value)
		if err != nil {
			return nil, fmt.Errorf("%s argument %q: %w", n.Call, kw.Keyword, err)
		}
		args = append(args, function.Argument{Keyword: kw.Keyword, Expr: e})
	}

	e, err := c.reg.Compile(n.Call, args)
	if err != nil {
		return nil, err
	}
	if m, ok := e.(expression.PathMutator); ok {
		for _, p := range m.MutatedPaths() {
			c.st.ForgetRemoval(p)
		}
	}
	return e, nil
}

func parsePath(s string) (path.Path, error) {
	p, err := path.Parse(s)
	if err != nil {
		return nil, types.Errorf(types.ErrInvalidPath, "invalid path %q", s).WithCause(err)
	}
	return p, nil
}
