// Package program runs a sequence of compiled statements against events.
//
// A Program is immutable once built. Run allocates a fresh state.Program per
// call, so one Program may serve many goroutines as long as each passes its
// own Object.
//
// # Example
//
//	st := state.NewCompiler()
//	expr, _ := stdlib.Registry().Compile("to_string", args)
//	p, err := program.New([]program.Statement{program.NewStatement("msg", expr, st)})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := p.Run(ctx, event.New())
package program

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sandrolain/goremap/pkg/expression"
	"github.com/sandrolain/goremap/pkg/state"
	"github.com/sandrolain/goremap/pkg/types"
)

// Metric names recorded when a metrics registry is configured.
const (
	MetricRuns            = "remap_runs_total"
	MetricStatementErrors = "remap_statement_errors_total"
)

// Statement is one top-level expression of a program.
type Statement struct {
	Name    string
	Expr    expression.Expression
	TypeDef types.TypeDef
}

// NewStatement captures expr's TypeDef against st as it is now. Compile
// statements in order so each sees only the assignments before it.
func NewStatement(name string, expr expression.Expression, st *state.Compiler) Statement {
	return Statement{Name: name, Expr: expr, TypeDef: expr.TypeDef(st)}
}

// Program is a compiled, type-checked sequence of statements.
type Program struct {
	statements []Statement
	td         types.TypeDef
	opts       Options
	logger     *slog.Logger
}

// New builds a program. Unless fallible programs are allowed it fails with
// ErrFallibleProgram when any statement may fail.
func New(statements []Statement, opts ...Option) (*Program, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	td := types.Infallible(types.KindNull)
	if len(statements) > 0 {
		td = types.TypeDef{}
		for _, s := range statements {
			td = td.Merge(s.TypeDef)
		}
	}

	if td.Fallible && !options.AllowFallible {
		for i, s := range statements {
			if s.TypeDef.Fallible {
				return nil, types.Errorf(types.ErrFallibleProgram,
					"statement %s is fallible (%s); handle the error or allow fallible programs", label(s, i), s.TypeDef)
			}
		}
	}

	return &Program{
		statements: statements,
		td:         td,
		opts:       options,
		logger:     options.Logger,
	}, nil
}

// TypeDef returns the union of the statements' kinds and whether any of them
// may fail.
func (p *Program) TypeDef() types.TypeDef {
	return p.td
}

// Statements returns the program's statements. The slice must not be
// modified.
func (p *Program) Statements() []Statement {
	return p.statements
}

// Run executes every statement against obj in order and returns the value of
// the last one. It stops at the first failing statement. ctx is checked
// before each statement; a statement already running is not interrupted.
func (p *Program) Run(ctx context.Context, obj types.Object) (types.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	st := state.NewProgram()

	var last types.Value = types.Null{}
	for i, s := range p.statements {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				p.logger.DebugContext(ctx, "remap run interrupted",
					slog.String("statement", label(s, i)),
					slog.Duration("duration", time.Since(start)))
				p.record(ctx, "canceled")
				return nil, err
			}
		}
		v, err := s.Expr.Execute(st, obj)
		if err != nil {
			name := label(s, i)
			code := types.CodeOf(err)
			p.logger.DebugContext(ctx, "remap run failed",
				slog.String("statement", name),
				slog.String("code", string(code)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err))
			p.record(ctx, "error")
			p.inc(ctx, MetricStatementErrors, map[string]string{"statement": name, "code": string(code)})
			return nil, fmt.Errorf("statement %s: %w", name, err)
		}
		if p.opts.Debug {
			p.logger.DebugContext(ctx, "statement executed",
				slog.String("statement", label(s, i)),
				slog.String("kind", v.Kind().String()))
		}
		last = v
	}

	p.record(ctx, "success")
	return last, nil
}

func (p *Program) record(ctx context.Context, outcome string) {
	p.inc(ctx, MetricRuns, map[string]string{"outcome": outcome})
}

func (p *Program) inc(ctx context.Context, name string, labels map[string]string) {
	if p.opts.Metrics == nil {
		return
	}
	if err := p.opts.Metrics.Inc(name, labels); err != nil {
		p.logger.WarnContext(ctx, "recording metric failed", slog.String("metric", name), slog.Any("error", err))
	}
}

func label(s Statement, i int) string {
	if s.Name != "" {
		return s.Name
	}
	return strconv.Itoa(i)
}
