package interp

import (
	"fmt"
	"log/slog"

	"github.com/lsolve-labs/lsolve/pkg/ast"
	"github.com/lsolve-labs/lsolve/pkg/token"
)

// Equation is a deferred equation: its two sides, a stable source-order
// index for deterministic residual ordering, and the variables it
// references in first-encounter order.
type Equation struct {
	Index int
	Left  ast.Expr
	Right ast.Expr
	Vars  []string
	Pos   token.Position
}

// Result is what one pass over a file's statements produced.
type Result struct {
	Equations  []Equation
	Strings    map[string]string // string-literal assignments, display only
	Directives []string
	Plots      []string
}

// Executor walks a file's statements strictly in source order:
// assignments evaluate immediately against the store, equations are
// deferred, directives and plot commands pass through untouched.
type Executor struct {
	store    *VarStore
	registry *Registry
	logger   *slog.Logger
}

// NewExecutor creates an executor over the given store and registry.
// A nil logger discards.
func NewExecutor(store *VarStore, registry *Registry, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{store: store, registry: registry, logger: logger}
}

// Execute runs the statement list. The first evaluation error aborts
// the run: assignments made before the failing statement remain in the
// store, nothing after it executes.
func (x *Executor) Execute(file *ast.File) (*Result, error) {
	res := &Result{Strings: make(map[string]string)}

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.Assign:
			if err := x.execAssign(s, res); err != nil {
				return nil, err
			}

		case *ast.Equation:
			eq := Equation{
				Index: len(res.Equations),
				Left:  s.Left,
				Right: s.Right,
				Vars:  ReferencedVars(s.Left, s.Right),
				Pos:   s.Position,
			}
			res.Equations = append(res.Equations, eq)
			x.logger.Debug("deferred equation", "index", eq.Index, "vars", eq.Vars)

		case *ast.Directive:
			res.Directives = append(res.Directives, s.Raw)

		case *ast.PlotCommand:
			res.Plots = append(res.Plots, s.Raw)
		}
	}
	return res, nil
}

func (x *Executor) execAssign(s *ast.Assign, res *Result) error {
	// String assignments never enter the numeric store; they are
	// carried for display alongside directives and plots.
	if lit, ok := s.Value.(*ast.StringLit); ok {
		res.Strings[s.Target.Name] = lit.Value
		x.logger.Debug("string assignment", "name", s.Target.Name)
		return nil
	}

	value, err := Eval(s.Value, x.store, x.registry)
	if err != nil {
		return fmt.Errorf("line %d: %w", s.Position.Line, err)
	}
	x.store.Set(s.Target.Name, value, true)
	x.logger.Debug("assigned", "name", s.Target.Name, "value", value)
	return nil
}
