package solver

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/lsolve-labs/lsolve/pkg/interp"
)

// infeasiblePenalty is the objective assigned to candidate points where
// a residual cannot be evaluated (division by zero, domain violation).
// Large but finite, so the optimizer backs away instead of crashing.
const infeasiblePenalty = 1e300

// defaultGuess seeds unknowns that have no stored value.
const defaultGuess = 1.0

// Result reports a successful solve.
type Result struct {
	Unknowns   []string           // first-encounter order across equations
	Values     map[string]float64 // solved value per unknown
	Objective  float64            // final sum of squared residuals
	Iterations int
	Unreliable bool    // least-squares fit of an over-determined system
	Warnings   []error // e.g. *OverdeterminedSystemError
}

// Solver solves deferred equation systems against a variable store.
type Solver struct {
	settings Settings
	logger   *slog.Logger
}

// New creates a Solver. A nil logger discards.
func New(settings Settings, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Solver{settings: settings, logger: logger}
}

// Unknowns returns the variables referenced by the equations that have
// no explicit value in the store, in first-encounter order across the
// equation list.
func Unknowns(store *interp.VarStore, equations []interp.Equation) []string {
	var unknowns []string
	seen := make(map[string]bool)
	for _, eq := range equations {
		for _, name := range eq.Vars {
			key := interp.CanonicalName(name)
			if seen[key] || store.IsExplicit(name) {
				continue
			}
			seen[key] = true
			unknowns = append(unknowns, name)
		}
	}
	return unknowns
}

// Solve identifies the unknowns of the deferred equations, checks the
// system shape, and minimizes the summed squared residuals. On
// convergence each unknown's solved value is written back to the store
// with the explicit flag set; on any failure the store is untouched.
//
// The context is checked once per optimizer iteration; cancelling it
// aborts the solve with the context's error.
func (s *Solver) Solve(ctx context.Context, store *interp.VarStore, registry *interp.Registry, equations []interp.Equation) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	unknowns := Unknowns(store, equations)

	if len(equations) == 0 {
		return &Result{Values: map[string]float64{}}, nil
	}

	ov := newOverlay(store, unknowns)
	objective := func(x []float64) float64 {
		ov.setPoint(x)
		return s.residualSumSquares(ov, registry, equations)
	}

	// With no unknowns the equations are pure consistency checks.
	if len(unknowns) == 0 {
		obj := objective(nil)
		if obj <= s.settings.Tolerance {
			return &Result{Values: map[string]float64{}, Objective: obj}, nil
		}
		return nil, &ConvergenceFailureError{Objective: obj}
	}

	if len(equations) < len(unknowns) {
		return nil, &UnderdeterminedSystemError{Equations: len(equations), Unknowns: unknowns}
	}

	var warnings []error
	unreliable := false
	if len(equations) > len(unknowns) {
		warnings = append(warnings, &OverdeterminedSystemError{Equations: len(equations), Unknowns: unknowns})
		unreliable = true
		s.logger.Warn("over-determined system, attempting least-squares fit",
			"equations", len(equations), "unknowns", len(unknowns))
	}

	x0 := s.initialPoint(store, unknowns)

	// Structural failures (unknown function, wrong arity) surface now,
	// before the optimizer turns every failure into a penalty.
	ov.setPoint(x0)
	for i := range equations {
		if _, err := residual(&equations[i], ov, registry); err != nil && !interp.IsNumericError(err) {
			return nil, fmt.Errorf("equation %d: %w", equations[i].Index+1, err)
		}
	}

	s.logger.Debug("solving", "equations", len(equations), "unknowns", unknowns,
		"algorithm", s.settings.Algorithm)

	problem := optimize.Problem{Func: objective}
	var method optimize.Method
	switch s.settings.Algorithm {
	case AlgorithmGradient:
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		}
		method = &optimize.BFGS{}
	default:
		method = &optimize.NelderMead{}
	}

	opt, optErr := optimize.Minimize(problem, x0, &optimize.Settings{
		Converger:       &toleranceConverger{ctx: ctx, tol: s.settings.Tolerance},
		MajorIterations: s.settings.MaxIterations,
	}, method)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opt == nil {
		return nil, &ConvergenceFailureError{Objective: math.Inf(1), Unknowns: unknowns}
	}

	iterations := opt.Stats.MajorIterations
	if opt.F > s.settings.Tolerance {
		s.logger.Debug("solve failed", "objective", opt.F, "iterations", iterations,
			"status", opt.Status, "err", optErr)
		return nil, &ConvergenceFailureError{Objective: opt.F, Iterations: iterations, Unknowns: unknowns}
	}
	if optErr != nil {
		// The method stumbled at the minimum (line search stall and the
		// like); the objective is below tolerance, which is what counts.
		s.logger.Debug("optimizer stopped early", "err", optErr, "objective", opt.F)
	}

	values := make(map[string]float64, len(unknowns))
	for i, name := range unknowns {
		store.Set(name, opt.X[i], true)
		values[name] = opt.X[i]
	}
	s.logger.Debug("converged", "objective", opt.F, "iterations", iterations)

	return &Result{
		Unknowns:   unknowns,
		Values:     values,
		Objective:  opt.F,
		Iterations: iterations,
		Unreliable: unreliable,
		Warnings:   warnings,
	}, nil
}

// residual evaluates one equation's left minus right at the point the
// vars currently describe.
func residual(eq *interp.Equation, vars interp.Vars, registry *interp.Registry) (float64, error) {
	left, err := interp.Eval(eq.Left, vars, registry)
	if err != nil {
		return 0, err
	}
	right, err := interp.Eval(eq.Right, vars, registry)
	if err != nil {
		return 0, err
	}
	return left - right, nil
}

// residualSumSquares is the optimization objective. Any evaluation
// failure or non-finite residual marks the whole point infeasible.
func (s *Solver) residualSumSquares(vars interp.Vars, registry *interp.Registry, equations []interp.Equation) float64 {
	var sum float64
	for i := range equations {
		r, err := residual(&equations[i], vars, registry)
		if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
			return infeasiblePenalty
		}
		sum += r * r
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return infeasiblePenalty
	}
	return sum
}

// initialPoint builds the starting guess: the stored value when one
// exists, the fixed fallback otherwise.
func (s *Solver) initialPoint(store *interp.VarStore, unknowns []string) []float64 {
	x0 := make([]float64, len(unknowns))
	for i, name := range unknowns {
		if rec, ok := store.Record(name); ok && rec.Defined {
			x0[i] = rec.Value
			continue
		}
		x0[i] = defaultGuess
	}
	return x0
}

// toleranceConverger stops the optimizer once the objective falls to
// tolerance, and aborts when the context is cancelled. Minimize calls
// Converged once per major iteration.
type toleranceConverger struct {
	ctx context.Context
	tol float64
}

func (c *toleranceConverger) Init(dim int) {}

func (c *toleranceConverger) Converged(loc *optimize.Location) optimize.Status {
	if c.ctx.Err() != nil {
		return optimize.Failure
	}
	if loc.F <= c.tol {
		return optimize.FunctionConvergence
	}
	return optimize.NotTerminated
}
