package engine

// run.go - pipeline orchestration for running and checking files

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lsolve-labs/lsolve/internal/history"
	"github.com/lsolve-labs/lsolve/pkg/ast"
	"github.com/lsolve-labs/lsolve/pkg/interp"
	"github.com/lsolve-labs/lsolve/pkg/parser"
	"github.com/lsolve-labs/lsolve/pkg/solver"
	"github.com/lsolve-labs/lsolve/pkg/units"
)

// Run parses, executes, and solves source. Parse and execution errors
// fail the run: the error comes back alongside a Result that carries
// the matching diagnostic and nothing else. Solver-phase failures are
// not errors: the Result has Solved false, the diagnostics, and the
// variable state the assignment phase produced. A cancelled context
// aborts with the context's error.
func (e *Engine) Run(ctx context.Context, name, source string) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	e.logger.Info("starting run", "name", name)

	file, err := parser.Parse(source)
	if err != nil {
		return fatalResult(name, KindSyntax, err), err
	}

	store := interp.NewVarStore()
	for varName, unit := range units.Extract(source) {
		store.SetUnit(varName, units.Normalize(unit))
	}

	registry := interp.Builtins()
	execRes, err := interp.NewExecutor(store, registry, e.logger).Execute(file)
	if err != nil {
		return fatalResult(name, KindEvaluation, err), err
	}

	res := &Result{
		Name:       name,
		Strings:    execRes.Strings,
		Directives: execRes.Directives,
		Plots:      execRes.Plots,
	}
	res.Stats.Statements = len(file.Statements)
	res.Stats.Equations = len(execRes.Equations)
	unknowns := solver.Unknowns(store, execRes.Equations)
	res.Stats.Unknowns = len(unknowns)

	solved := map[string]bool{}
	sres, solveErr := solver.New(e.settings, e.logger).Solve(ctx, store, registry, execRes.Equations)
	if solveErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		res.Diagnostics = append(res.Diagnostics, solveDiagnostic(solveErr, unknowns))
		var convErr *solver.ConvergenceFailureError
		if errors.As(solveErr, &convErr) {
			res.Stats.Iterations = convErr.Iterations
			res.Stats.Objective = convErr.Objective
		}
		e.logger.Info("run unsolved", "name", name, "error", solveErr.Error())
	} else {
		res.Solved = true
		res.Unreliable = sres.Unreliable
		res.Stats.Iterations = sres.Iterations
		res.Stats.Objective = sres.Objective
		for _, w := range sres.Warnings {
			res.Diagnostics = append(res.Diagnostics, solveWarning(w, unknowns))
		}
		for _, u := range sres.Unknowns {
			solved[interp.CanonicalName(u)] = true
		}
		e.logger.Info("run solved", "name", name,
			"unknowns", len(sres.Unknowns), "iterations", sres.Iterations)
	}

	e.collectVariables(res, store, solved)
	res.Stats.Duration = time.Since(start)

	e.recordRun(ctx, res)
	return res, nil
}

// Check validates source without solving it: syntax, the assignment
// phase, system shape, and unit annotations.
func (e *Engine) Check(name, source string) (*CheckReport, error) {
	file, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	store := interp.NewVarStore()
	annotations := units.Extract(source)
	for varName, unit := range annotations {
		store.SetUnit(varName, units.Normalize(unit))
	}

	registry := interp.Builtins()
	execRes, err := interp.NewExecutor(store, registry, e.logger).Execute(file)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{
		Name:       name,
		Statements: len(file.Statements),
		Equations:  len(execRes.Equations),
		Unknowns:   solver.Unknowns(store, execRes.Equations),
		Units:      make(map[string]string, len(annotations)),
	}
	for _, s := range file.Statements {
		if _, ok := s.(*ast.Assign); ok {
			report.Assignments++
		}
	}
	for varName, unit := range annotations {
		report.Units[varName] = units.Normalize(unit)
	}

	eqs, unk := report.Equations, len(report.Unknowns)
	switch {
	case eqs > 0 && unk > eqs:
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Severity:  SeverityError,
			Kind:      KindUnderdetermined,
			Message:   (&solver.UnderdeterminedSystemError{Equations: eqs, Unknowns: report.Unknowns}).Error(),
			Variables: report.Unknowns,
		})
	case unk > 0 && eqs > unk:
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Severity:  SeverityWarning,
			Kind:      KindOverdetermined,
			Message:   (&solver.OverdeterminedSystemError{Equations: eqs, Unknowns: report.Unknowns}).Error(),
			Variables: report.Unknowns,
		})
	}

	varNames := make([]string, 0, len(report.Units))
	for varName := range report.Units {
		varNames = append(varNames, varName)
	}
	sort.Strings(varNames)
	for _, varName := range varNames {
		if _, err := e.units.Resolve(report.Units[varName]); err != nil {
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				Severity:  SeverityWarning,
				Kind:      KindUnknownUnit,
				Message:   fmt.Sprintf("variable %s: %s", varName, err.Error()),
				Variables: []string{varName},
			})
		}
	}

	return report, nil
}

// fatalResult wraps a pre-solve failure so front ends still get a
// structured diagnostic next to the error.
func fatalResult(name, kind string, err error) *Result {
	return &Result{
		Name: name,
		Diagnostics: []Diagnostic{
			{Severity: SeverityError, Kind: kind, Message: err.Error()},
		},
	}
}

// collectVariables builds the final variable listing in first-write
// order and flags unit annotations the table does not recognize.
func (e *Engine) collectVariables(res *Result, store *interp.VarStore, solved map[string]bool) {
	warned := map[string]bool{}
	for _, name := range store.AllNames() {
		rec, ok := store.Record(name)
		if !ok || !rec.Defined {
			// A unit annotation alone does not make a variable.
			continue
		}

		v := VariableResult{
			Name:     rec.Name,
			Value:    rec.Value,
			Unit:     rec.Unit,
			Explicit: rec.Explicit,
			Solved:   solved[interp.CanonicalName(rec.Name)],
		}
		if rec.Unit != "" {
			resolution, err := e.units.Resolve(rec.Unit)
			if err == nil {
				v.Unit = resolution.Unit
				v.Quantity = resolution.Quantity
			} else if !warned[rec.Unit] {
				warned[rec.Unit] = true
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity:  SeverityWarning,
					Kind:      KindUnknownUnit,
					Message:   fmt.Sprintf("variable %s: %s", rec.Name, err.Error()),
					Variables: []string{rec.Name},
				})
			}
		}
		res.Variables = append(res.Variables, v)
	}
}

// recordRun persists the outcome when a history store is attached.
// Recording failures are logged, never fatal.
func (e *Engine) recordRun(ctx context.Context, res *Result) {
	if e.history == nil {
		return
	}

	run := &history.Run{
		Label:      res.Name,
		Status:     history.StatusSolved,
		Equations:  res.Stats.Equations,
		Unknowns:   res.Stats.Unknowns,
		Iterations: res.Stats.Iterations,
		Objective:  res.Stats.Objective,
		DurationMS: res.Stats.Duration.Milliseconds(),
	}
	if !res.Solved {
		run.Status = history.StatusFailed
		if errs := res.Errors(); len(errs) > 0 {
			run.Error = errs[0].Message
		}
	}
	for _, v := range res.Variables {
		run.Variables = append(run.Variables, history.Variable{
			Name:   v.Name,
			Value:  v.Value,
			Unit:   v.Unit,
			Solved: v.Solved,
		})
	}

	if err := e.history.RecordRun(ctx, run); err != nil {
		e.logger.Warn("failed to record run", "name", res.Name, "error", err.Error())
	}
}

// solveDiagnostic classifies a solver failure.
func solveDiagnostic(err error, unknowns []string) Diagnostic {
	var under *solver.UnderdeterminedSystemError
	var conv *solver.ConvergenceFailureError
	switch {
	case errors.As(err, &under):
		return Diagnostic{
			Severity:  SeverityError,
			Kind:      KindUnderdetermined,
			Message:   err.Error(),
			Variables: under.Unknowns,
		}
	case errors.As(err, &conv):
		return Diagnostic{
			Severity:  SeverityError,
			Kind:      KindNoConvergence,
			Message:   err.Error(),
			Variables: conv.Unknowns,
		}
	default:
		return Diagnostic{
			Severity:  SeverityError,
			Kind:      KindEvaluation,
			Message:   err.Error(),
			Variables: unknowns,
			Equations: equationNumbers(err),
		}
	}
}

// solveWarning classifies a solver warning.
func solveWarning(err error, unknowns []string) Diagnostic {
	var over *solver.OverdeterminedSystemError
	if errors.As(err, &over) {
		return Diagnostic{
			Severity:  SeverityWarning,
			Kind:      KindOverdetermined,
			Message:   err.Error(),
			Variables: over.Unknowns,
		}
	}
	return Diagnostic{Severity: SeverityWarning, Kind: KindEvaluation, Message: err.Error(), Variables: unknowns}
}

// equationNumbers pulls the 1-based equation number out of errors the
// solver wraps as "equation N: ...".
func equationNumbers(err error) []int {
	var n int
	if _, scanErr := fmt.Sscanf(err.Error(), "equation %d:", &n); scanErr == nil && n > 0 {
		return []int{n}
	}
	return nil
}
