package solver_test

import (
	"context"
	"testing"

	"github.com/lsolve-labs/lsolve/pkg/interp"
	"github.com/lsolve-labs/lsolve/pkg/parser"
	"github.com/lsolve-labs/lsolve/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup parses and executes source, returning the run state the solver
// consumes.
func setup(t *testing.T, source string) (*interp.VarStore, *interp.Registry, []interp.Equation) {
	t.Helper()
	file, err := parser.Parse(source)
	require.NoError(t, err)

	store := interp.NewVarStore()
	registry := interp.Builtins()
	res, err := interp.NewExecutor(store, registry, nil).Execute(file)
	require.NoError(t, err)
	return store, registry, res.Equations
}

func solve(t *testing.T, settings solver.Settings, source string) (*interp.VarStore, *solver.Result, error) {
	t.Helper()
	store, registry, equations := setup(t, source)
	res, err := solver.New(settings, nil).Solve(context.Background(), store, registry, equations)
	return store, res, err
}

func mustGet(t *testing.T, store *interp.VarStore, name string) float64 {
	t.Helper()
	v, err := store.Get(name)
	require.NoError(t, err)
	return v
}

// ---------- Convergence Tests ----------

func TestSquareSystemConverges(t *testing.T) {
	store, res, err := solve(t, solver.DefaultSettings(), "x + y = 10\nx - y = 2")
	require.NoError(t, err)

	assert.InDelta(t, 6.0, mustGet(t, store, "x"), 2e-3)
	assert.InDelta(t, 4.0, mustGet(t, store, "y"), 2e-3)
	assert.LessOrEqual(t, res.Objective, 1e-6)
	assert.Equal(t, []string{"x", "y"}, res.Unknowns)
	assert.True(t, store.IsExplicit("x"), "solved values are explicit")
	assert.True(t, store.IsExplicit("y"))
	assert.False(t, res.Unreliable)
}

func TestGradientAlgorithmConverges(t *testing.T) {
	settings := solver.DefaultSettings()
	settings.Algorithm = solver.AlgorithmGradient

	store, res, err := solve(t, settings, "x + y = 10\nx - y = 2")
	require.NoError(t, err)

	assert.InDelta(t, 6.0, mustGet(t, store, "x"), 2e-3)
	assert.InDelta(t, 4.0, mustGet(t, store, "y"), 2e-3)
	assert.LessOrEqual(t, res.Objective, 1e-6)
}

func TestNonlinearSystem(t *testing.T) {
	store, _, err := solve(t, solver.DefaultSettings(), "x * x + 0 = 4")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, mustGet(t, store, "x"), 1e-2)
}

func TestExplicitValuesFeedEquations(t *testing.T) {
	source := `m_dot := 2
cp := 4
dT := 10
m_dot * cp * dT = Q * 1
`
	store, res, err := solve(t, solver.DefaultSettings(), source)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q"}, res.Unknowns)
	assert.InDelta(t, 80.0, mustGet(t, store, "Q"), 1e-2)
}

func TestStoredGuessSelectsBranch(t *testing.T) {
	// x^2 = 4 has roots at +2 and -2; a stored guess near -2 pulls the
	// solve into that basin.
	store, registry, equations := setup(t, "x * x + 0 = 4")
	store.Set("x", -1.5, false)

	res, err := solver.New(solver.DefaultSettings(), nil).Solve(context.Background(), store, registry, equations)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, res.Unknowns, "a non-explicit value is still an unknown")
	assert.InDelta(t, -2.0, mustGet(t, store, "x"), 1e-2)
}

// ---------- System Shape Tests ----------

func TestUnderdeterminedFailsFast(t *testing.T) {
	store, _, err := solve(t, solver.DefaultSettings(), "x + y = 10")
	require.Error(t, err)

	var underErr *solver.UnderdeterminedSystemError
	require.ErrorAs(t, err, &underErr)
	assert.Equal(t, 1, underErr.Equations)
	assert.Equal(t, []string{"x", "y"}, underErr.Unknowns)
	assert.Contains(t, err.Error(), "x, y")

	assert.False(t, store.IsExplicit("x"), "no solve was attempted")
	_, getErr := store.Get("x")
	require.Error(t, getErr, "store unchanged")
}

func TestOverdeterminedSolvesWithWarning(t *testing.T) {
	store, res, err := solve(t, solver.DefaultSettings(), "2 * x + 0 = 8\n3 * x + 0 = 12")
	require.NoError(t, err)

	assert.True(t, res.Unreliable)
	require.Len(t, res.Warnings, 1)
	var overErr *solver.OverdeterminedSystemError
	require.ErrorAs(t, res.Warnings[0], &overErr)
	assert.Equal(t, 2, overErr.Equations)

	assert.InDelta(t, 4.0, mustGet(t, store, "x"), 1e-2)
}

func TestUnknownsOrderAndDedup(t *testing.T) {
	store, _, equations := setup(t, "b + a = 3\nA + c = 4")
	store.Set("c", 1, true)

	unknowns := solver.Unknowns(store, equations)
	assert.Equal(t, []string{"b", "a"}, unknowns,
		"first-encounter order, case-insensitive dedup, explicit values excluded")
}

func TestConsistencyCheckWithoutUnknowns(t *testing.T) {
	_, res, err := solve(t, solver.DefaultSettings(), "x := 2\ny := 8\nx * y + 0 = 16")
	require.NoError(t, err)
	assert.Zero(t, res.Objective)
	assert.Empty(t, res.Unknowns)
}

func TestInconsistentKnownsFail(t *testing.T) {
	_, _, err := solve(t, solver.DefaultSettings(), "x := 2\nx * 3 + 0 = 7")
	require.Error(t, err)

	var convErr *solver.ConvergenceFailureError
	require.ErrorAs(t, err, &convErr)
	assert.InDelta(t, 1.0, convErr.Objective, 1e-9)
}

func TestNoEquations(t *testing.T) {
	_, res, err := solve(t, solver.DefaultSettings(), "x := 1\ny := 2")
	require.NoError(t, err)
	assert.Empty(t, res.Unknowns)
	assert.Zero(t, res.Objective)
}

// ---------- Failure Handling Tests ----------

func TestInfeasiblePointDoesNotCrash(t *testing.T) {
	// The default guess x=1 makes the residual divide by zero; the
	// penalty keeps the optimizer alive. It either escapes to the
	// solution at x=3 or reports failure cleanly.
	store, _, err := solve(t, solver.DefaultSettings(), "1 / (x - 1) = 0.5")
	if err != nil {
		var convErr *solver.ConvergenceFailureError
		require.ErrorAs(t, err, &convErr)
		assert.False(t, store.IsExplicit("x"))
		return
	}
	assert.InDelta(t, 3.0, mustGet(t, store, "x"), 1e-2)
}

func TestStoreUntouchedOnConvergenceFailure(t *testing.T) {
	source := `a := 5
x + y = 1
x + y = 3
`
	store, _, err := solve(t, solver.DefaultSettings(), source)
	require.Error(t, err)

	var convErr *solver.ConvergenceFailureError
	require.ErrorAs(t, err, &convErr)
	assert.Positive(t, convErr.Objective)

	assert.Equal(t, 5.0, mustGet(t, store, "a"), "assignment-phase state survives")
	assert.False(t, store.IsExplicit("x"))
	assert.False(t, store.IsExplicit("y"))
	_, getErr := store.Get("x")
	require.Error(t, getErr, "no partial trial values leak into the store")
}

func TestStructuralErrorAbortsSolve(t *testing.T) {
	_, _, err := solve(t, solver.DefaultSettings(), "foo(x) + y = 2\nx + y = 1")
	require.Error(t, err)

	var unknownErr *interp.UnknownFunctionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "foo", unknownErr.Name)
	assert.Contains(t, err.Error(), "equation 1")
}

func TestCancelledContextAbortsSolve(t *testing.T) {
	store, registry, equations := setup(t, "x + y = 10\nx - y = 2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.New(solver.DefaultSettings(), nil).Solve(ctx, store, registry, equations)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.IsExplicit("x"), "store untouched after cancellation")
}

// ---------- Settings Tests ----------

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  solver.Algorithm
	}{
		{"nelder-mead", solver.AlgorithmNelderMead},
		{"simplex", solver.AlgorithmNelderMead},
		{"gradient", solver.AlgorithmGradient},
		{"bfgs", solver.AlgorithmGradient},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := solver.ParseAlgorithm(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := solver.ParseAlgorithm("newton")
	require.Error(t, err)
}

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "nelder-mead", solver.AlgorithmNelderMead.String())
	assert.Equal(t, "gradient", solver.AlgorithmGradient.String())
}

func TestMaxIterationsLimit(t *testing.T) {
	settings := solver.DefaultSettings()
	settings.MaxIterations = 3

	// Far from the solution with almost no budget.
	store, registry, equations := setup(t, "x * x * x + x = 1000")
	res, err := solver.New(settings, nil).Solve(context.Background(), store, registry, equations)
	if err == nil {
		// A tiny budget can still land inside tolerance on some
		// platforms; accept a genuine solve.
		assert.LessOrEqual(t, res.Objective, settings.Tolerance)
		return
	}

	var convErr *solver.ConvergenceFailureError
	require.ErrorAs(t, err, &convErr)
	assert.LessOrEqual(t, convErr.Iterations, 4)
}