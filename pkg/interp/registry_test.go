package interp_test

import (
	"math"
	"testing"

	"github.com/lsolve-labs/lsolve/pkg/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callBuiltin(t *testing.T, name string, args ...float64) (float64, error) {
	t.Helper()
	fn, err := interp.Builtins().Resolve(name)
	require.NoError(t, err)
	return fn.Fn(args)
}

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		name string
		args []float64
		want float64
	}{
		{"sin", []float64{math.Pi / 2}, 1},
		{"cos", []float64{0}, 1},
		{"tan", []float64{0}, 0},
		{"asin", []float64{1}, math.Pi / 2},
		{"acos", []float64{1}, 0},
		{"atan", []float64{1}, math.Pi / 4},
		{"atan2", []float64{1, 1}, math.Pi / 4},
		{"sinh", []float64{0}, 0},
		{"cosh", []float64{0}, 1},
		{"tanh", []float64{0}, 0},
		{"exp", []float64{1}, math.E},
		{"ln", []float64{math.E}, 1},
		{"log10", []float64{1000}, 3},
		{"sqrt", []float64{9}, 3},
		{"abs", []float64{-2.5}, 2.5},
		{"min", []float64{3, 1, 2}, 1},
		{"max", []float64{3, 1, 2}, 3},
		{"round", []float64{2.5}, 3},
		{"floor", []float64{2.7}, 2},
		{"ceil", []float64{2.1}, 3},
		{"pi", nil, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callBuiltin(t, tt.name, tt.args...)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestBuiltinDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		arg  float64
	}{
		{"sqrt", -1},
		{"ln", 0},
		{"ln", -3},
		{"log10", -5},
		{"asin", 2},
		{"acos", -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callBuiltin(t, tt.name, tt.arg)
			require.Error(t, err)

			var domErr *interp.DomainError
			require.ErrorAs(t, err, &domErr)
			assert.Equal(t, tt.name, domErr.Fn)
			assert.True(t, interp.IsNumericError(err))
		})
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := interp.Builtins()

	fn, err := r.Resolve("SIN")
	require.NoError(t, err)
	assert.Equal(t, "sin", fn.Name)
	assert.Equal(t, 1, fn.Arity)
}

func TestResolveUnknown(t *testing.T) {
	r := interp.Builtins()

	_, err := r.Resolve("enthalpy")
	require.Error(t, err)

	var unknownErr *interp.UnknownFunctionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "enthalpy", unknownErr.Name)
	assert.False(t, interp.IsNumericError(err))
}

func TestRegisterCustom(t *testing.T) {
	r := interp.NewRegistry()
	r.Register(&interp.Func{
		Name:  "double",
		Arity: 1,
		Fn: func(args []float64) (float64, error) {
			return 2 * args[0], nil
		},
	})

	fn, err := r.Resolve("DOUBLE")
	require.NoError(t, err)
	got, err := fn.Fn([]float64{21})
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)

	assert.Equal(t, []string{"double"}, r.Names())
}
