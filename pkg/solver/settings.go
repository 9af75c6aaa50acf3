// Package solver numerically solves the equations an executed file
// deferred: it identifies the unknowns, validates the system shape, and
// minimizes the sum of squared residuals until it falls below
// tolerance.
package solver

import "fmt"

// Algorithm selects the optimization method.
type Algorithm int

const (
	// AlgorithmNelderMead is the derivative-free simplex method, the
	// default. Robust against noisy residuals.
	AlgorithmNelderMead Algorithm = iota
	// AlgorithmGradient is a quasi-Newton method over finite-difference
	// gradients. Faster near a smooth minimum.
	AlgorithmGradient
)

// String returns the configuration name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNelderMead:
		return "nelder-mead"
	case AlgorithmGradient:
		return "gradient"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "nelder-mead", "neldermead", "simplex":
		return AlgorithmNelderMead, nil
	case "gradient", "bfgs":
		return AlgorithmGradient, nil
	}
	return 0, fmt.Errorf("unknown solver algorithm %q", s)
}

// Settings configures a solve. There are no implicit defaults beyond
// these fields; use DefaultSettings as the starting point.
type Settings struct {
	Algorithm     Algorithm
	Tolerance     float64 // objective value treated as converged
	MaxIterations int
}

// DefaultSettings returns the standard configuration.
func DefaultSettings() Settings {
	return Settings{
		Algorithm:     AlgorithmNelderMead,
		Tolerance:     1e-6,
		MaxIterations: 2000,
	}
}
