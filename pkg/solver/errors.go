package solver

import (
	"fmt"
	"strings"
)

// UnderdeterminedSystemError reports fewer equations than unknowns. No
// solve is attempted; every unresolved unknown is listed.
type UnderdeterminedSystemError struct {
	Equations int
	Unknowns  []string
}

func (e *UnderdeterminedSystemError) Error() string {
	return fmt.Sprintf("under-determined system: %d equations for %d unknowns (%s)",
		e.Equations, len(e.Unknowns), strings.Join(e.Unknowns, ", "))
}

// OverdeterminedSystemError reports more equations than unknowns. It is
// a warning: a least-squares solve is still attempted, but the result
// is flagged as likely unreliable.
type OverdeterminedSystemError struct {
	Equations int
	Unknowns  []string
}

func (e *OverdeterminedSystemError) Error() string {
	return fmt.Sprintf("over-determined system: %d equations for %d unknowns (%s)",
		e.Equations, len(e.Unknowns), strings.Join(e.Unknowns, ", "))
}

// ConvergenceFailureError reports that the optimizer stopped without
// reaching tolerance. The store keeps its pre-solve state.
type ConvergenceFailureError struct {
	Objective  float64 // best sum of squared residuals reached
	Iterations int
	Unknowns   []string
}

func (e *ConvergenceFailureError) Error() string {
	return fmt.Sprintf("solve did not converge after %d iterations (residual %.3g)",
		e.Iterations, e.Objective)
}
