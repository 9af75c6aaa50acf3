package engine

import (
	"strings"
	"time"
)

// Severity grades a diagnostic.
type Severity int

const (
	// SeverityError marks a problem that left the run unsolved.
	SeverityError Severity = iota
	// SeverityWarning marks a problem the run survived.
	SeverityWarning
	// SeverityInfo marks advisory output.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value. Returns the
// severity and true if valid, or SeverityWarning and false if not.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarning, false
	}
}

// Diagnostic kinds.
const (
	KindSyntax          = "syntax"
	KindUnderdetermined = "under-determined"
	KindOverdetermined  = "over-determined"
	KindNoConvergence   = "no-convergence"
	KindEvaluation      = "evaluation"
	KindUnknownUnit     = "unknown-unit"
)

// Diagnostic is one problem found while running a file.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	// Variables names the variables involved, when the problem points
	// at specific ones (the unknowns of a failed solve, the variable
	// behind a unit warning).
	Variables []string `json:"variables,omitempty"`
	// Equations holds 1-based equation numbers, when the problem points
	// at specific equations.
	Equations []int `json:"equations,omitempty"`
}

// VariableResult is the final state of one variable after a run.
type VariableResult struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit,omitempty"`
	Quantity string  `json:"quantity,omitempty"`
	Explicit bool    `json:"explicit"`
	// Solved reports whether the value came out of the solver rather
	// than an assignment.
	Solved bool `json:"solved,omitempty"`
}

// Stats summarizes the work a run did.
type Stats struct {
	Statements int           `json:"statements"`
	Equations  int           `json:"equations"`
	Unknowns   int           `json:"unknowns"`
	Iterations int           `json:"iterations"`
	Objective  float64       `json:"objective"`
	Duration   time.Duration `json:"duration"`
}

// Result is the outcome of running one equation file.
type Result struct {
	// Name labels the run (usually the source file path).
	Name string `json:"name"`
	// Solved reports whether every equation was satisfied within
	// tolerance. False when the system is under-determined, fails to
	// converge, or an equation cannot be evaluated.
	Solved bool `json:"solved"`
	// Unreliable flags a least-squares fit of an over-determined
	// system.
	Unreliable bool `json:"unreliable,omitempty"`

	Variables   []VariableResult  `json:"variables"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	Strings     map[string]string `json:"strings,omitempty"`
	Directives  []string          `json:"directives,omitempty"`
	Plots       []string          `json:"plots,omitempty"`
	Stats       Stats             `json:"stats"`
}

// Errors returns the diagnostics with error severity.
func (r *Result) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// CheckReport is the outcome of validating a file without solving it.
type CheckReport struct {
	Name        string            `json:"name"`
	Statements  int               `json:"statements"`
	Assignments int               `json:"assignments"`
	Equations   int               `json:"equations"`
	Unknowns    []string          `json:"unknowns,omitempty"`
	Units       map[string]string `json:"units,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}

// OK reports whether the check found no error-severity diagnostics.
func (c *CheckReport) OK() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}
