package interp

import (
	"errors"
	"fmt"

	"github.com/lsolve-labs/lsolve/pkg/ast"
)

// UndefinedVariableError reports a read of a variable that has no value
// yet. Sequential semantics make this fatal: later statements may
// depend on the failed one.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// DivisionByZeroError reports a division whose divisor evaluated to
// exactly zero.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// DomainError reports a function argument outside the function's
// mathematical domain, such as sqrt(-1) or ln(0).
type DomainError struct {
	Fn  string
	Arg float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("argument out of domain: %s(%s)", e.Fn, ast.FormatFloat(e.Arg))
}

// UnknownFunctionError reports a call to a name absent from the
// function registry.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Fn       string
	Want     int
	Variadic bool
	Got      int
}

func (e *ArityError) Error() string {
	if e.Variadic {
		return fmt.Sprintf("function %s expects at least %d arguments, got %d", e.Fn, e.Want, e.Got)
	}
	return fmt.Sprintf("function %s expects %d arguments, got %d", e.Fn, e.Want, e.Got)
}

// StringOperandError reports a string literal where a numeric value was
// required.
type StringOperandError struct {
	Value string
}

func (e *StringOperandError) Error() string {
	return fmt.Sprintf("string %q in numeric expression", e.Value)
}

// IsNumericError reports whether err is a point failure of arithmetic
// (division by zero, domain violation) rather than a structural problem
// with the program. The solver treats numeric errors at a trial point
// as an infeasible point; anything else aborts the solve.
func IsNumericError(err error) bool {
	var divErr *DivisionByZeroError
	var domErr *DomainError
	return errors.As(err, &divErr) || errors.As(err, &domErr)
}
