package interp

import (
	"fmt"
	"math"

	"github.com/lsolve-labs/lsolve/pkg/ast"
)

// Vars supplies variable values during evaluation. *VarStore implements
// it; the solver substitutes an overlay that shadows unknowns with
// trial values.
type Vars interface {
	Get(name string) (float64, error)
}

// Eval computes the numeric value of an expression against the given
// variables and function registry.
func Eval(e ast.Expr, vars Vars, funcs *Registry) (float64, error) {
	switch expr := e.(type) {
	case *ast.Number:
		return expr.Value, nil

	case *ast.Variable:
		return vars.Get(expr.Name)

	case *ast.StringLit:
		return 0, &StringOperandError{Value: expr.Value}

	case *ast.Binary:
		return evalBinary(expr, vars, funcs)

	case *ast.Call:
		return evalCall(expr, vars, funcs)
	}
	return 0, fmt.Errorf("unhandled expression node %T", e)
}

func evalBinary(b *ast.Binary, vars Vars, funcs *Registry) (float64, error) {
	left, err := Eval(b.Left, vars, funcs)
	if err != nil {
		return 0, err
	}
	right, err := Eval(b.Right, vars, funcs)
	if err != nil {
		return 0, err
	}

	switch b.Op {
	case ast.Add:
		return left + right, nil
	case ast.Sub:
		return left - right, nil
	case ast.Mul:
		return left * right, nil
	case ast.Div:
		if right == 0 {
			return 0, &DivisionByZeroError{}
		}
		return left / right, nil
	case ast.Pow:
		v := math.Pow(left, right)
		if math.IsNaN(v) && !math.IsNaN(left) && !math.IsNaN(right) {
			// Negative base with fractional exponent
			return 0, &DomainError{Fn: "pow", Arg: left}
		}
		return v, nil
	}
	return 0, fmt.Errorf("unhandled operator %v", b.Op)
}

func evalCall(c *ast.Call, vars Vars, funcs *Registry) (float64, error) {
	fn, err := funcs.Resolve(c.Name)
	if err != nil {
		return 0, err
	}
	if fn.Variadic {
		if len(c.Args) < fn.Arity {
			return 0, &ArityError{Fn: fn.Name, Want: fn.Arity, Variadic: true, Got: len(c.Args)}
		}
	} else if len(c.Args) != fn.Arity {
		return 0, &ArityError{Fn: fn.Name, Want: fn.Arity, Got: len(c.Args)}
	}

	args := make([]float64, len(c.Args))
	for i, a := range c.Args {
		v, err := Eval(a, vars, funcs)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return fn.Fn(args)
}

// ReferencedVars collects every variable name mentioned in the given
// expressions, in first-encounter order, deduplicated
// case-insensitively. The first spelling encountered wins.
func ReferencedVars(exprs ...ast.Expr) []string {
	var names []string
	seen := make(map[string]bool)

	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.Variable:
			key := CanonicalName(n.Name)
			if !seen[key] {
				seen[key] = true
				names = append(names, n.Name)
			}
		case *ast.Binary:
			walk(n.Left)
			walk(n.Right)
		case *ast.Call:
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	for _, e := range exprs {
		walk(e)
	}
	return names
}
