package interp

import (
	"math"
	"sort"
)

// Func is a callable registered under a case-insensitive name.
type Func struct {
	Name     string
	Arity    int // exact argument count; minimum when Variadic
	Variadic bool
	Fn       func(args []float64) (float64, error)
}

// Registry maps function names to callables. It carries no state
// beyond its table and is safe to share across runs once populated.
type Registry struct {
	funcs map[string]*Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]*Func)}
}

// Register adds or replaces a function under its name.
func (r *Registry) Register(f *Func) {
	r.funcs[CanonicalName(f.Name)] = f
}

// Resolve returns the function registered under name.
func (r *Registry) Resolve(name string) (*Func, error) {
	if f, ok := r.funcs[CanonicalName(name)]; ok {
		return f, nil
	}
	return nil, &UnknownFunctionError{Name: name}
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for _, f := range r.funcs {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns a registry pre-populated with the builtin math
// functions. Trigonometry works in radians.
func Builtins() *Registry {
	r := NewRegistry()

	unary := func(name string, fn func(float64) float64) {
		r.Register(&Func{Name: name, Arity: 1, Fn: func(args []float64) (float64, error) {
			return fn(args[0]), nil
		}})
	}

	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("exp", math.Exp)
	unary("abs", math.Abs)
	unary("round", math.Round)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)

	r.Register(&Func{Name: "asin", Arity: 1, Fn: func(args []float64) (float64, error) {
		if args[0] < -1 || args[0] > 1 {
			return 0, &DomainError{Fn: "asin", Arg: args[0]}
		}
		return math.Asin(args[0]), nil
	}})
	r.Register(&Func{Name: "acos", Arity: 1, Fn: func(args []float64) (float64, error) {
		if args[0] < -1 || args[0] > 1 {
			return 0, &DomainError{Fn: "acos", Arg: args[0]}
		}
		return math.Acos(args[0]), nil
	}})
	r.Register(&Func{Name: "atan2", Arity: 2, Fn: func(args []float64) (float64, error) {
		return math.Atan2(args[0], args[1]), nil
	}})
	r.Register(&Func{Name: "ln", Arity: 1, Fn: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, &DomainError{Fn: "ln", Arg: args[0]}
		}
		return math.Log(args[0]), nil
	}})
	r.Register(&Func{Name: "log10", Arity: 1, Fn: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, &DomainError{Fn: "log10", Arg: args[0]}
		}
		return math.Log10(args[0]), nil
	}})
	r.Register(&Func{Name: "sqrt", Arity: 1, Fn: func(args []float64) (float64, error) {
		if args[0] < 0 {
			return 0, &DomainError{Fn: "sqrt", Arg: args[0]}
		}
		return math.Sqrt(args[0]), nil
	}})
	r.Register(&Func{Name: "min", Arity: 2, Variadic: true, Fn: func(args []float64) (float64, error) {
		m := args[0]
		for _, v := range args[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	}})
	r.Register(&Func{Name: "max", Arity: 2, Variadic: true, Fn: func(args []float64) (float64, error) {
		m := args[0]
		for _, v := range args[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	}})
	r.Register(&Func{Name: "pi", Arity: 0, Fn: func([]float64) (float64, error) {
		return math.Pi, nil
	}})

	return r
}
