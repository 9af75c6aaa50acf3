// Package ast defines the abstract syntax tree of the lsolve equation
// language.
//
// The node set is a closed tagged union: every consumer (executor, printer,
// solver residual evaluation) dispatches with an exhaustive type switch, so a
// new node kind cannot be added without every switch being revisited.
//
// Nodes are immutable once built. Positions are carried on statements, where
// diagnostics need them; expression nodes are pure structure.
//
// The Golden Rule: pkg/ast imports ONLY pkg/token and stdlib.
package ast

import (
	"strconv"

	"github.com/lsolve-labs/lsolve/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Expr is the marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
	// Pos returns the position of the statement's first token.
	Pos() token.Position
}

// Op identifies a binary arithmetic operator.
type Op int

// Binary operators.
const (
	Add Op = iota
	Sub
	Mul
	Div
	Pow
)

// String returns the operator's source spelling.
func (op Op) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	}
	return "?"
}

// ---------- Expressions ----------

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (*Number) node()     {}
func (*Number) exprNode() {}

// Variable is a reference to a variable. Identity is case-insensitive; the
// node keeps the source spelling and the variable store canonicalizes.
type Variable struct {
	Name string
}

func (*Variable) node()     {}
func (*Variable) exprNode() {}

// StringLit is a single-quoted string literal. Value holds the unescaped
// text (doubled single quotes collapse to one).
type StringLit struct {
	Value string
}

func (*StringLit) node()     {}
func (*StringLit) exprNode() {}

// Binary is a binary arithmetic operation.
type Binary struct {
	Left  Expr
	Op    Op
	Right Expr
}

func (*Binary) node()     {}
func (*Binary) exprNode() {}

// Call is a function call with ordered arguments.
type Call struct {
	Name string
	Args []Expr
}

func (*Call) node()     {}
func (*Call) exprNode() {}

// ---------- Statements ----------

// Assign assigns the value of an expression to a variable.
//
// Invariant: Target is always a bare variable, never a compound expression.
// Declared records whether the source used `:=` rather than `=`, so that
// printing reproduces the written surface form.
type Assign struct {
	Target   *Variable
	Value    Expr
	Declared bool
	Position token.Position
}

func (*Assign) node()     {}
func (*Assign) stmtNode() {}

// Pos implements Stmt.
func (a *Assign) Pos() token.Position { return a.Position }

// Equation is a deferred equality between two expressions. Equations are
// never evaluated in place; the executor collects them for the solver.
type Equation struct {
	Left     Expr
	Right    Expr
	Position token.Position
}

func (*Equation) node()     {}
func (*Equation) stmtNode() {}

// Pos implements Stmt.
func (e *Equation) Pos() token.Position { return e.Position }

// Directive is an opaque `$...` line passed through to the host unmodified.
type Directive struct {
	Raw      string
	Position token.Position
}

func (*Directive) node()     {}
func (*Directive) stmtNode() {}

// Pos implements Stmt.
func (d *Directive) Pos() token.Position { return d.Position }

// PlotCommand is an opaque plot line passed through to the host unmodified.
type PlotCommand struct {
	Raw      string
	Position token.Position
}

func (*PlotCommand) node()     {}
func (*PlotCommand) stmtNode() {}

// Pos implements Stmt.
func (p *PlotCommand) Pos() token.Position { return p.Position }

// File is an ordered sequence of statements: one parsed source file.
type File struct {
	Statements []Stmt
}

func (*File) node() {}

// FormatFloat renders a float the way the language writes numeric literals.
// Shared by the printer and by diagnostics that echo values.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
