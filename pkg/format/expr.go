package format

import (
	"strings"

	"github.com/lsolve-labs/lsolve/pkg/ast"
)

// Operator binding strengths, mirroring the parser's precedence levels.
const (
	bindNone = iota
	bindAdditive
	bindMultiplicative
	bindPower
)

func binding(op ast.Op) int {
	switch op {
	case ast.Add, ast.Sub:
		return bindAdditive
	case ast.Mul, ast.Div:
		return bindMultiplicative
	case ast.Pow:
		return bindPower
	}
	return bindNone
}

// formatExpr renders e, parenthesizing it when its top-level operator
// binds no tighter than the surrounding context requires.
func (p *Printer) formatExpr(e ast.Expr, minBind int) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *ast.Number:
		p.write(ast.FormatFloat(expr.Value))
	case *ast.Variable:
		p.write(expr.Name)
	case *ast.StringLit:
		p.write("'" + strings.ReplaceAll(expr.Value, "'", "''") + "'")
	case *ast.Binary:
		p.formatBinary(expr, minBind)
	case *ast.Call:
		p.formatCall(expr)
	}
}

func (p *Printer) formatBinary(b *ast.Binary, minBind int) {
	bind := binding(b.Op)
	paren := bind < minBind
	if paren {
		p.write("(")
	}

	// Left child: parenthesize when it binds looser, or when it is the
	// left operand of the right-associative power operator at equal
	// strength ((2^3)^2 must not print as 2^3^2).
	leftMin := bind
	if b.Op == ast.Pow {
		leftMin = bind + 1
	}
	if n, ok := b.Left.(*ast.Number); ok && b.Op == ast.Pow && n.Value < 0 {
		// A leading minus would rebind below the power: (-5)^2 vs -5^2.
		p.write("(")
		p.formatExpr(b.Left, bindNone)
		p.write(")")
	} else {
		p.formatExpr(b.Left, leftMin)
	}

	p.write(" " + b.Op.String() + " ")

	// Right child: equal strength needs parentheses under the
	// left-associative operators (a - (b - c)), but not under power.
	rightMin := bind + 1
	if b.Op == ast.Pow {
		rightMin = bind
	}
	p.formatExpr(b.Right, rightMin)

	if paren {
		p.write(")")
	}
}

func (p *Printer) formatCall(c *ast.Call) {
	p.write(c.Name)
	p.write("(")
	for i, arg := range c.Args {
		if i > 0 {
			p.write(", ")
		}
		p.formatExpr(arg, bindNone)
	}
	p.write(")")
}
