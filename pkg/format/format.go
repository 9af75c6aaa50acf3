// Package format renders AST nodes back to equation-language source.
//
// Output is canonical: single spaces around binary operators and the
// minimum parentheses needed to preserve the parsed structure, so
// formatting an expression and re-parsing it yields an equivalent tree.
package format

import "github.com/lsolve-labs/lsolve/pkg/ast"

// Expr renders a single expression.
func Expr(e ast.Expr) string {
	p := newPrinter()
	p.formatExpr(e, bindNone)
	return p.String()
}

// Stmt renders a single statement without a trailing newline.
func Stmt(s ast.Stmt) string {
	p := newPrinter()
	p.formatStmt(s)
	return p.String()
}

// File renders a whole file, one statement per line.
func File(f *ast.File) string {
	p := newPrinter()
	for _, s := range f.Statements {
		p.formatStmt(s)
		p.writeln()
	}
	return p.String()
}
