package format

import "github.com/lsolve-labs/lsolve/pkg/ast"

func (p *Printer) formatStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.Assign:
		p.write(stmt.Target.Name)
		if stmt.Declared {
			p.write(" := ")
		} else {
			p.write(" = ")
		}
		p.formatExpr(stmt.Value, bindNone)
	case *ast.Equation:
		p.formatExpr(stmt.Left, bindNone)
		p.write(" = ")
		p.formatExpr(stmt.Right, bindNone)
	case *ast.Directive:
		p.write(stmt.Raw)
	case *ast.PlotCommand:
		p.write(stmt.Raw)
	}
}
