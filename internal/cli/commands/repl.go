package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/lsolve-labs/lsolve/pkg/ast"
	"github.com/lsolve-labs/lsolve/pkg/format"
	"github.com/lsolve-labs/lsolve/pkg/interp"
	"github.com/lsolve-labs/lsolve/pkg/parser"
	"github.com/lsolve-labs/lsolve/pkg/solver"
	"github.com/lsolve-labs/lsolve/pkg/units"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive equation session",
		Long: `Start an interactive session. Assignments take effect immediately
and print their value. Equations accumulate until .solve hands them to
the nonlinear solver; solved values stay in the session for the lines
that follow.`,
		Example: `  lsolve repl`,
		RunE:    runREPL,
	}
}

// replSession holds the variable store and pending equations across
// input lines.
type replSession struct {
	out    io.Writer
	errOut io.Writer

	store    *interp.VarStore
	registry *interp.Registry
	exec     *interp.Executor
	settings solver.Settings
	logger   *slog.Logger

	equations []interp.Equation
}

func newREPLSession(cfgSettings solver.Settings, logger *slog.Logger, out, errOut io.Writer) *replSession {
	s := &replSession{
		out:      out,
		errOut:   errOut,
		settings: cfgSettings,
		logger:   logger,
	}
	s.reset()
	return s
}

// reset discards all variables and pending equations.
func (s *replSession) reset() {
	s.store = interp.NewVarStore()
	s.registry = interp.Builtins()
	s.exec = interp.NewExecutor(s.store, s.registry, s.logger)
	s.equations = nil
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	sess := newREPLSession(cc.Cfg.SolverSettings(), cc.Logger, cmd.OutOrStdout(), cmd.ErrOrStderr())

	historyFile := filepath.Join(cc.Cfg.ProjectRoot, ".lsolve", "repl_history")
	_ = os.MkdirAll(filepath.Dir(historyFile), 0750)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lsolve> ",
		HistoryFile:     historyFile,
		AutoComplete:    replCompleter(sess.registry),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintln(sess.out, "lsolve interactive session")
	fmt.Fprintln(sess.out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(sess.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := sess.handleDotCommand(cmd.Context(), line); quit {
				break
			}
			continue
		}

		if err := sess.eval(line); err != nil {
			fmt.Fprintf(sess.errOut, "Error: %v\n", err)
		}
	}
	return nil
}

// eval parses one input line, applies its unit annotations, executes
// assignments, and queues equations.
func (s *replSession) eval(line string) error {
	file, err := parser.Parse(line)
	if err != nil {
		return err
	}

	for name, unit := range units.Extract(line) {
		s.store.SetUnit(name, units.Normalize(unit))
	}

	res, err := s.exec.Execute(file)
	if err != nil {
		return err
	}

	queued := 0
	for _, stmt := range file.Statements {
		switch t := stmt.(type) {
		case *ast.Assign:
			s.printAssignment(t, res)
		case *ast.Equation:
			eq := res.Equations[queued]
			queued++
			eq.Index = len(s.equations)
			s.equations = append(s.equations, eq)
			fmt.Fprintf(s.out, "[%d] %s\n", eq.Index+1, format.Stmt(t))
		}
	}
	return nil
}

func (s *replSession) printAssignment(a *ast.Assign, res *interp.Result) {
	name := a.Target.Name
	if v, err := s.store.Get(name); err == nil {
		line := fmt.Sprintf("%s = %s", name, formatFloat(v))
		if unit := s.store.Unit(name); unit != "" {
			line += fmt.Sprintf(" [%s]", unit)
		}
		fmt.Fprintln(s.out, line)
		return
	}
	if sv, ok := res.Strings[name]; ok {
		fmt.Fprintf(s.out, "%s = '%s'\n", name, sv)
	}
}

// handleDotCommand executes a REPL command line and reports whether the
// session should end.
func (s *replSession) handleDotCommand(ctx context.Context, line string) bool {
	switch cmd := strings.ToLower(strings.Fields(line)[0]); cmd {
	case ".quit", ".exit":
		return true
	case ".help":
		s.printHelp()
	case ".vars":
		s.printVars()
	case ".eqs":
		s.printEquations()
	case ".solve":
		s.solve(ctx)
	case ".clear":
		s.reset()
		fmt.Fprintln(s.out, "session cleared")
	default:
		fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", cmd)
	}
	return false
}

// solve runs the pending equations against the session store. Solved
// unknowns become explicit values and the pending list empties.
func (s *replSession) solve(ctx context.Context) {
	if len(s.equations) == 0 {
		fmt.Fprintln(s.out, "no pending equations")
		return
	}

	res, err := solver.New(s.settings, s.logger).Solve(ctx, s.store, s.registry, s.equations)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	for _, name := range res.Unknowns {
		line := fmt.Sprintf("%s = %s", name, formatFloat(res.Values[name]))
		if unit := s.store.Unit(name); unit != "" {
			line += fmt.Sprintf(" [%s]", unit)
		}
		fmt.Fprintln(s.out, line)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(s.errOut, "warning: %v\n", w)
	}
	fmt.Fprintf(s.out, "solved %d equations, objective %s after %d iterations\n",
		len(s.equations), formatFloat(res.Objective), res.Iterations)
	s.equations = nil
}

func (s *replSession) printVars() {
	names := s.store.AllNames()
	shown := 0
	for _, name := range names {
		rec, ok := s.store.Record(name)
		if !ok || !rec.Defined {
			continue
		}
		line := fmt.Sprintf("%s = %s", rec.Name, formatFloat(rec.Value))
		if rec.Unit != "" {
			line += fmt.Sprintf(" [%s]", rec.Unit)
		}
		if !rec.Explicit {
			line += " (guess)"
		}
		fmt.Fprintln(s.out, line)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(s.out, "no variables defined")
	}
}

func (s *replSession) printEquations() {
	if len(s.equations) == 0 {
		fmt.Fprintln(s.out, "no pending equations")
		return
	}
	for _, eq := range s.equations {
		fmt.Fprintf(s.out, "[%d] %s = %s\n", eq.Index+1, format.Expr(eq.Left), format.Expr(eq.Right))
	}
}

func (s *replSession) printHelp() {
	fmt.Fprint(s.out, `Session commands:
  .solve        Solve the pending equations
  .vars         List defined variables
  .eqs          List pending equations
  .clear        Discard all variables and equations
  .help         Show this help
  .quit         Exit the session

Anything else is an equation-file line: assignments such as x := 2
evaluate immediately, equations such as x + y = 10 accumulate for
.solve, and [unit] annotations attach to the assigned variable.
`)
}

// replCompleter offers the dot commands and the builtin function names.
func replCompleter(registry *interp.Registry) readline.AutoCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".solve"),
		readline.PcItem(".vars"),
		readline.PcItem(".eqs"),
		readline.PcItem(".clear"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
	}
	for _, name := range registry.Names() {
		items = append(items, readline.PcItem(name+"("))
	}
	return readline.NewPrefixCompleter(items...)
}
