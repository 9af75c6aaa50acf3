package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lsolve-labs/lsolve/internal/engine"
	"github.com/lsolve-labs/lsolve/pkg/format"
	"github.com/lsolve-labs/lsolve/pkg/parser"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var dumpAST bool

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate files without solving",
		Long: `Check parses each file, runs the assignment phase, and reports
statement counts, the system shape (equations against unknowns), and
unit annotations it does not recognize. Nothing is solved or recorded.`,
		Example: `  # Validate every model in a directory
  lsolve check models/*.lse

  # Show the parsed statements in canonical form
  lsolve check model.lse --dump-ast`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, dumpAST)
		},
	}

	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "Print the parsed statements in canonical form")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, dumpAST bool) error {
	cc := NewCommandContextWithoutEngine(cmd)
	eng := engine.New(engine.Config{Settings: cc.Cfg.SolverSettings(), Logger: cc.Logger})
	defer func() { _ = eng.Close() }()

	failed := 0
	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		rep, err := eng.Check(fileLabel(path), string(source))
		if err != nil {
			cc.Renderer.StatusLine(fileLabel(path), "failed", "")
			cc.Renderer.Error(err.Error())
			failed++
			continue
		}
		if err := renderCheck(cc.Renderer, rep); err != nil {
			return err
		}
		if !rep.OK() {
			failed++
		}

		if dumpAST {
			file, err := parser.Parse(string(source))
			if err == nil {
				cc.Renderer.Printf("%s", format.File(file))
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
