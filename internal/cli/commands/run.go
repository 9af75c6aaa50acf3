package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lsolve-labs/lsolve/internal/engine"
)

// maxConcurrentSolves caps how many files solve at once in a
// multi-file run.
const maxConcurrentSolves = 4

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE...",
		Short: "Solve equation files",
		Long: `Parse and solve one or more equation files.

Assignments evaluate immediately in source order. Equations are deferred
and solved together as one nonlinear system. The final variable table,
diagnostics, and solve statistics are rendered per file.`,
		Example: `  # Solve a file
  lsolve run heat_balance.lse

  # Solve several files concurrently
  lsolve run cycles/*.lse

  # Machine-readable output, no history row
  lsolve run model.lse --output json --no-history`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := solveFiles(cmd.Context(), cc.Engine, args)
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if i > 0 {
			cc.Renderer.Println("")
		}
		if err := renderResult(cc.Renderer, res); err != nil {
			return err
		}
		if !res.Solved {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// solveFiles solves each file, several at a time, and returns results
// in argument order. Files that parse or solve unsuccessfully still
// yield a result carrying their diagnostics; only unreadable files and
// cancellation abort the batch.
func solveFiles(ctx context.Context, eng *engine.Engine, paths []string) ([]*engine.Result, error) {
	results := make([]*engine.Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSolves)
	for i, path := range paths {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			res, err := eng.Run(ctx, fileLabel(path), string(source))
			if res == nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
