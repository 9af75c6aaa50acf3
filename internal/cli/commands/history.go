package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command tree.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded solve runs",
		Long: `History lists and shows runs recorded by run and watch. The store
lives at the configured history path, .lsolve/history.db by default.`,
	}
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryClearCommand())
	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return cmd
}

func runHistoryList(cmd *cobra.Command, limit int) error {
	cc := NewCommandContextWithoutEngine(cmd)
	store, err := openHistory(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return renderRuns(cc.Renderer, runs)
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one run with its variables",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	store, err := openHistory(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return renderRun(cc.Renderer, run)
}

func newHistoryClearCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryClear(cmd, keep)
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "Keep this many newest runs")
	return cmd
}

func runHistoryClear(cmd *cobra.Command, keep int) error {
	cc := NewCommandContextWithoutEngine(cmd)
	store, err := openHistory(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Prune(cmd.Context(), keep); err != nil {
		return err
	}
	cc.Renderer.Success(fmt.Sprintf("history cleared, kept %d newest runs", keep))
	return nil
}
