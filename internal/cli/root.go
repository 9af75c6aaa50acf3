// Package cli provides the lsolve command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lsolve-labs/lsolve/internal/cli/commands"
	"github.com/lsolve-labs/lsolve/internal/config"
)

var cfgFile string

// Version information (set at build time via ldflags).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lsolve",
		Short: "lsolve - Engineering Equation Solver",
		Long: `lsolve parses and solves engineering equation files.

Assignments evaluate immediately in source order. Equations accumulate
and are solved together as one nonlinear system. Results carry unit
annotations, structured diagnostics, and a recorded run history.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "%s %s\n" .Name .Version}}`)

	// Global persistent flags. Defaults stay zero so the config loader
	// can tell a set flag from an unset one.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lsolve.yaml)")
	rootCmd.PersistentFlags().String("algorithm", "", "Solver algorithm (nelder-mead|gradient)")
	rootCmd.PersistentFlags().Float64("tolerance", 0, "Objective value treated as converged")
	rootCmd.PersistentFlags().Int("max-iterations", 0, "Optimizer iteration cap")
	rootCmd.PersistentFlags().String("history", "", "History database path or postgres:// DSN")
	rootCmd.PersistentFlags().Bool("no-history", false, "Do not record runs in the history store")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|table|json|csv|markdown)")

	_ = rootCmd.RegisterFlagCompletionFunc("output",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
		})
	_ = rootCmd.RegisterFlagCompletionFunc("algorithm",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"nelder-mead", "gradient"}, cobra.ShellCompDirectiveNoFileComp
		})

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))

	return rootCmd
}

// Execute runs the root command with signal-aware cancellation and
// returns its error after printing it to stderr.
func Execute() error {
	ctx, stop := signalContext()
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
