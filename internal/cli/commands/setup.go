// Package commands implements the lsolve subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lsolve-labs/lsolve/internal/cli/output"
	"github.com/lsolve-labs/lsolve/internal/config"
	"github.com/lsolve-labs/lsolve/internal/engine"
	"github.com/lsolve-labs/lsolve/internal/history"
	"github.com/lsolve-labs/lsolve/pkg/solver"
)

// CommandContext holds the dependencies commands share: configuration,
// logger, the solve engine, and the output renderer.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an engine attached.
// The returned cleanup closes the engine and must be called, typically
// via defer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cc := &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
	cleanup := func() { _ = eng.Close() }
	return cc, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext for commands
// that neither solve nor record history.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// getConfig returns the configuration loaded by the root command, or
// falls back to loading defaults when a command runs on its own.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	if cfg, err := config.Load("", nil); err == nil {
		return cfg
	}
	defaults := solver.DefaultSettings()
	return &config.Config{
		Algorithm:     defaults.Algorithm,
		Tolerance:     defaults.Tolerance,
		MaxIterations: defaults.MaxIterations,
		History:       config.DefaultHistory,
		Output:        config.DefaultOutput,
	}
}

// createEngine builds the engine, wiring in the history store unless
// recording is disabled.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	ecfg := engine.Config{
		Settings: cfg.SolverSettings(),
		Logger:   logger,
	}

	if !cfg.NoHistory && cfg.History != "" {
		store, err := openHistory(cfg, logger)
		if err != nil {
			return nil, err
		}
		ecfg.History = store
	}

	return engine.New(ecfg), nil
}

// openHistory opens the configured history store and applies pending
// migrations.
func openHistory(cfg *config.Config, logger *slog.Logger) (*history.SQLStore, error) {
	if cfg.History == "" {
		return nil, errors.New("no history database configured")
	}

	// File-backed stores need their parent directory to exist.
	if cfg.History != ":memory:" && !strings.Contains(cfg.History, "://") {
		dir := filepath.Dir(cfg.History)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	store, err := history.Open(cfg.History, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history store: %w", err)
	}
	return store, nil
}

// fileLabel derives the run label from a file path.
func fileLabel(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
