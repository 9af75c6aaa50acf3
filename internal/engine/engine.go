// Package engine wires the solve pipeline end to end: parse the source,
// attach unit annotations, execute assignments in order, then hand the
// deferred equations to the nonlinear solver. Each run is independent
// and works on a fresh variable store, so one engine can serve
// concurrent runs.
package engine

import (
	"log/slog"

	"github.com/lsolve-labs/lsolve/internal/history"
	"github.com/lsolve-labs/lsolve/pkg/solver"
	"github.com/lsolve-labs/lsolve/pkg/units"
)

// Engine runs equation files and records their outcomes.
type Engine struct {
	settings solver.Settings
	units    units.Resolver
	history  history.Store
	logger   *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Settings controls the nonlinear solver. Zero fields fall back to
	// the solver defaults.
	Settings solver.Settings
	// Units resolves unit annotations to physical quantities
	// (optional, defaults to the built-in table).
	Units units.Resolver
	// History records completed runs (optional).
	History history.Store
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	resolver := cfg.Units
	if resolver == nil {
		resolver = units.NewTable()
	}

	settings := cfg.Settings
	defaults := solver.DefaultSettings()
	if settings.Tolerance <= 0 {
		settings.Tolerance = defaults.Tolerance
	}
	if settings.MaxIterations <= 0 {
		settings.MaxIterations = defaults.MaxIterations
	}

	return &Engine{
		settings: settings,
		units:    resolver,
		history:  cfg.History,
		logger:   logger,
	}
}

// Close releases the history store, if one is attached.
func (e *Engine) Close() error {
	if e.history != nil {
		return e.history.Close()
	}
	return nil
}
