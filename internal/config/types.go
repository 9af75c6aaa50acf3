// Package config provides configuration management for the lsolve CLI.
//
// Settings merge from four layers, lowest to highest precedence:
// built-in defaults, an lsolve.yaml project file, LSOLVE_* environment
// variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/lsolve-labs/lsolve/pkg/solver"
)

// Default values applied before any other configuration source.
const (
	DefaultAlgorithm = "nelder-mead"
	DefaultHistory   = ".lsolve/history.db"
	DefaultOutput    = "auto"
)

// OutputFormats lists the accepted values for the output setting.
// "auto" renders a styled table on a terminal and plain rows when piped.
var OutputFormats = []string{"auto", "table", "json", "csv", "markdown"}

// Config holds all CLI configuration options.
type Config struct {
	Algorithm     solver.Algorithm `koanf:"algorithm"`
	Tolerance     float64          `koanf:"tolerance"`
	MaxIterations int              `koanf:"max_iterations"`
	History       string           `koanf:"history"`
	NoHistory     bool             `koanf:"no_history"`
	Output        string           `koanf:"output"`
	Verbose       bool             `koanf:"verbose"`

	// ProjectRoot is the directory relative paths resolve against.
	// Set by the loader, never read from a file.
	ProjectRoot string `koanf:"-"`
}

// SolverSettings converts the configured numeric options into solver
// settings.
func (c *Config) SolverSettings() solver.Settings {
	return solver.Settings{
		Algorithm:     c.Algorithm,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
}

// Validate checks option values the type system cannot.
func (c *Config) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if !validOutput(c.Output) {
		return fmt.Errorf("unknown output format %q (valid: %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	return nil
}

func validOutput(s string) bool {
	for _, f := range OutputFormats {
		if s == f {
			return true
		}
	}
	return false
}
