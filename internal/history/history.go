// Package history persists run outcomes so earlier solves can be
// listed and inspected later. The default backend is a local SQLite
// file; a PostgreSQL DSN switches the same store to a shared database.
package history

import (
	"context"
	"time"
)

// Run statuses.
const (
	StatusSolved = "solved"
	StatusFailed = "failed"
)

// Run is one recorded solve.
type Run struct {
	ID         string
	Label      string
	Status     string
	Equations  int
	Unknowns   int
	Iterations int
	Objective  float64
	DurationMS int64
	Error      string
	CreatedAt  time.Time

	// Variables holds the final variable listing; populated by GetRun,
	// left empty by ListRuns.
	Variables []Variable
}

// Variable is one variable's final state within a recorded run.
type Variable struct {
	Name   string
	Value  float64
	Unit   string
	Solved bool
}

// Store records and retrieves runs.
type Store interface {
	RecordRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	// Prune deletes all but the most recent keep runs.
	Prune(ctx context.Context, keep int) error
	Close() error
}
