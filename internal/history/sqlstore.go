package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	// Database drivers: pure-Go SQLite for the default local store,
	// pgx for PostgreSQL DSNs.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// defaultListLimit bounds ListRuns when the caller passes no limit.
const defaultListLimit = 20

// SQLStore implements Store on database/sql, against SQLite or
// PostgreSQL depending on the DSN it was opened with.
type SQLStore struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

// Open opens a history store. A postgres:// or postgresql:// DSN
// connects via pgx; anything else is treated as a SQLite file path
// (":memory:" included).
func Open(dsn string, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	driver, dialect := "sqlite", "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, dialect = "pgx", "postgres"
	}

	logger.Debug("opening history store", "dialect", dialect)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if dialect == "sqlite" {
		// One connection keeps concurrent writers serialized and makes
		// ":memory:" behave as a single database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history store: %w", err)
	}

	return &SQLStore{db: db, dialect: dialect, logger: logger}, nil
}

// NewWithDB wraps an existing connection. Useful for tests.
func NewWithDB(db *sql.DB, dialect string, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLStore{db: db, dialect: dialect, logger: logger}
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// RecordRun inserts a run and its variable listing in one transaction.
// A missing ID or timestamp is filled in.
func (s *SQLStore) RecordRun(ctx context.Context, run *Run) error {
	if s.db == nil {
		return fmt.Errorf("history store not opened")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var errMsg *string
	if run.Error != "" {
		errMsg = &run.Error
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO runs (id, label, status, equations, unknowns, iterations, objective, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.Label, run.Status, run.Equations, run.Unknowns,
		run.Iterations, run.Objective, run.DurationMS, errMsg, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for i, v := range run.Variables {
		_, err = tx.ExecContext(ctx, s.rebind(
			`INSERT INTO run_variables (run_id, position, name, value, unit, solved)
			 VALUES (?, ?, ?, ?, ?, ?)`),
			run.ID, i, v.Name, v.Value, v.Unit, v.Solved,
		)
		if err != nil {
			return fmt.Errorf("failed to record run variable %s: %w", v.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("recorded run", "run_id", run.ID, "status", run.Status)
	return nil
}

// ListRuns returns the most recent runs, newest first, without their
// variable listings.
func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store not opened")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, label, status, equations, unknowns, iterations, objective, duration_ms, error, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves one run with its variable listing. The id may be a
// unique prefix of the full run ID.
func (s *SQLStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store not opened")
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, label, status, equations, unknowns, iterations, objective, duration_ms, error, created_at
		 FROM runs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 2`), id+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("run id %q is ambiguous", id)
	}

	run := matches[0]
	if err := s.loadVariables(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLStore) loadVariables(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT name, value, unit, solved FROM run_variables
		 WHERE run_id = ? ORDER BY position`), run.ID)
	if err != nil {
		return fmt.Errorf("failed to load run variables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var v Variable
		if err := rows.Scan(&v.Name, &v.Value, &v.Unit, &v.Solved); err != nil {
			return fmt.Errorf("failed to scan run variable: %w", err)
		}
		run.Variables = append(run.Variables, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load run variables: %w", err)
	}
	return nil
}

// Prune deletes all but the most recent keep runs.
func (s *SQLStore) Prune(ctx context.Context, keep int) error {
	if s.db == nil {
		return fmt.Errorf("history store not opened")
	}
	if keep < 0 {
		keep = 0
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	keepIDs := `SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`
	_, err = tx.ExecContext(ctx, s.rebind(
		`DELETE FROM run_variables WHERE run_id NOT IN (`+keepIDs+`)`), keep)
	if err != nil {
		return fmt.Errorf("failed to prune run variables: %w", err)
	}
	_, err = tx.ExecContext(ctx, s.rebind(
		`DELETE FROM runs WHERE id NOT IN (`+keepIDs+`)`), keep)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prune: %w", err)
	}
	return nil
}

func scanRun(rows *sql.Rows) (*Run, error) {
	run := &Run{}
	var errMsg sql.NullString
	err := rows.Scan(&run.ID, &run.Label, &run.Status, &run.Equations, &run.Unknowns,
		&run.Iterations, &run.Objective, &run.DurationMS, &errMsg, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}
