package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsolve-labs/lsolve/internal/history"
)

func setupStore(t *testing.T) *history.SQLStore {
	t.Helper()
	store, err := history.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())
	return store
}

func sampleRun(label string) *history.Run {
	return &history.Run{
		Label:      label,
		Status:     history.StatusSolved,
		Equations:  2,
		Unknowns:   2,
		Iterations: 40,
		Objective:  3.2e-9,
		DurationMS: 12,
		Variables: []history.Variable{
			{Name: "x", Value: 6, Unit: "m", Solved: true},
			{Name: "y", Value: 4, Unit: "m", Solved: true},
		},
	}
}

// ---------- Round-Trip Tests ----------

func TestRecordAndGetRun(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	run := sampleRun("pipe.lsv")
	require.NoError(t, store.RecordRun(ctx, run))
	assert.NotEmpty(t, run.ID, "missing ID is filled in")
	assert.False(t, run.CreatedAt.IsZero(), "missing timestamp is filled in")

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "pipe.lsv", got.Label)
	assert.Equal(t, history.StatusSolved, got.Status)
	assert.Equal(t, 2, got.Equations)
	assert.Equal(t, 40, got.Iterations)
	assert.InDelta(t, 3.2e-9, got.Objective, 1e-15)
	assert.Equal(t, int64(12), got.DurationMS)
	assert.Empty(t, got.Error)

	require.Len(t, got.Variables, 2)
	assert.Equal(t, history.Variable{Name: "x", Value: 6, Unit: "m", Solved: true}, got.Variables[0])
	assert.Equal(t, history.Variable{Name: "y", Value: 4, Unit: "m", Solved: true}, got.Variables[1])
}

func TestRecordFailedRun(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	run := sampleRun("broken.lsv")
	run.Status = history.StatusFailed
	run.Error = "solve did not converge after 2000 iterations (residual 0.5)"
	require.NoError(t, store.RecordRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, history.StatusFailed, got.Status)
	assert.Contains(t, got.Error, "did not converge")
}

func TestGetRunByPrefix(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	run := sampleRun("pipe.lsv")
	require.NoError(t, store.RecordRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestGetRunAmbiguousPrefix(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first := sampleRun("a.lsv")
	first.ID = "abc-0001"
	second := sampleRun("b.lsv")
	second.ID = "abc-0002"
	require.NoError(t, store.RecordRun(ctx, first))
	require.NoError(t, store.RecordRun(ctx, second))

	_, err := store.GetRun(ctx, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestGetRunNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// ---------- Listing Tests ----------

func recordSpaced(t *testing.T, store *history.SQLStore, labels ...string) []*history.Run {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := make([]*history.Run, len(labels))
	for i, label := range labels {
		run := sampleRun(label)
		run.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.RecordRun(context.Background(), run))
		runs[i] = run
	}
	return runs
}

func TestListRunsNewestFirst(t *testing.T) {
	store := setupStore(t)
	recordSpaced(t, store, "first.lsv", "second.lsv", "third.lsv")

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third.lsv", runs[0].Label)
	assert.Equal(t, "second.lsv", runs[1].Label)
	assert.Equal(t, "first.lsv", runs[2].Label)
	assert.Empty(t, runs[0].Variables, "listing does not load variables")
}

func TestListRunsLimit(t *testing.T) {
	store := setupStore(t)
	recordSpaced(t, store, "a.lsv", "b.lsv", "c.lsv")

	runs, err := store.ListRuns(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.lsv", runs[0].Label)
}

func TestPruneKeepsNewest(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	recorded := recordSpaced(t, store, "a.lsv", "b.lsv", "c.lsv", "d.lsv")

	require.NoError(t, store.Prune(ctx, 2))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "d.lsv", runs[0].Label)
	assert.Equal(t, "c.lsv", runs[1].Label)

	_, err = store.GetRun(ctx, recorded[0].ID)
	require.Error(t, err)

	// Survivors keep their variable listings.
	got, err := store.GetRun(ctx, recorded[3].ID)
	require.NoError(t, err)
	assert.Len(t, got.Variables, 2)
}

// ---------- Failure Tests ----------

func TestRecordRunRollsBackOnVariableFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := history.NewWithDB(db, "sqlite", nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO runs").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO run_variables").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = store.RecordRun(context.Background(), sampleRun("pipe.lsv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record run variable x")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := history.NewWithDB(db, "postgres", nil)

	mock.ExpectBegin()
	mock.ExpectExec(`VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	run := sampleRun("pipe.lsv")
	run.Variables = nil
	require.NoError(t, store.RecordRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRunsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := history.NewWithDB(db, "sqlite", nil)
	mock.ExpectQuery("SELECT .+ FROM runs").WillReturnError(assert.AnError)

	_, err = store.ListRuns(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list runs")
}
