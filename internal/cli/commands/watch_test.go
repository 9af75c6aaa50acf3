package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsolve-labs/lsolve/internal/cli/output"
	"github.com/lsolve-labs/lsolve/internal/engine"
	"github.com/lsolve-labs/lsolve/pkg/solver"
)

// watchContext builds a CommandContext around buffers so solveWatched
// can run without cobra plumbing.
func watchContext(t *testing.T) (*CommandContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	eng := engine.New(engine.Config{Settings: solver.DefaultSettings()})
	t.Cleanup(func() { _ = eng.Close() })
	cc := &CommandContext{
		Engine:   eng,
		Renderer: output.NewRenderer(out, errOut, output.ModeTable),
	}
	return cc, out, errOut
}

func TestSolveWatchedRendersResult(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "model.lse", "x + y = 10\nx - y = 2\n")
	cc, out, _ := watchContext(t)

	solveWatched(context.Background(), cc, path)

	assert.Contains(t, out.String(), "model: solved")
}

func TestSolveWatchedReadFailure(t *testing.T) {
	cc, out, errOut := watchContext(t)

	solveWatched(context.Background(), cc, filepath.Join(t.TempDir(), "absent.lse"))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "failed to read")
}

func TestSolveWatchedRendersFailuresAndReturns(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "broken.lse", "x + = 2\n")
	cc, out, errOut := watchContext(t)

	solveWatched(context.Background(), cc, path)

	assert.Contains(t, out.String(), "broken: failed")
	assert.Contains(t, errOut.String(), "syntax error")
}

func TestWatchCommandMissingFile(t *testing.T) {
	testWorkspace(t)

	cmd := NewWatchCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"absent.lse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch")
}

func TestWatchCommandSolvesOnceAndStopsWhenCancelled(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "model.lse", "x := 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewWatchCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"model.lse"})

	require.NoError(t, cmd.ExecuteContext(ctx))

	assert.Contains(t, out.String(), "model: solved")
	assert.Contains(t, out.String(), "watching model.lse")
}
