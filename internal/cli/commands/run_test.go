package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsolve-labs/lsolve/internal/config"
)

// testWorkspace isolates a test in a fresh directory with fresh config
// state, so commands resolve defaults against the temp dir.
func testWorkspace(t *testing.T) string {
	t.Helper()
	config.ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeModel(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0600))
	return path
}

func TestRunCommandSolvesFile(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "model.lse", "x + y = 10\nx - y = 2\n")

	cmd := NewRunCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"model.lse"})

	require.NoError(t, cmd.Execute(), "stderr: %s", errOut.String())

	assert.Contains(t, out.String(), "model: solved")
	assert.Contains(t, out.String(), "2 equations, 2 unknowns")
	assert.Contains(t, out.String(), "6")
	assert.Contains(t, out.String(), "4")
}

func TestRunCommandRecordsHistory(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "model.lse", "x := 3\n")

	cmd := NewRunCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"model.lse"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, ".lsolve", "history.db"))
	assert.NoError(t, err, "default history database should be created")
}

func TestRunCommandSyntaxErrorFailsWithDiagnostics(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "broken.lse", "x + = 3\n")

	cmd := NewRunCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"broken.lse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, out.String(), "broken: failed")
	assert.Contains(t, errOut.String(), "syntax")
}

func TestRunCommandMissingFile(t *testing.T) {
	testWorkspace(t)

	cmd := NewRunCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"absent.lse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestRunCommandMultipleFilesInArgumentOrder(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "a.lse", "a := 1\n")
	writeModel(t, dir, "b.lse", "b := 2\n")

	cmd := NewRunCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a.lse", "b.lse"})

	require.NoError(t, cmd.Execute())

	text := out.String()
	first := strings.Index(text, "a: solved")
	second := strings.Index(text, "b: solved")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first, "results should render in argument order")
}

func TestRunCommandPartialFailure(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "good.lse", "x := 1\n")
	writeModel(t, dir, "bad.lse", "y = 1/0\n")

	cmd := NewRunCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"good.lse", "bad.lse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out.String(), "good: solved")
	assert.Contains(t, out.String(), "bad: failed")
}
