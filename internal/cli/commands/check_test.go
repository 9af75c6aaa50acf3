package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommandReportsShape(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "model.lse", "x := 2\nx + y = 10\n")

	cmd := NewCheckCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"model.lse"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "model")
	assert.Contains(t, out.String(), "2 statements, 1 assignments, 1 equations, 1 unknowns")
	assert.Contains(t, out.String(), "unknowns: y")
}

func TestCheckCommandSyntaxError(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "broken.lse", "x +\n")

	cmd := NewCheckCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"broken.lse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
	assert.Contains(t, errOut.String(), "syntax error")
}

func TestCheckCommandUnderdetermined(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "under.lse", "x + y = 10\n")

	cmd := NewCheckCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"under.lse"})

	err := cmd.Execute()
	require.Error(t, err, "an under-determined system fails validation")
	assert.Contains(t, errOut.String(), "under-determined")
}

func TestCheckCommandDumpAST(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "model.lse", "x := 2\nx + y = 10\ny := 4\n")

	cmd := NewCheckCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"model.lse", "--dump-ast"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "x := 2")
	assert.Contains(t, out.String(), "x + y = 10")
}

func TestCheckCommandMultipleFiles(t *testing.T) {
	dir := testWorkspace(t)
	writeModel(t, dir, "a.lse", "x := 1\n")
	writeModel(t, dir, "b.lse", "y :=\n")

	cmd := NewCheckCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a.lse", "b.lse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed validation")
}
