package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsolve-labs/lsolve/internal/cli/output"
	"github.com/lsolve-labs/lsolve/internal/engine"
	"github.com/lsolve-labs/lsolve/internal/history"
)

func sampleResult() *engine.Result {
	res := &engine.Result{
		Name:   "sample",
		Solved: true,
		Variables: []engine.VariableResult{
			{Name: "T_in", Value: 300, Unit: "K", Quantity: "temperature", Explicit: true},
			{Name: "Q", Value: 44.935, Unit: "kW", Quantity: "power", Explicit: true, Solved: true},
		},
		Strings: map[string]string{"title$": "Cycle A"},
	}
	res.Stats = engine.Stats{Statements: 3, Equations: 1, Unknowns: 1, Iterations: 40, Duration: 3 * time.Millisecond}
	return res
}

func modeRenderer(mode output.Mode) (*output.Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return output.NewRenderer(out, errOut, mode), out, errOut
}

func TestRenderResultTable(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeTable)

	require.NoError(t, renderResult(r, sampleResult()))

	text := out.String()
	assert.Contains(t, text, "sample: solved")
	assert.Contains(t, text, "T_in")
	assert.Contains(t, text, "temperature")
	assert.Contains(t, text, "title$ = 'Cycle A'")
	assert.Contains(t, text, "3 statements, 1 equations, 1 unknowns, 40 iterations")
}

func TestRenderResultJSON(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeJSON)

	require.NoError(t, renderResult(r, sampleResult()))

	var decoded engine.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "sample", decoded.Name)
	assert.True(t, decoded.Solved)
	assert.Len(t, decoded.Variables, 2)
}

func TestRenderResultCSV(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeCSV)

	require.NoError(t, renderResult(r, sampleResult()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Variable,Value,Unit,Quantity,Source", lines[0])
	assert.Equal(t, "T_in,300,K,temperature,input", lines[1])
	assert.Equal(t, "Q,44.935,kW,power,solved", lines[2])
}

func TestRenderResultMarkdown(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeMarkdown)

	require.NoError(t, renderResult(r, sampleResult()))

	text := out.String()
	assert.Contains(t, text, "## sample (solved)")
	assert.Contains(t, text, "| Variable | Value | Unit | Quantity | Source |")
	assert.Contains(t, text, "| T_in | 300 | K | temperature | input |")
}

func TestRenderResultDiagnosticsSplitByStream(t *testing.T) {
	r, out, errOut := modeRenderer(output.ModeTable)

	res := &engine.Result{
		Name: "broken",
		Diagnostics: []engine.Diagnostic{
			{Severity: engine.SeverityError, Kind: engine.KindNoConvergence, Message: "did not converge"},
			{Severity: engine.SeverityWarning, Kind: engine.KindOverdetermined, Message: "more equations than unknowns"},
		},
	}
	require.NoError(t, renderResult(r, res))

	assert.Contains(t, out.String(), "broken: failed")
	assert.Contains(t, errOut.String(), "error [no-convergence]: did not converge")
	assert.Contains(t, errOut.String(), "warning [over-determined]: more equations than unknowns")
}

func TestRenderResultUnreliable(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeTable)

	res := &engine.Result{Name: "fit", Solved: true, Unreliable: true}
	require.NoError(t, renderResult(r, res))

	assert.Contains(t, out.String(), "fit: solved (least-squares fit)")
}

func TestRenderCheckStatusLine(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeTable)

	rep := &engine.CheckReport{
		Name:        "model",
		Statements:  4,
		Assignments: 2,
		Equations:   2,
		Unknowns:    []string{"x", "y"},
	}
	require.NoError(t, renderCheck(r, rep))

	assert.Contains(t, out.String(), "✓ model")
	assert.Contains(t, out.String(), "4 statements, 2 assignments, 2 equations, 2 unknowns")
	assert.Contains(t, out.String(), "unknowns: x, y")
}

func TestRenderCheckJSON(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeJSON)

	rep := &engine.CheckReport{Name: "model", Statements: 1}
	require.NoError(t, renderCheck(r, rep))

	var decoded engine.CheckReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "model", decoded.Name)
}

func TestRenderRunsEmpty(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeTable)

	require.NoError(t, renderRuns(r, nil))

	assert.Contains(t, out.String(), "no recorded runs")
}

func TestRenderRunsTable(t *testing.T) {
	r, out, _ := modeRenderer(output.ModeTable)

	runs := []*history.Run{{
		ID:         "0f3a9b21-aaaa-bbbb-cccc-ddddeeeeffff",
		Label:      "rankine",
		Status:     history.StatusSolved,
		Equations:  4,
		Unknowns:   4,
		Iterations: 120,
		DurationMS: 12,
		CreatedAt:  time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
	}}
	require.NoError(t, renderRuns(r, runs))

	text := out.String()
	assert.Contains(t, text, "0f3a9b21")
	assert.NotContains(t, text, "ddddeeeeffff", "listing shows abbreviated IDs")
	assert.Contains(t, text, "rankine")
	assert.Contains(t, text, "(1 runs)")
}

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line\nbreak", "\"line\nbreak\""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeCSV(tt.in), "escapeCSV(%q)", tt.in)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{6, "6"},
		{44.935, "44.935"},
		{1.0 / 3.0, "0.333333"},
		{1e-9, "1e-09"},
		{-273.15, "-273.15"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in), "formatFloat(%g)", tt.in)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f3a9b21", shortID("0f3a9b21-aaaa-bbbb"))
	assert.Equal(t, "short", shortID("short"))
}
