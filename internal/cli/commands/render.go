package commands

// render.go - result rendering shared by run, watch, check, and history

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lsolve-labs/lsolve/internal/cli/output"
	"github.com/lsolve-labs/lsolve/internal/engine"
	"github.com/lsolve-labs/lsolve/internal/history"
)

// variableColumns heads the variable listing in every tabular mode.
var variableColumns = []string{"Variable", "Value", "Unit", "Quantity", "Source"}

// renderResult writes one solve result in the renderer's mode.
func renderResult(r *output.Renderer, res *engine.Result) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(res)
	case output.ModeCSV:
		return renderRowsCSV(r.Writer(), variableColumns, variableRows(res.Variables))
	case output.ModeMarkdown:
		renderResultMarkdown(r, res)
		return nil
	default:
		renderResultTable(r, res)
		return nil
	}
}

func renderResultTable(r *output.Renderer, res *engine.Result) {
	renderHeadline(r, res)

	if len(res.Variables) > 0 {
		renderRowsTable(r.Writer(), variableColumns, variableRows(res.Variables))
	}

	renderStrings(r, res.Strings)
	for _, d := range res.Directives {
		r.Println(r.Muted(d))
	}
	for _, p := range res.Plots {
		r.Println(r.Muted(p))
	}

	renderDiagnostics(r, res.Diagnostics)
	r.Println(r.Muted(statsLine(res.Stats)))
}

func renderResultMarkdown(r *output.Renderer, res *engine.Result) {
	w := r.Writer()
	_, _ = fmt.Fprintf(w, "## %s (%s)\n\n", res.Name, resultStatus(res))

	if len(res.Variables) > 0 {
		renderRowsMarkdown(w, variableColumns, variableRows(res.Variables))
		_, _ = fmt.Fprintln(w)
	}
	for _, kv := range sortedStrings(res.Strings) {
		_, _ = fmt.Fprintf(w, "- %s = '%s'\n", kv[0], kv[1])
	}
	for _, d := range res.Diagnostics {
		_, _ = fmt.Fprintf(w, "- **%s** [%s]: %s\n", d.Severity, d.Kind, d.Message)
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", statsLine(res.Stats))
}

func renderHeadline(r *output.Renderer, res *engine.Result) {
	line := fmt.Sprintf("%s: %s", res.Name, resultStatus(res))
	switch {
	case !res.Solved:
		r.Println(r.Styles.Error.Render(line))
	case res.Unreliable:
		r.Println(r.Styles.Warning.Render(line))
	default:
		r.Println(r.Styles.Success.Render(line))
	}
}

func resultStatus(res *engine.Result) string {
	switch {
	case !res.Solved:
		return "failed"
	case res.Unreliable:
		return "solved (least-squares fit)"
	default:
		return "solved"
	}
}

func renderStrings(r *output.Renderer, strs map[string]string) {
	for _, kv := range sortedStrings(strs) {
		r.Printf("%s = '%s'\n", kv[0], kv[1])
	}
}

// sortedStrings flattens a string-variable map into name-sorted pairs.
func sortedStrings(strs map[string]string) [][2]string {
	names := make([]string, 0, len(strs))
	for name := range strs {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([][2]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, [2]string{name, strs[name]})
	}
	return pairs
}

func renderDiagnostics(r *output.Renderer, diags []engine.Diagnostic) {
	for _, d := range diags {
		line := fmt.Sprintf("%s [%s]: %s", d.Severity, d.Kind, d.Message)
		switch d.Severity {
		case engine.SeverityError:
			r.Error(line)
		case engine.SeverityWarning:
			r.Warning(line)
		default:
			r.Println(line)
		}
	}
}

func statsLine(s engine.Stats) string {
	line := fmt.Sprintf("(%d statements, %d equations, %d unknowns", s.Statements, s.Equations, s.Unknowns)
	if s.Iterations > 0 {
		line += fmt.Sprintf(", %d iterations", s.Iterations)
	}
	return line + fmt.Sprintf(" in %s)", s.Duration.Round(time.Microsecond))
}

func variableRows(vars []engine.VariableResult) [][]string {
	rows := make([][]string, 0, len(vars))
	for _, v := range vars {
		rows = append(rows, []string{v.Name, formatFloat(v.Value), v.Unit, v.Quantity, variableSource(v)})
	}
	return rows
}

func variableSource(v engine.VariableResult) string {
	switch {
	case v.Solved:
		return "solved"
	case v.Explicit:
		return "input"
	default:
		return "guess"
	}
}

// formatFloat renders values compactly, six significant digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// renderRowsTable writes cols and rows as a bordered terminal table.
func renderRowsTable(w io.Writer, cols []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	t.Render()
}

// renderRowsCSV writes cols and rows as comma-separated lines.
func renderRowsCSV(w io.Writer, cols []string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, strings.Join(cols, ",")); err != nil {
		return err
	}
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i, cell := range row {
			escaped[i] = escapeCSV(cell)
		}
		if _, err := fmt.Fprintln(w, strings.Join(escaped, ",")); err != nil {
			return err
		}
	}
	return nil
}

// escapeCSV quotes a field when it contains a comma, quote, or newline.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// renderRowsMarkdown writes cols and rows as a markdown table.
func renderRowsMarkdown(w io.Writer, cols []string, rows [][]string) {
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))

	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
	}
}

// renderCheck writes one check report in the renderer's mode.
func renderCheck(r *output.Renderer, rep *engine.CheckReport) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rep)
	}

	status := "ok"
	if !rep.OK() {
		status = "failed"
	}
	detail := fmt.Sprintf("%d statements, %d assignments, %d equations, %d unknowns",
		rep.Statements, rep.Assignments, rep.Equations, len(rep.Unknowns))
	r.StatusLine(rep.Name, status, detail)

	if len(rep.Unknowns) > 0 {
		r.Println("    " + r.Muted("unknowns: "+strings.Join(rep.Unknowns, ", ")))
	}
	renderDiagnostics(r, rep.Diagnostics)
	return nil
}

// runColumns heads the history listing.
var runColumns = []string{"ID", "Label", "Status", "Eqs", "Unknowns", "Iterations", "Objective", "Duration", "Created"}

// renderRuns writes the history listing in the renderer's mode.
func renderRuns(r *output.Renderer, runs []*history.Run) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(runs)
	case output.ModeCSV:
		return renderRowsCSV(r.Writer(), runColumns, runRows(runs))
	case output.ModeMarkdown:
		renderRowsMarkdown(r.Writer(), runColumns, runRows(runs))
		return nil
	default:
		if len(runs) == 0 {
			r.Println("no recorded runs")
			return nil
		}
		renderRowsTable(r.Writer(), runColumns, runRows(runs))
		r.Println(r.Muted(fmt.Sprintf("(%d runs)", len(runs))))
		return nil
	}
}

func runRows(runs []*history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.Label,
			run.Status,
			strconv.Itoa(run.Equations),
			strconv.Itoa(run.Unknowns),
			strconv.Itoa(run.Iterations),
			formatFloat(run.Objective),
			(time.Duration(run.DurationMS) * time.Millisecond).String(),
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderRun writes a single run with its variable listing.
func renderRun(r *output.Renderer, run *history.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(run)
	}

	r.Header(fmt.Sprintf("%s  %s", run.ID, run.Label))
	r.StatusLine(run.Label, run.Status, run.Error)
	r.Println(r.Muted(fmt.Sprintf("%d equations, %d unknowns, %d iterations, objective %s, %s, recorded %s",
		run.Equations, run.Unknowns, run.Iterations, formatFloat(run.Objective),
		time.Duration(run.DurationMS)*time.Millisecond,
		run.CreatedAt.Local().Format("2006-01-02 15:04:05"))))

	if len(run.Variables) > 0 {
		cols := []string{"Variable", "Value", "Unit", "Source"}
		rows := make([][]string, 0, len(run.Variables))
		for _, v := range run.Variables {
			source := "input"
			if v.Solved {
				source = "solved"
			}
			rows = append(rows, []string{v.Name, formatFloat(v.Value), v.Unit, source})
		}
		renderRowsTable(r.Writer(), cols, rows)
	}
	return nil
}
