// Package output renders command results for terminals and pipelines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how command output is rendered.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeTable    Mode = "table"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "markdown"
)

// Styles holds the lipgloss styles used for status output.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Header:  lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}

// Renderer writes styled output to a terminal and plain output
// everywhere else.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styled bool

	// Styles are zero-valued passthrough styles unless styling is
	// active, so callers can render through them unconditionally.
	Styles Styles
}

// NewRenderer creates a renderer for the given writers. Styling is
// applied only when out is a terminal and the environment allows color.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		styled: isTerminal(out) && termenv.EnvColorProfile() != termenv.Ascii,
	}
	if r.styled {
		r.Styles = DefaultStyles()
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto to the concrete mode used.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto {
		return ModeTable
	}
	return r.mode
}

// Styled reports whether ANSI styling is active.
func (r *Renderer) Styled() bool { return r.styled }

// Writer returns the destination for primary output.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the destination for errors and warnings.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to the output writer.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a bold section heading.
func (r *Renderer) Header(s string) {
	_, _ = fmt.Fprintln(r.out, r.Styles.Header.Render(s))
}

// Success writes a green status line.
func (r *Renderer) Success(s string) {
	_, _ = fmt.Fprintln(r.out, r.Styles.Success.Render(s))
}

// Warning writes a yellow status line to the error writer.
func (r *Renderer) Warning(s string) {
	_, _ = fmt.Fprintln(r.errOut, r.Styles.Warning.Render(s))
}

// Error writes a red status line to the error writer.
func (r *Renderer) Error(s string) {
	_, _ = fmt.Fprintln(r.errOut, r.Styles.Error.Render(s))
}

// Muted returns s styled as secondary detail.
func (r *Renderer) Muted(s string) string {
	return r.Styles.Muted.Render(s)
}

// StatusLine writes an indented per-item status line, as in file
// listings: a check or cross, the item name, and optional muted detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	symbol := r.Styles.Success.Render("✓")
	switch status {
	case "ok", "success", "solved":
	default:
		symbol = r.Styles.Error.Render("✗")
	}
	line := fmt.Sprintf("  %s %s", symbol, name)
	if detail != "" {
		line += "  " + r.Muted(detail)
	}
	_, _ = fmt.Fprintln(r.out, line)
}

// JSON encodes v as indented JSON to the output writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
