package main

import (
	"bytes"
	"fmt"
	"strings"
)

// generatedHeader marks files (or sections) this tool owns. Generators
// look for it before overwriting hand-written content.
const generatedHeader = "<!-- This file is auto-generated by scripts/gendocs. Do not edit by hand. -->"

// MarkdownWriter builds a markdown document in memory.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter returns an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block with title and description.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.buf.WriteString("---\n")
	fmt.Fprintf(&w.buf, "title: %s\n", title)
	fmt.Fprintf(&w.buf, "description: %s\n", description)
	w.buf.WriteString("---\n\n")
}

// GeneratedMarker writes the do-not-edit comment.
func (w *MarkdownWriter) GeneratedMarker() {
	w.buf.WriteString(generatedHeader + "\n\n")
}

// Header writes a heading at the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	fmt.Fprintf(&w.buf, "%s %s\n\n", strings.Repeat("#", level), text)
}

// Paragraph writes a paragraph followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.buf.WriteString(text + "\n\n")
}

// CodeBlock writes a fenced code block with the given language tag.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.buf, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

// Table writes a markdown table. Pipes inside cells are escaped.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.buf.WriteString("| " + strings.Join(escapeCells(headers), " | ") + " |\n")
	w.buf.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		w.buf.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	w.buf.WriteString("\n")
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.buf.WriteString("- " + item + "\n")
	}
	w.buf.WriteString("\n")
}

// Text writes raw markdown as-is.
func (w *MarkdownWriter) Text(s string) {
	w.buf.WriteString(s)
}

// String returns the document built so far.
func (w *MarkdownWriter) String() string {
	return w.buf.String()
}

// Bytes returns the document built so far.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// Bold wraps s in double asterisks.
func Bold(s string) string {
	return "**" + s + "**"
}

// cleanDescription reduces a usage string to a single table-friendly
// line.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
