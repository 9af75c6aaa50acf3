package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lsolve-labs/lsolve/pkg/interp"
)

// builtinFunction describes one entry of the builtin registry.
type builtinFunction struct {
	Signature   string
	Description string
}

// builtinDescriptions maps registry names to display metadata.
// Based on pkg/interp/registry.go.
var builtinDescriptions = map[string]builtinFunction{
	"sin":   {"sin(x)", "Sine of x (radians)"},
	"cos":   {"cos(x)", "Cosine of x (radians)"},
	"tan":   {"tan(x)", "Tangent of x (radians)"},
	"asin":  {"asin(x)", "Inverse sine; x must lie in [-1, 1]"},
	"acos":  {"acos(x)", "Inverse cosine; x must lie in [-1, 1]"},
	"atan":  {"atan(x)", "Inverse tangent"},
	"atan2": {"atan2(y, x)", "Angle of the point (x, y), in radians"},
	"sinh":  {"sinh(x)", "Hyperbolic sine"},
	"cosh":  {"cosh(x)", "Hyperbolic cosine"},
	"tanh":  {"tanh(x)", "Hyperbolic tangent"},
	"exp":   {"exp(x)", "e raised to the power x"},
	"ln":    {"ln(x)", "Natural logarithm; x must be positive"},
	"log10": {"log10(x)", "Base-10 logarithm; x must be positive"},
	"sqrt":  {"sqrt(x)", "Square root; x must be non-negative"},
	"abs":   {"abs(x)", "Absolute value"},
	"round": {"round(x)", "Nearest integer, halves away from zero"},
	"floor": {"floor(x)", "Largest integer not greater than x"},
	"ceil":  {"ceil(x)", "Smallest integer not less than x"},
	"min":   {"min(a, b, ...)", "Smallest of two or more values"},
	"max":   {"max(a, b, ...)", "Largest of two or more values"},
	"pi":    {"pi()", "The constant π"},
}

// generateFunctionDocs generates the builtin function reference.
func generateFunctionDocs(outDir string) error {
	log.Printf("Generating function docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	registry := interp.Builtins()

	// Refuse to document a registry that drifted from the table above.
	for _, name := range registry.Names() {
		if _, ok := builtinDescriptions[name]; !ok {
			return fmt.Errorf("builtin %s has no description entry", name)
		}
	}
	for name := range builtinDescriptions {
		if _, err := registry.Resolve(name); err != nil {
			return fmt.Errorf("described function %s is not registered: %w", name, err)
		}
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Built-in Functions", "Math functions available in lsolve equation files")
	w.GeneratedMarker()

	w.Header(1, "Built-in Functions")
	w.Paragraph(fmt.Sprintf("lsolve ships **%d built-in functions**. Names are case-insensitive; trigonometry works in radians.", len(registry.Names())))

	headers := []string{"Function", "Arguments", "Description"}
	var rows [][]string
	for _, name := range registry.Names() {
		f, err := registry.Resolve(name)
		if err != nil {
			return err
		}
		d := builtinDescriptions[name]
		rows = append(rows, []string{InlineCode(d.Signature), arityLabel(f), d.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Domain Errors")
	w.Paragraph("Calling a function outside its domain behaves differently by context:")
	w.BulletList([]string{
		Bold("Assignments") + ": the run stops with an evaluation error",
		Bold("Equations") + ": the solver treats the point as infeasible and steps away from it",
	})

	w.Header(2, "Examples")
	w.CodeBlock("text", `theta := pi() / 6
height := 10 * sin(theta)   "opposite side"
ratio := ln(100) / ln(10)
biggest := max(1, 4, 2)`)

	filename := filepath.Join(outDir, "functions.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated functions.md")
	return nil
}

// arityLabel renders the argument count column.
func arityLabel(f *interp.Func) string {
	if f.Variadic {
		return fmt.Sprintf("%d or more", f.Arity)
	}
	return fmt.Sprintf("%d", f.Arity)
}
