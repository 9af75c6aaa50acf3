package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lsolve-labs/lsolve/pkg/units"
)

// unitGroups lists the documented quantities in display order with
// their accepted symbols. Based on pkg/units/units.go; generation fails
// if a symbol stops resolving or moves to another quantity.
var unitGroups = []struct {
	Quantity string
	Symbols  []string
}{
	{"temperature", []string{"C", "F", "K", "R"}},
	{"temperature difference", []string{"dC", "dF", "dK", "dR"}},
	{"pressure", []string{"Pa", "kPa", "MPa", "bar", "atm", "psia", "psig"}},
	{"length", []string{"m", "cm", "mm", "km", "in", "ft"}},
	{"area", []string{"m^2", "cm^2", "ft^2"}},
	{"volume", []string{"m^3", "L", "ft^3", "gal"}},
	{"mass", []string{"kg", "g", "lbm", "lb"}},
	{"time", []string{"s", "min", "hr"}},
	{"velocity", []string{"m/s", "ft/s", "km/hr"}},
	{"mass flow", []string{"kg/s", "kg/hr", "lbm/hr"}},
	{"volumetric flow", []string{"m^3/s", "L/s", "cfm"}},
	{"density", []string{"kg/m^3", "lbm/ft^3"}},
	{"energy", []string{"J", "kJ", "MJ", "Btu", "kWh"}},
	{"specific energy", []string{"J/kg", "kJ/kg", "Btu/lbm"}},
	{"power", []string{"W", "kW", "MW", "hp"}},
	{"specific heat", []string{"J/kg-K", "kJ/kg-K", "Btu/lbm-R"}},
	{"conductance", []string{"W/K", "kW/K", "Btu/hr-R"}},
	{"heat transfer coefficient", []string{"W/m^2-K", "Btu/hr-ft^2-R"}},
	{"thermal conductivity", []string{"W/m-K", "Btu/hr-ft-R"}},
	{"frequency", []string{"Hz", "rad/s", "rpm"}},
	{"angle", []string{"rad", "deg"}},
	{"current", []string{"A", "mA"}},
	{"voltage", []string{"V", "kV"}},
}

// generateUnitDocs generates the unit annotation reference.
func generateUnitDocs(outDir string) error {
	log.Printf("Generating unit docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	table := units.NewTable()

	w := NewMarkdownWriter()
	w.Frontmatter("Unit Annotations", "Units recognized in lsolve equation files")
	w.GeneratedMarker()

	w.Header(1, "Unit Annotations")
	w.Paragraph("A bracketed annotation after an assignment attaches a unit to the variable:")
	w.CodeBlock("text", `T_in := 300 [K]
m_dot := 1.5 [kg/s]   "cooling water"`)
	w.Paragraph("Lookup is case-insensitive and ignores spacing; `**` is accepted for `^`. Annotations are labels, not conversions: values are never rescaled.")

	w.Header(2, "Recognized Units")
	headers := []string{"Quantity", "Units"}
	var rows [][]string
	for _, g := range unitGroups {
		var cells []string
		for _, sym := range g.Symbols {
			res, err := table.Resolve(sym)
			if err != nil {
				return fmt.Errorf("documented unit %s no longer resolves: %w", sym, err)
			}
			if res.Quantity != g.Quantity {
				return fmt.Errorf("documented unit %s resolves to %q, not %q", sym, res.Quantity, g.Quantity)
			}
			cells = append(cells, InlineCode(sym))
		}
		rows = append(rows, []string{g.Quantity, strings.Join(cells, ", ")})
	}
	w.Table(headers, rows)

	w.Header(2, "Unrecognized Units")
	w.Paragraph("An annotation outside this table still attaches to its variable and prints with the result; the run gains an `unknown-unit` warning.")

	filename := filepath.Join(outDir, "units.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated units.md")
	return nil
}
