// Package units extracts bracket-delimited unit annotations from raw
// source text and resolves unit strings against a unit table.
//
// Annotations ride alongside the language rather than inside it: the
// extractor is an independent line scan over the raw text, so a unit
// may sit in a trailing comment ({...}, "..." or //...) without being
// part of any expression.
package units

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceRunRe = regexp.MustCompile(`\s+`)

// Normalize canonicalizes a raw unit string: Unicode NFC, trimmed,
// internal whitespace collapsed, and ** rewritten to ^.
func Normalize(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "**", "^")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return s
}

// Resolution is a recognized unit: the physical quantity it measures
// and its canonical symbol.
type Resolution struct {
	Quantity string // e.g. "temperature"
	Unit     string // canonical symbol, e.g. "kPa"
}

// Resolver resolves raw unit strings. Implementations return a
// *UnitNotRecognizedError for unknown units.
type Resolver interface {
	Resolve(raw string) (Resolution, error)
}

// Table is the builtin Resolver backed by a fixed unit table. Lookup is
// case-insensitive over normalized strings.
type Table struct {
	entries map[string]Resolution
}

// NewTable returns a Table pre-populated with common engineering units.
func NewTable() *Table {
	t := &Table{entries: make(map[string]Resolution)}
	for quantity, symbols := range builtinUnits {
		for _, sym := range symbols {
			t.register(quantity, sym)
		}
	}
	return t
}

func (t *Table) register(quantity, symbol string) {
	key := strings.ToLower(Normalize(symbol))
	t.entries[key] = Resolution{Quantity: quantity, Unit: symbol}
}

// Resolve implements Resolver.
func (t *Table) Resolve(raw string) (Resolution, error) {
	key := strings.ToLower(Normalize(raw))
	if res, ok := t.entries[key]; ok {
		return res, nil
	}
	return Resolution{}, &UnitNotRecognizedError{Unit: raw}
}

// builtinUnits maps quantity kinds to their recognized symbols. The
// first symbol position carries no significance; canonical display is
// whatever casing appears here.
var builtinUnits = map[string][]string{
	"temperature":               {"C", "F", "K", "R"},
	"temperature difference":    {"dC", "dF", "dK", "dR"},
	"pressure":                  {"Pa", "kPa", "MPa", "bar", "atm", "psia", "psig"},
	"length":                    {"m", "cm", "mm", "km", "in", "ft"},
	"area":                      {"m^2", "cm^2", "ft^2"},
	"volume":                    {"m^3", "L", "ft^3", "gal"},
	"mass":                      {"kg", "g", "lbm", "lb"},
	"time":                      {"s", "min", "hr"},
	"velocity":                  {"m/s", "ft/s", "km/hr"},
	"mass flow":                 {"kg/s", "kg/hr", "lbm/hr"},
	"volumetric flow":           {"m^3/s", "L/s", "cfm"},
	"density":                   {"kg/m^3", "lbm/ft^3"},
	"energy":                    {"J", "kJ", "MJ", "Btu", "kWh"},
	"specific energy":           {"J/kg", "kJ/kg", "Btu/lbm"},
	"power":                     {"W", "kW", "MW", "hp"},
	"specific heat":             {"J/kg-K", "kJ/kg-K", "Btu/lbm-R"},
	"conductance":               {"W/K", "kW/K", "Btu/hr-R"},
	"heat transfer coefficient": {"W/m^2-K", "Btu/hr-ft^2-R"},
	"thermal conductivity":      {"W/m-K", "Btu/hr-ft-R"},
	"frequency":                 {"Hz", "rad/s", "rpm"},
	"angle":                     {"rad", "deg"},
	"current":                   {"A", "mA"},
	"voltage":                   {"V", "kV"},
}
