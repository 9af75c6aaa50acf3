// Package interp executes parsed equation files: it holds the variable
// store and function registry, evaluates expressions, and separates
// immediate assignments from equations deferred to the solver.
package interp

import "strings"

// CanonicalName returns the case-insensitive key form of a variable
// name. Every store-like boundary applies this one rule; nothing else
// compares variable names directly.
func CanonicalName(name string) string {
	return strings.ToLower(name)
}

// Record is one variable's state inside a VarStore.
type Record struct {
	Name     string // display name, as first written
	Value    float64
	Unit     string
	Explicit bool // set by an assignment or a successful solve
	Defined  bool // a value has been written at least once
}

// VarStore is the single mutable table of variables for one run.
// Names are case-insensitive: T_in and t_IN address the same record.
// A store lives for exactly one run and is discarded afterwards.
type VarStore struct {
	records map[string]*Record
	order   []string // canonical keys in first-write order
}

// NewVarStore returns an empty store.
func NewVarStore() *VarStore {
	return &VarStore{records: make(map[string]*Record)}
}

func (s *VarStore) ensure(name string) *Record {
	key := CanonicalName(name)
	if r, ok := s.records[key]; ok {
		return r
	}
	r := &Record{Name: name}
	s.records[key] = r
	s.order = append(s.order, key)
	return r
}

// Get returns the value of name. A variable that has never been
// written (a unit annotation alone does not count) is undefined.
func (s *VarStore) Get(name string) (float64, error) {
	if r, ok := s.records[CanonicalName(name)]; ok && r.Defined {
		return r.Value, nil
	}
	return 0, &UndefinedVariableError{Name: name}
}

// Set writes value under name. The explicit flag marks values placed
// by an assignment or a successful solve, as opposed to provisional
// guesses.
func (s *VarStore) Set(name string, value float64, explicit bool) {
	r := s.ensure(name)
	r.Value = value
	r.Explicit = explicit
	r.Defined = true
}

// SetUnit attaches a unit annotation without touching the value.
func (s *VarStore) SetUnit(name, unit string) {
	s.ensure(name).Unit = unit
}

// Unit returns the unit annotation for name, or "" if none.
func (s *VarStore) Unit(name string) string {
	if r, ok := s.records[CanonicalName(name)]; ok {
		return r.Unit
	}
	return ""
}

// IsExplicit reports whether name holds an explicitly assigned or
// solved value. Unknown names are not explicit.
func (s *VarStore) IsExplicit(name string) bool {
	r, ok := s.records[CanonicalName(name)]
	return ok && r.Explicit
}

// Record returns a copy of the record for name.
func (s *VarStore) Record(name string) (Record, bool) {
	if r, ok := s.records[CanonicalName(name)]; ok {
		return *r, true
	}
	return Record{}, false
}

// AllNames returns every display name in first-write order.
func (s *VarStore) AllNames() []string {
	names := make([]string, 0, len(s.order))
	for _, key := range s.order {
		names = append(names, s.records[key].Name)
	}
	return names
}

// Len returns the number of variables in the store.
func (s *VarStore) Len() int {
	return len(s.records)
}
