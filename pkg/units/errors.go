package units

import "fmt"

// UnitNotRecognizedError reports a unit string absent from the resolver.
type UnitNotRecognizedError struct {
	Unit string
}

// Error implements the error interface.
func (e *UnitNotRecognizedError) Error() string {
	return fmt.Sprintf("unit not recognized: %q", e.Unit)
}
