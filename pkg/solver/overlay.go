package solver

import "github.com/lsolve-labs/lsolve/pkg/interp"

// overlay shadows a base store with trial values for the unknowns.
// Residual evaluation reads through it, so the base store never sees a
// candidate point.
type overlay struct {
	base     *interp.VarStore
	unknowns []string
	values   map[string]float64 // canonical name → trial value
}

func newOverlay(base *interp.VarStore, unknowns []string) *overlay {
	return &overlay{
		base:     base,
		unknowns: unknowns,
		values:   make(map[string]float64, len(unknowns)),
	}
}

// setPoint installs the candidate value vector, ordered like unknowns.
func (o *overlay) setPoint(x []float64) {
	for i, name := range o.unknowns {
		o.values[interp.CanonicalName(name)] = x[i]
	}
}

// Get implements interp.Vars.
func (o *overlay) Get(name string) (float64, error) {
	if v, ok := o.values[interp.CanonicalName(name)]; ok {
		return v, nil
	}
	return o.base.Get(name)
}
