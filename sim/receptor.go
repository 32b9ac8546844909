package sim

import "gonum.org/v1/gonum/spatial/r2"

// Receptor is a behaviour attached to a cell that turns neighbours into force.
// Implementations hold only immutable parameters so one value may be shared
// by many cells and used from several goroutines.
type Receptor interface {
	// BeginTick returns a fresh accumulator for one cell and one tick.
	BeginTick() Accumulator
}

// Accumulator folds pairwise interactions into a force.
type Accumulator interface {
	// AddInteraction observes one neighbour. other must not be modified.
	AddInteraction(self, other *Cell)
	// Complete returns the accumulated force and may spend self's energy.
	Complete(self *Cell) r2.Vec
}

// AccumulateForce runs every receptor against every peer except self and
// returns the summed force.
func AccumulateForce(self *Cell, receptors []Receptor, peers []*Cell) r2.Vec {
	var force r2.Vec
	for _, r := range receptors {
		acc := r.BeginTick()
		for _, other := range peers {
			if other.Entity == self.Entity {
				continue
			}
			acc.AddInteraction(self, other)
		}
		force = r2.Add(force, acc.Complete(self))
	}
	return force
}
