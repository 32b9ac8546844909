package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// AttractionParams tunes colour-affinity attraction.
type AttractionParams struct {
	Strength    float64
	Cost        float64 // energy per unit of force magnitude
	Range       float64
	MinDistance float64
}

// AttractionReceptor pulls a cell toward neighbours whose colour matches its
// affinity, paying energy in proportion to the force produced. A negative
// affinity component repels.
type AttractionReceptor struct {
	Affinity r3.Vec
	Params   AttractionParams
}

// BeginTick implements Receptor.
func (r AttractionReceptor) BeginTick() Accumulator {
	return &attractionAccumulator{affinity: r.Affinity, params: r.Params}
}

type attractionAccumulator struct {
	affinity r3.Vec
	params   AttractionParams
	force    r2.Vec
}

func (a *attractionAccumulator) AddInteraction(self, other *Cell) {
	diff := r2.Sub(other.Position, self.Position)
	d := r2.Norm(diff)
	if d == 0 || d >= a.params.Range || d < a.params.MinDistance {
		return
	}
	magnitude := a.params.Strength * r3.Dot(a.affinity, other.Color) * other.Mass()
	a.force = r2.Add(a.force, r2.Scale(magnitude/d, diff))
}

func (a *attractionAccumulator) Complete(self *Cell) r2.Vec {
	cost := r2.Norm(a.force) * a.params.Cost
	fraction := self.ConsumeEnergy(cost)
	return r2.Scale(fraction, a.force)
}
