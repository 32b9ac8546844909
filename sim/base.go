package sim

import "gonum.org/v1/gonum/spatial/r2"

// BaseParams tunes the structural receptor every cell carries.
type BaseParams struct {
	RepulsionStrength float64
	Friction          float64
	MinDistance       float64
}

// BaseReceptor pushes overlapping cells apart and applies friction.
// It never spends energy.
type BaseReceptor struct {
	Params BaseParams
}

// BeginTick implements Receptor.
func (r BaseReceptor) BeginTick() Accumulator {
	return &baseAccumulator{params: r.Params}
}

type baseAccumulator struct {
	params BaseParams
	force  r2.Vec
}

func (a *baseAccumulator) AddInteraction(self, other *Cell) {
	diff := r2.Sub(other.Position, self.Position)
	d := r2.Norm(diff)
	// Coincident cells have no direction to push along.
	if d == 0 || d < a.params.MinDistance {
		return
	}
	ratio := self.Size / d
	// Inverse square in distance, scaled by own size, directed away from other.
	a.force = r2.Sub(a.force, r2.Scale(a.params.RepulsionStrength*ratio*ratio/d, diff))
}

func (a *baseAccumulator) Complete(self *Cell) r2.Vec {
	drag := r2.Scale(a.params.Friction*self.Mass(), self.Velocity)
	return r2.Sub(a.force, drag)
}
