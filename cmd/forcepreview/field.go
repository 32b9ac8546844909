package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/celllife/sim"
)

// FieldParams describes the two-cell setup being previewed.
type FieldParams struct {
	RepulsionLog10     float32 // repulsion strength = 10^RepulsionLog10
	AttractionStrength float32
	Range              float32
	TargetSize         float32
	ProbeSize          float32
	ViewRadius         float32 // half-width of the previewed world square
}

// Field holds the radial force a probe cell feels at each grid point from a
// target cell at the origin. Positive values pull toward the target.
type Field struct {
	Size   int
	Values []float64
	MaxAbs float64
}

// GenerateField samples the force on a probe cell across a size×size grid
// centred on a target cell. The probe carries both receptors and an
// affinity matching the target colour.
func GenerateField(params FieldParams, size int) (*Field, error) {
	p := sim.DefaultParams()
	p.Base.RepulsionStrength = math.Pow(10, float64(params.RepulsionLog10))
	p.Attraction.Strength = float64(params.AttractionStrength)
	p.Attraction.Range = float64(params.Range)
	p.Attraction.Cost = 0

	s := sim.New(p, nil)
	defer s.Close()

	color := r3.Vec{X: 1}
	targetID, err := s.AddCell(sim.CellSpec{Size: float64(params.TargetSize), Color: color})
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	probeID, err := s.AddCell(
		sim.CellSpec{Position: r2.Vec{X: 1}, Size: float64(params.ProbeSize), Color: color},
		sim.AttractionReceptor{Affinity: color, Params: p.Attraction},
	)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	target, _ := s.Cell(targetID)
	probe, _ := s.Cell(probeID)
	receptors, err := s.Receptors(probeID)
	if err != nil {
		return nil, err
	}

	f := &Field{Size: size, Values: make([]float64, size*size)}
	peers := []*sim.Cell{&target}
	view := float64(params.ViewRadius)

	for iy := 0; iy < size; iy++ {
		for ix := 0; ix < size; ix++ {
			c := probe
			c.Position = r2.Vec{
				X: (float64(ix)+0.5)/float64(size)*2*view - view,
				Y: (float64(iy)+0.5)/float64(size)*2*view - view,
			}
			d := r2.Norm(c.Position)
			if d == 0 {
				continue
			}

			force := sim.AccumulateForce(&c, receptors, peers)
			// Project onto the direction toward the target.
			radial := -r2.Dot(force, c.Position) / d

			f.Values[iy*size+ix] = radial
			f.MaxAbs = max(f.MaxAbs, math.Abs(radial))
		}
	}
	return f, nil
}

// Intensity maps a value to [-1, 1] on a log scale relative to MaxAbs.
func (f *Field) Intensity(i int) float64 {
	if f.MaxAbs == 0 {
		return 0
	}
	v := f.Values[i]
	t := math.Log1p(math.Abs(v)) / math.Log1p(f.MaxAbs)
	if v < 0 {
		return -t
	}
	return t
}
