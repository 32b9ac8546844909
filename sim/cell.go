// Package sim implements the cell simulation: receptors, interaction
// accumulators and the per-tick update of every live cell.
package sim

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/celllife/components"
)

// CellSpec describes a cell to create.
type CellSpec struct {
	Position r2.Vec
	Velocity r2.Vec
	Size     float64
	Color    r3.Vec
	Energy   float64 // 0 uses Params.InitialEnergy
}

// Cell is one simulated cell. The entity handle keys its receptors in the registry.
type Cell struct {
	Entity ecs.Entity
	components.Body
	components.Motion
	components.Vitals
}

// NewCell builds a cell at full health with zero acceleration.
func NewCell(spec CellSpec, p Params) Cell {
	energy := spec.Energy
	if energy <= 0 {
		energy = p.InitialEnergy
	}
	return Cell{
		Body: components.Body{
			Size:    spec.Size,
			Color:   spec.Color,
			Density: p.Density,
		},
		Motion: components.Motion{
			Position: spec.Position,
			Velocity: spec.Velocity,
		},
		Vitals: components.Vitals{
			Energy:    energy,
			MaxEnergy: energy,
			Health:    p.MaxHealth,
			MaxHealth: p.MaxHealth,
		},
	}
}

// Dot is the render projection of a cell.
type Dot struct {
	Position   r2.Vec
	Radius     float64
	Color      r3.Vec
	Brightness float64
}

// dot projects the cell for drawing.
func (c *Cell) dot() Dot {
	return Dot{
		Position:   c.Position,
		Radius:     c.Size,
		Color:      c.Color,
		Brightness: c.Brightness(),
	}
}
