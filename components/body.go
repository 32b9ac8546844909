// Package components defines the per-cell state blocks the simulation operates on.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body holds the physical properties of a cell.
type Body struct {
	Size    float64 `inspect:"label,fmt:%.1f"` // radius, > 0
	Color   r3.Vec  // normalized RGB
	Density float64 `inspect:"skip"`
}

// Mass returns π·size²·density.
func (b Body) Mass() float64 {
	return math.Pi * b.Size * b.Size * b.Density
}
