package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/celllife/sim"
)

// AddCell inserts a cell while the game is running.
func (g *Game) AddCell(spec sim.CellSpec, receptors ...sim.Receptor) (ecs.Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, err := g.sim.AddCell(spec, receptors...)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("game: %w", err)
	}
	c, _ := g.sim.Cell(e)
	g.trackBirth(c)
	return e, nil
}

// Cells returns a copy of every live cell.
func (g *Game) Cells() []sim.Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sim.Cells()
}

// CellAt returns the cell under world point p, if any. slack widens the hit
// area for tiny cells.
func (g *Game) CellAt(p r2.Vec, slack float64) (sim.Cell, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sim.CellAt(p, slack)
}

// Inspect returns a copy of a live cell and its receptors.
func (g *Game) Inspect(e ecs.Entity) (sim.Cell, []sim.Receptor, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.sim.Cell(e)
	if !ok {
		return sim.Cell{}, nil, false
	}
	rs, err := g.sim.Receptors(e)
	if err != nil {
		return sim.Cell{}, nil, false
	}
	return c, rs, true
}
