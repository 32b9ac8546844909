package sim

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/celllife/registry"
	"github.com/pthm-cable/celllife/systems"
	"github.com/pthm-cable/celllife/telemetry"
)

// ParticleSink receives one burst request per cell death.
type ParticleSink interface {
	SpawnParticleGroup(props systems.GroupSpawnProps)
}

// PhaseTimer is notified as Tick moves between phases.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Death describes a cell removed during a tick.
type Death struct {
	Entity   ecs.Entity
	Position r2.Vec
	Size     float64
	Color    r3.Vec
	Age      float64
}

// TickResult summarizes one simulation step.
type TickResult struct {
	Tick   uint64
	Deaths []Death
	Alive  int
}

// Simulation owns the live cells and their receptors.
// It is not safe for concurrent use; callers serialize Tick against reads.
type Simulation struct {
	params   Params
	registry *registry.Registry[Receptor]
	base     Receptor

	cells    []*Cell // creation order
	byEntity map[ecs.Entity]*Cell

	sink  ParticleSink
	timer PhaseTimer
	tick  uint64

	parallel *parallelState
}

// New creates an empty simulation. sink may be nil.
func New(p Params, sink ParticleSink) *Simulation {
	return &Simulation{
		params:   p,
		registry: registry.New[Receptor](),
		base:     BaseReceptor{Params: p.Base},
		cells:    make([]*Cell, 0, 64),
		byEntity: make(map[ecs.Entity]*Cell),
		sink:     sink,
		parallel: newParallelState(p.Workers),
	}
}

// SetPhaseTimer installs a timer notified at each phase boundary.
func (s *Simulation) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

// Params returns the parameters the simulation was built with.
func (s *Simulation) Params() Params {
	return s.params
}

// Tick advances every cell by dt seconds.
//
// Every cell observes its peers as they were at the start of the tick, so
// the result does not depend on iteration order.
func (s *Simulation) Tick(dt float64) TickResult {
	s.tick++

	s.startPhase(telemetry.PhaseSnapshot)
	n := s.snapshot()

	s.startPhase(telemetry.PhaseInteract)
	if n > 0 {
		threshold := s.params.ParallelThreshold
		if threshold <= 0 {
			threshold = parallelThreshold
		}
		if n < threshold {
			s.computeChunk(0, n, dt)
		} else {
			s.computeParallel(n, dt)
		}
	}

	s.startPhase(telemetry.PhaseApply)
	s.applyUpdates()

	s.startPhase(telemetry.PhaseCleanup)
	deaths := s.cleanupDead()

	return TickResult{
		Tick:   s.tick,
		Deaths: deaths,
		Alive:  len(s.cells),
	}
}

func (s *Simulation) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

// snapshot copies live cell state into the read buffer and resolves receptors.
func (s *Simulation) snapshot() int {
	ps := s.parallel
	n := len(s.cells)

	ps.read = ps.read[:0]
	ps.receptors = ps.receptors[:0]
	for _, c := range s.cells {
		ps.read = append(ps.read, *c)

		receptors, err := s.registry.ComponentsOf(c.Entity)
		if err != nil {
			slog.Warn("cell without receptors", "entity", c.Entity, "error", err)
		}
		ps.receptors = append(ps.receptors, receptors)
	}

	// Peers point into the read buffer, which is not resized until next tick.
	ps.peers = ps.peers[:0]
	for i := range ps.read {
		ps.peers = append(ps.peers, &ps.read[i])
	}

	if cap(ps.write) < n {
		ps.write = make([]Cell, n)
	}
	ps.write = ps.write[:n]
	return n
}

// computeChunk updates cells [i0, i1) from the read buffer into the write buffer.
func (s *Simulation) computeChunk(i0, i1 int, dt float64) {
	ps := s.parallel
	for i := i0; i < i1; i++ {
		next := ps.read[i]

		next.Integrate(dt)
		next.UpdateHealth(s.params.HealthRegenRate, dt)
		next.Acceleration = r2.Vec{}

		force := AccumulateForce(&next, ps.receptors[i], ps.peers)
		next.Acceleration = r2.Scale(1/next.Mass(), force)

		ps.write[i] = next
	}
}

// applyUpdates writes computed state back to the live cells.
func (s *Simulation) applyUpdates() {
	for i, c := range s.cells {
		*c = s.parallel.write[i]
	}
}

// Cell returns a copy of the cell with the given handle.
func (s *Simulation) Cell(e ecs.Entity) (Cell, bool) {
	c, ok := s.byEntity[e]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// Cells returns a copy of every live cell in creation order.
func (s *Simulation) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	for i, c := range s.cells {
		out[i] = *c
	}
	return out
}

// CellAt returns the smallest-distance cell whose body, widened by slack,
// contains p.
func (s *Simulation) CellAt(p r2.Vec, slack float64) (Cell, bool) {
	var (
		best  *Cell
		bestD = math.Inf(1)
	)
	for _, c := range s.cells {
		d := r2.Norm(r2.Sub(c.Position, p))
		if d <= c.Size+slack && d < bestD {
			best, bestD = c, d
		}
	}
	if best == nil {
		return Cell{}, false
	}
	return *best, true
}

// Receptors returns the receptors attached to a cell, base receptor first.
func (s *Simulation) Receptors(e ecs.Entity) ([]Receptor, error) {
	return s.registry.ComponentsOf(e)
}

// Len returns the number of live cells.
func (s *Simulation) Len() int {
	return len(s.cells)
}

// TickCount returns the number of completed ticks.
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// AppendDots appends the draw projection of every live cell to dst.
func (s *Simulation) AppendDots(dst []Dot) []Dot {
	for _, c := range s.cells {
		dst = append(dst, c.dot())
	}
	return dst
}

// Close stops the worker pool.
func (s *Simulation) Close() {
	s.parallel.stopWorkers()
}
