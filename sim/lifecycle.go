package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/celllife/config"
	"github.com/pthm-cable/celllife/systems"
)

// AddCell creates a cell and attaches the base receptor followed by receptors.
func (s *Simulation) AddCell(spec CellSpec, receptors ...Receptor) (ecs.Entity, error) {
	if spec.Size <= 0 {
		return ecs.Entity{}, fmt.Errorf("add cell: size must be positive, got %v", spec.Size)
	}

	e := s.registry.CreateEntity()
	for _, r := range slices.Concat([]Receptor{s.base}, receptors) {
		if err := s.registry.Attach(e, r); err != nil {
			return ecs.Entity{}, fmt.Errorf("add cell: %w", err)
		}
	}

	c := NewCell(spec, s.params)
	c.Entity = e
	s.cells = append(s.cells, &c)
	s.byEntity[e] = &c
	return e, nil
}

// cleanupDead removes cells with no health left and requests one particle
// burst for each.
func (s *Simulation) cleanupDead() []Death {
	var deaths []Death

	// Collect first, then remove
	alive := s.cells[:0]
	for _, c := range s.cells {
		if !c.Dead() {
			alive = append(alive, c)
			continue
		}
		deaths = append(deaths, Death{
			Entity:   c.Entity,
			Position: c.Position,
			Size:     c.Size,
			Color:    c.Color,
			Age:      c.Age,
		})
	}
	clear(s.cells[len(alive):])
	s.cells = alive

	for _, d := range deaths {
		delete(s.byEntity, d.Entity)
		if err := s.registry.Remove(d.Entity); err != nil {
			slog.Warn("removing dead cell", "entity", d.Entity, "error", err)
		}
		if s.sink != nil {
			s.sink.SpawnParticleGroup(s.deathBurst(d))
		}
	}
	return deaths
}

// deathBurst converts a death into particle spawn properties.
func (s *Simulation) deathBurst(d Death) systems.GroupSpawnProps {
	b := s.params.Death
	return systems.GroupSpawnProps{
		Color:    d.Color,
		Count:    b.Count,
		Position: d.Position,
		Speed:    b.Speed,
		Lifetime: b.Lifetime,
		Spread:   d.Size,
		Size:     b.Size,
		Opacity:  b.Opacity,
	}
}

// Seed populates the simulation with the configured fixed cells followed by
// randomly generated ones.
func (s *Simulation) Seed(pop config.PopulationConfig, rng *rand.Rand) error {
	for i, sc := range pop.Cells {
		spec := CellSpec{
			Position: r2.Vec{X: sc.X, Y: sc.Y},
			Size:     sc.Size,
			Color:    r3.Vec{X: sc.Color[0], Y: sc.Color[1], Z: sc.Color[2]},
			Energy:   sc.Energy,
		}
		var receptors []Receptor
		if len(sc.Affinity) == 3 {
			receptors = append(receptors, AttractionReceptor{
				Affinity: r3.Vec{X: sc.Affinity[0], Y: sc.Affinity[1], Z: sc.Affinity[2]},
				Params:   s.params.Attraction,
			})
		}
		if _, err := s.AddCell(spec, receptors...); err != nil {
			return fmt.Errorf("seed cell %d: %w", i, err)
		}
	}

	rp := pop.Random
	for i := 0; i < rp.Count; i++ {
		r := rp.SpawnRadius * math.Sqrt(rng.Float64())
		angle := rng.Float64() * 2 * math.Pi
		color := r3.Unit(r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()})
		spec := CellSpec{
			Position: r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)},
			Size:     rp.MinSize + rng.Float64()*(rp.MaxSize-rp.MinSize),
			Color:    color,
		}
		var receptors []Receptor
		if rng.Float64() < rp.AttractionChance {
			receptors = append(receptors, AttractionReceptor{Affinity: color, Params: s.params.Attraction})
		}
		if _, err := s.AddCell(spec, receptors...); err != nil {
			return fmt.Errorf("seed random cell %d: %w", i, err)
		}
	}

	slog.Info("population seeded", "fixed", len(pop.Cells), "random", rp.Count, "alive", s.Len())
	return nil
}
