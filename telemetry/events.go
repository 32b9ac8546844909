// Package telemetry provides population statistics, per-phase timing and
// CSV experiment output.
package telemetry

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DeathRecord is one row of deaths.csv.
type DeathRecord struct {
	Tick        uint64  `csv:"tick"`
	Entity      string  `csv:"entity"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Size        float64 `csv:"size"`
	R           float64 `csv:"r"`
	G           float64 `csv:"g"`
	B           float64 `csv:"b"`
	PeakEnergy  float64 `csv:"peak_energy"`
	SurvivalSec float64 `csv:"survival_sec"`
}

// NewDeathRecord creates a death record. age is the simulated seconds the
// cell lived; lifetime may be nil for untracked cells.
func NewDeathRecord(tick uint64, e ecs.Entity, pos r2.Vec, size float64, color r3.Vec, age float64, lifetime *LifetimeStats) DeathRecord {
	rec := DeathRecord{
		Tick:        tick,
		Entity:      fmt.Sprint(e),
		X:           pos.X,
		Y:           pos.Y,
		Size:        size,
		R:           color.X,
		G:           color.Y,
		B:           color.Z,
		SurvivalSec: age,
	}
	if lifetime != nil {
		rec.PeakEnergy = lifetime.PeakEnergy
	}
	return rec
}
