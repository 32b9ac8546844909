package telemetry

import "github.com/mlange-42/ark/ecs"

// LifetimeStats tracks per-entity statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  uint64
	PeakEnergy float64
}

// LifetimeTracker manages per-entity lifetime statistics.
type LifetimeTracker struct {
	stats map[ecs.Entity]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[ecs.Entity]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new entity.
func (lt *LifetimeTracker) Register(e ecs.Entity, birthTick uint64, energy float64) {
	lt.stats[e] = &LifetimeStats{
		BirthTick:  birthTick,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(e ecs.Entity) *LifetimeStats {
	return lt.stats[e]
}

// Remove removes an entity's stats and returns them.
func (lt *LifetimeTracker) Remove(e ecs.Entity) *LifetimeStats {
	stats := lt.stats[e]
	delete(lt.stats, e)
	return stats
}

// UpdateEnergy raises the peak energy if current exceeds it.
func (lt *LifetimeTracker) UpdateEnergy(e ecs.Entity, energy float64) {
	if s := lt.stats[e]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Len returns the number of tracked entities.
func (lt *LifetimeTracker) Len() int {
	return len(lt.stats)
}
