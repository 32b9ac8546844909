package game

import (
	"log/slog"

	"github.com/pthm-cable/celllife/sim"
	"github.com/pthm-cable/celllife/telemetry"
)

// trackBirth registers a new cell with the collectors.
func (g *Game) trackBirth(c sim.Cell) {
	g.collector.RecordBirth()
	g.lifetimeTracker.Register(c.Entity, g.sim.TickCount(), c.Energy)
}

// recordDeaths turns the tick's deaths into counters and death records.
func (g *Game) recordDeaths(res sim.TickResult) {
	if len(res.Deaths) == 0 {
		return
	}

	records := make([]telemetry.DeathRecord, 0, len(res.Deaths))
	for _, d := range res.Deaths {
		g.collector.RecordDeath()
		lifetime := g.lifetimeTracker.Remove(d.Entity)
		records = append(records, telemetry.NewDeathRecord(res.Tick, d.Entity, d.Position, d.Size, d.Color, d.Age, lifetime))
	}

	if err := g.outputManager.WriteDeaths(records); err != nil {
		slog.Error("failed to write deaths", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry(tick uint64) {
	if !g.collector.ShouldFlush(tick) {
		return
	}

	cells := g.sim.Cells()
	sample := telemetry.Sample{
		Energies:       make([]float64, len(cells)),
		Healths:        make([]float64, len(cells)),
		Particles:      g.particles.Count(),
		ParticleGroups: g.particles.GroupCount(),
	}
	for i, c := range cells {
		sample.Energies[i] = c.Energy
		sample.Healths[i] = c.Health
		g.lifetimeTracker.UpdateEnergy(c.Entity, c.Energy)
	}

	stats := g.collector.Flush(tick, sample)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
