package game

import (
	"context"

	"github.com/pthm-cable/celllife/telemetry"
	"github.com/pthm-cable/celllife/timing"
)

// runStepper runs one tick per pulse, in arrival order, until the queue closes.
func (g *Game) runStepper(sub *timing.Subscription, cancel context.CancelFunc) {
	for p := range sub.Pulses() {
		// Pulses still buffered after MaxTicks are drained without stepping.
		if g.maxTicks > 0 && g.ticks.Load() >= g.maxTicks {
			continue
		}
		g.step(p)
		if g.maxTicks > 0 && g.ticks.Load() >= g.maxTicks {
			cancel()
		}
	}
}

// step advances the simulation and particles by one pulse under the write lock.
func (g *Game) step(p timing.Pulse) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.perfCollector.StartTick()

	res := g.sim.Tick(p.DT)

	g.perfCollector.StartPhase(telemetry.PhaseParticles)
	g.particles.Tick(p.DT)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordDeaths(res)
	g.flushTelemetry(res.Tick)

	g.perfCollector.EndTick()
	g.ticks.Add(1)
}
