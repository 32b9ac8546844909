package telemetry

// Sample is the population state handed to Flush at a window boundary.
type Sample struct {
	Energies       []float64
	Healths        []float64
	Particles      int
	ParticleGroups int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float64

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	births int
	deaths int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := uint64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a cell creation.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a cell removal.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, sample Sample) WindowStats {
	mean, std, p10, p50, p90 := ComputeEnergyStats(sample.Energies)

	var total float64
	for _, e := range sample.Energies {
		total += e
	}
	healthMean, _, _, _, _ := ComputeEnergyStats(sample.Healths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Cells:  len(sample.Energies),
		Births: c.births,
		Deaths: c.deaths,

		EnergyMean:  mean,
		EnergyStd:   std,
		EnergyP10:   p10,
		EnergyP50:   p50,
		EnergyP90:   p90,
		TotalEnergy: total,
		HealthMean:  healthMean,

		Particles:      sample.Particles,
		ParticleGroups: sample.ParticleGroups,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
