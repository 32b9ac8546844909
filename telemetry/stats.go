package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-" json:"window_start"`
	WindowEndTick   uint64  `csv:"window_end" json:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" json:"sim_time"`

	// Population at window end
	Cells int `csv:"cells" json:"cells"`

	// Events during window
	Births int `csv:"births" json:"births"`
	Deaths int `csv:"deaths" json:"deaths"`

	// Energy distribution (sampled at window end)
	EnergyMean  float64 `csv:"energy_mean" json:"energy_mean"`
	EnergyStd   float64 `csv:"energy_std" json:"energy_std"`
	EnergyP10   float64 `csv:"energy_p10" json:"energy_p10"`
	EnergyP50   float64 `csv:"energy_p50" json:"energy_p50"`
	EnergyP90   float64 `csv:"energy_p90" json:"energy_p90"`
	TotalEnergy float64 `csv:"total_energy" json:"total_energy"`

	HealthMean float64 `csv:"health_mean" json:"health_mean"`

	// Decorative load
	Particles      int `csv:"particles" json:"particles"`
	ParticleGroups int `csv:"particle_groups" json:"particle_groups"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean, population std and percentiles.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("cells", s.Cells),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("total_energy", s.TotalEnergy),
		slog.Float64("health_mean", s.HealthMean),
		slog.Int("particles", s.Particles),
		slog.Int("particle_groups", s.ParticleGroups),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"cells", s.Cells,
		"births", s.Births,
		"deaths", s.Deaths,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"total_energy", s.TotalEnergy,
		"health_mean", s.HealthMean,
		"particles", s.Particles,
	)
}
