package telemetry

import (
	"log/slog"
	"math"
	"slices"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"no cells", nil, 0.5, 0},
		{"one cell", []float64{42}, 0.9, 42},
		{"below range clamps", []float64{3, 7, 11}, -0.5, 3},
		{"above range clamps", []float64{3, 7, 11}, 1.5, 11},
		{"median of three", []float64{3, 7, 11}, 0.5, 7},
		{"interpolates inside bucket", []float64{0, 10, 20, 30, 40}, 0.3, 12},
		{"between a pair", []float64{100, 200}, 0.25, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	tests := []struct {
		name                     string
		values                   []float64
		mean, std, p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0, 0, 0},
		{"starved population", []float64{0, 0, 0}, 0, 0, 0, 0, 0},
		{"single cell", []float64{55}, 55, 0, 55, 55, 55},
		{"unsorted input", []float64{30, 10, 20}, 20, math.Sqrt(200.0 / 3), 12, 20, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := slices.Clone(tt.values)
			mean, std, p10, p50, p90 := ComputeEnergyStats(in)

			got := []float64{mean, std, p10, p50, p90}
			want := []float64{tt.mean, tt.std, tt.p10, tt.p50, tt.p90}
			names := []string{"mean", "std", "p10", "p50", "p90"}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("%s = %v, want %v", names[i], got[i], want[i])
				}
			}
			if !slices.Equal(in, tt.values) {
				t.Errorf("input reordered: %v", in)
			}
		})
	}
}

func TestFlushSample(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   WindowStats
	}{
		{
			name:   "extinct population",
			sample: Sample{},
			want:   WindowStats{},
		},
		{
			name:   "health averaged apart from energy",
			sample: Sample{Energies: []float64{0, 50}, Healths: []float64{1, 3}},
			want:   WindowStats{Cells: 2, EnergyMean: 25, EnergyStd: 25, EnergyP10: 5, EnergyP50: 25, EnergyP90: 45, TotalEnergy: 50, HealthMean: 2},
		},
		{
			name:   "particle load passes through",
			sample: Sample{Energies: []float64{10}, Healths: []float64{5}, Particles: 300, ParticleGroups: 4},
			want:   WindowStats{Cells: 1, EnergyMean: 10, EnergyP10: 10, EnergyP50: 10, EnergyP90: 10, TotalEnergy: 10, HealthMean: 5, Particles: 300, ParticleGroups: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(0.5, 0.25)
			got := c.Flush(2, tt.sample)

			if got.WindowEndTick != 2 || math.Abs(got.SimTimeSec-0.5) > 1e-9 {
				t.Errorf("window end = %d at %vs, want 2 at 0.5s", got.WindowEndTick, got.SimTimeSec)
			}
			if got.Cells != tt.want.Cells || got.Particles != tt.want.Particles || got.ParticleGroups != tt.want.ParticleGroups {
				t.Errorf("counts = %d cells, %d/%d particles; want %d, %d/%d",
					got.Cells, got.Particles, got.ParticleGroups, tt.want.Cells, tt.want.Particles, tt.want.ParticleGroups)
			}

			floats := []struct {
				name      string
				got, want float64
			}{
				{"energy_mean", got.EnergyMean, tt.want.EnergyMean},
				{"energy_std", got.EnergyStd, tt.want.EnergyStd},
				{"energy_p10", got.EnergyP10, tt.want.EnergyP10},
				{"energy_p50", got.EnergyP50, tt.want.EnergyP50},
				{"energy_p90", got.EnergyP90, tt.want.EnergyP90},
				{"total_energy", got.TotalEnergy, tt.want.TotalEnergy},
				{"health_mean", got.HealthMean, tt.want.HealthMean},
			}
			for _, f := range floats {
				if math.Abs(f.got-f.want) > 1e-9 {
					t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
				}
			}
		})
	}
}

func TestWindowStatsLogValue(t *testing.T) {
	s := WindowStats{WindowEndTick: 120, Cells: 3, HealthMean: 7.5, Particles: 40}

	attrs := make(map[string]slog.Value)
	for _, a := range s.LogValue().Group() {
		attrs[a.Key] = a.Value
	}

	if v, ok := attrs["window_end"]; !ok || v.Uint64() != 120 {
		t.Errorf("window_end = %v", v)
	}
	if v, ok := attrs["cells"]; !ok || v.Int64() != 3 {
		t.Errorf("cells = %v", v)
	}
	if v, ok := attrs["health_mean"]; !ok || v.Float64() != 7.5 {
		t.Errorf("health_mean = %v", v)
	}
	if v, ok := attrs["particles"]; !ok || v.Int64() != 40 {
		t.Errorf("particles = %v", v)
	}
}
