// Package main provides CMA-ES optimization for cell simulation parameters.
package main

import (
	"math"

	"github.com/pthm-cable/celllife/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Log     bool    // Search in log space; Min must be > 0
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Physics
			{Name: "repulsion_strength", Path: "physics.repulsion_strength", Min: 1e4, Max: 1e8, Default: 3e6, Log: true},
			{Name: "friction", Path: "physics.friction", Min: 0.5, Max: 40, Default: 10},
			// Attraction
			{Name: "attraction_strength", Path: "attraction.strength", Min: 1, Max: 500, Default: 50, Log: true},
			{Name: "attraction_cost", Path: "attraction.cost", Min: 1e-9, Max: 1e-4, Default: 1e-7, Log: true},
			{Name: "attraction_range", Path: "attraction.range", Min: 20, Max: 1000, Default: 500},
			// Vitals
			{Name: "health_regen_rate", Path: "cell.health_regen_rate", Min: 0.5, Max: 50, Default: 5},
			{Name: "initial_energy", Path: "cell.initial_energy", Min: 10, Max: 1000, Default: 100, Log: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

func (s ParamSpec) bounds() (lo, hi float64) {
	if s.Log {
		return math.Log(s.Min), math.Log(s.Max)
	}
	return s.Min, s.Max
}

// Normalize converts raw parameter values to the [0,1] search space.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi := spec.bounds()
		v := raw[i]
		if spec.Log {
			v = math.Log(v)
		}
		normalized[i] = (v - lo) / (hi - lo)
	}
	return normalized
}

// Denormalize converts search-space values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi := spec.bounds()
		v := lo + normalized[i]*(hi-lo)
		if spec.Log {
			v = math.Exp(v)
		}
		raw[i] = v
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Physics.RepulsionStrength = c[0]
	cfg.Physics.Friction = c[1]
	cfg.Attraction.Strength = c[2]
	cfg.Attraction.Cost = c[3]
	cfg.Attraction.Range = c[4]
	cfg.Cell.HealthRegenRate = c[5]
	cfg.Cell.InitialEnergy = c[6]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.RepulsionStrength,
		cfg.Physics.Friction,
		cfg.Attraction.Strength,
		cfg.Attraction.Cost,
		cfg.Attraction.Range,
		cfg.Cell.HealthRegenRate,
		cfg.Cell.InitialEnergy,
	}
}
