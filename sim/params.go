package sim

import (
	"github.com/pthm-cable/celllife/config"
)

// DeathBurst sizes the particle group a dying cell leaves behind.
type DeathBurst struct {
	Count    int
	Speed    float64
	Lifetime float64
	Size     float64
	Opacity  float64
}

// Params holds every tunable the simulation reads.
type Params struct {
	Density         float64
	Base            BaseParams
	Attraction      AttractionParams
	MaxHealth       float64
	HealthRegenRate float64
	InitialEnergy   float64
	Death           DeathBurst

	ParallelThreshold int // cell count at which the worker pool is used
	Workers           int // 0 = GOMAXPROCS
}

// ParamsFromConfig extracts simulation parameters from a loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Density: cfg.Physics.Density,
		Base: BaseParams{
			RepulsionStrength: cfg.Physics.RepulsionStrength,
			Friction:          cfg.Physics.Friction,
			MinDistance:       cfg.Physics.MinDistance,
		},
		Attraction: AttractionParams{
			Strength:    cfg.Attraction.Strength,
			Cost:        cfg.Attraction.Cost,
			Range:       cfg.Attraction.Range,
			MinDistance: cfg.Physics.MinDistance,
		},
		MaxHealth:       cfg.Cell.MaxHealth,
		HealthRegenRate: cfg.Cell.HealthRegenRate,
		InitialEnergy:   cfg.Cell.InitialEnergy,
		Death: DeathBurst{
			Count:    cfg.DeathParticles.Count,
			Speed:    cfg.DeathParticles.Speed,
			Lifetime: cfg.DeathParticles.Lifetime,
			Size:     cfg.DeathParticles.Size,
			Opacity:  cfg.DeathParticles.Opacity,
		},
		ParallelThreshold: cfg.Parallel.Threshold,
		Workers:           cfg.Parallel.Workers,
	}
}

// DefaultParams returns parameters from the embedded default config.
func DefaultParams() Params {
	cfg, err := config.Load("")
	if err != nil {
		panic("sim: embedded defaults invalid: " + err.Error())
	}
	return ParamsFromConfig(cfg)
}
