// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen         ScreenConfig         `yaml:"screen"`
	Timing         TimingConfig         `yaml:"timing"`
	Physics        PhysicsConfig        `yaml:"physics"`
	Attraction     AttractionConfig     `yaml:"attraction"`
	Cell           CellConfig           `yaml:"cell"`
	DeathParticles DeathParticlesConfig `yaml:"death_particles"`
	Particles      ParticlesConfig      `yaml:"particles"`
	Population     PopulationConfig     `yaml:"population"`
	Parallel       ParallelConfig       `yaml:"parallel"`
	Telemetry      TelemetryConfig      `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Zoom   float64 `yaml:"zoom"` // Initial camera zoom
}

// TimingConfig holds the fixed-rate timing source parameters.
type TimingConfig struct {
	TickRate  float64 `yaml:"tick_rate"`  // Pulses per second
	FixedStep bool    `yaml:"fixed_step"` // Broadcast nominal dt instead of measured elapsed time
	MaxDelta  float64 `yaml:"max_delta"`  // Upper bound on a measured dt (seconds)
	QueueSize int     `yaml:"queue_size"` // Per-consumer pulse buffer
}

// PhysicsConfig holds the structural (base receptor) force parameters.
type PhysicsConfig struct {
	Density           float64 `yaml:"density"`
	RepulsionStrength float64 `yaml:"repulsion_strength"`
	Friction          float64 `yaml:"friction"`
	MinDistance       float64 `yaml:"min_distance"` // Interactions closer than this are skipped
}

// AttractionConfig holds attraction receptor parameters.
type AttractionConfig struct {
	Strength float64 `yaml:"strength"`
	Cost     float64 `yaml:"cost"`  // Energy per unit of force magnitude
	Range    float64 `yaml:"range"` // Neighbours at or beyond this distance are ignored
}

// CellConfig holds cell creation and vitals parameters.
type CellConfig struct {
	MaxHealth       float64 `yaml:"max_health"`
	HealthRegenRate float64 `yaml:"health_regen_rate"` // Health per second (gain or loss)
	InitialEnergy   float64 `yaml:"initial_energy"`
}

// DeathParticlesConfig describes the burst spawned when a cell dies.
type DeathParticlesConfig struct {
	Count    int     `yaml:"count"`
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Size     float64 `yaml:"size"`
	Opacity  float64 `yaml:"opacity"`
}

// ParticlesConfig holds particle system tuning.
type ParticlesConfig struct {
	MaxParticles       int     `yaml:"max_particles"`
	OpacitySpread      float64 `yaml:"opacity_spread"`
	LifetimeSpread     float64 `yaml:"lifetime_spread"`
	MaxAngularVelocity float64 `yaml:"max_angular_velocity"`
}

// SeedCellConfig describes one fixed cell of the initial population.
type SeedCellConfig struct {
	X        float64    `yaml:"x"`
	Y        float64    `yaml:"y"`
	Size     float64    `yaml:"size"`
	Color    [3]float64 `yaml:"color"`
	Energy   float64    `yaml:"energy"`   // 0 = cell.initial_energy
	Affinity []float64  `yaml:"affinity"` // Empty = no attraction receptor
}

// RandomPopulationConfig describes randomly generated cells.
type RandomPopulationConfig struct {
	Count            int     `yaml:"count"`
	SpawnRadius      float64 `yaml:"spawn_radius"`
	MinSize          float64 `yaml:"min_size"`
	MaxSize          float64 `yaml:"max_size"`
	AttractionChance float64 `yaml:"attraction_chance"`
}

// PopulationConfig holds the initial population.
type PopulationConfig struct {
	Cells  []SeedCellConfig       `yaml:"cells"`
	Random RandomPopulationConfig `yaml:"random"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // Minimum cell count for parallel interaction
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT           float64       // Nominal seconds per tick
	TickInterval time.Duration // Wall-clock period of the timing source
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Timing.TickRate <= 0 {
		return fmt.Errorf("timing.tick_rate must be positive, got %v", c.Timing.TickRate)
	}
	if c.Physics.Density <= 0 {
		return fmt.Errorf("physics.density must be positive, got %v", c.Physics.Density)
	}
	if c.Physics.MinDistance <= 0 {
		return fmt.Errorf("physics.min_distance must be positive, got %v", c.Physics.MinDistance)
	}
	if c.Cell.MaxHealth <= 0 {
		return fmt.Errorf("cell.max_health must be positive, got %v", c.Cell.MaxHealth)
	}
	for i, sc := range c.Population.Cells {
		if sc.Size <= 0 {
			return fmt.Errorf("population.cells[%d].size must be positive, got %v", i, sc.Size)
		}
		if len(sc.Affinity) != 0 && len(sc.Affinity) != 3 {
			return fmt.Errorf("population.cells[%d].affinity needs 3 components, got %d", i, len(sc.Affinity))
		}
	}
	if r := c.Population.Random; r.Count > 0 && (r.MinSize <= 0 || r.MaxSize < r.MinSize) {
		return fmt.Errorf("population.random sizes must satisfy 0 < min_size <= max_size, got %v..%v", r.MinSize, r.MaxSize)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = 1.0 / c.Timing.TickRate
	c.Derived.TickInterval = time.Duration(float64(time.Second) / c.Timing.TickRate)

	if c.Timing.MaxDelta <= 0 {
		c.Timing.MaxDelta = 4 * c.Derived.DT
	}
	if c.Timing.QueueSize <= 0 {
		c.Timing.QueueSize = 1
	}
	if c.Screen.Zoom <= 0 {
		c.Screen.Zoom = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
