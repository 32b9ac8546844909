package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/celllife/config"
	"github.com/pthm-cable/celllife/sim"
	"github.com/pthm-cable/celllife/telemetry"
)

// SeedOutcome is one seed's share of an evaluation.
type SeedOutcome struct {
	Seed          int64
	SurvivalTicks uint64
	Quality       float64
	Deaths        int
}

// Evaluation is the scored result of one parameter vector across all seeds.
type Evaluation struct {
	Values  []float64 // clamped parameter values
	Fitness float64   // mean over seeds, lower is better
	Quality float64   // mean over seeds
	Seeds   []SeedOutcome
}

// MeanSurvivalTicks averages survival over the evaluated seeds.
func (e Evaluation) MeanSurvivalTicks() float64 {
	if len(e.Seeds) == 0 {
		return 0
	}
	var total float64
	for _, s := range e.Seeds {
		total += float64(s.SurvivalTicks)
	}
	return total / float64(len(e.Seeds))
}

// FitnessEvaluator runs headless simulations and scores parameter vectors.
// Seeds of one evaluation run concurrently; evaluations are sequential.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu      sync.Mutex
	best    Evaluation
	bestRun *runResult // best seed of the best evaluation
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
		best:        Evaluation{Fitness: math.Inf(1)},
	}
}

// Best returns the best evaluation so far.
func (fe *FitnessEvaluator) Best() Evaluation {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.best
}

// BestRun returns the stats windows and death records of the best seed of
// the best evaluation.
func (fe *FitnessEvaluator) BestRun() ([]telemetry.WindowStats, []telemetry.DeathRecord) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	if fe.bestRun == nil {
		return nil, nil
	}
	return fe.bestRun.windowStats, fe.bestRun.deaths
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64 // ticks until the last cell died (or maxTicks)
	initialCells  int
	windowStats   []telemetry.WindowStats
	deaths        []telemetry.DeathRecord
}

// Evaluate scores a raw parameter vector.
func (fe *FitnessEvaluator) Evaluate(x []float64) Evaluation {
	values := fe.params.Clamp(x)
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, values)

	runs := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			runs[idx] = runSimulation(cfg, s, fe.maxTicks, fe.statsWindow)
		}(i, seed)
	}
	wg.Wait()

	eval := Evaluation{Values: values, Seeds: make([]SeedOutcome, len(runs))}
	best, bestFitness := 0, math.Inf(1)
	for i, r := range runs {
		fitness := computeFitness(r)
		quality := computeQuality(r)
		eval.Fitness += fitness
		eval.Quality += quality
		eval.Seeds[i] = SeedOutcome{
			Seed:          fe.seeds[i],
			SurvivalTicks: r.survivalTicks,
			Quality:       quality,
			Deaths:        len(r.deaths),
		}
		if fitness < bestFitness {
			best, bestFitness = i, fitness
		}
	}
	if n := float64(len(runs)); n > 0 {
		eval.Fitness /= n
		eval.Quality /= n
	}

	fe.mu.Lock()
	if eval.Fitness < fe.best.Fitness {
		fe.best = eval
		if len(runs) > 0 {
			fe.bestRun = runs[best]
		}
	}
	fe.mu.Unlock()

	return eval
}

// runSimulation steps a simulation directly at the nominal dt, without a
// timing source, until every cell has died or maxTicks is reached.
func runSimulation(cfg *config.Config, seed int64, maxTicks uint64, statsWindow float64) *runResult {
	s := sim.New(sim.ParamsFromConfig(cfg), nil)
	defer s.Close()

	result := &runResult{}
	if err := s.Seed(cfg.Population, rand.New(rand.NewSource(seed))); err != nil {
		return result
	}
	result.initialCells = s.Len()

	dt := cfg.Derived.DT
	collector := telemetry.NewCollector(statsWindow, dt)
	for range result.initialCells {
		collector.RecordBirth()
	}

	for s.TickCount() < maxTicks {
		res := s.Tick(dt)
		for _, d := range res.Deaths {
			collector.RecordDeath()
			result.deaths = append(result.deaths,
				telemetry.NewDeathRecord(res.Tick, d.Entity, d.Position, d.Size, d.Color, d.Age, nil))
		}

		if collector.ShouldFlush(res.Tick) {
			result.windowStats = append(result.windowStats, collector.Flush(res.Tick, sample(s)))
		}

		if res.Alive == 0 {
			result.survivalTicks = res.Tick
			return result
		}
	}

	result.survivalTicks = maxTicks
	return result
}

func sample(s *sim.Simulation) telemetry.Sample {
	cells := s.Cells()
	out := telemetry.Sample{
		Energies: make([]float64, len(cells)),
		Healths:  make([]float64, len(cells)),
	}
	for i, c := range cells {
		out.Energies[i] = c.Energy
		out.Healths[i] = c.Health
	}
	return out
}

// copyConfig returns a copy of the base config that evaluations may modify.
// Slices stay shared; the optimizer never writes through them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(r *runResult) float64 {
	return -(float64(r.survivalTicks) * (1.0 + 0.2*computeQuality(r)))
}

// Quality component weights.
const (
	qualityWeightAlive     = 0.50
	qualityWeightStability = 0.25
	qualityWeightEnergy    = 0.25

	qualityWarmupWindows = 1
)

// computeQuality scores a run in [0, 1]: how many cells stay alive, how
// steady the population is, and how much energy they keep.
func computeQuality(r *runResult) float64 {
	if r.initialCells == 0 || len(r.windowStats) <= qualityWarmupWindows {
		return 0
	}
	windows := r.windowStats[qualityWarmupWindows:]

	alive := make([]float64, len(windows))
	energy := make([]float64, len(windows))
	for i, w := range windows {
		alive[i] = float64(w.Cells) / float64(r.initialCells)
		energy[i] = w.EnergyP50
	}

	aliveScore := stat.Mean(alive, nil)

	stabilityScore := 0.0
	if len(alive) >= 2 {
		stabilityScore = math.Exp(-cv(alive))
	}

	// Median energy relative to the first window, so the score does not
	// simply reward a larger initial_energy.
	energyScore := 0.0
	if energy[0] > 0 {
		energyScore = clamp01(stat.Mean(energy, nil) / energy[0])
	}

	return clamp01(qualityWeightAlive*aliveScore +
		qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energyScore)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
