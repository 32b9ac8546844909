// Package main tunes simulation parameters with CMA-ES so that a cell
// population survives as long and as steadily as possible.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/celllife/config"
	"github.com/pthm-cable/celllife/telemetry"
)

type options struct {
	configPath string
	outputDir  string
	maxTicks   uint64
	cells      int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Uint64Var(&opts.maxTicks, "max-ticks", 36000, "Tick cap per run")
	flag.IntVar(&opts.cells, "cells", 40, "Random cells added to the configured population")
	flag.IntVar(&opts.seeds, "seeds", 3, "Seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = 4 + floor(3 ln dim))")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if opts.outputDir == "" {
		slog.Error("-output is required")
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.cells > 0 {
		baseCfg.Population.Random.Count = opts.cells
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, seeds, baseCfg)

	log, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params, seeds)
	if err != nil {
		return err
	}
	defer log.Close()

	evals := 0
	start := time.Now()
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			e := evaluator.Evaluate(values)
			evals++

			if err := log.Append(evals, e, values); err != nil {
				slog.Warn("failed to log evaluation", "eval", evals, "error", err)
			}
			logProgress(evals, opts.maxEvals, e, evaluator.Best(), baseCfg.Derived.DT, time.Since(start))
			return e.Fitness
		},
	}

	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", opts.population,
		"max_evals", opts.maxEvals,
		"seeds", len(seeds),
		"max_ticks", opts.maxTicks,
	)

	// Population 0 lets gonum choose its default size.
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: opts.population}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}
	if _, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method); err != nil {
		slog.Warn("optimization stopped", "error", err)
	}

	best := evaluator.Best()
	if len(best.Seeds) == 0 {
		return fmt.Errorf("no evaluation completed")
	}
	slog.Info("optimization complete",
		"evals", evals,
		"elapsed", time.Since(start).Round(time.Second),
		"fitness", best.Fitness,
		"mean_survival_sec", best.MeanSurvivalTicks()*baseCfg.Derived.DT,
	)

	return writeBest(opts.outputDir, baseCfg, params, evaluator)
}

// logProgress reports one evaluation with a per-seed survival breakdown.
func logProgress(n, total int, e, best Evaluation, dt float64, elapsed time.Duration) {
	survival := make([]float64, len(e.Seeds))
	deaths := 0
	for i, s := range e.Seeds {
		survival[i] = float64(s.SurvivalTicks) * dt
		deaths += s.Deaths
	}
	eta := time.Duration(total-n) * (elapsed / time.Duration(n))

	slog.Info("evaluation",
		"eval", n,
		"of", total,
		"survival_sec", survival,
		"deaths", deaths,
		"quality", e.Quality,
		"best_fitness", best.Fitness,
		"eta", eta.Round(time.Second),
	)
}

// writeBest stores best_config.yaml plus the best seed's telemetry and
// deaths under best_run/.
func writeBest(dir string, baseCfg *config.Config, params *ParamVector, fe *FitnessEvaluator) error {
	best := fe.Best()
	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, best.Values)
	if err := bestCfg.WriteYAML(filepath.Join(dir, "best_config.yaml")); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	for i, spec := range params.Specs {
		slog.Info("best parameter", "name", spec.Name, "value", best.Values[i])
	}

	windows, deaths := fe.BestRun()
	return writeRun(filepath.Join(dir, "best_run"), windows, deaths)
}

// writeRun stores a run's stats windows and death records under dir.
func writeRun(dir string, windows []telemetry.WindowStats, deaths []telemetry.DeathRecord) error {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return err
	}
	for _, w := range windows {
		if err := om.WriteTelemetry(w); err != nil {
			om.Close()
			return err
		}
	}
	if err := om.WriteDeaths(deaths); err != nil {
		om.Close()
		return err
	}
	return om.Close()
}
