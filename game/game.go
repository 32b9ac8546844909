// Package game wires the simulation, particle system, timing source and
// telemetry together and runs the stepper and render driver.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/celllife/config"
	"github.com/pthm-cable/celllife/sim"
	"github.com/pthm-cable/celllife/systems"
	"github.com/pthm-cable/celllife/telemetry"
	"github.com/pthm-cable/celllife/timing"
)

// Consumer names registered with the timing source.
const (
	ConsumerSimulation = "simulation"
	ConsumerRender     = "render"
)

// ErrRendererClosed is returned by a Renderer whose window was closed; it stops the run.
var ErrRendererClosed = errors.New("renderer closed")

// Game holds the complete run state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	// mu guards sim and particles. The stepper holds it for a whole tick;
	// the render driver holds a read lock only while copying a Frame.
	mu        sync.RWMutex
	sim       *sim.Simulation
	particles *systems.ParticleSystem

	source *timing.Source

	// Telemetry, touched only by the stepper goroutine
	collector       *telemetry.Collector
	perfCollector   *telemetry.PerfCollector
	lifetimeTracker *telemetry.LifetimeTracker
	outputManager   *telemetry.OutputManager
	statsCallback   func(telemetry.WindowStats)
	logStats        bool

	maxTicks uint64
	ticks    atomic.Uint64
	frames   atomic.Uint64
	skipped  atomic.Uint64
}

// New creates a game from config and seeds the initial population.
func New(cfg *config.Config, opts Options) (*Game, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	particles := systems.NewParticleSystem(systems.ParticleConfig{
		MaxParticles:       cfg.Particles.MaxParticles,
		OpacitySpread:      cfg.Particles.OpacitySpread,
		LifetimeSpread:     cfg.Particles.LifetimeSpread,
		MaxAngularVelocity: cfg.Particles.MaxAngularVelocity,
	}, rand.New(rand.NewSource(rng.Int63())))

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("output: %w", err)
	}

	g := &Game{
		cfg:             cfg,
		rng:             rng,
		sim:             sim.New(sim.ParamsFromConfig(cfg), particles),
		particles:       particles,
		source:          timing.NewSource(timing.OptionsFromConfig(cfg)),
		collector:       telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT),
		perfCollector:   telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimeTracker: telemetry.NewLifetimeTracker(),
		outputManager:   output,
		logStats:        opts.LogStats,
		maxTicks:        opts.MaxTicks,
	}
	g.sim.SetPhaseTimer(g.perfCollector)

	if err := g.sim.Seed(cfg.Population, rng); err != nil {
		g.Close()
		return nil, fmt.Errorf("seeding population: %w", err)
	}
	for _, c := range g.sim.Cells() {
		g.trackBirth(c)
	}

	return g, nil
}

// SetStatsCallback installs a function called with every flushed stats window.
// Must be called before Run.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Run drives the simulation and renders on the calling goroutine until ctx
// is cancelled, MaxTicks is reached, or the renderer reports ErrRendererClosed.
// The calling goroutine must own the renderer's graphics context.
func (g *Game) Run(ctx context.Context, r Renderer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stepSub := g.source.Subscribe(ConsumerSimulation, g.cfg.Timing.QueueSize)
	renderSub := g.source.Subscribe(ConsumerRender, g.cfg.Timing.QueueSize)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		g.source.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		g.runStepper(stepSub, cancel)
	}()

	g.runRenderDriver(renderSub, r, cancel)
	wg.Wait()

	g.logSummary()
	return nil
}

// RunHeadless drives the simulation without a render consumer.
func (g *Game) RunHeadless(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stepSub := g.source.Subscribe(ConsumerSimulation, g.cfg.Timing.QueueSize)

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.runStepper(stepSub, cancel)
	}()

	g.source.Run(ctx)
	<-done

	g.logSummary()
	return nil
}

// Close stops workers and flushes output files.
func (g *Game) Close() error {
	g.mu.Lock()
	g.sim.Close()
	g.mu.Unlock()
	return g.outputManager.Close()
}

// ConsumerStats reports delivery counters for one pulse consumer.
type ConsumerStats struct {
	Name    string
	Sent    uint64
	Dropped uint64
}

// Stats reports run counters.
type Stats struct {
	Ticks         uint64 // simulation ticks completed
	Frames        uint64 // frames handed to the renderer
	SkippedFrames uint64 // frames whose Draw failed
	Cells         int
	Particles     int
	Consumers     []ConsumerStats
}

// Stats returns a consistent view of the run counters.
func (g *Game) Stats() Stats {
	g.mu.RLock()
	s := Stats{
		Ticks:     g.ticks.Load(),
		Cells:     g.sim.Len(),
		Particles: g.particles.Count(),
	}
	g.mu.RUnlock()

	s.Frames = g.frames.Load()
	s.SkippedFrames = g.skipped.Load()
	for _, sub := range g.source.Subscriptions() {
		s.Consumers = append(s.Consumers, ConsumerStats{
			Name:    sub.Name(),
			Sent:    sub.Sent(),
			Dropped: sub.Dropped(),
		})
	}
	return s
}
