package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/celllife/config"
	"github.com/pthm-cable/celllife/game"
	"github.com/pthm-cable/celllife/renderer"
	"github.com/pthm-cable/celllife/stream"
	"github.com/pthm-cable/celllife/telemetry"
)

func init() {
	// raylib must be driven from the main OS thread.
	runtime.LockOSThread()
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	serve := flag.String("serve", "", "Stream stats windows over WebSocket at addr/stats (empty = off)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		MaxTicks:  *maxTicks,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, *headless, *serve); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts game.Options, headless bool, serveAddr string) error {
	if !headless {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Cell Life")
		defer rl.CloseWindow()
	}

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if serveAddr != "" {
		shutdown := serveStats(g, serveAddr)
		defer shutdown()
	}

	slog.Info("starting simulation",
		"seed", opts.Seed,
		"headless", headless,
		"max_ticks", opts.MaxTicks,
		"tick_rate", cfg.Timing.TickRate,
	)

	if headless {
		return g.RunHeadless(ctx)
	}
	return g.Run(ctx, renderer.NewWindow(float32(cfg.Screen.Zoom), g))
}

// serveStats publishes every stats window to WebSocket clients on addr.
// The returned function stops the server and disconnects clients.
func serveStats(g *game.Game, addr string) func() {
	hub := stream.NewHub(64)
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		if err := hub.Publish("window", s); err != nil {
			slog.Warn("failed to publish stats", "error", err)
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/stats", hub)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		slog.Info("streaming stats", "addr", addr, "path", "/stats")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stats server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Close the hub first: hijacked WebSocket connections are not
		// tracked by Shutdown.
		hub.Close()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("stats server shutdown", "error", err)
		}
	}
}
