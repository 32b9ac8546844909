package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pthm-cable/celllife/sim"
	"github.com/pthm-cable/celllife/systems"
	"github.com/pthm-cable/celllife/timing"
)

// Frame is a point-in-time copy of everything a renderer draws.
type Frame struct {
	Seq       uint64  // pulse that triggered the frame
	DT        float64 // pulse delta
	Tick      uint64  // simulation ticks completed
	Dots      []sim.Dot
	Groups    []systems.GroupView
	Particles int
}

// Renderer draws frames. Draw is called from the goroutine that called Run.
type Renderer interface {
	Draw(f *Frame) error
}

// Snapshot fills f with the current state, reusing its slices.
func (g *Game) Snapshot(f *Frame) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	f.Tick = g.sim.TickCount()
	f.Dots = g.sim.AppendDots(f.Dots[:0])
	clear(f.Groups)
	f.Groups = g.particles.AppendGroups(f.Groups[:0])
	f.Particles = g.particles.Count()
}

// runRenderDriver draws one frame per pulse. The lock is released before Draw.
func (g *Game) runRenderDriver(sub *timing.Subscription, r Renderer, cancel context.CancelFunc) {
	var frame Frame
	closed := false
	for p := range sub.Pulses() {
		if closed {
			continue
		}

		g.Snapshot(&frame)
		frame.Seq = p.Seq
		frame.DT = p.DT

		err := r.Draw(&frame)
		g.perfCollector.RecordFrame()
		switch {
		case err == nil:
			g.frames.Add(1)
		case errors.Is(err, ErrRendererClosed):
			closed = true
			cancel()
		default:
			g.skipped.Add(1)
			slog.Warn("draw failed, skipping frame", "seq", p.Seq, "error", err)
		}
	}
}
