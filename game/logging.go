package game

import "log/slog"

// logSummary logs the final run counters and per-consumer delivery.
func (g *Game) logSummary() {
	s := g.Stats()
	slog.Info("run finished",
		"ticks", s.Ticks,
		"frames", s.Frames,
		"skipped_frames", s.SkippedFrames,
		"cells", s.Cells,
		"particles", s.Particles,
	)
	for _, c := range s.Consumers {
		if c.Dropped > 0 {
			slog.Warn("consumer dropped pulses", "consumer", c.Name, "sent", c.Sent, "dropped", c.Dropped)
		}
	}
	if g.logStats {
		g.perfCollector.Stats().LogStats()
	}
}
