// Package timing provides the fixed-rate pulse source that drives the
// simulation stepper and the render driver.
package timing

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/celllife/config"
)

// Pulse is one tick of the timing source.
type Pulse struct {
	Seq uint64    // 1-based, shared by all subscribers
	DT  float64   // seconds represented by this pulse
	At  time.Time // when the pulse was produced
}

// Options configures a Source.
type Options struct {
	Interval  time.Duration // wall-clock period between pulses
	FixedStep bool          // broadcast NominalDT instead of measured time
	NominalDT float64
	MaxDelta  float64 // upper bound on a measured DT
}

// OptionsFromConfig builds source options from the timing config section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Interval:  cfg.Derived.TickInterval,
		FixedStep: cfg.Timing.FixedStep,
		NominalDT: cfg.Derived.DT,
		MaxDelta:  cfg.Timing.MaxDelta,
	}
}

// Subscription is one consumer's pulse queue.
type Subscription struct {
	name    string
	ch      chan Pulse
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// Pulses returns the channel to range over. It is closed when the source stops.
func (s *Subscription) Pulses() <-chan Pulse {
	return s.ch
}

// Name returns the consumer name given at subscription.
func (s *Subscription) Name() string {
	return s.name
}

// Sent returns the number of pulses delivered to the queue.
func (s *Subscription) Sent() uint64 {
	return s.sent.Load()
}

// Dropped returns the number of pulses skipped because the queue was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Source broadcasts pulses at a fixed rate to every subscriber.
// It is the only clock consumers should use.
type Source struct {
	opts Options

	mu     sync.Mutex
	subs   []*Subscription
	closed bool
	seq    uint64
}

// NewSource creates a stopped source.
func NewSource(opts Options) *Source {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 60
	}
	if opts.NominalDT <= 0 {
		opts.NominalDT = opts.Interval.Seconds()
	}
	if opts.MaxDelta <= 0 {
		opts.MaxDelta = 4 * opts.NominalDT
	}
	return &Source{opts: opts}
}

// Subscribe registers a consumer with a queue of the given capacity.
// Subscribing after the source has stopped yields an already closed queue.
func (s *Source) Subscribe(name string, buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{name: name, ch: make(chan Pulse, buffer)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(sub.ch)
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Run emits pulses until ctx is cancelled, then closes every subscriber
// queue. Sends never block: a full queue loses that pulse and it is logged.
func (s *Source) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	defer s.close()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := s.opts.NominalDT
			if !s.opts.FixedStep {
				dt = min(now.Sub(last).Seconds(), s.opts.MaxDelta)
			}
			last = now
			s.broadcast(now, dt)
		}
	}
}

func (s *Source) broadcast(now time.Time, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.seq++
	p := Pulse{Seq: s.seq, DT: dt, At: now}
	for _, sub := range s.subs {
		// Best effort: if channel is full, drop and log
		select {
		case sub.ch <- p:
			sub.sent.Add(1)
		default:
			sub.dropped.Add(1)
			slog.Warn("pulse queue full, dropping pulse", "consumer", sub.name, "seq", p.Seq)
		}
	}
}

func (s *Source) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		close(sub.ch)
	}
}

// Seq returns the number of pulses emitted so far.
func (s *Source) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Subscriptions returns the registered subscriptions.
func (s *Source) Subscriptions() []*Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Subscription, len(s.subs))
	copy(out, s.subs)
	return out
}
