package timing

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"
)

func TestEveryPulseDeliveredInOrder(t *testing.T) {
	src := NewSource(Options{Interval: time.Millisecond, FixedStep: true, NominalDT: 0.001})
	sub := src.Subscribe("stepper", 1024)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var (
		wg        sync.WaitGroup
		processed uint64
		lastSeq   uint64
		outOfOrd  bool
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for p := range sub.Pulses() {
			if p.Seq <= lastSeq {
				outOfOrd = true
			}
			lastSeq = p.Seq
			processed++
		}
	}()

	src.Run(ctx)
	wg.Wait()

	if processed == 0 {
		t.Fatal("no pulses processed")
	}
	if processed != sub.Sent() {
		t.Errorf("processed %d pulses, sent %d", processed, sub.Sent())
	}
	if sub.Dropped() != 0 {
		t.Errorf("dropped %d pulses with an idle-fast consumer", sub.Dropped())
	}
	if outOfOrd {
		t.Error("pulses arrived out of order")
	}
	if lastSeq != src.Seq() {
		t.Errorf("last seq %d, source emitted %d", lastSeq, src.Seq())
	}
}

func TestFullQueueDropsWithoutBlocking(t *testing.T) {
	src := NewSource(Options{Interval: time.Millisecond, FixedStep: true})
	slow := src.Subscribe("render", 1)
	fast := src.Subscribe("stepper", 4096)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	var fastCount uint64
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range fast.Pulses() {
			fastCount++
		}
	}()

	// Nobody reads the slow queue until the source stops.
	src.Run(ctx)
	wg.Wait()

	if slow.Sent() != 1 {
		t.Errorf("slow consumer sent = %d, want 1", slow.Sent())
	}
	if slow.Dropped() == 0 {
		t.Error("expected drops on a full queue")
	}
	if slow.Sent()+slow.Dropped() != src.Seq() {
		t.Errorf("sent+dropped = %d, want %d", slow.Sent()+slow.Dropped(), src.Seq())
	}
	if fastCount != src.Seq() {
		t.Errorf("fast consumer got %d pulses, want %d", fastCount, src.Seq())
	}

	// The closed queue still drains its buffered pulse.
	n := 0
	for range slow.Pulses() {
		n++
	}
	if n != 1 {
		t.Errorf("drained %d pulses from slow queue, want 1", n)
	}
}

func TestMeasuredDTIsClamped(t *testing.T) {
	src := NewSource(Options{Interval: 2 * time.Millisecond, MaxDelta: 0.0005})
	sub := src.Subscribe("stepper", 256)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	src.Run(ctx)

	for p := range sub.Pulses() {
		if p.DT <= 0 || p.DT > 0.0005 {
			t.Errorf("pulse %d dt = %v, want in (0, 0.0005]", p.Seq, p.DT)
		}
	}
}

func TestFixedStepDT(t *testing.T) {
	src := NewSource(Options{Interval: time.Millisecond, FixedStep: true, NominalDT: 1.0 / 60})
	sub := src.Subscribe("stepper", 256)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	src.Run(ctx)

	for p := range sub.Pulses() {
		if math.Abs(p.DT-1.0/60) > 1e-15 {
			t.Errorf("pulse %d dt = %v, want 1/60", p.Seq, p.DT)
		}
	}
}

func TestSubscribeAfterStop(t *testing.T) {
	src := NewSource(Options{Interval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.Run(ctx)

	sub := src.Subscribe("late", 4)
	if _, ok := <-sub.Pulses(); ok {
		t.Error("late subscription should be closed")
	}
}
