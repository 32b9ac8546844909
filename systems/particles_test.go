package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func testParticleSystem(maxParticles int) *ParticleSystem {
	return NewParticleSystem(ParticleConfig{
		MaxParticles:       maxParticles,
		OpacitySpread:      0.15,
		LifetimeSpread:     0.3,
		MaxAngularVelocity: 1,
	}, rand.New(rand.NewSource(42)))
}

func deathBurst(pos r2.Vec) GroupSpawnProps {
	return GroupSpawnProps{
		Color:    r3.Vec{X: 1, Y: 0, Z: 0},
		Count:    20,
		Position: pos,
		Speed:    30,
		Lifetime: 1.5,
		Spread:   5,
		Size:     2,
		Opacity:  0.8,
	}
}

func TestSpawnParticleGroup(t *testing.T) {
	s := testParticleSystem(1000)
	center := r2.Vec{X: 10, Y: -4}
	props := deathBurst(center)
	s.SpawnParticleGroup(props)

	if s.Count() != 20 {
		t.Fatalf("Count = %d, want 20", s.Count())
	}
	if s.GroupCount() != 1 {
		t.Fatalf("GroupCount = %d, want 1", s.GroupCount())
	}

	for i, p := range s.groups[0].particles {
		offset := r2.Sub(p.Position, center)
		if r2.Norm(offset) > props.Spread+1e-9 {
			t.Errorf("particle %d outside spread disc: %v", i, offset)
		}
		// Velocity points outward, scaled by speed/spread.
		want := r2.Scale(props.Speed/props.Spread, offset)
		if r2.Norm(r2.Sub(p.Velocity, want)) > 1e-9 {
			t.Errorf("particle %d velocity = %v, want %v", i, p.Velocity, want)
		}
		if p.Lifetime < 1.35 || p.Lifetime > 1.65 {
			t.Errorf("particle %d lifetime %v outside spread", i, p.Lifetime)
		}
		if p.Opacity < 0.725 || p.Opacity > 0.875 {
			t.Errorf("particle %d opacity %v outside spread", i, p.Opacity)
		}
		for _, v := range p.Shape {
			if r2.Norm(v) > props.Size+1e-9 {
				t.Errorf("particle %d shape point %v larger than size", i, v)
			}
		}
	}
}

func TestSpawnZeroSpreadHasNoVelocity(t *testing.T) {
	s := testParticleSystem(100)
	props := deathBurst(r2.Vec{})
	props.Spread = 0
	s.SpawnParticleGroup(props)

	for _, p := range s.groups[0].particles {
		if p.Velocity != (r2.Vec{}) {
			t.Fatalf("expected zero velocity, got %v", p.Velocity)
		}
		if math.IsNaN(p.Position.X) || math.IsNaN(p.Position.Y) {
			t.Fatal("NaN position")
		}
	}
}

func TestSpawnRespectsCapacity(t *testing.T) {
	s := testParticleSystem(30)
	s.SpawnParticleGroup(deathBurst(r2.Vec{}))
	s.SpawnParticleGroup(deathBurst(r2.Vec{}))
	s.SpawnParticleGroup(deathBurst(r2.Vec{}))

	if s.Count() != 30 {
		t.Errorf("Count = %d, want capped 30", s.Count())
	}
	if s.GroupCount() != 2 {
		t.Errorf("GroupCount = %d, want 2 (third burst dropped)", s.GroupCount())
	}
}

func TestTickExpiresParticles(t *testing.T) {
	s := testParticleSystem(1000)
	s.SpawnParticleGroup(deathBurst(r2.Vec{}))

	before := s.groups[0].particles[0].Position
	s.Tick(0.1)
	if s.Count() != 20 {
		t.Fatalf("Count after short tick = %d, want 20", s.Count())
	}
	after := s.groups[0].particles[0].Position
	if before == after && s.groups[0].particles[0].Velocity != (r2.Vec{}) {
		t.Error("particle did not move")
	}

	// Longest possible lifetime is 1.65s.
	for i := 0; i < 20; i++ {
		s.Tick(0.1)
	}
	if s.Count() != 0 {
		t.Errorf("Count after expiry = %d, want 0", s.Count())
	}
	if s.GroupCount() != 0 {
		t.Errorf("GroupCount after expiry = %d, want 0", s.GroupCount())
	}
}

func TestAppendGroupsFadesAndCopies(t *testing.T) {
	s := testParticleSystem(1000)
	s.SpawnParticleGroup(deathBurst(r2.Vec{}))
	s.Tick(0.5)

	views := s.AppendGroups(nil)
	if len(views) != 1 {
		t.Fatalf("got %d groups, want 1", len(views))
	}
	if views[0].Color != (r3.Vec{X: 1}) {
		t.Errorf("group color = %v", views[0].Color)
	}

	for i, v := range views[0].Particles {
		p := s.groups[0].particles[i]
		want := p.Opacity * (p.Lifetime - p.Age)
		if math.Abs(v.Opacity-want) > 1e-12 {
			t.Errorf("particle %d opacity = %v, want %v", i, v.Opacity, want)
		}
	}

	views[0].Particles[0].Position = r2.Vec{X: 1e9}
	if s.groups[0].particles[0].Position.X == 1e9 {
		t.Error("view aliases particle storage")
	}
}
