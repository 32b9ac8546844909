package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// shapePoints is the vertex count of a particle's triangle.
const shapePoints = 3

// GroupSpawnProps describes a burst of particles sharing one colour.
type GroupSpawnProps struct {
	Color    r3.Vec
	Count    int
	Position r2.Vec  // burst centre
	Speed    float64 // outward speed at the edge of the spread disc
	Lifetime float64 // mean lifetime in seconds
	Spread   float64 // spawn disc radius
	Size     float64 // shape radius
	Opacity  float64 // mean starting opacity
}

// Particle is one fading triangle.
type Particle struct {
	Position        r2.Vec
	Velocity        r2.Vec
	Rotation        float64
	AngularVelocity float64
	Lifetime        float64
	Age             float64
	Opacity         float64
	Shape           [shapePoints]r2.Vec
}

// visibleOpacity fades linearly with remaining lifetime.
func (p *Particle) visibleOpacity() float64 {
	return p.Opacity * max(p.Lifetime-p.Age, 0)
}

type particleGroup struct {
	color     r3.Vec
	particles []Particle
}

// ParticleConfig holds particle system tuning.
type ParticleConfig struct {
	MaxParticles       int
	OpacitySpread      float64
	LifetimeSpread     float64
	MaxAngularVelocity float64
}

// ParticleSystem manages short-lived effect particles in groups.
// It is not safe for concurrent use; the owner serializes access.
type ParticleSystem struct {
	cfg    ParticleConfig
	groups []particleGroup
	count  int
	rng    *rand.Rand
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(cfg ParticleConfig, rng *rand.Rand) *ParticleSystem {
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 5000
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &ParticleSystem{
		cfg:    cfg,
		groups: make([]particleGroup, 0, 16),
		rng:    rng,
	}
}

// SpawnParticleGroup emits a group of particles. Particles beyond the
// system capacity are silently not created.
func (s *ParticleSystem) SpawnParticleGroup(props GroupSpawnProps) {
	n := min(props.Count, s.cfg.MaxParticles-s.count)
	if n <= 0 {
		return
	}

	g := particleGroup{
		color:     props.Color,
		particles: make([]Particle, n),
	}
	for i := range g.particles {
		p := &g.particles[i]
		offset := randPointInDisc(s.rng, props.Spread)
		p.Position = r2.Add(props.Position, offset)
		if props.Spread > 0 {
			p.Velocity = r2.Scale(props.Speed/props.Spread, offset)
		}
		for j := range p.Shape {
			p.Shape[j] = randPointInDisc(s.rng, props.Size)
		}
		p.Rotation = s.rng.Float64() * 2 * math.Pi
		p.AngularVelocity = s.rng.Float64() * s.cfg.MaxAngularVelocity
		p.Lifetime = max(randWithSpread(s.rng, props.Lifetime, s.cfg.LifetimeSpread), 0)
		p.Opacity = clamp01(randWithSpread(s.rng, props.Opacity, s.cfg.OpacitySpread))
	}

	s.groups = append(s.groups, g)
	s.count += n
}

// Tick advances every particle by dt seconds and drops expired ones.
func (s *ParticleSystem) Tick(dt float64) {
	s.count = 0
	aliveGroups := 0
	for gi := range s.groups {
		g := &s.groups[gi]

		alive := 0
		for i := range g.particles {
			p := &g.particles[i]
			p.Age += dt
			if p.Age >= p.Lifetime {
				continue
			}
			p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))
			p.Rotation = normalizeHeading(p.Rotation + p.AngularVelocity*dt)

			g.particles[alive] = *p
			alive++
		}
		g.particles = g.particles[:alive]
		if alive == 0 {
			continue
		}

		s.count += alive
		s.groups[aliveGroups] = *g
		aliveGroups++
	}
	clear(s.groups[aliveGroups:])
	s.groups = s.groups[:aliveGroups]
}

// ParticleView is a render-ready copy of one particle.
type ParticleView struct {
	Position r2.Vec
	Rotation float64
	Opacity  float64
	Shape    [shapePoints]r2.Vec
}

// GroupView is a render-ready copy of one particle group.
type GroupView struct {
	Color     r3.Vec
	Particles []ParticleView
}

// AppendGroups appends a deep copy of every live group to dst.
func (s *ParticleSystem) AppendGroups(dst []GroupView) []GroupView {
	for gi := range s.groups {
		g := &s.groups[gi]
		view := GroupView{
			Color:     g.color,
			Particles: make([]ParticleView, len(g.particles)),
		}
		for i := range g.particles {
			p := &g.particles[i]
			view.Particles[i] = ParticleView{
				Position: p.Position,
				Rotation: p.Rotation,
				Opacity:  p.visibleOpacity(),
				Shape:    p.Shape,
			}
		}
		dst = append(dst, view)
	}
	return dst
}

// Count returns the number of live particles.
func (s *ParticleSystem) Count() int {
	return s.count
}

// GroupCount returns the number of live groups.
func (s *ParticleSystem) GroupCount() int {
	return len(s.groups)
}
