package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/celllife/camera"
	"github.com/pthm-cable/celllife/systems"
)

// ParticleRenderer renders death-burst particles as rotated triangles.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders every particle group.
func (r *ParticleRenderer) Draw(groups []systems.GroupView, cam *camera.Camera) {
	for gi := range groups {
		g := &groups[gi]
		for i := range g.Particles {
			p := &g.Particles[i]
			if !cam.IsVisible(float32(p.Position.X), float32(p.Position.Y), 4) {
				continue
			}

			color := toColor(g.Color, clampUnit(p.Opacity))
			sin, cos := math.Sincos(p.Rotation)

			var pts [3]rl.Vector2
			for j, v := range p.Shape {
				wx := p.Position.X + v.X*cos - v.Y*sin
				wy := p.Position.Y + v.X*sin + v.Y*cos
				sx, sy := cam.WorldToScreen(float32(wx), float32(wy))
				pts[j] = rl.Vector2{X: sx, Y: sy}
			}

			// raylib culls clockwise triangles
			if cross(pts[0], pts[1], pts[2]) > 0 {
				pts[1], pts[2] = pts[2], pts[1]
			}
			rl.DrawTriangle(pts[0], pts[1], pts[2], color)
		}
	}
}

// cross returns the z component of (b-a) x (c-a) in screen space.
func cross(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
