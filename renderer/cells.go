package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/celllife/camera"
	"github.com/pthm-cable/celllife/sim"
)

// minCellAlpha keeps starving cells faintly visible.
const minCellAlpha = 0.25

// CellRenderer draws cells as filled circles with an outline.
type CellRenderer struct{}

// NewCellRenderer creates a new cell renderer.
func NewCellRenderer() *CellRenderer {
	return &CellRenderer{}
}

// Draw renders every dot. Brightness fades the fill toward transparent.
func (r *CellRenderer) Draw(dots []sim.Dot, cam *camera.Camera) {
	for i := range dots {
		d := &dots[i]
		x, y, radius := float32(d.Position.X), float32(d.Position.Y), float32(d.Radius)
		if !cam.IsVisible(x, y, radius) {
			continue
		}

		sx, sy := cam.WorldToScreen(x, y)
		sr := max(radius*cam.Zoom, 1)

		alpha := minCellAlpha + (1-minCellAlpha)*clampUnit(d.Brightness)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, sr, toColor(d.Color, alpha))
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, sr, toColor(d.Color, 1))
	}
}

// toColor converts a normalized RGB vector and alpha to a raylib color.
func toColor(c r3.Vec, alpha float64) rl.Color {
	return rl.Color{
		R: uint8(255 * clampUnit(c.X)),
		G: uint8(255 * clampUnit(c.Y)),
		B: uint8(255 * clampUnit(c.Z)),
		A: uint8(255 * clampUnit(alpha)),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
