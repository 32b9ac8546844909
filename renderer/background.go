package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/celllife/camera"
)

// BackgroundRenderer draws a world-space grid so panning is visible in an
// otherwise empty, unbounded world.
type BackgroundRenderer struct {
	base    rl.Color
	line    rl.Color
	spacing float32
}

// NewBackgroundRenderer creates a background with grid lines every spacing
// world units.
func NewBackgroundRenderer(spacing float32, baseR, baseG, baseB uint8) *BackgroundRenderer {
	if spacing <= 0 {
		spacing = 50
	}
	return &BackgroundRenderer{
		base:    rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		line:    rl.Color{R: baseR + 12, G: baseG + 12, B: baseB + 16, A: 255},
		spacing: spacing,
	}
}

// Draw clears the screen and draws the grid visible through cam.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.base)

	step := b.spacing
	// Keep lines at least 8px apart when zoomed far out.
	for step*cam.Zoom < 8 {
		step *= 4
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	startX := float32(math.Floor(float64(minX/step))) * step
	startY := float32(math.Floor(float64(minY/step))) * step

	for x := startX; x <= maxX; x += step {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, b.line)
	}
	for y := startY; y <= maxY; y += step {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, b.line)
	}
}
