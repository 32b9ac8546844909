package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/celllife/camera"
	"github.com/pthm-cable/celllife/game"
	"github.com/pthm-cable/celllife/inspector"
	"github.com/pthm-cable/celllife/sim"
)

const (
	panelWidth  = 220
	panelHeight = 120
	zoomStep    = 1.1
	pickSlack   = 5 // screen pixels
)

// CellSource answers the inspector's queries. *game.Game implements it.
type CellSource interface {
	CellAt(p r2.Vec, slack float64) (sim.Cell, bool)
	Inspect(e ecs.Entity) (sim.Cell, []sim.Receptor, bool)
}

// Window draws frames into a raylib window. The window must be created with
// rl.InitWindow on the same OS thread that calls Draw.
type Window struct {
	cam        *camera.Camera
	background *BackgroundRenderer
	cells      *CellRenderer
	particles  *ParticleRenderer
	inspector  *inspector.Inspector
	source     CellSource
	showHUD    bool
}

// NewWindow creates a renderer for an already-open raylib window. src may be
// nil, which disables cell selection.
func NewWindow(zoom float32, src CellSource) *Window {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	return &Window{
		cam:        camera.New(w, h, zoom),
		background: NewBackgroundRenderer(50, 12, 14, 22),
		cells:      NewCellRenderer(),
		particles:  NewParticleRenderer(),
		inspector:  inspector.NewInspector(int32(w)),
		source:     src,
		showHUD:    true,
	}
}

// Camera returns the window camera.
func (w *Window) Camera() *camera.Camera {
	return w.cam
}

// Draw handles input and renders one frame.
// It returns game.ErrRendererClosed once the user closes the window.
func (w *Window) Draw(f *game.Frame) error {
	if rl.WindowShouldClose() {
		return game.ErrRendererClosed
	}
	w.handleInput()

	rl.BeginDrawing()
	w.background.Draw(w.cam)
	w.cells.Draw(f.Dots, w.cam)
	w.particles.Draw(f.Groups, w.cam)
	w.drawInspector()
	if w.showHUD {
		w.drawHUD(f)
	}
	rl.EndDrawing()
	return nil
}

func (w *Window) handleInput() {
	if rl.IsWindowResized() {
		w.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
		w.inspector.Resize(int32(rl.GetScreenWidth()))
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		w.handleClick(rl.GetMousePosition())
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if wheel > 0 {
			w.cam.ZoomBy(zoomStep)
		} else {
			w.cam.ZoomBy(1 / zoomStep)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		w.cam.Pan(-d.X/w.cam.Zoom, -d.Y/w.cam.Zoom)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		w.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		w.showHUD = !w.showHUD
	}
}

// handleClick selects the cell under the cursor, or clears the selection.
func (w *Window) handleClick(m rl.Vector2) {
	if w.source == nil {
		return
	}
	if w.inspector.CloseHit(m.X, m.Y) {
		w.inspector.Deselect()
		return
	}
	if w.inspector.Contains(m.X, m.Y) {
		return
	}
	// Clicks on the HUD panel belong to the zoom slider.
	if w.showHUD && m.X <= panelWidth+5 && m.Y <= panelHeight+5 {
		return
	}

	wx, wy := w.cam.ScreenToWorld(m.X, m.Y)
	c, ok := w.source.CellAt(r2.Vec{X: float64(wx), Y: float64(wy)}, float64(pickSlack/w.cam.Zoom))
	if !ok {
		w.inspector.Deselect()
		return
	}
	w.inspector.Select(c.Entity)
}

func (w *Window) drawInspector() {
	e, ok := w.inspector.Selected()
	if !ok || w.source == nil {
		return
	}
	c, receptors, alive := w.source.Inspect(e)
	if !alive {
		w.inspector.Deselect()
		return
	}
	w.inspector.DrawSelectionHighlight(c, w.cam)
	w.inspector.Draw(c, receptors)
}

func (w *Window) drawHUD(f *game.Frame) {
	x := float32(10)
	y := float32(10)
	rl.DrawRectangle(int32(x)-5, int32(y)-5, panelWidth, panelHeight, rl.Fade(rl.Black, 0.6))

	rl.DrawText(fmt.Sprintf("tick %d  fps %d", f.Tick, rl.GetFPS()), int32(x), int32(y), 16, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("cells %d", len(f.Dots)), int32(x), int32(y)+20, 16, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("particles %d (%d groups)", f.Particles, len(f.Groups)), int32(x), int32(y)+40, 16, rl.RayWhite)

	zoom := gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: y + 70, Width: panelWidth - 60, Height: 20},
		"zoom", fmt.Sprintf("%.1f", w.cam.Zoom),
		w.cam.Zoom, w.cam.MinZoom, w.cam.MaxZoom,
	)
	if zoom != w.cam.Zoom {
		w.cam.SetZoom(zoom)
	}
}
