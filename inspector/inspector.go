// Package inspector draws a details panel for one selected cell.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/celllife/camera"
	"github.com/pthm-cable/celllife/sim"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
	SectionGap   = 12
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Section is one titled group of fields.
type Section struct {
	Title  string
	Fields []Field
}

// Sections lays out a cell and its receptors for display.
func Sections(c sim.Cell, receptors []sim.Receptor) []Section {
	out := []Section{
		{Title: "VITALS", Fields: ExtractFields(c.Vitals)},
		{Title: "BODY", Fields: append(ExtractFields(c.Body), ExtractFields(c.Motion)...)},
	}
	for _, r := range receptors {
		out = append(out, Section{
			Title:  "RECEPTOR: " + TypeName(r),
			Fields: ExtractFields(r),
		})
	}
	return out
}

// Inspector tracks the selected cell and renders its panel.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32
	panelHeight int32
}

// NewInspector creates an inspector anchored to the right edge of the screen.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{panelY: 10}
	ins.Resize(screenWidth)
	return ins
}

// Resize re-anchors the panel after a window resize.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// Select marks a cell as selected.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.panelHeight = 0
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Contains reports whether a screen point falls on the open panel.
func (ins *Inspector) Contains(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.panelHeight
}

// CloseHit reports whether a screen point hits the close button.
func (ins *Inspector) CloseHit(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	return int32(x) >= closeX && int32(x) <= closeX+20 &&
		int32(y) >= closeY && int32(y) <= closeY+20
}

// Draw renders the panel for the selected cell.
func (ins *Inspector) Draw(c sim.Cell, receptors []sim.Receptor) {
	if !ins.hasSelected {
		return
	}

	sections := Sections(c, receptors)
	ins.panelHeight = panelHeight(sections)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("CELL %v", c.Entity), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		ins.drawSectionHeader(x, y, s.Title)
		y += 20
		for _, f := range s.Fields {
			y += DrawField(x, y, f)
		}
		y += SectionGap
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// panelHeight computes the height Draw will use for sections.
func panelHeight(sections []Section) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		h += 20
		for _, f := range s.Fields {
			h += fieldHeight(f)
		}
		h += SectionGap
	}
	return h + PanelPadding - SectionGap
}

// DrawSelectionHighlight circles the selected cell in screen space.
func (ins *Inspector) DrawSelectionHighlight(c sim.Cell, cam *camera.Camera) {
	if !ins.hasSelected {
		return
	}
	sx, sy := cam.WorldToScreen(float32(c.Position.X), float32(c.Position.Y))
	radius := max(float32(c.Size)*cam.Zoom*1.8, 6)
	rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, radius, rl.Yellow)
}
