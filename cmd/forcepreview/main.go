// Force field preview tool - shows the net pull a probe cell feels around a
// target cell, with sliders for the receptor parameters.
//
// Usage: go run ./cmd/forcepreview
package main

import (
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

// slider describes one labelled parameter control.
type slider struct {
	label    string
	min, max float32
	value    *float32
	format   string
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Force Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := FieldParams{
		RepulsionLog10:     6.5,
		AttractionStrength: 50,
		Range:              500,
		TargetSize:         8,
		ProbeSize:          5,
		ViewRadius:         200,
	}

	sliders := []slider{
		{"Repulsion strength (log10)", 3, 8, &params.RepulsionLog10, "%.2f"},
		{"Attraction strength", 0, 500, &params.AttractionStrength, "%.0f"},
		{"Attraction range", 10, 1000, &params.Range, "%.0f"},
		{"Target size", 1, 20, &params.TargetSize, "%.1f"},
		{"Probe size", 1, 20, &params.ProbeSize, "%.1f"},
		{"View radius", 20, 1000, &params.ViewRadius, "%.0f"},
	}

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var field *Field
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			f, err := GenerateField(params, gridSize)
			if err != nil {
				log.Printf("generating field: %v", err)
			} else {
				field = f
				updateTexture(texture, field)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Target outline at the preview centre
		scale := previewSize / (2 * params.ViewRadius)
		rl.DrawCircleLines(10+previewSize/2, 10+previewSize/2, params.TargetSize*scale, rl.White)

		statsY := int32(previewSize + 25)
		if field != nil {
			rl.DrawText(fmt.Sprintf("Max |force|: %.3g", field.MaxAbs), 15, statsY, 16, rl.DarkGray)
		}
		rl.DrawText("green = pulled toward target, red = pushed away", 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Receptor Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != *s.value {
				*s.value = v
				needsRegen = true
			}
			panelY += 35
		}

		rl.EndDrawing()
	}
}

// updateTexture updates the GPU texture from the field values.
func updateTexture(texture rl.Texture2D, f *Field) {
	pixels := make([]color.RGBA, len(f.Values))
	for i := range f.Values {
		t := f.Intensity(i)
		switch {
		case t > 0:
			pixels[i] = color.RGBA{R: 20, G: uint8(30 + t*225), B: 40, A: 255}
		case t < 0:
			pixels[i] = color.RGBA{R: uint8(30 - t*225), G: 20, B: 30, A: 255}
		default:
			pixels[i] = color.RGBA{R: 20, G: 20, B: 30, A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
