package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// Widget colors
var (
	ColorBarBg    = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill  = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow   = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText     = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim  = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn   = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff  = rl.Color{R: 80, G: 80, B: 80, A: 255}
	ColorLabelDim = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return 20
}

// DrawBar renders a horizontal progress bar scaled to maxVal.
func DrawBar(x, y int32, name string, value, maxVal float64) int32 {
	ratio := 0.0
	if maxVal > 0 {
		ratio = min(max(value/maxVal, 0), 1)
	}

	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	fillWidth := int32(float64(barWidth) * ratio)
	rl.DrawRectangle(barX, y, fillWidth, barHeight, lerpColor(ColorBarLow, ColorBarFill, float32(ratio)))

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return 18
}

// DrawSwatch renders a normalized RGB colour as a filled square.
func DrawSwatch(x, y int32, name string, c r3.Vec) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	size := int32(14)
	swatchX := x + 80
	rl.DrawRectangle(swatchX, y, size, size, rl.Color{
		R: unitByte(c.X),
		G: unitByte(c.Y),
		B: unitByte(c.Z),
		A: 255,
	})
	rl.DrawRectangleLines(swatchX, y, size, size, ColorTextDim)
	rl.DrawText(FormatValue(c, ""), swatchX+size+5, y, 14, ColorTextDim)

	return 18
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 80
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}

	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type and returns the height used.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Max)
		}
	case WidgetSwatch:
		if c, ok := field.Value.(r3.Vec); ok {
			return DrawSwatch(x, y, field.Name, c)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// fieldHeight mirrors the heights returned by DrawField.
func fieldHeight(field Field) int32 {
	switch field.Widget {
	case WidgetBar, WidgetSwatch, WidgetBool:
		return 18
	default:
		return 20
	}
}

func unitByte(v float64) uint8 {
	return uint8(255 * min(max(v, 0), 1))
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
