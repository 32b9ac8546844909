package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 4)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 4 {
		t.Errorf("expected zoom 4, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 4)

	// World origin maps to screen center
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	// Negative world coordinates land left of center
	sx, _ = cam.WorldToScreen(-30, 0)
	if math.Abs(float64(sx-(640-120))) > 0.01 {
		t.Errorf("expected x=520 for world -30 at zoom 4, got %f", sx)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2.5)
	cam.Pan(37, -12)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		name string
		zoom float32
		want float32
	}{
		{"within", 3, 3},
		{"too small", 0.001, 0.1},
		{"too large", 1000, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(800, 600, 1)
			cam.SetZoom(tt.zoom)
			if cam.Zoom != tt.want {
				t.Errorf("zoom = %v, want %v", cam.Zoom, tt.want)
			}
		})
	}
}

func TestPanAndReset(t *testing.T) {
	cam := New(800, 600, 2)
	cam.Pan(100, 50)

	// Screen delta is divided by zoom
	if cam.X != 50 || cam.Y != 25 {
		t.Errorf("after pan camera at (%v, %v), want (50, 25)", cam.X, cam.Y)
	}

	cam.ZoomBy(3)
	cam.Reset()
	if cam.X != 0 || cam.Y != 0 || cam.Zoom != 2 {
		t.Errorf("after reset camera = (%v, %v) zoom %v", cam.X, cam.Y, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 600, 2) // visible half extents 200 x 150

	if !cam.IsVisible(0, 0, 1) {
		t.Error("origin should be visible")
	}
	if cam.IsVisible(300, 0, 5) {
		t.Error("point far right should not be visible")
	}
	if !cam.IsVisible(203, 0, 5) {
		t.Error("circle overlapping the edge should be visible")
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX != -200 || maxX != 200 || minY != -150 || maxY != 150 {
		t.Errorf("bounds = (%v, %v, %v, %v)", minX, minY, maxX, maxY)
	}
}
