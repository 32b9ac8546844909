package inspector

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/celllife/components"
	"github.com/pthm-cable/celllife/sim"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:200", WidgetBar, map[string]string{"max": "200"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"swatch", WidgetSwatch, map[string]string{}},
		{"skip", WidgetSkip, map[string]string{}},
		{"unknown,of:X", WidgetAuto, map[string]string{"of": "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.widget {
				t.Errorf("widget = %v, want %v", w, tt.widget)
			}
			if len(opts) != len(tt.options) {
				t.Fatalf("options = %v, want %v", opts, tt.options)
			}
			for k, v := range tt.options {
				if opts[k] != v {
					t.Errorf("options[%q] = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractVitals(t *testing.T) {
	v := components.Vitals{Energy: 30, MaxEnergy: 120, Health: 5, MaxHealth: 10, Age: 2.5}
	fields := ExtractFields(&v)

	want := []struct {
		name   string
		widget Widget
		max    float64
	}{
		{"Energy", WidgetBar, 120},
		{"Health", WidgetBar, 10},
		{"Age", WidgetLabel, 1},
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %+v", len(fields), len(want), fields)
	}
	for i, w := range want {
		f := fields[i]
		if f.Name != w.name || f.Widget != w.widget || f.Max != w.max {
			t.Errorf("field %d = %s/%v/%v, want %s/%v/%v", i, f.Name, f.Widget, f.Max, w.name, w.widget, w.max)
		}
	}
	if got := FormatValue(fields[2].Value, fields[2].Options["fmt"]); got != "2.5s" {
		t.Errorf("age formatted as %q", got)
	}
}

func TestExtractFlattensReceptorParams(t *testing.T) {
	r := sim.AttractionReceptor{
		Affinity: r3.Vec{X: 1},
		Params:   sim.AttractionParams{Strength: 2, Cost: 0.1, Range: 80},
	}
	fields := ExtractFields(r)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	want := []string{"Affinity", "Strength", "Cost", "Range", "MinDistance"}
	if len(names) != len(want) {
		t.Fatalf("fields = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("field %d = %s, want %s", i, names[i], want[i])
		}
	}
	if fields[0].Widget != WidgetSwatch {
		t.Errorf("affinity widget = %v, want swatch", fields[0].Widget)
	}
}

func TestExtractFieldsNonStruct(t *testing.T) {
	if got := ExtractFields(3.5); got != nil {
		t.Errorf("ExtractFields(float) = %v, want nil", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		fmt   string
		want  string
	}{
		{"float", 1.23456, "", "1.23"},
		{"vec2", r2.Vec{X: 1.5, Y: -3}, "", "(1.5, -3.0)"},
		{"vec3", r3.Vec{X: 1, Y: 0.5}, "", "(1.00, 0.50, 0.00)"},
		{"custom", 7.0, "%.0f units", "7 units"},
		{"int", 4, "", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value, tt.fmt); got != tt.want {
				t.Errorf("FormatValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	if got := TypeName(sim.BaseReceptor{}); got != "Base" {
		t.Errorf("TypeName(BaseReceptor) = %q", got)
	}
	if got := TypeName(&sim.AttractionReceptor{}); got != "Attraction" {
		t.Errorf("TypeName(*AttractionReceptor) = %q", got)
	}
	if got := TypeName(nil); got != "<nil>" {
		t.Errorf("TypeName(nil) = %q", got)
	}
}

func TestSectionsAndHeight(t *testing.T) {
	c := sim.Cell{
		Body:   components.Body{Size: 3, Color: r3.Vec{Y: 1}, Density: 1},
		Vitals: components.Vitals{Energy: 1, MaxEnergy: 1, Health: 1, MaxHealth: 1},
	}
	sections := Sections(c, []sim.Receptor{sim.BaseReceptor{}})
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want vitals, body and one receptor", len(sections))
	}
	if sections[2].Title != "RECEPTOR: Base" {
		t.Errorf("receptor section title = %q", sections[2].Title)
	}
	// Body: Size, Color; Motion: Position, Velocity.
	if n := len(sections[1].Fields); n != 4 {
		t.Errorf("body section has %d fields, want 4", n)
	}
	if h := panelHeight(sections); h <= HeaderHeight {
		t.Errorf("panel height %d too small", h)
	}
}
