package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetSwatch
	WidgetBool
	WidgetSkip
)

// Field represents a component field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
	Max     float64 // bar scale, resolved from the max or of option
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar,max:200"`
//	`inspect:"bar,of:MaxEnergy"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"swatch"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)

	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")

	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "bar":
		widget = WidgetBar
	case "swatch":
		widget = WidgetSwatch
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	default:
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}

	return widget, options
}

// ExtractFields uses reflection to list the exported fields of a component.
// Nested parameter structs are flattened into the result.
func ExtractFields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return appendFields(nil, v)
}

var (
	vec2Type = reflect.TypeFor[r2.Vec]()
	vec3Type = reflect.TypeFor[r3.Vec]()
)

func appendFields(fields []Field, v reflect.Value) []Field {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)

		if !sf.IsExported() {
			continue
		}

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}

		if fv.Kind() == reflect.Struct && fv.Type() != vec2Type && fv.Type() != vec3Type {
			fields = appendFields(fields, fv)
			continue
		}

		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}

		f := Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
			Max:     1,
		}
		if of, ok := options["of"]; ok {
			if ref := v.FieldByName(of); ref.IsValid() && ref.CanFloat() {
				f.Max = ref.Float()
			}
		} else {
			f.Max = GetMax(options)
		}
		fields = append(fields, f)
	}
	return fields
}

// autoDetectWidget chooses a widget based on the field type.
func autoDetectWidget(v reflect.Value) Widget {
	switch {
	case v.Kind() == reflect.Bool:
		return WidgetBool
	case v.Type() == vec3Type:
		return WidgetSwatch
	default:
		return WidgetLabel
	}
}

// FormatValue formats a field value as a string.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32:
		return fmt.Sprintf("%.2f", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case r2.Vec:
		return fmt.Sprintf("(%.1f, %.1f)", v.X, v.Y)
	case r3.Vec:
		return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// GetMax returns the max option as a float, defaulting to 1.0.
func GetMax(options map[string]string) float64 {
	if maxStr, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(maxStr, 64); err == nil {
			return m
		}
	}
	return 1.0
}

// GetFloatValue extracts a float64 from numeric types.
func GetFloatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// TypeName returns a component's short display name, without any
// "Receptor" suffix.
func TypeName(component any) string {
	t := reflect.TypeOf(component)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.TrimSuffix(t.Name(), "Receptor")
}
