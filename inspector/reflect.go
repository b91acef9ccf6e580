package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle // Heading in degrees, 0 = up, clockwise
	WidgetBool
	WidgetVector
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label":  WidgetLabel,
	"bar":    WidgetBar,
	"angle":  WidgetAngle,
	"bool":   WidgetBool,
	"vector": WidgetVector,
	"skip":   WidgetSkip,
}

// Hint is a parsed inspect struct tag.
//
// Format: `inspect:"widget[,fmt:verb][,min:v][,max:v]"`, for example
// `inspect:"label,fmt:%.2fs"` or `inspect:"bar,min:-35,max:35"`.
type Hint struct {
	Widget   Widget
	Format   string  // fmt verb for labels
	Min, Max float64 // Bar range, default [0, 1]
}

// ParseTag parses an inspect struct tag. Unknown widgets fall back to
// WidgetAuto and malformed options are ignored.
func ParseTag(tag string) Hint {
	h := Hint{Max: 1}
	if tag == "" {
		return h
	}
	parts := strings.Split(tag, ",")
	h.Widget = widgetNames[strings.TrimSpace(parts[0])]
	for _, part := range parts[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			h.Format = val
		case "min":
			h.Min = parseFloatOr(val, h.Min)
		case "max":
			h.Max = parseFloatOr(val, h.Max)
		}
	}
	return h
}

func parseFloatOr(s string, def float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

// Ratio maps v into [0, 1] over the hint's range.
func (h Hint) Ratio(v float64) float64 {
	if h.Max <= h.Min {
		return 0
	}
	return lo.Clamp((v-h.Min)/(h.Max-h.Min), 0, 1)
}

// Field is one inspectable value.
type Field struct {
	Name  string
	Value any
	Hint  Hint
}

// Label is the field name split into words: "BestLap" becomes "Best Lap".
func (f Field) Label() string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range f.Name {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Text formats the field value for a label row.
func (f Field) Text() string {
	return FormatValue(f.Value, f.Hint.Format)
}

// ExtractFields lists the exported fields of a component struct (or pointer
// to one) with their tag hints, dropping those tagged skip.
func ExtractFields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := range v.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		hint := ParseTag(sf.Tag.Get("inspect"))
		if hint.Widget == WidgetSkip {
			continue
		}
		value := v.Field(i).Interface()
		if hint.Widget == WidgetAuto {
			hint.Widget = detectWidget(value)
		}
		fields = append(fields, Field{Name: sf.Name, Value: value, Hint: hint})
	}
	return fields
}

func detectWidget(value any) Widget {
	switch value.(type) {
	case bool:
		return WidgetBool
	case r2.Vec:
		return WidgetVector
	default:
		return WidgetLabel
	}
}

// FormatValue formats a field value. Vectors render as "(x, y)"; floats
// default to two decimals.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case r2.Vec:
		return fmt.Sprintf("(%.0f, %.0f)", v.X, v.Y)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}

// toFloat converts any numeric value.
func toFloat(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	default:
		return 0, false
	}
}
