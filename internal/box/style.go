package box

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Align is the horizontal alignment of text inside a box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign validates an alignment name.
func ParseAlign(s string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignLeft, AlignCenter, AlignRight:
		return a, nil
	default:
		return "", fmt.Errorf("unknown alignment %q (want left, center or right)", s)
	}
}

// Style is the typography applied to a box's translated text.
type Style struct {
	FontFamily  string  `json:"font_family"`
	FontSize    float64 `json:"font_size"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"stroke_width"`
	StrokeColor string  `json:"stroke_color"`
	Rotation    float64 `json:"rotation"` // degrees, clockwise
	Bold        bool    `json:"bold"`
	Italic      bool    `json:"italic"`
	Align       Align   `json:"align"`
}

// DefaultStyle returns the style a fresh session starts with.
func DefaultStyle() Style {
	return Style{
		FontFamily:  "Go",
		FontSize:    20,
		Color:       "#000000",
		StrokeWidth: 2,
		StrokeColor: "#ffffff",
		Rotation:    0,
		Align:       AlignCenter,
	}
}

// Style fields that can be set by name.
const (
	FieldFontFamily  = "font_family"
	FieldFontSize    = "font_size"
	FieldColor       = "color"
	FieldStrokeWidth = "stroke_width"
	FieldStrokeColor = "stroke_color"
	FieldRotation    = "rotation"
)

// Upper bounds for numeric fields. Glyph masks grow with the font size and
// the outline is drawn once per point of a disc of the stroke width.
const (
	MaxFontSize    = 1000
	MaxStrokeWidth = 100
)

// parseFinite parses a decimal number, rejecting NaN and infinities.
func parseFinite(value string) (float64, bool) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Fields lists the names accepted by Set.
var Fields = []string{FieldFontFamily, FieldFontSize, FieldColor, FieldStrokeWidth, FieldStrokeColor, FieldRotation}

// Set parses value and assigns it to the named field. On error s is unchanged.
func (s *Style) Set(field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FieldFontFamily:
		if value == "" {
			return fmt.Errorf("font_family must not be empty")
		}
		s.FontFamily = value
	case FieldFontSize:
		n, ok := parseFinite(value)
		if !ok || n <= 0 || n > MaxFontSize {
			return fmt.Errorf("font_size must be a positive number up to %d, got %q", MaxFontSize, value)
		}
		s.FontSize = n
	case FieldColor:
		c, err := NormalizeColor(value)
		if err != nil {
			return err
		}
		s.Color = c
	case FieldStrokeWidth:
		n, ok := parseFinite(value)
		if !ok || n < 0 || n > MaxStrokeWidth {
			return fmt.Errorf("stroke_width must be a non-negative number up to %d, got %q", MaxStrokeWidth, value)
		}
		s.StrokeWidth = n
	case FieldStrokeColor:
		c, err := NormalizeColor(value)
		if err != nil {
			return err
		}
		s.StrokeColor = c
	case FieldRotation:
		n, ok := parseFinite(value)
		if !ok {
			return fmt.Errorf("rotation must be a finite number of degrees, got %q", value)
		}
		s.Rotation = n
	default:
		return fmt.Errorf("unknown style field %q", field)
	}
	return nil
}

// Copy assigns the named field from src to s.
func (s *Style) Copy(field string, src Style) {
	switch field {
	case FieldFontFamily:
		s.FontFamily = src.FontFamily
	case FieldFontSize:
		s.FontSize = src.FontSize
	case FieldColor:
		s.Color = src.Color
	case FieldStrokeWidth:
		s.StrokeWidth = src.StrokeWidth
	case FieldStrokeColor:
		s.StrokeColor = src.StrokeColor
	case FieldRotation:
		s.Rotation = src.Rotation
	}
}

// FillColor returns the parsed text colour, black if unparsable.
func (s Style) FillColor() color.Color {
	return parseOr(s.Color, color.Black)
}

// OutlineColor returns the parsed stroke colour, white if unparsable.
func (s Style) OutlineColor() color.Color {
	return parseOr(s.StrokeColor, color.White)
}

// NormalizeColor parses a "#rgb" or "#rrggbb" colour and returns it as
// lowercase "#rrggbb".
func NormalizeColor(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if hex != "" && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return c.Hex(), nil
}

func parseOr(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
