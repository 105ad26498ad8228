package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is an 8-bit RGB triple.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor holds hue in degrees and saturation/lightness in percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorResult is a sampled page colour.
type ColorResult struct {
	Hex   string   `json:"hex"`
	RGB   RGBColor `json:"rgb"`
	HSL   HSLColor `json:"hsl"`
	Alpha uint8    `json:"alpha"`
}

// SampleColor reads the pixel at (x, y). Used to pick a text or outline
// colour that matches the original lettering.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	px := img.At(x, y)
	_, _, _, a := px.RGBA()
	c, ok := colorful.MakeColor(px)
	if !ok {
		// Fully transparent: report black rather than dividing by zero alpha.
		c = colorful.Color{}
	}
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()

	return &ColorResult{
		Hex:   c.Hex(),
		RGB:   RGBColor{R: r, G: g, B: b},
		HSL:   HSLColor{H: int(math.Round(h)) % 360, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
		Alpha: uint8(a >> 8),
	}, nil
}
