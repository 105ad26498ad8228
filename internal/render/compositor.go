// Package render composites boxes and their translated text over a page.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
	"github.com/ironsheep/manga-overlay-mcp/internal/layout"
)

// Placeholder canvas shown before a page is loaded.
const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 600
	PlaceholderPrompt = "Load an image to start"
)

var (
	placeholderBG   = color.NRGBA{0xcc, 0xcc, 0xcc, 0xff}
	placeholderText = color.NRGBA{0x55, 0x55, 0x55, 0xff}
	highlightColor  = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	dragColor       = color.NRGBA{0xff, 0x00, 0x00, 0xff}
)

const (
	overlayLineWidth = 2
	dragDash         = 5
)

// Scene is everything a frame depends on.
type Scene struct {
	// Base is the loaded page, nil before one is loaded.
	Base image.Image

	// Boxes are drawn in order, later boxes on top.
	Boxes []box.Box

	// ActiveID names the box to highlight; empty for none.
	ActiveID string

	// Drawing is the selection being dragged out, if any. It may have a
	// negative width or height.
	Drawing *box.Rect
}

// Compositor draws scenes. It holds no per-frame state, so the same scene
// always yields the same pixels.
type Compositor struct {
	fonts *FontBook
}

// NewCompositor returns a compositor drawing text with fonts.
func NewCompositor(fonts *FontBook) *Compositor {
	return &Compositor{fonts: fonts}
}

// Fonts returns the font book used for text.
func (c *Compositor) Fonts() *FontBook {
	return c.fonts
}

// Render draws s onto a new canvas the size of the page:
// the page itself, each box's patch and text, the active box highlight and
// finally the in-progress selection.
func (c *Compositor) Render(s Scene) image.Image {
	if s.Base == nil {
		return c.placeholder()
	}

	b := s.Base.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(s.Base, -b.Min.X, -b.Min.Y)

	for i := range s.Boxes {
		c.drawBox(dc, &s.Boxes[i])
	}

	if s.ActiveID != "" {
		for i := range s.Boxes {
			if s.Boxes[i].ID == s.ActiveID {
				r := s.Boxes[i].Rect
				dc.SetColor(highlightColor)
				dc.SetLineWidth(overlayLineWidth)
				dc.DrawRectangle(r.X, r.Y, r.W, r.H)
				dc.Stroke()
				break
			}
		}
	}

	if s.Drawing != nil {
		r := s.Drawing.Normalize()
		dc.SetColor(dragColor)
		dc.SetLineWidth(overlayLineWidth)
		dc.SetDash(dragDash, dragDash)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Stroke()
		dc.SetDash()
	}

	return dc.Image()
}

func (c *Compositor) drawBox(dc *gg.Context, bx *box.Box) {
	if !bx.HasText() {
		return
	}

	if bx.Patch {
		dc.SetColor(color.White)
		dc.DrawRectangle(bx.X, bx.Y, bx.W, bx.H)
		dc.Fill()
	}

	st := bx.Style
	face := c.fonts.Face(st.FontFamily, st.FontSize, st.Bold, st.Italic)
	block := layout.Layout(bx.Translated, bx.W, st.FontSize, FaceMeasurer{Face: face})
	x, ax := layout.Anchor(st.Align, bx.W)

	cx, cy := bx.Center()
	dc.Push()
	defer dc.Pop()
	dc.Translate(cx, cy)
	dc.Rotate(gg.Radians(st.Rotation))
	dc.SetFontFace(face)

	if st.StrokeWidth > 0 {
		dc.SetColor(st.OutlineColor())
		offsets := strokeOffsets(st.StrokeWidth)
		for _, line := range block.Lines {
			for _, o := range offsets {
				dc.DrawStringAnchored(line.Text, x+o.X, line.Y+o.Y, ax, 0.5)
			}
		}
	}

	dc.SetColor(st.FillColor())
	for _, line := range block.Lines {
		dc.DrawStringAnchored(line.Text, x, line.Y, ax, 0.5)
	}
}

// strokeOffsets returns the integer offsets inside a disc of half the stroke
// width. Drawing the glyphs at each offset in the outline colour before the
// fill gives an outline of roughly that width centred on the glyph edge.
// Widths past box.MaxStrokeWidth are clamped to it.
func strokeOffsets(width float64) []gg.Point {
	if !(width <= box.MaxStrokeWidth) {
		width = box.MaxStrokeWidth
	}
	r := math.Max(1, math.Round(width/2))
	n := int(r)
	var pts []gg.Point
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if float64(dx*dx+dy*dy) <= r*r {
				pts = append(pts, gg.Point{X: float64(dx), Y: float64(dy)})
			}
		}
	}
	return pts
}

func (c *Compositor) placeholder() image.Image {
	dc := gg.NewContext(PlaceholderWidth, PlaceholderHeight)
	dc.SetColor(placeholderBG)
	dc.Clear()
	dc.SetFontFace(c.fonts.Face(DefaultFamily, 20, false, false))
	dc.SetColor(placeholderText)
	dc.DrawStringAnchored(PlaceholderPrompt, PlaceholderWidth/2, PlaceholderHeight/2, 0.5, 0.5)
	return dc.Image()
}
