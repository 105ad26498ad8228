package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const labelPad = 2

// DrawGrid returns a copy of img with lines every spacing pixels and an
// "x,y" label at each crossing, for reading coordinates off a frame.
// A spacing of zero or less returns img unchanged.
func DrawGrid(img image.Image, spacing int) image.Image {
	if spacing <= 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	dc := gg.NewContextForImage(img)

	dc.SetRGBA255(0xff, 0x00, 0x00, 0x80)
	dc.SetLineWidth(1)
	for x := spacing; x < w; x += spacing {
		dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(h))
	}
	for y := spacing; y < h; y += spacing {
		dc.DrawLine(0, float64(y)+0.5, float64(w), float64(y)+0.5)
	}
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	_, lineHeight := dc.MeasureString("0")
	for y := spacing; y < h; y += spacing {
		for x := spacing; x < w; x += spacing {
			label := fmt.Sprintf("%d,%d", x, y)
			lw, _ := dc.MeasureString(label)
			lx, ly := float64(x+labelPad), float64(y+labelPad)

			dc.SetRGBA255(0, 0, 0, 0xb4)
			dc.DrawRectangle(lx, ly, lw+2*labelPad, lineHeight+2*labelPad)
			dc.Fill()

			dc.SetRGB255(0xff, 0xff, 0xff)
			dc.DrawStringAnchored(label, lx+labelPad, ly+labelPad, 0, 1)
		}
	}
	return dc.Image()
}
