package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// lettering fills r with one-pixel black lines every 8 pixels, running
// horizontally or vertically.
func lettering(img *image.NRGBA, r image.Rectangle, vertical bool) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pos := y - r.Min.Y
			if vertical {
				pos = x - r.Min.X
			}
			if pos%8 == 0 {
				img.Set(x, y, color.Black)
			}
		}
	}
}

func intersects(r box.Rect, area image.Rectangle) bool {
	return r.X < float64(area.Max.X) && r.X+r.W > float64(area.Min.X) &&
		r.Y < float64(area.Max.Y) && r.Y+r.H > float64(area.Min.Y)
}

func TestTextRegions_Blank(t *testing.T) {
	if got := TextRegions(whiteImage(300, 200), 0); len(got) != 0 {
		t.Errorf("TextRegions() on a blank page = %v, want none", got)
	}
}

func TestTextRegions_Lettering(t *testing.T) {
	tests := []struct {
		name     string
		area     image.Rectangle
		vertical bool
	}{
		{"horizontal", image.Rect(20, 20, 180, 100), false},
		{"vertical", image.Rect(20, 20, 100, 180), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := whiteImage(200, 200)
			lettering(img, tt.area, tt.vertical)

			got := TextRegions(img, DefaultMinConfidence)
			if len(got) == 0 {
				t.Fatal("TextRegions() found nothing")
			}
			for _, r := range got {
				if !intersects(r.Rect, tt.area) {
					t.Errorf("region %+v lies outside the lettering %v", r.Rect, tt.area)
				}
				if r.Confidence < DefaultMinConfidence || r.Confidence > 1 {
					t.Errorf("confidence = %v, want within [%v, 1]", r.Confidence, DefaultMinConfidence)
				}
			}
		})
	}
}

func TestTextRegions_Threshold(t *testing.T) {
	img := whiteImage(200, 120)
	lettering(img, image.Rect(20, 20, 180, 100), false)

	if got := TextRegions(img, 1.01); len(got) != 0 {
		t.Errorf("TextRegions(1.01) = %v, want none", got)
	}
}

func TestTextRegions_SortedAndDisjoint(t *testing.T) {
	img := whiteImage(400, 200)
	lettering(img, image.Rect(10, 20, 150, 80), false)
	lettering(img, image.Rect(250, 110, 390, 190), false)

	got := TextRegions(img, 0.3)
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("regions not sorted by confidence: %v", got)
		}
	}
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if overlap(got[i].Rect, got[j].Rect) {
				t.Errorf("regions %d and %d overlap: %+v %+v", i, j, got[i].Rect, got[j].Rect)
			}
		}
	}
}

func TestMerge(t *testing.T) {
	in := []Region{
		{Rect: box.Rect{X: 0, Y: 0, W: 10, H: 10}, Confidence: 0.5},
		{Rect: box.Rect{X: 5, Y: 5, W: 10, H: 10}, Confidence: 0.8},
		{Rect: box.Rect{X: 50, Y: 50, W: 10, H: 10}, Confidence: 0.6},
		{Rect: box.Rect{X: 14, Y: 14, W: 2, H: 2}, Confidence: 0.4},
	}

	got := merge(in)
	if len(got) != 2 {
		t.Fatalf("merge() = %v, want 2 regions", got)
	}

	var joined Region
	for _, r := range got {
		if r.Rect.X == 0 {
			joined = r
		}
	}
	want := box.Rect{X: 0, Y: 0, W: 16, H: 16}
	if joined.Rect != want || joined.Confidence != 0.8 {
		t.Errorf("merged region = %+v, want %+v with confidence 0.8", joined, want)
	}
}
