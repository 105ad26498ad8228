package detection

import (
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

// Region is a candidate text area in page pixels.
type Region struct {
	Rect       box.Rect `json:"rect"`
	Confidence float64  `json:"confidence"`
}

// Window sizes, wide for horizontal lettering and tall for vertical.
var windows = []struct{ w, h int }{
	{80, 25},
	{100, 30},
	{150, 40},
	{200, 50},
	{25, 80},
	{30, 100},
	{40, 150},
}

const (
	// edgeThreshold is the Sobel magnitude above which a pixel is an edge.
	edgeThreshold = 0x60

	minDensity   = 0.05
	maxDensity   = 0.4
	idealDensity = 0.2
)

// DefaultMinConfidence is used by callers that do not pick a threshold.
const DefaultMinConfidence = 0.5

// TextRegions returns candidate text areas with at least minConfidence,
// best first.
func TextRegions(img image.Image, minConfidence float64) []Region {
	edges := newEdgeMap(img)
	origin := img.Bounds().Min

	var candidates []Region
	for _, ws := range windows {
		if ws.w > edges.w || ws.h > edges.h {
			continue
		}
		stepX, stepY := ws.w/2, ws.h/2

		for y := 0; y+ws.h <= edges.h; y += stepY {
			for x := 0; x+ws.w <= edges.w; x += stepX {
				density := float64(edges.count(x, y, ws.w, ws.h)) / float64(ws.w*ws.h)
				if density < minDensity || density > maxDensity {
					continue
				}

				confidence := edges.axisScore(x, y, ws.w, ws.h) * (1 - math.Abs(density-idealDensity)/idealDensity)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, Region{
					Rect: box.Rect{
						X: float64(x + origin.X),
						Y: float64(y + origin.Y),
						W: float64(ws.w),
						H: float64(ws.h),
					},
					Confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	merged := merge(candidates)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	return merged
}

// edgeMap is a binary edge mask with a summed-area table for window counts.
type edgeMap struct {
	w, h int
	edge []bool
	sum  []int // (w+1)*(h+1)
}

func newEdgeMap(img image.Image) *edgeMap {
	sobel := effect.Sobel(effect.Grayscale(img))
	b := sobel.Bounds()
	m := &edgeMap{
		w:    b.Dx(),
		h:    b.Dy(),
		edge: make([]bool, b.Dx()*b.Dy()),
		sum:  make([]int, (b.Dx()+1)*(b.Dy()+1)),
	}

	stride := m.w + 1
	for y := 0; y < m.h; y++ {
		row := 0
		for x := 0; x < m.w; x++ {
			if sobel.RGBAAt(b.Min.X+x, b.Min.Y+y).R > edgeThreshold {
				m.edge[y*m.w+x] = true
				row++
			}
			m.sum[(y+1)*stride+x+1] = m.sum[y*stride+x+1] + row
		}
	}
	return m
}

func (m *edgeMap) at(x, y int) bool {
	return m.edge[y*m.w+x]
}

func (m *edgeMap) count(x, y, w, h int) int {
	stride := m.w + 1
	return m.sum[(y+h)*stride+x+w] - m.sum[y*stride+x+w] - m.sum[(y+h)*stride+x] + m.sum[y*stride+x]
}

// axisScore is near 1 when the edges in the window form runs along one axis,
// as lines of glyphs do, and near 0.5 for isotropic texture.
func (m *edgeMap) axisScore(x, y, w, h int) float64 {
	horizontal, vertical := 0, 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if m.at(col, row) {
				if !inRun {
					horizontal++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}
	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if m.at(col, row) {
				if !inRun {
					vertical++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	total := horizontal + vertical
	if total == 0 {
		return 0
	}
	return float64(max(horizontal, vertical)) / float64(total)
}

// merge folds overlapping regions into their union until none overlap.
func merge(regions []Region) []Region {
	merged := make([]Region, 0, len(regions))
	for _, r := range regions {
		merged = append(merged, r)
		for changed := true; changed; {
			changed = false
			last := len(merged) - 1
			for i := 0; i < last; i++ {
				if overlap(merged[i].Rect, merged[last].Rect) {
					merged[i].Rect = union(merged[i].Rect, merged[last].Rect)
					merged[i].Confidence = math.Max(merged[i].Confidence, merged[last].Confidence)
					merged[i], merged[last-1] = merged[last-1], merged[i]
					merged = merged[:last]
					changed = true
					break
				}
			}
		}
	}
	return merged
}

func overlap(a, b box.Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

func union(a, b box.Rect) box.Rect {
	x1, y1 := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	x2, y2 := math.Max(a.X+a.W, b.X+b.W), math.Max(a.Y+a.H, b.Y+b.H)
	return box.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}
