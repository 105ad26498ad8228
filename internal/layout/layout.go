// Package layout breaks translated text into lines that fit a box and places
// those lines relative to the box centre.
//
// Layout is independent of any drawing surface: widths come from a Measurer,
// so the same code drives both rendering and tests.
package layout

import (
	"strings"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

// LineSpacing is the line height as a multiple of the font size.
const LineSpacing = 1.2

// Measurer reports the advance width of a string in pixels.
type Measurer interface {
	Measure(s string) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(s string) float64

// Measure calls f(s).
func (f MeasureFunc) Measure(s string) float64 { return f(s) }

// Wrap splits text into lines no wider than maxWidth where possible.
//
// Each "\n" starts a new paragraph. Within a paragraph words are added
// greedily; a line is committed when appending the next word would push it
// past maxWidth. A word wider than maxWidth on its own stays on its own line
// and overflows. Committed lines keep the trailing space they were measured
// with; the last line of a paragraph does not. An empty paragraph yields an
// empty line.
func Wrap(text string, maxWidth float64, m Measurer) []string {
	text = strings.ReplaceAll(text, "\r", "")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, maxWidth, m)...)
	}
	return lines
}

func wrapParagraph(para string, maxWidth float64, m Measurer) []string {
	var (
		out  []string
		line string
	)
	for _, word := range strings.Fields(para) {
		candidate := line + word + " "
		if line != "" && m.Measure(candidate) > maxWidth {
			out = append(out, line)
			line = word + " "
			continue
		}
		line = candidate
	}
	return append(out, strings.TrimSuffix(line, " "))
}

// Line is a wrapped line and its vertical offset from the box centre.
// Y is the line's vertical midpoint.
type Line struct {
	Text string
	Y    float64
}

// Block is the laid-out text of one box.
type Block struct {
	Lines      []Line
	LineHeight float64
	Height     float64
}

// Layout wraps text to width and stacks the lines so that the block is
// vertically centred on the box centre.
func Layout(text string, width, fontSize float64, m Measurer) Block {
	wrapped := Wrap(text, width, m)
	lh := LineSpacing * fontSize
	total := float64(len(wrapped)) * lh

	b := Block{
		Lines:      make([]Line, len(wrapped)),
		LineHeight: lh,
		Height:     total,
	}
	start := -(total / 2) + lh/2
	for i, s := range wrapped {
		b.Lines[i] = Line{Text: s, Y: start + float64(i)*lh}
	}
	return b
}

// Anchor returns the horizontal offset from the box centre at which lines
// are drawn for align, and the fraction of each line's width that sits left
// of that point (0 for left, 0.5 for centre, 1 for right).
func Anchor(align box.Align, width float64) (x, ax float64) {
	switch align {
	case box.AlignLeft:
		return -width / 2, 0
	case box.AlignRight:
		return width / 2, 1
	default:
		return 0, 0.5
	}
}
