package layout

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

// fixedWidth measures every rune as w pixels.
func fixedWidth(w float64) Measurer {
	return MeasureFunc(func(s string) float64 {
		return float64(len([]rune(s))) * w
	})
}

func TestWrap_Scenario(t *testing.T) {
	// "Hello " is 54px, "Hello World " is 108px.
	got := Wrap("Hello World Test", 60, fixedWidth(9))
	want := []string{"Hello ", "World ", "Test"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits on one line", "Hi there", 500, []string{"Hi there"}},
		{"empty", "", 100, []string{""}},
		{"hard break", "one\ntwo", 500, []string{"one", "two"}},
		{"blank line kept", "one\n\ntwo", 500, []string{"one", "", "two"}},
		{"crlf", "one\r\ntwo", 500, []string{"one", "two"}},
		{"long word overflows", "a supercalifragilistic b", 50, []string{"a ", "supercalifragilistic ", "b"}},
		{"collapses spaces", "a   b", 500, []string{"a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, fixedWidth(10))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrap_Deterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog\nand keeps running far away"
	m := fixedWidth(7)
	first := Wrap(text, 90, m)
	for i := 0; i < 10; i++ {
		if got := Wrap(text, 90, m); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %q vs %q", i, got, first)
		}
	}
}

func TestWrap_RoundTrip(t *testing.T) {
	paragraphs := []string{
		"the quick brown fox jumps over the lazy dog",
		"ก ข ค ง จ ฉ ช ซ",
		"single",
		"many small words in a row to wrap a lot",
	}
	for _, width := range []float64{60, 120, 400} {
		for _, para := range paragraphs {
			lines := Wrap(para, width, fixedWidth(6))
			var words []string
			for _, l := range lines {
				words = append(words, strings.Fields(l)...)
			}
			if got := strings.Join(words, " "); got != strings.Join(strings.Fields(para), " ") {
				t.Errorf("width %v: round trip %q -> %q", width, para, got)
			}
			for i, l := range lines {
				last := i == len(lines)-1
				if !last && !strings.HasSuffix(l, " ") {
					t.Errorf("committed line %q lacks trailing space", l)
				}
				if last && strings.HasSuffix(l, " ") {
					t.Errorf("final line %q keeps trailing space", l)
				}
			}
		}
	}
}

func TestWrap_NewlinesAlwaysBreak(t *testing.T) {
	lines := Wrap("a\nb\nc", 10000, fixedWidth(1))
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3: %q", len(lines), lines)
	}
}

func TestLayout_VerticalCentering(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fontSize float64
		wantY    []float64
	}{
		{"single line", "Hi", 20, []float64{0}},
		{"two lines", "a\nb", 20, []float64{-12, 12}},
		{"three lines", "a\nb\nc", 10, []float64{-12, 0, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Layout(tt.text, 500, tt.fontSize, fixedWidth(5))
			if len(b.Lines) != len(tt.wantY) {
				t.Fatalf("got %d lines, want %d", len(b.Lines), len(tt.wantY))
			}
			if want := LineSpacing * tt.fontSize; math.Abs(b.LineHeight-want) > 1e-9 {
				t.Errorf("LineHeight = %v, want %v", b.LineHeight, want)
			}
			for i, l := range b.Lines {
				if math.Abs(l.Y-tt.wantY[i]) > 1e-9 {
					t.Errorf("line %d Y = %v, want %v", i, l.Y, tt.wantY[i])
				}
			}
			first, last := b.Lines[0].Y, b.Lines[len(b.Lines)-1].Y
			if math.Abs(first+last) > 1e-9 {
				t.Errorf("block not centred: first %v last %v", first, last)
			}
		})
	}
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		align box.Align
		x, ax float64
	}{
		{box.AlignLeft, -50, 0},
		{box.AlignCenter, 0, 0.5},
		{box.AlignRight, 50, 1},
	}
	for _, tt := range tests {
		x, ax := Anchor(tt.align, 100)
		if x != tt.x || ax != tt.ax {
			t.Errorf("Anchor(%s) = (%v, %v), want (%v, %v)", tt.align, x, ax, tt.x, tt.ax)
		}
	}
}
