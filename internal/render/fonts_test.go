package render

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestFontBook_Bundled(t *testing.T) {
	fb := NewFontBook(nil)

	for _, family := range []string{"Go", "Go Mono", "Go Medium"} {
		if !fb.Has(family) {
			t.Errorf("bundled family %q missing", family)
		}
	}
	if fb.Has("Arial") {
		t.Error("unexpected family Arial")
	}
}

func TestFontBook_FaceCached(t *testing.T) {
	fb := NewFontBook(nil)

	a := fb.Face("Go", 20, true, false)
	b := fb.Face("Go", 20, true, false)
	if a != b {
		t.Error("identical requests returned different faces")
	}
	if c := fb.Face("Go", 21, true, false); c == a {
		t.Error("different sizes share a face")
	}
}

func TestFontBook_Fallback(t *testing.T) {
	fb := NewFontBook(nil)

	unknown := fb.Face("Comic Sans", 20, false, false)
	def := fb.Face(DefaultFamily, 20, false, false)
	if unknown != def {
		t.Error("unknown family should resolve to the default face")
	}

	// Go Medium has no bold; the regular medium face is used.
	mb := fb.Face("Go Medium", 20, true, false)
	mr := fb.Face("Go Medium", 20, false, false)
	if mb != mr {
		t.Error("missing variant should resolve to the family's regular face")
	}
}

func TestFontBook_LoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Mangafont-Regular.ttf", "Mangafont-BoldItalic.ttf", "Plain.TTF"} {
		if err := os.WriteFile(filepath.Join(dir, name), gomono.TTF, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "Broken.ttf"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	fb := NewFontBook(nil)
	n, err := fb.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if n != 3 {
		t.Errorf("loaded %d faces, want 3", n)
	}
	for _, family := range []string{"Mangafont", "Plain"} {
		if !fb.Has(family) {
			t.Errorf("family %q not loaded; have %v", family, fb.Families())
		}
	}
	if fb.Face("Mangafont", 20, true, true) == fb.Face("Mangafont", 20, false, false) {
		t.Error("bold italic variant not distinct")
	}

	if _, err := fb.LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestParseFontName(t *testing.T) {
	tests := []struct {
		in      string
		family  string
		variant variant
	}{
		{"Sarabun-Regular.ttf", "Sarabun", regular},
		{"Sarabun-Bold.ttf", "Sarabun", bold},
		{"Sarabun-Italic.ttf", "Sarabun", italic},
		{"Sarabun-BoldItalic.ttf", "Sarabun", boldItalic},
		{"Kanit.ttf", "Kanit", regular},
		{"Noto Sans Thai-bold.ttf", "Noto Sans Thai", bold},
	}
	for _, tt := range tests {
		family, v := parseFontName(tt.in)
		if family != tt.family || v != tt.variant {
			t.Errorf("parseFontName(%q) = (%q, %d), want (%q, %d)", tt.in, family, v, tt.family, tt.variant)
		}
	}
}

func TestFaceMeasurer(t *testing.T) {
	fb := NewFontBook(nil)
	m := FaceMeasurer{Face: fb.Face("Go Mono", 20, false, false)}

	one := m.Measure("a")
	if one <= 0 {
		t.Fatalf("Measure(a) = %v", one)
	}
	// Monospace: four runes are four advances.
	if four := m.Measure("abcd"); four < 3.9*one || four > 4.1*one {
		t.Errorf("Measure(abcd) = %v, want about %v", four, 4*one)
	}
	if m.Measure("") != 0 {
		t.Error("empty string should measure 0")
	}
}
