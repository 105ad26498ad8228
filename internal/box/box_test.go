package box

import (
	"image/color"
	"testing"
)

func TestRect_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"positive", Rect{10, 20, 30, 40}, Rect{10, 20, 30, 40}},
		{"negative width", Rect{50, 20, -30, 40}, Rect{20, 20, 30, 40}},
		{"negative height", Rect{10, 60, 30, -40}, Rect{10, 20, 30, 40}},
		{"both negative", Rect{50, 60, -30, -40}, Rect{20, 20, 30, 40}},
		{"zero", Rect{5, 5, 0, 0}, Rect{5, 5, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got != tt.want {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.W < 0 || got.H < 0 {
				t.Errorf("normalized rect has negative extent: %+v", got)
			}
		})
	}
}

func TestRect_TooSmall(t *testing.T) {
	tests := []struct {
		r    Rect
		want bool
	}{
		{Rect{0, 0, 10, 10}, false},
		{Rect{0, 0, 9.9, 50}, true},
		{Rect{0, 0, 50, 9}, true},
		{Rect{0, 0, 100, 40}, false},
	}
	for _, tt := range tests {
		if got := tt.r.TooSmall(); got != tt.want {
			t.Errorf("TooSmall(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{10, 10, 100, 40}
	inside := [][2]float64{{10, 10}, {110, 50}, {60, 30}}
	outside := [][2]float64{{9.9, 10}, {111, 30}, {60, 51}}

	for _, p := range inside {
		if !r.Contains(p[0], p[1]) {
			t.Errorf("expected (%v,%v) inside %+v", p[0], p[1], r)
		}
	}
	for _, p := range outside {
		if r.Contains(p[0], p[1]) {
			t.Errorf("expected (%v,%v) outside %+v", p[0], p[1], r)
		}
	}
}

func TestNew(t *testing.T) {
	style := DefaultStyle()
	style.Bold = true

	b := New(Rect{100, 100, -50, -20}, style)

	if b.ID == "" {
		t.Error("new box has empty id")
	}
	if b.Rect != (Rect{50, 80, 50, 20}) {
		t.Errorf("rect not normalized: %+v", b.Rect)
	}
	if !b.Patch {
		t.Error("new boxes should patch by default")
	}
	if b.Original != "" || b.Translated != "" {
		t.Error("new box should have empty text")
	}
	if !b.Style.Bold {
		t.Error("style snapshot not copied")
	}

	// The snapshot must be independent of the template.
	style.Bold = false
	if !b.Style.Bold {
		t.Error("box style changed with the template")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s after %d ids", id, i)
		}
		seen[id] = true
	}
}

func TestList_HitTestTopmostWins(t *testing.T) {
	l := NewList()
	a := New(Rect{0, 0, 100, 100}, DefaultStyle())
	b := New(Rect{50, 50, 100, 100}, DefaultStyle())
	l.Add(a)
	l.Add(b)

	if got := l.HitTest(75, 75); got != b {
		t.Errorf("HitTest on overlap returned %v, want the later box", got)
	}
	if got := l.HitTest(10, 10); got != a {
		t.Errorf("HitTest(10,10) returned %v, want first box", got)
	}
	if got := l.HitTest(500, 500); got != nil {
		t.Errorf("HitTest on empty area returned %v", got)
	}
}

func TestList_RemoveAndGet(t *testing.T) {
	l := NewList()
	a := New(Rect{0, 0, 20, 20}, DefaultStyle())
	b := New(Rect{30, 0, 20, 20}, DefaultStyle())
	c := New(Rect{60, 0, 20, 20}, DefaultStyle())
	l.Add(a)
	l.Add(b)
	l.Add(c)

	if !l.Remove(b.ID) {
		t.Fatal("Remove returned false for existing box")
	}
	if l.Remove(b.ID) {
		t.Error("Remove returned true for missing box")
	}
	if l.Get(b.ID) != nil {
		t.Error("removed box still reachable")
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}

	all := l.All()
	if all[0] != a || all[1] != c {
		t.Error("insertion order not preserved after remove")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len after Clear = %d", l.Len())
	}
}

func TestList_Snapshot(t *testing.T) {
	l := NewList()
	a := New(Rect{0, 0, 20, 20}, DefaultStyle())
	l.Add(a)

	snap := l.Snapshot()
	snap[0].Translated = "changed"
	if a.Translated != "" {
		t.Error("snapshot aliases live box")
	}
}

func TestStyle_Set(t *testing.T) {
	tests := []struct {
		field, value string
		check        func(Style) bool
	}{
		{FieldFontFamily, "Go Mono", func(s Style) bool { return s.FontFamily == "Go Mono" }},
		{FieldFontSize, "32", func(s Style) bool { return s.FontSize == 32 }},
		{FieldColor, "#FF0000", func(s Style) bool { return s.Color == "#ff0000" }},
		{FieldColor, "0f0", func(s Style) bool { return s.Color == "#00ff00" }},
		{FieldStrokeWidth, "0", func(s Style) bool { return s.StrokeWidth == 0 }},
		{FieldStrokeColor, "#123456", func(s Style) bool { return s.StrokeColor == "#123456" }},
		{FieldRotation, "-15", func(s Style) bool { return s.Rotation == -15 }},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			s := DefaultStyle()
			if err := s.Set(tt.field, tt.value); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if !tt.check(s) {
				t.Errorf("unexpected style after Set: %+v", s)
			}
		})
	}
}

func TestStyle_SetInvalid(t *testing.T) {
	tests := []struct{ field, value string }{
		{FieldFontSize, "abc"},
		{FieldFontSize, "0"},
		{FieldFontSize, "-3"},
		{FieldFontSize, "NaN"},
		{FieldFontSize, "Inf"},
		{FieldFontSize, "1e6"},
		{FieldFontSize, "1000.5"},
		{FieldStrokeWidth, "-1"},
		{FieldStrokeWidth, "NaN"},
		{FieldStrokeWidth, "+Inf"},
		{FieldStrokeWidth, "400"},
		{FieldColor, "not-a-colour"},
		{FieldRotation, "ninety"},
		{FieldRotation, "NaN"},
		{FieldRotation, "-Inf"},
		{FieldFontFamily, "  "},
		{"weight", "700"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			s := DefaultStyle()
			if err := s.Set(tt.field, tt.value); err == nil {
				t.Error("expected error")
			}
			if s != DefaultStyle() {
				t.Errorf("style changed on error: %+v", s)
			}
		})
	}
}

func TestStyle_SetBounds(t *testing.T) {
	tests := []struct {
		field, value string
		want         func(Style) bool
	}{
		{FieldFontSize, "1000", func(s Style) bool { return s.FontSize == MaxFontSize }},
		{FieldStrokeWidth, "100", func(s Style) bool { return s.StrokeWidth == MaxStrokeWidth }},
		{FieldStrokeWidth, "0", func(s Style) bool { return s.StrokeWidth == 0 }},
		{FieldRotation, "-720", func(s Style) bool { return s.Rotation == -720 }},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			s := DefaultStyle()
			if err := s.Set(tt.field, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !tt.want(s) {
				t.Errorf("style after Set = %+v", s)
			}
		})
	}
}

func TestParseAlign(t *testing.T) {
	for _, in := range []string{"left", "CENTER", " right "} {
		if _, err := ParseAlign(in); err != nil {
			t.Errorf("ParseAlign(%q) failed: %v", in, err)
		}
	}
	if _, err := ParseAlign("justify"); err == nil {
		t.Error("ParseAlign(justify) should fail")
	}
}

func TestStyle_Colors(t *testing.T) {
	s := DefaultStyle()
	s.Color = "#ff0000"
	if got := s.FillColor(); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("FillColor = %v", got)
	}

	s.StrokeColor = "garbage"
	if got := s.OutlineColor(); got != color.White {
		t.Errorf("OutlineColor fallback = %v, want white", got)
	}
}
