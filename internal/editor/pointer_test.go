package editor

import (
	"errors"
	"testing"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

func TestPointer_DrawCreatesBox(t *testing.T) {
	e := newEditor(t, &fakeOCR{text: "こんにちは"}, Options{})

	res, err := e.PointerDown(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != "drawing" || res.ActiveID != "" {
		t.Fatalf("after down: %+v", res)
	}
	if _, err := e.PointerMove(60, 30); err != nil {
		t.Fatal(err)
	}
	if d := e.State().Drawing; d == nil || d.W != 50 || d.H != 20 {
		t.Errorf("drawing rect = %+v, want 50x20", d)
	}

	res, err = e.PointerUp(110, 50)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created == "" || res.ActiveID != res.Created || res.Mode != "idle" {
		t.Fatalf("after up: %+v", res)
	}
	wait(t, e.Editor)

	b := mustBox(t, e.Editor, res.Created)
	if b.Rect != (box.Rect{X: 10, Y: 10, W: 100, H: 40}) {
		t.Errorf("rect = %+v", b.Rect)
	}
	if !b.Patch {
		t.Error("new box should patch")
	}
	if b.Original != "こんにちは" {
		t.Errorf("Original = %q", b.Original)
	}
	if b.Style != e.State().Style {
		t.Error("box style is not a copy of the current style")
	}
	if got := e.Status().Text; got != "OCR done, waiting for manual translation" {
		t.Errorf("status = %q", got)
	}
	if e.State().Drawing != nil {
		t.Error("drawing rect left behind")
	}
}

func TestPointer_DrawUpAndLeft(t *testing.T) {
	e := newEditor(t, nil, Options{})

	id := draw(t, e.Editor, box.Rect{X: 110, Y: 50, W: -100, H: -40})
	if got := mustBox(t, e.Editor, id).Rect; got != (box.Rect{X: 10, Y: 10, W: 100, H: 40}) {
		t.Errorf("rect = %+v, want normalized", got)
	}
}

func TestPointer_TinySelectionDiscarded(t *testing.T) {
	tests := []struct {
		name string
		r    box.Rect
	}{
		{"narrow", box.Rect{X: 10, Y: 10, W: 9, H: 50}},
		{"short", box.Rect{X: 10, Y: 10, W: 50, H: 9}},
		{"click", box.Rect{X: 10, Y: 10}},
		{"negative narrow", box.Rect{X: 60, Y: 60, W: -5, H: -30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor(t, nil, Options{})
			res, err := e.DrawBox(tt.r)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Discarded || res.Created != "" {
				t.Errorf("result = %+v, want discarded", res)
			}
			s := e.State()
			if len(s.Boxes) != 0 || s.ActiveID != "" {
				t.Errorf("state after tiny selection: %+v", s)
			}
			if e.ocr.callCount() != 0 {
				t.Error("recognition ran for a discarded selection")
			}
		})
	}
}

func TestPointer_DragMovesBox(t *testing.T) {
	e := newEditor(t, nil, Options{})
	id := draw(t, e.Editor, box.Rect{X: 10, Y: 10, W: 100, H: 40})
	if err := e.SelectBox(""); err != nil {
		t.Fatal(err)
	}

	res, err := e.PointerDown(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != "dragging" || res.ActiveID != id {
		t.Fatalf("press on box: %+v", res)
	}
	if _, err := e.PointerMove(40, 50); err != nil {
		t.Fatal(err)
	}
	if got := mustBox(t, e.Editor, id).Rect; got.X != 30 || got.Y != 40 {
		t.Errorf("mid-drag position = (%v,%v), want (30,40)", got.X, got.Y)
	}
	if _, err := e.PointerUp(60, 70); err != nil {
		t.Fatal(err)
	}

	got := mustBox(t, e.Editor, id).Rect
	if got != (box.Rect{X: 50, Y: 60, W: 100, H: 40}) {
		t.Errorf("rect after drag = %+v", got)
	}
	if e.State().Mode != "idle" {
		t.Error("still dragging after release")
	}
	if n := len(e.State().Boxes); n != 1 {
		t.Errorf("drag created boxes: %d", n)
	}
}

func TestPointer_PressOnEmptyClearsSelection(t *testing.T) {
	e := newEditor(t, nil, Options{})
	draw(t, e.Editor, box.Rect{X: 10, Y: 10, W: 100, H: 40})

	res, err := e.PointerDown(150, 150)
	if err != nil {
		t.Fatal(err)
	}
	if res.ActiveID != "" || res.Mode != "drawing" {
		t.Errorf("press outside: %+v", res)
	}
}

func TestPointer_TopmostBoxWins(t *testing.T) {
	e := newEditor(t, nil, Options{})
	draw(t, e.Editor, box.Rect{X: 10, Y: 10, W: 100, H: 100})
	top := draw(t, e.Editor, box.Rect{X: 50, Y: 50, W: 100, H: 100})

	res, err := e.PointerDown(75, 75)
	if err != nil {
		t.Fatal(err)
	}
	if res.ActiveID != top {
		t.Errorf("selected %q, want the later box %q", res.ActiveID, top)
	}
}

func TestPointer_NoImage(t *testing.T) {
	e := newEditor(t, nil, Options{})
	e.Clear(true)

	if _, err := e.PointerDown(1, 1); !errors.Is(err, ErrNoImage) {
		t.Errorf("PointerDown error = %v", err)
	}
	if _, err := e.PointerMove(1, 1); !errors.Is(err, ErrNoImage) {
		t.Errorf("PointerMove error = %v", err)
	}
	if _, err := e.PointerUp(1, 1); !errors.Is(err, ErrNoImage) {
		t.Errorf("PointerUp error = %v", err)
	}
	if _, err := e.DrawBox(box.Rect{W: 50, H: 50}); !errors.Is(err, ErrNoImage) {
		t.Errorf("DrawBox error = %v", err)
	}
}

func TestPointer_MoveWhileIdle(t *testing.T) {
	e := newEditor(t, nil, Options{})
	id := draw(t, e.Editor, box.Rect{X: 10, Y: 10, W: 100, H: 40})
	before := mustBox(t, e.Editor, id)

	if _, err := e.PointerMove(150, 150); err != nil {
		t.Fatal(err)
	}
	if mustBox(t, e.Editor, id) != before {
		t.Error("idle move changed a box")
	}
}

func TestHover(t *testing.T) {
	e := newEditor(t, nil, Options{})
	draw(t, e.Editor, box.Rect{X: 10, Y: 10, W: 100, H: 40})

	if got := e.Hover(20, 20); got != CursorMove {
		t.Errorf("over box = %q", got)
	}
	if got := e.Hover(150, 150); got != CursorDefault {
		t.Errorf("over page = %q", got)
	}
	if _, err := e.PointerDown(150, 150); err != nil {
		t.Fatal(err)
	}
	if got := e.Hover(20, 20); got != CursorCrosshair {
		t.Errorf("while drawing = %q", got)
	}
}

func TestDrawBox_OverExistingBox(t *testing.T) {
	e := newEditor(t, nil, Options{})
	first := draw(t, e.Editor, box.Rect{X: 10, Y: 10, W: 100, H: 100})
	second := draw(t, e.Editor, box.Rect{X: 20, Y: 20, W: 40, H: 40})

	if first == second {
		t.Fatal("same id for two boxes")
	}
	if n := len(e.State().Boxes); n != 2 {
		t.Errorf("boxes = %d, want 2", n)
	}
	if got := mustBox(t, e.Editor, first).Rect; got.X != 10 {
		t.Error("DrawBox dragged the box underneath")
	}
}
