package editor

import (
	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

// Mode is the pointer interaction state.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Drawing:
		return "drawing"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Cursor hints returned by Hover.
const (
	CursorDefault   = "default"
	CursorMove      = "move"
	CursorCrosshair = "crosshair"
)

// PointerResult reports what a pointer event did.
type PointerResult struct {
	Mode     string `json:"mode"`
	ActiveID string `json:"active_id,omitempty"`

	// Created is set when releasing the pointer produced a new box.
	Created string `json:"created,omitempty"`

	// Discarded is set when a finished selection was too small to keep.
	Discarded bool `json:"discarded,omitempty"`
}

func (e *Editor) resultLocked() PointerResult {
	return PointerResult{Mode: e.mode.String(), ActiveID: e.active}
}

// PointerDown starts an interaction at image coordinates (x, y). Pressing
// over a box selects it and starts dragging; pressing elsewhere clears the
// selection and starts drawing a new region.
func (e *Editor) PointerDown(x, y float64) (PointerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return PointerResult{}, ErrNoImage
	}

	if b := e.boxes.HitTest(x, y); b != nil {
		e.selectLocked(b)
		e.mode = Dragging
		e.offsetX = x - b.X
		e.offsetY = y - b.Y
		e.drawing = nil
		e.dirty = true
		return e.resultLocked(), nil
	}

	e.beginDrawLocked(x, y)
	return e.resultLocked(), nil
}

func (e *Editor) beginDrawLocked(x, y float64) {
	e.active = ""
	e.mode = Drawing
	e.originX, e.originY = x, y
	e.drawing = &box.Rect{X: x, Y: y}
	e.dirty = true
}

// PointerMove updates the current interaction. Outside an interaction it
// does nothing.
func (e *Editor) PointerMove(x, y float64) (PointerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return PointerResult{}, ErrNoImage
	}
	e.moveLocked(x, y)
	return e.resultLocked(), nil
}

func (e *Editor) moveLocked(x, y float64) {
	switch e.mode {
	case Dragging:
		if b := e.boxes.Get(e.active); b != nil {
			b.MoveTo(x-e.offsetX, y-e.offsetY)
			e.dirty = true
		}
	case Drawing:
		e.drawing.W = x - e.originX
		e.drawing.H = y - e.originY
		e.dirty = true
	}
}

// PointerUp ends the interaction at (x, y). A drawn selection of at least
// box.MinSize on both axes becomes a new, selected box with a copy of the
// current style, and recognition starts on it.
func (e *Editor) PointerUp(x, y float64) (PointerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return PointerResult{}, ErrNoImage
	}
	return e.releaseLocked(x, y), nil
}

func (e *Editor) releaseLocked(x, y float64) PointerResult {
	e.moveLocked(x, y)

	switch e.mode {
	case Dragging:
		e.mode = Idle
		return e.resultLocked()

	case Drawing:
		r := e.drawing.Normalize()
		e.mode = Idle
		e.drawing = nil
		e.dirty = true

		if r.TooSmall() {
			e.log.Debug("selection discarded", "w", r.W, "h", r.H)
			res := e.resultLocked()
			res.Discarded = true
			return res
		}

		b := box.New(r, e.style)
		e.boxes.Add(b)
		e.selectLocked(b)
		e.log.Info("box created", "id", b.ID, "x", r.X, "y", r.Y, "w", r.W, "h", r.H)

		if err := e.startOCRLocked(b); err != nil {
			e.log.Warn("recognition not started", "id", b.ID, "error", err)
		}
		res := e.resultLocked()
		res.Created = b.ID
		return res
	}
	return e.resultLocked()
}

// Hover returns the cursor for (x, y) without changing any state.
func (e *Editor) Hover(x, y float64) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.mode == Drawing:
		return CursorCrosshair
	case e.mode == Dragging:
		return CursorMove
	case e.page != nil && e.boxes.HitTest(x, y) != nil:
		return CursorMove
	default:
		return CursorDefault
	}
}

// DrawBox creates a box over r as if it had been drawn with the pointer,
// even where r starts on top of an existing box.
func (e *Editor) DrawBox(r box.Rect) (PointerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return PointerResult{}, ErrNoImage
	}
	e.beginDrawLocked(r.X, r.Y)
	return e.releaseLocked(r.X+r.W, r.Y+r.H), nil
}
