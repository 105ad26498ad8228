package editor

import (
	"github.com/ironsheep/manga-overlay-mcp/internal/box"
)

func (e *Editor) selectLocked(b *box.Box) {
	e.active = b.ID
	e.style = b.Style
	e.dirty = true
}

// SelectBox makes id the active box and adopts its style as the current
// style. An empty id clears the selection.
func (e *Editor) SelectBox(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" {
		e.active = ""
		e.dirty = true
		return nil
	}
	b := e.boxes.Get(id)
	if b == nil {
		return ErrBoxNotFound
	}
	e.selectLocked(b)
	return nil
}

// SetStyle changes one field of the current style and mirrors it into the
// active box. Other fields of the box keep their values.
func (e *Editor) SetStyle(field, value string) (box.Style, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.style
	if err := next.Set(field, value); err != nil {
		return e.style, err
	}
	e.style = next
	if b, err := e.activeLocked(); err == nil {
		b.Style.Copy(field, e.style)
		e.dirty = true
	}
	return e.style, nil
}

// ToggleBold flips bold in the current style and mirrors it into the
// active box.
func (e *Editor) ToggleBold() box.Style {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.style.Bold = !e.style.Bold
	if b, err := e.activeLocked(); err == nil {
		b.Style.Bold = e.style.Bold
		e.dirty = true
	}
	return e.style
}

// ToggleItalic flips italic in the current style and mirrors it into the
// active box.
func (e *Editor) ToggleItalic() box.Style {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.style.Italic = !e.style.Italic
	if b, err := e.activeLocked(); err == nil {
		b.Style.Italic = e.style.Italic
		e.dirty = true
	}
	return e.style
}

// SetAlign sets the alignment of the current style and the active box.
func (e *Editor) SetAlign(a box.Align) box.Style {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.style.Align = a
	if b, err := e.activeLocked(); err == nil {
		b.Style.Align = a
		e.dirty = true
	}
	return e.style
}

// SetText replaces the text of the active box. Nil arguments leave the
// corresponding text untouched.
func (e *Editor) SetText(original, translated *string) (box.Box, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.activeLocked()
	if err != nil {
		return box.Box{}, err
	}
	if original != nil {
		b.Original = *original
	}
	if translated != nil {
		b.Translated = *translated
		e.dirty = true
	}
	return *b, nil
}

// SetPatch turns the white background of the active box on or off.
func (e *Editor) SetPatch(on bool) (box.Box, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.activeLocked()
	if err != nil {
		return box.Box{}, err
	}
	b.Patch = on
	e.dirty = true
	return *b, nil
}

// Delete removes the box with id, or the active box when id is empty.
// Deleting the active box clears the selection.
func (e *Editor) Delete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" {
		if e.active == "" {
			return ErrNoActiveBox
		}
		id = e.active
	}
	if !e.boxes.Remove(id) {
		return ErrBoxNotFound
	}
	if id == e.active {
		e.active = ""
		if e.mode == Dragging {
			e.mode = Idle
		}
	}
	e.dirty = true
	e.log.Info("box deleted", "id", id)
	return nil
}

// Clear removes every box and the selection. The page stays loaded unless
// unload is set, in which case the placeholder is shown again.
func (e *Editor) Clear(unload bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.boxes.Clear()
	e.active = ""
	e.mode = Idle
	e.drawing = nil
	if unload {
		e.page = nil
	}
	e.dirty = true
	e.log.Info("canvas cleared", "unload", unload)
}
