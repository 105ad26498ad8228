package box

// List holds boxes in insertion order. Later boxes are drawn on top of
// earlier ones, so hit testing walks the list backwards.
//
// List is not safe for concurrent use; the editor guards it.
type List struct {
	boxes []*Box
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Add appends b as the topmost box.
func (l *List) Add(b *Box) {
	l.boxes = append(l.boxes, b)
}

// Get returns the box with the given id, or nil.
func (l *List) Get(id string) *Box {
	for _, b := range l.boxes {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Remove deletes the box with the given id and reports whether it existed.
func (l *List) Remove(id string) bool {
	for i, b := range l.boxes {
		if b.ID == id {
			l.boxes = append(l.boxes[:i], l.boxes[i+1:]...)
			return true
		}
	}
	return false
}

// HitTest returns the topmost box containing (x, y), or nil.
func (l *List) HitTest(x, y float64) *Box {
	for i := len(l.boxes) - 1; i >= 0; i-- {
		if l.boxes[i].Contains(x, y) {
			return l.boxes[i]
		}
	}
	return nil
}

// Clear removes every box.
func (l *List) Clear() {
	l.boxes = nil
}

// Len returns the number of boxes.
func (l *List) Len() int {
	return len(l.boxes)
}

// All returns the live boxes in insertion order. Callers must not retain the
// slice across mutations.
func (l *List) All() []*Box {
	return l.boxes
}

// Snapshot returns deep copies of every box in insertion order.
func (l *List) Snapshot() []Box {
	out := make([]Box, len(l.boxes))
	for i, b := range l.boxes {
		out[i] = *b
	}
	return out
}
