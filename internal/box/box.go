// Package box models the translatable regions of a page: their geometry,
// their text, and the typography used to draw that text.
package box

import (
	"github.com/google/uuid"
)

// MinSize is the smallest width or height, in image pixels, a new selection
// may have. Smaller selections are dropped without notice.
const MinSize = 10.0

// Rect is an axis-aligned rectangle in image pixel space.
//
// While a selection is being drawn W and H may be negative; call Normalize
// before treating the rectangle as a region.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Normalize returns r with non-negative width and height, shifting the origin
// corner by any negative extent.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// TooSmall reports whether a normalized rectangle is below MinSize on either axis.
func (r Rect) TooSmall() bool {
	return r.W < MinSize || r.H < MinSize
}

// Contains reports whether (x, y) lies inside r. Edges are inclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Box is a translatable region over the loaded page.
type Box struct {
	ID string `json:"id"`
	Rect

	// Original is the source-language text (recognized or typed).
	Original string `json:"original"`

	// Translated is the target-language text drawn onto the page.
	Translated string `json:"translated"`

	Style Style `json:"style"`

	// Patch fills the rectangle white before drawing text, hiding the
	// original lettering.
	Patch bool `json:"patch"`
}

// New creates a box over r (normalized) with a copy of style, patching
// enabled and empty text.
func New(r Rect, style Style) *Box {
	return &Box{
		ID:    NewID(),
		Rect:  r.Normalize(),
		Style: style,
		Patch: true,
	}
}

// NewID returns a fresh time-ordered box identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// MoveTo sets the top-left corner of the box.
func (b *Box) MoveTo(x, y float64) {
	b.X = x
	b.Y = y
}

// HasText reports whether the box has translated text to draw.
func (b *Box) HasText() bool {
	return b.Translated != ""
}
