package editor

import (
	"fmt"
	"image"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
	"github.com/ironsheep/manga-overlay-mcp/internal/detection"
	"github.com/ironsheep/manga-overlay-mcp/internal/imaging"
	"github.com/ironsheep/manga-overlay-mcp/internal/render"
)

// LoadImage decodes the file at path and makes it the page. Existing boxes
// and the selection are discarded; the current style is kept.
func (e *Editor) LoadImage(path string) (imaging.PageInfo, error) {
	page, err := imaging.Load(path)
	if err != nil {
		return imaging.PageInfo{}, err
	}
	e.SetPage(page)
	return page.Info, nil
}

// SetPage replaces the page with an already decoded one.
func (e *Editor) SetPage(page *imaging.Page) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.page = page
	e.boxes.Clear()
	e.active = ""
	e.mode = Idle
	e.drawing = nil
	e.dirty = true
	e.setStatusLocked(Status{Text: "image loaded"})
	e.log.Info("page loaded", "path", page.Info.Path, "width", page.Info.Width, "height", page.Info.Height)
}

func (e *Editor) sceneLocked(decorated bool) render.Scene {
	s := render.Scene{Boxes: e.boxes.Snapshot()}
	if e.page != nil {
		s.Base = e.page.Image
	}
	if decorated {
		s.ActiveID = e.active
		if e.drawing != nil {
			r := *e.drawing
			s.Drawing = &r
		}
	}
	return s
}

// Frame returns the editing view: the page with every box, the highlight on
// the active box and the selection being drawn. It re-renders only after
// the state changed.
func (e *Editor) Frame() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dirty || e.frame == nil {
		e.frame = e.compositor.Render(e.sceneLocked(true))
		e.dirty = false
	}
	return e.frame
}

// Export renders the page with every box but no editing decorations. A
// non-empty path also writes the result, with the format taken from the
// extension.
func (e *Editor) Export(path string) (image.Image, error) {
	e.mu.Lock()
	if e.page == nil {
		e.mu.Unlock()
		return nil, ErrNoImage
	}
	img := e.compositor.Render(e.sceneLocked(false))
	e.mu.Unlock()

	if path != "" {
		if err := imaging.Save(img, path); err != nil {
			return nil, err
		}
		e.log.Info("page exported", "path", path)
	}
	return img, nil
}

// CropBox returns the page pixels under the box with id.
func (e *Editor) CropBox(id string) (image.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return nil, ErrNoImage
	}
	b := e.boxes.Get(id)
	if b == nil {
		return nil, ErrBoxNotFound
	}
	crop := e.cropLocked(b.Rect)
	if crop == nil {
		return nil, fmt.Errorf("box %s lies outside the page", id)
	}
	return crop, nil
}

// cropLocked returns nil for a region that misses the page.
func (e *Editor) cropLocked(r box.Rect) image.Image {
	crop := imaging.CropRegion(e.page.Image, imaging.PixelRect(r.X, r.Y, r.W, r.H))
	if crop == nil {
		return nil
	}
	return crop
}

// SampleColor reports the page colour at (x, y), ignoring overlays.
func (e *Editor) SampleColor(x, y int) (*imaging.ColorResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return nil, ErrNoImage
	}
	return imaging.SampleColor(e.page.Image, x, y)
}

// DetectTextRegions suggests areas of the page that look like lettering.
// Nothing is created; callers draw boxes over the regions they want.
func (e *Editor) DetectTextRegions(minConfidence float64) ([]detection.Region, error) {
	e.mu.Lock()
	page := e.page
	e.mu.Unlock()

	if page == nil {
		return nil, ErrNoImage
	}
	regions := detection.TextRegions(page.Image, minConfidence)
	e.log.Debug("text regions detected", "count", len(regions), "min_confidence", minConfidence)
	return regions, nil
}
