// Package editor holds an overlay editing session: the loaded page, its
// boxes, the selection state machine, and the OCR and translation jobs that
// fill boxes with text.
//
// All state lives behind one mutex. OCR and translation run on their own
// goroutines and take the mutex again only to publish results, so a slow
// network call never blocks pointer handling or rendering.
package editor

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
	"github.com/ironsheep/manga-overlay-mcp/internal/imaging"
	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
	"github.com/ironsheep/manga-overlay-mcp/internal/render"
	"github.com/ironsheep/manga-overlay-mcp/internal/settings"
	"github.com/ironsheep/manga-overlay-mcp/internal/translate"
)

var (
	ErrNoImage     = errors.New("no image loaded")
	ErrNoActiveBox = errors.New("no box selected")
	ErrBoxNotFound = errors.New("box not found")
	ErrBoxBusy     = errors.New("a recognition or translation is already running for this box")
	ErrNoText      = errors.New("no original text to translate")
)

// Status is the user-facing outcome of the latest operation.
type Status struct {
	Text string `json:"text"`

	// Detail carries the remediation hint for failures.
	Detail string `json:"detail,omitempty"`
	Error  bool   `json:"error"`

	// Result holds a free translation made with no box selected.
	Result string `json:"result,omitempty"`

	// FallbackURL opens the text in a web translator after a free
	// translation failed.
	FallbackURL string `json:"fallback_url,omitempty"`
}

// Options wires an Editor to its collaborators.
type Options struct {
	Compositor *render.Compositor
	OCR        *ocr.Slot
	Settings   *settings.Store
	Catalog    *translate.Catalog

	HTTPClient *http.Client
	Target     translate.Target
	Log        *slog.Logger

	// Providers and FreeServices replace registered backends by key.
	Providers    map[string]translate.Provider
	FreeServices map[string]translate.FreeService
}

// Editor is one editing session. It is safe for concurrent use.
type Editor struct {
	mu sync.Mutex

	page   *imaging.Page
	boxes  *box.List
	active string
	style  box.Style

	mode    Mode
	originX float64
	originY float64
	drawing *box.Rect
	offsetX float64
	offsetY float64

	provider      string
	model         string
	apiKey        string
	freeService   string
	autoTranslate bool

	busy   map[string]bool
	status Status

	frame image.Image
	dirty bool

	compositor *render.Compositor
	ocr        *ocr.Slot
	settings   *settings.Store
	catalog    *translate.Catalog
	opts       Options
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	jobs   sync.WaitGroup
}

// New returns an editor with no page loaded. Provider, credential and
// auto-translate start from the saved settings.
func New(opts Options) *Editor {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Compositor == nil {
		opts.Compositor = render.NewCompositor(render.NewFontBook(opts.Log))
	}
	if opts.Catalog == nil {
		opts.Catalog = translate.NewCatalog(opts.HTTPClient, opts.Log)
	}
	saved := opts.Settings.Get()

	ctx, cancel := context.WithCancel(context.Background())
	return &Editor{
		boxes:         box.NewList(),
		style:         box.DefaultStyle(),
		provider:      saved.Provider,
		apiKey:        saved.APIKey,
		autoTranslate: saved.AutoTranslate,
		freeService:   translate.DefaultFreeService,
		busy:          make(map[string]bool),
		status:        Status{Text: "ready"},
		dirty:         true,
		compositor:    opts.Compositor,
		ocr:           opts.OCR,
		settings:      opts.Settings,
		catalog:       opts.Catalog,
		opts:          opts,
		log:           opts.Log,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// State is a snapshot of the session.
type State struct {
	Page          *imaging.PageInfo         `json:"page,omitempty"`
	Boxes         []box.Box                 `json:"boxes"`
	ActiveID      string                    `json:"active_id,omitempty"`
	Mode          string                    `json:"mode"`
	Drawing       *box.Rect                 `json:"drawing,omitempty"`
	Style         box.Style                 `json:"style"`
	OCRLanguage   ocr.Language              `json:"ocr_language"`
	Provider      string                    `json:"provider"`
	Model         string                    `json:"model,omitempty"`
	FreeService   string                    `json:"free_service"`
	Credential    settings.CredentialStatus `json:"credential"`
	AutoTranslate bool                      `json:"auto_translate"`
	Busy          []string                  `json:"busy,omitempty"`
	Status        Status                    `json:"status"`
	Fonts         []string                  `json:"fonts"`
}

// State returns a snapshot. Boxes are copies.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		Boxes:         e.boxes.Snapshot(),
		ActiveID:      e.active,
		Mode:          e.mode.String(),
		Style:         e.style,
		OCRLanguage:   e.ocr.Language(),
		Provider:      e.provider,
		Model:         e.model,
		FreeService:   e.freeService,
		Credential:    e.settings.CredentialStatus(e.apiKey),
		AutoTranslate: e.autoTranslate,
		Status:        e.status,
		Fonts:         e.compositor.Fonts().Families(),
	}
	if e.page != nil {
		info := e.page.Info
		s.Page = &info
	}
	if e.drawing != nil {
		r := *e.drawing
		s.Drawing = &r
	}
	for id := range e.busy {
		s.Busy = append(s.Busy, id)
	}
	sort.Strings(s.Busy)
	return s
}

// Status returns the latest status.
func (e *Editor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Box returns a copy of the box with id.
func (e *Editor) Box(id string) (box.Box, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.boxes.Get(id)
	if b == nil {
		return box.Box{}, ErrBoxNotFound
	}
	return *b, nil
}

// Wait blocks until every running job has finished or ctx is done.
func (e *Editor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels running jobs, waits for them and disposes the OCR engine.
func (e *Editor) Close() error {
	e.cancel()
	e.jobs.Wait()
	return e.ocr.Close()
}

func (e *Editor) setStatusLocked(s Status) {
	e.status = s
	if s.Error {
		e.log.Warn("status", "text", s.Text, "detail", s.Detail)
	} else {
		e.log.Debug("status", "text", s.Text)
	}
}

func (e *Editor) activeLocked() (*box.Box, error) {
	if e.active == "" {
		return nil, ErrNoActiveBox
	}
	b := e.boxes.Get(e.active)
	if b == nil {
		return nil, ErrNoActiveBox
	}
	return b, nil
}
