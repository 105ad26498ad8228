package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/manga-overlay-mcp/internal/box"
	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
	"github.com/ironsheep/manga-overlay-mcp/internal/translate"
)

// paidJob is what a paid translation needs, captured under the lock.
type paidJob struct {
	provider translate.Provider
	apiKey   string
	model    string
}

func (e *Editor) lookupProvider(key string) (translate.Provider, error) {
	if p, ok := e.opts.Providers[key]; ok {
		return p, nil
	}
	return translate.LookupProvider(key)
}

func (e *Editor) lookupFreeService(key string) (translate.FreeService, error) {
	if s, ok := e.opts.FreeServices[key]; ok {
		return s, nil
	}
	return translate.LookupFreeService(key)
}

func (e *Editor) translateOptions() translate.Options {
	return translate.Options{Client: e.opts.HTTPClient, Target: e.opts.Target, Log: e.log}
}

// paidJobLocked fails fast on a missing credential so callers learn about
// it before anything runs in the background.
func (e *Editor) paidJobLocked() (paidJob, error) {
	p, err := e.lookupProvider(e.provider)
	if err != nil {
		return paidJob{}, err
	}
	if strings.TrimSpace(e.apiKey) == "" {
		return paidJob{}, fmt.Errorf("%w for %s", translate.ErrMissingCredential, p.Name)
	}
	return paidJob{provider: p, apiKey: e.apiKey, model: e.model}, nil
}

// startJobLocked marks id busy and runs fn on its own goroutine.
func (e *Editor) startJobLocked(id string, fn func()) error {
	if e.busy[id] {
		return ErrBoxBusy
	}
	e.busy[id] = true
	e.jobs.Add(1)
	go func() {
		defer e.jobs.Done()
		fn()
	}()
	return nil
}

func (e *Editor) finishJobLocked(id string) {
	delete(e.busy, id)
}

// Recognize runs OCR on the box with id, or on the active box when id is
// empty. It returns once the job has started.
func (e *Editor) Recognize(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page == nil {
		return ErrNoImage
	}
	b, err := e.targetLocked(id)
	if err != nil {
		return err
	}
	return e.startOCRLocked(b)
}

func (e *Editor) targetLocked(id string) (*box.Box, error) {
	if id == "" {
		return e.activeLocked()
	}
	b := e.boxes.Get(id)
	if b == nil {
		return nil, ErrBoxNotFound
	}
	return b, nil
}

func (e *Editor) startOCRLocked(b *box.Box) error {
	crop := e.cropLocked(b.Rect)
	id := b.ID
	err := e.startJobLocked(id, func() { e.runOCR(id, crop) })
	if err != nil {
		return err
	}
	e.setStatusLocked(Status{Text: fmt.Sprintf("scanning (%s)...", e.ocr.Language().Name())})
	return nil
}

func (e *Editor) runOCR(id string, crop image.Image) {
	text, source, err := e.ocr.RecognizeLanguage(e.ctx, crop)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.finishJobLocked(id)
		e.setStatusLocked(ocrFailure(err))
		return
	}
	b := e.boxes.Get(id)
	if b == nil {
		e.finishJobLocked(id)
		e.setStatusLocked(Status{Text: "OCR result discarded: box was deleted"})
		e.log.Info("recognition result dropped, box is gone", "id", id)
		return
	}
	b.Original = text
	e.log.Info("text recognized", "id", id, "chars", len([]rune(text)))

	if text == "" {
		e.finishJobLocked(id)
		e.setStatusLocked(Status{Text: "OCR done: no text found"})
		return
	}
	if !e.autoTranslate {
		e.finishJobLocked(id)
		e.setStatusLocked(Status{Text: "OCR done, waiting for manual translation"})
		return
	}

	job, err := e.paidJobLocked()
	if err != nil {
		e.finishJobLocked(id)
		e.setStatusLocked(translateFailure(err, ""))
		return
	}
	e.setStatusLocked(Status{Text: "OCR done, translating..."})

	// The box stays busy while the chained translation runs.
	e.mu.Unlock()
	translated, err := e.runPaid(job, text, source)
	e.mu.Lock()

	e.publishLocked(id, translated, err, "translation done", "")
}

func ocrFailure(err error) Status {
	var ie *ocr.InitError
	if errors.As(err, &ie) {
		return Status{
			Text:   "OCR engine failed to start",
			Detail: fmt.Sprintf("%v. Check that tesseract and the %s language data are installed.", ie.Err, ie.Language),
			Error:  true,
		}
	}
	if errors.Is(err, context.Canceled) {
		return Status{Text: "OCR cancelled", Error: true}
	}
	return Status{Text: "OCR failed", Detail: err.Error(), Error: true}
}

func translateFailure(err error, fallbackURL string) Status {
	text, hint := translate.Describe(err)
	return Status{Text: text, Detail: hint, Error: true, FallbackURL: fallbackURL}
}

func (e *Editor) runPaid(job paidJob, text string, source ocr.Language) (string, error) {
	if job.model == "" {
		job.model = e.catalog.DefaultModel(e.ctx, job.provider)
	}
	tr, err := translate.NewPaid(job.provider, job.apiKey, job.model, e.translateOptions())
	if err != nil {
		return "", err
	}
	out, err := tr.Translate(e.ctx, translate.SingleLine(text), source)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// publishLocked stores a translation result and releases the box. Results
// for boxes deleted in the meantime are dropped.
func (e *Editor) publishLocked(id, translated string, err error, done, fallbackURL string) {
	e.finishJobLocked(id)
	if err != nil {
		e.setStatusLocked(translateFailure(err, fallbackURL))
		return
	}
	b := e.boxes.Get(id)
	if b == nil {
		e.setStatusLocked(Status{Text: "translation discarded: box was deleted"})
		e.log.Info("translation result dropped, box is gone", "id", id)
		return
	}
	b.Translated = translated
	e.dirty = true
	e.setStatusLocked(Status{Text: done})
}

// Translate sends the original text of the active box to the selected paid
// provider. It returns once the job has started; a missing credential or
// empty text is reported immediately.
func (e *Editor) Translate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.activeLocked()
	if err != nil {
		return err
	}
	if strings.TrimSpace(b.Original) == "" {
		return ErrNoText
	}
	job, err := e.paidJobLocked()
	if err != nil {
		e.setStatusLocked(translateFailure(err, ""))
		return err
	}

	id, text, source := b.ID, b.Original, e.ocr.Language()
	err = e.startJobLocked(id, func() {
		translated, err := e.runPaid(job, text, source)
		e.mu.Lock()
		defer e.mu.Unlock()
		e.publishLocked(id, translated, err, "translation done", "")
	})
	if err != nil {
		return err
	}
	e.setStatusLocked(Status{Text: fmt.Sprintf("translating with %s...", job.provider.Name)})
	return nil
}

// TranslateFree translates with the selected free service. With a box
// selected its original text is used and the result goes into the box;
// otherwise text is translated and the result is reported in the status.
func (e *Editor) TranslateFree(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	svc, err := e.lookupFreeService(e.freeService)
	if err != nil {
		return err
	}

	id := ""
	if b, err := e.activeLocked(); err == nil {
		id, text = b.ID, b.Original
	}
	if strings.TrimSpace(text) == "" {
		return ErrNoText
	}

	source := e.ocr.Language()
	target := e.opts.Target
	tr := translate.NewFree(svc, e.translateOptions())

	// Free translations without a box share the empty id, one at a time.
	err = e.startJobLocked(id, func() {
		out, err := tr.Translate(e.ctx, translate.SingleLine(text), source)
		out = strings.TrimSpace(out)

		e.mu.Lock()
		defer e.mu.Unlock()

		fallback := ""
		if err != nil {
			fallback = translate.FallbackURL(text, target)
		}
		if id == "" {
			e.finishJobLocked(id)
			if err != nil {
				e.setStatusLocked(translateFailure(err, fallback))
				return
			}
			e.setStatusLocked(Status{Text: "free translation done", Result: out})
			return
		}
		e.publishLocked(id, out, err, "free translation done", fallback)
	})
	if err != nil {
		return err
	}
	e.setStatusLocked(Status{Text: fmt.Sprintf("translating with %s...", svc.Name)})
	return nil
}

// SetOCRLanguage switches the recognition language. The engine is rebuilt
// right away, after any running recognition has finished.
func (e *Editor) SetOCRLanguage(lang ocr.Language) error {
	e.mu.Lock()
	e.setStatusLocked(Status{Text: fmt.Sprintf("loading OCR model (%s)...", lang.Name())})
	e.mu.Unlock()

	err := e.ocr.Replace(lang)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.setStatusLocked(ocrFailure(err))
		return err
	}
	e.setStatusLocked(Status{Text: fmt.Sprintf("OCR ready (%s)", lang.Name())})
	return nil
}

// SetProvider selects a paid provider and model. An empty model picks the
// provider's first model.
func (e *Editor) SetProvider(key, model string) (string, error) {
	p, err := e.lookupProvider(key)
	if err != nil {
		return "", err
	}
	if model == "" {
		model = e.catalog.DefaultModel(e.ctx, p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.provider = p.Key
	e.model = model
	e.log.Info("provider selected", "provider", p.Key, "model", model)
	return model, nil
}

// SetModel selects a model of the current provider.
func (e *Editor) SetModel(model string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.model = strings.TrimSpace(model)
}

// SetFreeService selects the free translation service.
func (e *Editor) SetFreeService(key string) error {
	svc, err := e.lookupFreeService(key)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.freeService = svc.Key
	return nil
}

// ListModels returns the models of the provider with key, or of the current
// provider when key is empty.
func (e *Editor) ListModels(ctx context.Context, key string) ([]translate.Model, error) {
	if key == "" {
		e.mu.Lock()
		key = e.provider
		e.mu.Unlock()
	}
	p, err := e.lookupProvider(key)
	if err != nil {
		return nil, err
	}
	return e.catalog.Models(ctx, p), nil
}

// SetCredential sets the API key for this session. With persist set, the
// key and the current provider are also saved; an empty key then removes
// the saved one.
func (e *Editor) SetCredential(key string, persist bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.apiKey = strings.TrimSpace(key)
	if !persist {
		return nil
	}
	if err := e.settings.SaveCredential(e.provider, e.apiKey); err != nil {
		e.setStatusLocked(Status{Text: "could not save settings", Detail: err.Error(), Error: true})
		return err
	}
	e.setStatusLocked(Status{Text: "settings saved"})
	return nil
}

// SetAutoTranslate turns translation after recognition on or off and saves
// the choice.
func (e *Editor) SetAutoTranslate(on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.autoTranslate = on
	return e.settings.SetAutoTranslate(on)
}
