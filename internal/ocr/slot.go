package ocr

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// Slot owns at most one live recognizer.
//
// Recognize and Replace are serialized: a language switch waits for an
// in-flight recognition, then closes the old recognizer before the new one is
// created. There is never more than one recognizer alive.
type Slot struct {
	mu      sync.Mutex
	factory Factory
	rec     Recognizer
	closed  bool
	lang    atomic.Value // Language
	log     *slog.Logger
}

// NewSlot returns an empty slot. The recognizer is created on first use.
func NewSlot(factory Factory, lang Language, log *slog.Logger) *Slot {
	if log == nil {
		log = slog.Default()
	}
	s := &Slot{factory: factory, log: log}
	s.lang.Store(lang)
	return s
}

// Language returns the language recognitions use. It does not block on a
// running recognition.
func (s *Slot) Language() Language {
	return s.lang.Load().(Language)
}

// Ready reports whether a recognizer is currently alive.
func (s *Slot) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec != nil
}

// Recognize returns the trimmed text in img. An empty image yields "" without
// starting the engine.
func (s *Slot) Recognize(ctx context.Context, img image.Image) (string, error) {
	text, _, err := s.RecognizeLanguage(ctx, img)
	return text, err
}

// RecognizeLanguage is Recognize that also reports the language of the
// recognizer that read img. A Replace racing with the call cannot change it.
func (s *Slot) RecognizeLanguage(ctx context.Context, img image.Image) (string, Language, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lang := s.Language()
	if img == nil || img.Bounds().Empty() {
		return "", lang, nil
	}
	if err := ctx.Err(); err != nil {
		return "", lang, err
	}
	rec, err := s.acquireLocked()
	if err != nil {
		return "", lang, err
	}

	text, err := rec.Recognize(img)
	if err != nil {
		var re *RecognitionError
		if !errors.As(err, &re) {
			err = &RecognitionError{Err: err}
		}
		return "", lang, err
	}
	return strings.TrimSpace(text), lang, nil
}

// Replace switches to lang. The current recognizer, if any, is closed first;
// the new one is created immediately so initialization errors surface here.
// After a failed Replace the slot is empty and the next Recognize retries.
func (s *Slot) Replace(lang Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.disposeLocked()
	s.lang.Store(lang)
	_, err := s.acquireLocked()
	return err
}

// Close disposes the recognizer. The slot cannot be used afterwards.
func (s *Slot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.disposeLocked()
}

func (s *Slot) acquireLocked() (Recognizer, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.rec != nil {
		return s.rec, nil
	}

	lang := s.Language()
	rec, err := s.factory(lang)
	if err != nil {
		var ie *InitError
		if !errors.As(err, &ie) {
			err = &InitError{Language: lang, Err: err}
		}
		return nil, err
	}
	s.log.Debug("ocr engine ready", "language", lang)
	s.rec = rec
	return rec, nil
}

func (s *Slot) disposeLocked() error {
	if s.rec == nil {
		return nil
	}
	err := s.rec.Close()
	s.rec = nil
	if err != nil {
		s.log.Warn("failed to close ocr engine", "error", err)
	}
	return err
}
