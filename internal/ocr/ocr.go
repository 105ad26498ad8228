package ocr

import (
	"errors"
	"fmt"
	"image"
)

// Recognizer extracts text from an image.
//
// A Recognizer is used by one goroutine at a time.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
	Close() error
}

// Factory creates a recognizer for lang. It returns an *InitError when the
// engine cannot be started.
type Factory func(lang Language) (Recognizer, error)

// ErrClosed is returned by a Slot after Close.
var ErrClosed = errors.New("ocr: slot closed")

// InitError reports that a recognizer could not be created, typically
// because Tesseract or its language data is missing.
type InitError struct {
	Language Language
	Err      error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize OCR for %s: %v", e.Language.Name(), e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// RecognitionError reports a failure of a single recognition. The recognizer
// remains usable.
type RecognitionError struct {
	Err error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("text recognition failed: %v", e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
