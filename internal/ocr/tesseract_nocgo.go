//go:build !cgo

package ocr

import "errors"

// EngineConfig configures Tesseract engines.
type EngineConfig struct {
	TessdataPrefix string
	Scale          float64
}

var errNoCgo = errors.New("built without cgo; Tesseract is unavailable")

// NewFactory returns a Factory whose recognizers always fail to initialize.
func NewFactory(cfg EngineConfig) Factory {
	return func(lang Language) (Recognizer, error) {
		return nil, &InitError{Language: lang, Err: errNoCgo}
	}
}

// Version reports that no engine is linked.
func Version() string {
	return "unavailable (no cgo)"
}
