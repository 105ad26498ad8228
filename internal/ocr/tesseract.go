//go:build cgo

package ocr

import (
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/manga-overlay-mcp/internal/imaging"
)

// EngineConfig configures Tesseract engines.
type EngineConfig struct {
	// TessdataPrefix is the directory holding *.traineddata. Empty uses the
	// Tesseract default.
	TessdataPrefix string

	// Scale upscales crops before recognition; values <= 1 leave them as is.
	Scale float64
}

// Engine is a Tesseract client bound to one language. It is reused across
// recognitions and must be closed.
type Engine struct {
	client *gosseract.Client
	lang   Language
	scale  float64
}

// NewEngine starts Tesseract for lang. The language data is loaded eagerly so
// that a missing installation is reported here rather than on first use.
func NewEngine(cfg EngineConfig, lang Language) (*Engine, error) {
	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, &InitError{Language: lang, Err: err}
		}
	}
	if err := client.SetLanguage(string(lang)); err != nil {
		client.Close()
		return nil, &InitError{Language: lang, Err: err}
	}
	// Speech bubbles are a single block of text.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, &InitError{Language: lang, Err: err}
	}

	e := &Engine{client: client, lang: lang, scale: cfg.Scale}
	if err := e.warmUp(); err != nil {
		client.Close()
		return nil, &InitError{Language: lang, Err: err}
	}
	return e, nil
}

// NewFactory returns a Factory creating Tesseract engines.
func NewFactory(cfg EngineConfig) Factory {
	return func(lang Language) (Recognizer, error) {
		return NewEngine(cfg, lang)
	}
}

// warmUp runs one recognition on a blank tile; gosseract initializes the
// underlying TessBaseAPI lazily on the first call.
func (e *Engine) warmUp() error {
	tile := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range tile.Pix {
		tile.Pix[i] = 0xff
	}
	data, err := imaging.EncodePNG(tile)
	if err != nil {
		return err
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return err
	}
	_, err = e.client.Text()
	return err
}

// Recognize returns the text found in img.
func (e *Engine) Recognize(img image.Image) (string, error) {
	prepared := imaging.PrepareForOCR(img, e.scale)
	data, err := imaging.EncodePNG(prepared)
	if err != nil {
		return "", &RecognitionError{Err: err}
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return "", &RecognitionError{Err: fmt.Errorf("failed to set image: %w", err)}
	}
	text, err := e.client.Text()
	if err != nil {
		return "", &RecognitionError{Err: err}
	}
	return text, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
