// Package translate sends recognized text to translation services.
//
// Two tiers exist. Paid providers (OpenRouter, Google Gemini, DeepSeek,
// OpenAI) are large language models driven by a system prompt and need an
// API key. Free services (Google's gtx endpoint, MyMemory, SimplyTranslate)
// are plain machine translation and need no key.
//
// Every backend implements Translator. Failures are reported as
// *ProviderError, classified so callers can show a short status and a
// remediation hint, or as ErrEmptyResponse when the service answered without
// usable text.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
)

// Translator turns source-language text into the target language.
type Translator interface {
	Translate(ctx context.Context, text string, source ocr.Language) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, text string, source ocr.Language) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, text string, source ocr.Language) (string, error) {
	return f(ctx, text, source)
}

// Target is the language translations are produced in.
type Target struct {
	// Code is the ISO 639-1 code used by the free services.
	Code string
	// Name is the English language name used in prompts.
	Name string
}

// DefaultTarget is Thai.
var DefaultTarget = Target{Code: "th", Name: "Thai"}

// DefaultTimeout bounds a single request when Options.Client is nil.
const DefaultTimeout = 60 * time.Second

// Options are shared by all backends.
type Options struct {
	Client *http.Client
	Target Target
	Log    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Client == nil {
		o.Client = &http.Client{Timeout: DefaultTimeout}
	}
	if o.Target.Code == "" {
		o.Target = DefaultTarget
	}
	if o.Target.Name == "" {
		o.Target.Name = o.Target.Code
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	return o
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// SingleLine joins the lines of OCR output with spaces. Speech bubbles break
// lines for layout, not meaning, and services translate whole sentences
// better.
func SingleLine(text string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(text, " "))
}

// Prompt is the system prompt for model-based providers.
func Prompt(source ocr.Language, target Target) string {
	return fmt.Sprintf(
		"You are an expert manga translator. Translate the text from %s into %s. "+
			"Keep the context and each character's tone of voice. "+
			"Answer with the translation only, short, concise and easy to read.",
		source.Name(), target.Name,
	)
}

// maskKey keeps enough of a credential to tell keys apart in logs.
func maskKey(key string) string {
	if len(key) <= 5 {
		return "***"
	}
	return key[:5] + "..."
}
