package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
)

// Free service keys.
const (
	FreeGoogleGTX       = "google_gtx"
	FreeMyMemory        = "mymemory"
	FreeSimplyTranslate = "simplytranslate"
)

// DefaultFreeService is selected until the user picks another.
const DefaultFreeService = FreeGoogleGTX

// FreeServiceKeys lists the free services in menu order.
var FreeServiceKeys = []string{FreeGoogleGTX, FreeMyMemory, FreeSimplyTranslate}

// FreeService describes a keyless translation endpoint.
type FreeService struct {
	Key  string
	Name string
	URL  string
}

var freeServices = map[string]FreeService{
	FreeGoogleGTX: {
		Key:  FreeGoogleGTX,
		Name: "Google Translate (gtx)",
		URL:  "https://translate.googleapis.com/translate_a/single",
	},
	FreeMyMemory: {
		Key:  FreeMyMemory,
		Name: "MyMemory",
		URL:  "https://api.mymemory.translated.net/get",
	},
	FreeSimplyTranslate: {
		Key:  FreeSimplyTranslate,
		Name: "SimplyTranslate",
		URL:  "https://simplytranslate.org/api/translate/",
	},
}

// LookupFreeService returns the registered free service for key.
func LookupFreeService(key string) (FreeService, error) {
	s, ok := freeServices[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return FreeService{}, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
	}
	return s, nil
}

// Free translates with a keyless service.
type Free struct {
	service FreeService
	opts    Options
}

// NewFree returns a translator for s.
func NewFree(s FreeService, opts Options) *Free {
	return &Free{service: s, opts: opts.withDefaults()}
}

// sourceCode maps an OCR language to the two-letter codes the free services
// use. Unknown languages are auto-detected.
func sourceCode(lang ocr.Language) string {
	switch lang {
	case ocr.Japanese:
		return "ja"
	case ocr.English:
		return "en"
	case ocr.ChineseSimplified:
		return "zh-CN"
	case ocr.ChineseTraditional:
		return "zh-TW"
	case ocr.Korean:
		return "ko"
	}
	return "auto"
}

// Translate implements Translator.
func (f *Free) Translate(ctx context.Context, text string, source ocr.Language) (string, error) {
	var (
		out string
		err error
	)
	switch f.service.Key {
	case FreeGoogleGTX:
		out, err = f.gtx(ctx, text, sourceCode(source))
	case FreeMyMemory:
		out, err = f.myMemory(ctx, text, sourceCode(source))
	case FreeSimplyTranslate:
		out, err = f.simplyTranslate(ctx, text, sourceCode(source))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, f.service.Key)
	}
	if err != nil {
		return "", err
	}
	if out = strings.TrimSpace(out); out == "" {
		return "", emptyResponse(f.service.Key, "no translated text")
	}
	return out, nil
}

func (f *Free) get(ctx context.Context, q url.Values, out any) error {
	req, err := http.NewRequest(http.MethodGet, f.service.URL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	f.opts.Log.Debug("translating", "service", f.service.Key)
	return do(ctx, f.opts.Client, f.service.Key, req, out)
}

// gtx answers with nested arrays; the first element holds the translated
// segments, each segment's first element being its text.
func (f *Free) gtx(ctx context.Context, text, from string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from)
	q.Set("tl", f.opts.Target.Code)
	q.Set("dt", "t")
	q.Set("q", text)

	var data []json.RawMessage
	if err := f.get(ctx, q, &data); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(data[0], &segments); err != nil {
		// null when nothing was translated
		return "", nil
	}
	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(seg[0], &s); err == nil {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

func (f *Free) myMemory(ctx context.Context, text, from string) (string, error) {
	if from == "auto" {
		from = "aut"
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", from+"|"+f.opts.Target.Code)

	var resp struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  json.RawMessage `json:"responseStatus"`
		ResponseDetails string          `json:"responseDetails"`
	}
	if err := f.get(ctx, q, &resp); err != nil {
		return "", err
	}

	// MyMemory reports failures in the body with an HTTP 200.
	if status := flexInt(resp.ResponseStatus); status != http.StatusOK {
		msg := resp.ResponseDetails
		if msg == "" {
			msg = fmt.Sprintf("MyMemory error %d", status)
		}
		return "", &ProviderError{Provider: f.service.Key, Status: status, Kind: classify(status), Message: msg}
	}
	return resp.ResponseData.TranslatedText, nil
}

func (f *Free) simplyTranslate(ctx context.Context, text, from string) (string, error) {
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("from", from)
	q.Set("to", f.opts.Target.Code)
	q.Set("text", text)

	var resp struct {
		Underscore string `json:"translated_text"`
		Dash       string `json:"translated-text"`
	}
	if err := f.get(ctx, q, &resp); err != nil {
		return "", err
	}
	if resp.Underscore != "" {
		return resp.Underscore, nil
	}
	return resp.Dash, nil
}

// FallbackURL opens text in the Google Translate web page, for when every
// service fails.
func FallbackURL(text string, target Target) string {
	if target.Code == "" {
		target = DefaultTarget
	}
	q := url.Values{}
	q.Set("sl", "auto")
	q.Set("tl", target.Code)
	q.Set("text", text)
	q.Set("op", "translate")
	return "https://translate.google.com/?" + q.Encode()
}
