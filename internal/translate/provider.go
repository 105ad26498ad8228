package translate

import (
	"fmt"
	"strings"
)

// Request formats understood by paid providers.
type Format string

const (
	// FormatChat is the OpenAI chat completions format.
	FormatChat Format = "openai"
	// FormatGemini is Google's generateContent format.
	FormatGemini Format = "google"
)

// Provider keys.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGoogle     = "google"
	ProviderDeepSeek   = "deepseek"
	ProviderOpenAI     = "openai"
)

// DefaultProvider is selected until the user picks another.
const DefaultProvider = ProviderOpenRouter

// Model is a selectable model.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider describes a paid translation backend.
type Provider struct {
	Key    string
	Name   string
	URL    string
	Format Format

	// KeyHint shows what an API key for this provider looks like.
	KeyHint string

	// Models is the fixed model list. Empty when the list is fetched from
	// ModelsURL.
	Models    []Model
	ModelsURL string

	// Fallback is used when fetching the model list fails.
	Fallback []Model

	// Headers are sent with every request.
	Headers map[string]string
}

// ProviderKeys lists the paid providers in menu order.
var ProviderKeys = []string{ProviderOpenRouter, ProviderGoogle, ProviderDeepSeek, ProviderOpenAI}

var providers = map[string]Provider{
	ProviderOpenRouter: {
		Key:       ProviderOpenRouter,
		Name:      "OpenRouter",
		URL:       "https://openrouter.ai/api/v1/chat/completions",
		Format:    FormatChat,
		KeyHint:   "sk-or-...",
		ModelsURL: "https://openrouter.ai/api/v1/models",
		Fallback: []Model{
			{ID: "google/gemini-2.0-flash-exp:free", Name: "Gemini 2.0 Flash Exp (Free)"},
			{ID: "google/gemini-2.0-pro-exp-02-05:free", Name: "Gemini 2.0 Pro Exp (Free)"},
			{ID: "meta-llama/llama-3.2-3b-instruct:free", Name: "Llama 3.2 3B (Free)"},
		},
		Headers: map[string]string{
			"HTTP-Referer": "https://manga-tool.local",
			"X-Title":      "Manga Translation Tool",
		},
	},
	ProviderGoogle: {
		Key:     ProviderGoogle,
		Name:    "Google Gemini",
		URL:     "https://generativelanguage.googleapis.com/v1beta/models/",
		Format:  FormatGemini,
		KeyHint: "AIzaSy...",
		Models: []Model{
			{ID: "gemini-2.5-flash-lite", Name: "Gemini 2.5 Flash (Latest)"},
			{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash (Stable)"},
			{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash"},
		},
	},
	ProviderDeepSeek: {
		Key:     ProviderDeepSeek,
		Name:    "DeepSeek",
		URL:     "https://api.deepseek.com/chat/completions",
		Format:  FormatChat,
		KeyHint: "sk-...",
		Models: []Model{
			{ID: "deepseek-chat", Name: "DeepSeek Chat (V3)"},
			{ID: "deepseek-reasoner", Name: "DeepSeek Reasoner (R1)"},
		},
	},
	ProviderOpenAI: {
		Key:     ProviderOpenAI,
		Name:    "OpenAI",
		URL:     "https://api.openai.com/v1/chat/completions",
		Format:  FormatChat,
		KeyHint: "sk-...",
		Models: []Model{
			{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
			{ID: "gpt-4o", Name: "GPT-4o"},
			{ID: "gpt-4o-mini", Name: "GPT-4o Mini"},
		},
	},
}

// LookupProvider returns the registered provider for key.
func LookupProvider(key string) (Provider, error) {
	p, ok := providers[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
	}
	return p, nil
}

// NewPaid returns a translator for provider p using model and apiKey.
// An empty model selects the provider's first fixed model.
func NewPaid(p Provider, apiKey, model string, opts Options) (Translator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if model == "" && len(p.Models) > 0 {
		model = p.Models[0].ID
	}
	if model == "" {
		return nil, fmt.Errorf("%s: no model selected", p.Key)
	}

	opts = opts.withDefaults()
	if p.Key == ProviderOpenRouter && !strings.HasPrefix(apiKey, "sk-or-") {
		opts.Log.Warn("OpenRouter keys normally start with sk-or-", "key", maskKey(apiKey))
	}

	switch p.Format {
	case FormatChat:
		return &Chat{provider: p, apiKey: apiKey, model: model, opts: opts}, nil
	case FormatGemini:
		return &Gemini{provider: p, apiKey: apiKey, model: model, opts: opts}, nil
	}
	return nil, fmt.Errorf("%s: unsupported request format %q", p.Key, p.Format)
}
