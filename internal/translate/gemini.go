package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
)

// Gemini talks to Google's generateContent endpoint.
type Gemini struct {
	provider Provider
	apiKey   string
	model    string
	opts     Options
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction geminiContent   `json:"systemInstruction"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

// Translate implements Translator.
func (g *Gemini) Translate(ctx context.Context, text string, source ocr.Language) (string, error) {
	payload := geminiRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: text}}}},
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: Prompt(source, g.opts.Target)}}},
	}
	endpoint := g.provider.URL + url.PathEscape(g.model) + ":generateContent"

	req, err := newJSONRequest(http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	for k, v := range g.provider.Headers {
		req.Header.Set(k, v)
	}

	g.opts.Log.Debug("translating", "provider", g.provider.Key, "model", g.model, "key", maskKey(g.apiKey))

	var resp geminiResponse
	if err := do(ctx, g.opts.Client, g.provider.Key, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", emptyResponse(g.provider.Key, "no candidates in response")
	}
	out := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if out == "" {
		return "", emptyResponse(g.provider.Key, "empty candidate")
	}
	return out, nil
}

// String identifies the backend in logs.
func (g *Gemini) String() string {
	return fmt.Sprintf("%s/%s", g.provider.Key, g.model)
}
