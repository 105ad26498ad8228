package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ironsheep/manga-overlay-mcp/internal/ocr"
)

// Chat talks to OpenAI-compatible chat completion endpoints.
type Chat struct {
	provider Provider
	apiKey   string
	model    string
	opts     Options
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate implements Translator.
func (c *Chat) Translate(ctx context.Context, text string, source ocr.Language) (string, error) {
	prompt := Prompt(source, c.opts.Target)

	var messages []chatMessage
	if strings.Contains(c.model, "gemma") {
		// Gemma endpoints reject the system role.
		messages = []chatMessage{{Role: "user", Content: prompt + "\n\n" + text}}
	} else {
		messages = []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		}
	}

	req, err := newJSONRequest(http.MethodPost, c.provider.URL, chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.provider.Headers {
		req.Header.Set(k, v)
	}

	c.opts.Log.Debug("translating", "provider", c.provider.Key, "model", c.model, "key", maskKey(c.apiKey))

	var resp chatResponse
	if err := do(ctx, c.opts.Client, c.provider.Key, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", emptyResponse(c.provider.Key, "no choices in response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", emptyResponse(c.provider.Key, "empty message")
	}
	return out, nil
}

// String identifies the backend in logs.
func (c *Chat) String() string {
	return fmt.Sprintf("%s/%s", c.provider.Key, c.model)
}
