package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// snippetLen is how much of an unparsable body ends up in error messages.
const snippetLen = 200

// do sends req and decodes a JSON response into out.
//
// Non-2xx statuses, bodies that are not JSON and bodies carrying an "error"
// member all become *ProviderError. The error member is honoured even with a
// 200 status; some gateways report upstream failures that way.
func do(ctx context.Context, client *http.Client, provider string, req *http.Request, out any) error {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ProviderError{Provider: provider, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &ProviderError{Provider: provider, Status: resp.StatusCode, Kind: KindNetwork, Message: "failed to read response", Err: err}
	}
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if !json.Valid(body) {
		if !ok {
			return &ProviderError{Provider: provider, Status: resp.StatusCode, Kind: classify(resp.StatusCode), Message: snippet(body)}
		}
		return &ProviderError{Provider: provider, Kind: KindMalformed, Message: "invalid JSON response: " + snippet(body)}
	}

	msg, code := errorMember(body)
	if !ok {
		if msg == "" {
			msg = snippet(body)
		}
		return &ProviderError{Provider: provider, Status: resp.StatusCode, Kind: classify(resp.StatusCode), Message: msg}
	}
	if msg != "" {
		return &ProviderError{Provider: provider, Status: code, Kind: classify(code), Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Provider: provider, Kind: KindMalformed, Message: "unexpected response shape", Err: err}
	}
	return nil
}

// errorMember extracts {"error": ...} from an object body. The member may be
// a string or an object with message and code.
func errorMember(body []byte) (string, int) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", 0
	}

	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Error) == 0 || string(env.Error) == "null" {
		return "", 0
	}

	var s string
	if err := json.Unmarshal(env.Error, &s); err == nil {
		return s, 0
	}

	var obj struct {
		Message string          `json:"message"`
		Code    json.RawMessage `json:"code"`
	}
	if err := json.Unmarshal(env.Error, &obj); err != nil || obj.Message == "" {
		return string(env.Error), 0
	}
	return obj.Message, flexInt(obj.Code)
}

// flexInt reads a number that may be encoded as a JSON number or string.
func flexInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	return 0
}

func snippet(body []byte) string {
	r := []rune(string(bytes.TrimSpace(body)))
	if len(r) > snippetLen {
		r = r[:snippetLen]
	}
	return string(r)
}

func newJSONRequest(method, url string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// emptyResponse wraps ErrEmptyResponse with the provider and what was missing.
func emptyResponse(provider, what string) error {
	return fmt.Errorf("%s: %s: %w", provider, what, ErrEmptyResponse)
}
