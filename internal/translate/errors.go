package translate

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyResponse means the service answered successfully but without
	// usable text.
	ErrEmptyResponse = errors.New("translation service returned no text")

	// ErrMissingCredential means a paid provider was used without an API key.
	ErrMissingCredential = errors.New("an API key is required for this provider")

	// ErrUnknownProvider means a provider or free service name is not registered.
	ErrUnknownProvider = errors.New("unknown translation provider")
)

// Kind classifies a provider failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthorized
	KindRateLimited
	KindNetwork
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed_response"
	}
	return "unknown"
}

func classify(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindUnknown
}

// ProviderError is a failed call to a translation service.
type ProviderError struct {
	// Provider is the provider or free service key.
	Provider string
	// Status is the HTTP status, or the code carried in an error body. Zero
	// when no response was received.
	Status  int
	Kind    Kind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: API error %d: %s", e.Provider, e.Status, e.Message)
	case e.Err != nil && e.Message == "":
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StatusText is a one-line summary for a status bar.
func (e *ProviderError) StatusText() string {
	switch e.Kind {
	case KindNotFound:
		return "model not found (404)"
	case KindBadRequest:
		return "bad request (400)"
	case KindUnauthorized:
		return fmt.Sprintf("unauthorized (%d): check the API key", e.Status)
	case KindRateLimited:
		return "quota exceeded (429)"
	case KindNetwork:
		return "connection failed (network)"
	case KindMalformed:
		return "invalid response from the service"
	}
	return "translation failed"
}

// Hint suggests what the user can do about the failure.
func (e *ProviderError) Hint() string {
	if _, free := freeServices[e.Provider]; free {
		return "Free services are often rate limited or blocked. Try another service or a paid provider."
	}
	if e.Kind == KindRateLimited {
		if e.Provider == ProviderGoogle {
			return "- Google Gemini quota exceeded for this model.\n" +
				"- Try a lighter model such as gemini-2.0-flash, which has a larger free quota.\n" +
				"- Or create a new API key."
		}
		return "- The API key is out of credit or over its daily quota.\n" +
			"- Try the Google Gemini provider, which has a generous free tier."
	}
	return "1. Check the internet connection.\n" +
		"2. Check that the API key is valid.\n" +
		"3. Check the status of the model."
}

// Describe turns any translation error into a status line and a hint.
func Describe(err error) (status, hint string) {
	var pe *ProviderError
	switch {
	case errors.As(err, &pe):
		return pe.StatusText(), pe.Hint()
	case errors.Is(err, ErrEmptyResponse):
		return "no translation returned", "The service answered without text. Try again or switch models."
	case errors.Is(err, ErrMissingCredential):
		return "API key required", "Save an API key for the provider, or use a free service."
	case errors.Is(err, ErrUnknownProvider):
		return "unknown provider", ""
	}
	return "translation failed", err.Error()
}
