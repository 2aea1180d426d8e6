package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// ErrNoAPIKey is returned when no API key is configured for a request
var ErrNoAPIKey = errors.New("no API key configured")

// Provider defines the interface an upstream chat completion API implements
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// BaseURL returns the provider's API root
	BaseURL() string

	// Complete sends one non-streaming completion request.
	// A non-2xx upstream answer is returned as *StatusError.
	Complete(ctx context.Context, req *types.CompletionRequest, opts *RequestOptions) (*types.CompletionResponse, error)
}

// RequestOptions carries per-request values that are not part of the body.
type RequestOptions struct {
	// APIKey is the bearer credential injected into the upstream call
	APIKey string

	// RequestID for tracing; forwarded as X-Request-ID
	RequestID string
}

// StatusError reports a non-success HTTP status from the upstream.
type StatusError struct {
	Provider   string
	StatusCode int

	// Message is error.message from the upstream body, empty when it had none
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// AsStatusError unwraps err into a *StatusError if it is one.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
