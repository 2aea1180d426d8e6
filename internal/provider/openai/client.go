// Package openai implements the OpenAI chat completions provider. It also
// works against any server exposing the same /chat/completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// maxErrorBody caps how much of an upstream error body is read.
const maxErrorBody = 64 << 10

var _ provider.Provider = (*Client)(nil)

// Client implements provider.Provider for OpenAI-compatible APIs.
// The API key is supplied per request via RequestOptions, not stored here.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the API rooted at baseURL (e.g. https://api.openai.com/v1).
// Every call is bounded by timeout; no retries are made.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "openai"
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Complete posts req to /chat/completions and decodes the answer.
func (c *Client) Complete(ctx context.Context, req *types.CompletionRequest, opts *provider.RequestOptions) (*types.CompletionResponse, error) {
	if opts == nil || opts.APIKey == "" {
		return nil, provider.ErrNoAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+opts.APIKey)
	if opts.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", opts.RequestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.StatusError{
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(resp.Body),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var completion types.CompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &completion, nil
}

// extractErrorMessage returns error.message from an OpenAI-style error body,
// or "" if the body is not one.
func extractErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var apiErr types.APIError
	if err := json.Unmarshal(data, &apiErr); err != nil {
		return ""
	}
	return apiErr.Error.Message
}
