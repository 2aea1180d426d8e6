package types

import "encoding/json"

// Fixed generation parameters sent with every upstream request.
const (
	DefaultTemperature      = 0.7
	DefaultMaxTokens        = 800
	DefaultTopP             = 1.0
	DefaultFrequencyPenalty = 0.0
	DefaultPresencePenalty  = 0.0
)

// CompletionRequest is the body POSTed to the upstream chat completions endpoint.
// No field is omitempty: zero penalties are sent explicitly.
type CompletionRequest struct {
	Model            string            `json:"model"`
	Messages         []json.RawMessage `json:"messages"`
	Temperature      float64           `json:"temperature"`
	MaxTokens        int               `json:"max_tokens"`
	TopP             float64           `json:"top_p"`
	FrequencyPenalty float64           `json:"frequency_penalty"`
	PresencePenalty  float64           `json:"presence_penalty"`
}

// NewCompletionRequest builds an upstream request with the fixed generation
// parameters and the caller's messages untouched.
func NewCompletionRequest(model string, messages []json.RawMessage) *CompletionRequest {
	return &CompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
	}
}
