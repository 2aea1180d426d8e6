package types

import "encoding/json"

// ChatRequest is the client's request body: {"messages": [...]}.
// Messages stays raw so the relay can tell a missing field from a non-array
// one, and forward each element untouched.
type ChatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// MessageList decodes Messages as a JSON array.
// ok is false when the field is absent, null, or not an array.
func (r *ChatRequest) MessageList() (messages []json.RawMessage, ok bool) {
	if len(r.Messages) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(r.Messages, &messages); err != nil || messages == nil {
		return nil, false
	}
	return messages, true
}

// ChatResponse is the normalized body returned to the client.
// At most one of Message and Error is set.
type ChatResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Usage   *TokenUsage `json:"usage,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TokenUsage is the client-facing token usage block.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// NewChatSuccess builds a successful response from the assistant's reply and upstream usage.
func NewChatSuccess(message string, usage Usage) *ChatResponse {
	return &ChatResponse{
		Success: true,
		Message: message,
		Usage: &TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
	}
}

// NewChatFailure builds a failed response carrying a human-readable error.
func NewChatFailure(message string) *ChatResponse {
	return &ChatResponse{
		Success: false,
		Error:   message,
	}
}
