package types

import "encoding/json"

// CompletionResponse is the part of a chat completion response the relay reads.
// Other fields vary between compatible servers and are left undecoded.
type CompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message ReplyMessage `json:"message"`
}

// ReplyMessage is an assistant message. Content stays raw because some servers
// send null or an array of parts instead of a string.
type ReplyMessage struct {
	Content json.RawMessage `json:"content"`
}

// Usage represents token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstContent returns the first choice's message content.
// ok is false when there are no choices or the content is not a non-empty string.
func (r *CompletionResponse) FirstContent() (content string, ok bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	if err := json.Unmarshal(r.Choices[0].Message.Content, &content); err != nil {
		return "", false
	}
	return content, content != ""
}

// UsageOrZero returns the usage block, or all-zero counters when absent.
func (r *CompletionResponse) UsageOrZero() Usage {
	if r.Usage == nil {
		return Usage{}
	}
	return *r.Usage
}
