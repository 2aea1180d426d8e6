// Package tokenizer estimates prompt tokens for upstream completion requests.
// The estimate is diagnostic only; clients always see the upstream's own usage.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Tokenizer estimates the prompt tokens of an upstream request.
type Tokenizer interface {
	CountRequest(req *types.CompletionRequest) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base"
	EncodingO200kBase  = "o200k_base"
)

// Chat framing costs, per OpenAI's token counting guide.
const (
	tokensPerMessage      = 3
	tokensPerMessageGPT35 = 4
	tokensPerName         = 1
	replyPrimingTokens    = 3
)

// Estimator counts prompt tokens for the one model the relay sends upstream.
// The encoding is loaded on first use; a failed load is retried next time.
type Estimator struct {
	encodingName string
	perMessage   int

	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// New creates an Estimator for model.
func New(model string) *Estimator {
	perMessage := tokensPerMessage
	if strings.HasPrefix(strings.ToLower(model), "gpt-3.5") {
		perMessage = tokensPerMessageGPT35
	}
	return &Estimator{
		encodingName: EncodingFor(model),
		perMessage:   perMessage,
	}
}

// EncodingFor returns the encoding of model's family. gpt-4o and later, and
// the o-series reasoning models, use o200k_base; everything else, including
// non-OpenAI models, is estimated with cl100k_base.
func EncodingFor(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gpt-4o"),
		strings.HasPrefix(m, "gpt-4.1"),
		strings.HasPrefix(m, "gpt-5"),
		strings.HasPrefix(m, "chatgpt-4o"),
		len(m) > 1 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9':
		return EncodingO200kBase
	default:
		return EncodingCL100kBase
	}
}

// CountRequest estimates the prompt tokens of req's messages. Elements that
// are not message objects contribute nothing; text content parts are counted.
func (e *Estimator) CountRequest(req *types.CompletionRequest) (int, error) {
	total := replyPrimingTokens
	for _, raw := range req.Messages {
		msg, ok := types.ParseMessage(raw)
		if !ok {
			continue
		}
		n, err := e.countMessage(msg)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (e *Estimator) countMessage(msg types.ChatMessage) (int, error) {
	total := e.perMessage

	texts := append([]string{msg.Role}, msg.TextSegments()...)
	if msg.Name != "" {
		texts = append(texts, msg.Name)
		total += tokensPerName
	}

	for _, text := range texts {
		n, err := e.countText(text)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// countText encodes text; empty text costs nothing and needs no encoding.
func (e *Estimator) countText(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	enc, err := e.encoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

func (e *Estimator) encoding() (*tiktoken.Tiktoken, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enc == nil {
		enc, err := tiktoken.GetEncoding(e.encodingName)
		if err != nil {
			return nil, err
		}
		e.enc = enc
	}
	return e.enc, nil
}
