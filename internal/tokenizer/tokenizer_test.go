package tokenizer

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// requireEncoding skips the test when tiktoken cannot load its BPE files
// (they are fetched on first use and may be unavailable offline).
func requireEncoding(t *testing.T, e *Estimator) {
	t.Helper()
	if _, err := e.encoding(); err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
}

func request(model string, messages ...string) *types.CompletionRequest {
	raw := make([]json.RawMessage, len(messages))
	for i, m := range messages {
		raw[i] = json.RawMessage(m)
	}
	return types.NewCompletionRequest(model, raw)
}

func TestEncodingFor(t *testing.T) {
	tests := []struct {
		model    string
		expected string
	}{
		{"gpt-4", EncodingCL100kBase},
		{"gpt-4-turbo", EncodingCL100kBase},
		{"gpt-3.5-turbo", EncodingCL100kBase},
		{"gpt-4o", EncodingO200kBase},
		{"gpt-4o-mini", EncodingO200kBase},
		{"GPT-4o-Mini", EncodingO200kBase},
		{"gpt-4.1-mini", EncodingO200kBase},
		{"gpt-5", EncodingO200kBase},
		{"o1-mini", EncodingO200kBase},
		{"o3", EncodingO200kBase},
		{"o4-mini", EncodingO200kBase},
		{"chatgpt-4o-latest", EncodingO200kBase},
		// Unknown models default to cl100k_base
		{"claude-3-opus", EncodingCL100kBase},
		{"mistral-7b", EncodingCL100kBase},
		{"omni-local", EncodingCL100kBase},
		{"", EncodingCL100kBase},
	}

	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			if got := EncodingFor(tc.model); got != tc.expected {
				t.Errorf("EncodingFor(%q) = %q, want %q", tc.model, got, tc.expected)
			}
		})
	}
}

func TestNew_PerMessageOverhead(t *testing.T) {
	if got := New("gpt-3.5-turbo").perMessage; got != tokensPerMessageGPT35 {
		t.Errorf("gpt-3.5 overhead = %d, want %d", got, tokensPerMessageGPT35)
	}
	if got := New("gpt-4o-mini").perMessage; got != tokensPerMessage {
		t.Errorf("gpt-4o-mini overhead = %d, want %d", got, tokensPerMessage)
	}
}

func TestCountRequest_WithoutText(t *testing.T) {
	e := New("gpt-4o-mini")

	tests := []struct {
		name     string
		messages []string
	}{
		{"no messages", nil},
		{"non-message elements", []string{`42`, `"text"`, `null`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			count, err := e.CountRequest(request("gpt-4o-mini", tc.messages...))
			if err != nil {
				t.Fatalf("CountRequest() error: %v", err)
			}
			if count != replyPrimingTokens {
				t.Errorf("CountRequest() = %d, want %d", count, replyPrimingTokens)
			}
		})
	}
}

func TestCountRequest(t *testing.T) {
	e := New("gpt-4")
	requireEncoding(t, e)

	tests := []struct {
		name     string
		messages []string
		minCount int
		maxCount int
	}{
		{
			name:     "single user message",
			messages: []string{`{"role":"user","content":"Hello!"}`},
			minCount: 5,
			maxCount: 10,
		},
		{
			name: "conversation with assistant",
			messages: []string{
				`{"role":"system","content":"You are helpful."}`,
				`{"role":"user","content":"Hi"}`,
				`{"role":"assistant","content":"Hello! How can I help?"}`,
				`{"role":"user","content":"What is 2+2?"}`,
			},
			minCount: 25,
			maxCount: 40,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			count, err := e.CountRequest(request("gpt-4", tc.messages...))
			if err != nil {
				t.Fatalf("CountRequest() error: %v", err)
			}
			if count < tc.minCount || count > tc.maxCount {
				t.Errorf("CountRequest() = %d, want between %d and %d",
					count, tc.minCount, tc.maxCount)
			}
		})
	}
}

func TestCountRequest_TextPartsCountLikeString(t *testing.T) {
	e := New("gpt-4o-mini")
	requireEncoding(t, e)

	asString, err := e.CountRequest(request("gpt-4o-mini",
		`{"role":"user","content":"Describe this picture in one sentence."}`))
	if err != nil {
		t.Fatalf("CountRequest() error: %v", err)
	}
	asParts, err := e.CountRequest(request("gpt-4o-mini",
		`{"role":"user","content":[{"type":"text","text":"Describe this picture in one sentence."},{"type":"image_url","image_url":{"url":"https://example.com/cat.png"}}]}`))
	if err != nil {
		t.Fatalf("CountRequest() error: %v", err)
	}

	if asParts != asString {
		t.Errorf("text parts counted %d, string content %d; want equal", asParts, asString)
	}
	if asParts <= replyPrimingTokens+tokensPerMessage {
		t.Errorf("text parts contributed nothing: %d", asParts)
	}
}

func TestCountRequest_NameAddsTokens(t *testing.T) {
	e := New("gpt-4o-mini")
	requireEncoding(t, e)

	without, _ := e.CountRequest(request("gpt-4o-mini", `{"role":"user","content":"hi"}`))
	with, _ := e.CountRequest(request("gpt-4o-mini", `{"role":"user","name":"alice","content":"hi"}`))

	if with <= without {
		t.Errorf("named message = %d tokens, unnamed = %d; want more for the name", with, without)
	}
}

func TestCountRequest_Concurrent(t *testing.T) {
	e := New("gpt-4o-mini")
	requireEncoding(t, e)

	req := request("gpt-4o-mini", `{"role":"user","content":"The quick brown fox jumps over the lazy dog."}`)
	want, err := e.CountRequest(req)
	if err != nil {
		t.Fatalf("CountRequest() error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := e.CountRequest(req); err != nil || got != want {
				t.Errorf("concurrent CountRequest() = %d, %v; want %d", got, err, want)
			}
		}()
	}
	wg.Wait()
}
