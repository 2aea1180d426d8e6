package types

import (
	"encoding/json"
	"testing"
)

func TestChatRequest_MessageList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantLen int
	}{
		{"array of messages", `{"messages":[{"role":"user","content":"hi"}]}`, true, 1},
		{"empty array", `{"messages":[]}`, true, 0},
		{"mixed elements are kept", `{"messages":[{"role":"user","content":"hi"},42]}`, true, 2},
		{"missing field", `{}`, false, 0},
		{"null", `{"messages":null}`, false, 0},
		{"string", `{"messages":"hello"}`, false, 0},
		{"object", `{"messages":{"role":"user"}}`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ChatRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			msgs, ok := req.MessageList()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if len(msgs) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(msgs), tt.wantLen)
			}
		})
	}
}

func TestNewCompletionRequest_SendsAllParameters(t *testing.T) {
	msgs := []json.RawMessage{json.RawMessage(`{"role":"user","content":"hi"}`)}

	data, err := json.Marshal(NewCompletionRequest("gpt-4o-mini", msgs))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"model":             "gpt-4o-mini",
		"temperature":       0.7,
		"max_tokens":        float64(800),
		"top_p":             1.0,
		"frequency_penalty": 0.0,
		"presence_penalty":  0.0,
	}
	for key, v := range want {
		got, present := fields[key]
		if !present {
			t.Errorf("field %q missing from upstream body", key)
			continue
		}
		if got != v {
			t.Errorf("%s = %v, want %v", key, got, v)
		}
	}
}

func TestChatMessage_TextSegments(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
		want   []string
	}{
		{"string content", `{"role":"user","content":"hi"}`, true, []string{"hi"}},
		{"text parts", `{"role":"user","content":[{"type":"text","text":"look"},{"type":"image_url","image_url":{"url":"https://x/y.png"}},{"type":"text","text":"here"}]}`, true, []string{"look", "here"}},
		{"image only", `{"role":"user","content":[{"type":"image_url","image_url":{"url":"https://x/y.png"}}]}`, true, nil},
		{"null content", `{"role":"assistant","content":null}`, true, nil},
		{"missing content", `{"role":"assistant"}`, true, nil},
		{"numeric content", `{"role":"user","content":7}`, true, nil},
		{"not an object", `"just text"`, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := ParseMessage(json.RawMessage(tt.raw))
			if ok != tt.wantOK {
				t.Fatalf("ParseMessage() ok = %v, want %v", ok, tt.wantOK)
			}
			got := msg.TextSegments()
			if len(got) != len(tt.want) {
				t.Fatalf("TextSegments() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompletionResponse_FirstContent(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"first choice", `{"choices":[{"message":{"content":"hi"}},{"message":{"content":"other"}}]}`, "hi", true},
		{"no choices", `{}`, "", false},
		{"empty choices", `{"choices":[]}`, "", false},
		{"null content", `{"choices":[{"message":{"content":null}}]}`, "", false},
		{"missing content", `{"choices":[{"message":{"role":"assistant"}}]}`, "", false},
		{"array content", `{"choices":[{"message":{"content":[{"type":"text","text":"hi"}]}}]}`, "", false},
		{"numeric content", `{"choices":[{"message":{"content":42}}]}`, "", false},
		{"unread fields with unusual types", `{"id":17,"object":["x"],"created":1716000000.5,"model":null,"choices":[{"index":"0","finish_reason":3,"message":{"role":1,"content":"hi"}}]}`, "hi", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp CompletionResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, ok := resp.FirstContent()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FirstContent() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestChatResponse_JSONShape(t *testing.T) {
	success, _ := json.Marshal(NewChatSuccess("hi", Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5}))
	wantSuccess := `{"success":true,"message":"hi","usage":{"promptTokens":3,"completionTokens":2,"totalTokens":5}}`
	if string(success) != wantSuccess {
		t.Errorf("success JSON = %s, want %s", success, wantSuccess)
	}

	failure, _ := json.Marshal(NewChatFailure("method not allowed"))
	wantFailure := `{"success":false,"error":"method not allowed"}`
	if string(failure) != wantFailure {
		t.Errorf("failure JSON = %s, want %s", failure, wantFailure)
	}
}
