// Package types provides the wire types exchanged with clients and with the
// OpenAI-compatible upstream.
package types

import "encoding/json"

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentTypeText marks a text part in an array-valued content.
const ContentTypeText = "text"

// ChatMessage is one turn of a conversation. The relay forwards callers'
// messages as raw JSON; ChatMessage is only a read-side view of one.
type ChatMessage struct {
	Role    string          `json:"role"`
	Name    string          `json:"name,omitempty"`
	Content json.RawMessage `json:"content"`
}

// ContentPart is one element of an array-valued content.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ParseMessage decodes a raw message. ok is false when raw is not a JSON object.
func ParseMessage(raw json.RawMessage) (msg ChatMessage, ok bool) {
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ChatMessage{}, false
	}
	return msg, true
}

// TextSegments returns the message's text: the content itself when it is a
// string, or the text of each text part when it is an array. Non-text parts
// and other content shapes contribute nothing.
func (m ChatMessage) TextSegments() []string {
	var text string
	if err := json.Unmarshal(m.Content, &text); err == nil {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var parts []ContentPart
	if err := json.Unmarshal(m.Content, &parts); err != nil {
		return nil
	}
	var out []string
	for _, p := range parts {
		if p.Type == ContentTypeText && p.Text != "" {
			out = append(out, p.Text)
		}
	}
	return out
}
