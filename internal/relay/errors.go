package relay

import (
	"fmt"
	"net/http"
)

// Kind classifies why a relay request failed. Every kind is terminal for the
// request; none are retried.
type Kind int

const (
	KindMethodNotAllowed Kind = iota + 1
	KindInvalidInput
	KindConfiguration
	KindUpstreamAuth
	KindUpstreamRateLimited
	KindUpstream
	KindInternal
)

// Client-facing messages. None of them echo the credential.
const (
	MsgMethodNotAllowed = "method not allowed"
	MsgInvalidMessages  = "invalid messages format"
	MsgBodyTooLarge     = "request body too large"
	MsgNotConfigured    = "API key not configured. Set OPENAI_API_KEY in the server environment."
	MsgUpstreamAuth     = "invalid API key. Check the server's OPENAI_API_KEY configuration."
	MsgRateLimited      = "usage limit exceeded. Try again in a few moments."
	MsgUnknownUpstream  = "unknown error"

	// FallbackReply replaces an upstream success that carried no content.
	FallbackReply = "I could not generate a response."
)

var kindNames = map[Kind]string{
	KindMethodNotAllowed:    "method_not_allowed",
	KindInvalidInput:        "invalid_input",
	KindConfiguration:       "configuration_error",
	KindUpstreamAuth:        "upstream_auth_error",
	KindUpstreamRateLimited: "upstream_rate_limited",
	KindUpstream:            "upstream_error",
	KindInternal:            "internal_error",
}

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status returns the HTTP status code reported to the client for this kind.
// An upstream 401 is reported as 500: the fault is the operator's, not the caller's.
func (k Kind) Status() int {
	switch k {
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified relay failure.
type Error struct {
	Kind Kind

	// Message is returned to the client verbatim
	Message string

	// Err is the underlying cause, logged but not returned
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// internalError reports an unexpected fault, including its description.
func internalError(cause error) *Error {
	return newError(KindInternal, "internal server error: "+cause.Error(), cause)
}
