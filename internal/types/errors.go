package types

// APIError represents an OpenAI-compatible error response body.
type APIError struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
// Code is a string on OpenAI and a number on some compatible servers.
type ErrorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param,omitempty"`
	Code    any     `json:"code,omitempty"`
}
