package api

import "fmt"

// Error codes carried in the envelope. The mobile client treats any
// success=false body as a failure regardless of the code.
const (
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeMissingAPIKey      = "MISSING_API_KEY"
	CodeMissingStoreConfig = "MISSING_STORE_CONFIG"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNetworkError       = "OPENAI_NETWORK_ERROR"
	CodeAPIError           = "OPENAI_API_ERROR"
	CodeParseError         = "OPENAI_PARSE_ERROR"
	CodeTimeout            = "TIMEOUT"
	CodeUnexpected         = "UNEXPECTED_ERROR"
)

// Error is the error object of the response envelope.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// WithDetail returns a copy of e with key set in Details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

func NewError(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func NewMethodNotAllowedError(method string) *Error {
	return &Error{
		Code:    CodeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed, use POST", method),
	}
}

func NewBadRequestError(msg string) *Error {
	return &Error{Code: CodeBadRequest, Message: msg}
}

var (
	ErrMissingAPIKey      = &Error{Code: CodeMissingAPIKey, Message: "completion API key is not configured"}
	ErrMissingStoreConfig = &Error{Code: CodeMissingStoreConfig, Message: "conversation store is not configured"}
	ErrInvalidJSON        = &Error{Code: CodeInvalidJSON, Message: "request body is not valid JSON"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "missing or invalid access token"}
	ErrRateLimited        = &Error{Code: CodeRateLimited, Message: "too many requests, please slow down"}
	ErrUnexpected         = &Error{Code: CodeUnexpected, Message: "an unexpected error occurred"}
)
