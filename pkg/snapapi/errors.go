package snapapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes produced locally by the client. Codes returned by the API are
// derived from the envelope's "error" field (see NormalizeCode), for example
// UNAUTHORIZED, VALIDATION_ERROR or RATE_LIMITED.
const (
	CodeInvalidParams   = "INVALID_PARAMS"
	CodeInvalidURL      = "INVALID_URL"
	CodeConnectionError = "CONNECTION_ERROR"
	CodeHTTPError       = "HTTP_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeDecodeError     = "DECODE_ERROR"
	CodeCanceled        = "CANCELED"

	CodeUnauthorized    = "UNAUTHORIZED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
)

// Error is returned by every Client operation that fails.
type Error struct {
	Code       string
	Message    string
	StatusCode int
	// Details carries the envelope's optional "details" array or object.
	Details *Value

	cause error
}

// Error renders "[CODE] message (HTTP status)".
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// Unwrap returns the transport, decode or context error, if any.
func (e *Error) Unwrap() error { return e.cause }

// IsRetryable reports whether repeating the same call may succeed.
// The client never retries on its own.
func (e *Error) IsRetryable() bool {
	if e == nil {
		return false
	}
	return e.Code == CodeRateLimited || e.Code == CodeTimeout || e.StatusCode >= 500
}

// IsRetryable reports whether err is a retryable *Error.
func IsRetryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	return false
}

// CodeOf returns the code of err when it is an *Error, or "" otherwise.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// NormalizeCode converts a reason phrase such as "Rate Limited" into RATE_LIMITED.
func NormalizeCode(reason string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(reason)), " ", "_")
}

func invalidParams(msg string) *Error {
	return &Error{Code: CodeInvalidParams, Message: msg, StatusCode: http.StatusBadRequest}
}

// errorEnvelope is the flat failure body: {"statusCode":401,"error":"Unauthorized","message":"..."}.
type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Details    *Value `json:"details,omitempty"`
}

// parseErrorResponse maps a failed response body onto an *Error. Bodies that are
// not a flat envelope (including the legacy nested {"error":{...}} form) fall
// back to HTTP_ERROR.
func parseErrorResponse(body []byte, statusCode int) *Error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || strings.TrimSpace(env.Error) == "" {
		return &Error{
			Code:       CodeHTTPError,
			Message:    fmt.Sprintf("HTTP %d", statusCode),
			StatusCode: statusCode,
		}
	}

	msg := strings.TrimSpace(env.Message)
	if msg == "" {
		msg = strings.TrimSpace(env.Error)
	}
	apiErr := &Error{
		Code:       NormalizeCode(env.Error),
		Message:    msg,
		StatusCode: statusCode,
	}
	if env.Details != nil && !env.Details.IsNull() {
		apiErr.Details = env.Details
	}
	return apiErr
}
