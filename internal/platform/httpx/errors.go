package httpx

import (
	"fmt"
	"net/http"
)

// Error is the application error type returned by services and handlers.
// Status drives the HTTP response code; Kind is a stable machine-readable
// category for clients.
type Error struct {
	Status     int
	Kind       string
	Message    string
	Fields     map[string]string
	RetryAfter int
	err        error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Unauthorized signals a missing or invalid bearer credential.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Kind: "authentication", Message: msg}
}

// Forbidden signals a valid identity with insufficient capability.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Kind: "authorization", Message: msg}
}

// NotFound signals an absent entity. Only returned after access has
// resolved, so it never leaks existence to unauthorized callers.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Kind: "not_found", Message: msg}
}

// Invalid signals a malformed request body or parameter. Fields carries
// per-field detail.
func Invalid(msg string, fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Kind: "validation", Message: msg, Fields: fields}
}

// Duplicate signals a write rejected by a uniqueness rule.
func Duplicate(msg string) *Error {
	return &Error{Status: http.StatusConflict, Kind: "duplicate", Message: msg}
}

// RateLimited signals the caller exceeded the request budget.
// retryAfter is seconds until the next request may succeed.
func RateLimited(retryAfter int) *Error {
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &Error{
		Status:     http.StatusTooManyRequests,
		Kind:       "rate_limit",
		Message:    "rate limit exceeded",
		RetryAfter: retryAfter,
	}
}

// Internal wraps an unexpected upstream or server failure. The wrapped
// error is logged server-side and suppressed from production responses.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Kind: "internal", Message: "internal server error", err: err}
}
