// Package apperr defines the error taxonomy shared by every handler and
// service: each kind maps to exactly one HTTP status and all of them render
// as {"success":false,"error":...} JSON.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// KindValidation covers malformed input: phone, OTP, email, payloads.
	KindValidation Kind = iota
	// KindAuth covers bad credentials and expired or mismatched sessions.
	KindAuth
	// KindNotFound covers unknown principals and resources.
	KindNotFound
	// KindRateLimit covers throttled requests; carries a retry-after hint.
	KindRateLimit
	// KindConflict covers duplicate state transitions, e.g. a second pending
	// deletion request.
	KindConflict
	// KindUpstream covers failed collaborator calls (SMS, media). Not retried
	// by this layer.
	KindUpstream
)

// Error is the application error type. Message is safe to return to clients;
// the wrapped cause is for logs only.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter int // seconds, rate-limit only
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a 400 error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth builds a 401 error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// RateLimited builds a 429 error carrying the retry-after hint in seconds.
func RateLimited(message string, retryAfter int) *Error {
	return &Error{Kind: KindRateLimit, Message: message, RetryAfter: retryAfter}
}

// Conflict builds a 409 error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upstream builds a 500 error wrapping the collaborator failure. The cause is
// never serialized to the client.
func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, cause: cause}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
