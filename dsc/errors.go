package dsc

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the response classes the API produces. Every error
// returned by a client call wraps exactly one of these when the failure
// maps to a known class, so errors.Is classifies across wrapping.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// ErrNoCredential is returned before any network I/O when an
// authenticated operation is attempted on a client constructed without
// a token. It matches ErrUnauthorized under errors.Is.
var ErrNoCredential = fmt.Errorf("%w: no credential configured", ErrUnauthorized)

// ErrBadLinkType is returned before any network I/O when a link is
// created with a type the API rejects. It matches ErrValidation.
var ErrBadLinkType = fmt.Errorf("%w: bad link type", ErrValidation)

// APIError carries the status and body of a failed API request.
type APIError struct {
	StatusCode int
	Message    string
	Body       string

	kind error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dsc.gg API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("dsc.gg API error: status %d", e.StatusCode)
}

// Unwrap exposes the class sentinel for the status code, if any.
func (e *APIError) Unwrap() error {
	return e.kind
}

// IsNotFound returns true if the error indicates a 404 response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error indicates an authentication
// or permission failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited returns true if the request exhausted a rate limit.
// Whitelisted apps get higher limits server-side; the client never
// retries on its own.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// statusError builds the typed error for a non-2xx response.
func statusError(status int, message, body string) error {
	apiErr := &APIError{
		StatusCode: status,
		Message:    message,
		Body:       body,
	}

	switch {
	case status == http.StatusBadRequest:
		apiErr.kind = ErrValidation
	case status == http.StatusUnauthorized:
		apiErr.kind = ErrUnauthorized
	case status == http.StatusForbidden:
		apiErr.kind = ErrForbidden
	case status == http.StatusNotFound:
		apiErr.kind = ErrNotFound
	case status == http.StatusConflict:
		apiErr.kind = ErrConflict
	case status >= 500:
		apiErr.kind = ErrServer
	}
	return apiErr
}
