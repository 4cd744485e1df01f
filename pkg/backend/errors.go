package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig is returned when the client configuration is unusable
	ErrInvalidConfig = errors.New("invalid backend client config")

	// ErrBadRequest is returned for 400 responses (e.g. already in favorites)
	ErrBadRequest = errors.New("backend rejected request")

	// ErrUnauthorized is returned for 401 and 403 responses
	ErrUnauthorized = errors.New("backend unauthorized")

	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("backend resource not found")

	// ErrServer is returned for any other non-2xx response
	ErrServer = errors.New("backend server error")

	// ErrNetwork is returned when the backend could not be reached
	ErrNetwork = errors.New("backend network error")

	// ErrUnavailable is returned while the circuit breaker is open
	ErrUnavailable = errors.New("backend temporarily unavailable")
)

// APIError carries the status and the backend's detail message. It unwraps to
// one of the sentinel errors above.
type APIError struct {
	StatusCode int
	Detail     string
	kind       error
}

// NewAPIError classifies a non-2xx status.
func NewAPIError(status int, detail string) *APIError {
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status < 500:
		kind = ErrBadRequest
	default:
		kind = ErrServer
	}
	return &APIError{StatusCode: status, Detail: detail, kind: kind}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.kind, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.kind, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// Detail extracts the backend's human readable message, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// countsAsFailure reports whether err should trip the circuit breaker.
// Client errors are the caller's fault, not the backend's.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}
