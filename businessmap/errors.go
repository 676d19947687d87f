package businessmap

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for client construction and API calls. Errors carrying
// additional detail wrap one of these, so callers can branch with
// errors.Is without parsing messages.
var (
	// ErrReadOnly is returned by mutations on a read-only instance, before
	// any request is sent.
	ErrReadOnly = errors.New("businessmap: instance is read-only")

	// ErrMissingBaseURL is returned when a client is built without an API URL.
	ErrMissingBaseURL = errors.New("businessmap: api url required")

	// ErrMissingToken is returned when a client is built without an API token.
	// A client is never constructed with empty credentials.
	ErrMissingToken = errors.New("businessmap: api token required")

	// ErrInvalidRequest is wrapped by request validation failures.
	ErrInvalidRequest = errors.New("businessmap: invalid request")

	// ErrAPI is wrapped by APIError for non-404 upstream failures.
	ErrAPI = errors.New("businessmap: api request failed")

	// ErrNotFound is wrapped by APIError when the upstream answers 404.
	ErrNotFound = errors.New("businessmap: not found")

	// ErrUpstreamUnavailable is returned when the breaker is open and
	// calls fail fast without reaching the upstream.
	ErrUpstreamUnavailable = errors.New("businessmap: upstream unavailable")

	// ErrNilManager is returned when a factory is built without an
	// instance manager.
	ErrNilManager = errors.New("businessmap: instance manager required")

	// ErrFactoryClosed is returned by ClientFor after Close.
	ErrFactoryClosed = errors.New("businessmap: factory closed")
)

// APIError is an upstream response with an error status.
type APIError struct {
	Operation string // e.g. "cards.list"
	Status    int    // HTTP status code
	Message   string // upstream error message, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: %s returned status %d", e.Unwrap(), e.Operation, e.Status)
	}
	return fmt.Sprintf("%v: %s returned status %d: %s", e.Unwrap(), e.Operation, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrAPI
}

// TransportError is a request that never produced an upstream response.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("businessmap: %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
