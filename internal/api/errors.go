// ABOUTME: Error taxonomy for Everlast API calls
// ABOUTME: Sentinel kinds plus APIError carrying the upstream message verbatim

package api

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers classify with errors.Is; the user-facing text
// comes from APIError.Message (upstream "message" field verbatim when present).
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrMissingToken       = errors.New("no access token in response")
	ErrRefreshFailed      = errors.New("token refresh failed")
	ErrIdentityFetch      = errors.New("identity fetch failed")
	ErrNoToken            = errors.New("no access token held")
	ErrNetwork            = errors.New("network error")
	ErrRequestFailed      = errors.New("request failed")
)

// APIError is a non-2xx response from the Everlast API, classified with a
// sentinel Kind and carrying the server-provided message (or a per-operation
// fallback) as its user-facing text.
type APIError struct {
	Kind    error
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the sentinel kind so errors.Is(err, api.ErrInvalidCredentials)
// matches while Message stays intact for display.
func (e *APIError) Unwrap() error { return e.Kind }

// httpError is the raw non-2xx result before per-operation classification.
type httpError struct {
	status  int
	message string // upstream message field, may be empty
}

func (e *httpError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("status %d: %s", e.status, e.message)
	}
	return fmt.Sprintf("status %d", e.status)
}

// classify turns a transport-level error into the operation's taxonomy:
// non-2xx responses become an APIError with the given kind and the upstream
// message (falling back to the supplied text); everything else is wrapped as a
// network error.
func classify(err error, kind error, fallback string) error {
	var he *httpError
	if errors.As(err, &he) {
		msg := he.message
		if msg == "" {
			msg = fallback
		}
		return &APIError{Kind: kind, Status: he.status, Message: msg}
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// Message extracts user-facing error text: the upstream message when the error
// is an APIError, otherwise the fallback. Guards never display this directly;
// forms and flash notifications do.
func Message(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
