package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrProviderFailure is the kind of every error raised while talking to the provider.
var ErrProviderFailure = errors.New("provider failure")

// Error describes a failed provider lookup.
type Error struct {
	Lookup     string // competitions, matches or events
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: %s: status %d", e.Lookup, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Lookup, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProviderFailure) hold.
func (e *Error) Is(target error) bool { return target == ErrProviderFailure }

// Retryable reports whether repeating the lookup may succeed: transport
// failures, throttling and server errors.
func (e *Error) Retryable() bool {
	if e.StatusCode == 0 {
		return !errors.Is(e.Err, errDecode)
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

var errDecode = errors.New("decode response")

// AsError extracts a provider Error from err, or nil.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
