package itinerary

import (
	"errors"
	"fmt"
)

// ErrAPIKeyMissing signals that the completion API credential was not
// configured; it maps to a configuration error at the handler.
var ErrAPIKeyMissing = errors.New("completion API key is not configured")

// InputError is a client-input error, reported before any network call.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// UpstreamError is a transport-level failure talking to the completion API.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("completion API call failed: %v", e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError is an upstream-payload error: the model's reply was not valid
// JSON. Raw carries a truncated copy of the offending text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("failed to parse itinerary JSON: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
