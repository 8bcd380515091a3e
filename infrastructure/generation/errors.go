package generation

import (
	"errors"
	"fmt"
)

// ErrGeneration tags every provider failure. The orchestrator treats
// these as retryable up to its configured attempt count.
var ErrGeneration = errors.New("generation failed")

// Error wraps a provider failure with its origin.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return ErrGeneration }

// Cause returns the underlying provider error.
func (e *Error) Cause() error { return e.Err }

// APIError is a structured error returned by a provider API.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Type + ": " + e.Message + " (" + e.Code + ")"
	}
	return e.Type + ": " + e.Message
}
