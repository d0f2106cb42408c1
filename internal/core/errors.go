package core

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrValidation    = errors.New("validation failed")
	ErrRequestFailed = errors.New("request failed")
	ErrState         = errors.New("invalid state")
	ErrRunInProgress = errors.New("a cleaning run is already in progress")
)

// RequestError is the single error kind returned for failed backend calls.
// Message is what the user sees; Status is 0 when no response was received.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

// NewRequestError builds a RequestError for an HTTP status without a usable detail.
func NewRequestError(status int) *RequestError {
	return &RequestError{
		Status:  status,
		Message: fmt.Sprintf("Request failed: %d", status),
	}
}

func (e *RequestError) Error() string {
	return e.Message
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Unwrap exposes the transport cause, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// StateError reports an action requested before its precondition held.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// Is reports whether target is ErrState.
func (e *StateError) Is(target error) bool {
	return target == ErrState
}
