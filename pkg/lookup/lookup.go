// Package lookup defines the outcome taxonomy shared by every external lookup.
// Stage results carry a Status instead of surfacing errors to their callers.
package lookup

import (
	"context"
	"errors"
)

// Outcome kinds for external lookups.
var (
	ErrNotFound     = errors.New("not found")
	ErrAmbiguous    = errors.New("ambiguous")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidInput = errors.New("invalid input")
)

// Status tags the terminal state of a stage result.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not_found"
	StatusAmbiguous   Status = "ambiguous"
	StatusUnavailable Status = "unavailable"
	StatusSkipped     Status = "skipped"
)

// StatusOf maps an error to the Status it represents.
// A nil error is StatusOK. Context cancellation and deadline expiry
// count as unavailability.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrAmbiguous):
		return StatusAmbiguous
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return StatusUnavailable
	default:
		return StatusUnavailable
	}
}

// IsNotFound reports whether err is a confirmed empty answer from a source.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err represents a transport or availability failure.
func IsUnavailable(err error) bool {
	return err != nil && StatusOf(err) == StatusUnavailable
}
