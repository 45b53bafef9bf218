package interactions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

var (
	ErrNotFound       = errors.New("interaction not found")
	ErrDuplicate      = errors.New("interaction already exists")
	ErrInvalidDataset = errors.New("invalid interaction dataset")
	ErrInvalidPair    = errors.New("two drug names required")
)

// MapHTTPStatus maps interaction domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidPair) {
		return http.StatusBadRequest
	}
	if errors.Is(err, lookup.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
