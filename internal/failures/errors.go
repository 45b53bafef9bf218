package failures

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

var (
	ErrNotFound      = errors.New("failure event not found")
	ErrDuplicate     = errors.New("failure event already exists")
	ErrInvalidWindow = errors.New("invalid summary window")
	ErrInvalidID     = errors.New("invalid failure event id")
)

// MapHTTPStatus maps failure domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidWindow) || errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	if errors.Is(err, lookup.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
