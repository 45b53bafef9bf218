package pipeline

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

var (
	ErrInvalidInput       = fmt.Errorf("%w: drug list", lookup.ErrInvalidInput)
	ErrSourcesUnavailable = fmt.Errorf("%w: upstream sources", lookup.ErrUnavailable)
)

// MapHTTPStatus maps pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, lookup.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, lookup.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
