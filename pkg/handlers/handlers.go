// Package handlers holds the JSON request and response helpers shared by
// the API handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrMalformedBody = errors.New("malformed JSON body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes err as an ErrorBody. Server faults log at error,
// rejected requests at warn.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	RespondJSON(w, status, ErrorBody{Error: err.Error()})
}

// DecodeJSON reads one JSON value from the request body into dst.
// Failures wrap ErrEmptyBody, ErrMalformedBody, or ErrBodyTooLarge.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("trailing data after JSON value")
	}

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	default:
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
}

// DecodeStatus is the response status for a DecodeJSON error.
func DecodeStatus(err error) int {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
