package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/drugx/pkg/handlers"
	"github.com/JaimeStill/drugx/pkg/middleware"
	"github.com/JaimeStill/drugx/pkg/routes"
)

// Handler provides the HTTP endpoint for running checks.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "pipeline"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for the check endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:     "/check",
		Middleware: middleware.Stack{middleware.MaxBytes(h.maxBodySize)},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Check},
		},
	}
}

// Check runs the pipeline for the drug list in the request body.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		status := handlers.DecodeStatus(err)
		if status == http.StatusBadRequest {
			err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		handlers.RespondError(w, r, h.logger, status, err)
		return
	}

	report, err := h.sys.Run(r.Context(), req.Drugs)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
