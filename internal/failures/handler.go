package failures

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/drugx/pkg/handlers"
	"github.com/JaimeStill/drugx/pkg/pagination"
	"github.com/JaimeStill/drugx/pkg/routes"
)

const defaultWindow = 24 * time.Hour

// Handler provides HTTP endpoints for browsing failed lookups.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "failures"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for failure endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/failures",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns a paginated list of failed lookups with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single failed lookup by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	event, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, event)
}

// Summary returns per-source counts over a trailing window (default 24h).
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	window := defaultWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			handlers.RespondError(w, r, h.logger, http.StatusBadRequest, ErrInvalidWindow)
			return
		}
		window = d
	}

	summary, err := h.sys.Summary(r.Context(), time.Now().Add(-window))
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}
