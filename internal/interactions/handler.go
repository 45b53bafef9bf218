package interactions

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/drugx/pkg/handlers"
	"github.com/JaimeStill/drugx/pkg/pagination"
	"github.com/JaimeStill/drugx/pkg/routes"
)

// Handler provides HTTP endpoints for browsing the interaction dataset.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "interactions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for interaction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/interactions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/pair", Handler: h.Pair},
		},
	}
}

// List returns a paginated view of the dataset with optional drug and severity filters.
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

// Pair returns the raw dataset record for the a and b query parameters.
func (h *Handler) Pair(w http.ResponseWriter, r *http.Request) {
	a := strings.TrimSpace(r.URL.Query().Get("a"))
	b := strings.TrimSpace(r.URL.Query().Get("b"))
	if a == "" || b == "" {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, ErrInvalidPair)
		return
	}

	pair := NormalizePair(a, b)
	rec, err := h.sys.Find(r.Context(), pair[0], pair[1])
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}
