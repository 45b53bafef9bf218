package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/pkg/openapi"
	"github.com/JaimeStill/drugx/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	doc []byte,
	logger *slog.Logger,
) {
	groups := []routes.Group{
		domain.Pipeline.Handler(cfg.API.MaxBodySizeBytes()).Routes(),
		domain.Failures.Handler().Routes(),
		domain.Interactions.Handler().Routes(),
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(doc))

	logger.Debug("routes registered", "base", cfg.API.BasePath, "patterns", routes.Patterns(groups...))
}
