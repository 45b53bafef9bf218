// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/internal/infrastructure"
	"github.com/JaimeStill/drugx/pkg/middleware"
	"github.com/JaimeStill/drugx/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware,
// and registers the domain's background work with the lifecycle coordinator.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	doc, err := newSpec(cfg).Document()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	if err := start(cfg, runtime, domain); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, doc, runtime.Logger)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Metrics())
	m.Use(middleware.RateLimit(&cfg.API.RateLimit))

	return m, nil
}

func start(cfg *config.Config, runtime *Runtime, domain *Domain) error {
	lc := runtime.Lifecycle

	if err := domain.Alerts.Start(lc); err != nil {
		return fmt.Errorf("alerts start failed: %w", err)
	}

	if domain.Digest != nil {
		if err := domain.Digest.Start(lc); err != nil {
			return fmt.Errorf("digest start failed: %w", err)
		}
	}

	if cfg.Pipeline.ProvisionOnStartup {
		lc.OnStartup("provision", func(ctx context.Context) error {
			n, err := domain.Interactions.Provision(ctx, cfg.Pipeline.DatasetPath)
			if err != nil {
				return fmt.Errorf("provision interactions: %w", err)
			}
			runtime.Logger.Info("interaction store provisioned", "inserted", n)
			return nil
		})
	}

	return nil
}
