package main

import (
	"github.com/JaimeStill/drugx/internal/api"
	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/internal/infrastructure"
	"github.com/JaimeStill/drugx/pkg/metrics"
	"github.com/JaimeStill/drugx/pkg/module"
)

// Modules are the prefixed route groups served alongside the probes.
type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	checker, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	return &Modules{API: checker}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", healthz)
	router.HandleNative("GET /readyz", readyz(infra))
	router.Handle("GET /metrics", metrics.Handler())

	return router
}
