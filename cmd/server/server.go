package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/internal/infrastructure"
)

// Server wires infrastructure, the API module, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	log := infra.Logger
	log.Info("drugx starting", "version", cfg.Version, "env", cfg.Env(), "log_level", cfg.Level())

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	log.Info(
		"check api configured",
		"base", cfg.API.BasePath,
		"max_body", humanize.IBytes(uint64(cfg.API.MaxBodySizeBytes())),
		"max_drugs", cfg.Pipeline.MaxDrugs,
		"providers", cfg.Synthesis.Order,
		"provision", cfg.Pipeline.ProvisionOnStartup,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, log),
	}, nil
}

// Start launches the database check and the listener. Readiness flips
// in the background once every startup hook succeeds.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		start := time.Now()
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup failed, /readyz stays unavailable", "error", err)
			return
		}
		s.infra.Logger.Info("ready", "took", time.Since(start))
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutting down", "timeout", timeout)
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.infra.Logger.Info("drugx stopped")
	return nil
}
