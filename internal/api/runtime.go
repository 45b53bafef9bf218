package api

import (
	"time"

	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/internal/infrastructure"
	"github.com/JaimeStill/drugx/pkg/pagination"
	"github.com/JaimeStill/drugx/pkg/remote"
)

// Clients holds the outbound clients for each external authority.
type Clients struct {
	RxNorm    *remote.Client
	PubChem   *remote.Client
	OpenFDA   *remote.Client
	Pushover  *remote.Client
	Anthropic *remote.Client
}

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Clients    Clients
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
		},
		Pagination: cfg.API.Pagination,
		Clients: Clients{
			RxNorm:    remote.New(&cfg.Sources.RxNorm, logger.With("source", "rxnorm")),
			PubChem:   remote.New(&cfg.Sources.PubChem, logger.With("source", "pubchem")),
			OpenFDA:   remote.New(&cfg.Sources.OpenFDA, logger.With("source", "openfda")),
			Pushover:  remote.New(&cfg.Alerts.Pushover, logger.With("source", "pushover")),
			Anthropic: remote.New(anthropicConfig(cfg), logger.With("source", "anthropic")),
		},
	}
}

// Narration gets exactly one attempt per provider, so the Anthropic client
// never retries and is bounded by the synthesis timeout.
func anthropicConfig(cfg *config.Config) *remote.Config {
	return &remote.Config{
		BaseURL:           cfg.Synthesis.Anthropic.BaseURL,
		Timeout:           cfg.Synthesis.TimeoutDuration().String(),
		MaxRetries:        -1,
		RetryDelay:        time.Second.String(),
		RequestsPerSecond: -1,
		UserAgent:         cfg.UserAgent(),
	}
}
