package api

import (
	"time"

	"github.com/JaimeStill/drugx/internal/adverse"
	"github.com/JaimeStill/drugx/internal/alerts"
	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/internal/drugs"
	"github.com/JaimeStill/drugx/internal/failures"
	"github.com/JaimeStill/drugx/internal/interactions"
	"github.com/JaimeStill/drugx/internal/pipeline"
	"github.com/JaimeStill/drugx/internal/synonyms"
	"github.com/JaimeStill/drugx/internal/synthesis"
)

const recordTimeout = 10 * time.Second

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Failures     failures.System
	Interactions interactions.System
	Pipeline     pipeline.System
	Alerts       *alerts.Dispatcher
	Digest       *failures.Digest
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	conn := runtime.Database.Connection()

	failuresSystem := failures.New(conn, runtime.Logger, runtime.Pagination)
	interactionsSystem := interactions.New(conn, runtime.Logger, runtime.Pagination)

	dispatcher := alerts.NewDispatcher(
		newNotifier(cfg, runtime),
		cfg.Alerts.QueueSize,
		runtime.Logger,
	)

	recorder := failures.NewRecorder(
		failuresSystem,
		dispatcher,
		runtime.Logger,
		recordTimeout,
	)

	expander := synonyms.New(
		runtime.Clients.PubChem,
		cfg.Pipeline.SynonymLimit,
		runtime.Logger,
	)

	resolver := drugs.NewResolver(
		drugs.NewRxNorm(runtime.Clients.RxNorm, runtime.Logger),
		expander,
		recorder,
		cfg.Pipeline.CandidateLimit,
		runtime.Logger,
	)

	checker := interactions.NewChecker(
		interactionsSystem,
		expander,
		recorder,
		runtime.Logger,
	)

	events := adverse.NewLookup(
		adverse.NewOpenFDA(
			runtime.Clients.OpenFDA,
			cfg.Sources.OpenFDA.APIKey,
			cfg.Pipeline.SampleCap,
			runtime.Logger,
		),
		expander,
		recorder,
		cfg.Pipeline.SampleCap,
		runtime.Logger,
	)

	pipelineSystem := pipeline.New(
		resolver,
		checker,
		events,
		synthesis.New(newProviders(cfg, runtime), runtime.Logger),
		pipeline.Config{
			MinDrugs:           cfg.Pipeline.MinDrugs,
			MaxDrugs:           cfg.Pipeline.MaxDrugs,
			ResolveConcurrency: cfg.Pipeline.ResolveConcurrency,
			PairConcurrency:    cfg.Pipeline.PairConcurrency,
		},
		runtime.Logger,
	)

	var digest *failures.Digest
	if cfg.Alerts.Digest.Enabled {
		digest = failures.NewDigest(
			failuresSystem,
			dispatcher,
			cfg.Alerts.Digest.At,
			cfg.Alerts.Digest.WindowDuration(),
			runtime.Logger,
		)
	}

	return &Domain{
		Failures:     failuresSystem,
		Interactions: interactionsSystem,
		Pipeline:     pipelineSystem,
		Alerts:       dispatcher,
		Digest:       digest,
	}
}

func newNotifier(cfg *config.Config, runtime *Runtime) alerts.Notifier {
	if !cfg.Alerts.PushoverEnabled() {
		return alerts.NewLogNotifier(runtime.Logger)
	}
	return alerts.NewPushover(runtime.Clients.Pushover, cfg.Alerts.Token, cfg.Alerts.User)
}

// newProviders builds the configured narration providers in attempt order.
// Providers without credentials are skipped.
func newProviders(cfg *config.Config, runtime *Runtime) []synthesis.Provider {
	params := synthesis.Params{
		MaxTokens:   cfg.Synthesis.MaxTokens,
		Temperature: cfg.Synthesis.Temperature,
	}

	var providers []synthesis.Provider
	for _, p := range cfg.Synthesis.Providers() {
		if !p.Configured() {
			continue
		}
		switch p.Name {
		case config.ProviderOpenAI:
			providers = append(providers, synthesis.NewOpenAI(
				p.APIKey,
				p.Model,
				p.BaseURL,
				params,
				cfg.Synthesis.TimeoutDuration(),
			))
		case config.ProviderAnthropic:
			providers = append(providers, synthesis.NewAnthropic(
				runtime.Clients.Anthropic,
				p.APIKey,
				p.Model,
				params,
			))
		}
	}
	return providers
}
