package synthesis

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/JaimeStill/drugx/pkg/metrics"
)

// Status is the outcome of a synthesis request.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusUnavailable Status = "unavailable"
)

// Result is the narration of a pipeline report, or the reason it is absent.
type Result struct {
	Status   Status `json:"status"`
	Provider string `json:"provider,omitempty"`
	Analysis string `json:"analysis,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Synthesizer narrates the structured documents of a pipeline run.
type Synthesizer interface {
	Synthesize(ctx context.Context, drugs, interactions, adverseEvents any) Result
}

type synthesizer struct {
	providers []Provider
	logger    *slog.Logger
}

// New creates a Synthesizer that tries each provider once, in order.
func New(providers []Provider, logger *slog.Logger) Synthesizer {
	return &synthesizer{
		providers: providers,
		logger:    logger.With("system", "synthesis"),
	}
}

func (s *synthesizer) Synthesize(ctx context.Context, drugs, interactions, adverseEvents any) Result {
	if len(s.providers) == 0 {
		return Result{Status: StatusUnavailable, Error: ErrNoProviders.Error()}
	}

	prompt, err := BuildPrompt(drugs, interactions, adverseEvents)
	if err != nil {
		s.logger.ErrorContext(ctx, "prompt construction failed", "error", err)
		return Result{Status: StatusUnavailable, Error: err.Error()}
	}

	var errs []string
	for _, p := range s.providers {
		analysis, err := p.Complete(ctx, SystemPrompt, prompt)
		if err == nil {
			metrics.SynthesisCalls.WithLabelValues(p.Name(), string(StatusSuccess)).Inc()
			s.logger.InfoContext(ctx, "synthesis complete", "provider", p.Name())
			return Result{Status: StatusSuccess, Provider: p.Name(), Analysis: analysis}
		}

		metrics.SynthesisCalls.WithLabelValues(p.Name(), "error").Inc()
		s.logger.WarnContext(ctx, "synthesis provider failed", "provider", p.Name(), "error", err)
		errs = append(errs, p.Name()+": "+err.Error())

		if errors.Is(err, context.Canceled) {
			break
		}
	}

	return Result{
		Status: StatusUnavailable,
		Error:  "all synthesis providers failed: " + strings.Join(errs, "; "),
	}
}
