package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/drugx/internal/adverse"
	"github.com/JaimeStill/drugx/internal/drugs"
	"github.com/JaimeStill/drugx/internal/interactions"
	"github.com/JaimeStill/drugx/internal/synthesis"
	"github.com/JaimeStill/drugx/pkg/lookup"
	"github.com/JaimeStill/drugx/pkg/metrics"
)

// Stage names used for metrics labels.
const (
	StageResolve      = "resolve"
	StageInteractions = "interactions"
	StageAdverse      = "adverse"
	StageSynthesis    = "synthesis"
)

// Config bounds the drug count and per-request fan-out.
type Config struct {
	MinDrugs           int
	MaxDrugs           int
	ResolveConcurrency int
	PairConcurrency    int
}

// System runs the check pipeline.
type System interface {
	Handler(maxBodySize int64) *Handler
	Run(ctx context.Context, names []string) (*Report, error)
}

type pipeline struct {
	resolver     drugs.Resolver
	interactions interactions.Checker
	adverse      adverse.Lookup
	synthesizer  synthesis.Synthesizer
	cfg          Config
	logger       *slog.Logger
}

// New creates the pipeline System from its stage components.
func New(
	resolver drugs.Resolver,
	checker interactions.Checker,
	events adverse.Lookup,
	synthesizer synthesis.Synthesizer,
	cfg Config,
	logger *slog.Logger,
) System {
	return &pipeline{
		resolver:     resolver,
		interactions: checker,
		adverse:      events,
		synthesizer:  synthesizer,
		cfg:          cfg,
		logger:       logger.With("system", "pipeline"),
	}
}

func (p *pipeline) Handler(maxBodySize int64) *Handler {
	return NewHandler(p, p.logger, maxBodySize)
}

// Validate rejects drug lists outside the configured bounds and lists
// with blank entries.
func (p *pipeline) Validate(names []string) error {
	if len(names) < p.cfg.MinDrugs || len(names) > p.cfg.MaxDrugs {
		return fmt.Errorf(
			"%w: expected %d to %d drugs, got %d",
			ErrInvalidInput, p.cfg.MinDrugs, p.cfg.MaxDrugs, len(names),
		)
	}
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: drug %d is blank", ErrInvalidInput, i+1)
		}
	}
	return nil
}

func (p *pipeline) Run(ctx context.Context, names []string) (*Report, error) {
	if err := p.Validate(names); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "check started", "drugs", names)

	resolved, err := p.resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	canonical := canonicalNames(resolved)

	pairs, err := p.checkPairs(ctx, canonical)
	if err != nil {
		return nil, err
	}

	events := p.summarize(ctx, canonical)

	report := &Report{
		Drugs:         resolved,
		Interactions:  pairs,
		AdverseEvents: events,
	}

	if unavailable(report) {
		p.logger.WarnContext(ctx, "check escalated", "drugs", names)
		return nil, fmt.Errorf("%w: no source answered for %s", ErrSourcesUnavailable, strings.Join(names, ", "))
	}

	report.Synthesis = p.synthesize(ctx, report)

	p.logger.InfoContext(ctx, "check complete",
		"drugs", names,
		"resolved", len(canonical),
		"pairs", len(pairs),
		"synthesis", report.Synthesis.Status,
	)
	return report, nil
}

func (p *pipeline) resolve(ctx context.Context, names []string) ([]drugs.ResolvedDrug, error) {
	defer observe(StageResolve, time.Now())

	results := make([]drugs.ResolvedDrug, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.ResolveConcurrency, 1))

	for i, name := range names {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = p.resolver.Resolve(gctx, name)
			metrics.LookupOutcomes.WithLabelValues(StageResolve, string(results[i].Status)).Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve drugs: %w", err)
	}
	return results, nil
}

func (p *pipeline) checkPairs(ctx context.Context, names []string) ([]interactions.Result, error) {
	defer observe(StageInteractions, time.Now())

	var pairs [][2]string
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			pairs = append(pairs, [2]string{names[i], names[j]})
		}
	}

	results := make([]interactions.Result, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.PairConcurrency, 1))

	for i, pair := range pairs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = p.interactions.Check(gctx, pair[0], pair[1])
			metrics.LookupOutcomes.WithLabelValues(StageInteractions, string(results[i].Status)).Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check interactions: %w", err)
	}
	return results, nil
}

func (p *pipeline) summarize(ctx context.Context, names []string) adverse.Summary {
	defer observe(StageAdverse, time.Now())

	s := p.adverse.Summarize(ctx, names)
	metrics.LookupOutcomes.WithLabelValues(StageAdverse, string(s.Status)).Inc()
	return s
}

func (p *pipeline) synthesize(ctx context.Context, r *Report) synthesis.Result {
	defer observe(StageSynthesis, time.Now())
	return p.synthesizer.Synthesize(ctx, r.Drugs, r.Interactions, r.AdverseEvents)
}

// canonicalNames returns the canonical names of resolved drugs in input
// order, keeping the first occurrence of each.
func canonicalNames(resolved []drugs.ResolvedDrug) []string {
	seen := make(map[string]struct{}, len(resolved))
	names := make([]string, 0, len(resolved))
	for _, d := range resolved {
		if !d.Resolved() {
			continue
		}
		key := strings.ToLower(d.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, d.Name)
	}
	return names
}

// unavailable reports whether no upstream source produced an answer.
// Resolution must be unavailable for every drug, and no pair or adverse
// event lookup may have answered either. Any other outage is reported
// inline on the affected entries.
func unavailable(r *Report) bool {
	for _, d := range r.Drugs {
		if d.Status != lookup.StatusUnavailable {
			return false
		}
	}
	for _, i := range r.Interactions {
		if i.Status != lookup.StatusUnavailable {
			return false
		}
	}
	switch r.AdverseEvents.Status {
	case lookup.StatusUnavailable, lookup.StatusSkipped:
		return true
	}
	return false
}

func observe(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
