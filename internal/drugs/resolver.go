package drugs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/drugx/internal/failures"
	"github.com/JaimeStill/drugx/internal/synonyms"
	"github.com/JaimeStill/drugx/pkg/lookup"
)

// Resolver maps a raw drug name to a ResolvedDrug. It never fails:
// an unresolved name is a terminal state of the result.
type Resolver interface {
	Resolve(ctx context.Context, raw string) ResolvedDrug
}

type resolver struct {
	authority      Authority
	synonyms       synonyms.Expander
	recorder       failures.Recorder
	candidateLimit int
	logger         *slog.Logger
}

// NewResolver creates a Resolver over the given authority. At most
// candidateLimit approximate candidates and spelling suggestions are
// retried through exact match.
func NewResolver(
	authority Authority,
	expander synonyms.Expander,
	recorder failures.Recorder,
	candidateLimit int,
	logger *slog.Logger,
) Resolver {
	return &resolver{
		authority:      authority,
		synonyms:       expander,
		recorder:       recorder,
		candidateLimit: candidateLimit,
		logger:         logger.With("system", "drugs"),
	}
}

// attempt tracks whether any source answered during one resolution.
type attempt struct {
	query      string
	answered   bool
	failed     bool
	candidates []string
	seen       map[string]struct{}
}

func (a *attempt) note(err error) {
	switch {
	case err == nil, lookup.IsNotFound(err):
		a.answered = true
	default:
		a.failed = true
	}
}

func (a *attempt) addCandidate(name string) {
	key := strings.ToLower(name)
	if key == "" || key == strings.ToLower(a.query) {
		return
	}
	if _, ok := a.seen[key]; ok {
		return
	}
	a.seen[key] = struct{}{}
	a.candidates = append(a.candidates, name)
}

func (r *resolver) Resolve(ctx context.Context, raw string) ResolvedDrug {
	query := strings.TrimSpace(raw)
	a := &attempt{query: query, seen: make(map[string]struct{})}

	if rxcui, ok := r.exact(ctx, a, query); ok {
		return r.confirm(ctx, query, query, rxcui, PathExact)
	}

	r.logger.InfoContext(ctx, "no exact match, trying approximate", "query", query)
	if d, ok := r.approximate(ctx, a, query); ok {
		return d
	}

	r.logger.InfoContext(ctx, "trying spelling suggestions", "query", query)
	suggestions, err := r.authority.SpellingSuggestions(ctx, query)
	a.note(err)
	for _, s := range first(suggestions, r.candidateLimit) {
		a.addCandidate(s)
		if rxcui, ok := r.exact(ctx, a, s); ok {
			return r.confirm(ctx, query, s, rxcui, PathSpelling)
		}
	}

	r.logger.InfoContext(ctx, "trying synonyms", "query", query)
	syns, err := r.synonyms.Expand(ctx, query)
	a.note(err)
	for _, s := range syns {
		if rxcui, ok := r.exact(ctx, a, s); ok {
			return r.confirm(ctx, query, s, rxcui, PathSynonym)
		}
	}

	return r.unresolved(ctx, a)
}

func (r *resolver) exact(ctx context.Context, a *attempt, name string) (string, bool) {
	rxcui, err := r.authority.ExactMatch(ctx, name)
	a.note(err)
	return rxcui, err == nil && rxcui != ""
}

// approximate accepts the best candidate outright only when it names the
// query itself; every other candidate must be confirmed by exact match.
func (r *resolver) approximate(ctx context.Context, a *attempt, query string) (ResolvedDrug, bool) {
	candidates, err := r.authority.ApproximateMatch(ctx, query)
	a.note(err)
	if len(candidates) == 0 {
		return ResolvedDrug{}, false
	}

	best := candidates[0]
	if best.RxCUI != "" && strings.EqualFold(best.Name, query) {
		return r.confirm(ctx, query, best.Name, best.RxCUI, PathApproximate), true
	}

	names := make([]string, 0, r.candidateLimit)
	seen := make(map[string]struct{})
	for _, c := range candidates {
		key := strings.ToLower(c.Name)
		if c.Name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, c.Name)
		if len(names) == r.candidateLimit {
			break
		}
	}

	for _, name := range names {
		a.addCandidate(name)
		if rxcui, ok := r.exact(ctx, a, name); ok {
			return r.confirm(ctx, query, name, rxcui, PathApproximate), true
		}
	}
	return ResolvedDrug{}, false
}

// confirm enriches a canonical identity with its ingredient name and
// classes. Neither lookup can downgrade the resolution.
func (r *resolver) confirm(ctx context.Context, query, term, rxcui string, path Path) ResolvedDrug {
	name, err := r.authority.Ingredient(ctx, rxcui)
	if err != nil || name == "" {
		r.logger.InfoContext(ctx, "ingredient lookup failed, using matched term",
			"rxcui", rxcui,
			"term", term,
			"error", err,
		)
		name = strings.ToLower(term)
	}

	classes, err := r.authority.Classes(ctx, rxcui)
	if err != nil {
		r.logger.InfoContext(ctx, "class lookup failed", "rxcui", rxcui, "error", err)
		classes = map[string][]string{}
	}

	r.logger.InfoContext(ctx, "drug resolved",
		"query", query,
		"name", name,
		"rxcui", rxcui,
		"path", path,
	)

	return ResolvedDrug{
		Query:       query,
		RxCUI:       &rxcui,
		Name:        name,
		MatchedTerm: term,
		Classes:     classes,
		Path:        path,
		Status:      lookup.StatusOK,
	}
}

func (r *resolver) unresolved(ctx context.Context, a *attempt) ResolvedDrug {
	d := ResolvedDrug{
		Query:      a.query,
		Classes:    map[string][]string{},
		Path:       PathUnresolved,
		Candidates: a.candidates,
	}

	var (
		source failures.Source
		err    error
	)
	switch {
	case len(a.candidates) > 0:
		source = failures.SourceRxNormCandidates
		err = fmt.Errorf("%w: %d candidates unconfirmed", lookup.ErrAmbiguous, len(a.candidates))
	case a.failed && !a.answered:
		source = failures.SourceRxNormUnavailable
		err = fmt.Errorf("%w: every RxNorm stage failed", lookup.ErrUnavailable)
	default:
		source = failures.SourceRxNormPubChem
		err = lookup.ErrNotFound
	}
	d.Status = lookup.StatusOf(err)

	r.logger.WarnContext(ctx, "drug unresolved",
		"query", a.query,
		"status", d.Status,
		"error", err,
	)
	r.recorder.Record(ctx, []string{a.query}, source)
	return d
}

func first[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
