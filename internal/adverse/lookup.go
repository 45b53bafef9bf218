package adverse

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/JaimeStill/drugx/internal/failures"
	"github.com/JaimeStill/drugx/internal/synonyms"
	"github.com/JaimeStill/drugx/pkg/lookup"
)

// Lookup summarizes adverse events for a drug combination. Summarize
// never fails; zero results and source faults are states of the Summary.
type Lookup interface {
	Summarize(ctx context.Context, drugs []string) Summary
}

type summarizer struct {
	source    Source
	synonyms  synonyms.Expander
	recorder  failures.Recorder
	sampleCap int
	logger    *slog.Logger
}

// NewLookup creates a Lookup over source that retries empty results with
// synonym combinations from expander.
func NewLookup(
	source Source,
	expander synonyms.Expander,
	recorder failures.Recorder,
	sampleCap int,
	logger *slog.Logger,
) Lookup {
	return &summarizer{
		source:    source,
		synonyms:  expander,
		recorder:  recorder,
		sampleCap: sampleCap,
		logger:    logger.With("system", "adverse"),
	}
}

func (s *summarizer) Summarize(ctx context.Context, drugs []string) Summary {
	if len(drugs) < 2 {
		return empty(drugs, lookup.StatusSkipped)
	}

	page, err := s.source.Search(ctx, drugs)
	if err != nil {
		s.logger.ErrorContext(ctx, "adverse event source failed", "drugs", drugs, "error", err)
		s.recorder.Record(ctx, drugs, failures.SourceOpenFDAError)
		sum := empty(drugs, lookup.StatusUnavailable)
		sum.Error = "openFDA unavailable: " + err.Error()
		return sum
	}
	if page.Total > 0 {
		return Aggregate(drugs, drugs, page, s.sampleCap)
	}

	s.logger.InfoContext(ctx, "no adverse event reports, trying synonyms", "drugs", drugs)

	options := make([][]string, len(drugs))
	for i, d := range drugs {
		syns, err := s.synonyms.Expand(ctx, d)
		if err != nil {
			s.logger.InfoContext(ctx, "synonym lookup failed", "drug", d, "error", err)
		}
		if len(syns) == 0 {
			syns = []string{d}
		}
		options[i] = syns
	}

	for _, terms := range combinations(options) {
		if sameTerms(terms, drugs) {
			continue
		}

		page, err := s.source.Search(ctx, terms)
		if err != nil {
			s.logger.InfoContext(ctx, "synonym search failed", "terms", terms, "error", err)
			continue
		}
		if page.Total > 0 {
			s.logger.InfoContext(ctx, "adverse events found via synonyms", "drugs", drugs, "terms", terms)
			return Aggregate(drugs, terms, page, s.sampleCap)
		}
	}

	s.recorder.Record(ctx, drugs, failures.SourceOpenFDANoReports)
	sum := empty(drugs, lookup.StatusNotFound)
	sum.Reason = noReportsReason
	return sum
}

// combinations returns the cartesian product of options, first option
// varying slowest.
func combinations(options [][]string) [][]string {
	out := [][]string{{}}
	for _, opts := range options {
		next := make([][]string, 0, len(out)*len(opts))
		for _, prefix := range out {
			for _, o := range opts {
				combo := append(slices.Clone(prefix), o)
				next = append(next, combo)
			}
		}
		out = next
	}
	return out
}

func sameTerms(a, b []string) bool {
	return slices.EqualFunc(a, b, strings.EqualFold)
}
