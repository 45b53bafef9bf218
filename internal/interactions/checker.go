package interactions

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/JaimeStill/drugx/internal/failures"
	"github.com/JaimeStill/drugx/internal/synonyms"
	"github.com/JaimeStill/drugx/pkg/lookup"
)

// Finder looks up the record for an unordered pair of names.
type Finder interface {
	Find(ctx context.Context, a, b string) (*Record, error)
}

// Checker produces a verdict for a pair of canonical drug names.
// Check never fails; misses and store faults are states of the Result.
type Checker interface {
	Check(ctx context.Context, a, b string) Result
}

type checker struct {
	store    Finder
	synonyms synonyms.Expander
	recorder failures.Recorder
	logger   *slog.Logger
}

// NewChecker creates a Checker over store that retries misses with
// synonym pairs from expander.
func NewChecker(store Finder, expander synonyms.Expander, recorder failures.Recorder, logger *slog.Logger) Checker {
	return &checker{
		store:    store,
		synonyms: expander,
		recorder: recorder,
		logger:   logger.With("system", "interactions"),
	}
}

// NormalizePair trims, lower-cases, and orders a pair so (a, b) and
// (b, a) produce the same key.
func NormalizePair(a, b string) [2]string {
	pair := []string{
		strings.ToLower(strings.TrimSpace(a)),
		strings.ToLower(strings.TrimSpace(b)),
	}
	slices.Sort(pair)
	return [2]string{pair[0], pair[1]}
}

func (c *checker) Check(ctx context.Context, a, b string) Result {
	pair := NormalizePair(a, b)
	drugs := []string{pair[0], pair[1]}

	rec, err := c.store.Find(ctx, pair[0], pair[1])
	switch {
	case err == nil:
		c.logger.InfoContext(ctx, "interaction found", "drugs", drugs, "severity", rec.Severity)
		return found(rec, MatchDirect)
	case !errors.Is(err, ErrNotFound):
		return c.unavailable(ctx, drugs, err)
	}

	c.logger.InfoContext(ctx, "no direct interaction, trying synonyms", "drugs", drugs)

	left := c.expand(ctx, pair[0])
	right := c.expand(ctx, pair[1])

	tried := 0
	for _, sa := range left {
		for _, sb := range right {
			if NormalizePair(sa, sb) == pair {
				continue
			}
			tried++

			rec, err := c.store.Find(ctx, sa, sb)
			switch {
			case err == nil:
				c.logger.InfoContext(ctx, "interaction found via synonyms",
					"drugs", drugs,
					"synonyms", []string{sa, sb},
					"severity", rec.Severity,
				)
				return found(rec, MatchSynonym)
			case !errors.Is(err, ErrNotFound):
				return c.unavailable(ctx, drugs, err)
			}
		}
	}

	source := failures.SourceDDInterNoInteraction
	if tried > 0 {
		source = failures.SourceDDInterPubChem
	}
	c.recorder.Record(ctx, drugs, source)

	return Result{
		Drugs:  drugs,
		Status: lookup.StatusNotFound,
		Note:   NoInteractionNote,
	}
}

// expand returns the synonyms for name, or name itself when there are none.
func (c *checker) expand(ctx context.Context, name string) []string {
	syns, err := c.synonyms.Expand(ctx, name)
	if err != nil {
		c.logger.InfoContext(ctx, "synonym lookup failed", "drug", name, "error", err)
	}
	if len(syns) == 0 {
		return []string{name}
	}
	return syns
}

func (c *checker) unavailable(ctx context.Context, drugs []string, err error) Result {
	c.logger.ErrorContext(ctx, "interaction store failed", "drugs", drugs, "error", err)
	c.recorder.Record(ctx, drugs, failures.SourceDDInterUnavailable)
	return Result{
		Drugs:  drugs,
		Status: lookup.StatusUnavailable,
		Error:  "interaction store unavailable",
	}
}
