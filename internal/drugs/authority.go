package drugs

import "context"

// Authority is the canonical drug name source. ExactMatch returns an
// error wrapping lookup.ErrNotFound when the name has no identifier.
type Authority interface {
	ExactMatch(ctx context.Context, name string) (string, error)
	// ApproximateMatch returns candidates ordered best first.
	ApproximateMatch(ctx context.Context, term string) ([]Candidate, error)
	SpellingSuggestions(ctx context.Context, name string) ([]string, error)
	Ingredient(ctx context.Context, rxcui string) (string, error)
	Classes(ctx context.Context, rxcui string) (map[string][]string, error)
}
