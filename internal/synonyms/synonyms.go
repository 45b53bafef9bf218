// Package synonyms expands a drug name into alternate chemical names.
// Every primary lookup in the pipeline uses it as a last-resort retry.
package synonyms

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Expander returns up to a bounded number of cleaned synonyms for a name.
// A confirmed miss is an empty slice with a nil error.
type Expander interface {
	Expand(ctx context.Context, name string) ([]string, error)
}

// Clean folds accents, keeps ASCII letters and spaces, and collapses whitespace.
func Clean(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Select cleans raw synonyms in order, skipping empty results and
// case-insensitive duplicates, and returns at most limit entries.
func Select(raw []string, limit int) []string {
	out := make([]string, 0, min(len(raw), limit))
	seen := make(map[string]struct{}, limit)

	for _, s := range raw {
		if len(out) >= limit {
			break
		}
		cleaned := Clean(s)
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}
