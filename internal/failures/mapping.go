package failures

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/drugx/pkg/query"
	"github.com/JaimeStill/drugx/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "failed_drug_lookups", "f").
	Project("id", "ID").
	Project("drugs", "Drugs").
	Project("source", "Source").
	Project("failed_at", "FailedAt")

var defaultSort = query.SortField{
	Field:      "FailedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for failure queries.
// Source is an exact match, Drug matches any element of the drug list
// case-insensitively, and Since bounds FailedAt from below.
type Filters struct {
	Source *string    `json:"source,omitempty"`
	Drug   *string    `json:"drug,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Source", f.Source).
		WhereElementContains("Drugs", f.Drug).
		WhereAtLeast("FailedAt", f.Since)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Since accepts RFC 3339 timestamps or YYYY-MM-DD dates.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if d := values.Get("drug"); d != "" {
		f.Drug = &d
	}

	if s := values.Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.Since = &t
		} else if t, err := time.Parse(time.DateOnly, s); err == nil {
			f.Since = &t
		}
	}

	return f
}

func scanEvent(s repository.Scanner) (Event, error) {
	var (
		e     Event
		drugs []byte
	)
	if err := s.Scan(&e.ID, &drugs, &e.Source, &e.FailedAt); err != nil {
		return e, err
	}
	if err := json.Unmarshal(drugs, &e.Drugs); err != nil {
		return e, fmt.Errorf("decode drugs: %w", err)
	}
	return e, nil
}
