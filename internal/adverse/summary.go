// Package adverse summarizes real-world adverse event reports for a drug
// combination from the openFDA FAERS endpoint.
package adverse

import (
	"cmp"
	"slices"
	"time"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

const (
	topReactionLimit = 5
	noReportsReason  = "No reports found after synonym search"
)

// Summary aggregates the reports that name every drug in a combination.
// NReports is the authoritative total. NSerious and TopReactions are
// computed over the retrieved sample only and are bounded by SampleSize.
type Summary struct {
	Drugs          []string      `json:"drugs"`
	MatchedTerms   []string      `json:"matched_terms,omitempty"`
	Status         lookup.Status `json:"status"`
	NReports       int           `json:"n_reports"`
	NSerious       int           `json:"n_serious"`
	TopReactions   []string      `json:"top_reactions"`
	LastReportDate *string       `json:"last_report_date"`
	SampleSize     int           `json:"sample_size"`
	Reason         string        `json:"reason,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// Report is one FAERS safety report from the sample.
type Report struct {
	Serious     bool
	ReceiveDate string
	Reactions   []string
}

// Page is a search result: the total match count and a capped sample.
type Page struct {
	Total   int
	Reports []Report
}

func empty(drugs []string, status lookup.Status) Summary {
	return Summary{
		Drugs:        drugs,
		Status:       status,
		TopReactions: []string{},
	}
}

// Aggregate computes the sample-bounded statistics for page. At most
// sampleCap reports are analyzed. Reactions are counted once per report
// and ranked by frequency, with ties kept in first-seen order.
func Aggregate(drugs, terms []string, page *Page, sampleCap int) Summary {
	s := empty(drugs, lookup.StatusOK)
	s.MatchedTerms = terms
	s.NReports = page.Total

	sample := page.Reports
	if len(sample) > sampleCap {
		sample = sample[:sampleCap]
	}
	s.SampleSize = len(sample)

	type tally struct {
		term  string
		count int
		first int
	}
	counts := make(map[string]*tally)
	var order []*tally
	var latest time.Time

	for _, r := range sample {
		if r.Serious {
			s.NSerious++
		}

		seen := make(map[string]struct{}, len(r.Reactions))
		for _, term := range r.Reactions {
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}

			t, ok := counts[term]
			if !ok {
				t = &tally{term: term, first: len(order)}
				counts[term] = t
				order = append(order, t)
			}
			t.count++
		}

		if d, err := time.Parse("20060102", r.ReceiveDate); err == nil && d.After(latest) {
			latest = d
		}
	}

	slices.SortStableFunc(order, func(a, b *tally) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})
	for _, t := range order[:min(len(order), topReactionLimit)] {
		s.TopReactions = append(s.TopReactions, t.term)
	}

	if !latest.IsZero() {
		d := latest.Format(time.DateOnly)
		s.LastReportDate = &d
	}

	return s
}
