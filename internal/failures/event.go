package failures

import (
	"time"

	"github.com/google/uuid"
)

// Source tags which stage and condition produced a failed lookup.
type Source string

const (
	SourceRxNormCandidates     Source = "rxnorm_candidates"
	SourceRxNormPubChem        Source = "rxnorm_pubchem"
	SourceRxNormUnavailable    Source = "rxnorm_unavailable"
	SourceDDInterPubChem       Source = "ddinter_pubchem"
	SourceDDInterNoInteraction Source = "ddinter_no_interaction"
	SourceDDInterUnavailable   Source = "ddinter_unavailable"
	SourceOpenFDANoReports     Source = "openfda_no_reports"
	SourceOpenFDAError         Source = "openfda_error"
)

// Event is one appended failed-lookup record.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Drugs    []string  `json:"drugs"`
	Source   Source    `json:"source"`
	FailedAt time.Time `json:"failed_at"`
}

// SourceCount is the number of events recorded for one source.
type SourceCount struct {
	Source Source `json:"source"`
	Count  int    `json:"count"`
}

// Summary aggregates events recorded since a point in time.
type Summary struct {
	Since   time.Time     `json:"since"`
	Total   int           `json:"total"`
	Sources []SourceCount `json:"sources"`
}
