// Package drugs resolves free-text drug names to canonical RxNorm
// ingredients through a layered fallback chain.
package drugs

import "github.com/JaimeStill/drugx/pkg/lookup"

// Path records which fallback stage produced the canonical identity.
type Path string

const (
	PathExact       Path = "exact"
	PathApproximate Path = "approximate"
	PathSpelling    Path = "spelling_suggestion"
	PathSynonym     Path = "synonym"
	PathUnresolved  Path = "unresolved"
)

// Class kinds reported for a resolved drug.
const (
	ClassEPC = "epc"
	ClassMOA = "moa"
	ClassPE  = "pe"
	ClassATC = "atc"
)

// ResolvedDrug is the outcome of resolving one user-entered name.
// A nil RxCUI marks an unresolved drug; its Candidates, if any, are the
// alternatives surfaced along the way.
type ResolvedDrug struct {
	Query       string              `json:"query"`
	RxCUI       *string             `json:"rxcui"`
	Name        string              `json:"name,omitempty"`
	MatchedTerm string              `json:"matched_term,omitempty"`
	Classes     map[string][]string `json:"classes"`
	Path        Path                `json:"resolution_path"`
	Status      lookup.Status       `json:"status"`
	Candidates  []string            `json:"candidates,omitempty"`
}

// Resolved reports whether a canonical identity was found.
func (d ResolvedDrug) Resolved() bool {
	return d.RxCUI != nil
}

// Candidate is an approximate-match result from the name authority.
type Candidate struct {
	RxCUI string
	Name  string
	Score float64
	Rank  int
}
