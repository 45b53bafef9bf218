// Package pipeline sequences name resolution, pairwise interaction checks,
// adverse event aggregation, and narration into a single report.
package pipeline

import (
	"github.com/JaimeStill/drugx/internal/adverse"
	"github.com/JaimeStill/drugx/internal/drugs"
	"github.com/JaimeStill/drugx/internal/interactions"
	"github.com/JaimeStill/drugx/internal/synthesis"
)

// Request is the body of a check request.
type Request struct {
	Drugs []string `json:"drugs"`
}

// Report is the structured result of one check. Degraded entries carry
// their own status rather than being omitted.
type Report struct {
	Drugs         []drugs.ResolvedDrug  `json:"drugs"`
	Interactions  []interactions.Result `json:"interactions"`
	AdverseEvents adverse.Summary       `json:"adverse_events"`
	Synthesis     synthesis.Result      `json:"synthesis"`
}
