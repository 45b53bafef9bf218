// Package interactions checks drug pairs against the curated DDInter dataset.
package interactions

import (
	"slices"
	"strings"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

// Severity is the ordinal risk classification for a drug pair.
type Severity string

const (
	SeverityMinor    Severity = "Minor"
	SeverityModerate Severity = "Moderate"
	SeverityMajor    Severity = "Major"
	SeverityUnknown  Severity = "Unknown"
)

// ParseSeverity normalizes a dataset severity value. Unrecognized values
// map to SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minor":
		return SeverityMinor
	case "moderate":
		return SeverityModerate
	case "major":
		return SeverityMajor
	default:
		return SeverityUnknown
	}
}

// Match records whether a verdict came from the direct pair or a synonym pair.
type Match string

const (
	MatchDirect  Match = "direct"
	MatchSynonym Match = "synonym"
)

// NoInteractionNote is attached to every pair without a dataset record.
const NoInteractionNote = "DDInter reports no known clinically significant interaction between these drugs. " +
	"This does not guarantee safety, only that no interaction has been established in current data."

var categoryNames = map[string]string{
	"A": "Alimentary tract and metabolism",
	"B": "Blood and blood-forming organs",
	"D": "Dermatologicals",
	"H": "Systemic hormonal preparations (excluding sex hormones and insulins)",
	"L": "Antineoplastic and immunomodulating agents",
	"P": "Antiparasitic products, insecticides and repellents",
	"R": "Respiratory system",
	"V": "Various",
}

// Explain returns the description for a category code, or the code itself
// when it is not in the reference table.
func Explain(code string) string {
	if name, ok := categoryNames[code]; ok {
		return name
	}
	return code
}

// ParseCategories splits a delimited code list into a sorted set.
func ParseCategories(raw string) []string {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == ' '
	}) {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Record is one row of the curated dataset.
type Record struct {
	ID         int      `json:"id"`
	DDInterA   string   `json:"ddinter_id_a"`
	DDInterB   string   `json:"ddinter_id_b"`
	DrugA      string   `json:"drug_a"`
	DrugB      string   `json:"drug_b"`
	Severity   Severity `json:"severity"`
	Categories []string `json:"categories"`
}

// Result is the verdict for one drug pair.
type Result struct {
	Drugs                []string          `json:"drugs"`
	Status               lookup.Status     `json:"status"`
	Match                Match             `json:"match,omitempty"`
	Severity             Severity          `json:"severity,omitempty"`
	Categories           []string          `json:"categories,omitempty"`
	CategoryExplanations map[string]string `json:"category_explanations,omitempty"`
	Note                 string            `json:"note,omitempty"`
	Error                string            `json:"error,omitempty"`
}

func found(rec *Record, match Match) Result {
	explanations := make(map[string]string, len(rec.Categories))
	for _, code := range rec.Categories {
		explanations[code] = Explain(code)
	}
	return Result{
		Drugs:                []string{rec.DrugA, rec.DrugB},
		Status:               lookup.StatusOK,
		Match:                match,
		Severity:             rec.Severity,
		Categories:           rec.Categories,
		CategoryExplanations: explanations,
	}
}
