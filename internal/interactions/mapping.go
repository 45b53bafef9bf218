package interactions

import (
	"net/url"

	"github.com/JaimeStill/drugx/pkg/query"
	"github.com/JaimeStill/drugx/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ddinter", "d").
	Project("id", "ID").
	Project("ddinter_id_a", "DDInterA").
	Project("ddinter_id_b", "DDInterB").
	Project("drug_a", "DrugA").
	Project("drug_b", "DrugB").
	Project("severity", "Severity").
	Project("categories", "Categories")

var defaultSort = query.SortField{Field: "ID"}

// Filters contains optional filtering criteria for dataset queries.
// Drug matches either side of the pair case-insensitively.
type Filters struct {
	Drug     *string   `json:"drug,omitempty"`
	Severity *Severity `json:"severity,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var severity any
	if f.Severity != nil {
		severity = string(*f.Severity)
	}
	return b.
		WhereSearch(f.Drug, "DrugA", "DrugB").
		WhereEquals("Severity", severity)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("drug"); d != "" {
		f.Drug = &d
	}

	if s := values.Get("severity"); s != "" {
		sev := ParseSeverity(s)
		f.Severity = &sev
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r          Record
		severity   string
		categories string
	)
	err := s.Scan(&r.ID, &r.DDInterA, &r.DDInterB, &r.DrugA, &r.DrugB, &severity, &categories)
	r.Severity = ParseSeverity(severity)
	r.Categories = ParseCategories(categories)
	return r, err
}
