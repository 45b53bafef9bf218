package adverse

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/drugx/pkg/lookup"
	"github.com/JaimeStill/drugx/pkg/remote"
)

// Source runs a conjunctive search for reports naming every term.
// A search with no matches returns a Page with zero Total.
type Source interface {
	Search(ctx context.Context, terms []string) (*Page, error)
}

type openFDA struct {
	client *remote.Client
	apiKey string
	limit  int
	logger *slog.Logger
}

// NewOpenFDA creates a Source backed by the openFDA drug event endpoint.
// limit caps the sample retrieved per search.
func NewOpenFDA(client *remote.Client, apiKey string, limit int, logger *slog.Logger) Source {
	return &openFDA{
		client: client,
		apiKey: apiKey,
		limit:  limit,
		logger: logger.With("system", "openfda"),
	}
}

// flag decodes a FAERS indicator that may be sent as a string or a number.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	v := string(bytes.Trim(data, `"`))
	*f = flag(v == "1")
	return nil
}

type eventResponse struct {
	Meta struct {
		Results struct {
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []struct {
		Serious     flag   `json:"serious"`
		ReceiveDate string `json:"receivedate"`
		Patient     struct {
			Reaction []struct {
				Term string `json:"reactionmeddrapt"`
			} `json:"reaction"`
		} `json:"patient"`
	} `json:"results"`
}

// SearchQuery builds the conjunctive medicinal product search expression.
func SearchQuery(terms []string) string {
	clauses := make([]string, len(terms))
	for i, t := range terms {
		clauses[i] = fmt.Sprintf("patient.drug.medicinalproduct:%s", strconv.Quote(t))
	}
	return strings.Join(clauses, " AND ")
}

func (o *openFDA) Search(ctx context.Context, terms []string) (*Page, error) {
	params := url.Values{
		"search": {SearchQuery(terms)},
		"limit":  {strconv.Itoa(o.limit)},
	}
	if o.apiKey != "" {
		params.Set("api_key", o.apiKey)
	}

	var resp eventResponse
	err := o.client.GetJSON(ctx, "drug/event.json", params, &resp)
	if lookup.IsNotFound(err) {
		return &Page{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("adverse events for %s: %w", strings.Join(terms, "+"), err)
	}

	page := &Page{
		Total:   resp.Meta.Results.Total,
		Reports: make([]Report, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		report := Report{
			Serious:     bool(r.Serious),
			ReceiveDate: r.ReceiveDate,
		}
		for _, rx := range r.Patient.Reaction {
			report.Reactions = append(report.Reactions, rx.Term)
		}
		page.Reports = append(page.Reports, report)
	}

	o.logger.InfoContext(ctx, "adverse event search",
		"terms", terms,
		"total", page.Total,
		"sample", len(page.Reports),
	)
	return page, nil
}
