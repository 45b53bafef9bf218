package drugs

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/drugx/pkg/lookup"
	"github.com/JaimeStill/drugx/pkg/remote"
)

var saltSuffix = regexp.MustCompile(
	`(?i)[\s-](sodium|hydrochloride|sulfate|tartrate|citrate|phosphate|acetate|chloride|maleate|succinate|fumarate|lactate|hcl|er|sr|xl|cr)$`,
)

type rxnorm struct {
	client *remote.Client
	logger *slog.Logger
}

// NewRxNorm creates an Authority backed by the RxNav REST and RxClass APIs.
func NewRxNorm(client *remote.Client, logger *slog.Logger) Authority {
	return &rxnorm{
		client: client,
		logger: logger.With("system", "rxnorm"),
	}
}

func (r *rxnorm) ExactMatch(ctx context.Context, name string) (string, error) {
	var resp struct {
		IDGroup struct {
			RxNormID []string `json:"rxnormId"`
		} `json:"idGroup"`
	}

	params := url.Values{"name": {name}, "search": {"2"}}
	if err := r.client.GetJSON(ctx, "rxcui.json", params, &resp); err != nil {
		return "", fmt.Errorf("exact match %q: %w", name, err)
	}
	if len(resp.IDGroup.RxNormID) == 0 {
		return "", fmt.Errorf("exact match %q: %w", name, lookup.ErrNotFound)
	}
	return resp.IDGroup.RxNormID[0], nil
}

func (r *rxnorm) ApproximateMatch(ctx context.Context, term string) ([]Candidate, error) {
	var resp struct {
		ApproximateGroup struct {
			Candidate []struct {
				RxCUI string `json:"rxcui"`
				Name  string `json:"name"`
				Score string `json:"score"`
				Rank  string `json:"rank"`
			} `json:"candidate"`
		} `json:"approximateGroup"`
	}

	params := url.Values{"term": {term}, "maxEntries": {"5"}}
	if err := r.client.GetJSON(ctx, "approximateTerm.json", params, &resp); err != nil {
		return nil, fmt.Errorf("approximate match %q: %w", term, err)
	}

	candidates := make([]Candidate, 0, len(resp.ApproximateGroup.Candidate))
	for _, c := range resp.ApproximateGroup.Candidate {
		score, _ := strconv.ParseFloat(c.Score, 64)
		rank, err := strconv.Atoi(c.Rank)
		if err != nil {
			rank = 1
		}
		candidates = append(candidates, Candidate{
			RxCUI: c.RxCUI,
			Name:  validName(c.Name),
			Score: score,
			Rank:  rank,
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})
	return candidates, nil
}

func (r *rxnorm) SpellingSuggestions(ctx context.Context, name string) ([]string, error) {
	var resp struct {
		SuggestionGroup struct {
			SuggestionList *struct {
				Suggestion []string `json:"suggestion"`
			} `json:"suggestionList"`
		} `json:"suggestionGroup"`
	}

	params := url.Values{"name": {name}}
	if err := r.client.GetJSON(ctx, "spellingsuggestions.json", params, &resp); err != nil {
		return nil, fmt.Errorf("spelling suggestions %q: %w", name, err)
	}
	if resp.SuggestionGroup.SuggestionList == nil {
		return nil, nil
	}
	return resp.SuggestionGroup.SuggestionList.Suggestion, nil
}

// Ingredient prefers the related IN concept, then the concept's own
// name with any trailing salt or release suffix removed.
func (r *rxnorm) Ingredient(ctx context.Context, rxcui string) (string, error) {
	var related struct {
		RelatedGroup struct {
			ConceptGroup []struct {
				TTY               string `json:"tty"`
				ConceptProperties []struct {
					Name string `json:"name"`
				} `json:"conceptProperties"`
			} `json:"conceptGroup"`
		} `json:"relatedGroup"`
	}

	path := "rxcui/" + url.PathEscape(rxcui) + "/related.json"
	err := r.client.GetJSON(ctx, path, url.Values{"tty": {"IN"}}, &related)
	if err == nil {
		for _, g := range related.RelatedGroup.ConceptGroup {
			if g.TTY == "IN" && len(g.ConceptProperties) > 0 && g.ConceptProperties[0].Name != "" {
				return strings.TrimSpace(g.ConceptProperties[0].Name), nil
			}
		}
	} else {
		r.logger.InfoContext(ctx, "related ingredient lookup failed", "rxcui", rxcui, "error", err)
	}

	var props struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	}

	path = "rxcui/" + url.PathEscape(rxcui) + "/properties.json"
	if err := r.client.GetJSON(ctx, path, nil, &props); err != nil {
		return "", fmt.Errorf("ingredient for %s: %w", rxcui, err)
	}

	name := StripSaltSuffix(props.Properties.Name)
	if name == "" {
		return "", fmt.Errorf("ingredient for %s: %w", rxcui, lookup.ErrNotFound)
	}
	return name, nil
}

func (r *rxnorm) Classes(ctx context.Context, rxcui string) (map[string][]string, error) {
	var resp struct {
		RxclassDrugInfoList struct {
			RxclassDrugInfo []struct {
				RxclassMinConceptItem struct {
					ClassID   string `json:"classId"`
					ClassName string `json:"className"`
					ClassType string `json:"classType"`
				} `json:"rxclassMinConceptItem"`
				RelaSource string `json:"relaSource"`
			} `json:"rxclassDrugInfo"`
		} `json:"rxclassDrugInfoList"`
	}

	params := url.Values{"rxcui": {rxcui}}
	if err := r.client.GetJSON(ctx, "rxclass/class/byRxcui.json", params, &resp); err != nil {
		return nil, fmt.Errorf("classes for %s: %w", rxcui, err)
	}

	sets := map[string]map[string]struct{}{
		ClassEPC: {},
		ClassMOA: {},
		ClassPE:  {},
	}
	atc := make(map[string]string)

	for _, info := range resp.RxclassDrugInfoList.RxclassDrugInfo {
		item := info.RxclassMinConceptItem
		if item.ClassName == "" {
			continue
		}

		kind := strings.ToUpper(item.ClassType)
		switch {
		case strings.HasPrefix(kind, "ATC"):
			if info.RelaSource == "ATC" || info.RelaSource == "ATCPROD" {
				atc[item.ClassID] = item.ClassName
			}
		case kind == "EPC" || kind == "MOA" || kind == "PE":
			sets[strings.ToLower(kind)][item.ClassName] = struct{}{}
		}
	}

	classes := EmptyClasses()
	for kind, set := range sets {
		for name := range set {
			classes[kind] = append(classes[kind], name)
		}
		slices.Sort(classes[kind])
	}

	ids := make([]string, 0, len(atc))
	for id := range atc {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		name := atc[id]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		classes[ClassATC] = append(classes[ClassATC], name)
	}

	return classes, nil
}

// EmptyClasses returns a class map with every kind present and empty.
func EmptyClasses() map[string][]string {
	return map[string][]string{
		ClassEPC: {},
		ClassMOA: {},
		ClassPE:  {},
		ClassATC: {},
	}
}

// StripSaltSuffix lower-cases name and removes one trailing salt or
// release-form suffix.
func StripSaltSuffix(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSpace(saltSuffix.ReplaceAllString(name, ""))
}

func validName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "null":
		return ""
	}
	return strings.TrimSpace(name)
}
