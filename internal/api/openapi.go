package api

import (
	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/pkg/openapi"
)

var (
	lookupStatus = openapi.Enum("ok", "not_found", "ambiguous", "unavailable", "skipped")
	severity     = openapi.Enum("Minor", "Moderate", "Major", "Unknown")
)

func newSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(schemas(cfg))
	spec.Paths = paths()
	return spec
}

func paths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/check": {
			Post: &openapi.Operation{
				Summary:     "Check a drug list for interactions",
				Description: "Resolves each name against RxNorm, looks up every pair in DDInter, summarizes openFDA adverse event reports, and narrates the findings.",
				Tags:        []string{"Check"},
				RequestBody: openapi.RequestBodyJSON("CheckRequest", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Interaction report", "Report"),
					400: openapi.ResponseRef("BadRequest"),
					413: openapi.ResponseRef("PayloadTooLarge"),
					429: openapi.ResponseRef("TooManyRequests"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/failures": {
			Get: &openapi.Operation{
				Summary: "List failed lookups",
				Tags:    []string{"Failures"},
				Parameters: openapi.PageParams(
					openapi.QueryParam("source", "string", "Exact source tag", false),
					openapi.QueryParam("drug", "string", "Drug name contained in the event", false),
					openapi.QueryParam("since", "string", "RFC 3339 lower bound on failed_at", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of failed lookups", "FailurePage"),
					400: openapi.ResponseRef("BadRequest"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/failures/summary": {
			Get: &openapi.Operation{
				Summary: "Count failed lookups per source",
				Tags:    []string{"Failures"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("window", "string", "Trailing window as a duration (default 24h)", false),
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Failure summary", "FailureSummary"),
					400: openapi.ResponseRef("BadRequest"),
				},
			},
		},
		"/failures/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a failed lookup",
				Tags:       []string{"Failures"},
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Failure ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Failed lookup", "FailureEvent"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
		"/interactions": {
			Get: &openapi.Operation{
				Summary: "List curated interactions",
				Tags:    []string{"Interactions"},
				Parameters: openapi.PageParams(
					openapi.QueryParam("drug", "string", "Drug name on either side of the pair", false),
					openapi.QueryParam("severity", "string", "Minor, Moderate, Major, or Unknown", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of interactions", "InteractionPage"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/interactions/pair": {
			Get: &openapi.Operation{
				Summary: "Find the curated interaction for a pair",
				Tags:    []string{"Interactions"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("a", "string", "First drug name", true),
					openapi.QueryParam("b", "string", "Second drug name", true),
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Interaction record", "Interaction"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
	}
}

func schemas(cfg *config.Config) map[string]*openapi.Schema {
	str := openapi.String()
	strList := openapi.ArrayOf(str)
	integer := openapi.Integer()

	drugs := openapi.ArrayOf(str)
	drugs.MinItems = &cfg.Pipeline.MinDrugs
	drugs.MaxItems = &cfg.Pipeline.MaxDrugs
	drugs.Example = []string{"warfarin", "aspirin"}

	return map[string]*openapi.Schema{
		"CheckRequest": openapi.Object(map[string]*openapi.Schema{"drugs": drugs}, "drugs"),
		"ResolvedDrug": openapi.Object(map[string]*openapi.Schema{
			"query":           str,
			"rxcui":           str,
			"name":            str,
			"matched_term":    str,
			"classes":         {Type: "object", Description: "Class type to class names"},
			"resolution_path": openapi.Enum("exact", "approximate", "spelling_suggestion", "synonym", "unresolved"),
			"status":          lookupStatus,
			"candidates":      strList,
		}),
		"InteractionResult": openapi.Object(map[string]*openapi.Schema{
			"drugs":                 strList,
			"status":                lookupStatus,
			"match":                 openapi.Enum("direct", "synonym"),
			"severity":              severity,
			"categories":            strList,
			"category_explanations": {Type: "object"},
			"note":                  str,
			"error":                 str,
		}),
		"AdverseEvents": openapi.Object(map[string]*openapi.Schema{
			"drugs":            strList,
			"matched_terms":    strList,
			"status":           lookupStatus,
			"n_reports":        integer,
			"n_serious":        integer,
			"top_reactions":    strList,
			"last_report_date": openapi.Formatted("date"),
			"sample_size":      integer,
			"reason":           str,
			"error":            str,
		}),
		"Synthesis": openapi.Object(map[string]*openapi.Schema{
			"status":   openapi.Enum("success", "unavailable"),
			"provider": str,
			"analysis": str,
			"error":    str,
		}),
		"Report": openapi.Object(map[string]*openapi.Schema{
			"drugs":          openapi.ArrayOf(openapi.SchemaRef("ResolvedDrug")),
			"interactions":   openapi.ArrayOf(openapi.SchemaRef("InteractionResult")),
			"adverse_events": openapi.SchemaRef("AdverseEvents"),
			"synthesis":      openapi.SchemaRef("Synthesis"),
		}),
		"FailureEvent": openapi.Object(map[string]*openapi.Schema{
			"id":        openapi.Formatted("uuid"),
			"drugs":     strList,
			"source":    str,
			"failed_at": openapi.Formatted("date-time"),
		}),
		"FailureSummary": openapi.Object(map[string]*openapi.Schema{
			"since": openapi.Formatted("date-time"),
			"total": integer,
			"sources": openapi.ArrayOf(openapi.Object(map[string]*openapi.Schema{
				"source": str,
				"count":  integer,
			})),
		}),
		"FailurePage": openapi.Page("FailureEvent"),
		"Interaction": openapi.Object(map[string]*openapi.Schema{
			"id":           integer,
			"ddinter_id_a": str,
			"ddinter_id_b": str,
			"drug_a":       str,
			"drug_b":       str,
			"severity":     severity,
			"categories":   strList,
		}),
		"InteractionPage": openapi.Page("Interaction"),
	}
}
