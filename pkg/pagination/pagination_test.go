package pagination_test

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/drugx/pkg/pagination"
	"github.com/JaimeStill/drugx/pkg/query"
)

var browseConfig = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         pagination.Config
		env         map[string]string
		wantDefault int
		wantMax     int
		wantErr     string
	}{
		{name: "defaults", wantDefault: 20, wantMax: 100},
		{
			name:        "env overrides",
			env:         map[string]string{"PAGE_DEFAULT": "50", "PAGE_MAX": "200"},
			wantDefault: 50,
			wantMax:     200,
		},
		{
			name:        "unparsable env ignored",
			cfg:         pagination.Config{DefaultPageSize: 10, MaxPageSize: 40},
			env:         map[string]string{"PAGE_DEFAULT": "ten"},
			wantDefault: 10,
			wantMax:     40,
		},
		{
			name:    "default above max",
			cfg:     pagination.Config{DefaultPageSize: 200, MaxPageSize: 100},
			wantErr: "default_page_size cannot exceed max_page_size",
		},
		{
			name:    "env drives default above max",
			env:     map[string]string{"PAGE_DEFAULT": "500"},
			wantErr: "cannot exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := tt.cfg
			err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "PAGE_DEFAULT", MaxPageSize: "PAGE_MAX"})

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("finalize failed: %v", err)
			}
			if cfg.DefaultPageSize != tt.wantDefault || cfg.MaxPageSize != tt.wantMax {
				t.Errorf("got %d/%d, want %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize, tt.wantDefault, tt.wantMax)
			}
		})
	}
}

func TestConfigMergeKeepsUnsetFields(t *testing.T) {
	base := browseConfig
	base.Merge(&pagination.Config{MaxPageSize: 250})

	if base.DefaultPageSize != 20 || base.MaxPageSize != 250 {
		t.Errorf("merge: got %+v", base)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantSize   int
		wantOffset int
		wantSearch string
		wantSort   []query.SortField
	}{
		{name: "empty", query: "", wantPage: 1, wantSize: 20},
		{
			name:       "explicit",
			query:      "page=3&page_size=10&search=warfarin&sort=source,-failedAt",
			wantPage:   3,
			wantSize:   10,
			wantOffset: 20,
			wantSearch: "warfarin",
			wantSort:   []query.SortField{{Field: "source"}, {Field: "failedAt", Descending: true}},
		},
		{name: "page below one", query: "page=-4&page_size=5", wantPage: 1, wantSize: 5},
		{name: "size clamped", query: "page=2&page_size=5000", wantPage: 2, wantSize: 100, wantOffset: 100},
		{name: "garbage numbers", query: "page=two&page_size=x", wantPage: 1, wantSize: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			req := pagination.PageRequestFromQuery(values, browseConfig)

			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("page: got %d/%d, want %d/%d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}
			if got := req.Offset(); got != tt.wantOffset {
				t.Errorf("offset: got %d, want %d", got, tt.wantOffset)
			}

			switch {
			case tt.wantSearch == "" && req.Search != nil:
				t.Errorf("search: got %q, want none", *req.Search)
			case tt.wantSearch != "" && (req.Search == nil || *req.Search != tt.wantSearch):
				t.Errorf("search: got %v, want %q", req.Search, tt.wantSearch)
			}

			if !slices.Equal([]query.SortField(req.Sort), tt.wantSort) {
				t.Errorf("sort: got %v, want %v", req.Sort, tt.wantSort)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		data      []string
		total     int
		pageSize  int
		wantPages int
	}{
		{"exact division", []string{"a"}, 100, 20, 5},
		{"remainder", []string{"a"}, 101, 20, 6},
		{"short page", []string{"a"}, 5, 20, 1},
		{"empty", nil, 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult(tt.data, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantPages {
				t.Errorf("total pages: got %d, want %d", result.TotalPages, tt.wantPages)
			}

			body, err := json.Marshal(result)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(body), `"data":[`) {
				t.Errorf("data should render as an array: %s", body)
			}
		})
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := pagination.SortFields{{Field: "source"}, {Field: "failedAt", Descending: true}}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "string form", input: `"source,-failedAt"`},
		{name: "array form", input: `[{"Field":"source"},{"Field":"failedAt","Descending":true}]`},
		{name: "number", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got pagination.SortFields
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if !slices.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestPageRequestApply(t *testing.T) {
	projection := query.NewProjectionMap("public", "ddinter", "d").
		Project("drug_a", "DrugA").
		Project("drug_b", "DrugB")

	search := "warf"
	req := pagination.PageRequest{
		Page:     1,
		PageSize: 20,
		Search:   &search,
		Sort:     pagination.SortFields{{Field: "DrugB", Descending: true}},
	}

	qb := query.NewBuilder(projection, query.SortField{Field: "DrugA"})
	sql, args := req.Apply(qb, "DrugA", "DrugB").Build()

	want := "SELECT d.drug_a, d.drug_b FROM public.ddinter d WHERE (d.drug_a ILIKE $1 OR d.drug_b ILIKE $2) ORDER BY d.drug_b DESC"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 2 || args[0] != "%warf%" {
		t.Errorf("args = %v", args)
	}

	t.Run("no sort keeps default", func(t *testing.T) {
		req := pagination.PageRequest{Page: 1, PageSize: 20}
		sql, args := req.Apply(query.NewBuilder(projection, query.SortField{Field: "DrugA"})).Build()

		want := "SELECT d.drug_a, d.drug_b FROM public.ddinter d ORDER BY d.drug_a ASC"
		if sql != want {
			t.Errorf("sql:\n got %s\nwant %s", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})
}
