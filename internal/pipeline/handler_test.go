package pipeline_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/drugx/internal/pipeline"
	"github.com/JaimeStill/drugx/pkg/lookup"
	"github.com/JaimeStill/drugx/pkg/routes"
)

func setupMux(h *pipeline.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestHandlerCheck(t *testing.T) {
	f := newFixture(map[string]string{"Tylenol": "acetaminophen", "Coumadin": "warfarin"})
	mux := setupMux(f.sys.Handler(64 * 1024))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check", strings.NewReader(`{"drugs":["Tylenol","Coumadin"]}`))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"drugs", "interactions", "adverse_events", "synthesis"} {
		if _, ok := body[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}
}

func TestHandlerCheckErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		setup  func(f *fixture)
		status int
	}{
		{"malformed json", `{"drugs":`, nil, http.StatusBadRequest},
		{"too few drugs", `{"drugs":["aspirin"]}`, nil, http.StatusBadRequest},
		{"too many drugs", `{"drugs":["a","b","c","d","e","f"]}`, nil, http.StatusBadRequest},
		{"empty body", ``, nil, http.StatusBadRequest},
		{"oversized body", `{"drugs":["` + strings.Repeat("x", 2048) + `","b"]}`, nil, http.StatusRequestEntityTooLarge},
		{
			"sources unavailable",
			`{"drugs":["a","b"]}`,
			func(f *fixture) {
				f.resolver.status = map[string]lookup.Status{"a": lookup.StatusUnavailable, "b": lookup.StatusUnavailable}
			},
			http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			if tt.setup != nil {
				tt.setup(f)
			}
			mux := setupMux(f.sys.Handler(1024))

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/check", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
