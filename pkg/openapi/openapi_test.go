package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/drugx/pkg/openapi"
)

func newSpec(t *testing.T) *openapi.Spec {
	t.Helper()
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return openapi.NewSpec(&cfg, "0.1.0")
}

func TestNewSpec(t *testing.T) {
	spec := newSpec(t)
	spec.AddServer("/api")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "DrugX API" || spec.Info.Version != "0.1.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Info.Description == "" {
		t.Error("description should default")
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Paths == nil {
		t.Fatal("paths should not be nil")
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing Error schema")
	}
	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "TooManyRequests", "ServiceUnavailable"} {
		r, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing default response: %s", name)
			continue
		}
		if r.Content["application/json"].Schema.Ref != "#/components/schemas/Error" {
			t.Errorf("%s should reference Error", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Report": openapi.Object(nil)})
	if _, ok := c.Schemas["Report"]; !ok {
		t.Error("Report schema not added")
	}
	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("Error schema should survive AddSchemas")
	}
}

func TestRefs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"schema", openapi.SchemaRef("Report").Ref, "#/components/schemas/Report"},
		{"response", openapi.ResponseRef("NotFound").Ref, "#/components/responses/NotFound"},
		{"request body", openapi.RequestBodyJSON("CheckRequest", true).Content["application/json"].Schema.Ref, "#/components/schemas/CheckRequest"},
		{"response body", openapi.ResponseJSON("ok", "Report").Content["application/json"].Schema.Ref, "#/components/schemas/Report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestParams(t *testing.T) {
	id := openapi.PathParam("id", "Failure ID")
	if id.In != "path" || !id.Required || id.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", id)
	}

	params := openapi.PageParams(openapi.QueryParam("severity", "string", "Severity", false))
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		if p.In != "query" || p.Required {
			t.Errorf("%s: in=%s required=%v", p.Name, p.In, p.Required)
		}
	}

	want := []string{"page", "page_size", "search", "sort", "severity"}
	if len(names) != len(want) {
		t.Fatalf("params: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("param %d: got %s, want %s", i, names[i], want[i])
		}
	}
}

func TestSchemaHelpers(t *testing.T) {
	enum := openapi.Enum("Minor", "Major")
	if enum.Type != "string" || len(enum.Enum) != 2 || enum.Enum[1] != "Major" {
		t.Errorf("enum: got %+v", enum)
	}

	page := openapi.Page("Interaction")
	data := page.Properties["data"]
	if data == nil || data.Type != "array" || data.Items.Ref != "#/components/schemas/Interaction" {
		t.Errorf("page data: got %+v", data)
	}
	for _, key := range []string{"total", "page", "page_size", "total_pages"} {
		if page.Properties[key] == nil {
			t.Errorf("page missing %s", key)
		}
	}
}

func TestDocumentAndServe(t *testing.T) {
	doc, err := newSpec(t).Document()
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}

	handler := openapi.ServeSpec(doc)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}
	if rec.Body.Len() != len(doc) {
		t.Errorf("body length: got %d, want %d", rec.Body.Len(), len(doc))
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	t.Run("conditional", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/openapi.json", nil)
		req.Header.Set("If-None-Match", etag)
		handler(rec, req)

		if rec.Code != http.StatusNotModified {
			t.Errorf("status: got %d, want 304", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Error("304 should have no body")
		}
	})

	t.Run("head", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("HEAD", "/openapi.json", nil))

		if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Errorf("head: status %d body %d", rec.Code, rec.Body.Len())
		}
	})
}

func TestConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_TITLE", "Interaction Checker")

	cfg := openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_TITLE", Description: "TEST_UNSET_DESC"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Title != "Interaction Checker" {
		t.Errorf("title: got %s", cfg.Title)
	}
	if cfg.Description != "Drug-drug interaction checks backed by RxNorm, DDInter, and openFDA adverse event reports." {
		t.Errorf("description should keep default, got %s", cfg.Description)
	}
}

func TestConfigMerge(t *testing.T) {
	base := openapi.Config{Title: "Base", Description: "kept"}
	base.Merge(&openapi.Config{Title: "Overlay"})

	if base.Title != "Overlay" || base.Description != "kept" {
		t.Errorf("merge: got %+v", base)
	}
}
