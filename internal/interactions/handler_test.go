package interactions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/drugx/internal/interactions"
	"github.com/JaimeStill/drugx/pkg/pagination"
)

type mockSystem struct {
	listFn      func(ctx context.Context, page pagination.PageRequest, filters interactions.Filters) (*pagination.PageResult[interactions.Record], error)
	findFn      func(ctx context.Context, a, b string) (*interactions.Record, error)
	provisionFn func(ctx context.Context, path string) (int, error)
}

func (m *mockSystem) Handler() *interactions.Handler {
	return interactions.NewHandler(m, discardLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters interactions.Filters) (*pagination.PageResult[interactions.Record], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, a, b string) (*interactions.Record, error) {
	return m.findFn(ctx, a, b)
}

func (m *mockSystem) Provision(ctx context.Context, path string) (int, error) {
	return m.provisionFn(ctx, path)
}

func setupMux(h *interactions.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerList(t *testing.T) {
	var captured interactions.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f interactions.Filters) (*pagination.PageResult[interactions.Record], error) {
			captured = f
			result := pagination.NewPageResult([]interactions.Record{aspirinWarfarin()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, httptest.NewRequest("GET", "/interactions?drug=warfarin&severity=Major", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if captured.Drug == nil || *captured.Drug != "warfarin" {
		t.Errorf("drug filter: got %v", captured.Drug)
	}

	var body pagination.PageResult[interactions.Record]
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Severity != interactions.SeverityMajor {
		t.Errorf("body: got %+v", body)
	}
}

func TestHandlerPair(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"found", "/interactions/pair?a=Warfarin&b=aspirin", http.StatusOK},
		{"missing", "/interactions/pair?a=water&b=aspirin", http.StatusNotFound},
		{"invalid", "/interactions/pair?a=aspirin", http.StatusBadRequest},
	}

	var queried [2]string
	sys := &mockSystem{
		findFn: func(_ context.Context, a, b string) (*interactions.Record, error) {
			queried = [2]string{a, b}
			if a == "aspirin" && b == "warfarin" {
				r := aspirinWarfarin()
				return &r, nil
			}
			return nil, interactions.ErrNotFound
		},
	}
	mux := setupMux(sys.Handler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.url, nil))
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}

	if queried != [2]string{"aspirin", "water"} {
		t.Errorf("pair not normalized: got %v", queried)
	}
}
