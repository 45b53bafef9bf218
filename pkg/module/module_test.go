package module_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/drugx/pkg/module"
)

// echo writes "<label> <path>?<query>" so tests can see what the inner
// handler received.
func echo(label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s?%s", label, r.URL.Path, r.URL.RawQuery)
	}
}

func TestNewPrefix(t *testing.T) {
	tests := []struct {
		prefix    string
		wantPanic bool
	}{
		{prefix: "/api"},
		{prefix: "/docs"},
		{prefix: "", wantPanic: true},
		{prefix: "api", wantPanic: true},
		{prefix: "/api/v1", wantPanic: true},
		{prefix: "/", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.prefix), func(t *testing.T) {
			defer func() {
				if r := recover(); (r != nil) != tt.wantPanic {
					t.Errorf("panic = %v, want panic %v", r, tt.wantPanic)
				}
			}()

			m := module.New(tt.prefix, http.NewServeMux())
			if m.Prefix() != tt.prefix {
				t.Errorf("prefix: got %s", m.Prefix())
			}
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	api := http.NewServeMux()
	api.HandleFunc("GET /", echo("api-root"))
	api.HandleFunc("GET /failures", echo("failures"))
	api.HandleFunc("GET /interactions/pair", echo("pair"))

	router := module.NewRouter()
	router.Mount(module.New("/api", api))
	router.HandleNative("GET /healthz", echo("healthz"))
	router.HandleNative("GET /apix", echo("native"))
	router.Handle("GET /metrics", echo("metrics"))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"module root", "/api", "api-root /?"},
		{"prefix stripped", "/api/failures", "failures /failures?"},
		{"trailing slash", "/api/failures/", "failures /failures?"},
		{"query preserved", "/api/interactions/pair?a=warfarin&b=aspirin", "pair /interactions/pair?a=warfarin&b=aspirin"},
		{"native route", "/healthz", "healthz /healthz?"},
		{"handler route", "/metrics", "metrics /metrics?"},
		{"prefix is a whole segment", "/apix", "native /apix?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	var order []string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /check", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	m := module.New("/api", mux)
	for _, name := range []string{"cors", "logger", "ratelimit"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	for range 2 {
		m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/check", nil))
	}

	want := []string{"cors", "logger", "ratelimit", "handler", "cors", "logger", "ratelimit", "handler"}
	if !slices.Equal(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}
}
