package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/internal/infrastructure"
	"github.com/JaimeStill/drugx/pkg/database"
)

func unreachableInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(&config.Config{
		Database: database.Config{
			Host:            "127.0.0.1",
			Port:            1,
			Name:            "drugx",
			User:            "drugx",
			SSLMode:         "disable",
			MaxOpenConns:    2,
			MaxIdleConns:    1,
			ConnMaxLifetime: "1m",
			ConnTimeout:     "1s",
		},
		LogLevel:  "error",
		LogFormat: "text",
	})
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })
	return infra
}

func decodeProbe(t *testing.T, rec *httptest.ResponseRecorder) probe {
	t.Helper()
	var p probe
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	healthz(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK || decodeProbe(t, rec).Status != "ok" {
		t.Errorf("healthz: %d %s", rec.Code, rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	infra := unreachableInfra(t)
	handler := readyz(infra)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("before startup: got %d, want 503", rec.Code)
	}
	if p := decodeProbe(t, rec); p.Status != "starting" {
		t.Errorf("before startup: got %+v", p)
	}

	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("startup: %v", err)
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("database down: got %d, want 503", rec.Code)
	}
	if p := decodeProbe(t, rec); p.Status != "degraded" || p.Database != "unavailable" {
		t.Errorf("database down: got %+v", p)
	}
}
