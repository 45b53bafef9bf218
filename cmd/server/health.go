package main

import (
	"net/http"

	"github.com/JaimeStill/drugx/internal/infrastructure"
	"github.com/JaimeStill/drugx/pkg/handlers"
)

type probe struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

func healthz(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, probe{Status: "ok"})
}

// readyz reports ready once startup hooks have finished and the
// interaction dataset's database still answers.
func readyz(infra *infrastructure.Infrastructure) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, probe{Status: "starting"})
			return
		}
		if err := infra.Database.Ping(r.Context()); err != nil {
			infra.Logger.Warn("readiness probe failed", "error", err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, probe{Status: "degraded", Database: "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, probe{Status: "ready", Database: "ok"})
	}
}
