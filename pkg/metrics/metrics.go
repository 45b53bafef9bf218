// Package metrics provides Prometheus collectors for the HTTP surface and
// the lookup pipeline. All collectors register with the default registry
// during package initialization.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugx_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drugx_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	LookupOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugx_lookup_outcomes_total",
			Help: "Terminal outcomes of pipeline stage lookups",
		},
		[]string{"stage", "status"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drugx_stage_duration_seconds",
			Help:    "Pipeline stage latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	FailedLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugx_failed_lookups_total",
			Help: "Failed lookup events recorded, by source tag",
		},
		[]string{"source"},
	)

	SynthesisCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugx_synthesis_calls_total",
			Help: "Synthesis provider attempts",
		},
		[]string{"provider", "status"},
	)

	RateLimiterBuckets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drugx_rate_limiter_buckets",
			Help: "Client buckets currently tracked by the API rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		LookupOutcomes,
		StageDuration,
		FailedLookups,
		SynthesisCalls,
		RateLimiterBuckets,
	)
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
