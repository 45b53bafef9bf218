package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/drugx/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Metrics returns middleware that records request counts and latency.
// Paths are labelled by their first two segments to bound cardinality.
func Metrics() Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := metricPath(r.URL.Path)
			metrics.HTTPRequestTotals.
				WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, path).
				Observe(time.Since(start).Seconds())
		})
	}
}

func metricPath(path string) string {
	segments := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			segments++
			if segments == 3 {
				return path[:i]
			}
		}
	}
	return path
}
