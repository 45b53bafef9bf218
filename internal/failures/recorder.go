package failures

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/drugx/internal/alerts"
	"github.com/JaimeStill/drugx/pkg/metrics"
)

// Recorder is the append-only sink for failed lookups. Record never
// returns an error and never blocks on alert delivery.
type Recorder interface {
	Record(ctx context.Context, drugs []string, source Source)
}

// Writer persists a failed-lookup event.
type Writer interface {
	Insert(ctx context.Context, drugs []string, source Source) (*Event, error)
}

// Alerter enqueues an operator alert without blocking.
type Alerter interface {
	Dispatch(alert alerts.Alert) error
}

type recorder struct {
	writer  Writer
	alerter Alerter
	logger  *slog.Logger
	timeout time.Duration
}

// NewRecorder creates a Recorder that writes through w and alerts through a.
// Each write runs on a context detached from the caller with its own timeout.
func NewRecorder(w Writer, a Alerter, logger *slog.Logger, timeout time.Duration) Recorder {
	return &recorder{
		writer:  w,
		alerter: a,
		logger:  logger.With("system", "failures"),
		timeout: timeout,
	}
}

func (r *recorder) Record(ctx context.Context, drugs []string, source Source) {
	metrics.FailedLookups.WithLabelValues(string(source)).Inc()
	r.logger.WarnContext(ctx, "lookup failed", "drugs", drugs, "source", source)

	failedAt := time.Now().UTC()

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	event, err := r.writer.Insert(writeCtx, drugs, source)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed lookup not persisted", "source", source, "error", err)
	} else {
		failedAt = event.FailedAt
	}

	// Dispatch logs its own drops.
	_ = r.alerter.Dispatch(FailureAlert(drugs, source, failedAt))
}

// FailureAlert formats the operator alert for a single failed lookup.
func FailureAlert(drugs []string, source Source, at time.Time) alerts.Alert {
	return alerts.Alert{
		Title: fmt.Sprintf("DrugX Alert: lookup failed (%s)", source),
		Message: fmt.Sprintf(
			"Drugs: %s\nSource: %s\nTime: %s",
			strings.Join(drugs, ", "), source, at.Format(time.RFC3339),
		),
	}
}
