package failures

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/JaimeStill/drugx/internal/alerts"
	"github.com/JaimeStill/drugx/pkg/lifecycle"
)

// Summarizer counts failed lookups since a point in time.
type Summarizer interface {
	Summary(ctx context.Context, since time.Time) (*Summary, error)
}

// Digest sends a daily alert summarizing recent failed lookups.
type Digest struct {
	summaries Summarizer
	alerter   Alerter
	at        string
	window    time.Duration
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

// NewDigest creates a Digest that runs daily at the HH:MM time at,
// covering the preceding window.
func NewDigest(s Summarizer, a Alerter, at string, window time.Duration, logger *slog.Logger) *Digest {
	return &Digest{
		summaries: s,
		alerter:   a,
		at:        at,
		window:    window,
		scheduler: gocron.NewScheduler(time.Local),
		logger:    logger.With("system", "digest"),
	}
}

// Start schedules the digest and stops the scheduler on shutdown.
func (d *Digest) Start(lc *lifecycle.Coordinator) error {
	_, err := d.scheduler.Every(1).Days().At(d.at).Do(func() {
		if err := d.Run(lc.Context()); err != nil {
			d.logger.Error("failure digest failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule digest: %w", err)
	}

	d.scheduler.StartAsync()
	d.logger.Info("failure digest scheduled", "at", d.at, "window", d.window)

	lc.OnShutdown("digest", func() {
		d.scheduler.Stop()
		d.logger.Info("failure digest stopped")
	})

	return nil
}

// Run summarizes the window ending now and dispatches one alert when
// any failures were recorded.
func (d *Digest) Run(ctx context.Context) error {
	since := time.Now().Add(-d.window)

	summary, err := d.summaries.Summary(ctx, since)
	if err != nil {
		return err
	}
	if summary.Total == 0 {
		d.logger.InfoContext(ctx, "no failed lookups in window", "since", since)
		return nil
	}

	return d.alerter.Dispatch(DigestAlert(summary, d.window))
}

// DigestAlert formats the summary alert for a window of failures.
func DigestAlert(s *Summary, window time.Duration) alerts.Alert {
	lines := make([]string, 0, len(s.Sources))
	for _, c := range s.Sources {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Source, c.Count))
	}

	return alerts.Alert{
		Title:   fmt.Sprintf("DrugX Digest: %d failed lookups in the last %s", s.Total, window),
		Message: strings.Join(lines, "\n"),
	}
}
