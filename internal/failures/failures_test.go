package failures_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/drugx/internal/alerts"
	"github.com/JaimeStill/drugx/internal/failures"
	"github.com/JaimeStill/drugx/pkg/query"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWriter struct {
	mu       sync.Mutex
	inserted []failures.Event
	ctxErrs  []error
	err      error
}

func (w *fakeWriter) Insert(ctx context.Context, drugs []string, source failures.Source) (*failures.Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctxErrs = append(w.ctxErrs, ctx.Err())
	if w.err != nil {
		return nil, w.err
	}
	e := failures.Event{
		Drugs:    drugs,
		Source:   source,
		FailedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	w.inserted = append(w.inserted, e)
	return &e, nil
}

type alertSpy struct {
	mu     sync.Mutex
	alerts []alerts.Alert
	err    error
}

func (a *alertSpy) Dispatch(alert alerts.Alert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
	return a.err
}

func TestRecordPersistsAndAlerts(t *testing.T) {
	w := &fakeWriter{}
	a := &alertSpy{}
	rec := failures.NewRecorder(w, a, discardLogger(), time.Second)

	rec.Record(context.Background(), []string{"aspirin", "warfarin"}, failures.SourceDDInterNoInteraction)

	if len(w.inserted) != 1 {
		t.Fatalf("inserted: got %d, want 1", len(w.inserted))
	}
	if w.inserted[0].Source != failures.SourceDDInterNoInteraction {
		t.Errorf("source: got %s", w.inserted[0].Source)
	}
	if len(a.alerts) != 1 {
		t.Fatalf("alerts: got %d, want 1", len(a.alerts))
	}
	if a.alerts[0].Title != "DrugX Alert: lookup failed (ddinter_no_interaction)" {
		t.Errorf("title: got %q", a.alerts[0].Title)
	}
	want := "Drugs: aspirin, warfarin\nSource: ddinter_no_interaction\nTime: 2026-03-01T12:00:00Z"
	if a.alerts[0].Message != want {
		t.Errorf("message: got %q, want %q", a.alerts[0].Message, want)
	}
}

func TestRecordAbsorbsWriteFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("connection refused")}
	a := &alertSpy{err: alerts.ErrQueueFull}
	rec := failures.NewRecorder(w, a, discardLogger(), time.Second)

	rec.Record(context.Background(), []string{"xyzzy"}, failures.SourceRxNormPubChem)

	if len(a.alerts) != 1 {
		t.Errorf("alert should still be dispatched after a write failure, got %d", len(a.alerts))
	}
}

func TestRecordDetachesFromCallerCancellation(t *testing.T) {
	w := &fakeWriter{}
	rec := failures.NewRecorder(w, &alertSpy{}, discardLogger(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec.Record(ctx, []string{"aspirin"}, failures.SourceOpenFDAError)

	if len(w.ctxErrs) != 1 || w.ctxErrs[0] != nil {
		t.Errorf("write context should not inherit cancellation, got %v", w.ctxErrs)
	}
}

func TestRecordConcurrent(t *testing.T) {
	w := &fakeWriter{}
	a := &alertSpy{}
	rec := failures.NewRecorder(w, a, discardLogger(), time.Second)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			rec.Record(context.Background(), []string{"a", "b"}, failures.SourceOpenFDANoReports)
		})
	}
	wg.Wait()

	if len(w.inserted) != 20 {
		t.Errorf("inserted: got %d, want 20", len(w.inserted))
	}
	if len(a.alerts) != 20 {
		t.Errorf("alerts: got %d, want 20", len(a.alerts))
	}
}

type fakeSummarizer struct {
	summary *failures.Summary
	err     error
	since   time.Time
}

func (f *fakeSummarizer) Summary(_ context.Context, since time.Time) (*failures.Summary, error) {
	f.since = since
	return f.summary, f.err
}

func TestDigestRun(t *testing.T) {
	s := &fakeSummarizer{summary: &failures.Summary{
		Total: 5,
		Sources: []failures.SourceCount{
			{Source: failures.SourceRxNormPubChem, Count: 3},
			{Source: failures.SourceOpenFDAError, Count: 2},
		},
	}}
	a := &alertSpy{}
	d := failures.NewDigest(s, a, "08:00", 24*time.Hour, discardLogger())

	before := time.Now()
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if s.since.After(before.Add(-24*time.Hour).Add(time.Second)) || s.since.Before(before.Add(-24*time.Hour).Add(-time.Second)) {
		t.Errorf("since: got %v, want about 24h ago", s.since)
	}
	if len(a.alerts) != 1 {
		t.Fatalf("alerts: got %d, want 1", len(a.alerts))
	}
	if !strings.Contains(a.alerts[0].Title, "5 failed lookups") {
		t.Errorf("title: got %q", a.alerts[0].Title)
	}
	if a.alerts[0].Message != "rxnorm_pubchem: 3\nopenfda_error: 2" {
		t.Errorf("message: got %q", a.alerts[0].Message)
	}
}

func TestDigestRunQuietWindow(t *testing.T) {
	s := &fakeSummarizer{summary: &failures.Summary{}}
	a := &alertSpy{}
	d := failures.NewDigest(s, a, "08:00", 24*time.Hour, discardLogger())

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(a.alerts) != 0 {
		t.Errorf("quiet window should not alert, got %d", len(a.alerts))
	}
}

func TestDigestRunSummaryError(t *testing.T) {
	s := &fakeSummarizer{err: errors.New("db down")}
	d := failures.NewDigest(s, &alertSpy{}, "08:00", time.Hour, discardLogger())

	if err := d.Run(context.Background()); err == nil {
		t.Error("expected summary error to surface")
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"source": {"rxnorm_pubchem"},
		"drug":   {"warf"},
		"since":  {"2026-03-01"},
	}
	f := failures.FiltersFromQuery(values)

	if f.Source == nil || *f.Source != "rxnorm_pubchem" {
		t.Errorf("source: got %v", f.Source)
	}
	if f.Drug == nil || *f.Drug != "warf" {
		t.Errorf("drug: got %v", f.Drug)
	}
	if f.Since == nil || !f.Since.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("since: got %v", f.Since)
	}

	if f := failures.FiltersFromQuery(url.Values{"since": {"yesterday"}}); f.Since != nil {
		t.Errorf("unparseable since should be ignored, got %v", f.Since)
	}
}

func TestFiltersApply(t *testing.T) {
	source := "openfda_error"
	drug := "aspirin"
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f := failures.Filters{Source: &source, Drug: &drug, Since: &since}

	p := query.NewProjectionMap("public", "failed_drug_lookups", "f").
		Project("id", "ID").
		Project("drugs", "Drugs").
		Project("source", "Source").
		Project("failed_at", "FailedAt")

	sql, args := f.Apply(query.NewBuilder(p)).BuildCount()

	want := "SELECT COUNT(*) FROM public.failed_drug_lookups f WHERE f.source = $1 AND " +
		"EXISTS (SELECT 1 FROM jsonb_array_elements_text(f.drugs) AS e(v) WHERE e.v ILIKE $2) AND f.failed_at >= $3"
	if sql != want {
		t.Errorf("sql:\ngot  %s\nwant %s", sql, want)
	}
	if len(args) != 3 {
		t.Errorf("args: got %d, want 3", len(args))
	}
}
