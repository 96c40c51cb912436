package digest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallez/jobhawk/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubLister struct {
	jobs []model.JobOffer
}

func (s *stubLister) Run(context.Context) []model.JobOffer { return s.jobs }

type recordingNotifier struct {
	notified [][]model.JobOffer
	err      error
}

func (r *recordingNotifier) Notify(jobs []model.JobOffer) error {
	r.notified = append(r.notified, jobs)
	return r.err
}

var digestNow = time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)

func newTestDigest(jobs []model.JobOffer, settings *Settings, notifier *recordingNotifier) *Digest {
	d := New(&stubLister{jobs: jobs}, notifier, settings, 14*24*time.Hour, 70, discardLogger())
	d.now = func() time.Time { return digestNow }
	return d
}

func TestSelect(t *testing.T) {
	recent := digestNow.Add(-48 * time.Hour)
	stale := digestNow.Add(-20 * 24 * time.Hour)

	jobs := []model.JobOffer{
		{ID: "high-score", Date: recent, FitScore: 85, Status: model.StatusApplied},
		{ID: "untriaged", Date: recent, FitScore: 40, Status: model.StatusNew},
		{ID: "triaged-low", Date: recent, FitScore: 40, Status: model.StatusRejected},
		{ID: "stale-high", Date: stale, FitScore: 95, Status: model.StatusNew},
		{ID: "search-intent", Date: recent, FitScore: 90, Status: model.StatusNew, SearchIntent: true},
	}

	d := newTestDigest(jobs, NewSettings(true), &recordingNotifier{})
	selected := d.Select(jobs)

	want := map[string]bool{"high-score": true, "untriaged": true}
	if len(selected) != len(want) {
		t.Fatalf("expected %d jobs, got %d: %v", len(want), len(selected), ids(selected))
	}
	for _, j := range selected {
		if !want[j.ID] {
			t.Errorf("unexpected selection %q", j.ID)
		}
	}
}

func ids(jobs []model.JobOffer) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestSend_DisabledToggleSkips(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newTestDigest([]model.JobOffer{
		{ID: "j", Date: digestNow.Add(-time.Hour), FitScore: 90},
	}, NewSettings(false), notifier)

	if err := d.Send(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.notified) != 0 {
		t.Errorf("expected no notification while disabled, got %d", len(notifier.notified))
	}
}

func TestSend_ForceBypassesToggle(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newTestDigest([]model.JobOffer{
		{ID: "j", Date: digestNow.Add(-time.Hour), FitScore: 90},
	}, NewSettings(false), notifier)

	if err := d.Send(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.notified))
	}
}

func TestSend_NothingToReportSkipsNotifier(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newTestDigest(nil, NewSettings(true), notifier)

	if err := d.Send(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.notified) != 0 {
		t.Errorf("expected no notification for an empty selection, got %d", len(notifier.notified))
	}
}

func TestSend_NotifierErrorSurfaced(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("webhook down")}
	d := newTestDigest([]model.JobOffer{
		{ID: "j", Date: digestNow.Add(-time.Hour), FitScore: 90},
	}, NewSettings(true), notifier)

	if err := d.Send(context.Background(), false); err == nil {
		t.Fatal("expected the notifier error to surface")
	}
}

func TestSettings_UpdateAndSnapshot(t *testing.T) {
	s := NewSettings(true)

	daily, offers := s.Snapshot()
	if !daily || !offers {
		t.Errorf("unexpected initial settings: %v %v", daily, offers)
	}

	s.Update(false, false)
	daily, offers = s.Snapshot()
	if daily || offers {
		t.Errorf("update not applied: %v %v", daily, offers)
	}
}

func TestStart_RejectsBadCronSpec(t *testing.T) {
	d := newTestDigest(nil, NewSettings(true), &recordingNotifier{})

	if err := d.Start(context.Background(), "not a cron spec"); err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
	d.Stop() // no-op when the scheduler never started
}

func TestStartStop(t *testing.T) {
	d := newTestDigest(nil, NewSettings(true), &recordingNotifier{})

	if err := d.Start(context.Background(), "30 5,17 * * *"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Stop()
}
