// Package digest selects noteworthy jobs from a pipeline run and reports them
// through a notifier, on demand or on a cron schedule.
package digest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dgallez/jobhawk/internal/model"
)

// JobLister is the pipeline-shaped collaborator the digest pulls from.
type JobLister interface {
	Run(ctx context.Context) []model.JobOffer
}

// Settings are the user-togglable notification switches, safe for concurrent
// use from API handlers and the cron goroutine.
type Settings struct {
	mu          sync.Mutex
	dailyDigest bool
	newOffers   bool
}

// NewSettings returns settings with the digest initially enabled or not.
func NewSettings(dailyDigest bool) *Settings {
	return &Settings{dailyDigest: dailyDigest, newOffers: true}
}

// Snapshot returns the current toggle values.
func (s *Settings) Snapshot() (dailyDigest, newOffers bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyDigest, s.newOffers
}

// Update overwrites the toggles.
func (s *Settings) Update(dailyDigest, newOffers bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyDigest = dailyDigest
	s.newOffers = newOffers
}

// Digest builds and sends periodic reports of recent, relevant jobs.
type Digest struct {
	lister   JobLister
	notifier model.Notifier
	settings *Settings
	window   time.Duration
	minScore int
	logger   *slog.Logger
	now      func() time.Time

	cron *cron.Cron
}

// New creates a digest reporter.
func New(lister JobLister, notifier model.Notifier, settings *Settings, window time.Duration, minScore int, logger *slog.Logger) *Digest {
	return &Digest{
		lister:   lister,
		notifier: notifier,
		settings: settings,
		window:   window,
		minScore: minScore,
		logger:   logger,
		now:      time.Now,
	}
}

// Select applies the reporting predicate: posted within the window AND
// (score at or above threshold OR still untriaged), real postings only.
func (d *Digest) Select(jobs []model.JobOffer) []model.JobOffer {
	since := d.now().Add(-d.window)

	var selected []model.JobOffer
	for _, j := range jobs {
		if j.SearchIntent {
			continue
		}
		if !j.Date.After(since) {
			continue
		}
		if j.FitScore >= d.minScore || j.Status == model.StatusNew {
			selected = append(selected, j)
		}
	}
	return selected
}

// Send runs the pipeline, selects the reportable jobs, and notifies. When
// force is false the user's dailyDigest toggle is honored.
func (d *Digest) Send(ctx context.Context, force bool) error {
	dailyDigest, _ := d.settings.Snapshot()
	if !dailyDigest && !force {
		d.logger.Info("digest skipped, disabled by user")
		return nil
	}

	jobs := d.Select(d.lister.Run(ctx))
	if len(jobs) == 0 {
		d.logger.Info("digest skipped, nothing to report")
		return nil
	}

	d.logger.Info("sending digest", "jobs", len(jobs))
	return d.notifier.Notify(jobs)
}

// Start schedules the digest on the given cron spec. Call Stop for a clean
// shutdown; in-flight sends are allowed to finish.
func (d *Digest) Start(ctx context.Context, cronSpec string) error {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		if err := d.Send(ctx, false); err != nil {
			d.logger.Error("scheduled digest failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	d.cron = c
	d.logger.Info("digest scheduler started", "spec", cronSpec)
	return nil
}

// Stop halts the scheduler and waits for a running send to complete.
func (d *Digest) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
	d.logger.Info("digest scheduler stopped")
}
