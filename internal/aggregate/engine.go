// Package aggregate fans out to all configured source adapters, tolerates
// individual failures, and returns one normalized, deduplicated list.
package aggregate

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dgallez/jobhawk/internal/model"
)

// Engine collects job offers from a fixed set of adapters. Adapter
// registration order is significant: it decides flatten order and therefore
// which duplicate survives dedup.
type Engine struct {
	adapters []model.SourceAdapter
	timeout  time.Duration // per-adapter budget
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an aggregation engine over the given adapters.
func New(adapters []model.SourceAdapter, timeout time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		adapters: adapters,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Collect runs every adapter concurrently, each under its own timeout. A
// failed or timed-out adapter contributes zero records and is logged; Collect
// itself never fails: all adapters failing yields an empty list, which is a
// valid outcome the caller must handle.
func (e *Engine) Collect(ctx context.Context) []model.JobOffer {
	results := make([][]model.JobOffer, len(e.adapters))

	var g errgroup.Group
	for i, a := range e.adapters {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			start := time.Now()
			jobs, err := a.FetchJobs(fetchCtx)
			if err != nil {
				e.logger.Warn("source adapter failed",
					"source", a.Name(),
					"elapsed", time.Since(start).Round(time.Millisecond),
					"error", err,
				)
				return nil // isolate: one adapter never fails the run
			}

			results[i] = jobs
			e.logger.Info("source adapter done",
				"source", a.Name(),
				"jobs", len(jobs),
				"elapsed", time.Since(start).Round(time.Millisecond),
			)
			return nil
		})
	}
	_ = g.Wait() // goroutines always return nil

	// Flatten in registration order, normalize, dedup first-seen-wins.
	seen := make(map[string]bool)
	var out []model.JobOffer
	for i := range results {
		for _, job := range results[i] {
			normalized := e.normalize(e.adapters[i].Name(), job)
			if seen[normalized.ID] {
				continue
			}
			seen[normalized.ID] = true
			out = append(out, normalized)
		}
	}

	return out
}

var markupRegex = regexp.MustCompile(`<[^>]*>`)

// normalize fills the defaults the JobOffer contract requires: a stable id
// (random when the source provides none), a posting date, a location sentinel,
// a markup-free description, and the canonical 0-100 score scale for
// adapter-seeded 1-5 scores.
func (e *Engine) normalize(source string, job model.JobOffer) model.JobOffer {
	if job.ID == "" {
		// Acceptable for sources where dedup is not meaningful.
		job.ID = source + "-" + uuid.NewString()
	}
	if job.Date.IsZero() {
		job.Date = e.now()
	}
	if strings.TrimSpace(job.Location) == "" {
		job.Location = "Belgique"
	}
	if job.Source == "" {
		job.Source = source
	}

	job.Description = strings.TrimSpace(markupRegex.ReplaceAllString(job.Description, ""))

	if job.SeededScore > 0 {
		score := int(job.SeededScore * 20)
		if score > 100 {
			score = 100
		}
		job.FitScore = score
	}

	return job
}
