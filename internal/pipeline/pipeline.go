// Package pipeline sequences one full aggregation run: persisted statuses,
// source fan-out, enrichment, status overlay, recency sort.
package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgallez/jobhawk/internal/aggregate"
	"github.com/dgallez/jobhawk/internal/model"
	"github.com/dgallez/jobhawk/internal/scope"
	"github.com/dgallez/jobhawk/internal/scoring"
)

const summaryLength = 150

// Pipeline produces the enriched job list served to the API, the digest, and
// the triage UI.
type Pipeline struct {
	engine  *aggregate.Engine
	matcher *scoring.ProfileMatcher
	store   model.StatusStore
	logger  *slog.Logger
}

// New wires a pipeline with all its collaborators.
func New(engine *aggregate.Engine, matcher *scoring.ProfileMatcher, store model.StatusStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		engine:  engine,
		matcher: matcher,
		store:   store,
		logger:  logger,
	}
}

// Run executes one aggregation run and returns the enriched list, newest
// first. It never fails: a total source outage yields an empty list, and a
// broken status store degrades to treating every job as NEW.
func (p *Pipeline) Run(ctx context.Context) []model.JobOffer {
	statuses, err := p.store.Load()
	if err != nil {
		p.logger.Error("loading persisted statuses failed, treating all jobs as new", "error", err)
		statuses = map[string]model.Status{}
	}

	jobs := p.engine.Collect(ctx)

	for i := range jobs {
		jobs[i] = p.enrich(jobs[i])

		if status, ok := statuses[jobs[i].ID]; ok {
			jobs[i].Status = status
		} else {
			jobs[i].Status = model.StatusNew
		}
	}

	sort.SliceStable(jobs, func(a, b int) bool {
		return jobs[a].Date.After(jobs[b].Date)
	})

	p.logger.Info("pipeline run complete", "jobs", len(jobs))
	return jobs
}

// enrich computes the derived fields: scope, fit score with strengths and
// weaknesses, and a short summary. An adapter-seeded score wins and is never
// recomputed, so its strengths/weaknesses stay empty.
func (p *Pipeline) enrich(job model.JobOffer) model.JobOffer {
	job.Scope = scope.Classify(job)

	if job.FitScore == 0 {
		match := p.matcher.Score(job)
		job.FitScore = match.Score
		job.Strengths = match.Strengths
		job.Weaknesses = match.Weaknesses
	}

	if job.Summary == "" {
		job.Summary = summarize(job.Description)
	}

	return job
}

// summarize truncates a description to a list-view blurb.
func summarize(description string) string {
	text := strings.TrimSpace(description)
	if text == "" {
		return "Aucune description disponible."
	}
	runes := []rune(text)
	if len(runes) <= summaryLength {
		return text
	}
	return string(runes[:summaryLength]) + "..."
}
