package model

import (
	"context"
	"fmt"
	"time"
)

// Scope classifies where a job is located relative to the home market.
type Scope string

const (
	ScopeNational      Scope = "NATIONAL"
	ScopeInternational Scope = "INTERNATIONAL"
)

// Status is the triage lifecycle state of a job offer. It is the only field a
// user mutates after a job is created; everything else is recomputed per run.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInterested Status = "INTERESTED"
	StatusApplied    Status = "APPLIED"
	StatusRejected   Status = "REJECTED"
	StatusInterview  Status = "INTERVIEW"
	StatusOffer      Status = "OFFER"
)

// ParseStatus validates a user-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusInterested, StatusApplied, StatusRejected, StatusInterview, StatusOffer:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// JobOffer is the canonical job entity produced by the aggregation pipeline.
// Instances are rebuilt on every run; only Status survives across runs, keyed
// by ID through the status store.
type JobOffer struct {
	ID           string    `json:"id"` // "<source>-<native id>", the dedup and status key
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"` // posting date, falls back to fetch time
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	Scope        Scope     `json:"scope"`
	SearchIntent bool      `json:"isSearchIntent"` // pre-built search link, not a real posting
	FitScore     int       `json:"aiFitScore"`     // 0-100 after normalization
	SeededScore  float64   `json:"-"`              // adapter-seeded 1-5 score, 0 when unset
	Status       Status    `json:"status"`
	Requirements []string  `json:"requirements,omitempty"`

	// Derived presentation fields, recomputed each run, never persisted.
	Summary    string   `json:"summary,omitempty"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// SourceAdapter fetches job offers from one origin (API, scrape, or generated
// search intents). Each adapter owns its own relevance filtering and retry
// policy; the aggregation layer only sees the common output shape.
type SourceAdapter interface {
	Name() string
	FetchJobs(ctx context.Context) ([]JobOffer, error)
}

// StatusStore persists the id→status mapping across aggregation runs.
type StatusStore interface {
	Load() (map[string]Status, error)
	Save(jobID string, status Status) error
}

// Notifier delivers a digest of selected job offers.
type Notifier interface {
	Notify(jobs []JobOffer) error
}
