package notifier

import (
	"log/slog"

	"github.com/dgallez/jobhawk/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the digest to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each selected job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with company, title, location, score, and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.JobOffer) error {
	for _, j := range jobs {
		n.logger.Info("digest job",
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"fit_score", j.FitScore,
			"status", j.Status,
			"url", j.URL,
		)
	}
	return nil
}
