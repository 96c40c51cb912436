// Package api exposes the aggregation pipeline and the triage workflow over
// HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallez/jobhawk/internal/digest"
	"github.com/dgallez/jobhawk/internal/model"
	"github.com/dgallez/jobhawk/internal/scoring"
)

// JobLister runs one aggregation pipeline pass.
type JobLister interface {
	Run(ctx context.Context) []model.JobOffer
}

// Deps carries the collaborators the handlers close over.
type Deps struct {
	Pipeline JobLister
	Store    model.StatusStore
	Scorer   *scoring.KeywordScorer
	Digest   *digest.Digest
	Settings *digest.Settings
	Logger   *slog.Logger
}

// NewHandler builds the API router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/jobs", handleListJobs(deps))
	r.Get("/api/jobs/{jobID}/fit", handleJobFit(deps))
	r.Patch("/api/jobs/{jobID}/status", handleUpdateStatus(deps))
	r.Get("/api/settings/notifications", handleGetSettings(deps))
	r.Put("/api/settings/notifications", handlePutSettings(deps))
	r.Post("/api/digest/test", handleTestDigest(deps))

	return r
}

// handleListJobs returns the full enriched job list, newest first. Partial
// source outages are invisible here; an empty list is a valid response.
func handleListJobs(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs := deps.Pipeline.Run(r.Context())
		if jobs == nil {
			jobs = []model.JobOffer{}
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

// handleJobFit returns the keyword-level fit breakdown for one job from the
// current run.
func handleJobFit(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		for _, job := range deps.Pipeline.Run(r.Context()) {
			if job.ID == jobID {
				writeJSON(w, http.StatusOK, deps.Scorer.Score(job))
				return
			}
		}
		httpError(w, http.StatusNotFound, "job %q not found in the current run", jobID)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// handleUpdateStatus validates and persists a triage decision.
func handleUpdateStatus(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		var req statusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}

		status, err := model.ParseStatus(req.Status)
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		if err := deps.Store.Save(jobID, status); err != nil {
			deps.Logger.Error("persisting status failed", "job_id", jobID, "error", err)
			httpError(w, http.StatusInternalServerError, "persisting status failed")
			return
		}

		deps.Logger.Info("status updated", "job_id", jobID, "status", status)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": jobID, "status": status})
	}
}

type notificationSettings struct {
	DailyDigest bool `json:"dailyDigest"`
	NewOffers   bool `json:"newOffers"`
}

func handleGetSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		daily, offers := deps.Settings.Snapshot()
		writeJSON(w, http.StatusOK, notificationSettings{DailyDigest: daily, NewOffers: offers})
	}
}

func handlePutSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notificationSettings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		deps.Settings.Update(req.DailyDigest, req.NewOffers)
		deps.Logger.Info("notification settings updated", "daily_digest", req.DailyDigest, "new_offers", req.NewOffers)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": req})
	}
}

// handleTestDigest forces a digest send, bypassing the user toggle.
func handleTestDigest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Digest.Send(r.Context(), true); err != nil {
			httpError(w, http.StatusInternalServerError, "digest send failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}
