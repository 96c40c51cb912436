package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallez/jobhawk/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleJob() model.JobOffer {
	return model.JobOffer{
		ID:       "forem-1",
		Title:    "Category Manager",
		Company:  "Le Forem Network",
		Location: "Mons",
		Date:     time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
		URL:      "https://www.leforem.be/offre/1",
		Source:   "forem",
		FitScore: 85,
		Summary:  "Gestion de l'assortiment.",
	}
}

func TestNotify_PostsBlockKitPayload(t *testing.T) {
	var payloads []webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		payloads = append(payloads, p)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client(), discardLogger())

	if err := n.Notify([]model.JobOffer{sampleJob()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 webhook post, got %d", len(payloads))
	}

	blocks := payloads[0].Blocks
	if len(blocks) == 0 || blocks[0].Type != "header" {
		t.Fatalf("expected a header block first, got %+v", blocks)
	}
	if got := blocks[0].Text.Text; !strings.Contains(got, "Category Manager") {
		t.Errorf("unexpected header text %q", got)
	}

	var fields []string
	for _, b := range blocks {
		for _, f := range b.Fields {
			fields = append(fields, f.Text)
		}
	}
	joined := strings.Join(fields, "\n")
	for _, want := range []string{"Mons", "85%", "forem"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in section fields, got %q", want, joined)
		}
	}
}

func TestNotify_EmptyListIsNoop(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client(), discardLogger())
	if err := n.Notify(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no webhook posts, got %d", calls)
	}
}

func TestNotify_PartialFailureTolerated(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client(), discardLogger())

	jobs := []model.JobOffer{sampleJob(), sampleJob()}
	if err := n.Notify(jobs); err != nil {
		t.Fatalf("expected partial failure to be tolerated, got %v", err)
	}
}

func TestNotify_AllFailedErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client(), discardLogger())

	if err := n.Notify([]model.JobOffer{sampleJob()}); err == nil {
		t.Fatal("expected an error when every post fails")
	}
}

func TestNotify_RateLimitRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client(), discardLogger())

	if err := n.Notify([]model.JobOffer{sampleJob()}); err != nil {
		t.Fatalf("expected the rate-limited post to be retried, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 posts, got %d", calls)
	}
}

func TestSendTestMessage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client(), discardLogger())
	if err := SendTestMessage(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 post, got %d", calls)
	}
}
