package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallez/jobhawk/internal/model"
)

// Ensure WebhookNotifier implements model.Notifier.
var _ model.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts the digest to a Slack-compatible incoming webhook,
// one message per job.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookNotifier returns a notifier that posts each job via webhook.
func NewWebhookNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends each job as a separate message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (n *WebhookNotifier) Notify(jobs []model.JobOffer) error {
	if len(jobs) == 0 {
		return nil
	}

	failures := 0
	for i, j := range jobs {
		if i > 0 {
			time.Sleep(500 * time.Millisecond)
		}

		if err := n.sendMessage(j); err != nil {
			n.logger.Error("webhook notification failed", "company", j.Company, "title", j.Title, "error", err)
			failures++
		}
	}

	sent := len(jobs) - failures
	if failures == len(jobs) {
		return fmt.Errorf("all %d webhook notifications failed", failures)
	}
	n.logger.Info("webhook notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (n *WebhookNotifier) sendMessage(j model.JobOffer) error {
	payload := buildPayload(j)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		n.logger.Warn("webhook rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to webhook (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("webhook returned %d on retry", resp2.StatusCode)
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// Block Kit payload types.

type webhookPayload struct {
	Blocks []webhookBlock `json:"blocks"`
}

type webhookBlock struct {
	Type     string           `json:"type"`
	Text     *webhookText     `json:"text,omitempty"`
	Fields   []webhookText    `json:"fields,omitempty"`
	Elements []webhookElement `json:"elements,omitempty"`
}

type webhookText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type webhookElement struct {
	Type  string      `json:"type"`
	Text  webhookText `json:"text"`
	URL   string      `json:"url"`
	Style string      `json:"style"`
}

func buildPayload(j model.JobOffer) webhookPayload {
	blocks := []webhookBlock{
		{
			Type: "header",
			Text: &webhookText{Type: "plain_text", Text: j.Company + ": " + j.Title},
		},
		{
			Type: "section",
			Fields: []webhookText{
				{Type: "mrkdwn", Text: "*Lieu :*\n" + j.Location},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Fit :*\n%d%%", j.FitScore)},
			},
		},
		{
			Type: "section",
			Fields: []webhookText{
				{Type: "mrkdwn", Text: "*Publié :*\n" + j.Date.Format("02/01 15:04")},
				{Type: "mrkdwn", Text: "*Source :*\n" + j.Source},
			},
		},
	}

	if j.Summary != "" {
		blocks = append(blocks, webhookBlock{
			Type: "section",
			Text: &webhookText{Type: "mrkdwn", Text: j.Summary},
		})
	}

	blocks = append(blocks,
		webhookBlock{
			Type: "actions",
			Elements: []webhookElement{
				{
					Type:  "button",
					Text:  webhookText{Type: "plain_text", Text: "Voir l'offre"},
					URL:   j.URL,
					Style: "primary",
				},
			},
		},
		webhookBlock{Type: "divider"},
	)

	return webhookPayload{Blocks: blocks}
}

// SendTestMessage sends a dummy job through the notifier to verify the
// integration works.
func SendTestMessage(n model.Notifier) error {
	return n.Notify([]model.JobOffer{{
		ID:       "test-001",
		Company:  "Jobhawk Test",
		Title:    "Notification de test : intégration vérifiée",
		Location: "Obourg",
		URL:      "https://www.leforem.be",
		Date:     time.Now(),
		Source:   "test",
		FitScore: 100,
		Status:   model.StatusNew,
	}})
}
