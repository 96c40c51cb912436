package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallez/jobhawk/internal/config"
	"github.com/dgallez/jobhawk/internal/model"
)

// One keyword search per request; keep the fan-out polite.
const foremMaxConcurrentSearches = 4

// foremRecord is a single offer in the ODWB (Open Data Wallonie-Bruxelles)
// records API response. The dataset has been re-exported over time, so most
// fields exist under two names.
type foremRecord struct {
	Reference    string `json:"reference_offre"`
	LegacyID     string `json:"id_offre"`
	Title        string `json:"intitule"`
	LegacyTitle  string `json:"titre"`
	Commune      string `json:"commune_lieu_de_travail"`
	Localite     string `json:"localite"`
	Description  string `json:"description_de_l_offre"`
	LegacyDesc   string `json:"description"`
	DateCreation string `json:"date_creation"`
	OfferURL     string `json:"url_offre"`
}

// foremResponse is the top-level ODWB records API response.
type foremResponse struct {
	Results []foremRecord `json:"results"`
}

// ForemAdapter fetches offers from the Le Forem open-data dataset. It runs one
// bounded search per configured management keyword, filters out operational
// roles by title, and merges the per-keyword results first-seen-wins.
type ForemAdapter struct {
	baseURL          string
	keywords         []string
	excludeKeywords  []string
	resultsPerSearch int
	client           *http.Client
	logger           *slog.Logger
}

// NewForemAdapter creates an adapter for the Le Forem dataset.
func NewForemAdapter(cfg config.ForemConfig, client *http.Client, logger *slog.Logger) *ForemAdapter {
	return &ForemAdapter{
		baseURL:          cfg.BaseURL,
		keywords:         cfg.Keywords,
		excludeKeywords:  cfg.ExcludeKeywords,
		resultsPerSearch: cfg.ResultsPerSearch,
		client:           client,
		logger:           logger,
	}
}

func (a *ForemAdapter) Name() string { return "forem" }

// FetchJobs searches the dataset once per keyword, concurrently. A failed
// keyword search contributes zero records; FetchJobs only errors when every
// search failed, so the retry layer can have another go at a full outage.
func (a *ForemAdapter) FetchJobs(ctx context.Context) ([]model.JobOffer, error) {
	perKeyword := make([][]model.JobOffer, len(a.keywords))

	var mu sync.Mutex
	var lastErr error
	failures := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(foremMaxConcurrentSearches)
	for i, keyword := range a.keywords {
		g.Go(func() error {
			records, err := a.search(gctx, keyword)
			if err != nil {
				a.logger.Warn("forem keyword search failed", "keyword", keyword, "error", err)
				mu.Lock()
				lastErr = err
				failures++
				mu.Unlock()
				return nil // isolate keyword failures from each other
			}
			perKeyword[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failures == len(a.keywords) && failures > 0 {
		return nil, fmt.Errorf("forem: all %d keyword searches failed: %w", failures, lastErr)
	}

	// Merge in keyword order so the output is deterministic, dropping
	// duplicates (the same offer matches several keywords).
	seen := make(map[string]bool)
	var jobs []model.JobOffer
	for _, records := range perKeyword {
		for _, job := range records {
			if seen[job.ID] {
				continue
			}
			seen[job.ID] = true
			jobs = append(jobs, job)
		}
	}

	return jobs, nil
}

// search runs one title search against the dataset and renders the records.
func (a *ForemAdapter) search(ctx context.Context, keyword string) ([]model.JobOffer, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", a.resultsPerSearch))
	params.Set("where", fmt.Sprintf("search(titre, %q)", keyword))
	params.Set("order_by", "date_creation desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("forem search %q: %w", keyword, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forem search %q: %w", keyword, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("forem search %q: unexpected status %d", keyword, resp.StatusCode),
		}
	}

	var fr foremResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("forem search %q: %w", keyword, err)
	}

	jobs := make([]model.JobOffer, 0, len(fr.Results))
	for _, rec := range fr.Results {
		job, ok := a.render(rec)
		if ok {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// render normalizes one dataset record. Returns false when the title trips the
// exclude list (source-side relevance filtering stays inside the adapter).
func (a *ForemAdapter) render(rec foremRecord) (model.JobOffer, bool) {
	title := rec.Title
	if title == "" {
		title = rec.LegacyTitle
	}
	if title == "" {
		title = "Poste sans titre"
	}

	titleLower := strings.ToLower(title)
	for _, neg := range a.excludeKeywords {
		if strings.Contains(titleLower, strings.ToLower(neg)) {
			return model.JobOffer{}, false
		}
	}

	nativeID := rec.Reference
	if nativeID == "" {
		nativeID = rec.LegacyID
	}

	location := rec.Commune
	if location == "" {
		location = rec.Localite
	}

	description := rec.Description
	if description == "" {
		description = rec.LegacyDesc
	}
	// ODWB exports descriptions as HTML-encoded markup.
	description = extractText(description)

	var date time.Time
	if rec.DateCreation != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, rec.DateCreation); err == nil {
				date = t
				break
			}
		}
	}

	offerURL := rec.OfferURL
	if offerURL == "" && nativeID != "" {
		offerURL = "https://www.leforem.be/recherche-offres-emploi/resultats?ref=" + url.QueryEscape(nativeID)
	}

	var id string
	if nativeID != "" {
		id = "forem-" + nativeID
	}

	return model.JobOffer{
		ID:          id, // empty means the aggregation layer assigns a random one
		Title:       title,
		Company:     "Le Forem Network",
		Location:    location,
		Description: description,
		Date:        date,
		URL:         offerURL,
		Source:      "forem",
		SeededScore: 4, // strict keyword searches already pre-select relevant roles
	}, true
}
