package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallez/jobhawk/internal/model"
)

// CareersAdapter scrapes a company careers page that lists its postings as
// anchors under a /jobs/ path (the layout used by jobs.leonidas.com and
// similar hosted career sites). The slug in the href is the stable native id.
type CareersAdapter struct {
	company string
	baseURL string // e.g. "https://jobs.leonidas.com"
	client  *http.Client
}

// NewCareersAdapter creates a scraper for one careers page.
func NewCareersAdapter(company, baseURL string, client *http.Client) *CareersAdapter {
	return &CareersAdapter{
		company: company,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (a *CareersAdapter) Name() string {
	return "careers-" + strings.ToLower(a.company)
}

// FetchJobs downloads the listing page and extracts one JobOffer per posting
// anchor. Postings carry no date on the listing page; the aggregation layer
// defaults it to fetch time.
func (a *CareersAdapter) FetchJobs(ctx context.Context) ([]model.JobOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/jobs", nil)
	if err != nil {
		return nil, fmt.Errorf("careers fetch for %s: %w", a.company, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("careers fetch for %s: %w", a.company, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("careers fetch for %s: unexpected status %d", a.company, resp.StatusCode),
		}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("careers fetch for %s: parse page: %w", a.company, err)
	}

	var jobs []model.JobOffer
	seen := make(map[string]bool)
	for node := range doc.Descendants() {
		if node.Type != html.ElementNode || node.Data != "a" {
			continue
		}
		href := attrValue(node, "href")
		if !strings.HasPrefix(href, "/jobs/") || href == "/jobs/" {
			continue
		}

		slug := strings.Trim(strings.TrimPrefix(href, "/jobs/"), "/")
		if slug == "" || seen[slug] {
			continue
		}

		title := strings.TrimSpace(nodeText(node))
		// Listing anchors often swallow the call-to-action label.
		title = strings.TrimSpace(strings.TrimSuffix(title, "Postuler"))
		if title == "" {
			continue
		}

		seen[slug] = true
		jobs = append(jobs, model.JobOffer{
			ID:       "careers-" + slug,
			Title:    title,
			Company:  a.company,
			Location: "National (voir détails)",
			URL:      a.baseURL + href,
			Source:   a.Name(),
		})
	}

	return jobs, nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	for node := range n.Descendants() {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
	}
	return b.String()
}
