package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dgallez/jobhawk/internal/config"
	"github.com/dgallez/jobhawk/internal/model"
)

// metaPlatform is one job board the meta-search source builds query links for.
type metaPlatform struct {
	name string
	url  string // {q} is replaced by the encoded query, {len} by its length
}

var metaPlatforms = []metaPlatform{
	{"Indeed", "https://be.indeed.com/jobs?q={q}&l=Belgique"},
	{"Jobat", "https://www.jobat.be/fr/emplois?q={q}&l=Belgique"},
	{"StepStone", "https://www.stepstone.be/en/jobs--{q}--en.html"},
	{"LinkedIn", "https://www.linkedin.com/jobs/search?keywords={q}&location=Belgium"},
	{"Glassdoor", "https://fr.glassdoor.be/Emploi/belgique-{q}-emplois-SRCH_IL.0,8_IN25_KO9,{len}.htm"},
	{"Google Jobs", "https://www.google.com/search?q={q}+jobs+belgium&ibp=htl;jobs"},
}

// MetaSearchAdapter generates "search intent" records: pre-built search links
// on the major boards for each configured query. These are not real postings
// (SearchIntent is set) and the adapter never fails. Ids are deterministic so
// reruns dedup cleanly.
type MetaSearchAdapter struct {
	queries []string
	now     func() time.Time
}

// NewMetaSearchAdapter creates the search-intent source.
func NewMetaSearchAdapter(cfg config.MetaSearchConfig) *MetaSearchAdapter {
	return &MetaSearchAdapter{
		queries: cfg.Queries,
		now:     time.Now,
	}
}

func (a *MetaSearchAdapter) Name() string { return "metasearch" }

// FetchJobs builds the platform × query grid. No network calls are made.
func (a *MetaSearchAdapter) FetchJobs(_ context.Context) ([]model.JobOffer, error) {
	now := a.now()
	jobs := make([]model.JobOffer, 0, len(metaPlatforms)*len(a.queries))

	counter := 0
	for _, platform := range metaPlatforms {
		for _, query := range a.queries {
			encoded := url.QueryEscape(query)
			link := strings.ReplaceAll(platform.url, "{q}", encoded)
			link = strings.ReplaceAll(link, "{len}", fmt.Sprintf("%d", len(encoded)))

			jobs = append(jobs, model.JobOffer{
				ID:           fmt.Sprintf("meta-%s-%d", strings.ToLower(strings.ReplaceAll(platform.name, " ", "")), counter),
				Title:        query,
				Company:      platform.name + " (Recherche)",
				Location:     "Belgique",
				Description:  fmt.Sprintf("Voir les offres pour %s sur %s.", query, platform.name),
				Date:         now,
				URL:          link,
				Source:       "metasearch",
				SearchIntent: true,
				SeededScore:  4.5,
				Summary:      fmt.Sprintf("Accès direct aux offres %s.", platform.name),
			})
			counter++
		}
	}

	return jobs, nil
}
