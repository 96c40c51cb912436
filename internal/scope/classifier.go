// Package scope classifies job offers as NATIONAL or INTERNATIONAL based on a
// fixed gazetteer of Belgian city and region names.
package scope

import (
	"strings"

	"github.com/dgallez/jobhawk/internal/model"
)

// nationalKeywords covers country names plus the major cities in both French
// and Dutch spellings. Substring matching is boolean, so entry order does not
// matter here.
var nationalKeywords = []string{
	"belgium", "belgique", "belgië",
	"bruxelles", "brussels", "brussel",
	"antwerpen", "anvers",
	"gent", "gand",
	"charleroi",
	"liège", "luik",
	"namur", "namen",
	"mons", "bergen",
	"leuven", "louvain",
	"nivelles", "nijvel",
	"wavre", "waver",
	"mechelen", "malines",
	"aalst", "alost",
	"la louvière",
	"kortrijk", "courtrai",
	"hasselt",
	"sint-niklaas", "saint-nicolas",
	"oostende", "ostende",
	"genk",
	"roeselare", "roulers",
	"tournai", "doornik",
}

// Classify returns NATIONAL if any Belgian keyword appears in the job's
// location, description, or title (case-insensitive), INTERNATIONAL otherwise.
func Classify(job model.JobOffer) model.Scope {
	location := strings.ToLower(job.Location)
	description := strings.ToLower(job.Description)
	title := strings.ToLower(job.Title)

	for _, kw := range nationalKeywords {
		if strings.Contains(location, kw) || strings.Contains(description, kw) || strings.Contains(title, kw) {
			return model.ScopeNational
		}
	}
	return model.ScopeInternational
}
