package scoring

import (
	"strings"

	"github.com/dgallez/jobhawk/internal/model"
)

// FitBreakdown is the keyword-level result used by the detail view.
type FitBreakdown struct {
	Score           int      `json:"score"` // 0-100
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

// keywordRule is one weighted bucket of keywords. The bucket scores its full
// weight if any keyword appears in the job text.
type keywordRule struct {
	Category string
	Keywords []string
	Weight   int
}

// KeywordScorer rates jobs additively from 0 using weighted keyword buckets
// over title+description+location, a target-company bonus, and a flat penalty
// for junior/operational markers. Independent of ProfileMatcher; the weights
// are tuned for ranking in the detail view and must not be merged.
type KeywordScorer struct {
	rules            []keywordRule
	targetCompanies  []string
	negativeKeywords []string
}

// NewKeywordScorer returns a scorer with the default senior
// category-management weighting.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		rules: []keywordRule{
			{Category: "Seniority", Weight: 35, Keywords: []string{"Directeur", "Director", "Head of", "VP", "Chief", "Partner", "Responsable"}},
			{Category: "Function", Weight: 40, Keywords: []string{"Category", "Acheteur", "Buyer", "Purchasing", "Marketing", "Commercial", "Sales", "Operating", "COO"}},
			{Category: "Sector", Weight: 20, Keywords: []string{"Retail", "Distribution", "FMCG", "Luxe", "Food", "Non-Food", "Marketplace", "Automobile"}},
			{Category: "Skills", Weight: 15, Keywords: []string{"Stratégie", "Strategy", "Management", "Team", "P&L", "Négociation", "Partenariats", "Leadership"}},
			{Category: "Location", Weight: 5, Keywords: []string{"Bruxelles", "Halle", "Zellik", "Zaventem", "Gand", "Nivelles"}},
		},
		targetCompanies:  []string{"amazon", "mckinsey", "google", "colruyt", "delhaize", "lvmh"},
		negativeKeywords: []string{"Stagiaire", "Intern", "Student", "Ouvrier", "Operator", "Opérateur", "Technicien", "Junior", "Assistant(e)", "Vendeur"},
	}
}

// Score computes the keyword breakdown for one job. A bucket with no hit
// contributes its first keyword as a suggestion in MissingKeywords.
func (k *KeywordScorer) Score(job model.JobOffer) FitBreakdown {
	fullText := strings.ToLower(job.Title) + " " + strings.ToLower(job.Description) + " " + strings.ToLower(job.Location)

	score := 0
	var matched, missing []string

	for _, rule := range k.rules {
		hit := false
		for _, kw := range rule.Keywords {
			if strings.Contains(fullText, strings.ToLower(kw)) {
				matched = append(matched, kw)
				hit = true
				break
			}
		}
		if hit {
			score += rule.Weight
		} else {
			missing = append(missing, rule.Keywords[0])
		}
	}

	companyLower := strings.ToLower(job.Company)
	for _, tc := range k.targetCompanies {
		if strings.Contains(companyLower, tc) {
			score += 10
			matched = append(matched, "Target Company")
			break
		}
	}

	for _, kw := range k.negativeKeywords {
		if strings.Contains(fullText, strings.ToLower(kw)) {
			score -= 50
			break
		}
	}

	return FitBreakdown{
		Score:           clamp(score),
		MatchedKeywords: matched,
		MissingKeywords: missing,
	}
}
