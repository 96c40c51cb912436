// Package scoring rates job offers against the fixed candidate profile. Two
// independent strategies exist: ProfileMatcher backs the pipeline's fit score
// and KeywordScorer backs the detail-view keyword breakdown. Their weights are
// unrelated and must stay separate.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/dgallez/jobhawk/internal/config"
	"github.com/dgallez/jobhawk/internal/geo"
	"github.com/dgallez/jobhawk/internal/model"
)

// Match is the result of scoring one job against the profile.
type Match struct {
	Score      int // 0-100
	Strengths  []string
	Weaknesses []string
}

// ProfileMatcher scores jobs from a base of 50 using three factors: distance
// from home, requirement/skill overlap, and title relevance. Score is a pure
// function of the job; the possessed-skill set is frozen at construction.
type ProfileMatcher struct {
	resolver    *geo.Resolver
	maxDistance float64
	skillSet    map[string]struct{} // canonical skills plus alias expansions
	roles       []string
}

// NewProfileMatcher builds a matcher from the candidate profile. Skills are
// expanded with their alias groups, and target roles contribute implicit
// skills (a Category Manager target implies catman tooling, a Buyer target
// implies procurement vocabulary).
func NewProfileMatcher(profile config.ProfileConfig) *ProfileMatcher {
	skillSet := make(map[string]struct{})
	for _, skill := range profile.Skills {
		norm := canonical(skill)
		skillSet[norm] = struct{}{}
		for _, alias := range profile.SkillAliases[skill] {
			skillSet[canonical(alias)] = struct{}{}
		}
	}

	for _, role := range profile.TargetRoles {
		norm := canonical(role)
		if strings.Contains(norm, "categorymanager") {
			skillSet["catman"] = struct{}{}
			skillSet["categorymanagement"] = struct{}{}
		}
		if strings.Contains(norm, "buyer") || strings.Contains(norm, "acheteur") {
			skillSet["achats"] = struct{}{}
			skillSet["buying"] = struct{}{}
			skillSet["purchasing"] = struct{}{}
		}
	}

	return &ProfileMatcher{
		resolver:    geo.NewResolver(profile.HomeLat, profile.HomeLng),
		maxDistance: profile.MaxDistance,
		skillSet:    skillSet,
		roles:       profile.TargetRoles,
	}
}

// Score rates the job from a base of 50 and clamps to [0, 100].
func (m *ProfileMatcher) Score(job model.JobOffer) Match {
	score := 50
	var strengths, weaknesses []string

	// Distance factor. Unknown locations are treated as out of range.
	distance, known := m.resolver.DistanceFromHome(job.Location)
	switch {
	case !known:
		score -= 20
		weaknesses = append(weaknesses, fmt.Sprintf("Localisation non reconnue : %s", job.Location))
	case distance > m.maxDistance:
		score -= 20
		weaknesses = append(weaknesses, fmt.Sprintf("Localisation éloignée (%d km)", roundKm(distance)))
	case distance > 0 && distance < 20:
		score += 20
		strengths = append(strengths, fmt.Sprintf("Proximité idéale (%d km)", roundKm(distance)))
	case distance > 0 && distance <= 50:
		score += 10
		strengths = append(strengths, fmt.Sprintf("Distance raisonnable (%d km)", roundKm(distance)))
	}

	// Requirement overlap factor.
	if len(job.Requirements) == 0 {
		// No stated requirements is not held against the job.
		score += 5
	} else {
		matched := 0
		var missing []string
		for _, req := range job.Requirements {
			if m.possesses(req) {
				matched++
			} else {
				missing = append(missing, req)
			}
		}

		ratio := float64(matched) / float64(len(job.Requirements))
		if ratio > 0.7 {
			score += 20
			strengths = append(strengths, "Vos compétences correspondent parfaitement aux attentes.")
		} else if len(missing) > 0 {
			if len(missing) > 3 {
				missing = missing[:3]
			}
			weaknesses = append(weaknesses, fmt.Sprintf("Compétences à valider : %s", strings.Join(missing, ", ")))
			if ratio < 0.3 {
				score -= 10
			}
		}
	}

	// Title relevance factor.
	titleNorm := canonical(job.Title)
	roleMatch := false
	for _, role := range m.roles {
		if strings.Contains(titleNorm, canonical(role)) {
			roleMatch = true
			break
		}
	}
	if roleMatch {
		score += 20
		strengths = append(strengths, "Le titre du poste est dans votre cible prioritaire.")
	} else {
		score -= 10
		weaknesses = append(weaknesses, "L'intitulé du poste semble s'éloigner de vos cibles habituelles.")
	}

	return Match{
		Score:      clamp(score),
		Strengths:  strengths,
		Weaknesses: weaknesses,
	}
}

// possesses reports whether a requirement token matches any possessed skill,
// either exactly or as a substring in either direction.
func (m *ProfileMatcher) possesses(requirement string) bool {
	reqNorm := canonical(requirement)
	if reqNorm == "" {
		return false
	}
	if _, ok := m.skillSet[reqNorm]; ok {
		return true
	}
	for skill := range m.skillSet {
		if strings.Contains(reqNorm, skill) || strings.Contains(skill, reqNorm) {
			return true
		}
	}
	return false
}

// canonical lowercases and strips everything outside a-z0-9 so that accented,
// spaced, and punctuated variants compare equal. Accented letters are dropped
// entirely; this is applied identically to both sides of every comparison.
func canonical(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roundKm(km float64) int {
	return int(math.Round(km))
}
