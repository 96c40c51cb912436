// Package geo resolves free-text job locations to a road distance from the
// candidate's home coordinate.
package geo

import (
	"math"
	"strings"
)

// UnknownDistance is returned for locations no table entry matches. It is far
// beyond any real commute so unknown locations are excluded by default.
const UnknownDistance = 9999.0

const earthRadiusKm = 6371

// cityCoord is one gazetteer entry. Entries are scanned in declaration order
// and the first substring match wins; ambiguous multi-city inputs therefore
// resolve to the earliest entry, not the longest match. Keep that in mind when
// adding entries: put the more specific name first.
type cityCoord struct {
	name string
	lat  float64
	lng  float64
}

// Belgian cities plus the commutable border regions (northern France,
// Luxembourg, Aachen, southern Netherlands). Names are lowercase; French and
// Dutch spellings are separate entries.
var cityTable = []cityCoord{
	{"bruxelles", 50.8503, 4.3517},
	{"brussels", 50.8503, 4.3517},
	{"brussel", 50.8503, 4.3517},
	{"antwerpen", 51.2194, 4.4025},
	{"anvers", 51.2194, 4.4025},
	{"gand", 51.0543, 3.7174},
	{"gent", 51.0543, 3.7174},
	{"charleroi", 50.4101, 4.4446},
	{"liège", 50.6326, 5.5797},
	{"luik", 50.6326, 5.5797},
	{"namur", 50.4674, 4.8720},
	{"mons", 50.4542, 3.9567},
	{"tournai", 50.6059, 3.3875},
	{"obourg", 50.4761, 4.0061},
	{"bouge", 50.4667, 4.8833},
	{"zaventem", 50.8876, 4.4699},
	{"diegem", 50.8940, 4.4363},
	{"nivelles", 50.5983, 4.3285},
	{"wavre", 50.7159, 4.6128},
	{"leuven", 50.8798, 4.7005},
	{"louvain", 50.8798, 4.7005},
	{"bruges", 51.2093, 3.2247},
	{"brugge", 51.2093, 3.2247},
	{"asse", 50.9101, 4.1984},
	{"halle", 50.7339, 4.2345},
	{"kortrijk", 50.8268, 3.2545},
	{"courtrai", 50.8268, 3.2545},
	{"arlon", 49.6833, 5.8167},
	{"nazareth", 50.9576, 3.5959},
	{"beveren-leie", 50.8833, 3.3500},
	{"kapelle-op-den-bos", 51.0132, 4.3554},
	{"maasmechelen", 50.9655, 5.6945},
	{"puurs", 51.0741, 4.2884},
	{"braine-l'alleud", 50.6836, 4.3678},
	{"merelbeke", 50.9945, 3.7456},
	{"rotselaar", 50.9537, 4.7184},
	{"wilrijk", 51.1683, 4.3943},
	{"anderlecht", 50.8387, 4.3160},
	{"merchtem", 50.9587, 4.2185},
	{"zwijndrecht", 51.2183, 4.3294},
	{"wommelgem", 51.2036, 4.5230},
	{"kontich", 51.1348, 4.4449},
	{"sint-niklaas", 51.1656, 4.1404},
	{"roeselare", 50.9429, 3.1245},
	{"waregem", 50.8868, 3.4324},
	{"malines", 51.0259, 4.4776},
	{"mechelen", 51.0259, 4.4776},
	{"aalst", 50.9378, 4.0410},
	{"oudenaarde", 50.8435, 3.6045},
	{"lokeren", 51.1042, 3.9912},
	{"genk", 50.9650, 5.5012},
	{"hasselt", 50.9307, 5.3325},
	{"turnhout", 51.3217, 4.9448},
	{"belsele", 51.1472, 4.0822},
	{"mouscron", 50.7431, 3.2206},
	{"lille", 50.6292, 3.0573},
	{"villeneuve-d'ascq", 50.6233, 3.1444},
	{"valenciennes", 50.3570, 3.5183},
	{"douai", 50.3679, 3.0806},
	{"arras", 50.2910, 2.7775},
	{"lens", 50.4292, 2.8310},
	{"dunkerque", 51.0343, 2.3768},
	{"calais", 50.9513, 1.8587},
	{"maubeuge", 50.2775, 3.9734},
	{"saint-quentin", 49.8454, 3.2867},
	{"amiens", 49.8941, 2.2957},
	{"reims", 49.2583, 4.0317},
	{"charleville-mézières", 49.7621, 4.7157},
	{"luxembourg", 49.6116, 6.1319},
	{"aachen", 50.7753, 6.0839},
	{"maastricht", 50.8514, 5.6910},
	{"eindhoven", 51.4416, 5.4697},
	{"breda", 51.5719, 4.7683},
	{"tilburg", 51.5555, 5.0913},
}

// remoteMarkers short-circuit resolution to 0 km: the job is reachable from
// anywhere in the country.
var remoteMarkers = []string{"remote", "télétravail", "telework", "national", "belgique", "belgium", "belgië"}

// Resolver computes distances from a fixed home coordinate.
type Resolver struct {
	homeLat float64
	homeLng float64
}

// NewResolver creates a resolver anchored at the given home coordinate.
func NewResolver(homeLat, homeLng float64) *Resolver {
	return &Resolver{homeLat: homeLat, homeLng: homeLng}
}

// DistanceFromHome resolves a free-text location to kilometers from home.
// Remote and nationwide markers resolve to 0. Unmatched locations return
// (UnknownDistance, false) so callers can exclude them and log the raw string.
func (r *Resolver) DistanceFromHome(location string) (float64, bool) {
	loc := strings.ToLower(location)
	if loc == "" {
		return UnknownDistance, false
	}

	for _, marker := range remoteMarkers {
		if strings.Contains(loc, marker) {
			return 0, true
		}
	}

	for _, city := range cityTable {
		if strings.Contains(loc, city.name) {
			return haversineKm(r.homeLat, r.homeLng, city.lat, city.lng), true
		}
	}

	return UnknownDistance, false
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
