// internal/matching/match.go
// Pairwise user compatibility scoring. Pure functions over hydrated
// user records; no database access and no clock dependency beyond the
// caller-supplied reference time.

package matching

import (
	"time"

	"github.com/wandermate/wandermate-backend/internal/users"
)

// Scoring constants. The base starts optimistic: good matches climb
// toward 100, bad ones fall below 40.
const (
	baseScore = 70

	styleMatchBonus = 10
	styleClashMalus = -20

	languageBonusPerShared = 5
	languageBonusCap       = 15
	noLanguageMalus        = -25

	interestBonusPerShared = 5
	interestBonusCap       = 20
	noInterestMalus        = -10

	placeBonusPerShared = 3
	placeBonusCap       = 10

	ageGapLimit     = 15
	ageGapMalus     = -15
	ageCloseYears   = 3
	ageCloseBonus   = 5
	sameCityBonus   = 5
	farCountryMalus = -10
)

// CalculateMatch scores the compatibility of two users. Missing
// optional data (no birthday, no persona, no location) contributes
// zero to its factor rather than failing.
func CalculateMatch(current, target *users.User, mode Mode, now time.Time) *MatchResult {
	score := baseScore

	result := &MatchResult{
		Breakdown: Breakdown{
			Languages: SharedFactor{Shared: []string{}},
			Interests: SharedFactor{Shared: []string{}},
			Places:    SharedFactor{Shared: []string{}},
			Location:  locationFactor(current, target),
		},
	}

	// 1. Travel style: same primary style is a bonus, a known clash
	// (luxury vs backpacker) is friction
	s1 := primaryStyle(current)
	s2 := primaryStyle(target)
	if s1 != "" && s2 != "" {
		if s1 == s2 {
			score += styleMatchBonus
			result.Breakdown.TravelStyle.Score = styleMatchBonus
			result.Breakdown.TravelStyle.Shared = []string{s1}
		} else if isStyleClash(s1, s2) {
			score += styleClashMalus
			result.Breakdown.TravelStyle.Score = styleClashMalus
		}
	}

	// 2. Languages: massive friction if they can't talk
	sharedLangs := intersect(languages(current), languages(target))
	if len(sharedLangs) == 0 {
		score += noLanguageMalus
		result.Breakdown.Languages.Score = noLanguageMalus
	} else {
		bonus := capInt(len(sharedLangs)*languageBonusPerShared, languageBonusCap)
		score += bonus
		result.Breakdown.Languages.Score = bonus
		result.Breakdown.Languages.Shared = sharedLangs
	}

	// 3. Interests: additive, with a penalty for zero common ground
	sharedInterests := intersect(interests(current), interests(target))
	if len(sharedInterests) > 0 {
		bonus := capInt(len(sharedInterests)*interestBonusPerShared, interestBonusCap)
		score += bonus
		result.Breakdown.Interests.Score = bonus
		result.Breakdown.Interests.Shared = sharedInterests
	} else {
		score += noInterestMalus
		result.Breakdown.Interests.Score = noInterestMalus
	}

	// 4. Shared visited places
	sharedPlaces := intersect(current.VisitedCityIDs, target.VisitedCityIDs)
	if len(sharedPlaces) > 0 {
		bonus := capInt(len(sharedPlaces)*placeBonusPerShared, placeBonusCap)
		score += bonus
		result.Breakdown.Places.Score = bonus
		result.Breakdown.Places.Shared = sharedPlaces
	}

	// 5. Age gap: beyond 15 years usually means different life stages,
	// 3 years or less gets the full closeness credit
	if b1, b2 := current.Birthday(), target.Birthday(); b1 != nil && b2 != nil {
		diff := users.AgeAt(*b1, now) - users.AgeAt(*b2, now)
		if diff < 0 {
			diff = -diff
		}
		result.Breakdown.Age.Known = true
		result.Breakdown.Age.DiffYears = diff
		if diff > ageGapLimit {
			score += ageGapMalus
			result.Breakdown.Age.Score = ageGapMalus
		} else if diff <= ageCloseYears {
			score += ageCloseBonus
			result.Breakdown.Age.Score = ageCloseBonus
		}
	}

	// 6. Location: same city beats same country beats different country.
	// Unknown locations contribute nothing either way.
	if result.Breakdown.Location.SameCity {
		score += sameCityBonus
		result.Breakdown.Location.Score = sameCityBonus
	} else if c1, c2 := countryCode(current), countryCode(target); c1 != "" && c2 != "" && c1 != c2 {
		score += farCountryMalus
		result.Breakdown.Location.Score = farCountryMalus
	}

	result.Score = clamp(score, 0, 100)
	return result
}

// CalculateMatchesBatch scores a candidate list against one user.
// No sorting happens here; callers order by Match.Score if they need to.
func CalculateMatchesBatch(current *users.User, candidates []*users.User, mode Mode, now time.Time) []*ScoredCandidate {
	scored := make([]*ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, &ScoredCandidate{
			UserID: candidate.ID,
			Match:  CalculateMatch(current, candidate, mode, now),
		})
	}
	return scored
}

// locationFactor derives the proximity tier. A user without a known
// current city never counts as same-city or same-country.
func locationFactor(current, target *users.User) LocationFactor {
	factor := LocationFactor{}

	if target.CurrentCity != nil {
		factor.City = target.CurrentCity.Name
		if target.CurrentCity.Country != nil {
			factor.Country = target.CurrentCity.Country.Name
		}
	}

	if current.CurrentCityID != nil && target.CurrentCityID != nil {
		factor.SameCity = *current.CurrentCityID == *target.CurrentCityID
	}

	c1 := countryCode(current)
	c2 := countryCode(target)
	factor.SameCountry = c1 != "" && c1 == c2

	return factor
}

func countryCode(u *users.User) string {
	if u.CurrentCity == nil || u.CurrentCity.Country == nil {
		return ""
	}
	return u.CurrentCity.Country.Code
}

func primaryStyle(u *users.User) string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Persona.PrimaryStyle()
}

// isStyleClash flags style pairings that generate friction on the road
func isStyleClash(s1, s2 string) bool {
	return (s1 == "Luxury" && s2 == "Backpacker") ||
		(s1 == "Backpacker" && s2 == "Luxury")
}

func languages(u *users.User) []string {
	if u.Profile == nil {
		return nil
	}
	return u.Profile.Languages
}

func interests(u *users.User) []string {
	if u.Profile == nil {
		return nil
	}
	return u.Profile.Persona.Interests
}

// intersect returns the elements of a that also appear in b,
// preserving a's order
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return []string{}
	}

	set := make(map[string]bool, len(b))
	for _, item := range b {
		set[item] = true
	}

	shared := []string{}
	for _, item := range a {
		if set[item] {
			shared = append(shared, item)
		}
	}
	return shared
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
