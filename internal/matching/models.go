// internal/matching/models.go

package matching

import "time"

// Mode selects the matching context: "current" scores mates around the
// user's present location, "travel" scores mates for an upcoming trip.
type Mode string

const (
	ModeCurrent Mode = "current"
	ModeTravel  Mode = "travel"
)

// MatchResult is a pairwise compatibility score with the raw factors
// that produced it, so callers can render explanations without
// recomputing anything.
type MatchResult struct {
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown carries the per-factor contributions
type Breakdown struct {
	TravelStyle StyleFactor    `json:"travel_style"`
	Languages   SharedFactor   `json:"languages"`
	Interests   SharedFactor   `json:"interests"`
	Places      SharedFactor   `json:"places"`
	Location    LocationFactor `json:"location"`
	Age         AgeFactor      `json:"age"`
}

// SharedFactor is an overlap-based contribution with the shared items
type SharedFactor struct {
	Score  int      `json:"score"`
	Shared []string `json:"shared"`
}

// StyleFactor is the travel-style compatibility contribution
type StyleFactor struct {
	Score  int      `json:"score"`
	Shared []string `json:"shared"`
}

// LocationFactor is the location proximity contribution
type LocationFactor struct {
	Score       int    `json:"score"`
	SameCity    bool   `json:"same_city"`
	SameCountry bool   `json:"same_country"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
}

// AgeFactor is the age-gap contribution. Known is false when either
// birthday is missing, in which case the factor contributes nothing.
type AgeFactor struct {
	Score     int  `json:"score"`
	DiffYears int  `json:"diff_years"`
	Known     bool `json:"known"`
}

// ScoredCandidate annotates a candidate user id with its match result
type ScoredCandidate struct {
	UserID string       `json:"user_id"`
	Match  *MatchResult `json:"match"`
}

// Confidence buckets a score for display
func Confidence(score int) string {
	if score >= 80 {
		return "high"
	}
	if score >= 60 {
		return "medium"
	}
	return "low"
}

// cachedScore is the Redis cache entry for a pairwise result
type cachedScore struct {
	Result       *MatchResult `json:"result"`
	CalculatedAt time.Time    `json:"calculated_at"`
}
