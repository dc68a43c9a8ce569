// internal/matching/place.go
// Persona-to-place scoring used by place discovery. Weighted average:
// interests 50%, budget fit 25%, vibe 25%.

package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wandermate/wandermate-backend/internal/users"
)

// PlaceForMatching is the slice of a place record scoring needs
type PlaceForMatching struct {
	ID         string             `json:"id"`
	Tags       []string           `json:"tags"`
	PriceLevel *int               `json:"price_level,omitempty"`
	VibeScores map[string]float64 `json:"vibe_scores,omitempty"`
}

// PlaceMatchResult is the scored outcome with an explainable breakdown
type PlaceMatchResult struct {
	Score     int      `json:"score"`
	Interests int      `json:"interests"`
	Budget    int      `json:"budget"`
	Vibe      int      `json:"vibe"`
	Reasoning []string `json:"reasoning"`
}

const (
	neutralBudgetScore = 50
	defaultVibeScore   = 60
)

// budgetToPriceLevel maps self-reported budget tiers onto the 1-4
// price level scale places use
var budgetToPriceLevel = map[string]int{
	"budget":      1,
	"cheap":       1,
	"mid-range":   2,
	"moderate":    2,
	"comfortable": 3,
	"luxury":      4,
	"premium":     4,
}

// CalculatePlaceMatch scores how well a place fits a persona
func CalculatePlaceMatch(persona users.Persona, place PlaceForMatching) *PlaceMatchResult {
	result := &PlaceMatchResult{Reasoning: []string{}}

	// 1. Interests vs place tags (50%)
	if len(persona.Interests) > 0 && len(place.Tags) > 0 {
		shared := intersect(persona.Interests, place.Tags)
		denom := len(persona.Interests)
		if len(place.Tags) > denom {
			denom = len(place.Tags)
		}
		result.Interests = int(float64(len(shared))/float64(denom)*100 + 0.5)
		if len(shared) > 0 {
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("Matches %d interests: %s", len(shared), strings.Join(shared, ", ")))
		}
	} else {
		result.Reasoning = append(result.Reasoning, "No interest data available")
	}

	// 2. Budget vs price level (25%), neutral when either side is unknown
	if persona.Budget != "" && place.PriceLevel != nil {
		userLevel, ok := budgetToPriceLevel[persona.Budget]
		if !ok {
			userLevel = 2
		}
		diff := userLevel - *place.PriceLevel
		if diff < 0 {
			diff = -diff
		}
		result.Budget = clamp(100-diff*25, 0, 100)

		switch {
		case diff == 0:
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("Perfect budget match (%s)", persona.Budget))
		case diff <= 1:
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("Good budget fit (%s vs price level %d)", persona.Budget, *place.PriceLevel))
		default:
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("Budget mismatch (%s vs price level %d)", persona.Budget, *place.PriceLevel))
		}
	} else {
		result.Budget = neutralBudgetScore
		result.Reasoning = append(result.Reasoning, "No budget data available")
	}

	// 3. Vibe (25%): average the 0-10 vibe ratings, scaled to 0-100
	if len(place.VibeScores) > 0 {
		total := 0.0
		for _, v := range place.VibeScores {
			total += v
		}
		avg := total / float64(len(place.VibeScores))
		result.Vibe = clamp(int(avg*10+0.5), 0, 100)
		result.Reasoning = append(result.Reasoning,
			fmt.Sprintf("Vibe score: %d/100 based on place characteristics", result.Vibe))
	} else {
		result.Vibe = defaultVibeScore
		result.Reasoning = append(result.Reasoning, "No vibe scores available, using default score")
	}

	weighted := float64(result.Interests)*0.5 + float64(result.Budget)*0.25 + float64(result.Vibe)*0.25
	result.Score = clamp(int(weighted+0.5), 0, 100)

	return result
}

// ScoredPlace pairs a place with its match result
type ScoredPlace struct {
	Place PlaceForMatching  `json:"place"`
	Match *PlaceMatchResult `json:"match"`
}

// FilterAndSortPlaces scores every place, drops those under minScore
// and returns the top limit entries by score, best first
func FilterAndSortPlaces(places []PlaceForMatching, persona users.Persona, mood Mood, minScore, limit int) []*ScoredPlace {
	scored := make([]*ScoredPlace, 0, len(places))
	for _, place := range places {
		match := CalculatePlaceMatch(persona, place)
		if mood != MoodNone {
			match = ApplyMoodBoost(match, place, mood)
		}
		if match.Score < minScore {
			continue
		}
		scored = append(scored, &ScoredPlace{Place: place, Match: match})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Match.Score > scored[j].Match.Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
