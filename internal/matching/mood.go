// internal/matching/mood.go
// Mood-based score boost: when the user declares a mood, places whose
// tags serve that mood get up to 50 extra points.

package matching

import "fmt"

// Mood is an ephemeral "what am I in the mood for" signal
type Mood string

const (
	MoodNone   Mood = ""
	MoodHungry Mood = "hungry"
	MoodWork   Mood = "work"
	MoodSocial Mood = "social"
	MoodChill  Mood = "chill"
)

const maxMoodBoost = 50

var moodInterests = map[Mood][]string{
	MoodHungry: {
		"street_food_markets",
		"fine_dining",
		"cooking_classes",
		"wine_brewery_tours",
		"rooftop_bars",
		"nightclubs_dancing",
		"live_music_venues",
	},
	MoodWork: {
		"coworking_spaces",
		"work_friendly_cafes",
		"meetup_events",
	},
	MoodSocial: {
		"nightclubs_dancing",
		"rooftop_bars",
		"live_music_venues",
		"meetup_events",
		"hostel_vibes",
	},
	MoodChill: {
		"yoga_meditation",
		"spa_wellness_centers",
		"hot_springs",
		"beach_lounging",
		"silent_retreats",
	},
}

// MoodRelatedInterests returns the interest tags a mood maps to
func MoodRelatedInterests(mood Mood) []string {
	return moodInterests[mood]
}

// ApplyMoodBoost raises a place score in proportion to how many of the
// mood's interest tags the place carries, capped at maxMoodBoost and a
// final score of 100.
func ApplyMoodBoost(base *PlaceMatchResult, place PlaceForMatching, mood Mood) *PlaceMatchResult {
	related := MoodRelatedInterests(mood)
	if len(related) == 0 {
		return base
	}

	matching := intersect(place.Tags, related)
	if len(matching) == 0 {
		return base
	}

	boost := int(float64(len(matching))/float64(len(related))*maxMoodBoost + 0.5)

	boosted := *base
	boosted.Score = clamp(base.Score+boost, 0, 100)
	boosted.Reasoning = append(append([]string{}, base.Reasoning...),
		fmt.Sprintf("Mood boost: +%d points for %s mood match", boost, mood))

	return &boosted
}
