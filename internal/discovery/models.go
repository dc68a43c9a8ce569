// internal/discovery/models.go
// Mate discovery filters. Filtering is pure and in-memory over the
// hydrated candidate page; the repository only excludes the requesting
// user and orders by recency.

package discovery

import (
	"sort"
	"strings"
	"time"

	"github.com/wandermate/wandermate-backend/internal/matching"
	"github.com/wandermate/wandermate-backend/internal/users"
)

// GenderAny matches every gender
const GenderAny = "ANY"

// Sort orders
const (
	SortDistance = "distance"
	SortAge      = "age"
	SortName     = "name"
)

// AgeRange is an inclusive age band
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DistanceRange is an inclusive distance band in kilometres
type DistanceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MateFilters is the full filter state of the discovery screen
type MateFilters struct {
	Gender    string        `json:"gender"`
	Age       AgeRange      `json:"age"`
	Distance  DistanceRange `json:"distance"`
	Interests []string      `json:"interests"`
	Sort      string        `json:"sort"`
	Search    string        `json:"search"`
}

// DefaultFilters is the canonical reset state: everything wide open
func DefaultFilters() MateFilters {
	return MateFilters{
		Gender:    GenderAny,
		Age:       AgeRange{Min: 18, Max: 100},
		Distance:  DistanceRange{Min: 0, Max: 100},
		Interests: []string{},
		Sort:      SortDistance,
		Search:    "",
	}
}

// Mate is a discovered candidate, optionally annotated with a match
// result
type Mate struct {
	User  *users.User           `json:"user"`
	Match *matching.MatchResult `json:"match,omitempty"`
}

// FilterMates applies the filters in a fixed order: gender, age,
// interests, then free-text search. Each stage only narrows; a mate
// missing the data a stage needs passes stages that cannot judge it
// (no birthday skips the age check) except gender, which must match
// unless the filter is ANY.
func FilterMates(mates []*users.User, filters MateFilters, now time.Time) []*users.User {
	out := make([]*users.User, 0, len(mates))

	search := strings.ToLower(strings.TrimSpace(filters.Search))

	for _, mate := range mates {
		if !matchesGender(mate, filters.Gender) {
			continue
		}
		if !matchesAge(mate, filters.Age, now) {
			continue
		}
		if !matchesInterests(mate, filters.Interests) {
			continue
		}
		if !matchesSearch(mate, search) {
			continue
		}
		out = append(out, mate)
	}

	return out
}

func matchesGender(mate *users.User, gender string) bool {
	if gender == "" || gender == GenderAny {
		return true
	}
	if mate.Profile == nil || mate.Profile.Gender == nil {
		return false
	}
	return strings.EqualFold(*mate.Profile.Gender, gender)
}

func matchesAge(mate *users.User, band AgeRange, now time.Time) bool {
	age, known := mate.Age(now)
	if !known {
		return true
	}
	return age >= band.Min && age <= band.Max
}

func matchesInterests(mate *users.User, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	if mate.Profile == nil {
		return false
	}

	have := make(map[string]bool, len(mate.Profile.Persona.Interests))
	for _, i := range mate.Profile.Persona.Interests {
		have[strings.ToLower(i)] = true
	}

	for _, w := range wanted {
		if have[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

func matchesSearch(mate *users.User, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(mate.FullName()), search) ||
		strings.Contains(strings.ToLower(mate.Username), search)
}

// SortMates orders mates in place. Distance keeps repository order,
// which is already proximity-first.
func SortMates(mates []*users.User, order string, now time.Time) {
	switch order {
	case SortAge:
		sort.SliceStable(mates, func(i, j int) bool {
			ai, iKnown := mates[i].Age(now)
			aj, jKnown := mates[j].Age(now)
			if iKnown != jKnown {
				return iKnown
			}
			return ai < aj
		})
	case SortName:
		sort.SliceStable(mates, func(i, j int) bool {
			return strings.ToLower(mates[i].FullName()) < strings.ToLower(mates[j].FullName())
		})
	}
}
