package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/wandermate-backend/internal/users"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type testUserOpts struct {
	style     string
	languages []string
	interests []string
	cityID    string
	cityName  string
	country   string // ISO code, doubles as name in fixtures
	birthYear int
	visited   []string
}

func buildUser(id string, opts testUserOpts) *users.User {
	u := &users.User{
		ID:       id,
		Username: id,
		Profile: &users.Profile{
			Languages: opts.languages,
			Persona: users.Persona{
				Interests:   opts.interests,
				TravelStyle: []string{},
			},
		},
		VisitedCityIDs: opts.visited,
	}

	if opts.style != "" {
		u.Profile.Persona.TravelStyle = []string{opts.style}
	}

	if opts.birthYear != 0 {
		b := time.Date(opts.birthYear, 3, 1, 0, 0, 0, 0, time.UTC)
		u.Profile.Birthday = &b
	}

	if opts.cityID != "" {
		cityID := opts.cityID
		u.CurrentCityID = &cityID
		u.CurrentCity = &users.City{ID: cityID, Name: opts.cityName}
		if opts.country != "" {
			u.CurrentCity.Country = &users.Country{Code: opts.country, Name: opts.country}
		}
	}

	return u
}

func TestCalculateMatchIdealPair(t *testing.T) {
	a := buildUser("a", testUserOpts{
		style:     "Backpacker",
		languages: []string{"en"},
		interests: []string{"hiking", "coffee"},
		cityID:    "bkk",
		cityName:  "Bangkok",
		country:   "TH",
		birthYear: 1995,
	})
	b := buildUser("b", testUserOpts{
		style:     "Backpacker",
		languages: []string{"en", "de"},
		interests: []string{"hiking", "museums"},
		cityID:    "bkk",
		cityName:  "Bangkok",
		country:   "TH",
		birthYear: 1997,
	})

	result := CalculateMatch(a, b, ModeCurrent, testNow)
	require.NotNil(t, result)

	// 70 base + 10 style + 5 language + 5 interest + 5 age + 5 city
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, []string{"Backpacker"}, result.Breakdown.TravelStyle.Shared)
	assert.Equal(t, []string{"en"}, result.Breakdown.Languages.Shared)
	assert.Equal(t, []string{"hiking"}, result.Breakdown.Interests.Shared)
	assert.True(t, result.Breakdown.Location.SameCity)
	assert.True(t, result.Breakdown.Age.Known)
	assert.Equal(t, 2, result.Breakdown.Age.DiffYears)
	assert.Equal(t, ageCloseBonus, result.Breakdown.Age.Score)
}

func TestCalculateMatchWorstPair(t *testing.T) {
	a := buildUser("a", testUserOpts{
		style:     "Luxury",
		languages: []string{"en"},
		interests: []string{"golf"},
		cityID:    "dxb",
		cityName:  "Dubai",
		country:   "AE",
		birthYear: 1970,
	})
	b := buildUser("b", testUserOpts{
		style:     "Backpacker",
		languages: []string{"es"},
		interests: []string{"surfing"},
		cityID:    "lim",
		cityName:  "Lima",
		country:   "PE",
		birthYear: 2000,
	})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	// 70 - 20 clash - 25 languages - 10 interests - 15 age - 10 country,
	// clamped at zero
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, styleClashMalus, result.Breakdown.TravelStyle.Score)
	assert.Equal(t, noLanguageMalus, result.Breakdown.Languages.Score)
	assert.Equal(t, ageGapMalus, result.Breakdown.Age.Score)
	assert.Equal(t, farCountryMalus, result.Breakdown.Location.Score)
}

func TestCalculateMatchScoreStaysInBounds(t *testing.T) {
	many := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	pairs := []struct {
		name string
		a, b *users.User
	}{
		{"empty users", &users.User{ID: "a"}, &users.User{ID: "b"}},
		{
			"everything shared",
			buildUser("a", testUserOpts{style: "Nomad", languages: many, interests: many, cityID: "x", country: "XX", birthYear: 1990, visited: many}),
			buildUser("b", testUserOpts{style: "Nomad", languages: many, interests: many, cityID: "x", country: "XX", birthYear: 1990, visited: many}),
		},
		{
			"nothing shared",
			buildUser("a", testUserOpts{style: "Luxury", languages: []string{"en"}, interests: []string{"x"}, cityID: "a", country: "AA", birthYear: 1960}),
			buildUser("b", testUserOpts{style: "Backpacker", languages: []string{"fr"}, interests: []string{"y"}, cityID: "b", country: "BB", birthYear: 2004}),
		},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			result := CalculateMatch(tc.a, tc.b, ModeCurrent, testNow)
			assert.GreaterOrEqual(t, result.Score, 0)
			assert.LessOrEqual(t, result.Score, 100)
		})
	}
}

func TestCalculateMatchStyleClashIsSymmetric(t *testing.T) {
	luxury := buildUser("a", testUserOpts{style: "Luxury"})
	backpacker := buildUser("b", testUserOpts{style: "Backpacker"})

	r1 := CalculateMatch(luxury, backpacker, ModeCurrent, testNow)
	r2 := CalculateMatch(backpacker, luxury, ModeCurrent, testNow)

	assert.Equal(t, styleClashMalus, r1.Breakdown.TravelStyle.Score)
	assert.Equal(t, r1.Score, r2.Score)
}

func TestCalculateMatchSymmetry(t *testing.T) {
	a := buildUser("a", testUserOpts{
		style: "Explorer", languages: []string{"en", "fr"},
		interests: []string{"hiking", "food"}, cityID: "par", country: "FR", birthYear: 1992,
	})
	b := buildUser("b", testUserOpts{
		style: "Explorer", languages: []string{"fr"},
		interests: []string{"food"}, cityID: "lyo", country: "FR", birthYear: 1988,
	})

	r1 := CalculateMatch(a, b, ModeCurrent, testNow)
	r2 := CalculateMatch(b, a, ModeCurrent, testNow)

	assert.Equal(t, r1.Score, r2.Score)
}

func TestCalculateMatchLanguageCap(t *testing.T) {
	langs := []string{"en", "de", "fr", "es", "it"}
	a := buildUser("a", testUserOpts{languages: langs})
	b := buildUser("b", testUserOpts{languages: langs})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	// 5 shared would be +25 uncapped
	assert.Equal(t, languageBonusCap, result.Breakdown.Languages.Score)
}

func TestCalculateMatchInterestCap(t *testing.T) {
	shared := []string{"a", "b", "c", "d", "e", "f"}
	a := buildUser("a", testUserOpts{languages: []string{"en"}, interests: shared})
	b := buildUser("b", testUserOpts{languages: []string{"en"}, interests: shared})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	assert.Equal(t, interestBonusCap, result.Breakdown.Interests.Score)
	assert.Equal(t, shared, result.Breakdown.Interests.Shared)
}

func TestCalculateMatchSharedPlaces(t *testing.T) {
	a := buildUser("a", testUserOpts{languages: []string{"en"}, visited: []string{"bkk", "hkt", "cnx", "sgn", "han"}})
	b := buildUser("b", testUserOpts{languages: []string{"en"}, visited: []string{"han", "sgn", "cnx", "hkt", "bkk"}})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	// 5 shared at +3 each caps at +10
	assert.Equal(t, placeBonusCap, result.Breakdown.Places.Score)
	assert.Len(t, result.Breakdown.Places.Shared, 5)
}

func TestCalculateMatchUnknownAgeIsNeutral(t *testing.T) {
	a := buildUser("a", testUserOpts{languages: []string{"en"}, birthYear: 1990})
	b := buildUser("b", testUserOpts{languages: []string{"en"}})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	assert.False(t, result.Breakdown.Age.Known)
	assert.Zero(t, result.Breakdown.Age.Score)
}

func TestCalculateMatchUnknownLocationIsNeutral(t *testing.T) {
	a := buildUser("a", testUserOpts{languages: []string{"en"}})
	b := buildUser("b", testUserOpts{languages: []string{"en"}})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	assert.False(t, result.Breakdown.Location.SameCity)
	assert.False(t, result.Breakdown.Location.SameCountry)
	assert.Zero(t, result.Breakdown.Location.Score)
}

func TestCalculateMatchSameCityNeedsBothKnown(t *testing.T) {
	a := buildUser("a", testUserOpts{languages: []string{"en"}, cityID: "bkk", country: "TH"})
	b := buildUser("b", testUserOpts{languages: []string{"en"}})

	result := CalculateMatch(a, b, ModeCurrent, testNow)

	assert.False(t, result.Breakdown.Location.SameCity)
}

func TestCalculateMatchesBatchPreservesOrder(t *testing.T) {
	current := buildUser("me", testUserOpts{languages: []string{"en"}})
	candidates := []*users.User{
		buildUser("c1", testUserOpts{languages: []string{"en"}}),
		buildUser("c2", testUserOpts{languages: []string{"fr"}}),
		buildUser("c3", testUserOpts{languages: []string{"en"}}),
	}

	scored := CalculateMatchesBatch(current, candidates, ModeCurrent, testNow)

	require.Len(t, scored, 3)
	assert.Equal(t, "c1", scored[0].UserID)
	assert.Equal(t, "c2", scored[1].UserID)
	assert.Equal(t, "c3", scored[2].UserID)
	assert.Greater(t, scored[0].Match.Score, scored[1].Match.Score)
}

func TestIntersectPreservesFirstArgumentOrder(t *testing.T) {
	got := intersect([]string{"c", "a", "b"}, []string{"b", "c"})
	assert.Equal(t, []string{"c", "b"}, got)

	assert.Equal(t, []string{}, intersect(nil, []string{"a"}))
	assert.Equal(t, []string{}, intersect([]string{"a"}, nil))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, "high", Confidence(80))
	assert.Equal(t, "high", Confidence(100))
	assert.Equal(t, "medium", Confidence(60))
	assert.Equal(t, "medium", Confidence(79))
	assert.Equal(t, "low", Confidence(59))
	assert.Equal(t, "low", Confidence(0))
}
