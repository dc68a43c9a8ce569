package travelhistory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/wandermate-backend/internal/users"
)

var mergeNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func strPtr(s string) *string { return &s }

func visit(cityID, cityName, countryCode string, start, end *time.Time) *CityVisit {
	return &CityVisit{
		ID:          "v-" + cityID,
		UserID:      "u1",
		CityID:      cityID,
		CityName:    cityName,
		CountryCode: countryCode,
		CountryName: countryCode,
		StartDate:   start,
		EndDate:     end,
		Source:      SourceCityVisit,
	}
}

func TestMergeTravelHistoryOrdersDatedNewestFirst(t *testing.T) {
	user := &users.User{ID: "u1"}
	visits := []*CityVisit{
		visit("bkk", "Bangkok", "TH", datePtr(2023, 1, 10), datePtr(2023, 2, 1)),
		visit("lis", "Lisbon", "PT", datePtr(2024, 5, 3), datePtr(2024, 6, 1)),
		visit("hkt", "Phuket", "TH", datePtr(2022, 11, 1), datePtr(2022, 12, 1)),
	}

	items := MergeTravelHistory(user, visits, nil, mergeNow)

	require.Len(t, items, 3)
	assert.Equal(t, "lis", *items[0].CityID)
	assert.Equal(t, "bkk", *items[1].CityID)
	assert.Equal(t, "hkt", *items[2].CityID)
}

func TestMergeTravelHistoryDatelessCountriesTrail(t *testing.T) {
	user := &users.User{
		ID:                  "u1",
		VisitedCountryCodes: []string{"JP", "TH", "BR"},
	}
	visits := []*CityVisit{
		visit("bkk", "Bangkok", "TH", datePtr(2024, 1, 1), datePtr(2024, 2, 1)),
	}
	countries := []users.Country{
		{Code: "JP", Name: "Japan"},
		{Code: "BR", Name: "Brazil"},
	}

	items := MergeTravelHistory(user, visits, countries, mergeNow)

	require.Len(t, items, 3)
	assert.Equal(t, "bkk", *items[0].CityID)

	// TH is covered by the Bangkok visit; JP and BR trail datelessly
	// in insertion order with resolved names
	assert.Equal(t, "JP", items[1].CountryCode)
	assert.Equal(t, "Japan", items[1].CountryName)
	assert.Nil(t, items[1].StartDate)
	assert.Equal(t, SourceCountry, items[1].Source)
	assert.Equal(t, "BR", items[2].CountryCode)
}

func TestMergeTravelHistoryCurrentCityRules(t *testing.T) {
	user := &users.User{ID: "u1", CurrentCityID: strPtr("bkk")}

	visits := []*CityVisit{
		// Open-ended visit to the current city: current
		visit("bkk", "Bangkok", "TH", datePtr(2025, 5, 1), nil),
		// Open-ended visit elsewhere: not current
		visit("lis", "Lisbon", "PT", datePtr(2025, 1, 1), nil),
		// Closed visit to the current city: not current
		visit("bkk2", "Bangkok", "TH", datePtr(2024, 1, 1), datePtr(2024, 2, 1)),
	}

	items := MergeTravelHistory(user, visits, nil, mergeNow)

	require.Len(t, items, 3)
	assert.True(t, items[0].IsCurrent)
	assert.False(t, items[1].IsCurrent)
	assert.False(t, items[2].IsCurrent)
}

func TestMergeTravelHistorySynthesizesCurrentCity(t *testing.T) {
	user := &users.User{
		ID:            "u1",
		CurrentCityID: strPtr("cdmx"),
		CurrentCity: &users.City{
			ID:      "cdmx",
			Name:    "Mexico City",
			Country: &users.Country{Code: "MX", Name: "Mexico"},
		},
	}
	visits := []*CityVisit{
		visit("bkk", "Bangkok", "TH", datePtr(2024, 1, 1), datePtr(2024, 2, 1)),
	}

	items := MergeTravelHistory(user, visits, nil, mergeNow)

	require.Len(t, items, 2)

	// Dated now, so it sorts ahead of last year's visit
	current := items[0]
	assert.True(t, current.IsCurrent)
	assert.Equal(t, "cdmx", *current.CityID)
	assert.Equal(t, "Mexico City", current.CityName)
	assert.Equal(t, "MX", current.CountryCode)
	assert.Equal(t, SourceCurrentCity, current.Source)
	require.NotNil(t, current.StartDate)
	assert.Equal(t, mergeNow, *current.StartDate)
}

func TestMergeTravelHistoryNoSyntheticWhenVisitExists(t *testing.T) {
	user := &users.User{ID: "u1", CurrentCityID: strPtr("bkk")}
	visits := []*CityVisit{
		visit("bkk", "Bangkok", "TH", datePtr(2025, 5, 1), nil),
	}

	items := MergeTravelHistory(user, visits, nil, mergeNow)

	require.Len(t, items, 1)
	assert.Equal(t, SourceCityVisit, items[0].Source)
}

func TestMergeTravelHistoryDedupesPerLocationYear(t *testing.T) {
	user := &users.User{ID: "u1"}
	visits := []*CityVisit{
		visit("bkk", "Bangkok", "TH", datePtr(2024, 1, 1), datePtr(2024, 2, 1)),
		visit("bkk", "Bangkok", "TH", datePtr(2024, 6, 1), datePtr(2024, 7, 1)),
		visit("bkk", "Bangkok", "TH", datePtr(2023, 3, 1), datePtr(2023, 4, 1)),
	}

	items := MergeTravelHistory(user, visits, nil, mergeNow)

	// Two stays in the same year collapse; the newer one survived the
	// sort and wins
	require.Len(t, items, 2)
	assert.Equal(t, 2024, items[0].StartDate.Year())
	assert.Equal(t, time.June, items[0].StartDate.Month())
	assert.Equal(t, 2023, items[1].StartDate.Year())
}

func TestMergeTravelHistoryDedupesDatelessCountries(t *testing.T) {
	user := &users.User{
		ID:                  "u1",
		VisitedCountryCodes: []string{"JP", "JP"},
	}

	items := MergeTravelHistory(user, nil, []users.Country{{Code: "JP", Name: "Japan"}}, mergeNow)

	require.Len(t, items, 1)
	assert.Equal(t, "JP", items[0].CountryCode)
}

func TestMergeTravelHistoryEmptyInputs(t *testing.T) {
	items := MergeTravelHistory(&users.User{ID: "u1"}, nil, nil, mergeNow)
	assert.Empty(t, items)
}
