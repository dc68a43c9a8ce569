// internal/travelhistory/models.go
// The unified travel history merges three sources of truth that have
// accumulated in the data model: dated city visits, coarse visited
// country codes, and the current-city pointer. MergeTravelHistory is
// pure; the service only gathers inputs.

package travelhistory

import (
	"fmt"
	"sort"
	"time"

	"github.com/wandermate/wandermate-backend/internal/users"
)

// Item sources
const (
	SourceCityVisit   = "city_visit"
	SourceCountry     = "country"
	SourceCurrentCity = "current_city"
)

// CityVisit is a dated stay in a city
type CityVisit struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	CityID      string     `json:"city_id" db:"city_id"`
	CityName    string     `json:"city_name" db:"city_name"`
	CountryCode string     `json:"country_code" db:"country_code"`
	CountryName string     `json:"country_name" db:"country_name"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	Verified    bool       `json:"verified" db:"verified"`
	Source      string     `json:"source" db:"source"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// TravelHistoryItem is one entry of the unified timeline
type TravelHistoryItem struct {
	CityID      *string    `json:"city_id,omitempty"`
	CityName    string     `json:"city_name,omitempty"`
	CountryCode string     `json:"country_code"`
	CountryName string     `json:"country_name,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	Verified    bool       `json:"verified"`
	Source      string     `json:"source"`
}

// MergeTravelHistory builds the unified timeline:
//
//  1. every city visit becomes an item; it is current only when the
//     visit is open-ended and the city is the user's current city
//  2. visited countries with no city visit become dateless items
//  3. a current city with no visit row gets a synthetic item dated now
//  4. dated items sort newest first, dateless items trail in insertion
//     order
//  5. duplicates (same location, same year) collapse to the first
//     occurrence after sorting
func MergeTravelHistory(user *users.User, visits []*CityVisit, countries []users.Country, now time.Time) []*TravelHistoryItem {
	items := make([]*TravelHistoryItem, 0, len(visits)+len(countries)+1)

	visitedCountryCodes := make(map[string]bool, len(visits))
	visitedCityIDs := make(map[string]bool, len(visits))

	// 1. City visits
	for _, visit := range visits {
		visitedCountryCodes[visit.CountryCode] = true
		visitedCityIDs[visit.CityID] = true

		cityID := visit.CityID
		isCurrent := visit.EndDate == nil &&
			user.CurrentCityID != nil && visit.CityID == *user.CurrentCityID

		items = append(items, &TravelHistoryItem{
			CityID:      &cityID,
			CityName:    visit.CityName,
			CountryCode: visit.CountryCode,
			CountryName: visit.CountryName,
			StartDate:   visit.StartDate,
			EndDate:     visit.EndDate,
			IsCurrent:   isCurrent,
			Verified:    visit.Verified,
			Source:      SourceCityVisit,
		})
	}

	// 2. Countries no city visit covers
	countryNames := make(map[string]string, len(countries))
	for _, c := range countries {
		countryNames[c.Code] = c.Name
	}
	for _, code := range user.VisitedCountryCodes {
		if visitedCountryCodes[code] {
			continue
		}
		items = append(items, &TravelHistoryItem{
			CountryCode: code,
			CountryName: countryNames[code],
			Source:      SourceCountry,
		})
	}

	// 3. Current city without a visit row
	if user.CurrentCityID != nil && !visitedCityIDs[*user.CurrentCityID] {
		cityID := *user.CurrentCityID
		start := now
		item := &TravelHistoryItem{
			CityID:    &cityID,
			StartDate: &start,
			IsCurrent: true,
			Source:    SourceCurrentCity,
		}
		if user.CurrentCity != nil {
			item.CityName = user.CurrentCity.Name
			if user.CurrentCity.Country != nil {
				item.CountryCode = user.CurrentCity.Country.Code
				item.CountryName = user.CurrentCity.Country.Name
			}
		}
		items = append(items, item)
	}

	// 4. Dated newest first, dateless trailing
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].StartDate, items[j].StartDate
		if di == nil || dj == nil {
			return di != nil && dj == nil
		}
		return di.After(*dj)
	})

	// 5. Dedupe per location and year, first occurrence wins
	seen := make(map[string]bool, len(items))
	deduped := items[:0]
	for _, item := range items {
		key := item.dedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, item)
	}

	return deduped
}

func (item *TravelHistoryItem) dedupKey() string {
	location := item.CountryCode
	if item.CityID != nil && *item.CityID != "" {
		location = *item.CityID
	} else if item.CityName != "" {
		location = item.CityName
	}

	year := "no-date"
	if item.StartDate != nil {
		year = fmt.Sprintf("%d", item.StartDate.Year())
	}

	return location + "-" + year
}
