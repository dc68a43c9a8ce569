// internal/users/models.go

package users

import (
	"strings"
	"time"
)

// Country is a reference country record
type Country struct {
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// City is a reference city record with its country
type City struct {
	ID      string   `json:"id" db:"id"`
	Name    string   `json:"name" db:"name"`
	Country *Country `json:"country,omitempty"`
}

// Profile holds a user's self-reported profile data
type Profile struct {
	FirstName *string    `json:"first_name,omitempty" db:"first_name"`
	LastName  *string    `json:"last_name,omitempty" db:"last_name"`
	Gender    *string    `json:"gender,omitempty" db:"gender"`
	Birthday  *time.Time `json:"birthday,omitempty" db:"birthday"`
	Languages []string   `json:"languages" db:"languages"`

	// Persona is parsed and validated at the repository boundary;
	// scoring code never sees the raw JSON blob.
	Persona Persona `json:"persona"`
}

// User is the hydrated user record the matching and discovery
// services operate on
type User struct {
	ID            string   `json:"id" db:"id"`
	Username      string   `json:"username" db:"username"`
	Profile       *Profile `json:"profile,omitempty"`
	CurrentCityID *string  `json:"current_city_id,omitempty" db:"current_city_id"`
	CurrentCity   *City    `json:"current_city,omitempty"`

	// Coarse travel signals
	VisitedCountryCodes []string `json:"visited_countries"`
	VisitedCityIDs      []string `json:"visited_city_ids,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FullName builds the display name from profile parts, falling back
// to the username
func (u *User) FullName() string {
	if u.Profile == nil {
		return u.Username
	}

	first := ""
	if u.Profile.FirstName != nil {
		first = *u.Profile.FirstName
	}
	last := ""
	if u.Profile.LastName != nil {
		last = *u.Profile.LastName
	}

	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return u.Username
	}
	return name
}

// Birthday returns the profile birthday, or nil
func (u *User) Birthday() *time.Time {
	if u.Profile == nil {
		return nil
	}
	return u.Profile.Birthday
}

// Age computes full years between birthday and now; returns 0, false
// when the birthday is unknown
func (u *User) Age(now time.Time) (int, bool) {
	b := u.Birthday()
	if b == nil {
		return 0, false
	}
	return AgeAt(*b, now), true
}

// AgeAt computes full years elapsed between birthday and now
func AgeAt(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	// Not yet had the birthday this year
	anniversary := birthday.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
