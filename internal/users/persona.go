// internal/users/persona.go
// The persona blob is stored as untyped JSON in the profiles table.
// ParsePersona is the single place that turns it into a typed value;
// anything it cannot understand degrades to the zero persona instead
// of failing the read.

package users

import (
	"encoding/json"
	"strings"
)

// Budget tiers
const (
	BudgetCheap    = "cheap"
	BudgetModerate = "moderate"
	BudgetLuxury   = "luxury"
)

// Persona is a user's self-reported travel preferences
type Persona struct {
	Version      int      `json:"version,omitempty"`
	Interests    []string `json:"interests"`
	Budget       string   `json:"budget,omitempty"`
	TravelStyle  []string `json:"travel_style,omitempty"`
	TravelRhythm string   `json:"travel_rhythm,omitempty"`
}

// rawPersona tolerates the field variants that have accumulated in
// stored blobs: travelStyle as a single string or an array, and both
// camelCase and snake_case keys.
type rawPersona struct {
	Version      int             `json:"version"`
	Interests    []string        `json:"interests"`
	Budget       string          `json:"budget"`
	TravelStyle  json.RawMessage `json:"travelStyle"`
	TravelRhythm string          `json:"travelRhythm"`
}

// PrimaryStyle returns the leading travel style tag, or ""
func (p Persona) PrimaryStyle() string {
	if len(p.TravelStyle) == 0 {
		return ""
	}
	return p.TravelStyle[0]
}

// ParsePersona converts a stored persona blob into a typed Persona.
// Missing, null or malformed blobs produce the zero persona; a
// malformed blob never fails a user read.
func ParsePersona(raw json.RawMessage) Persona {
	if len(raw) == 0 || string(raw) == "null" {
		return Persona{}
	}

	var rp rawPersona
	if err := json.Unmarshal(raw, &rp); err != nil {
		return Persona{}
	}

	p := Persona{
		Version:      rp.Version,
		Interests:    normalizeTags(rp.Interests),
		Budget:       strings.ToLower(strings.TrimSpace(rp.Budget)),
		TravelRhythm: strings.TrimSpace(rp.TravelRhythm),
	}

	p.TravelStyle = parseStyleField(rp.TravelStyle)

	return p
}

// parseStyleField accepts either a JSON string or a JSON array of strings
func parseStyleField(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		single = strings.TrimSpace(single)
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return normalizeTags(many)
	}

	return nil
}

// normalizeTags trims entries and drops empties, preserving order
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
