// Package types contains common types used across the application
package types

import "time"

// Recommendation is one ranked opening as returned to clients.
type Recommendation struct {
	Name            string    `json:"name"`
	Time            time.Time `json:"time"`
	Stand           string    `json:"stand"`
	House           string    `json:"house,omitempty"`
	GlassPrice      *string   `json:"glass_price"`
	PreferenceScore int       `json:"preference_score"`
}

// HasPrice reports whether a glass price was resolved.
func (r Recommendation) HasPrice() bool {
	return r.GlassPrice != nil && *r.GlassPrice != ""
}

// PriceOr returns the glass price or fallback when none was resolved.
func (r Recommendation) PriceOr(fallback string) string {
	if !r.HasPrice() {
		return fallback
	}
	return *r.GlassPrice
}

const noOpeningsMessage = "No highly preferred rare openings available matching your schedule"

// NoOpeningsMessage is the text shown when nothing qualifies.
func NoOpeningsMessage(preferencesApplied bool) string {
	if preferencesApplied {
		return noOpeningsMessage + " and selected preferences."
	}
	return noOpeningsMessage + "."
}

// Openings is the answer to one next-openings request.
type Openings struct {
	Recommendations []Recommendation
	// PreferencesApplied is true when the request carried any override.
	PreferencesApplied bool
	SnapshotVersion    string
}

// Empty reports whether nothing qualified.
func (o Openings) Empty() bool {
	return len(o.Recommendations) == 0
}

// Message returns the no-result message, or "" when there are results.
func (o Openings) Message() string {
	if !o.Empty() {
		return ""
	}
	return NoOpeningsMessage(o.PreferencesApplied)
}
