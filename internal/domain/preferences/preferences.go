// Package preferences holds the attendee's stored preferences, the
// per-request overrides and the merged view the engine works with.
package preferences

import (
	"github.com/okian/rarepour/internal/domain/conflict"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/scoring"
)

// Base is the attendee's stored preference set.
type Base struct {
	Houses        []string     `json:"houses"`
	Sizes         []model.Size `json:"sizes"`
	OlderThanYear int          `json:"older_than_year,omitempty"` // 0 when unset
}

// Override is a sparse per-request change. Nil slices and a nil year leave
// the base value in place; set values replace it. Exclusions, booked slots
// and tasted wines exist only here.
type Override struct {
	Houses        []string
	Sizes         []model.Size
	OlderThanYear *int
	ExcludedWines []string
	AttendedSlots []model.Interval
	TastedWines   []string
	IgnoreTasted  bool
}

// IsZero reports whether the override changes nothing.
func (o Override) IsZero() bool {
	return o.Houses == nil && o.Sizes == nil && o.OlderThanYear == nil &&
		len(o.ExcludedWines) == 0 && len(o.AttendedSlots) == 0 &&
		len(o.TastedWines) == 0 && !o.IgnoreTasted
}

// Effective is the merged preference set for one request.
type Effective struct {
	Houses        []string
	Sizes         []model.Size
	OlderThanYear int
	Excluded      conflict.ExclusionSet
	Booked        []model.Interval
}

// Criteria returns the scoring view of the preferences.
func (e Effective) Criteria() scoring.Criteria {
	return scoring.Criteria{Houses: e.Houses, Sizes: e.Sizes, OlderThan: e.OlderThanYear}
}

// Merge applies o over base. Neither argument is modified and the result
// shares no slices with them.
func Merge(base Base, o Override) Effective {
	eff := Effective{
		Houses:        append([]string(nil), base.Houses...),
		Sizes:         append([]model.Size(nil), base.Sizes...),
		OlderThanYear: base.OlderThanYear,
	}
	if o.Houses != nil {
		eff.Houses = append([]string(nil), o.Houses...)
	}
	if o.Sizes != nil {
		eff.Sizes = append([]model.Size(nil), o.Sizes...)
	}
	if o.OlderThanYear != nil {
		eff.OlderThanYear = *o.OlderThanYear
	}
	eff.Excluded = conflict.NewExclusionSet(o.ExcludedWines, o.TastedWines, o.IgnoreTasted)
	eff.Booked = append([]model.Interval(nil), o.AttendedSlots...)
	return eff
}
