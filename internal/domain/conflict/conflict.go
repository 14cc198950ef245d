// Package conflict decides whether an opening clashes with the attendee's
// booked sessions or with wines they do not want to taste again.
package conflict

import (
	"sort"
	"time"

	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/winename"
)

// ExclusionSet holds normalised wine names to skip.
type ExclusionSet map[string]struct{}

// NewExclusionSet normalises explicit exclusions and, unless ignoreTasted
// is set, the wines already tasted at attended sessions. The flag never
// affects explicit exclusions.
func NewExclusionSet(explicit, tasted []string, ignoreTasted bool) ExclusionSet {
	set := make(ExclusionSet, len(explicit)+len(tasted))
	set.add(explicit)
	if !ignoreTasted {
		set.add(tasted)
	}
	return set
}

func (s ExclusionSet) add(names []string) {
	for _, n := range names {
		if key := winename.Normalize(n); key != "" {
			s[key] = struct{}{}
		}
	}
}

// Contains reports whether the raw name normalises to an excluded entry.
func (s ExclusionSet) Contains(name string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[winename.Normalize(name)]
	return ok
}

// Names returns the normalised names in order.
func (s ExclusionSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Booked reports whether at falls inside any of the half-open intervals.
func Booked(at time.Time, booked []model.Interval) bool {
	for _, iv := range booked {
		if iv.Contains(at) {
			return true
		}
	}
	return false
}

// IsAvailable reports whether the opening is outside every booked interval
// and its name is not excluded.
func IsAvailable(opening model.Opening, booked []model.Interval, excluded ExclusionSet) bool {
	if Booked(opening.At, booked) {
		return false
	}
	return !excluded.Contains(opening.Name)
}
