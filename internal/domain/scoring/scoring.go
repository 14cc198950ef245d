// Package scoring rates how well an opening fits the attendee's preferences.
package scoring

import (
	"strings"

	"github.com/okian/rarepour/internal/domain/model"
)

// MaxScore is the highest possible score: one point per dimension.
const MaxScore = 3

// Candidate holds the attributes derived from an opening's wine name.
// Zero values mean the attribute could not be inferred.
type Candidate struct {
	House string
	Size  model.Size
	Year  int
}

// Criteria is the effective preference set as seen by the scorer.
type Criteria struct {
	Houses    []string
	Sizes     []model.Size
	OlderThan int // 0 when unset
}

// Breakdown tells which dimensions contributed.
type Breakdown struct {
	House bool
	Size  bool
	Age   bool
}

// Total returns the number of contributing dimensions.
func (b Breakdown) Total() int {
	n := 0
	for _, hit := range []bool{b.House, b.Size, b.Age} {
		if hit {
			n++
		}
	}
	return n
}

// Option applies a configuration option to the PreferenceScorer.
type Option func(*PreferenceScorer)

// WithCaseSensitiveHouses compares house names byte for byte instead of
// ignoring case.
func WithCaseSensitiveHouses(enabled bool) Option {
	return func(s *PreferenceScorer) {
		s.caseSensitiveHouses = enabled
	}
}

// PreferenceScorer adds one point per matching preference dimension: house,
// bottle size and age. It holds no mutable state.
type PreferenceScorer struct {
	caseSensitiveHouses bool
}

// NewPreferenceScorer creates a scorer with configuration options.
func NewPreferenceScorer(opts ...Option) *PreferenceScorer {
	s := &PreferenceScorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the summed score, between 0 and MaxScore.
func (s *PreferenceScorer) Score(c Candidate, prefs Criteria) int {
	return s.Explain(c, prefs).Total()
}

// Explain returns the per-dimension result. An empty preference list never
// matches; it is not a wildcard.
func (s *PreferenceScorer) Explain(c Candidate, prefs Criteria) Breakdown {
	return Breakdown{
		House: c.House != "" && s.containsHouse(prefs.Houses, c.House),
		Size:  c.Size != "" && containsSize(prefs.Sizes, c.Size),
		Age:   c.Year > 0 && prefs.OlderThan > 0 && c.Year <= prefs.OlderThan,
	}
}

func (s *PreferenceScorer) containsHouse(houses []string, house string) bool {
	for _, h := range houses {
		if h == house || (!s.caseSensitiveHouses && strings.EqualFold(h, house)) {
			return true
		}
	}
	return false
}

func containsSize(sizes []model.Size, size model.Size) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}
