package pricing

import (
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/similarity"
	"github.com/okian/rarepour/internal/domain/winename"
)

// Default fuzzy thresholds.
const (
	DefaultSimilarityFloor = 60
	DefaultAcceptThreshold = 80
)

// Kind tells how a price was found.
type Kind string

// Match kinds.
const (
	KindExact Kind = "exact"
	KindFuzzy Kind = "fuzzy"
	KindNone  Kind = "none"
)

// Match is the outcome of a price lookup.
type Match struct {
	Entry model.PriceEntry
	House string
	Kind  Kind
	Score int // similarity of the chosen key; 100 for exact matches
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithSimilarity replaces the fuzzy scorer.
func WithSimilarity(f similarity.Func) Option {
	return func(m *Matcher) {
		if f != nil {
			m.similarity = f
		}
	}
}

// WithThresholds overrides the candidate floor and the acceptance
// threshold. Invalid pairs are ignored.
func WithThresholds(floor, accept int) Option {
	return func(m *Matcher) {
		if floor >= 0 && accept >= floor && accept <= 100 {
			m.floor = floor
			m.accept = accept
		}
	}
}

// Matcher finds the price entry for a wine name, scoped to the wine's
// house: exact normalised match first, then the best fuzzy candidate.
// Safe for concurrent use.
type Matcher struct {
	similarity similarity.Func
	floor      int
	accept     int
}

// NewMatcher creates a Matcher using WRatio and the default thresholds.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		similarity: similarity.WRatio,
		floor:      DefaultSimilarityFloor,
		accept:     DefaultAcceptThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindPrice resolves name to a catalog entry. The returned Match has Kind
// KindNone and ok=false when the house cannot be resolved, the remainder
// normalises to nothing, or no candidate is close enough.
func (m *Matcher) FindPrice(name string, catalog *Catalog, houses *winename.HouseCatalog) (Match, bool) {
	house, remainder, ok := houses.Resolve(name)
	if !ok {
		return Match{Kind: KindNone}, false
	}
	return m.findInHouse(house, remainder, catalog)
}

// findInHouse runs the exact and fuzzy passes for an already resolved house.
func (m *Matcher) findInHouse(house, remainder string, catalog *Catalog) (Match, bool) {
	miss := Match{Kind: KindNone, House: house}

	target := winename.Normalize(remainder)
	if target == "" {
		return miss, false
	}
	candidates := catalog.scope(house)
	if len(candidates) == 0 {
		return miss, false
	}

	for _, c := range candidates {
		if c.key == target {
			entry, _ := catalog.Lookup(c.fullName)
			return Match{Entry: entry, House: house, Kind: KindExact, Score: 100}, true
		}
	}

	best, bestScore := -1, -1
	for i, c := range candidates {
		score := m.similarity(target, c.key)
		if score < m.floor {
			continue
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return miss, false
	}
	if bestScore < m.accept {
		miss.Score = bestScore
		return miss, false
	}
	entry, _ := catalog.Lookup(candidates[best].fullName)
	return Match{Entry: entry, House: house, Kind: KindFuzzy, Score: bestScore}, true
}

// FindPriceForHouse is FindPrice for callers that already resolved the
// house of the wine.
func (m *Matcher) FindPriceForHouse(house, remainder string, catalog *Catalog) (Match, bool) {
	if house == "" {
		return Match{Kind: KindNone}, false
	}
	return m.findInHouse(house, remainder, catalog)
}
