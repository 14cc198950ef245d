// Package recommend ranks upcoming rare openings for one attendee.
package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/okian/rarepour/internal/domain/conflict"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/internal/domain/pricing"
	"github.com/okian/rarepour/internal/domain/scoring"
	"github.com/okian/rarepour/internal/domain/types"
	"github.com/okian/rarepour/internal/domain/winename"
	"github.com/okian/rarepour/pkg/logger"
)

// Fixed selection rules.
const (
	MinScore = 2
	Limit    = 4
)

// Input is everything one recommendation pass needs. The engine only reads
// from it.
type Input struct {
	Schedule []model.ScheduleRecord
	Catalog  *pricing.Catalog
	Houses   *winename.HouseCatalog
	Prefs    preferences.Effective
	Now      time.Time
	Location *time.Location // zone of the schedule's wall-clock times
}

// Stats counts what happened at each stage of a pass.
type Stats struct {
	Malformed    int // records dropped for bad date/time
	Upcoming     int // strictly after Now
	Available    int // passed conflict checks
	Qualified    int // score >= MinScore
	PriceMatches map[pricing.Kind]int
}

// Result is the ranked output and its stats.
type Result struct {
	Recommendations []types.Recommendation
	Stats           Stats
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMatcher sets the price matcher.
func WithMatcher(m *pricing.Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithScorer sets the preference scorer.
func WithScorer(s *scoring.PreferenceScorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithLogger sets the logger used for dropped records and match details.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine orchestrates conflict filtering, enrichment, scoring and
// ordering. It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	matcher *pricing.Matcher
	scorer  *scoring.PreferenceScorer
	log     logger.Logger
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		matcher: pricing.NewMatcher(),
		scorer:  scoring.NewPreferenceScorer(),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type candidate struct {
	opening model.Opening
	attrs   scoring.Candidate
	price   *string
	score   int
}

// Recommend returns at most Limit openings after in.Now that do not clash
// with booked sessions or exclusions and score at least MinScore, earliest
// first and, at equal times, best score first. An empty list is a valid
// answer.
func (e *Engine) Recommend(ctx context.Context, in Input) Result {
	stats := Stats{PriceMatches: map[pricing.Kind]int{}}

	available := make([]model.Opening, 0, len(in.Schedule))
	for _, rec := range in.Schedule {
		op, err := rec.Opening(in.Location)
		if err != nil {
			stats.Malformed++
			e.log.Warn(ctx, "skipping schedule record with bad date/time",
				logger.String("name", rec.Name),
				logger.String("date", rec.Date),
				logger.String("time", rec.Time),
				logger.Error(err))
			continue
		}
		if !op.At.After(in.Now) {
			continue
		}
		stats.Upcoming++
		if !conflict.IsAvailable(op, in.Prefs.Booked, in.Prefs.Excluded) {
			continue
		}
		available = append(available, op)
	}
	stats.Available = len(available)
	if len(available) == 0 {
		return Result{Recommendations: []types.Recommendation{}, Stats: stats}
	}

	criteria := in.Prefs.Criteria()
	qualified := make([]candidate, 0, len(available))
	for _, op := range available {
		c := e.enrich(ctx, op, in, &stats)
		c.score = e.scorer.Score(c.attrs, criteria)
		if c.score < MinScore {
			continue
		}
		qualified = append(qualified, c)
	}
	stats.Qualified = len(qualified)

	sort.SliceStable(qualified, func(i, j int) bool {
		a, b := qualified[i], qualified[j]
		if !a.opening.At.Equal(b.opening.At) {
			return a.opening.At.Before(b.opening.At)
		}
		return a.score > b.score
	})
	if len(qualified) > Limit {
		qualified = qualified[:Limit]
	}

	out := make([]types.Recommendation, 0, len(qualified))
	for _, c := range qualified {
		out = append(out, types.Recommendation{
			Name:            c.opening.Name,
			Time:            c.opening.At,
			Stand:           c.opening.Stand,
			House:           c.attrs.House,
			GlassPrice:      c.price,
			PreferenceScore: c.score,
		})
	}
	return Result{Recommendations: out, Stats: stats}
}

// enrich derives house, size, year and price once per opening.
func (e *Engine) enrich(ctx context.Context, op model.Opening, in Input, stats *Stats) candidate {
	c := candidate{opening: op}

	house, remainder, ok := in.Houses.Resolve(op.Name)
	if ok {
		c.attrs.House = house
	}
	if size, ok := winename.InferSize(op.Name); ok {
		c.attrs.Size = size
	}
	if year, ok := winename.ExtractYear(op.Name); ok {
		c.attrs.Year = year
	}

	match := pricing.Match{Kind: pricing.KindNone}
	if ok {
		match, _ = e.matcher.FindPriceForHouse(house, remainder, in.Catalog)
	}
	stats.PriceMatches[match.Kind]++
	if match.Kind != pricing.KindNone && match.Entry.GlassPrice != "" {
		price := match.Entry.GlassPrice
		c.price = &price
	}
	if match.Kind == pricing.KindFuzzy {
		e.log.Debug(ctx, "fuzzy price match",
			logger.String("name", op.Name),
			logger.String("matched", match.Entry.FullName),
			logger.Int("score", match.Score))
	}
	return c
}
