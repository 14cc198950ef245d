// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the offline CLI.
package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/okian/rarepour/internal/adapters/repository"
	"github.com/okian/rarepour/internal/adapters/source"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/internal/domain/pricing"
	"github.com/okian/rarepour/internal/domain/recommend"
	"github.com/okian/rarepour/internal/domain/types"
	"github.com/okian/rarepour/pkg/logger"
	"github.com/okian/rarepour/pkg/metrics"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted      = fmt.Errorf("%w: service not started", repository.ErrDataUnavailable)
	ErrDataUnavailable = repository.ErrDataUnavailable
	ErrInvalidQuery    = preferences.ErrInvalidPreference
)

// Service implements the API dependencies for the recommender.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader repository.Loader
	cache  *repository.SnapshotCache
	engine *recommend.Engine

	// Configuration
	clock           func() time.Time
	location        *time.Location
	snapshotTTL     time.Duration
	refreshInterval time.Duration
	serveStale      bool
	classDuration   time.Duration
	sourceOpts      []source.Option

	// State
	started   bool
	startedAt time.Time
	requests  uint64
	empty     uint64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the file-backed loader.
func WithLoader(l repository.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithSourceOptions configures the default file loader (directory, file
// names). Ignored when WithLoader is used.
func WithSourceOptions(opts ...source.Option) Option {
	return func(s *Service) {
		s.sourceOpts = append(s.sourceOpts, opts...)
	}
}

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLocation sets the zone schedule and class times are written in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithSnapshotTTL sets how long loaded data is served before a reload.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.snapshotTTL = ttl
		}
	}
}

// WithRefreshInterval enables background reloads.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.refreshInterval = interval
		}
	}
}

// WithServeStale keeps serving old data when a reload fails.
func WithServeStale(enabled bool) Option {
	return func(s *Service) {
		s.serveStale = enabled
	}
}

// WithClassDuration sets the default master class session length.
func WithClassDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.classDuration = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:         time.Now,
		location:      time.Local,
		snapshotTTL:   time.Hour,
		serveStale:    true,
		classDuration: source.DefaultClassDuration,
		logger:        nil, // replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the snapshot cache and engine and warms the cache. A failed
// warm-up is logged but does not stop the service; requests report the data
// as unavailable until a load succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommender service...")

	if s.loader == nil {
		opts := append([]source.Option{
			source.WithLocation(s.location),
			source.WithClassDuration(s.classDuration),
			source.WithLogger(s.logger.Named("source")),
		}, s.sourceOpts...)
		s.loader = source.NewFileLoader(opts...)
	}

	cache, err := repository.NewSnapshotCache(s.loader,
		repository.WithTTL(s.snapshotTTL),
		repository.WithRefreshInterval(s.refreshInterval),
		repository.WithServeStale(s.serveStale),
		repository.WithClock(s.clock),
		repository.WithLogger(s.logger.Named("snapshot")),
	)
	if err != nil {
		return fmt.Errorf("snapshot cache: %w", err)
	}
	s.cache = cache
	s.engine = recommend.NewEngine(recommend.WithLogger(s.logger.Named("engine")))

	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial data load failed", logger.Error(err))
	}
	s.cache.Start(ctx)

	s.started = true
	s.startedAt = s.clock()
	s.logger.Info(ctx, "recommender service started",
		logger.String("timezone", s.location.String()),
		logger.Float64("snapshotTTLSeconds", s.snapshotTTL.Seconds()),
		logger.Float64("refreshIntervalSeconds", s.refreshInterval.Seconds()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommender service...")

	if s.cache != nil {
		_ = s.cache.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "recommender service stopped")
}

func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	cache, started := s.cache, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	return cache.Get(ctx)
}

// NextOpenings evaluates the request's query parameters against the
// current data and returns the best upcoming openings. Invalid parameters
// wrap ErrInvalidQuery; missing data wraps ErrDataUnavailable.
func (s *Service) NextOpenings(ctx context.Context, query url.Values) (types.Openings, error) {
	start := time.Now()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Openings{}, err
	}

	override, err := preferences.ParseQuery(query, snap.MasterClasses)
	if err != nil {
		return types.Openings{}, err
	}
	return s.recommend(ctx, snap, override, s.clock(), start), nil
}

// NextOpeningsAt runs the engine at an explicit time with a prepared
// override. The offline CLI uses it.
func (s *Service) NextOpeningsAt(ctx context.Context, now time.Time, override preferences.Override) (types.Openings, error) {
	start := time.Now()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Openings{}, err
	}
	return s.recommend(ctx, snap, override, now, start), nil
}

func (s *Service) recommend(ctx context.Context, snap *repository.Snapshot, override preferences.Override, now, start time.Time) types.Openings {
	res := s.engine.Recommend(ctx, recommend.Input{
		Schedule: snap.Schedule,
		Catalog:  snap.Catalog,
		Houses:   snap.Houses,
		Prefs:    preferences.Merge(snap.Preferences, override),
		Now:      now,
		Location: s.location,
	})

	s.recordStats(res)
	metrics.RecordRecommendationRequest(len(res.Recommendations), float64(time.Since(start).Microseconds())/1000)

	s.mu.Lock()
	s.requests++
	if len(res.Recommendations) == 0 {
		s.empty++
	}
	s.mu.Unlock()

	s.logger.Debug(ctx, "recommendations computed",
		logger.String("snapshot", snap.Version),
		logger.Int("upcoming", res.Stats.Upcoming),
		logger.Int("available", res.Stats.Available),
		logger.Int("qualified", res.Stats.Qualified),
		logger.Int("returned", len(res.Recommendations)),
	)

	return types.Openings{
		Recommendations:    res.Recommendations,
		PreferencesApplied: !override.IsZero(),
		SnapshotVersion:    snap.Version,
	}
}

func (s *Service) recordStats(res recommend.Result) {
	for i := 0; i < res.Stats.Malformed; i++ {
		metrics.RecordMalformedRecord("schedule")
	}
	metrics.RecordCandidatesScored(res.Stats.Available)
	for kind, n := range res.Stats.PriceMatches {
		outcome := metrics.MatchMiss
		switch kind {
		case pricing.KindExact:
			outcome = metrics.MatchExact
		case pricing.KindFuzzy:
			outcome = metrics.MatchFuzzy
		}
		for i := 0; i < n; i++ {
			metrics.RecordPriceMatch(outcome)
		}
	}
}

// Houses returns the sorted house names from the current wine list.
func (s *Service) Houses(ctx context.Context) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Houses.Houses(), nil
}

// MasterClasses returns the known master class sessions.
func (s *Service) MasterClasses(ctx context.Context) ([]model.MasterClass, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.MasterClass, len(snap.MasterClasses))
	copy(out, snap.MasterClasses)
	return out, nil
}

// Preferences returns the stored attendee preferences.
func (s *Service) Preferences(ctx context.Context) (preferences.Base, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return preferences.Base{}, err
	}
	return snap.Preferences, nil
}

// Location returns the zone schedule times are read in.
func (s *Service) Location() *time.Location {
	return s.location
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"timezone":           s.location.String(),
		"snapshotTTLSeconds": s.snapshotTTL.Seconds(),
		"requests":           s.requests,
		"emptyResults":       s.empty,
	}

	if s.started {
		stats["uptimeSeconds"] = s.clock().Sub(s.startedAt).Seconds()
		stats["snapshot"] = s.cache.Stats()
		if snap := s.cache.Current(); snap != nil {
			stats["openings"] = len(snap.Schedule)
			stats["houses"] = snap.Houses.Len()
			stats["catalogEntries"] = snap.Catalog.Len()
			stats["masterClasses"] = len(snap.MasterClasses)
		}
	}

	return stats
}
