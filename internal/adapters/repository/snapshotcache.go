package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rarepour/pkg/logger"
	"github.com/okian/rarepour/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL = time.Hour
	refreshKey = "snapshot"
)

// CacheStats describes the cache for the stats endpoint.
type CacheStats struct {
	Version    string    `json:"version,omitempty"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
	AgeSeconds float64   `json:"age_seconds"`
	Refreshes  uint64    `json:"refreshes"`
	Failures   uint64    `json:"failures"`
	StaleReads uint64    `json:"stale_reads"`
	LastError  string    `json:"last_error,omitempty"`
}

// SnapshotCache is a read-mostly cache of the festival data. Readers get
// the published snapshot through an atomic pointer; reloads go through a
// singleflight group so at most one runs at a time.
type SnapshotCache struct {
	loader          Loader
	ttl             time.Duration
	refreshInterval time.Duration
	serveStale      bool
	now             func() time.Time
	log             logger.Logger

	snapshot atomic.Pointer[Snapshot]
	group    singleflight.Group

	refreshes  atomic.Uint64
	failures   atomic.Uint64
	staleReads atomic.Uint64
	lastErr    atomic.Value // string

	// Periodic refresh management
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*SnapshotCache)(nil)

// NewSnapshotCache creates a cache around loader. Nothing is loaded until
// the first Get or Refresh, or until Start runs the background loop.
func NewSnapshotCache(loader Loader, opts ...Option) (*SnapshotCache, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	c := &SnapshotCache{
		loader:     loader,
		ttl:        defaultTTL,
		serveStale: true,
		now:        time.Now,
		log:        logger.Nop(),
		stopChan:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastErr.Store("")
	return c, nil
}

// Start launches the periodic refresh loop when an interval is configured.
func (c *SnapshotCache) Start(ctx context.Context) {
	if c.refreshInterval <= 0 {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopChan:
				return
			case <-ticker.C:
				if _, err := c.Refresh(ctx); err != nil {
					c.log.Warn(ctx, "periodic snapshot refresh failed", logger.Error(err))
				}
			}
		}
	}()
}

// Close stops the periodic refresh loop and waits for it to exit.
func (c *SnapshotCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	return nil
}

// Current returns the published snapshot, possibly nil or expired.
func (c *SnapshotCache) Current() *Snapshot {
	return c.snapshot.Load()
}

// Get returns a fresh snapshot, reloading when the current one expired.
// If the reload fails and serving stale data is enabled, the previous
// snapshot is returned.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	snap := c.snapshot.Load()
	if snap != nil && c.fresh(snap) {
		return snap, nil
	}

	next, err := c.Refresh(ctx)
	if err == nil {
		return next, nil
	}
	if snap != nil && c.serveStale {
		c.staleReads.Add(1)
		metrics.RecordSnapshotStaleServed()
		c.log.Warn(ctx, "serving stale snapshot after failed refresh",
			logger.String("version", snap.Version),
			logger.Time("loaded_at", snap.LoadedAt),
			logger.Error(err))
		return snap, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
}

// Refresh loads and publishes a new snapshot. Callers arriving while a
// load is running wait for it and share its result. The load is not
// cancelled when the caller that started it goes away.
func (c *SnapshotCache) Refresh(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.group.Do(refreshKey, func() (any, error) {
		return c.reload(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	snap, ok := v.(*Snapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot type %T", v)
	}
	return snap, nil
}

func (c *SnapshotCache) reload(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	ds, err := c.loader.Load(ctx)
	if err != nil {
		c.failures.Add(1)
		c.lastErr.Store(err.Error())
		metrics.RecordSnapshotRefreshError()
		metrics.RecordErrorLatency("repository", "snapshot_refresh", float64(time.Since(start).Milliseconds()))
		c.log.Error(ctx, "snapshot refresh failed", logger.Error(err))
		return nil, err
	}

	loadedAt := c.now()
	snap := NewSnapshot(uuid.NewString(), loadedAt, ds)
	c.snapshot.Store(snap)
	c.refreshes.Add(1)
	c.lastErr.Store("")

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordSnapshotRefresh(ms, loadedAt)
	metrics.UpdateSnapshotSizes(len(snap.Schedule), snap.Houses.Len(), snap.Catalog.Len(), len(snap.MasterClasses))
	c.log.Info(ctx, "snapshot published",
		logger.String("version", snap.Version),
		logger.Int("openings", len(snap.Schedule)),
		logger.Int("houses", snap.Houses.Len()),
		logger.Int("catalog_entries", snap.Catalog.Len()),
		logger.Int("master_classes", len(snap.MasterClasses)),
		logger.Float64("duration_ms", ms))
	return snap, nil
}

func (c *SnapshotCache) fresh(s *Snapshot) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(s.LoadedAt) < c.ttl
}

// Stats reports cache counters and the age of the current snapshot.
func (c *SnapshotCache) Stats() CacheStats {
	st := CacheStats{
		Refreshes:  c.refreshes.Load(),
		Failures:   c.failures.Load(),
		StaleReads: c.staleReads.Load(),
	}
	if msg, ok := c.lastErr.Load().(string); ok {
		st.LastError = msg
	}
	if snap := c.snapshot.Load(); snap != nil {
		st.Version = snap.Version
		st.LoadedAt = snap.LoadedAt
		st.AgeSeconds = c.now().Sub(snap.LoadedAt).Seconds()
	}
	return st
}
