package repository

import (
	"time"

	"github.com/okian/rarepour/pkg/logger"
)

// Option applies a configuration option to the SnapshotCache.
type Option func(*SnapshotCache)

// WithTTL sets how long a snapshot is served before Get reloads. Zero
// means snapshots never expire on read.
func WithTTL(ttl time.Duration) Option {
	return func(c *SnapshotCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithRefreshInterval enables a background reload at the given interval.
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *SnapshotCache) {
		if interval > 0 {
			c.refreshInterval = interval
		}
	}
}

// WithServeStale controls whether an expired snapshot is served when a
// reload fails.
func WithServeStale(enabled bool) Option {
	return func(c *SnapshotCache) {
		c.serveStale = enabled
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *SnapshotCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger for refresh outcomes.
func WithLogger(l logger.Logger) Option {
	return func(c *SnapshotCache) {
		if l != nil {
			c.log = l
		}
	}
}
