// Package repository holds the current festival data snapshot and keeps it
// fresh.
package repository

import (
	"context"
	"time"

	"github.com/okian/rarepour/internal/adapters/source"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/internal/domain/pricing"
	"github.com/okian/rarepour/internal/domain/winename"
)

// Snapshot is an immutable view of every data source. Readers share it
// freely; a refresh publishes a new Snapshot instead of changing this one.
type Snapshot struct {
	Version       string
	LoadedAt      time.Time
	Schedule      []model.ScheduleRecord
	Catalog       *pricing.Catalog
	Houses        *winename.HouseCatalog
	Preferences   preferences.Base
	MasterClasses []model.MasterClass
}

// NewSnapshot indexes a freshly loaded dataset.
func NewSnapshot(version string, loadedAt time.Time, ds *source.Dataset) *Snapshot {
	if ds == nil {
		ds = &source.Dataset{}
	}
	return &Snapshot{
		Version:       version,
		LoadedAt:      loadedAt,
		Schedule:      ds.Schedule,
		Catalog:       pricing.NewCatalog(ds.PriceEntries),
		Houses:        winename.NewHouseCatalog(ds.Houses),
		Preferences:   ds.Preferences,
		MasterClasses: ds.MasterClasses,
	}
}

// Loader produces a complete dataset. source.FileLoader implements it.
type Loader interface {
	Load(ctx context.Context) (*source.Dataset, error)
}

// Store hands out consistent snapshots.
type Store interface {
	// Get returns a snapshot no older than the configured TTL, refreshing if
	// needed. Returns ErrDataUnavailable when nothing can be served.
	Get(ctx context.Context) (*Snapshot, error)
	// Refresh reloads unconditionally. Concurrent calls share one load.
	Refresh(ctx context.Context) (*Snapshot, error)
	// Current returns the last published snapshot without loading, or nil.
	Current() *Snapshot
	// Close stops background refreshes.
	Close() error
}
