// Package refresh replaces the cached catalog snapshot with a fresh copy of
// the upstream dump when it is due.
package refresh

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/lucro/internal/sources/aodata"
	"github.com/agentstation/lucro/internal/store"
	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/logging"
)

// Source provides the full upstream catalog.
type Source interface {
	FetchFullCatalog(ctx context.Context) ([]aodata.RawItem, error)
}

// Refresher runs the fetch, normalize, save pipeline against a store.
type Refresher struct {
	source   Source
	store    *store.Store
	interval time.Duration
	locale   string
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithInterval sets how old the snapshot may get before RefreshIfNeeded fetches.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLocale sets the locale used for item names.
func WithLocale(locale string) Option {
	return func(r *Refresher) {
		if locale != "" {
			r.locale = locale
		}
	}
}

// New creates a Refresher.
func New(source Source, st *store.Store, opts ...Option) *Refresher {
	r := &Refresher{
		source:   source,
		store:    st,
		interval: constants.DefaultRefreshInterval,
		locale:   constants.DefaultLocale,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the staleness interval.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// RefreshIfNeeded refreshes the snapshot when the store reports it stale
// at now. It returns false without touching the network when the snapshot
// is fresh, and false with the error when any step fails.
func (r *Refresher) RefreshIfNeeded(ctx context.Context, now utc.Time) (bool, error) {
	if !r.store.IsStale(now, r.interval) {
		logging.FromContext(ctx).Debug().Dur("interval", r.interval).Msg("Catalog is fresh, skipping refresh")
		return false, nil
	}
	if _, err := r.Refresh(ctx, now); err != nil {
		return false, err
	}
	return true, nil
}

// Refresh fetches and stores a new snapshot regardless of staleness. A
// failed fetch leaves the stored snapshot untouched.
func (r *Refresher) Refresh(ctx context.Context, now utc.Time) (*catalogs.Snapshot, error) {
	ctx = logging.WithOperation(ctx, "refresh")
	logger := logging.FromContext(ctx)
	start := time.Now()

	raw, err := r.source.FetchFullCatalog(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Catalog fetch failed, keeping the cached snapshot")
		return nil, err
	}

	items, skipped := aodata.Normalize(ctx, raw, r.locale, now)
	snapshot := catalogs.NewSnapshot(items, now)

	if err := r.store.Save(snapshot); err != nil {
		logger.Error().Err(err).Msg("Failed to save catalog snapshot")
		return nil, err
	}
	if err := r.store.RecordRefreshTime(now); err != nil {
		logger.Error().Err(err).Msg("Failed to record refresh time")
		return nil, err
	}

	logger.Info().
		Int("items", items.Len()).
		Int("categorized", len(snapshot.Categories)).
		Int("skipped", len(skipped)).
		Dur("duration", time.Since(start)).
		Msg("Catalog refreshed")

	return snapshot, nil
}
