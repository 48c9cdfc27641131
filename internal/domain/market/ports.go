package market

import (
	"context"
	"time"
)

// OrderFilter selects orders from the cache store. Zero-valued fields are
// not applied. LocationIDs is an OR match across the provided locations.
// UpdatedSince is an inclusive cutoff: orders with LastUpdated exactly at
// the cutoff are included.
type OrderFilter struct {
	RegionID     *int64
	LocationIDs  []int64
	IsBuyOrder   *bool
	UpdatedSince time.Time
}

// OrderRepository defines persistence operations for the market order cache
type OrderRepository interface {
	// IsFresh reports whether at least one order for the region was written
	// within maxAge of now. Used as a region-level freshness proxy.
	IsFresh(ctx context.Context, regionID int64, maxAge time.Duration) (bool, error)

	// Query returns all cached orders matching the filter
	Query(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Reconcile replaces the region's stored order set with the given full
	// snapshot: orders no longer present upstream are deleted, incoming
	// orders are upserted keyed on order id with LastUpdated set to now and
	// the region stamped. Best-effort bulk operation.
	Reconcile(ctx context.Context, regionID int64, orders []Order, now time.Time) error
}

// DataSource retrieves live order books from the external market API
type DataSource interface {
	// FetchRegionOrders pages through the external API and returns the
	// region's full current order book. On a page failure it returns the
	// pages accumulated so far together with a non-nil error; callers must
	// not reconcile such a partial snapshot.
	FetchRegionOrders(ctx context.Context, regionID int64) ([]Order, error)

	// ListRegionIDs enumerates every region known to the external API
	ListRegionIDs(ctx context.Context) ([]int64, error)
}
