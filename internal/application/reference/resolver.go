// Package reference implements the lazily-populated reference cache:
// lookups hit the persistent store first, fall through to the external API
// on miss, and persist what they find. A record, once resolved, is treated
// as permanent.
package reference

import (
	"context"
	"errors"
	"sync"

	"github.com/andrescamacho/evemarkets-go/internal/application/logging"
	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
)

// CachingResolver implements reference.Resolver on top of a persistent
// store and the external universe API. Resolution never fails: when neither
// the store nor the API can produce a usable record, the caller gets a
// synthesized placeholder so reference lookups cannot block arbitrage
// computation.
//
// Resolved records are additionally memoized in process memory, so a query
// touching the same station hundreds of times costs one store read.
type CachingResolver struct {
	store  reference.Store
	source reference.DataSource

	mu       sync.RWMutex
	stations map[int64]reference.Station
	types    map[int64]reference.ItemType
	regions  map[int64]reference.Region
}

// NewCachingResolver creates a resolver over the given store and data source
func NewCachingResolver(store reference.Store, source reference.DataSource) *CachingResolver {
	return &CachingResolver{
		store:    store,
		source:   source,
		stations: make(map[int64]reference.Station),
		types:    make(map[int64]reference.ItemType),
		regions:  make(map[int64]reference.Region),
	}
}

// Station resolves a station id to its display record
func (r *CachingResolver) Station(ctx context.Context, stationID int64) reference.Station {
	r.mu.RLock()
	cached, ok := r.stations[stationID]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	station := r.lookupStation(ctx, stationID)

	r.mu.Lock()
	r.stations[stationID] = station
	r.mu.Unlock()
	return station
}

func (r *CachingResolver) lookupStation(ctx context.Context, stationID int64) reference.Station {
	stored, err := r.store.GetStation(ctx, stationID)
	if err == nil {
		return *stored
	}
	if !errors.Is(err, reference.ErrNotFound) {
		logging.LoggerFromContext(ctx).Log("WARN", "Station lookup failed, using placeholder", map[string]interface{}{
			"station_id": stationID,
			"error":      err.Error(),
		})
		return reference.PlaceholderStation(stationID)
	}

	fetched, err := r.source.FetchStation(ctx, stationID)
	if err != nil {
		logging.LoggerFromContext(ctx).Log("WARN", "Station fetch failed, using placeholder", map[string]interface{}{
			"station_id": stationID,
			"error":      err.Error(),
		})
		return reference.PlaceholderStation(stationID)
	}

	if err := r.store.SaveStation(ctx, fetched); err != nil {
		// The record is still usable this call; it will be re-fetched next time
		logging.LoggerFromContext(ctx).Log("WARN", "Failed to persist station", map[string]interface{}{
			"station_id": stationID,
			"error":      err.Error(),
		})
	}
	return *fetched
}

// ItemType resolves a commodity type id to its display record
func (r *CachingResolver) ItemType(ctx context.Context, typeID int64) reference.ItemType {
	r.mu.RLock()
	cached, ok := r.types[typeID]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	itemType := r.lookupItemType(ctx, typeID)

	r.mu.Lock()
	r.types[typeID] = itemType
	r.mu.Unlock()
	return itemType
}

func (r *CachingResolver) lookupItemType(ctx context.Context, typeID int64) reference.ItemType {
	stored, err := r.store.GetItemType(ctx, typeID)
	if err == nil {
		return *stored
	}
	if !errors.Is(err, reference.ErrNotFound) {
		logging.LoggerFromContext(ctx).Log("WARN", "Item type lookup failed, using placeholder", map[string]interface{}{
			"type_id": typeID,
			"error":   err.Error(),
		})
		return reference.PlaceholderItemType(typeID)
	}

	fetched, err := r.source.FetchItemType(ctx, typeID)
	if err != nil {
		logging.LoggerFromContext(ctx).Log("WARN", "Item type fetch failed, using placeholder", map[string]interface{}{
			"type_id": typeID,
			"error":   err.Error(),
		})
		return reference.PlaceholderItemType(typeID)
	}

	if err := r.store.SaveItemType(ctx, fetched); err != nil {
		logging.LoggerFromContext(ctx).Log("WARN", "Failed to persist item type", map[string]interface{}{
			"type_id": typeID,
			"error":   err.Error(),
		})
	}
	return *fetched
}

// Region resolves a region id to its display record
func (r *CachingResolver) Region(ctx context.Context, regionID int64) reference.Region {
	r.mu.RLock()
	cached, ok := r.regions[regionID]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	region := r.lookupRegion(ctx, regionID)

	r.mu.Lock()
	r.regions[regionID] = region
	r.mu.Unlock()
	return region
}

func (r *CachingResolver) lookupRegion(ctx context.Context, regionID int64) reference.Region {
	stored, err := r.store.GetRegion(ctx, regionID)
	if err == nil {
		return *stored
	}
	if !errors.Is(err, reference.ErrNotFound) {
		logging.LoggerFromContext(ctx).Log("WARN", "Region lookup failed, using placeholder", map[string]interface{}{
			"region_id": regionID,
			"error":     err.Error(),
		})
		return reference.PlaceholderRegion(regionID)
	}

	fetched, err := r.source.FetchRegion(ctx, regionID)
	if err != nil {
		logging.LoggerFromContext(ctx).Log("WARN", "Region fetch failed, using placeholder", map[string]interface{}{
			"region_id": regionID,
			"error":     err.Error(),
		})
		return reference.PlaceholderRegion(regionID)
	}

	if err := r.store.SaveRegion(ctx, fetched); err != nil {
		logging.LoggerFromContext(ctx).Log("WARN", "Failed to persist region", map[string]interface{}{
			"region_id": regionID,
			"error":     err.Error(),
		})
	}
	return *fetched
}
