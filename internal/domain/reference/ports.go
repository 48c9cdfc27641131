package reference

import "context"

// Store defines persistence operations for resolved reference data.
// Implementations return ErrNotFound for ids that have never been resolved.
type Store interface {
	GetStation(ctx context.Context, stationID int64) (*Station, error)
	SaveStation(ctx context.Context, station *Station) error
	SearchStations(ctx context.Context, nameQuery string, limit int) ([]Station, error)

	GetItemType(ctx context.Context, typeID int64) (*ItemType, error)
	SaveItemType(ctx context.Context, itemType *ItemType) error

	GetRegion(ctx context.Context, regionID int64) (*Region, error)
	SaveRegion(ctx context.Context, region *Region) error
}

// DataSource retrieves reference metadata from the external universe API
type DataSource interface {
	FetchStation(ctx context.Context, stationID int64) (*Station, error)
	FetchItemType(ctx context.Context, typeID int64) (*ItemType, error)
	FetchRegion(ctx context.Context, regionID int64) (*Region, error)
}

// Resolver provides get-or-fetch-and-store lookups. A resolver never fails:
// when neither the store nor the external API can produce a usable record it
// degrades to a synthesized placeholder.
type Resolver interface {
	Station(ctx context.Context, stationID int64) Station
	ItemType(ctx context.Context, typeID int64) ItemType
	Region(ctx context.Context, regionID int64) Region
}
