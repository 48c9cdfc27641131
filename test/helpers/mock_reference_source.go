package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
)

// MockReferenceSource is a test double for the universe API reference feed
type MockReferenceSource struct {
	mu sync.Mutex

	stations map[int64]reference.Station
	types    map[int64]reference.ItemType
	regions  map[int64]reference.Region

	FetchErr error

	StationFetches int
	TypeFetches    int
	RegionFetches  int
}

// NewMockReferenceSource creates a new mock reference source
func NewMockReferenceSource() *MockReferenceSource {
	return &MockReferenceSource{
		stations: make(map[int64]reference.Station),
		types:    make(map[int64]reference.ItemType),
		regions:  make(map[int64]reference.Region),
	}
}

// AddStation configures a fetchable station
func (m *MockReferenceSource) AddStation(station reference.Station) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations[station.StationID] = station
}

// AddItemType configures a fetchable item type
func (m *MockReferenceSource) AddItemType(itemType reference.ItemType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[itemType.TypeID] = itemType
}

// AddRegion configures a fetchable region
func (m *MockReferenceSource) AddRegion(region reference.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions[region.RegionID] = region
}

func (m *MockReferenceSource) FetchStation(ctx context.Context, stationID int64) (*reference.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StationFetches++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if station, ok := m.stations[stationID]; ok {
		return &station, nil
	}
	return nil, reference.ErrNotFound
}

func (m *MockReferenceSource) FetchItemType(ctx context.Context, typeID int64) (*reference.ItemType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TypeFetches++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if itemType, ok := m.types[typeID]; ok {
		return &itemType, nil
	}
	return nil, reference.ErrNotFound
}

func (m *MockReferenceSource) FetchRegion(ctx context.Context, regionID int64) (*reference.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegionFetches++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if region, ok := m.regions[regionID]; ok {
		return &region, nil
	}
	return nil, reference.ErrNotFound
}
