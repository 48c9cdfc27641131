package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
)

// MockResolver is a test double for the reference resolver. Unconfigured
// IDs resolve to placeholders, matching the real resolver's contract.
type MockResolver struct {
	mu sync.Mutex

	stations map[int64]reference.Station
	types    map[int64]reference.ItemType
	regions  map[int64]reference.Region

	ResolvedStations []int64
	ResolvedTypes    []int64
	ResolvedRegions  []int64
}

// NewMockResolver creates a new mock resolver
func NewMockResolver() *MockResolver {
	return &MockResolver{
		stations: make(map[int64]reference.Station),
		types:    make(map[int64]reference.ItemType),
		regions:  make(map[int64]reference.Region),
	}
}

// AddStation configures a named station, optionally with a security status
func (m *MockResolver) AddStation(stationID int64, name string, security *float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations[stationID] = reference.Station{StationID: stationID, Name: name, Security: security}
}

// AddItemType configures a named item type
func (m *MockResolver) AddItemType(typeID int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[typeID] = reference.ItemType{TypeID: typeID, Name: name}
}

// AddRegion configures a named region
func (m *MockResolver) AddRegion(regionID int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions[regionID] = reference.Region{RegionID: regionID, Name: name}
}

func (m *MockResolver) Station(ctx context.Context, stationID int64) reference.Station {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolvedStations = append(m.ResolvedStations, stationID)
	if station, ok := m.stations[stationID]; ok {
		return station
	}
	return reference.PlaceholderStation(stationID)
}

func (m *MockResolver) ItemType(ctx context.Context, typeID int64) reference.ItemType {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolvedTypes = append(m.ResolvedTypes, typeID)
	if itemType, ok := m.types[typeID]; ok {
		return itemType
	}
	return reference.PlaceholderItemType(typeID)
}

func (m *MockResolver) Region(ctx context.Context, regionID int64) reference.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolvedRegions = append(m.ResolvedRegions, regionID)
	if region, ok := m.regions[regionID]; ok {
		return region
	}
	return reference.PlaceholderRegion(regionID)
}
