package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
)

// MockDataSource is a test double for the market data source
type MockDataSource struct {
	mu sync.Mutex

	regionOrders map[int64][]market.Order
	regionErrs   map[int64]error
	regionIDs    []int64
	listErr      error

	fetchCalls map[int64]int
}

// NewMockDataSource creates a new mock data source
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{
		regionOrders: make(map[int64][]market.Order),
		regionErrs:   make(map[int64]error),
		fetchCalls:   make(map[int64]int),
	}
}

// SetRegionOrders configures the orders returned for a region
func (m *MockDataSource) SetRegionOrders(regionID int64, orders []market.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regionOrders[regionID] = orders
}

// SetRegionError makes fetches for a region fail. Any orders configured for
// the region are still returned alongside the error, mimicking a fetch that
// fails partway through pagination.
func (m *MockDataSource) SetRegionError(regionID int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regionErrs[regionID] = err
}

// SetRegionIDs configures the region enumeration result
func (m *MockDataSource) SetRegionIDs(ids []int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regionIDs = ids
	m.listErr = err
}

// FetchCalls returns how many times a region was fetched
func (m *MockDataSource) FetchCalls(regionID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls[regionID]
}

func (m *MockDataSource) FetchRegionOrders(ctx context.Context, regionID int64) ([]market.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls[regionID]++
	orders := m.regionOrders[regionID]
	if err := m.regionErrs[regionID]; err != nil {
		return orders, err
	}
	return orders, nil
}

func (m *MockDataSource) ListRegionIDs(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.regionIDs, nil
}
