package helpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
)

// MockOrderRepository is an in-memory test double for the order repository.
// Safe for concurrent use so worker-pool tests can share one instance.
type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[int64]market.Order // Key: order ID

	QueryErr     error
	ReconcileErr error
	IsFreshErr   error

	ReconcileCalls int
}

// NewMockOrderRepository creates a new mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[int64]market.Order),
	}
}

// Seed stores orders directly, bypassing reconciliation
func (m *MockOrderRepository) Seed(orders ...market.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range orders {
		m.orders[order.OrderID] = order
	}
}

// Orders returns all stored orders sorted by order ID
func (m *MockOrderRepository) Orders() []market.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]market.Order, 0, len(m.orders))
	for _, order := range m.orders {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderID < result[j].OrderID })
	return result
}

func (m *MockOrderRepository) IsFresh(ctx context.Context, regionID int64, maxAge time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsFreshErr != nil {
		return false, m.IsFreshErr
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	for _, order := range m.orders {
		if order.RegionID == regionID && !order.LastUpdated.Before(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockOrderRepository) Query(ctx context.Context, filter market.OrderFilter) ([]market.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	var result []market.Order
	for _, order := range m.orders {
		if filter.RegionID != nil && order.RegionID != *filter.RegionID {
			continue
		}
		if filter.IsBuyOrder != nil && order.IsBuyOrder != *filter.IsBuyOrder {
			continue
		}
		if len(filter.LocationIDs) > 0 && !containsID(filter.LocationIDs, order.LocationID) {
			continue
		}
		if !filter.UpdatedSince.IsZero() && order.LastUpdated.Before(filter.UpdatedSince) {
			continue
		}
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderID < result[j].OrderID })
	return result, nil
}

func (m *MockOrderRepository) Reconcile(ctx context.Context, regionID int64, orders []market.Order, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcileCalls++
	if m.ReconcileErr != nil {
		return m.ReconcileErr
	}
	incoming := make(map[int64]bool, len(orders))
	for _, order := range orders {
		incoming[order.OrderID] = true
	}
	for id, order := range m.orders {
		if order.RegionID == regionID && !incoming[id] {
			delete(m.orders, id)
		}
	}
	for _, order := range orders {
		order.RegionID = regionID
		order.LastUpdated = now
		m.orders[order.OrderID] = order
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
