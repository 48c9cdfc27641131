package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
)

const (
	upsertBatchSize = 500
	deleteBatchSize = 500
)

// GormOrderRepository implements market.OrderRepository using GORM
type GormOrderRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB, clock shared.Clock) *GormOrderRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormOrderRepository{db: db, clock: clock}
}

// IsFresh reports whether at least one order for the region has been written
// within maxAge of now
func (r *GormOrderRepository) IsFresh(ctx context.Context, regionID int64, maxAge time.Duration) (bool, error) {
	cutoff := r.clock.Now().Add(-maxAge)

	var count int64
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("region_id = ? AND last_updated >= ?", regionID, cutoff).
		Limit(1).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check region freshness: %w", result.Error)
	}

	return count > 0, nil
}

// Query returns cached orders matching the filter, in stable order-id order
func (r *GormOrderRepository) Query(ctx context.Context, filter market.OrderFilter) ([]market.Order, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{})

	if filter.RegionID != nil {
		query = query.Where("region_id = ?", *filter.RegionID)
	}
	if len(filter.LocationIDs) > 0 {
		query = query.Where("location_id IN ?", filter.LocationIDs)
	}
	if filter.IsBuyOrder != nil {
		query = query.Where("is_buy_order = ?", *filter.IsBuyOrder)
	}
	if !filter.UpdatedSince.IsZero() {
		// Inclusive cutoff: an order stamped exactly at the boundary passes
		query = query.Where("last_updated >= ?", filter.UpdatedSince)
	}

	var models []OrderModel
	result := query.Order("order_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query orders: %w", result.Error)
	}

	orders := make([]market.Order, len(models))
	for i, model := range models {
		orders[i] = modelToOrder(&model)
	}
	return orders, nil
}

// Reconcile replaces the region's stored order set with a freshly fetched
// full snapshot: stored orders absent upstream are deleted, incoming orders
// are upserted keyed on order_id with last_updated stamped to now.
//
// This is a best-effort bulk operation, not one transaction: a partial
// failure leaves some orders updated but never an inconsistent row, matching
// an upstream API that only serves full current snapshots.
func (r *GormOrderRepository) Reconcile(ctx context.Context, regionID int64, orders []market.Order, now time.Time) error {
	incoming := make(map[int64]struct{}, len(orders))
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return fmt.Errorf("invalid incoming order: %w", err)
		}
		incoming[orders[i].OrderID] = struct{}{}
	}

	// Delete stored orders the upstream no longer reports for this region
	var storedIDs []int64
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("region_id = ?", regionID).
		Pluck("order_id", &storedIDs)
	if result.Error != nil {
		return fmt.Errorf("failed to list stored orders for region %d: %w", regionID, result.Error)
	}

	var vanished []int64
	for _, id := range storedIDs {
		if _, ok := incoming[id]; !ok {
			vanished = append(vanished, id)
		}
	}
	for start := 0; start < len(vanished); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(vanished) {
			end = len(vanished)
		}
		result := r.db.WithContext(ctx).
			Where("order_id IN ?", vanished[start:end]).
			Delete(&OrderModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete vanished orders for region %d: %w", regionID, result.Error)
		}
	}

	if len(orders) == 0 {
		return nil
	}

	// Upsert the full incoming snapshot keyed on order_id
	models := make([]OrderModel, len(orders))
	for i, order := range orders {
		models[i] = orderToModel(&order)
		models[i].RegionID = regionID
		models[i].LastUpdated = now
	}

	result = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, upsertBatchSize)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert orders for region %d: %w", regionID, result.Error)
	}

	return nil
}

func modelToOrder(model *OrderModel) market.Order {
	return market.Order{
		OrderID:      model.OrderID,
		RegionID:     model.RegionID,
		LocationID:   model.LocationID,
		TypeID:       model.TypeID,
		IsBuyOrder:   model.IsBuyOrder,
		Price:        model.Price,
		VolumeRemain: model.VolumeRemain,
		LastUpdated:  model.LastUpdated,
	}
}

func orderToModel(order *market.Order) OrderModel {
	return OrderModel{
		OrderID:      order.OrderID,
		RegionID:     order.RegionID,
		LocationID:   order.LocationID,
		TypeID:       order.TypeID,
		IsBuyOrder:   order.IsBuyOrder,
		Price:        order.Price,
		VolumeRemain: order.VolumeRemain,
		LastUpdated:  order.LastUpdated,
	}
}
