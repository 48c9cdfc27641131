package market

import (
	"errors"
	"fmt"
	"time"
)

// Order represents one resting market order in a region's order book.
//
// Orders are owned by the order cache store: they are created or overwritten
// by reconciliation when their region is ingested, and deleted once the
// upstream API stops reporting them. Readers only ever see snapshots.
type Order struct {
	OrderID      int64
	RegionID     int64
	LocationID   int64
	TypeID       int64
	IsBuyOrder   bool
	Price        float64
	VolumeRemain int64
	LastUpdated  time.Time
}

// Validate checks the order's structural invariants
func (o *Order) Validate() error {
	if o.OrderID == 0 {
		return errors.New("order id required")
	}
	if o.Price < 0 {
		return fmt.Errorf("order %d: price must be non-negative, got %f", o.OrderID, o.Price)
	}
	if o.VolumeRemain < 0 {
		return fmt.Errorf("order %d: volume remain must be non-negative, got %d", o.OrderID, o.VolumeRemain)
	}
	return nil
}
