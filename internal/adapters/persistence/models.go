package persistence

import (
	"time"
)

// OrderModel represents the orders table: the persistent market order cache.
// order_id is globally unique across all regions; the composite
// (region_id, last_updated) index backs freshness checks and staleness
// cutoff scans.
type OrderModel struct {
	OrderID      int64     `gorm:"column:order_id;primaryKey"`
	RegionID     int64     `gorm:"column:region_id;not null;index:idx_orders_region_updated,priority:1"`
	LocationID   int64     `gorm:"column:location_id;not null;index"`
	TypeID       int64     `gorm:"column:type_id;not null;index"`
	IsBuyOrder   bool      `gorm:"column:is_buy_order;not null"`
	Price        float64   `gorm:"column:price;not null"`
	VolumeRemain int64     `gorm:"column:volume_remain;not null"`
	LastUpdated  time.Time `gorm:"column:last_updated;not null;index:idx_orders_region_updated,priority:2"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// StationModel represents the stations table
type StationModel struct {
	StationID int64    `gorm:"column:station_id;primaryKey"`
	Name      string   `gorm:"column:name;not null;index"`
	Security  *float64 `gorm:"column:security"`
}

func (StationModel) TableName() string {
	return "stations"
}

// ItemTypeModel represents the item_types table
type ItemTypeModel struct {
	TypeID int64  `gorm:"column:type_id;primaryKey"`
	Name   string `gorm:"column:name;not null"`
}

func (ItemTypeModel) TableName() string {
	return "item_types"
}

// RegionModel represents the regions table
type RegionModel struct {
	RegionID int64  `gorm:"column:region_id;primaryKey"`
	Name     string `gorm:"column:name;not null"`
}

func (RegionModel) TableName() string {
	return "regions"
}
