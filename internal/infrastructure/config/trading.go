package config

import "time"

// TradingConfig holds the arbitrage fee model and staleness tunables.
// All four constants are settable via config file or environment without
// code changes.
type TradingConfig struct {
	// BrokerFee is the fractional broker fee on disposal (0.03 = 3%)
	BrokerFee float64 `mapstructure:"broker_fee" validate:"gte=0,lt=1"`

	// SalesTax is the fractional sales tax on disposal
	SalesTax float64 `mapstructure:"sales_tax" validate:"gte=0,lt=1"`

	// CacheTTL bounds order staleness: cached orders older than this are
	// invisible to arbitrage queries, and a region with no order younger
	// than this is re-ingested.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"required"`

	// HaulingTime is the assumed transport duration used to normalize
	// total profit into ISK per minute
	HaulingTime time.Duration `mapstructure:"hauling_time" validate:"required"`
}

// IngestionConfig holds batch ingestion tunables
type IngestionConfig struct {
	// Workers bounds the number of regions ingested concurrently
	Workers int `mapstructure:"workers" validate:"min=1"`

	// RegionBudget is the overall time budget for fetching one region's
	// full order book across all its pages
	RegionBudget time.Duration `mapstructure:"region_budget"`
}
