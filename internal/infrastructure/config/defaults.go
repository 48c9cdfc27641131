package config

import "time"

// SetDefaults fills in default values for any unset configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults: local SQLite file
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "evemarkets.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = time.Hour
	}

	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://esi.evetech.net/latest"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.PageDelay == 0 {
		cfg.API.PageDelay = 200 * time.Millisecond
	}
	if cfg.API.RateLimit.Requests == 0 {
		cfg.API.RateLimit.Requests = 20
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 40
	}
	if cfg.API.Retry.MaxAttempts == 0 {
		cfg.API.Retry.MaxAttempts = 3
	}
	if cfg.API.Retry.BackoffBase == 0 {
		cfg.API.Retry.BackoffBase = time.Second
	}

	// Trading defaults match typical in-game NPC station fees
	if cfg.Trading.BrokerFee == 0 {
		cfg.Trading.BrokerFee = 0.03
	}
	if cfg.Trading.SalesTax == 0 {
		cfg.Trading.SalesTax = 0.015
	}
	if cfg.Trading.CacheTTL == 0 {
		cfg.Trading.CacheTTL = 30 * time.Minute
	}
	if cfg.Trading.HaulingTime == 0 {
		cfg.Trading.HaulingTime = 15 * time.Minute
	}

	// Ingestion defaults
	if cfg.Ingestion.Workers == 0 {
		cfg.Ingestion.Workers = 4
	}
	if cfg.Ingestion.RegionBudget == 0 {
		cfg.Ingestion.RegionBudget = 10 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
