package cli

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	ingestion "github.com/andrescamacho/evemarkets-go/internal/application/ingestion/commands"
	"github.com/andrescamacho/evemarkets-go/internal/application/logging"
	"github.com/andrescamacho/evemarkets-go/internal/application/mediator"
	appreference "github.com/andrescamacho/evemarkets-go/internal/application/reference"
	trading "github.com/andrescamacho/evemarkets-go/internal/application/trading/queries"
	"github.com/andrescamacho/evemarkets-go/internal/adapters/api"
	"github.com/andrescamacho/evemarkets-go/internal/adapters/persistence"
	domaintrading "github.com/andrescamacho/evemarkets-go/internal/domain/trading"
	"github.com/andrescamacho/evemarkets-go/internal/infrastructure/config"
	"github.com/andrescamacho/evemarkets-go/internal/infrastructure/database"
)

// app wires the full dependency graph for a single CLI invocation. Every
// command bootstraps its own app so that config and database lifetimes are
// scoped to the command run.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	mediator mediator.Mediator
	store    *persistence.GormReferenceStore
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	client := api.NewESIClientWithConfig(&cfg.API, nil)
	orderRepo := persistence.NewGormOrderRepository(db, nil)
	store := persistence.NewGormReferenceStore(db)
	resolver := appreference.NewCachingResolver(store, client)

	params := domaintrading.Parameters{
		BrokerFee:   cfg.Trading.BrokerFee,
		SalesTax:    cfg.Trading.SalesTax,
		HaulingTime: cfg.Trading.HaulingTime,
	}

	ensureFresh := ingestion.NewEnsureFreshHandler(
		orderRepo, client, resolver, cfg.Trading.CacheTTL, cfg.Ingestion.RegionBudget, nil)
	ingestAll := ingestion.NewIngestAllHandler(
		ensureFresh, client, resolver, cfg.Ingestion.Workers)
	findArbitrage, err := trading.NewFindArbitrageHandler(
		orderRepo, resolver, params, cfg.Trading.CacheTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build arbitrage handler: %w", err)
	}

	med := mediator.NewMediator()
	registrations := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&ingestion.EnsureFreshCommand{}): ensureFresh,
		reflect.TypeOf(&ingestion.IngestAllCommand{}):   ingestAll,
		reflect.TypeOf(&trading.FindArbitrageQuery{}):   findArbitrage,
	}
	for requestType, handler := range registrations {
		if err := med.Register(requestType, handler); err != nil {
			return nil, fmt.Errorf("failed to register handler: %w", err)
		}
	}

	return &app{cfg: cfg, db: db, mediator: med, store: store}, nil
}

// contextWithLogger returns a background context carrying the configured logger
func (a *app) contextWithLogger() context.Context {
	logger := logging.NewLogrusLogger(a.cfg.Logging)
	return logging.WithLogger(context.Background(), logger)
}

func (a *app) close() {
	_ = database.Close(a.db)
}
