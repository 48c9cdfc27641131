package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/evemarkets-go/internal/application/logging"
	"github.com/andrescamacho/evemarkets-go/internal/application/mediator"
	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
)

// EnsureFreshCommand requests that a region's cached order book be brought
// within the staleness bound, fetching from the external API only if needed
type EnsureFreshCommand struct {
	RegionID int64
}

// EnsureFreshResponse reports what the ingestion did for the region
type EnsureFreshResponse struct {
	RegionID   int64
	Refreshed  bool // false when the cache was already fresh
	OrderCount int  // orders reconciled into the store (0 when skipped)
}

// EnsureFreshHandler ingests a region's order book on demand.
//
// Failure policy: a page failure mid-pagination aborts the region's fetch
// and nothing is reconciled, so an incomplete snapshot can never evict
// still-valid orders. The region keeps serving its previous cache state
// until the next successful full fetch.
type EnsureFreshHandler struct {
	orders       market.OrderRepository
	source       market.DataSource
	resolver     reference.Resolver
	cacheTTL     time.Duration
	regionBudget time.Duration
	clock        shared.Clock
}

// NewEnsureFreshHandler creates a new ensure-fresh handler
func NewEnsureFreshHandler(
	orders market.OrderRepository,
	source market.DataSource,
	resolver reference.Resolver,
	cacheTTL time.Duration,
	regionBudget time.Duration,
	clock shared.Clock,
) *EnsureFreshHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &EnsureFreshHandler{
		orders:       orders,
		source:       source,
		resolver:     resolver,
		cacheTTL:     cacheTTL,
		regionBudget: regionBudget,
		clock:        clock,
	}
}

// Handle executes the ensure-fresh command
func (h *EnsureFreshHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*EnsureFreshCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := logging.LoggerFromContext(ctx)

	fresh, err := h.orders.IsFresh(ctx, cmd.RegionID, h.cacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to check freshness for region %d: %w", cmd.RegionID, err)
	}
	if fresh {
		logger.Log("DEBUG", "Region cache is fresh, skipping fetch", map[string]interface{}{
			"region_id": cmd.RegionID,
		})
		return &EnsureFreshResponse{RegionID: cmd.RegionID, Refreshed: false}, nil
	}

	// Overall time budget for the whole page loop, on top of the client's
	// per-request timeout
	fetchCtx := ctx
	if h.regionBudget > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, h.regionBudget)
		defer cancel()
	}

	orders, err := h.source.FetchRegionOrders(fetchCtx, cmd.RegionID)
	if err != nil {
		// Partial page sets are discarded, never reconciled
		logger.Log("WARN", "Order book fetch failed, keeping previous cache state", map[string]interface{}{
			"region_id":         cmd.RegionID,
			"pages_accumulated": len(orders),
			"error":             err.Error(),
		})
		return nil, fmt.Errorf("failed to fetch order book for region %d: %w", cmd.RegionID, err)
	}

	if err := h.orders.Reconcile(ctx, cmd.RegionID, orders, h.clock.Now()); err != nil {
		return nil, fmt.Errorf("failed to reconcile region %d: %w", cmd.RegionID, err)
	}

	logger.Log("INFO", "Region order book reconciled", map[string]interface{}{
		"region_id": cmd.RegionID,
		"orders":    len(orders),
	})

	h.warmReferenceData(ctx, orders)

	return &EnsureFreshResponse{
		RegionID:   cmd.RegionID,
		Refreshed:  true,
		OrderCount: len(orders),
	}, nil
}

// warmReferenceData resolves every distinct station and commodity seen in
// the ingested order book so later arbitrage queries are served entirely
// from the cache. Resolution is best-effort and never fails.
func (h *EnsureFreshHandler) warmReferenceData(ctx context.Context, orders []market.Order) {
	stationIDs := make(map[int64]struct{})
	typeIDs := make(map[int64]struct{})
	for _, order := range orders {
		stationIDs[order.LocationID] = struct{}{}
		typeIDs[order.TypeID] = struct{}{}
	}

	for stationID := range stationIDs {
		h.resolver.Station(ctx, stationID)
	}
	for typeID := range typeIDs {
		h.resolver.ItemType(ctx, typeID)
	}
}
