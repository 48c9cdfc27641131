package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/evemarkets-go/internal/application/logging"
	"github.com/andrescamacho/evemarkets-go/internal/application/mediator"
	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
	"github.com/andrescamacho/evemarkets-go/internal/domain/trading"
)

// FindArbitrageQuery requests a cross-location arbitrage scan over the
// cached order books. Both location filters are optional: a nil source
// considers sell-side orders everywhere, a nil destination considers
// buy-side orders everywhere.
type FindArbitrageQuery struct {
	SourceLocationID *int64
	DestLocationID   *int64
}

// OpportunityDTO is one arbitrage opportunity with display data resolved
type OpportunityDTO struct {
	TypeID         int64
	Commodity      string
	SourceStation  string
	SourceSecurity *float64
	DestStation    string
	DestSecurity   *float64
	BuyPrice       float64 // per-unit acquisition cost at the source
	SellPrice      float64 // gross per-unit disposal price at the destination
	Volume         int64
	UnitProfit     float64
	TotalProfit    float64
	Margin         float64
	ISKPerMinute   float64
}

// FindArbitrageResponse contains the unranked scan results plus the skip
// log for commodities dropped from the computation. Ranking, filtering and
// truncation are the caller's responsibility.
type FindArbitrageResponse struct {
	Opportunities []*OpportunityDTO
	Skipped       []trading.SkippedCommodity
}

// FindArbitrageHandler handles arbitrage scan queries. It only reads from
// the order cache and the reference cache; it never calls the external API.
type FindArbitrageHandler struct {
	orders   market.OrderRepository
	resolver reference.Resolver
	params   trading.Parameters
	cacheTTL time.Duration
	clock    shared.Clock
}

// NewFindArbitrageHandler creates a new arbitrage query handler
func NewFindArbitrageHandler(
	orders market.OrderRepository,
	resolver reference.Resolver,
	params trading.Parameters,
	cacheTTL time.Duration,
	clock shared.Clock,
) (*FindArbitrageHandler, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trading parameters: %w", err)
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FindArbitrageHandler{
		orders:   orders,
		resolver: resolver,
		params:   params,
		cacheTTL: cacheTTL,
		clock:    clock,
	}, nil
}

// Handle executes the arbitrage scan
func (h *FindArbitrageHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindArbitrageQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	// Every read is bounded by the staleness cutoff; stale orders are
	// invisible even if physically present in the store
	cutoff := h.clock.Now().Add(-h.cacheTTL)

	sellSide := false
	sellFilter := market.OrderFilter{IsBuyOrder: &sellSide, UpdatedSince: cutoff}
	if query.SourceLocationID != nil {
		sellFilter.LocationIDs = []int64{*query.SourceLocationID}
	}
	sellOrders, err := h.orders.Query(ctx, sellFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load sell-side orders: %w", err)
	}

	buySide := true
	buyFilter := market.OrderFilter{IsBuyOrder: &buySide, UpdatedSince: cutoff}
	if query.DestLocationID != nil {
		buyFilter.LocationIDs = []int64{*query.DestLocationID}
	}
	buyOrders, err := h.orders.Query(ctx, buyFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load buy-side orders: %w", err)
	}

	opportunities, skipped := trading.MatchOrders(sellOrders, buyOrders, h.params)

	logger := logging.LoggerFromContext(ctx)
	for _, skip := range skipped {
		logger.Log("WARN", "Commodity skipped during arbitrage scan", map[string]interface{}{
			"type_id": skip.TypeID,
			"reason":  skip.Reason,
		})
	}

	dtos := make([]*OpportunityDTO, len(opportunities))
	for i, opp := range opportunities {
		itemType := h.resolver.ItemType(ctx, opp.TypeID())
		source := h.resolver.Station(ctx, opp.SourceLocationID())
		dest := h.resolver.Station(ctx, opp.DestLocationID())

		dtos[i] = &OpportunityDTO{
			TypeID:         opp.TypeID(),
			Commodity:      itemType.Name,
			SourceStation:  source.Name,
			SourceSecurity: source.Security,
			DestStation:    dest.Name,
			DestSecurity:   dest.Security,
			BuyPrice:       opp.BuyPrice(),
			SellPrice:      opp.SellPrice(),
			Volume:         opp.Volume(),
			UnitProfit:     opp.UnitProfit(),
			TotalProfit:    opp.TotalProfit(),
			Margin:         opp.Margin(),
			ISKPerMinute:   opp.ISKPerMinute(),
		}
	}

	return &FindArbitrageResponse{
		Opportunities: dtos,
		Skipped:       skipped,
	}, nil
}
