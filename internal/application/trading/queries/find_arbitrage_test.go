package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	queries "github.com/andrescamacho/evemarkets-go/internal/application/trading/queries"
	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
	"github.com/andrescamacho/evemarkets-go/internal/domain/trading"
	"github.com/andrescamacho/evemarkets-go/test/helpers"
)

const (
	jitaStation  = int64(60003760)
	amarrStation = int64(60008494)
)

type fixture struct {
	handler  *queries.FindArbitrageHandler
	repo     *helpers.MockOrderRepository
	resolver *helpers.MockResolver
	clock    *shared.MockClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := helpers.NewMockOrderRepository()
	resolver := helpers.NewMockResolver()
	clock := shared.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	params := trading.Parameters{BrokerFee: 0.03, SalesTax: 0.015, HaulingTime: 15 * time.Minute}

	handler, err := queries.NewFindArbitrageHandler(repo, resolver, params, 30*time.Minute, clock)
	require.NoError(t, err)

	return &fixture{handler: handler, repo: repo, resolver: resolver, clock: clock}
}

func (f *fixture) seedOrder(orderID, typeID, locationID int64, isBuy bool, price float64, volume int64, age time.Duration) {
	f.repo.Seed(market.Order{
		OrderID:      orderID,
		RegionID:     10000002,
		LocationID:   locationID,
		TypeID:       typeID,
		IsBuyOrder:   isBuy,
		Price:        price,
		VolumeRemain: volume,
		LastUpdated:  f.clock.Now().Add(-age),
	})
}

func TestFindArbitrage_ComputesFeeAdjustedProfit(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(1, 34, jitaStation, false, 10.0, 5, time.Minute)
	f.seedOrder(2, 34, jitaStation, false, 12.0, 3, time.Minute)
	f.seedOrder(3, 34, amarrStation, true, 20.0, 2, time.Minute)
	f.seedOrder(4, 34, amarrStation, true, 18.0, 10, time.Minute)

	f.resolver.AddItemType(34, "Tritanium")
	security := 0.9
	f.resolver.AddStation(jitaStation, "Jita IV - Moon 4", &security)

	response, err := f.handler.Handle(context.Background(), &queries.FindArbitrageQuery{})
	require.NoError(t, err)

	result := response.(*queries.FindArbitrageResponse)
	require.Len(t, result.Opportunities, 1)
	assert.Empty(t, result.Skipped)

	opp := result.Opportunities[0]
	assert.Equal(t, "Tritanium", opp.Commodity)
	assert.Equal(t, "Jita IV - Moon 4", opp.SourceStation)
	require.NotNil(t, opp.SourceSecurity)
	assert.Equal(t, 0.9, *opp.SourceSecurity)
	assert.Equal(t, 10.0, opp.BuyPrice)
	assert.Equal(t, 20.0, opp.SellPrice)
	assert.Equal(t, int64(2), opp.Volume)
	assert.InDelta(t, 9.1, opp.UnitProfit, 1e-9)
	assert.InDelta(t, 18.2, opp.TotalProfit, 1e-9)
	assert.InDelta(t, 0.91, opp.Margin, 1e-9)
}

func TestFindArbitrage_UnknownReferencesFallBackToPlaceholders(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(1, 34, jitaStation, false, 10.0, 5, time.Minute)
	f.seedOrder(2, 34, amarrStation, true, 20.0, 2, time.Minute)

	response, err := f.handler.Handle(context.Background(), &queries.FindArbitrageQuery{})
	require.NoError(t, err)

	result := response.(*queries.FindArbitrageResponse)
	require.Len(t, result.Opportunities, 1)

	opp := result.Opportunities[0]
	assert.Equal(t, "Type 34", opp.Commodity)
	assert.Equal(t, "60003760", opp.SourceStation)
	assert.Nil(t, opp.SourceSecurity)
}

func TestFindArbitrage_IgnoresStaleOrders(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(1, 34, jitaStation, false, 10.0, 5, time.Minute)
	// The only buy-side order aged out of the freshness window
	f.seedOrder(2, 34, amarrStation, true, 20.0, 2, time.Hour)

	response, err := f.handler.Handle(context.Background(), &queries.FindArbitrageQuery{})
	require.NoError(t, err)

	result := response.(*queries.FindArbitrageResponse)
	assert.Empty(t, result.Opportunities)
}

func TestFindArbitrage_LocationFiltersConstrainBothSides(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(1, 34, jitaStation, false, 10.0, 5, time.Minute)
	f.seedOrder(2, 34, amarrStation, true, 20.0, 2, time.Minute)
	// A cheaper sell elsewhere must be invisible when a source is pinned
	f.seedOrder(3, 34, int64(60011866), false, 5.0, 5, time.Minute)

	source := jitaStation
	dest := amarrStation
	response, err := f.handler.Handle(context.Background(), &queries.FindArbitrageQuery{
		SourceLocationID: &source,
		DestLocationID:   &dest,
	})
	require.NoError(t, err)

	result := response.(*queries.FindArbitrageResponse)
	require.Len(t, result.Opportunities, 1)
	assert.Equal(t, 10.0, result.Opportunities[0].BuyPrice)
}

func TestFindArbitrage_ReportsSkippedCommodities(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(1, 34, jitaStation, false, 0.0, 5, time.Minute)
	f.seedOrder(2, 34, amarrStation, true, 20.0, 2, time.Minute)

	response, err := f.handler.Handle(context.Background(), &queries.FindArbitrageQuery{})
	require.NoError(t, err)

	result := response.(*queries.FindArbitrageResponse)
	assert.Empty(t, result.Opportunities)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, int64(34), result.Skipped[0].TypeID)
}

func TestFindArbitrage_EmptyCacheYieldsEmptyResult(t *testing.T) {
	f := newFixture(t)

	response, err := f.handler.Handle(context.Background(), &queries.FindArbitrageQuery{})
	require.NoError(t, err)

	result := response.(*queries.FindArbitrageResponse)
	assert.Empty(t, result.Opportunities)
	assert.Empty(t, result.Skipped)
}

func TestNewFindArbitrageHandler_RejectsInvalidParameters(t *testing.T) {
	repo := helpers.NewMockOrderRepository()
	resolver := helpers.NewMockResolver()
	bad := trading.Parameters{BrokerFee: 0.6, SalesTax: 0.5, HaulingTime: time.Minute}

	_, err := queries.NewFindArbitrageHandler(repo, resolver, bad, 30*time.Minute, nil)
	assert.Error(t, err)
}
