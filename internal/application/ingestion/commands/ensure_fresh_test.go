package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commands "github.com/andrescamacho/evemarkets-go/internal/application/ingestion/commands"
	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
	"github.com/andrescamacho/evemarkets-go/test/helpers"
)

const ensureTestRegion = int64(10000002)

func newEnsureFreshFixture() (*commands.EnsureFreshHandler, *helpers.MockOrderRepository, *helpers.MockDataSource, *helpers.MockResolver) {
	repo := helpers.NewMockOrderRepository()
	source := helpers.NewMockDataSource()
	resolver := helpers.NewMockResolver()
	clock := shared.NewMockClock(time.Now().UTC())
	handler := commands.NewEnsureFreshHandler(repo, source, resolver, 30*time.Minute, time.Minute, clock)
	return handler, repo, source, resolver
}

func fetchedOrder(orderID, typeID, locationID int64) market.Order {
	return market.Order{
		OrderID:      orderID,
		LocationID:   locationID,
		TypeID:       typeID,
		Price:        10.0,
		VolumeRemain: 5,
	}
}

func TestEnsureFresh_SkipsFreshRegion(t *testing.T) {
	handler, repo, source, _ := newEnsureFreshFixture()

	recent := fetchedOrder(1, 34, 60003760)
	recent.RegionID = ensureTestRegion
	recent.LastUpdated = time.Now().UTC()
	repo.Seed(recent)

	response, err := handler.Handle(context.Background(), &commands.EnsureFreshCommand{RegionID: ensureTestRegion})
	require.NoError(t, err)

	result := response.(*commands.EnsureFreshResponse)
	assert.False(t, result.Refreshed)
	assert.Equal(t, 0, result.OrderCount)
	assert.Equal(t, 0, source.FetchCalls(ensureTestRegion))
	assert.Equal(t, 0, repo.ReconcileCalls)
}

func TestEnsureFresh_FetchesAndReconcilesStaleRegion(t *testing.T) {
	handler, repo, source, resolver := newEnsureFreshFixture()

	source.SetRegionOrders(ensureTestRegion, []market.Order{
		fetchedOrder(1, 34, 60003760),
		fetchedOrder(2, 35, 60008494),
	})

	response, err := handler.Handle(context.Background(), &commands.EnsureFreshCommand{RegionID: ensureTestRegion})
	require.NoError(t, err)

	result := response.(*commands.EnsureFreshResponse)
	assert.True(t, result.Refreshed)
	assert.Equal(t, 2, result.OrderCount)

	stored := repo.Orders()
	require.Len(t, stored, 2)
	assert.Equal(t, ensureTestRegion, stored[0].RegionID)

	// Reference data for every distinct station and commodity is warmed
	assert.ElementsMatch(t, []int64{60003760, 60008494}, resolver.ResolvedStations)
	assert.ElementsMatch(t, []int64{34, 35}, resolver.ResolvedTypes)
}

func TestEnsureFresh_FetchFailurePreservesPreviousState(t *testing.T) {
	handler, repo, source, _ := newEnsureFreshFixture()

	stale := fetchedOrder(1, 34, 60003760)
	stale.RegionID = ensureTestRegion
	stale.LastUpdated = time.Now().UTC().Add(-2 * time.Hour)
	repo.Seed(stale)

	// The fetch fails partway, handing back a partial page set
	source.SetRegionOrders(ensureTestRegion, []market.Order{fetchedOrder(2, 35, 60008494)})
	source.SetRegionError(ensureTestRegion, errors.New("page 2 unavailable"))

	_, err := handler.Handle(context.Background(), &commands.EnsureFreshCommand{RegionID: ensureTestRegion})
	require.Error(t, err)

	// Nothing was reconciled; the stale snapshot still serves
	assert.Equal(t, 0, repo.ReconcileCalls)
	stored := repo.Orders()
	require.Len(t, stored, 1)
	assert.Equal(t, int64(1), stored[0].OrderID)
}

func TestEnsureFresh_ReconcileErrorPropagates(t *testing.T) {
	handler, repo, source, _ := newEnsureFreshFixture()

	source.SetRegionOrders(ensureTestRegion, []market.Order{fetchedOrder(1, 34, 60003760)})
	repo.ReconcileErr = errors.New("disk full")

	_, err := handler.Handle(context.Background(), &commands.EnsureFreshCommand{RegionID: ensureTestRegion})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEnsureFresh_RejectsWrongRequestType(t *testing.T) {
	handler, _, _, _ := newEnsureFreshFixture()

	_, err := handler.Handle(context.Background(), &commands.IngestAllCommand{})
	assert.Error(t, err)
}
