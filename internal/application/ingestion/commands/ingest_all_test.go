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

func newIngestAllFixture() (*commands.IngestAllHandler, *helpers.MockOrderRepository, *helpers.MockDataSource, *helpers.MockResolver) {
	repo := helpers.NewMockOrderRepository()
	source := helpers.NewMockDataSource()
	resolver := helpers.NewMockResolver()
	clock := shared.NewMockClock(time.Now().UTC())
	ensureFresh := commands.NewEnsureFreshHandler(repo, source, resolver, 30*time.Minute, time.Minute, clock)
	handler := commands.NewIngestAllHandler(ensureFresh, source, resolver, 2)
	return handler, repo, source, resolver
}

func TestIngestAll_IsolatesRegionFailures(t *testing.T) {
	handler, repo, source, _ := newIngestAllFixture()

	source.SetRegionOrders(10000002, []market.Order{fetchedOrder(1, 34, 60003760)})
	source.SetRegionError(10000043, errors.New("region unavailable"))

	response, err := handler.Handle(context.Background(), &commands.IngestAllCommand{
		RegionIDs: []int64{10000002, 10000043},
	})
	require.NoError(t, err, "one region's failure must not abort the run")

	result := response.(*commands.IngestAllResponse)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Refreshed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Skipped)

	// Reports come back sorted by region
	require.Len(t, result.Reports, 2)
	assert.Equal(t, int64(10000002), result.Reports[0].RegionID)
	assert.Empty(t, result.Reports[0].Error)
	assert.Equal(t, int64(10000043), result.Reports[1].RegionID)
	assert.Contains(t, result.Reports[1].Error, "region unavailable")

	// The successful region's orders made it into the store
	assert.Len(t, repo.Orders(), 1)
}

func TestIngestAll_CountsFreshRegionsAsSkipped(t *testing.T) {
	handler, repo, _, _ := newIngestAllFixture()

	recent := fetchedOrder(1, 34, 60003760)
	recent.RegionID = 10000002
	recent.LastUpdated = time.Now().UTC()
	repo.Seed(recent)

	response, err := handler.Handle(context.Background(), &commands.IngestAllCommand{
		RegionIDs: []int64{10000002},
	})
	require.NoError(t, err)

	result := response.(*commands.IngestAllResponse)
	assert.Equal(t, 0, result.Refreshed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
}

func TestIngestAll_EnumeratesRegionsWhenNoneGiven(t *testing.T) {
	handler, _, source, resolver := newIngestAllFixture()

	source.SetRegionIDs([]int64{10000002, 10000043}, nil)
	source.SetRegionOrders(10000002, []market.Order{fetchedOrder(1, 34, 60003760)})
	source.SetRegionOrders(10000043, []market.Order{fetchedOrder(2, 35, 60008494)})

	response, err := handler.Handle(context.Background(), &commands.IngestAllCommand{})
	require.NoError(t, err)

	result := response.(*commands.IngestAllResponse)
	assert.Equal(t, 2, result.Refreshed)
	assert.Len(t, result.Reports, 2)

	// Region names are resolved eagerly for each ingested region
	assert.ElementsMatch(t, []int64{10000002, 10000043}, resolver.ResolvedRegions)
}

func TestIngestAll_EnumerationFailureIsFatal(t *testing.T) {
	handler, _, source, _ := newIngestAllFixture()

	source.SetRegionIDs(nil, errors.New("upstream down"))

	_, err := handler.Handle(context.Background(), &commands.IngestAllCommand{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enumerate regions")
}

func TestIngestAll_WorkerOverrideFromCommand(t *testing.T) {
	handler, _, source, _ := newIngestAllFixture()

	regionIDs := []int64{1, 2, 3, 4, 5}
	for _, id := range regionIDs {
		source.SetRegionOrders(id, []market.Order{fetchedOrder(id, 34, 60003760)})
	}

	response, err := handler.Handle(context.Background(), &commands.IngestAllCommand{
		RegionIDs: regionIDs,
		Workers:   1,
	})
	require.NoError(t, err)

	result := response.(*commands.IngestAllResponse)
	assert.Equal(t, 5, result.Refreshed)
	for _, id := range regionIDs {
		assert.Equal(t, 1, source.FetchCalls(id))
	}
}
