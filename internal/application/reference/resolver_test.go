package reference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/evemarkets-go/internal/adapters/persistence"
	appreference "github.com/andrescamacho/evemarkets-go/internal/application/reference"
	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
	"github.com/andrescamacho/evemarkets-go/test/helpers"
)

func newResolverFixture(t *testing.T) (*appreference.CachingResolver, *persistence.GormReferenceStore, *helpers.MockReferenceSource) {
	store := persistence.NewGormReferenceStore(helpers.NewTestDB(t))
	source := helpers.NewMockReferenceSource()
	return appreference.NewCachingResolver(store, source), store, source
}

func TestResolver_StoreHitSkipsFetch(t *testing.T) {
	resolver, store, source := newResolverFixture(t)
	ctx := context.Background()

	require.NoError(t, store.SaveStation(ctx, &reference.Station{StationID: 60003760, Name: "Jita IV - Moon 4"}))

	station := resolver.Station(ctx, 60003760)
	assert.Equal(t, "Jita IV - Moon 4", station.Name)
	assert.Equal(t, 0, source.StationFetches)
}

func TestResolver_MissFetchesAndPersists(t *testing.T) {
	resolver, store, source := newResolverFixture(t)
	ctx := context.Background()

	source.AddItemType(reference.ItemType{TypeID: 34, Name: "Tritanium"})

	itemType := resolver.ItemType(ctx, 34)
	assert.Equal(t, "Tritanium", itemType.Name)
	assert.Equal(t, 1, source.TypeFetches)

	// The fetched record was written through to the store
	stored, err := store.GetItemType(ctx, 34)
	require.NoError(t, err)
	assert.Equal(t, "Tritanium", stored.Name)
}

func TestResolver_UnresolvableIDDegradesToPlaceholder(t *testing.T) {
	resolver, _, _ := newResolverFixture(t)
	ctx := context.Background()

	station := resolver.Station(ctx, 12345)
	assert.Equal(t, "12345", station.Name)
	assert.Nil(t, station.Security)

	itemType := resolver.ItemType(ctx, 34)
	assert.Equal(t, "Type 34", itemType.Name)

	region := resolver.Region(ctx, 10000002)
	assert.Equal(t, "10000002", region.Name)
}

func TestResolver_FetchErrorDegradesToPlaceholder(t *testing.T) {
	resolver, _, source := newResolverFixture(t)
	ctx := context.Background()

	source.FetchErr = errors.New("upstream timeout")

	station := resolver.Station(ctx, 60003760)
	assert.Equal(t, "60003760", station.Name)
}

func TestResolver_MemoizesLookups(t *testing.T) {
	resolver, _, source := newResolverFixture(t)
	ctx := context.Background()

	source.AddRegion(reference.Region{RegionID: 10000002, Name: "The Forge"})

	first := resolver.Region(ctx, 10000002)
	second := resolver.Region(ctx, 10000002)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.RegionFetches)
}

func TestResolver_MemoizesPlaceholders(t *testing.T) {
	resolver, _, source := newResolverFixture(t)
	ctx := context.Background()

	resolver.Station(ctx, 99)
	resolver.Station(ctx, 99)

	// The failed resolution is not retried within the process lifetime
	assert.Equal(t, 1, source.StationFetches)
}
