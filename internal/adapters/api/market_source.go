package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
)

// esiOrder is the wire format of one order record in a region order book
type esiOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int64   `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
}

// FetchRegionOrders pages through the region's order book sequentially.
// Pages are requested one at a time with a fixed delay between requests
// (cooperative throttling on top of the rate limiter); no two page requests
// for the same region are ever in flight simultaneously.
//
// The loop stops when a page comes back empty, when the page index reaches
// the total advertised by the X-Pages header, or when the header is absent
// (treated as a single-page response). On a page failure the orders
// accumulated so far are returned together with the error; callers must not
// reconcile such a partial snapshot into the store.
func (c *ESIClient) FetchRegionOrders(ctx context.Context, regionID int64) ([]market.Order, error) {
	var orders []market.Order

	for page := 1; ; page++ {
		path := fmt.Sprintf("/markets/%d/orders/?page=%d", regionID, page)

		var batch []esiOrder
		headers, err := c.get(ctx, path, &batch)
		if err != nil {
			return orders, fmt.Errorf("failed to fetch page %d for region %d: %w", page, regionID, err)
		}

		if len(batch) == 0 {
			break
		}

		for _, raw := range batch {
			orders = append(orders, market.Order{
				OrderID:      raw.OrderID,
				RegionID:     regionID,
				LocationID:   raw.LocationID,
				TypeID:       raw.TypeID,
				IsBuyOrder:   raw.IsBuyOrder,
				Price:        raw.Price,
				VolumeRemain: raw.VolumeRemain,
			})
		}

		totalPages, ok := parsePagesHeader(headers.Get(pagesHeader))
		if !ok {
			// No paging signal: treat as a single-page endpoint
			break
		}
		if page >= totalPages {
			break
		}

		c.clock.Sleep(c.pageDelay)
	}

	return orders, nil
}

// ListRegionIDs enumerates every region id known to the external API
func (c *ESIClient) ListRegionIDs(ctx context.Context) ([]int64, error) {
	var regionIDs []int64
	if _, err := c.get(ctx, "/universe/regions/", &regionIDs); err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return regionIDs, nil
}

func parsePagesHeader(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	pages, err := strconv.Atoi(value)
	if err != nil || pages < 1 {
		return 0, false
	}
	return pages, true
}
