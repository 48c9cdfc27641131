package trading

import (
	"sort"

	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
)

// SkippedCommodity records a commodity dropped from a scan together with the
// reason, so callers can assert on skips instead of losing them to silent
// suppression.
type SkippedCommodity struct {
	TypeID int64
	Reason string
}

// MatchOrders cross-matches sell-side and buy-side orders per commodity and
// returns one opportunity for every commodity present on both sides.
//
// For each commodity the cheapest sell-side order is matched against the
// highest buy-side order. Price selection is deterministic; among
// equally-priced orders the first in input order wins, and only the selected
// price and volume are meaningful to callers. Commodities whose computation
// degenerates (e.g. a zero acquisition price) are skipped, not fatal.
//
// The result is unranked: ordering, filtering, and truncation belong to the
// presentation layer.
func MatchOrders(sellOrders, buyOrders []market.Order, params Parameters) ([]*ArbitrageOpportunity, []SkippedCommodity) {
	sellByType := make(map[int64][]market.Order)
	for _, o := range sellOrders {
		sellByType[o.TypeID] = append(sellByType[o.TypeID], o)
	}
	buyByType := make(map[int64][]market.Order)
	for _, o := range buyOrders {
		buyByType[o.TypeID] = append(buyByType[o.TypeID], o)
	}

	// Commodities present on both sides, in stable order
	var commonTypes []int64
	for typeID := range sellByType {
		if _, ok := buyByType[typeID]; ok {
			commonTypes = append(commonTypes, typeID)
		}
	}
	sort.Slice(commonTypes, func(i, j int) bool { return commonTypes[i] < commonTypes[j] })

	var opportunities []*ArbitrageOpportunity
	var skipped []SkippedCommodity

	for _, typeID := range commonTypes {
		bestSell := cheapestOrder(sellByType[typeID])
		bestBuy := highestOrder(buyByType[typeID])

		opp, err := NewArbitrageOpportunity(bestSell, bestBuy, params)
		if err != nil {
			skipped = append(skipped, SkippedCommodity{TypeID: typeID, Reason: err.Error()})
			continue
		}
		opportunities = append(opportunities, opp)
	}

	return opportunities, skipped
}

// cheapestOrder returns the order with the minimum price, first match wins
func cheapestOrder(orders []market.Order) market.Order {
	best := orders[0]
	for _, o := range orders[1:] {
		if o.Price < best.Price {
			best = o
		}
	}
	return best
}

// highestOrder returns the order with the maximum price, first match wins
func highestOrder(orders []market.Order) market.Order {
	best := orders[0]
	for _, o := range orders[1:] {
		if o.Price > best.Price {
			best = o
		}
	}
	return best
}
