package trading

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/evemarkets-go/internal/domain/market"
)

// ArbitrageOpportunity represents an immutable profitable cross-location
// trade for a single commodity.
//
// Price terminology (from the trader's perspective):
//   - BuyPrice: what the trader PAYS per unit at the source (the cheapest
//     sell-side order's price)
//   - SellPrice: what the trader RECEIVES per unit gross at the destination
//     (the highest buy-side order's price), before broker fee and sales tax
//
// All fields are private with read-only getters to ensure value object
// semantics. Derived purely from a snapshot of cached orders; never
// persisted, regenerated on every query.
type ArbitrageOpportunity struct {
	typeID           int64
	sourceLocationID int64
	destLocationID   int64
	buyPrice         float64
	sellPrice        float64
	volume           int64
	unitProfit       float64
	totalProfit      float64
	margin           float64
	iskPerMinute     float64
}

// NewArbitrageOpportunity matches the cheapest sell-side order against the
// highest buy-side order for one commodity and computes the fee-adjusted
// profit figures.
//
// Returns an error when the acquisition price is zero (margin undefined) or
// the orders disagree on commodity.
func NewArbitrageOpportunity(bestSell, bestBuy market.Order, params Parameters) (*ArbitrageOpportunity, error) {
	if bestSell.TypeID != bestBuy.TypeID {
		return nil, fmt.Errorf("commodity mismatch: sell order is type %d, buy order is type %d",
			bestSell.TypeID, bestBuy.TypeID)
	}
	if bestSell.IsBuyOrder {
		return nil, errors.New("best sell must be a sell-side order")
	}
	if !bestBuy.IsBuyOrder {
		return nil, errors.New("best buy must be a buy-side order")
	}
	if bestSell.Price == 0 {
		return nil, errors.New("zero acquisition price, margin undefined")
	}

	volume := bestSell.VolumeRemain
	if bestBuy.VolumeRemain < volume {
		volume = bestBuy.VolumeRemain
	}

	proceedsPerUnit := bestBuy.Price * (1 - params.BrokerFee - params.SalesTax)
	unitProfit := proceedsPerUnit - bestSell.Price
	totalProfit := unitProfit * float64(volume)
	margin := unitProfit / bestSell.Price
	iskPerMinute := totalProfit / params.HaulingTime.Minutes()

	return &ArbitrageOpportunity{
		typeID:           bestSell.TypeID,
		sourceLocationID: bestSell.LocationID,
		destLocationID:   bestBuy.LocationID,
		buyPrice:         bestSell.Price,
		sellPrice:        bestBuy.Price,
		volume:           volume,
		unitProfit:       unitProfit,
		totalProfit:      totalProfit,
		margin:           margin,
		iskPerMinute:     iskPerMinute,
	}, nil
}

func (o *ArbitrageOpportunity) TypeID() int64 {
	return o.typeID
}

func (o *ArbitrageOpportunity) SourceLocationID() int64 {
	return o.sourceLocationID
}

func (o *ArbitrageOpportunity) DestLocationID() int64 {
	return o.destLocationID
}

// BuyPrice is the per-unit acquisition cost at the source location
func (o *ArbitrageOpportunity) BuyPrice() float64 {
	return o.buyPrice
}

// SellPrice is the gross per-unit disposal price at the destination
func (o *ArbitrageOpportunity) SellPrice() float64 {
	return o.sellPrice
}

// Volume is the tradable quantity: min of the two matched orders' remainders
func (o *ArbitrageOpportunity) Volume() int64 {
	return o.volume
}

func (o *ArbitrageOpportunity) UnitProfit() float64 {
	return o.unitProfit
}

func (o *ArbitrageOpportunity) TotalProfit() float64 {
	return o.totalProfit
}

// Margin is unit profit relative to the acquisition price (0.91 = 91%)
func (o *ArbitrageOpportunity) Margin() float64 {
	return o.margin
}

// ISKPerMinute is total profit normalized by the hauling-time constant
func (o *ArbitrageOpportunity) ISKPerMinute() float64 {
	return o.iskPerMinute
}
