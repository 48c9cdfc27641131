package trading

import (
	"errors"
	"time"
)

// Parameters holds the fee model and the hauling-time constant used to
// normalize total profit into a profit rate. Passed in explicitly so tests
// and callers can override without touching globals.
type Parameters struct {
	// BrokerFee is the fractional broker fee charged on disposal (0.03 = 3%)
	BrokerFee float64

	// SalesTax is the fractional sales tax charged on disposal
	SalesTax float64

	// HaulingTime is the assumed transport duration between the two
	// locations. A fixed constant, not computed from distance.
	HaulingTime time.Duration
}

// Validate checks the parameters are usable for profit computation
func (p Parameters) Validate() error {
	if p.BrokerFee < 0 || p.BrokerFee >= 1 {
		return errors.New("broker fee must be in [0, 1)")
	}
	if p.SalesTax < 0 || p.SalesTax >= 1 {
		return errors.New("sales tax must be in [0, 1)")
	}
	if p.BrokerFee+p.SalesTax >= 1 {
		return errors.New("combined fees must be below 100%")
	}
	if p.HaulingTime <= 0 {
		return errors.New("hauling time must be positive")
	}
	return nil
}
