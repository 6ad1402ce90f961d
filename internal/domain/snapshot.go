package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IndicatorSnapshot holds derived indicator values for the latest bar of a
// series. A snapshot is only ever fully populated: if any window is not yet
// full, the whole snapshot is absent rather than partially filled.
type IndicatorSnapshot struct {
	Time  time.Time
	Close decimal.Decimal

	// EMAFast and EMASlow are the fast/slow exponential moving averages.
	EMAFast decimal.Decimal
	EMASlow decimal.Decimal

	// Oscillator is a bounded momentum measure derived from the rolling
	// mean of period-over-period percentage changes.
	Oscillator decimal.Decimal

	// Support and Resistance are rolling window extremes of lows/highs.
	Support    decimal.Decimal
	Resistance decimal.Decimal

	// GapFlag marks a price range left unfilled by the last bars.
	GapFlag bool

	// Retracement is the position of the latest close inside the
	// series high-low range, in [0,1].
	Retracement decimal.Decimal

	// SupplyZone and DemandZone mark close proximity to a recent extreme.
	SupplyZone bool
	DemandZone bool
}

// BullishLean reports whether the fast moving average sits above the slow one.
func (s *IndicatorSnapshot) BullishLean() bool {
	return s.EMAFast.GreaterThan(s.EMASlow)
}
