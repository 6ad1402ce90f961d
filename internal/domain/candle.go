package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Candle single OHLCV bar.
type Candle struct {
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// Series is an ordered candle sequence for one instrument at one cadence.
type Series []Candle

// Validate checks that open times are strictly increasing,
// so the series carries no duplicate or out-of-order bars.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].OpenTime.After(s[i-1].OpenTime) {
			return errors.Errorf("bar %d open time %s is not after previous bar %s",
				i, s[i].OpenTime, s[i-1].OpenTime)
		}
	}
	return nil
}

// Last returns the most recent candle.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Closes returns close prices in series order.
func (s Series) Closes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}
