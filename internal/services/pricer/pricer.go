// Package pricer provides the one-shot live price reads used to backfill
// pnl on freshly built trade records.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// Pricer returns the current market price for an instrument.
type Pricer interface {
	GetPrice(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error)
}
