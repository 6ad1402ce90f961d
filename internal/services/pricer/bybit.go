package pricer

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// BybitPricer fetches current spot prices from Bybit. It gives crypto
// deployments an independent venue for the secondary price read.
type BybitPricer struct {
	client *bybit.Client
}

// NewBybitPricer creates a new Bybit pricer.
func NewBybitPricer(client *bybit.Client) *BybitPricer {
	return &BybitPricer{client: client}
}

// GetPrice returns the last spot price for the instrument's symbol.
func (p *BybitPricer) GetPrice(_ context.Context, instrument domain.Instrument) (decimal.Decimal, error) {
	symbol := bybit.SymbolV5(instrument.Symbol)

	result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
		Symbol:   &symbol,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(result.Result.Spot.List) == 0 {
		return decimal.Decimal{}, errors.Errorf("bybit API returned empty prices for %s", instrument)
	}
	return decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
}
