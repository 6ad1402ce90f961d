package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// BinancePricer fetches current prices from the Binance public API.
type BinancePricer struct {
	client *binance.Client
}

// NewBinancePricer creates a new Binance pricer.
func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

// GetPrice returns the last traded price for the instrument's symbol.
func (p *BinancePricer) GetPrice(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error) {
	prices, err := p.client.NewListPricesService().Symbol(instrument.Symbol).Do(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(prices) == 0 {
		return decimal.Decimal{}, errors.Errorf("binance API returned empty prices for %s", instrument)
	}
	return decimal.NewFromString(prices[0].Price)
}
