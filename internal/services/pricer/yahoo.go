package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// klineSource is the slice of the collector used for the price read.
type klineSource interface {
	GetKlines(ctx context.Context, instrument domain.Instrument, interval string, limit int) (domain.Series, error)
}

// YahooPricer reads the latest 1-minute close from the Yahoo chart API.
type YahooPricer struct {
	provider klineSource
}

// NewYahooPricer creates a pricer backed by a Yahoo kline provider.
func NewYahooPricer(provider klineSource) *YahooPricer {
	return &YahooPricer{provider: provider}
}

// GetPrice returns the most recent close for the instrument.
func (p *YahooPricer) GetPrice(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error) {
	series, err := p.provider.GetKlines(ctx, instrument, "1m", 1)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "fetch live price for %s", instrument)
	}
	last, ok := series.Last()
	if !ok {
		return decimal.Decimal{}, errors.Errorf("yahoo returned no price data for %s", instrument)
	}
	return last.Close, nil
}
