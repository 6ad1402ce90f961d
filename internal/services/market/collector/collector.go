// Package collector fetches bounded windows of historical candles from
// market data feeds and validates them before indicator computation.
package collector

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const fetchTimeout = 30 * time.Second

// KlineProvider fetches historical candle data for one instrument.
type KlineProvider interface {
	// GetKlines returns at most limit candles at the given interval
	// (e.g. "1m", "15m", "1h"), oldest first.
	GetKlines(ctx context.Context, instrument domain.Instrument, interval string, limit int) (domain.Series, error)
}

// MarketDataCollector wraps a provider with the per-cycle fetch contract:
// bounded timeout, non-empty result, ordered timestamps, trimmed window.
// Fetch failures surface as errors; the orchestrator absorbs them by
// skipping the instrument for the cycle.
type MarketDataCollector struct {
	provider KlineProvider
	interval string
	lookback int
}

// NewMarketDataCollector creates a collector for a fixed interval and window size.
func NewMarketDataCollector(provider KlineProvider, interval string, lookback int) (*MarketDataCollector, error) {
	if provider == nil {
		return nil, errors.New("kline provider is required")
	}
	if lookback < 1 {
		return nil, errors.Errorf("lookback must be positive, got %d", lookback)
	}
	return &MarketDataCollector{provider: provider, interval: interval, lookback: lookback}, nil
}

// Series fetches a fresh candle window for the instrument. The returned
// series is immutable for the cycle that uses it and is not retained.
func (c *MarketDataCollector) Series(ctx context.Context, instrument domain.Instrument) (domain.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	series, err := c.provider.GetKlines(ctx, instrument, c.interval, c.lookback)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch klines for %s", instrument)
	}
	if len(series) == 0 {
		return nil, errors.Errorf("no kline data returned for %s", instrument)
	}
	if err := series.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid kline data for %s", instrument)
	}

	if len(series) > c.lookback {
		series = series[len(series)-c.lookback:]
	}
	return series, nil
}
