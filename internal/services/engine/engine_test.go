package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/internal/domain"
	"github.com/vadiminshakov/pipwatch/internal/services/builder"
	"github.com/vadiminshakov/pipwatch/internal/services/market/indicators"
)

type fakeMarket struct {
	failing map[string]bool
}

func (f *fakeMarket) Series(_ context.Context, instrument domain.Instrument) (domain.Series, error) {
	if f.failing[instrument.Symbol] {
		return nil, errors.New("feed down")
	}
	return risingSeries(indicators.MinLookback), nil
}

type shortMarket struct{}

func (shortMarket) Series(context.Context, domain.Instrument) (domain.Series, error) {
	return risingSeries(indicators.MinLookback / 2), nil
}

type stubDecider struct {
	decision domain.Decision
}

func (s stubDecider) Decide(*domain.IndicatorSnapshot) domain.Decision {
	return s.decision
}

type stubPricer struct {
	price decimal.Decimal
	err   error
}

func (s stubPricer) GetPrice(context.Context, domain.Instrument) (decimal.Decimal, error) {
	return s.price, s.err
}

type recordingPlacer struct {
	mu     sync.Mutex
	err    error
	placed []string
}

func (r *recordingPlacer) Place(_ context.Context, account string, _ *domain.TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed = append(r.placed, account)
	return r.err
}

func risingSeries(n int) domain.Series {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	series := make(domain.Series, 0, n)
	for i := 0; i < n; i++ {
		price := decimal.NewFromFloat(100 + 0.5*float64(i))
		series = append(series, domain.Candle{
			OpenTime: start.Add(time.Duration(i) * 15 * time.Minute),
			Open:     price,
			High:     price.Add(decimal.NewFromFloat(0.5)),
			Low:      price.Sub(decimal.NewFromFloat(0.5)),
			Close:    price,
			Volume:   decimal.NewFromInt(1000),
		})
	}
	return series
}

func testUniverse() []domain.Instrument {
	return []domain.Instrument{
		{Symbol: "XAUUSD=X", Class: domain.ClassMetal},
		{Symbol: "^DJI", Class: domain.ClassIndex},
		{Symbol: "^NDX", Class: domain.ClassIndex},
		{Symbol: "EURUSD=X", Class: domain.ClassFX},
		{Symbol: "GBPUSD=X", Class: domain.ClassFX},
	}
}

func buyDecider() stubDecider {
	return stubDecider{decision: domain.Decision{Direction: domain.DirectionBuy, Confidence: 0.75, Votes: 3}}
}

func TestRunCyclePartialFailures(t *testing.T) {
	market := &fakeMarket{failing: map[string]bool{"^DJI": true, "GBPUSD=X": true}}
	e := New(zap.NewNop(), testUniverse(), market, buyDecider(), builder.New(nil, nil))

	records := e.RunCycle(context.Background())
	require.Len(t, records, 3)

	// accumulation order follows the universe order
	require.Equal(t, "XAUUSD=X", records[0].Symbol)
	require.Equal(t, "^NDX", records[1].Symbol)
	require.Equal(t, "EURUSD=X", records[2].Symbol)
}

func TestRunCycleHoldProducesNothing(t *testing.T) {
	market := &fakeMarket{}
	e := New(zap.NewNop(), testUniverse(), market, stubDecider{decision: domain.Hold(0.5, 2)}, builder.New(nil, nil))

	records := e.RunCycle(context.Background())
	require.Empty(t, records)
}

func TestRunCycleSkipsShortSeries(t *testing.T) {
	e := New(zap.NewNop(), testUniverse(), shortMarket{}, buyDecider(), builder.New(nil, nil))

	records := e.RunCycle(context.Background())
	require.Empty(t, records)
}

func TestRunCyclePnlBackfill(t *testing.T) {
	universe := []domain.Instrument{{Symbol: "EURUSD=X", Class: domain.ClassFX}}
	market := &fakeMarket{}

	// entry is the latest close 199.5, live price 199.6: +0.1 * 10000 pips
	pricer := stubPricer{price: decimal.NewFromFloat(199.6)}
	e := New(zap.NewNop(), universe, market, buyDecider(), builder.New(nil, nil), WithPnlBackfill(pricer))

	records := e.RunCycle(context.Background())
	require.Len(t, records, 1)
	require.Equal(t, "1000", records[0].Pnl.String())
}

func TestRunCyclePnlBackfillSellNegates(t *testing.T) {
	universe := []domain.Instrument{{Symbol: "XAUUSD=X", Class: domain.ClassMetal}}
	market := &fakeMarket{}
	sell := stubDecider{decision: domain.Decision{Direction: domain.DirectionSell, Confidence: 0.75, Votes: 3}}

	pricer := stubPricer{price: decimal.NewFromFloat(199.6)}
	e := New(zap.NewNop(), universe, market, sell, builder.New(nil, nil), WithPnlBackfill(pricer))

	records := e.RunCycle(context.Background())
	require.Len(t, records, 1)
	require.Equal(t, "-1", records[0].Pnl.String())
}

func TestRunCyclePnlBackfillFailureLeavesZero(t *testing.T) {
	universe := []domain.Instrument{{Symbol: "EURUSD=X", Class: domain.ClassFX}}
	market := &fakeMarket{}

	pricer := stubPricer{err: errors.New("venue down")}
	e := New(zap.NewNop(), universe, market, buyDecider(), builder.New(nil, nil), WithPnlBackfill(pricer))

	records := e.RunCycle(context.Background())
	require.Len(t, records, 1)
	require.True(t, records[0].Pnl.IsZero())
}

func TestRunCycleOrderPlacement(t *testing.T) {
	universe := []domain.Instrument{{Symbol: "EURUSD=X", Class: domain.ClassFX}}
	market := &fakeMarket{}
	placer := &recordingPlacer{}

	e := New(zap.NewNop(), universe, market, buyDecider(), builder.New(nil, nil),
		WithOrderPlacement(placer, []string{"acc-1", "acc-2"}))

	records := e.RunCycle(context.Background())
	require.Len(t, records, 1)
	require.Equal(t, []string{"acc-1", "acc-2"}, placer.placed)
}

func TestRunCyclePlacementFailureKeepsRecord(t *testing.T) {
	universe := []domain.Instrument{{Symbol: "EURUSD=X", Class: domain.ClassFX}}
	market := &fakeMarket{}
	placer := &recordingPlacer{err: errors.New("broker rejected")}

	e := New(zap.NewNop(), universe, market, buyDecider(), builder.New(nil, nil),
		WithOrderPlacement(placer, []string{"acc-1"}))

	records := e.RunCycle(context.Background())
	require.Len(t, records, 1)
	require.Len(t, placer.placed, 1)
}
