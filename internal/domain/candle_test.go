package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testSeries(n int) Series {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	series := make(Series, 0, n)
	for i := 0; i < n; i++ {
		price := decimal.NewFromInt(int64(100 + i))
		series = append(series, Candle{
			OpenTime: start.Add(time.Duration(i) * 15 * time.Minute),
			Open:     price,
			High:     price.Add(decimal.NewFromInt(1)),
			Low:      price.Sub(decimal.NewFromInt(1)),
			Close:    price,
			Volume:   decimal.NewFromInt(1000),
		})
	}
	return series
}

func TestSeriesValidate(t *testing.T) {
	series := testSeries(5)
	require.NoError(t, series.Validate())

	// duplicate timestamp
	series[2].OpenTime = series[1].OpenTime
	require.Error(t, series.Validate())

	// out of order
	series = testSeries(5)
	series[3].OpenTime = series[0].OpenTime.Add(-time.Minute)
	require.Error(t, series.Validate())
}

func TestSeriesLast(t *testing.T) {
	var empty Series
	_, ok := empty.Last()
	require.False(t, ok)

	series := testSeries(3)
	last, ok := series.Last()
	require.True(t, ok)
	require.Equal(t, series[2].OpenTime, last.OpenTime)
}

func TestSeriesCloses(t *testing.T) {
	series := testSeries(4)
	closes := series.Closes()
	require.Len(t, closes, 4)
	require.True(t, closes[0].Equal(decimal.NewFromInt(100)))
	require.True(t, closes[3].Equal(decimal.NewFromInt(103)))
}

func TestInstrumentPipFactor(t *testing.T) {
	fx := Instrument{Symbol: "EURUSD=X", Class: ClassFX}
	require.True(t, fx.PipFactor().Equal(decimal.NewFromInt(10000)))

	metal := Instrument{Symbol: "XAUUSD=X", Class: ClassMetal}
	require.True(t, metal.PipFactor().Equal(decimal.NewFromInt(10)))

	index := Instrument{Symbol: "^DJI", Class: ClassIndex}
	require.True(t, index.PipFactor().Equal(decimal.NewFromInt(10)))
}
