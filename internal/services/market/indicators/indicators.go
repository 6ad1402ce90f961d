// Package indicators derives the technical feature set consumed by the
// decision engines. Moving averages come from the cinar/indicator library;
// the oscillator, levels and flags are fixed-window reductions over the
// candle series.
package indicators

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const (
	// FastSpan and SlowSpan are the EMA spans. SlowSpan is the minimum
	// lookback: shorter series yield no snapshot at all.
	FastSpan = 50
	SlowSpan = 200

	// OscillatorWindow is the number of period-over-period changes
	// averaged by the oscillator.
	OscillatorWindow = 14

	// LevelWindow is the trailing window for support/resistance extremes.
	LevelWindow = 20

	// ZoneWindow is the trailing window for supply/demand zone extremes.
	ZoneWindow = 10

	// MinLookback is the minimum series length for a defined snapshot.
	MinLookback = SlowSpan

	gapLookback = 2
)

// zoneProximity is the 2% band around a rolling extreme that marks a zone.
var (
	zoneProximity = decimal.NewFromFloat(0.02)
	one           = decimal.NewFromInt(1)
)

var (
	// ErrInsufficientHistory is returned when the series is shorter than
	// the slowest indicator's window.
	ErrInsufficientHistory = errors.New("not enough bars to compute indicators")

	// ErrFlatRange is returned when a price range degenerates to a point
	// and a ratio over it is undefined.
	ErrFlatRange = errors.New("flat price range, ratio undefined")
)

// Compute derives an indicator snapshot from the latest bar of the series.
// It returns an error instead of a partially populated snapshot whenever any
// required window is not yet full or a derivation is undefined.
func Compute(series domain.Series) (*domain.IndicatorSnapshot, error) {
	if len(series) < MinLookback {
		return nil, errors.Wrapf(ErrInsufficientHistory, "need %d bars, got %d", MinLookback, len(series))
	}

	last, _ := series.Last()

	closes := make([]float64, len(series))
	for i, c := range series {
		closes[i], _ = c.Close.Float64()
	}

	emaFast := lastEMA(closes, FastSpan)
	emaSlow := lastEMA(closes, SlowSpan)

	osc, err := oscillator(closes)
	if err != nil {
		return nil, err
	}

	support, resistance := windowExtremes(series, LevelWindow)
	zoneLow, zoneHigh := windowExtremes(series, ZoneWindow)

	retr, err := retracement(series, last.Close)
	if err != nil {
		return nil, err
	}

	prior := series[len(series)-1-gapLookback]
	gap := last.Low.GreaterThan(prior.High) || last.High.LessThan(prior.Low)

	supply := last.Close.GreaterThanOrEqual(zoneHigh.Mul(one.Sub(zoneProximity)))
	demand := last.Close.LessThanOrEqual(zoneLow.Mul(one.Add(zoneProximity)))

	return &domain.IndicatorSnapshot{
		Time:        last.OpenTime,
		Close:       last.Close,
		EMAFast:     decimal.NewFromFloat(emaFast),
		EMASlow:     decimal.NewFromFloat(emaSlow),
		Oscillator:  decimal.NewFromFloat(osc),
		Support:     support,
		Resistance:  resistance,
		GapFlag:     gap,
		Retracement: retr,
		SupplyZone:  supply,
		DemandZone:  demand,
	}, nil
}

// lastEMA computes the exponential moving average for the given span and
// returns the value attached to the latest bar.
func lastEMA(values []float64, span int) float64 {
	ema := trend.NewEmaWithPeriod[float64](span)
	out := helper.ChanToSlice(ema.Compute(helper.SliceToChan(values)))
	return out[len(out)-1]
}

// oscillator is a simplified relative-strength measure: 100 − 100/(1+m)
// where m is the rolling mean of the percentage change series. This is the
// historical formula of the system, intentionally not textbook RSI.
func oscillator(closes []float64) (float64, error) {
	n := len(closes)
	sum := 0.0
	for i := n - OscillatorWindow; i < n; i++ {
		prev := closes[i-1]
		if prev == 0 {
			return 0, errors.Wrap(ErrFlatRange, "zero close price in oscillator window")
		}
		sum += (closes[i] - prev) / prev
	}
	m := sum / OscillatorWindow

	denom := 1 + m
	if denom == 0 {
		return 0, errors.Wrap(ErrFlatRange, "oscillator denominator is zero")
	}
	return 100 - 100/denom, nil
}

// windowExtremes returns the minimum low and maximum high of the trailing window.
func windowExtremes(series domain.Series, window int) (low, high decimal.Decimal) {
	tail := series[len(series)-window:]
	low, high = tail[0].Low, tail[0].High
	for _, c := range tail[1:] {
		if c.Low.LessThan(low) {
			low = c.Low
		}
		if c.High.GreaterThan(high) {
			high = c.High
		}
	}
	return low, high
}

// retracement places the latest close inside the full-series high-low range.
func retracement(series domain.Series, close decimal.Decimal) (decimal.Decimal, error) {
	low, high := windowExtremes(series, len(series))
	span := high.Sub(low)
	if span.IsZero() {
		return decimal.Zero, errors.Wrap(ErrFlatRange, "series high equals series low")
	}
	return close.Sub(low).Div(span), nil
}
