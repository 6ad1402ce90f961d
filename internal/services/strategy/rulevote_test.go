package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

func snapshot(fast, slow, osc float64, gap, supply, demand bool) *domain.IndicatorSnapshot {
	return &domain.IndicatorSnapshot{
		EMAFast:    decimal.NewFromFloat(fast),
		EMASlow:    decimal.NewFromFloat(slow),
		Oscillator: decimal.NewFromFloat(osc),
		GapFlag:    gap,
		SupplyZone: supply,
		DemandZone: demand,
	}
}

func TestNewRuleVoteValidates(t *testing.T) {
	for _, bad := range []int{0, -1, 5} {
		_, err := NewRuleVote(bad)
		require.Error(t, err)
	}

	rv, err := NewRuleVote(DefaultMinVotes)
	require.NoError(t, err)
	require.NotNil(t, rv)
}

func TestDecideBuyOnThreeVotes(t *testing.T) {
	rv, err := NewRuleVote(3)
	require.NoError(t, err)

	// bullish lean, cool oscillator, gap, no zones: 3 of 4 votes
	d := rv.Decide(snapshot(110, 100, 45, true, false, false))
	require.Equal(t, domain.DirectionBuy, d.Direction)
	require.Equal(t, 3, d.Votes)
	require.InDelta(t, 0.75, d.Confidence, 1e-9)
}

func TestDecideHoldBelowThreshold(t *testing.T) {
	rv, err := NewRuleVote(3)
	require.NoError(t, err)

	// bullish lean and cool oscillator only: 2 votes
	d := rv.Decide(snapshot(110, 100, 45, false, false, false))
	require.Equal(t, domain.DirectionHold, d.Direction)
	require.Equal(t, 2, d.Votes)
	require.InDelta(t, 0.5, d.Confidence, 1e-9)
}

func TestDecideSellInSupplyZone(t *testing.T) {
	rv, err := NewRuleVote(3)
	require.NoError(t, err)

	// bullish lean inside a supply zone flips the call to sell
	d := rv.Decide(snapshot(110, 100, 45, false, true, false))
	require.Equal(t, domain.DirectionSell, d.Direction)
	require.Equal(t, 3, d.Votes)
}

func TestDecideSellOnBearishLean(t *testing.T) {
	rv, err := NewRuleVote(3)
	require.NoError(t, err)

	// hot oscillator, gap and demand zone: 3 votes, bearish lean means sell
	d := rv.Decide(snapshot(100, 110, 65, true, false, true))
	require.Equal(t, domain.DirectionSell, d.Direction)
	require.Equal(t, 3, d.Votes)
}

func TestDecideOscillatorRegime(t *testing.T) {
	rv, err := NewRuleVote(1)
	require.NoError(t, err)

	// a hot oscillator does not count for a bullish lean
	d := rv.Decide(snapshot(110, 100, 65, false, false, false))
	require.Equal(t, 1, d.Votes)

	// a cold oscillator does not count for a bearish lean
	d = rv.Decide(snapshot(100, 110, 35, false, false, false))
	require.Equal(t, 0, d.Votes)
}
