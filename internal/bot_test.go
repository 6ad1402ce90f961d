package internal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/config"
	"github.com/vadiminshakov/pipwatch/internal/domain"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Feed:           "yahoo",
		Strategy:       "rulevote",
		Interval:       "15m",
		Lookback:       250,
		CycleInterval:  time.Minute,
		MinVotes:       3,
		ProbThreshold:  0.6,
		ClassifierSeed: 1,
		Universe:       config.DefaultUniverse(),
		PipStop:        decimal.NewFromFloat(0.0050),
		PipTarget:      decimal.NewFromFloat(0.0100),
		PercentStop:    decimal.NewFromInt(1),
		PercentTarget:  decimal.NewFromInt(2),
		WALDir:         t.TempDir(),
	}
}

func TestNewSignalBot(t *testing.T) {
	bot, err := NewSignalBot(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer bot.Close()

	summary := bot.Summary()
	require.Equal(t, 0, summary.Total)
	require.True(t, summary.NetPnl.IsZero())
	require.NotNil(t, bot.Store())
}

func TestNewSignalBotClassifier(t *testing.T) {
	conf := testConfig(t)
	conf.Strategy = "classifier"
	conf.PricerPlatform = "yahoo"
	conf.Accounts = []string{"demo-1"}

	bot, err := NewSignalBot(conf, zap.NewNop())
	require.NoError(t, err)
	bot.Close()
}

func TestNewSignalBotRejectsUnknownStrategy(t *testing.T) {
	conf := testConfig(t)
	conf.Strategy = "astrology"

	_, err := NewSignalBot(conf, zap.NewNop())
	require.Error(t, err)
}

func TestFormatAlert(t *testing.T) {
	record, err := domain.NewTradeRecord("EURUSD=X", domain.DirectionBuy,
		decimal.RequireFromString("1.1"),
		decimal.RequireFromString("1.095"),
		decimal.RequireFromString("1.11"),
		time.Now())
	require.NoError(t, err)

	alert := formatAlert(*record)
	require.Contains(t, alert, "New signal: EURUSD=X buy @ 1.1")
}
