package internal

import (
	"fmt"
	"os"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/config"
	"github.com/vadiminshakov/pipwatch/internal/services/builder"
	"github.com/vadiminshakov/pipwatch/internal/services/engine"
	"github.com/vadiminshakov/pipwatch/internal/services/market/collector"
	"github.com/vadiminshakov/pipwatch/internal/services/pricer"
	"github.com/vadiminshakov/pipwatch/internal/services/strategy"
	"github.com/vadiminshakov/pipwatch/internal/services/trader"
)

// buildEngine assembles the cycle engine from configuration: feed, decision
// strategy, exit offsets and the optional pricer/placer collaborators.
func buildEngine(conf config.Config, logger *zap.Logger) (*engine.Engine, error) {
	provider, err := buildKlineProvider(conf)
	if err != nil {
		return nil, err
	}

	market, err := collector.NewMarketDataCollector(provider, conf.Interval, conf.Lookback)
	if err != nil {
		return nil, errors.Wrap(err, "create market data collector")
	}

	decider, err := buildDecider(conf)
	if err != nil {
		return nil, err
	}

	recordBuilder := builder.New(
		builder.PipOffsets{Stop: conf.PipStop, Target: conf.PipTarget},
		builder.PercentOffsets{StopPercent: conf.PercentStop, TargetPercent: conf.PercentTarget},
	)

	var opts []engine.Option
	if conf.PricerPlatform != "" {
		livePricer, err := buildPricer(conf)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithPnlBackfill(livePricer))
	}
	if len(conf.Accounts) > 0 {
		opts = append(opts, engine.WithOrderPlacement(trader.NewSimulatePlacer(logger), conf.Accounts))
	}

	return engine.New(logger, conf.Universe, market, decider, recordBuilder, opts...), nil
}

func buildKlineProvider(conf config.Config) (collector.KlineProvider, error) {
	switch conf.Feed {
	case "yahoo":
		return collector.NewYahooKlineProvider(), nil
	case "binance":
		return collector.NewBinanceKlineProvider(newBinanceClient()), nil
	default:
		return nil, fmt.Errorf("unsupported feed platform: %s", conf.Feed)
	}
}

func buildPricer(conf config.Config) (pricer.Pricer, error) {
	switch conf.PricerPlatform {
	case "yahoo":
		return pricer.NewYahooPricer(collector.NewYahooKlineProvider()), nil
	case "binance":
		return pricer.NewBinancePricer(newBinanceClient()), nil
	case "bybit":
		return pricer.NewBybitPricer(newBybitClient()), nil
	default:
		return nil, fmt.Errorf("unsupported pricer platform: %s", conf.PricerPlatform)
	}
}

func buildDecider(conf config.Config) (strategy.Decider, error) {
	switch conf.Strategy {
	case "rulevote":
		decider, err := strategy.NewRuleVote(conf.MinVotes)
		if err != nil {
			return nil, errors.Wrap(err, "create rule-vote strategy")
		}
		return decider, nil
	case "classifier":
		decider, err := strategy.NewClassifier(conf.ProbThreshold, conf.ClassifierSeed)
		if err != nil {
			return nil, errors.Wrap(err, "create classifier strategy")
		}
		return decider, nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %s", conf.Strategy)
	}
}

// Market data endpoints are public; keys are only picked up when present.
func newBinanceClient() *binance.Client {
	return binance.NewClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))
}

func newBybitClient() *bybit.Client {
	client := bybit.NewClient()
	if key := os.Getenv("BYBIT_API_KEY"); key != "" {
		client = client.WithAuth(key, os.Getenv("BYBIT_API_SECRET"))
	}
	return client
}
