// Command pipwatch runs the multi-market signal bot. It fetches candles,
// computes indicators, decides trade direction and publishes the resulting
// signals to the journal, the web dashboard and Telegram.
//
// Usage:
//
//	pipwatch --config config.yaml
//	pipwatch (uses CLI arguments, or launches the setup wizard)
//
// Optional environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/pipwatch/config"
	"github.com/vadiminshakov/pipwatch/internal"
	"github.com/vadiminshakov/pipwatch/internal/setup"
	"github.com/vadiminshakov/pipwatch/internal/web"
)

func main() {
	conf, err := config.Get()
	if errors.Is(err, config.ErrNoConfig) {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		conf, err = config.Load("config.gen.yaml")
	}
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	bot, err := internal.NewSignalBot(conf, logger)
	if err != nil {
		logger.Fatal("failed to build signal bot", zap.Error(err))
	}
	defer bot.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})
	if conf.WebAddr != "" {
		server := web.NewServer(conf.WebAddr, bot.Store(), bot)
		g.Go(func() error {
			logger.Info("starting dashboard", zap.String("addr", conf.WebAddr))
			return server.Start(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped", zap.Error(err))
	}
	logger.Info("bot stopped")
}
