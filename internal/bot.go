package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/config"
	"github.com/vadiminshakov/pipwatch/internal/domain"
	"github.com/vadiminshakov/pipwatch/internal/services/engine"
	"github.com/vadiminshakov/pipwatch/internal/services/metrics"
	"github.com/vadiminshakov/pipwatch/internal/services/notifier"
	"github.com/vadiminshakov/pipwatch/internal/storage/signals"
)

// SignalBot is the surrounding application around the cycle engine: it
// schedules cycles on a fixed interval, accumulates the emitted records,
// journals them and relays them to the notification sink. The engine itself
// holds no timer and no cross-cycle state.
type SignalBot struct {
	engine   *engine.Engine
	store    *signals.WALStore
	notifier notifier.Notifier
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	history []domain.TradeRecord
}

// NewSignalBot wires a bot from configuration.
func NewSignalBot(conf config.Config, logger *zap.Logger) (*SignalBot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	eng, err := buildEngine(conf, logger)
	if err != nil {
		return nil, errors.Wrap(err, "build cycle engine")
	}

	store, err := signals.NewWALStore(conf.WALDir)
	if err != nil {
		return nil, errors.Wrap(err, "open signal journal")
	}

	// prior signals feed the aggregate statistics after a restart
	history, err := store.All()
	if err != nil {
		logger.Warn("failed to replay signal journal", zap.Error(err))
	}

	var sink notifier.Notifier = notifier.Nop{}
	if conf.TelegramToken != "" && conf.TelegramChatID != "" {
		sink = notifier.NewTelegram(conf.TelegramToken, conf.TelegramChatID, logger)
	}

	return &SignalBot{
		engine:   eng,
		store:    store,
		notifier: sink,
		interval: conf.CycleInterval,
		logger:   logger,
		history:  history,
	}, nil
}

// Run executes evaluation cycles until the context is cancelled. The first
// cycle starts immediately.
func (b *SignalBot) Run(ctx context.Context) error {
	b.logger.Info("starting signal loop", zap.Duration("cycle_interval", b.interval))

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context done, stopping signal loop")
			return ctx.Err()
		case <-ticker.C:
			b.runCycle(ctx)
		}
	}
}

func (b *SignalBot) runCycle(ctx context.Context) {
	records := b.engine.RunCycle(ctx)
	if len(records) == 0 {
		b.logger.Debug("cycle produced no signals")
		return
	}

	b.mu.Lock()
	b.history = append(b.history, records...)
	b.mu.Unlock()

	for _, record := range records {
		if err := b.store.Save(record); err != nil {
			b.logger.Error("failed to journal signal", zap.Error(err))
		}
		b.notifier.Notify(ctx, formatAlert(record))
	}

	b.logger.Info("cycle finished", zap.Int("signals", len(records)))
}

// Summary reduces the accumulated record history into aggregate statistics.
func (b *SignalBot) Summary() metrics.Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return metrics.Summarize(b.history)
}

// Store exposes the signal journal for the dashboard stream.
func (b *SignalBot) Store() *signals.WALStore {
	return b.store
}

// Close releases the signal journal.
func (b *SignalBot) Close() {
	if err := b.store.Close(); err != nil {
		b.logger.Warn("failed to close signal journal", zap.Error(err))
	}
}

func formatAlert(record domain.TradeRecord) string {
	return fmt.Sprintf("New signal: %s", record.String())
}
