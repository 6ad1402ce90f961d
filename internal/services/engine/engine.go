// Package engine runs the per-cycle signal evaluation pipeline:
// fetch -> indicators -> decision -> record, once per instrument per cycle.
package engine

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/internal/domain"
	"github.com/vadiminshakov/pipwatch/internal/services/market/indicators"
)

type marketData interface {
	Series(ctx context.Context, instrument domain.Instrument) (domain.Series, error)
}

type decider interface {
	Decide(snapshot *domain.IndicatorSnapshot) domain.Decision
}

type recordBuilder interface {
	Build(instrument domain.Instrument, decision domain.Decision, entry decimal.Decimal) (*domain.TradeRecord, error)
}

type livePricer interface {
	GetPrice(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error)
}

type orderPlacer interface {
	Place(ctx context.Context, account string, record *domain.TradeRecord) error
}

// Engine evaluates the instrument universe once per RunCycle call. Each
// invocation is a complete, independent unit of work: no state survives
// between cycles and no failure inside a cycle ever aborts it.
type Engine struct {
	universe []domain.Instrument
	market   marketData
	decider  decider
	builder  recordBuilder
	pricer   livePricer
	placer   orderPlacer
	accounts []string
	logger   *zap.Logger
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithPnlBackfill enables the secondary live-price read that backfills pnl
// on freshly built records.
func WithPnlBackfill(p livePricer) Option {
	return func(e *Engine) {
		e.pricer = p
	}
}

// WithOrderPlacement enables fire-and-forget order placement for every
// qualifying record, once per target account.
func WithOrderPlacement(p orderPlacer, accounts []string) Option {
	return func(e *Engine) {
		e.placer = p
		e.accounts = accounts
	}
}

// New creates a cycle engine over a fixed instrument universe.
func New(logger *zap.Logger, universe []domain.Instrument, market marketData, decider decider, builder recordBuilder, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		universe: universe,
		market:   market,
		decider:  decider,
		builder:  builder,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCycle evaluates every instrument of the universe concurrently and
// returns this cycle's new trade candidate records in accumulation order.
// Instruments whose data is unavailable, whose indicators are undefined or
// whose decision is Hold are skipped silently; partial results are the
// designed degradation mode, never an error.
func (e *Engine) RunCycle(ctx context.Context) []domain.TradeRecord {
	results := make([]*domain.TradeRecord, len(e.universe))

	var wg sync.WaitGroup
	for i, instrument := range e.universe {
		wg.Add(1)
		go func(i int, instrument domain.Instrument) {
			defer wg.Done()
			results[i] = e.evaluate(ctx, instrument)
		}(i, instrument)
	}
	wg.Wait()

	records := make([]domain.TradeRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}

// evaluate runs the pipeline for one instrument. A nil return means the
// instrument produced no record this cycle.
func (e *Engine) evaluate(ctx context.Context, instrument domain.Instrument) *domain.TradeRecord {
	logger := e.logger.With(zap.String("symbol", instrument.Symbol))

	series, err := e.market.Series(ctx, instrument)
	if err != nil {
		logger.Debug("market data unavailable, skipping instrument", zap.Error(err))
		return nil
	}

	snapshot, err := indicators.Compute(series)
	if err != nil {
		logger.Debug("indicators undefined, skipping instrument", zap.Error(err))
		return nil
	}

	decision := e.decider.Decide(snapshot)
	if decision.Direction == domain.DirectionHold {
		logger.Debug("candidate rejected",
			zap.Float64("confidence", decision.Confidence),
			zap.Int("votes", decision.Votes))
		return nil
	}

	record, err := e.builder.Build(instrument, decision, snapshot.Close)
	if err != nil {
		logger.Warn("failed to build trade record", zap.Error(err))
		return nil
	}

	e.backfillPnl(ctx, instrument, record, logger)
	e.placeOrders(ctx, record, logger)

	logger.Info("new trade candidate",
		zap.String("direction", record.Direction.String()),
		zap.String("entry", record.Entry.String()),
		zap.String("take_profit", record.TakeProfit.String()),
		zap.String("stop_loss", record.StopLoss.String()),
		zap.String("reward_risk", record.RewardRisk.String()),
		zap.Float64("confidence", decision.Confidence))
	return record
}

// backfillPnl performs one additional live-price read right after signal
// construction. A failed read leaves pnl at zero.
func (e *Engine) backfillPnl(ctx context.Context, instrument domain.Instrument, record *domain.TradeRecord, logger *zap.Logger) {
	if e.pricer == nil {
		return
	}

	price, err := e.pricer.GetPrice(ctx, instrument)
	if err != nil {
		logger.Debug("live price read failed, pnl stays zero", zap.Error(err))
		return
	}

	diff := price.Sub(record.Entry)
	if record.Direction == domain.DirectionSell {
		diff = diff.Neg()
	}
	record.Pnl = diff.Mul(instrument.PipFactor()).Round(2)
}

// placeOrders submits the record to every target account. Placement
// failures never remove the record from the cycle's batch: the signal was
// valid even if execution failed.
func (e *Engine) placeOrders(ctx context.Context, record *domain.TradeRecord, logger *zap.Logger) {
	if e.placer == nil {
		return
	}
	for _, account := range e.accounts {
		if err := e.placer.Place(ctx, account, record); err != nil {
			logger.Warn("order placement failed",
				zap.String("account", account), zap.Error(err))
		}
	}
}
