package trader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const defaultLot = "0.1"

// PlacedOrder is one paper order held in an account ledger.
type PlacedOrder struct {
	Symbol     string
	Direction  domain.Direction
	Entry      decimal.Decimal
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal
	Lot        decimal.Decimal
	Comment    string
	PlacedAt   time.Time
}

// SimulatePlacer is a paper-trading order placer. It keeps a per-account
// ledger of placed orders instead of talking to a broker.
type SimulatePlacer struct {
	mu      sync.RWMutex
	ledgers map[string][]PlacedOrder
	lot     decimal.Decimal
	logger  *zap.Logger
}

// NewSimulatePlacer creates a paper placer with the default lot size.
func NewSimulatePlacer(logger *zap.Logger) *SimulatePlacer {
	if logger == nil {
		logger = zap.NewNop()
	}
	lot, _ := decimal.NewFromString(defaultLot)
	return &SimulatePlacer{
		ledgers: make(map[string][]PlacedOrder),
		lot:     lot,
		logger:  logger,
	}
}

// Place records the order in the account's ledger.
func (p *SimulatePlacer) Place(_ context.Context, account string, record *domain.TradeRecord) error {
	if account == "" {
		return errors.New("account label is required")
	}
	if record == nil {
		return errors.New("record is required")
	}

	order := PlacedOrder{
		Symbol:     record.Symbol,
		Direction:  record.Direction,
		Entry:      record.Entry,
		TakeProfit: record.TakeProfit,
		StopLoss:   record.StopLoss,
		Lot:        p.lot,
		Comment:    fmt.Sprintf("pipwatch - %s", account),
		PlacedAt:   time.Now(),
	}

	p.mu.Lock()
	p.ledgers[account] = append(p.ledgers[account], order)
	p.mu.Unlock()

	p.logger.Info("paper order placed",
		zap.String("account", account),
		zap.String("symbol", order.Symbol),
		zap.String("direction", order.Direction.String()),
		zap.String("entry", order.Entry.String()),
		zap.String("lot", order.Lot.String()))
	return nil
}

// Orders returns a copy of the account's ledger.
func (p *SimulatePlacer) Orders(account string) []PlacedOrder {
	p.mu.RLock()
	defer p.mu.RUnlock()
	orders := make([]PlacedOrder, len(p.ledgers[account]))
	copy(orders, p.ledgers[account])
	return orders
}
