package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a trade candidate record.
type Status string

const (
	StatusRunning Status = "running"
	StatusTPHit   Status = "tp_hit"
	StatusSLHit   Status = "sl_hit"
)

// TradeRecord is a trade candidate emitted by one evaluation cycle.
// Records are created in the Running state; an external process marks them
// closed and sets the terminal pnl.
type TradeRecord struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Direction  Direction       `json:"direction"`
	Entry      decimal.Decimal `json:"entry"`
	StopLoss   decimal.Decimal `json:"stop_loss"`
	TakeProfit decimal.Decimal `json:"take_profit"`
	RewardRisk decimal.Decimal `json:"reward_risk"`
	Status     Status          `json:"status"`
	Pnl        decimal.Decimal `json:"pnl"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewTradeRecord builds a validated trade candidate record. It enforces the
// level ordering for the given direction, rejects a stop equal to entry, and
// derives the reward:risk ratio rounded to 2 decimal places.
func NewTradeRecord(symbol string, direction Direction, entry, stop, target decimal.Decimal, createdAt time.Time) (*TradeRecord, error) {
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}

	switch direction {
	case DirectionBuy:
		if !(stop.LessThan(entry) && entry.LessThan(target)) {
			return nil, errors.Errorf("buy record requires stop < entry < target, got stop=%s entry=%s target=%s",
				stop, entry, target)
		}
	case DirectionSell:
		if !(target.LessThan(entry) && entry.LessThan(stop)) {
			return nil, errors.Errorf("sell record requires target < entry < stop, got stop=%s entry=%s target=%s",
				stop, entry, target)
		}
	default:
		return nil, errors.Errorf("cannot build a record for direction %s", direction)
	}

	risk := entry.Sub(stop).Abs()
	if risk.IsZero() {
		return nil, errors.New("stop-loss must not equal entry")
	}

	rr := target.Sub(entry).Abs().Div(risk).Round(2)
	if !rr.IsPositive() {
		return nil, errors.Errorf("reward:risk must be positive, got %s", rr)
	}

	return &TradeRecord{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Direction:  direction,
		Entry:      entry,
		StopLoss:   stop,
		TakeProfit: target,
		RewardRisk: rr,
		Status:     StatusRunning,
		Pnl:        decimal.Zero,
		CreatedAt:  createdAt,
	}, nil
}

// Closed reports whether the record left the Running state.
func (r *TradeRecord) Closed() bool {
	return r.Status != StatusRunning
}

// String returns a human-readable one-liner for logs and alerts.
func (r *TradeRecord) String() string {
	return fmt.Sprintf("%s %s @ %s tp %s sl %s rr %s",
		r.Symbol, r.Direction, r.Entry, r.TakeProfit, r.StopLoss, r.RewardRisk)
}
