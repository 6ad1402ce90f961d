// Package builder turns a non-Hold decision and the latest close price into
// a complete trade candidate record with stop-loss and take-profit levels.
package builder

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// OffsetPolicy derives stop and target levels around an entry price.
type OffsetPolicy interface {
	// Levels returns (stop, target) for the direction: a Buy sets the stop
	// below and the target above entry, a Sell the reverse.
	Levels(direction domain.Direction, entry decimal.Decimal) (stop, target decimal.Decimal)
}

// PipOffsets applies absolute price offsets, fixed-pip style. Appropriate
// for FX-like instruments.
type PipOffsets struct {
	Stop   decimal.Decimal
	Target decimal.Decimal
}

// DefaultPipOffsets returns the deployment defaults: 0.0050 stop, 0.0100 target.
func DefaultPipOffsets() PipOffsets {
	return PipOffsets{
		Stop:   decimal.NewFromFloat(0.0050),
		Target: decimal.NewFromFloat(0.0100),
	}
}

// Levels implements OffsetPolicy.
func (p PipOffsets) Levels(direction domain.Direction, entry decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if direction == domain.DirectionSell {
		return entry.Add(p.Stop), entry.Sub(p.Target)
	}
	return entry.Sub(p.Stop), entry.Add(p.Target)
}

// PercentOffsets applies offsets proportional to the entry price.
// Appropriate for index and metal-like instruments.
type PercentOffsets struct {
	StopPercent   decimal.Decimal
	TargetPercent decimal.Decimal
}

// DefaultPercentOffsets returns the deployment defaults: 1% stop, 2% target.
func DefaultPercentOffsets() PercentOffsets {
	return PercentOffsets{
		StopPercent:   decimal.NewFromInt(1),
		TargetPercent: decimal.NewFromInt(2),
	}
}

var hundred = decimal.NewFromInt(100)

// Levels implements OffsetPolicy.
func (p PercentOffsets) Levels(direction domain.Direction, entry decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	stopOffset := entry.Mul(p.StopPercent).Div(hundred)
	targetOffset := entry.Mul(p.TargetPercent).Div(hundred)
	if direction == domain.DirectionSell {
		return entry.Add(stopOffset), entry.Sub(targetOffset)
	}
	return entry.Sub(stopOffset), entry.Add(targetOffset)
}

// Builder packages decisions into trade candidate records, picking the
// offset policy by instrument class.
type Builder struct {
	pip     OffsetPolicy
	percent OffsetPolicy
	now     func() time.Time
}

// New creates a builder with the given policies. Nil policies fall back to
// the deployment defaults.
func New(pip, percent OffsetPolicy) *Builder {
	if pip == nil {
		pip = DefaultPipOffsets()
	}
	if percent == nil {
		percent = DefaultPercentOffsets()
	}
	return &Builder{pip: pip, percent: percent, now: time.Now}
}

// Build derives the exit levels for the decision and constructs a validated
// record in the Running state with zero pnl.
func (b *Builder) Build(instrument domain.Instrument, decision domain.Decision, entry decimal.Decimal) (*domain.TradeRecord, error) {
	if decision.Direction == domain.DirectionHold {
		return nil, errors.New("cannot build a record for a Hold decision")
	}
	if !entry.IsPositive() {
		return nil, errors.Errorf("entry price must be positive, got %s", entry)
	}

	policy := b.percent
	if instrument.Class == domain.ClassFX {
		policy = b.pip
	}

	stop, target := policy.Levels(decision.Direction, entry)

	record, err := domain.NewTradeRecord(instrument.Symbol, decision.Direction, entry, stop, target, b.now())
	if err != nil {
		return nil, errors.Wrapf(err, "build record for %s", instrument)
	}
	return record, nil
}
