// Package domain defines core data structures used throughout the signal bot.
package domain

import "github.com/shopspring/decimal"

// InstrumentClass groups instruments by market type. The class selects the
// exit-offset policy and the pip factor used for pnl conversion.
type InstrumentClass string

const (
	ClassFX     InstrumentClass = "fx"
	ClassMetal  InstrumentClass = "metal"
	ClassIndex  InstrumentClass = "index"
	ClassCrypto InstrumentClass = "crypto"
)

var (
	pipFactorFX    = decimal.NewFromInt(10000)
	pipFactorPoint = decimal.NewFromInt(10)
)

// Instrument is a tradable symbol with its market class.
type Instrument struct {
	Symbol string
	Class  InstrumentClass
}

// String returns the string representation.
func (i Instrument) String() string {
	return i.Symbol
}

// PipFactor returns the multiplier that converts a price difference
// into pnl units for this instrument class.
func (i Instrument) PipFactor() decimal.Decimal {
	if i.Class == ClassFX {
		return pipFactorFX
	}
	return pipFactorPoint
}
