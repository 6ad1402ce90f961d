package domain

import "github.com/pkg/errors"

// Direction is the directional call produced by a decision engine.
type Direction int

const (
	DirectionHold Direction = iota
	DirectionBuy
	DirectionSell
)

// MarshalJSON encodes the direction as its string form.
func (d Direction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes the string form written by MarshalJSON.
func (d *Direction) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"buy"`:
		*d = DirectionBuy
	case `"sell"`:
		*d = DirectionSell
	case `"hold"`:
		*d = DirectionHold
	default:
		return errors.Errorf("unknown direction %s", data)
	}
	return nil
}

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	default:
		return "hold"
	}
}

// Decision combines a direction with a confidence measure.
// A Hold decision means the candidate was rejected and no record is built.
type Decision struct {
	Direction Direction
	// Confidence is in [0,1]: the vote share for the rule strategy,
	// the positive-class probability for the classifier strategy.
	Confidence float64
	// Votes is the affirmative vote count (rule strategy only).
	Votes int
}

// Hold is the rejection decision shared by all strategies.
func Hold(confidence float64, votes int) Decision {
	return Decision{Direction: DirectionHold, Confidence: confidence, Votes: votes}
}
