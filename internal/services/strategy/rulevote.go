package strategy

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const (
	// DefaultMinVotes is how many of the four votes must be affirmative
	// for a candidate to survive. The threshold is empirical.
	DefaultMinVotes = 3

	totalVotes = 4
)

// Oscillator regime bounds: a bullish lean wants the oscillator below the
// upper bound, a bearish lean wants it above the lower bound.
var (
	oscBullishBelow = decimal.NewFromInt(60)
	oscBearishAbove = decimal.NewFromInt(40)
)

// RuleVote is the deterministic decision engine. It casts four binary votes
// over a snapshot and emits a directional call when enough votes agree.
type RuleVote struct {
	minVotes int
}

// NewRuleVote creates a rule-vote decider requiring minVotes affirmative votes.
func NewRuleVote(minVotes int) (*RuleVote, error) {
	if minVotes < 1 || minVotes > totalVotes {
		return nil, errors.Errorf("minVotes must be between 1 and %d, got %d", totalVotes, minVotes)
	}
	return &RuleVote{minVotes: minVotes}, nil
}

// Decide casts the votes: moving-average ordering, oscillator regime
// consistent with the lean, gap flag, and zone proximity. Fewer than
// minVotes affirmative votes reject the candidate. Direction is Buy for a
// bullish lean outside a supply zone, Sell otherwise.
func (r *RuleVote) Decide(snapshot *domain.IndicatorSnapshot) domain.Decision {
	bullish := snapshot.BullishLean()

	oscConsistent := snapshot.Oscillator.GreaterThan(oscBearishAbove)
	if bullish {
		oscConsistent = snapshot.Oscillator.LessThan(oscBullishBelow)
	}

	votes := 0
	for _, v := range []bool{
		bullish,
		oscConsistent,
		snapshot.GapFlag,
		snapshot.SupplyZone || snapshot.DemandZone,
	} {
		if v {
			votes++
		}
	}

	confidence := float64(votes) / totalVotes
	if votes < r.minVotes {
		return domain.Hold(confidence, votes)
	}

	direction := domain.DirectionSell
	if bullish && !snapshot.SupplyZone {
		direction = domain.DirectionBuy
	}

	return domain.Decision{Direction: direction, Confidence: confidence, Votes: votes}
}
