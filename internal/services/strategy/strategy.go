// Package strategy implements the pluggable decision engines that score an
// indicator snapshot into a directional call. The rule-vote and classifier
// variants are interchangeable behind the Decider interface and are selected
// at configuration time.
package strategy

import "github.com/vadiminshakov/pipwatch/internal/domain"

// Decider scores an indicator snapshot into a trade decision.
// A Hold decision rejects the candidate: no record is built for it.
type Decider interface {
	Decide(snapshot *domain.IndicatorSnapshot) domain.Decision
}
