// Decision scoring: how much a voter wants to KEEP a candidate around.
// Shared by eviction votes, veto decisions, and replacement-nominee picks.
package engine

import (
	"github.com/talgya/housesim/internal/house"
)

// ThreatFunc assesses how dangerous a candidate is to the field. Higher means
// more dangerous. Injectable so hosts can swap assessments.
type ThreatFunc func(candidate *house.Houseguest, view DecisionView) float64

// DecisionView is the read-only game-state slice a scoring call consumes.
// Nil funcs degrade the score gracefully, never a panic.
type DecisionView struct {
	Relationship func(a, b house.HouseguestID) float64
	Threat       ThreatFunc
	Allied       func(a, b house.HouseguestID) bool
	ActiveCount  int
	Week         int
}

// componentWeights nudge how much a trait cares about each scoring component.
type componentWeights struct {
	relationship float64
	threat       float64
	loyalty      float64
}

var traitWeights = map[house.Trait]componentWeights{
	house.TraitStrategic:       {relationship: 0.6, threat: 1.5, loyalty: 0.8},
	house.TraitSocial:          {relationship: 1.4, threat: 0.8, loyalty: 1.0},
	house.TraitLoyal:           {relationship: 1.3, threat: 0.7, loyalty: 1.5},
	house.TraitSneaky:          {relationship: 0.8, threat: 1.3, loyalty: 0.6},
	house.TraitManipulative:    {relationship: 0.7, threat: 1.4, loyalty: 0.5},
	house.TraitEmotional:       {relationship: 1.5, threat: 0.6, loyalty: 1.2},
	house.TraitCompetitive:     {relationship: 0.9, threat: 1.6, loyalty: 0.9},
	house.TraitAnalytical:      {relationship: 0.8, threat: 1.4, loyalty: 1.0},
	house.TraitFloater:         {relationship: 1.0, threat: 0.9, loyalty: 0.7},
	house.TraitConfrontational: {relationship: 1.1, threat: 1.2, loyalty: 0.8},
}

// weightsFor averages the component weights across the voter's trait set.
// Traitless voters score with neutral 1.0 weights.
func weightsFor(voter *house.Houseguest) componentWeights {
	if len(voter.Traits) == 0 {
		return componentWeights{relationship: 1, threat: 1, loyalty: 1}
	}
	var w componentWeights
	for _, t := range voter.Traits {
		tw, ok := traitWeights[t]
		if !ok {
			tw = componentWeights{relationship: 1, threat: 1, loyalty: 1}
		}
		w.relationship += tw.relationship
		w.threat += tw.threat
		w.loyalty += tw.loyalty
	}
	n := float64(len(voter.Traits))
	w.relationship /= n
	w.threat /= n
	w.loyalty /= n
	return w
}

// ScoreCandidate computes the voter's desire to keep the candidate. Higher
// means keep. When the view lacks relationship or threat providers the score
// degrades to whatever remains: raw relationship, or zero.
func ScoreCandidate(voter, candidate *house.Houseguest, view DecisionView) float64 {
	rel := 0.0
	if view.Relationship != nil {
		rel = view.Relationship(voter.ID, candidate.ID)
	}

	// Without a threat assessment there is nothing to weigh against; raw
	// relationship is the whole signal.
	if view.Threat == nil {
		return rel
	}

	w := weightsFor(voter)
	score := w.relationship * rel
	score -= w.threat * view.Threat(candidate, view)

	if view.Allied != nil && view.Allied(voter.ID, candidate.ID) {
		score += w.loyalty * float64(voter.Stats.Loyalty) * 4
	}
	return score
}

// DefaultThreat rates a candidate by competition record and strategic stat.
// Quiet players with a strong strategic game get a late-game bump; the
// biggest threats aren't always the comp beasts.
func DefaultThreat(candidate *house.Houseguest, view DecisionView) float64 {
	threat := float64(candidate.CompetitionWins()) * 10
	threat += float64(candidate.Stats.Strategic) * 3

	if candidate.CompetitionWins() == 0 && candidate.Stats.Strategic >= 7 && view.ActiveCount > 0 && view.ActiveCount <= 7 {
		threat += 10
	}
	return threat
}
