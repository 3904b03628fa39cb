// Package trust computes derived 0–100 trust scores from deal history,
// interaction history, alliance loyalty, and personality traits. Scores are
// never stored; they aggregate mutable state from three other subsystems and
// must be recomputed on every query.
package trust

import (
	"math"

	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

// Factor weights. The three 0–100 factors plus the trait modifier sum to 1.0.
const (
	WeightDeals        = 0.40
	WeightInteractions = 0.30
	WeightAlliances    = 0.20
	WeightTraits       = 0.10
)

// Trait modifier bounds.
const (
	traitModMin = -20.0
	traitModMax = 20.0
)

// TraitModifiers maps each personality trait to its fixed trust delta.
var TraitModifiers = map[house.Trait]float64{
	house.TraitLoyal:           15,
	house.TraitSneaky:          -10,
	house.TraitStrategic:       -5,
	house.TraitEmotional:       5,
	house.TraitCompetitive:     -3,
	house.TraitAnalytical:      -2,
	house.TraitFloater:         -5,
	house.TraitConfrontational: 3,
}

// Factors reports the per-source sub-scores behind a composite trust score.
// DealHistory, Interactions, and AllianceLoyalty are each clamped to [0, 100];
// TraitModifier is clamped to [-20, 20].
type Factors struct {
	DealHistory     float64 `json:"deal_history"`
	Interactions    float64 `json:"interactions"`
	AllianceLoyalty float64 `json:"alliance_loyalty"`
	TraitModifier   float64 `json:"trait_modifier"`
}

// Report is the result of one trust computation.
type Report struct {
	Score      int     `json:"score"` // 0–100
	Reputation string  `json:"reputation"`
	Factors    Factors `json:"factors"`
}

// InteractionProvider supplies per-pair interaction trust when a dedicated
// tracker exists. Optional; absent, interaction trust derives from
// relationship event history.
type InteractionProvider interface {
	PairTrust(subject, from house.HouseguestID) (float64, bool)
}

// Snapshot is the game-state slice the aggregator reads. All fields are
// optional; missing data contributes its neutral default.
type Snapshot struct {
	Ledger        []*deals.Deal
	Alliances     []*social.Alliance
	Relationships *social.RelationshipStore
	Interactions  InteractionProvider
	Lookup        func(house.HouseguestID) *house.Houseguest

	// TraitOverrides replaces individual TraitModifiers entries, keyed by
	// trait. Traits absent from the map keep their built-in delta.
	TraitOverrides map[house.Trait]float64
}

// Aggregator computes trust reports against a bound snapshot.
// A nil Aggregator (or nil snapshot) yields neutral reports; absent context
// is "unknown", not an error.
type Aggregator struct {
	snap *Snapshot
}

// NewAggregator binds an aggregator to a game-state snapshot.
func NewAggregator(snap *Snapshot) *Aggregator {
	return &Aggregator{snap: snap}
}

// Neutral is the report returned when no game-state is bound.
func Neutral() Report {
	return Report{
		Score:      50,
		Reputation: ReputationLabel(50),
		Factors:    Factors{DealHistory: 50, Interactions: 50, AllianceLoyalty: 50},
	}
}

// Compute derives the trust score for subject. from narrows interaction trust
// to a single pair's history; pass 0 for a house-wide view. Pure read; no
// side effects on game-state.
func (a *Aggregator) Compute(subject, from house.HouseguestID) Report {
	if a == nil || a.snap == nil {
		return Neutral()
	}

	f := Factors{
		DealHistory:     a.dealFactor(subject),
		Interactions:    a.interactionFactor(subject, from),
		AllianceLoyalty: a.allianceFactor(subject),
		TraitModifier:   a.traitModifier(subject),
	}

	composite := 50 +
		WeightDeals*(f.DealHistory-50) +
		WeightInteractions*(f.Interactions-50) +
		WeightAlliances*(f.AllianceLoyalty-50) +
		WeightTraits*f.TraitModifier

	score := int(math.Round(clamp100(composite)))
	return Report{Score: score, Reputation: ReputationLabel(score), Factors: f}
}

// dealFactor: start at 50, credit fulfilled deals, debit broken ones, scaled
// by the deal's impact class.
func (a *Aggregator) dealFactor(subject house.HouseguestID) float64 {
	score := 50.0
	for _, d := range a.snap.Ledger {
		if !d.Involves(subject) {
			continue
		}
		switch d.Status {
		case deals.StatusFulfilled:
			score += deals.FulfillTrustDelta[d.Impact]
		case deals.StatusBroken:
			score -= deals.BreakTrustDelta[d.Impact]
		}
	}
	return clamp100(score)
}

// interactionFactor: delegate to the injected tracker when present, else
// derive from relationship event history.
func (a *Aggregator) interactionFactor(subject, from house.HouseguestID) float64 {
	if a.snap.Interactions != nil && from != 0 {
		if v, ok := a.snap.Interactions.PairTrust(subject, from); ok {
			return clamp100(v)
		}
	}
	if a.snap.Relationships == nil {
		return 50
	}

	var events []social.RelationshipEvent
	if from != 0 {
		events = a.snap.Relationships.Events(subject, from)
	} else {
		events = a.snap.Relationships.EventsInvolving(subject)
	}

	score := 50.0
	for _, ev := range events {
		switch ev.Kind {
		case social.EventPromiseKept, social.EventDealFulfilled:
			score += 10
		case social.EventBetrayal, social.EventDealBroken:
			score -= 15
		default:
			score += ev.Impact / 2
		}
	}
	return clamp100(score)
}

// allianceFactor: -20 per alliance the subject caused to dissolve; otherwise
// credit 0.3× the average stability of the subject's active alliances.
func (a *Aggregator) allianceFactor(subject house.HouseguestID) float64 {
	score := 50.0
	activeCount := 0
	stabilitySum := 0.0
	for _, al := range a.snap.Alliances {
		if al.Status == social.AllianceDissolved && al.BrokenBy != nil && *al.BrokenBy == subject {
			score -= 20
			continue
		}
		if al.Status == social.AllianceActive && al.Contains(subject) {
			activeCount++
			stabilitySum += al.Stability
		}
	}
	if activeCount > 0 {
		score += 0.3 * (stabilitySum / float64(activeCount))
	}
	return clamp100(score)
}

func (a *Aggregator) traitModifier(subject house.HouseguestID) float64 {
	if a.snap.Lookup == nil {
		return 0
	}
	hg := a.snap.Lookup(subject)
	if hg == nil {
		return 0
	}
	mod := 0.0
	for _, t := range hg.Traits {
		if v, ok := a.snap.TraitOverrides[t]; ok {
			mod += v
			continue
		}
		mod += TraitModifiers[t]
	}
	if mod < traitModMin {
		return traitModMin
	}
	if mod > traitModMax {
		return traitModMax
	}
	return mod
}

// ReputationLabel maps a composite score to its public label.
func ReputationLabel(score int) string {
	switch {
	case score >= 85:
		return "Highly Trustworthy"
	case score >= 70:
		return "Trustworthy"
	case score >= 55:
		return "Reliable"
	case score >= 40:
		return "Unpredictable"
	case score >= 30:
		return "Untrustworthy"
	case score >= 20:
		return "Serial Deal Breaker"
	default:
		return "Notorious Backstabber"
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
