package trust

import (
	"testing"

	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

func TestNilAggregatorIsNeutral(t *testing.T) {
	var a *Aggregator
	got := a.Compute(1, 0)

	if got.Score != 50 {
		t.Errorf("nil aggregator score = %d, want 50", got.Score)
	}
	if got.Reputation != "Unpredictable" {
		t.Errorf("nil aggregator reputation = %q, want Unpredictable", got.Reputation)
	}

	empty := NewAggregator(nil).Compute(1, 0)
	if empty.Score != 50 {
		t.Errorf("nil snapshot score = %d, want 50", empty.Score)
	}
}

func TestEmptySnapshotIsNeutral(t *testing.T) {
	got := NewAggregator(&Snapshot{}).Compute(1, 0)
	if got.Score != 50 {
		t.Errorf("empty snapshot score = %d, want 50", got.Score)
	}
	f := got.Factors
	if f.DealHistory != 50 || f.Interactions != 50 || f.AllianceLoyalty != 50 || f.TraitModifier != 0 {
		t.Errorf("empty snapshot factors = %+v, want all neutral", f)
	}
}

func settledDeal(typ deals.Type, a, b house.HouseguestID, final deals.Status) *deals.Deal {
	d := deals.New(typ, a, b, 1)
	d.Transition(deals.StatusActive)
	d.Transition(final)
	return d
}

func TestDealHistoryMovesScore(t *testing.T) {
	honored := NewAggregator(&Snapshot{
		Ledger: []*deals.Deal{
			settledDeal(deals.TypeFinalTwo, 1, 2, deals.StatusFulfilled),
			settledDeal(deals.TypeSafetyAgreement, 1, 3, deals.StatusFulfilled),
		},
	}).Compute(1, 0)
	if honored.Score <= 50 {
		t.Errorf("fulfilled deals should raise trust: got %d", honored.Score)
	}

	broken := NewAggregator(&Snapshot{
		Ledger: []*deals.Deal{
			settledDeal(deals.TypeFinalTwo, 1, 2, deals.StatusBroken),
		},
	}).Compute(1, 0)
	if broken.Score >= 50 {
		t.Errorf("broken deals should lower trust: got %d", broken.Score)
	}

	// Breaking costs more than honoring pays at equal impact.
	if 50-broken.Score <= honored.Score-50 {
		t.Errorf("asymmetry lost: broken moved %d, honored moved %d", 50-broken.Score, honored.Score-50)
	}

	// Bystanders are untouched.
	bystander := NewAggregator(&Snapshot{
		Ledger: []*deals.Deal{settledDeal(deals.TypeFinalTwo, 2, 3, deals.StatusBroken)},
	}).Compute(1, 0)
	if bystander.Score != 50 {
		t.Errorf("uninvolved subject moved to %d, want 50", bystander.Score)
	}
}

func TestInteractionHistory(t *testing.T) {
	rs := social.NewRelationshipStore()
	rs.AddEvent(1, 2, social.RelationshipEvent{Week: 1, Kind: social.EventBetrayal, Impact: -20})
	rs.AddEvent(1, 3, social.RelationshipEvent{Week: 2, Kind: social.EventPromiseKept, Impact: 10})

	agg := NewAggregator(&Snapshot{Relationships: rs})

	pairView := agg.Compute(1, 2)
	houseView := agg.Compute(1, 0)

	if pairView.Factors.Interactions != 35 {
		t.Errorf("pair interactions = %v, want 35 (50 - 15 betrayal)", pairView.Factors.Interactions)
	}
	if houseView.Factors.Interactions != 45 {
		t.Errorf("house interactions = %v, want 45 (50 - 15 + 10)", houseView.Factors.Interactions)
	}
}

type fixedProvider struct{ v float64 }

func (p fixedProvider) PairTrust(subject, from house.HouseguestID) (float64, bool) {
	return p.v, true
}

func TestInteractionProviderOverrides(t *testing.T) {
	rs := social.NewRelationshipStore()
	rs.AddEvent(1, 2, social.RelationshipEvent{Week: 1, Kind: social.EventBetrayal, Impact: -20})

	agg := NewAggregator(&Snapshot{Relationships: rs, Interactions: fixedProvider{v: 90}})

	got := agg.Compute(1, 2)
	if got.Factors.Interactions != 90 {
		t.Errorf("provider-backed interactions = %v, want 90", got.Factors.Interactions)
	}

	// House-wide queries bypass the pair provider.
	wide := agg.Compute(1, 0)
	if wide.Factors.Interactions != 35 {
		t.Errorf("house-wide interactions = %v, want 35", wide.Factors.Interactions)
	}
}

func TestAllianceFactor(t *testing.T) {
	me := house.HouseguestID(1)

	loyal := NewAggregator(&Snapshot{
		Alliances: []*social.Alliance{
			{ID: 1, Members: []house.HouseguestID{1, 2}, Stability: 80, Status: social.AllianceActive},
		},
	}).Compute(me, 0)
	if loyal.Factors.AllianceLoyalty != 74 {
		t.Errorf("active alliance loyalty = %v, want 74 (50 + 0.3*80)", loyal.Factors.AllianceLoyalty)
	}

	breaker := me
	turncoat := NewAggregator(&Snapshot{
		Alliances: []*social.Alliance{
			{ID: 1, Members: []house.HouseguestID{1, 2}, Status: social.AllianceDissolved, BrokenBy: &breaker},
			{ID: 2, Members: []house.HouseguestID{1, 3}, Status: social.AllianceDissolved, BrokenBy: &breaker},
		},
	}).Compute(me, 0)
	if turncoat.Factors.AllianceLoyalty != 10 {
		t.Errorf("double breaker loyalty = %v, want 10 (50 - 2*20)", turncoat.Factors.AllianceLoyalty)
	}
}

func TestTraitModifierClamped(t *testing.T) {
	lookup := func(id house.HouseguestID) *house.Houseguest {
		return &house.Houseguest{
			ID: id,
			// Sums to -22, past the floor.
			Traits: []house.Trait{house.TraitSneaky, house.TraitFloater, house.TraitStrategic, house.TraitAnalytical},
		}
	}
	got := NewAggregator(&Snapshot{Lookup: lookup}).Compute(1, 0)
	if got.Factors.TraitModifier != -20 {
		t.Errorf("trait modifier = %v, want clamped -20", got.Factors.TraitModifier)
	}
}

func TestTraitOverridesReplaceDefaults(t *testing.T) {
	lookup := func(id house.HouseguestID) *house.Houseguest {
		return &house.Houseguest{ID: id, Traits: []house.Trait{house.TraitLoyal, house.TraitSneaky}}
	}

	stock := NewAggregator(&Snapshot{Lookup: lookup}).Compute(1, 0)
	if stock.Factors.TraitModifier != 5 {
		t.Fatalf("built-in modifier = %v, want 5 (15 - 10)", stock.Factors.TraitModifier)
	}

	// Overriding one trait leaves the other at its built-in delta.
	tuned := NewAggregator(&Snapshot{
		Lookup:         lookup,
		TraitOverrides: map[house.Trait]float64{house.TraitLoyal: -5},
	}).Compute(1, 0)
	if tuned.Factors.TraitModifier != -15 {
		t.Errorf("tuned modifier = %v, want -15 (-5 - 10)", tuned.Factors.TraitModifier)
	}
	if tuned.Score >= stock.Score {
		t.Errorf("override should lower the score: tuned %d, stock %d", tuned.Score, stock.Score)
	}
}

func TestScoreStaysInBounds(t *testing.T) {
	// Stack every negative signal at once.
	breaker := house.HouseguestID(1)
	ledger := make([]*deals.Deal, 0, 20)
	for i := 0; i < 20; i++ {
		ledger = append(ledger, settledDeal(deals.TypeFinalTwo, 1, 2, deals.StatusBroken))
	}
	rs := social.NewRelationshipStore()
	for i := 0; i < 20; i++ {
		rs.AddEvent(1, 2, social.RelationshipEvent{Week: i, Kind: social.EventBetrayal, Impact: -30})
	}

	got := NewAggregator(&Snapshot{
		Ledger:        ledger,
		Relationships: rs,
		Alliances: []*social.Alliance{
			{ID: 1, Members: []house.HouseguestID{1, 2}, Status: social.AllianceDissolved, BrokenBy: &breaker},
		},
		Lookup: func(id house.HouseguestID) *house.Houseguest {
			return &house.Houseguest{ID: id, Traits: []house.Trait{house.TraitSneaky, house.TraitFloater, house.TraitStrategic}}
		},
	}).Compute(1, 0)

	if got.Score < 0 || got.Score > 100 {
		t.Fatalf("score %d out of [0, 100]", got.Score)
	}
	if got.Score >= 50 {
		t.Errorf("score %d should be deep in backstabber territory", got.Score)
	}
	if got.Reputation != ReputationLabel(got.Score) {
		t.Errorf("reputation %q does not match label for %d", got.Reputation, got.Score)
	}
}

func TestReputationLabels(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Highly Trustworthy"},
		{85, "Highly Trustworthy"},
		{84, "Trustworthy"},
		{70, "Trustworthy"},
		{69, "Reliable"},
		{55, "Reliable"},
		{54, "Unpredictable"},
		{40, "Unpredictable"},
		{39, "Untrustworthy"},
		{30, "Untrustworthy"},
		{29, "Serial Deal Breaker"},
		{20, "Serial Deal Breaker"},
		{19, "Notorious Backstabber"},
		{0, "Notorious Backstabber"},
	}
	for _, c := range cases {
		if got := ReputationLabel(c.score); got != c.want {
			t.Errorf("ReputationLabel(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestComputeIsReadOnly(t *testing.T) {
	d := settledDeal(deals.TypeVoteTogether, 1, 2, deals.StatusFulfilled)
	rs := social.NewRelationshipStore()
	rs.Set(1, 2, 30)

	agg := NewAggregator(&Snapshot{Ledger: []*deals.Deal{d}, Relationships: rs})
	agg.Compute(1, 2)
	agg.Compute(1, 0)

	if d.Status != deals.StatusFulfilled {
		t.Errorf("compute mutated deal status: %s", d.Status)
	}
	if rs.Get(1, 2) != 30 {
		t.Errorf("compute mutated relationship: %v", rs.Get(1, 2))
	}
}
