package deals

import (
	"testing"

	"github.com/talgya/housesim/internal/house"
)

func activeDeal(typ Type, proposer, recipient house.HouseguestID) *Deal {
	d := New(typ, proposer, recipient, 1)
	d.Transition(StatusActive)
	return d
}

func TestCheckObligationSafetyAtNomination(t *testing.T) {
	d := activeDeal(TypeSafetyAgreement, 1, 2)

	ob := CheckObligation(d, house.PhaseNomination, 2, []house.HouseguestID{2, 3})
	if ob == nil {
		t.Fatal("nominating a protected partner should raise an obligation")
	}
	if ob.Severity != SeverityCritical {
		t.Errorf("severity = %s, want critical", ob.Severity)
	}
	if ob.Partner != 2 {
		t.Errorf("partner = %d, want 2", ob.Partner)
	}

	if ob := CheckObligation(d, house.PhaseNomination, 2, []house.HouseguestID{3, 4}); ob != nil {
		t.Errorf("partner off the block should raise nothing, got %+v", ob)
	}
}

func TestCheckObligationTargetAtNomination(t *testing.T) {
	target := house.HouseguestID(5)
	d := activeDeal(TypeTargetAgreement, 1, 2)
	d.TargetID = &target

	ob := CheckObligation(d, house.PhaseNomination, 2, []house.HouseguestID{3, 4})
	if ob == nil {
		t.Fatal("leaving the agreed target off the block should raise a warning")
	}
	if ob.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", ob.Severity)
	}

	if ob := CheckObligation(d, house.PhaseNomination, 2, []house.HouseguestID{5, 4}); ob != nil {
		t.Errorf("target on the block should raise nothing, got %+v", ob)
	}
}

func TestCheckObligationVetoAtMeeting(t *testing.T) {
	d := activeDeal(TypeVetoUse, 1, 2)

	ob := CheckObligation(d, house.PhasePovMeeting, 2, []house.HouseguestID{2, 3})
	if ob == nil || ob.Severity != SeverityCritical {
		t.Fatalf("nominated veto partner should be critical, got %+v", ob)
	}

	if ob := CheckObligation(d, house.PhasePovMeeting, 2, []house.HouseguestID{3, 4}); ob != nil {
		t.Errorf("partner not nominated should raise nothing, got %+v", ob)
	}
}

func TestCheckObligationVoteTogetherAtEviction(t *testing.T) {
	d := activeDeal(TypeVoteTogether, 1, 2)

	ob := CheckObligation(d, house.PhaseEviction, 2, nil)
	if ob == nil || ob.Severity != SeverityWarning {
		t.Fatalf("vote_together at eviction should be an unconditional warning, got %+v", ob)
	}
}

func TestCheckObligationFinalTwoAtFinalHoH(t *testing.T) {
	d := activeDeal(TypeFinalTwo, 1, 2)

	ob := CheckObligation(d, house.PhaseFinalHoH, 2, nil)
	if ob == nil || ob.Severity != SeverityCritical {
		t.Fatalf("final_two at final HoH should be critical, got %+v", ob)
	}
}

func TestCheckObligationInertCases(t *testing.T) {
	// Wrong phase for the deal type.
	if ob := CheckObligation(activeDeal(TypeSafetyAgreement, 1, 2), house.PhaseEviction, 2, []house.HouseguestID{2}); ob != nil {
		t.Errorf("safety at eviction: got %+v, want nil", ob)
	}
	// Types with no phase pairing at all.
	if ob := CheckObligation(activeDeal(TypePartnership, 1, 2), house.PhaseNomination, 2, []house.HouseguestID{2}); ob != nil {
		t.Errorf("partnership: got %+v, want nil", ob)
	}
	// Inactive deals never obligate.
	pending := New(TypeVoteTogether, 1, 2, 1)
	if ob := CheckObligation(pending, house.PhaseEviction, 2, nil); ob != nil {
		t.Errorf("pending deal: got %+v, want nil", ob)
	}
	if ob := CheckObligation(nil, house.PhaseEviction, 2, nil); ob != nil {
		t.Errorf("nil deal: got %+v, want nil", ob)
	}
}

func TestCheckObligationIsPure(t *testing.T) {
	d := activeDeal(TypeSafetyAgreement, 1, 2)
	CheckObligation(d, house.PhaseNomination, 2, []house.HouseguestID{2})

	if d.Status != StatusActive {
		t.Errorf("obligation check mutated deal status to %s", d.Status)
	}
}

func TestCheckAll(t *testing.T) {
	ledger := []*Deal{
		activeDeal(TypeSafetyAgreement, 1, 2),
		activeDeal(TypeVoteTogether, 1, 3),
		activeDeal(TypeSafetyAgreement, 4, 5), // Not the actor's deal
	}

	obs := CheckAll(ledger, 1, house.PhaseNomination, []house.HouseguestID{2, 3})
	if len(obs) != 1 {
		t.Fatalf("CheckAll = %d obligations, want 1", len(obs))
	}
	if obs[0].DealType != TypeSafetyAgreement || obs[0].Partner != 2 {
		t.Errorf("unexpected obligation: %+v", obs[0])
	}
}
