package deals

import (
	"errors"
	"testing"

	"github.com/talgya/housesim/internal/house"
)

func TestLifecycleHappyPath(t *testing.T) {
	d := New(TypeSafetyAgreement, 1, 2, 3)

	if d.Status != StatusPending {
		t.Fatalf("new deal status = %s, want pending", d.Status)
	}
	if d.Impact != ImpactHigh {
		t.Fatalf("safety agreement impact = %s, want high", d.Impact)
	}
	if d.ID == "" {
		t.Fatal("new deal has no ID")
	}

	if err := d.Transition(StatusActive); err != nil {
		t.Fatalf("pending→active: %v", err)
	}
	if !d.IsActive() {
		t.Error("IsActive() = false after activation")
	}
	if err := d.Transition(StatusFulfilled); err != nil {
		t.Fatalf("active→fulfilled: %v", err)
	}
	if !d.Terminal() {
		t.Error("Terminal() = false for fulfilled deal")
	}
}

func TestLifecycleTerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []Status{StatusFulfilled, StatusBroken, StatusExpired} {
		d := New(TypeVoteTogether, 1, 2, 1)
		d.Transition(StatusActive)
		if err := d.Transition(terminal); err != nil {
			t.Fatalf("active→%s: %v", terminal, err)
		}

		for _, next := range []Status{StatusPending, StatusActive, StatusFulfilled, StatusBroken, StatusExpired} {
			if err := d.Transition(next); !errors.Is(err, ErrTerminalState) {
				t.Errorf("%s→%s: got %v, want ErrTerminalState", terminal, next, err)
			}
		}
		if d.Status != terminal {
			t.Errorf("status mutated by rejected transition: %s", d.Status)
		}
	}
}

func TestLifecycleRejectsSkips(t *testing.T) {
	d := New(TypeFinalTwo, 1, 2, 1)

	for _, next := range []Status{StatusFulfilled, StatusBroken, StatusPending} {
		if err := d.Transition(next); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("pending→%s: got %v, want ErrInvalidTransition", next, err)
		}
	}
	if d.Status != StatusPending {
		t.Errorf("status mutated by rejected transition: %s", d.Status)
	}
}

func TestPendingCanExpire(t *testing.T) {
	d := New(TypePartnership, 1, 2, 1)
	if err := d.Transition(StatusExpired); err != nil {
		t.Fatalf("pending→expired: %v", err)
	}
}

func TestInvolvesAndPartner(t *testing.T) {
	d := New(TypeTargetAgreement, 4, 7, 2)

	if !d.Involves(4) || !d.Involves(7) || d.Involves(5) {
		t.Error("Involves misreported parties")
	}
	if got := d.Partner(4); got != 7 {
		t.Errorf("Partner(4) = %d, want 7", got)
	}
	if got := d.Partner(7); got != 4 {
		t.Errorf("Partner(7) = %d, want 4", got)
	}
}

func TestActiveBetween(t *testing.T) {
	d := New(TypeFinalTwo, 1, 2, 1)
	ledger := []*Deal{d}

	if ActiveBetween(ledger, TypeFinalTwo, 1, 2) {
		t.Error("pending deal counted as active")
	}
	d.Transition(StatusActive)
	if !ActiveBetween(ledger, TypeFinalTwo, 2, 1) {
		t.Error("ActiveBetween should match either direction")
	}
	if ActiveBetween(ledger, TypeVoteTogether, 1, 2) {
		t.Error("ActiveBetween matched wrong type")
	}
	if ActiveBetween(ledger, TypeFinalTwo, 1, 3) {
		t.Error("ActiveBetween matched wrong pair")
	}
}

func TestBreakDeltasExceedFulfillDeltas(t *testing.T) {
	for _, impact := range []Impact{ImpactMinor, ImpactMedium, ImpactHigh, ImpactCritical} {
		if BreakTrustDelta[impact] <= FulfillTrustDelta[impact] {
			t.Errorf("%s: break delta %v should exceed fulfill delta %v",
				impact, BreakTrustDelta[impact], FulfillTrustDelta[impact])
		}
	}
}

func TestEveryTypeHasAnImpactClass(t *testing.T) {
	types := []Type{
		TypeTargetAgreement, TypeSafetyAgreement, TypeVoteTogether, TypeVetoUse,
		TypeInformationSharing, TypeFinalTwo, TypePartnership, TypeAllianceInvite,
	}
	for _, typ := range types {
		if _, ok := ImpactForType[typ]; !ok {
			t.Errorf("type %s has no impact class", typ)
		}
	}
	if ImpactForType[TypeFinalTwo] != ImpactCritical {
		t.Errorf("final_two impact = %s, want critical", ImpactForType[TypeFinalTwo])
	}
}

func TestTargetID(t *testing.T) {
	target := house.HouseguestID(9)
	d := New(TypeTargetAgreement, 1, 2, 1)
	d.TargetID = &target

	if d.TargetID == nil || *d.TargetID != 9 {
		t.Errorf("TargetID = %v, want 9", d.TargetID)
	}
}
