package social

import (
	"testing"

	"github.com/talgya/housesim/internal/house"
)

func TestTierForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Tier
	}{
		{-100, TierEnemy},
		{-51, TierEnemy},
		{-50, TierRival},
		{-21, TierRival},
		{-20, TierStranger},
		{0, TierStranger},
		{24, TierStranger},
		{25, TierAcquaintance},
		{49, TierAcquaintance},
		{50, TierFriend},
		{74, TierFriend},
		{75, TierCloseFriend},
		{89, TierCloseFriend},
		{90, TierAlly},
		{100, TierAlly},
	}
	for _, c := range cases {
		if got := TierForScore(c.score); got != c.want {
			t.Errorf("TierForScore(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestCrossedMilestone(t *testing.T) {
	cases := []struct {
		old, new, want float64
	}{
		{20, 30, 25},
		{20, 80, 75},  // Highest threshold crossed wins
		{25, 30, 0},   // old == threshold is not a crossing
		{24, 25, 25},  // new == threshold is
		{30, 20, 0},   // Downward moves never cross
		{80, 90, 0},
		{-10, 10, 0},
	}
	for _, c := range cases {
		if got := CrossedMilestone(c.old, c.new); got != c.want {
			t.Errorf("CrossedMilestone(%v, %v) = %v, want %v", c.old, c.new, got, c.want)
		}
	}
}

func TestRelationshipStoreSymmetric(t *testing.T) {
	rs := NewRelationshipStore()
	rs.Set(2, 1, 40)

	if got := rs.Get(1, 2); got != 40 {
		t.Errorf("Get(1,2) = %v, want 40", got)
	}
	if got := rs.Get(2, 1); got != 40 {
		t.Errorf("Get(2,1) = %v, want 40", got)
	}

	rs.Adjust(1, 2, -15)
	if a, b := rs.Get(1, 2), rs.Get(2, 1); a != b || a != 25 {
		t.Errorf("after adjust: Get(1,2)=%v Get(2,1)=%v, want both 25", a, b)
	}
}

func TestRelationshipStoreClamps(t *testing.T) {
	rs := NewRelationshipStore()

	rs.Set(1, 2, 500)
	if got := rs.Get(1, 2); got != MaxScore {
		t.Errorf("Set above max: got %v, want %v", got, MaxScore)
	}

	old, now := rs.Adjust(1, 2, -1000)
	if old != MaxScore || now != MinScore {
		t.Errorf("Adjust through floor: got (%v, %v), want (%v, %v)", old, now, MaxScore, MinScore)
	}
}

func TestRelationshipStoreUnknownPairIsZero(t *testing.T) {
	rs := NewRelationshipStore()
	if got := rs.Get(5, 9); got != 0 {
		t.Errorf("unknown pair score = %v, want 0", got)
	}
}

func TestRelationshipStoreEvents(t *testing.T) {
	rs := NewRelationshipStore()
	rs.AddEvent(3, 1, RelationshipEvent{Week: 2, Kind: EventBetrayal, Impact: -20})
	rs.AddEvent(1, 3, RelationshipEvent{Week: 3, Kind: EventPromiseKept, Impact: 10})
	rs.AddEvent(1, 2, RelationshipEvent{Week: 3, Kind: EventConversation, Impact: 5})

	if got := len(rs.Events(1, 3)); got != 2 {
		t.Errorf("Events(1,3) = %d entries, want 2 (both directions share the edge)", got)
	}
	if got := len(rs.EventsInvolving(1)); got != 3 {
		t.Errorf("EventsInvolving(1) = %d entries, want 3", got)
	}
	if got := len(rs.EventsInvolving(2)); got != 1 {
		t.Errorf("EventsInvolving(2) = %d entries, want 1", got)
	}
}

func TestPairsSortedCanonical(t *testing.T) {
	rs := NewRelationshipStore()
	rs.Set(9, 4, 10)
	rs.Set(2, 1, 20)
	rs.Set(4, 2, 30)

	pairs := rs.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("Pairs() = %d entries, want 3", len(pairs))
	}
	for i, p := range pairs {
		if p.A > p.B {
			t.Errorf("pair %d not canonical: (%d, %d)", i, p.A, p.B)
		}
		if i > 0 {
			prev := pairs[i-1]
			if prev.A > p.A || (prev.A == p.A && prev.B > p.B) {
				t.Errorf("pairs out of order at %d: %+v before %+v", i, prev, p)
			}
		}
	}
}

func TestRestoreClamps(t *testing.T) {
	rs := NewRelationshipStore()
	rs.Restore(1, 2, Relationship{Score: 250})
	if got := rs.Get(1, 2); got != MaxScore {
		t.Errorf("Restore did not clamp: got %v, want %v", got, MaxScore)
	}
}

func TestAlliance(t *testing.T) {
	al := &Alliance{
		ID:      1,
		Name:    "The Iron Pact",
		Members: []house.HouseguestID{1, 3},
		Status:  AllianceActive,
	}

	if !al.Contains(3) || al.Contains(2) {
		t.Error("Contains misreported membership")
	}

	ledger := []*Alliance{al}
	if !Allied(ledger, 1, 3) {
		t.Error("Allied(1,3) = false, want true")
	}
	if Allied(ledger, 1, 2) {
		t.Error("Allied(1,2) = true, want false")
	}

	breaker := house.HouseguestID(3)
	al.Dissolve(&breaker)
	if al.Status != AllianceDissolved {
		t.Errorf("status after Dissolve = %s, want dissolved", al.Status)
	}
	if al.BrokenBy == nil || *al.BrokenBy != 3 {
		t.Errorf("BrokenBy = %v, want 3", al.BrokenBy)
	}
	if Allied(ledger, 1, 3) {
		t.Error("dissolved alliance still counts as allied")
	}
}
