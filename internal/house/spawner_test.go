package house

import (
	"reflect"
	"testing"
)

func TestSpawnCastDeterministic(t *testing.T) {
	a := NewSpawner(42).SpawnCast(12)
	b := NewSpawner(42).SpawnCast(12)

	if len(a) != 12 || len(b) != 12 {
		t.Fatalf("cast sizes: got %d and %d, want 12", len(a), len(b))
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			t.Fatalf("cast diverged at slot %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSpawnCastDifferentSeedsDiffer(t *testing.T) {
	a := NewSpawner(1).SpawnCast(12)
	b := NewSpawner(2).SpawnCast(12)

	same := true
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Stats != b[i].Stats {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical casts")
	}
}

func TestSpawnCastShape(t *testing.T) {
	cast := NewSpawner(7).SpawnCast(16)

	if !cast[0].IsPlayer {
		t.Error("first houseguest should hold the player seat")
	}
	seen := map[HouseguestID]bool{}
	for _, hg := range cast {
		if seen[hg.ID] {
			t.Fatalf("duplicate houseguest ID %d", hg.ID)
		}
		seen[hg.ID] = true

		if hg.Status != StatusActive {
			t.Errorf("%s spawned with status %v, want active", hg.Name, hg.Status)
		}
		if hg.Name == "" {
			t.Errorf("houseguest %d has no name", hg.ID)
		}

		stats := []int{
			hg.Stats.Physical, hg.Stats.Mental, hg.Stats.Endurance, hg.Stats.Social,
			hg.Stats.Loyalty, hg.Stats.Strategic, hg.Stats.Luck, hg.Stats.Competition,
		}
		for _, v := range stats {
			if v < 1 || v > 10 {
				t.Errorf("%s has out-of-range stat %d", hg.Name, v)
			}
		}

		if n := len(hg.Traits); n < 2 || n > 3 {
			t.Errorf("%s has %d traits, want 2 or 3", hg.Name, n)
		}
		traitSeen := map[Trait]bool{}
		for _, tr := range hg.Traits {
			if traitSeen[tr] {
				t.Errorf("%s has duplicate trait %s", hg.Name, tr)
			}
			traitSeen[tr] = true
		}
	}
}

func TestClearWeeklyRoles(t *testing.T) {
	hg := &Houseguest{ID: 1, IsHoH: true, IsNominated: true, IsPovHolder: true, IsPlayer: true}
	hg.ClearWeeklyRoles()

	if hg.IsHoH || hg.IsNominated || hg.IsPovHolder {
		t.Errorf("weekly roles survived reset: %+v", hg)
	}
	if !hg.IsPlayer {
		t.Error("player seat is not a weekly role and must survive reset")
	}
}

func TestCompetitionWins(t *testing.T) {
	hg := &Houseguest{HoHWins: 2, PovWins: 1}
	if got := hg.CompetitionWins(); got != 3 {
		t.Errorf("CompetitionWins = %d, want 3", got)
	}
}
