// NPC proposal generation: each social phase, houseguests with a warm enough
// read on the player pitch deals. Volume is capped and variety-preferred so the
// player is never flooded.
package deals

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/housesim/internal/house"
)

// Response tracks the player's answer to a proposal.
type Response string

const (
	ResponsePending  Response = "pending"
	ResponseAccepted Response = "accepted"
	ResponseRejected Response = "rejected"
)

// Proposal is an ephemeral NPC-initiated deal offer surfaced to the player.
type Proposal struct {
	ID        string             `json:"id"`
	Deal      *Deal              `json:"deal"`
	From      house.HouseguestID `json:"from"`
	Reasoning string             `json:"reasoning"`
	CreatedAt time.Time          `json:"created_at"`
	Response  Response           `json:"response"`
}

// View is the game-state slice proposal generation reads. A zero View (nil
// funcs, empty slices) degrades to an empty proposal list, never a panic.
type View struct {
	PlayerID     house.HouseguestID
	Active       []*house.Houseguest // Active houseguests, player included
	Relationship func(a, b house.HouseguestID) float64
	Allied       func(a, b house.HouseguestID) bool
	Ledger       []*Deal
	Week         int
}

// Proposal-gating relationship thresholds, in rule order.
const (
	minRelToConsider   = 10.0
	minRelVoteTogether = 15.0
	minRelTarget       = 25.0
	minRelSafety       = 35.0
	minRelPartnership  = 40.0
	minRelFinalTwo     = 55.0
	minRelInfoShare    = 30.0

	finalTwoMaxActive = 6

	// vote_together offers are time-critical; they jump the queue.
	voteTogetherUrgency = 100.0
)

type candidate struct {
	proposal *Proposal
	key      float64 // relationship-to-player + urgency bonus
}

// Generate builds this phase's NPC→player proposals: evaluate every NPC's rule
// list, rank by warmth plus urgency, then greedily select with variety
// (one deal type and one proposing NPC each, up to the cap).
func Generate(view View) []*Proposal {
	if view.Relationship == nil || len(view.Active) == 0 {
		return nil
	}

	names := make(map[house.HouseguestID]string, len(view.Active))
	playerIsHoH := false
	for _, hg := range view.Active {
		names[hg.ID] = hg.Name
		if hg.ID == view.PlayerID && hg.IsHoH {
			playerIsHoH = true
		}
	}

	allied := view.Allied
	if allied == nil {
		allied = func(a, b house.HouseguestID) bool { return false }
	}

	var candidates []candidate
	add := func(npc *house.Houseguest, t Type, rel, urgency float64, target *house.HouseguestID, reasoning string) {
		d := New(t, npc.ID, view.PlayerID, view.Week)
		d.TargetID = target
		candidates = append(candidates, candidate{
			proposal: &Proposal{
				ID:        uuid.NewString(),
				Deal:      d,
				From:      npc.ID,
				Reasoning: reasoning,
				CreatedAt: time.Now().UTC(),
				Response:  ResponsePending,
			},
			key: rel + urgency,
		})
	}

	for _, npc := range view.Active {
		if npc.ID == view.PlayerID || npc.IsPlayer || !npc.IsActive() {
			continue
		}
		rel := view.Relationship(npc.ID, view.PlayerID)
		if rel < minRelToConsider {
			continue
		}
		isAllied := allied(npc.ID, view.PlayerID)

		if npc.IsNominated && rel > minRelVoteTogether {
			add(npc, TypeVoteTogether, rel, voteTogetherUrgency, nil,
				fmt.Sprintf("%s is on the block and needs your vote: \"Stick with me this week and I won't forget it.\"", npc.Name))
		}

		if threat := commonThreat(view, npc); threat != 0 && rel > minRelTarget {
			target := threat
			add(npc, TypeTargetAgreement, rel, 0, &target,
				fmt.Sprintf("%s sees a shared problem: \"%s is coming for both of us. Let's get them out first.\"", npc.Name, names[threat]))
		}

		if rel > minRelSafety && !isAllied && playerIsHoH {
			add(npc, TypeSafetyAgreement, rel, 0, nil,
				fmt.Sprintf("%s wants off your radar: \"Keep me safe this week and I'll owe you one.\"", npc.Name))
		}

		if rel > minRelPartnership && !isAllied {
			add(npc, TypePartnership, rel, 0, nil,
				fmt.Sprintf("%s wants to team up: \"We work well together. Let's watch each other's backs from here on.\"", npc.Name))
		}

		if rel > minRelFinalTwo && len(view.Active) <= finalTwoMaxActive &&
			!ActiveBetween(view.Ledger, TypeFinalTwo, npc.ID, view.PlayerID) {
			add(npc, TypeFinalTwo, rel, 0, nil,
				fmt.Sprintf("%s is thinking endgame: \"You and me, final two. I mean it.\"", npc.Name))
		}

		if (npc.HasTrait(house.TraitSneaky) || npc.HasTrait(house.TraitStrategic)) && rel > minRelInfoShare {
			add(npc, TypeInformationSharing, rel, 0, nil,
				fmt.Sprintf("%s offers intel: \"I hear everything in this house. Share what you know and I'll do the same.\"", npc.Name))
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].key != candidates[j].key {
			return candidates[i].key > candidates[j].key
		}
		if candidates[i].proposal.From != candidates[j].proposal.From {
			return candidates[i].proposal.From < candidates[j].proposal.From
		}
		return candidates[i].proposal.Deal.Type < candidates[j].proposal.Deal.Type
	})

	limit := len(candidates) / 2
	if limit < 1 {
		limit = 1
	}
	if limit > 3 {
		limit = 3
	}

	usedType := make(map[Type]bool)
	usedFrom := make(map[house.HouseguestID]bool)
	var selected []*Proposal
	for _, c := range candidates {
		if len(selected) >= limit {
			break
		}
		t := c.proposal.Deal.Type
		if len(selected) > 0 && (usedType[t] || usedFrom[c.proposal.From]) {
			continue
		}
		selected = append(selected, c.proposal)
		usedType[t] = true
		usedFrom[c.proposal.From] = true
	}
	return selected
}

// commonThreat scans for a houseguest both parties want gone: someone with a
// negative relationship to both, or a 2+-competition-win threat with a cold
// (sub-20) relationship to either party. Scans in slice order; returns 0 when
// no threat is found.
func commonThreat(view View, npc *house.Houseguest) house.HouseguestID {
	for _, other := range view.Active {
		if other.ID == npc.ID || other.ID == view.PlayerID || !other.IsActive() {
			continue
		}
		toNPC := view.Relationship(other.ID, npc.ID)
		toPlayer := view.Relationship(other.ID, view.PlayerID)
		if toNPC < 0 && toPlayer < 0 {
			return other.ID
		}
		if other.CompetitionWins() >= 2 && (toNPC < 20 || toPlayer < 20) {
			return other.ID
		}
	}
	return 0
}
