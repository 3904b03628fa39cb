// Deal settlement: where promises meet the vote. The engine fulfills or
// breaks deals as the week's actions land, applying trust-bearing relationship
// deltas and history events.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

// breakSafetyDeals breaks any active safety agreement between the nominating
// HoH and the houseguest they just put on the block.
func (s *Simulation) breakSafetyDeals(hoh, nominee house.HouseguestID) {
	for _, d := range s.Ledger {
		if d.Type != deals.TypeSafetyAgreement || !d.IsActive() {
			continue
		}
		if !d.Involves(hoh) || !d.Involves(nominee) {
			continue
		}
		s.breakDeal(d, hoh, "nominated a protected partner")
	}
}

// settleVetoDeals resolves veto_use promises at the PoV meeting: saving the
// partner fulfills, leaving a promised partner on the block breaks.
func (s *Simulation) settleVetoDeals(holder house.HouseguestID, nominees []house.HouseguestID, decision VetoDecision) {
	nominated := func(id house.HouseguestID) bool {
		for _, n := range nominees {
			if n == id {
				return true
			}
		}
		return false
	}

	for _, d := range s.Ledger {
		if d.Type != deals.TypeVetoUse || !d.IsActive() || !d.Involves(holder) {
			continue
		}
		partner := d.Partner(holder)
		if !nominated(partner) {
			continue
		}
		if decision.Use && decision.SavedID == partner {
			s.fulfillDeal(d, "kept the veto promise")
		} else {
			s.breakDeal(d, holder, "left a promised partner on the block")
		}
	}
}

// settleVoteDeals resolves vote_together deals after the votes land: partners
// who voted the same way fulfill, partners who split break.
func (s *Simulation) settleVoteDeals(votes map[house.HouseguestID]house.HouseguestID) {
	for _, d := range s.Ledger {
		if d.Type != deals.TypeVoteTogether || !d.IsActive() {
			continue
		}
		voteA, okA := votes[d.Proposer]
		voteB, okB := votes[d.Recipient]
		if !okA || !okB {
			continue // One side didn't vote this week (HoH or nominated)
		}
		if voteA == voteB {
			s.fulfillDeal(d, "voted together")
		} else {
			// The proposer carried the obligation; a split is on them.
			s.breakDeal(d, d.Proposer, "split the vote")
		}
	}
}

// settleDeals runs end-of-week maintenance: fulfilled target agreements and
// deals that quietly ran their full term.
func (s *Simulation) settleDeals(rec WeekRecord) {
	for _, d := range s.Ledger {
		if !d.IsActive() {
			continue
		}

		if d.Type == deals.TypeTargetAgreement && d.TargetID != nil && *d.TargetID == rec.EvictedID {
			s.fulfillDeal(d, "the agreed target went home")
			continue
		}

		// final_two deals ride to the end of the season.
		if d.Type == deals.TypeFinalTwo {
			continue
		}

		if s.Week-d.Week >= s.Tuning.DealLifetimeWeeks {
			s.fulfillDeal(d, "held for its full term")
		}
	}
}

func (s *Simulation) fulfillDeal(d *deals.Deal, note string) {
	if err := d.Transition(deals.StatusFulfilled); err != nil {
		slog.Warn("deal fulfillment failed", "deal", d.ID, "error", err)
		return
	}
	s.applyDelta(RelationshipDelta{
		A: d.Proposer, B: d.Recipient,
		Delta: deals.FulfillTrustDelta[d.Impact],
		Kind:  social.EventDealFulfilled,
		Note:  note,
	})
	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s and %s honored their %s deal", s.name(d.Proposer), s.name(d.Recipient), d.Type),
		Category:    "deal",
		Meta:        map[string]any{"deal_id": d.ID, "type": d.Type},
	})
}

func (s *Simulation) breakDeal(d *deals.Deal, breaker house.HouseguestID, note string) {
	if err := d.Transition(deals.StatusBroken); err != nil {
		slog.Warn("deal breakage failed", "deal", d.ID, "error", err)
		return
	}
	s.applyDelta(RelationshipDelta{
		A: d.Proposer, B: d.Recipient,
		Delta: -deals.BreakTrustDelta[d.Impact],
		Kind:  social.EventBetrayal,
		Note:  note,
	})
	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s broke the %s deal with %s", s.name(breaker), d.Type, s.name(d.Partner(breaker))),
		Category:    "deal",
		Meta:        map[string]any{"deal_id": d.ID, "type": d.Type, "breaker": breaker},
	})
}
