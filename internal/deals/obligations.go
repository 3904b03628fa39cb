// Obligation checks: advisory warnings that an upcoming action would violate
// an active deal. Checks never mutate deal or relationship state.
package deals

import (
	"fmt"

	"github.com/talgya/housesim/internal/house"
)

// Severity grades how badly an action would violate the deal.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Obligation is an advisory record surfaced before an action commits. It never
// blocks the action.
type Obligation struct {
	DealID   string             `json:"deal_id"`
	DealType Type               `json:"deal_type"`
	Phase    house.Phase        `json:"phase"`
	Partner  house.HouseguestID `json:"partner"`
	Severity Severity           `json:"severity"`
	Message  string             `json:"message"`
}

// CheckObligation evaluates one deal against the upcoming phase from the
// perspective of the acting houseguest. partner is the other party;
// potentialTargets lists houseguests the action would put at risk (nominees,
// vote targets). Returns nil when no deal-type/phase pairing applies.
func CheckObligation(deal *Deal, phase house.Phase, partner house.HouseguestID, potentialTargets []house.HouseguestID) *Obligation {
	if deal == nil || !deal.IsActive() {
		return nil
	}

	contains := func(id house.HouseguestID) bool {
		for _, t := range potentialTargets {
			if t == id {
				return true
			}
		}
		return false
	}

	switch {
	case deal.Type == TypeSafetyAgreement && phase == house.PhaseNomination:
		if contains(partner) {
			return &Obligation{
				DealID:   deal.ID,
				DealType: deal.Type,
				Phase:    phase,
				Partner:  partner,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("nominating houseguest %d breaks your safety agreement", partner),
			}
		}

	case deal.Type == TypeTargetAgreement && phase == house.PhaseNomination:
		if deal.TargetID != nil && !contains(*deal.TargetID) {
			return &Obligation{
				DealID:   deal.ID,
				DealType: deal.Type,
				Phase:    phase,
				Partner:  partner,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("you agreed to target houseguest %d, who is not among the nominees", *deal.TargetID),
			}
		}

	case deal.Type == TypeVetoUse && phase == house.PhasePovMeeting:
		if contains(partner) {
			return &Obligation{
				DealID:   deal.ID,
				DealType: deal.Type,
				Phase:    phase,
				Partner:  partner,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("houseguest %d is nominated and you promised them the veto", partner),
			}
		}

	case deal.Type == TypeVoteTogether && phase == house.PhaseEviction:
		return &Obligation{
			DealID:   deal.ID,
			DealType: deal.Type,
			Phase:    phase,
			Partner:  partner,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("you agreed to vote with houseguest %d this eviction", partner),
		}

	case deal.Type == TypeFinalTwo && phase == house.PhaseFinalHoH:
		return &Obligation{
			DealID:   deal.ID,
			DealType: deal.Type,
			Phase:    phase,
			Partner:  partner,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("your final-two deal with houseguest %d is on the line", partner),
		}
	}

	return nil
}

// CheckAll runs CheckObligation over a houseguest's active deals and collects
// the warnings that apply to the phase.
func CheckAll(ledger []*Deal, actor house.HouseguestID, phase house.Phase, potentialTargets []house.HouseguestID) []*Obligation {
	var out []*Obligation
	for _, d := range ledger {
		if !d.Involves(actor) {
			continue
		}
		if ob := CheckObligation(d, phase, d.Partner(actor), potentialTargets); ob != nil {
			out = append(out, ob)
		}
	}
	return out
}
