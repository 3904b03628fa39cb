// Endgame: the three-part final HoH, the last eviction, and the jury vote.
package engine

import (
	"context"
	"fmt"

	"github.com/talgya/housesim/internal/comps"
	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/house"
)

// SeasonOver reports whether the finale has crowned a winner.
func (s *Simulation) SeasonOver() bool {
	return s.WinnerID != 0
}

// runFinale advances the endgame: with three left it runs the final HoH and
// last eviction; with two left it runs the jury vote.
func (s *Simulation) runFinale(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	actives := s.ActiveHouseguests()
	switch len(actives) {
	case 3:
		return s.runFinalHoH(actives)
	case 2:
		return s.runJuryVote(actives)
	default:
		return fmt.Errorf("%w: finale with %d active houseguests", ErrNotEnoughHouseguests, len(actives))
	}
}

// runFinalHoH plays the classic three-part format: everyone in part one
// (endurance), the part-one losers in part two (skill), the two part winners
// in part three (mental). The final HoH then evicts one of the other two.
func (s *Simulation) runFinalHoH(finalists []*house.Houseguest) error {
	s.Phase = house.PhaseFinalHoH
	for _, hg := range finalists {
		hg.ClearWeeklyRoles()
	}

	part1, err := comps.RunEndurance(comps.Options{
		Category:     comps.AutoCategory(1, s.Rand),
		Participants: finalists,
		Week:         s.Week,
		Rand:         s.Rand,
	})
	if err != nil {
		return fmt.Errorf("final hoh part 1: %w", err)
	}

	var losers []*house.Houseguest
	for _, hg := range finalists {
		if hg.ID != part1.WinnerID {
			losers = append(losers, hg)
		}
	}
	part2, err := comps.Run(comps.Options{
		Category:     comps.AutoCategory(2, s.Rand),
		Participants: losers,
		Week:         s.Week,
		Rand:         s.Rand,
	})
	if err != nil {
		return fmt.Errorf("final hoh part 2: %w", err)
	}

	part3, err := comps.Run(comps.Options{
		Category:     comps.AutoCategory(3, s.Rand),
		Participants: []*house.Houseguest{s.Index[part1.WinnerID], s.Index[part2.WinnerID]},
		Week:         s.Week,
		Rand:         s.Rand,
	})
	if err != nil {
		return fmt.Errorf("final hoh part 3: %w", err)
	}

	finalHoH := s.Index[part3.WinnerID]
	finalHoH.IsHoH = true
	finalHoH.HoHWins++
	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s won the final HoH", finalHoH.Name),
		Category:    "competition",
		Meta:        map[string]any{"winner": finalHoH.ID},
	})

	// Final-two deals are on the line right now; surface them before the cut.
	var others []*house.Houseguest
	var otherIDs []house.HouseguestID
	for _, hg := range finalists {
		if hg.ID != finalHoH.ID {
			others = append(others, hg)
			otherIDs = append(otherIDs, hg.ID)
		}
	}
	for _, ob := range deals.CheckAll(s.Ledger, finalHoH.ID, house.PhaseFinalHoH, otherIDs) {
		s.emitObligation(finalHoH.ID, ob)
	}

	cut := DecideVote(finalHoH, others[0], others[1], s.view())
	s.settleFinalTwoDeals(finalHoH.ID, cut.Evict)
	s.evict(cut.Evict)
	s.updateStats()

	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s evicted %s, taking %s to the final two", finalHoH.Name, s.name(cut.Evict), s.name(otherNominee(otherIDs, cut.Evict))),
		Category:    "vote",
		Meta:        map[string]any{"evicted": cut.Evict},
	})
	return nil
}

// settleFinalTwoDeals resolves the final HoH's final_two promises at the cut:
// taking the partner fulfills, cutting them is the season's biggest betrayal.
func (s *Simulation) settleFinalTwoDeals(finalHoH, evicted house.HouseguestID) {
	for _, d := range s.Ledger {
		if d.Type != deals.TypeFinalTwo || !d.IsActive() || !d.Involves(finalHoH) {
			continue
		}
		if d.Partner(finalHoH) == evicted {
			s.breakDeal(d, finalHoH, "cut their final-two partner")
		} else {
			s.fulfillDeal(d, "took their final-two partner to the end")
		}
	}
}

// runJuryVote crowns the winner: each juror votes for the finalist with the
// higher relationship-plus-trust composite.
func (s *Simulation) runJuryVote(finalists []*house.Houseguest) error {
	s.Phase = house.PhaseFinale

	trustFn := func(subject, from house.HouseguestID) int {
		return s.TrustReport(subject, from).Score
	}

	tally := map[house.HouseguestID]int{}
	view := s.view()
	for _, juror := range s.Houseguests {
		if juror.Status != house.StatusJury {
			continue
		}
		vote := DecideJuryVote(juror, finalists, view, trustFn)
		tally[vote]++
		s.EmitEvent(Event{
			Week:        s.Week,
			Phase:       house.PhaseName(s.Phase),
			Description: fmt.Sprintf("%s voted for %s to win", juror.Name, s.name(vote)),
			Category:    "vote",
			Meta:        map[string]any{"juror": juror.ID, "vote": vote},
		})
	}

	winner := finalists[0]
	runnerUp := finalists[1]
	if tally[runnerUp.ID] > tally[winner.ID] ||
		(tally[runnerUp.ID] == tally[winner.ID] && runnerUp.ID < winner.ID) {
		winner, runnerUp = runnerUp, winner
	}

	s.WinnerID = winner.ID
	s.updateStats()
	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s won the season %d–%d over %s", winner.Name, tally[winner.ID], tally[runnerUp.ID], runnerUp.Name),
		Category:    "vote",
		Meta:        map[string]any{"winner": winner.ID, "tally": tally},
	})
	return nil
}
