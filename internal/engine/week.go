// Weekly cycle: HoH competition, nominations, veto, social phase, eviction.
// Each phase computes decisions through the pure functions in decisions.go and
// applies the results here, on the single writer goroutine.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/housesim/internal/comps"
	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/entropy"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

// view builds the DecisionView over current state.
func (s *Simulation) view() DecisionView {
	return DecisionView{
		Relationship: s.Relationships.Get,
		Threat:       s.Threat,
		Allied: func(a, b house.HouseguestID) bool {
			return social.Allied(s.Alliances, a, b)
		},
		ActiveCount: len(s.ActiveHouseguests()),
		Week:        s.Week,
	}
}

// RunWeek advances the season by one full week, or runs the finale when three
// or fewer houseguests remain. A cancelled context stops between phases and
// discards pending decisions.
func (s *Simulation) RunWeek(ctx context.Context) error {
	s.lock()
	defer s.unlock()

	if len(s.ActiveHouseguests()) <= 3 {
		return s.runFinale(ctx)
	}

	rec := WeekRecord{Week: s.Week}

	phases := []func(*WeekRecord) error{
		s.phaseHoHCompetition,
		s.phaseNomination,
		s.phasePovCompetition,
		s.phaseSocial,
		s.phasePovMeeting,
		s.phaseEviction,
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := phase(&rec); err != nil {
			return err
		}
	}

	s.settleDeals(rec)
	s.updateAlliances()
	s.driftRelationships()

	s.History = append(s.History, rec)
	s.updateStats()
	s.logWeeklyReport(rec)

	s.Week++
	s.Phase = house.PhaseHoHCompetition
	return nil
}

func (s *Simulation) phaseHoHCompetition(rec *WeekRecord) error {
	s.Phase = house.PhaseHoHCompetition

	var outgoing house.HouseguestID
	for _, hg := range s.Houseguests {
		if hg.IsHoH {
			outgoing = hg.ID
		}
		hg.ClearWeeklyRoles()
	}

	actives := s.ActiveHouseguests()
	var field []*house.Houseguest
	for _, hg := range actives {
		// The outgoing HoH sits out unless the house is nearly empty.
		if hg.ID == outgoing && len(actives) > 4 {
			continue
		}
		field = append(field, hg)
	}

	comp, err := s.runCompetition(comps.AutoCategory(0, s.Rand), field)
	if err != nil {
		return fmt.Errorf("hoh competition: %w", err)
	}

	winner := s.Index[comp.WinnerID]
	winner.IsHoH = true
	winner.HoHWins++
	rec.HoH = winner.ID

	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s won the %s HoH competition", winner.Name, comp.Category),
		Category:    "competition",
		Meta:        map[string]any{"competition_id": comp.ID, "winner": winner.ID},
	})
	return nil
}

func (s *Simulation) phaseNomination(rec *WeekRecord) error {
	s.Phase = house.PhaseNomination
	hoh := s.Index[rec.HoH]
	actives := s.ActiveHouseguests()

	nominees, err := ChooseNominees(hoh, actives, s.view())
	if err != nil {
		return fmt.Errorf("nomination: %w", err)
	}

	// Advisory only; warnings surface in the event feed, the action proceeds.
	for _, ob := range deals.CheckAll(s.Ledger, hoh.ID, house.PhaseNomination, nominees) {
		s.emitObligation(hoh.ID, ob)
	}

	for _, id := range nominees {
		nom := s.Index[id]
		nom.IsNominated = true
		s.applyDelta(RelationshipDelta{
			A: id, B: hoh.ID, Delta: -25,
			Kind: social.EventConflict,
			Note: "nominated for eviction",
		})
		s.breakSafetyDeals(hoh.ID, id)
	}
	rec.Nominees = nominees

	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s nominated %s and %s", hoh.Name, s.name(nominees[0]), s.name(nominees[1])),
		Category:    "nomination",
		Meta:        map[string]any{"nominees": nominees},
	})
	return nil
}

func (s *Simulation) phasePovCompetition(rec *WeekRecord) error {
	s.Phase = house.PhasePovCompetition
	actives := s.ActiveHouseguests()

	// Field: HoH, both nominees, plus up to three random others.
	inField := map[house.HouseguestID]bool{rec.HoH: true}
	field := []*house.Houseguest{s.Index[rec.HoH]}
	for _, id := range rec.Nominees {
		inField[id] = true
		field = append(field, s.Index[id])
	}
	var pool []*house.Houseguest
	for _, hg := range actives {
		if !inField[hg.ID] {
			pool = append(pool, hg)
		}
	}
	for i := 0; i < 3 && len(pool) > 0; i++ {
		pick := entropy.IntN(s.Rand, len(pool))
		field = append(field, pool[pick])
		pool = append(pool[:pick], pool[pick+1:]...)
	}

	comp, err := s.runCompetition(comps.AutoCategory(0, s.Rand), field)
	if err != nil {
		return fmt.Errorf("pov competition: %w", err)
	}

	winner := s.Index[comp.WinnerID]
	winner.IsPovHolder = true
	winner.PovWins++
	rec.PovHolder = winner.ID

	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s won the %s veto competition", winner.Name, comp.Category),
		Category:    "competition",
		Meta:        map[string]any{"competition_id": comp.ID, "winner": winner.ID},
	})
	return nil
}

// phaseSocial generates NPC proposals toward the player seat and resolves
// them, and lets warm pairs form alliances.
func (s *Simulation) phaseSocial(rec *WeekRecord) error {
	s.Phase = house.PhaseSocial

	player := s.playerSeat()
	if player != nil {
		proposals := deals.Generate(deals.View{
			PlayerID:     player.ID,
			Active:       s.ActiveHouseguests(),
			Relationship: s.Relationships.Get,
			Allied: func(a, b house.HouseguestID) bool {
				return social.Allied(s.Alliances, a, b)
			},
			Ledger: s.Ledger,
			Week:   s.Week,
		})
		for _, p := range proposals {
			s.resolveProposal(player, p)
		}
	}

	s.formAlliances()
	return nil
}

// resolveProposal answers a proposal on the player seat's behalf in autonomous
// seasons: accept warm offers, decline the rest.
func (s *Simulation) resolveProposal(player *house.Houseguest, p *deals.Proposal) {
	rel := s.Relationships.Get(p.From, player.ID)
	if rel > 30 {
		p.Response = deals.ResponseAccepted
		if err := p.Deal.Transition(deals.StatusActive); err != nil {
			slog.Warn("proposal activation failed", "deal", p.Deal.ID, "error", err)
			return
		}
		s.Ledger = append(s.Ledger, p.Deal)
		s.applyDelta(RelationshipDelta{
			A: p.From, B: player.ID, Delta: 10,
			Kind: social.EventPromiseKept,
			Note: "struck a " + string(p.Deal.Type) + " deal",
		})
		s.EmitEvent(Event{
			Week:        s.Week,
			Phase:       house.PhaseName(s.Phase),
			Description: fmt.Sprintf("%s and %s agreed on %s", s.name(p.From), player.Name, p.Deal.Type),
			Category:    "deal",
			Meta:        map[string]any{"deal_id": p.Deal.ID, "type": p.Deal.Type},
		})
		return
	}

	p.Response = deals.ResponseRejected
	if err := p.Deal.Transition(deals.StatusExpired); err != nil {
		slog.Warn("proposal expiry failed", "deal", p.Deal.ID, "error", err)
	}
}

func (s *Simulation) phasePovMeeting(rec *WeekRecord) error {
	s.Phase = house.PhasePovMeeting
	holder := s.Index[rec.PovHolder]
	hoh := s.Index[rec.HoH]

	nominees := make([]*house.Houseguest, 0, len(rec.Nominees))
	for _, id := range rec.Nominees {
		nominees = append(nominees, s.Index[id])
	}

	for _, ob := range deals.CheckAll(s.Ledger, holder.ID, house.PhasePovMeeting, rec.Nominees) {
		s.emitObligation(holder.ID, ob)
	}

	decision := DecideVeto(holder, nominees, s.view(), s.Tuning.VetoThreshold)

	var replacement house.HouseguestID
	if decision.Use {
		excluded := []house.HouseguestID{holder.ID, decision.SavedID}
		excluded = append(excluded, rec.Nominees...)
		var err error
		replacement, err = ChooseReplacement(hoh, s.ActiveHouseguests(), excluded, s.view())
		if err != nil {
			// Nobody left to go up in the saved nominee's place. The veto
			// stays in the box.
			decision = VetoDecision{BestRelationship: decision.BestRelationship}
		} else if err := ValidateReplacement(replacement, s.ActiveHouseguests(), excluded); err != nil {
			return fmt.Errorf("pov meeting: %w", err)
		}
	}

	s.settleVetoDeals(holder.ID, rec.Nominees, decision)

	if !decision.Use {
		s.EmitEvent(Event{
			Week:        s.Week,
			Phase:       house.PhaseName(s.Phase),
			Description: fmt.Sprintf("%s decided not to use the veto", holder.Name),
			Category:    "veto",
		})
		return nil
	}

	saved := s.Index[decision.SavedID]
	saved.IsNominated = false
	rec.VetoUsed = true
	rec.SavedID = saved.ID
	if saved.ID != holder.ID {
		s.applyDelta(RelationshipDelta{
			A: saved.ID, B: holder.ID, Delta: 25,
			Kind: social.EventPromiseKept,
			Note: "saved with the veto",
		})
	}

	repl := s.Index[replacement]
	repl.IsNominated = true
	rec.ReplacementID = replacement

	// Swap the saved nominee for the replacement in the week record.
	newNoms := make([]house.HouseguestID, 0, 2)
	for _, id := range rec.Nominees {
		if id != saved.ID {
			newNoms = append(newNoms, id)
		}
	}
	newNoms = append(newNoms, replacement)
	rec.Nominees = newNoms

	s.applyDelta(RelationshipDelta{
		A: replacement, B: hoh.ID, Delta: -30,
		Kind: social.EventConflict,
		Note: "named as replacement nominee",
	})
	s.breakSafetyDeals(hoh.ID, replacement)

	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s used the veto on %s; %s named %s as the replacement", holder.Name, saved.Name, hoh.Name, repl.Name),
		Category:    "veto",
		Meta:        map[string]any{"saved": saved.ID, "replacement": replacement},
	})
	return nil
}

func (s *Simulation) phaseEviction(rec *WeekRecord) error {
	s.Phase = house.PhaseEviction

	nomA := s.Index[rec.Nominees[0]]
	nomB := s.Index[rec.Nominees[1]]
	view := s.view()

	tally := map[house.HouseguestID]int{}
	votes := map[house.HouseguestID]house.HouseguestID{}
	for _, voter := range s.ActiveHouseguests() {
		if voter.ID == rec.HoH || voter.IsNominated {
			continue
		}
		for _, ob := range deals.CheckAll(s.Ledger, voter.ID, house.PhaseEviction, rec.Nominees) {
			s.emitObligation(voter.ID, ob)
		}
		v := DecideVote(voter, nomA, nomB, view)
		tally[v.Evict]++
		votes[voter.ID] = v.Evict
	}

	evictID := nomA.ID
	switch {
	case tally[nomA.ID] > tally[nomB.ID]:
		evictID = nomA.ID
	case tally[nomB.ID] > tally[nomA.ID]:
		evictID = nomB.ID
	default:
		// Tied house; the HoH breaks it.
		hoh := s.Index[rec.HoH]
		evictID = DecideVote(hoh, nomA, nomB, view).Evict
	}

	s.settleVoteDeals(votes)
	s.evict(evictID)
	rec.EvictedID = evictID
	rec.VoteTally = map[string]int{
		nomA.Name: tally[nomA.ID],
		nomB.Name: tally[nomB.ID],
	}

	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(s.Phase),
		Description: fmt.Sprintf("%s was evicted %d–%d", s.name(evictID), tally[evictID], tally[otherNominee(rec.Nominees, evictID)]),
		Category:    "vote",
		Meta:        map[string]any{"evicted": evictID, "tally": rec.VoteTally},
	})
	return nil
}

func otherNominee(nominees []house.HouseguestID, evicted house.HouseguestID) house.HouseguestID {
	for _, id := range nominees {
		if id != evicted {
			return id
		}
	}
	return 0
}

// evict removes a houseguest from the active pool, routing them to the jury
// once the field is small enough.
func (s *Simulation) evict(id house.HouseguestID) {
	hg := s.Index[id]
	if len(s.ActiveHouseguests()) <= s.Tuning.JuryThreshold {
		hg.Status = house.StatusJury
	} else {
		hg.Status = house.StatusEvicted
	}
	hg.EvictedWeek = s.Week
	hg.ClearWeeklyRoles()

	// The evictee's deals die with their game.
	for _, d := range s.Ledger {
		if d.IsActive() && d.Involves(id) {
			if err := d.Transition(deals.StatusExpired); err != nil {
				slog.Warn("deal expiry on eviction failed", "deal", d.ID, "error", err)
			}
		}
	}
}

func (s *Simulation) emitObligation(actor house.HouseguestID, ob *deals.Obligation) {
	s.EmitEvent(Event{
		Week:        s.Week,
		Phase:       house.PhaseName(ob.Phase),
		Description: fmt.Sprintf("%s: %s", s.name(actor), ob.Message),
		Category:    "deal",
		Meta:        map[string]any{"deal_id": ob.DealID, "severity": ob.Severity},
	})
}

// playerSeat returns the houseguest flagged as the player, if still active.
func (s *Simulation) playerSeat() *house.Houseguest {
	for _, hg := range s.ActiveHouseguests() {
		if hg.IsPlayer {
			return hg
		}
	}
	return nil
}

func (s *Simulation) runCompetition(cat comps.Category, field []*house.Houseguest) (*comps.Competition, error) {
	opts := comps.Options{Category: cat, Participants: field, Week: s.Week, Rand: s.Rand}
	if cat == comps.CategoryEndurance {
		return comps.RunEndurance(opts)
	}
	return comps.Run(opts)
}
