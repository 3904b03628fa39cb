// Canonical decision functions: one authoritative implementation per
// decision type (nominate, veto, vote, replace, jury). All are pure: they read
// a DecisionView and return a result for the simulation loop to apply.
// Score ties always break toward the lowest houseguest ID.
package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/housesim/internal/house"
)

var (
	// ErrIneligibleNominee is returned when a choice names a houseguest
	// excluded by role (HoH, veto holder, sitting nominee, just-saved).
	ErrIneligibleNominee = errors.New("houseguest is not eligible for nomination")

	// ErrNotEnoughHouseguests is returned when a decision needs more
	// candidates than remain.
	ErrNotEnoughHouseguests = errors.New("not enough houseguests for decision")
)

// ChooseNominees picks the two candidates the HoH most wants gone: the two
// lowest keep scores among eligible actives.
func ChooseNominees(hoh *house.Houseguest, actives []*house.Houseguest, view DecisionView) ([]house.HouseguestID, error) {
	var candidates []*house.Houseguest
	for _, hg := range actives {
		if hg.ID == hoh.ID {
			continue
		}
		candidates = append(candidates, hg)
	}
	if len(candidates) < 2 {
		return nil, fmt.Errorf("%w: need 2 nominees, have %d candidates", ErrNotEnoughHouseguests, len(candidates))
	}

	first := pickWorst(hoh, candidates, view, 0)
	second := pickWorst(hoh, candidates, view, first)
	return []house.HouseguestID{first, second}, nil
}

// pickWorst returns the candidate with the lowest keep score, skipping one ID.
func pickWorst(voter *house.Houseguest, candidates []*house.Houseguest, view DecisionView, skip house.HouseguestID) house.HouseguestID {
	var worst house.HouseguestID
	worstScore := 0.0
	found := false
	for _, hg := range candidates {
		if hg.ID == skip {
			continue
		}
		score := ScoreCandidate(voter, hg, view)
		if !found || score < worstScore || (score == worstScore && hg.ID < worst) {
			worst = hg.ID
			worstScore = score
			found = true
		}
	}
	return worst
}

// VoteDecision is one voter's eviction choice.
type VoteDecision struct {
	Voter  house.HouseguestID
	Evict  house.HouseguestID
	KeepA  float64
	KeepB  float64
}

// DecideVote picks which nominee the voter evicts: the one with the LOWER
// keep score. Equal scores evict the lower ID.
func DecideVote(voter, nomineeA, nomineeB *house.Houseguest, view DecisionView) VoteDecision {
	keepA := ScoreCandidate(voter, nomineeA, view)
	keepB := ScoreCandidate(voter, nomineeB, view)

	evict := nomineeB.ID
	if keepA < keepB || (keepA == keepB && nomineeA.ID < nomineeB.ID) {
		evict = nomineeA.ID
	}
	return VoteDecision{Voter: voter.ID, Evict: evict, KeepA: keepA, KeepB: keepB}
}

// VetoDecision is the veto holder's choice.
type VetoDecision struct {
	Use     bool
	SavedID house.HouseguestID
	// BestRelationship is the holder's relationship with the nominee they
	// most want to save (self = +inf shortcut, always saved).
	BestRelationship float64
}

// DecideVeto: a nominated holder always saves themself; otherwise the holder
// saves the best-liked nominee when that relationship clears the threshold.
func DecideVeto(holder *house.Houseguest, nominees []*house.Houseguest, view DecisionView, threshold float64) VetoDecision {
	for _, nom := range nominees {
		if nom.ID == holder.ID {
			return VetoDecision{Use: true, SavedID: holder.ID}
		}
	}
	if view.Relationship == nil || len(nominees) == 0 {
		return VetoDecision{}
	}

	var best house.HouseguestID
	bestRel := 0.0
	found := false
	for _, nom := range nominees {
		rel := view.Relationship(holder.ID, nom.ID)
		if !found || rel > bestRel || (rel == bestRel && nom.ID < best) {
			best = nom.ID
			bestRel = rel
			found = true
		}
	}
	if bestRel > threshold {
		return VetoDecision{Use: true, SavedID: best, BestRelationship: bestRel}
	}
	return VetoDecision{BestRelationship: bestRel}
}

// ChooseReplacement picks the replacement nominee: the eligible houseguest
// with the WORST relationship to the HoH. excluded lists ineligible IDs
// (HoH, veto holder, sitting nominees, the just-saved houseguest).
func ChooseReplacement(hoh *house.Houseguest, actives []*house.Houseguest, excluded []house.HouseguestID, view DecisionView) (house.HouseguestID, error) {
	skip := make(map[house.HouseguestID]bool, len(excluded)+1)
	skip[hoh.ID] = true
	for _, id := range excluded {
		skip[id] = true
	}

	var worst house.HouseguestID
	worstRel := 0.0
	found := false
	for _, hg := range actives {
		if skip[hg.ID] || !hg.IsActive() {
			continue
		}
		rel := 0.0
		if view.Relationship != nil {
			rel = view.Relationship(hoh.ID, hg.ID)
		}
		if !found || rel < worstRel || (rel == worstRel && hg.ID < worst) {
			worst = hg.ID
			worstRel = rel
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no eligible replacement", ErrNotEnoughHouseguests)
	}
	return worst, nil
}

// ValidateReplacement rejects a replacement pick that names an excluded or
// inactive houseguest. Callers must check before committing; an invalid
// choice surfaces here instead of being silently applied.
func ValidateReplacement(pick house.HouseguestID, actives []*house.Houseguest, excluded []house.HouseguestID) error {
	for _, id := range excluded {
		if id == pick {
			return fmt.Errorf("%w: houseguest %d is excluded this week", ErrIneligibleNominee, pick)
		}
	}
	for _, hg := range actives {
		if hg.ID == pick {
			if !hg.IsActive() {
				return fmt.Errorf("%w: houseguest %d is not active", ErrIneligibleNominee, pick)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: houseguest %d is not in the house", ErrIneligibleNominee, pick)
}

// DecideJuryVote picks which finalist a juror crowns: the higher composite of
// relationship plus half the juror-perspective trust score.
func DecideJuryVote(juror *house.Houseguest, finalists []*house.Houseguest, view DecisionView, trustScore func(subject, from house.HouseguestID) int) house.HouseguestID {
	var best house.HouseguestID
	bestScore := 0.0
	found := false
	for _, fin := range finalists {
		score := 0.0
		if view.Relationship != nil {
			score = view.Relationship(juror.ID, fin.ID)
		}
		if trustScore != nil {
			score += float64(trustScore(fin.ID, juror.ID)) / 2
		}
		if !found || score > bestScore || (score == bestScore && fin.ID < best) {
			best = fin.ID
			bestScore = score
			found = true
		}
	}
	return best
}
