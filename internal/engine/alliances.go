// Alliance formation and upkeep: warm pairs band together, cold blood breaks
// blocs apart.
package engine

import (
	"fmt"

	"github.com/talgya/housesim/internal/entropy"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

var allianceAdjectives = []string{"Silent", "Final", "Iron", "Midnight", "Loyal", "Hidden", "Velvet", "Last"}
var allianceNouns = []string{"Six", "Circle", "Pact", "Guard", "Wall", "Court", "Hand", "Vault"}

// formAlliances lets close active pairs found a new bloc during the social
// phase. Each houseguest carries at most two active alliances.
func (s *Simulation) formAlliances() {
	actives := s.ActiveHouseguests()
	for i, a := range actives {
		for _, b := range actives[i+1:] {
			rel := s.Relationships.Get(a.ID, b.ID)
			if rel <= 60 || social.Allied(s.Alliances, a.ID, b.ID) {
				continue
			}
			if s.activeAllianceCount(a.ID) >= 2 || s.activeAllianceCount(b.ID) >= 2 {
				continue
			}
			// Even best friends don't formalize every week.
			if s.Rand.Float() > 0.3 {
				continue
			}

			al := &social.Alliance{
				ID:          s.nextAllianceID,
				Name:        s.allianceName(),
				Members:     []house.HouseguestID{a.ID, b.ID},
				Stability:   rel,
				Status:      social.AllianceActive,
				FoundedWeek: s.Week,
			}
			s.nextAllianceID++
			s.Alliances = append(s.Alliances, al)

			s.EmitEvent(Event{
				Week:        s.Week,
				Phase:       house.PhaseName(s.Phase),
				Description: fmt.Sprintf("%s and %s formed %s", a.Name, b.Name, al.Name),
				Category:    "social",
				Meta:        map[string]any{"alliance_id": al.ID},
			})
		}
	}
}

// updateAlliances refreshes stability from member relationships, drops evicted
// members, and dissolves blocs that have gone sour.
func (s *Simulation) updateAlliances() {
	for _, al := range s.Alliances {
		if al.Status != social.AllianceActive {
			continue
		}

		var members []house.HouseguestID
		for _, id := range al.Members {
			if hg, ok := s.Index[id]; ok && hg.IsActive() {
				members = append(members, id)
			}
		}
		al.Members = members
		if len(al.Members) < 2 {
			al.Dissolve(nil)
			continue
		}

		sum := 0.0
		pairs := 0
		soured := false
		var coldest house.HouseguestID
		coldestAvg := 0.0
		for i, a := range al.Members {
			memberSum := 0.0
			for j, b := range al.Members {
				if i == j {
					continue
				}
				rel := s.Relationships.Get(a, b)
				memberSum += rel
				if j > i {
					sum += rel
					pairs++
				}
				if rel < -20 {
					soured = true
				}
			}
			avg := memberSum / float64(len(al.Members)-1)
			if coldest == 0 || avg < coldestAvg {
				coldest = a
				coldestAvg = avg
			}
		}

		if soured {
			breaker := coldest
			al.Dissolve(&breaker)
			s.EmitEvent(Event{
				Week:        s.Week,
				Phase:       house.PhaseName(s.Phase),
				Description: fmt.Sprintf("%s fell apart after %s turned on the group", al.Name, s.name(breaker)),
				Category:    "social",
				Meta:        map[string]any{"alliance_id": al.ID, "broken_by": breaker},
			})
			continue
		}

		if pairs > 0 {
			stability := sum / float64(pairs)
			if stability < 0 {
				stability = 0
			}
			if stability > 100 {
				stability = 100
			}
			al.Stability = stability
		}
	}
}

// driftRelationships decays non-allied edges toward zero each week so scores
// don't pin at the rails all season.
func (s *Simulation) driftRelationships() {
	drift := s.Tuning.WeeklyDrift
	if drift <= 0 {
		return
	}
	for _, p := range s.Relationships.Pairs() {
		if social.Allied(s.Alliances, p.A, p.B) {
			continue
		}
		switch {
		case p.Score > drift:
			s.Relationships.Set(p.A, p.B, p.Score-drift)
		case p.Score < -drift:
			s.Relationships.Set(p.A, p.B, p.Score+drift)
		default:
			s.Relationships.Set(p.A, p.B, 0)
		}
	}
}

func (s *Simulation) activeAllianceCount(id house.HouseguestID) int {
	n := 0
	for _, al := range s.Alliances {
		if al.Status == social.AllianceActive && al.Contains(id) {
			n++
		}
	}
	return n
}

func (s *Simulation) allianceName() string {
	adj := allianceAdjectives[entropy.IntN(s.Rand, len(allianceAdjectives))]
	noun := allianceNouns[entropy.IntN(s.Rand, len(allianceNouns))]
	return "The " + adj + " " + noun
}
