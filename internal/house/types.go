// Package house provides the houseguest data model and season casting.
package house

// HouseguestID is a unique identifier for a houseguest.
type HouseguestID uint64

// Status tracks where a houseguest is in the season lifecycle.
type Status uint8

const (
	StatusActive  Status = 0 // Still in the house
	StatusJury    Status = 1 // Evicted, votes at the finale
	StatusEvicted Status = 2 // Evicted pre-jury
)

// StatusName returns a human-readable status label.
func StatusName(s Status) string {
	switch s {
	case StatusActive:
		return "active"
	case StatusJury:
		return "jury"
	default:
		return "evicted"
	}
}

// StatVector holds a houseguest's competition and social aptitudes, each 1–10.
type StatVector struct {
	Physical    int `json:"physical"`
	Mental      int `json:"mental"`
	Endurance   int `json:"endurance"`
	Social      int `json:"social"`
	Loyalty     int `json:"loyalty"`
	Strategic   int `json:"strategic"`
	Luck        int `json:"luck"`
	Competition int `json:"competition"`
}

// Houseguest is the core entity representing a season participant.
type Houseguest struct {
	ID   HouseguestID `json:"id"`
	Name string       `json:"name"`

	Stats  StatVector `json:"stats"`
	Traits []Trait    `json:"traits"`

	Status Status `json:"status"`

	// Weekly role flags, reset as power changes hands.
	IsHoH       bool `json:"is_hoh"`
	IsNominated bool `json:"is_nominated"`
	IsPovHolder bool `json:"is_pov_holder"`
	IsPlayer    bool `json:"is_player"`

	// Season bookkeeping.
	HoHWins     int `json:"hoh_wins"`
	PovWins     int `json:"pov_wins"`
	EvictedWeek int `json:"evicted_week,omitempty"` // 0 = still in the house
}

// IsActive reports whether the houseguest is still playing.
func (h *Houseguest) IsActive() bool {
	return h.Status == StatusActive
}

// HasTrait reports whether the houseguest carries the given personality trait.
func (h *Houseguest) HasTrait(t Trait) bool {
	for _, have := range h.Traits {
		if have == t {
			return true
		}
	}
	return false
}

// CompetitionWins returns combined HoH and PoV wins, the public threat record.
func (h *Houseguest) CompetitionWins() int {
	return h.HoHWins + h.PovWins
}

// ClearWeeklyRoles resets the per-week power flags (HoH, nominee, veto holder).
func (h *Houseguest) ClearWeeklyRoles() {
	h.IsHoH = false
	h.IsNominated = false
	h.IsPovHolder = false
}

// Phase identifies a step in the weekly game cycle.
type Phase uint8

const (
	PhaseHoHCompetition Phase = iota
	PhaseNomination
	PhasePovCompetition
	PhasePovMeeting
	PhaseSocial
	PhaseEviction
	PhaseFinalHoH
	PhaseFinale
)

// PhaseName returns a human-readable phase label.
func PhaseName(p Phase) string {
	switch p {
	case PhaseHoHCompetition:
		return "hoh_competition"
	case PhaseNomination:
		return "nomination"
	case PhasePovCompetition:
		return "pov_competition"
	case PhasePovMeeting:
		return "pov_meeting"
	case PhaseSocial:
		return "social"
	case PhaseEviction:
		return "eviction"
	case PhaseFinalHoH:
		return "final_hoh"
	default:
		return "finale"
	}
}
