// Alliances: named voting blocs with a stability measure.
package social

import "github.com/talgya/housesim/internal/house"

// AllianceStatus tracks whether an alliance still holds.
type AllianceStatus string

const (
	AllianceActive    AllianceStatus = "active"
	AllianceDissolved AllianceStatus = "dissolved"
)

// Alliance represents a voting bloc between two or more houseguests.
type Alliance struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Members     []house.HouseguestID `json:"members"`
	Stability   float64              `json:"stability"` // 0–100
	Status      AllianceStatus       `json:"status"`
	BrokenBy    *house.HouseguestID  `json:"broken_by,omitempty"` // Who caused the dissolution
	FoundedWeek int                  `json:"founded_week"`
}

// Contains reports whether the houseguest is a member.
func (a *Alliance) Contains(id house.HouseguestID) bool {
	for _, m := range a.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Dissolve marks the alliance broken, optionally recording who broke it.
func (a *Alliance) Dissolve(brokenBy *house.HouseguestID) {
	a.Status = AllianceDissolved
	a.BrokenBy = brokenBy
}

// Allied reports whether two houseguests share any active alliance.
func Allied(alliances []*Alliance, a, b house.HouseguestID) bool {
	for _, al := range alliances {
		if al.Status == AllianceActive && al.Contains(a) && al.Contains(b) {
			return true
		}
	}
	return false
}
