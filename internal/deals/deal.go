// Package deals implements the deal and promise economy: typed bilateral
// agreements with a one-directional lifecycle, obligation checks against
// upcoming game actions, and NPC-initiated proposal generation.
package deals

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/housesim/internal/house"
)

// Type identifies what the two parties agreed to.
type Type string

const (
	TypeTargetAgreement    Type = "target_agreement"
	TypeSafetyAgreement    Type = "safety_agreement"
	TypeVoteTogether       Type = "vote_together"
	TypeVetoUse            Type = "veto_use"
	TypeInformationSharing Type = "information_sharing"
	TypeFinalTwo           Type = "final_two"
	TypePartnership        Type = "partnership"
	TypeAllianceInvite     Type = "alliance_invite"
)

// Status is the deal lifecycle state. Transitions are one-directional:
// pending → active → {fulfilled | broken | expired}. Terminal states never
// resurrect.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusFulfilled Status = "fulfilled"
	StatusBroken    Status = "broken"
	StatusExpired   Status = "expired"
)

// Impact is the trust-weight class scaling deltas on fulfillment or breakage.
type Impact string

const (
	ImpactMinor    Impact = "minor"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// FulfillTrustDelta is the trust gained when a deal of each class is honored.
var FulfillTrustDelta = map[Impact]float64{
	ImpactMinor:    3,
	ImpactMedium:   5,
	ImpactHigh:     10,
	ImpactCritical: 15,
}

// BreakTrustDelta is the trust lost when a deal of each class is broken.
var BreakTrustDelta = map[Impact]float64{
	ImpactMinor:    6,
	ImpactMedium:   12,
	ImpactHigh:     20,
	ImpactCritical: 30,
}

// ImpactForType gives each deal type its default weight class.
var ImpactForType = map[Type]Impact{
	TypeTargetAgreement:    ImpactMedium,
	TypeSafetyAgreement:    ImpactHigh,
	TypeVoteTogether:       ImpactMedium,
	TypeVetoUse:            ImpactHigh,
	TypeInformationSharing: ImpactMinor,
	TypeFinalTwo:           ImpactCritical,
	TypePartnership:        ImpactMedium,
	TypeAllianceInvite:     ImpactMinor,
}

// Lifecycle errors.
var (
	ErrTerminalState     = errors.New("deal is in a terminal state")
	ErrInvalidTransition = errors.New("invalid deal status transition")
)

// Deal is a bilateral agreement between two houseguests.
type Deal struct {
	ID        string             `json:"id"`
	Type      Type               `json:"type"`
	Proposer  house.HouseguestID `json:"proposer"`
	Recipient house.HouseguestID `json:"recipient"`
	Status    Status             `json:"status"`
	Impact    Impact             `json:"impact"`

	// TargetID names the agreed target for target_agreement deals.
	TargetID *house.HouseguestID `json:"target_id,omitempty"`

	Week      int       `json:"week"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a pending deal between two houseguests for the given week.
func New(t Type, proposer, recipient house.HouseguestID, week int) *Deal {
	impact, ok := ImpactForType[t]
	if !ok {
		impact = ImpactMinor
	}
	return &Deal{
		ID:        uuid.NewString(),
		Type:      t,
		Proposer:  proposer,
		Recipient: recipient,
		Status:    StatusPending,
		Impact:    impact,
		Week:      week,
		CreatedAt: time.Now().UTC(),
	}
}

// Transition moves the deal to the next lifecycle state, enforcing
// one-directional flow.
func (d *Deal) Transition(next Status) error {
	switch d.Status {
	case StatusPending:
		if next == StatusActive || next == StatusExpired {
			d.Status = next
			return nil
		}
	case StatusActive:
		if next == StatusFulfilled || next == StatusBroken || next == StatusExpired {
			d.Status = next
			return nil
		}
	case StatusFulfilled, StatusBroken, StatusExpired:
		return fmt.Errorf("%w: %s", ErrTerminalState, d.Status)
	}
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, d.Status, next)
}

// IsActive reports whether the deal currently binds both parties.
func (d *Deal) IsActive() bool {
	return d.Status == StatusActive
}

// Terminal reports whether the deal has reached a final state.
func (d *Deal) Terminal() bool {
	return d.Status == StatusFulfilled || d.Status == StatusBroken || d.Status == StatusExpired
}

// Involves reports whether the houseguest is a party to the deal.
func (d *Deal) Involves(id house.HouseguestID) bool {
	return d.Proposer == id || d.Recipient == id
}

// Partner returns the other party of the deal relative to id.
func (d *Deal) Partner(id house.HouseguestID) house.HouseguestID {
	if d.Proposer == id {
		return d.Recipient
	}
	return d.Proposer
}

// ActiveBetween reports whether an active deal of the given type exists
// between the pair, in either direction.
func ActiveBetween(ledger []*Deal, t Type, a, b house.HouseguestID) bool {
	for _, d := range ledger {
		if d.Type == t && d.IsActive() && d.Involves(a) && d.Involves(b) && a != b {
			return true
		}
	}
	return false
}
