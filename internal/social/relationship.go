// Package social provides the relationship graph and alliance model.
// Relationships are symmetric: both directions of a pair read the same edge.
package social

import (
	"sort"

	"github.com/talgya/housesim/internal/house"
)

// Score bounds for a relationship edge.
const (
	MinScore = -100.0
	MaxScore = 100.0
)

// Tier is a discrete relationship label derived purely from the numeric score.
type Tier string

const (
	TierEnemy        Tier = "enemy"
	TierRival        Tier = "rival"
	TierStranger     Tier = "stranger"
	TierAcquaintance Tier = "acquaintance"
	TierFriend       Tier = "friend"
	TierCloseFriend  Tier = "close_friend"
	TierAlly         Tier = "ally"
)

// TierForScore maps a score to its tier. Pure: never stored, always derived.
func TierForScore(score float64) Tier {
	switch {
	case score < -50:
		return TierEnemy
	case score < -20:
		return TierRival
	case score < 25:
		return TierStranger
	case score < 50:
		return TierAcquaintance
	case score < 75:
		return TierFriend
	case score < 90:
		return TierCloseFriend
	default:
		return TierAlly
	}
}

// Milestones are the positive thresholds whose crossing is a notable event.
var Milestones = []float64{25, 50, 75}

// CrossedMilestone returns the highest milestone T with old < T <= new,
// or 0 when no milestone was crossed.
func CrossedMilestone(old, new float64) float64 {
	crossed := 0.0
	for _, t := range Milestones {
		if old < t && new >= t {
			crossed = t
		}
	}
	return crossed
}

// EventKind classifies a relationship history entry.
type EventKind string

const (
	EventDealFulfilled EventKind = "deal_fulfilled"
	EventDealBroken    EventKind = "deal_broken"
	EventPromiseKept   EventKind = "promise_kept"
	EventBetrayal      EventKind = "betrayal"
	EventConversation  EventKind = "conversation"
	EventConflict      EventKind = "conflict"
)

// RelationshipEvent records one interaction between a pair.
type RelationshipEvent struct {
	Week   int       `json:"week"`
	Kind   EventKind `json:"kind"`
	Impact float64   `json:"impact"` // Signed raw impact on the relationship
	Note   string    `json:"note,omitempty"`
}

// Relationship is one symmetric scored edge plus its history.
type Relationship struct {
	Score  float64             `json:"score"`
	Events []RelationshipEvent `json:"events,omitempty"`
}

// pairKey is the canonical (lower ID, higher ID) ordering of an edge.
type pairKey struct {
	a, b house.HouseguestID
}

func keyFor(a, b house.HouseguestID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// RelationshipStore holds every edge in the house.
type RelationshipStore struct {
	edges map[pairKey]*Relationship
}

// NewRelationshipStore creates an empty store.
func NewRelationshipStore() *RelationshipStore {
	return &RelationshipStore{edges: make(map[pairKey]*Relationship)}
}

// Get returns the score between two houseguests. Unknown pairs score 0.
func (rs *RelationshipStore) Get(a, b house.HouseguestID) float64 {
	if rel, ok := rs.edges[keyFor(a, b)]; ok {
		return rel.Score
	}
	return 0
}

// Set overwrites the score between two houseguests, clamped to [-100, 100].
func (rs *RelationshipStore) Set(a, b house.HouseguestID, score float64) {
	rel := rs.edge(a, b)
	rel.Score = clampScore(score)
}

// Adjust applies a delta to the edge and returns (old, new) scores.
func (rs *RelationshipStore) Adjust(a, b house.HouseguestID, delta float64) (old, new float64) {
	rel := rs.edge(a, b)
	old = rel.Score
	rel.Score = clampScore(rel.Score + delta)
	return old, rel.Score
}

// AddEvent appends a history entry to the pair's edge.
func (rs *RelationshipStore) AddEvent(a, b house.HouseguestID, ev RelationshipEvent) {
	rel := rs.edge(a, b)
	rel.Events = append(rel.Events, ev)
}

// Events returns the recorded history for a pair (nil when none).
func (rs *RelationshipStore) Events(a, b house.HouseguestID) []RelationshipEvent {
	if rel, ok := rs.edges[keyFor(a, b)]; ok {
		return rel.Events
	}
	return nil
}

// EventsInvolving returns all history entries on edges touching the houseguest.
func (rs *RelationshipStore) EventsInvolving(id house.HouseguestID) []RelationshipEvent {
	var out []RelationshipEvent
	for k, rel := range rs.edges {
		if k.a == id || k.b == id {
			out = append(out, rel.Events...)
		}
	}
	return out
}

// Pair describes one edge for iteration and export.
type Pair struct {
	A     house.HouseguestID `json:"a"`
	B     house.HouseguestID `json:"b"`
	Score float64            `json:"score"`
	Tier  Tier               `json:"tier"`
}

// Pairs returns every edge in canonical order, sorted for stable output.
func (rs *RelationshipStore) Pairs() []Pair {
	out := make([]Pair, 0, len(rs.edges))
	for k, rel := range rs.edges {
		out = append(out, Pair{A: k.a, B: k.b, Score: rel.Score, Tier: TierForScore(rel.Score)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Restore installs an edge directly (used when loading from DB).
func (rs *RelationshipStore) Restore(a, b house.HouseguestID, rel Relationship) {
	stored := rel
	stored.Score = clampScore(rel.Score)
	rs.edges[keyFor(a, b)] = &stored
}

func (rs *RelationshipStore) edge(a, b house.HouseguestID) *Relationship {
	k := keyFor(a, b)
	rel, ok := rs.edges[k]
	if !ok {
		rel = &Relationship{}
		rs.edges[k] = rel
	}
	return rel
}

func clampScore(s float64) float64 {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
