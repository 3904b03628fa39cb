// Package engine runs the season: it owns the shared game state and is the
// single writer applying decision results to it. Decisions themselves are pure
// functions over read-only views; see scorer.go and decisions.go.
package engine

import (
	"log/slog"
	"sync"

	"github.com/talgya/housesim/internal/config"
	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/entropy"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
	"github.com/talgya/housesim/internal/trust"
)

// Simulation holds the complete season state and wires the decision systems
// together. All mutation happens on the phase loop goroutine; readers (the
// HTTP API) take the read lock.
type Simulation struct {
	mu sync.RWMutex

	Houseguests []*house.Houseguest
	Index       map[house.HouseguestID]*house.Houseguest

	Relationships *social.RelationshipStore
	Ledger        []*deals.Deal
	Alliances     []*social.Alliance

	Week  int
	Phase house.Phase

	Events []Event

	// WinnerID is set once the finale resolves.
	WinnerID house.HouseguestID

	// History of weekly outcomes for the season archive.
	History []WeekRecord

	Tuning config.Tuning
	Rand   entropy.Source

	// Threat assessment, injectable for tests and variants.
	Threat ThreatFunc

	Stats SeasonStats

	nextAllianceID uint64
}

// Event is a notable occurrence in the house.
type Event struct {
	Week        int            `json:"week"`
	Phase       string         `json:"phase"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // "competition", "nomination", "veto", "vote", "deal", "social"
	Meta        map[string]any `json:"meta,omitempty"`
}

// WeekRecord summarizes one week's outcomes for history and archiving.
type WeekRecord struct {
	Week          int                  `json:"week"`
	HoH           house.HouseguestID   `json:"hoh"`
	Nominees      []house.HouseguestID `json:"nominees"`
	PovHolder     house.HouseguestID   `json:"pov_holder"`
	VetoUsed      bool                 `json:"veto_used"`
	SavedID       house.HouseguestID   `json:"saved_id,omitempty"`
	ReplacementID house.HouseguestID   `json:"replacement_id,omitempty"`
	EvictedID     house.HouseguestID   `json:"evicted_id"`
	VoteTally     map[string]int       `json:"vote_tally,omitempty"`
}

// SeasonStats tracks aggregate season statistics.
type SeasonStats struct {
	ActiveCount     int     `json:"active_count"`
	JuryCount       int     `json:"jury_count"`
	EvictedCount    int     `json:"evicted_count"`
	AvgRelationship float64 `json:"avg_relationship"`
	DealsActive     int     `json:"deals_active"`
	DealsBroken     int     `json:"deals_broken"`
	DealsFulfilled  int     `json:"deals_fulfilled"`
}

// NewSimulation creates a season from a cast.
func NewSimulation(cast []*house.Houseguest, tuning config.Tuning, src entropy.Source) *Simulation {
	index := make(map[house.HouseguestID]*house.Houseguest, len(cast))
	for _, hg := range cast {
		index[hg.ID] = hg
	}

	sim := &Simulation{
		Houseguests:    cast,
		Index:          index,
		Relationships:  social.NewRelationshipStore(),
		Tuning:         tuning,
		Rand:           src,
		Threat:         DefaultThreat,
		Week:           1,
		Phase:          house.PhaseHoHCompetition,
		nextAllianceID: 1,
	}
	sim.seedRelationships()
	sim.updateStats()
	return sim
}

// seedRelationships gives every pair a mild first-impression score so week one
// isn't a field of zeros.
func (s *Simulation) seedRelationships() {
	for i, a := range s.Houseguests {
		for _, b := range s.Houseguests[i+1:] {
			first := entropy.Range(s.Rand, -10, 25)
			s.Relationships.Set(a.ID, b.ID, first)
		}
	}
}

// EmitEvent appends an event to the season feed, trimming old entries.
func (s *Simulation) EmitEvent(e Event) {
	s.Events = append(s.Events, e)
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// RestoreAlliances installs a loaded alliance list and advances the ID
// counter past the highest loaded ID.
func (s *Simulation) RestoreAlliances(alliances []*social.Alliance) {
	s.Alliances = alliances
	next := uint64(1)
	for _, al := range alliances {
		if al.ID >= next {
			next = al.ID + 1
		}
	}
	s.nextAllianceID = next
}

// ActiveHouseguests returns everyone still playing, in cast order.
func (s *Simulation) ActiveHouseguests() []*house.Houseguest {
	var out []*house.Houseguest
	for _, hg := range s.Houseguests {
		if hg.IsActive() {
			out = append(out, hg)
		}
	}
	return out
}

// RLock and RUnlock expose the read lock for API consumers.
func (s *Simulation) RLock()   { s.mu.RLock() }
func (s *Simulation) RUnlock() { s.mu.RUnlock() }

func (s *Simulation) lock()   { s.mu.Lock() }
func (s *Simulation) unlock() { s.mu.Unlock() }

// TrustSnapshot builds the aggregator input from current state. Called per
// query; trust is derived, never stored.
func (s *Simulation) TrustSnapshot() *trust.Snapshot {
	var overrides map[house.Trait]float64
	if len(s.Tuning.TraitTrustModifiers) > 0 {
		overrides = make(map[house.Trait]float64, len(s.Tuning.TraitTrustModifiers))
		for name, v := range s.Tuning.TraitTrustModifiers {
			overrides[house.Trait(name)] = v
		}
	}
	return &trust.Snapshot{
		Ledger:         s.Ledger,
		Alliances:      s.Alliances,
		Relationships:  s.Relationships,
		TraitOverrides: overrides,
		Lookup: func(id house.HouseguestID) *house.Houseguest {
			return s.Index[id]
		},
	}
}

// TrustReport computes the current trust report for a houseguest.
func (s *Simulation) TrustReport(subject, from house.HouseguestID) trust.Report {
	return trust.NewAggregator(s.TrustSnapshot()).Compute(subject, from)
}

// RelationshipDelta is a pending relationship mutation produced by a decision.
// The simulation loop is the only code that applies these.
type RelationshipDelta struct {
	A, B  house.HouseguestID
	Delta float64
	Kind  social.EventKind
	Note  string
}

// applyDelta mutates the relationship edge, records history, and emits a
// milestone event when a threshold is crossed.
func (s *Simulation) applyDelta(d RelationshipDelta) {
	old, now := s.Relationships.Adjust(d.A, d.B, d.Delta)
	s.Relationships.AddEvent(d.A, d.B, social.RelationshipEvent{
		Week:   s.Week,
		Kind:   d.Kind,
		Impact: d.Delta,
		Note:   d.Note,
	})

	if t := social.CrossedMilestone(old, now); t != 0 {
		s.EmitEvent(Event{
			Week:        s.Week,
			Phase:       house.PhaseName(s.Phase),
			Description: s.name(d.A) + " and " + s.name(d.B) + " reached " + string(social.TierForScore(now)),
			Category:    "social",
			Meta:        map[string]any{"milestone": t, "old": old, "new": now},
		})
	}
}

func (s *Simulation) name(id house.HouseguestID) string {
	if hg, ok := s.Index[id]; ok {
		return hg.Name
	}
	return "unknown"
}

func (s *Simulation) updateStats() {
	st := SeasonStats{}
	for _, hg := range s.Houseguests {
		switch hg.Status {
		case house.StatusActive:
			st.ActiveCount++
		case house.StatusJury:
			st.JuryCount++
		default:
			st.EvictedCount++
		}
	}
	pairs := s.Relationships.Pairs()
	if len(pairs) > 0 {
		sum := 0.0
		for _, p := range pairs {
			sum += p.Score
		}
		st.AvgRelationship = sum / float64(len(pairs))
	}
	for _, d := range s.Ledger {
		switch d.Status {
		case deals.StatusActive:
			st.DealsActive++
		case deals.StatusBroken:
			st.DealsBroken++
		case deals.StatusFulfilled:
			st.DealsFulfilled++
		}
	}
	s.Stats = st
}

// logWeeklyReport emits the end-of-week summary line.
func (s *Simulation) logWeeklyReport(rec WeekRecord) {
	slog.Info("weekly report",
		"week", rec.Week,
		"hoh", s.name(rec.HoH),
		"evicted", s.name(rec.EvictedID),
		"veto_used", rec.VetoUsed,
		"active", s.Stats.ActiveCount,
		"deals_active", s.Stats.DealsActive,
		"deals_broken", s.Stats.DealsBroken,
		"avg_relationship", s.Stats.AvgRelationship,
	)
}
