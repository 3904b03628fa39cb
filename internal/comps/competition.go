// Package comps resolves competitions: weighted, randomized stat contests with
// placement-based scoring and iterative-elimination endurance events.
package comps

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/housesim/internal/entropy"
	"github.com/talgya/housesim/internal/house"
)

// Category identifies the kind of competition being run.
type Category string

const (
	CategoryEndurance Category = "Endurance"
	CategoryPhysical  Category = "Physical"
	CategoryMental    Category = "Mental"
	CategorySkill     Category = "Skill"
	CategoryCrapshoot Category = "Crapshoot"
)

// ErrNoParticipants is returned when a competition is run with an empty field.
var ErrNoParticipants = errors.New("competition requires at least one participant")

// StatWeights fixes each stat's contribution to a category's score.
// Weights per category sum to 1.0.
type StatWeights struct {
	Physical  float64
	Mental    float64
	Endurance float64
	Social    float64
	Luck      float64
}

// WeightTable maps every category to its stat weighting.
var WeightTable = map[Category]StatWeights{
	CategoryEndurance: {Endurance: 0.50, Physical: 0.25, Mental: 0.10, Social: 0.05, Luck: 0.10},
	CategoryPhysical:  {Physical: 0.55, Endurance: 0.20, Mental: 0.10, Social: 0.05, Luck: 0.10},
	CategoryMental:    {Mental: 0.60, Endurance: 0.10, Physical: 0.05, Social: 0.10, Luck: 0.15},
	CategorySkill:     {Mental: 0.30, Physical: 0.20, Endurance: 0.10, Social: 0.10, Luck: 0.30},
	CategoryCrapshoot: {Luck: 0.70, Mental: 0.10, Physical: 0.05, Endurance: 0.05, Social: 0.10},
}

// Result is one participant's outcome.
type Result struct {
	HouseguestID house.HouseguestID `json:"houseguest_id"`
	Placement    int                `json:"placement"` // 1 = winner
	Score        float64            `json:"score"`
	EliminatedAt float64            `json:"eliminated_at,omitempty"` // Endurance clock, 0 for the winner
}

// Competition is one resolved event. Immutable once IsComplete is set.
type Competition struct {
	ID         string             `json:"id"`
	Category   Category           `json:"category"`
	Week       int                `json:"week"`
	Results    []Result           `json:"results"`
	WinnerID   house.HouseguestID `json:"winner_id"`
	IsComplete bool               `json:"is_complete"`
	Endurance  bool               `json:"endurance"`
}

// Options configures a competition run.
type Options struct {
	Category     Category
	Participants []*house.Houseguest
	Week         int
	Rand         entropy.Source // Required
}

// ClutchBonus rewards backs-against-the-wall performance: nominated
// participants add half their Competition stat; everyone else gets nothing.
func ClutchBonus(competitionStat int, nominated bool) float64 {
	if !nominated {
		return 0
	}
	return float64(competitionStat) * 0.5
}

// Run resolves a placement-based competition. Score per participant is
// Σ(stat × weight) × rand[0.75, 1.25], plus a 0–3 luck bonus for crapshoots
// and the clutch bonus for nominees. Highest score wins.
func Run(opts Options) (*Competition, error) {
	if len(opts.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	weights, ok := WeightTable[opts.Category]
	if !ok {
		return nil, fmt.Errorf("unknown competition category %q", opts.Category)
	}

	results := make([]Result, 0, len(opts.Participants))
	for _, hg := range opts.Participants {
		base := float64(hg.Stats.Physical)*weights.Physical +
			float64(hg.Stats.Mental)*weights.Mental +
			float64(hg.Stats.Endurance)*weights.Endurance +
			float64(hg.Stats.Social)*weights.Social +
			float64(hg.Stats.Luck)*weights.Luck

		score := base * entropy.Range(opts.Rand, 0.75, 1.25)
		if opts.Category == CategoryCrapshoot {
			score += entropy.Range(opts.Rand, 0, 3)
		}
		score += ClutchBonus(hg.Stats.Competition, hg.IsNominated)

		results = append(results, Result{HouseguestID: hg.ID, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].HouseguestID < results[j].HouseguestID
	})
	for i := range results {
		results[i].Placement = i + 1
	}

	return &Competition{
		ID:         uuid.NewString(),
		Category:   opts.Category,
		Week:       opts.Week,
		Results:    results,
		WinnerID:   results[0].HouseguestID,
		IsComplete: true,
	}, nil
}

// RunEndurance resolves an elimination-based competition. Each step advances a
// synthetic clock by 10 + rand(0..20), computes per-participant survival as
// (endurance + 0.3 × physical) × rand[0.5, 1.0], and drops the lowest until
// one remains. Placements run in reverse elimination order.
func RunEndurance(opts Options) (*Competition, error) {
	if len(opts.Participants) == 0 {
		return nil, ErrNoParticipants
	}

	remaining := make([]*house.Houseguest, len(opts.Participants))
	copy(remaining, opts.Participants)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })

	results := make([]Result, 0, len(opts.Participants))
	clock := 0.0
	placement := len(remaining)

	for len(remaining) > 1 {
		clock += 10 + entropy.Range(opts.Rand, 0, 20)

		lowest := 0
		lowestChance := -1.0
		for i, hg := range remaining {
			chance := (float64(hg.Stats.Endurance) + 0.3*float64(hg.Stats.Physical)) * entropy.Range(opts.Rand, 0.5, 1.0)
			if lowestChance < 0 || chance < lowestChance {
				lowest = i
				lowestChance = chance
			}
		}

		dropped := remaining[lowest]
		remaining = append(remaining[:lowest], remaining[lowest+1:]...)
		results = append(results, Result{
			HouseguestID: dropped.ID,
			Placement:    placement,
			Score:        lowestChance,
			EliminatedAt: clock,
		})
		placement--
	}

	winner := remaining[0]
	results = append(results, Result{HouseguestID: winner.ID, Placement: 1, Score: clock})
	sort.Slice(results, func(i, j int) bool { return results[i].Placement < results[j].Placement })

	return &Competition{
		ID:         uuid.NewString(),
		Category:   CategoryEndurance,
		Week:       opts.Week,
		Results:    results,
		WinnerID:   winner.ID,
		IsComplete: true,
		Endurance:  true,
	}, nil
}

// AutoCategory picks a category when the caller doesn't specify one.
// Final-HoH parts map deterministically; everything else is a weighted draw
// (25% Endurance, 20% Physical, 20% Mental, 20% Skill, 15% Crapshoot).
func AutoCategory(finalHoHPart int, src entropy.Source) Category {
	switch finalHoHPart {
	case 1:
		return CategoryEndurance
	case 2:
		return CategorySkill
	case 3:
		return CategoryMental
	}

	roll := src.Float()
	switch {
	case roll < 0.25:
		return CategoryEndurance
	case roll < 0.45:
		return CategoryPhysical
	case roll < 0.65:
		return CategoryMental
	case roll < 0.85:
		return CategorySkill
	default:
		return CategoryCrapshoot
	}
}

// Describe renders one result line for logs and the event feed.
func Describe(r Result, name string) string {
	if r.Placement == 1 {
		return fmt.Sprintf("%s finished %s (winner)", name, humanize.Ordinal(r.Placement))
	}
	return fmt.Sprintf("%s finished %s", name, humanize.Ordinal(r.Placement))
}
