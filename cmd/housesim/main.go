// Command housesim runs an autonomous reality-house season simulation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/housesim/internal/api"
	"github.com/talgya/housesim/internal/archive"
	"github.com/talgya/housesim/internal/config"
	"github.com/talgya/housesim/internal/engine"
	"github.com/talgya/housesim/internal/entropy"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		tuningPath = flag.String("tuning", "", "path to tuning YAML (empty = built-in defaults)")
		seed       = flag.Int64("seed", 0, "override season seed (0 = tuning value)")
		season     = flag.Int("season", 1, "season number for the archive")
	)
	flag.Parse()

	tuning := config.Default()
	if *tuningPath != "" {
		var err error
		tuning, err = config.Load(*tuningPath)
		if err != nil {
			slog.Error("failed to load tuning", "path", *tuningPath, "error", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		tuning.Seed = *seed
	}

	slog.Info("housesim starting",
		"seed", tuning.Seed,
		"cast_size", tuning.CastSize,
	)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(tuning.DBPath), 0o755)
	db, err := persistence.Open(tuning.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", tuning.DBPath)

	// ── Randomness ────────────────────────────────────────────────────
	// A random.org key makes the season a live one-off; otherwise the
	// seeded source keeps it replayable.
	var src entropy.Source
	if key := os.Getenv("RANDOM_ORG_KEY"); key != "" {
		src = entropy.NewPool(key)
		slog.Info("using random.org entropy")
	} else {
		src = entropy.NewSeeded(tuning.Seed)
	}

	// ── Load or Cast ─────────────────────────────────────────────────
	spawner := house.NewSpawner(tuning.Seed)

	var sim *engine.Simulation
	if db.HasSeasonState() {
		slog.Info("found saved season state, loading...")
		sim, err = restoreSimulation(db, tuning, src)
		if err != nil {
			slog.Error("failed to restore season", "error", err)
			os.Exit(1)
		}
	} else {
		cast := spawner.SpawnCast(tuning.CastSize)
		for _, hg := range cast {
			slog.Info("cast", "id", hg.ID, "name", hg.Name, "traits", hg.Traits)
		}
		sim = engine.NewSimulation(cast, tuning, src)
	}

	// ── API ──────────────────────────────────────────────────────────
	server := &api.Server{Sim: sim, Port: tuning.APIPort}
	server.Start()

	// ── Season loop ──────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutdown signal received", "signal", sig)
		cancel()
	}()

	runner := &engine.Runner{
		Sim:      sim,
		Interval: time.Duration(tuning.PhaseDelayMs) * time.Millisecond,
	}
	runErr := runner.Run(ctx)

	// ── Save ─────────────────────────────────────────────────────────
	if err := saveSimulation(db, sim); err != nil {
		slog.Error("failed to save season state", "error", err)
	}

	if runErr != nil {
		slog.Info("season interrupted", "week", sim.Week)
		return
	}

	// ── Archive ──────────────────────────────────────────────────────
	summary := archive.SeasonSummary{
		Season:    *season,
		Seed:      tuning.Seed,
		WinnerID:  sim.WinnerID,
		Winner:    winnerName(sim),
		Weeks:     sim.Week,
		Cast:      sim.Houseguests,
		History:   sim.History,
		Relations: sim.Relationships.Pairs(),
		Alliances: sim.Alliances,
		Events:    sim.Events,
	}
	path, err := archive.Write(filepath.Dir(tuning.DBPath), summary)
	if err != nil {
		slog.Error("failed to archive season", "error", err)
	} else {
		slog.Info("season archived", "path", path)
	}

	logStandings(sim)
}

func winnerName(sim *engine.Simulation) string {
	if hg, ok := sim.Index[sim.WinnerID]; ok {
		return hg.Name
	}
	return ""
}

// logStandings prints the final boot order, latest evictions first.
func logStandings(sim *engine.Simulation) {
	others := make([]*house.Houseguest, 0, len(sim.Houseguests))
	for _, hg := range sim.Houseguests {
		if hg.ID != sim.WinnerID {
			others = append(others, hg)
		}
	}
	sort.Slice(others, func(i, j int) bool {
		a, b := others[i], others[j]
		if (a.Status == house.StatusActive) != (b.Status == house.StatusActive) {
			return a.Status == house.StatusActive
		}
		if a.EvictedWeek != b.EvictedWeek {
			return a.EvictedWeek > b.EvictedWeek
		}
		return a.ID < b.ID
	})

	slog.Info("final standings", "place", humanize.Ordinal(1), "name", winnerName(sim))
	for i, hg := range others {
		slog.Info("final standings", "place", humanize.Ordinal(i+2), "name", hg.Name,
			"status", house.StatusName(hg.Status))
	}
}

func restoreSimulation(db *persistence.DB, tuning config.Tuning, src entropy.Source) (*engine.Simulation, error) {
	cast, err := db.LoadHouseguests()
	if err != nil {
		return nil, err
	}

	sim := engine.NewSimulation(cast, tuning, src)

	relationships, err := db.LoadRelationships()
	if err != nil {
		return nil, err
	}
	sim.Relationships = relationships

	ledger, err := db.LoadDeals()
	if err != nil {
		return nil, err
	}
	sim.Ledger = ledger

	alliances, err := db.LoadAlliances()
	if err != nil {
		return nil, err
	}
	sim.RestoreAlliances(alliances)

	events, err := db.LoadEvents()
	if err != nil {
		return nil, err
	}
	sim.Events = events

	if weekStr, err := db.GetMeta("week"); err == nil {
		if w, err := strconv.Atoi(weekStr); err == nil {
			sim.Week = w
		}
	}
	if historyJSON, err := db.GetMeta("history"); err == nil {
		if err := json.Unmarshal([]byte(historyJSON), &sim.History); err != nil {
			return nil, fmt.Errorf("season history: %w", err)
		}
	}
	slog.Info("season restored", "week", sim.Week, "cast", len(cast))
	return sim, nil
}

func saveSimulation(db *persistence.DB, sim *engine.Simulation) error {
	sim.RLock()
	defer sim.RUnlock()

	if err := db.SaveHouseguests(sim.Houseguests); err != nil {
		return err
	}
	if err := db.SaveRelationships(sim.Relationships); err != nil {
		return err
	}
	if err := db.SaveDeals(sim.Ledger); err != nil {
		return err
	}
	if err := db.SaveAlliances(sim.Alliances); err != nil {
		return err
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return err
	}
	historyJSON, err := json.Marshal(sim.History)
	if err != nil {
		return err
	}
	if err := db.SetMeta("history", string(historyJSON)); err != nil {
		return err
	}
	return db.SetMeta("week", strconv.Itoa(sim.Week))
}
