package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/housesim/internal/engine"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	summary := SeasonSummary{
		Season:   3,
		Seed:     42,
		WinnerID: 4,
		Winner:   "Quinn Reyes",
		Weeks:    9,
		Cast: []*house.Houseguest{
			{ID: 4, Name: "Quinn Reyes", Status: house.StatusActive, HoHWins: 3},
			{ID: 7, Name: "Marcus Thorne", Status: house.StatusJury, EvictedWeek: 6},
		},
		History: []engine.WeekRecord{
			{Week: 1, HoH: 4, Nominees: []house.HouseguestID{7, 9}, EvictedID: 9},
		},
		Relations: []social.Pair{{A: 4, B: 7, Score: 31, Tier: social.TierAcquaintance}},
		Events: []engine.Event{
			{Week: 1, Phase: "eviction", Description: "gone", Category: "vote"},
		},
	}

	path, err := Write(dir, summary)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "archives", "season_003", "summary.json.zst"); path != want {
		t.Errorf("archive path = %q, want %q", path, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "archives", "season_003", "meta.json")); err != nil {
		t.Errorf("meta.json not written: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Season != 3 || got.Seed != 42 || got.WinnerID != 4 || got.Winner != "Quinn Reyes" || got.Weeks != 9 {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Cast) != 2 || got.Cast[0].Name != "Quinn Reyes" || got.Cast[1].EvictedWeek != 6 {
		t.Errorf("cast mismatch: %+v", got.Cast)
	}
	if len(got.History) != 1 || got.History[0].EvictedID != 9 {
		t.Errorf("history mismatch: %+v", got.History)
	}
	if len(got.Relations) != 1 || got.Relations[0].Tier != social.TierAcquaintance {
		t.Errorf("relations mismatch: %+v", got.Relations)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.zst")); err == nil {
		t.Fatal("missing archive read without error")
	}
}

func TestWriteCompresses(t *testing.T) {
	dir := t.TempDir()

	// A summary with heavy repetition should shrink well under zstd.
	events := make([]engine.Event, 500)
	for i := range events {
		events[i] = engine.Event{Week: i, Phase: "social", Description: "the house settled into routine", Category: "social"}
	}
	path, err := Write(dir, SeasonSummary{Season: 1, Events: events})
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// Raw JSON for 500 events runs well past 40KB.
	if info.Size() > 20_000 {
		t.Errorf("compressed archive is %d bytes, expected real compression", info.Size())
	}
}
