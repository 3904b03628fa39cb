// Package archive writes finished seasons to disk: a zstd-compressed JSON
// summary plus a small plaintext meta file, under archives/season_NNN/.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/housesim/internal/engine"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

// SeasonSummary is the archived record of one finished season.
type SeasonSummary struct {
	Season    int                  `json:"season"`
	Seed      int64                `json:"seed"`
	WinnerID  house.HouseguestID   `json:"winner_id"`
	Winner    string               `json:"winner"`
	Weeks     int                  `json:"weeks"`
	Cast      []*house.Houseguest  `json:"cast"`
	History   []engine.WeekRecord  `json:"history"`
	Relations []social.Pair        `json:"relations"`
	Alliances []*social.Alliance   `json:"alliances"`
	Events    []engine.Event       `json:"events"`
}

// Meta describes the archive for quick listing without decompression.
type Meta struct {
	Season    int    `json:"season"`
	Seed      int64  `json:"seed"`
	Winner    string `json:"winner"`
	Weeks     int    `json:"weeks"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}

// Write stores the summary under dir/archives/season_<NNN>/ and returns the
// compressed summary path.
func Write(dir string, summary SeasonSummary) (string, error) {
	archiveDir := filepath.Join(dir, "archives", fmt.Sprintf("season_%03d", summary.Season))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(archiveDir, "summary.json.zst")
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	if err := json.NewEncoder(enc).Encode(summary); err != nil {
		enc.Close()
		return "", fmt.Errorf("encode summary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	meta := Meta{
		Season:    summary.Season,
		Seed:      summary.Seed,
		Winner:    summary.Winner,
		Weeks:     summary.Weeks,
		Summary:   filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}

	return dst, nil
}

// Read loads a compressed season summary back.
func Read(path string) (SeasonSummary, error) {
	var summary SeasonSummary

	f, err := os.Open(path)
	if err != nil {
		return summary, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return summary, err
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&summary); err != nil {
		return summary, fmt.Errorf("decode summary: %w", err)
	}
	return summary, nil
}
