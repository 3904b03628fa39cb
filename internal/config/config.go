// Package config loads the season tuning file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the knobs a season runs with. Zero values fall back to
// Default() at load time.
type Tuning struct {
	Seed     int64  `yaml:"seed"`
	CastSize int    `yaml:"cast_size"`
	DBPath   string `yaml:"db_path"`
	APIPort  int    `yaml:"api_port"`

	// Pacing: delay between phases in autonomous mode. 0 = run flat out.
	PhaseDelayMs int `yaml:"phase_delay_ms"`

	// Decision thresholds.
	VetoThreshold     float64 `yaml:"veto_threshold"`      // Use veto above this relationship
	DealLifetimeWeeks int     `yaml:"deal_lifetime_weeks"` // Active deals settle after this many weeks
	JuryThreshold     int     `yaml:"jury_threshold"`      // Evictions at or below this active count join the jury

	// Weekly relationship drift toward zero for non-allied pairs.
	WeeklyDrift float64 `yaml:"weekly_drift"`

	// Per-trait trust modifier overrides (trait name → delta).
	TraitTrustModifiers map[string]float64 `yaml:"trait_trust_modifiers,omitempty"`
}

// Default returns the built-in tuning table.
func Default() Tuning {
	return Tuning{
		Seed:              42,
		CastSize:          12,
		DBPath:            "data/season.db",
		APIPort:           8080,
		PhaseDelayMs:      0,
		VetoThreshold:     30,
		DealLifetimeWeeks: 3,
		JuryThreshold:     9,
		WeeklyDrift:       2,
	}
}

// Load reads a tuning YAML file and overlays it on the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	t.fillDefaults()
	return t, nil
}

func (t *Tuning) fillDefaults() {
	def := Default()
	if t.CastSize <= 0 {
		t.CastSize = def.CastSize
	}
	if t.DBPath == "" {
		t.DBPath = def.DBPath
	}
	if t.APIPort <= 0 {
		t.APIPort = def.APIPort
	}
	if t.VetoThreshold == 0 {
		t.VetoThreshold = def.VetoThreshold
	}
	if t.DealLifetimeWeeks <= 0 {
		t.DealLifetimeWeeks = def.DealLifetimeWeeks
	}
	if t.JuryThreshold <= 0 {
		t.JuryThreshold = def.JuryThreshold
	}
	if t.WeeklyDrift == 0 {
		t.WeeklyDrift = def.WeeklyDrift
	}
}
