// Package persistence provides SQLite-based season state storage.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/housesim/internal/deals"
	"github.com/talgya/housesim/internal/engine"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

// DB wraps a SQLite connection for season state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS houseguests (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		status INTEGER NOT NULL,
		is_hoh INTEGER NOT NULL,
		is_nominated INTEGER NOT NULL,
		is_pov_holder INTEGER NOT NULL,
		is_player INTEGER NOT NULL,
		hoh_wins INTEGER NOT NULL,
		pov_wins INTEGER NOT NULL,
		evicted_week INTEGER NOT NULL,
		stats_json TEXT NOT NULL,
		traits_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relationships (
		a INTEGER NOT NULL,
		b INTEGER NOT NULL,
		score REAL NOT NULL,
		events_json TEXT NOT NULL,
		PRIMARY KEY (a, b)
	);

	CREATE TABLE IF NOT EXISTS deals (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		proposer INTEGER NOT NULL,
		recipient INTEGER NOT NULL,
		status TEXT NOT NULL,
		impact TEXT NOT NULL,
		target_id INTEGER,
		week INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alliances (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		members_json TEXT NOT NULL,
		stability REAL NOT NULL,
		status TEXT NOT NULL,
		broken_by INTEGER,
		founded_week INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		week INTEGER NOT NULL,
		phase TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		meta_json TEXT
	);

	CREATE TABLE IF NOT EXISTS season_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_week ON events(week);
	CREATE INDEX IF NOT EXISTS idx_deals_status ON deals(status);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveHouseguests writes the full cast (full replace).
func (db *DB) SaveHouseguests(cast []*house.Houseguest) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM houseguests"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO houseguests
		(id, name, status, is_hoh, is_nominated, is_pov_holder, is_player,
		 hoh_wins, pov_wins, evicted_week, stats_json, traits_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, hg := range cast {
		statsJSON, _ := json.Marshal(hg.Stats)
		traitsJSON, _ := json.Marshal(hg.Traits)

		_, err := stmt.Exec(
			hg.ID, hg.Name, hg.Status,
			boolInt(hg.IsHoH), boolInt(hg.IsNominated), boolInt(hg.IsPovHolder), boolInt(hg.IsPlayer),
			hg.HoHWins, hg.PovWins, hg.EvictedWeek,
			string(statsJSON), string(traitsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert houseguest %d: %w", hg.ID, err)
		}
	}
	return tx.Commit()
}

// LoadHouseguests reads the full cast back.
func (db *DB) LoadHouseguests() ([]*house.Houseguest, error) {
	rows, err := db.conn.Queryx("SELECT * FROM houseguests ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cast []*house.Houseguest
	for rows.Next() {
		var r struct {
			ID          uint64 `db:"id"`
			Name        string `db:"name"`
			Status      uint8  `db:"status"`
			IsHoH       int    `db:"is_hoh"`
			IsNominated int    `db:"is_nominated"`
			IsPovHolder int    `db:"is_pov_holder"`
			IsPlayer    int    `db:"is_player"`
			HoHWins     int    `db:"hoh_wins"`
			PovWins     int    `db:"pov_wins"`
			EvictedWeek int    `db:"evicted_week"`
			StatsJSON   string `db:"stats_json"`
			TraitsJSON  string `db:"traits_json"`
		}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}

		hg := &house.Houseguest{
			ID:          house.HouseguestID(r.ID),
			Name:        r.Name,
			Status:      house.Status(r.Status),
			IsHoH:       r.IsHoH != 0,
			IsNominated: r.IsNominated != 0,
			IsPovHolder: r.IsPovHolder != 0,
			IsPlayer:    r.IsPlayer != 0,
			HoHWins:     r.HoHWins,
			PovWins:     r.PovWins,
			EvictedWeek: r.EvictedWeek,
		}
		if err := json.Unmarshal([]byte(r.StatsJSON), &hg.Stats); err != nil {
			return nil, fmt.Errorf("houseguest %d stats: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.TraitsJSON), &hg.Traits); err != nil {
			return nil, fmt.Errorf("houseguest %d traits: %w", r.ID, err)
		}
		cast = append(cast, hg)
	}
	return cast, rows.Err()
}

// SaveRelationships writes every edge (full replace).
func (db *DB) SaveRelationships(store *social.RelationshipStore) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO relationships (a, b, score, events_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range store.Pairs() {
		eventsJSON, _ := json.Marshal(store.Events(p.A, p.B))
		if _, err := stmt.Exec(p.A, p.B, p.Score, string(eventsJSON)); err != nil {
			return fmt.Errorf("insert relationship %d-%d: %w", p.A, p.B, err)
		}
	}
	return tx.Commit()
}

// LoadRelationships reads the edge map back into a fresh store.
func (db *DB) LoadRelationships() (*social.RelationshipStore, error) {
	rows, err := db.conn.Queryx("SELECT a, b, score, events_json FROM relationships")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	store := social.NewRelationshipStore()
	for rows.Next() {
		var a, b uint64
		var score float64
		var eventsJSON string
		if err := rows.Scan(&a, &b, &score, &eventsJSON); err != nil {
			return nil, err
		}
		rel := social.Relationship{Score: score}
		if eventsJSON != "" && eventsJSON != "null" {
			if err := json.Unmarshal([]byte(eventsJSON), &rel.Events); err != nil {
				return nil, fmt.Errorf("relationship %d-%d events: %w", a, b, err)
			}
		}
		store.Restore(house.HouseguestID(a), house.HouseguestID(b), rel)
	}
	return store, rows.Err()
}

// SaveDeals writes the deal ledger (full replace).
func (db *DB) SaveDeals(ledger []*deals.Deal) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM deals"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO deals
		(id, type, proposer, recipient, status, impact, target_id, week, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range ledger {
		var target *uint64
		if d.TargetID != nil {
			t := uint64(*d.TargetID)
			target = &t
		}
		_, err := stmt.Exec(d.ID, d.Type, d.Proposer, d.Recipient, d.Status, d.Impact, target, d.Week, d.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert deal %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// LoadDeals reads the deal ledger back.
func (db *DB) LoadDeals() ([]*deals.Deal, error) {
	rows, err := db.conn.Queryx("SELECT id, type, proposer, recipient, status, impact, target_id, week, created_at FROM deals")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ledger []*deals.Deal
	for rows.Next() {
		d := &deals.Deal{}
		var target *uint64
		if err := rows.Scan(&d.ID, &d.Type, &d.Proposer, &d.Recipient, &d.Status, &d.Impact, &target, &d.Week, &d.CreatedAt); err != nil {
			return nil, err
		}
		if target != nil {
			id := house.HouseguestID(*target)
			d.TargetID = &id
		}
		ledger = append(ledger, d)
	}
	return ledger, rows.Err()
}

// SaveAlliances writes the alliance list (full replace).
func (db *DB) SaveAlliances(alliances []*social.Alliance) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM alliances"); err != nil {
		return err
	}

	for _, al := range alliances {
		membersJSON, _ := json.Marshal(al.Members)
		var brokenBy *uint64
		if al.BrokenBy != nil {
			b := uint64(*al.BrokenBy)
			brokenBy = &b
		}
		_, err := tx.Exec(`INSERT INTO alliances
			(id, name, members_json, stability, status, broken_by, founded_week)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			al.ID, al.Name, string(membersJSON), al.Stability, al.Status, brokenBy, al.FoundedWeek)
		if err != nil {
			return fmt.Errorf("insert alliance %d: %w", al.ID, err)
		}
	}
	return tx.Commit()
}

// LoadAlliances reads the alliance list back.
func (db *DB) LoadAlliances() ([]*social.Alliance, error) {
	rows, err := db.conn.Queryx("SELECT id, name, members_json, stability, status, broken_by, founded_week FROM alliances")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alliances []*social.Alliance
	for rows.Next() {
		al := &social.Alliance{}
		var membersJSON string
		var brokenBy *uint64
		if err := rows.Scan(&al.ID, &al.Name, &membersJSON, &al.Stability, &al.Status, &brokenBy, &al.FoundedWeek); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(membersJSON), &al.Members); err != nil {
			return nil, fmt.Errorf("alliance %d members: %w", al.ID, err)
		}
		if brokenBy != nil {
			b := house.HouseguestID(*brokenBy)
			al.BrokenBy = &b
		}
		alliances = append(alliances, al)
	}
	return alliances, rows.Err()
}

// SaveEvents writes the event feed (full replace).
func (db *DB) SaveEvents(events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO events (week, phase, description, category, meta_json) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		metaJSON, _ := json.Marshal(e.Meta)
		if _, err := stmt.Exec(e.Week, e.Phase, e.Description, e.Category, string(metaJSON)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadEvents reads the event feed back in insertion order.
func (db *DB) LoadEvents() ([]engine.Event, error) {
	rows, err := db.conn.Queryx("SELECT week, phase, description, category, meta_json FROM events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engine.Event
	for rows.Next() {
		var e engine.Event
		var metaJSON string
		if err := rows.Scan(&e.Week, &e.Phase, &e.Description, &e.Category, &metaJSON); err != nil {
			return nil, err
		}
		if metaJSON != "" && metaJSON != "null" {
			if err := json.Unmarshal([]byte(metaJSON), &e.Meta); err != nil {
				return nil, fmt.Errorf("event meta: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetMeta reads a season metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM season_meta WHERE key = ?", key)
	return value, err
}

// SetMeta writes a season metadata value.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO season_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

// HasSeasonState reports whether a saved season exists to resume.
func (db *DB) HasSeasonState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM houseguests"); err != nil {
		return false
	}
	return count > 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
