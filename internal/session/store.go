// Package session persists the mutable side of trading: per-station visit
// serials and the quantity deltas player trades apply on top of the
// deterministic market baselines. Baselines themselves are never stored —
// they regenerate for free — so this store stays tiny no matter how much
// of the world has been explored.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"starlanes/internal/market"
)

// Store wraps a SQLite connection for trade-session state.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS station_visits (
		station_id TEXT PRIMARY KEY,
		visits INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		station_id TEXT NOT NULL,
		commodity TEXT NOT NULL,
		qty_delta INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trades_station ON trades(station_id);

	CREATE TABLE IF NOT EXISTS market_deltas (
		station_id TEXT NOT NULL,
		commodity TEXT NOT NULL,
		qty_delta INTEGER NOT NULL,
		PRIMARY KEY (station_id, commodity)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginVisit increments and returns the visit serial for a station. The
// serial feeds the market seed suffix, so each docking re-rolls jitter
// while staying fully reproducible from the stored count.
func (s *Store) BeginVisit(stationID string) (int64, error) {
	_, err := s.conn.Exec(`
		INSERT INTO station_visits (station_id, visits) VALUES (?, 1)
		ON CONFLICT(station_id) DO UPDATE SET visits = visits + 1`,
		stationID)
	if err != nil {
		return 0, fmt.Errorf("begin visit: %w", err)
	}

	var visits int64
	if err := s.conn.Get(&visits, `SELECT visits FROM station_visits WHERE station_id = ?`, stationID); err != nil {
		return 0, fmt.Errorf("read visit serial: %w", err)
	}
	return visits, nil
}

// CurrentVisit returns the latest visit serial for a station, or 0 if the
// station has never been visited.
func (s *Store) CurrentVisit(stationID string) (int64, error) {
	var visits int64
	err := s.conn.Get(&visits, `SELECT COALESCE(MAX(visits), 0) FROM station_visits WHERE station_id = ?`, stationID)
	if err != nil {
		return 0, fmt.Errorf("read visit serial: %w", err)
	}
	return visits, nil
}

// RecordTrade logs one trade and folds it into the station's running
// quantity delta. qtyDelta is from the station's point of view: a player
// purchase is negative (stock leaves the station).
func (s *Store) RecordTrade(stationID, commodity string, qtyDelta int) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin trade tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO trades (id, station_id, commodity, qty_delta, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), stationID, commodity, qtyDelta, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO market_deltas (station_id, commodity, qty_delta) VALUES (?, ?, ?)
		ON CONFLICT(station_id, commodity) DO UPDATE SET qty_delta = qty_delta + excluded.qty_delta`,
		stationID, commodity, qtyDelta)
	if err != nil {
		return fmt.Errorf("update delta: %w", err)
	}

	return tx.Commit()
}

// Deltas returns the accumulated quantity deltas for a station.
func (s *Store) Deltas(stationID string) (map[string]int, error) {
	rows := []struct {
		Commodity string `db:"commodity"`
		QtyDelta  int    `db:"qty_delta"`
	}{}
	err := s.conn.Select(&rows, `SELECT commodity, qty_delta FROM market_deltas WHERE station_id = ?`, stationID)
	if err != nil {
		return nil, fmt.Errorf("read deltas: %w", err)
	}

	deltas := make(map[string]int, len(rows))
	for _, r := range rows {
		deltas[r.Commodity] = r.QtyDelta
	}
	return deltas, nil
}

// Overlay merges a station's trade deltas onto a baseline snapshot and
// returns the merged copy. The baseline is not modified; quantities floor
// at zero. Deltas for commodities the baseline no longer offers (tech
// regressions cannot happen, but catalog edits can) are dropped.
func (s *Store) Overlay(snap market.Snapshot) (market.Snapshot, error) {
	deltas, err := s.Deltas(snap.StationID)
	if err != nil {
		return market.Snapshot{}, err
	}

	merged := market.Snapshot{
		StationID: snap.StationID,
		Visit:     snap.Visit,
		Table:     make(map[string]market.CommodityState, len(snap.Table)),
	}
	for key, state := range snap.Table {
		if d, ok := deltas[key]; ok {
			state.Quantity += d
			if state.Quantity < 0 {
				state.Quantity = 0
			}
		}
		merged.Table[key] = state
	}
	return merged, nil
}
