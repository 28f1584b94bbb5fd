package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS surge_events (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			symbol           TEXT NOT NULL,
			direction        TEXT,
			price            REAL,
			price_change_pct REAL,
			volume_ratio     REAL,
			notified         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_surge_symbol_ts ON surge_events(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS zone_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			side           TEXT,
			upper          REAL,
			lower          REAL,
			middle         REAL,
			touch_count    INTEGER,
			strength       REAL,
			distance_pct   REAL,
			confidence     REAL,
			interpretation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_zone_symbol_ts ON zone_snapshots(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSurge(evt *SurgeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notified := 0
	if evt.Notified {
		notified = 1
	}
	_, err := r.db.Exec(`INSERT INTO surge_events
		(id, timestamp, symbol, direction, price, price_change_pct, volume_ratio, notified)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.ID, evt.Time.Unix(), evt.Symbol, string(evt.Direction),
		evt.Price, evt.PriceChangePct, evt.VolumeRatio, notified,
	)
	return err
}

func (r *SQLiteRecorder) RecordZones(symbol string, at time.Time, zones []ZoneRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for _, z := range zones {
		if _, err := tx.Exec(`INSERT INTO zone_snapshots
			(timestamp, symbol, side, upper, lower, middle, touch_count, strength, distance_pct, confidence, interpretation)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			at.Unix(), symbol, z.Side, z.Upper, z.Lower, z.Middle,
			z.TouchCount, z.Strength, z.DistancePct, z.Confidence, z.Interpretation,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
