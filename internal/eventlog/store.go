// Package eventlog persists boundary events and escalation outcomes to
// a local sqlite database. It is the engine's log collaborator: the
// engine writes decisions through the Recorder interface and the status
// API and dashboard read summaries back out. Durability is this
// package's concern alone; the engine never fails on a log error.
package eventlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bluenet-io/bluenet/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS boundary_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	session_id TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	inside INTEGER NOT NULL,
	boundary_crossed INTEGER NOT NULL DEFAULT 0,
	crossing_direction TEXT NOT NULL DEFAULT 'none',
	distance_meters REAL,
	distance_known INTEGER NOT NULL DEFAULT 0,
	total_crossings INTEGER NOT NULL DEFAULT 0,
	escalation_authorized INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_events_ts ON boundary_events(ts);

CREATE TABLE IF NOT EXISTS escalations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	session_id TEXT NOT NULL,
	recipient TEXT,
	message TEXT,
	succeeded INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_escalations_ts ON escalations(ts);
`

// tsFormat is the persisted timestamp layout, UTC with millisecond
// precision. Lexicographic order equals time order, which the ts
// indexes rely on.
const tsFormat = "2006-01-02T15:04:05.000Z"

// Store is a sqlite-backed event log. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the event log database at path and applies
// the schema. WAL mode keeps readers (status API, dashboard) from
// blocking the observation write path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("eventlog: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	// Single writer connection; sqlite serializes writes anyway and
	// this avoids SQLITE_BUSY churn under concurrent observers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventlog: enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventlog: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordDecision appends one observation outcome. Implements the
// engine's Recorder interface.
func (s *Store) RecordDecision(rec model.DecisionRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO boundary_events
		(ts, session_id, latitude, longitude, inside, boundary_crossed,
		 crossing_direction, distance_meters, distance_known,
		 total_crossings, escalation_authorized)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC().Format(tsFormat),
		rec.SessionID,
		rec.Latitude,
		rec.Longitude,
		boolInt(rec.Inside),
		boolInt(rec.BoundaryCrossed),
		string(rec.CrossingDirection),
		rec.DistanceMeters,
		boolInt(rec.DistanceKnown),
		rec.TotalCrossings,
		boolInt(rec.EscalationAuthorized),
	)
	if err != nil {
		return fmt.Errorf("eventlog: insert event: %w", err)
	}
	return nil
}

// Escalation is one dispatch attempt outcome.
type Escalation struct {
	Timestamp time.Time
	SessionID string
	Recipient string
	Message   string
	Succeeded bool
}

// RecordEscalation appends one escalation dispatch outcome.
func (s *Store) RecordEscalation(esc Escalation) error {
	_, err := s.db.Exec(`
		INSERT INTO escalations (ts, session_id, recipient, message, succeeded)
		VALUES (?, ?, ?, ?, ?)`,
		esc.Timestamp.UTC().Format(tsFormat),
		esc.SessionID,
		esc.Recipient,
		esc.Message,
		boolInt(esc.Succeeded),
	)
	if err != nil {
		return fmt.Errorf("eventlog: insert escalation: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
