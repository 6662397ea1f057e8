package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bluenet-io/bluenet/internal/model"
)

// Summary aggregates the log for the status API and dashboard.
type Summary struct {
	Latest                *model.DecisionRecord
	TotalCrossings        int
	Violations            int
	Escalations           int
	SuccessfulEscalations int
}

// SuccessRate returns the escalation success percentage, 100 when no
// escalations were attempted yet.
func (s Summary) SuccessRate() int {
	if s.Escalations == 0 {
		return 100
	}
	return s.SuccessfulEscalations * 100 / s.Escalations
}

// Summarize computes the current summary.
func (s *Store) Summarize() (Summary, error) {
	var out Summary

	latest, err := s.RecentEvents(1)
	if err != nil {
		return Summary{}, err
	}
	if len(latest) == 1 {
		out.Latest = &latest[0]
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM boundary_events WHERE boundary_crossed = 1", &out.TotalCrossings},
		{"SELECT COUNT(*) FROM boundary_events WHERE inside = 0", &out.Violations},
		{"SELECT COUNT(*) FROM escalations", &out.Escalations},
		{"SELECT COUNT(*) FROM escalations WHERE succeeded = 1", &out.SuccessfulEscalations},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return Summary{}, fmt.Errorf("eventlog: summarize: %w", err)
		}
	}

	return out, nil
}

// RecentEvents returns the most recent n events, newest first.
func (s *Store) RecentEvents(n int) ([]model.DecisionRecord, error) {
	rows, err := s.db.Query(`
		SELECT ts, session_id, latitude, longitude, inside,
		       boundary_crossed, crossing_direction, distance_meters,
		       distance_known, total_crossings, escalation_authorized
		FROM boundary_events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("eventlog: recent events: %w", err)
	}
	defer rows.Close()

	var recs []model.DecisionRecord
	for rows.Next() {
		rec, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("eventlog: recent events: %w", err)
	}
	return recs, nil
}

func scanEvent(rows *sql.Rows) (model.DecisionRecord, error) {
	var (
		rec                  model.DecisionRecord
		ts, direction        string
		inside, crossed      int
		distKnown, escalated int
		distance             sql.NullFloat64
	)
	err := rows.Scan(&ts, &rec.SessionID, &rec.Latitude, &rec.Longitude,
		&inside, &crossed, &direction, &distance, &distKnown,
		&rec.TotalCrossings, &escalated)
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("eventlog: scan event: %w", err)
	}

	when, err := time.Parse(tsFormat, ts)
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("eventlog: parse ts %q: %w", ts, err)
	}
	rec.Timestamp = when
	rec.Inside = inside == 1
	rec.BoundaryCrossed = crossed == 1
	rec.CrossingDirection = model.Direction(direction)
	rec.DistanceMeters = distance.Float64
	rec.DistanceKnown = distKnown == 1
	rec.EscalationAuthorized = escalated == 1
	return rec, nil
}
