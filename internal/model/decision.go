package model

import "time"

// Direction classifies a boundary crossing.
type Direction string

const (
	DirectionNone    Direction = "none"
	DirectionEntered Direction = "entered"
	DirectionExited  Direction = "exited"
)

// DecisionRecord is the outcome of one observation. It echoes the
// position, carries the containment verdict and crossing bookkeeping,
// and tells the caller whether an escalation attempt is authorized.
// Returned by value; never mutated after Observe returns it.
type DecisionRecord struct {
	SessionID            string    `json:"session_id"`
	Timestamp            time.Time `json:"timestamp"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	Inside               bool      `json:"inside"`
	BoundaryCrossed      bool      `json:"boundary_crossed"`
	CrossingDirection    Direction `json:"crossing_direction"`
	DistanceMeters       float64   `json:"distance_meters"`
	DistanceKnown        bool      `json:"distance_known"`
	TotalCrossings       uint64    `json:"total_crossings"`
	EscalationAuthorized bool      `json:"escalation_authorized"`
}
