// Package model holds the shared wire and domain types: position
// reports coming in, decision records going out.
package model

import "fmt"

// Position is one position report. Accuracy is informational only —
// the engine does not gate on it.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// Validate rejects out-of-range coordinates. This runs before any
// engine state is touched, so a bad report can never corrupt a session.
func (p Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("model: latitude %g out of range [-90, 90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("model: longitude %g out of range [-180, 180]", p.Longitude)
	}
	return nil
}
