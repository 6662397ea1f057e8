// Package feed produces synthetic position reports for exercising the
// boundary engine without a live GPS source. A scenario is an ordered
// list of named waypoints; the runner replays them on a ticker with
// GPS-like jitter, feeding the same Observe path as real callers.
package feed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Waypoint is one scenario position held for a dwell period.
type Waypoint struct {
	Name      string        `yaml:"name"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	Inside    bool          `yaml:"inside"`   // expected containment, informational
	Duration  time.Duration `yaml:"duration"` // dwell before advancing
}

// Scenario is a replayable sequence of waypoints.
type Scenario struct {
	Name      string     `yaml:"name"`
	Waypoints []Waypoint `yaml:"waypoints"`
}

// Builtin returns the default boundary-crossing scenario: a track that
// starts deep inside the demo zone, approaches the western boundary,
// crosses out, loiters outside, and returns.
func Builtin() *Scenario {
	return &Scenario{
		Name: "demo-boundary-crossing",
		Waypoints: []Waypoint{
			{Name: "inside_zone", Latitude: 22.5, Longitude: 69.0, Inside: true, Duration: 8 * time.Second},
			{Name: "approaching_boundary", Latitude: 23.95, Longitude: 68.05, Inside: true, Duration: 6 * time.Second},
			{Name: "at_boundary_line", Latitude: 24.0, Longitude: 68.001, Inside: true, Duration: 4 * time.Second},
			{Name: "crossed_boundary", Latitude: 24.05, Longitude: 67.95, Inside: false, Duration: 8 * time.Second},
			{Name: "deep_outside", Latitude: 24.2, Longitude: 67.8, Inside: false, Duration: 6 * time.Second},
			{Name: "returning", Latitude: 24.0, Longitude: 68.001, Inside: true, Duration: 4 * time.Second},
			{Name: "back_inside", Latitude: 23.8, Longitude: 68.2, Inside: true, Duration: 10 * time.Second},
		},
	}
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feed: read %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("feed: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("feed: %s: %w", path, err)
	}
	return &s, nil
}

// Validate rejects scenarios the runner cannot replay.
func (s *Scenario) Validate() error {
	if len(s.Waypoints) == 0 {
		return fmt.Errorf("scenario has no waypoints")
	}
	for i, w := range s.Waypoints {
		if w.Duration <= 0 {
			return fmt.Errorf("waypoint %d (%s): duration must be positive", i, w.Name)
		}
		if w.Latitude < -90 || w.Latitude > 90 || w.Longitude < -180 || w.Longitude > 180 {
			return fmt.Errorf("waypoint %d (%s): coordinates out of range", i, w.Name)
		}
	}
	return nil
}
