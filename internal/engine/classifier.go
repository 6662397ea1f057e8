// Package engine is the boundary crossing detection and escalation
// core. One engine instance tracks one monitoring session: containment
// at the last observation, crossing count, and the escalation quota and
// cooldown for the current episode. All session state is mutated under
// a single mutex so that classification, transition detection, and
// throttle evaluation for one observation are indivisible.
package engine

// Classifier is the geometry capability the engine runs against:
// containment plus nearest-boundary distance. *geo.Region satisfies it;
// tests substitute simplified doubles without touching the state
// machine.
type Classifier interface {
	// Contains reports whether the position lies inside the region.
	Contains(lat, lon float64) bool

	// DistanceToBoundary returns the minimum distance in meters from
	// the position to the reference boundary lines, or 0 when no lines
	// are configured.
	DistanceToBoundary(lat, lon float64) float64

	// HasReferenceLines distinguishes a true zero distance from the
	// "no reference line configured" sentinel.
	HasReferenceLines() bool
}
