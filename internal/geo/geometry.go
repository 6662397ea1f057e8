// Package geo holds the immutable geometry the engine is built on:
// the monitored region polygon and the reference boundary lines.
// All coordinates are geographic degrees, stored as (lon, lat) pairs
// to match the source GeoJSON axis order.
package geo

import (
	"errors"
	"fmt"
)

// Point is a geographic coordinate in degrees, GeoJSON axis order.
type Point struct {
	Lon float64
	Lat float64
}

// Ring is a closed sequence of points. The first and last point must be
// equal. Rings are assumed simple (no self-intersection); that is not
// validated here.
type Ring []Point

// Polygon is one or more rings. The first ring is the outer boundary,
// any further rings are holes.
type Polygon []Ring

// Line is an ordered open sequence of two or more points, used only for
// distance computation, never for containment.
type Line []Point

// Region is the monitored area: one or more polygon parts plus zero or
// more reference boundary lines. Immutable after construction.
type Region struct {
	parts []Polygon
	lines []Line
}

var (
	// ErrNoPolygon is returned when a region is built without any polygon part.
	ErrNoPolygon = errors.New("geo: region has no polygon")
)

// NewRegion validates the supplied geometry and returns a Region.
// Malformed geometry is a construction-time failure: the engine must
// never run against a half-valid region.
func NewRegion(parts []Polygon, lines []Line) (*Region, error) {
	if len(parts) == 0 {
		return nil, ErrNoPolygon
	}
	for pi, poly := range parts {
		if len(poly) == 0 {
			return nil, fmt.Errorf("geo: polygon %d has no rings", pi)
		}
		for ri, ring := range poly {
			if err := validateRing(ring); err != nil {
				return nil, fmt.Errorf("geo: polygon %d ring %d: %w", pi, ri, err)
			}
		}
	}
	for li, line := range lines {
		if len(line) < 2 {
			return nil, fmt.Errorf("geo: boundary line %d has %d points, need at least 2", li, len(line))
		}
		for _, p := range line {
			if err := validatePoint(p); err != nil {
				return nil, fmt.Errorf("geo: boundary line %d: %w", li, err)
			}
		}
	}

	return &Region{parts: clonePolygons(parts), lines: cloneLines(lines)}, nil
}

func validateRing(ring Ring) error {
	if len(ring) < 4 {
		return fmt.Errorf("ring has %d points, need at least 4", len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first != last {
		return fmt.Errorf("ring is not closed: first (%g,%g) != last (%g,%g)",
			first.Lon, first.Lat, last.Lon, last.Lat)
	}
	for _, p := range ring {
		if err := validatePoint(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePoint(p Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %g out of range [-180, 180]", p.Lon)
	}
	return nil
}

// HasReferenceLines reports whether any boundary line was configured.
// When false, DistanceToBoundary returns the 0 sentinel and callers
// must not read it as true zero proximity.
func (r *Region) HasReferenceLines() bool {
	return len(r.lines) > 0
}

// LineCount returns the number of configured boundary lines.
func (r *Region) LineCount() int {
	return len(r.lines)
}

// Deep copies keep the region immutable even if the caller mutates the
// slices it built the region from.

func clonePolygons(parts []Polygon) []Polygon {
	out := make([]Polygon, len(parts))
	for i, poly := range parts {
		cp := make(Polygon, len(poly))
		for j, ring := range poly {
			cr := make(Ring, len(ring))
			copy(cr, ring)
			cp[j] = cr
		}
		out[i] = cp
	}
	return out
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		cl := make(Line, len(line))
		copy(cl, line)
		out[i] = cl
	}
	return out
}
