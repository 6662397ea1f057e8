// Package geojson materializes region and boundary-line geometry from
// GeoJSON files. Parsing happens once at startup; malformed input fails
// construction of the whole system rather than surfacing per
// observation.
package geojson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bluenet-io/bluenet/internal/geo"
)

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type feature struct {
	Type     string   `json:"type"`
	Geometry geometry `json:"geometry"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// LoadPolygons reads Polygon or MultiPolygon geometry from a GeoJSON
// file. Accepts a bare geometry, a Feature, or a FeatureCollection
// (all polygon features are collected).
func LoadPolygons(path string) ([]geo.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geojson: read %s: %w", path, err)
	}
	polys, err := ParsePolygons(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: %s: %w", path, err)
	}
	return polys, nil
}

// ParsePolygons extracts polygon parts from raw GeoJSON.
func ParsePolygons(data []byte) ([]geo.Polygon, error) {
	geoms, err := collectGeometries(data)
	if err != nil {
		return nil, err
	}

	var parts []geo.Polygon
	for _, g := range geoms {
		switch g.Type {
		case "Polygon":
			poly, err := decodePolygon(g.Coordinates)
			if err != nil {
				return nil, err
			}
			parts = append(parts, poly)
		case "MultiPolygon":
			var raw [][][][2]float64
			if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
				return nil, fmt.Errorf("decode MultiPolygon coordinates: %w", err)
			}
			for _, rings := range raw {
				parts = append(parts, ringsToPolygon(rings))
			}
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no polygon geometry found")
	}
	return parts, nil
}

// LoadLines reads LineString geometry from a GeoJSON file. Accepts a
// bare geometry, a Feature, or a FeatureCollection. A file with no
// line features yields an empty slice, not an error — reference lines
// are optional.
func LoadLines(path string) ([]geo.Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geojson: read %s: %w", path, err)
	}
	lines, err := ParseLines(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: %s: %w", path, err)
	}
	return lines, nil
}

// ParseLines extracts boundary lines from raw GeoJSON.
func ParseLines(data []byte) ([]geo.Line, error) {
	geoms, err := collectGeometries(data)
	if err != nil {
		return nil, err
	}

	var lines []geo.Line
	for _, g := range geoms {
		switch g.Type {
		case "LineString":
			var raw [][2]float64
			if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
				return nil, fmt.Errorf("decode LineString coordinates: %w", err)
			}
			lines = append(lines, pointsToLine(raw))
		case "MultiLineString":
			var raw [][][2]float64
			if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
				return nil, fmt.Errorf("decode MultiLineString coordinates: %w", err)
			}
			for _, pts := range raw {
				lines = append(lines, pointsToLine(pts))
			}
		}
	}
	return lines, nil
}

// collectGeometries flattens any of the accepted top-level shapes into
// a list of geometries.
func collectGeometries(data []byte) ([]geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	switch probe.Type {
	case "FeatureCollection":
		var fc featureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("decode FeatureCollection: %w", err)
		}
		geoms := make([]geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
		return geoms, nil
	case "Feature":
		var f feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode Feature: %w", err)
		}
		return []geometry{f.Geometry}, nil
	case "Polygon", "MultiPolygon", "LineString", "MultiLineString":
		var g geometry
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		return []geometry{g}, nil
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %q", probe.Type)
	}
}

func decodePolygon(coords json.RawMessage) (geo.Polygon, error) {
	var raw [][][2]float64
	if err := json.Unmarshal(coords, &raw); err != nil {
		return nil, fmt.Errorf("decode Polygon coordinates: %w", err)
	}
	return ringsToPolygon(raw), nil
}

func ringsToPolygon(rings [][][2]float64) geo.Polygon {
	poly := make(geo.Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(geo.Ring, 0, len(ring))
		for _, c := range ring {
			r = append(r, geo.Point{Lon: c[0], Lat: c[1]})
		}
		poly = append(poly, r)
	}
	return poly
}

func pointsToLine(pts [][2]float64) geo.Line {
	line := make(geo.Line, 0, len(pts))
	for _, c := range pts {
		line = append(line, geo.Point{Lon: c[0], Lat: c[1]})
	}
	return line
}

// LoadRegion loads polygon geometry from zonePath and, if linePath is
// non-empty, boundary lines from linePath, then builds the validated
// region. This is the single construction path the rest of the system
// uses.
func LoadRegion(zonePath, linePath string) (*geo.Region, error) {
	parts, err := LoadPolygons(zonePath)
	if err != nil {
		return nil, err
	}
	var lines []geo.Line
	if linePath != "" {
		lines, err = LoadLines(linePath)
		if err != nil {
			return nil, err
		}
	}
	return geo.NewRegion(parts, lines)
}
