package geo

// Contains reports whether the point lies strictly inside the region.
// The test is planar even-odd ray casting over raw (lon, lat) degrees —
// no projection. Containment is boundary-exclusive: a point exactly on
// a ring edge or vertex classifies as outside, matching the source
// system's containment semantics. A point inside a hole ring is
// outside.
func (r *Region) Contains(lat, lon float64) bool {
	p := Point{Lon: lon, Lat: lat}
	for _, poly := range r.parts {
		if polygonContains(poly, p) {
			return true
		}
	}
	return false
}

func polygonContains(poly Polygon, p Point) bool {
	if onRing(poly[0], p) || !ringContains(poly[0], p) {
		return false
	}
	// Holes: on a hole edge or inside a hole means outside the polygon.
	for _, hole := range poly[1:] {
		if onRing(hole, p) || ringContains(hole, p) {
			return false
		}
	}
	return true
}

// ringContains is the even-odd crossing test. A horizontal ray is cast
// from p toward +lon; an odd number of edge crossings means inside.
func ringContains(ring Ring, p Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			cross := (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if p.Lon < cross {
				inside = !inside
			}
		}
	}
	return inside
}

// onRing reports whether p lies exactly on one of the ring's edges.
func onRing(ring Ring, p Point) bool {
	for i := 1; i < len(ring); i++ {
		if onSegment(ring[i-1], ring[i], p) {
			return true
		}
	}
	return false
}

// onSegment reports whether p lies on the closed segment a–b, tested in
// the planar (lon, lat) degree space the containment test runs in.
func onSegment(a, b, p Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if cross != 0 {
		return false
	}
	if p.Lon < min(a.Lon, b.Lon) || p.Lon > max(a.Lon, b.Lon) {
		return false
	}
	if p.Lat < min(a.Lat, b.Lat) || p.Lat > max(a.Lat, b.Lat) {
		return false
	}
	return true
}
