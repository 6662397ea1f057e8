package geo

import "math"

// earthRadiusMeters is the mean spherical earth radius.
const earthRadiusMeters = 6371.0 * 1000

// DistanceToBoundary returns the minimum great-circle distance in
// meters from the position to any vertex of any boundary line.
//
// Known approximation: this is vertex-to-point distance, not true
// point-to-segment projection. A position abeam the middle of a long
// segment reads farther than it is. Downstream alert thresholds were
// tuned against this behavior, so it is kept deliberately; callers must
// not treat the value as exact.
//
// With no boundary lines configured the result is 0, a sentinel for
// "no reference available" — check HasReferenceLines to tell it apart
// from a true zero.
func (r *Region) DistanceToBoundary(lat, lon float64) float64 {
	minDist := math.Inf(1)
	for _, line := range r.lines {
		for _, v := range line {
			d := Haversine(lat, lon, v.Lat, v.Lon)
			if d < minDist {
				minDist = d
			}
		}
	}
	if math.IsInf(minDist, 1) {
		return 0
	}
	return minDist
}

// Haversine returns the great-circle distance in meters between two
// geographic points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	rLat1 := lat1 * degToRad
	rLat2 := lat2 * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(rLat1)*math.Cos(rLat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
