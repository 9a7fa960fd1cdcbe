package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	KnotsToMetersPerSecond = 0.514444
)

// HaversineDistance calculates the great-circle distance between two points
// in meters using the Haversine formula
func HaversineDistance(a, b models.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Bearing calculates the initial bearing (forward azimuth) from a to b.
// Returns bearing in degrees (0-360), where 0 is North, 90 is East, etc.
func Bearing(a, b models.Coordinate) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	lonDiff := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x)

	bearingDeg := bearing * 180 / math.Pi
	return math.Mod(bearingDeg+360, 360)
}

// NearestRingPointMeters returns the great-circle distance in meters from
// the point to the closest location on the ring boundary. The closest
// location is found edge-by-edge in a local projected frame, then the
// winning candidate is measured precisely on the sphere.
func NearestRingPointMeters(point models.Coordinate, ring models.Ring) float64 {
	if len(ring) < 2 || !finite(point) {
		return math.Inf(1)
	}

	latRad := point.Lat * math.Pi / 180
	kx := MetersPerDegree * math.Cos(latRad)
	ky := MetersPerDegree

	minSq := math.Inf(1)
	var nearest models.Coordinate

	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[j], ring[i]
		j = i

		ax := (a.Lon - point.Lon) * kx
		ay := (a.Lat - point.Lat) * ky
		bx := (b.Lon - point.Lon) * kx
		by := (b.Lat - point.Lat) * ky

		dx := bx - ax
		dy := by - ay

		t := 0.0
		if dx != 0 || dy != 0 {
			t = -(ax*dx + ay*dy) / (dx*dx + dy*dy)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}

		cx := ax + t*dx
		cy := ay + t*dy
		if d := cx*cx + cy*cy; d < minSq {
			minSq = d
			nearest = models.Coordinate{
				Lon: a.Lon + t*(b.Lon-a.Lon),
				Lat: a.Lat + t*(b.Lat-a.Lat),
			}
		}
	}

	if math.IsInf(minSq, 1) {
		return minSq
	}
	return HaversineDistance(point, nearest)
}
