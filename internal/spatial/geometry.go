package spatial

import (
	"math"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// MetersPerDegree is the approximate length of one degree of latitude
const MetersPerDegree = 111320.0

// finite reports whether a coordinate has usable numeric components
func finite(c models.Coordinate) bool {
	return !math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0) &&
		!math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0)
}

// PointInRing checks containment using the even-odd ray casting rule.
// Rings with fewer than 3 vertices never contain anything. Points exactly
// on an edge may resolve either way; callers must not rely on the outcome.
func PointInRing(point models.Coordinate, ring models.Ring) bool {
	if len(ring) < 3 || !finite(point) {
		return false
	}

	inside := false
	j := len(ring) - 1

	for i := 0; i < len(ring); i++ {
		if ((ring[i].Lat > point.Lat) != (ring[j].Lat > point.Lat)) &&
			(point.Lon < (ring[j].Lon-ring[i].Lon)*(point.Lat-ring[i].Lat)/(ring[j].Lat-ring[i].Lat)+ring[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PointInPolygon checks containment in the outer ring, excluding holes.
// A point inside a hole is outside the polygon.
func PointInPolygon(point models.Coordinate, polygon models.Polygon) bool {
	if !PointInRing(point, polygon.Outer) {
		return false
	}
	for _, hole := range polygon.Holes {
		if PointInRing(point, hole) {
			return false
		}
	}
	return true
}

// SegmentDistanceSquaredMeters returns the squared minimum distance from
// point to segment [a,b], in square meters, computed in a local
// equirectangular frame centered on the point. Returning the square avoids
// a sqrt on the hot path; compare against squared thresholds.
func SegmentDistanceSquaredMeters(point, a, b models.Coordinate) float64 {
	latRad := point.Lat * math.Pi / 180
	kx := MetersPerDegree * math.Cos(latRad)
	ky := MetersPerDegree

	ax := (a.Lon - point.Lon) * kx
	ay := (a.Lat - point.Lat) * ky
	bx := (b.Lon - point.Lon) * kx
	by := (b.Lat - point.Lat) * ky

	dx := bx - ax
	dy := by - ay

	if dx == 0 && dy == 0 {
		return ax*ax + ay*ay
	}

	// Project the origin (the point) onto the segment, clamped to [0,1]
	t := -(ax*dx + ay*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx := ax + t*dx
	cy := ay + t*dy
	return cx*cx + cy*cy
}

// NearRingBoundary reports whether any edge of the ring is within
// thresholdMeters of the point, with early exit on the first qualifying edge.
func NearRingBoundary(point models.Coordinate, ring models.Ring, thresholdMeters float64) bool {
	if len(ring) < 2 || !finite(point) {
		return false
	}

	threshSq := thresholdMeters * thresholdMeters
	j := len(ring) - 1

	for i := 0; i < len(ring); i++ {
		if SegmentDistanceSquaredMeters(point, ring[j], ring[i]) <= threshSq {
			return true
		}
		j = i
	}

	return false
}

// MinDistanceToRingMeters returns the minimum distance from the point to the
// ring's boundary in meters, or +Inf for degenerate input.
func MinDistanceToRingMeters(point models.Coordinate, ring models.Ring) float64 {
	if len(ring) < 2 || !finite(point) {
		return math.Inf(1)
	}

	minSq := math.Inf(1)
	j := len(ring) - 1

	for i := 0; i < len(ring); i++ {
		if d := SegmentDistanceSquaredMeters(point, ring[j], ring[i]); d < minSq {
			minSq = d
		}
		j = i
	}

	return math.Sqrt(minSq)
}

// BoundingBox calculates the bounding box of a ring
// Returns (minLon, minLat, maxLon, maxLat)
func BoundingBox(ring models.Ring) (float64, float64, float64, float64) {
	if len(ring) == 0 {
		return 0, 0, 0, 0
	}

	minLon, maxLon := ring[0].Lon, ring[0].Lon
	minLat, maxLat := ring[0].Lat, ring[0].Lat

	for _, c := range ring[1:] {
		if c.Lon < minLon {
			minLon = c.Lon
		}
		if c.Lon > maxLon {
			maxLon = c.Lon
		}
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
	}

	return minLon, minLat, maxLon, maxLat
}
