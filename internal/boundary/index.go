package boundary

import (
	"math"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/spatial"
)

// Well-known geometry set names
const (
	SetPark           = "park"
	SetBufferZone     = "buffer_zone"
	SetVegetationBeds = "vegetation_beds"
	SetShoreline      = "shoreline"
)

// polyRef is a flattened view of one polygon with its bounding box and the
// feature it belongs to, precomputed for cheap candidate filtering
type polyRef struct {
	feature *models.Feature
	polygon *models.Polygon
	minLon  float64
	minLat  float64
	maxLon  float64
	maxLat  float64
}

// Index answers containment and proximity queries against named geometry
// sets. An Index is immutable after construction and safe for concurrent
// use; reloading boundary data means building a new Index (see Store).
type Index struct {
	sets map[string]*models.GeometrySet
	refs map[string][]polyRef
}

// NewIndex builds an index over the given geometry sets. Nil and empty sets
// are accepted; queries against them answer false.
func NewIndex(sets ...*models.GeometrySet) *Index {
	idx := &Index{
		sets: make(map[string]*models.GeometrySet),
		refs: make(map[string][]polyRef),
	}

	for _, set := range sets {
		if set == nil || set.Name == "" {
			continue
		}
		idx.sets[set.Name] = set

		var refs []polyRef
		for fi := range set.Features {
			f := &set.Features[fi]
			for pi := range f.Polygons {
				p := &f.Polygons[pi]
				minLon, minLat, maxLon, maxLat := spatial.BoundingBox(p.Outer)
				refs = append(refs, polyRef{
					feature: f,
					polygon: p,
					minLon:  minLon,
					minLat:  minLat,
					maxLon:  maxLon,
					maxLat:  maxLat,
				})
			}
		}
		idx.refs[set.Name] = refs
	}

	return idx
}

// Has reports whether the named set is loaded and non-empty.
// Absence means "feature unavailable", not "definitely outside".
func (x *Index) Has(name string) bool {
	return x != nil && len(x.refs[name]) > 0
}

// Sets returns the loaded geometry sets keyed by name
func (x *Index) Sets() map[string]*models.GeometrySet {
	if x == nil {
		return nil
	}
	return x.sets
}

// IsInside reports whether the point is contained by any polygon in the
// named set. An empty or unset set answers false.
func (x *Index) IsInside(point models.Coordinate, name string) bool {
	if x == nil {
		return false
	}
	for _, ref := range x.refs[name] {
		if point.Lon < ref.minLon || point.Lon > ref.maxLon ||
			point.Lat < ref.minLat || point.Lat > ref.maxLat {
			continue
		}
		if spatial.PointInPolygon(point, *ref.polygon) {
			return true
		}
	}
	return false
}

// IsNearBoundary reports whether the point is within thresholdMeters of any
// polygon's outer boundary in the named set. Used as a soft containment
// fallback when an explicit buffer-zone geometry does not exist.
func (x *Index) IsNearBoundary(point models.Coordinate, name string, thresholdMeters float64) bool {
	if x == nil || thresholdMeters <= 0 {
		return false
	}

	slackLat := thresholdMeters / spatial.MetersPerDegree
	cosLat := math.Cos(point.Lat * math.Pi / 180)
	slackLon := slackLat
	if cosLat > 0.01 {
		slackLon = slackLat / cosLat
	}

	for _, ref := range x.refs[name] {
		if point.Lon < ref.minLon-slackLon || point.Lon > ref.maxLon+slackLon ||
			point.Lat < ref.minLat-slackLat || point.Lat > ref.maxLat+slackLat {
			continue
		}
		if spatial.NearRingBoundary(point, ref.polygon.Outer, thresholdMeters) {
			return true
		}
	}
	return false
}

// FeatureAt returns the metadata of the first feature in the named set that
// contains the point, or nil when no feature does. Used for detailed
// violation descriptions (e.g. which vegetation bed and its condition).
func (x *Index) FeatureAt(point models.Coordinate, name string) *models.Feature {
	if x == nil {
		return nil
	}
	for _, ref := range x.refs[name] {
		if point.Lon < ref.minLon || point.Lon > ref.maxLon ||
			point.Lat < ref.minLat || point.Lat > ref.maxLat {
			continue
		}
		if spatial.PointInPolygon(point, *ref.polygon) {
			return ref.feature
		}
	}
	return nil
}

// MinBoundaryDistanceMeters returns the minimum great-circle distance from
// the point to any outer boundary in the named set, or +Inf when the set is
// empty. Not on the classification hot path; used for report fields.
func (x *Index) MinBoundaryDistanceMeters(point models.Coordinate, name string) float64 {
	min := math.Inf(1)
	if x == nil {
		return min
	}
	for _, ref := range x.refs[name] {
		if d := spatial.NearestRingPointMeters(point, ref.polygon.Outer); d < min {
			min = d
		}
	}
	return min
}
