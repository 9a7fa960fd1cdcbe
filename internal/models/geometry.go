package models

// Coordinate represents a WGS84 position in decimal degrees
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Ring is an ordered sequence of coordinates, implicitly closed
// (the last vertex connects back to the first)
type Ring []Coordinate

// Polygon is one outer ring plus zero or more hole rings
type Polygon struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// VegetationCondition classifies the state of a protected vegetation bed
type VegetationCondition string

// Vegetation condition tags carried by vegetation-bed features
const (
	ConditionHealthy  VegetationCondition = "healthy"
	ConditionDegraded VegetationCondition = "degraded"
	ConditionDead     VegetationCondition = "dead"
	ConditionStandard VegetationCondition = "standard"
)

// Feature is a single named geometry within a set, with classification metadata
type Feature struct {
	ID        string              `json:"id"`
	Name      string              `json:"name,omitempty"`
	Condition VegetationCondition `json:"condition,omitempty"`
	Polygons  []Polygon           `json:"polygons"`
}

// GeometrySet is a named collection of features representing one semantic
// boundary (park, buffer zone, vegetation beds, shoreline).
// A GeometrySet is immutable after construction; reloading boundary data
// means building a new set, never mutating one in place.
type GeometrySet struct {
	Name     string    `json:"name"`
	Features []Feature `json:"features"`
}

// Empty reports whether the set carries no geometry at all
func (s *GeometrySet) Empty() bool {
	return s == nil || len(s.Features) == 0
}

// PolygonCount returns the total number of polygons across all features
func (s *GeometrySet) PolygonCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, f := range s.Features {
		n += len(f.Polygons)
	}
	return n
}
