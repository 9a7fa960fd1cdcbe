package boundary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// geoJSONCollection mirrors the subset of the GeoJSON FeatureCollection
// structure this service consumes
type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   geoJSONGeometry        `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadSetFile parses one GeoJSON file into a geometry set. Individual
// malformed features are skipped and surfaced as diagnostics rather than
// failing the whole load; only an unreadable or unparsable file is an error.
func LoadSetFile(path, name string) (*models.GeometrySet, []models.Diagnostic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read geometry file %s: %w", path, err)
	}

	var coll geoJSONCollection
	if err := json.Unmarshal(raw, &coll); err != nil {
		return nil, nil, fmt.Errorf("failed to parse geometry file %s: %w", path, err)
	}

	set := &models.GeometrySet{Name: name}
	var diags []models.Diagnostic

	for i, gf := range coll.Features {
		feature, err := parseFeature(gf, name, i)
		if err != nil {
			diags = append(diags, models.Diagnostic{
				Level:   "warning",
				Message: fmt.Sprintf("set %s: skipping feature %d: %v", name, i, err),
			})
			continue
		}
		set.Features = append(set.Features, *feature)
	}

	return set, diags, nil
}

func parseFeature(gf geoJSONFeature, setName string, index int) (*models.Feature, error) {
	var polygons []models.Polygon

	switch gf.Geometry.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(gf.Geometry.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("invalid Polygon coordinates: %w", err)
		}
		poly, err := buildPolygon(rings)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, *poly)

	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(gf.Geometry.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("invalid MultiPolygon coordinates: %w", err)
		}
		for _, rings := range multi {
			poly, err := buildPolygon(rings)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, *poly)
		}

	default:
		return nil, fmt.Errorf("unsupported geometry type %q", gf.Geometry.Type)
	}

	feature := &models.Feature{
		ID:       fmt.Sprintf("%s-%d", setName, index),
		Polygons: polygons,
	}

	if v, ok := gf.Properties["id"].(string); ok && v != "" {
		feature.ID = v
	}
	if v, ok := gf.Properties["name"].(string); ok {
		feature.Name = v
	}
	if v, ok := gf.Properties["condition"].(string); ok {
		feature.Condition = models.VegetationCondition(v)
	}

	return feature, nil
}

// buildPolygon converts GeoJSON [lon,lat] ring arrays into a polygon.
// GeoJSON rings repeat the first vertex at the end; the model's rings are
// implicitly closed, so the duplicate is dropped.
func buildPolygon(rings [][][]float64) (*models.Polygon, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon with no rings")
	}

	out := make([]models.Ring, 0, len(rings))
	for _, raw := range rings {
		ring, err := buildRing(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ring)
	}

	return &models.Polygon{Outer: out[0], Holes: out[1:]}, nil
}

func buildRing(raw [][]float64) (models.Ring, error) {
	ring := make(models.Ring, 0, len(raw))
	for _, pos := range raw {
		if len(pos) < 2 {
			return nil, fmt.Errorf("ring position with %d components", len(pos))
		}
		ring = append(ring, models.Coordinate{Lon: pos[0], Lat: pos[1]})
	}

	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("ring with %d distinct vertices", len(ring))
	}

	return ring, nil
}

// LoadIndex builds a boundary index from the configured set-name to file
// mappings. Unconfigured or missing sets are reported as warnings and left
// out; the resulting index treats them as "contains nothing".
func LoadIndex(paths map[string]string) (*Index, []models.Diagnostic) {
	var sets []*models.GeometrySet
	var diags []models.Diagnostic

	for _, name := range []string{SetPark, SetBufferZone, SetVegetationBeds, SetShoreline} {
		path := paths[name]
		if path == "" {
			diags = append(diags, models.Diagnostic{
				Level:   "warning",
				Message: fmt.Sprintf("geometry set %s not configured; related rules degrade to no-violation", name),
			})
			continue
		}

		set, setDiags, err := LoadSetFile(path, name)
		diags = append(diags, setDiags...)
		if err != nil {
			diags = append(diags, models.Diagnostic{
				Level:   "warning",
				Message: fmt.Sprintf("geometry set %s unavailable: %v", name, err),
			})
			continue
		}
		sets = append(sets, set)
	}

	return NewIndex(sets...), diags
}
