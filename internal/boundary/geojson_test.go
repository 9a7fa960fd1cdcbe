package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

const vegetationFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"id": "bed-1", "name": "East bed", "condition": "degraded"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [
					[[16.0, 43.0], [16.1, 43.0], [16.1, 43.1], [16.0, 43.1], [16.0, 43.0]],
					[[16.04, 43.04], [16.06, 43.04], [16.06, 43.06], [16.04, 43.06], [16.04, 43.04]]
				]
			}
		},
		{
			"type": "Feature",
			"properties": {"name": "Twin beds"},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[17.0, 43.0], [17.1, 43.0], [17.1, 43.1], [17.0, 43.0]]],
					[[[18.0, 43.0], [18.1, 43.0], [18.1, 43.1], [18.0, 43.0]]]
				]
			}
		},
		{
			"type": "Feature",
			"properties": {"name": "broken"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[16.0, 43.0], [16.1, 43.0]]]
			}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "Point", "coordinates": [16.0, 43.0]}
		}
	]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "set.geojson")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadSetFile(t *testing.T) {
	path := writeFixture(t, vegetationFixture)

	set, diags, err := LoadSetFile(path, SetVegetationBeds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two valid features survive; the short ring and the Point are skipped
	if len(set.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(set.Features))
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}

	first := set.Features[0]
	if first.ID != "bed-1" || first.Name != "East bed" || first.Condition != models.ConditionDegraded {
		t.Errorf("unexpected first feature: %+v", first)
	}
	if len(first.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(first.Polygons))
	}

	// GeoJSON's closing vertex is dropped; rings are implicitly closed
	poly := first.Polygons[0]
	if len(poly.Outer) != 4 {
		t.Errorf("outer ring has %d vertices, want 4", len(poly.Outer))
	}
	if len(poly.Holes) != 1 || len(poly.Holes[0]) != 4 {
		t.Errorf("expected one 4-vertex hole, got %+v", poly.Holes)
	}

	second := set.Features[1]
	if len(second.Polygons) != 2 {
		t.Errorf("MultiPolygon should yield 2 polygons, got %d", len(second.Polygons))
	}
}

func TestLoadSetFileErrors(t *testing.T) {
	if _, _, err := LoadSetFile("/nonexistent/park.geojson", SetPark); err == nil {
		t.Error("missing file should be an error")
	}

	path := writeFixture(t, "{not json")
	if _, _, err := LoadSetFile(path, SetPark); err == nil {
		t.Error("unparsable file should be an error")
	}
}

func TestLoadIndex(t *testing.T) {
	path := writeFixture(t, vegetationFixture)

	idx, diags := LoadIndex(map[string]string{
		SetVegetationBeds: path,
	})

	if !idx.Has(SetVegetationBeds) {
		t.Error("vegetation set should be loaded")
	}
	if idx.Has(SetPark) {
		t.Error("unconfigured park set should be unavailable")
	}

	// Unconfigured park, buffer and shoreline sets each warn, plus the two
	// skipped-feature warnings from the vegetation file
	warnings := 0
	for _, d := range diags {
		if d.Level == "warning" {
			warnings++
		}
	}
	if warnings != 5 {
		t.Errorf("expected 5 warnings, got %d: %v", warnings, diags)
	}

	inside := models.Coordinate{Lon: 16.02, Lat: 43.02}
	if !idx.IsInside(inside, SetVegetationBeds) {
		t.Error("loaded geometry should answer containment")
	}
}
