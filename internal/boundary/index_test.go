package boundary

import (
	"testing"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// square builds a closed square ring from (lon,lat) with the given side in degrees
func square(lon, lat, side float64) models.Ring {
	return models.Ring{
		{Lon: lon, Lat: lat},
		{Lon: lon + side, Lat: lat},
		{Lon: lon + side, Lat: lat + side},
		{Lon: lon, Lat: lat + side},
	}
}

func testIndex() *Index {
	park := &models.GeometrySet{
		Name: SetPark,
		Features: []models.Feature{
			{ID: "park-main", Polygons: []models.Polygon{{Outer: square(16.0, 43.0, 0.1)}}},
		},
	}
	vegetation := &models.GeometrySet{
		Name: SetVegetationBeds,
		Features: []models.Feature{
			{
				ID:        "bed-a",
				Name:      "North bed",
				Condition: models.ConditionHealthy,
				Polygons:  []models.Polygon{{Outer: square(16.02, 43.02, 0.01)}},
			},
			{
				ID:        "bed-b",
				Name:      "South bed",
				Condition: models.ConditionDegraded,
				Polygons:  []models.Polygon{{Outer: square(16.06, 43.06, 0.01)}},
			},
		},
	}
	return NewIndex(park, vegetation)
}

func TestIndexIsInside(t *testing.T) {
	idx := testIndex()

	inside := models.Coordinate{Lon: 16.05, Lat: 43.05}
	if !idx.IsInside(inside, SetPark) {
		t.Error("point inside the park polygon should be contained")
	}

	outside := models.Coordinate{Lon: 16.5, Lat: 43.5}
	if idx.IsInside(outside, SetPark) {
		t.Error("point outside the park polygon should not be contained")
	}

	// Unset set answers false, never errors
	if idx.IsInside(inside, SetBufferZone) {
		t.Error("unset geometry set should contain nothing")
	}

	var nilIdx *Index
	if nilIdx.IsInside(inside, SetPark) {
		t.Error("nil index should contain nothing")
	}
}

func TestIndexHas(t *testing.T) {
	idx := testIndex()

	if !idx.Has(SetPark) {
		t.Error("park set should be available")
	}
	if idx.Has(SetBufferZone) {
		t.Error("buffer zone set should be unavailable")
	}
	if idx.Has(SetShoreline) {
		t.Error("shoreline set should be unavailable")
	}

	empty := NewIndex(&models.GeometrySet{Name: SetPark})
	if empty.Has(SetPark) {
		t.Error("an empty set should report unavailable")
	}
}

func TestIndexIsNearBoundary(t *testing.T) {
	idx := testIndex()

	// ~55 m east of the park's east edge (lon 16.1) at lat 43
	near := models.Coordinate{Lon: 16.10068, Lat: 43.05}
	if !idx.IsNearBoundary(near, SetPark, 100) {
		t.Error("point ~55 m outside the park should be near at 100 m")
	}
	if idx.IsNearBoundary(near, SetPark, 10) {
		t.Error("point ~55 m outside the park should not be near at 10 m")
	}

	far := models.Coordinate{Lon: 17.0, Lat: 43.05}
	if idx.IsNearBoundary(far, SetPark, 100) {
		t.Error("distant point should not be near the boundary")
	}

	if idx.IsNearBoundary(near, SetPark, 0) {
		t.Error("non-positive threshold should never match")
	}
	if idx.IsNearBoundary(near, SetBufferZone, 100) {
		t.Error("unset set should never be near")
	}
}

func TestIndexFeatureAt(t *testing.T) {
	idx := testIndex()

	f := idx.FeatureAt(models.Coordinate{Lon: 16.025, Lat: 43.025}, SetVegetationBeds)
	if f == nil {
		t.Fatal("expected a vegetation feature at the point")
	}
	if f.ID != "bed-a" || f.Condition != models.ConditionHealthy {
		t.Errorf("got feature %s (%s), want bed-a (healthy)", f.ID, f.Condition)
	}

	f = idx.FeatureAt(models.Coordinate{Lon: 16.065, Lat: 43.065}, SetVegetationBeds)
	if f == nil || f.ID != "bed-b" {
		t.Fatalf("expected bed-b at the point, got %v", f)
	}

	if f := idx.FeatureAt(models.Coordinate{Lon: 16.04, Lat: 43.04}, SetVegetationBeds); f != nil {
		t.Errorf("expected no feature between the beds, got %s", f.ID)
	}
}

func TestIndexHoleExclusion(t *testing.T) {
	park := &models.GeometrySet{
		Name: SetPark,
		Features: []models.Feature{
			{
				ID: "park-with-lagoon",
				Polygons: []models.Polygon{{
					Outer: square(0, 0, 1),
					Holes: []models.Ring{square(0.4, 0.4, 0.2)},
				}},
			},
		},
	}
	idx := NewIndex(park)

	if !idx.IsInside(models.Coordinate{Lon: 0.1, Lat: 0.1}, SetPark) {
		t.Error("point outside the hole should be inside the park")
	}
	if idx.IsInside(models.Coordinate{Lon: 0.5, Lat: 0.5}, SetPark) {
		t.Error("point inside the hole should not be inside the park")
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore(nil)
	if store.Current() != nil {
		t.Fatal("empty store should hold no index")
	}

	first := testIndex()
	store.Swap(first)
	if store.Current() != first {
		t.Fatal("store should return the swapped-in index")
	}

	// A snapshot taken before the swap keeps answering from the old index
	snapshot := store.Current()
	second := NewIndex()
	store.Swap(second)

	if store.Current() != second {
		t.Fatal("store should return the new index after swap")
	}
	if !snapshot.IsInside(models.Coordinate{Lon: 16.05, Lat: 43.05}, SetPark) {
		t.Error("pre-swap snapshot should keep its geometry")
	}

	sets, loadedAt := store.Status()
	if len(sets) != 0 {
		t.Errorf("empty index should report no sets, got %d", len(sets))
	}
	if loadedAt == nil {
		t.Error("status should report a load time after a swap")
	}
}
