package repository

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/callmeahab/vessel-tracker-sub000/internal/database"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// A fresh connection would see a fresh empty :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.NewMigrationManager(db).RunMigrations(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func testSample(registryID string, observedAt time.Time, speed float64) models.VesselSample {
	return models.VesselSample{
		RegistryID: registryID,
		Name:       "Vessel " + registryID,
		Position:   models.Coordinate{Lon: 16.05, Lat: 43.05},
		SpeedKnots: speed,
		ObservedAt: observedAt,
	}
}

func TestPositionInsertAndLatest(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	course := 182.5
	older := testSample("HR-0001", base, 3.0)
	older.CourseDeg = &course
	newer := testSample("HR-0001", base.Add(5*time.Minute), 4.5)
	other := testSample("HR-0002", base.Add(time.Minute), 0.2)

	if err := repo.InsertBatch([]models.VesselSample{older, newer, other}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	latest, err := repo.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("got %d latest positions, want 2 (one per vessel)", len(latest))
	}

	// Ordered by registry id
	if latest[0].RegistryID != "HR-0001" || latest[1].RegistryID != "HR-0002" {
		t.Fatalf("unexpected order: %s, %s", latest[0].RegistryID, latest[1].RegistryID)
	}
	if latest[0].SpeedKnots != 4.5 {
		t.Errorf("latest HR-0001 speed = %v, want the newer sample's 4.5", latest[0].SpeedKnots)
	}
	if latest[0].ObservedAt != base.Add(5*time.Minute).Unix() {
		t.Errorf("latest HR-0001 observedAt = %d, want %d", latest[0].ObservedAt, base.Add(5*time.Minute).Unix())
	}
}

func TestPositionHistoryFilters(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	var samples []models.VesselSample
	for i := 0; i < 10; i++ {
		s := testSample("HR-0001", base.Add(time.Duration(i)*time.Minute), float64(i))
		samples = append(samples, s)
	}
	samples = append(samples, testSample("HR-0002", base, 7.0))

	if err := repo.InsertBatch(samples); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	resp, err := repo.GetPositions(models.PositionFilter{RegistryID: "HR-0001", MinSpeed: 5.0})
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("total = %d, want 5 positions at >= 5 kn", resp.Total)
	}
	for _, p := range resp.Data {
		if p.RegistryID != "HR-0001" || p.SpeedKnots < 5.0 {
			t.Errorf("filter leaked record %+v", p)
		}
	}

	// Time window covering minutes 2..4 inclusive
	resp, err = repo.GetPositions(models.PositionFilter{
		RegistryID: "HR-0001",
		StartTime:  base.Add(2 * time.Minute).Unix(),
		EndTime:    base.Add(4 * time.Minute).Unix(),
	})
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("time-window total = %d, want 3", resp.Total)
	}
}

func TestPositionPagination(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	var samples []models.VesselSample
	for i := 0; i < 7; i++ {
		samples = append(samples, testSample("HR-0001", base.Add(time.Duration(i)*time.Minute), 1.0))
	}
	if err := repo.InsertBatch(samples); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	resp, err := repo.GetPositions(models.PositionFilter{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if resp.Total != 7 || resp.TotalPages != 3 || resp.Page != 2 {
		t.Errorf("pagination metadata = total %d pages %d page %d, want 7/3/2", resp.Total, resp.TotalPages, resp.Page)
	}
	if len(resp.Data) != 3 {
		t.Errorf("page 2 has %d records, want 3", len(resp.Data))
	}
	// Newest first: page 2 of size 3 starts at the 4th newest (minute 3)
	if resp.Data[0].ObservedAt != base.Add(3*time.Minute).Unix() {
		t.Errorf("page 2 first record observedAt = %d, want minute 3", resp.Data[0].ObservedAt)
	}
}

func classificationFixture(observedAt time.Time) []models.ClassificationResult {
	speed := 0.3
	distance := 42.0
	return []models.ClassificationResult{
		{
			Sample: testSample("HR-0001", observedAt, 0.3),
			Violations: []models.Violation{
				{
					Type:        models.ViolationAnchoringOnVegetation,
					Severity:    models.SeverityCritical,
					Title:       "Anchoring on protected vegetation",
					Description: "anchored over a bed",
					SpeedKnots:  &speed,
				},
			},
			MaxSeverity: models.SeverityCritical,
		},
		{
			Sample: testSample("HR-0002", observedAt, 3.0),
			Violations: []models.Violation{
				{
					Type:           models.ViolationBufferZoneEntry,
					Severity:       models.SeverityMedium,
					Title:          "Buffer zone entry",
					DistanceMeters: &distance,
				},
				{
					Type:     models.ViolationShoreProximity,
					Severity: models.SeverityHigh,
					Title:    "Shore proximity",
				},
			},
			MaxSeverity: models.SeverityHigh,
			IsExempt:    true,
		},
		{
			// Clean vessel contributes no rows
			Sample:      testSample("HR-0003", observedAt, 2.0),
			MaxSeverity: models.SeverityLow,
		},
	}
}

func TestViolationInsertAndQuery(t *testing.T) {
	repo := NewViolationRepository(newTestDB(t))
	observedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.InsertResults(classificationFixture(observedAt)); err != nil {
		t.Fatalf("InsertResults: %v", err)
	}

	records, total, err := repo.GetViolations(models.ViolationFilter{})
	if err != nil {
		t.Fatalf("GetViolations: %v", err)
	}
	if total != 3 || len(records) != 3 {
		t.Fatalf("got %d records (total %d), want 3", len(records), total)
	}

	records, total, err = repo.GetViolations(models.ViolationFilter{Severity: "critical"})
	if err != nil {
		t.Fatalf("GetViolations: %v", err)
	}
	if total != 1 {
		t.Fatalf("critical total = %d, want 1", total)
	}
	rec := records[0]
	if rec.RegistryID != "HR-0001" || rec.Type != "anchoring_on_vegetation" {
		t.Errorf("unexpected critical record %+v", rec)
	}
	if rec.SpeedKnots == nil || *rec.SpeedKnots != 0.3 {
		t.Errorf("speed = %v, want 0.3", rec.SpeedKnots)
	}
	if rec.IsExempt {
		t.Error("HR-0001 is not exempt")
	}

	records, _, err = repo.GetViolations(models.ViolationFilter{RegistryID: "HR-0002"})
	if err != nil {
		t.Fatalf("GetViolations: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("HR-0002 has %d records, want 2", len(records))
	}
	for _, r := range records {
		if !r.IsExempt {
			t.Error("HR-0002 records should carry the exemption flag")
		}
	}
}

func TestViolationSummary(t *testing.T) {
	repo := NewViolationRepository(newTestDB(t))
	observedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.InsertResults(classificationFixture(observedAt)); err != nil {
		t.Fatalf("InsertResults: %v", err)
	}

	summary, err := repo.GetSummary(0, 0)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.Total != 3 {
		t.Errorf("summary total = %d, want 3", summary.Total)
	}
	if summary.BySeverity["critical"] != 1 || summary.BySeverity["medium"] != 1 || summary.BySeverity["high"] != 1 {
		t.Errorf("bySeverity = %v", summary.BySeverity)
	}
	if summary.ByType["anchoring_on_vegetation"] != 1 || summary.ByType["buffer_zone_entry"] != 1 {
		t.Errorf("byType = %v", summary.ByType)
	}

	// Window that excludes everything
	summary, err = repo.GetSummary(observedAt.Add(time.Hour).Unix(), 0)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("out-of-window total = %d, want 0", summary.Total)
	}
}

func TestWhitelistUpsertAndDelete(t *testing.T) {
	repo := NewWhitelistRepository(newTestDB(t))

	entry := models.WhitelistEntry{
		RegistryID: "HR-PP-01",
		VesselName: "Park patrol",
		Owner:      "Park authority",
		Reason:     "official duty",
	}
	if err := repo.Upsert(entry); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Upserting the same registry id updates in place, no duplicate row
	entry.Reason = "official duty, renewed 2026"
	if err := repo.Upsert(entry); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	entries, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Reason != "official duty, renewed 2026" {
		t.Errorf("reason = %q, not updated", entries[0].Reason)
	}

	if err := repo.Delete("HR-PP-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete("HR-PP-01"); err != sql.ErrNoRows {
		t.Errorf("deleting a missing entry returned %v, want sql.ErrNoRows", err)
	}

	entries, err = repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("whitelist should be empty after delete, got %d", len(entries))
	}
}
