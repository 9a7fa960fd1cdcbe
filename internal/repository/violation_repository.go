package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// ViolationRepository handles database operations for violation records
type ViolationRepository struct {
	db *sql.DB
}

// NewViolationRepository creates a new violation repository
func NewViolationRepository(db *sql.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

// InsertResults persists every violation of a batch's classification results
func (r *ViolationRepository) InsertResults(results []models.ClassificationResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO violations (registry_id, vessel_name, type, severity, title, description,
			speed_knots, distance_meters, longitude, latitude, is_exempt, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		for _, v := range result.Violations {
			var speed, distance sql.NullFloat64
			if v.SpeedKnots != nil {
				speed = sql.NullFloat64{Float64: *v.SpeedKnots, Valid: true}
			}
			if v.DistanceMeters != nil {
				distance = sql.NullFloat64{Float64: *v.DistanceMeters, Valid: true}
			}

			_, err := stmt.Exec(
				result.Sample.RegistryID,
				result.Sample.Name,
				string(v.Type),
				string(v.Severity),
				v.Title,
				v.Description,
				speed,
				distance,
				result.Sample.Position.Lon,
				result.Sample.Position.Lat,
				result.IsExempt,
				result.Sample.ObservedAt.Unix(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert violation for %s: %w", result.Sample.RegistryID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit violations: %w", err)
	}

	return nil
}

// GetViolations retrieves violation records with filtering and pagination
func (r *ViolationRepository) GetViolations(filter models.ViolationFilter) ([]models.ViolationRecord, int64, error) {
	query := `
		SELECT id, registry_id, vessel_name, type, severity, title, description,
			speed_knots, distance_meters, longitude, latitude, is_exempt, observed_at, created_at
		FROM violations
	`

	var conditions []string
	var args []interface{}

	if filter.RegistryID != "" {
		conditions = append(conditions, "registry_id = ?")
		args = append(args, filter.RegistryID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Severity != "" {
		conditions = append(conditions, "severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "observed_at >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "observed_at <= ?")
		args = append(args, filter.EndTime)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM violations"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count violations: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 1000 {
		filter.PageSize = 100
	}

	query += where + " ORDER BY observed_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var records []models.ViolationRecord
	for rows.Next() {
		var rec models.ViolationRecord
		var vesselName, description, createdAt sql.NullString
		var speed, distance sql.NullFloat64

		err := rows.Scan(&rec.ID, &rec.RegistryID, &vesselName, &rec.Type, &rec.Severity,
			&rec.Title, &description, &speed, &distance, &rec.Longitude, &rec.Latitude,
			&rec.IsExempt, &rec.ObservedAt, &createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan violation: %w", err)
		}

		if vesselName.Valid {
			rec.VesselName = vesselName.String
		}
		if description.Valid {
			rec.Description = description.String
		}
		if speed.Valid {
			rec.SpeedKnots = &speed.Float64
		}
		if distance.Valid {
			rec.DistanceMeters = &distance.Float64
		}
		if createdAt.Valid {
			rec.CreatedAt = &createdAt.String
		}

		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// GetSummary aggregates stored violations by severity and type
func (r *ViolationRepository) GetSummary(startTime, endTime int64) (*models.ViolationSummary, error) {
	where := ""
	var args []interface{}
	var conditions []string

	if startTime > 0 {
		conditions = append(conditions, "observed_at >= ?")
		args = append(args, startTime)
	}
	if endTime > 0 {
		conditions = append(conditions, "observed_at <= ?")
		args = append(args, endTime)
	}
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	summary := &models.ViolationSummary{
		BySeverity: make(map[string]int64),
		ByType:     make(map[string]int64),
	}

	rows, err := r.db.Query("SELECT severity, COUNT(*) FROM violations"+where+" GROUP BY severity", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query severity summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var severity string
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan severity count: %w", err)
		}
		summary.BySeverity[severity] = count
		summary.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	typeRows, err := r.db.Query("SELECT type, COUNT(*) FROM violations"+where+" GROUP BY type", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query type summary: %w", err)
	}
	defer typeRows.Close()

	for typeRows.Next() {
		var vType string
		var count int64
		if err := typeRows.Scan(&vType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		summary.ByType[vType] = count
	}

	return summary, typeRows.Err()
}
