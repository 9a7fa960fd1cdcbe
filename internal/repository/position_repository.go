package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// PositionRepository handles database operations for vessel positions
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// InsertBatch persists one polling cycle's samples in a single transaction
func (r *PositionRepository) InsertBatch(samples []models.VesselSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO vessel_positions (registry_id, name, longitude, latitude, speed_knots, course_deg, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		var course sql.NullFloat64
		if s.CourseDeg != nil {
			course = sql.NullFloat64{Float64: *s.CourseDeg, Valid: true}
		}
		_, err := stmt.Exec(s.RegistryID, s.Name, s.Position.Lon, s.Position.Lat, s.SpeedKnots, course, s.ObservedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert position for %s: %w", s.RegistryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit positions: %w", err)
	}

	return nil
}

// GetLatest returns the most recent position per vessel
func (r *PositionRepository) GetLatest() ([]models.VesselPosition, error) {
	query := `
		SELECT p.id, p.registry_id, p.name, p.longitude, p.latitude, p.speed_knots, p.course_deg, p.observed_at, p.created_at
		FROM vessel_positions p
		INNER JOIN (
			SELECT registry_id, MAX(observed_at) AS max_observed
			FROM vessel_positions
			GROUP BY registry_id
		) latest ON p.registry_id = latest.registry_id AND p.observed_at = latest.max_observed
		ORDER BY p.registry_id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest positions: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// GetPositions retrieves position history with filtering and pagination
func (r *PositionRepository) GetPositions(filter models.PositionFilter) (*models.PositionsResponse, error) {
	query := `
		SELECT id, registry_id, name, longitude, latitude, speed_knots, course_deg, observed_at, created_at
		FROM vessel_positions
	`

	var conditions []string
	var args []interface{}

	if filter.RegistryID != "" {
		conditions = append(conditions, "registry_id = ?")
		args = append(args, filter.RegistryID)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "observed_at >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "observed_at <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.MinSpeed > 0 {
		conditions = append(conditions, "speed_knots >= ?")
		args = append(args, filter.MinSpeed)
	}
	if filter.MaxSpeed > 0 {
		conditions = append(conditions, "speed_knots <= ?")
		args = append(args, filter.MaxSpeed)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM vessel_positions" + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count positions: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 1000 {
		filter.PageSize = 100
	}

	query += where + " ORDER BY observed_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions, err := scanPositions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.PositionsResponse{
		Data:       positions,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

func scanPositions(rows *sql.Rows) ([]models.VesselPosition, error) {
	var positions []models.VesselPosition
	for rows.Next() {
		var p models.VesselPosition
		var name sql.NullString
		var course sql.NullFloat64
		var createdAt sql.NullString

		if err := rows.Scan(&p.ID, &p.RegistryID, &name, &p.Longitude, &p.Latitude, &p.SpeedKnots, &course, &p.ObservedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}

		if name.Valid {
			p.Name = name.String
		}
		if course.Valid {
			c := course.Float64
			p.CourseDeg = &c
		}
		if createdAt.Valid {
			p.CreatedAt = &createdAt.String
		}

		positions = append(positions, p)
	}

	return positions, rows.Err()
}
