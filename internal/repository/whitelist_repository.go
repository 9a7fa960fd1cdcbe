package repository

import (
	"database/sql"
	"fmt"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// WhitelistRepository handles database operations for exemption entries
type WhitelistRepository struct {
	db *sql.DB
}

// NewWhitelistRepository creates a new whitelist repository
func NewWhitelistRepository(db *sql.DB) *WhitelistRepository {
	return &WhitelistRepository{db: db}
}

// GetAll loads the full whitelist, used to build exemption snapshots
func (r *WhitelistRepository) GetAll() ([]models.WhitelistEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, registry_id, vessel_name, owner, reason, created_at
		FROM whitelist
		ORDER BY registry_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query whitelist: %w", err)
	}
	defer rows.Close()

	var entries []models.WhitelistEntry
	for rows.Next() {
		var e models.WhitelistEntry
		var vesselName, owner, reason sql.NullString

		if err := rows.Scan(&e.ID, &e.RegistryID, &vesselName, &owner, &reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan whitelist entry: %w", err)
		}

		if vesselName.Valid {
			e.VesselName = vesselName.String
		}
		if owner.Valid {
			e.Owner = owner.String
		}
		if reason.Valid {
			e.Reason = reason.String
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Upsert inserts or updates an exemption entry keyed by registry id
func (r *WhitelistRepository) Upsert(entry models.WhitelistEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO whitelist (registry_id, vessel_name, owner, reason)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(registry_id) DO UPDATE SET
			vessel_name = excluded.vessel_name,
			owner = excluded.owner,
			reason = excluded.reason
	`, entry.RegistryID, entry.VesselName, entry.Owner, entry.Reason)
	if err != nil {
		return fmt.Errorf("failed to upsert whitelist entry %s: %w", entry.RegistryID, err)
	}
	return nil
}

// Delete removes an exemption entry
func (r *WhitelistRepository) Delete(registryID string) error {
	result, err := r.db.Exec("DELETE FROM whitelist WHERE registry_id = ?", registryID)
	if err != nil {
		return fmt.Errorf("failed to delete whitelist entry %s: %w", registryID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
