package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the schema history in version order. New schema changes
// are appended, never edited in place.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_vessel_positions",
		SQL: `
			CREATE TABLE IF NOT EXISTS vessel_positions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				registry_id TEXT NOT NULL,
				name TEXT,
				longitude REAL NOT NULL,
				latitude REAL NOT NULL,
				speed_knots REAL NOT NULL DEFAULT 0,
				course_deg REAL,
				observed_at INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_positions_registry_time
				ON vessel_positions(registry_id, observed_at);
			CREATE INDEX IF NOT EXISTS idx_positions_observed_at
				ON vessel_positions(observed_at);
		`,
	},
	{
		Version: 2,
		Name:    "create_violations",
		SQL: `
			CREATE TABLE IF NOT EXISTS violations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				registry_id TEXT NOT NULL,
				vessel_name TEXT,
				type TEXT NOT NULL,
				severity TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				speed_knots REAL,
				distance_meters REAL,
				longitude REAL NOT NULL,
				latitude REAL NOT NULL,
				is_exempt INTEGER NOT NULL DEFAULT 0,
				observed_at INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_violations_registry_time
				ON violations(registry_id, observed_at);
			CREATE INDEX IF NOT EXISTS idx_violations_severity
				ON violations(severity);
			CREATE INDEX IF NOT EXISTS idx_violations_type
				ON violations(type);
		`,
	},
	{
		Version: 3,
		Name:    "create_whitelist",
		SQL: `
			CREATE TABLE IF NOT EXISTS whitelist (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				registry_id TEXT NOT NULL UNIQUE,
				vessel_name TEXT,
				owner TEXT,
				reason TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns the set of applied migration versions
func (m *MigrationManager) GetAppliedMigrations() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, nil
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	_, err = tx.Exec(migration.SQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	_, err = tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	return nil
}

// RunMigrations runs all pending migrations
func (m *MigrationManager) RunMigrations() error {
	if err := m.InitMigrationsTable(); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	return nil
}
