package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is recorded in schema_version after InitSchema.
const SchemaVersion = 1

// SchemaSQL is the complete schema for GMAO installs.
// It runs unchanged on sqlite3 and postgres.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it through GetSchemaSQL() instead of declaring their own tables, so a
// query referencing a missing column fails at development time.
//
// When adding new columns or tables:
//  1. Update SchemaSQL here
//  2. Bump SchemaVersion and add the upgrade step to InitSchema
//  3. Run the adapters/sqldb tests to verify alignment
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Sites (physical locations grouping elevators)
CREATE TABLE IF NOT EXISTS sites (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	city TEXT,
	address TEXT,
	category TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Technicians
CREATE TABLE IF NOT EXISTS technicians (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	specialty TEXT,
	available BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Site/technician assignments (many-to-many)
CREATE TABLE IF NOT EXISTS site_technicians (
	site_id TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	technician_id TEXT NOT NULL REFERENCES technicians(id) ON DELETE CASCADE,
	assigned_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (site_id, technician_id)
);

-- Elevators (current snapshot; version guards concurrent transitions)
CREATE TABLE IF NOT EXISTS elevators (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	reference TEXT,
	site_id TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	state TEXT NOT NULL DEFAULT 'functional' CHECK (state IN ('functional', 'faulty', 'under_repair')),
	sub_state TEXT NOT NULL DEFAULT '' CHECK (sub_state IN ('', 'pending_assignment', 'assigned')),
	technician_id TEXT REFERENCES technicians(id),
	version INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Events (append-only audit trail; seq orders the log of one elevator)
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	elevator_id TEXT NOT NULL REFERENCES elevators(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('fault_declared', 'fault_assigned', 'repair_started', 'repair_finished', 'returned_to_service', 'comment')),
	occurred_at TIMESTAMP NOT NULL,
	comment TEXT,
	technician_id TEXT,
	UNIQUE (elevator_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_elevators_site ON elevators(site_id);
CREATE INDEX IF NOT EXISTS idx_elevators_technician ON elevators(technician_id);
CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
CREATE INDEX IF NOT EXISTS idx_site_technicians_technician ON site_technicians(technician_id);
`

// InitSchema creates missing tables and records the schema version.
// It is safe to call on an existing database.
func InitSchema(database *sql.DB, driver string) error {
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	err := database.QueryRow(
		Rebind(driver, "SELECT COUNT(*) FROM schema_version WHERE version = ?"),
		SchemaVersion,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if count == 0 {
		if _, err := database.Exec(
			Rebind(driver, "INSERT INTO schema_version (version) VALUES (?)"),
			SchemaVersion,
		); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	return nil
}

// GetSchemaSQL returns the authoritative schema for test setup.
func GetSchemaSQL() string {
	return SchemaSQL
}
