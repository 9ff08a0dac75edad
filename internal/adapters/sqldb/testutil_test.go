package sqldb_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/example/gmao/internal/adapters/sqldb"
	"github.com/example/gmao/internal/config"
	"github.com/example/gmao/internal/db"
	"github.com/example/gmao/internal/ports/secondary"
)

const driver = config.DriverSQLite

var baseTime = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(driver, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func seedSite(t *testing.T, database *sql.DB, id, category string) {
	t.Helper()
	repo := sqldb.NewSiteRepository(database, driver)
	err := repo.Create(context.Background(), &secondary.SiteRecord{
		ID:       id,
		Name:     "Site " + id,
		City:     "Lyon",
		Category: category,
	})
	if err != nil {
		t.Fatalf("failed to seed site %s: %v", id, err)
	}
}

func seedElevator(t *testing.T, database *sql.DB, id, siteID string) *secondary.ElevatorRecord {
	t.Helper()
	record := &secondary.ElevatorRecord{
		ID:     id,
		Name:   "Elevator " + id,
		SiteID: siteID,
		State:  "functional",
	}
	if err := sqldb.NewElevatorRepository(database, driver).Create(context.Background(), record); err != nil {
		t.Fatalf("failed to seed elevator %s: %v", id, err)
	}
	return record
}

func seedTechnician(t *testing.T, database *sql.DB, id, name string) {
	t.Helper()
	err := sqldb.NewTechnicianRepository(database, driver).Create(context.Background(), &secondary.TechnicianRecord{
		ID:        id,
		FullName:  name,
		Specialty: "electrical",
		Available: true,
	})
	if err != nil {
		t.Fatalf("failed to seed technician %s: %v", id, err)
	}
}

func event(id, elevatorID, kind string, at time.Time) *secondary.EventRecord {
	return &secondary.EventRecord{
		ID:         id,
		ElevatorID: elevatorID,
		Kind:       kind,
		OccurredAt: at,
	}
}
