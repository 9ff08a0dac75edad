package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadySeeded is returned when the database already holds sites.
var ErrAlreadySeeded = errors.New("database already contains data")

type seedEvent struct {
	elevatorID string
	kind       string
	ago        time.Duration
	technician string
	comment    string
}

// SeedFixtures populates the database with development fixtures.
// Elevator snapshots agree with their event logs: every lifecycle event
// bumped the version once, comments did not.
func SeedFixtures(database *sql.DB, driver string) error {
	now := time.Now().UTC().Truncate(time.Second)
	exec := func(query string, args ...any) error {
		_, err := database.Exec(Rebind(driver, query), args...)
		return err
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM sites").Scan(&count); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return ErrAlreadySeeded
	}

	// Sites
	sites := []struct{ id, name, desc, city, address, category string }{
		{"SITE-001", "Tour Horizon", "Office tower, 32 floors", "Lyon", "12 quai Perrache", "tertiary"},
		{"SITE-002", "Centre Commercial Les Arcades", "Shopping mall, 3 levels", "Villeurbanne", "4 avenue Galline", "commercial"},
		{"SITE-003", "Résidence Les Tilleuls", "Apartment block", "Caluire", "8 rue des Tilleuls", "residential"},
	}
	for _, s := range sites {
		if err := exec(
			"INSERT INTO sites (id, name, description, city, address, category, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			s.id, s.name, s.desc, s.city, s.address, s.category, now, now,
		); err != nil {
			return fmt.Errorf("seed sites: %w", err)
		}
	}

	// Technicians
	technicians := []struct {
		id, name, specialty string
		available           bool
	}{
		{"TECH-001", "Alice Martin", "hydraulics", true},
		{"TECH-002", "Karim Benali", "electrical", true},
		{"TECH-003", "Julie Moreau", "mechanical", false},
	}
	for _, t := range technicians {
		if err := exec(
			"INSERT INTO technicians (id, full_name, specialty, available, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			t.id, t.name, t.specialty, t.available, now, now,
		); err != nil {
			return fmt.Errorf("seed technicians: %w", err)
		}
	}

	links := []struct{ siteID, technicianID string }{
		{"SITE-001", "TECH-001"},
		{"SITE-001", "TECH-002"},
		{"SITE-002", "TECH-002"},
		{"SITE-003", "TECH-003"},
	}
	for _, l := range links {
		if err := exec(
			"INSERT INTO site_technicians (site_id, technician_id, assigned_at) VALUES (?, ?, ?)",
			l.siteID, l.technicianID, now,
		); err != nil {
			return fmt.Errorf("seed site technicians: %w", err)
		}
	}

	// Elevators
	elevators := []struct {
		id, name, reference, siteID, state, subState, technician string
		version                                                  int
	}{
		{"ELEV-001", "Ascenseur A", "OTIS-GEN2-4417", "SITE-001", "functional", "", "", 5},
		{"ELEV-002", "Ascenseur B", "OTIS-GEN2-4418", "SITE-001", "faulty", "pending_assignment", "", 2},
		{"ELEV-003", "Ascenseur Nord", "KONE-MS-0932", "SITE-002", "under_repair", "", "TECH-002", 4},
		{"ELEV-004", "Monte-charge", "SCH-5500-210", "SITE-002", "faulty", "assigned", "TECH-001", 3},
		{"ELEV-005", "Ascenseur Hall 1", "", "SITE-003", "functional", "", "", 1},
		{"ELEV-006", "Ascenseur Hall 2", "THY-SYN-7781", "SITE-003", "functional", "", "", 5},
	}
	for _, e := range elevators {
		var technician sql.NullString
		if e.technician != "" {
			technician = sql.NullString{String: e.technician, Valid: true}
		}
		if err := exec(
			"INSERT INTO elevators (id, name, reference, site_id, state, sub_state, technician_id, version, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			e.id, e.name, e.reference, e.siteID, e.state, e.subState, technician, e.version, now, now,
		); err != nil {
			return fmt.Errorf("seed elevators: %w", err)
		}
	}

	day := 24 * time.Hour
	events := []seedEvent{
		{"ELEV-001", "fault_declared", 40 * day, "", "Door sensor not responding on floor 12"},
		{"ELEV-001", "fault_assigned", 40*day - 2*time.Hour, "TECH-001", "Fault assigned to Alice Martin (TECH-001)"},
		{"ELEV-001", "repair_started", 39*day + 20*time.Hour, "TECH-001", "Repair started"},
		{"ELEV-001", "repair_finished", 39 * day, "TECH-001", "Door sensor replaced"},
		{"ELEV-001", "returned_to_service", 39 * day, "TECH-001", "Elevator returned to service"},

		{"ELEV-002", "fault_declared", 2 * day, "", "Cabin stops between floors"},

		{"ELEV-003", "fault_declared", 5 * day, "", "Abnormal noise when braking"},
		{"ELEV-003", "fault_assigned", 5*day - 3*time.Hour, "TECH-002", "Fault assigned to Karim Benali (TECH-002)"},
		{"ELEV-003", "repair_started", 4 * day, "TECH-002", "Repair started"},
		{"ELEV-003", "comment", 3 * day, "TECH-002", "Brake pads ordered"},

		{"ELEV-004", "fault_declared", 1 * day, "", "Hydraulic leak under the platform"},
		{"ELEV-004", "fault_assigned", 20 * time.Hour, "TECH-001", "Fault assigned to Alice Martin (TECH-001)"},

		{"ELEV-006", "fault_declared", 10 * day, "", "Display panel blank"},
		{"ELEV-006", "fault_assigned", 10*day - time.Hour, "TECH-003", "Fault assigned to Julie Moreau (TECH-003)"},
		{"ELEV-006", "repair_started", 9*day + 22*time.Hour, "TECH-003", "Repair started"},
		{"ELEV-006", "repair_finished", 9*day + 18*time.Hour, "TECH-003", "Control board reseated"},
		{"ELEV-006", "returned_to_service", 9*day + 18*time.Hour, "TECH-003", "Elevator returned to service"},
		{"ELEV-006", "comment", 9 * day, "", "Checked by site manager"},
	}
	seq := map[string]int{}
	for _, e := range events {
		seq[e.elevatorID]++
		var technician sql.NullString
		if e.technician != "" {
			technician = sql.NullString{String: e.technician, Valid: true}
		}
		if err := exec(
			"INSERT INTO events (id, elevator_id, seq, kind, occurred_at, comment, technician_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), e.elevatorID, seq[e.elevatorID], e.kind, now.Add(-e.ago), e.comment, technician,
		); err != nil {
			return fmt.Errorf("seed events: %w", err)
		}
	}

	return nil
}
