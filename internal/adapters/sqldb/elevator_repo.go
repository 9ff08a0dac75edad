package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/gmao/internal/ports/secondary"
)

// ElevatorRepository implements secondary.ElevatorRepository with database/sql.
type ElevatorRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewElevatorRepository creates a new elevator repository for the given driver.
func NewElevatorRepository(db *sql.DB, driver string) *ElevatorRepository {
	return &ElevatorRepository{db: db, dialect: dialect(driver)}
}

const elevatorColumns = "id, name, reference, site_id, state, sub_state, technician_id, version, created_at, updated_at"

func scanElevator(row scanner) (*secondary.ElevatorRecord, error) {
	var (
		reference    sql.NullString
		technicianID sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	record := &secondary.ElevatorRecord{}
	err := row.Scan(&record.ID, &record.Name, &reference, &record.SiteID, &record.State,
		&record.SubState, &technicianID, &record.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Reference = reference.String
	record.TechnicianID = technicianID.String
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// Create persists a new elevator with version 1.
func (r *ElevatorRepository) Create(ctx context.Context, elevator *secondary.ElevatorRecord) error {
	_, err := r.db.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO elevators (id, name, reference, site_id, state, sub_state, technician_id, version) VALUES (?, ?, ?, ?, ?, ?, ?, 1)"),
		elevator.ID, elevator.Name, nullString(elevator.Reference), elevator.SiteID,
		elevator.State, elevator.SubState, nullString(elevator.TechnicianID),
	)
	if err != nil {
		return fmt.Errorf("failed to create elevator: %w", err)
	}

	elevator.Version = 1
	return nil
}

// GetByID retrieves an elevator by its ID.
func (r *ElevatorRepository) GetByID(ctx context.Context, id string) (*secondary.ElevatorRecord, error) {
	record, err := scanElevator(r.db.QueryRowContext(ctx,
		r.dialect.rebind("SELECT "+elevatorColumns+" FROM elevators WHERE id = ?"),
		id,
	))

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("elevator %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get elevator: %w", err)
	}

	return record, nil
}

// UpdateDetails updates name, reference and site when the version matches.
func (r *ElevatorRepository) UpdateDetails(ctx context.Context, elevator *secondary.ElevatorRecord) error {
	result, err := r.db.ExecContext(ctx,
		r.dialect.rebind("UPDATE elevators SET name = ?, reference = ?, site_id = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?"),
		elevator.Name, nullString(elevator.Reference), elevator.SiteID, elevator.ID, elevator.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update elevator: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return r.missOrConflict(ctx, r.db, elevator.ID)
	}

	elevator.Version++
	return nil
}

// ApplyTransition stores the new snapshot and appends its events in one
// transaction. Events get consecutive seq values after the current maximum.
func (r *ElevatorRepository) ApplyTransition(ctx context.Context, elevator *secondary.ElevatorRecord, expectedVersion int, events []*secondary.EventRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		r.dialect.rebind("UPDATE elevators SET state = ?, sub_state = ?, technician_id = ?, version = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?"),
		elevator.State, elevator.SubState, nullString(elevator.TechnicianID), expectedVersion+1, elevator.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update elevator state: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return r.missOrConflict(ctx, tx, elevator.ID)
	}

	seqs, err := insertEvents(ctx, tx, r.dialect, elevator.ID, events)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}

	elevator.Version = expectedVersion + 1
	for i, e := range events {
		e.Seq = seqs[i]
	}
	return nil
}

// Delete removes an elevator and its events.
func (r *ElevatorRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM events WHERE elevator_id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete elevator events: %w", err)
	}

	result, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM elevators WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete elevator: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("elevator %s %w", id, secondary.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit elevator deletion: %w", err)
	}

	return nil
}

// List retrieves elevators matching the given filters, ordered by ID.
func (r *ElevatorRepository) List(ctx context.Context, filters secondary.ElevatorFilters) ([]*secondary.ElevatorRecord, error) {
	query := "SELECT " + elevatorColumns + " FROM elevators"
	var (
		conditions []string
		args       []any
	)

	if filters.SiteID != "" {
		conditions = append(conditions, "site_id = ?")
		args = append(args, filters.SiteID)
	}
	if filters.State != "" {
		conditions = append(conditions, "state = ?")
		args = append(args, filters.State)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list elevators: %w", err)
	}
	defer rows.Close()

	var elevators []*secondary.ElevatorRecord
	for rows.Next() {
		record, err := scanElevator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan elevator: %w", err)
		}
		elevators = append(elevators, record)
	}

	return elevators, rows.Err()
}

// GetNextID returns the next available elevator ID.
func (r *ElevatorRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM elevators",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next elevator ID: %w", err)
	}

	return fmt.Sprintf("ELEV-%03d", maxID+1), nil
}

// CountOpenByTechnician returns the number of elevators carrying the technician.
func (r *ElevatorRepository) CountOpenByTechnician(ctx context.Context, technicianID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind("SELECT COUNT(*) FROM elevators WHERE technician_id = ?"),
		technicianID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count technician faults: %w", err)
	}

	return count, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// missOrConflict explains a conditional update that matched no row.
func (r *ElevatorRepository) missOrConflict(ctx context.Context, q queryRower, id string) error {
	var count int
	err := q.QueryRowContext(ctx,
		r.dialect.rebind("SELECT COUNT(*) FROM elevators WHERE id = ?"),
		id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check elevator: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("elevator %s %w", id, secondary.ErrNotFound)
	}
	return fmt.Errorf("elevator %s: %w", id, secondary.ErrVersionConflict)
}

// Ensure ElevatorRepository implements the interface.
var _ secondary.ElevatorRepository = (*ElevatorRepository)(nil)
