package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/gmao/internal/ports/secondary"
)

// EventRepository implements secondary.EventRepository with database/sql.
// Events are never updated or deleted individually.
type EventRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewEventRepository creates a new event repository for the given driver.
func NewEventRepository(db *sql.DB, driver string) *EventRepository {
	return &EventRepository{db: db, dialect: dialect(driver)}
}

const eventColumns = "id, elevator_id, seq, kind, occurred_at, comment, technician_id"

func scanEvent(row scanner) (*secondary.EventRecord, error) {
	var (
		comment      sql.NullString
		technicianID sql.NullString
	)

	record := &secondary.EventRecord{}
	err := row.Scan(&record.ID, &record.ElevatorID, &record.Seq, &record.Kind,
		&record.OccurredAt, &comment, &technicianID)
	if err != nil {
		return nil, err
	}

	record.OccurredAt = record.OccurredAt.UTC()
	record.Comment = comment.String
	record.TechnicianID = technicianID.String

	return record, nil
}

// insertEvents appends events after the elevator's current last seq.
// It returns the assigned seq values without touching the records.
func insertEvents(ctx context.Context, tx *sql.Tx, d dialect, elevatorID string, events []*secondary.EventRecord) ([]int, error) {
	if len(events) == 0 {
		return nil, nil
	}

	var last int
	err := tx.QueryRowContext(ctx,
		d.rebind("SELECT COALESCE(MAX(seq), 0) FROM events WHERE elevator_id = ?"),
		elevatorID,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to read event sequence: %w", err)
	}

	insert := d.rebind("INSERT INTO events (" + eventColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	seqs := make([]int, len(events))
	for i, e := range events {
		if e.ElevatorID != elevatorID {
			return nil, fmt.Errorf("event %s belongs to elevator %s, not %s", e.ID, e.ElevatorID, elevatorID)
		}
		seqs[i] = last + i + 1
		_, err := tx.ExecContext(ctx, insert,
			e.ID, e.ElevatorID, seqs[i], e.Kind, e.OccurredAt.UTC(),
			nullString(e.Comment), nullString(e.TechnicianID),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to append %s event: %w", e.Kind, err)
		}
	}

	return seqs, nil
}

// Append adds a single event outside of a transition.
func (r *EventRepository) Append(ctx context.Context, event *secondary.EventRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seqs, err := insertEvents(ctx, tx, r.dialect, event.ElevatorID, []*secondary.EventRecord{event})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}

	event.Seq = seqs[0]
	return nil
}

// ListByElevator retrieves the events of one elevator in log order.
func (r *EventRepository) ListByElevator(ctx context.Context, elevatorID string) ([]*secondary.EventRecord, error) {
	return r.query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE elevator_id = ? ORDER BY seq ASC",
		elevatorID,
	)
}

// List retrieves events matching the given filters, oldest first.
func (r *EventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	query := "SELECT " + eventColumns + " FROM events"
	var (
		conditions []string
		args       []any
	)

	if !filters.Since.IsZero() {
		conditions = append(conditions, "occurred_at >= ?")
		args = append(args, filters.Since.UTC())
	}
	if filters.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filters.Kind)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY occurred_at ASC, elevator_id ASC, seq ASC"

	return r.query(ctx, query, args...)
}

// ListRecent retrieves the newest events across all elevators, newest first.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]*secondary.EventRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	return r.query(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY occurred_at DESC, seq DESC LIMIT ?",
		limit,
	)
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		record, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, record)
	}

	return events, rows.Err()
}

// Ensure EventRepository implements the interface.
var _ secondary.EventRepository = (*EventRepository)(nil)
