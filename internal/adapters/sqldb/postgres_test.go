package sqldb_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gmao/internal/adapters/sqldb"
	"github.com/example/gmao/internal/config"
	"github.com/example/gmao/internal/ports/secondary"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		mockDB.Close()
	})
	return mockDB, mock
}

func TestPostgres_ApplyTransition(t *testing.T) {
	mockDB, mock := setupMockDB(t)
	repo := sqldb.NewElevatorRepository(mockDB, config.DriverPostgres)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE elevators SET state = $1, sub_state = $2, technician_id = $3, version = $4, updated_at = CURRENT_TIMESTAMP WHERE id = $5 AND version = $6")).
		WithArgs("faulty", "pending_assignment", nil, 3, "ELEV-001", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(seq), 0) FROM events WHERE elevator_id = $1")).
		WithArgs("ELEV-001").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events (id, elevator_id, seq, kind, occurred_at, comment, technician_id) VALUES ($1, $2, $3, $4, $5, $6, $7)")).
		WithArgs("evt-1", "ELEV-001", 5, "fault_declared", sqlmock.AnyArg(), "Door stuck", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	next := &secondary.ElevatorRecord{ID: "ELEV-001", State: "faulty", SubState: "pending_assignment", Version: 2}
	batch := []*secondary.EventRecord{{
		ID:         "evt-1",
		ElevatorID: "ELEV-001",
		Kind:       "fault_declared",
		OccurredAt: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
		Comment:    "Door stuck",
	}}

	err := repo.ApplyTransition(ctx, next, 2, batch)

	require.NoError(t, err)
	assert.Equal(t, 3, next.Version)
	assert.Equal(t, 5, batch[0].Seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ApplyTransition_Conflict(t *testing.T) {
	mockDB, mock := setupMockDB(t)
	repo := sqldb.NewElevatorRepository(mockDB, config.DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE elevators SET state = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM elevators WHERE id = $1")).
		WithArgs("ELEV-001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	next := &secondary.ElevatorRecord{ID: "ELEV-001", State: "under_repair", TechnicianID: "TECH-001", Version: 3}
	err := repo.ApplyTransition(context.Background(), next, 3, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, secondary.ErrVersionConflict)
	assert.Equal(t, 3, next.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetSite_NotFound(t *testing.T) {
	mockDB, mock := setupMockDB(t)
	repo := sqldb.NewSiteRepository(mockDB, config.DriverPostgres)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sites WHERE id = $1")).
		WithArgs("SITE-404").
		WillReturnError(sql.ErrNoRows)

	site, err := repo.GetByID(context.Background(), "SITE-404")

	assert.Nil(t, site)
	assert.ErrorIs(t, err, secondary.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListEvents_Filters(t *testing.T) {
	mockDB, mock := setupMockDB(t)
	repo := sqldb.NewEventRepository(mockDB, config.DriverPostgres)
	since := time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC)
	at := since.Add(48 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "elevator_id", "seq", "kind", "occurred_at", "comment", "technician_id"}).
		AddRow("evt-1", "ELEV-001", 1, "fault_declared", at, "Door stuck", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE occurred_at >= $1 AND kind = $2 ORDER BY occurred_at ASC")).
		WithArgs(since, "fault_declared").
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), secondary.EventFilters{Since: since, Kind: "fault_declared"})

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Door stuck", events[0].Comment)
	assert.Empty(t, events[0].TechnicianID)
	assert.True(t, events[0].OccurredAt.Equal(at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountOpenByTechnician(t *testing.T) {
	mockDB, mock := setupMockDB(t)
	repo := sqldb.NewElevatorRepository(mockDB, config.DriverPostgres)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM elevators WHERE technician_id = $1")).
		WithArgs("TECH-002").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountOpenByTechnician(context.Background(), "TECH-002")

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
