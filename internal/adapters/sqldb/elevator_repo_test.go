package sqldb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/gmao/internal/adapters/sqldb"
	"github.com/example/gmao/internal/ports/secondary"
)

func setupElevatorRepo(t *testing.T) (*sqldb.ElevatorRepository, *sqldb.EventRepository) {
	t.Helper()
	database := setupTestDB(t)
	seedSite(t, database, "SITE-001", "tertiary")
	seedSite(t, database, "SITE-002", "residential")
	seedTechnician(t, database, "TECH-001", "Alice Martin")
	seedElevator(t, database, "ELEV-001", "SITE-001")
	return sqldb.NewElevatorRepository(database, driver), sqldb.NewEventRepository(database, driver)
}

func TestElevatorRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupElevatorRepo(t)
	ctx := context.Background()

	record := &secondary.ElevatorRecord{
		ID:        "ELEV-002",
		Name:      "Monte-charge",
		Reference: "SCH-5500",
		SiteID:    "SITE-002",
		State:     "functional",
		Version:   7,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if record.Version != 1 {
		t.Errorf("expected version reset to 1, got %d", record.Version)
	}

	got, err := repo.GetByID(ctx, "ELEV-002")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Reference != "SCH-5500" || got.SiteID != "SITE-002" || got.Version != 1 {
		t.Errorf("unexpected elevator %+v", got)
	}
	if got.SubState != "" || got.TechnicianID != "" {
		t.Errorf("expected empty sub-state and technician, got %q %q", got.SubState, got.TechnicianID)
	}
}

func TestElevatorRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupElevatorRepo(t)

	_, err := repo.GetByID(context.Background(), "ELEV-404")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestElevatorRepository_ApplyTransition(t *testing.T) {
	repo, events := setupElevatorRepo(t)
	ctx := context.Background()

	next := &secondary.ElevatorRecord{ID: "ELEV-001", State: "faulty", SubState: "pending_assignment"}
	batch := []*secondary.EventRecord{event("evt-1", "ELEV-001", "fault_declared", baseTime)}
	if err := repo.ApplyTransition(ctx, next, 1, batch); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if next.Version != 2 {
		t.Errorf("expected version 2, got %d", next.Version)
	}
	if batch[0].Seq != 1 {
		t.Errorf("expected seq 1, got %d", batch[0].Seq)
	}

	// Two events in one batch get consecutive seq values.
	next = &secondary.ElevatorRecord{ID: "ELEV-001", State: "faulty", SubState: "assigned", TechnicianID: "TECH-001"}
	batch = []*secondary.EventRecord{
		event("evt-2", "ELEV-001", "fault_assigned", baseTime.Add(time.Minute)),
		event("evt-3", "ELEV-001", "comment", baseTime.Add(time.Minute)),
	}
	if err := repo.ApplyTransition(ctx, next, 2, batch); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if batch[0].Seq != 2 || batch[1].Seq != 3 {
		t.Errorf("expected seq 2,3, got %d,%d", batch[0].Seq, batch[1].Seq)
	}

	got, _ := repo.GetByID(ctx, "ELEV-001")
	if got.State != "faulty" || got.SubState != "assigned" || got.TechnicianID != "TECH-001" || got.Version != 3 {
		t.Errorf("unexpected snapshot %+v", got)
	}

	history, err := events.ListByElevator(ctx, "ELEV-001")
	if err != nil {
		t.Fatalf("ListByElevator failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 events, got %d", len(history))
	}
	if !history[0].OccurredAt.Equal(baseTime) {
		t.Errorf("expected %v, got %v", baseTime, history[0].OccurredAt)
	}
}

func TestElevatorRepository_ApplyTransition_VersionConflict(t *testing.T) {
	repo, events := setupElevatorRepo(t)
	ctx := context.Background()

	next := &secondary.ElevatorRecord{ID: "ELEV-001", State: "faulty", SubState: "pending_assignment"}
	err := repo.ApplyTransition(ctx, next, 5, []*secondary.EventRecord{
		event("evt-1", "ELEV-001", "fault_declared", baseTime),
	})
	if !errors.Is(err, secondary.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "ELEV-001")
	if got.State != "functional" || got.Version != 1 {
		t.Errorf("snapshot changed after conflict: %+v", got)
	}
	history, _ := events.ListByElevator(ctx, "ELEV-001")
	if len(history) != 0 {
		t.Errorf("expected no events after conflict, got %d", len(history))
	}
}

func TestElevatorRepository_ApplyTransition_RollbackOnEventFailure(t *testing.T) {
	repo, events := setupElevatorRepo(t)
	ctx := context.Background()

	// An unknown kind violates the events CHECK constraint.
	next := &secondary.ElevatorRecord{ID: "ELEV-001", State: "faulty", SubState: "pending_assignment"}
	err := repo.ApplyTransition(ctx, next, 1, []*secondary.EventRecord{
		event("evt-1", "ELEV-001", "exploded", baseTime),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	got, _ := repo.GetByID(ctx, "ELEV-001")
	if got.State != "functional" || got.Version != 1 {
		t.Errorf("snapshot changed after failed append: %+v", got)
	}
	history, _ := events.ListByElevator(ctx, "ELEV-001")
	if len(history) != 0 {
		t.Errorf("expected no events, got %d", len(history))
	}
}

func TestElevatorRepository_ApplyTransition_NotFound(t *testing.T) {
	repo, _ := setupElevatorRepo(t)

	err := repo.ApplyTransition(context.Background(), &secondary.ElevatorRecord{ID: "ELEV-404", State: "faulty"}, 1, nil)
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestElevatorRepository_UpdateDetails(t *testing.T) {
	repo, _ := setupElevatorRepo(t)
	ctx := context.Background()

	record, _ := repo.GetByID(ctx, "ELEV-001")
	record.Name = "Ascenseur Est"
	record.SiteID = "SITE-002"
	if err := repo.UpdateDetails(ctx, record); err != nil {
		t.Fatalf("UpdateDetails failed: %v", err)
	}
	if record.Version != 2 {
		t.Errorf("expected version 2, got %d", record.Version)
	}

	got, _ := repo.GetByID(ctx, "ELEV-001")
	if got.Name != "Ascenseur Est" || got.SiteID != "SITE-002" {
		t.Errorf("unexpected elevator %+v", got)
	}

	// A stale copy is rejected.
	stale := *got
	stale.Version = 1
	if err := repo.UpdateDetails(ctx, &stale); !errors.Is(err, secondary.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
}

func TestElevatorRepository_List(t *testing.T) {
	repo, _ := setupElevatorRepo(t)
	ctx := context.Background()

	repo.Create(ctx, &secondary.ElevatorRecord{ID: "ELEV-002", Name: "B", SiteID: "SITE-002", State: "functional"})
	repo.ApplyTransition(ctx, &secondary.ElevatorRecord{ID: "ELEV-002", State: "faulty", SubState: "pending_assignment"}, 1, nil)

	tests := []struct {
		name    string
		filters secondary.ElevatorFilters
		want    []string
	}{
		{"all", secondary.ElevatorFilters{}, []string{"ELEV-001", "ELEV-002"}},
		{"by site", secondary.ElevatorFilters{SiteID: "SITE-001"}, []string{"ELEV-001"}},
		{"by state", secondary.ElevatorFilters{State: "faulty"}, []string{"ELEV-002"}},
		{"site and state", secondary.ElevatorFilters{SiteID: "SITE-001", State: "faulty"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d records", tt.want, len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestElevatorRepository_DeleteRemovesEvents(t *testing.T) {
	repo, events := setupElevatorRepo(t)
	ctx := context.Background()

	if err := events.Append(ctx, event("evt-1", "ELEV-001", "comment", baseTime)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := repo.Delete(ctx, "ELEV-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, "ELEV-001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	history, _ := events.ListByElevator(ctx, "ELEV-001")
	if len(history) != 0 {
		t.Errorf("expected events deleted, got %d", len(history))
	}
	if err := repo.Delete(ctx, "ELEV-001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestElevatorRepository_NextIDAndCountOpen(t *testing.T) {
	repo, _ := setupElevatorRepo(t)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "ELEV-002" {
		t.Errorf("expected ELEV-002, got %s", id)
	}

	repo.ApplyTransition(ctx, &secondary.ElevatorRecord{ID: "ELEV-001", State: "under_repair", TechnicianID: "TECH-001"}, 1, nil)

	count, err := repo.CountOpenByTechnician(ctx, "TECH-001")
	if err != nil {
		t.Fatalf("CountOpenByTechnician failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1, got %d", count)
	}
}
