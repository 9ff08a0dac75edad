package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

func newTestSiteService(f *fixture) *SiteServiceImpl {
	return NewSiteService(f.sites, f.elevators, f.cache, nil)
}

func TestCreateSite_Success(t *testing.T) {
	f := newFixture()
	service := newTestSiteService(f)

	resp, err := service.CreateSite(context.Background(), primary.CreateSiteRequest{
		Name:     "Galerie Nord",
		City:     "Lille",
		Address:  "12 rue Nationale",
		Category: "commercial",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.SiteID != "SITE-003" {
		t.Errorf("expected SITE-003, got %q", resp.SiteID)
	}
	if resp.Site.Category != "commercial" {
		t.Errorf("unexpected category %q", resp.Site.Category)
	}
}

func TestCreateSite_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		req        primary.CreateSiteRequest
		wantReason string
	}{
		{"missing name", primary.CreateSiteRequest{City: "Lille", Address: "x", Category: "commercial"}, "name is required"},
		{"unknown category", primary.CreateSiteRequest{Name: "n", City: "Lille", Address: "x", Category: "industrial"}, `unknown site category "industrial"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSiteService(newFixture())
			_, err := service.CreateSite(context.Background(), tt.req)
			if !errors.Is(err, coreelevator.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantReason) {
				t.Errorf("expected reason %q, got %v", tt.wantReason, err)
			}
		})
	}
}

func TestUpdateSite_CategoryChangeInvalidatesRisk(t *testing.T) {
	f := newFixture()
	service := newTestSiteService(f)

	updated, err := service.UpdateSite(context.Background(), primary.UpdateSiteRequest{
		SiteID:   "SITE-001",
		Name:     "Tour Horizon",
		City:     "Lyon",
		Address:  "1 quai Perrache",
		Category: "commercial",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Category != "commercial" {
		t.Errorf("expected commercial, got %s", updated.Category)
	}
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != "ELEV-001" {
		t.Errorf("expected ELEV-001 invalidated, got %v", f.cache.invalidated)
	}
}

func TestDeleteSite_WithElevatorsNoForce(t *testing.T) {
	f := newFixture()
	service := newTestSiteService(f)

	err := service.DeleteSite(context.Background(), primary.DeleteSiteRequest{SiteID: "SITE-001"})
	if !errors.Is(err, coreelevator.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if !strings.Contains(err.Error(), "has 1 elevators") {
		t.Errorf("unexpected message %v", err)
	}
	if _, ok := f.sites.sites["SITE-001"]; !ok {
		t.Error("site must not be deleted")
	}
}

func TestDeleteSite_WithForce(t *testing.T) {
	f := newFixture()
	service := newTestSiteService(f)

	if err := service.DeleteSite(context.Background(), primary.DeleteSiteRequest{SiteID: "SITE-001", Force: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := f.sites.sites["SITE-001"]; ok {
		t.Error("expected site deleted")
	}
	if _, ok := f.elevators.elevators["ELEV-001"]; ok {
		t.Error("expected elevator removed with its site")
	}
	if len(f.cache.invalidated) != 1 {
		t.Errorf("expected cached risk dropped, got %v", f.cache.invalidated)
	}
}

func TestDeleteSite_NotFound(t *testing.T) {
	service := newTestSiteService(newFixture())
	err := service.DeleteSite(context.Background(), primary.DeleteSiteRequest{SiteID: "SITE-404"})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGetSiteStats(t *testing.T) {
	f := newFixture()
	f.elevators.elevators["ELEV-002"] = &secondary.ElevatorRecord{ID: "ELEV-002", SiteID: "SITE-001", State: "faulty", SubState: "pending_assignment"}
	f.elevators.elevators["ELEV-003"] = &secondary.ElevatorRecord{ID: "ELEV-003", SiteID: "SITE-002", State: "faulty", SubState: "pending_assignment"}
	service := newTestSiteService(f)

	stats, err := service.GetSiteStats(context.Background(), "SITE-001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := primary.SiteStats{SiteID: "SITE-001", Total: 2, Functional: 1, Faulty: 1}
	if *stats != want {
		t.Errorf("expected %+v, got %+v", want, *stats)
	}
}
