package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/gmao/internal/ports/primary"
)

func TestReportAdapter_TopRisk(t *testing.T) {
	risk := &mockRiskService{
		listFn: func(ctx context.Context, limit int) ([]*primary.ElevatorRisk, error) {
			return []*primary.ElevatorRisk{
				{
					Elevator: &primary.Elevator{ID: "ELEV-006", SiteID: "SITE-003", State: "faulty", SubState: "pending_assignment"},
					Risk:     &primary.RiskScore{Score: 83, Tier: "high", RecentFaults: 3, Explanation: "3 faults in 30 days"},
				},
				{
					Elevator: &primary.Elevator{ID: "ELEV-002", SiteID: "SITE-001", State: "functional"},
					Risk:     &primary.RiskScore{Score: 45, Tier: "moderate", RecentFaults: 1, Explanation: "1 fault in 30 days"},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewReportAdapter(risk, nil, &buf)

	ranked, err := adapter.TopRisk(context.Background(), 3)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if risk.lastLimit != 3 || len(ranked) != 2 {
		t.Errorf("unexpected call: limit=%d count=%d", risk.lastLimit, len(ranked))
	}
	output := buf.String()
	if strings.Index(output, "ELEV-006") > strings.Index(output, "ELEV-002") {
		t.Errorf("expected service order to be kept, got '%s'", output)
	}
	if !strings.Contains(output, "83 (high)") || !strings.Contains(output, "45 (moderate)") {
		t.Errorf("expected tiers, got '%s'", output)
	}
}

func TestReportAdapter_TopRisk_Empty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewReportAdapter(&mockRiskService{}, nil, &buf)

	if _, err := adapter.TopRisk(context.Background(), 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No elevator at risk.") {
		t.Errorf("expected empty message, got '%s'", buf.String())
	}
}

func TestReportAdapter_Dashboard(t *testing.T) {
	analytics := &mockAnalyticsService{
		dashboard: &primary.Dashboard{
			GeneratedAt:      time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
			TotalElevators:   6,
			TotalSites:       3,
			TotalTechnicians: 3,
			AvailabilityRate: 50,
			MTTRHours:        5,
			FaultsLast7Days:  2,
			FaultsLast30Days: 6,
			RepairsOngoing:   1,
			Sites: []primary.SiteSummary{
				{SiteID: "SITE-001", Name: "Tour Horizon", Total: 3, Functional: 2, Faulty: 1, AverageRisk: 31, Trend: []int{0, 0, 1, 0, 0, 0, 0}},
			},
			Technicians: []primary.TechnicianPerformance{
				{TechnicianID: "TECH-001", FullName: "Karim Benali", Available: true, Interventions: 4, AverageRepairHours: 3},
			},
			Categories: map[string]primary.CategoryCount{
				"tertiary":    {Total: 3, Functional: 2},
				"residential": {Total: 1, Functional: 0},
			},
		},
	}
	var buf bytes.Buffer
	adapter := NewReportAdapter(nil, analytics, &buf)

	if _, err := adapter.Dashboard(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Availability: 50%",
		"MTTR:         5h",
		"Faults:       2 (7d), 6 (30d)",
		"Tour Horizon",
		"[0 0 1 0 0 0 0]",
		"Karim Benali",
		"tertiary:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
	if strings.Index(output, "residential:") > strings.Index(output, "tertiary:") {
		t.Errorf("expected categories sorted by name, got '%s'", output)
	}
}

func TestReportAdapter_Dashboard_Error(t *testing.T) {
	adapter := NewReportAdapter(nil, &mockAnalyticsService{err: errors.New("boom")}, &bytes.Buffer{})

	_, err := adapter.Dashboard(context.Background())

	if err == nil || !strings.Contains(err.Error(), "failed to compute dashboard") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
