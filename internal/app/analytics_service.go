package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/gmao/internal/core/analytics"
	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/core/site"
	"github.com/example/gmao/internal/core/technician"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// HeatmapDays is the depth of the activity heatmap.
const HeatmapDays = 90

// AnalyticsServiceImpl implements the AnalyticsService interface.
type AnalyticsServiceImpl struct {
	siteRepo       secondary.SiteRepository
	elevatorRepo   secondary.ElevatorRepository
	technicianRepo secondary.TechnicianRepository
	eventRepo      secondary.EventRepository
	clock          func() time.Time
	logger         *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService with injected dependencies.
func NewAnalyticsService(
	siteRepo secondary.SiteRepository,
	elevatorRepo secondary.ElevatorRepository,
	technicianRepo secondary.TechnicianRepository,
	eventRepo secondary.EventRepository,
	logger *zap.Logger,
) *AnalyticsServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsServiceImpl{
		siteRepo:       siteRepo,
		elevatorRepo:   elevatorRepo,
		technicianRepo: technicianRepo,
		eventRepo:      eventRepo,
		clock:          time.Now,
		logger:         logger,
	}
}

// GetDashboard computes every dashboard aggregate from one read of each table.
func (s *AnalyticsServiceImpl) GetDashboard(ctx context.Context) (*primary.Dashboard, error) {
	siteRecords, err := s.siteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	elevatorRecords, err := s.elevatorRepo.List(ctx, secondary.ElevatorFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list elevators: %w", err)
	}
	technicianRecords, err := s.technicianRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	eventRecords, err := s.eventRepo.List(ctx, secondary.EventFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	now := s.clock().UTC()

	sites := make([]site.Site, len(siteRecords))
	sitesByID := make(map[string]*site.Site, len(siteRecords))
	for i, r := range siteRecords {
		sites[i] = recordToSite(r)
		sitesByID[sites[i].ID] = &sites[i]
	}
	elevators := make([]coreelevator.Elevator, len(elevatorRecords))
	for i, r := range elevatorRecords {
		elevators[i] = recordToElevator(r)
	}
	techs := make([]technician.Technician, len(technicianRecords))
	for i, r := range technicianRecords {
		techs[i] = recordToTechnician(r)
	}
	events := recordsToEvents(eventRecords)

	scores := make(map[string]int, len(elevators))
	bySite := make(map[string][]coreelevator.Elevator)
	for _, el := range elevators {
		scores[el.ID] = scoreElevator(el, events, sitesByID[el.SiteID], now).Value
		bySite[el.SiteID] = append(bySite[el.SiteID], el)
	}

	counts := analytics.CountStates(elevators)
	dashboard := &primary.Dashboard{
		GeneratedAt:      now,
		TotalElevators:   counts.Total,
		TotalSites:       len(sites),
		TotalTechnicians: len(techs),
		AvailabilityRate: analytics.AvailabilityRate(elevators),
		MTTRHours:        analytics.ComputeMTTR(events, now, analytics.MonthWindow).Hours(),
		FaultsLast7Days:  analytics.CountKind(events, coreelevator.EventFaultDeclared, now.Add(-analytics.WeekWindow)),
		FaultsLast30Days: analytics.CountKind(events, coreelevator.EventFaultDeclared, now.Add(-analytics.MonthWindow)),
		RepairsOngoing:   counts.UnderRepair,
		Categories:       make(map[string]primary.CategoryCount),
	}

	for _, st := range sites {
		summary := analytics.SummarizeSite(st, bySite[st.ID], events, scores, now)
		dashboard.Sites = append(dashboard.Sites, primary.SiteSummary{
			SiteID:      summary.SiteID,
			Name:        summary.Name,
			City:        summary.City,
			Category:    string(summary.Category),
			Total:       summary.States.Total,
			Functional:  summary.States.Functional,
			Faulty:      summary.States.Faulty,
			UnderRepair: summary.States.UnderRepair,
			AverageRisk: summary.AverageRisk,
			Trend:       summary.Trend,
		})
	}

	for _, p := range analytics.TechnicianPerformance(techs, elevators, events, now, analytics.MonthWindow) {
		dashboard.Technicians = append(dashboard.Technicians, primary.TechnicianPerformance{
			TechnicianID:       p.TechnicianID,
			FullName:           p.FullName,
			Specialty:          p.Specialty,
			Available:          p.Available,
			Interventions:      p.Interventions,
			InProgress:         p.InProgress,
			AverageRepairHours: p.AverageRepairHours,
		})
	}

	for _, d := range analytics.Heatmap(events, now, HeatmapDays) {
		dashboard.Activity = append(dashboard.Activity, primary.DayActivity{
			Date:    d.Date,
			Count:   d.Count,
			Faults:  d.Faults,
			Repairs: d.Repairs,
		})
	}

	for category, c := range analytics.CategoryBreakdown(sites, elevators) {
		dashboard.Categories[string(category)] = primary.CategoryCount{Total: c.Total, Functional: c.Functional}
	}

	s.logger.Debug("dashboard computed",
		zap.Int("elevators", counts.Total),
		zap.Int("events", len(events)),
	)
	return dashboard, nil
}

// Ensure AnalyticsServiceImpl implements the interface
var _ primary.AnalyticsService = (*AnalyticsServiceImpl)(nil)
