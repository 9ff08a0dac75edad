package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/gmao/internal/core/analytics"
	coreelevator "github.com/example/gmao/internal/core/elevator"
	coresite "github.com/example/gmao/internal/core/site"
	"github.com/example/gmao/internal/ctxutil"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// SiteServiceImpl implements the SiteService interface.
type SiteServiceImpl struct {
	siteRepo     secondary.SiteRepository
	elevatorRepo secondary.ElevatorRepository
	riskCache    secondary.RiskCache // optional
	logger       *zap.Logger
}

// NewSiteService creates a new SiteService with injected dependencies.
func NewSiteService(
	siteRepo secondary.SiteRepository,
	elevatorRepo secondary.ElevatorRepository,
	riskCache secondary.RiskCache,
	logger *zap.Logger,
) *SiteServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteServiceImpl{
		siteRepo:     siteRepo,
		elevatorRepo: elevatorRepo,
		riskCache:    riskCache,
		logger:       logger,
	}
}

// CreateSite creates a new site.
func (s *SiteServiceImpl) CreateSite(ctx context.Context, req primary.CreateSiteRequest) (*primary.CreateSiteResponse, error) {
	guardCtx := coresite.SaveContext{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Category:    req.Category,
	}
	if result := coresite.CanSaveSite(guardCtx); !result.Allowed {
		return nil, rejected(result.Reason)
	}

	nextID, err := s.siteRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate site ID: %w", err)
	}

	record := &secondary.SiteRecord{
		ID:          nextID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		City:        strings.TrimSpace(req.City),
		Address:     strings.TrimSpace(req.Address),
		Category:    req.Category,
	}
	if err := s.siteRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	s.logger.Info("site created",
		zap.String("site_id", record.ID),
		zap.String("category", record.Category),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	return &primary.CreateSiteResponse{
		SiteID: record.ID,
		Site:   recordToPrimarySite(record),
	}, nil
}

// GetSite retrieves a site by ID.
func (s *SiteServiceImpl) GetSite(ctx context.Context, siteID string) (*primary.Site, error) {
	record, err := s.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return recordToPrimarySite(record), nil
}

// ListSites retrieves all sites.
func (s *SiteServiceImpl) ListSites(ctx context.Context) ([]*primary.Site, error) {
	records, err := s.siteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	sites := make([]*primary.Site, len(records))
	for i, r := range records {
		sites[i] = recordToPrimarySite(r)
	}
	return sites, nil
}

// UpdateSite replaces the details of a site.
func (s *SiteServiceImpl) UpdateSite(ctx context.Context, req primary.UpdateSiteRequest) (*primary.Site, error) {
	record, err := s.siteRepo.GetByID(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}

	guardCtx := coresite.SaveContext{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Category:    req.Category,
	}
	if result := coresite.CanSaveSite(guardCtx); !result.Allowed {
		return nil, rejected(result.Reason)
	}

	categoryChanged := record.Category != req.Category
	record.Name = strings.TrimSpace(req.Name)
	record.Description = strings.TrimSpace(req.Description)
	record.City = strings.TrimSpace(req.City)
	record.Address = strings.TrimSpace(req.Address)
	record.Category = req.Category

	if err := s.siteRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update site: %w", err)
	}

	if categoryChanged {
		s.invalidateSiteRisk(ctx, record.ID)
	}
	return recordToPrimarySite(record), nil
}

// DeleteSite deletes a site. Sites with elevators require Force.
func (s *SiteServiceImpl) DeleteSite(ctx context.Context, req primary.DeleteSiteRequest) error {
	if _, err := s.siteRepo.GetByID(ctx, req.SiteID); err != nil {
		return err
	}

	count, err := s.siteRepo.CountElevators(ctx, req.SiteID)
	if err != nil {
		return fmt.Errorf("failed to count elevators: %w", err)
	}

	guardCtx := coresite.DeleteContext{
		SiteID:        req.SiteID,
		ElevatorCount: count,
		ForceDelete:   req.Force,
	}
	if result := coresite.CanDeleteSite(guardCtx); !result.Allowed {
		return rejected(result.Reason)
	}

	// Collect ids before the cascade removes them.
	elevators, err := s.elevatorRepo.List(ctx, secondary.ElevatorFilters{SiteID: req.SiteID})
	if err != nil {
		return fmt.Errorf("failed to list elevators: %w", err)
	}

	if err := s.siteRepo.Delete(ctx, req.SiteID); err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	for _, el := range elevators {
		s.invalidate(ctx, el.ID)
	}

	s.logger.Info("site deleted",
		zap.String("site_id", req.SiteID),
		zap.Int("elevators", count),
		zap.Bool("force", req.Force),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	return nil
}

// GetSiteStats counts the elevators of a site per state.
func (s *SiteServiceImpl) GetSiteStats(ctx context.Context, siteID string) (*primary.SiteStats, error) {
	if _, err := s.siteRepo.GetByID(ctx, siteID); err != nil {
		return nil, err
	}

	records, err := s.elevatorRepo.List(ctx, secondary.ElevatorFilters{SiteID: siteID})
	if err != nil {
		return nil, fmt.Errorf("failed to list elevators: %w", err)
	}

	elevators := make([]coreelevator.Elevator, 0, len(records))
	for _, r := range records {
		elevators = append(elevators, recordToElevator(r))
	}
	counts := analytics.CountStates(elevators)

	return &primary.SiteStats{
		SiteID:      siteID,
		Total:       counts.Total,
		Functional:  counts.Functional,
		Faulty:      counts.Faulty,
		UnderRepair: counts.UnderRepair,
	}, nil
}

func (s *SiteServiceImpl) invalidateSiteRisk(ctx context.Context, siteID string) {
	if s.riskCache == nil {
		return
	}
	elevators, err := s.elevatorRepo.List(ctx, secondary.ElevatorFilters{SiteID: siteID})
	if err != nil {
		s.logger.Warn("risk cache invalidation skipped", zap.String("site_id", siteID), zap.Error(err))
		return
	}
	for _, el := range elevators {
		s.invalidate(ctx, el.ID)
	}
}

func (s *SiteServiceImpl) invalidate(ctx context.Context, elevatorID string) {
	if s.riskCache == nil {
		return
	}
	if err := s.riskCache.Invalidate(ctx, elevatorID); err != nil {
		s.logger.Warn("risk cache invalidation failed", zap.String("elevator_id", elevatorID), zap.Error(err))
	}
}

// Ensure SiteServiceImpl implements the interface
var _ primary.SiteService = (*SiteServiceImpl)(nil)
