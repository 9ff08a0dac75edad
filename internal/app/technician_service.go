package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	coretechnician "github.com/example/gmao/internal/core/technician"
	"github.com/example/gmao/internal/ctxutil"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// TechnicianServiceImpl implements the TechnicianService interface.
type TechnicianServiceImpl struct {
	technicianRepo secondary.TechnicianRepository
	siteRepo       secondary.SiteRepository
	elevatorRepo   secondary.ElevatorRepository
	logger         *zap.Logger
}

// NewTechnicianService creates a new TechnicianService with injected dependencies.
func NewTechnicianService(
	technicianRepo secondary.TechnicianRepository,
	siteRepo secondary.SiteRepository,
	elevatorRepo secondary.ElevatorRepository,
	logger *zap.Logger,
) *TechnicianServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TechnicianServiceImpl{
		technicianRepo: technicianRepo,
		siteRepo:       siteRepo,
		elevatorRepo:   elevatorRepo,
		logger:         logger,
	}
}

// CreateTechnician creates a new available technician.
func (s *TechnicianServiceImpl) CreateTechnician(ctx context.Context, req primary.CreateTechnicianRequest) (*primary.CreateTechnicianResponse, error) {
	guardCtx := coretechnician.CreateContext{FullName: req.FullName, Specialty: req.Specialty}
	if result := coretechnician.CanCreateTechnician(guardCtx); !result.Allowed {
		return nil, rejected(result.Reason)
	}

	nextID, err := s.technicianRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate technician ID: %w", err)
	}

	record := &secondary.TechnicianRecord{
		ID:        nextID,
		FullName:  strings.TrimSpace(req.FullName),
		Specialty: strings.TrimSpace(req.Specialty),
		Available: true,
	}
	if err := s.technicianRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}

	s.logger.Info("technician created",
		zap.String("technician_id", record.ID),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	return &primary.CreateTechnicianResponse{
		TechnicianID: record.ID,
		Technician:   recordToPrimaryTechnician(record),
	}, nil
}

// GetTechnician retrieves a technician by ID.
func (s *TechnicianServiceImpl) GetTechnician(ctx context.Context, technicianID string) (*primary.Technician, error) {
	record, err := s.technicianRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return recordToPrimaryTechnician(record), nil
}

// ListTechnicians retrieves all technicians.
func (s *TechnicianServiceImpl) ListTechnicians(ctx context.Context) ([]*primary.Technician, error) {
	records, err := s.technicianRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	return recordsToPrimaryTechnicians(records), nil
}

// SetAvailability flags a technician as available or not.
// Availability is informational and never blocks an assignment.
func (s *TechnicianServiceImpl) SetAvailability(ctx context.Context, technicianID string, available bool) (*primary.Technician, error) {
	record, err := s.technicianRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	record.Available = available
	if err := s.technicianRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update technician: %w", err)
	}
	return recordToPrimaryTechnician(record), nil
}

// DeleteTechnician deletes a technician with no open fault.
func (s *TechnicianServiceImpl) DeleteTechnician(ctx context.Context, technicianID string) error {
	if _, err := s.technicianRepo.GetByID(ctx, technicianID); err != nil {
		return err
	}

	open, err := s.elevatorRepo.CountOpenByTechnician(ctx, technicianID)
	if err != nil {
		return fmt.Errorf("failed to count open faults: %w", err)
	}
	if result := coretechnician.CanDeleteTechnician(coretechnician.DeleteContext{
		TechnicianID: technicianID,
		OpenFaults:   open,
	}); !result.Allowed {
		return rejected(result.Reason)
	}

	if err := s.technicianRepo.Delete(ctx, technicianID); err != nil {
		return fmt.Errorf("failed to delete technician: %w", err)
	}
	s.logger.Info("technician deleted",
		zap.String("technician_id", technicianID),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	return nil
}

// AssignToSite links a technician to a site.
func (s *TechnicianServiceImpl) AssignToSite(ctx context.Context, technicianID, siteID string) error {
	techExists, err := s.exists(func() error { _, err := s.technicianRepo.GetByID(ctx, technicianID); return err })
	if err != nil {
		return err
	}
	siteExists, err := s.exists(func() error { _, err := s.siteRepo.GetByID(ctx, siteID); return err })
	if err != nil {
		return err
	}

	linked := false
	if techExists && siteExists {
		linked, err = s.technicianRepo.IsAssignedToSite(ctx, technicianID, siteID)
		if err != nil {
			return fmt.Errorf("failed to check site assignment: %w", err)
		}
	}

	guardCtx := coretechnician.AssignSiteContext{
		TechnicianID:     technicianID,
		SiteID:           siteID,
		TechnicianExists: techExists,
		SiteExists:       siteExists,
		AlreadyLinked:    linked,
	}
	if result := coretechnician.CanAssignToSite(guardCtx); !result.Allowed {
		if !techExists || !siteExists {
			return fmt.Errorf("%s: %w", result.Reason, secondary.ErrNotFound)
		}
		return rejected(result.Reason)
	}

	if err := s.technicianRepo.AssignToSite(ctx, technicianID, siteID); err != nil {
		return fmt.Errorf("failed to assign technician: %w", err)
	}
	return nil
}

// UnassignFromSite removes the link between a technician and a site.
func (s *TechnicianServiceImpl) UnassignFromSite(ctx context.Context, technicianID, siteID string) error {
	return s.technicianRepo.UnassignFromSite(ctx, technicianID, siteID)
}

// ListSiteTechnicians retrieves the technicians covering a site.
func (s *TechnicianServiceImpl) ListSiteTechnicians(ctx context.Context, siteID string) ([]*primary.Technician, error) {
	if _, err := s.siteRepo.GetByID(ctx, siteID); err != nil {
		return nil, err
	}
	records, err := s.technicianRepo.ListBySite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list site technicians: %w", err)
	}
	return recordsToPrimaryTechnicians(records), nil
}

func (s *TechnicianServiceImpl) exists(get func() error) (bool, error) {
	err := get()
	if errors.Is(err, secondary.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func recordsToPrimaryTechnicians(records []*secondary.TechnicianRecord) []*primary.Technician {
	out := make([]*primary.Technician, len(records))
	for i, r := range records {
		out[i] = recordToPrimaryTechnician(r)
	}
	return out
}

// Ensure TechnicianServiceImpl implements the interface
var _ primary.TechnicianService = (*TechnicianServiceImpl)(nil)
