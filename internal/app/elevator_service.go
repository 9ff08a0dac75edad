package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/ctxutil"
	"github.com/example/gmao/internal/metrics"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// DefaultRecentEvents is the size of the recent-events feed when no limit is given.
const DefaultRecentEvents = 10

// ElevatorServiceImpl implements the ElevatorService interface.
type ElevatorServiceImpl struct {
	elevatorRepo   secondary.ElevatorRepository
	siteRepo       secondary.SiteRepository
	technicianRepo secondary.TechnicianRepository
	eventRepo      secondary.EventRepository
	riskCache      secondary.RiskCache      // optional
	publisher      secondary.EventPublisher // optional
	machine        coreelevator.Machine
	clock          func() time.Time
	locks          *keyedLocks
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewElevatorService creates a new ElevatorService with injected dependencies.
// riskCache and publisher may be nil.
func NewElevatorService(
	elevatorRepo secondary.ElevatorRepository,
	siteRepo secondary.SiteRepository,
	technicianRepo secondary.TechnicianRepository,
	eventRepo secondary.EventRepository,
	riskCache secondary.RiskCache,
	publisher secondary.EventPublisher,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ElevatorServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElevatorServiceImpl{
		elevatorRepo:   elevatorRepo,
		siteRepo:       siteRepo,
		technicianRepo: technicianRepo,
		eventRepo:      eventRepo,
		riskCache:      riskCache,
		publisher:      publisher,
		machine:        coreelevator.Machine{NewID: uuid.NewString},
		clock:          time.Now,
		locks:          newKeyedLocks(),
		logger:         logger,
		metrics:        m,
	}
}

// CreateElevator creates a new functional elevator on a site.
func (s *ElevatorServiceImpl) CreateElevator(ctx context.Context, req primary.CreateElevatorRequest) (*primary.CreateElevatorResponse, error) {
	siteExists, err := s.siteExists(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}

	guardCtx := coreelevator.CreateElevatorContext{
		Name:       req.Name,
		Reference:  req.Reference,
		SiteID:     req.SiteID,
		SiteExists: siteExists,
	}
	if result := coreelevator.CanCreateElevator(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	nextID, err := s.elevatorRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate elevator ID: %w", err)
	}

	record := &secondary.ElevatorRecord{
		ID:        nextID,
		Name:      strings.TrimSpace(req.Name),
		Reference: strings.TrimSpace(req.Reference),
		SiteID:    req.SiteID,
		State:     string(coreelevator.InitialState()),
		Version:   1,
	}
	if err := s.elevatorRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create elevator: %w", err)
	}

	s.logger.Info("elevator created",
		zap.String("elevator_id", record.ID),
		zap.String("site_id", record.SiteID),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)

	return &primary.CreateElevatorResponse{
		ElevatorID: record.ID,
		Elevator:   recordToPrimaryElevator(record),
	}, nil
}

// GetElevator retrieves an elevator by ID.
func (s *ElevatorServiceImpl) GetElevator(ctx context.Context, elevatorID string) (*primary.Elevator, error) {
	record, err := s.elevatorRepo.GetByID(ctx, elevatorID)
	if err != nil {
		return nil, err
	}
	return recordToPrimaryElevator(record), nil
}

// ListElevators retrieves elevators matching the given filters.
func (s *ElevatorServiceImpl) ListElevators(ctx context.Context, filters primary.ElevatorFilters) ([]*primary.Elevator, error) {
	if filters.State != "" {
		if _, err := coreelevator.ParseGlobalState(filters.State); err != nil {
			return nil, rejected(err.Error())
		}
	}

	records, err := s.elevatorRepo.List(ctx, secondary.ElevatorFilters{
		SiteID: filters.SiteID,
		State:  filters.State,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list elevators: %w", err)
	}

	elevators := make([]*primary.Elevator, len(records))
	for i, r := range records {
		elevators[i] = recordToPrimaryElevator(r)
	}
	return elevators, nil
}

// UpdateElevator updates name and technical reference.
func (s *ElevatorServiceImpl) UpdateElevator(ctx context.Context, req primary.UpdateElevatorRequest) (*primary.Elevator, error) {
	guardCtx := coreelevator.UpdateElevatorContext{
		ElevatorID: req.ElevatorID,
		Name:       req.Name,
		Reference:  req.Reference,
	}
	if result := coreelevator.CanUpdateElevator(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	unlock := s.locks.Lock(req.ElevatorID)
	defer unlock()

	record, err := s.elevatorRepo.GetByID(ctx, req.ElevatorID)
	if err != nil {
		return nil, err
	}

	record.Name = strings.TrimSpace(req.Name)
	record.Reference = strings.TrimSpace(req.Reference)
	if err := s.elevatorRepo.UpdateDetails(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update elevator: %w", err)
	}
	return recordToPrimaryElevator(record), nil
}

// MoveElevator reassigns an elevator to another site.
func (s *ElevatorServiceImpl) MoveElevator(ctx context.Context, req primary.MoveElevatorRequest) (*primary.Elevator, error) {
	unlock := s.locks.Lock(req.ElevatorID)
	defer unlock()

	record, err := s.elevatorRepo.GetByID(ctx, req.ElevatorID)
	if err != nil {
		return nil, err
	}

	targetExists, err := s.siteExists(ctx, req.TargetSiteID)
	if err != nil {
		return nil, err
	}

	guardCtx := coreelevator.MoveContext{
		ElevatorID:    record.ID,
		CurrentSiteID: record.SiteID,
		TargetSiteID:  req.TargetSiteID,
		TargetExists:  targetExists,
	}
	if result := coreelevator.CanMoveElevator(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	from := record.SiteID
	record.SiteID = req.TargetSiteID
	if err := s.elevatorRepo.UpdateDetails(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to move elevator: %w", err)
	}

	// The site category weights the score.
	s.invalidateRisk(ctx, record.ID)

	s.logger.Info("elevator moved",
		zap.String("elevator_id", record.ID),
		zap.String("from_site", from),
		zap.String("to_site", record.SiteID),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	return recordToPrimaryElevator(record), nil
}

// DeleteElevator deletes an elevator and its history.
func (s *ElevatorServiceImpl) DeleteElevator(ctx context.Context, elevatorID string) error {
	unlock := s.locks.Lock(elevatorID)
	defer unlock()

	if err := s.elevatorRepo.Delete(ctx, elevatorID); err != nil {
		return fmt.Errorf("failed to delete elevator: %w", err)
	}
	s.invalidateRisk(ctx, elevatorID)

	s.logger.Info("elevator deleted",
		zap.String("elevator_id", elevatorID),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	return nil
}

// DeclareFault moves a functional elevator to faulty.
func (s *ElevatorServiceImpl) DeclareFault(ctx context.Context, req primary.DeclareFaultRequest) (*primary.TransitionResponse, error) {
	guardCtx := coreelevator.DeclareFaultContext{ElevatorID: req.ElevatorID, Comment: req.Comment}
	if result := coreelevator.CanDeclareFault(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	comment := strings.TrimSpace(req.Comment)
	return s.transition(ctx, req.ElevatorID, coreelevator.OpDeclareFault,
		func(el coreelevator.Elevator, now time.Time) (coreelevator.TransitionResult, error) {
			return s.machine.DeclareFault(el, comment, now)
		})
}

// AssignTechnician assigns a technician to a pending fault.
func (s *ElevatorServiceImpl) AssignTechnician(ctx context.Context, req primary.AssignTechnicianRequest) (*primary.TransitionResponse, error) {
	var assignee coreelevator.Assignee
	if strings.TrimSpace(req.TechnicianID) != "" {
		tech, err := s.technicianRepo.GetByID(ctx, req.TechnicianID)
		if err != nil {
			return nil, err
		}
		assignee = coreelevator.Assignee{ID: tech.ID, FullName: tech.FullName}
	}

	return s.transition(ctx, req.ElevatorID, coreelevator.OpAssignTechnician,
		func(el coreelevator.Elevator, now time.Time) (coreelevator.TransitionResult, error) {
			return s.machine.AssignTechnician(el, req.TechnicianID, assignee, now)
		})
}

// StartRepair starts the repair of an assigned fault.
func (s *ElevatorServiceImpl) StartRepair(ctx context.Context, elevatorID string) (*primary.TransitionResponse, error) {
	return s.transition(ctx, elevatorID, coreelevator.OpStartRepair,
		func(el coreelevator.Elevator, now time.Time) (coreelevator.TransitionResult, error) {
			return s.machine.StartRepair(el, now)
		})
}

// CloseRepair returns an elevator under repair to service.
func (s *ElevatorServiceImpl) CloseRepair(ctx context.Context, req primary.CloseRepairRequest) (*primary.TransitionResponse, error) {
	if result := coreelevator.CheckCommentLength(req.Comment); !result.Allowed {
		return nil, result.Error()
	}

	comment := strings.TrimSpace(req.Comment)
	return s.transition(ctx, req.ElevatorID, coreelevator.OpCloseRepair,
		func(el coreelevator.Elevator, now time.Time) (coreelevator.TransitionResult, error) {
			return s.machine.CloseRepair(el, comment, now)
		})
}

// ApplyAction dispatches one of the four transitions by name.
func (s *ElevatorServiceImpl) ApplyAction(ctx context.Context, req primary.ActionRequest) (*primary.TransitionResponse, error) {
	op, err := coreelevator.ParseOperation(req.Action)
	if err != nil {
		return nil, err
	}

	switch op {
	case coreelevator.OpDeclareFault:
		return s.DeclareFault(ctx, primary.DeclareFaultRequest{ElevatorID: req.ElevatorID, Comment: req.Comment})
	case coreelevator.OpAssignTechnician:
		return s.AssignTechnician(ctx, primary.AssignTechnicianRequest{ElevatorID: req.ElevatorID, TechnicianID: req.TechnicianID})
	case coreelevator.OpStartRepair:
		return s.StartRepair(ctx, req.ElevatorID)
	case coreelevator.OpCloseRepair:
		return s.CloseRepair(ctx, primary.CloseRepairRequest{ElevatorID: req.ElevatorID, Comment: req.Comment})
	default:
		return nil, rejected(fmt.Sprintf("unsupported action %q", req.Action))
	}
}

// AddComment appends a manual annotation to an elevator's history.
func (s *ElevatorServiceImpl) AddComment(ctx context.Context, req primary.AddCommentRequest) (*primary.Event, error) {
	if req.TechnicianID != "" {
		if _, err := s.technicianRepo.GetByID(ctx, req.TechnicianID); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(req.ElevatorID)
	defer unlock()

	record, err := s.elevatorRepo.GetByID(ctx, req.ElevatorID)
	if err != nil {
		return nil, err
	}
	history, err := s.eventRepo.ListByElevator(ctx, req.ElevatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	event, err := s.machine.Comment(recordToElevator(record), strings.TrimSpace(req.Text), req.TechnicianID, s.eventTime(history))
	if err != nil {
		return nil, err
	}

	eventRecord := eventToRecord(event)
	if err := s.eventRepo.Append(ctx, eventRecord); err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}
	s.metrics.EventAppended(eventRecord.Kind)
	s.publish(ctx, []*secondary.EventRecord{eventRecord})

	return recordToPrimaryEvent(eventRecord), nil
}

// GetHistory retrieves the events of an elevator in log order.
func (s *ElevatorServiceImpl) GetHistory(ctx context.Context, elevatorID string) ([]*primary.Event, error) {
	if _, err := s.elevatorRepo.GetByID(ctx, elevatorID); err != nil {
		return nil, err
	}
	records, err := s.eventRepo.ListByElevator(ctx, elevatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return recordsToPrimaryEvents(records), nil
}

// ListRecentEvents retrieves the newest events across the fleet.
func (s *ElevatorServiceImpl) ListRecentEvents(ctx context.Context, limit int) ([]*primary.Event, error) {
	if limit <= 0 {
		limit = DefaultRecentEvents
	}
	records, err := s.eventRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return recordsToPrimaryEvents(records), nil
}

type transitionFunc func(el coreelevator.Elevator, now time.Time) (coreelevator.TransitionResult, error)

// transition runs one state-machine operation under the elevator lock and
// persists the new snapshot with its events in a single version-checked write.
func (s *ElevatorServiceImpl) transition(ctx context.Context, elevatorID string, op coreelevator.Operation, apply transitionFunc) (*primary.TransitionResponse, error) {
	unlock := s.locks.Lock(elevatorID)
	defer unlock()

	record, err := s.elevatorRepo.GetByID(ctx, elevatorID)
	if err != nil {
		return nil, err
	}
	history, err := s.eventRepo.ListByElevator(ctx, elevatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	result, err := apply(recordToElevator(record), s.eventTime(history))
	if err != nil {
		s.metrics.Transition(string(op), "rejected")
		s.logger.Warn("transition rejected",
			zap.String("elevator_id", elevatorID),
			zap.String("operation", string(op)),
			zap.String("state", record.State),
			zap.String("sub_state", record.SubState),
			zap.String("actor", ctxutil.ActorFromContext(ctx)),
			zap.Error(err),
		)
		return nil, err
	}

	next := applySnapshot(record, result.Elevator)
	events := make([]*secondary.EventRecord, len(result.Events))
	for i, e := range result.Events {
		events[i] = eventToRecord(e)
	}

	if err := s.elevatorRepo.ApplyTransition(ctx, next, record.Version, events); err != nil {
		s.metrics.Transition(string(op), "error")
		if errors.Is(err, secondary.ErrVersionConflict) {
			return nil, fmt.Errorf("elevator %s was modified concurrently: %w", elevatorID, err)
		}
		return nil, fmt.Errorf("failed to persist %s: %w", op, err)
	}

	s.metrics.Transition(string(op), "ok")
	for _, e := range events {
		s.metrics.EventAppended(e.Kind)
	}
	s.invalidateRisk(ctx, elevatorID)
	s.publish(ctx, events)

	s.logger.Info("elevator transition",
		zap.String("elevator_id", elevatorID),
		zap.String("operation", string(op)),
		zap.String("from", record.State),
		zap.String("to", next.State),
		zap.String("technician_id", next.TechnicianID),
		zap.Int("version", next.Version),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)

	return &primary.TransitionResponse{
		Elevator: recordToPrimaryElevator(next),
		Events:   recordsToPrimaryEvents(events),
	}, nil
}

// eventTime returns the timestamp for the next batch. It never goes back
// before the last recorded event, so replay order matches log order.
func (s *ElevatorServiceImpl) eventTime(history []*secondary.EventRecord) time.Time {
	now := s.clock().UTC()
	for _, e := range history {
		if e.OccurredAt.After(now) {
			now = e.OccurredAt
		}
	}
	return now
}

func (s *ElevatorServiceImpl) siteExists(ctx context.Context, siteID string) (bool, error) {
	if strings.TrimSpace(siteID) == "" {
		return false, nil
	}
	_, err := s.siteRepo.GetByID(ctx, siteID)
	if errors.Is(err, secondary.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get site: %w", err)
	}
	return true, nil
}

func (s *ElevatorServiceImpl) invalidateRisk(ctx context.Context, elevatorID string) {
	if s.riskCache == nil {
		return
	}
	if err := s.riskCache.Invalidate(ctx, elevatorID); err != nil {
		s.logger.Warn("risk cache invalidation failed", zap.String("elevator_id", elevatorID), zap.Error(err))
	}
}

// publish forwards committed events. Failures never undo the write.
func (s *ElevatorServiceImpl) publish(ctx context.Context, events []*secondary.EventRecord) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events); err != nil {
		s.metrics.PublishFailed()
		s.logger.Error("event publish failed",
			zap.String("elevator_id", events[0].ElevatorID),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}

// Ensure ElevatorServiceImpl implements the interface
var _ primary.ElevatorService = (*ElevatorServiceImpl)(nil)
