package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/gmao/internal/core/analytics"
	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/core/risk"
	"github.com/example/gmao/internal/core/site"
	"github.com/example/gmao/internal/metrics"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// DefaultRiskCacheTTL bounds how long a cached score may be served.
const DefaultRiskCacheTTL = 60 * time.Second

// ExplanationSiteNotFound is reported for elevators whose site is gone.
const ExplanationSiteNotFound = "Site not found."

// RiskServiceImpl implements the RiskService interface.
type RiskServiceImpl struct {
	elevatorRepo secondary.ElevatorRepository
	siteRepo     secondary.SiteRepository
	eventRepo    secondary.EventRepository
	cache        secondary.RiskCache // optional
	ttl          time.Duration
	clock        func() time.Time
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewRiskService creates a new RiskService with injected dependencies.
// cache may be nil; a ttl <= 0 uses DefaultRiskCacheTTL.
func NewRiskService(
	elevatorRepo secondary.ElevatorRepository,
	siteRepo secondary.SiteRepository,
	eventRepo secondary.EventRepository,
	cache secondary.RiskCache,
	ttl time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *RiskServiceImpl {
	if ttl <= 0 {
		ttl = DefaultRiskCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskServiceImpl{
		elevatorRepo: elevatorRepo,
		siteRepo:     siteRepo,
		eventRepo:    eventRepo,
		cache:        cache,
		ttl:          ttl,
		clock:        time.Now,
		logger:       logger,
		metrics:      m,
	}
}

// GetRiskScore computes (or reads from cache) the risk of one elevator.
func (s *RiskServiceImpl) GetRiskScore(ctx context.Context, elevatorID string) (*primary.RiskScore, error) {
	if cached := s.cached(ctx, elevatorID); cached != nil {
		return cached, nil
	}

	record, err := s.elevatorRepo.GetByID(ctx, elevatorID)
	if err != nil {
		return nil, err
	}

	var owner *site.Site
	siteRecord, err := s.siteRepo.GetByID(ctx, record.SiteID)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get site: %w", err)
	default:
		st := recordToSite(siteRecord)
		owner = &st
	}

	events, err := s.eventRepo.ListByElevator(ctx, elevatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	now := s.clock().UTC()
	score := scoreElevator(recordToElevator(record), recordsToEvents(events), owner, now)
	s.metrics.RiskComputed(string(score.Tier), score.Value)

	result := toPrimaryRisk(elevatorID, score, now)
	s.store(ctx, result)
	return result, nil
}

// ListHighRisk retrieves elevators scoring moderate or high, highest first.
func (s *RiskServiceImpl) ListHighRisk(ctx context.Context, limit int) ([]*primary.ElevatorRisk, error) {
	elevatorRecords, err := s.elevatorRepo.List(ctx, secondary.ElevatorFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list elevators: %w", err)
	}
	sites, err := loadSites(ctx, s.siteRepo)
	if err != nil {
		return nil, err
	}
	eventRecords, err := s.eventRepo.List(ctx, secondary.EventFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	now := s.clock().UTC()
	events := recordsToEvents(eventRecords)
	byID := make(map[string]*secondary.ElevatorRecord, len(elevatorRecords))
	scored := make([]analytics.ScoredElevator, 0, len(elevatorRecords))
	for _, r := range elevatorRecords {
		byID[r.ID] = r
		el := recordToElevator(r)
		scored = append(scored, analytics.ScoredElevator{
			Elevator: el,
			Score:    scoreElevator(el, events, sites[el.SiteID], now),
		})
	}

	ranked := analytics.RankHighRisk(scored, limit)
	out := make([]*primary.ElevatorRisk, len(ranked))
	for i, r := range ranked {
		out[i] = &primary.ElevatorRisk{
			Elevator: recordToPrimaryElevator(byID[r.Elevator.ID]),
			Risk:     toPrimaryRisk(r.Elevator.ID, r.Score, now),
		}
	}
	return out, nil
}

func (s *RiskServiceImpl) cached(ctx context.Context, elevatorID string) *primary.RiskScore {
	if s.cache == nil {
		return nil
	}
	rec, err := s.cache.Get(ctx, elevatorID)
	if errors.Is(err, secondary.ErrCacheMiss) {
		s.metrics.CacheMiss()
		return nil
	}
	if err != nil {
		s.metrics.CacheMiss()
		s.logger.Warn("risk cache read failed", zap.String("elevator_id", elevatorID), zap.Error(err))
		return nil
	}
	s.metrics.CacheHit()
	return &primary.RiskScore{
		ElevatorID:      rec.ElevatorID,
		Score:           rec.Score,
		Tier:            rec.Tier,
		Explanation:     rec.Explanation,
		RecentFaults:    rec.RecentFaults,
		DaysSinceRepair: rec.DaysSinceRepair,
		ComputedAt:      rec.ComputedAt,
	}
}

func (s *RiskServiceImpl) store(ctx context.Context, score *primary.RiskScore) {
	if s.cache == nil {
		return
	}
	rec := &secondary.RiskRecord{
		ElevatorID:      score.ElevatorID,
		Score:           score.Score,
		Tier:            score.Tier,
		Explanation:     score.Explanation,
		RecentFaults:    score.RecentFaults,
		DaysSinceRepair: score.DaysSinceRepair,
		ComputedAt:      score.ComputedAt,
	}
	if err := s.cache.Set(ctx, rec, s.ttl); err != nil {
		s.logger.Warn("risk cache write failed", zap.String("elevator_id", score.ElevatorID), zap.Error(err))
	}
}

// scoreElevator scores an elevator; a missing site yields a zero, low score.
func scoreElevator(el coreelevator.Elevator, events []coreelevator.Event, owner *site.Site, now time.Time) risk.Score {
	if owner == nil {
		return risk.Score{Value: 0, Tier: risk.TierLow, Explanation: ExplanationSiteNotFound}
	}
	return risk.Compute(el, events, *owner, now)
}

func toPrimaryRisk(elevatorID string, score risk.Score, now time.Time) *primary.RiskScore {
	return &primary.RiskScore{
		ElevatorID:      elevatorID,
		Score:           score.Value,
		Tier:            string(score.Tier),
		Explanation:     score.Explanation,
		RecentFaults:    score.Factors.RecentFaults,
		DaysSinceRepair: score.Factors.DaysSinceRepair,
		ComputedAt:      now,
	}
}

func loadSites(ctx context.Context, repo secondary.SiteRepository) (map[string]*site.Site, error) {
	records, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	sites := make(map[string]*site.Site, len(records))
	for _, r := range records {
		st := recordToSite(r)
		sites[st.ID] = &st
	}
	return sites, nil
}

// Ensure RiskServiceImpl implements the interface
var _ primary.RiskService = (*RiskServiceImpl)(nil)
