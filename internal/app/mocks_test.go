package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/gmao/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockSiteRepository implements secondary.SiteRepository for testing.
type mockSiteRepository struct {
	sites     map[string]*secondary.SiteRecord
	elevators *mockElevatorRepository
	nextID    int
	getErr    error
}

func newMockSiteRepository(elevators *mockElevatorRepository) *mockSiteRepository {
	return &mockSiteRepository{sites: make(map[string]*secondary.SiteRecord), elevators: elevators}
}

func (m *mockSiteRepository) Create(ctx context.Context, site *secondary.SiteRecord) error {
	m.sites[site.ID] = site
	return nil
}

func (m *mockSiteRepository) GetByID(ctx context.Context, id string) (*secondary.SiteRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if site, ok := m.sites[id]; ok {
		copied := *site
		return &copied, nil
	}
	return nil, fmt.Errorf("site %s %w", id, secondary.ErrNotFound)
}

func (m *mockSiteRepository) Update(ctx context.Context, site *secondary.SiteRecord) error {
	m.sites[site.ID] = site
	return nil
}

func (m *mockSiteRepository) Delete(ctx context.Context, id string) error {
	delete(m.sites, id)
	if m.elevators != nil {
		for elID, el := range m.elevators.elevators {
			if el.SiteID == id {
				delete(m.elevators.elevators, elID)
			}
		}
	}
	return nil
}

func (m *mockSiteRepository) List(ctx context.Context) ([]*secondary.SiteRecord, error) {
	var result []*secondary.SiteRecord
	for _, s := range m.sites {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockSiteRepository) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("SITE-%03d", m.nextID), nil
}

func (m *mockSiteRepository) CountElevators(ctx context.Context, siteID string) (int, error) {
	if m.elevators == nil {
		return 0, nil
	}
	count := 0
	for _, el := range m.elevators.elevators {
		if el.SiteID == siteID {
			count++
		}
	}
	return count, nil
}

// mockElevatorRepository implements secondary.ElevatorRepository for testing.
// ApplyTransition appends to the shared event repository like the real adapter.
type mockElevatorRepository struct {
	elevators  map[string]*secondary.ElevatorRecord
	events     *mockEventRepository
	nextID     int
	applyErr   error
	applyCalls int
	bumpOnRead bool // simulate a concurrent writer between read and write
}

func newMockElevatorRepository(events *mockEventRepository) *mockElevatorRepository {
	return &mockElevatorRepository{elevators: make(map[string]*secondary.ElevatorRecord), events: events}
}

func (m *mockElevatorRepository) Create(ctx context.Context, elevator *secondary.ElevatorRecord) error {
	copied := *elevator
	m.elevators[elevator.ID] = &copied
	return nil
}

func (m *mockElevatorRepository) GetByID(ctx context.Context, id string) (*secondary.ElevatorRecord, error) {
	el, ok := m.elevators[id]
	if !ok {
		return nil, fmt.Errorf("elevator %s %w", id, secondary.ErrNotFound)
	}
	copied := *el
	if m.bumpOnRead {
		el.Version++
	}
	return &copied, nil
}

func (m *mockElevatorRepository) UpdateDetails(ctx context.Context, elevator *secondary.ElevatorRecord) error {
	stored, ok := m.elevators[elevator.ID]
	if !ok {
		return fmt.Errorf("elevator %s %w", elevator.ID, secondary.ErrNotFound)
	}
	if stored.Version != elevator.Version {
		return secondary.ErrVersionConflict
	}
	elevator.Version++
	copied := *elevator
	m.elevators[elevator.ID] = &copied
	return nil
}

func (m *mockElevatorRepository) ApplyTransition(ctx context.Context, elevator *secondary.ElevatorRecord, expectedVersion int, events []*secondary.EventRecord) error {
	m.applyCalls++
	if m.applyErr != nil {
		return m.applyErr
	}
	stored, ok := m.elevators[elevator.ID]
	if !ok {
		return fmt.Errorf("elevator %s %w", elevator.ID, secondary.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("elevator %s: %w", elevator.ID, secondary.ErrVersionConflict)
	}
	elevator.Version = expectedVersion + 1
	copied := *elevator
	m.elevators[elevator.ID] = &copied
	for _, e := range events {
		if err := m.events.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockElevatorRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.elevators[id]; !ok {
		return fmt.Errorf("elevator %s %w", id, secondary.ErrNotFound)
	}
	delete(m.elevators, id)
	return nil
}

func (m *mockElevatorRepository) List(ctx context.Context, filters secondary.ElevatorFilters) ([]*secondary.ElevatorRecord, error) {
	var result []*secondary.ElevatorRecord
	for _, el := range m.elevators {
		if filters.SiteID != "" && el.SiteID != filters.SiteID {
			continue
		}
		if filters.State != "" && el.State != filters.State {
			continue
		}
		copied := *el
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockElevatorRepository) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("ELEV-%03d", m.nextID), nil
}

func (m *mockElevatorRepository) CountOpenByTechnician(ctx context.Context, technicianID string) (int, error) {
	count := 0
	for _, el := range m.elevators {
		if el.TechnicianID == technicianID {
			count++
		}
	}
	return count, nil
}

// mockEventRepository implements secondary.EventRepository for testing.
type mockEventRepository struct {
	events    []*secondary.EventRecord
	appendErr error
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{}
}

func (m *mockEventRepository) Append(ctx context.Context, event *secondary.EventRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	seq := 0
	for _, e := range m.events {
		if e.ElevatorID == event.ElevatorID && e.Seq > seq {
			seq = e.Seq
		}
	}
	event.Seq = seq + 1
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventRepository) ListByElevator(ctx context.Context, elevatorID string) ([]*secondary.EventRecord, error) {
	var result []*secondary.EventRecord
	for _, e := range m.events {
		if e.ElevatorID == elevatorID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	var result []*secondary.EventRecord
	for _, e := range m.events {
		if !filters.Since.IsZero() && e.OccurredAt.Before(filters.Since) {
			continue
		}
		if filters.Kind != "" && e.Kind != filters.Kind {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockEventRepository) ListRecent(ctx context.Context, limit int) ([]*secondary.EventRecord, error) {
	result := append([]*secondary.EventRecord(nil), m.events...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// mockTechnicianRepository implements secondary.TechnicianRepository for testing.
type mockTechnicianRepository struct {
	technicians map[string]*secondary.TechnicianRecord
	links       map[string]bool // technicianID + "|" + siteID
	nextID      int
}

func newMockTechnicianRepository() *mockTechnicianRepository {
	return &mockTechnicianRepository{
		technicians: make(map[string]*secondary.TechnicianRecord),
		links:       make(map[string]bool),
	}
}

func (m *mockTechnicianRepository) Create(ctx context.Context, technician *secondary.TechnicianRecord) error {
	m.technicians[technician.ID] = technician
	return nil
}

func (m *mockTechnicianRepository) GetByID(ctx context.Context, id string) (*secondary.TechnicianRecord, error) {
	if t, ok := m.technicians[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, fmt.Errorf("technician %s %w", id, secondary.ErrNotFound)
}

func (m *mockTechnicianRepository) Update(ctx context.Context, technician *secondary.TechnicianRecord) error {
	m.technicians[technician.ID] = technician
	return nil
}

func (m *mockTechnicianRepository) Delete(ctx context.Context, id string) error {
	delete(m.technicians, id)
	return nil
}

func (m *mockTechnicianRepository) List(ctx context.Context) ([]*secondary.TechnicianRecord, error) {
	var result []*secondary.TechnicianRecord
	for _, t := range m.technicians {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTechnicianRepository) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("TECH-%03d", m.nextID), nil
}

func (m *mockTechnicianRepository) AssignToSite(ctx context.Context, technicianID, siteID string) error {
	m.links[technicianID+"|"+siteID] = true
	return nil
}

func (m *mockTechnicianRepository) UnassignFromSite(ctx context.Context, technicianID, siteID string) error {
	key := technicianID + "|" + siteID
	if !m.links[key] {
		return fmt.Errorf("assignment of %s to %s %w", technicianID, siteID, secondary.ErrNotFound)
	}
	delete(m.links, key)
	return nil
}

func (m *mockTechnicianRepository) ListBySite(ctx context.Context, siteID string) ([]*secondary.TechnicianRecord, error) {
	var result []*secondary.TechnicianRecord
	for _, t := range m.technicians {
		if m.links[t.ID+"|"+siteID] {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTechnicianRepository) IsAssignedToSite(ctx context.Context, technicianID, siteID string) (bool, error) {
	return m.links[technicianID+"|"+siteID], nil
}

// mockRiskCache implements secondary.RiskCache for testing.
type mockRiskCache struct {
	entries     map[string]*secondary.RiskRecord
	invalidated []string
	sets        int
	getErr      error
}

func newMockRiskCache() *mockRiskCache {
	return &mockRiskCache{entries: make(map[string]*secondary.RiskRecord)}
}

func (m *mockRiskCache) Get(ctx context.Context, elevatorID string) (*secondary.RiskRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if rec, ok := m.entries[elevatorID]; ok {
		return rec, nil
	}
	return nil, secondary.ErrCacheMiss
}

func (m *mockRiskCache) Set(ctx context.Context, record *secondary.RiskRecord, ttl time.Duration) error {
	m.sets++
	m.entries[record.ElevatorID] = record
	return nil
}

func (m *mockRiskCache) Invalidate(ctx context.Context, elevatorID string) error {
	m.invalidated = append(m.invalidated, elevatorID)
	delete(m.entries, elevatorID)
	return nil
}

// mockPublisher implements secondary.EventPublisher for testing.
type mockPublisher struct {
	batches    [][]*secondary.EventRecord
	publishErr error
}

func (m *mockPublisher) Publish(ctx context.Context, events []*secondary.EventRecord) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.batches = append(m.batches, events)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// ============================================================================
// Fixtures
// ============================================================================

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type fixture struct {
	elevators   *mockElevatorRepository
	sites       *mockSiteRepository
	technicians *mockTechnicianRepository
	events      *mockEventRepository
	cache       *mockRiskCache
	publisher   *mockPublisher
}

func newFixture() *fixture {
	events := newMockEventRepository()
	elevators := newMockElevatorRepository(events)
	f := &fixture{
		elevators:   elevators,
		sites:       newMockSiteRepository(elevators),
		technicians: newMockTechnicianRepository(),
		events:      events,
		cache:       newMockRiskCache(),
		publisher:   &mockPublisher{},
	}

	f.sites.sites["SITE-001"] = &secondary.SiteRecord{ID: "SITE-001", Name: "Tour Horizon", City: "Lyon", Address: "1 quai Perrache", Category: "tertiary"}
	f.sites.sites["SITE-002"] = &secondary.SiteRecord{ID: "SITE-002", Name: "Les Tilleuls", City: "Nantes", Address: "8 rue Kervégan", Category: "residential"}
	f.technicians.technicians["TECH-001"] = &secondary.TechnicianRecord{ID: "TECH-001", FullName: "Alice Martin", Specialty: "Hydraulics", Available: true}
	f.elevators.elevators["ELEV-001"] = &secondary.ElevatorRecord{ID: "ELEV-001", Name: "Lift A", SiteID: "SITE-001", State: "functional", Version: 1}
	f.sites.nextID, f.technicians.nextID, f.elevators.nextID = 2, 1, 1
	return f
}

func (f *fixture) elevatorService() *ElevatorServiceImpl {
	s := NewElevatorService(f.elevators, f.sites, f.technicians, f.events, f.cache, f.publisher, nil, nil)
	s.clock = func() time.Time { return testNow }
	return s
}

func (f *fixture) riskService() *RiskServiceImpl {
	s := NewRiskService(f.elevators, f.sites, f.events, f.cache, 0, nil, nil)
	s.clock = func() time.Time { return testNow }
	return s
}
