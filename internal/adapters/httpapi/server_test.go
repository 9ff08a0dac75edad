package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/ctxutil"
	"github.com/example/gmao/internal/metrics"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// ===== Stub Services =====
// Unimplemented methods panic through the nil embedded interface.

type stubElevators struct {
	primary.ElevatorService
	action primary.ActionRequest
	actor  string
	err    error
}

func (s *stubElevators) ApplyAction(ctx context.Context, req primary.ActionRequest) (*primary.TransitionResponse, error) {
	s.action = req
	s.actor = ctxutil.ActorFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return &primary.TransitionResponse{
		Elevator: &primary.Elevator{ID: req.ElevatorID, State: "faulty", SubState: "pending_assignment", Version: 2},
		Events:   []*primary.Event{{ID: "evt-1", ElevatorID: req.ElevatorID, Seq: 1, Kind: "fault_declared", Comment: req.Comment}},
	}, nil
}

func (s *stubElevators) GetElevator(_ context.Context, id string) (*primary.Elevator, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &primary.Elevator{ID: id, Name: "Ascenseur A", State: "functional", Version: 1}, nil
}

func (s *stubElevators) ListRecentEvents(_ context.Context, limit int) ([]*primary.Event, error) {
	events := make([]*primary.Event, limit)
	for i := range events {
		events[i] = &primary.Event{ID: fmt.Sprintf("evt-%d", i)}
	}
	return events, nil
}

type stubSites struct {
	primary.SiteService
	deleted primary.DeleteSiteRequest
}

func (s *stubSites) ListSites(context.Context) ([]*primary.Site, error) {
	panic("boom")
}

func (s *stubSites) DeleteSite(_ context.Context, req primary.DeleteSiteRequest) error {
	s.deleted = req
	return nil
}

type stubTechnicians struct {
	primary.TechnicianService
	available *bool
}

func (s *stubTechnicians) SetAvailability(_ context.Context, id string, available bool) (*primary.Technician, error) {
	s.available = &available
	return &primary.Technician{ID: id, Available: available}, nil
}

type stubRisk struct {
	primary.RiskService
	limit int
}

func (s *stubRisk) ListHighRisk(_ context.Context, limit int) ([]*primary.ElevatorRisk, error) {
	s.limit = limit
	return []*primary.ElevatorRisk{}, nil
}

type fixture struct {
	elevators   *stubElevators
	sites       *stubSites
	technicians *stubTechnicians
	risk        *stubRisk
	metrics     *metrics.Metrics
	handler     http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		elevators:   &stubElevators{},
		sites:       &stubSites{},
		technicians: &stubTechnicians{},
		risk:        &stubRisk{},
		metrics:     metrics.NewMetrics(),
	}
	server := NewServer(Services{
		Elevators:   f.elevators,
		Sites:       f.sites,
		Technicians: f.technicians,
		Risk:        f.risk,
	}, nil, f.metrics)
	f.handler = server.Handler()
	return f
}

func (f *fixture) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestApplyAction(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/elevators/ELEV-001/actions",
		`{"action":"declare_fault","comment":"Door stuck"}`,
		map[string]string{HeaderActor: "dispatcher", HeaderRequestID: "req-42"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ELEV-001", f.elevators.action.ElevatorID)
	assert.Equal(t, "declare_fault", f.elevators.action.Action)
	assert.Equal(t, "Door stuck", f.elevators.action.Comment)
	assert.Equal(t, "dispatcher", f.elevators.actor)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	elevator := data["elevator"].(map[string]any)
	assert.Equal(t, "faulty", elevator["state"])
	assert.Len(t, data["events"], 1)
}

func TestApplyAction_DefaultActor(t *testing.T) {
	f := newFixture()

	f.do(http.MethodPost, "/elevators/ELEV-001/actions", `{"action":"start_repair"}`, nil)

	assert.Equal(t, ctxutil.DefaultActor, f.elevators.actor)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", fmt.Errorf("elevator ELEV-404 %w", secondary.ErrNotFound), http.StatusNotFound, "elevator ELEV-404 not found"},
		{"invalid argument", fmt.Errorf("unknown action %q: %w", "fly", coreelevator.ErrInvalidArgument), http.StatusBadRequest, ""},
		{"invalid transition", &coreelevator.TransitionError{Op: coreelevator.OpStartRepair, ElevatorID: "ELEV-001", Kind: coreelevator.ErrInvalidTransition, Reason: "no technician assigned yet"}, http.StatusConflict, ""},
		{"already assigned", &coreelevator.TransitionError{Op: coreelevator.OpAssignTechnician, ElevatorID: "ELEV-001", Kind: coreelevator.ErrAlreadyAssigned, Reason: "fault is already assigned"}, http.StatusConflict, ""},
		{"missing technician", &coreelevator.TransitionError{Op: coreelevator.OpAssignTechnician, ElevatorID: "ELEV-001", Kind: coreelevator.ErrMissingTechnician, Reason: "technician id is required"}, http.StatusConflict, ""},
		{"version conflict", fmt.Errorf("elevator ELEV-001 was modified concurrently: %w", secondary.ErrVersionConflict), http.StatusConflict, ""},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.elevators.err = tt.err

			rec := f.do(http.MethodGet, "/elevators/ELEV-001", "", nil)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, false, body["success"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["error"])
			} else {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
		})
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/elevators/ELEV-001/actions", `{"action":"start_repair","force":true}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentTypeRequired(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/elevators/ELEV-001/actions", strings.NewReader(`{"action":"start_repair"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHighRisk_Limit(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/risk/high?limit=3", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, f.risk.limit)

	rec = f.do(http.MethodGet, "/risk/high", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.risk.limit)

	rec = f.do(http.MethodGet, "/risk/high?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentEvents(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/events/recent?limit=2", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Len(t, body["data"], 2)
}

func TestDeleteSite_Force(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodDelete, "/sites/SITE-001?force=true", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, primary.DeleteSiteRequest{SiteID: "SITE-001", Force: true}, f.sites.deleted)
}

func TestSetAvailability(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPatch, "/technicians/TECH-001/availability", `{"available":false}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.technicians.available)
	assert.False(t, *f.technicians.available)

	rec = f.do(http.MethodPatch, "/technicians/TECH-001/availability", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeEnvelope(t, rec)["success"])

	rec = f.do(http.MethodPut, "/analytics", `{}`, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPanicRecovered(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/sites", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()
	f.do(http.MethodGet, "/health", "", nil)

	rec := f.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{route="GET /health",status="200"} 1`)
}
