// Package httpapi exposes the GMAO services as a JSON REST API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	coreelevator "github.com/example/gmao/internal/core/elevator"
	"github.com/example/gmao/internal/ctxutil"
	"github.com/example/gmao/internal/metrics"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

// Request headers read by the API.
const (
	HeaderActor     = "X-Actor"
	HeaderRequestID = "X-Request-ID"
)

const maxBodyBytes = 1 << 20

// Services groups the primary ports the API drives.
type Services struct {
	Elevators   primary.ElevatorService
	Sites       primary.SiteService
	Technicians primary.TechnicianService
	Risk        primary.RiskService
	Analytics   primary.AnalyticsService
}

// Server translates HTTP requests into service calls.
type Server struct {
	svc     Services
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewServer creates the API server. A nil logger discards logs and nil
// metrics disable instrumentation.
func NewServer(svc Services, logger *zap.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, logger: logger.With(zap.String("component", "http")), metrics: m}
}

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler returns the complete router with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.handle(r, "/health", s.health, http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	s.handle(r, "/sites", s.listSites, http.MethodGet)
	s.handle(r, "/sites", s.createSite, http.MethodPost)
	s.handle(r, "/sites/{id}", s.getSite, http.MethodGet)
	s.handle(r, "/sites/{id}", s.updateSite, http.MethodPut)
	s.handle(r, "/sites/{id}", s.deleteSite, http.MethodDelete)
	s.handle(r, "/sites/{id}/stats", s.siteStats, http.MethodGet)
	s.handle(r, "/sites/{id}/technicians", s.listSiteTechnicians, http.MethodGet)
	s.handle(r, "/sites/{id}/technicians", s.assignSiteTechnician, http.MethodPost)
	s.handle(r, "/sites/{id}/technicians/{technicianId}", s.unassignSiteTechnician, http.MethodDelete)

	s.handle(r, "/elevators", s.listElevators, http.MethodGet)
	s.handle(r, "/elevators", s.createElevator, http.MethodPost)
	s.handle(r, "/elevators/{id}", s.getElevator, http.MethodGet)
	s.handle(r, "/elevators/{id}", s.updateElevator, http.MethodPut)
	s.handle(r, "/elevators/{id}", s.deleteElevator, http.MethodDelete)
	s.handle(r, "/elevators/{id}/move", s.moveElevator, http.MethodPost)
	s.handle(r, "/elevators/{id}/actions", s.applyAction, http.MethodPost)
	s.handle(r, "/elevators/{id}/comments", s.addComment, http.MethodPost)
	s.handle(r, "/elevators/{id}/history", s.history, http.MethodGet)
	s.handle(r, "/elevators/{id}/risk", s.elevatorRisk, http.MethodGet)

	s.handle(r, "/technicians", s.listTechnicians, http.MethodGet)
	s.handle(r, "/technicians", s.createTechnician, http.MethodPost)
	s.handle(r, "/technicians/{id}", s.getTechnician, http.MethodGet)
	s.handle(r, "/technicians/{id}", s.deleteTechnician, http.MethodDelete)
	s.handle(r, "/technicians/{id}/availability", s.setAvailability, http.MethodPatch)

	s.handle(r, "/risk/high", s.highRisk, http.MethodGet)
	s.handle(r, "/events/recent", s.recentEvents, http.MethodGet)
	s.handle(r, "/analytics", s.dashboard, http.MethodGet)

	var h http.Handler = r
	h = handlers.ContentTypeHandler(h, "application/json")
	h = s.requestContext(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.logger)),
		handlers.PrintRecoveryStack(true),
	)(h)
	return h
}

func (s *Server) handle(r *mux.Router, path string, fn http.HandlerFunc, method string) {
	r.Handle(path, s.metrics.WrapHandler(method+" "+path, fn)).Methods(method)
}

// requestContext attaches the actor and request id, then logs the request.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := ctxutil.WithRequestID(r.Context(), requestID)
		ctx = ctxutil.WithActor(ctx, r.Header.Get(HeaderActor))

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
			zap.String("actor", ctxutil.ActorFromContext(ctx)),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// fail maps a service error onto a status code. Unexpected errors are
// logged and hidden from the caller.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", ctxutil.RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, coreelevator.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, coreelevator.ErrInvalidTransition),
		errors.Is(err, coreelevator.ErrAlreadyAssigned),
		errors.Is(err, coreelevator.ErrMissingTechnician),
		errors.Is(err, secondary.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, coreelevator.ErrInvalidArgument)
	}
	return nil
}

// queryInt parses an optional positive integer parameter. A missing value
// yields fallback; services treat 0 as their default.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, coreelevator.ErrInvalidArgument)
	}
	return n, nil
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
