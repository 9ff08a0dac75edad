// Package metrics exposes the Prometheus collectors of the gmao service.
// Every method is safe on a nil *Metrics so callers never need to check.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered by NewMetrics.
type Metrics struct {
	registry          *prometheus.Registry
	transitionsTotal  *prometheus.CounterVec
	eventsAppended    *prometheus.CounterVec
	riskComputations  prometheus.Counter
	riskCacheHits     prometheus.Counter
	riskCacheMisses   prometheus.Counter
	riskScore         *prometheus.HistogramVec
	publishErrors     prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmao_transitions_total",
			Help: "Elevator state transitions by operation and result.",
		}, []string{"operation", "result"}),
		eventsAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmao_events_appended_total",
			Help: "Events appended to the history by kind.",
		}, []string{"kind"}),
		riskComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmao_risk_computations_total",
			Help: "Risk scores computed from the event log.",
		}),
		riskCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmao_risk_cache_hits_total",
			Help: "Risk scores served from the cache.",
		}),
		riskCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmao_risk_cache_misses_total",
			Help: "Risk score cache misses.",
		}),
		riskScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gmao_risk_score",
			Help:    "Distribution of computed risk scores by tier.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"tier"}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmao_event_publish_errors_total",
			Help: "Event batches that could not be published.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.transitionsTotal,
		m.eventsAppended,
		m.riskComputations,
		m.riskCacheHits,
		m.riskCacheMisses,
		m.riskScore,
		m.publishErrors,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Transition counts one transition attempt. result is "ok" or "rejected".
func (m *Metrics) Transition(operation, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(operation, result).Inc()
}

// EventAppended counts one persisted event.
func (m *Metrics) EventAppended(kind string) {
	if m == nil {
		return
	}
	m.eventsAppended.WithLabelValues(kind).Inc()
}

// RiskComputed records a freshly computed score.
func (m *Metrics) RiskComputed(tier string, score int) {
	if m == nil {
		return
	}
	m.riskComputations.Inc()
	m.riskScore.WithLabelValues(tier).Observe(float64(score))
}

// CacheHit counts a risk cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.riskCacheHits.Inc()
}

// CacheMiss counts a risk cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.riskCacheMisses.Inc()
}

// PublishFailed counts a batch the event feed rejected.
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and latency under the given route name.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}
