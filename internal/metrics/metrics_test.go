package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Transition("declare_fault", "ok")
	m.EventAppended("fault_declared")
	m.RiskComputed("low", 12)
	m.CacheHit()
	m.CacheMiss()
	m.PublishFailed()
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}

func TestTransitionCounter(t *testing.T) {
	m := NewMetrics()
	m.Transition("declare_fault", "ok")
	m.Transition("declare_fault", "ok")
	m.Transition("start_repair", "rejected")

	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("declare_fault", "ok")); got != 2 {
		t.Errorf("declare_fault ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("start_repair", "rejected")); got != 1 {
		t.Errorf("start_repair rejected = %v, want 1", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.CacheHit()

	wrapped := m.WrapHandler("health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"gmao_risk_cache_hits_total 1",
		`http_requests_total{route="health",status="418"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
