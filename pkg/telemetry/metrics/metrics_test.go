package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector("test", registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}

	if NewCollector("", nil).Registry() == nil {
		t.Error("Expected a registry to be created")
	}
}

func TestCollector_RecordFetchAttempt(t *testing.T) {
	collector := NewCollector("test", nil)

	collector.RecordFetchAttempt("primary", false)
	collector.RecordFetchAttempt("backup", true)
	collector.RecordFetchAttempt("backup", true)

	fa := collector.bootstrap.fetchAttempts
	if got := testutil.ToFloat64(fa.WithLabelValues("primary", "failure")); got != 1 {
		t.Errorf("primary failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(fa.WithLabelValues("backup", "success")); got != 2 {
		t.Errorf("backup successes = %v, want 2", got)
	}
}

func TestCollector_Lifecycle(t *testing.T) {
	collector := NewCollector("test", nil)

	collector.RecordHeartbeat(true)
	collector.RecordHeartbeat(false)
	collector.RecordCleanup(true)
	collector.RecordLaunch(true)
	collector.SetBootstrapState(7)

	if got := testutil.ToFloat64(collector.lifecycle.heartbeats); got != 2 {
		t.Errorf("heartbeats = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.lifecycle.engineAlive); got != 0 {
		t.Errorf("engine_alive = %v, want 0 after last heartbeat", got)
	}
	if got := testutil.ToFloat64(collector.lifecycle.cleanups.WithLabelValues("success")); got != 1 {
		t.Errorf("cleanups = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.bootstrap.launches.WithLabelValues("success")); got != 1 {
		t.Errorf("launches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.bootstrap.state); got != 7 {
		t.Errorf("state = %v, want 7", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector

	collector.RecordFetchAttempt("primary", true)
	collector.RecordLaunch(false)
	collector.SetBootstrapState(1)
	collector.RecordHeartbeat(true)
	collector.RecordCleanup(false)
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector("test", nil)
	collector.RecordHeartbeat(true)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_heartbeats_total 1") {
		t.Errorf("heartbeat counter missing from exposition:\n%s", rec.Body.String())
	}
}
