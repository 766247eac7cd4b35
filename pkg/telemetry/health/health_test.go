package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func statuses(r Report) map[string]string {
	out := make(map[string]string, len(r.Checks))
	for _, c := range r.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func TestChecker_CheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "no checks",
			wantStatus: StatusReady,
			wantChecks: map[string]string{},
		},
		{
			name: "all passing",
			checks: map[string]CheckFunc{
				"bootstrap": func(context.Context) error { return nil },
				"engine":    func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
			wantChecks: map[string]string{"bootstrap": StatusOK, "engine": StatusOK},
		},
		{
			name: "engine gone",
			checks: map[string]CheckFunc{
				"bootstrap": func(context.Context) error { return nil },
				"engine":    func(context.Context) error { return errors.New("engine pid 42 not running") },
			},
			wantStatus: StatusNotReady,
			wantChecks: map[string]string{"bootstrap": StatusOK, "engine": StatusUnhealthy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, check := range tt.checks {
				c.RegisterCheck(name, check)
			}

			report := c.CheckReadiness(context.Background())

			if report.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", report.Status, tt.wantStatus)
			}
			if report.Ready() != (tt.wantStatus == StatusReady) {
				t.Errorf("Ready() = %v", report.Ready())
			}
			if got := statuses(report); !reflect.DeepEqual(got, tt.wantChecks) {
				t.Errorf("checks = %v, want %v", got, tt.wantChecks)
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	start := time.Now()
	report := c.CheckReadiness(context.Background())

	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("CheckReadiness took %s, want it bounded by the check timeout", elapsed)
	}
	result := report.Checks[0]
	if result.Status != StatusUnhealthy || !strings.Contains(result.Message, "timed out") {
		t.Errorf("slow check = %+v, want timeout", result)
	}
}

func TestChecker_RegisterKeepsOrderAndReplaces(t *testing.T) {
	c := New(0)
	c.RegisterCheck("engine", func(context.Context) error { return errors.New("old") })
	c.RegisterCheck("bootstrap", func(context.Context) error { return nil })
	c.RegisterCheck("engine", func(context.Context) error { return nil })

	if got := c.ListChecks(); !reflect.DeepEqual(got, []string{"engine", "bootstrap"}) {
		t.Errorf("ListChecks() = %v", got)
	}
	report := c.CheckReadiness(context.Background())
	if !report.Ready() {
		t.Errorf("report = %+v, want ready after replacing the failing check", report)
	}
	if report.Checks[0].Name != "engine" {
		t.Errorf("first result = %q, want registration order", report.Checks[0].Name)
	}
}

func TestReadinessHandler(t *testing.T) {
	c := New(time.Second)
	var ready atomic.Bool
	c.RegisterCheck("bootstrap", func(context.Context) error {
		if !ready.Load() {
			return errors.New("bootstrap is fetching_primary")
		}
		return nil
	})
	handler := c.ReadinessHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before ready = %d, want 503", rec.Code)
	}
	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(report.Checks) != 1 || report.Checks[0].Message != "bootstrap is fetching_primary" {
		t.Errorf("checks = %+v", report.Checks)
	}

	ready.Store(true)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/ready", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD when ready = %d with %d body bytes, want 200 and empty", rec.Code, rec.Body.Len())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ready", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") == "" {
		t.Errorf("POST = %d (Allow %q), want 405 with Allow", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-01-01").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	want := VersionInfo{Version: "1.2.3", Commit: "abc123", BuildTime: "2026-01-01", GoVersion: runtime.Version()}
	if info != want {
		t.Errorf("info = %+v, want %+v", info, want)
	}
}
