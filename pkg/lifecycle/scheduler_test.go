package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mercator-hq/enginevisor/internal/clock"
	"mercator-hq/enginevisor/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func makeWorkDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "tmp")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"web", "config.json", filepath.Join("nested", "x")} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestScheduleCleanup_Deadline(t *testing.T) {
	dir := makeWorkDir(t)
	fake := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	collector := metrics.NewCollector("test", nil)

	s := NewScheduler(WithClock(fake), WithMetrics(collector))
	defer s.Stop()

	if err := s.ScheduleCleanup(dir, 90*time.Second); err != nil {
		t.Fatalf("ScheduleCleanup() error = %v", err)
	}

	fake.Advance(90*time.Second - time.Millisecond)
	if !exists(dir) {
		t.Fatal("working directory removed before the delay elapsed")
	}

	fake.Advance(2 * time.Millisecond)
	if exists(dir) {
		t.Fatal("working directory still present after the delay elapsed")
	}

	want := `
# HELP test_workdir_cleanups_total Total number of working directory removals
# TYPE test_workdir_cleanups_total counter
test_workdir_cleanups_total{result="success"} 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(want), "test_workdir_cleanups_total"); err != nil {
		t.Error(err)
	}
}

func TestScheduleCleanup_MissingDir(t *testing.T) {
	fake := clock.NewFake(time.Now())
	s := NewScheduler(WithClock(fake))
	defer s.Stop()

	missing := filepath.Join(t.TempDir(), "never-created")
	if err := s.ScheduleCleanup(missing, time.Second); err != nil {
		t.Fatal(err)
	}
	// Must not panic and must not recreate anything.
	fake.Advance(time.Second)
	if exists(missing) {
		t.Error("missing directory appeared after cleanup")
	}
}

func TestScheduleCleanup_RemovesFilesAddedLater(t *testing.T) {
	dir := makeWorkDir(t)
	fake := clock.NewFake(time.Now())
	s := NewScheduler(WithClock(fake))
	defer s.Stop()

	if err := s.ScheduleCleanup(dir, time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "late"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fake.Advance(time.Minute)
	if exists(dir) {
		t.Error("working directory still present")
	}
}

func TestStop_CancelsPendingCleanup(t *testing.T) {
	dir := makeWorkDir(t)
	fake := clock.NewFake(time.Now())
	s := NewScheduler(WithClock(fake))

	if err := s.ScheduleCleanup(dir, 90*time.Second); err != nil {
		t.Fatal(err)
	}
	s.Stop()
	s.Stop()

	fake.Advance(time.Hour)
	if !exists(dir) {
		t.Error("cleanup ran after Stop")
	}
	if fake.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", fake.PendingCount())
	}

	if err := s.ScheduleCleanup(dir, time.Second); !errors.Is(err, ErrStopped) {
		t.Errorf("ScheduleCleanup after Stop error = %v, want ErrStopped", err)
	}
	if err := s.StartHeartbeat(time.Second, func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("StartHeartbeat after Stop error = %v, want ErrStopped", err)
	}
}

func TestStartHeartbeat(t *testing.T) {
	if testing.Short() {
		t.Skip("heartbeat test waits on the real clock")
	}

	s := NewScheduler()
	defer s.Stop()

	var beats atomic.Int32
	if err := s.StartHeartbeat(time.Second, func() { beats.Add(1) }); err != nil {
		t.Fatalf("StartHeartbeat() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning() = false after StartHeartbeat")
	}

	next := s.NextHeartbeat()
	if next == nil {
		t.Fatal("NextHeartbeat() = nil")
	}
	if until := time.Until(*next); until > 2*time.Second {
		t.Errorf("next heartbeat in %s, want within 2s", until)
	}

	deadline := time.Now().Add(5 * time.Second)
	for beats.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if got := beats.Load(); got < 2 {
		t.Fatalf("beats = %d after 5s, want at least 2", got)
	}

	s.Stop()
	stoppedAt := beats.Load()
	time.Sleep(1500 * time.Millisecond)
	if got := beats.Load(); got != stoppedAt {
		t.Errorf("beats went from %d to %d after Stop", stoppedAt, got)
	}
	if s.NextHeartbeat() != nil {
		t.Error("NextHeartbeat() non-nil after Stop")
	}
}

func TestStartHeartbeat_Errors(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	if err := s.StartHeartbeat(500*time.Millisecond, func() {}); err == nil {
		t.Error("expected error for sub-second interval")
	}
	if s.NextHeartbeat() != nil {
		t.Error("NextHeartbeat() non-nil before a heartbeat was started")
	}

	if err := s.StartHeartbeat(5*time.Minute, func() {}); err != nil {
		t.Fatalf("StartHeartbeat() error = %v", err)
	}
	if err := s.StartHeartbeat(5*time.Minute, func() {}); err == nil {
		t.Error("expected error for a second heartbeat")
	}

	next := s.NextHeartbeat()
	if next == nil {
		t.Fatal("NextHeartbeat() = nil")
	}
	if until := time.Until(*next); until < 4*time.Minute || until > 5*time.Minute+time.Second {
		t.Errorf("next heartbeat in %s, want about 5m", until)
	}
}
