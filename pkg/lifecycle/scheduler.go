package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/enginevisor/internal/clock"
	"mercator-hq/enginevisor/pkg/telemetry/logging"
	"mercator-hq/enginevisor/pkg/telemetry/metrics"
)

// ErrStopped is returned when a task is scheduled on a stopped Scheduler.
var ErrStopped = errors.New("lifecycle: scheduler stopped")

// Scheduler runs the deferred cleanup and the heartbeat.
type Scheduler struct {
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	cron      *cron.Cron
	heartbeat cron.EntryID
	cleanups  []clock.Timer
	running   bool
	stopped   bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock used for the cleanup timer.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithMetrics records cleanups in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Scheduler) { s.metrics = c }
}

// NewScheduler creates a scheduler. Nothing runs until ScheduleCleanup or
// StartHeartbeat is called.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With("component", "lifecycle")
	s.cron = cron.New(cron.WithLocation(time.UTC))
	return s
}

// ScheduleCleanup removes dir and everything under it once delay has
// elapsed. A directory that no longer exists counts as cleaned.
func (s *Scheduler) ScheduleCleanup(dir string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}

	t := s.clock.AfterFunc(delay, func() { s.cleanup(dir) })
	s.cleanups = append(s.cleanups, t)

	s.logger.Info("working directory cleanup scheduled",
		"dir", dir,
		"delay", delay,
	)
	return nil
}

func (s *Scheduler) cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.metrics.RecordCleanup(false)
		s.logger.Error("working directory cleanup failed",
			"dir", dir,
			"error", err,
		)
		return
	}
	s.metrics.RecordCleanup(true)
	s.logger.Info("working directory removed", "dir", dir)
}

// StartHeartbeat calls beat every interval until Stop. Only one heartbeat
// may be registered.
func (s *Scheduler) StartHeartbeat(interval time.Duration, beat func()) error {
	if interval < time.Second {
		return fmt.Errorf("heartbeat interval %s is below one second", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.heartbeat != 0 {
		return errors.New("lifecycle: heartbeat already started")
	}

	schedule := "@every " + interval.String()
	id, err := s.cron.AddFunc(schedule, beat)
	if err != nil {
		return fmt.Errorf("failed to schedule heartbeat %q: %w", schedule, err)
	}
	s.heartbeat = id

	s.cron.Start()
	s.running = true

	s.logger.Info("heartbeat started", "interval", interval)
	return nil
}

// Stop cancels pending cleanups and stops the heartbeat, waiting for a
// heartbeat in progress to return. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	for _, t := range s.cleanups {
		t.Stop()
	}
	s.cleanups = nil

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
	}
	s.logger.Info("lifecycle scheduler stopped")
}

// IsRunning reports whether the heartbeat is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextHeartbeat returns the time of the next heartbeat, or nil if none is
// scheduled.
func (s *Scheduler) NextHeartbeat() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.heartbeat == 0 || !s.running {
		return nil
	}

	entry := s.cron.Entry(s.heartbeat)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}
