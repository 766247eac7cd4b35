// Package bootstrap runs the provisioning sequence of enginevisor: clean
// the working directory, load or create the identity, write the engine
// config, fetch the engine, launch it, then arm the cleanup and heartbeat.
//
// Steps run strictly in that order. A failed fetch or launch ends the
// sequence with an *Error and nothing later is attempted.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"mercator-hq/enginevisor/pkg/artifact"
	"mercator-hq/enginevisor/pkg/config"
	"mercator-hq/enginevisor/pkg/engineconfig"
	"mercator-hq/enginevisor/pkg/identity"
	"mercator-hq/enginevisor/pkg/lifecycle"
	"mercator-hq/enginevisor/pkg/supervisor"
	"mercator-hq/enginevisor/pkg/telemetry/logging"
	"mercator-hq/enginevisor/pkg/telemetry/metrics"
)

// Result describes a completed bootstrap.
type Result struct {
	Identity        string
	IdentityCreated bool
	ConfigPath      string
	ArtifactPath    string
	Source          artifact.Source
	Engine          *supervisor.OrphanHandle
}

// Bootstrapper runs the sequence once.
type Bootstrapper struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector

	store      *identity.Store
	fetcher    *artifact.Fetcher
	supervisor *supervisor.Supervisor
	scheduler  *lifecycle.Scheduler

	onTransition func(from, to State)

	mu     sync.RWMutex
	state  State
	ran    bool
	engine *supervisor.OrphanHandle
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithLogger sets the logger passed down to every step.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bootstrapper) { b.logger = l }
}

// WithMetrics records progress in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(b *Bootstrapper) { b.metrics = c }
}

// WithFetcher replaces the artifact fetcher built from the download config.
func WithFetcher(f *artifact.Fetcher) Option {
	return func(b *Bootstrapper) { b.fetcher = f }
}

// WithSupervisor replaces the engine supervisor.
func WithSupervisor(s *supervisor.Supervisor) Option {
	return func(b *Bootstrapper) { b.supervisor = s }
}

// WithScheduler replaces the lifecycle scheduler.
func WithScheduler(s *lifecycle.Scheduler) Option {
	return func(b *Bootstrapper) { b.scheduler = s }
}

// WithTransitionHook calls fn after every state change, from the goroutine
// running the sequence.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(b *Bootstrapper) { b.onTransition = fn }
}

// New returns a Bootstrapper for cfg. Components not supplied through
// options are built from cfg.
func New(cfg *config.Config, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		cfg:   cfg,
		state: StateStarting,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.Discard()
	}

	b.store = identity.NewStore(cfg.Engine.IdentityPath())
	if b.fetcher == nil {
		b.fetcher = artifact.NewFetcher(
			artifact.WithTimeout(cfg.Download.Timeout),
			artifact.WithLogger(b.logger),
			artifact.WithMetrics(b.metrics),
		)
	}
	if b.supervisor == nil {
		b.supervisor = supervisor.New(
			supervisor.WithLogger(b.logger),
			supervisor.WithMetrics(b.metrics),
		)
	}
	if b.scheduler == nil {
		b.scheduler = lifecycle.NewScheduler(
			lifecycle.WithLogger(b.logger),
			lifecycle.WithMetrics(b.metrics),
		)
	}

	b.logger = b.logger.With("component", "bootstrap")
	return b
}

// State returns the current step.
func (b *Bootstrapper) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Bootstrapper) transition(to State) {
	b.mu.Lock()
	from := b.state
	b.state = to
	b.mu.Unlock()

	b.metrics.SetBootstrapState(int(to))
	level := slog.LevelDebug
	if to.Failed() {
		level = slog.LevelError
	}
	b.logger.Log(context.Background(), level, "bootstrap state changed",
		"from", from.String(),
		"to", to.String(),
	)
	if b.onTransition != nil {
		b.onTransition(from, to)
	}
}

func (b *Bootstrapper) fail(state State, err error) (*Result, error) {
	b.transition(state)
	return nil, &Error{State: state, Err: err}
}

// Run executes the sequence. The health responder must already be bound:
// callers bind it first so that a port conflict stops the process before
// any provisioning starts. Run may only be called once.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	if b.ran {
		b.mu.Unlock()
		return nil, fmt.Errorf("bootstrap already ran")
	}
	b.ran = true
	b.mu.Unlock()

	b.transition(StateHealthBound)

	engine := b.cfg.Engine
	workDir := engine.WorkDirPath()

	// Stale files from a previous run are removed before anything is
	// written. Failure here is not fatal: the writes below will surface
	// any real problem with the directory.
	b.transition(StateCleaning)
	if err := os.RemoveAll(workDir); err != nil {
		b.logger.Warn("failed to clean working directory", "dir", workDir, "error", err)
	}

	id, created, err := b.store.GetOrCreate()
	if err != nil {
		return b.fail(StateStorageFailed, err)
	}
	if created {
		b.logger.Info("generated new identity", "path", b.store.Path())
	}
	b.transition(StateIdentityReady)

	doc := engineconfig.BuildParams(engineconfig.Params{
		Identity:   id,
		Port:       b.cfg.Service.Port,
		HealthPort: b.cfg.Service.HealthPort,
	})
	configPath := engine.ConfigPath()
	if err := engineconfig.Write(configPath, doc); err != nil {
		return b.fail(StateStorageFailed, err)
	}
	b.transition(StateConfigWritten)

	artifactPath := engine.ArtifactPath()
	sources := artifact.Sources(b.cfg.Download.PrimaryURL, b.cfg.Download.BackupURL)
	fetcher := b.fetcher.OnAttempt(func(src artifact.Source) {
		if src.Name == "primary" {
			b.transition(StateFetchingPrimary)
		} else {
			b.transition(StateFetchingBackup)
		}
	})
	src, err := fetcher.Fetch(ctx, sources, artifactPath)
	if err != nil {
		return b.fail(StateFetchFailed, err)
	}

	handle, err := b.supervisor.Launch(artifactPath, configPath)
	if err != nil {
		return b.fail(StateLaunchFailed, err)
	}
	b.mu.Lock()
	b.engine = handle
	b.mu.Unlock()
	b.transition(StateLaunched)

	if err := b.scheduler.ScheduleCleanup(workDir, b.cfg.Lifecycle.CleanupDelay); err != nil {
		b.logger.Warn("failed to schedule working directory cleanup", "error", err)
	}
	if err := b.scheduler.StartHeartbeat(b.cfg.Lifecycle.HeartbeatInterval, b.heartbeat(handle)); err != nil {
		b.logger.Warn("failed to start heartbeat", "error", err)
	}
	b.transition(StateScheduled)

	b.logger.Info("service running",
		"identity", id,
		"port", b.cfg.Service.Port,
		"engine_pid", handle.PID,
		"source", src.Name,
	)

	return &Result{
		Identity:        id,
		IdentityCreated: created,
		ConfigPath:      configPath,
		ArtifactPath:    artifactPath,
		Source:          src,
		Engine:          handle,
	}, nil
}

func (b *Bootstrapper) heartbeat(handle *supervisor.OrphanHandle) func() {
	return func() {
		alive := handle.Alive()
		b.metrics.RecordHeartbeat(alive)
		b.logger.Info("heartbeat",
			"engine_pid", handle.PID,
			"engine_alive", alive,
			"uptime", time.Since(handle.StartedAt).Round(time.Second).String(),
		)
	}
}

// Ready is a readiness check: it fails until the sequence has reached
// StateScheduled.
func (b *Bootstrapper) Ready(ctx context.Context) error {
	if s := b.State(); s != StateScheduled {
		return fmt.Errorf("bootstrap is %s", s)
	}
	return nil
}

// EngineAlive is a readiness check: it fails if the engine was never
// launched or its process no longer exists.
func (b *Bootstrapper) EngineAlive(ctx context.Context) error {
	b.mu.RLock()
	handle := b.engine
	b.mu.RUnlock()

	if handle == nil {
		return errors.New("engine not launched")
	}
	if !handle.Alive() {
		return fmt.Errorf("engine pid %d not running", handle.PID)
	}
	return nil
}

// Close stops the cleanup timer and the heartbeat. The engine is not
// touched.
func (b *Bootstrapper) Close() {
	b.scheduler.Stop()
}
