// Package supervisor launches the engine executable as a detached process.
//
// The engine is started in its own session with its standard streams bound
// to the null device, and is never waited on for its result: once spawned
// it belongs to the operating system. Launch returns an OrphanHandle that
// records what was started, for logging and heartbeat liveness only.
package supervisor

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"mercator-hq/enginevisor/pkg/telemetry/logging"
	"mercator-hq/enginevisor/pkg/telemetry/metrics"
)

// ExecutableMode is applied to the artifact before it is started.
const ExecutableMode os.FileMode = 0o755

// ConfigFlag is the engine's "use this config file" flag.
const ConfigFlag = "-c"

// LaunchError reports a failure to prepare or start the engine.
type LaunchError struct {
	// Op is "chmod" or "spawn".
	Op   string
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Supervisor starts engine processes.
type Supervisor struct {
	logger  *slog.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithMetrics records launches in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Supervisor) { s.metrics = c }
}

// New returns a Supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With("component", "supervisor")
	return s
}

// Launch marks exe executable and starts it as "exe -c configPath" in a
// new session with stdio discarded. It returns as soon as the process has
// been created.
func (s *Supervisor) Launch(exe, configPath string) (*OrphanHandle, error) {
	if err := os.Chmod(exe, ExecutableMode); err != nil {
		s.metrics.RecordLaunch(false)
		return nil, &LaunchError{Op: "chmod", Path: exe, Err: err}
	}

	cmd := exec.Command(exe, ConfigFlag, configPath)
	// Nil streams are connected to os.DevNull by os/exec.
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		s.metrics.RecordLaunch(false)
		return nil, &LaunchError{Op: "spawn", Path: exe, Err: err}
	}

	handle := &OrphanHandle{
		PID:       cmd.Process.Pid,
		Path:      exe,
		Args:      []string{ConfigFlag, configPath},
		StartedAt: s.now(),
	}

	// Reap the child if it ever exits so it does not linger as a zombie
	// under this process. The exit status is deliberately discarded.
	go func() { _ = cmd.Wait() }()

	s.metrics.RecordLaunch(true)
	s.logger.Info("engine launched",
		"pid", handle.PID,
		"path", exe,
		"config", configPath,
	)
	return handle, nil
}
