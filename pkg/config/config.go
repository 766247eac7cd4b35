package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the root configuration structure for enginevisor.
// It is populated once at startup and passed explicitly to every component.
type Config struct {
	// Service contains the health endpoint and public port settings.
	Service ServiceConfig `yaml:"service"`

	// Engine contains the on-disk layout for the identity file, the
	// working directory, the generated engine config and the artifact.
	Engine EngineConfig `yaml:"engine"`

	// Download contains the artifact sources and per-attempt timeout.
	Download DownloadConfig `yaml:"download"`

	// Lifecycle contains the post-launch cleanup and heartbeat timings.
	Lifecycle LifecycleConfig `yaml:"lifecycle"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServiceConfig contains the externally reachable port and the settings of
// the plain HTTP health responder.
type ServiceConfig struct {
	// Port is the public port the engine's primary listener binds.
	// Overridden by SERVER_PORT, then PORT.
	// Default: 3000
	Port int `yaml:"port"`

	// HealthHost is the interface the health responder binds.
	// Default: "" (all interfaces)
	HealthHost string `yaml:"health_host"`

	// HealthPort is the port of the health responder. The engine routes
	// its "/hello" fallback here. It must differ from Port and from the
	// engine's loopback ports.
	// Default: 3003
	HealthPort int `yaml:"health_port"`

	// HealthBody is the fixed plaintext body returned for every request.
	// Default: "hello"
	HealthBody string `yaml:"health_body"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown of the health responder.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// HealthAddress returns the host:port the health responder listens on.
func (c ServiceConfig) HealthAddress() string {
	return net.JoinHostPort(c.HealthHost, strconv.Itoa(c.HealthPort))
}

// EngineConfig describes where enginevisor keeps its files.
type EngineConfig struct {
	// BaseDir is the installation directory. Relative paths below are
	// resolved against it.
	// Default: "."
	BaseDir string `yaml:"base_dir"`

	// IdentityFile holds the persisted client identity. It outlives runs.
	// Default: ".uuid"
	IdentityFile string `yaml:"identity_file"`

	// WorkDir is the per-run scratch directory. It is removed at startup
	// and again after the cleanup delay.
	// Default: "tmp"
	WorkDir string `yaml:"work_dir"`

	// ConfigName is the file name of the generated engine config inside WorkDir.
	// Default: "config.json"
	ConfigName string `yaml:"config_name"`

	// ArtifactName is the file name of the fetched engine inside WorkDir.
	// Default: "web"
	ArtifactName string `yaml:"artifact_name"`
}

// IdentityPath returns the resolved identity file path.
func (c EngineConfig) IdentityPath() string {
	return c.resolve(c.IdentityFile)
}

// WorkDirPath returns the resolved working directory path.
func (c EngineConfig) WorkDirPath() string {
	return c.resolve(c.WorkDir)
}

// ConfigPath returns the path of the generated engine config.
func (c EngineConfig) ConfigPath() string {
	return filepath.Join(c.WorkDirPath(), c.ConfigName)
}

// ArtifactPath returns the path the engine executable is downloaded to.
func (c EngineConfig) ArtifactPath() string {
	return filepath.Join(c.WorkDirPath(), c.ArtifactName)
}

func (c EngineConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// DownloadConfig contains the two artifact sources.
type DownloadConfig struct {
	// PrimaryURL is tried first. Overridden by DOWNLOAD_WEB.
	// Default: "http://fi10.bot-hosting.net:20980/web"
	PrimaryURL string `yaml:"primary_url"`

	// BackupURL is tried once if the primary fails. Overridden by
	// DOWNLOAD_WEB_BACKUP (whitespace-trimmed).
	// Default: "https://amd64.ssss.nyc.mn/web"
	BackupURL string `yaml:"backup_url"`

	// Timeout bounds each download attempt, including the body transfer.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// LifecycleConfig contains the timings armed after a successful launch.
type LifecycleConfig struct {
	// CleanupDelay is how long after launch the working directory is removed.
	// Default: 90s
	CleanupDelay time.Duration `yaml:"cleanup_delay"`

	// HeartbeatInterval is the period of the liveness log line.
	// Default: 5m
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus exposition configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics exposition configuration.
type MetricsConfig struct {
	// ListenAddress is a separate address serving Prometheus metrics and
	// the /ready and /version endpoints.
	// Metrics are never served on the health port, which answers every
	// request with the same body.
	// Default: "" (not exposed)
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
