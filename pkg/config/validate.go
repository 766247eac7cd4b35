package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"mercator-hq/enginevisor/pkg/engineconfig"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "service.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateService(&cfg.Service)...)
	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateDownload(&cfg.Download)...)
	errs = append(errs, validateLifecycle(&cfg.Lifecycle)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateService(cfg *ServiceConfig) []FieldError {
	var errs []FieldError

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   "service.port",
			Message: fmt.Sprintf("port %d out of range 1-65535", cfg.Port),
		})
	}
	if cfg.HealthPort < 1 || cfg.HealthPort > 65535 {
		errs = append(errs, FieldError{
			Field:   "service.health_port",
			Message: fmt.Sprintf("port %d out of range 1-65535", cfg.HealthPort),
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "service.read_timeout", Message: "read timeout must be positive"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "service.write_timeout", Message: "write timeout must be positive"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "service.idle_timeout", Message: "idle timeout must be positive"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "service.shutdown_timeout", Message: "shutdown timeout must be positive"})
	}

	errs = append(errs, validatePortLayout(cfg)...)

	return errs
}

// validatePortLayout rejects ports that the health responder and the
// engine would both try to bind. The engine's public listener binds every
// interface, so a shared port collides whatever health_host is.
func validatePortLayout(cfg *ServiceConfig) []FieldError {
	var errs []FieldError

	reserved := map[int]string{
		engineconfig.XHTTPPort:     "the engine's loopback XHTTP listener",
		engineconfig.WebSocketPort: "the engine's loopback WebSocket listener",
	}

	if owner, ok := reserved[cfg.Port]; ok {
		errs = append(errs, FieldError{
			Field:   "service.port",
			Message: fmt.Sprintf("port %d is reserved for %s", cfg.Port, owner),
		})
	} else if cfg.Port == cfg.HealthPort {
		errs = append(errs, FieldError{
			Field:   "service.port",
			Message: fmt.Sprintf("port %d is also the health responder's port; set service.health_port to a different port", cfg.Port),
		})
	}

	if owner, ok := reserved[cfg.HealthPort]; ok {
		errs = append(errs, FieldError{
			Field:   "service.health_port",
			Message: fmt.Sprintf("port %d is reserved for %s", cfg.HealthPort, owner),
		})
	}

	return errs
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError

	if cfg.IdentityFile == "" {
		errs = append(errs, FieldError{Field: "engine.identity_file", Message: "identity file is required"})
	}
	if cfg.WorkDir == "" {
		errs = append(errs, FieldError{Field: "engine.work_dir", Message: "work dir is required"})
	} else if filepath.Clean(cfg.WorkDir) == "." || filepath.Clean(cfg.WorkDir) == "/" {
		// The working directory is deleted recursively twice per run.
		errs = append(errs, FieldError{Field: "engine.work_dir", Message: "work dir must not be the base or root directory"})
	}

	for field, name := range map[string]string{
		"engine.config_name":   cfg.ConfigName,
		"engine.artifact_name": cfg.ArtifactName,
	} {
		if name == "" {
			errs = append(errs, FieldError{Field: field, Message: "file name is required"})
		} else if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%q must be a plain file name", name)})
		}
	}

	if cfg.ConfigName != "" && cfg.ConfigName == cfg.ArtifactName {
		errs = append(errs, FieldError{Field: "engine.artifact_name", Message: "artifact and config must use different file names"})
	}

	return errs
}

func validateDownload(cfg *DownloadConfig) []FieldError {
	var errs []FieldError

	if cfg.PrimaryURL == "" {
		errs = append(errs, FieldError{Field: "download.primary_url", Message: "primary URL is required"})
	} else if err := validateHTTPURL(cfg.PrimaryURL); err != nil {
		errs = append(errs, FieldError{Field: "download.primary_url", Message: err.Error()})
	}

	// The backup source is optional; an empty value leaves a single source.
	if cfg.BackupURL != "" {
		if err := validateHTTPURL(cfg.BackupURL); err != nil {
			errs = append(errs, FieldError{Field: "download.backup_url", Message: err.Error()})
		}
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "download.timeout", Message: "timeout must be positive"})
	}

	return errs
}

func validateLifecycle(cfg *LifecycleConfig) []FieldError {
	var errs []FieldError

	if cfg.CleanupDelay < 0 {
		errs = append(errs, FieldError{Field: "lifecycle.cleanup_delay", Message: "cleanup delay must not be negative"})
	}
	// cron's constant-delay schedules have one-second resolution.
	if cfg.HeartbeatInterval < time.Second {
		errs = append(errs, FieldError{Field: "lifecycle.heartbeat_interval", Message: "heartbeat interval must be at least 1s"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.ListenAddress != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	return errs
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}
