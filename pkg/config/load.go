package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Port environment variables, in precedence order.
var portEnvVars = []string{"SERVER_PORT", "PORT"}

const (
	envPrimaryURL = "DOWNLOAD_WEB"
	envBackupURL  = "DOWNLOAD_WEB_BACKUP"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables always take precedence
// over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	envErrs := applyEnvOverrides(cfg)

	if err := validateWithEnv(cfg, envErrs); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Load builds the runtime configuration. An empty path means no file:
// defaults plus environment overrides, which is how enginevisor usually
// runs on hosting platforms that only expose environment variables.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}

	cfg := Default()
	envErrs := applyEnvOverrides(cfg)

	if err := validateWithEnv(cfg, envErrs); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are left untouched.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// The hosting variables (SERVER_PORT, PORT, DOWNLOAD_WEB, DOWNLOAD_WEB_BACKUP)
// are honoured first; everything else uses the ENGINEVISOR_SECTION_FIELD format.
// Port variables that are set but not numeric are returned as field errors.
func applyEnvOverrides(cfg *Config) []FieldError {
	var errs []FieldError

	// The first port alias present wins, even when it cannot be parsed.
	for _, name := range portEnvVars {
		port, set, err := envPort(name)
		if !set {
			continue
		}
		if err != nil {
			errs = append(errs, FieldError{Field: "service.port", Message: err.Error()})
		} else {
			cfg.Service.Port = port
		}
		break
	}
	if val := os.Getenv(envPrimaryURL); val != "" {
		cfg.Download.PrimaryURL = val
	}
	if val := strings.TrimSpace(os.Getenv(envBackupURL)); val != "" {
		cfg.Download.BackupURL = val
	}

	// Service overrides
	if port, set, err := envPort("ENGINEVISOR_SERVICE_HEALTH_PORT"); err != nil {
		errs = append(errs, FieldError{Field: "service.health_port", Message: err.Error()})
	} else if set {
		cfg.Service.HealthPort = port
	}
	if val := os.Getenv("ENGINEVISOR_SERVICE_HEALTH_HOST"); val != "" {
		cfg.Service.HealthHost = val
	}
	if val := os.Getenv("ENGINEVISOR_SERVICE_HEALTH_BODY"); val != "" {
		cfg.Service.HealthBody = val
	}

	// Engine overrides
	if val := os.Getenv("ENGINEVISOR_ENGINE_BASE_DIR"); val != "" {
		cfg.Engine.BaseDir = val
	}
	if val := os.Getenv("ENGINEVISOR_ENGINE_IDENTITY_FILE"); val != "" {
		cfg.Engine.IdentityFile = val
	}
	if val := os.Getenv("ENGINEVISOR_ENGINE_WORK_DIR"); val != "" {
		cfg.Engine.WorkDir = val
	}

	// Download and lifecycle overrides
	if d, ok := envDuration("ENGINEVISOR_DOWNLOAD_TIMEOUT"); ok {
		cfg.Download.Timeout = d
	}
	if d, ok := envDuration("ENGINEVISOR_LIFECYCLE_CLEANUP_DELAY"); ok {
		cfg.Lifecycle.CleanupDelay = d
	}
	if d, ok := envDuration("ENGINEVISOR_LIFECYCLE_HEARTBEAT_INTERVAL"); ok {
		cfg.Lifecycle.HeartbeatInterval = d
	}

	// Telemetry overrides
	if val := os.Getenv("ENGINEVISOR_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ENGINEVISOR_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ENGINEVISOR_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}

	return errs
}

// validateWithEnv validates cfg and reports envErrs ahead of any rule
// violations in a single ValidationError.
func validateWithEnv(cfg *Config, envErrs []FieldError) error {
	err := Validate(cfg)
	if len(envErrs) == 0 {
		return err
	}

	errs := envErrs
	var verr ValidationError
	if errors.As(err, &verr) {
		errs = append(errs, verr.Errors...)
	}
	return ValidationError{Errors: errs}
}

// envPort reads a port number from name. set is false when the variable
// is empty or unset.
func envPort(name string) (port int, set bool, err error) {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return 0, false, nil
	}
	port, err = strconv.Atoi(val)
	if err != nil {
		return 0, true, fmt.Errorf("%s=%q is not a port number", name, val)
	}
	return port, true, nil
}

func envDuration(name string) (time.Duration, bool) {
	val := os.Getenv(name)
	if val == "" {
		return 0, false
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, false
	}
	return d, true
}
