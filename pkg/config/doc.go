// Package config provides configuration management for enginevisor.
//
// Configuration is an explicit struct populated once at startup and handed
// to each component. It can come from defaults alone, or from an optional
// YAML file, and is always finished with environment variable overrides.
//
// # Environment Variables
//
// The hosting variables keep their conventional names:
//
//   - SERVER_PORT, then PORT: public service port (default 3000)
//   - DOWNLOAD_WEB: primary artifact URL
//   - DOWNLOAD_WEB_BACKUP: backup artifact URL (whitespace-trimmed)
//
// Every other field uses ENGINEVISOR_SECTION_FIELD, for example
// ENGINEVISOR_ENGINE_WORK_DIR or ENGINEVISOR_TELEMETRY_LOGGING_LEVEL.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file, if one is given
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// A dotenv file can seed the environment before loading with LoadEnvFile.
package config
