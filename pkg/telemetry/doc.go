// Package telemetry groups the observability packages of enginevisor.
//
// # Components
//
//   - logging: slog logger construction from configuration
//   - metrics: Prometheus collectors for bootstrap and lifecycle events
//   - health: readiness and version endpoints for the telemetry listener
//
// Metrics and readiness are only served when
// telemetry.metrics.listen_address is set, and never on the service health
// port.
package telemetry
