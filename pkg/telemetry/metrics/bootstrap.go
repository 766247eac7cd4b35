package metrics

import "github.com/prometheus/client_golang/prometheus"

// BootstrapMetrics tracks the provisioning sequence.
//
// Metrics:
//   - enginevisor_artifact_fetch_attempts_total: download attempts by source and result
//   - enginevisor_engine_launches_total: engine spawn attempts by result
//   - enginevisor_bootstrap_state: numeric state of the bootstrap sequence
type BootstrapMetrics struct {
	fetchAttempts *prometheus.CounterVec
	launches      *prometheus.CounterVec
	state         prometheus.Gauge
}

// NewBootstrapMetrics creates and registers bootstrap metrics.
func NewBootstrapMetrics(namespace string, registry *prometheus.Registry) *BootstrapMetrics {
	bm := &BootstrapMetrics{
		fetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifact_fetch_attempts_total",
				Help:      "Total number of engine artifact download attempts",
			},
			[]string{"source", "result"},
		),
		launches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_launches_total",
				Help:      "Total number of engine launch attempts",
			},
			[]string{"result"},
		),
		state: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bootstrap_state",
				Help:      "Current bootstrap state (see bootstrap.State)",
			},
		),
	}

	registry.MustRegister(bm.fetchAttempts, bm.launches, bm.state)
	return bm
}
