package metrics

import "github.com/prometheus/client_golang/prometheus"

// LifecycleMetrics tracks the post-launch scheduled tasks.
//
// Metrics:
//   - enginevisor_heartbeats_total: heartbeat ticks emitted
//   - enginevisor_engine_alive: 1 if the engine PID existed at the last heartbeat
//   - enginevisor_workdir_cleanups_total: working directory removals by result
type LifecycleMetrics struct {
	heartbeats  prometheus.Counter
	engineAlive prometheus.Gauge
	cleanups    *prometheus.CounterVec
}

// NewLifecycleMetrics creates and registers lifecycle metrics.
func NewLifecycleMetrics(namespace string, registry *prometheus.Registry) *LifecycleMetrics {
	lm := &LifecycleMetrics{
		heartbeats: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "heartbeats_total",
				Help:      "Total number of heartbeat ticks",
			},
		),
		engineAlive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "engine_alive",
				Help:      "Whether the engine process existed at the last heartbeat",
			},
		),
		cleanups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workdir_cleanups_total",
				Help:      "Total number of working directory removals",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(lm.heartbeats, lm.engineAlive, lm.cleanups)
	return lm
}
