package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "enginevisor"

// Collector owns the Prometheus registry and the metric families recorded
// by the bootstrap sequence and the lifecycle scheduler.
//
// A nil *Collector is valid: every Record method is a no-op, so components
// can be built without metrics in tests.
type Collector struct {
	registry *prometheus.Registry

	bootstrap *BootstrapMetrics
	lifecycle *LifecycleMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a fresh registry is created.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Collector{
		registry:  registry,
		bootstrap: NewBootstrapMetrics(namespace, registry),
		lifecycle: NewLifecycleMetrics(namespace, registry),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordFetchAttempt records one download attempt against a named source.
func (c *Collector) RecordFetchAttempt(source string, ok bool) {
	if c == nil {
		return
	}
	c.bootstrap.fetchAttempts.WithLabelValues(source, result(ok)).Inc()
}

// RecordLaunch records an engine launch attempt.
func (c *Collector) RecordLaunch(ok bool) {
	if c == nil {
		return
	}
	c.bootstrap.launches.WithLabelValues(result(ok)).Inc()
}

// SetBootstrapState publishes the numeric bootstrap state.
func (c *Collector) SetBootstrapState(state int) {
	if c == nil {
		return
	}
	c.bootstrap.state.Set(float64(state))
}

// RecordHeartbeat counts one heartbeat tick.
func (c *Collector) RecordHeartbeat(engineAlive bool) {
	if c == nil {
		return
	}
	c.lifecycle.heartbeats.Inc()
	if engineAlive {
		c.lifecycle.engineAlive.Set(1)
	} else {
		c.lifecycle.engineAlive.Set(0)
	}
}

// RecordCleanup records a working directory removal.
func (c *Collector) RecordCleanup(ok bool) {
	if c == nil {
		return
	}
	c.lifecycle.cleanups.WithLabelValues(result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
