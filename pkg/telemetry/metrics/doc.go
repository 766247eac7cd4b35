// Package metrics exposes Prometheus metrics for enginevisor.
//
// The collector records what the bootstrap sequence and the lifecycle
// scheduler do: download attempts per source, engine launches, heartbeat
// ticks and working directory cleanups.
//
//	collector := metrics.NewCollector("", nil)
//	collector.RecordFetchAttempt("primary", false)
//	http.Handle("/metrics", collector.Handler())
package metrics
