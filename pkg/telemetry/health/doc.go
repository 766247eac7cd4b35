// Package health provides the readiness and version endpoints served on the
// telemetry listener.
//
// These are distinct from the service health responder, which answers every
// request with the same plaintext body. Readiness here aggregates named
// component checks, such as "has the bootstrap sequence finished" or "does
// the engine process still exist", and answers 503 while any check fails.
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("bootstrap", b.Ready)
//	checker.RegisterCheck("engine", b.EngineAlive)
//
//	mux.Handle("/ready", checker.ReadinessHandler())
//	mux.Handle("/version", health.VersionHandler(version, commit, buildDate))
//
// Checks run concurrently, each under the checker's timeout.
package health
