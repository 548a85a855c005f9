// Package inspect serves a read-only view of a runtime's logical tree.
//
// The inspector observes tree notifications on the core goroutine. After each
// one it publishes an immutable Snapshot through an atomic pointer and
// broadcasts the notification to websocket clients, so HTTP handlers never
// touch tracer state.
//
// Routes:
//
//	GET /tree     current snapshot as JSON
//	GET /events   websocket stream of snapshot and event messages
//	GET /metrics  Prometheus metrics
//	GET /healthz  liveness check
package inspect
