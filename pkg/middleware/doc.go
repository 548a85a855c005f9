// Package middleware provides observability wrappers for a nodetrace
// runtime.
//
// The wrappers are generic over the host node type and plug into the two
// extension points of the core: Tracer.Observe for notifications and
// Lifecycle.Use for lifecycle walks.
//
// # Prometheus Metrics
//
// NewMetrics registers the collectors; ObserveMetrics and CallTreeMetrics
// feed them:
//
//	m := middleware.NewMetrics(
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithRegistry(reg),
//	)
//	tr.Observe(middleware.ObserveMetrics(m, tr))
//	lc.Use(middleware.CallTreeMetrics(m, lc))
//
// Metrics collected:
//   - nodetrace_components_created_total{component}
//   - nodetrace_attaches_total{kind}
//   - nodetrace_detaches_total
//   - nodetrace_hook_calls_total{hook}
//   - nodetrace_walk_duration_seconds{hook}
//   - nodetrace_tracked_components
//   - nodetrace_tree_entries
//
// # OpenTelemetry
//
// CallTreeSpans records one span per lifecycle walk, with an event for each
// hook that ran. ObserveSpans records a span per logical attach and detach.
//
//	lc.Use(middleware.CallTreeSpans(tr, lc,
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithHookFilter(func(h lifecycle.Hook) bool {
//	        return h == lifecycle.OnAttach
//	    }),
//	))
package middleware
