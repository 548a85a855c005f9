package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/nodetrace/pkg/lifecycle"
	"github.com/vango-dev/nodetrace/pkg/trace"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "nodetrace").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for walk duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "nodetrace",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one runtime.
type Metrics struct {
	componentsCreated *prometheus.CounterVec
	attachesTotal     *prometheus.CounterVec
	detachesTotal     prometheus.Counter
	hookCalls         *prometheus.CounterVec
	walkDuration      *prometheus.HistogramVec
	trackedComponents prometheus.Gauge
	treeEntries       prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
//
// Metrics collected:
//   - nodetrace_components_created_total: components constructed, by name
//   - nodetrace_attaches_total: logical attaches, by kind (component or guard)
//   - nodetrace_detaches_total: logical detaches
//   - nodetrace_hook_calls_total: lifecycle hooks run, by hook
//   - nodetrace_walk_duration_seconds: duration of lifecycle walks, by hook
//   - nodetrace_tracked_components: live components in the registry
//   - nodetrace_tree_entries: live logical tree entries
//
// Example:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	tr.Observe(middleware.ObserveMetrics(m, tr))
//	lc.Use(middleware.CallTreeMetrics(m, lc))
//
//	http.Handle("/metrics", promhttp.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		componentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_created_total",
			Help:        "Total number of components constructed",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		attachesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attaches_total",
			Help:        "Total number of logical attaches",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		detachesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "detaches_total",
			Help:        "Total number of logical detaches",
			ConstLabels: config.ConstLabels,
		}),

		hookCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_calls_total",
			Help:        "Total number of lifecycle hooks run",
			ConstLabels: config.ConstLabels,
		}, []string{"hook"}),

		walkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "walk_duration_seconds",
			Help:        "Lifecycle walk duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"hook"}),

		trackedComponents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracked_components",
			Help:        "Number of live components in the registry",
			ConstLabels: config.ConstLabels,
		}),

		treeEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_entries",
			Help:        "Number of live logical tree entries",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveMetrics returns a notifier wrapper counting tracer notifications.
// Pass it to Tracer.Observe.
func ObserveMetrics[N any](m *Metrics, tr *trace.Tracer[N]) func(prev trace.Notifier[N]) trace.Notifier[N] {
	sizes := func() {
		m.trackedComponents.Set(float64(tr.Registry().Len()))
		m.treeEntries.Set(float64(tr.Tree().Len()))
	}
	return func(prev trace.Notifier[N]) trace.Notifier[N] {
		return trace.Notifier[N]{
			OnCreate: func(f trace.Factory, node *N) {
				m.componentsCreated.WithLabelValues(f.Name()).Inc()
				sizes()
				prev.OnCreate(f, node)
			},
			OnAttach: func(parent, child *N) {
				kind := "guard"
				if tr.IsComponent(child) {
					kind = "component"
				}
				m.attachesTotal.WithLabelValues(kind).Inc()
				prev.OnAttach(parent, child)
				sizes()
			},
			OnDetach: func(parent, child *N) {
				m.detachesTotal.Inc()
				prev.OnDetach(parent, child)
				sizes()
			},
		}
	}
}

// CallTreeMetrics returns a walk wrapper counting hook calls and timing
// whole walks. Pass it to Lifecycle.Use.
func CallTreeMetrics[N any](m *Metrics, lc *lifecycle.Lifecycle[N]) func(next lifecycle.CallTreeFunc[N]) lifecycle.CallTreeFunc[N] {
	return func(next lifecycle.CallTreeFunc[N]) lifecycle.CallTreeFunc[N] {
		walking := false
		return func(hook lifecycle.Hook, root *N) {
			if lc.Lookup(hook, root) != nil {
				m.hookCalls.WithLabelValues(string(hook)).Inc()
			}
			if walking {
				next(hook, root)
				return
			}

			walking = true
			start := time.Now()
			defer func() {
				walking = false
				m.walkDuration.WithLabelValues(string(hook)).Observe(time.Since(start).Seconds())
			}()
			next(hook, root)
		}
	}
}
