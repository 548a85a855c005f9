package nodetrace

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/nodetrace/pkg/tracelog"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the runtime configuration.
type Config struct {
	// Logger is the structured logger for the runtime.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Debug installs the trace logger, which logs every primitive call,
	// every logical attach and detach, and every lifecycle walk.
	Debug bool

	// Log configures the trace logger output when Debug is set.
	Log LogConfig

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig
}

// LogConfig configures the trace logger.
type LogConfig struct {
	// MaxArrayItems is the number of list items shown per node.
	// Default: 3.
	MaxArrayItems int

	// MaxStringLength is the number of text characters shown.
	// Default: 10.
	MaxStringLength int

	// ComponentAttr writes component names into data-<ComponentAttr>
	// attributes. Empty disables it.
	ComponentAttr string

	// Level is the level trace records are logged at.
	// Default: slog.LevelDebug.
	Level slog.Level
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns on metrics collection.
	Enabled bool

	// Namespace is the metrics namespace.
	// Default: "nodetrace".
	Namespace string

	// Registry is the registerer for the collectors.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled turns on span recording.
	Enabled bool

	// TracerName is the instrumentation name.
	// Default: "nodetrace".
	TracerName string

	// Provider is the tracer provider. If nil, the global provider is used.
	Provider oteltrace.TracerProvider

	// Notifications also records a span per logical attach and detach.
	Notifications bool
}

// DefaultConfig returns a configuration with defaults applied.
func DefaultConfig() Config {
	return Config{
		Logger: slog.Default(),
		Log:    DefaultLogConfig(),
		Metrics: MetricsConfig{
			Namespace: "nodetrace",
			Registry:  prometheus.DefaultRegisterer,
		},
		Tracing: TracingConfig{
			TracerName: "nodetrace",
		},
	}
}

// DefaultLogConfig returns the default trace logger settings.
func DefaultLogConfig() LogConfig {
	opts := tracelog.DefaultOptions()
	return LogConfig{
		MaxArrayItems:   opts.MaxArrayItems,
		MaxStringLength: opts.MaxStringLength,
		Level:           opts.Level,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.Log.MaxArrayItems <= 0 {
		c.Log.MaxArrayItems = d.Log.MaxArrayItems
	}
	if c.Log.MaxStringLength <= 0 {
		c.Log.MaxStringLength = d.Log.MaxStringLength
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Metrics.Registry == nil {
		c.Metrics.Registry = d.Metrics.Registry
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	return c
}

func (c LogConfig) options() tracelog.Options {
	return tracelog.Options{
		MaxArrayItems:   c.MaxArrayItems,
		MaxStringLength: c.MaxStringLength,
		ComponentAttr:   c.ComponentAttr,
		Level:           c.Level,
	}
}
