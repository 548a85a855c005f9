package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/nodetrace"
	"github.com/vango-dev/nodetrace/internal/config"
	"github.com/vango-dev/nodetrace/pkg/script"
)

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringP("config", "c", "", "Config file (default: nodetrace.yaml next to the script)")
	f.StringP("host", "H", config.DefaultHost, "Inspector host")
	f.IntP("port", "p", config.DefaultPort, "Inspector port")
	f.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	f.String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	f.BoolP("debug", "d", false, "Log every primitive call and tree change")
	f.Bool("metrics", true, "Collect Prometheus metrics")
	f.Bool("tracing", false, "Record OpenTelemetry spans")
	f.Int("max-items", 3, "List items shown per node in debug output")
	f.Int("max-string", 10, "Text characters shown in debug output")
	f.String("component-tag", "", "Write component names into data-<tag> attributes")
}

// loadConfig layers nodetrace.yaml, the environment and the set flags. The
// config file is looked up next to the script unless --config is given.
func loadConfig(cmd *cobra.Command, scriptPath string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if root, err := config.FindProjectRoot(filepath.Dir(scriptPath)); err == nil {
			path = filepath.Join(root, config.ConfigFileName)
			if _, err := os.Stat(path); err != nil {
				path = filepath.Join(root, "nodetrace.yml")
			}
		}
	}
	return config.LoadWithFlags(path, cmd.Flags())
}

// session is a runtime wired from a loaded config, with a player and the
// in-process telemetry sinks.
type session struct {
	cfg      *config.Config
	rt       *nodetrace.Runtime
	player   *script.Player
	registry *prometheus.Registry
	spans    *tracetest.InMemoryExporter
	provider *sdktrace.TracerProvider
}

func newSession(cfg *config.Config) *session {
	s := &session{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
	}

	rc := nodetrace.Config{
		Logger: cfg.NewLogger(os.Stderr),
		Debug:  cfg.Log.Debug,
		Log: nodetrace.LogConfig{
			MaxArrayItems:   cfg.Log.MaxArrayItems,
			MaxStringLength: cfg.Log.MaxStringLength,
			ComponentAttr:   cfg.Log.ComponentAttr,
			Level:           cfg.Level(),
		},
		Metrics: nodetrace.MetricsConfig{
			Enabled:   cfg.Metrics.Enabled,
			Namespace: cfg.Metrics.Namespace,
			Registry:  s.registry,
		},
	}
	if cfg.Tracing.Enabled {
		s.spans = tracetest.NewInMemoryExporter()
		s.provider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(s.spans))
		rc.Tracing = nodetrace.TracingConfig{
			Enabled:       true,
			Provider:      s.provider,
			Notifications: cfg.Tracing.Notifications,
		}
	}

	s.rt = nodetrace.New(rc)
	s.player = script.NewPlayer(s.rt)
	return s
}

// close flushes and stops the tracer provider.
func (s *session) close() {
	if s.provider != nil {
		s.provider.Shutdown(context.Background())
	}
}
