package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vango-dev/nodetrace/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "nodetrace.yaml"

	// EnvPrefix is the prefix of configuration environment variables.
	EnvPrefix = "NODETRACE_"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "nodetrace"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// a config file.
const maxUpwardSearchLevels = 10

// configFileNames are the accepted config file names, in priority order.
var configFileNames = []string{ConfigFileName, "nodetrace.yml"}

// Config represents nodetrace.yaml.
type Config struct {
	// Name is the project name.
	Name string `koanf:"name"`

	// Inspector configures the inspector server.
	Inspector InspectorConfig `koanf:"inspector"`

	// Log configures logging.
	Log LogConfig `koanf:"log"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `koanf:"metrics"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `koanf:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig configures the inspector server.
type InspectorConfig struct {
	// Host is the host to bind to.
	Host string `koanf:"host"`

	// Port is the port to listen on.
	Port int `koanf:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is text or json.
	Format string `koanf:"format"`

	// Debug enables the trace logger.
	Debug bool `koanf:"debug"`

	// MaxArrayItems is the number of list items shown per node.
	MaxArrayItems int `koanf:"max_array_items"`

	// MaxStringLength is the number of text characters shown.
	MaxStringLength int `koanf:"max_string_length"`

	// ComponentAttr writes component names into data attributes.
	ComponentAttr string `koanf:"component_attr"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metrics on.
	Enabled bool `koanf:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `koanf:"namespace"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled turns spans on.
	Enabled bool `koanf:"enabled"`

	// Notifications also records a span per attach and detach.
	Notifications bool `koanf:"notifications"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"host":          "inspector.host",
	"port":          "inspector.port",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"debug":         "log.debug",
	"metrics":       "metrics.enabled",
	"tracing":       "tracing.enabled",
	"max-items":     "log.max_array_items",
	"max-string":    "log.max_string_length",
	"component-tag": "log.component_attr",
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

// defaults returns the default values as flat config keys.
func defaults() map[string]any {
	return map[string]any{
		"inspector.host":        DefaultHost,
		"inspector.port":        DefaultPort,
		"log.level":             DefaultLogLevel,
		"log.format":            DefaultLogFormat,
		"log.debug":             false,
		"log.max_array_items":   3,
		"log.max_string_length": 10,
		"metrics.enabled":       true,
		"metrics.namespace":     DefaultNamespace,
		"tracing.enabled":       false,
		"tracing.notifications": false,
	}
}

// Load loads the config file from dir.
func Load(dir string) (*Config, error) {
	path := findConfigFile(dir)
	if path == "" {
		return nil, errors.New("T100").
			WithDetail(fmt.Sprintf("No %s in %s", ConfigFileName, dir))
	}
	return LoadFile(path)
}

// LoadFile loads the config from a specific file.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("T100").WithDetail(path).Wrap(err)
	}
	return load(path, nil)
}

// LoadWithFlags loads defaults, then path (when non-empty), the environment
// and finally every flag in flags that was explicitly set.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.New("T100").WithDetail(path).Wrap(err)
		}
	}
	return load(path, flags)
}

func load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.New("T101").WithDetail("failed to load defaults").Wrap(err)
	}

	// 2. Config file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.New("T101").WithDetail(path).Wrap(err)
		}
	}

	// 3. Environment: NODETRACE_LOG_MAX_ARRAY_ITEMS -> log.max_array_items
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.New("T101").WithDetail("failed to load environment").Wrap(err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.New("T101").WithDetail("failed to load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.New("T101").WithDetail("unable to decode config").Wrap(err)
	}
	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns NODETRACE_SECTION_FIELD_NAME into section.field_name.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// findConfigFile returns the config file in dir, or "".
func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.MaxArrayItems == 0 {
		c.Log.MaxArrayItems = 3
	}
	if c.Log.MaxStringLength == 0 {
		c.Log.MaxStringLength = 10
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("T102").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("T102").
			WithDetail(fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("T102").
			WithDetail(fmt.Sprintf("log.format %q is not text or json", c.Log.Format))
	}
	if c.Log.MaxArrayItems < 0 || c.Log.MaxStringLength < 0 {
		return errors.New("T102").
			WithDetail("log truncation limits must not be negative")
	}
	return nil
}

// Address returns the inspector listen address.
func (c *Config) Address() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

// URL returns the inspector base URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// NewLogger creates a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// Exists checks if a config file exists in the directory.
func Exists(dir string) bool {
	return findConfigFile(dir) != ""
}

// FindProjectRoot searches upward from startDir for a config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("T100").
		WithDetail(fmt.Sprintf("No %s found in %s or its parents", ConfigFileName, startDir))
}
