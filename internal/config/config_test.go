package config

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/vango-dev/nodetrace/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("Inspector.Port = %d, want %d", cfg.Inspector.Port, DefaultPort)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want %q", cfg.Inspector.Host, DefaultHost)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v, want defaults", cfg.Log)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v, want enabled with default namespace", cfg.Metrics)
	}
	if cfg.Log.MaxArrayItems != 3 || cfg.Log.MaxStringLength != 10 {
		t.Errorf("Log limits = %d/%d, want 3/10", cfg.Log.MaxArrayItems, cfg.Log.MaxStringLength)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	var te *errors.TraceError
	if !stderrors.As(err, &te) || te.Code != "T100" {
		t.Errorf("error = %v, want T100", err)
	}

	writeConfig(t, tmpDir, `name: tables
inspector:
  host: 0.0.0.0
  port: 8080
log:
  level: debug
  format: json
  debug: true
  max_array_items: 5
metrics:
  enabled: false
tracing:
  enabled: true
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Name != "tables" {
		t.Errorf("Name = %q, want %q", cfg.Name, "tables")
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want %q", cfg.Address(), "0.0.0.0:8080")
	}
	if cfg.Level() != slog.LevelDebug || cfg.Log.Format != "json" || !cfg.Log.Debug {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Log.MaxArrayItems != 5 || cfg.Log.MaxStringLength != 10 {
		t.Errorf("Log limits = %d/%d, want 5/10", cfg.Log.MaxArrayItems, cfg.Log.MaxStringLength)
	}
	if cfg.Metrics.Enabled || !cfg.Tracing.Enabled {
		t.Errorf("Metrics/Tracing = %v/%v, want false/true", cfg.Metrics.Enabled, cfg.Tracing.Enabled)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadYml(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nodetrace.yml")
	if err := os.WriteFile(path, []byte("name: short\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "inspector: [unclosed\n")

	_, err := LoadFile(path)
	var te *errors.TraceError
	if !stderrors.As(err, &te) || te.Code != "T101" {
		t.Errorf("error = %v, want T101", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var te *errors.TraceError
	if !stderrors.As(err, &te) || te.Code != "T100" {
		t.Errorf("error = %v, want T100", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port too high", func(c *Config) { c.Inspector.Port = 70000 }, false},
		{"negative port", func(c *Config) { c.Inspector.Port = -1 }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"upper level", func(c *Config) { c.Log.Level = "WARN" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"negative limit", func(c *Config) { c.Log.MaxArrayItems = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, valid = %v", err, tt.valid)
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "inspector:\n  port: 8080\nlog:\n  level: info\n")
	t.Setenv("NODETRACE_INSPECTOR_PORT", "9090")
	t.Setenv("NODETRACE_LOG_MAX_ARRAY_ITEMS", "7")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Inspector.Port != 9090 {
		t.Errorf("Inspector.Port = %d, want 9090", cfg.Inspector.Port)
	}
	if cfg.Log.MaxArrayItems != 7 {
		t.Errorf("Log.MaxArrayItems = %d, want 7", cfg.Log.MaxArrayItems)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("NODETRACE_INSPECTOR_PORT", "9090")
	t.Setenv("NODETRACE_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", DefaultPort, "")
	flags.String("log-level", DefaultLogLevel, "")
	flags.Bool("debug", false, "")
	flags.String("unknown", "", "")
	if err := flags.Parse([]string{"--port=9999", "--debug", "--unknown=x"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithFlags("", flags)
	if err != nil {
		t.Fatalf("LoadWithFlags() error: %v", err)
	}
	if cfg.Inspector.Port != 9999 {
		t.Errorf("Inspector.Port = %d, want 9999 from flag", cfg.Inspector.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from env (flag not set)", cfg.Log.Level)
	}
	if !cfg.Log.Debug {
		t.Error("Log.Debug should be set by flag")
	}
	if cfg.Path() != "" || cfg.Dir() != "." {
		t.Errorf("Path()/Dir() = %q/%q, want empty/.", cfg.Path(), cfg.Dir())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log:\n  format: xml\n")

	_, err := LoadFile(path)
	var te *errors.TraceError
	if !stderrors.As(err, &te) || te.Code != "T102" {
		t.Errorf("error = %v, want T102", err)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"NODETRACE_NAME", "name"},
		{"NODETRACE_INSPECTOR_PORT", "inspector.port"},
		{"NODETRACE_LOG_MAX_STRING_LENGTH", "log.max_string_length"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"

	cfg.NewLogger(&buf).Debug("hello", "k", "v")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("output = %q, want JSON record", buf.String())
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "name: root\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() wrong")
	}
}
