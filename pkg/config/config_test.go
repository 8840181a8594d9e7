package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Store.Path == "" || cfg.Packs.Dir == "" {
		t.Error("Default() left required paths empty")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
store:
  path: /tmp/facts.db
  busy_timeout: 2s
packs:
  dir: /tmp/packs
  watch: false
trace:
  enabled: true
  retention_days: 7
telemetry:
  logging:
    level: debug
    format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Path != "/tmp/facts.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Store.BusyTimeout.Std() != 2*time.Second {
		t.Errorf("Store.BusyTimeout = %v", cfg.Store.BusyTimeout)
	}
	if cfg.Packs.Watch {
		t.Error("Packs.Watch = true, want false")
	}
	if !cfg.Trace.Enabled || cfg.Trace.RetentionDays != 7 {
		t.Errorf("Trace = %+v", cfg.Trace)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}

	// Unset fields keep defaults.
	if cfg.Trace.Path != "data/traces.db" {
		t.Errorf("Trace.Path = %q, want default", cfg.Trace.Path)
	}
	if cfg.Telemetry.Metrics.Namespace != "sigil" {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"empty packs dir", func(c *Config) { c.Packs.Dir = "" }},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }},
		{"negative retention", func(c *Config) { c.Trace.RetentionDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file = nil, want error")
	}
}
