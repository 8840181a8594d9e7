// Package config defines the YAML configuration for the sigil daemon and
// CLI, with defaults suitable for local use.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can express durations as strings
// like "5s" or "100ms". Plain integers are taken as nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asInt int64
	if err := value.Decode(&asInt); err == nil {
		*d = Duration(asInt)
		return nil
	}

	var asString string
	if err := value.Decode(&asString); err != nil {
		return fmt.Errorf("invalid duration value at line %d", value.Line)
	}
	parsed, err := time.ParseDuration(asString)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", asString, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration structure.
type Config struct {
	// Store contains configuration for the persistent fact store.
	Store StoreConfig `yaml:"store"`

	// Packs contains configuration for fact-pack loading and watching.
	Packs PacksConfig `yaml:"packs"`

	// Trace contains configuration for evaluation tracing and retention.
	Trace TraceConfig `yaml:"trace"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig configures the SQLite fact store.
type StoreConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/facts.db"
	Path string `yaml:"path"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout Duration `yaml:"busy_timeout"`
}

// PacksConfig configures fact-pack loading.
type PacksConfig struct {
	// Dir is the directory of YAML fact-pack files.
	// Default: "packs"
	Dir string `yaml:"dir"`

	// Watch enables hot reloading when pack files change.
	// Default: true
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a reload is triggered
	// after file changes are detected.
	// Default: 100ms
	DebounceInterval Duration `yaml:"debounce_interval"`
}

// TraceConfig configures evaluation tracing.
type TraceConfig struct {
	// Enabled turns on persistent per-fact evaluation traces.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for traces.
	// Default: "data/traces.db"
	Path string `yaml:"path"`

	// RetentionDays is how long traces are kept before pruning.
	// Default: 14
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns on the /metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP server.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	// Default: "sigil"
	Namespace string `yaml:"namespace"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:        "data/facts.db",
			BusyTimeout: Duration(5 * time.Second),
		},
		Packs: PacksConfig{
			Dir:              "packs",
			Watch:            true,
			DebounceInterval: Duration(100 * time.Millisecond),
		},
		Trace: TraceConfig{
			Enabled:       false,
			Path:          "data/traces.db",
			RetentionDays: 14,
			PruneSchedule: "0 3 * * *",
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
			Metrics: MetricsConfig{
				Enabled:       true,
				ListenAddress: "127.0.0.1:9464",
				Namespace:     "sigil",
			},
		},
	}
}

// Load reads a YAML config file, applying defaults for unset fields.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Packs.Dir == "" {
		return fmt.Errorf("packs.dir must not be empty")
	}
	if c.Trace.Enabled && c.Trace.Path == "" {
		return fmt.Errorf("trace.path must not be empty when tracing is enabled")
	}
	if c.Trace.RetentionDays < 0 {
		return fmt.Errorf("trace.retention_days must not be negative")
	}
	switch c.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error", c.Telemetry.Logging.Level)
	}
	switch c.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not one of json, text", c.Telemetry.Logging.Format)
	}
	return nil
}
