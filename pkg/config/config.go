// Package config provides the configuration for leasepool applications and
// the leasepool CLI. It defines a single Config structure organized into
// logical sections:
//
//   - Snapshot: where snapshots live and how they are compressed on disk
//   - Logging: structured logging level and encoding
//   - Metrics: Prometheus exposure
//
// Pool construction itself is configured in code through pool.Options —
// reset policies and lease factories are functions and do not belong in a
// configuration file.
//
// Example usage:
//
//	cfg := config.NewDefault()
//	cfg.Snapshot.Dir = "/var/lib/app/pools"
//	cfg.Snapshot.Compression = "zstd"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/leasepool/pkg/compression"
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// Config is the top-level configuration structure.
type Config struct {
	// Snapshot configures snapshot persistence
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// Logging configures structured logging
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configures Prometheus exposure
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// SnapshotConfig contains snapshot storage settings.
type SnapshotConfig struct {
	// Dir is the directory snapshot files are written to
	Dir string `yaml:"dir" json:"dir"`
	// Compression selects the on-disk codec (none, gzip, snappy, lz4, zstd, s2)
	Compression string `yaml:"compression" json:"compression"`
	// Extension is the snapshot file extension
	Extension string `yaml:"extension" json:"extension"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level sets the minimum log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding selects the log format (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables human-friendly output and stack traces
	Development bool `yaml:"development" json:"development"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled activates metric collection
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Listen is the address the metrics endpoint binds to
	Listen string `yaml:"listen" json:"listen"`
}

// NewDefault creates a Config with sensible defaults: snapshots in the
// working directory without compression, info-level JSON logging, metrics
// enabled on localhost.
func NewDefault() *Config {
	return &Config{
		Snapshot: SnapshotConfig{
			Dir:         ".",
			Compression: string(compression.None),
			Extension:   ".snap",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Encoding:    "json",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Listen:  "127.0.0.1:9109",
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to parse config file").
			WithDetail("path", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration for correctness. It checks required
// fields and ensures values are within acceptable ranges. Applications
// should call this after loading configuration to catch errors early.
func (c *Config) Validate() error {
	if c.Snapshot.Dir == "" {
		return poolerrors.New(poolerrors.ErrorTypeConfig, "snapshot.dir is required")
	}
	if _, err := compression.ParseAlgorithm(c.Snapshot.Compression); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return poolerrors.New(poolerrors.ErrorTypeConfig, "invalid logging.level").
			WithDetail("level", c.Logging.Level)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return poolerrors.New(poolerrors.ErrorTypeConfig, "invalid logging.encoding").
			WithDetail("encoding", c.Logging.Encoding)
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return poolerrors.New(poolerrors.ErrorTypeConfig, "metrics.listen is required when metrics are enabled")
	}
	return nil
}

// CompressionAlgorithm returns the parsed snapshot compression algorithm.
// Validate must have accepted the configuration first.
func (s *SnapshotConfig) CompressionAlgorithm() compression.Algorithm {
	algorithm, _ := compression.ParseAlgorithm(s.Compression)
	return algorithm
}
