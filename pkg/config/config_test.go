package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leasepool/pkg/compression"
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, ".", cfg.Snapshot.Dir)
	assert.Equal(t, "none", cfg.Snapshot.Compression)
	assert.Equal(t, ".snap", cfg.Snapshot.Extension)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Encoding)
	assert.True(t, cfg.Metrics.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing snapshot dir",
			mutate:  func(c *Config) { c.Snapshot.Dir = "" },
			wantErr: "snapshot.dir is required",
		},
		{
			name:    "unknown compression",
			mutate:  func(c *Config) { c.Snapshot.Compression = "brotli" },
			wantErr: "unsupported compression algorithm",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging.level",
		},
		{
			name:    "invalid log encoding",
			mutate:  func(c *Config) { c.Logging.Encoding = "logfmt" },
			wantErr: "invalid logging.encoding",
		},
		{
			name: "metrics enabled without listen",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Listen = ""
			},
			wantErr: "metrics.listen is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leasepool.yaml")

	data := `
snapshot:
  dir: /var/lib/app/pools
  compression: zstd
logging:
  level: debug
  encoding: console
  development: true
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/app/pools", cfg.Snapshot.Dir)
	assert.Equal(t, compression.Zstd, cfg.Snapshot.CompressionAlgorithm())
	// unset fields keep their defaults
	assert.Equal(t, ".snap", cfg.Snapshot.Extension)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeConfig))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leasepool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: chatty\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging.level")
}
