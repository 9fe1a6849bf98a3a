package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad(t *testing.T) {
	// Test basic config loading with defaults
	t.Run("LoadDefaults", func(t *testing.T) {
		cfg, err := Load(newViper())
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Verify registry defaults
		assert.Equal(t, "https://crates.io", cfg.Registry.BaseURL)
		assert.Equal(t, "", cfg.Registry.UserAgent)
		assert.Equal(t, 5*time.Minute, cfg.Registry.DNSRefresh)

		// Verify lookup defaults
		assert.Equal(t, 5*time.Second, cfg.Lookup.Timeout)
		assert.Equal(t, 4, cfg.Lookup.Concurrency)

		// Verify output defaults
		assert.Equal(t, "text", cfg.Output.Format)
		assert.Equal(t, "auto", cfg.Output.Color)
		assert.False(t, cfg.Output.Emoji)
		assert.False(t, cfg.Output.ShowErrors)
		assert.True(t, cfg.Output.Progress)

		// Verify server defaults
		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		// Verify metrics defaults
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Same(t, cfg, GetConfig())
	})

	// Test environment variable overrides
	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("CARGO_FREE_LOOKUP_TIMEOUT", "2s")
		t.Setenv("CARGO_FREE_LOOKUP_CONCURRENCY", "16")
		t.Setenv("CARGO_FREE_OUTPUT_FORMAT", "json")
		t.Setenv("CARGO_FREE_OUTPUT_SHOW_ERRORS", "true")

		cfg, err := Load(newViper())
		require.NoError(t, err)

		assert.Equal(t, 2*time.Second, cfg.Lookup.Timeout)
		assert.Equal(t, 16, cfg.Lookup.Concurrency)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.True(t, cfg.Output.ShowErrors)
	})

	// Test config file merge
	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := []byte("registry:\n  base_url: http://localhost:9999\nlookup:\n  timeout: 750ms\noutput:\n  emoji: true\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		v := newViper()
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())

		cfg, err := Load(v)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9999", cfg.Registry.BaseURL)
		assert.Equal(t, 750*time.Millisecond, cfg.Lookup.Timeout)
		assert.True(t, cfg.Output.Emoji)
		// untouched keys keep their defaults
		assert.Equal(t, 4, cfg.Lookup.Concurrency)
	})

	t.Run("ExplicitValuesWinOverEnv", func(t *testing.T) {
		t.Setenv("CARGO_FREE_LOOKUP_CONCURRENCY", "16")

		v := newViper()
		v.Set("lookup.concurrency", 2)

		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Lookup.Concurrency)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		v := newViper()
		v.Set("lookup.concurrency", 0)
		v.Set("output.format", "csv")
		v.Set("output.color", "sometimes")

		_, err := Load(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lookup.concurrency")
		assert.Contains(t, err.Error(), "output.format")
		assert.Contains(t, err.Error(), "output.color")
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		v := newViper()
		v.Set("lookup.timeout", "soon")

		_, err := Load(v)
		require.Error(t, err)
	})
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	require.Error(t, cfg.Validate())
}
