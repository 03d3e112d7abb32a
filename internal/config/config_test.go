package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GriffinCanCode/volley/request"
	"github.com/GriffinCanCode/volley/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.Client.BaseURL)
	assert.Equal(t, request.DefaultTimeout, cfg.Client.Timeout.Std())
	assert.Equal(t, request.DefaultUserAgent, cfg.Client.UserAgent)
	assert.False(t, cfg.Client.Debug)

	assert.Equal(t, transport.DefaultMaxRedirects, cfg.Transport.MaxRedirects)
	assert.Zero(t, cfg.Transport.RateLimitRPS)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "volley", cfg.Metrics.Namespace)

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("VOLLEY_BASE_URL", "https://api.example.com/v1")
	t.Setenv("VOLLEY_TIMEOUT", "15s")
	t.Setenv("VOLLEY_DEBUG", "true")
	t.Setenv("VOLLEY_RATE_LIMIT_RPS", "2.5")
	t.Setenv("VOLLEY_RATE_LIMIT_BURST", "4")
	t.Setenv("VOLLEY_LOG_LEVEL", "warn")
	t.Setenv("VOLLEY_METRICS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.Client.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Client.Timeout.Std())
	assert.True(t, cfg.Client.Debug)
	assert.Equal(t, 2.5, cfg.Transport.RateLimitRPS)
	assert.Equal(t, 4, cfg.Transport.RateLimitBurst)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)

	// Unset variables keep their defaults.
	assert.Equal(t, request.DefaultUserAgent, cfg.Client.UserAgent)
	assert.Equal(t, transport.DefaultMaxRedirects, cfg.Transport.MaxRedirects)
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("VOLLEY_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad base url", func(t *testing.T) {
		t.Setenv("VOLLEY_BASE_URL", "ftp://example.com")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("load or default falls back", func(t *testing.T) {
		t.Setenv("VOLLEY_MAX_REDIRECTS", "many")
		cfg := LoadOrDefault()
		assert.Equal(t, transport.DefaultMaxRedirects, cfg.Transport.MaxRedirects)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "volley.yaml", `
client:
  base_url: https://yaml.example.com
  timeout: 1m30s
  user_agent: yaml-agent
transport:
  rate_limit_rps: 10
  max_redirects: -1
logging:
  level: debug
  development: true
metrics:
  enabled: true
  namespace: custom
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "https://yaml.example.com", cfg.Client.BaseURL)
		assert.Equal(t, 90*time.Second, cfg.Client.Timeout.Std())
		assert.Equal(t, "yaml-agent", cfg.Client.UserAgent)
		assert.Equal(t, 10.0, cfg.Transport.RateLimitRPS)
		assert.Equal(t, -1, cfg.Transport.MaxRedirects)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.Development)
		assert.Equal(t, "custom", cfg.Metrics.Namespace)
	})

	t.Run("toml", func(t *testing.T) {
		path := writeFile(t, "volley.toml", `
[client]
base_url = "http://toml.example.com"
timeout = "5s"

[transport]
rate_limit_burst = 3
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "http://toml.example.com", cfg.Client.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Client.Timeout.Std())
		assert.Equal(t, 3, cfg.Transport.RateLimitBurst)
		assert.Equal(t, request.DefaultUserAgent, cfg.Client.UserAgent)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeFile(t, "volley.yml", "client:\n  timeout: 20s\n  user_agent: from-file\n")
		t.Setenv("VOLLEY_TIMEOUT", "2s")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.Client.Timeout.Std())
		assert.Equal(t, "from-file", cfg.Client.UserAgent)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "volley.json", "{}")
		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 250ms ")))
	assert.Equal(t, 250*time.Millisecond, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "250ms", string(text))

	assert.Error(t, d.UnmarshalText([]byte("later")))
}

func TestBridges(t *testing.T) {
	cfg := Default()
	cfg.Client.BaseURL = "https://api.example.com"
	cfg.Client.Timeout = Duration(3 * time.Second)
	cfg.Client.Debug = true
	cfg.Transport.RateLimitRPS = 5
	cfg.Transport.RateLimitBurst = 2

	logger := zap.NewNop()

	rc := cfg.ClientConfig(logger, nil, nil)
	assert.Equal(t, "https://api.example.com", rc.BaseURL)
	assert.Equal(t, 3*time.Second, rc.Timeout)
	assert.True(t, rc.Debug)
	assert.Same(t, logger, rc.Logger)

	opts := cfg.TransportOptions(logger)
	assert.Equal(t, 5.0, opts.RateLimit)
	assert.Equal(t, 2, opts.Burst)
	assert.Equal(t, transport.DefaultMaxRedirects, opts.MaxRedirects)

	lc := cfg.LoggingConfig()
	assert.Equal(t, "debug", lc.Level)

	cfg.Client.Debug = false
	assert.Equal(t, "info", cfg.LoggingConfig().Level)
}
