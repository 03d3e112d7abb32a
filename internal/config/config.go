package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/volley/internal/logging"
	"github.com/GriffinCanCode/volley/internal/monitoring"
	"github.com/GriffinCanCode/volley/request"
	"github.com/GriffinCanCode/volley/transport"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat reports a config file that is neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Config holds all process configuration.
type Config struct {
	Client    ClientConfig    `yaml:"client" toml:"client"`
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
}

// ClientConfig holds request defaults.
type ClientConfig struct {
	BaseURL   string   `envconfig:"VOLLEY_BASE_URL" yaml:"base_url" toml:"base_url"`
	Timeout   Duration `envconfig:"VOLLEY_TIMEOUT" yaml:"timeout" toml:"timeout"`
	UserAgent string   `envconfig:"VOLLEY_USER_AGENT" yaml:"user_agent" toml:"user_agent"`
	Debug     bool     `envconfig:"VOLLEY_DEBUG" yaml:"debug" toml:"debug"`
}

// TransportConfig holds default transport settings.
type TransportConfig struct {
	RateLimitRPS   float64 `envconfig:"VOLLEY_RATE_LIMIT_RPS" yaml:"rate_limit_rps" toml:"rate_limit_rps"`
	RateLimitBurst int     `envconfig:"VOLLEY_RATE_LIMIT_BURST" yaml:"rate_limit_burst" toml:"rate_limit_burst"`
	MaxRedirects   int     `envconfig:"VOLLEY_MAX_REDIRECTS" yaml:"max_redirects" toml:"max_redirects"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"VOLLEY_LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"VOLLEY_LOG_DEV" yaml:"development" toml:"development"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `envconfig:"VOLLEY_METRICS_ENABLED" yaml:"enabled" toml:"enabled"`
	Namespace string `envconfig:"VOLLEY_METRICS_NAMESPACE" yaml:"namespace" toml:"namespace"`
}

// Duration is a time.Duration written as text ("30s", "1m30s") in files
// and environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Timeout:   Duration(request.DefaultTimeout),
			UserAgent: request.DefaultUserAgent,
		},
		Transport: TransportConfig{
			MaxRedirects: transport.DefaultMaxRedirects,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: monitoring.DefaultNamespace,
		},
	}
}

// Load applies environment variables over Default.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile applies the file at path, then environment variables, over
// Default. The format follows the extension: .yaml, .yml or .toml.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.decode(filepath.Ext(path), data); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".toml":
		return toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (c *Config) applyEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// Validate rejects values the client cannot use.
func (c *Config) Validate() error {
	if c.Client.BaseURL != "" {
		u, err := url.Parse(c.Client.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid base URL %q", c.Client.BaseURL)
		}
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Client.Timeout.Std())
	}
	if c.Transport.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must not be negative: %v", c.Transport.RateLimitRPS)
	}
	return nil
}

// ClientConfig builds the request engine configuration.
func (c *Config) ClientConfig(logger *zap.Logger, tr request.Transport, observer request.Observer) request.Config {
	rc := request.DefaultConfig()
	rc.BaseURL = c.Client.BaseURL
	rc.Timeout = c.Client.Timeout.Std()
	rc.UserAgent = c.Client.UserAgent
	rc.Debug = c.Client.Debug
	rc.Transport = tr
	rc.Observer = observer
	if logger != nil {
		rc.Logger = logger
	}
	return rc
}

// TransportOptions builds the default transport configuration.
func (c *Config) TransportOptions(logger *zap.Logger) transport.Options {
	return transport.Options{
		Logger:       logger,
		RateLimit:    c.Transport.RateLimitRPS,
		Burst:        c.Transport.RateLimitBurst,
		MaxRedirects: c.Transport.MaxRedirects,
	}
}

// LoggingConfig builds the logger configuration. Client debugging forces
// the debug level so request traces are visible.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Development = c.Logging.Development
	if c.Client.Debug {
		cfg.Level = "debug"
	}
	return cfg
}
