package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/drugx/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDrugxEnv             = "DRUGX_ENV"
	EnvDrugxShutdownTimeout = "DRUGX_SHUTDOWN_TIMEOUT"
	EnvDrugxVersion         = "DRUGX_VERSION"
	EnvDrugxLogLevel        = "DRUGX_LOG_LEVEL"
	EnvDrugxLogFormat       = "DRUGX_LOG_FORMAT"
)

var databaseEnv = &database.Env{
	URL:             "DRUGX_DB_DSN",
	Host:            "DRUGX_DB_HOST",
	Port:            "DRUGX_DB_PORT",
	Name:            "DRUGX_DB_NAME",
	User:            "DRUGX_DB_USER",
	Password:        "DRUGX_DB_PASSWORD",
	SSLMode:         "DRUGX_DB_SSL_MODE",
	MaxOpenConns:    "DRUGX_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DRUGX_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DRUGX_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DRUGX_DB_CONN_TIMEOUT",
}

// Config is the root configuration for the drugx service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	API             APIConfig       `toml:"api"`
	Sources         SourcesConfig   `toml:"sources"`
	Synthesis       SynthesisConfig `toml:"synthesis"`
	Alerts          AlertsConfig    `toml:"alerts"`
	Pipeline        PipelineConfig  `toml:"pipeline"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
	LogLevel        string          `toml:"log_level"`
	LogFormat       string          `toml:"log_format"`
}

// Env returns the DRUGX_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDrugxEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// UserAgent identifies drugx to external reference APIs.
func (c *Config) UserAgent() string {
	return "drugx/" + c.Version
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		c.LogFormat = overlay.LogFormat
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Sources.Merge(&overlay.Sources)
	c.Synthesis.Merge(&overlay.Synthesis)
	c.Alerts.Merge(&overlay.Alerts)
	c.Pipeline.Merge(&overlay.Pipeline)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Sources.Finalize(c.UserAgent()); err != nil {
		return fmt.Errorf("sources: %w", err)
	}
	if err := c.Synthesis.Finalize(); err != nil {
		return fmt.Errorf("synthesis: %w", err)
	}
	if err := c.Alerts.Finalize(); err != nil {
		return fmt.Errorf("alerts: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if c.Server.WriteTimeoutDuration() <= c.Synthesis.TimeoutDuration() {
		return fmt.Errorf(
			"server write_timeout (%s) must exceed synthesis timeout (%s)",
			c.Server.WriteTimeout, c.Synthesis.Timeout,
		)
	}

	// each in-flight pair lookup holds one pooled connection
	if c.Database.MaxOpenConns <= c.Pipeline.PairConcurrency {
		return fmt.Errorf(
			"database max_open_conns (%d) must exceed pipeline pair_concurrency (%d)",
			c.Database.MaxOpenConns, c.Pipeline.PairConcurrency,
		)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDrugxShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDrugxVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvDrugxLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDrugxLogFormat); v != "" {
		c.LogFormat = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format: %q (want text or json)", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDrugxEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
