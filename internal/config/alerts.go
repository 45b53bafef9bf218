package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/drugx/pkg/remote"
)

var pushoverEnv = &remote.Env{
	BaseURL: "DRUGX_PUSHOVER_BASE_URL",
	Timeout: "DRUGX_PUSHOVER_TIMEOUT",
}

// AlertsConfig holds operator notification settings for failed lookups.
type AlertsConfig struct {
	Pushover  remote.Config `toml:"pushover"`
	Token     string        `toml:"token"`
	User      string        `toml:"user"`
	QueueSize int           `toml:"queue_size"`
	Digest    DigestConfig  `toml:"digest"`
}

// DigestConfig schedules the daily failure summary.
type DigestConfig struct {
	Enabled bool   `toml:"enabled"`
	At      string `toml:"at"`
	Window  string `toml:"window"`
}

// WindowDuration returns Window as a time.Duration.
func (c *DigestConfig) WindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.Window)
	return d
}

// PushoverEnabled reports whether push credentials are present.
func (c *AlertsConfig) PushoverEnabled() bool {
	return c.Token != "" && c.User != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AlertsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Pushover.Finalize(pushoverEnv); err != nil {
		return fmt.Errorf("pushover: %w", err)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AlertsConfig) Merge(overlay *AlertsConfig) {
	c.Pushover.Merge(&overlay.Pushover)
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.User != "" {
		c.User = overlay.User
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
	c.Digest.Enabled = overlay.Digest.Enabled
	if overlay.Digest.At != "" {
		c.Digest.At = overlay.Digest.At
	}
	if overlay.Digest.Window != "" {
		c.Digest.Window = overlay.Digest.Window
	}
}

func (c *AlertsConfig) loadDefaults() {
	if c.Pushover.BaseURL == "" {
		c.Pushover.BaseURL = "https://api.pushover.net"
	}
	if c.Pushover.Timeout == "" {
		c.Pushover.Timeout = "10s"
	}
	if c.Pushover.MaxRetries == 0 {
		c.Pushover.MaxRetries = -1
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.Digest.At == "" {
		c.Digest.At = "08:00"
	}
	if c.Digest.Window == "" {
		c.Digest.Window = "24h"
	}
}

func (c *AlertsConfig) loadEnv() {
	if v := os.Getenv("DRUGX_PUSHOVER_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("DRUGX_PUSHOVER_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("DRUGX_ALERTS_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.QueueSize = n
		}
	}
	if v := os.Getenv("DRUGX_DIGEST_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Digest.Enabled = b
		}
	}
	if v := os.Getenv("DRUGX_DIGEST_AT"); v != "" {
		c.Digest.At = v
	}
	if v := os.Getenv("DRUGX_DIGEST_WINDOW"); v != "" {
		c.Digest.Window = v
	}
}

func (c *AlertsConfig) validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive")
	}
	if _, err := time.Parse("15:04", c.Digest.At); err != nil {
		return fmt.Errorf("invalid digest at %q: expected HH:MM", c.Digest.At)
	}
	if d, err := time.ParseDuration(c.Digest.Window); err != nil || d <= 0 {
		return fmt.Errorf("invalid digest window: %q", c.Digest.Window)
	}
	return nil
}
