package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "DRUGX_SERVER_HOST"
	EnvServerPort              = "DRUGX_SERVER_PORT"
	EnvServerReadTimeout       = "DRUGX_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "DRUGX_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "DRUGX_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout   = "DRUGX_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener settings. WriteTimeout bounds a whole
// check, narration included, so it must outlast the synthesis timeout.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, d := range c.durations(overlay) {
		if *d.src != "" {
			*d.dst = *d.src
		}
	}
}

type durationField struct {
	name string
	env  string
	def  string
	dst  *string
	src  *string
}

// durations lists the timeout fields. other supplies the src side for
// Merge and may be nil.
func (c *ServerConfig) durations(other *ServerConfig) []durationField {
	if other == nil {
		other = &ServerConfig{}
	}
	return []durationField{
		{"read_timeout", EnvServerReadTimeout, "30s", &c.ReadTimeout, &other.ReadTimeout},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout, &other.ReadHeaderTimeout},
		{"write_timeout", EnvServerWriteTimeout, "2m", &c.WriteTimeout, &other.WriteTimeout},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout, &other.ShutdownTimeout},
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, d := range c.durations(nil) {
		if *d.dst == "" {
			*d.dst = d.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if port, err := strconv.Atoi(os.Getenv(EnvServerPort)); err == nil {
		c.Port = port
	}
	for _, d := range c.durations(nil) {
		if v := os.Getenv(d.env); v != "" {
			*d.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, d := range c.durations(nil) {
		v, err := time.ParseDuration(*d.dst)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
