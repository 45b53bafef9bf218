package openapi

import "os"

const (
	defaultTitle       = "DrugX API"
	defaultDescription = "Drug-drug interaction checks backed by RxNorm, DDInter, and openFDA adverse event reports."
)

// Config holds the document's info metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if env == nil {
		return nil
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{env.Title, &c.Title},
		{env.Description, &c.Description},
	} {
		if f.key == "" {
			continue
		}
		if v := os.Getenv(f.key); v != "" {
			*f.dst = v
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
