package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ProviderConfig holds connection settings for one narration provider.
type ProviderConfig struct {
	Name    string `toml:"name"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// Configured reports whether the provider has credentials.
func (p *ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// SynthesisConfig holds narration settings. Providers are tried in order,
// one attempt each.
type SynthesisConfig struct {
	OpenAI      ProviderConfig `toml:"openai"`
	Anthropic   ProviderConfig `toml:"anthropic"`
	Order       []string       `toml:"order"`
	MaxTokens   int            `toml:"max_tokens"`
	Temperature float64        `toml:"temperature"`
	Timeout     string         `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *SynthesisConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Providers returns the provider configs in attempt order.
func (c *SynthesisConfig) Providers() []ProviderConfig {
	providers := make([]ProviderConfig, 0, len(c.Order))
	for _, name := range c.Order {
		switch name {
		case ProviderOpenAI:
			providers = append(providers, c.OpenAI)
		case ProviderAnthropic:
			providers = append(providers, c.Anthropic)
		}
	}
	return providers
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SynthesisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SynthesisConfig) Merge(overlay *SynthesisConfig) {
	c.OpenAI.merge(&overlay.OpenAI)
	c.Anthropic.merge(&overlay.Anthropic)
	if overlay.Order != nil {
		c.Order = overlay.Order
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (p *ProviderConfig) merge(overlay *ProviderConfig) {
	if overlay.APIKey != "" {
		p.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		p.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		p.BaseURL = overlay.BaseURL
	}
}

func (c *SynthesisConfig) loadDefaults() {
	c.OpenAI.Name = ProviderOpenAI
	c.Anthropic.Name = ProviderAnthropic

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-3-5-sonnet-20241022"
	}
	if c.Anthropic.BaseURL == "" {
		c.Anthropic.BaseURL = "https://api.anthropic.com"
	}
	if len(c.Order) == 0 {
		c.Order = []string{ProviderOpenAI, ProviderAnthropic}
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *SynthesisConfig) loadEnv() {
	if v := os.Getenv("DRUGX_OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("DRUGX_OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv("DRUGX_OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("DRUGX_ANTHROPIC_API_KEY"); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv("DRUGX_ANTHROPIC_MODEL"); v != "" {
		c.Anthropic.Model = v
	}
	if v := os.Getenv("DRUGX_ANTHROPIC_BASE_URL"); v != "" {
		c.Anthropic.BaseURL = v
	}
	if v := os.Getenv("DRUGX_SYNTHESIS_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("DRUGX_SYNTHESIS_TIMEOUT"); v != "" {
		c.Timeout = v
	}
}

func (c *SynthesisConfig) validate() error {
	for _, name := range c.Order {
		if name != ProviderOpenAI && name != ProviderAnthropic {
			return fmt.Errorf("unknown provider %q", name)
		}
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
