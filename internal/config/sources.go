package config

import (
	"fmt"

	"github.com/JaimeStill/drugx/pkg/remote"
)

var rxnormEnv = &remote.Env{
	BaseURL:           "DRUGX_RXNORM_BASE_URL",
	Timeout:           "DRUGX_RXNORM_TIMEOUT",
	MaxRetries:        "DRUGX_RXNORM_MAX_RETRIES",
	RetryDelay:        "DRUGX_RXNORM_RETRY_DELAY",
	RequestsPerSecond: "DRUGX_RXNORM_REQUESTS_PER_SECOND",
}

var pubchemEnv = &remote.Env{
	BaseURL:           "DRUGX_PUBCHEM_BASE_URL",
	Timeout:           "DRUGX_PUBCHEM_TIMEOUT",
	MaxRetries:        "DRUGX_PUBCHEM_MAX_RETRIES",
	RetryDelay:        "DRUGX_PUBCHEM_RETRY_DELAY",
	RequestsPerSecond: "DRUGX_PUBCHEM_REQUESTS_PER_SECOND",
}

var openfdaEnv = &remote.Env{
	BaseURL:           "DRUGX_OPENFDA_BASE_URL",
	Timeout:           "DRUGX_OPENFDA_TIMEOUT",
	MaxRetries:        "DRUGX_OPENFDA_MAX_RETRIES",
	RetryDelay:        "DRUGX_OPENFDA_RETRY_DELAY",
	RequestsPerSecond: "DRUGX_OPENFDA_REQUESTS_PER_SECOND",
	APIKey:            "DRUGX_OPENFDA_API_KEY",
}

// SourcesConfig holds connection settings for the external reference authorities.
type SourcesConfig struct {
	RxNorm  remote.Config `toml:"rxnorm"`
	PubChem remote.Config `toml:"pubchem"`
	OpenFDA remote.Config `toml:"openfda"`
}

// Finalize applies per-source defaults, then each source's own finalize phases.
func (c *SourcesConfig) Finalize(userAgent string) error {
	c.loadDefaults(userAgent)

	if err := c.RxNorm.Finalize(rxnormEnv); err != nil {
		return fmt.Errorf("rxnorm: %w", err)
	}
	if err := c.PubChem.Finalize(pubchemEnv); err != nil {
		return fmt.Errorf("pubchem: %w", err)
	}
	if err := c.OpenFDA.Finalize(openfdaEnv); err != nil {
		return fmt.Errorf("openfda: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *SourcesConfig) Merge(overlay *SourcesConfig) {
	c.RxNorm.Merge(&overlay.RxNorm)
	c.PubChem.Merge(&overlay.PubChem)
	c.OpenFDA.Merge(&overlay.OpenFDA)
}

func (c *SourcesConfig) loadDefaults(userAgent string) {
	if c.RxNorm.BaseURL == "" {
		c.RxNorm.BaseURL = "https://rxnav.nlm.nih.gov/REST"
	}
	if c.RxNorm.MaxRetries == 0 {
		c.RxNorm.MaxRetries = 2
	}
	if c.RxNorm.RequestsPerSecond == 0 {
		c.RxNorm.RequestsPerSecond = 15
	}

	if c.PubChem.BaseURL == "" {
		c.PubChem.BaseURL = "https://pubchem.ncbi.nlm.nih.gov"
	}
	if c.PubChem.MaxRetries == 0 {
		c.PubChem.MaxRetries = 1
	}

	if c.OpenFDA.BaseURL == "" {
		c.OpenFDA.BaseURL = "https://api.fda.gov"
	}
	if c.OpenFDA.MaxRetries == 0 {
		c.OpenFDA.MaxRetries = 3
	}
	if c.OpenFDA.RetryDelay == "" {
		c.OpenFDA.RetryDelay = "2s"
	}
	if c.OpenFDA.RequestsPerSecond == 0 {
		c.OpenFDA.RequestsPerSecond = 4
	}

	for _, src := range []*remote.Config{&c.RxNorm, &c.PubChem, &c.OpenFDA} {
		if src.UserAgent == "" {
			src.UserAgent = userAgent
		}
	}
}
