package config

import (
	"fmt"
	"os"
	"strconv"
)

// Upper bounds on lookup breadth. Sample statistics are computed over at
// most maxSampleCap reports, and each fallback stage retries at most
// maxFallbackTerms alternate names.
const (
	maxSampleCap     = 100
	maxFallbackTerms = 3
	maxDrugList      = 5
)

// PipelineConfig bounds the check pipeline's fan-out and lookup breadth.
type PipelineConfig struct {
	MinDrugs           int    `toml:"min_drugs"`
	MaxDrugs           int    `toml:"max_drugs"`
	ResolveConcurrency int    `toml:"resolve_concurrency"`
	PairConcurrency    int    `toml:"pair_concurrency"`
	SynonymLimit       int    `toml:"synonym_limit"`
	CandidateLimit     int    `toml:"candidate_limit"`
	SampleCap          int    `toml:"sample_cap"`
	DatasetPath        string `toml:"dataset_path"`
	ProvisionOnStartup bool   `toml:"provision_on_startup"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.MinDrugs != 0 {
		c.MinDrugs = overlay.MinDrugs
	}
	if overlay.MaxDrugs != 0 {
		c.MaxDrugs = overlay.MaxDrugs
	}
	if overlay.ResolveConcurrency != 0 {
		c.ResolveConcurrency = overlay.ResolveConcurrency
	}
	if overlay.PairConcurrency != 0 {
		c.PairConcurrency = overlay.PairConcurrency
	}
	if overlay.SynonymLimit != 0 {
		c.SynonymLimit = overlay.SynonymLimit
	}
	if overlay.CandidateLimit != 0 {
		c.CandidateLimit = overlay.CandidateLimit
	}
	if overlay.SampleCap != 0 {
		c.SampleCap = overlay.SampleCap
	}
	if overlay.DatasetPath != "" {
		c.DatasetPath = overlay.DatasetPath
	}
	c.ProvisionOnStartup = overlay.ProvisionOnStartup
}

func (c *PipelineConfig) loadDefaults() {
	if c.MinDrugs == 0 {
		c.MinDrugs = 2
	}
	if c.MaxDrugs == 0 {
		c.MaxDrugs = 5
	}
	if c.ResolveConcurrency == 0 {
		c.ResolveConcurrency = 5
	}
	if c.PairConcurrency == 0 {
		c.PairConcurrency = 10
	}
	if c.SynonymLimit == 0 {
		c.SynonymLimit = 3
	}
	if c.CandidateLimit == 0 {
		c.CandidateLimit = 3
	}
	if c.SampleCap == 0 {
		c.SampleCap = 100
	}
	if c.DatasetPath == "" {
		c.DatasetPath = "./data/ddinter_pg.csv"
	}
}

func (c *PipelineConfig) loadEnv() {
	ints := []struct {
		key string
		dst *int
	}{
		{"DRUGX_PIPELINE_RESOLVE_CONCURRENCY", &c.ResolveConcurrency},
		{"DRUGX_PIPELINE_PAIR_CONCURRENCY", &c.PairConcurrency},
		{"DRUGX_PIPELINE_SYNONYM_LIMIT", &c.SynonymLimit},
		{"DRUGX_PIPELINE_CANDIDATE_LIMIT", &c.CandidateLimit},
		{"DRUGX_PIPELINE_SAMPLE_CAP", &c.SampleCap},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*e.dst = n
			}
		}
	}
	if v := os.Getenv("DRUGX_PIPELINE_DATASET_PATH"); v != "" {
		c.DatasetPath = v
	}
	if v := os.Getenv("DRUGX_PIPELINE_PROVISION_ON_STARTUP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ProvisionOnStartup = b
		}
	}
}

func (c *PipelineConfig) validate() error {
	switch {
	case c.MinDrugs < 2:
		return fmt.Errorf("min_drugs must be at least 2")
	case c.MaxDrugs < c.MinDrugs:
		return fmt.Errorf("max_drugs (%d) must be at least min_drugs (%d)", c.MaxDrugs, c.MinDrugs)
	case c.MaxDrugs > maxDrugList:
		return fmt.Errorf("max_drugs (%d) cannot exceed %d", c.MaxDrugs, maxDrugList)
	case c.ResolveConcurrency < 1 || c.PairConcurrency < 1:
		return fmt.Errorf("concurrency limits must be positive")
	case c.SynonymLimit < 0 || c.SynonymLimit > maxFallbackTerms:
		return fmt.Errorf("synonym_limit must be between 0 and %d, got %d", maxFallbackTerms, c.SynonymLimit)
	case c.CandidateLimit < 0 || c.CandidateLimit > maxFallbackTerms:
		return fmt.Errorf("candidate_limit must be between 0 and %d, got %d", maxFallbackTerms, c.CandidateLimit)
	case c.SampleCap < 1 || c.SampleCap > maxSampleCap:
		return fmt.Errorf("sample_cap must be between 1 and %d, got %d", maxSampleCap, c.SampleCap)
	}
	return nil
}
