package config

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/drugx/pkg/middleware"
	"github.com/JaimeStill/drugx/pkg/openapi"
	"github.com/JaimeStill/drugx/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DRUGX_CORS_ENABLED",
	Origins:          "DRUGX_CORS_ORIGINS",
	AllowedMethods:   "DRUGX_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DRUGX_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "DRUGX_CORS_EXPOSED_HEADERS",
	AllowCredentials: "DRUGX_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DRUGX_CORS_MAX_AGE",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	Enabled:  "DRUGX_RATE_LIMIT_ENABLED",
	Rate:     "DRUGX_RATE_LIMIT_RATE",
	Capacity: "DRUGX_RATE_LIMIT_CAPACITY",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "DRUGX_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "DRUGX_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "DRUGX_OPENAPI_TITLE",
	Description: "DRUGX_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, request limits, CORS, rate limiting, and pagination settings.
type APIConfig struct {
	BasePath    string                     `toml:"base_path"`
	MaxBodySize string                     `toml:"max_body_size"`
	CORS        middleware.CORSConfig      `toml:"cors"`
	RateLimit   middleware.RateLimitConfig `toml:"rate_limit"`
	Pagination  pagination.Config          `toml:"pagination"`
	OpenAPI     openapi.Config             `toml:"openapi"`
}

const defaultMaxBodySize = "64KiB"

// MaxBodySizeBytes returns MaxBodySize in bytes. KB is decimal and KiB
// binary, so "64KiB" is 65536.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := humanize.ParseBytes(c.MaxBodySize)
	if err != nil || size == 0 {
		size, _ = humanize.ParseBytes(defaultMaxBodySize)
	}
	return int64(size)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if size, err := humanize.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	} else if size == 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.RateLimit.Merge(&overlay.RateLimit)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = defaultMaxBodySize
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("DRUGX_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("DRUGX_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
